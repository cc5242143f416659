package analytics

import (
	"bombardier/internal/bot"
	"bombardier/internal/model"
)

// Activity patterns by number of posts in the snapshot.
const (
	ActivityInactive   = "inactive"
	ActivityOccasional = "occasional"
	ActivityModerate   = "moderate"
	ActivityActive     = "active"
	ActivityVeryActive = "very_active"
)

// ActivityPattern labels how much a profile posts.
func ActivityPattern(posts int) string {
	switch {
	case posts > 50:
		return ActivityVeryActive
	case posts > 20:
		return ActivityActive
	case posts > 5:
		return ActivityModerate
	case posts > 0:
		return ActivityOccasional
	default:
		return ActivityInactive
	}
}

// PostingHours buckets parsable post timestamps by UTC hour of day.
// The result always has 24 entries.
func PostingHours(posts []model.Post) []int {
	hist := make([]int, 24)
	for _, t := range bot.PostTimes(posts) {
		hist[t.UTC().Hour()]++
	}
	return hist
}

// PeakHour returns the busiest hour in a PostingHours histogram, the
// earliest on ties, and false when the histogram is empty.
func PeakHour(hist []int) (int, bool) {
	best, peak := 0, -1
	for h, n := range hist {
		if n > best {
			best, peak = n, h
		}
	}
	return peak, peak >= 0
}
