package bot

import (
	"math"
	"sort"
	"time"

	"bombardier/internal/model"
)

const minTemporalSamples = 3

// timestampLayouts are tried in order; zone-less forms are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp reads an ISO-8601 timestamp. It reports false for empty or
// unparsable input; callers drop such posts from temporal analysis.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// PostTimes returns the parsable timestamps of posts, in post order.
func PostTimes(posts []model.Post) []time.Time {
	out := make([]time.Time, 0, len(posts))
	for _, p := range posts {
		if t, ok := ParseTimestamp(p.Timestamp); ok {
			out = append(out, t)
		}
	}
	return out
}

func (d *Detector) analyzeTemporal(posts []model.Post) (float64, []string) {
	insufficient := []string{"insufficient_temporal_data"}
	if len(posts) < minTemporalSamples {
		return 30, insufficient
	}
	times := PostTimes(posts)
	if len(times) < minTemporalSamples {
		return 30, insufficient
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	intervals := make([]float64, 0, len(times)-1)
	for i := 1; i < len(times); i++ {
		intervals = append(intervals, times[i].Sub(times[i-1]).Seconds())
	}

	var score float64
	var flags []string

	mean, stdev := meanStdev(intervals)
	if mean > 0 && stdev/mean < 0.1 {
		score += 50
		flags = append(flags, "suspiciously_regular_posting")
	}

	var bursts int
	for _, iv := range intervals {
		if iv < 60 {
			bursts++
		}
	}
	if float64(bursts) > float64(len(intervals))*0.3 {
		score += 35
		flags = append(flags, "burst_posting_pattern")
	}

	hours := make(map[int]struct{}, 24)
	for _, t := range times {
		hours[t.Hour()] = struct{}{}
	}
	if len(times) >= 20 && len(hours) > 20 {
		score += 30
		flags = append(flags, "no_sleep_pattern")
	}

	return clampScore(score), flags
}

// meanStdev returns the mean and population standard deviation of xs.
func meanStdev(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	var sq float64
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(sq / float64(len(xs)))
}
