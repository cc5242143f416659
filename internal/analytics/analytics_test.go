package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bombardier/internal/model"
)

func TestCommunicationStyle(t *testing.T) {
	cases := map[string]string{
		"":                                     StyleBalanced,
		"lol that was wild tbh":                StyleCasual,
		"However, regarding the opportunity":   StyleFormal,
		"Shipping code from Lisbon":            StyleBalanced,
		"launch day 🚀🚀🔥🎉":                      StyleCasual,
		"lol however":                          StyleBalanced,
		"Furthermore, therefore. btw sincerely": StyleFormal,
	}
	for text, want := range cases {
		assert.Equal(t, want, CommunicationStyle(text), text)
	}
}

func TestActivityPattern(t *testing.T) {
	assert.Equal(t, ActivityInactive, ActivityPattern(0))
	assert.Equal(t, ActivityOccasional, ActivityPattern(1))
	assert.Equal(t, ActivityOccasional, ActivityPattern(5))
	assert.Equal(t, ActivityModerate, ActivityPattern(6))
	assert.Equal(t, ActivityModerate, ActivityPattern(20))
	assert.Equal(t, ActivityActive, ActivityPattern(21))
	assert.Equal(t, ActivityActive, ActivityPattern(50))
	assert.Equal(t, ActivityVeryActive, ActivityPattern(51))
}

func TestPostingHours(t *testing.T) {
	posts := []model.Post{
		{Content: "a", Timestamp: "2025-01-01T09:15:00Z"},
		{Content: "b", Timestamp: "2025-01-02T09:45:00Z"},
		{Content: "c", Timestamp: "2025-01-02T12:00:00+02:00"},
		{Content: "d", Timestamp: "garbage"},
		{Content: "e"},
	}
	hist := PostingHours(posts)
	assert.Len(t, hist, 24)
	assert.Equal(t, 2, hist[9])
	assert.Equal(t, 1, hist[10])

	peak, ok := PeakHour(hist)
	assert.True(t, ok)
	assert.Equal(t, 9, peak)

	_, ok = PeakHour(PostingHours(nil))
	assert.False(t, ok)
}
