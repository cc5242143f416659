package model

import "time"

// ProfileSnapshot is the read-only view of a social profile handed to the analyzers.
// Missing optional fields take their zero values: empty bio, no metadata, no posts.
type ProfileSnapshot struct {
	Platform string    `json:"platform"`
	Username string    `json:"username"`
	Bio      string    `json:"bio,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
	Posts    []Post    `json:"posts,omitempty"`
}

// Metadata holds public account counters. A nil *Metadata means the caller had none.
type Metadata struct {
	Followers  int  `json:"followers"`
	Following  int  `json:"following"`
	PostsCount int  `json:"posts_count"`
	Verified   bool `json:"verified"`
}

// Post is a single piece of profile content. Timestamp is an optional ISO-8601 string.
type Post struct {
	ID        string `json:"id,omitempty"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// MetadataOrZero returns the metadata or the documented defaults when absent.
func (p ProfileSnapshot) MetadataOrZero() Metadata {
	if p.Metadata == nil {
		return Metadata{}
	}
	return *p.Metadata
}

// BotResult is the bot-likelihood verdict for one profile.
type BotResult struct {
	Score           float64            `json:"score"`
	IsBot           bool               `json:"is_bot"`
	Confidence      float64            `json:"confidence"`
	Flags           []string           `json:"flags"`
	ComponentScores map[string]float64 `json:"component_scores"`
}

// SentimentResult is a signed sentiment estimate for a piece of text.
type SentimentResult struct {
	Overall    float64            `json:"overall"`
	Confidence float64            `json:"confidence"`
	Label      string             `json:"label"`
	Breakdown  SentimentBreakdown `json:"breakdown"`
}

// SentimentBreakdown reports each signal; a signal without evidence reports 0.
type SentimentBreakdown struct {
	Lexicon float64 `json:"lexicon"`
	Emoji   float64 `json:"emoji"`
	Pattern float64 `json:"pattern"`
}

// KeywordMatch counts occurrences of one category keyword.
type KeywordMatch struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Topic groups keyword matches under an interest category.
type Topic struct {
	Category   string         `json:"category"`
	Matches    []KeywordMatch `json:"matches"`
	Confidence float64        `json:"confidence"`
}

// QualityScore is the composite outreach verdict.
type QualityScore struct {
	Overall            float64            `json:"overall"`
	Components         map[string]float64 `json:"components"`
	Recommendation     string             `json:"recommendation"`
	RecommendationText string             `json:"recommendation_text"`
	Tier               string             `json:"tier"`
}

// ProfileAnalysis bundles every analyzer output for one profile.
type ProfileAnalysis struct {
	BotDetection       BotResult       `json:"bot_detection"`
	Sentiment          SentimentResult `json:"sentiment"`
	Interests          []string        `json:"interests"`
	Topics             []Topic         `json:"topics"`
	QualityScore       QualityScore    `json:"quality_score"`
	CommunicationStyle string          `json:"communication_style"`
	ActivityPattern    string          `json:"activity_pattern"`
	PostingHours       []int           `json:"posting_hours"`
	// PeakPostingHour is the busiest UTC hour; nil without parsable timestamps.
	PeakPostingHour *int `json:"peak_posting_hour"`
}

// InterestResult is returned by interest-only extraction.
type InterestResult struct {
	Interests   []string            `json:"interests"`
	Topics      []Topic             `json:"topics"`
	Categorized map[string][]string `json:"categorized"`
}

// MessageContext carries what a message writer needs to personalize outreach.
type MessageContext struct {
	RecommendedTone      string   `json:"recommended_tone"`
	RequestedTone        string   `json:"requested_tone,omitempty"`
	TalkingPoints        []string `json:"talking_points"`
	CommonInterests      []string `json:"common_interests"`
	ProfileInterests     []string `json:"profile_interests"`
	PersonalizationScore int      `json:"personalization_score"`
}

// User represents a subset of X user fields used by the tool.
type User struct {
	ID             string
	Username       string
	Name           string
	Description    string
	CreatedAt      time.Time
	FollowersCount int
	FollowingCount int
	TweetCount     int
	ListedCount    int
	Verified       bool
	URL            string
}

// Tweet represents a subset of X tweet fields used by the tool.
type Tweet struct {
	ID        string
	AuthorID  string
	Text      string
	CreatedAt time.Time
	Language  string
}
