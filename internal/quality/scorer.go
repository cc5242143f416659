// Package quality composes bot, sentiment and interest results with account
// metadata into one outreach quality score, and ranks profiles by it.
package quality

import (
	"sort"
	"strings"

	"bombardier/internal/model"
	"bombardier/internal/util"
)

// Component names used in QualityScore.Components.
const (
	ComponentAuthenticity  = "authenticity"
	ComponentEngagement    = "engagement"
	ComponentRelevance     = "relevance"
	ComponentAccessibility = "accessibility"
)

const (
	WeightAuthenticity  = 0.30
	WeightEngagement    = 0.25
	WeightRelevance     = 0.25
	WeightAccessibility = 0.20
)

// Recommendations, best first.
const (
	HighPriority = "high_priority"
	GoodTarget   = "good_target"
	Consider     = "consider"
	Skip         = "skip"
)

const (
	// DefaultBotScore stands in for a missing bot score.
	DefaultBotScore = 50.0
	// DefaultMinScore and DefaultMaxCount are the FilterProfiles defaults.
	DefaultMinScore = 40.0
	DefaultMaxCount = 100
)

var recommendationText = map[string]string{
	HighPriority: "Excellent target - prioritize outreach",
	GoodTarget:   "Good target - include in campaign",
	Consider:     "Moderate target - consider for larger campaigns",
	Skip:         "Low quality target - skip or deprioritize",
}

// Input is everything the scorer needs about one profile. Username and
// Platform only identify the profile in ranked output.
type Input struct {
	Username        string                `json:"username,omitempty"`
	Platform        string                `json:"platform,omitempty"`
	BotScore        *float64              `json:"bot_score,omitempty"`
	Metadata        model.Metadata        `json:"metadata"`
	Interests       []string              `json:"interests"`
	TargetInterests []string              `json:"target_interests,omitempty"`
	Sentiment       model.SentimentResult `json:"sentiment"`
}

// RankedProfile is an Input with its computed score attached.
type RankedProfile struct {
	Input
	QualityScore model.QualityScore `json:"quality_score"`
}

// Scorer is stateless and safe for concurrent use.
type Scorer struct{}

// NewScorer returns a Scorer.
func NewScorer() *Scorer { return &Scorer{} }

// Score computes the quality verdict for one profile.
func (s *Scorer) Score(in Input) model.QualityScore {
	bot := DefaultBotScore
	if in.BotScore != nil {
		bot = *in.BotScore
	}

	authenticity := util.Clamp(100-bot, 0, 100)
	engagement := engagementScore(in.Metadata)
	relevance := relevanceScore(in.Interests, in.TargetInterests)
	accessibility := accessibilityScore(in.Metadata, in.Sentiment.Overall)

	overall := authenticity*WeightAuthenticity +
		engagement*WeightEngagement +
		relevance*WeightRelevance +
		accessibility*WeightAccessibility

	rec := Recommendation(overall)
	return model.QualityScore{
		Overall: util.Round(overall, 1),
		Components: map[string]float64{
			ComponentAuthenticity:  util.Round(authenticity, 1),
			ComponentEngagement:    util.Round(engagement, 1),
			ComponentRelevance:     util.Round(relevance, 1),
			ComponentAccessibility: util.Round(accessibility, 1),
		},
		Recommendation:     rec,
		RecommendationText: recommendationText[rec],
		Tier:               Tier(overall),
	}
}

// Recommendation maps an overall score to an outreach recommendation.
func Recommendation(overall float64) string {
	switch {
	case overall >= 75:
		return HighPriority
	case overall >= 50:
		return GoodTarget
	case overall >= 30:
		return Consider
	default:
		return Skip
	}
}

// Tier maps an overall score to a letter grade.
func Tier(overall float64) string {
	switch {
	case overall >= 80:
		return "S"
	case overall >= 65:
		return "A"
	case overall >= 50:
		return "B"
	case overall >= 35:
		return "C"
	default:
		return "D"
	}
}

// RankProfiles scores every input and sorts by overall score, highest
// first. Equal scores keep their input order.
func (s *Scorer) RankProfiles(inputs []Input) []RankedProfile {
	out := make([]RankedProfile, len(inputs))
	for i, in := range inputs {
		out[i] = RankedProfile{Input: in, QualityScore: s.Score(in)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].QualityScore.Overall > out[j].QualityScore.Overall
	})
	return out
}

// FilterProfiles ranks inputs and keeps at most maxCount whose overall
// score is at least minScore.
func (s *Scorer) FilterProfiles(inputs []Input, minScore float64, maxCount int) []RankedProfile {
	out := []RankedProfile{}
	for _, p := range s.RankProfiles(inputs) {
		if len(out) >= maxCount {
			break
		}
		if p.QualityScore.Overall >= minScore {
			out = append(out, p)
		}
	}
	return out
}

func engagementScore(m model.Metadata) float64 {
	score := 50.0
	if m.Verified {
		score += 20
	}

	switch {
	case m.Followers > 10000:
		score += 15
	case m.Followers > 1000:
		score += 10
	case m.Followers > 100:
		score += 5
	case m.Followers < 10:
		score -= 10
	}

	if m.Following > 0 {
		switch ratio := float64(m.Followers) / float64(m.Following); {
		case ratio > 2:
			score += 15
		case ratio > 1:
			score += 10
		case ratio < 0.1:
			score -= 15
		}
	}

	switch {
	case m.PostsCount > 100:
		score += 10
	case m.PostsCount > 20:
		score += 5
	case m.PostsCount < 5:
		score -= 10
	}
	return util.Clamp(score, 0, 100)
}

func relevanceScore(interests, targets []string) float64 {
	if len(interests) == 0 {
		return 30
	}
	if len(targets) == 0 {
		return 50
	}
	profile := lowerSet(interests)
	target := lowerSet(targets)

	score := 30.0
	for p := range profile {
		if _, ok := target[p]; ok {
			score += 15
		}
	}
	// exact matches also count as a substring pair
	for p := range profile {
		for t := range target {
			if strings.Contains(t, p) || strings.Contains(p, t) {
				score += 5
			}
		}
	}
	return util.Clamp(score, 0, 100)
}

func accessibilityScore(m model.Metadata, sentiment float64) float64 {
	score := 50.0
	switch {
	case sentiment > 0.3:
		score += 20
	case sentiment > 0:
		score += 10
	case sentiment < -0.3:
		score -= 15
	}

	if m.Verified {
		score -= 10
	}

	switch {
	case m.Followers > 100000:
		score -= 20
	case m.Followers > 10000:
		score -= 10
	case m.Followers < 100:
		score += 10
	}

	switch {
	case m.PostsCount > 50:
		score += 10
	case m.PostsCount < 5:
		score -= 10
	}
	return util.Clamp(score, 0, 100)
}

func lowerSet(xs []string) map[string]struct{} {
	set := make(map[string]struct{}, len(xs))
	for _, x := range xs {
		set[strings.ToLower(x)] = struct{}{}
	}
	return set
}
