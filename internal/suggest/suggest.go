// Package suggest prepares the context a message writer needs to
// personalize outreach to one profile.
package suggest

import (
	"fmt"
	"strings"

	"bombardier/internal/analytics"
	"bombardier/internal/interest"
	"bombardier/internal/model"
)

// MaxProfileInterests caps the interests echoed back in a MessageContext.
const MaxProfileInterests = 5

// Request asks for message context for one profile.
type Request struct {
	Profile           model.ProfileSnapshot `json:"profile"`
	CampaignInterests []string              `json:"campaign_interests,omitempty"`
	Tone              string                `json:"tone,omitempty"`
}

// ValidTone reports whether tone is empty or one of the communication styles.
func ValidTone(tone string) bool {
	switch tone {
	case "", analytics.StyleCasual, analytics.StyleFormal, analytics.StyleBalanced:
		return true
	}
	return false
}

// BuildContext extracts the profile's interests, intersects them with the
// campaign's and derives talking points and a personalization score.
func BuildContext(ex *interest.Extractor, req Request) model.MessageContext {
	text := req.Profile.CombinedText()
	interests := ex.Extract(text)

	campaign := make(map[string]struct{}, len(req.CampaignInterests))
	for _, c := range req.CampaignInterests {
		campaign[strings.ToLower(c)] = struct{}{}
	}
	common := []string{}
	for _, i := range interests {
		if _, ok := campaign[i]; ok {
			common = append(common, i)
		}
	}

	points := []string{}
	if len(common) > 0 {
		points = append(points, fmt.Sprintf("Common interest in %s", common[0]))
	}
	if len(interests) > 0 {
		points = append(points, fmt.Sprintf("Their focus on %s", interests[0]))
	}
	if req.Profile.MetadataOrZero().Verified {
		points = append(points, "Acknowledge their verified status")
	}

	tone := req.Tone
	if tone == "" {
		tone = analytics.StyleBalanced
	}

	return model.MessageContext{
		RecommendedTone:      analytics.CommunicationStyle(text),
		RequestedTone:        tone,
		TalkingPoints:        points,
		CommonInterests:      common,
		ProfileInterests:     interests[:min(len(interests), MaxProfileInterests)],
		PersonalizationScore: 20*len(common) + 10*len(points),
	}
}
