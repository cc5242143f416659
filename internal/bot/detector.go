// Package bot scores how likely a profile is to be automated or inauthentic.
//
// Five independent sub-analyses (username, bio, metrics, content, temporal)
// each produce a 0-100 score and explanatory flags; the final score is their
// fixed weighted sum.
package bot

import (
	"sort"

	"bombardier/internal/lexicon"
	"bombardier/internal/model"
	"bombardier/internal/util"
)

// Component names used in BotResult.ComponentScores.
const (
	ComponentUsername = "username"
	ComponentBio      = "bio"
	ComponentMetrics  = "metrics"
	ComponentContent  = "content"
	ComponentTemporal = "temporal"
)

// Weights of the sub-scores; they sum to 1.
const (
	WeightUsername = 0.15
	WeightBio      = 0.15
	WeightMetrics  = 0.25
	WeightContent  = 0.25
	WeightTemporal = 0.20
)

// BotThreshold is the score above which a profile is reported as a bot.
const BotThreshold = 50.0

// Detector runs the bot heuristics. It holds only immutable tables and is
// safe for concurrent use.
type Detector struct {
	signatures []lexicon.UsernameSignature
	spam       []string
	generic    []string
	promo      []string
}

// NewDetector builds a Detector over the shared lexicon tables.
func NewDetector() *Detector {
	return &Detector{
		signatures: lexicon.UsernameSignatures(),
		spam:       lexicon.SpamBioPhrases(),
		generic:    lexicon.GenericBioPhrases(),
		promo:      lexicon.PromoKeywords(),
	}
}

// Analyze scores a profile snapshot.
func (d *Detector) Analyze(p model.ProfileSnapshot) model.BotResult {
	flags := newFlagSet()

	username, f := d.analyzeUsername(p.Username)
	flags.add(f...)
	bio, f := d.analyzeBio(p.Bio)
	flags.add(f...)
	metrics, f := d.analyzeMetrics(p.MetadataOrZero())
	flags.add(f...)
	content, f := d.analyzeContent(p.Posts)
	flags.add(f...)
	temporal, f := d.analyzeTemporal(p.Posts)
	flags.add(f...)

	final := username*WeightUsername +
		bio*WeightBio +
		metrics*WeightMetrics +
		content*WeightContent +
		temporal*WeightTemporal

	return model.BotResult{
		Score:      util.Round(final, 1),
		IsBot:      final > BotThreshold,
		Confidence: confidence(p),
		Flags:      flags.sorted(),
		ComponentScores: map[string]float64{
			ComponentUsername: username,
			ComponentBio:      bio,
			ComponentMetrics:  metrics,
			ComponentContent:  content,
			ComponentTemporal: temporal,
		},
	}
}

// confidence grows with the amount of evidence the snapshot carries.
func confidence(p model.ProfileSnapshot) float64 {
	c := 0.5
	if p.Bio != "" {
		c += 0.1
	}
	if p.Metadata != nil {
		c += 0.15
	}
	switch n := len(p.Posts); {
	case n > 10:
		c += 0.2
	case n > 3:
		c += 0.1
	}
	return min(util.Round(c, 2), 1.0)
}

type flagSet map[string]struct{}

func newFlagSet() flagSet { return make(flagSet) }

func (s flagSet) add(flags ...string) {
	for _, f := range flags {
		s[f] = struct{}{}
	}
}

func (s flagSet) sorted() []string {
	out := make([]string, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func clampScore(score float64) float64 { return util.Clamp(score, 0, 100) }
