// Package sentiment estimates the polarity of free text from three
// independent signals: a word lexicon, emoji classes, and punctuation and
// phrase patterns.
package sentiment

import (
	"regexp"
	"strings"

	"bombardier/internal/lexicon"
	"bombardier/internal/model"
	"bombardier/internal/util"
)

// Labels.
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// LabelThreshold is the |overall| beyond which text is labeled non-neutral.
const LabelThreshold = 0.2

const (
	weightLexicon = 0.5
	weightEmoji   = 0.25
	weightPattern = 0.25
)

var (
	// Inner apostrophes are kept so "don't" stays a single negating token.
	tokenRe = regexp.MustCompile(`[\p{L}\p{N}_]+(?:'[\p{L}\p{N}_]+)*`)

	positivePhrases = []*regexp.Regexp{
		regexp.MustCompile(`\b(lol|lmao|haha|hehe)\b`),
		regexp.MustCompile(`\b(thank(s|you)?)\b`),
		regexp.MustCompile(`\b(congrat(s|ulations)?)\b`),
		regexp.MustCompile(`\bwell done\b`),
		regexp.MustCompile(`\bgood (job|work)\b`),
	}
	negativePhrases = []*regexp.Regexp{
		regexp.MustCompile(`\b(ugh|ew|yuck)\b`),
		regexp.MustCompile(`\bunfortunately\b`),
		regexp.MustCompile(`\bwaste of\b`),
		regexp.MustCompile(`\b(can't|cannot) stand\b`),
	}

	apostrophes = strings.NewReplacer("’", "'", "‘", "'")
)

// Analyzer is stateless and safe for concurrent use.
type Analyzer struct{}

// NewAnalyzer returns a sentiment Analyzer.
func NewAnalyzer() *Analyzer { return &Analyzer{} }

// Analyze scores text. Empty or whitespace-only text yields a neutral
// result with zero confidence.
func (a *Analyzer) Analyze(text string) model.SentimentResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.SentimentResult{Label: LabelNeutral}
	}

	lex := weighted{lexiconSignal(text), weightLexicon}
	emo := weighted{emojiSignal(text), weightEmoji}
	pat := weighted{patternSignal(text), weightPattern}

	overall := combine(lex, emo, pat)
	conf := confidence(text, present(lex, emo, pat))

	return model.SentimentResult{
		Overall:    util.Round(overall, 3),
		Confidence: util.Round(conf, 3),
		Label:      Label(overall),
		Breakdown: model.SentimentBreakdown{
			Lexicon: util.Round(lex.ev.Score, 3),
			Emoji:   util.Round(emo.ev.Score, 3),
			Pattern: util.Round(pat.ev.Score, 3),
		},
	}
}

// AnalyzeBatch scores each text independently, preserving order.
func (a *Analyzer) AnalyzeBatch(texts []string) []model.SentimentResult {
	out := make([]model.SentimentResult, len(texts))
	for i, t := range texts {
		out[i] = a.Analyze(t)
	}
	return out
}

// Label maps an overall score to its label.
func Label(overall float64) string {
	switch {
	case overall > LabelThreshold:
		return LabelPositive
	case overall < -LabelThreshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

func tokens(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(apostrophes.Replace(text)), -1)
}

func lexiconSignal(text string) Evidence {
	words := tokens(text)
	if len(words) == 0 {
		return NoEvidence
	}
	var sum float64
	var matched int
	for i, w := range words {
		v, ok := lexicon.WordScore(w)
		if !ok {
			continue
		}
		if i > 0 {
			prev := words[i-1]
			if m, ok := lexicon.Intensity(prev); ok {
				v *= m
			}
			if lexicon.IsNegator(prev) {
				v = -v * 0.5
			}
		}
		sum += v
		matched++
	}
	if matched == 0 {
		return Observed(0)
	}
	norm := max(float64(matched), float64(len(words))/5)
	return Observed(util.Clamp(sum/norm, -1, 1))
}

func emojiSignal(text string) Evidence {
	var pos, neg, total int
	for _, r := range text {
		switch lexicon.ClassifyEmoji(r) {
		case lexicon.EmojiPositive:
			pos++
		case lexicon.EmojiNegative:
			neg++
		case lexicon.EmojiNeutral:
		default:
			continue
		}
		total++
	}
	if total == 0 {
		return NoEvidence
	}
	return Observed(util.Clamp(float64(pos-neg)*0.8/float64(total), -1, 1))
}

func patternSignal(text string) Evidence {
	var score float64
	var indicators int

	if n := strings.Count(text, "!"); n > 0 {
		indicators++
		score += min(float64(n)*0.05, 0.2)
	}
	if n := strings.Count(text, "?"); n > 0 {
		indicators++
		score -= min(float64(n)*0.02, 0.1)
	}

	fields := strings.Fields(text)
	var caps int
	for _, f := range fields {
		if util.RuneLen(f) > 2 && util.IsShouting(f) {
			caps++
		}
	}
	if caps > 0 {
		indicators++
		score += 0.1 * float64(caps) / float64(max(len(fields), 1))
	}

	lower := strings.ToLower(apostrophes.Replace(text))
	for _, re := range positivePhrases {
		if re.MatchString(lower) {
			indicators++
			score += 0.2
		}
	}
	for _, re := range negativePhrases {
		if re.MatchString(lower) {
			indicators++
			score -= 0.2
		}
	}

	if indicators == 0 {
		return NoEvidence
	}
	return Observed(util.Clamp(score, -1, 1))
}

func confidence(text string, scores []float64) float64 {
	c := 0.5
	switch n := len(strings.Fields(text)); {
	case n > 50:
		c += 0.2
	case n > 20:
		c += 0.1
	case n < 5:
		c -= 0.1
	}
	c += 0.1 * float64(len(scores))
	if len(scores) >= 2 && agree(scores) {
		c += 0.15
	}
	return util.Clamp(c, 0.1, 1)
}
