package lexicon

import "strings"

var positiveWords = map[string]float64{
	// strong
	"amazing": 0.9, "excellent": 0.9, "outstanding": 0.9, "incredible": 0.9,
	"fantastic": 0.9, "wonderful": 0.9, "brilliant": 0.9, "exceptional": 0.9,
	// moderate
	"great": 0.7, "good": 0.6, "nice": 0.5, "happy": 0.7, "love": 0.8,
	"awesome": 0.8, "beautiful": 0.7, "perfect": 0.9, "best": 0.8,
	"excited": 0.7, "grateful": 0.7, "blessed": 0.6, "thrilled": 0.8,
	"enjoy": 0.6, "appreciate": 0.6, "thankful": 0.7, "proud": 0.7,
	"successful": 0.7, "positive": 0.6, "inspiring": 0.7, "motivated": 0.6,
	// mild
	"like": 0.4, "okay": 0.2, "fine": 0.3, "cool": 0.5, "interesting": 0.4,
	"helpful": 0.5, "useful": 0.5, "recommend": 0.6, "thanks": 0.5,
}

var negativeWords = map[string]float64{
	// strong
	"terrible": -0.9, "horrible": -0.9, "awful": -0.9, "worst": -0.9,
	"disgusting": -0.9, "hate": -0.8, "disaster": -0.8, "pathetic": -0.8,
	// moderate
	"bad": -0.6, "poor": -0.5, "disappointing": -0.7, "upset": -0.6,
	"angry": -0.7, "frustrated": -0.6, "annoyed": -0.5, "sad": -0.6,
	"boring": -0.5, "waste": -0.6, "stupid": -0.7, "useless": -0.7,
	"wrong": -0.5, "failed": -0.6, "broken": -0.5, "problem": -0.4,
	// mild
	"dislike": -0.4, "meh": -0.2, "mediocre": -0.3, "issue": -0.3,
	"difficult": -0.3, "confusing": -0.4, "worried": -0.4,
}

var intensifiers = map[string]float64{
	"very": 1.5, "really": 1.4, "extremely": 1.7, "absolutely": 1.8,
	"totally": 1.5, "completely": 1.6, "incredibly": 1.7, "super": 1.4,
	"so": 1.3, "quite": 1.2, "pretty": 1.2, "highly": 1.4,
}

var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "none": {}, "nothing": {},
	"neither": {}, "nowhere": {}, "nor": {}, "cannot": {},
}

// WordScore returns the signed sentiment of a lowercase word.
func WordScore(word string) (float64, bool) {
	if v, ok := positiveWords[word]; ok {
		return v, true
	}
	v, ok := negativeWords[word]
	return v, ok
}

// Intensity returns the multiplier for an intensifier word.
func Intensity(word string) (float64, bool) {
	v, ok := intensifiers[word]
	return v, ok
}

// IsNegator reports whether word flips the sentiment of the word after it.
// Any contraction ending in "n't" counts.
func IsNegator(word string) bool {
	if strings.HasSuffix(word, "n't") {
		return true
	}
	_, ok := negators[word]
	return ok
}
