// Package analytics derives secondary signals from profile text and posts:
// communication style, activity level and posting rhythm.
package analytics

import (
	"strings"

	"bombardier/internal/lexicon"
	"bombardier/internal/util"
)

// Communication styles.
const (
	StyleCasual   = "casual"
	StyleFormal   = "formal"
	StyleBalanced = "balanced"
)

// CommunicationStyle classifies text as casual, formal or balanced from
// marker words and emoji density.
func CommunicationStyle(text string) string {
	if strings.TrimSpace(text) == "" {
		return StyleBalanced
	}
	words := make(map[string]struct{})
	for _, w := range util.Words(text) {
		words[w] = struct{}{}
	}
	casual := countPresent(words, lexicon.CasualWords())
	formal := countPresent(words, lexicon.FormalWords())
	emoji := util.CountEmoji(text)

	switch {
	case casual > formal*2 || emoji > 3:
		return StyleCasual
	case formal > casual*2:
		return StyleFormal
	default:
		return StyleBalanced
	}
}

func countPresent(words map[string]struct{}, markers []string) int {
	n := 0
	for _, m := range markers {
		if _, ok := words[m]; ok {
			n++
		}
	}
	return n
}
