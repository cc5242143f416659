// Package util holds small text and number helpers shared by the analyzers.
package util

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var wordRun = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// EmojiFloor is the code point above which a rune is counted as an emoji
// (U+1F1E6, the first regional indicator).
const EmojiFloor = 0x1F1E6

// CountContained returns how many needles occur in the already lowercased text.
func CountContained(lower string, needles []string) int {
	n := 0
	for _, needle := range needles {
		if strings.Contains(lower, needle) {
			n++
		}
	}
	return n
}

// Words lowercases s and returns its runs of letters, digits and underscores.
func Words(s string) []string {
	return wordRun.FindAllString(strings.ToLower(s), -1)
}

// StripNonWord removes every rune that is not a letter, digit or underscore.
func StripNonWord(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// CountEmoji counts runes strictly above EmojiFloor.
func CountEmoji(s string) int {
	n := 0
	for _, r := range s {
		if r > EmojiFloor {
			n++
		}
	}
	return n
}

// RuneLen is the length of s in characters.
func RuneLen(s string) int { return utf8.RuneCountInString(s) }

// IsShouting reports whether w has at least one cased letter and no lowercase letters.
func IsShouting(w string) bool {
	cased := false
	for _, r := range w {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

// HasLetter reports whether s contains any alphabetic rune.
func HasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// Round rounds x to the given number of decimal places.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// Clamp bounds x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
