// Package lexicon holds the static reference tables shared by the analyzers:
// word sentiment scores, intensifiers, negators, emoji classes, interest
// categories, bot username signatures and spam phrase lists.
//
// Tables are package-level and never written after initialization, so every
// accessor is safe for concurrent use. Accessors that return slices return
// copies.
package lexicon
