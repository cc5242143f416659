// Package interest pulls topical keywords, hashtags and naive named entities
// out of free text and groups them into the fixed interest categories.
package interest

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"bombardier/internal/lexicon"
	"bombardier/internal/model"
	"bombardier/internal/util"
)

const (
	// MaxInterests caps the ranked interest list.
	MaxInterests = 15
	// MaxTopics caps the number of topic categories returned.
	MaxTopics = 5
	// MaxTopicMatches caps the keyword matches kept per topic.
	MaxTopicMatches = 5
)

var hashtagRe = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// Extractor is immutable after construction and safe for concurrent use.
type Extractor struct {
	categories []lexicon.Category
	keywordCat map[string]string
}

// NewExtractor builds an Extractor over the shared category table.
func NewExtractor() *Extractor {
	return &Extractor{
		categories: lexicon.Categories(),
		keywordCat: lexicon.KeywordCategories(),
	}
}

// Extract returns up to MaxInterests lowercase interests found in text,
// most relevant first.
func (e *Extractor) Extract(text string) []string {
	if text == "" {
		return []string{}
	}
	lower := strings.ToLower(text)
	found := make(map[string]struct{})

	for _, m := range hashtagRe.FindAllStringSubmatch(text, -1) {
		tag := strings.ToLower(m[1])
		if utf8.RuneCountInString(tag) > 2 {
			found[tag] = struct{}{}
		}
	}

	for _, c := range e.categories {
		for _, k := range c.Keywords {
			if strings.Contains(lower, k) {
				found[k] = struct{}{}
			}
		}
	}

	words := strings.Fields(text)
	for i, w := range words {
		if i == 0 || strings.HasSuffix(words[i-1], ".") {
			continue
		}
		clean := util.StripNonWord(w)
		first, _ := utf8.DecodeRuneInString(clean)
		if clean == "" || !unicode.IsUpper(first) || utf8.RuneCountInString(clean) <= 2 {
			continue
		}
		entity := strings.ToLower(clean)
		if lexicon.IsEntityStopWord(entity) {
			continue
		}
		found[entity] = struct{}{}
	}

	ranked := e.rank(found, lower)
	if len(ranked) > MaxInterests {
		ranked = ranked[:MaxInterests]
	}
	return ranked
}

type scoredInterest struct {
	name  string
	score int
	first int
}

// rank orders candidates by relevance. Equal scores fall back to first
// position in the text, then to lexical order.
func (e *Extractor) rank(found map[string]struct{}, lower string) []string {
	scored := make([]scoredInterest, 0, len(found))
	for name := range found {
		s := 2 * strings.Count(lower, name)
		if _, ok := e.keywordCat[name]; ok {
			s += 5
		}
		if utf8.RuneCountInString(name) > 8 {
			s += 2
		}
		first := strings.Index(lower, name)
		if first < 0 {
			first = len(lower)
		}
		scored = append(scored, scoredInterest{name: name, score: s, first: first})
	}
	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.first != b.first {
			return a.first < b.first
		}
		return a.name < b.name
	})
	out := make([]string, len(scored))
	for i, s := range scored {
		out[i] = s.name
	}
	return out
}

// ExtractTopics counts keyword occurrences per category and returns up to
// MaxTopics categories ordered by confidence.
func (e *Extractor) ExtractTopics(text string) []model.Topic {
	topics := []model.Topic{}
	if text == "" {
		return topics
	}
	lower := strings.ToLower(text)

	for _, c := range e.categories {
		var matches []model.KeywordMatch
		for _, k := range c.Keywords {
			if n := strings.Count(lower, k); n > 0 {
				matches = append(matches, model.KeywordMatch{Keyword: k, Count: n})
			}
		}
		if len(matches) == 0 {
			continue
		}
		conf := util.Round(min(float64(len(matches))/5, 1), 2)
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].Count > matches[j].Count })
		if len(matches) > MaxTopicMatches {
			matches = matches[:MaxTopicMatches]
		}
		topics = append(topics, model.Topic{Category: c.Name, Matches: matches, Confidence: conf})
	}

	sort.SliceStable(topics, func(i, j int) bool { return topics[i].Confidence > topics[j].Confidence })
	if len(topics) > MaxTopics {
		topics = topics[:MaxTopics]
	}
	return topics
}

// GetCategory returns the category of an interest, or lexicon.GeneralCategory.
func (e *Extractor) GetCategory(interest string) string {
	if c, ok := e.keywordCat[strings.ToLower(interest)]; ok {
		return c
	}
	return lexicon.GeneralCategory
}

// CategorizeInterests groups interests by category, keeping input order within each group.
func (e *Extractor) CategorizeInterests(interests []string) map[string][]string {
	out := make(map[string][]string)
	for _, i := range interests {
		c := e.GetCategory(i)
		out[c] = append(out[c], i)
	}
	return out
}

// FindCommonInterests returns the interests shared by a and b (case-insensitive,
// in a's order) followed by a "[category]" marker for every non-general
// category both lists touch.
func (e *Extractor) FindCommonInterests(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, s := range b {
		inB[strings.ToLower(s)] = struct{}{}
	}

	common := []string{}
	seen := make(map[string]struct{})
	for _, s := range a {
		l := strings.ToLower(s)
		if _, ok := inB[l]; !ok {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		common = append(common, l)
	}

	catsA := e.categorySet(a)
	catsB := e.categorySet(b)
	for _, c := range e.categories {
		_, okA := catsA[c.Name]
		_, okB := catsB[c.Name]
		if okA && okB {
			common = append(common, "["+c.Name+"]")
		}
	}
	return common
}

func (e *Extractor) categorySet(interests []string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, i := range interests {
		if c := e.GetCategory(i); c != lexicon.GeneralCategory {
			set[c] = struct{}{}
		}
	}
	return set
}
