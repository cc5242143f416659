package lexicon

// Category is a named group of interest keywords.
type Category struct {
	Name     string
	Keywords []string
}

// GeneralCategory is reported for interests outside every category.
const GeneralCategory = "general"

var categories = []Category{
	{"technology", []string{
		"tech", "coding", "programming", "developer", "software", "hardware",
		"ai", "artificial intelligence", "machine learning", "ml", "data science",
		"blockchain", "crypto", "web3", "nft", "startup", "saas", "api",
		"javascript", "python", "react", "node", "ios", "android", "app",
		"cloud", "devops", "cybersecurity", "hacking", "opensource",
	}},
	{"business", []string{
		"entrepreneur", "entrepreneurship", "startup", "founder", "ceo", "cto",
		"business", "marketing", "sales", "growth", "revenue", "investment",
		"venture", "vc", "funding", "money", "finance", "fintech", "banking",
		"stocks", "trading", "real estate", "consulting", "strategy",
	}},
	{"creative", []string{
		"design", "designer", "art", "artist", "creative", "photography",
		"photo", "video", "film", "music", "musician", "producer", "dj",
		"writing", "writer", "author", "content", "creator", "influencer",
		"fashion", "style", "aesthetic", "visual", "graphic", "ui", "ux",
	}},
	{"sports", []string{
		"fitness", "gym", "workout", "training", "sports", "athlete",
		"running", "marathon", "cycling", "swimming", "yoga", "meditation",
		"football", "soccer", "basketball", "baseball", "tennis", "golf",
		"crossfit", "bodybuilding", "weightlifting", "hiking", "climbing",
	}},
	{"entertainment", []string{
		"gaming", "gamer", "esports", "twitch", "streaming", "youtube",
		"movies", "film", "tv", "netflix", "anime", "manga", "comics",
		"music", "concerts", "festivals", "podcast", "comedy", "memes",
	}},
	{"lifestyle", []string{
		"travel", "adventure", "wanderlust", "backpacking", "foodie", "food",
		"cooking", "chef", "wine", "coffee", "wellness", "health", "vegan",
		"sustainable", "minimalist", "luxury", "lifestyle", "parenting", "family",
	}},
	{"education", []string{
		"learning", "education", "teacher", "professor", "student", "university",
		"research", "science", "physics", "chemistry", "biology", "math",
		"history", "philosophy", "psychology", "sociology", "economics",
	}},
	{"social", []string{
		"activism", "social", "community", "nonprofit", "charity", "volunteer",
		"politics", "environment", "climate", "sustainability", "diversity",
		"inclusion", "equality", "justice", "human rights", "mental health",
	}},
}

var entityStopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "this": {}, "that": {},
}

// Categories returns a copy of the category table in its fixed order.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = Category{Name: c.Name, Keywords: append([]string(nil), c.Keywords...)}
	}
	return out
}

// KeywordCategories maps every keyword to its category. A keyword listed in
// several categories belongs to the last one in table order.
func KeywordCategories() map[string]string {
	m := make(map[string]string)
	for _, c := range categories {
		for _, k := range c.Keywords {
			m[k] = c.Name
		}
	}
	return m
}

// IsEntityStopWord reports whether a lowercase capitalized token is too common to be an entity.
func IsEntityStopWord(w string) bool {
	_, ok := entityStopWords[w]
	return ok
}
