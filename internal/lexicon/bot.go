package lexicon

import "regexp"

// UsernameSignature is a named username pattern typical of generated accounts.
type UsernameSignature struct {
	Name    string
	Pattern *regexp.Regexp
}

var usernameSignatures = []UsernameSignature{
	{"trailing_digits", regexp.MustCompile(`(?i)\d{6,}$`)},
	{"letters_then_digits", regexp.MustCompile(`(?i)^[a-z]{3,5}\d{4,}`)},
	{"bot_suffix", regexp.MustCompile(`(?i)bot$`)},
	{"user_prefix", regexp.MustCompile(`(?i)^user\d+`)},
	{"alternating_letters_digits", regexp.MustCompile(`(?i)[a-z]{1,3}\d+[a-z]{1,3}\d+`)},
}

var spamBioPhrases = []string{
	"follow back", "f4f", "follow for follow", "dm for promo",
	"link in bio", "check link", "free followers", "get followers",
	"grow your", "make money", "work from home", "earn $",
	"click here", "limited time", "act now", "special offer",
}

var genericBioPhrases = []string{
	"just here", "living life", "lover of life", "follow me",
	"entrepreneur", "influencer", "content creator", "dreamer",
}

var promoKeywords = []string{"buy", "sale", "discount", "link", "shop", "promo"}

// UsernameSignatures returns the bot username signatures in fixed order.
func UsernameSignatures() []UsernameSignature {
	return append([]UsernameSignature(nil), usernameSignatures...)
}

// SpamBioPhrases returns lowercase phrases typical of spam bios.
func SpamBioPhrases() []string { return append([]string(nil), spamBioPhrases...) }

// GenericBioPhrases returns lowercase phrases typical of filler bios.
func GenericBioPhrases() []string { return append([]string(nil), genericBioPhrases...) }

// PromoKeywords returns lowercase keywords that mark promotional posts.
func PromoKeywords() []string { return append([]string(nil), promoKeywords...) }
