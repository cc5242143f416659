package lexicon

var casualWords = []string{"lol", "omg", "tbh", "ngl", "fr", "btw", "dm", "haha"}

var formalWords = []string{
	"therefore", "however", "furthermore", "regarding",
	"sincerely", "professional", "opportunity",
}

// CasualWords returns markers of an informal writing style.
func CasualWords() []string { return append([]string(nil), casualWords...) }

// FormalWords returns markers of a formal writing style.
func FormalWords() []string { return append([]string(nil), formalWords...) }
