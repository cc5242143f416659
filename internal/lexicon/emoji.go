package lexicon

// EmojiClass is the sentiment polarity of an emoji.
type EmojiClass int

const (
	EmojiNone EmojiClass = iota
	EmojiPositive
	EmojiNegative
	EmojiNeutral
)

// Variation selectors are not listed: "❤️" counts once, as its base rune.
const (
	positiveEmoji = "😀😃😄😁😆😅🤣😂🙂🙃😉😊😇🥰😍🤩😘😗☺😚😙🥲😋😛😜🤪😝👍👏🎉❤💕💖💗💙💚💛🧡💜🤎🖤🤍💯✨🌟⭐🔥💪"
	negativeEmoji = "😞😔😟😕🙁☹😣😖😫😩🥺😢😭😤😠😡🤬😈👿💀👎💔😰😨😱"
	neutralEmoji  = "😐😑😶🤔🤨🧐😏🙄😬🤥"
)

var emojiClasses = buildEmojiClasses()

func buildEmojiClasses() map[rune]EmojiClass {
	m := make(map[rune]EmojiClass)
	for _, r := range neutralEmoji {
		m[r] = EmojiNeutral
	}
	for _, r := range negativeEmoji {
		m[r] = EmojiNegative
	}
	for _, r := range positiveEmoji {
		m[r] = EmojiPositive
	}
	return m
}

// ClassifyEmoji returns the polarity class of r, or EmojiNone.
func ClassifyEmoji(r rune) EmojiClass {
	return emojiClasses[r]
}
