package bot

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"bombardier/internal/model"
	"bombardier/internal/util"
)

var (
	hashtagRe = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	urlRe     = regexp.MustCompile(`https?://`)
)

func (d *Detector) analyzeUsername(username string) (float64, []string) {
	if username == "" {
		return 50, nil
	}
	var score float64
	var flags []string

	for _, sig := range d.signatures {
		if sig.Pattern.MatchString(username) {
			score += 25
			flags = append(flags, "suspicious_username_pattern:"+sig.Name)
		}
	}

	switch n := util.RuneLen(username); {
	case n < 3:
		score += 20
		flags = append(flags, "very_short_username")
	case n > 25:
		score += 10
		flags = append(flags, "very_long_username")
	}

	if !util.HasLetter(username) {
		score += 30
		flags = append(flags, "no_letters_in_username")
	}

	vowels, consonants := letterMix(username)
	if consonants > 0 && float64(vowels)/float64(max(consonants, 1)) < 0.1 {
		score += 15
		flags = append(flags, "unusual_character_distribution")
	}

	return clampScore(score), flags
}

func letterMix(s string) (vowels, consonants int) {
	for _, r := range strings.ToLower(s) {
		switch {
		case strings.ContainsRune("aeiou", r):
			vowels++
		case unicode.IsLetter(r):
			consonants++
		}
	}
	return vowels, consonants
}

func (d *Detector) analyzeBio(bio string) (float64, []string) {
	if bio == "" {
		return 30, []string{"no_bio"}
	}
	var score float64
	var flags []string
	lower := strings.ToLower(bio)

	if n := util.CountContained(lower, d.spam); n > 0 {
		score += float64(n) * 20
		flags = append(flags, fmt.Sprintf("spam_phrases:%d", n))
	}
	if n := util.CountContained(lower, d.generic); n > 0 {
		score += float64(n) * 10
		flags = append(flags, "generic_bio")
	}
	if util.CountEmoji(bio) > 10 {
		score += 15
		flags = append(flags, "excessive_emojis")
	}
	if strings.Count(bio, "#") > 5 {
		score += 20
		flags = append(flags, "excessive_hashtags")
	}
	if len(urlRe.FindAllStringIndex(bio, -1)) > 2 {
		score += 25
		flags = append(flags, "multiple_urls")
	}
	if util.RuneLen(bio) < 10 {
		score += 15
		flags = append(flags, "very_short_bio")
	}
	return clampScore(score), flags
}

func (d *Detector) analyzeMetrics(m model.Metadata) (float64, []string) {
	if m.Verified {
		return 5, []string{"verified_account"}
	}
	var score float64
	var flags []string

	if m.Following > 0 {
		ratio := float64(m.Followers) / float64(m.Following)
		switch {
		case ratio < 0.01:
			score += 40
			flags = append(flags, "suspicious_follower_ratio")
		case ratio > 100 && m.Followers > 10000:
			score += 10
			flags = append(flags, "extremely_high_follower_ratio")
		}
	}
	if m.Followers > 1000000 && m.PostsCount < 10 {
		score += 50
		flags = append(flags, "unrealistic_followers_to_posts")
	}
	if m.Following > 5000 {
		score += 25
		flags = append(flags, "mass_following")
	}
	if m.PostsCount > 100 && m.Followers < 10 {
		score += 30
		flags = append(flags, "high_activity_low_followers")
	}
	if m.PostsCount == 0 && m.Followers > 100 {
		score += 35
		flags = append(flags, "no_posts_many_followers")
	}
	return clampScore(score), flags
}

func (d *Detector) analyzeContent(posts []model.Post) (float64, []string) {
	if len(posts) == 0 {
		return 30, []string{"no_posts"}
	}
	contents := make([]string, 0, len(posts))
	for _, p := range posts {
		if p.Content != "" {
			contents = append(contents, p.Content)
		}
	}
	if len(contents) == 0 {
		return 30, []string{"empty_posts"}
	}

	var score float64
	var flags []string
	total := float64(len(contents))

	unique := make(map[string]struct{}, len(contents))
	for _, c := range contents {
		unique[c] = struct{}{}
	}
	if float64(len(unique)) < total*0.5 {
		score += 40
		flags = append(flags, "high_content_duplication")
	}

	var tags int
	uniqueTags := make(map[string]struct{})
	for _, c := range contents {
		for _, tag := range hashtagRe.FindAllString(c, -1) {
			tags++
			uniqueTags[tag] = struct{}{}
		}
	}
	if tags > 0 && float64(tags)/float64(len(uniqueTags)) > 5 {
		score += 25
		flags = append(flags, "repetitive_hashtags")
	}

	var length int
	for _, c := range contents {
		length += util.RuneLen(c)
	}
	if float64(length)/total < 20 {
		score += 20
		flags = append(flags, "very_short_posts")
	}

	var promo int
	for _, c := range contents {
		if util.CountContained(strings.ToLower(c), d.promo) > 0 {
			promo++
		}
	}
	if float64(promo) > total*0.5 {
		score += 35
		flags = append(flags, "high_promotional_content")
	}

	return clampScore(score), flags
}
