// Package insights computes writing-style statistics over a user's posts.
// The numbers are descriptive only and never feed back into scoring.
package insights

import (
	"strings"
	"unicode"
)

// StyleInsights summarizes how a user writes across their posts. All averages
// are per post; EmojiUsagePercent is the share of posts containing at least
// one emoji.
type StyleInsights struct {
	PostCount              int     `json:"post_count"`
	AvgPostLengthChars     float64 `json:"avg_post_length_chars"`
	AvgPostLengthWords     float64 `json:"avg_post_length_words"`
	EmojiCount             int     `json:"emoji_count"`
	HashtagCount           int     `json:"hashtag_count"`
	EmojiUsagePercent      float64 `json:"emoji_usage_percent"`
	AvgExclamationsPerPost float64 `json:"avg_exclamations_per_post"`
}

// emojiRanges covers the Unicode blocks commonly used for emoji: emoticons,
// pictographs, transport symbols, supplemental symbols, and the legacy
// dingbats/misc-symbols blocks.
var emojiRanges = &unicode.RangeTable{
	R32: []unicode.Range32{
		{Lo: 0x2600, Hi: 0x27BF, Stride: 1},   // misc symbols and dingbats
		{Lo: 0x1F300, Hi: 0x1F5FF, Stride: 1}, // misc symbols and pictographs
		{Lo: 0x1F600, Hi: 0x1F64F, Stride: 1}, // emoticons
		{Lo: 0x1F680, Hi: 0x1F6FF, Stride: 1}, // transport and map symbols
		{Lo: 0x1F900, Hi: 0x1F9FF, Stride: 1}, // supplemental symbols
		{Lo: 0x1FA70, Hi: 0x1FAFF, Stride: 1}, // symbols and pictographs extended
	},
}

// Analyze computes style statistics for the given posts. Blank posts are
// skipped; an empty or all-blank input returns a zeroed struct.
func Analyze(posts []string) StyleInsights {
	var out StyleInsights
	var totalChars, totalWords, totalExclamations int
	var postsWithEmoji int

	for _, post := range posts {
		post = strings.TrimSpace(post)
		if post == "" {
			continue
		}
		out.PostCount++

		hasEmoji := false
		for _, r := range post {
			totalChars++
			switch {
			case unicode.Is(emojiRanges, r):
				out.EmojiCount++
				hasEmoji = true
			case r == '!':
				totalExclamations++
			}
		}
		if hasEmoji {
			postsWithEmoji++
		}

		totalWords += len(strings.Fields(post))
		out.HashtagCount += countHashtags(post)
	}

	if out.PostCount == 0 {
		return out
	}

	n := float64(out.PostCount)
	out.AvgPostLengthChars = float64(totalChars) / n
	out.AvgPostLengthWords = float64(totalWords) / n
	out.EmojiUsagePercent = float64(postsWithEmoji) / n * 100
	out.AvgExclamationsPerPost = float64(totalExclamations) / n
	return out
}

// countHashtags counts '#' tokens immediately followed by a letter or digit,
// so "#Wellness" counts but a bare "#" or "# " does not.
func countHashtags(post string) int {
	count := 0
	runes := []rune(post)
	for i, r := range runes {
		if r != '#' {
			continue
		}
		if i+1 < len(runes) && (unicode.IsLetter(runes[i+1]) || unicode.IsDigit(runes[i+1])) {
			count++
		}
	}
	return count
}
