package service

import (
	"regexp"
	"strings"

	"lorehub/internal/model"
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Sentence-ending punctuation accepted as a truncation point, CJK and ASCII.
const sentenceEnders = "。！？.!?"

// minSummaryCut is the earliest position a sentence-boundary cut is accepted
// at. Cutting earlier would throw away too much of the summary.
const minSummaryCut = 75

// GenerateSummary derives a message summary from its content: HTML tags are
// stripped, whitespace runs collapse to single spaces, and text longer than
// MaxSummaryLength runes is truncated at the last sentence-ending punctuation
// past minSummaryCut, or hard-cut with a "..." suffix when none is found.
// Operates on runes so CJK content truncates cleanly.
func GenerateSummary(content string) string {
	text := htmlTagPattern.ReplaceAllString(content, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) <= model.MaxSummaryLength {
		return text
	}

	truncated := runes[:model.MaxSummaryLength]
	for i := len(truncated) - 1; i >= minSummaryCut; i-- {
		if strings.ContainsRune(sentenceEnders, truncated[i]) {
			return string(truncated[:i+1])
		}
	}
	return string(truncated) + "..."
}
