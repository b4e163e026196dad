// Package readtime derives display stats from rich post content.
// Everything here is pure: stats are recomputed from the current content on
// each change and never persisted.
package readtime

import (
	"regexp"
	"strings"
)

// WordsPerMinute is the assumed reading speed for the read-time estimate.
const WordsPerMinute = 200

// MinPublishLength is the minimum stripped-content length (in characters)
// before a post may be published.
const MinPublishLength = 100

var (
	tagRe    = regexp.MustCompile(`<[^>]*>`)
	entityRe = regexp.MustCompile(`&[a-zA-Z#0-9]+;`)
)

// Stats summarizes the text of a post body.
type Stats struct {
	CharacterCount  int `json:"characterCount"`
	WordCount       int `json:"wordCount"`
	ReadTimeMinutes int `json:"readTimeMinutes"`
}

// StripHTML removes markup and entities, leaving whitespace-normalized text.
func StripHTML(html string) string {
	s := tagRe.ReplaceAllString(html, " ")
	s = entityRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// Compute derives stats from rich HTML content.
func Compute(html string) Stats {
	text := StripHTML(html)
	words := len(strings.Fields(text))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return Stats{
		CharacterCount:  len([]rune(text)),
		WordCount:       words,
		ReadTimeMinutes: minutes,
	}
}

// CanPublish reports whether the content is long enough to publish.
// The boundary is inclusive: exactly MinPublishLength characters passes.
func CanPublish(html string) bool {
	return len([]rune(StripHTML(html))) >= MinPublishLength
}
