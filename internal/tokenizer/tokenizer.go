package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinKeywordLength is the shortest word kept as a search keyword.
// Words of two characters or fewer ("in", "at", "of") carry no signal.
const MinKeywordLength = 3

// Words lowercases text, splits it on whitespace and trims punctuation from
// both ends of each word. Inner punctuation stays, so "front-end" is one word.
func Words(text string) []string {
	fields := strings.Fields(strings.ToLower(text))

	words := make([]string, 0, len(fields)) // Initialize as empty slice, not nil
	for _, f := range fields {
		if w := strings.TrimFunc(f, isEdgePunct); w != "" {
			words = append(words, w)
		}
	}
	return words
}

func isEdgePunct(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// Keywords returns the words of text that are at least MinKeywordLength runes long,
// in order of appearance. Duplicates are kept.
func Keywords(text string) []string {
	words := Words(text)
	keywords := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) >= MinKeywordLength {
			keywords = append(keywords, w)
		}
	}
	return keywords
}

// Normalize lowercases text and collapses internal whitespace runs to single spaces.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
