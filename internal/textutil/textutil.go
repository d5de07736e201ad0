// Package textutil holds the text normalization shared by the extractor and scorer.
package textutil

import (
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	disallowedRe = regexp.MustCompile(`[^\w\s.,!?;:()\-"']`)
	nonWordRe    = regexp.MustCompile(`[^\w]`)
	smartQuotes  = strings.NewReplacer("“", `"`, "”", `"`, "‘", "'", "’", "'", "–", "-", "—", "-")
)

// CollapseWhitespace replaces runs of whitespace with a single space and trims
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// Normalize applies NFKC and folds typographic quotes and dashes to ASCII
func Normalize(s string) string {
	return smartQuotes.Replace(norm.NFKC.String(s))
}

// Clean is the body cleaning used for extracted text: normalize, collapse
// whitespace, replace characters outside the punctuation allow-list with a
// space and collapse again.
func Clean(s string) string {
	s = CollapseWhitespace(Normalize(s))
	s = disallowedRe.ReplaceAllString(s, " ")
	return CollapseWhitespace(s)
}

// Words splits lowercased text on whitespace, stripping non-word characters
// from every token. Tokens that become empty are kept so positions line up
// with the original split.
func Words(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	for i, f := range fields {
		fields[i] = nonWordRe.ReplaceAllString(f, "")
	}
	return fields
}

// WordCount counts whitespace separated tokens
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Round1 rounds to one decimal place
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// Truncate shortens s to at most n runes, appending "..." when cut
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
