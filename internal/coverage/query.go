package coverage

import (
	"regexp"
	"strings"
)

const maxQueryTerms = 4

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "of": true, "with": true, "by": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true, "will": true, "would": true, "could": true, "should": true,
}

var punctuationRe = regexp.MustCompile(`[^\w\s]`)

// QueryTerms derives a short search query from a headline: lowercase,
// punctuation dropped, words of four or more letters that are not stop
// words, first four kept.
func QueryTerms(title string) string {
	cleaned := punctuationRe.ReplaceAllString(strings.ToLower(title), " ")

	var terms []string
	for _, w := range strings.Fields(cleaned) {
		if len(w) <= 3 || stopWords[w] {
			continue
		}
		terms = append(terms, w)
		if len(terms) == maxQueryTerms {
			break
		}
	}
	return strings.Join(terms, " ")
}
