package extractor

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/NullMeDev/mediabias/internal/textutil"
)

const (
	maxReadableParagraphs = 30
	minReadableLen        = 30
)

var (
	attributionRe = regexp.MustCompile(`(?i)\b(said|according|reported|stated|announced)\b`)
	quantityRe    = regexp.MustCompile(`(?i)\b(percent|million|billion|thousand|year|month|day)s?\b`)
	longQuoteRe   = regexp.MustCompile(`"[^"]{20,}"`)
	boilerplateRe = regexp.MustCompile(`(?i)cookie|subscribe|advertisement|click here|sign up|newsletter`)
	sentenceEndRe = regexp.MustCompile(`[.!?]`)
)

type paragraph struct {
	text  string
	score int
	index int
}

// scoreParagraph rates how much a block of text looks like article prose
func scoreParagraph(text string) int {
	score := 0
	n := len(text)
	words := textutil.WordCount(text)

	if n > 50 {
		score++
	}
	if n > 100 {
		score += 2
	}
	if n > 200 {
		score++
	}
	if strings.Contains(text, ".") {
		score++
	}
	if words > 15 {
		score += 2
	}
	if words > 30 {
		score++
	}

	if attributionRe.MatchString(text) {
		score += 2
	}
	if quantityRe.MatchString(text) {
		score++
	}
	if longQuoteRe.MatchString(text) {
		score += 2
	}

	if boilerplateRe.MatchString(text) {
		score -= 3
	}
	if n < 20 {
		score -= 2
	}
	if !sentenceEndRe.MatchString(text) {
		score--
	}
	return score
}

// readableText keeps the best scoring paragraphs, up to 30, in document order
func readableText(doc *goquery.Document) string {
	var paragraphs []paragraph
	doc.Find("p").Each(func(i int, s *goquery.Selection) {
		text := textutil.Clean(nodeText(s))
		if score := scoreParagraph(text); score > 0 {
			paragraphs = append(paragraphs, paragraph{text: text, score: score, index: i})
		}
	})

	sort.SliceStable(paragraphs, func(i, j int) bool {
		return paragraphs[i].score > paragraphs[j].score
	})
	if len(paragraphs) > maxReadableParagraphs {
		paragraphs = paragraphs[:maxReadableParagraphs]
	}
	sort.SliceStable(paragraphs, func(i, j int) bool {
		return paragraphs[i].index < paragraphs[j].index
	})

	var kept []string
	for _, p := range paragraphs {
		if len(p.text) > minReadableLen {
			kept = append(kept, p.text)
		}
	}
	return strings.Join(kept, " ")
}
