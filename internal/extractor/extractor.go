// Package extractor turns raw page markup into an ExtractedArticle using
// ordered selector fallbacks per field.
package extractor

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/NullMeDev/mediabias/internal/apperrors"
	"github.com/NullMeDev/mediabias/internal/model"
	"github.com/NullMeDev/mediabias/internal/textutil"
)

const (
	minTitleLen       = 10
	maxTitleLen       = 200
	minContainerLen   = 500
	minAuthorLen      = 2
	maxAuthorLen      = 100
	minSourceLen      = 2
	defaultAuthor     = "Unknown Author"
	defaultMinBodyLen = 100
)

var bylinePrefixRe = regexp.MustCompile(`(?i)^(by|author)\b:?\s*`)

// Extractor is safe for concurrent use
type Extractor struct {
	minBodyLen int
	now        func() time.Time
}

// New creates an Extractor that rejects bodies shorter than minBodyLen
func New(minBodyLen int) *Extractor {
	if minBodyLen <= 0 {
		minBodyLen = defaultMinBodyLen
	}
	return &Extractor{minBodyLen: minBodyLen, now: time.Now}
}

// Extract parses markup fetched from pageURL. It returns an EXTRACT_001
// error when the result is too thin to analyze; use ExtractOrFallback to
// always get a record.
func (e *Extractor) Extract(markup, pageURL string) (*model.ExtractedArticle, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, apperrors.NewExtractError("failed to parse markup", err)
	}

	host := hostname(pageURL)
	article := &model.ExtractedArticle{
		Title:       extractTitle(doc, host),
		Author:      extractAuthor(doc),
		PublishDate: e.extractDate(doc),
		SourceName:  extractSource(doc, host),
		ImageURL:    extractImage(doc),
		URL:         pageURL,
	}

	doc.Find(strings.Join(boilerplateSelectors, ", ")).Remove()
	article.Body = e.extractBody(doc)

	if article.Title == "" || article.Body == "" || len(article.Body) < e.minBodyLen {
		return article, apperrors.NewExtractError(
			fmt.Sprintf("insufficient content extracted (%d chars)", len(article.Body)), nil)
	}
	return article, nil
}

// ExtractOrFallback never fails: when extraction is insufficient the
// placeholder (or a canned demo article) for the URL's host is returned.
func (e *Extractor) ExtractOrFallback(markup, pageURL string) *model.ExtractedArticle {
	article, err := e.Extract(markup, pageURL)
	if err != nil {
		return Fallback(pageURL, e.now())
	}
	return article
}

// attrOrText prefers the content attribute, as meta tags carry their value there
func attrOrText(s *goquery.Selection, attrs ...string) string {
	for _, a := range attrs {
		if v, ok := s.Attr(a); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return strings.TrimSpace(nodeText(s))
}

func extractTitle(doc *goquery.Document, host string) string {
	for _, sel := range titleSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		title := textutil.CollapseWhitespace(attrOrText(el, "content"))
		if n := len([]rune(title)); n > minTitleLen && n < maxTitleLen {
			return title
		}
	}
	if host == "" {
		return "Unknown Article"
	}
	return "Article from " + host
}

func (e *Extractor) extractBody(doc *goquery.Document) string {
	for _, sel := range contentSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		if text := textutil.Clean(nodeText(el)); len(text) > minContainerLen {
			return text
		}
	}

	if readable := readableText(doc); len(readable) >= e.minBodyLen {
		return readable
	}
	return textutil.Clean(nodeText(doc.Find("body")))
}

func extractAuthor(doc *goquery.Document) string {
	for _, sel := range authorSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		author := textutil.CollapseWhitespace(attrOrText(el, "content"))
		if n := len([]rune(author)); n > minAuthorLen && n < maxAuthorLen {
			return stripByline(author)
		}
	}
	return defaultAuthor
}

func stripByline(author string) string {
	return strings.TrimSpace(bylinePrefixRe.ReplaceAllString(author, ""))
}

func (e *Extractor) extractDate(doc *goquery.Document) time.Time {
	for _, sel := range dateSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		if t, ok := parseDate(attrOrText(el, "content", "datetime")); ok {
			return t
		}
	}
	return e.now().UTC()
}

func parseDate(raw string) (time.Time, bool) {
	raw = textutil.CollapseWhitespace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func extractSource(doc *goquery.Document, host string) string {
	for _, sel := range sourceSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		if name := textutil.CollapseWhitespace(attrOrText(el, "content")); len([]rune(name)) > minSourceLen {
			return name
		}
	}
	return strings.TrimPrefix(host, "www.")
}

func extractImage(doc *goquery.Document) string {
	for _, sel := range imageSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		for _, attr := range []string{"content", "src", "data-src"} {
			if v, ok := el.Attr(attr); ok && strings.HasPrefix(strings.TrimSpace(v), "http") {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}

// nodeText joins the text nodes under s with spaces so that adjacent block
// elements do not run their words together.
func nodeText(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" || n.Data == "noscript" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return b.String()
}

func hostname(pageURL string) string {
	u, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
