package extractor

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NullMeDev/mediabias/internal/apperrors"
)

var fixedNow = time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)

func newTestExtractor() *Extractor {
	e := New(100)
	e.now = func() time.Time { return fixedNow }
	return e
}

const prose = "The transit authority said on Monday that ridership rose 12 percent over the past year, " +
	"according to figures released alongside the quarterly budget. Officials credited new express routes " +
	"and lower weekend fares for the increase, while warning that maintenance costs continue to climb. "

func articlePage() string {
	return `<!doctype html>
<html>
<head>
  <title>Transit ridership climbs | Metro Ledger</title>
  <meta property="og:site_name" content="Metro Ledger">
  <meta property="og:image" content="https://cdn.metroledger.example/img/bus.jpg">
  <meta property="article:published_time" content="2024-03-14T09:30:00Z">
</head>
<body>
  <header><h1 class="headline">Transit ridership climbs as express routes expand</h1>
    <span class="byline">By Jane Doe</span></header>
  <nav>Home News Sports Weather</nav>
  <article>
    <p>` + prose + `</p>
    <div class="ad-slot">Buy one ticket get one free</div>
    <script>var tracking = "do not include";</script>
    <p>` + prose + `</p>
    <p>` + prose + `</p>
  </article>
  <footer>Copyright Metro Ledger</footer>
</body>
</html>`
}

func TestExtractFullArticle(t *testing.T) {
	article, err := newTestExtractor().Extract(articlePage(), "https://www.metroledger.example/transit")
	require.NoError(t, err)

	assert.Equal(t, "Transit ridership climbs as express routes expand", article.Title)
	assert.Equal(t, "Jane Doe", article.Author)
	assert.Equal(t, "Metro Ledger", article.SourceName)
	assert.Equal(t, "https://cdn.metroledger.example/img/bus.jpg", article.ImageURL)
	assert.Equal(t, time.Date(2024, time.March, 14, 9, 30, 0, 0, time.UTC), article.PublishDate)
	assert.Equal(t, "https://www.metroledger.example/transit", article.URL)
	assert.False(t, article.Fallback)

	assert.Contains(t, article.Body, "ridership rose 12 percent")
	assert.NotContains(t, article.Body, "Buy one ticket")
	assert.NotContains(t, article.Body, "do not include")
	assert.NotContains(t, article.Body, "Sports Weather")
	assert.NotContains(t, article.Body, "  ")
}

func TestExtractUnrecognizableMarkup(t *testing.T) {
	markup := `<html><body><div>short text</div></body></html>`
	e := newTestExtractor()

	article, err := e.Extract(markup, "https://www.somesite.net/x")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExtract))
	assert.Equal(t, "Article from www.somesite.net", article.Title)

	fallback := e.ExtractOrFallback(markup, "https://www.somesite.net/x")
	assert.Equal(t, "Article from www.somesite.net", fallback.Title)
	assert.Equal(t, PlaceholderBody, fallback.Body)
	assert.Equal(t, "Unknown", fallback.Author)
	assert.Equal(t, "somesite.net", fallback.SourceName)
	assert.Equal(t, fixedNow, fallback.PublishDate)
	assert.True(t, fallback.Fallback)
}

func TestExtractReadableParagraphs(t *testing.T) {
	markup := `<html><head><title>Harbor expansion wins final approval</title></head><body>
<div class="wrapper">
  <p>We use cookies to improve your experience. Click here to accept.</p>
  <p>` + prose + `</p>
  <p>Share</p>
  <p>"This expansion will keep the harbor competitive for decades," the port director said in a statement.</p>
</div></body></html>`

	article, err := newTestExtractor().Extract(markup, "https://harbor.example/news")
	require.NoError(t, err)

	assert.Equal(t, "Harbor expansion wins final approval", article.Title)
	assert.Contains(t, article.Body, "ridership rose 12 percent")
	assert.Contains(t, article.Body, "port director said")
	assert.NotContains(t, article.Body, "cookies")
	assert.Equal(t, "harbor.example", article.SourceName)
	assert.Equal(t, "Unknown Author", article.Author)
	assert.Equal(t, fixedNow, article.PublishDate)
}

func TestExtractTitleLengthGate(t *testing.T) {
	markup := `<html><head><title>A Much Longer Document Title Here</title></head><body>
<h1>Hi</h1><article>` + strings.Repeat("<p>"+prose+"</p>", 3) + `</article></body></html>`

	article, err := newTestExtractor().Extract(markup, "https://x.example/a")
	require.NoError(t, err)
	assert.Equal(t, "A Much Longer Document Title Here", article.Title)
}

func TestStripByline(t *testing.T) {
	tests := map[string]string{
		"By Jane Doe":        "Jane Doe",
		"by jane doe":        "jane doe",
		"By: Jane Doe":       "Jane Doe",
		"Author: Sam Ortiz":  "Sam Ortiz",
		"AUTHOR Sam Ortiz":   "Sam Ortiz",
		"Byron Lee":          "Byron Lee",
		"Authority Reporter": "Authority Reporter",
		"Jane Doe":           "Jane Doe",
	}
	for in, want := range tests {
		assert.Equal(t, want, stripByline(in), in)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{"2024-03-14T09:30:00Z", time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC), true},
		{"2024-03-14T11:30:00+02:00", time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC), true},
		{"2024-03-14", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), true},
		{"March 14, 2024", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), true},
		{"last Tuesday", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := parseDate(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got))
		})
	}
}

func TestFallbackCannedArticle(t *testing.T) {
	article := Fallback("https://www.example.com/story", fixedNow)

	assert.True(t, article.Fallback)
	assert.Equal(t, "https://www.example.com/story", article.URL)
	assert.Equal(t, "Example Daily", article.SourceName)
	assert.Greater(t, len(article.Body), 500)
}

func TestScoreParagraph(t *testing.T) {
	assert.Greater(t, scoreParagraph(prose), 5)
	assert.LessOrEqual(t, scoreParagraph("Subscribe to our newsletter"), 0)
	assert.LessOrEqual(t, scoreParagraph("Share"), 0)
}
