package coverage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/NullMeDev/mediabias/internal/config"
	"github.com/NullMeDev/mediabias/internal/logger"
	"github.com/NullMeDev/mediabias/internal/model"
	"github.com/NullMeDev/mediabias/internal/ratings"
	"github.com/NullMeDev/mediabias/internal/scorer"
)

type fakeProvider struct {
	name       string
	candidates []Candidate
	err        error
	queries    []string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	f.queries = append(f.queries, query)
	return f.candidates, f.err
}

func newTestAggregator(providers ...Provider) *Aggregator {
	reg := ratings.Default()
	return NewAggregator(providers, reg, scorer.New(reg), 0, logger.Discard())
}

func TestQueryTerms(t *testing.T) {
	tests := map[string]string{
		"The Senate Passes a Sweeping Climate Bill After Long Debate": "senate passes sweeping climate",
		"Fed's rate decision: what it means for you":                  "rate decision what means",
		"A to Z":  "",
		"":        "",
		"Markets rally, investors cheer!": "markets rally investors cheer",
	}
	for in, want := range tests {
		assert.Equal(t, want, QueryTerms(in), in)
	}
}

func TestCompareWithNoResults(t *testing.T) {
	empty := &fakeProvider{name: "newsapi"}
	failing := &fakeProvider{name: "gnews", err: errors.New("503")}

	items := newTestAggregator(empty, failing).Compare(context.Background(), "Senate passes climate bill")

	require.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, []string{"senate passes climate bill"}, empty.queries)
	assert.Len(t, failing.queries, 1)
}

func TestCompareWithoutProviders(t *testing.T) {
	items := newTestAggregator().Compare(context.Background(), "Senate passes climate bill")
	assert.Equal(t, []model.ComparativeCoverageItem{}, items)
}

func TestCompareMapsRatingsAndFilters(t *testing.T) {
	title := "Senate passes climate bill"
	provider := &fakeProvider{name: "newsapi", candidates: []Candidate{
		{Title: title, Description: "echo of the source article", URL: "https://a.example/1", SourceName: "Reuters"},
		{Title: "Missing description", URL: "https://a.example/2", SourceName: "CNN"},
		{Title: "Climate bill clears Senate", Description: "A great success for supporters.", URL: "https://www.foxnews.com/politics/bill", SourceName: "Fox News"},
		{Title: "Lawmakers approve climate package", Description: "The vote followed a long debate.", URL: "https://blog.example/post", SourceName: "Totally Unknown Outlet"},
		{Title: "Senate vote sparks crisis talk", Description: "Critics warn of a disaster and a terrible failure.", URL: "https://x.example", SourceName: "foxnews.com"},
	}}
	fallback := &fakeProvider{name: "gnews"}

	items := newTestAggregator(provider, fallback).Compare(context.Background(), title)

	require.Len(t, items, 3)
	assert.Empty(t, fallback.queries)

	assert.Equal(t, "Fox News", items[0].SourceName)
	assert.Equal(t, model.BiasRight, items[0].Bias)
	assert.Equal(t, 6.8, items[0].Factuality)
	assert.Equal(t, model.SentimentPositive, items[0].Sentiment)

	assert.Equal(t, model.BiasUnknown, items[1].Bias)
	assert.Equal(t, 5.0, items[1].Factuality)
	assert.Equal(t, model.SentimentNeutral, items[1].Sentiment)

	assert.Equal(t, model.BiasRight, items[2].Bias)
	assert.Equal(t, model.SentimentNegative, items[2].Sentiment)
}

func TestCompareCapsAtLimit(t *testing.T) {
	var candidates []Candidate
	for i := 0; i < 10; i++ {
		candidates = append(candidates, Candidate{
			Title: "Related story", Description: "desc", URL: "https://a.example/x", SourceName: "BBC News",
		})
	}
	items := newTestAggregator(&fakeProvider{name: "p", candidates: candidates}).Compare(context.Background(), "Original headline here")
	assert.Len(t, items, DefaultLimit)
}

func TestCompareFallsThroughToNextProvider(t *testing.T) {
	first := &fakeProvider{name: "newsapi", err: errors.New("rate limited")}
	second := &fakeProvider{name: "gnews", candidates: []Candidate{
		{Title: "Other take", Description: "d", URL: "https://u.example", SourceName: "NPR"},
	}}

	items := newTestAggregator(first, second).Compare(context.Background(), "Original headline here")

	require.Len(t, items, 1)
	assert.Equal(t, model.BiasCenterLeft, items[0].Bias)
}

func TestNewsAPIProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "climate bill", q.Get("q"))
		assert.Equal(t, "key-1", q.Get("apiKey"))
		assert.Equal(t, "publishedAt", q.Get("sortBy"))
		assert.Equal(t, "en", q.Get("language"))
		assert.Contains(t, q.Get("domains"), "reuters.com")
		w.Write([]byte(`{"status":"ok","articles":[
			{"title":"[Removed]","description":"x","url":"https://removed"},
			{"title":"Bill advances","description":"d","url":"https://r.example/1","publishedAt":"2024-03-14T09:30:00Z","source":{"name":"Reuters"}}
		]}`))
	}))
	defer srv.Close()

	got, err := NewNewsAPI("key-1", srv.URL, time.Second).Search(context.Background(), "climate bill", 10)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Reuters", got[0].SourceName)
	assert.Equal(t, time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC), got[0].PublishedAt)
}

func TestNewsAPIProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","message":"apiKeyInvalid"}`))
	}))
	defer srv.Close()

	_, err := NewNewsAPI("bad", srv.URL, time.Second).Search(context.Background(), "q", 10)
	assert.ErrorContains(t, err, "apiKeyInvalid")
}

func TestGNewsProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok", r.URL.Query().Get("token"))
		assert.Equal(t, "10", r.URL.Query().Get("max"))
		w.Write([]byte(`{"articles":[{"title":"T","description":"D","url":"https://g.example","source":{"name":""}}]}`))
	}))
	defer srv.Close()

	got, err := NewGNews("tok", srv.URL, time.Second).Search(context.Background(), "q", 10)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Unknown", got[0].SourceName)
}

const googleNewsFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Google News</title>
<item>
  <title>Senate clears climate package - The Guardian</title>
  <link>https://news.google.com/articles/abc</link>
  <pubDate>Thu, 14 Mar 2024 09:30:00 GMT</pubDate>
  <description>&lt;a href="https://theguardian.com/x"&gt;Senate clears climate package&lt;/a&gt;&amp;nbsp;&amp;nbsp;&lt;font color="#6f6f6f"&gt;The Guardian&lt;/font&gt;</description>
</item>
<item>
  <title>No outlet suffix here</title>
  <link>https://news.google.com/articles/def</link>
</item>
</channel></rss>`

func TestGoogleNewsRSSProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "climate", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(googleNewsFeed))
	}))
	defer srv.Close()

	got, err := NewGoogleNewsRSS(srv.URL, time.Second).Search(context.Background(), "climate", 10)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Senate clears climate package", got[0].Title)
	assert.Equal(t, "The Guardian", got[0].SourceName)
	assert.Contains(t, got[0].Description, "Senate clears climate package")
	assert.NotContains(t, got[0].Description, "<a")
	assert.Equal(t, time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC), got[0].PublishedAt)

	assert.Equal(t, "Unknown", got[1].SourceName)
	assert.Equal(t, "No outlet suffix here", got[1].Description)
}

func TestFromConfigUsesSearchRate(t *testing.T) {
	reg := ratings.Default()
	cfg := &config.Config{
		NewsAPIKey:          "key",
		EnableGoogleNewsRSS: true,
		SearchTimeout:       time.Second,
		SearchRatePerSecond: 0.5,
		CoverageLimit:       3,
	}

	a := FromConfig(cfg, reg, scorer.New(reg), logger.Discard())

	assert.Equal(t, rate.Limit(0.5), a.limiter.Limit())
	assert.Equal(t, 1, a.limiter.Burst())
	assert.Equal(t, 3, a.limit)
	require.Len(t, a.providers, 2)
	assert.Equal(t, "newsapi", a.providers[0].Name())
	assert.Equal(t, "googlenews", a.providers[1].Name())

	defaults := NewAggregator(nil, reg, scorer.New(reg), 0, logger.Discard())
	assert.Equal(t, rate.Limit(DefaultRatePerSecond), defaults.limiter.Limit())
	assert.Equal(t, 4, defaults.limiter.Burst())
	assert.Equal(t, DefaultLimit, defaults.limit)
}
