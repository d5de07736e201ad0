package coverage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const (
	DefaultNewsAPIURL    = "https://newsapi.org/v2/everything"
	DefaultGNewsURL      = "https://gnews.io/api/v4/search"
	DefaultGoogleNewsURL = "https://news.google.com/rss/search"

	newsAPIDomains = "reuters.com,bbc.com,cnn.com,foxnews.com,nytimes.com,washingtonpost.com,theguardian.com,wsj.com,npr.org,apnews.com"
)

// Candidate is a related article as returned by a search provider
type Candidate struct {
	Title       string
	Description string
	URL         string
	SourceName  string
	PublishedAt time.Time
}

// Provider searches an external news index
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]Candidate, error)
}

func getJSON(ctx context.Context, client *http.Client, u string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// NewsAPI searches newsapi.org restricted to major outlets
type NewsAPI struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewNewsAPI creates the NewsAPI provider; baseURL may be empty
func NewNewsAPI(apiKey, baseURL string, timeout time.Duration) *NewsAPI {
	if baseURL == "" {
		baseURL = DefaultNewsAPIURL
	}
	return &NewsAPI{apiKey: apiKey, baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

func (n *NewsAPI) Name() string { return "newsapi" }

func (n *NewsAPI) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("apiKey", n.apiKey)
	params.Set("pageSize", strconv.Itoa(limit))
	params.Set("sortBy", "publishedAt")
	params.Set("language", "en")
	params.Set("domains", newsAPIDomains)

	var resp struct {
		Status   string `json:"status"`
		Message  string `json:"message"`
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			PublishedAt string `json:"publishedAt"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}
	if err := getJSON(ctx, n.client, n.baseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("newsapi: %s", resp.Message)
	}

	var out []Candidate
	for _, a := range resp.Articles {
		if strings.Contains(a.Title, "[Removed]") {
			continue
		}
		out = append(out, Candidate{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			SourceName:  a.Source.Name,
			PublishedAt: parseTime(a.PublishedAt),
		})
	}
	return out, nil
}

// GNews searches gnews.io
type GNews struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewGNews creates the GNews provider; baseURL may be empty
func NewGNews(token, baseURL string, timeout time.Duration) *GNews {
	if baseURL == "" {
		baseURL = DefaultGNewsURL
	}
	return &GNews{token: token, baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

func (g *GNews) Name() string { return "gnews" }

func (g *GNews) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("token", g.token)
	params.Set("lang", "en")
	params.Set("max", strconv.Itoa(limit))
	params.Set("sortby", "publishedAt")

	var resp struct {
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			PublishedAt string `json:"publishedAt"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
		Errors []string `json:"errors"`
	}
	if err := getJSON(ctx, g.client, g.baseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("gnews: %s", strings.Join(resp.Errors, "; "))
	}

	out := make([]Candidate, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		source := a.Source.Name
		if source == "" {
			source = "Unknown"
		}
		out = append(out, Candidate{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			SourceName:  source,
			PublishedAt: parseTime(a.PublishedAt),
		})
	}
	return out, nil
}

// GoogleNewsRSS searches the keyless Google News RSS endpoint
type GoogleNewsRSS struct {
	baseURL string
	timeout time.Duration
	parser  *gofeed.Parser
}

// NewGoogleNewsRSS creates the RSS provider; baseURL may be empty
func NewGoogleNewsRSS(baseURL string, timeout time.Duration) *GoogleNewsRSS {
	if baseURL == "" {
		baseURL = DefaultGoogleNewsURL
	}
	return &GoogleNewsRSS{baseURL: baseURL, timeout: timeout, parser: gofeed.NewParser()}
}

func (g *GoogleNewsRSS) Name() string { return "googlenews" }

func (g *GoogleNewsRSS) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", "en-US")
	params.Set("gl", "US")
	params.Set("ceid", "US:en")

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	feed, err := g.parser.ParseURLWithContext(g.baseURL+"?"+params.Encode(), ctx)
	if err != nil {
		return nil, err
	}

	var out []Candidate
	for _, item := range feed.Items {
		if len(out) == limit {
			break
		}
		title, source := splitSource(item.Title)
		c := Candidate{
			Title:       title,
			Description: plainText(item.Description),
			URL:         item.Link,
			SourceName:  source,
		}
		if c.Description == "" {
			c.Description = title
		}
		if item.PublishedParsed != nil {
			c.PublishedAt = item.PublishedParsed.UTC()
		}
		out = append(out, c)
	}
	return out, nil
}

// splitSource separates Google News "Headline - Outlet" titles
func splitSource(title string) (string, string) {
	i := strings.LastIndex(title, " - ")
	if i <= 0 {
		return title, "Unknown"
	}
	return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+3:])
}

// plainText strips markup from an RSS description
func plainText(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
