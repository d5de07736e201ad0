package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/html/charset"
)

const (
	maxBodyBytes = 5 << 20

	// DefaultAllOriginsURL returns the page wrapped in a JSON envelope
	DefaultAllOriginsURL = "https://api.allorigins.win/get?url="
	// DefaultCorsProxyURL returns the page as-is
	DefaultCorsProxyURL = "https://corsproxy.io/?"
)

// httpGetter is the shared GET used by every HTTP strategy
type httpGetter struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
}

func newGetter(userAgent string, timeout time.Duration) httpGetter {
	return httpGetter{
		client:    &http.Client{},
		userAgent: userAgent,
		timeout:   timeout,
	}
}

// get fetches u and decodes the body to UTF-8 using the response charset
func (g httpGetter) get(ctx context.Context, u string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxBodyBytes)
	reader, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("failed to detect charset: %w", err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Direct requests the article URL itself
type Direct struct {
	getter httpGetter
}

// NewDirect creates the direct strategy
func NewDirect(userAgent string, timeout time.Duration) *Direct {
	return &Direct{getter: newGetter(userAgent, timeout)}
}

func (d *Direct) Name() string { return "direct" }

func (d *Direct) Attempt(ctx context.Context, target string) (string, error) {
	return d.getter.get(ctx, target)
}

// AllOrigins asks a relay that answers {"contents": "<markup>"}
type AllOrigins struct {
	base   string
	getter httpGetter
}

// NewAllOrigins creates the relay strategy; base is the prefix the escaped URL is appended to
func NewAllOrigins(base, userAgent string, timeout time.Duration) *AllOrigins {
	if base == "" {
		base = DefaultAllOriginsURL
	}
	return &AllOrigins{base: base, getter: newGetter(userAgent, timeout)}
}

func (a *AllOrigins) Name() string { return "allorigins" }

func (a *AllOrigins) Attempt(ctx context.Context, target string) (string, error) {
	raw, err := a.getter.get(ctx, a.base+url.QueryEscape(target))
	if err != nil {
		return "", err
	}

	var envelope struct {
		Contents string `json:"contents"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return "", fmt.Errorf("malformed relay response: %w", err)
	}
	return envelope.Contents, nil
}

// CorsProxy asks a relay that returns the page body unchanged
type CorsProxy struct {
	base   string
	getter httpGetter
}

// NewCorsProxy creates the pass-through relay strategy
func NewCorsProxy(base, userAgent string, timeout time.Duration) *CorsProxy {
	if base == "" {
		base = DefaultCorsProxyURL
	}
	return &CorsProxy{base: base, getter: newGetter(userAgent, timeout)}
}

func (c *CorsProxy) Name() string { return "corsproxy" }

func (c *CorsProxy) Attempt(ctx context.Context, target string) (string, error) {
	return c.getter.get(ctx, c.base+url.QueryEscape(target))
}
