package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NullMeDev/mediabias/internal/apperrors"
	"github.com/NullMeDev/mediabias/internal/logger"
)

type fakeStrategy struct {
	name   string
	markup string
	err    error
	calls  int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Attempt(ctx context.Context, target string) (string, error) {
	f.calls++
	return f.markup, f.err
}

var longPage = "<html><body><article>" + strings.Repeat("Lorem ipsum dolor sit amet. ", 40) + "</article></body></html>"

func TestFetchFirstUsableStrategyWins(t *testing.T) {
	failing := &fakeStrategy{name: "direct", err: errors.New("connection refused")}
	short := &fakeStrategy{name: "allorigins", markup: "<html></html>"}
	good := &fakeStrategy{name: "corsproxy", markup: longPage}
	unused := &fakeStrategy{name: "browser", markup: longPage}

	f := New([]Strategy{failing, short, good, unused}, Options{MinBytes: 500}, logger.Discard())
	result, err := f.Fetch(context.Background(), "https://example.com/a")

	require.NoError(t, err)
	assert.Equal(t, "corsproxy", result.Strategy)
	assert.Equal(t, longPage, result.Markup)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, short.calls)
	assert.Equal(t, 0, unused.calls)
}

func TestFetchExhausted(t *testing.T) {
	f := New([]Strategy{
		&fakeStrategy{name: "direct", err: errors.New("timeout")},
		&fakeStrategy{name: "corsproxy", markup: "tiny"},
	}, Options{MinBytes: 500}, logger.Discard())

	_, err := f.Fetch(context.Background(), "https://example.com/a")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchExhausted)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeFetch))
	assert.Contains(t, err.Error(), "direct: timeout")
}

func TestFetchStopsOnCancelledContext(t *testing.T) {
	s := &fakeStrategy{name: "direct", markup: longPage}
	f := New([]Strategy{s}, Options{MinBytes: 500}, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Fetch(ctx, "https://example.com/a")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, s.calls)
}

func TestDirectStrategy(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write([]byte("<p>caf\xe9</p>"))
	}))
	defer srv.Close()

	markup, err := NewDirect("test-agent", time.Second).Attempt(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "<p>café</p>", markup)
	assert.Equal(t, "test-agent", gotUA)
}

func TestDirectStrategyRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewDirect("", time.Second).Attempt(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "403")
}

func TestDirectStrategyTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewDirect("", 50*time.Millisecond).Attempt(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestAllOriginsStrategy(t *testing.T) {
	target := "https://news.example.com/story?id=7"
	var gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.Query().Get("url")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"contents":"<html>relayed</html>","status":{"http_code":200}}`))
	}))
	defer srv.Close()

	markup, err := NewAllOrigins(srv.URL+"/get?url=", "", time.Second).Attempt(context.Background(), target)

	require.NoError(t, err)
	assert.Equal(t, "<html>relayed</html>", markup)
	assert.Equal(t, target, gotURL)
}

func TestAllOriginsMalformedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := NewAllOrigins(srv.URL+"/get?url=", "", time.Second).Attempt(context.Background(), "https://a.example")
	assert.ErrorContains(t, err, "malformed relay response")
}

func TestCorsProxyStrategy(t *testing.T) {
	target := "https://news.example.com/story"
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte("<html>proxied</html>"))
	}))
	defer srv.Close()

	markup, err := NewCorsProxy(srv.URL+"/?", "", time.Second).Attempt(context.Background(), target)

	require.NoError(t, err)
	assert.Equal(t, "<html>proxied</html>", markup)
	unescaped, err := url.QueryUnescape(gotQuery)
	require.NoError(t, err)
	assert.Equal(t, target, unescaped)
}

func TestBuildChain(t *testing.T) {
	strategies, closer, err := BuildChain(ChainOptions{
		DirectTimeout: time.Second,
		RelayTimeout:  time.Second,
		Relays:        []string{"corsproxy", "allorigins"},
	})
	require.NoError(t, err)
	require.NoError(t, closer.Close())

	f := New(strategies, Options{}, logger.Discard())
	assert.Equal(t, []string{"direct", "corsproxy", "allorigins"}, f.Strategies())

	_, _, err = BuildChain(ChainOptions{Relays: []string{"carrier-pigeon"}})
	assert.Error(t, err)
}
