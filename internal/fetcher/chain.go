package fetcher

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/NullMeDev/mediabias/internal/config"
	"github.com/NullMeDev/mediabias/internal/logger"
)

// ChainOptions describe which strategies to build and in what order
type ChainOptions struct {
	UserAgent     string
	DirectTimeout time.Duration
	RelayTimeout  time.Duration
	Relays        []string
	Browser       bool
	// Base URL overrides for the relays, mostly for tests
	AllOriginsURL string
	CorsProxyURL  string
}

// BuildChain returns the direct strategy followed by the named relays and,
// when enabled, the browser. The returned closer releases the browser.
func BuildChain(opts ChainOptions) ([]Strategy, io.Closer, error) {
	strategies := []Strategy{NewDirect(opts.UserAgent, opts.DirectTimeout)}

	for _, name := range opts.Relays {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "allorigins":
			strategies = append(strategies, NewAllOrigins(opts.AllOriginsURL, opts.UserAgent, opts.RelayTimeout))
		case "corsproxy":
			strategies = append(strategies, NewCorsProxy(opts.CorsProxyURL, opts.UserAgent, opts.RelayTimeout))
		case "direct", "":
		default:
			return nil, nil, fmt.Errorf("unknown fetch relay %q", name)
		}
	}

	var closer io.Closer = nopCloser{}
	if opts.Browser {
		b := NewBrowser(opts.UserAgent, opts.RelayTimeout)
		strategies = append(strategies, b)
		closer = b
	}
	return strategies, closer, nil
}

// FromConfig builds the Fetcher the server and CLI use
func FromConfig(cfg *config.Config, log *logger.Logger) (*Fetcher, io.Closer, error) {
	strategies, closer, err := BuildChain(ChainOptions{
		UserAgent:     cfg.UserAgent,
		DirectTimeout: cfg.DirectFetchTimeout,
		RelayTimeout:  cfg.FetchTimeout,
		Relays:        cfg.FetchRelays,
		Browser:       cfg.EnableBrowserFetch,
	})
	if err != nil {
		return nil, nil, err
	}

	f := New(strategies, Options{
		MinBytes:      cfg.FetchMinBytes,
		RatePerSecond: cfg.FetchRatePerSecond,
	}, log)
	return f, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
