// Package fetcher retrieves article markup through an ordered chain of
// strategies: the page itself, then markup relays, then optionally a
// headless browser.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/NullMeDev/mediabias/internal/apperrors"
	"github.com/NullMeDev/mediabias/internal/logger"
)

// ErrFetchExhausted is wrapped by Fetch when no strategy produced usable markup
var ErrFetchExhausted = errors.New("all fetch strategies failed")

// Strategy is one way of retrieving a page
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, target string) (string, error)
}

// Result is the markup and the strategy that produced it
type Result struct {
	Markup   string
	Strategy string
	Elapsed  time.Duration
}

// Options tune the chain
type Options struct {
	// MinBytes is the length markup must exceed to count as usable
	MinBytes int
	// RatePerSecond bounds outbound attempts across all requests; 0 disables it
	RatePerSecond float64
}

// Fetcher tries its strategies in order. It holds no per-request state and
// is safe for concurrent use.
type Fetcher struct {
	strategies []Strategy
	minBytes   int
	limiter    *rate.Limiter
	log        *logger.Logger
}

// New creates a Fetcher over strategies
func New(strategies []Strategy, opts Options, log *logger.Logger) *Fetcher {
	f := &Fetcher{
		strategies: strategies,
		minBytes:   opts.MinBytes,
		log:        log,
	}
	if opts.RatePerSecond > 0 {
		burst := int(opts.RatePerSecond)
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}
	return f
}

// Strategies returns the strategy names in attempt order
func (f *Fetcher) Strategies() []string {
	names := make([]string, len(f.strategies))
	for i, s := range f.strategies {
		names[i] = s.Name()
	}
	return names
}

// Fetch returns markup from the first strategy whose response is longer
// than MinBytes. Every strategy failure is logged and the next one tried.
// When all fail the error wraps ErrFetchExhausted; when ctx ends first the
// context error is returned instead.
func (f *Fetcher) Fetch(ctx context.Context, target string) (*Result, error) {
	var failures []string

	for _, s := range f.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		start := time.Now()
		markup, err := s.Attempt(ctx, target)
		if err == nil && len(strings.TrimSpace(markup)) <= f.minBytes {
			err = fmt.Errorf("response too short (%d bytes)", len(markup))
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			f.log.Warning("Fetch strategy %s failed for %s: %v", s.Name(), target, err)
			failures = append(failures, fmt.Sprintf("%s: %v", s.Name(), err))
			continue
		}

		f.log.Debug("Fetched %s via %s (%d bytes)", target, s.Name(), len(markup))
		return &Result{Markup: markup, Strategy: s.Name(), Elapsed: time.Since(start)}, nil
	}

	return nil, apperrors.NewFetchError(
		fmt.Sprintf("no strategy could retrieve %s", target),
		fmt.Errorf("%w: %s", ErrFetchExhausted, strings.Join(failures, "; ")),
	)
}
