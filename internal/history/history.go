package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/NullMeDev/mediabias/internal/model"
)

const (
	maxRollups    = 24 * 7
	recentEntries = 10
)

// Logger is the subset of the application logger used here
type Logger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// History records analyses and serves the dashboard
type History struct {
	store   Store
	log     Logger
	now     func() time.Time
	period  time.Duration
	mu      sync.RWMutex
	rollups []Rollup
	cron    *cron.Cron
}

// New creates a History over store. period is the width of one rollup.
func New(store Store, period time.Duration, log Logger) *History {
	if period <= 0 {
		period = time.Hour
	}
	return &History{store: store, log: log, now: time.Now, period: period}
}

// Record stores a completed analysis
func (h *History) Record(ctx context.Context, result *model.AnalysisResult) error {
	return h.store.Append(ctx, EntryFrom(result))
}

// Rollup aggregates the last complete period and keeps it for the dashboard
func (h *History) Rollup(ctx context.Context) (Rollup, error) {
	to := h.now().UTC().Truncate(h.period)
	from := to.Add(-h.period)

	entries, err := h.store.Since(ctx, from)
	if err != nil {
		return Rollup{}, fmt.Errorf("failed to load history: %w", err)
	}
	r := Summarize(entries, from, to)

	h.mu.Lock()
	if n := len(h.rollups); n > 0 && h.rollups[n-1].From.Equal(r.From) {
		h.rollups[n-1] = r
	} else {
		h.rollups = append(h.rollups, r)
	}
	if len(h.rollups) > maxRollups {
		h.rollups = h.rollups[len(h.rollups)-maxRollups:]
	}
	h.mu.Unlock()
	return r, nil
}

// Start schedules Rollup on spec, a standard cron expression or descriptor
func (h *History) Start(spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		r, err := h.Rollup(ctx)
		if err != nil {
			h.log.Error("History rollup failed: %v", err)
			return
		}
		h.log.Info("History rollup %s: %d analyses", r.From.Format(time.RFC3339), r.Count)
	})
	if err != nil {
		return fmt.Errorf("invalid rollup schedule %q: %w", spec, err)
	}

	h.cron = c
	c.Start()
	return nil
}

// Stop halts the scheduler and waits for a running rollup
func (h *History) Stop() {
	if h.cron != nil {
		<-h.cron.Stop().Done()
	}
}

// Close stops the scheduler and closes the store
func (h *History) Close() error {
	h.Stop()
	return h.store.Close()
}

// Dashboard is the analytics view served to clients
type Dashboard struct {
	Last24Hours Rollup    `json:"last24Hours"`
	Periods     []Rollup  `json:"periods"`
	Recent      []Entry   `json:"recent"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Dashboard summarizes the last day live and returns the stored rollups
func (h *History) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := h.now().UTC()
	from := now.Add(-24 * time.Hour)

	entries, err := h.store.Since(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	recent, err := h.store.Recent(ctx, recentEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent analyses: %w", err)
	}

	h.mu.RLock()
	periods := append([]Rollup{}, h.rollups...)
	h.mu.RUnlock()

	return &Dashboard{
		Last24Hours: Summarize(entries, from, now.Add(time.Nanosecond)),
		Periods:     periods,
		Recent:      recent,
		GeneratedAt: now,
	}, nil
}
