// Package history keeps completed analyses and rolls them up for the dashboard.
package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/NullMeDev/mediabias/internal/model"
)

// Entry is the stored summary of one analysis
type Entry struct {
	RequestID  string          `json:"requestId" db:"request_id"`
	URL        string          `json:"url" db:"url"`
	Title      string          `json:"title" db:"title"`
	Source     string          `json:"source" db:"source"`
	Bias       model.BiasLabel `json:"bias" db:"bias"`
	Political  float64         `json:"political" db:"political"`
	Factual    float64         `json:"factual" db:"factual"`
	Emotional  float64         `json:"emotional" db:"emotional"`
	Sentiment  model.Sentiment `json:"sentiment" db:"sentiment"`
	Fallback   bool            `json:"fallback" db:"fallback"`
	AnalyzedAt time.Time       `json:"analyzedAt" db:"analyzed_at"`
}

// EntryFrom summarizes an analysis result
func EntryFrom(r *model.AnalysisResult) Entry {
	return Entry{
		RequestID:  r.RequestID,
		URL:        r.Article.URL,
		Title:      r.Article.Title,
		Source:     r.Article.Source,
		Bias:       r.Article.Bias,
		Political:  r.BiasScore.Political,
		Factual:    r.BiasScore.Factual,
		Emotional:  r.BiasScore.Emotional,
		Sentiment:  r.Article.Sentiment,
		Fallback:   r.Article.Fallback,
		AnalyzedAt: r.AnalyzedAt,
	}
}

// Store persists entries
type Store interface {
	Append(ctx context.Context, e Entry) error
	// Since returns entries analyzed at or after t, oldest first
	Since(ctx context.Context, t time.Time) ([]Entry, error)
	// Recent returns up to limit entries, newest first
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

// MemoryStore is a fixed-capacity ring buffer
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

// NewMemoryStore creates a ring holding at most capacity entries
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 500
	}
	return &MemoryStore{entries: make([]Entry, capacity)}
}

func (m *MemoryStore) Append(ctx context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[m.next] = e
	m.next = (m.next + 1) % len(m.entries)
	if m.next == 0 {
		m.full = true
	}
	return nil
}

// ordered returns the held entries oldest first; callers hold the lock
func (m *MemoryStore) ordered() []Entry {
	if !m.full {
		return append([]Entry(nil), m.entries[:m.next]...)
	}
	out := make([]Entry, 0, len(m.entries))
	out = append(out, m.entries[m.next:]...)
	return append(out, m.entries[:m.next]...)
}

func (m *MemoryStore) Since(ctx context.Context, t time.Time) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Entry
	for _, e := range m.ordered() {
		if !e.AnalyzedAt.Before(t) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AnalyzedAt.Before(out[j].AnalyzedAt) })
	return out, nil
}

func (m *MemoryStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.ordered()
	out := make([]Entry, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, all[i])
	}
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
