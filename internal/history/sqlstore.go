package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const defaultQueryTimeout = 10 * time.Second

const createAnalysesTable = `
CREATE TABLE IF NOT EXISTS analyses (
    id          SERIAL PRIMARY KEY,
    request_id  TEXT NOT NULL UNIQUE,
    url         TEXT NOT NULL,
    title       TEXT NOT NULL,
    source      TEXT NOT NULL,
    bias        TEXT NOT NULL,
    political   FLOAT NOT NULL,
    factual     FLOAT NOT NULL,
    emotional   FLOAT NOT NULL,
    sentiment   TEXT NOT NULL,
    fallback    BOOLEAN NOT NULL DEFAULT FALSE,
    analyzed_at TIMESTAMPTZ NOT NULL
)`

const createAnalyzedAtIndex = `CREATE INDEX IF NOT EXISTS analyses_analyzed_at_idx ON analyses (analyzed_at)`

const insertAnalysis = `
INSERT INTO analyses (request_id, url, title, source, bias, political, factual, emotional, sentiment, fallback, analyzed_at)
VALUES (:request_id, :url, :title, :source, :bias, :political, :factual, :emotional, :sentiment, :fallback, :analyzed_at)
ON CONFLICT (request_id) DO NOTHING`

const entryColumns = `request_id, url, title, source, bias, political, factual, emotional, sentiment, fallback, analyzed_at`

// SQLStore keeps entries in Postgres
type SQLStore struct {
	db *sqlx.DB
}

// OpenSQLStore connects to dsn and creates the schema if needed
func OpenSQLStore(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &SQLStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %v", err)
	}
	return s, nil
}

// NewSQLStore wraps an existing connection; the schema must already exist
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) initSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	for _, q := range []string{createAnalysesTable, createAnalyzedAtIndex} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute schema query: %v", err)
		}
	}
	return tx.Commit()
}

func (s *SQLStore) Append(ctx context.Context, e Entry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	if _, err := s.db.NamedExecContext(ctx, insertAnalysis, e); err != nil {
		return fmt.Errorf("failed to store analysis: %v", err)
	}
	return nil
}

func (s *SQLStore) Since(ctx context.Context, t time.Time) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	var out []Entry
	q := `SELECT ` + entryColumns + ` FROM analyses WHERE analyzed_at >= $1 ORDER BY analyzed_at ASC`
	if err := s.db.SelectContext(ctx, &out, q, t); err != nil {
		return nil, fmt.Errorf("failed to query analyses: %v", err)
	}
	return out, nil
}

func (s *SQLStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}
	var out []Entry
	q := `SELECT ` + entryColumns + ` FROM analyses ORDER BY analyzed_at DESC LIMIT $1`
	if err := s.db.SelectContext(ctx, &out, q, limit); err != nil {
		return nil, fmt.Errorf("failed to query analyses: %v", err)
	}
	return out, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
