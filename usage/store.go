// SPDX-License-Identifier: EPL-2.0

package usage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // SQLite driver
)

// DefaultKeep is how many records the log retains.
const DefaultKeep = 100

var ErrClosed = errors.New("usage store is closed")

// Record is one analysis request.
type Record struct {
	ID           string
	Time         time.Time
	File         string
	InputTokens  int
	OutputTokens int
	TotalTokens  int
	CostUSD      float64
	CostNTD      float64
}

// NewRecord prices a request. A zero total is taken as input plus output.
func NewRecord(file string, inputTokens, outputTokens, totalTokens int, now time.Time) Record {
	if totalTokens == 0 {
		totalTokens = inputTokens + outputTokens
	}
	cost := CalculateCost(inputTokens, outputTokens)
	return Record{
		ID:           uuid.NewString(),
		Time:         now,
		File:         file,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		TotalTokens:  totalTokens,
		CostUSD:      cost.USD,
		CostNTD:      cost.NTD,
	}
}

// Totals sums the retained records.
type Totals struct {
	Analyses     int
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
	CostUSD      float64
	CostNTD      float64
}

// Store is the SQLite backed usage log. Only the newest Keep records are
// retained.
type Store struct {
	db   *sql.DB
	Keep int
}

// Open opens or creates the database at path; ":memory:" keeps it in
// memory.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// one connection, so an in-memory database is shared by every query
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting %q: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, Keep: DefaultKeep}, nil
}

func ensureSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS token_usage (
    seq           INTEGER PRIMARY KEY AUTOINCREMENT,
    id            TEXT    NOT NULL UNIQUE,
    timestamp     INTEGER NOT NULL,
    file          TEXT    NOT NULL DEFAULT '',
    input_tokens  INTEGER NOT NULL CHECK (input_tokens >= 0),
    output_tokens INTEGER NOT NULL CHECK (output_tokens >= 0),
    total_tokens  INTEGER NOT NULL CHECK (total_tokens >= 0),
    cost_usd      REAL    NOT NULL,
    cost_ntd      REAL    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_usage_timestamp ON token_usage(timestamp DESC);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Add stores r and drops everything older than the newest Keep records.
func (s *Store) Add(ctx context.Context, r Record) error {
	if s.db == nil {
		return ErrClosed
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO token_usage
			(id, timestamp, file, input_tokens, output_tokens, total_tokens, cost_usd, cost_ntd)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Time.UnixMilli(), r.File,
		r.InputTokens, r.OutputTokens, r.TotalTokens, r.CostUSD, r.CostNTD)
	if err != nil {
		return fmt.Errorf("inserting usage record: %w", err)
	}

	keep := s.Keep
	if keep <= 0 {
		keep = DefaultKeep
	}
	_, err = tx.ExecContext(ctx, `
		DELETE FROM token_usage
		WHERE seq <= (SELECT seq FROM token_usage ORDER BY seq DESC LIMIT 1 OFFSET ?)`, keep)
	if err != nil {
		return fmt.Errorf("pruning usage log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing usage record: %w", err)
	}
	return nil
}

// History returns the retained records, oldest first.
func (s *Store) History(ctx context.Context) ([]Record, error) {
	if s.db == nil {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, file, input_tokens, output_tokens, total_tokens, cost_usd, cost_ntd
		FROM token_usage ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying usage log: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r  Record
			ms int64
		)
		if err := rows.Scan(&r.ID, &ms, &r.File,
			&r.InputTokens, &r.OutputTokens, &r.TotalTokens, &r.CostUSD, &r.CostNTD); err != nil {
			return nil, fmt.Errorf("scanning usage record: %w", err)
		}
		r.Time = time.UnixMilli(ms)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading usage log: %w", err)
	}
	return out, nil
}

func (s *Store) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	if s.db == nil {
		return t, ErrClosed
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(input_tokens), 0),
		       COALESCE(SUM(output_tokens), 0),
		       COALESCE(SUM(total_tokens), 0),
		       COALESCE(SUM(cost_usd), 0.0),
		       COALESCE(SUM(cost_ntd), 0.0)
		FROM token_usage`).
		Scan(&t.Analyses, &t.InputTokens, &t.OutputTokens, &t.TotalTokens, &t.CostUSD, &t.CostNTD)
	if err != nil {
		return t, fmt.Errorf("summing usage log: %w", err)
	}
	return t, nil
}

// Clear removes every record.
func (s *Store) Clear(ctx context.Context) error {
	if s.db == nil {
		return ErrClosed
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM token_usage`); err != nil {
		return fmt.Errorf("clearing usage log: %w", err)
	}
	return nil
}
