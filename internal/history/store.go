// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a SQLite record of completed and failed workflow
// runs so results can be listed, re-read, and exported after the fact.
// Nothing in a run reads from history.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/deep-research/pkg/types"
)

const defaultListLimit = 20

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned by Get when no run matches the id.
var ErrNotFound = errors.New("run not found")

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Run is one recorded workflow run.
type Run struct {
	ID    string               `json:"id" yaml:"id"`
	State *types.WorkflowState `json:"state" yaml:"state"`
}

// Summary is the listing view of a run.
type Summary struct {
	ID         string       `json:"id" yaml:"id"`
	Query      string       `json:"query" yaml:"query"`
	Status     types.Status `json:"status" yaml:"status"`
	Model      string       `json:"model,omitempty" yaml:"model,omitempty"`
	Error      string       `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt  time.Time    `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time    `json:"finished_at" yaml:"finished_at"`
}

// Open opens or creates the database at path, creating its directory and
// schema if needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			model TEXT,
			answer TEXT,
			state_json TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores state under a new id and returns the id.
func (s *Store) Record(ctx context.Context, state *types.WorkflowState) (string, error) {
	if state == nil {
		return "", errors.New("recording run: nil state")
	}

	data, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("marshaling state: %w", err)
	}

	var model, answer sql.NullString
	if state.Answer != nil {
		model = sql.NullString{String: state.Answer.Metadata.ModelUsed, Valid: true}
		answer = sql.NullString{String: state.Answer.Answer, Valid: true}
	}
	var errText sql.NullString
	if state.Error != nil {
		errText = sql.NullString{String: *state.Error, Valid: true}
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, query, status, error, model, answer, state_json, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, state.Query, string(state.Status), errText, model, answer, string(data),
		formatTime(state.StartedAt), formatTime(state.FinishedAt),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return id, nil
}

// Get returns the run with the given id. A unique id prefix is accepted.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, state_json FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\' ORDER BY id LIMIT 2`,
		id, escapeLike(id)+"%")
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var data string
		if err := rows.Scan(&r.ID, &data); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		var state types.WorkflowState
		if err := json.Unmarshal([]byte(data), &state); err != nil {
			return nil, fmt.Errorf("decoding run %s: %w", r.ID, err)
		}
		r.State = &state
		if r.ID == id {
			return &r, nil
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	switch len(runs) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return &runs[0], nil
	default:
		return nil, fmt.Errorf("id prefix %q matches more than one run", id)
	}
}

// ListOptions filters List.
type ListOptions struct {
	// Status keeps only runs with this final status.
	Status types.Status

	// Contains keeps only runs whose query or answer contains the text.
	Contains string

	// Limit bounds the result count. Zero uses the default (20); negative
	// means no limit.
	Limit int
}

// List returns run summaries, newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Summary, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT id, query, status, COALESCE(error, ''), COALESCE(model, ''), started_at, finished_at FROM runs WHERE 1=1`)

	if opts.Status != "" {
		qb.WriteString(` AND status = ?`)
		args = append(args, string(opts.Status))
	}
	if opts.Contains != "" {
		pattern := "%" + escapeLike(opts.Contains) + "%"
		qb.WriteString(` AND (query LIKE ? ESCAPE '\' OR answer LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	qb.WriteString(` ORDER BY started_at DESC, id`)

	limit := opts.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	if limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum               Summary
			status            string
			started, finished string
		)
		if err := rows.Scan(&sum.ID, &sum.Query, &status, &sum.Error, &sum.Model, &started, &finished); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		sum.Status = types.Status(status)
		sum.StartedAt = parseTime(started)
		sum.FinishedAt = parseTime(finished)
		out = append(out, sum)
	}
	return out, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// escapeLike escapes LIKE wildcards so user text matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
