// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists verification results in SQLite so that users
// can review what they checked and how it scored.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citeverify/pkg/types"
)

// DefaultLimit caps Recent when the caller does not.
const DefaultLimit = 50

// Entry is one recorded verification.
type Entry struct {
	ID        string       `json:"id" yaml:"id"`
	CreatedAt time.Time    `json:"created_at" yaml:"created_at"`
	Email     string       `json:"email,omitempty" yaml:"email,omitempty"`
	Citation  string       `json:"citation" yaml:"citation"`
	Status    types.Status `json:"status" yaml:"status"`
	Score     int          `json:"score" yaml:"score"`
	Source    types.Source `json:"source,omitempty" yaml:"source,omitempty"`

	// Result is the full verification result as returned to the caller.
	Result types.VerificationResult `json:"result" yaml:"result"`
}

// Query filters Recent.
type Query struct {
	// Email restricts entries to one user. Empty matches only entries
	// recorded without an email.
	Email string

	// AllUsers ignores Email and lists every user's entries. Only the
	// local CLI sets it.
	AllUsers bool

	// Status restricts entries to one status.
	Status types.Status

	// Contains matches a substring of the citation text.
	Contains string

	// Limit caps the result count. Zero uses DefaultLimit.
	Limit int
}

// Store manages the history SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the history database at cfg.Path, creating the
// parent directory and schema when they do not exist.
func Open(cfg types.HistoryConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("history path is empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
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
		`CREATE TABLE IF NOT EXISTS verifications (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			citation TEXT NOT NULL,
			status TEXT NOT NULL,
			score INTEGER NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			result TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_verifications_email ON verifications(email, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_verifications_status ON verifications(status)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends one verification.
func (s *Store) Record(ctx context.Context, citation, email string, r types.VerificationResult) error {
	resultJSON, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO verifications (id, created_at, email, citation, status, score, source, result)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), s.now().UTC().Format(time.RFC3339Nano), strings.TrimSpace(email),
		citation, string(r.Status), r.Score, string(r.Details.Source), string(resultJSON),
	)
	if err != nil {
		return fmt.Errorf("inserting verification: %w", err)
	}
	return nil
}

// Recent returns matching entries, newest first.
func (s *Store) Recent(ctx context.Context, q Query) ([]Entry, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT id, created_at, email, citation, status, score, source, result
		FROM verifications WHERE 1=1`)
	if !q.AllUsers {
		qb.WriteString(` AND email = ?`)
		args = append(args, strings.TrimSpace(q.Email))
	}
	if q.Status != "" {
		qb.WriteString(` AND status = ?`)
		args = append(args, string(q.Status))
	}
	if q.Contains != "" {
		qb.WriteString(` AND instr(lower(citation), lower(?)) > 0`)
		args = append(args, q.Contains)
	}
	qb.WriteString(` ORDER BY created_at DESC, rowid DESC LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                  Entry
			created, resultStr string
			status, source     string
		)
		if err := rows.Scan(&e.ID, &created, &e.Email, &e.Citation, &status, &e.Score, &source, &resultStr); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.Status = types.Status(status)
		e.Source = types.Source(source)
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parsing timestamp %q: %w", created, err)
		}
		if err := json.Unmarshal([]byte(resultStr), &e.Result); err != nil {
			return nil, fmt.Errorf("parsing stored result %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats counts entries per status, optionally for one user.
func (s *Store) Stats(ctx context.Context, email string) (map[types.Status]int, error) {
	query := `SELECT status, count(*) FROM verifications`
	var args []any
	if email != "" {
		query += ` WHERE email = ?`
		args = append(args, strings.TrimSpace(email))
	}
	query += ` GROUP BY status`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[types.Status]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		stats[types.Status(status)] = n
	}
	return stats, rows.Err()
}

// Export writes matching entries to w as "yaml" or "json".
func (s *Store) Export(ctx context.Context, w io.Writer, format string, q Query) error {
	entries, err := s.Recent(ctx, q)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}

	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case "", "yaml", "yml":
		data, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown export format %q (want yaml or json)", format)
	}
}
