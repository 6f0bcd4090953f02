// Package sigstore persists canonical signature renderings between runs
// so later checks can detect drift against what was recorded before.
package sigstore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound reports a lookup for a signature name that was never recorded.
var ErrNotFound = errors.New("signature not found")

// Canonical is one signature's canonical rendering, keyed by name.
type Canonical struct {
	Name string
	Text string
}

// Entry is a stored signature row.
type Entry struct {
	Name        string
	Canonical   string
	Fingerprint string
	RunID       string
	UpdatedAt   time.Time
}

// Run groups the signatures recorded by one invocation.
type Run struct {
	ID        string
	StartedAt time.Time
	Source    string
}

// DriftKind classifies a fresh canonical form against the store.
type DriftKind int

const (
	DriftNone DriftKind = iota
	DriftAdded
	DriftChanged
)

func (k DriftKind) String() string {
	switch k {
	case DriftAdded:
		return "new"
	case DriftChanged:
		return "changed"
	default:
		return "unchanged"
	}
}

// Drift is the comparison of one signature with its stored form.
// Stored is empty when the signature was never recorded.
type Drift struct {
	Name   string
	Kind   DriftKind
	Stored string
	Fresh  string
}

// Store is a SQLite-backed signature registry.
type Store struct {
	db *sql.DB
}

// Open opens or creates the registry database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id         TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		source     TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS signatures (
		name        TEXT PRIMARY KEY,
		canonical   TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		run_id      TEXT NOT NULL REFERENCES runs(id),
		updated_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_signatures_run ON signatures(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores every canonical form under a fresh run inside one
// transaction and reports how each compares to what was stored before.
// Unchanged signatures keep their previous row, so run_id and updated_at
// track the last actual change rather than the last check.
func (s *Store) Record(ctx context.Context, source string, sigs []Canonical) (Run, []Drift, error) {
	run := Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Source:    source,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, source) VALUES (?, ?, ?)`,
		run.ID, run.StartedAt.Format(time.RFC3339), run.Source); err != nil {
		return Run{}, nil, fmt.Errorf("insert run: %w", err)
	}

	drifts := make([]Drift, 0, len(sigs))
	for _, sig := range sigs {
		d, err := classify(ctx, tx, sig)
		if err != nil {
			return Run{}, nil, err
		}
		if d.Kind != DriftNone {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO signatures (name, canonical, fingerprint, run_id, updated_at)
				 VALUES (?, ?, ?, ?, ?)
				 ON CONFLICT(name) DO UPDATE SET
					canonical   = excluded.canonical,
					fingerprint = excluded.fingerprint,
					run_id      = excluded.run_id,
					updated_at  = excluded.updated_at`,
				sig.Name, sig.Text, fingerprint(sig.Text), run.ID,
				run.StartedAt.Format(time.RFC3339))
			if err != nil {
				return Run{}, nil, fmt.Errorf("record %s: %w", sig.Name, err)
			}
		}
		drifts = append(drifts, d)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, nil, err
	}

	return run, drifts, nil
}

// Diff compares fresh canonical forms against the store without writing.
func (s *Store) Diff(ctx context.Context, sigs []Canonical) ([]Drift, error) {
	drifts := make([]Drift, 0, len(sigs))
	for _, sig := range sigs {
		d, err := classify(ctx, s.db, sig)
		if err != nil {
			return nil, err
		}
		drifts = append(drifts, d)
	}
	return drifts, nil
}

// Lookup returns the stored entry for a signature name.
func (s *Store) Lookup(ctx context.Context, name string) (Entry, error) {
	var e Entry
	var updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT name, canonical, fingerprint, run_id, updated_at
		 FROM signatures WHERE name = ?`, name).
		Scan(&e.Name, &e.Canonical, &e.Fingerprint, &e.RunID, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return Entry{}, err
	}
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return e, nil
}

// List returns all stored entries ordered by name.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, canonical, fingerprint, run_id, updated_at
		 FROM signatures ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var updatedAt string
		if err := rows.Scan(&e.Name, &e.Canonical, &e.Fingerprint, &e.RunID, &updatedAt); err != nil {
			return nil, err
		}
		e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func classify(ctx context.Context, q querier, sig Canonical) (Drift, error) {
	d := Drift{Name: sig.Name, Fresh: sig.Text}

	var stored string
	err := q.QueryRowContext(ctx,
		`SELECT canonical FROM signatures WHERE name = ?`, sig.Name).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		d.Kind = DriftAdded
	case err != nil:
		return Drift{}, err
	case stored == sig.Text:
		d.Kind = DriftNone
		d.Stored = stored
	default:
		d.Kind = DriftChanged
		d.Stored = stored
	}

	return d, nil
}

func fingerprint(text string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(text)))
}
