// Package history persists per-run outcomes to a local SQLite
// database for the history command. The store is write-only with
// respect to the pipeline: nothing recorded here feeds back into
// classification or confirmation.
package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/cleanfiles/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// RunRecord is one persisted run summary.
type RunRecord struct {
	ID            string
	CanonicalRoot string
	SourceRoots   []string
	StartedAt     time.Time
	FinishedAt    time.Time
	Proposed      int
	Approved      int
	Rejected      int
	Executed      int
	Failed        int
	PrunedDirs    int
}

// Store manages the SQLite history database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// DefaultPath returns the history database location under the user's
// home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".cleanfiles", "history.db"), nil
}

// NewStore opens (creating if needed) the history database at dbPath
// and initializes the schema.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// busy_timeout first so later statements wait on locks
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun writes one run row plus one row per executed action, in a
// single transaction.
func (s *Store) RecordRun(canonicalRoot string, sourceRoots []string, startedAt time.Time, report models.RunReport, results []models.ActionResult) (string, error) {
	runID := uuid.New().String()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, canonical_root, source_roots, started_at, finished_at,
			proposed, approved, rejected, executed, failed, pruned_dirs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, canonicalRoot, strings.Join(sourceRoots, string(os.PathListSeparator)),
		startedAt, time.Now(),
		report.Proposed, report.Approved, report.Rejected,
		report.Executed, report.Failed, report.PrunedDirs)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO actions (run_id, kind, path, destination, success, error)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare action insert: %w", err)
	}
	defer stmt.Close()

	for _, result := range results {
		dest := result.Action.Dest
		if result.Action.Kind == models.KindRename {
			dest = result.Action.NewName
		}
		var errText string
		if result.Err != nil {
			errText = result.Err.Error()
		}
		if _, err := stmt.Exec(runID, result.Action.Kind.String(), result.Action.Target.Path,
			dest, result.Err == nil, errText); err != nil {
			return "", fmt.Errorf("insert action: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

// RecentRuns returns up to limit run records, newest first.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, canonical_root, source_roots, started_at, finished_at,
			proposed, approved, rejected, executed, failed, pruned_dirs
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var roots string
		if err := rows.Scan(&rec.ID, &rec.CanonicalRoot, &roots, &rec.StartedAt, &rec.FinishedAt,
			&rec.Proposed, &rec.Approved, &rec.Rejected, &rec.Executed, &rec.Failed, &rec.PrunedDirs); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if roots != "" {
			rec.SourceRoots = strings.Split(roots, string(os.PathListSeparator))
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
