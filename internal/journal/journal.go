// Package journal keeps a queryable sqlite record of per-URL outcomes across
// runs. It is strictly optional: every failure is logged and swallowed so a
// broken journal can never fail a run.
package journal

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  TEXT NOT NULL,
	finished_at TEXT,
	domains     INTEGER NOT NULL DEFAULT 0,
	produced    INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS outcomes (
	run_id     TEXT NOT NULL REFERENCES runs(id),
	domain     TEXT NOT NULL,
	url        TEXT NOT NULL,
	outcome    TEXT NOT NULL,
	detail     TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes(run_id);
CREATE INDEX IF NOT EXISTS idx_outcomes_url ON outcomes(domain, url);
`

// Journal records outcomes for one run. A nil *Journal is valid and inert,
// which is how a disabled or failed-to-open journal is represented.
type Journal struct {
	db    *sql.DB
	runID string
}

// Open creates or opens the journal database under dir and starts a new run
// row.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	path := filepath.Join(dir, "journal.db")
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("journal pragma %q: %w", pragma, err)
		}
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal schema: %w", err)
	}

	j := &Journal{db: db, runID: uuid.NewString()}
	if _, err := db.Exec(
		`INSERT INTO runs (id, started_at) VALUES (?, ?)`,
		j.runID, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal run row: %w", err)
	}
	return j, nil
}

// RunID returns the identifier of the current run, or "" on a nil journal.
func (j *Journal) RunID() string {
	if j == nil {
		return ""
	}
	return j.runID
}

// Outcome records one URL's processing outcome.
func (j *Journal) Outcome(domain, url, outcome, detail string) {
	if j == nil {
		return
	}
	_, err := j.db.Exec(
		`INSERT INTO outcomes (run_id, domain, url, outcome, detail, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		j.runID, domain, url, outcome, detail, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		slog.Warn("journal: outcome insert failed", "domain", domain, "url", url, "error", err)
	}
}

// Finish closes out the run row with totals.
func (j *Journal) Finish(domains, produced int) {
	if j == nil {
		return
	}
	_, err := j.db.Exec(
		`UPDATE runs SET finished_at = ?, domains = ?, produced = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), domains, produced, j.runID,
	)
	if err != nil {
		slog.Warn("journal: run update failed", "error", err)
	}
}

// OutcomeCount returns how many outcomes this run has recorded.
func (j *Journal) OutcomeCount() (int, error) {
	if j == nil {
		return 0, nil
	}
	var n int
	err := j.db.QueryRow(`SELECT COUNT(*) FROM outcomes WHERE run_id = ?`, j.runID).Scan(&n)
	return n, err
}

// Close releases the database handle.
func (j *Journal) Close() {
	if j == nil {
		return
	}
	j.db.Close()
}
