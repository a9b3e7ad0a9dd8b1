package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets `analyzer history` read while `analyzer watch` writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			run_trigger TEXT,
			symbols     TEXT,
			start_date  TEXT,
			end_date    TEXT,
			source      TEXT,
			status      TEXT,
			error_kind  TEXT,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS run_series (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL REFERENCES runs(id),
			position    INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			points      INTEGER,
			initial     REAL,
			first_date  TEXT,
			last_date   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_series_run ON run_series(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

const dateLayout = "2006-01-02"

func (r *SQLiteRecorder) RecordRun(run *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := run.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO runs
		(id, timestamp, run_trigger, symbols, start_date, end_date, source, status, error_kind, error)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		run.ID, created.Unix(), run.Trigger, strings.Join(run.Symbols, ","),
		run.Start.Format(dateLayout), run.End.Format(dateLayout),
		run.Source, run.Status, run.ErrorKind, run.Error,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, s := range run.Series {
		if _, err := tx.Exec(`INSERT INTO run_series
			(run_id, position, symbol, points, initial, first_date, last_date)
			VALUES (?,?,?,?,?,?,?)`,
			run.ID, i, s.Symbol, s.Points, s.Initial,
			s.FirstDate.Format(dateLayout), s.LastDate.Format(dateLayout),
		); err != nil {
			return fmt.Errorf("insert series %s: %w", s.Symbol, err)
		}
	}
	return tx.Commit()
}

// RecentRuns returns the latest runs, newest first, with their series.
func (r *SQLiteRecorder) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT id, timestamp, run_trigger, symbols, start_date, end_date,
		source, status, error_kind, error
		FROM runs ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var (
			run              RunRecord
			ts               int64
			symbols          string
			startStr, endStr string
		)
		if err := rows.Scan(&run.ID, &ts, &run.Trigger, &symbols, &startStr, &endStr,
			&run.Source, &run.Status, &run.ErrorKind, &run.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.CreatedAt = time.Unix(ts, 0)
		if symbols != "" {
			run.Symbols = strings.Split(symbols, ",")
		}
		run.Start, _ = time.Parse(dateLayout, startStr)
		run.End, _ = time.Parse(dateLayout, endStr)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		series, err := r.seriesOf(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Series = series
	}
	return runs, nil
}

func (r *SQLiteRecorder) seriesOf(runID string) ([]SeriesSummary, error) {
	rows, err := r.db.Query(`SELECT symbol, points, initial, first_date, last_date
		FROM run_series WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	var out []SeriesSummary
	for rows.Next() {
		var (
			s           SeriesSummary
			first, last string
		)
		if err := rows.Scan(&s.Symbol, &s.Points, &s.Initial, &first, &last); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		s.FirstDate, _ = time.Parse(dateLayout, first)
		s.LastDate, _ = time.Parse(dateLayout, last)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
