package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"CopperAnalytics/internal/logger"
)

// SQLiteRecorder writes the run ledger to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logger.Entry
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so dashboards can read while a run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: logger.GetLogger().WithComponent("recorder")}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.WithField("path", dbPath).Info("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS run_ledger (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          TEXT NOT NULL UNIQUE,
			started_at      INTEGER NOT NULL,
			finished_at     INTEGER NOT NULL,
			status          TEXT NOT NULL,
			failed_stage    TEXT,
			error_kind      TEXT,
			message         TEXT,
			record_count    INTEGER,
			date_start      TEXT,
			date_end        TEXT,
			trend_direction TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_ledger_started ON run_ledger(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_run_ledger_status ON run_ledger(status)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) Record(ctx context.Context, rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO run_ledger
		(run_id, started_at, finished_at, status, failed_stage, error_kind, message,
		 record_count, date_start, date_end, trend_direction)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		rec.RunID, rec.StartedAt.Unix(), rec.FinishedAt.Unix(), rec.Status,
		rec.FailedStage, rec.ErrorKind, rec.Message,
		rec.RecordCount, rec.DateStart, rec.DateEnd, rec.TrendDirection,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", rec.RunID, err)
	}
	return nil
}

// Recent returns the latest n ledger rows, newest first.
func (r *SQLiteRecorder) Recent(ctx context.Context, n int) ([]RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.QueryContext(ctx, `SELECT run_id, started_at, finished_at, status,
		failed_stage, error_kind, message, record_count, date_start, date_end, trend_direction
		FROM run_ledger ORDER BY started_at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query run ledger: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var started, finished int64
		if err := rows.Scan(&rec.RunID, &started, &finished, &rec.Status,
			&rec.FailedStage, &rec.ErrorKind, &rec.Message, &rec.RecordCount,
			&rec.DateStart, &rec.DateEnd, &rec.TrendDirection); err != nil {
			return nil, fmt.Errorf("scan run ledger: %w", err)
		}
		rec.StartedAt = time.Unix(started, 0).UTC()
		rec.FinishedAt = time.Unix(finished, 0).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
