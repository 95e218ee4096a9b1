package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so ad-hoc readers don't block the reporter's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS run_summaries (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			timeframe   TEXT,
			tracked     INTEGER,
			evaluated   INTEGER,
			gainers     INTEGER,
			losers      INTEGER,
			breadth_pct REAL,
			delivered   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON run_summaries(timestamp)`,

		`CREATE TABLE IF NOT EXISTS leaderboard_entries (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     INTEGER NOT NULL,
			role       TEXT,
			rank       INTEGER,
			symbol     TEXT,
			name       TEXT,
			price      REAL,
			timeframe  TEXT,
			change_pct REAL,
			FOREIGN KEY(run_id) REFERENCES run_summaries(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_run ON leaderboard_entries(run_id)`,

		`CREATE TABLE IF NOT EXISTS insights (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id   INTEGER NOT NULL,
			position INTEGER,
			severity TEXT,
			text     TEXT,
			FOREIGN KEY(run_id) REFERENCES run_summaries(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_insights_run ON insights(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun inserts the run summary plus every leaderboard entry and
// insight produced by the run.
func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var breadth interface{}
	if rec.Stats.Breadth.Valid {
		breadth = rec.Stats.Breadth.Pct
	}
	delivered := 0
	if rec.Delivered {
		delivered = 1
	}
	res, err := tx.Exec(`INSERT INTO run_summaries
		(timestamp, timeframe, tracked, evaluated, gainers, losers, breadth_pct, delivered)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.Stats.Timeframe,
		rec.Stats.Tracked, rec.Stats.Evaluated, rec.Stats.Gainers, rec.Stats.Losers,
		breadth, delivered,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	for _, lb := range rec.Leaderboards {
		for i, entry := range lb.Records {
			var price interface{}
			if entry.HasPrice {
				price = entry.Price
			}
			var change interface{}
			if chg := entry.ChangeFor(lb.Timeframe); chg.Valid {
				change = chg.Pct
			}
			if _, err := tx.Exec(`INSERT INTO leaderboard_entries
				(run_id, role, rank, symbol, name, price, timeframe, change_pct)
				VALUES (?,?,?,?,?,?,?,?)`,
				runID, lb.Role, i+1, entry.Symbol, entry.Name, price, lb.Timeframe, change,
			); err != nil {
				return fmt.Errorf("insert entry %s/%s: %w", lb.Role, entry.Symbol, err)
			}
		}
	}

	for i, ins := range rec.Insights {
		if _, err := tx.Exec(`INSERT INTO insights (run_id, position, severity, text) VALUES (?,?,?,?)`,
			runID, i+1, string(ins.Severity), ins.Text,
		); err != nil {
			return fmt.Errorf("insert insight %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
