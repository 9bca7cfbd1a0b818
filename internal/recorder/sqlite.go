package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"PortfolioDesk/internal/logger"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists refresh and alert history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logger.Logger
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *logger.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS refresh_snapshots (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			mode           TEXT,
			positions      INTEGER,
			total_cost     REAL,
			total_value    REAL,
			profit_loss    REAL,
			daily_delta    REAL,
			return_percent REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_ts ON refresh_snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS alert_events (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			name          TEXT NOT NULL,
			reasons       TEXT,
			current_value REAL,
			profit_loss   REAL,
			daily_percent REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alert_ts ON alert_events(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRefresh(snap *RefreshSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO refresh_snapshots
		(timestamp, mode, positions, total_cost, total_value, profit_loss, daily_delta, return_percent)
		VALUES (?,?,?,?,?,?,?,?)`,
		r.now().Unix(), snap.Mode, snap.Positions,
		snap.TotalCost, snap.TotalValue, snap.ProfitLoss,
		snap.DailyDelta, snap.ReturnPercent,
	)
	return err
}

func (r *SQLiteRecorder) RecordAlert(evt *AlertEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO alert_events
		(timestamp, name, reasons, current_value, profit_loss, daily_percent)
		VALUES (?,?,?,?,?,?)`,
		r.now().Unix(), evt.Name, evt.Reasons,
		evt.CurrentValue, evt.ProfitLoss, evt.DailyPercent,
	)
	return err
}

// RecentRefreshes returns the newest snapshots first.
func (r *SQLiteRecorder) RecentRefreshes(limit int) ([]SnapshotRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT timestamp, mode, positions, total_cost, total_value,
		profit_loss, daily_delta, return_percent
		FROM refresh_snapshots ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query refresh snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotRow
	for rows.Next() {
		var row SnapshotRow
		var ts int64
		if err := rows.Scan(&ts, &row.Mode, &row.Positions, &row.TotalCost, &row.TotalValue,
			&row.ProfitLoss, &row.DailyDelta, &row.ReturnPercent); err != nil {
			return nil, fmt.Errorf("scan refresh snapshot: %w", err)
		}
		row.At = time.Unix(ts, 0)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
