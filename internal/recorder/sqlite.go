package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists historical data to a SQLite database.
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
	db.SetMaxOpenConns(1)

	// WAL lets dashboards read while the service writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	// The store and the recorder may share one database file.
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
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
		`CREATE TABLE IF NOT EXISTS analytics_snapshots (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp          INTEGER NOT NULL,
			period             TEXT,
			benchmark          TEXT,
			holdings           INTEGER,
			portfolio_value    REAL,
			sharpe_ratio       REAL,
			sortino_ratio      REAL,
			max_drawdown       REAL,
			volatility         REAL,
			beta               REAL,
			alpha              REAL,
			total_return       REAL,
			annualized_return  REAL,
			downside_deviation REAL,
			calmar_ratio       REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analytics_ts ON analytics_snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS alert_events (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			alert_id     TEXT,
			symbol       TEXT,
			condition    TEXT,
			target_price REAL,
			price        REAL
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

func (r *SQLiteRecorder) RecordAnalytics(snap *AnalyticsSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := snap.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	res := snap.Result
	_, err := r.db.Exec(`INSERT INTO analytics_snapshots
		(timestamp, period, benchmark, holdings, portfolio_value,
		 sharpe_ratio, sortino_ratio, max_drawdown, volatility, beta, alpha,
		 total_return, annualized_return, downside_deviation, calmar_ratio)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		ts.Unix(), snap.Period, snap.Benchmark, snap.Holdings, snap.PortfolioValue,
		res.SharpeRatio, res.SortinoRatio, res.MaxDrawdown, res.Volatility, res.Beta, res.Alpha,
		res.TotalReturn, res.AnnualizedReturn, res.DownsideDeviation, res.CalmarRatio,
	)
	return err
}

func (r *SQLiteRecorder) RecordAlert(evt *AlertEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO alert_events
		(timestamp, alert_id, symbol, condition, target_price, price)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), evt.AlertID, evt.Symbol, string(evt.Condition),
		evt.TargetPrice, evt.Price,
	)
	return err
}

func (r *SQLiteRecorder) AnalyticsHistory(limit int) ([]AnalyticsSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 30
	}
	rows, err := r.db.Query(`SELECT timestamp, period, benchmark, holdings, portfolio_value,
		sharpe_ratio, sortino_ratio, max_drawdown, volatility, beta, alpha,
		total_return, annualized_return, downside_deviation, calmar_ratio
		FROM analytics_snapshots ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []AnalyticsSnapshot{}
	for rows.Next() {
		var s AnalyticsSnapshot
		var ts int64
		res := &s.Result
		if err := rows.Scan(&ts, &s.Period, &s.Benchmark, &s.Holdings, &s.PortfolioValue,
			&res.SharpeRatio, &res.SortinoRatio, &res.MaxDrawdown, &res.Volatility, &res.Beta, &res.Alpha,
			&res.TotalReturn, &res.AnnualizedReturn, &res.DownsideDeviation, &res.CalmarRatio); err != nil {
			return nil, err
		}
		s.Timestamp = time.Unix(ts, 0)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
