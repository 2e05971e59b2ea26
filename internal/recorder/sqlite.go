package recorder

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"StockDash/internal/model"
)

// SQLiteRecorder persists bars and fetch history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the refresh job and request handlers do not block each other.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bars (
			symbol  TEXT    NOT NULL,
			ts      INTEGER NOT NULL,
			open    REAL,
			high    REAL,
			low     REAL,
			close   REAL,
			volume  REAL,
			PRIMARY KEY (symbol, ts)
		)`,

		`CREATE TABLE IF NOT EXISTS fetch_history (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT,
			source      TEXT,
			range_start INTEGER,
			range_end   INTEGER,
			bars        INTEGER,
			duration_ms INTEGER,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_ts ON fetch_history(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordBars upserts bars for symbol in a single transaction.
func (r *SQLiteRecorder) RecordBars(symbol string, bars []model.OHLCV) error {
	if len(bars) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO bars (symbol, ts, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(symbol, ts) DO UPDATE SET
			open=excluded.open, high=excluded.high, low=excluded.low,
			close=excluded.close, volume=excluded.volume`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.Exec(symbol, b.Time.Unix(),
			nullable(b.Open), nullable(b.High), nullable(b.Low), nullable(b.Close), nullable(b.Volume)); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert bar %s: %w", b.Time.Format("2006-01-02"), err)
		}
	}
	return tx.Commit()
}

// LoadBars returns cached bars for symbol with start <= time < end, oldest first.
func (r *SQLiteRecorder) LoadBars(symbol string, start, end time.Time) ([]model.OHLCV, error) {
	rows, err := r.db.Query(`SELECT ts, open, high, low, close, volume FROM bars
		WHERE symbol = ? AND ts >= ? AND ts < ? ORDER BY ts`,
		symbol, start.Unix(), end.Unix())
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var bars []model.OHLCV
	for rows.Next() {
		var ts int64
		var o, h, l, c, v sql.NullFloat64
		if err := rows.Scan(&ts, &o, &h, &l, &c, &v); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   orNaN(o),
			High:   orNaN(h),
			Low:    orNaN(l),
			Close:  orNaN(c),
			Volume: orNaN(v),
		})
	}
	return bars, rows.Err()
}

func (r *SQLiteRecorder) RecordFetch(evt *FetchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO fetch_history
		(timestamp, symbol, source, range_start, range_end, bars, duration_ms, error)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Symbol, evt.Source,
		evt.Start.Unix(), evt.End.Unix(), evt.Bars,
		evt.Duration.Milliseconds(), evt.Err,
	)
	return err
}

// FetchCount returns the number of recorded fetches for symbol.
func (r *SQLiteRecorder) FetchCount(symbol string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM fetch_history WHERE symbol = ?`, symbol).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

// nullable maps NaN to SQL NULL.
func nullable(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
