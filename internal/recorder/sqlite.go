package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
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

	// WAL mode keeps readers (e.g. ad-hoc queries) out of the writer's way.
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
		`CREATE TABLE IF NOT EXISTS runs (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp          INTEGER NOT NULL,
			total_invested     REAL,
			total_market_value REAL,
			total_profit       REAL,
			total_profit_pct   REAL,
			fund_count         INTEGER,
			sentiment_score    INTEGER,
			sentiment_signal   TEXT,
			report_path        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS fund_valuations (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       INTEGER NOT NULL,
			timestamp    INTEGER NOT NULL,
			fund_code    TEXT,
			fund_name    TEXT,
			calc_method  TEXT,
			market_value REAL,
			profit       REAL,
			profit_pct   REAL,
			note         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fundval_ts ON fund_valuations(timestamp)`,

		`CREATE TABLE IF NOT EXISTS index_signals (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          INTEGER NOT NULL,
			timestamp       INTEGER NOT NULL,
			index_code      TEXT,
			index_name      TEXT,
			price           REAL,
			rsi             REAL,
			buy_score       INTEGER,
			sell_score      INTEGER,
			net_score       INTEGER,
			action          TEXT,
			reasons         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_ts ON index_signals(timestamp)`,

		`CREATE TABLE IF NOT EXISTS recommendations (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          INTEGER NOT NULL,
			timestamp       INTEGER NOT NULL,
			index_code      TEXT,
			index_name      TEXT,
			action          TEXT,
			confidence      INTEGER,
			trend_strength  TEXT,
			valuation_level TEXT,
			position_band   TEXT,
			weight_pct      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_recs_ts ON recommendations(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(snap *RunSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()

	var sentimentScore int
	var sentimentSignal string
	if snap.Sentiment != nil {
		sentimentScore = snap.Sentiment.Score
		sentimentSignal = string(snap.Sentiment.Signal)
	}
	var invested, marketValue, profit, profitPct float64
	var fundCount int
	if snap.Valuation != nil {
		invested = snap.Valuation.Summary.TotalInvested
		marketValue = snap.Valuation.Summary.TotalMarketValue
		profit = snap.Valuation.Summary.TotalProfit
		profitPct = snap.Valuation.Summary.TotalProfitPct
		fundCount = snap.Valuation.Summary.FundCount
	}

	res, err := r.db.Exec(`INSERT INTO runs
		(timestamp, total_invested, total_market_value, total_profit, total_profit_pct,
		 fund_count, sentiment_score, sentiment_signal, report_path)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		now, invested, marketValue, profit, profitPct,
		fundCount, sentimentScore, sentimentSignal, snap.ReportPath,
	)
	if err != nil {
		return err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if snap.Valuation != nil {
		for _, f := range snap.Valuation.Funds {
			if _, err := r.db.Exec(`INSERT INTO fund_valuations
				(run_id, timestamp, fund_code, fund_name, calc_method, market_value, profit, profit_pct, note)
				VALUES (?,?,?,?,?,?,?,?,?)`,
				runID, now, f.Code, f.Name, string(f.CalcMethod),
				f.MarketValue, f.Profit, f.ProfitPct, f.Note,
			); err != nil {
				return err
			}
		}
	}

	for _, t := range snap.Trends {
		if t.Signal == nil {
			continue
		}
		var rsi sql.NullFloat64
		if t.RSI != nil {
			rsi = sql.NullFloat64{Float64: *t.RSI, Valid: true}
		}
		if _, err := r.db.Exec(`INSERT INTO index_signals
			(run_id, timestamp, index_code, index_name, price, rsi,
			 buy_score, sell_score, net_score, action, reasons)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			runID, now, t.Code, t.Name, t.Price, rsi,
			t.Signal.BuyScore, t.Signal.SellScore, t.Signal.NetScore,
			string(t.Signal.Action), strings.Join(t.Signal.Reasons, "；"),
		); err != nil {
			return err
		}
	}

	for _, rec := range snap.Recommendations {
		if _, err := r.db.Exec(`INSERT INTO recommendations
			(run_id, timestamp, index_code, index_name, action, confidence,
			 trend_strength, valuation_level, position_band, weight_pct)
			VALUES (?,?,?,?,?,?,?,?,?,?)`,
			runID, now, rec.IndexCode, rec.IndexName, string(rec.Action), rec.Confidence,
			rec.Metrics.TrendStrength, rec.Metrics.ValuationLevel,
			rec.Metrics.PositionBand, rec.Metrics.WeightPct,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
