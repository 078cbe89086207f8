package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/rxtech-lab/swing-trader/internal/logger"
	"github.com/rxtech-lab/swing-trader/internal/types"
	"github.com/rxtech-lab/swing-trader/pkg/errors"
)

// DuckDBStore implements Store on a single DuckDB database file.
type DuckDBStore struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

var _ Store = (*DuckDBStore)(nil)

// Open opens (or creates) the DuckDB database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral store.
func Open(path string, logger *logger.Logger) (*DuckDBStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreFailed, "failed to create data directory", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreFailed, "failed to open duckdb", err)
	}

	s := &DuckDBStore{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := s.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return s, nil
}

// initialize creates the entity tables. The seq column records insertion
// order; every load orders by it so that file order survives round-trips.
func (s *DuckDBStore) initialize() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS prices (
			seq INTEGER,
			date TIMESTAMP,
			ticker TEXT,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE
		)`,
		`CREATE TABLE IF NOT EXISTS signals (
			seq INTEGER,
			date TIMESTAMP,
			ticker TEXT,
			strategy TEXT,
			confidence TEXT,
			close DOUBLE,
			volume DOUBLE
		)`,
		`CREATE TABLE IF NOT EXISTS picks (
			seq INTEGER,
			date TIMESTAMP,
			ticker TEXT,
			strategy TEXT,
			entry DOUBLE,
			stop DOUBLE,
			target DOUBLE,
			risk_amount DOUBLE,
			confidence TEXT,
			reasoning TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS positions (
			seq INTEGER,
			id TEXT,
			date_opened TIMESTAMP,
			ticker TEXT,
			strategy TEXT,
			entry_price DOUBLE,
			executed_price DOUBLE,
			stop DOUBLE,
			target DOUBLE,
			confidence TEXT,
			status TEXT,
			result TEXT,
			days_held INTEGER,
			wallet_before DOUBLE,
			wallet_after DOUBLE
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return errors.Wrap(errors.ErrCodeStoreFailed, "failed to create table", err)
		}
	}

	return nil
}

// Close closes the underlying database.
func (s *DuckDBStore) Close() error {
	return s.db.Close()
}

// overwrite replaces a table's contents inside one transaction. The insert
// callback receives the transaction and must write all new rows.
func (s *DuckDBStore) overwrite(table string, insert func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreFailed, "failed to begin transaction", err)
	}

	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
		tx.Rollback()

		return errors.Wrapf(errors.ErrCodeStoreFailed, err, "failed to clear %s", table)
	}

	if err := insert(tx); err != nil {
		tx.Rollback()

		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeStoreFailed, "failed to commit transaction", err)
	}

	return nil
}

// LoadPrices implements Store.
func (s *DuckDBStore) LoadPrices() ([]types.PriceBar, error) {
	rows, err := s.sq.
		Select("date", "ticker", "open", "high", "low", "close", "volume").
		From("prices").
		OrderBy("seq ASC").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to load prices", err)
	}
	defer rows.Close()

	var bars []types.PriceBar

	for rows.Next() {
		var bar types.PriceBar
		if err := rows.Scan(&bar.Date, &bar.Ticker, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan price bar", err)
		}

		bars = append(bars, bar)
	}

	return bars, rows.Err()
}

// OverwritePrices implements Store.
func (s *DuckDBStore) OverwritePrices(bars []types.PriceBar) error {
	s.logger.Debug("Overwriting prices", zap.Int("rows", len(bars)))

	return s.overwrite("prices", func(tx *sql.Tx) error {
		for i, bar := range bars {
			insert := s.sq.
				Insert("prices").
				Columns("seq", "date", "ticker", "open", "high", "low", "close", "volume").
				Values(i, bar.Date, bar.Ticker, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume).
				RunWith(tx)

			if _, err := insert.Exec(); err != nil {
				return errors.Wrap(errors.ErrCodeStoreFailed, "failed to insert price bar", err)
			}
		}

		return nil
	})
}

// LoadSignals implements Store.
func (s *DuckDBStore) LoadSignals() ([]types.BreakoutSignal, error) {
	rows, err := s.sq.
		Select("date", "ticker", "strategy", "confidence", "close", "volume").
		From("signals").
		OrderBy("seq ASC").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to load signals", err)
	}
	defer rows.Close()

	var signals []types.BreakoutSignal

	for rows.Next() {
		var sig types.BreakoutSignal
		if err := rows.Scan(&sig.Date, &sig.Ticker, &sig.Strategy, &sig.Confidence, &sig.Close, &sig.Volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan signal", err)
		}

		signals = append(signals, sig)
	}

	return signals, rows.Err()
}

// OverwriteSignals implements Store.
func (s *DuckDBStore) OverwriteSignals(signals []types.BreakoutSignal) error {
	s.logger.Debug("Overwriting signals", zap.Int("rows", len(signals)))

	return s.overwrite("signals", func(tx *sql.Tx) error {
		for i, sig := range signals {
			insert := s.sq.
				Insert("signals").
				Columns("seq", "date", "ticker", "strategy", "confidence", "close", "volume").
				Values(i, sig.Date, sig.Ticker, sig.Strategy, string(sig.Confidence), sig.Close, sig.Volume).
				RunWith(tx)

			if _, err := insert.Exec(); err != nil {
				return errors.Wrap(errors.ErrCodeStoreFailed, "failed to insert signal", err)
			}
		}

		return nil
	})
}

// LoadPicks implements Store.
func (s *DuckDBStore) LoadPicks() ([]types.TradePlan, error) {
	rows, err := s.sq.
		Select("date", "ticker", "strategy", "entry", "stop", "target", "risk_amount", "confidence", "reasoning").
		From("picks").
		OrderBy("seq ASC").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to load picks", err)
	}
	defer rows.Close()

	var plans []types.TradePlan

	for rows.Next() {
		var plan types.TradePlan
		if err := rows.Scan(&plan.Date, &plan.Ticker, &plan.Strategy, &plan.Entry, &plan.Stop,
			&plan.Target, &plan.RiskAmount, &plan.Confidence, &plan.Reasoning); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan pick", err)
		}

		plans = append(plans, plan)
	}

	return plans, rows.Err()
}

// OverwritePicks implements Store.
func (s *DuckDBStore) OverwritePicks(plans []types.TradePlan) error {
	s.logger.Debug("Overwriting picks", zap.Int("rows", len(plans)))

	return s.overwrite("picks", func(tx *sql.Tx) error {
		for i, plan := range plans {
			insert := s.sq.
				Insert("picks").
				Columns("seq", "date", "ticker", "strategy", "entry", "stop", "target", "risk_amount", "confidence", "reasoning").
				Values(i, plan.Date, plan.Ticker, plan.Strategy, plan.Entry, plan.Stop,
					plan.Target, plan.RiskAmount, string(plan.Confidence), plan.Reasoning).
				RunWith(tx)

			if _, err := insert.Exec(); err != nil {
				return errors.Wrap(errors.ErrCodeStoreFailed, "failed to insert pick", err)
			}
		}

		return nil
	})
}

// LoadPositions implements Store.
func (s *DuckDBStore) LoadPositions() ([]types.Position, error) {
	rows, err := s.sq.
		Select("id", "date_opened", "ticker", "strategy", "entry_price", "executed_price",
			"stop", "target", "confidence", "status", "result", "days_held", "wallet_before", "wallet_after").
		From("positions").
		OrderBy("seq ASC").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to load positions", err)
	}
	defer rows.Close()

	var positions []types.Position

	for rows.Next() {
		var (
			p           types.Position
			result      sql.NullString
			walletAfter sql.NullFloat64
		)

		if err := rows.Scan(&p.ID, &p.DateOpened, &p.Ticker, &p.Strategy, &p.EntryPrice, &p.ExecutedPrice,
			&p.Stop, &p.Target, &p.Confidence, &p.Status, &result, &p.DaysHeld, &p.WalletBefore, &walletAfter); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan position", err)
		}

		if result.Valid {
			p.Result = optional.Some(types.TradeResult(result.String))
		} else {
			p.Result = optional.None[types.TradeResult]()
		}

		if walletAfter.Valid {
			p.WalletAfter = optional.Some(walletAfter.Float64)
		} else {
			p.WalletAfter = optional.None[float64]()
		}

		positions = append(positions, p)
	}

	return positions, rows.Err()
}

// OverwritePositions implements Store.
func (s *DuckDBStore) OverwritePositions(positions []types.Position) error {
	s.logger.Debug("Overwriting positions", zap.Int("rows", len(positions)))

	return s.overwrite("positions", func(tx *sql.Tx) error {
		for i, p := range positions {
			if err := s.insertPosition(tx, i, p); err != nil {
				return err
			}
		}

		return nil
	})
}

// AppendPositions implements Store. Existing rows are never rewritten; new
// rows are numbered after the current tail.
func (s *DuckDBStore) AppendPositions(positions []types.Position) error {
	s.logger.Debug("Appending positions", zap.Int("rows", len(positions)))

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreFailed, "failed to begin transaction", err)
	}

	var next int
	if err := tx.QueryRow("SELECT COALESCE(MAX(seq) + 1, 0) FROM positions").Scan(&next); err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to read position sequence", err)
	}

	for i, p := range positions {
		if err := s.insertPosition(tx, next+i, p); err != nil {
			tx.Rollback()

			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeStoreFailed, "failed to commit transaction", err)
	}

	return nil
}

func (s *DuckDBStore) insertPosition(tx *sql.Tx, seq int, p types.Position) error {
	var result any
	if p.Result.IsSome() {
		result = string(p.Result.Unwrap())
	}

	var walletAfter any
	if p.WalletAfter.IsSome() {
		walletAfter = p.WalletAfter.Unwrap()
	}

	insert := s.sq.
		Insert("positions").
		Columns("seq", "id", "date_opened", "ticker", "strategy", "entry_price", "executed_price",
			"stop", "target", "confidence", "status", "result", "days_held", "wallet_before", "wallet_after").
		Values(seq, p.ID, p.DateOpened, p.Ticker, p.Strategy, p.EntryPrice, p.ExecutedPrice,
			p.Stop, p.Target, string(p.Confidence), string(p.Status), result, p.DaysHeld, p.WalletBefore, walletAfter).
		RunWith(tx)

	if _, err := insert.Exec(); err != nil {
		return errors.Wrap(errors.ErrCodeStoreFailed, "failed to insert position", err)
	}

	return nil
}
