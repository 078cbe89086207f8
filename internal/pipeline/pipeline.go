// Package pipeline wires the stages of the daily batch run: collect prices,
// detect breakouts, build alerts, notify, execute simulated fills, and
// resolve open positions. Each stage is independently invocable and treats
// an empty upstream table as guidance, not an error.
package pipeline

import (
	"context"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/swing-trader/internal/alert"
	"github.com/rxtech-lab/swing-trader/internal/config"
	"github.com/rxtech-lab/swing-trader/internal/detector"
	"github.com/rxtech-lab/swing-trader/internal/executor"
	"github.com/rxtech-lab/swing-trader/internal/logger"
	"github.com/rxtech-lab/swing-trader/internal/notify"
	"github.com/rxtech-lab/swing-trader/internal/resolver"
	"github.com/rxtech-lab/swing-trader/internal/store"
	"github.com/rxtech-lab/swing-trader/internal/types"
)

// PriceSource is the slice of the provider chain the pipeline consumes.
type PriceSource interface {
	FetchDaily(ctx context.Context, ticker string, bars int) ([]types.PriceBar, error)
	Quote(ctx context.Context, ticker string) (float64, error)
}

// Pipeline holds the collaborators shared by all stages.
type Pipeline struct {
	cfg       *config.Config
	store     store.Store
	prices    PriceSource
	sink      notify.Sink
	logger    *logger.Logger
	detector  *detector.Detector
	builder   *alert.Builder
	simulator *executor.Simulator
	resolver  *resolver.Resolver
}

// New assembles a Pipeline from its collaborators.
func New(logger *logger.Logger, cfg *config.Config, st store.Store, prices PriceSource, sink notify.Sink) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		store:     st,
		prices:    prices,
		sink:      sink,
		logger:    logger,
		detector:  detector.New(logger, cfg.LookbackWindow),
		builder:   alert.New(logger, cfg.NominalBalance, cfg.RiskPercent),
		simulator: executor.New(logger),
		resolver:  resolver.New(logger, cfg.MaxHoldDays, cfg.RiskPercent),
	}
}

// Collect fetches daily history for the configured universe and overwrites
// the prices table. A ticker whose fetch fails on every provider is skipped;
// the rest of the universe still lands.
func (p *Pipeline) Collect(ctx context.Context) error {
	bar := progressbar.NewOptions(len(p.cfg.Tickers),
		progressbar.OptionSetDescription("Collecting prices"),
		progressbar.OptionShowCount(),
	)

	var collected []types.PriceBar

	for _, ticker := range p.cfg.Tickers {
		fetched, err := p.prices.FetchDaily(ctx, ticker, p.cfg.LookbackWindow+1)
		if err != nil {
			p.logger.Warn("Failed to fetch prices, skipping ticker",
				zap.String("ticker", ticker),
				zap.Error(err),
			)

			bar.Add(1)

			continue
		}

		collected = append(collected, fetched...)
		bar.Add(1)
	}

	bar.Finish()

	if len(collected) == 0 {
		p.logger.Warn("No price data fetched")

		return nil
	}

	if err := p.store.OverwritePrices(collected); err != nil {
		return err
	}

	p.logger.Info("Prices saved", zap.Int("rows", len(collected)))

	return nil
}

// Detect scans stored prices and overwrites the signals table with whatever
// breakouts fired today. Signals are derived fresh each run, so an empty
// scan clears the table rather than leaving stale rows behind.
func (p *Pipeline) Detect(ctx context.Context) error {
	prices, err := p.store.LoadPrices()
	if err != nil {
		return err
	}

	if len(prices) == 0 {
		p.logger.Warn("No price data stored. Run collect first.")

		return nil
	}

	signals := p.detector.Scan(prices)

	if err := p.store.OverwriteSignals(signals); err != nil {
		return err
	}

	if len(signals) == 0 {
		p.logger.Info("No breakout patterns found today")

		return nil
	}

	p.logger.Info("Breakout signals saved", zap.Int("count", len(signals)))

	return nil
}

// Alert converts stored signals into trade picks.
func (p *Pipeline) Alert(ctx context.Context) error {
	signals, err := p.store.LoadSignals()
	if err != nil {
		return err
	}

	if len(signals) == 0 {
		p.logger.Warn("No signals found. Run detect first.")

		return nil
	}

	plans := p.builder.Build(signals)

	if err := p.store.OverwritePicks(plans); err != nil {
		return err
	}

	if len(plans) == 0 {
		p.logger.Info("No valid alerts generated")

		return nil
	}

	p.logger.Info("Trade picks saved", zap.Int("count", len(plans)))

	return nil
}

// Notify sends one formatted alert per stored pick. A delivery failure is
// logged and the next message still goes out.
func (p *Pipeline) Notify(ctx context.Context) error {
	plans, err := p.store.LoadPicks()
	if err != nil {
		return err
	}

	if len(plans) == 0 {
		p.logger.Warn("No picks found. Run alert first.")

		return nil
	}

	for _, plan := range plans {
		message := notify.FormatTradeAlert(plan)

		if err := p.sink.Send(ctx, message); err != nil {
			p.logger.Error("Failed to send notification",
				zap.String("ticker", plan.Ticker),
				zap.Error(err),
			)

			continue
		}

		p.logger.Info("Notification sent", zap.String("ticker", plan.Ticker))
	}

	return nil
}

// Execute simulates fills for the stored picks and appends the resulting
// open positions. Existing position rows are never rewritten here.
func (p *Pipeline) Execute(ctx context.Context) error {
	plans, err := p.store.LoadPicks()
	if err != nil {
		return err
	}

	if len(plans) == 0 {
		p.logger.Warn("No picks to execute. Run alert first.")

		return nil
	}

	balance, err := p.currentWallet()
	if err != nil {
		return err
	}

	positions := p.simulator.Execute(plans, balance)

	if err := p.store.AppendPositions(positions); err != nil {
		return err
	}

	p.logger.Info("Trades logged", zap.Int("count", len(positions)))

	return nil
}

// Update resolves open positions against current prices and persists the
// updated set along with the threaded wallet balance.
func (p *Pipeline) Update(ctx context.Context) error {
	positions, err := p.store.LoadPositions()
	if err != nil {
		return err
	}

	if len(positions) == 0 {
		p.logger.Warn("No positions found. Run execute first.")

		return nil
	}

	updated, finalBalance := p.resolver.Resolve(ctx, positions, p.cfg.StartingBalance, p.prices.Quote)

	if err := p.store.OverwritePositions(updated); err != nil {
		return err
	}

	p.logger.Info("Trades updated", zap.Float64("wallet", finalBalance))

	return nil
}

// Stats writes a YAML summary of the stored book to path.
func (p *Pipeline) Stats(path string) error {
	positions, err := p.store.LoadPositions()
	if err != nil {
		return err
	}

	stats := types.CollectTradeStats(positions, p.cfg.StartingBalance, time.Now())

	if err := types.WriteTradeStats(path, stats); err != nil {
		return err
	}

	p.logger.Info("Stats written",
		zap.String("path", path),
		zap.Int("trades", stats.NumberOfTrades),
		zap.Float64("final_balance", stats.FinalBalance),
	)

	return nil
}

// Run executes the full daily batch in stage order.
func (p *Pipeline) Run(ctx context.Context) error {
	stages := []func(context.Context) error{
		p.Collect,
		p.Detect,
		p.Alert,
		p.Notify,
		p.Execute,
		p.Update,
	}

	for _, stage := range stages {
		if err := stage(ctx); err != nil {
			return err
		}
	}

	return nil
}

// currentWallet returns the carry-forward balance for newly executed rows:
// the last stored WalletAfter, or the configured starting balance when the
// book is empty or unresolved.
func (p *Pipeline) currentWallet() (float64, error) {
	positions, err := p.store.LoadPositions()
	if err != nil {
		return 0, err
	}

	balance := p.cfg.StartingBalance

	for _, pos := range positions {
		if pos.WalletAfter.IsSome() {
			balance = pos.WalletAfter.Unwrap()
		}
	}

	return balance, nil
}
