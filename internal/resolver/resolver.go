// Package resolver advances open positions against current prices and
// threads the paper wallet through the stored row order.
//
// The wallet is a fold: each row's balance input is the WalletAfter of the
// row before it in stored order, falling back to the run's starting balance.
// Reordering rows changes the resulting balances; stored order is part of
// the contract.
package resolver

import (
	"context"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rxtech-lab/swing-trader/internal/logger"
	"github.com/rxtech-lab/swing-trader/internal/types"
	"github.com/rxtech-lab/swing-trader/pkg/utils"
)

// QuoteFunc returns the current price for a ticker. A failure only delays
// resolution of that position until the next run.
type QuoteFunc func(ctx context.Context, ticker string) (float64, error)

// Resolver closes out open positions against fresh prices.
type Resolver struct {
	maxHoldDays  int
	riskPerTrade float64
	logger       *logger.Logger
}

// New creates a Resolver.
func New(logger *logger.Logger, maxHoldDays int, riskPerTrade float64) *Resolver {
	return &Resolver{
		maxHoldDays:  maxHoldDays,
		riskPerTrade: riskPerTrade,
		logger:       logger,
	}
}

// Resolve processes positions strictly in the given order and returns the
// updated sequence plus the final balance. Rules per row:
//
//   - The balance carries forward from the previous row's WalletAfter when
//     that row has one, otherwise it keeps its current value (initially
//     startingBalance).
//   - CLOSED rows pass through untouched, except a missing WalletAfter is
//     backfilled once with the current balance and never recomputed again.
//   - OPEN rows age by one day. If the quote fails, only DaysHeld advances
//     and the row stays OPEN with WalletAfter untouched.
//   - On a successful quote the checks run target, then stop, then timeout.
//     A bar that gaps through both target and stop resolves as a WIN because
//     the target check runs first.
func (r *Resolver) Resolve(ctx context.Context, positions []types.Position, startingBalance float64, quote QuoteFunc) ([]types.Position, float64) {
	balance := startingBalance
	updated := make([]types.Position, 0, len(positions))

	for _, p := range positions {
		if n := len(updated); n > 0 && updated[n-1].WalletAfter.IsSome() {
			balance = updated[n-1].WalletAfter.Unwrap()
		}

		if p.IsClosed() {
			if p.WalletAfter.IsNone() {
				p.WalletAfter = optional.Some(utils.Round2(balance))
			}

			updated = append(updated, p)

			continue
		}

		p.DaysHeld++

		price, err := quote(ctx, p.Ticker)
		if err != nil {
			r.logger.Warn("Price unavailable, position stays open",
				zap.String("ticker", p.Ticker),
				zap.Error(err),
			)

			updated = append(updated, p)

			continue
		}

		switch {
		case price >= p.Target:
			p.Status = types.PositionStatusClosed
			p.Result = optional.Some(types.TradeResultWin)
			balance += pnl(p.Target, p.ExecutedPrice, r.shareSize(balance))
		case price <= p.Stop:
			p.Status = types.PositionStatusClosed
			p.Result = optional.Some(types.TradeResultLoss)
			balance += pnl(p.Stop, p.ExecutedPrice, r.shareSize(balance))
		case p.DaysHeld >= r.maxHoldDays:
			// Flat close: no balance change.
			p.Status = types.PositionStatusClosed
			p.Result = optional.Some(types.TradeResultTimeout)
		default:
			// Still open; the row records the running balance snapshot.
		}

		p.WalletAfter = optional.Some(utils.Round2(balance))

		if p.IsClosed() {
			r.logger.Info("Position closed",
				zap.String("ticker", p.Ticker),
				zap.String("result", string(p.Result.Unwrap())),
				zap.Int("days_held", p.DaysHeld),
				zap.Float64("wallet", p.WalletAfter.Unwrap()),
			)
		}

		updated = append(updated, p)
	}

	if n := len(updated); n > 0 && updated[n-1].WalletAfter.IsSome() {
		balance = updated[n-1].WalletAfter.Unwrap()
	}

	return updated, utils.Round2(balance)
}

// shareSize is the fixed-fraction sizing heuristic: a share count scaled off
// the live balance, not a true position sizer.
func (r *Resolver) shareSize(balance float64) float64 {
	return utils.Round2(balance * r.riskPerTrade / 100)
}

// pnl computes (exit - executed) * shares with decimal arithmetic.
func pnl(exit, executed, shares float64) float64 {
	result := decimal.NewFromFloat(exit).
		Sub(decimal.NewFromFloat(executed)).
		Mul(decimal.NewFromFloat(shares))

	return result.InexactFloat64()
}
