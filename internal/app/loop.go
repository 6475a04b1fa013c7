package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fxpilot/internal/broker"
	"fxpilot/internal/config"
	"fxpilot/internal/execution"
	"fxpilot/internal/logger"
	"fxpilot/internal/pkg/retry"
	"fxpilot/internal/risk"
)

// loop polls the strategy at the configured interval. A failed cycle is
// logged and the loop keeps going; only context cancellation stops it.
func (a *App) loop(ctx context.Context) error {
	interval := time.Duration(a.cfg.Strategy.PollSeconds) * time.Second
	logger.Infof("trading loop started: %s %s every %s",
		a.cfg.Strategy.Symbol, a.cfg.Strategy.Timeframe, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := a.runCycle(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			logger.Errorf("cycle failed: %v", err)
		}
		select {
		case <-ctx.Done():
			logger.Infof("trading loop stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (a *App) runCycle(ctx context.Context) error {
	sig, err := a.strat.Evaluate(ctx)
	if err != nil {
		return fmt.Errorf("evaluating signal: %w", err)
	}
	a.recordSignal(sig)

	dir, ok := sig.Action.Direction()
	if !ok {
		logger.Debugf("%s: no crossover (price=%.5f)", sig.Symbol, sig.Price)
		return nil
	}
	logger.Infof("%s: %s signal at %.5f", sig.Symbol, sig.Action, sig.Price)

	tr, policy := a.trading()
	if done, err := a.reconcilePositions(ctx, sig.Symbol, dir, tr.Comment); err != nil {
		return err
	} else if done {
		return nil
	}

	volume, err := a.lotSize(ctx, sig.Symbol, tr)
	if err != nil {
		return err
	}
	if volume == 0 {
		logger.Warnf("%s: computed lot size is zero, skipping cycle", sig.Symbol)
		return nil
	}

	if tr.DryRun {
		logger.Infof("%s: dry run, would submit %s %.2f lots", sig.Symbol, dir, volume)
		return nil
	}
	return a.submitWithRetry(ctx, sig.Symbol, dir, volume, tr, policy)
}

// reconcilePositions closes any open position opposite to the new signal
// and reports whether the cycle is already satisfied by an existing
// same-direction position.
func (a *App) reconcilePositions(ctx context.Context, symbol string, dir broker.Direction, comment string) (bool, error) {
	positions, err := a.executor.ListPositions(ctx, symbol)
	if err != nil {
		return false, fmt.Errorf("listing positions: %w", err)
	}
	satisfied := false
	for _, pos := range positions {
		if pos.Direction == dir {
			logger.Debugf("%s: position %d already %s, not stacking", symbol, pos.Ticket, dir)
			satisfied = true
			continue
		}
		outcome, err := a.executor.ClosePosition(ctx, pos.Ticket, comment)
		if err != nil {
			return false, fmt.Errorf("closing opposite position %d: %w", pos.Ticket, err)
		}
		logger.Infof("%s: closed opposite position %d at %.5f", symbol, pos.Ticket, outcome.Price)
	}
	return satisfied, nil
}

func (a *App) lotSize(ctx context.Context, symbol string, tr config.TradingConfig) (float64, error) {
	constraints, err := a.terminal.Constraints(ctx, symbol)
	if err != nil {
		return 0, fmt.Errorf("fetching constraints: %w", err)
	}
	if constraints == nil {
		return 0, fmt.Errorf("%w: %s", broker.ErrSymbolNotFound, symbol)
	}
	balance, err := a.terminal.Balance(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetching balance: %w", err)
	}
	return risk.LotSize(*constraints, risk.Request{
		Percent:        tr.RiskPercent,
		SLPips:         tr.SLPips,
		AccountBalance: balance,
	}), nil
}

func (a *App) submitWithRetry(ctx context.Context, symbol string, dir broker.Direction, volume float64, tr config.TradingConfig, policy retry.Policy) error {
	order := execution.MarketOrder{
		Symbol:    symbol,
		Direction: dir,
		Volume:    volume,
		SLPips:    tr.SLPips,
		TPPips:    tr.TPPips,
		Comment:   tr.Comment,
		Magic:     tr.Magic,
	}
	return policy.Do(ctx, "order submission", func() error {
		outcome, err := a.executor.SubmitMarketOrder(ctx, order)
		if err != nil {
			return err
		}
		logger.Infof("%s: opened %s %.2f lots, ticket=%d price=%.5f",
			symbol, dir, volume, outcome.Ticket, outcome.Price)
		return nil
	}, submissionRetryable)
}

// submissionRetryable keeps retries to transport-level failures. A
// rejection is the broker's answer, not a transient fault.
func submissionRetryable(err error) bool {
	return errors.Is(err, broker.ErrSubmissionFailed) || errors.Is(err, broker.ErrQuoteUnavailable)
}
