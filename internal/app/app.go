// Package app wires the bridge client, strategy, sizing and execution
// into a polling trading loop plus an observability HTTP server.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"fxpilot/internal/broker"
	"fxpilot/internal/broker/mt5bridge"
	"fxpilot/internal/config"
	"fxpilot/internal/execution"
	"fxpilot/internal/logger"
	"fxpilot/internal/pkg/retry"
	"fxpilot/internal/strategy"
	apihttp "fxpilot/internal/transport/http"
)

// App owns application-level orchestration: config in, services out.
type App struct {
	cfg      *config.Config
	terminal broker.Terminal
	strat    *strategy.Crossover
	executor *execution.Executor
	httpSrv  *apihttp.Server
	session  interface {
		Initialize(ctx context.Context) error
		Shutdown(ctx context.Context) error
	}
	retryPolicy retry.Policy

	mu     sync.RWMutex
	status apihttp.Status
}

// NewApp builds the application graph without starting anything.
func NewApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)

	client, err := mt5bridge.NewClient(cfg.Bridge)
	if err != nil {
		return nil, fmt.Errorf("building bridge client: %w", err)
	}
	return newApp(cfg, client, client)
}

// newApp finishes wiring against an already-built terminal, so tests can
// substitute a fake.
func newApp(cfg *config.Config, terminal broker.Terminal, session interface {
	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
}) (*App, error) {
	tf, err := broker.ParseTimeframe(cfg.Strategy.Timeframe)
	if err != nil {
		return nil, err
	}
	strat, err := strategy.NewCrossover(strategy.CrossoverConfig{
		Symbol:         cfg.Strategy.Symbol,
		Timeframe:      tf,
		FastPeriod:     cfg.Strategy.FastPeriod,
		SlowPeriod:     cfg.Strategy.SlowPeriod,
		LookbackMargin: cfg.Strategy.LookbackMargin,
		PriceDigits:    int32(cfg.Strategy.PriceDigits),
		RSI: strategy.RSIFilter{
			Enabled:    cfg.Strategy.RSI.Enabled,
			Period:     cfg.Strategy.RSI.Period,
			Overbought: cfg.Strategy.RSI.Overbought,
			Oversold:   cfg.Strategy.RSI.Oversold,
		},
	}, terminal)
	if err != nil {
		return nil, fmt.Errorf("building strategy: %w", err)
	}

	a := &App{
		cfg:      cfg,
		terminal: terminal,
		strat:    strat,
		session:  session,
		executor: execution.NewExecutor(terminal, terminal, terminal, terminal, cfg.Trading.DeviationPoints),
		retryPolicy: retry.Policy{
			Enabled:     cfg.Retry.Enabled,
			MaxAttempts: cfg.Retry.MaxAttempts,
			MinBackoff:  time.Duration(cfg.Retry.MinBackoffMS) * time.Millisecond,
			MaxBackoff:  time.Duration(cfg.Retry.MaxBackoffMS) * time.Millisecond,
		},
		status: apihttp.Status{
			Symbol:     cfg.Strategy.Symbol,
			Timeframe:  cfg.Strategy.Timeframe,
			DryRun:     cfg.Trading.DryRun,
			LastAction: string(strategy.Hold),
		},
	}

	srv, err := apihttp.NewServer(apihttp.ServerConfig{
		Addr:      cfg.App.HTTPAddr,
		Provider:  a,
		Account:   terminal,
		Positions: terminal,
	})
	if err != nil {
		return nil, fmt.Errorf("building http server: %w", err)
	}
	a.httpSrv = srv
	return a, nil
}

// Status implements apihttp.StatusProvider.
func (a *App) Status() apihttp.Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

// ApplyConfig adopts runtime-tunable settings from a reloaded config:
// log level, trading thresholds and the retry policy. Structural settings
// (symbol, timeframe, periods) require a restart.
func (a *App) ApplyConfig(next *config.Config) {
	if next == nil {
		return
	}
	logger.SetLevel(next.App.LogLevel)
	a.mu.Lock()
	a.cfg.App.LogLevel = next.App.LogLevel
	a.cfg.Trading = next.Trading
	a.retryPolicy = retry.Policy{
		Enabled:     next.Retry.Enabled,
		MaxAttempts: next.Retry.MaxAttempts,
		MinBackoff:  time.Duration(next.Retry.MinBackoffMS) * time.Millisecond,
		MaxBackoff:  time.Duration(next.Retry.MaxBackoffMS) * time.Millisecond,
	}
	a.status.DryRun = next.Trading.DryRun
	a.mu.Unlock()
	logger.Infof("runtime settings applied: risk=%.2f%% sl=%.1f tp=%.1f dry_run=%v",
		next.Trading.RiskPercent, next.Trading.SLPips, next.Trading.TPPips, next.Trading.DryRun)
}

// trading returns a consistent snapshot of the tunable settings for one
// loop cycle.
func (a *App) trading() (config.TradingConfig, retry.Policy) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg.Trading, a.retryPolicy
}

func (a *App) recordSignal(sig strategy.Signal) {
	a.mu.Lock()
	a.status.LastAction = string(sig.Action)
	a.status.LastPrice = sig.Price
	a.status.LastEvaluated = sig.At
	a.mu.Unlock()
}

// Run connects the terminal session and serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.session != nil {
		if err := a.session.Initialize(ctx); err != nil {
			return fmt.Errorf("terminal session: %w", err)
		}
		defer func() {
			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := a.session.Shutdown(shCtx); err != nil {
				logger.Warnf("terminal shutdown: %v", err)
			}
		}()
	}

	if dump, err := a.cfg.EffectiveYAML(); err == nil && len(dump) > 0 {
		logger.Debugf("effective config:\n%s", dump)
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := a.httpSrv.Start(ctx); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		return a.loop(ctx)
	})
	return group.Wait()
}
