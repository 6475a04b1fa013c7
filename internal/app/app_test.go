package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxpilot/internal/broker"
	"fxpilot/internal/config"
)

// fakeTerminal is a scriptable broker.Terminal plus bridge session.
type fakeTerminal struct {
	bars      []broker.Bar
	tick      broker.Tick
	info      broker.SymbolConstraints
	balance   float64
	positions []broker.Position

	submitted   []broker.OrderRequest
	result      broker.OrderResult
	initialized bool
	shutdown    bool
}

func (f *fakeTerminal) Rates(ctx context.Context, symbol string, tf broker.Timeframe, count int) ([]broker.Bar, error) {
	return f.bars, nil
}

func (f *fakeTerminal) LatestTick(ctx context.Context, symbol string) (*broker.Tick, error) {
	t := f.tick
	return &t, nil
}

func (f *fakeTerminal) Constraints(ctx context.Context, symbol string) (*broker.SymbolConstraints, error) {
	info := f.info
	return &info, nil
}

func (f *fakeTerminal) Select(ctx context.Context, symbol string) (bool, error) { return true, nil }

func (f *fakeTerminal) Balance(ctx context.Context) (float64, error) { return f.balance, nil }

func (f *fakeTerminal) SubmitOrder(ctx context.Context, req broker.OrderRequest) (*broker.OrderResult, error) {
	f.submitted = append(f.submitted, req)
	res := f.result
	return &res, nil
}

func (f *fakeTerminal) ListOpen(ctx context.Context, symbol string) ([]broker.Position, error) {
	return f.positions, nil
}

func (f *fakeTerminal) Initialize(ctx context.Context) error {
	f.initialized = true
	return nil
}

func (f *fakeTerminal) Shutdown(ctx context.Context) error {
	f.shutdown = true
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{HTTPAddr: ":0", LogLevel: "error"},
		Strategy: config.StrategyConfig{
			Symbol:         "EURUSD",
			Timeframe:      "M15",
			FastPeriod:     2,
			SlowPeriod:     3,
			LookbackMargin: 5,
			PollSeconds:    1,
			PriceDigits:    5,
		},
		Trading: config.TradingConfig{
			RiskPercent:     1,
			SLPips:          50,
			TPPips:          100,
			DeviationPoints: 20,
			Magic:           246800,
			Comment:         "fxpilot",
		},
	}
}

// window is max(2,3)+5 = 8 bars; flat closes then a jump produce a BUY
// crossover on the last bar.
func crossoverBars(last float64) []broker.Bar {
	closes := []float64{1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, last}
	bars := make([]broker.Bar, len(closes))
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = broker.Bar{Open: c, High: c, Low: c, Close: c, Timestamp: base.Add(time.Duration(i) * 15 * time.Minute)}
	}
	return bars
}

func eurusdConstraints() broker.SymbolConstraints {
	return broker.SymbolConstraints{
		Symbol:     "EURUSD",
		Point:      0.00001,
		TickValue:  1.0,
		TickSize:   0.00001,
		VolumeMin:  0.01,
		VolumeMax:  100,
		VolumeStep: 0.01,
		Visible:    true,
	}
}

func newTestApp(t *testing.T, cfg *config.Config, term *fakeTerminal) *App {
	t.Helper()
	a, err := newApp(cfg, term, term)
	require.NoError(t, err)
	return a
}

func TestRunCycle_HoldSubmitsNothing(t *testing.T) {
	term := &fakeTerminal{
		bars:    crossoverBars(1.0), // flat, no crossover
		tick:    broker.Tick{Bid: 1.0, Ask: 1.0002},
		info:    eurusdConstraints(),
		balance: 10000,
	}
	a := newTestApp(t, testConfig(), term)

	require.NoError(t, a.runCycle(context.Background()))
	assert.Empty(t, term.submitted)
	assert.Equal(t, "HOLD", a.Status().LastAction)
}

func TestRunCycle_BuySignalSubmitsSizedOrder(t *testing.T) {
	term := &fakeTerminal{
		bars:    crossoverBars(1.2),
		tick:    broker.Tick{Bid: 1.19998, Ask: 1.20002},
		info:    eurusdConstraints(),
		balance: 10000,
		result:  broker.OrderResult{RetCode: broker.RetDone, Ticket: 777, Price: 1.20002},
	}
	a := newTestApp(t, testConfig(), term)

	require.NoError(t, a.runCycle(context.Background()))
	require.Len(t, term.submitted, 1)
	req := term.submitted[0]
	assert.Equal(t, broker.Buy, req.Direction)
	// 1% of 10000 = 100 risked over 50 pips at 10/pip/lot = 0.2 lots
	assert.Equal(t, 0.2, req.Volume)
	assert.Equal(t, 1.20002, req.Price)
	assert.Equal(t, int64(246800), req.Magic)
	assert.Equal(t, "BUY", a.Status().LastAction)
}

func TestRunCycle_ClosesOppositePositionFirst(t *testing.T) {
	term := &fakeTerminal{
		bars:    crossoverBars(1.2),
		tick:    broker.Tick{Bid: 1.19998, Ask: 1.20002},
		info:    eurusdConstraints(),
		balance: 10000,
		result:  broker.OrderResult{RetCode: broker.RetDone, Ticket: 778, Price: 1.19998},
		positions: []broker.Position{
			{Ticket: 42, Symbol: "EURUSD", Direction: broker.Sell, Volume: 0.3},
		},
	}
	a := newTestApp(t, testConfig(), term)

	require.NoError(t, a.runCycle(context.Background()))
	require.Len(t, term.submitted, 2)
	closeReq := term.submitted[0]
	assert.Equal(t, broker.Buy, closeReq.Direction, "closing a SELL means buying it back")
	assert.Equal(t, int64(42), closeReq.PositionTicket)
	assert.Equal(t, broker.Buy, term.submitted[1].Direction)
}

func TestRunCycle_SameDirectionPositionIsNotStacked(t *testing.T) {
	term := &fakeTerminal{
		bars:    crossoverBars(1.2),
		tick:    broker.Tick{Bid: 1.19998, Ask: 1.20002},
		info:    eurusdConstraints(),
		balance: 10000,
		positions: []broker.Position{
			{Ticket: 43, Symbol: "EURUSD", Direction: broker.Buy, Volume: 0.2},
		},
	}
	a := newTestApp(t, testConfig(), term)

	require.NoError(t, a.runCycle(context.Background()))
	assert.Empty(t, term.submitted)
}

func TestRunCycle_DryRunSkipsSubmission(t *testing.T) {
	cfg := testConfig()
	cfg.Trading.DryRun = true
	term := &fakeTerminal{
		bars:    crossoverBars(1.2),
		tick:    broker.Tick{Bid: 1.19998, Ask: 1.20002},
		info:    eurusdConstraints(),
		balance: 10000,
	}
	a := newTestApp(t, cfg, term)

	require.NoError(t, a.runCycle(context.Background()))
	assert.Empty(t, term.submitted)
	assert.Equal(t, "BUY", a.Status().LastAction)
}

func TestRunCycle_ZeroLotSkipsSubmission(t *testing.T) {
	broken := eurusdConstraints()
	broken.Point = 0 // broken symbol metadata forces the no-trade sentinel
	term := &fakeTerminal{
		bars:    crossoverBars(1.2),
		tick:    broker.Tick{Bid: 1.19998, Ask: 1.20002},
		info:    broken,
		balance: 10000,
	}
	a := newTestApp(t, testConfig(), term)

	require.NoError(t, a.runCycle(context.Background()))
	assert.Empty(t, term.submitted)
}

func TestApplyConfig_SwapsTradingSettings(t *testing.T) {
	term := &fakeTerminal{
		bars:    crossoverBars(1.2),
		tick:    broker.Tick{Bid: 1.19998, Ask: 1.20002},
		info:    eurusdConstraints(),
		balance: 10000,
		result:  broker.OrderResult{RetCode: broker.RetDone, Ticket: 779, Price: 1.20002},
	}
	a := newTestApp(t, testConfig(), term)

	next := testConfig()
	next.Trading.RiskPercent = 2
	next.Trading.DryRun = true
	a.ApplyConfig(next)

	require.NoError(t, a.runCycle(context.Background()))
	assert.Empty(t, term.submitted, "reloaded dry_run must suppress submission")
	assert.True(t, a.Status().DryRun)
}

func TestRun_InitializesAndShutsDownSession(t *testing.T) {
	term := &fakeTerminal{
		bars:    crossoverBars(1.0),
		tick:    broker.Tick{Bid: 1.0, Ask: 1.0002},
		info:    eurusdConstraints(),
		balance: 10000,
	}
	a := newTestApp(t, testConfig(), term)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	// let the first cycle go through, then stop
	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
	assert.True(t, term.initialized)
	assert.True(t, term.shutdown)
}
