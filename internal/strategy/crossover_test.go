package strategy

import (
	"context"
	"testing"
	"time"

	"fxpilot/internal/broker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMarketData struct {
	mock.Mock
}

func (m *mockMarketData) Rates(ctx context.Context, symbol string, tf broker.Timeframe, count int) ([]broker.Bar, error) {
	args := m.Called(ctx, symbol, tf, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]broker.Bar), args.Error(1)
}

func (m *mockMarketData) LatestTick(ctx context.Context, symbol string) (*broker.Tick, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*broker.Tick), args.Error(1)
}

func barsFromCloses(closes []float64) []broker.Bar {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	bars := make([]broker.Bar, len(closes))
	for i, c := range closes {
		bars[i] = broker.Bar{
			Open: c, High: c, Low: c, Close: c,
			Timestamp: start.Add(time.Duration(i) * 15 * time.Minute),
		}
	}
	return bars
}

func testConfig() CrossoverConfig {
	tf, _ := broker.ParseTimeframe("M15")
	return CrossoverConfig{
		Symbol:     "EURUSD",
		Timeframe:  tf,
		FastPeriod: 2,
		SlowPeriod: 3,
	}
}

func newTestCrossover(t *testing.T, cfg CrossoverConfig, closes []float64) *Crossover {
	t.Helper()
	md := new(mockMarketData)
	md.On("Rates", mock.Anything, cfg.Symbol, mock.Anything, mock.Anything).
		Return(barsFromCloses(closes), nil)
	gen, err := NewCrossover(cfg, md)
	require.NoError(t, err)
	return gen
}

func TestNewCrossover_Validation(t *testing.T) {
	md := new(mockMarketData)

	cfg := testConfig()
	cfg.FastPeriod = 0
	_, err := NewCrossover(cfg, md)
	assert.ErrorIs(t, err, broker.ErrInvalidParameter)

	cfg = testConfig()
	cfg.FastPeriod, cfg.SlowPeriod = 30, 10
	_, err = NewCrossover(cfg, md)
	assert.ErrorIs(t, err, broker.ErrInvalidParameter)

	cfg = testConfig()
	cfg.Symbol = ""
	_, err = NewCrossover(cfg, md)
	assert.ErrorIs(t, err, broker.ErrInvalidParameter)

	cfg = testConfig()
	cfg.RSI = RSIFilter{Enabled: true}
	_, err = NewCrossover(cfg, md)
	assert.ErrorIs(t, err, broker.ErrInvalidParameter)

	_, err = NewCrossover(testConfig(), nil)
	assert.ErrorIs(t, err, broker.ErrInvalidParameter)
}

func TestCrossover_WindowTooShortHolds(t *testing.T) {
	// Window() = slow(3) + margin(5) = 8, only 4 bars supplied.
	gen := newTestCrossover(t, testConfig(), []float64{1.1, 1.1, 1.1, 1.1})

	sig, err := gen.Evaluate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Hold, sig.Action)
	assert.Equal(t, 0.0, sig.Price)
}

func TestCrossover_TieOnPreviousBarThenUpwardCrossIsBuy(t *testing.T) {
	// Bars 4..6 make prevFast == prevSlow exactly; the last close breaks
	// upward.
	closes := []float64{1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.2}
	gen := newTestCrossover(t, testConfig(), closes)

	sig, err := gen.Evaluate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Buy, sig.Action)
	assert.Equal(t, 1.2, sig.Price)
}

func TestCrossover_TieOnPreviousBarThenDownwardCrossIsSell(t *testing.T) {
	closes := []float64{1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 0.8}
	gen := newTestCrossover(t, testConfig(), closes)

	sig, err := gen.Evaluate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Sell, sig.Action)
}

func TestCrossover_NoDirectionChangeHoldsWithPrice(t *testing.T) {
	closes := []float64{1.105, 1.105, 1.105, 1.105, 1.105, 1.105, 1.105, 1.105}
	gen := newTestCrossover(t, testConfig(), closes)

	sig, err := gen.Evaluate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Hold, sig.Action)
	// HOLD still carries the latest close for downstream reference.
	assert.Equal(t, 1.105, sig.Price)
}

func TestCrossover_RSIVetoSuppressesOverboughtBuy(t *testing.T) {
	// Decline then a sharp two-bar rally: the fast SMA crosses up while
	// RSI sits deep in overbought territory.
	closes := []float64{1.10, 1.09, 1.08, 1.07, 1.06, 1.05, 1.055, 1.20}

	cfg := testConfig()
	gen := newTestCrossover(t, cfg, closes)
	sig, err := gen.Evaluate(context.Background())
	require.NoError(t, err)
	require.Equal(t, Buy, sig.Action, "sanity: unfiltered signal is BUY")

	cfg.RSI = RSIFilter{Enabled: true, Period: 3, Overbought: 70, Oversold: 30}
	filtered := newTestCrossover(t, cfg, closes)
	sig, err = filtered.Evaluate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Hold, sig.Action)
}

func TestCrossover_RatesErrorPropagates(t *testing.T) {
	md := new(mockMarketData)
	md.On("Rates", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, assert.AnError)
	gen, err := NewCrossover(testConfig(), md)
	require.NoError(t, err)

	_, err = gen.Evaluate(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestAction_Direction(t *testing.T) {
	d, ok := Buy.Direction()
	assert.True(t, ok)
	assert.Equal(t, broker.Buy, d)

	d, ok = Sell.Direction()
	assert.True(t, ok)
	assert.Equal(t, broker.Sell, d)

	_, ok = Hold.Direction()
	assert.False(t, ok)
}
