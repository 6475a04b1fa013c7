package strategy

import (
	"context"
	"fmt"
	"math"
	"time"

	"fxpilot/internal/broker"
	"fxpilot/internal/indicator"
	"fxpilot/internal/logger"

	"github.com/shopspring/decimal"
)

// minLookbackMargin guarantees at least two valid trailing SMA points
// behind the slow period.
const minLookbackMargin = 5

// RSIFilter optionally vetoes signals at momentum extremes: a BUY is
// suppressed when RSI is at or above Overbought, a SELL when at or below
// Oversold. Suppressed signals degrade to HOLD.
type RSIFilter struct {
	Enabled    bool
	Period     int
	Overbought float64
	Oversold   float64
}

// CrossoverConfig parameterizes a Crossover generator. All fields must be
// resolved before construction; NewCrossover fails fast on anything
// unresolved instead of defaulting mid-calculation.
type CrossoverConfig struct {
	Symbol         string
	Timeframe      broker.Timeframe
	FastPeriod     int
	SlowPeriod     int
	LookbackMargin int
	// PriceDigits is the decimal precision applied to SMA values before
	// the tie-break comparison, so floating noise below the quoted price
	// scale cannot flap the signal.
	PriceDigits int32
	RSI         RSIFilter
}

// Crossover detects fast/slow SMA crossings over a rolling window.
type Crossover struct {
	cfg CrossoverConfig
	md  broker.MarketData
}

// NewCrossover validates the configuration and binds the generator to a
// market data source.
func NewCrossover(cfg CrossoverConfig, md broker.MarketData) (*Crossover, error) {
	if md == nil {
		return nil, fmt.Errorf("%w: market data source is required", broker.ErrInvalidParameter)
	}
	if cfg.Symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", broker.ErrInvalidParameter)
	}
	if cfg.FastPeriod <= 0 || cfg.SlowPeriod <= 0 {
		return nil, fmt.Errorf("%w: sma periods must be positive (fast=%d slow=%d)",
			broker.ErrInvalidParameter, cfg.FastPeriod, cfg.SlowPeriod)
	}
	if cfg.FastPeriod >= cfg.SlowPeriod {
		return nil, fmt.Errorf("%w: fast period %d must be below slow period %d",
			broker.ErrInvalidParameter, cfg.FastPeriod, cfg.SlowPeriod)
	}
	if cfg.LookbackMargin < minLookbackMargin {
		cfg.LookbackMargin = minLookbackMargin
	}
	if cfg.PriceDigits <= 0 {
		cfg.PriceDigits = 5
	}
	if cfg.RSI.Enabled && cfg.RSI.Period <= 0 {
		return nil, fmt.Errorf("%w: rsi filter period must be positive", broker.ErrInvalidParameter)
	}
	return &Crossover{cfg: cfg, md: md}, nil
}

// Window returns the number of bars one evaluation consumes.
func (c *Crossover) Window() int {
	slowest := c.cfg.SlowPeriod
	if c.cfg.FastPeriod > slowest {
		slowest = c.cfg.FastPeriod
	}
	return slowest + c.cfg.LookbackMargin
}

// Evaluate fetches the trailing window and derives a signal.
//
// A window shorter than required is a neutral HOLD with price 0.0, not an
// error: a thin history is an expected terminal condition, not a fault.
func (c *Crossover) Evaluate(ctx context.Context) (Signal, error) {
	need := c.Window()
	bars, err := c.md.Rates(ctx, c.cfg.Symbol, c.cfg.Timeframe, need)
	if err != nil {
		return Signal{}, fmt.Errorf("fetching %d %s bars for %s: %w", need, c.cfg.Timeframe, c.cfg.Symbol, err)
	}
	now := time.Now()
	if len(bars) < need {
		logger.Debugf("crossover %s: window too short (%d < %d), holding", c.cfg.Symbol, len(bars), need)
		return Signal{Symbol: c.cfg.Symbol, Action: Hold, Price: 0, At: now}, nil
	}

	closes := broker.Closes(bars)
	fastSeries, err := indicator.SMA(closes, c.cfg.FastPeriod)
	if err != nil {
		return Signal{}, err
	}
	slowSeries, err := indicator.SMA(closes, c.cfg.SlowPeriod)
	if err != nil {
		return Signal{}, err
	}

	price := closes[len(closes)-1]
	sig := Signal{Symbol: c.cfg.Symbol, Action: Hold, Price: price, At: now}

	prevFast := roundTo(indicator.Prev(fastSeries), c.cfg.PriceDigits)
	prevSlow := roundTo(indicator.Prev(slowSeries), c.cfg.PriceDigits)
	currFast := roundTo(indicator.Last(fastSeries), c.cfg.PriceDigits)
	currSlow := roundTo(indicator.Last(slowSeries), c.cfg.PriceDigits)
	if math.IsNaN(prevFast) || math.IsNaN(prevSlow) || math.IsNaN(currFast) || math.IsNaN(currSlow) {
		return sig, nil
	}

	// Ties on the previous bar count as "not yet crossed", so an exact
	// touch followed by separation still fires.
	switch {
	case prevFast <= prevSlow && currFast > currSlow:
		sig.Action = Buy
	case prevFast >= prevSlow && currFast < currSlow:
		sig.Action = Sell
	}

	if sig.Action != Hold && c.cfg.RSI.Enabled {
		sig.Action = c.applyRSIFilter(sig.Action, closes)
	}
	return sig, nil
}

func (c *Crossover) applyRSIFilter(action Action, closes []float64) Action {
	series, err := indicator.RSI(closes, c.cfg.RSI.Period)
	if err != nil {
		return action
	}
	latest := indicator.Last(series)
	if math.IsNaN(latest) {
		return action
	}
	switch {
	case action == Buy && c.cfg.RSI.Overbought > 0 && latest >= c.cfg.RSI.Overbought:
		logger.Infof("crossover %s: BUY vetoed, RSI %.1f >= overbought %.1f", c.cfg.Symbol, latest, c.cfg.RSI.Overbought)
		return Hold
	case action == Sell && c.cfg.RSI.Oversold > 0 && latest <= c.cfg.RSI.Oversold:
		logger.Infof("crossover %s: SELL vetoed, RSI %.1f <= oversold %.1f", c.cfg.Symbol, latest, c.cfg.RSI.Oversold)
		return Hold
	}
	return action
}

func roundTo(v float64, digits int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return math.NaN()
	}
	f, _ := decimal.NewFromFloat(v).Round(digits).Float64()
	return f
}
