// Package execution constructs and submits market orders and manages the
// open-position lifecycle against a broker terminal. Every operation is a
// single blocking attempt; retry policy belongs to the caller.
package execution

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fxpilot/internal/broker"
	"fxpilot/internal/logger"
)

// DefaultDeviation is the allowed fill slippage in points when the caller
// does not configure one.
const DefaultDeviation = 20

// MarketOrder describes one market-order intent. SLPips/TPPips of 0 mean
// "no stop" / "no target".
type MarketOrder struct {
	Symbol    string
	Direction broker.Direction
	Volume    float64
	SLPips    float64
	TPPips    float64
	Comment   string
	Magic     int64
}

// Outcome is the normalized result of exactly one submission attempt.
type Outcome struct {
	Success bool    `json:"success"`
	Ticket  int64   `json:"ticket"` // 0 when none was assigned
	Price   float64 `json:"price"`  // fill price
	Message string  `json:"message"`
}

// Executor submits orders and closes positions through the terminal
// boundary.
type Executor struct {
	dir       broker.SymbolDirectory
	md        broker.MarketData
	trader    broker.Trader
	book      broker.Positions
	deviation int
}

// NewExecutor binds an executor to the terminal capabilities it needs.
// A non-positive deviation falls back to DefaultDeviation.
func NewExecutor(dir broker.SymbolDirectory, md broker.MarketData, trader broker.Trader, book broker.Positions, deviation int) *Executor {
	if deviation <= 0 {
		deviation = DefaultDeviation
	}
	return &Executor{dir: dir, md: md, trader: trader, book: book, deviation: deviation}
}

// StopLevels derives stop-loss and take-profit prices from pip distances.
// A pip is point*10. Zero pip distances yield the 0.0 "unset" sentinel,
// which terminal adapters must omit from the submitted payload. Decimal
// arithmetic keeps the result exact at quoted-price precision.
func StopLevels(d broker.Direction, entry, point, slPips, tpPips float64) (sl, tp float64) {
	pip := decimal.NewFromFloat(point).Mul(decimal.NewFromInt(10))
	entryDec := decimal.NewFromFloat(entry)

	sign := decimal.NewFromInt(1)
	if d == broker.Sell {
		sign = decimal.NewFromInt(-1)
	}
	if slPips > 0 {
		dist := decimal.NewFromFloat(slPips).Mul(pip).Mul(sign)
		sl, _ = entryDec.Sub(dist).Float64()
	}
	if tpPips > 0 {
		dist := decimal.NewFromFloat(tpPips).Mul(pip).Mul(sign)
		tp, _ = entryDec.Add(dist).Float64()
	}
	return sl, tp
}

// SubmitMarketOrder runs the full precondition chain, builds an immutable
// order request and submits it once.
//
// Failure taxonomy: unknown symbol -> ErrSymbolNotFound; symbol that cannot
// be selected even after one implicit select retry -> ErrSymbolUnavailable;
// no live tick -> ErrQuoteUnavailable; no terminal result at all ->
// ErrSubmissionFailed; non-success retcode -> ErrOrderRejected with the
// terminal's message and code preserved.
func (e *Executor) SubmitMarketOrder(ctx context.Context, ord MarketOrder) (Outcome, error) {
	if !ord.Direction.Valid() {
		return Outcome{}, fmt.Errorf("%w: direction %q", broker.ErrInvalidParameter, ord.Direction)
	}
	if ord.Volume <= 0 {
		return Outcome{}, fmt.Errorf("%w: volume must be positive, got %v", broker.ErrInvalidParameter, ord.Volume)
	}

	tag := shortTag()
	cons, err := e.dir.Constraints(ctx, ord.Symbol)
	if err != nil {
		return Outcome{}, fmt.Errorf("resolving symbol %s: %w", ord.Symbol, err)
	}
	if cons == nil {
		return Outcome{}, fmt.Errorf("%w: %s", broker.ErrSymbolNotFound, ord.Symbol)
	}
	if !cons.Visible {
		ok, err := e.dir.Select(ctx, ord.Symbol)
		if err != nil || !ok {
			return Outcome{}, fmt.Errorf("%w: %s not visible and selection failed", broker.ErrSymbolUnavailable, ord.Symbol)
		}
	}

	tick, err := e.md.LatestTick(ctx, ord.Symbol)
	if err != nil {
		return Outcome{}, fmt.Errorf("fetching tick for %s: %w", ord.Symbol, err)
	}
	if tick == nil {
		return Outcome{}, fmt.Errorf("%w: %s", broker.ErrQuoteUnavailable, ord.Symbol)
	}

	entry := tick.PriceFor(ord.Direction)
	sl, tp := StopLevels(ord.Direction, entry, cons.Point, ord.SLPips, ord.TPPips)

	req := broker.OrderRequest{
		Symbol:     ord.Symbol,
		Direction:  ord.Direction,
		Volume:     ord.Volume,
		Price:      entry,
		StopLoss:   sl,
		TakeProfit: tp,
		Deviation:  e.deviation,
		Magic:      ord.Magic,
		Comment:    ord.Comment,
		TimePolicy: broker.GoodTillCancelled,
		FillPolicy: broker.ImmediateOrCancel,
	}

	logger.Infof("order %s: %s %s %.2f lots at %.5f (sl=%.5f tp=%.5f)",
		tag, ord.Direction, ord.Symbol, ord.Volume, entry, sl, tp)
	return e.submit(ctx, tag, req)
}

// submit performs the single submission attempt and interprets the result.
func (e *Executor) submit(ctx context.Context, tag string, req broker.OrderRequest) (Outcome, error) {
	res, err := e.trader.SubmitOrder(ctx, req)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", broker.ErrSubmissionFailed, err)
	}
	if res == nil {
		return Outcome{}, fmt.Errorf("%w: terminal returned no result", broker.ErrSubmissionFailed)
	}
	if !res.RetCode.Success() {
		logger.Warnf("order %s: rejected %s (%q, vendor code %d)", tag, res.RetCode, res.Comment, res.VendorCode)
		return Outcome{Message: res.Comment}, fmt.Errorf("%w: %s (%s, code %d)",
			broker.ErrOrderRejected, res.Comment, res.RetCode, res.VendorCode)
	}
	logger.Infof("order %s: filled ticket=%d price=%.5f", tag, res.Ticket, res.Price)
	return Outcome{
		Success: true,
		Ticket:  res.Ticket,
		Price:   res.Price,
		Message: fmt.Sprintf("executed at %v", res.Price),
	}, nil
}

func shortTag() string {
	return uuid.NewString()[:8]
}
