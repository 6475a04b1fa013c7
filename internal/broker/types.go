// Package broker defines a common abstraction over a trading terminal.
// This allows the decision and execution logic to work against different
// terminal backends (a local MT5 bridge, a replay harness, test doubles)
// without changing the core.
package broker

import "time"

// Direction is the side of an order or position.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// Opposite returns the offsetting direction, used when closing a position.
func (d Direction) Opposite() Direction {
	if d == Buy {
		return Sell
	}
	return Buy
}

func (d Direction) Valid() bool {
	return d == Buy || d == Sell
}

// Bar is a single OHLCV candle, time-ascending within a series.
type Bar struct {
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
	Timestamp time.Time `json:"timestamp"`
}

// Closes extracts the close-price series from a bar window.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Tick is the latest quote for a symbol. Entries pay the ask on BUY and
// the bid on SELL; exits take the other side.
type Tick struct {
	Bid       float64   `json:"bid"`
	Ask       float64   `json:"ask"`
	Timestamp time.Time `json:"timestamp"`
}

// PriceFor returns the executable entry price for a direction.
func (t Tick) PriceFor(d Direction) float64 {
	if d == Buy {
		return t.Ask
	}
	return t.Bid
}

// ClosePriceFor returns the executable price for closing a position of the
// given direction (bid closes a BUY, ask closes a SELL).
func (t Tick) ClosePriceFor(d Direction) float64 {
	if d == Buy {
		return t.Bid
	}
	return t.Ask
}

// SymbolConstraints carries the per-symbol trading metadata the terminal
// reports. Immutable at decision time.
type SymbolConstraints struct {
	Symbol     string  `json:"symbol"`
	Point      float64 `json:"point"`       // smallest quoted price increment
	TickValue  float64 `json:"tick_value"`  // P&L per tick move for one lot
	TickSize   float64 `json:"tick_size"`   // price move of one tick
	VolumeMin  float64 `json:"volume_min"`
	VolumeMax  float64 `json:"volume_max"`
	VolumeStep float64 `json:"volume_step"`
	Visible    bool    `json:"visible"` // selected for trading in the terminal
}

// PipValue returns the price move of one pip. A pip is fixed at 10 points,
// the standard-pair convention; callers with non-standard pip definitions
// must not use pip-denominated distances.
func (c SymbolConstraints) PipValue() float64 {
	return c.Point * 10
}

// TimePolicy is the order lifetime policy.
type TimePolicy string

// FillPolicy controls how partial fills are handled.
type FillPolicy string

const (
	GoodTillCancelled TimePolicy = "GTC"

	ImmediateOrCancel FillPolicy = "IOC"
)

// OrderRequest is a fully-typed market order request. It is constructed
// once and never mutated; zero-valued StopLoss/TakeProfit mean "unset" and
// the terminal adapter must omit them from the submitted payload.
type OrderRequest struct {
	Symbol         string     `json:"symbol"`
	Direction      Direction  `json:"direction"`
	Volume         float64    `json:"volume"`
	Price          float64    `json:"price"`
	StopLoss       float64    `json:"stop_loss,omitempty"`
	TakeProfit     float64    `json:"take_profit,omitempty"`
	Deviation      int        `json:"deviation"` // allowed slippage, in points
	Magic          int64      `json:"magic,omitempty"`
	Comment        string     `json:"comment,omitempty"`
	TimePolicy     TimePolicy `json:"time_policy"`
	FillPolicy     FillPolicy `json:"fill_policy"`
	PositionTicket int64      `json:"position,omitempty"` // non-zero: offset this position instead of opening a new one
}

// OrderResult is the terminal's answer to a single submission attempt,
// already mapped to the local retcode enum by the adapter.
type OrderResult struct {
	RetCode    RetCode `json:"retcode"`
	VendorCode int64   `json:"vendor_code"` // terminal-native numeric code, preserved verbatim
	Ticket     int64   `json:"ticket"`      // order/position ticket, 0 if none assigned
	Price      float64 `json:"price"`       // fill price
	Comment    string  `json:"comment"`     // terminal message, preserved verbatim
}

// Position is an open position as reported by the terminal. The terminal
// is the sole source of truth for the live fields (CurrentPrice, Profit,
// Swap); nothing in this module caches them.
type Position struct {
	Ticket       int64     `json:"ticket"`
	Symbol       string    `json:"symbol"`
	Direction    Direction `json:"direction"`
	Volume       float64   `json:"volume"`
	OpenPrice    float64   `json:"open_price"`
	CurrentPrice float64   `json:"current_price"`
	Profit       float64   `json:"profit"`
	Swap         float64   `json:"swap"`
	Comment      string    `json:"comment,omitempty"`
}
