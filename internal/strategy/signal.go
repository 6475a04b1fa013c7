// Package strategy generates directional trading signals from price
// windows. Generators hold no state between invocations; every call
// recomputes from the window the terminal supplies.
package strategy

import (
	"time"

	"fxpilot/internal/broker"
)

// Action is the directional outcome of one evaluation.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
	Hold Action = "HOLD"
)

// Direction maps a non-HOLD action to an order direction. HOLD is filtered
// out before anything reaches order construction.
func (a Action) Direction() (broker.Direction, bool) {
	switch a {
	case Buy:
		return broker.Buy, true
	case Sell:
		return broker.Sell, true
	default:
		return "", false
	}
}

// Signal is one evaluation result. Price carries the latest close even on
// HOLD so downstream sizing and display always have a reference; it is 0.0
// only when the window was too short to evaluate at all.
type Signal struct {
	Symbol string    `json:"symbol"`
	Action Action    `json:"action"`
	Price  float64   `json:"price"`
	At     time.Time `json:"at"`
}
