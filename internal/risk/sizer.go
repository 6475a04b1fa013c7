// Package risk converts a risk budget and a stop distance into a
// broker-compliant position size.
package risk

import (
	"github.com/shopspring/decimal"

	"fxpilot/internal/broker"
)

// Request is a sizing request. Non-positive Percent or SLPips short-circuit
// to a no-trade result rather than erroring; a trading loop can skip the
// cycle uniformly without branching on error kinds.
type Request struct {
	Percent        float64 // risk per trade, 1.0 means 1% of balance
	SLPips         float64 // stop-loss distance in pips
	AccountBalance float64
}

// LotSize computes the lot size whose loss at the stop equals the risk
// budget, normalized to the symbol's volume constraints.
//
// The result is always >= 0 and always a multiple of VolumeStep clamped
// into [VolumeMin, VolumeMax]. Every invalid condition degrades to the
// 0.0 sentinel; callers must treat 0.0 as "do not trade", never as a valid
// minimal lot.
func LotSize(c broker.SymbolConstraints, req Request) float64 {
	if req.Percent <= 0 || req.SLPips <= 0 {
		return 0
	}
	if c.TickSize <= 0 || c.Point <= 0 {
		return 0
	}

	// TickValue is P&L per tick move for one lot; dividing by TickSize
	// normalizes to P&L per unit price move, point*10 rescales to P&L per
	// pip under the standard-pair convention.
	pipValuePerLot := (c.TickValue / c.TickSize) * c.Point * 10
	if pipValuePerLot <= 0 {
		return 0
	}

	riskAmount := req.AccountBalance * (req.Percent / 100)
	rawLot := riskAmount / (req.SLPips * pipValuePerLot)

	return normalize(rawLot, c.VolumeMin, c.VolumeMax, c.VolumeStep)
}

// normalize snaps a raw lot onto the volume step grid (round half up,
// deterministic), clamps it into the broker's volume range and rounds to
// two decimals for terminal API compatibility.
func normalize(rawLot, volMin, volMax, step float64) float64 {
	if step <= 0 {
		return 0
	}
	lot := decimal.NewFromFloat(rawLot)
	stepDec := decimal.NewFromFloat(step)

	snapped := lot.Div(stepDec).Round(0).Mul(stepDec)

	minDec := decimal.NewFromFloat(volMin)
	maxDec := decimal.NewFromFloat(volMax)
	if snapped.LessThan(minDec) {
		snapped = minDec
	}
	if snapped.GreaterThan(maxDec) {
		snapped = maxDec
	}

	out, _ := snapped.Round(2).Float64()
	return out
}
