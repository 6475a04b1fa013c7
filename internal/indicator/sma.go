// Package indicator computes technical indicator series over close-price
// windows. Positions without enough history are NaN, never zero, so that
// downstream crossover logic cannot mistake a warm-up value for a real one.
package indicator

import (
	"fmt"
	"math"

	"fxpilot/internal/broker"
)

// SMA returns the simple moving average series: out[i] is the arithmetic
// mean of the trailing period values ending at i, NaN while i < period-1.
func SMA(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("%w: sma period must be positive, got %d", broker.ErrInvalidParameter, period)
	}
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(closes) < period {
		return out, nil
	}
	sum := 0.0
	for i, c := range closes {
		sum += c
		if i >= period {
			sum -= closes[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out, nil
}

// Last returns the final value of a series, NaN for an empty one.
func Last(series []float64) float64 {
	if len(series) == 0 {
		return math.NaN()
	}
	return series[len(series)-1]
}

// Prev returns the second-to-last value of a series, NaN when there is none.
func Prev(series []float64) float64 {
	if len(series) < 2 {
		return math.NaN()
	}
	return series[len(series)-2]
}
