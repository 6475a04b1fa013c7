package indicator

import (
	"fmt"
	"math"

	"fxpilot/internal/broker"
)

// RSI returns the Wilder-style relative strength index series.
//
// Per-step deltas are split into gains and losses, each smoothed with an
// exponentially weighted moving average of alpha = 1/period. The first
// defined value sits at index period (one delta per bar, period deltas
// needed); earlier positions are NaN. A window with zero average loss
// evaluates to exactly 100 rather than propagating a division by zero.
// Values are in [0, 100] by construction.
func RSI(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("%w: rsi period must be positive, got %d", broker.ErrInvalidParameter, period)
	}
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(closes) < period+1 {
		return out, nil
	}

	alpha := 1.0 / float64(period)
	var avgGain, avgLoss float64
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		if i == 1 {
			avgGain = gain
			avgLoss = loss
		} else {
			avgGain = (1-alpha)*avgGain + alpha*gain
			avgLoss = (1-alpha)*avgLoss + alpha*loss
		}
		if i < period {
			continue
		}
		if avgLoss == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100 - 100/(1+rs)
	}
	return out, nil
}

// RSIFromBars computes RSI over the close prices of a bar window.
func RSIFromBars(bars []broker.Bar, period int) ([]float64, error) {
	return RSI(broker.Closes(bars), period)
}
