package indicator

import (
	"math"
	"testing"

	"fxpilot/internal/broker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA_InvalidPeriod(t *testing.T) {
	_, err := SMA([]float64{1, 2, 3}, 0)
	assert.ErrorIs(t, err, broker.ErrInvalidParameter)

	_, err = SMA([]float64{1, 2, 3}, -4)
	assert.ErrorIs(t, err, broker.ErrInvalidParameter)
}

func TestSMA_UndefinedWarmup(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}
	out, err := SMA(closes, 3)
	require.NoError(t, err)
	require.Len(t, out, 5)

	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 2.0, out[2], 1e-12)
	assert.InDelta(t, 3.0, out[3], 1e-12)
	assert.InDelta(t, 4.0, out[4], 1e-12)
}

func TestSMA_WindowShorterThanPeriod(t *testing.T) {
	out, err := SMA([]float64{1, 2}, 5)
	require.NoError(t, err)
	for _, v := range out {
		assert.True(t, math.IsNaN(v))
	}
}

func TestSMA_TrailingMean(t *testing.T) {
	closes := []float64{1.1005, 1.1010, 1.1003, 1.1020, 1.1015}
	out, err := SMA(closes, 2)
	require.NoError(t, err)
	for i := 1; i < len(closes); i++ {
		want := (closes[i] + closes[i-1]) / 2
		assert.InDelta(t, want, out[i], 1e-12, "index %d", i)
	}
}

func TestLastPrevHelpers(t *testing.T) {
	series := []float64{1, 2, 3}
	assert.Equal(t, 3.0, Last(series))
	assert.Equal(t, 2.0, Prev(series))
	assert.True(t, math.IsNaN(Last(nil)))
	assert.True(t, math.IsNaN(Prev([]float64{1})))
}
