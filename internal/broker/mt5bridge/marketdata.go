package mt5bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"fxpilot/internal/broker"
)

type rateRow struct {
	Time       int64   `json:"time"` // unix seconds, bar open time
	Open       float64 `json:"open"`
	High       float64 `json:"high"`
	Low        float64 `json:"low"`
	Close      float64 `json:"close"`
	TickVolume float64 `json:"tick_volume"`
}

// Rates returns the most recent count bars, time-ascending, as the
// terminal reports them.
func (c *Client) Rates(ctx context.Context, symbol string, tf broker.Timeframe, count int) ([]broker.Bar, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: bar count must be positive, got %d", broker.ErrInvalidParameter, count)
	}
	path := "/rates?symbol=" + url.QueryEscape(symbol) +
		"&timeframe=" + url.QueryEscape(tf.Key) +
		"&count=" + strconv.Itoa(count)

	var rows []rateRow
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &rows); err != nil {
		return nil, fmt.Errorf("fetching rates for %s %s: %w", symbol, tf, err)
	}
	bars := make([]broker.Bar, len(rows))
	for i, r := range rows {
		bars[i] = broker.Bar{
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.TickVolume,
			Timestamp: time.Unix(r.Time, 0).UTC(),
		}
	}
	return bars, nil
}

type tickRow struct {
	Time int64   `json:"time"`
	Bid  float64 `json:"bid"`
	Ask  float64 `json:"ask"`
}

// LatestTick returns the most recent quote, or (nil, nil) when the
// terminal has none for the symbol.
func (c *Client) LatestTick(ctx context.Context, symbol string) (*broker.Tick, error) {
	body, err := c.doRequestRaw(ctx, http.MethodGet, "/tick?symbol="+url.QueryEscape(symbol), nil)
	if err != nil {
		return nil, fmt.Errorf("fetching tick for %s: %w", symbol, err)
	}
	if isNullBody(body) {
		return nil, nil
	}
	var row tickRow
	if err := json.Unmarshal(body, &row); err != nil {
		return nil, fmt.Errorf("decoding tick for %s: %w", symbol, err)
	}
	return &broker.Tick{
		Bid:       row.Bid,
		Ask:       row.Ask,
		Timestamp: time.Unix(row.Time, 0).UTC(),
	}, nil
}
