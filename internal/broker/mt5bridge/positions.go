package mt5bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"fxpilot/internal/broker"
)

type positionRow struct {
	Ticket       int64   `json:"ticket"`
	Symbol       string  `json:"symbol"`
	Type         int     `json:"type"` // 0 = buy, 1 = sell
	Volume       float64 `json:"volume"`
	PriceOpen    float64 `json:"price_open"`
	PriceCurrent float64 `json:"price_current"`
	Profit       float64 `json:"profit"`
	Swap         float64 `json:"swap"`
	Comment      string  `json:"comment"`
}

// ListOpen returns the open positions known to the terminal. An empty
// symbol lists positions across all symbols.
func (c *Client) ListOpen(ctx context.Context, symbol string) ([]broker.Position, error) {
	path := "/positions"
	if symbol != "" {
		path += "?symbol=" + url.QueryEscape(symbol)
	}
	body, err := c.doRequestRaw(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching positions: %w", err)
	}
	if isNullBody(body) {
		return []broker.Position{}, nil
	}
	var rows []positionRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decoding positions: %w", err)
	}
	positions := make([]broker.Position, 0, len(rows))
	for _, r := range rows {
		dir := broker.Buy
		if r.Type == 1 {
			dir = broker.Sell
		}
		positions = append(positions, broker.Position{
			Ticket:       r.Ticket,
			Symbol:       r.Symbol,
			Direction:    dir,
			Volume:       r.Volume,
			OpenPrice:    r.PriceOpen,
			CurrentPrice: r.PriceCurrent,
			Profit:       r.Profit,
			Swap:         r.Swap,
			Comment:      r.Comment,
		})
	}
	return positions, nil
}
