package mt5bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"fxpilot/internal/broker"
	"fxpilot/internal/pkg/convert"
)

// Constraints returns the terminal's trading constraints for a symbol,
// or (nil, nil) when the terminal does not know the symbol.
//
// The bridge relays MT5 symbol_info more or less verbatim and numeric
// types drift between bridge versions, so fields go through the loose
// convert helpers instead of a typed struct.
func (c *Client) Constraints(ctx context.Context, symbol string) (*broker.SymbolConstraints, error) {
	body, err := c.doRequestRaw(ctx, http.MethodGet, "/symbol?symbol="+url.QueryEscape(symbol), nil)
	if err != nil {
		return nil, fmt.Errorf("fetching symbol info for %s: %w", symbol, err)
	}
	if isNullBody(body) {
		return nil, nil
	}
	var row map[string]any
	if err := json.Unmarshal(body, &row); err != nil {
		return nil, fmt.Errorf("decoding symbol info for %s: %w", symbol, err)
	}
	name := symbol
	if s, ok := row["name"].(string); ok && s != "" {
		name = s
	}
	visible := false
	switch v := row["visible"].(type) {
	case bool:
		visible = v
	default:
		visible = convert.ToInt64(v) != 0
	}
	return &broker.SymbolConstraints{
		Symbol:     name,
		Point:      convert.ToFloat64(row["point"]),
		TickValue:  convert.ToFloat64(row["trade_tick_value"]),
		TickSize:   convert.ToFloat64(row["trade_tick_size"]),
		VolumeMin:  convert.ToFloat64(row["volume_min"]),
		VolumeMax:  convert.ToFloat64(row["volume_max"]),
		VolumeStep: convert.ToFloat64(row["volume_step"]),
		Visible:    visible,
	}, nil
}

// Select asks the terminal to add the symbol to Market Watch so quotes
// and orders become available for it. A refusal is reported as ok=false
// with a nil error; the caller decides what a refusal means.
func (c *Client) Select(ctx context.Context, symbol string) (bool, error) {
	payload := map[string]any{"symbol": symbol, "enable": true}
	var resp struct {
		Selected bool `json:"selected"`
	}
	if err := c.doRequest(ctx, http.MethodPost, "/symbol/select", payload, &resp); err != nil {
		return false, fmt.Errorf("selecting symbol %s: %w", symbol, err)
	}
	return resp.Selected, nil
}
