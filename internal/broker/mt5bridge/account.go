package mt5bridge

import (
	"context"
	"fmt"
	"net/http"
)

type accountRow struct {
	Balance  float64 `json:"balance"`
	Equity   float64 `json:"equity"`
	Margin   float64 `json:"margin"`
	Currency string  `json:"currency"`
}

// Balance returns the account balance in the deposit currency.
func (c *Client) Balance(ctx context.Context) (float64, error) {
	var row accountRow
	if err := c.doRequest(ctx, http.MethodGet, "/account", nil, &row); err != nil {
		return 0, fmt.Errorf("fetching account info: %w", err)
	}
	return row.Balance, nil
}
