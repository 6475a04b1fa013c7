package mt5bridge

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"fxpilot/internal/broker"
	"fxpilot/internal/logger"
)

// SubmitOrder sends one market order request to the terminal. The
// terminal's raw retcode is translated into the vendor-neutral enum;
// (nil, nil) means the bridge produced no result at all.
func (c *Client) SubmitOrder(ctx context.Context, req broker.OrderRequest) (*broker.OrderResult, error) {
	if !req.Direction.Valid() {
		return nil, fmt.Errorf("%w: direction %q", broker.ErrInvalidParameter, req.Direction)
	}
	payload := map[string]any{
		"symbol":       req.Symbol,
		"type":         orderType(req.Direction),
		"volume":       req.Volume,
		"price":        req.Price,
		"deviation":    req.Deviation,
		"magic":        req.Magic,
		"comment":      req.Comment,
		"type_time":    string(req.TimePolicy),
		"type_filling": string(req.FillPolicy),
	}
	// The terminal treats an explicit zero stop as a malformed request,
	// so unset levels are omitted entirely.
	if req.StopLoss > 0 {
		payload["sl"] = req.StopLoss
	}
	if req.TakeProfit > 0 {
		payload["tp"] = req.TakeProfit
	}
	if req.PositionTicket > 0 {
		payload["position"] = req.PositionTicket
	}

	body, err := c.doRequestRaw(ctx, http.MethodPost, "/order", payload)
	if err != nil {
		return nil, fmt.Errorf("submitting order for %s: %w", req.Symbol, err)
	}
	if isNullBody(body) {
		return nil, nil
	}

	parsed := gjson.ParseBytes(body)
	vendor := parsed.Get("retcode").Int()
	result := &broker.OrderResult{
		RetCode:    mapRetCode(vendor),
		VendorCode: vendor,
		Ticket:     parsed.Get("order").Int(),
		Price:      parsed.Get("price").Float(),
		Comment:    parsed.Get("comment").String(),
	}
	logger.Debugf("order %s %s %.2f -> retcode=%d (%s) ticket=%d price=%.5f",
		req.Direction, req.Symbol, req.Volume, vendor, result.RetCode, result.Ticket, result.Price)
	return result, nil
}

// orderType maps a direction onto the terminal's numeric order type
// (0 = market buy, 1 = market sell).
func orderType(d broker.Direction) int {
	if d == broker.Sell {
		return 1
	}
	return 0
}
