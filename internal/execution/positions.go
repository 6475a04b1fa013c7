package execution

import (
	"context"
	"fmt"

	"fxpilot/internal/broker"
	"fxpilot/internal/logger"
)

// ListPositions returns open positions, optionally filtered by symbol.
// An account with no open positions yields an empty slice, never nil.
func (e *Executor) ListPositions(ctx context.Context, symbol string) ([]broker.Position, error) {
	positions, err := e.book.ListOpen(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("listing positions: %w", err)
	}
	if positions == nil {
		positions = []broker.Position{}
	}
	return positions, nil
}

// ClosePosition closes a position by submitting an offsetting market order
// referencing the existing ticket. A BUY position closes via a SELL at the
// bid; a SELL position closes via a BUY at the ask.
func (e *Executor) ClosePosition(ctx context.Context, ticket int64, comment string) (Outcome, error) {
	if ticket <= 0 {
		return Outcome{}, fmt.Errorf("%w: ticket must be positive, got %d", broker.ErrInvalidParameter, ticket)
	}

	positions, err := e.book.ListOpen(ctx, "")
	if err != nil {
		return Outcome{}, fmt.Errorf("looking up position %d: %w", ticket, err)
	}
	var pos *broker.Position
	for i := range positions {
		if positions[i].Ticket == ticket {
			pos = &positions[i]
			break
		}
	}
	if pos == nil {
		return Outcome{}, fmt.Errorf("%w: ticket %d", broker.ErrPositionNotFound, ticket)
	}

	tick, err := e.md.LatestTick(ctx, pos.Symbol)
	if err != nil {
		return Outcome{}, fmt.Errorf("fetching tick for %s: %w", pos.Symbol, err)
	}
	if tick == nil {
		return Outcome{}, fmt.Errorf("%w: %s", broker.ErrQuoteUnavailable, pos.Symbol)
	}

	tag := shortTag()
	req := broker.OrderRequest{
		Symbol:         pos.Symbol,
		Direction:      pos.Direction.Opposite(),
		Volume:         pos.Volume,
		Price:          tick.ClosePriceFor(pos.Direction),
		Deviation:      e.deviation,
		Comment:        comment,
		TimePolicy:     broker.GoodTillCancelled,
		FillPolicy:     broker.ImmediateOrCancel,
		PositionTicket: ticket,
	}

	logger.Infof("close %s: offsetting %s position %d on %s (%.2f lots) via %s",
		tag, pos.Direction, ticket, pos.Symbol, pos.Volume, req.Direction)
	return e.submit(ctx, tag, req)
}
