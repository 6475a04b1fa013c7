package broker

import "context"

// MarketData supplies materialized price history and live quotes.
type MarketData interface {
	// Rates returns the most recent count bars for symbol/timeframe,
	// time-ascending.
	Rates(ctx context.Context, symbol string, tf Timeframe, count int) ([]Bar, error)

	// LatestTick returns the most recent quote, or (nil, nil) when the
	// terminal has no tick for the symbol.
	LatestTick(ctx context.Context, symbol string) (*Tick, error)
}

// SymbolDirectory resolves symbols to their trading metadata.
type SymbolDirectory interface {
	// Constraints returns the symbol metadata, or (nil, nil) when the
	// symbol is unknown to the terminal.
	Constraints(ctx context.Context, symbol string) (*SymbolConstraints, error)

	// Select marks a symbol visible/selected for trading.
	Select(ctx context.Context, symbol string) (bool, error)
}

// Account reports account state.
type Account interface {
	Balance(ctx context.Context) (float64, error)
}

// Trader submits orders. A single call is a single submission attempt;
// retry policy, if any, belongs to the caller.
type Trader interface {
	// SubmitOrder returns (nil, nil) when the terminal produced no result
	// at all (transport-level failure without an error from the wire).
	SubmitOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)
}

// Positions enumerates open positions.
type Positions interface {
	// ListOpen returns open positions, filtered by symbol when non-empty.
	// An account with no open positions yields an empty slice, never nil
	// treated as an error.
	ListOpen(ctx context.Context, symbol string) ([]Position, error)
}

// Terminal is the full capability contract the trading core needs from a
// broker terminal.
type Terminal interface {
	MarketData
	SymbolDirectory
	Account
	Trader
	Positions
}
