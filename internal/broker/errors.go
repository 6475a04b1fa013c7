package broker

import "errors"

// Failure taxonomy for the trading core. All of these are terminal for a
// single call; nothing in this module retries.
var (
	// ErrInvalidParameter marks bad caller input (non-positive period,
	// pips, volume).
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInsufficientData marks a price window too short for the requested
	// computation.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrSymbolNotFound means the terminal does not know the symbol.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrSymbolUnavailable means the symbol exists but could not be
	// selected for trading.
	ErrSymbolUnavailable = errors.New("symbol unavailable")

	// ErrQuoteUnavailable means no live tick could be obtained.
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrSubmissionFailed is a transport-level failure: the terminal
	// produced no result for the submission. Distinct from a rejection.
	ErrSubmissionFailed = errors.New("order submission failed")

	// ErrOrderRejected means the terminal answered with a non-success
	// retcode; the wrapped message carries the terminal's comment and code.
	ErrOrderRejected = errors.New("order rejected")

	// ErrPositionNotFound means a close was requested for an unknown ticket.
	ErrPositionNotFound = errors.New("position not found")
)
