package broker

// RetCode is the local, closed set of submission result codes. Terminal
// adapters map their vendor's numeric codes onto this enum exactly once at
// the boundary so the core never touches vendor constants.
type RetCode int

const (
	RetUnknown RetCode = iota
	RetDone            // order executed
	RetRejected        // request rejected by the terminal or dealer
	RetRequote         // price changed, terminal asked to requote
	RetInvalidRequest  // malformed request
	RetInvalidVolume   // volume outside min/max/step
	RetInvalidStops    // stop levels too close or inverted
	RetNoMoney         // insufficient margin
	RetMarketClosed    // trading session closed
	RetTimeout         // terminal-side timeout
)

func (r RetCode) String() string {
	switch r {
	case RetDone:
		return "DONE"
	case RetRejected:
		return "REJECTED"
	case RetRequote:
		return "REQUOTE"
	case RetInvalidRequest:
		return "INVALID_REQUEST"
	case RetInvalidVolume:
		return "INVALID_VOLUME"
	case RetInvalidStops:
		return "INVALID_STOPS"
	case RetNoMoney:
		return "NO_MONEY"
	case RetMarketClosed:
		return "MARKET_CLOSED"
	case RetTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// Success reports whether the retcode represents an executed order.
func (r RetCode) Success() bool {
	return r == RetDone
}
