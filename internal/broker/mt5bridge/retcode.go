package mt5bridge

import "fxpilot/internal/broker"

// MetaTrader 5 trade server return codes. Only the codes the bot reacts
// to get names; everything else maps to RetUnknown and is surfaced with
// the raw vendor code attached.
const (
	mtRetRequote           = 10004
	mtRetRejected          = 10006
	mtRetCancelledByTrader = 10007
	mtRetPlaced            = 10008
	mtRetDone              = 10009
	mtRetDonePartial       = 10010
	mtRetError             = 10011
	mtRetTimeout           = 10012
	mtRetInvalid           = 10013
	mtRetInvalidVolume     = 10014
	mtRetInvalidPrice      = 10015
	mtRetInvalidStops      = 10016
	mtRetTradeDisabled     = 10017
	mtRetMarketClosed      = 10018
	mtRetNoMoney           = 10019
	mtRetPriceChanged      = 10020
	mtRetPriceOff          = 10021
	mtRetInvalidExpiration = 10022
	mtRetOrderChanged      = 10023
	mtRetTooManyRequests   = 10024
)

// mapRetCode translates a raw MT5 trade retcode into the broker
// package's vendor-neutral enum.
func mapRetCode(code int64) broker.RetCode {
	switch code {
	case mtRetPlaced, mtRetDone, mtRetDonePartial:
		return broker.RetDone
	case mtRetRequote, mtRetPriceChanged, mtRetPriceOff:
		return broker.RetRequote
	case mtRetRejected, mtRetCancelledByTrader, mtRetError, mtRetTradeDisabled, mtRetTooManyRequests:
		return broker.RetRejected
	case mtRetInvalid, mtRetInvalidPrice, mtRetInvalidExpiration, mtRetOrderChanged:
		return broker.RetInvalidRequest
	case mtRetInvalidVolume:
		return broker.RetInvalidVolume
	case mtRetInvalidStops:
		return broker.RetInvalidStops
	case mtRetMarketClosed:
		return broker.RetMarketClosed
	case mtRetNoMoney:
		return broker.RetNoMoney
	case mtRetTimeout:
		return broker.RetTimeout
	default:
		return broker.RetUnknown
	}
}
