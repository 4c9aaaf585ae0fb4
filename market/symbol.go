package market

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Option symbols follow the Delta Exchange convention
//
//	<C|P>-<underlying>-<strike>-<DDMMYY>
//
// e.g. C-BTC-100000-220525 is a call on BTC, strike 100000, expiring
// 2025-05-22.

const expiryLayout = "020106"

// ExpiryCode formats t's date the way option symbols encode expiries.
func ExpiryCode(t time.Time) string {
	return t.Format(expiryLayout)
}

// OptionSymbol builds a symbol string for the given leg.
func OptionSymbol(kind OptionKind, underlying string, strike int, expiry time.Time) string {
	side := "C"
	if kind == KindPut {
		side = "P"
	}
	return fmt.Sprintf("%s-%s-%d-%s", side, underlying, strike, ExpiryCode(expiry))
}

// ParseOptionSymbol splits sym into its parts. ok is false when sym does
// not look like an option symbol.
func ParseOptionSymbol(sym string) (kind OptionKind, underlying string, strike float64, expiry string, ok bool) {
	parts := strings.Split(sym, "-")
	if len(parts) != 4 {
		return KindNone, "", 0, "", false
	}

	switch parts[0] {
	case "C":
		kind = KindCall
	case "P":
		kind = KindPut
	default:
		return KindNone, "", 0, "", false
	}

	strike, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return KindNone, "", 0, "", false
	}

	if len(parts[3]) != len(expiryLayout) {
		return KindNone, "", 0, "", false
	}
	if _, err := time.Parse(expiryLayout, parts[3]); err != nil {
		return KindNone, "", 0, "", false
	}

	return kind, parts[1], strike, parts[3], true
}
