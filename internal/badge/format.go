package badge

import (
	"math"
	"strconv"
)

const (
	thousand = 1_000
	million  = 1_000_000
)

// FormatCount renders a download total in compact form: 999, 1.2K, 3.4M.
// Suffixed values carry one decimal digit of the float64 quotient, rounded to
// the nearest tenth with exact ties going up.
func FormatCount(count int64) string {
	switch {
	case count < 0:
		return "0"
	case count >= million:
		return formatTenths(count, million) + "M"
	case count >= thousand:
		return formatTenths(count, thousand) + "K"
	default:
		return strconv.FormatInt(count, 10)
	}
}

func formatTenths(count, unit int64) string {
	quotient := float64(count) / float64(unit)
	// A double sits exactly on a hundredths tie only at .25 or .75.
	if quarters := quotient * 4; quarters == math.Trunc(quarters) && math.Mod(quarters, 2) == 1 {
		tenths := int64(quotient*10 + 0.5)
		return strconv.FormatInt(tenths/10, 10) + "." + strconv.FormatInt(tenths%10, 10)
	}
	return strconv.FormatFloat(quotient, 'f', 1, 64)
}
