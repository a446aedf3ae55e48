package validate

import (
	"regexp"
	"strings"
	"time"
)

var reID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ID validates a simple resource identifier (campaign/reservation/product ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Quantity checks a reservation quantity. The upper bound keeps a single
// buyer from draining a campaign in one call.
func Quantity(n int) bool {
	return n >= 1 && n <= 100
}

// Prices checks the campaign price pair: originalPrice must be positive
// (a zero original makes the discount undefined), salePrice may be zero
// (free giveaway) but never negative or above the original.
func Prices(original, sale float64) bool {
	return original > 0 && sale >= 0 && sale <= original
}

// Window checks the sale window ordering.
func Window(start, end time.Time) bool {
	return !start.IsZero() && !end.IsZero() && start.Before(end)
}

// Stock checks an initial or adjusted total stock value.
func Stock(n int) bool {
	return n >= 0
}
