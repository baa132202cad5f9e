package utils

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NormalizeName canonicalizes a borrower name for identity grouping:
// trim, lowercase, collapse internal whitespace runs to single spaces.
// "  Rahul   Sharma " and "rahul sharma" normalize to the same key.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// DisplayName trims a borrower name for storage and display, keeping the
// original casing and internal whitespace.
func DisplayName(name string) string {
	return strings.TrimSpace(name)
}

// ParseDate parses a user-supplied date, accepting a plain date or a full
// RFC 3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// IsWholeAmount reports whether a monetary value is a whole number of
// currency units. Fractional units are not modeled by the ledger.
func IsWholeAmount(amount decimal.Decimal) bool {
	return amount.IsInteger()
}
