package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BorrowerSummary is a derived per-borrower rollup. It is never stored;
// the aggregation layer recomputes it from the record collection on demand.
type BorrowerSummary struct {
	Name          string          `json:"name"`
	TotalOwed     decimal.Decimal `json:"total_owed"`
	TotalBorrowed decimal.Decimal `json:"total_borrowed"`
	RecordCount   int             `json:"record_count"`
	LastBorrowed  time.Time       `json:"last_borrowed"`
}

// LedgerTotals holds the global rollup across all records.
type LedgerTotals struct {
	TotalLent     decimal.Decimal `json:"total_lent"`
	TotalPending  decimal.Decimal `json:"total_pending"`
	TotalReturned decimal.Decimal `json:"total_returned"`
}
