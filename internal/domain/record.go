package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RecordStatusPending = "pending"
	RecordStatusPaid    = "paid"
)

// LendingRecord represents one loan transaction
type LendingRecord struct {
	ID             uuid.UUID       `json:"id"`
	BorrowerName   string          `json:"borrower_name"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason"`
	LentDate       time.Time       `json:"lent_date"`
	CreatedAt      time.Time       `json:"created_at"`
	Status         string          `json:"status"`
	Notes          string          `json:"notes,omitempty"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	PaymentHistory []PaymentEntry  `json:"payment_history"`
}

// RemainingBalance returns the unpaid part of the principal.
func (r *LendingRecord) RemainingBalance() decimal.Decimal {
	return r.Amount.Sub(r.PaidAmount)
}

// Clone returns a deep copy safe to hand out while the store keeps mutating.
func (r *LendingRecord) Clone() *LendingRecord {
	cp := *r
	cp.PaymentHistory = make([]PaymentEntry, len(r.PaymentHistory))
	copy(cp.PaymentHistory, r.PaymentHistory)
	return &cp
}

// PaymentEntry represents one partial or full repayment event. Entries are
// immutable once appended and are removed only with their owning record.
type PaymentEntry struct {
	ID     uuid.UUID       `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Notes  string          `json:"notes,omitempty"`
}
