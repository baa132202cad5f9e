package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nayakvinit/lendbook/internal/domain"
	customError "github.com/nayakvinit/lendbook/pkg/errors"
)

// Snapshot wire format. Decoding is schema-validated and fills defaults for
// fields older snapshots lack: created_at falls back to lent_date and
// payment_history to an empty sequence. Anything structurally off fails
// closed so the caller starts from an empty ledger instead of trusting a
// half-readable payload.

type snapshotPayment struct {
	ID     uuid.UUID       `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Notes  string          `json:"notes,omitempty"`
}

type snapshotRecord struct {
	ID             uuid.UUID         `json:"id"`
	BorrowerName   string            `json:"borrower_name"`
	Amount         decimal.Decimal   `json:"amount"`
	Reason         string            `json:"reason"`
	LentDate       time.Time         `json:"lent_date"`
	CreatedAt      *time.Time        `json:"created_at,omitempty"`
	Status         string            `json:"status"`
	Notes          string            `json:"notes,omitempty"`
	PaidAmount     decimal.Decimal   `json:"paid_amount"`
	PaymentHistory []snapshotPayment `json:"payment_history,omitempty"`
}

// EncodeSnapshot serializes records into the snapshot wire format.
func EncodeSnapshot(records []*domain.LendingRecord) ([]byte, error) {
	out := make([]snapshotRecord, 0, len(records))
	for _, r := range records {
		createdAt := r.CreatedAt
		sr := snapshotRecord{
			ID:             r.ID,
			BorrowerName:   r.BorrowerName,
			Amount:         r.Amount,
			Reason:         r.Reason,
			LentDate:       r.LentDate,
			CreatedAt:      &createdAt,
			Status:         r.Status,
			Notes:          r.Notes,
			PaidAmount:     r.PaidAmount,
			PaymentHistory: make([]snapshotPayment, 0, len(r.PaymentHistory)),
		}
		for _, p := range r.PaymentHistory {
			sr.PaymentHistory = append(sr.PaymentHistory, snapshotPayment(p))
		}
		out = append(out, sr)
	}

	payload, err := json.Marshal(out)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}
	return payload, nil
}

// DecodeSnapshot parses a snapshot payload back into records.
func DecodeSnapshot(payload []byte) ([]*domain.LendingRecord, error) {
	var raw []snapshotRecord
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, customError.WrapSnapshotCorrupt(err)
	}

	records := make([]*domain.LendingRecord, 0, len(raw))
	for i, sr := range raw {
		if err := validateSnapshotRecord(sr); err != nil {
			return nil, customError.WrapSnapshotCorrupt(fmt.Errorf("record %d: %w", i, err))
		}

		createdAt := sr.LentDate
		if sr.CreatedAt != nil {
			createdAt = *sr.CreatedAt
		}

		rec := &domain.LendingRecord{
			ID:             sr.ID,
			BorrowerName:   sr.BorrowerName,
			Amount:         sr.Amount,
			Reason:         sr.Reason,
			LentDate:       sr.LentDate,
			CreatedAt:      createdAt,
			Status:         sr.Status,
			Notes:          sr.Notes,
			PaidAmount:     sr.PaidAmount,
			PaymentHistory: make([]domain.PaymentEntry, 0, len(sr.PaymentHistory)),
		}
		for _, p := range sr.PaymentHistory {
			rec.PaymentHistory = append(rec.PaymentHistory, domain.PaymentEntry(p))
		}
		records = append(records, rec)
	}

	return records, nil
}

func validateSnapshotRecord(sr snapshotRecord) error {
	if sr.ID == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	if sr.Status != domain.RecordStatusPending && sr.Status != domain.RecordStatusPaid {
		return fmt.Errorf("unknown status %q", sr.Status)
	}
	if !sr.Amount.IsPositive() {
		return fmt.Errorf("non-positive amount %s", sr.Amount)
	}
	if sr.PaidAmount.IsNegative() {
		return fmt.Errorf("negative paid amount %s", sr.PaidAmount)
	}
	if sr.LentDate.IsZero() {
		return fmt.Errorf("missing lent date")
	}
	return nil
}
