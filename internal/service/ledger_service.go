package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nayakvinit/lendbook/internal/config"
	"github.com/nayakvinit/lendbook/internal/domain"
	"github.com/nayakvinit/lendbook/internal/repository"
	customError "github.com/nayakvinit/lendbook/pkg/errors"
	"github.com/nayakvinit/lendbook/pkg/utils"
)

// LedgerService owns the canonical in-memory record collection. All
// mutations serialize through its lock; snapshot writes are coalesced onto a
// single background saver so a slow disk never blocks a mutation. A failed
// save is logged and the in-memory state stays authoritative for the
// session.
type LedgerService struct {
	mu      sync.RWMutex
	records []*domain.LendingRecord

	snapshots repository.SnapshotStore
	cfg       *config.Config
	now       func() time.Time

	saveCh    chan struct{}
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewLedgerService loads the persisted snapshot and starts the background
// saver. A load failure is logged and the ledger starts empty; it is never
// surfaced as a blocking error.
func NewLedgerService(ctx context.Context, snapshots repository.SnapshotStore, cfg *config.Config) *LedgerService {
	records, err := snapshots.Load(ctx)
	if err != nil {
		log.Printf("ledger: failed to load snapshot, starting empty: %v", err)
		records = nil
	}

	s := &LedgerService{
		records:   records,
		snapshots: snapshots,
		cfg:       cfg,
		now:       time.Now,
		saveCh:    make(chan struct{}, 1),
		done:      make(chan struct{}),
	}

	s.wg.Add(1)
	go s.saver()

	return s
}

// Add validates the request and prepends a new pending record. Listing is
// newest-first, which this prepend establishes.
func (s *LedgerService) Add(ctx context.Context, request *domain.CreateRecordRequest) (*domain.LendingRecord, error) {
	name := utils.DisplayName(request.BorrowerName)
	if name == "" {
		return nil, customError.WrapMissingBorrowerName()
	}
	if !request.Amount.IsPositive() || !utils.IsWholeAmount(request.Amount) {
		return nil, customError.WrapInvalidAmount(request.Amount.String())
	}
	if strings.TrimSpace(request.Reason) == "" {
		return nil, customError.WrapMissingReason()
	}
	lentDate, err := utils.ParseDate(request.LentDate)
	if err != nil {
		return nil, customError.WrapInvalidDate(request.LentDate)
	}

	record := &domain.LendingRecord{
		ID:             uuid.New(),
		BorrowerName:   name,
		Amount:         request.Amount,
		Reason:         request.Reason,
		LentDate:       lentDate,
		CreatedAt:      s.now(),
		Status:         domain.RecordStatusPending,
		Notes:          request.Notes,
		PaidAmount:     decimal.Zero,
		PaymentHistory: []domain.PaymentEntry{},
	}

	s.mu.Lock()
	s.records = append([]*domain.LendingRecord{record}, s.records...)
	out := record.Clone()
	s.mu.Unlock()

	s.requestSave()
	return out, nil
}

// ApplyPayment appends a repayment event to the record's history. The amount
// must be a positive whole number no greater than the remaining balance;
// paying off the balance exactly flips the record to paid.
func (s *LedgerService) ApplyPayment(ctx context.Context, recordID uuid.UUID, amount decimal.Decimal, notes string) (*domain.LendingRecord, error) {
	if !amount.IsPositive() || !utils.IsWholeAmount(amount) {
		return nil, customError.WrapInvalidAmount(amount.String())
	}

	s.mu.Lock()
	record := s.find(recordID)
	if record == nil {
		s.mu.Unlock()
		return nil, customError.WrapRecordNotFound(recordID.String())
	}

	remaining := record.RemainingBalance()
	if amount.GreaterThan(remaining) {
		s.mu.Unlock()
		return nil, customError.WrapPaymentExceedsBalance(amount.String(), remaining.String())
	}

	record.PaymentHistory = append(record.PaymentHistory, domain.PaymentEntry{
		ID:     uuid.New(),
		Amount: amount,
		Date:   s.now(),
		Notes:  notes,
	})
	record.PaidAmount = record.PaidAmount.Add(amount)
	if record.PaidAmount.GreaterThanOrEqual(record.Amount) {
		record.Status = domain.RecordStatusPaid
	} else {
		record.Status = domain.RecordStatusPending
	}

	out := record.Clone()
	s.mu.Unlock()

	s.requestSave()
	return out, nil
}

// MarkFullyPaid flips the record to paid. Historically this does NOT touch
// paidAmount or the payment history, so a record can claim paid while its
// history understates what was repaid. With SETTLE_ON_MARK_PAID enabled a
// closing payment for the remaining balance is recorded first.
func (s *LedgerService) MarkFullyPaid(ctx context.Context, recordID uuid.UUID) (*domain.LendingRecord, error) {
	s.mu.Lock()
	record := s.find(recordID)
	if record == nil {
		s.mu.Unlock()
		return nil, customError.WrapRecordNotFound(recordID.String())
	}

	if s.cfg.Ledger.SettleOnMarkPaid {
		if remaining := record.RemainingBalance(); remaining.IsPositive() {
			record.PaymentHistory = append(record.PaymentHistory, domain.PaymentEntry{
				ID:     uuid.New(),
				Amount: remaining,
				Date:   s.now(),
				Notes:  "closing payment recorded on mark paid",
			})
			record.PaidAmount = record.PaidAmount.Add(remaining)
		}
	}
	record.Status = domain.RecordStatusPaid

	out := record.Clone()
	s.mu.Unlock()

	s.requestSave()
	return out, nil
}

// Delete removes the record and its payment history irrevocably. Deleting an
// unknown id is an error, not a no-op.
func (s *LedgerService) Delete(ctx context.Context, recordID uuid.UUID) error {
	s.mu.Lock()
	idx := -1
	for i, r := range s.records {
		if r.ID == recordID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return customError.WrapRecordNotFound(recordID.String())
	}
	s.records = append(s.records[:idx], s.records[idx+1:]...)
	s.mu.Unlock()

	s.requestSave()
	return nil
}

// List returns all records, most recently added first.
func (s *LedgerService) List(ctx context.Context) []*domain.LendingRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.records)
}

// Totals returns the global rollup.
func (s *LedgerService) Totals(ctx context.Context) domain.LedgerTotals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ComputeTotals(s.records)
}

// Borrowers returns per-borrower summaries, most owed first.
func (s *LedgerService) Borrowers(ctx context.Context) []domain.BorrowerSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SummarizeBorrowers(s.records)
}

// Search returns records matching the query; an empty query lists all.
func (s *LedgerService) Search(ctx context.Context, query string) []*domain.LendingRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(FilterRecords(s.records, query))
}

// ContactHistory returns every record in the borrower identity class of the
// given name.
func (s *LedgerService) ContactHistory(ctx context.Context, name string) []*domain.LendingRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(HistoryFor(s.records, name))
}

// Ping checks the persistence collaborator.
func (s *LedgerService) Ping(ctx context.Context) error {
	return s.snapshots.Ping(ctx)
}

// Flush writes the current snapshot synchronously.
func (s *LedgerService) Flush(ctx context.Context) error {
	s.mu.RLock()
	records := cloneAll(s.records)
	s.mu.RUnlock()

	return s.snapshots.Save(ctx, records)
}

// Close stops the background saver, flushes a final snapshot and releases
// the storage.
func (s *LedgerService) Close(ctx context.Context) error {
	s.closeOnce.Do(func() { close(s.done) })
	s.wg.Wait()

	if err := s.Flush(ctx); err != nil {
		log.Printf("ledger: final snapshot save failed: %v", err)
	}
	return s.snapshots.Close()
}

func (s *LedgerService) find(recordID uuid.UUID) *domain.LendingRecord {
	for _, r := range s.records {
		if r.ID == recordID {
			return r
		}
	}
	return nil
}

// requestSave schedules a snapshot write without blocking. Writes coalesce:
// a pending request covers every mutation made before the saver picks it up.
func (s *LedgerService) requestSave() {
	select {
	case s.saveCh <- struct{}{}:
	default:
	}
}

func (s *LedgerService) saver() {
	defer s.wg.Done()
	for {
		select {
		case <-s.saveCh:
			if err := s.Flush(context.Background()); err != nil {
				log.Printf("ledger: snapshot save failed: %v", err)
			}
		case <-s.done:
			return
		}
	}
}

func cloneAll(records []*domain.LendingRecord) []*domain.LendingRecord {
	out := make([]*domain.LendingRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
