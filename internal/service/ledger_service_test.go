package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nayakvinit/lendbook/internal/config"
	"github.com/nayakvinit/lendbook/internal/domain"
	"github.com/nayakvinit/lendbook/internal/repository"
	customError "github.com/nayakvinit/lendbook/pkg/errors"
	"github.com/nayakvinit/lendbook/tests/mocks"
)

func newTestService(t *testing.T, cfg *config.Config) *LedgerService {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	s := NewLedgerService(context.Background(), repository.NewMemoryStore(), cfg)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func mustAdd(t *testing.T, s *LedgerService, name string, amount int64, reason, lentDate string) *domain.LendingRecord {
	t.Helper()
	record, err := s.Add(context.Background(), &domain.CreateRecordRequest{
		BorrowerName: name,
		Amount:       decimal.NewFromInt(amount),
		Reason:       reason,
		LentDate:     lentDate,
	})
	require.NoError(t, err)
	return record
}

func TestAdd_Success(t *testing.T) {
	s := newTestService(t, nil)

	record := mustAdd(t, s, "Rahul", 500, "Lunch", "2024-03-01")

	assert.NotEqual(t, uuid.Nil, record.ID)
	assert.Equal(t, "Rahul", record.BorrowerName)
	assert.Equal(t, domain.RecordStatusPending, record.Status)
	assert.True(t, record.PaidAmount.IsZero())
	assert.Empty(t, record.PaymentHistory)
	assert.False(t, record.CreatedAt.IsZero())

	// Scenario: one fresh record drives the totals entirely
	totals := s.Totals(context.Background())
	assert.True(t, totals.TotalLent.Equal(decimal.NewFromInt(500)))
	assert.True(t, totals.TotalPending.Equal(decimal.NewFromInt(500)))
	assert.True(t, totals.TotalReturned.IsZero())

	assert.Len(t, s.List(context.Background()), 1)
}

func TestAdd_TrimsBorrowerName(t *testing.T) {
	s := newTestService(t, nil)

	record := mustAdd(t, s, "  Rahul   Sharma  ", 500, "Lunch", "2024-03-01")
	assert.Equal(t, "Rahul   Sharma", record.BorrowerName)
}

func TestAdd_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request domain.CreateRecordRequest
	}{
		{
			name: "empty borrower name",
			request: domain.CreateRecordRequest{
				BorrowerName: "", Amount: decimal.NewFromInt(100), Reason: "x", LentDate: "2024-03-01",
			},
		},
		{
			name: "whitespace-only borrower name",
			request: domain.CreateRecordRequest{
				BorrowerName: "   ", Amount: decimal.NewFromInt(100), Reason: "x", LentDate: "2024-03-01",
			},
		},
		{
			name: "zero amount",
			request: domain.CreateRecordRequest{
				BorrowerName: "Rahul", Amount: decimal.Zero, Reason: "x", LentDate: "2024-03-01",
			},
		},
		{
			name: "negative amount",
			request: domain.CreateRecordRequest{
				BorrowerName: "Rahul", Amount: decimal.NewFromInt(-5), Reason: "x", LentDate: "2024-03-01",
			},
		},
		{
			name: "fractional amount",
			request: domain.CreateRecordRequest{
				BorrowerName: "Rahul", Amount: decimal.NewFromFloat(10.5), Reason: "x", LentDate: "2024-03-01",
			},
		},
		{
			name: "empty reason",
			request: domain.CreateRecordRequest{
				BorrowerName: "Rahul", Amount: decimal.NewFromInt(100), Reason: "  ", LentDate: "2024-03-01",
			},
		},
		{
			name: "unparseable lent date",
			request: domain.CreateRecordRequest{
				BorrowerName: "Rahul", Amount: decimal.NewFromInt(100), Reason: "x", LentDate: "yesterday",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t, nil)

			record, err := s.Add(context.Background(), &tt.request)

			assert.Nil(t, record)
			assert.True(t, customError.IsValidation(err), "expected validation error, got %v", err)
			// No partial record may survive a rejected Add
			assert.Empty(t, s.List(context.Background()))
		})
	}
}

func TestList_NewestFirst(t *testing.T) {
	s := newTestService(t, nil)

	mustAdd(t, s, "First", 100, "a", "2024-01-01")
	mustAdd(t, s, "Second", 200, "b", "2024-01-02")
	mustAdd(t, s, "Third", 300, "c", "2024-01-03")

	records := s.List(context.Background())
	require.Len(t, records, 3)
	assert.Equal(t, "Third", records[0].BorrowerName)
	assert.Equal(t, "Second", records[1].BorrowerName)
	assert.Equal(t, "First", records[2].BorrowerName)
}

func TestApplyPayment_PartialThenSettled(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	record := mustAdd(t, s, "Rahul", 500, "Lunch", "2024-03-01")

	// Partial payment keeps the record pending
	record, err := s.ApplyPayment(ctx, record.ID, decimal.NewFromInt(200), "first installment")
	require.NoError(t, err)
	assert.True(t, record.PaidAmount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, domain.RecordStatusPending, record.Status)
	require.Len(t, record.PaymentHistory, 1)
	assert.Equal(t, "first installment", record.PaymentHistory[0].Notes)

	totals := s.Totals(ctx)
	assert.True(t, totals.TotalLent.Equal(decimal.NewFromInt(500)))
	assert.True(t, totals.TotalPending.Equal(decimal.NewFromInt(300)))
	assert.True(t, totals.TotalReturned.IsZero())

	// Paying the exact remainder flips the record to paid
	record, err = s.ApplyPayment(ctx, record.ID, decimal.NewFromInt(300), "")
	require.NoError(t, err)
	assert.True(t, record.PaidAmount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, domain.RecordStatusPaid, record.Status)
	assert.True(t, record.RemainingBalance().IsZero())

	totals = s.Totals(ctx)
	assert.True(t, totals.TotalLent.Equal(decimal.NewFromInt(500)))
	assert.True(t, totals.TotalPending.IsZero())
	assert.True(t, totals.TotalReturned.Equal(decimal.NewFromInt(500)))
}

func TestApplyPayment_ExceedsBalance(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	record := mustAdd(t, s, "Rahul", 500, "Lunch", "2024-03-01")
	_, err := s.ApplyPayment(ctx, record.ID, decimal.NewFromInt(200), "")
	require.NoError(t, err)

	// Remaining balance is 300; 600 and 301 must both be rejected
	for _, amount := range []int64{600, 301} {
		_, err := s.ApplyPayment(ctx, record.ID, decimal.NewFromInt(amount), "")
		assert.ErrorIs(t, err, customError.ErrPaymentExceedsBalance)
	}

	// A rejected payment mutates nothing
	current := s.List(ctx)[0]
	assert.True(t, current.PaidAmount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, domain.RecordStatusPending, current.Status)
	assert.Len(t, current.PaymentHistory, 1)
}

func TestApplyPayment_InvalidAmounts(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	record := mustAdd(t, s, "Rahul", 500, "Lunch", "2024-03-01")

	for _, amount := range []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromInt(-10),
		decimal.NewFromFloat(49.99),
	} {
		_, err := s.ApplyPayment(ctx, record.ID, amount, "")
		assert.ErrorIs(t, err, customError.ErrInvalidAmount)
	}
}

func TestApplyPayment_UnknownRecord(t *testing.T) {
	s := newTestService(t, nil)

	_, err := s.ApplyPayment(context.Background(), uuid.New(), decimal.NewFromInt(10), "")
	assert.True(t, customError.IsNotFound(err))
}

func TestApplyPayment_PaidAmountMatchesHistory(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	record := mustAdd(t, s, "Rahul", 1000, "Rent", "2024-03-01")
	for _, amount := range []int64{100, 250, 1, 149} {
		var err error
		record, err = s.ApplyPayment(ctx, record.ID, decimal.NewFromInt(amount), "")
		require.NoError(t, err)

		sum := decimal.Zero
		for _, p := range record.PaymentHistory {
			sum = sum.Add(p.Amount)
		}
		assert.True(t, record.PaidAmount.Equal(sum),
			"paid amount %s diverged from history sum %s", record.PaidAmount, sum)
	}
}

func TestMarkFullyPaid_SkipsAccounting(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	record := mustAdd(t, s, "Rahul", 500, "Lunch", "2024-03-01")
	_, err := s.ApplyPayment(ctx, record.ID, decimal.NewFromInt(200), "")
	require.NoError(t, err)

	// Historical behavior: status flips without a closing payment, so
	// paidAmount understates what was actually repaid.
	record, err = s.MarkFullyPaid(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordStatusPaid, record.Status)
	assert.True(t, record.PaidAmount.Equal(decimal.NewFromInt(200)))
	assert.Len(t, record.PaymentHistory, 1)

	// The paid record contributes its full amount to the returned total
	totals := s.Totals(ctx)
	assert.True(t, totals.TotalReturned.Equal(decimal.NewFromInt(500)))
	assert.True(t, totals.TotalPending.IsZero())
}

func TestMarkFullyPaid_SettleMode(t *testing.T) {
	cfg := &config.Config{}
	cfg.Ledger.SettleOnMarkPaid = true
	s := newTestService(t, cfg)
	ctx := context.Background()

	record := mustAdd(t, s, "Rahul", 500, "Lunch", "2024-03-01")
	_, err := s.ApplyPayment(ctx, record.ID, decimal.NewFromInt(200), "")
	require.NoError(t, err)

	record, err = s.MarkFullyPaid(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordStatusPaid, record.Status)
	assert.True(t, record.PaidAmount.Equal(decimal.NewFromInt(500)))
	require.Len(t, record.PaymentHistory, 2)
	assert.True(t, record.PaymentHistory[1].Amount.Equal(decimal.NewFromInt(300)))
}

func TestMarkFullyPaid_NotFound(t *testing.T) {
	s := newTestService(t, nil)

	_, err := s.MarkFullyPaid(context.Background(), uuid.New())
	assert.True(t, customError.IsNotFound(err))
}

func TestDelete(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	record := mustAdd(t, s, "Rahul", 500, "Lunch", "2024-03-01")
	require.NoError(t, s.Delete(ctx, record.ID))
	assert.Empty(t, s.List(ctx))

	// Deleting an id that does not exist is an error, not a no-op
	err := s.Delete(ctx, record.ID)
	assert.True(t, customError.IsNotFound(err))
	assert.Empty(t, s.List(ctx))
}

func TestDelete_UnknownIDLeavesStoreUntouched(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	mustAdd(t, s, "Rahul", 500, "Lunch", "2024-03-01")

	err := s.Delete(ctx, uuid.New())
	assert.True(t, customError.IsNotFound(err))
	assert.Len(t, s.List(ctx), 1)
}

func TestReads_AreIdempotent(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	record := mustAdd(t, s, "Rahul", 500, "Lunch", "2024-03-01")
	mustAdd(t, s, "Amit", 200, "Taxi", "2024-03-02")
	_, err := s.ApplyPayment(ctx, record.ID, decimal.NewFromInt(100), "")
	require.NoError(t, err)

	assert.Equal(t, s.Totals(ctx), s.Totals(ctx))
	assert.Equal(t, s.Borrowers(ctx), s.Borrowers(ctx))
	assert.Equal(t, s.List(ctx), s.List(ctx))
}

func TestBorrowers_GroupsNormalizedNames(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	mustAdd(t, s, "Amit", 100, "x", "2024-03-01")
	mustAdd(t, s, "amit ", 50, "y", "2024-03-02")

	summaries := s.Borrowers(ctx)
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].RecordCount)
	assert.True(t, summaries[0].TotalBorrowed.Equal(decimal.NewFromInt(150)))
}

func TestNewLedgerService_LoadFailureStartsEmpty(t *testing.T) {
	store := &mocks.MockSnapshotStore{}
	store.On("Load", mock.Anything).Return(nil, errors.New("disk on fire"))
	store.On("Save", mock.Anything, mock.Anything).Return(nil).Maybe()
	store.On("Close").Return(nil).Maybe()

	s := NewLedgerService(context.Background(), store, &config.Config{})
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	assert.Empty(t, s.List(context.Background()))
	store.AssertExpectations(t)
}

func TestSaveFailure_DoesNotRollBackMemory(t *testing.T) {
	store := &mocks.MockSnapshotStore{}
	store.On("Load", mock.Anything).Return(nil, nil)
	store.On("Save", mock.Anything, mock.Anything).Return(errors.New("quota exceeded"))
	store.On("Close").Return(nil).Maybe()

	s := NewLedgerService(context.Background(), store, &config.Config{})
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	mustAdd(t, s, "Rahul", 500, "Lunch", "2024-03-01")

	// The in-memory state stays authoritative even though saving fails
	assert.Len(t, s.List(context.Background()), 1)
	assert.Error(t, s.Flush(context.Background()))
	assert.Len(t, s.List(context.Background()), 1)
}

func TestFlush_RoundTripsThroughStorage(t *testing.T) {
	store := repository.NewMemoryStore()
	cfg := &config.Config{}

	s := NewLedgerService(context.Background(), store, cfg)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	record := mustAdd(t, s, "Rahul", 500, "Lunch", "2024-03-01")
	_, err := s.ApplyPayment(context.Background(), record.ID, decimal.NewFromInt(200), "upi")
	require.NoError(t, err)
	require.NoError(t, s.Flush(context.Background()))

	// A second service over the same storage sees the persisted state
	reloaded := NewLedgerService(context.Background(), store, cfg)
	t.Cleanup(func() { _ = reloaded.Close(context.Background()) })

	records := reloaded.List(context.Background())
	require.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)
	assert.True(t, records[0].PaidAmount.Equal(decimal.NewFromInt(200)))
	require.Len(t, records[0].PaymentHistory, 1)
	assert.Equal(t, "upi", records[0].PaymentHistory[0].Notes)
}
