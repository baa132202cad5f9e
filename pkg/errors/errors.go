package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrRecordNotFound        = errors.New("record not found")
	ErrMissingBorrowerName   = errors.New("borrower name is required")
	ErrMissingReason         = errors.New("reason is required")
	ErrInvalidAmount         = errors.New("amount must be a positive whole number")
	ErrInvalidDate           = errors.New("invalid date")
	ErrPaymentExceedsBalance = errors.New("payment exceeds remaining balance")
	ErrSnapshotCorrupt       = errors.New("snapshot payload is corrupt")
	ErrStorage               = errors.New("storage operation failed")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeRecordNotFound        = "RECORD_NOT_FOUND"
	ErrCodeMissingBorrowerName   = "MISSING_BORROWER_NAME"
	ErrCodeMissingReason         = "MISSING_REASON"
	ErrCodeInvalidAmount         = "INVALID_AMOUNT"
	ErrCodeInvalidDate           = "INVALID_DATE"
	ErrCodePaymentExceedsBalance = "PAYMENT_EXCEEDS_BALANCE"
	ErrCodeSnapshotCorrupt       = "SNAPSHOT_CORRUPT"
	ErrCodeStorageError          = "STORAGE_ERROR"
)

// Wrap common errors with business context
func WrapRecordNotFound(recordID string) *BusinessError {
	return NewBusinessError(
		ErrCodeRecordNotFound,
		fmt.Sprintf("Record with ID %s not found", recordID),
		ErrRecordNotFound,
	)
}

func WrapMissingBorrowerName() *BusinessError {
	return NewBusinessError(
		ErrCodeMissingBorrowerName,
		"Borrower name must not be empty",
		ErrMissingBorrowerName,
	)
}

func WrapMissingReason() *BusinessError {
	return NewBusinessError(
		ErrCodeMissingReason,
		"Reason must not be empty",
		ErrMissingReason,
	)
}

func WrapInvalidAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidAmount,
		fmt.Sprintf("Invalid amount: %s", amount),
		ErrInvalidAmount,
	)
}

func WrapInvalidDate(value string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidDate,
		fmt.Sprintf("Invalid date: %s", value),
		ErrInvalidDate,
	)
}

func WrapPaymentExceedsBalance(amount, remaining string) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentExceedsBalance,
		fmt.Sprintf("Payment %s exceeds remaining balance %s", amount, remaining),
		ErrPaymentExceedsBalance,
	)
}

func WrapSnapshotCorrupt(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeSnapshotCorrupt,
		"Snapshot payload could not be decoded",
		errors.Join(ErrSnapshotCorrupt, err),
	)
}

func WrapStorageError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeStorageError,
		"storage operation failed",
		errors.Join(ErrStorage, err),
	)
}

// IsValidation reports whether err is caused by invalid caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingBorrowerName) ||
		errors.Is(err, ErrMissingReason) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrPaymentExceedsBalance)
}

// IsNotFound reports whether err refers to a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}
