package domain

import "github.com/shopspring/decimal"

// DTOs for requests and responses

type CreateRecordRequest struct {
	BorrowerName string          `json:"borrower_name" validate:"required"`
	Amount       decimal.Decimal `json:"amount" validate:"required,decimal_gt=0,decimal_whole"`
	Reason       string          `json:"reason" validate:"required"`
	LentDate     string          `json:"lent_date" validate:"required"`
	Notes        string          `json:"notes"`
}

type ApplyPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required,decimal_gt=0,decimal_whole"`
	Notes  string          `json:"notes"`
}

type ContactHistoryResponse struct {
	Borrower string           `json:"borrower"`
	Pending  []*LendingRecord `json:"pending"`
	Paid     []*LendingRecord `json:"paid"`
}
