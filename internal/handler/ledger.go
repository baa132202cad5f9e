package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/nayakvinit/lendbook/internal/domain"
	"github.com/nayakvinit/lendbook/internal/service"
	customError "github.com/nayakvinit/lendbook/pkg/errors"
	"github.com/nayakvinit/lendbook/pkg/response"
	"github.com/nayakvinit/lendbook/pkg/utils"
)

type LedgerHandler struct {
	service   *service.LedgerService
	validator *validator.Validate
}

func NewLedgerHandler(service *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		service:   service,
		validator: newValidator(),
	}
}

// CreateRecord handles POST /records
func (h *LedgerHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Invalid request", err)
		return
	}

	record, err := h.service.Add(r.Context(), &request)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, record)
}

// ListRecords handles GET /records with an optional q search parameter.
func (h *LedgerHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	records := h.service.Search(r.Context(), query)
	response.Success(w, records)
}

// ApplyPayment handles POST /records/{recordId}/payments
func (h *LedgerHandler) ApplyPayment(w http.ResponseWriter, r *http.Request) {
	recordID, ok := h.recordID(w, r)
	if !ok {
		return
	}

	var request domain.ApplyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Invalid request", err)
		return
	}

	record, err := h.service.ApplyPayment(r.Context(), recordID, request.Amount, request.Notes)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, record)
}

// MarkPaid handles POST /records/{recordId}/paid
func (h *LedgerHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	recordID, ok := h.recordID(w, r)
	if !ok {
		return
	}

	record, err := h.service.MarkFullyPaid(r.Context(), recordID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, record)
}

// DeleteRecord handles DELETE /records/{recordId}
func (h *LedgerHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	recordID, ok := h.recordID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), recordID); err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, map[string]string{"deleted": recordID.String()})
}

// GetTotals handles GET /totals
func (h *LedgerHandler) GetTotals(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.Totals(r.Context()))
}

// GetBorrowers handles GET /borrowers
func (h *LedgerHandler) GetBorrowers(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.Borrowers(r.Context()))
}

// GetContactHistory handles GET /borrowers/{name}/records. The pending/paid
// split and the lent-date ordering belong to this presentation surface, not
// to the store.
func (h *LedgerHandler) GetContactHistory(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	records := h.service.ContactHistory(r.Context(), name)

	result := domain.ContactHistoryResponse{
		Borrower: utils.DisplayName(name),
		Pending:  []*domain.LendingRecord{},
		Paid:     []*domain.LendingRecord{},
	}
	if len(records) > 0 {
		result.Borrower = records[0].BorrowerName
	}

	for _, rec := range records {
		if rec.Status == domain.RecordStatusPaid {
			result.Paid = append(result.Paid, rec)
		} else {
			result.Pending = append(result.Pending, rec)
		}
	}
	byLentDateDesc(result.Pending)
	byLentDateDesc(result.Paid)

	response.Success(w, result)
}

func byLentDateDesc(records []*domain.LendingRecord) {
	sort.SliceStable(records, func(a, b int) bool {
		return records[a].LentDate.After(records[b].LentDate)
	})
}

func (h *LedgerHandler) recordID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := mux.Vars(r)["recordId"]
	recordID, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(w, "Invalid record id", err)
		return uuid.Nil, false
	}
	return recordID, true
}

func (h *LedgerHandler) writeError(w http.ResponseWriter, err error) {
	var businessErr *customError.BusinessError
	message := "Request failed"
	if errors.As(err, &businessErr) {
		message = businessErr.Message
	}

	switch {
	case customError.IsValidation(err):
		response.BadRequest(w, message, err)
	case customError.IsNotFound(err):
		response.NotFound(w, "Record not found")
	default:
		response.InternalServerError(w, message, err)
	}
}
