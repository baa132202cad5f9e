package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/nayakvinit/lendbook/internal/service"
	"github.com/nayakvinit/lendbook/pkg/response"
)

type HealthHandler struct {
	service *service.LedgerService
}

func NewHealthHandler(service *service.LedgerService) *HealthHandler {
	return &HealthHandler{service: service}
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health performs a basic liveness check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	response.Success(w, status)
}

// Ready performs a readiness check including snapshot storage reachability
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Ping(ctx); err != nil {
		status.Status = "error"
		status.Checks["storage"] = "failed: " + err.Error()
	} else {
		status.Checks["storage"] = "ok"
	}

	if status.Status == "error" {
		response.Error(w, http.StatusServiceUnavailable, "Service not ready", nil)
		return
	}

	response.Success(w, status)
}
