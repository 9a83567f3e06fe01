package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"furniture-rental-backend/internal/domain"
	"furniture-rental-backend/internal/logger"
)

type errorResponse struct {
	Error     string `json:"error"`
	ProductID string `json:"product_id,omitempty"`
	Stage     string `json:"stage,omitempty"`
}

// statusFor maps the domain error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidRentalDays),
		errors.Is(err, domain.ErrPaymentNotConfirmed),
		errors.Is(err, domain.ErrNoActiveContract),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidStatusTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrProductUnavailable),
		errors.Is(err, domain.ErrCartAlreadyOrdered):
		return http.StatusConflict
	case errors.Is(err, domain.ErrStorageConflict):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
		resp.Error = "internal error"
	}

	var se *domain.StockError
	var pe *domain.ProductError
	switch {
	case errors.As(err, &se):
		resp.ProductID = se.ProductID
	case errors.As(err, &pe):
		resp.ProductID = pe.ProductID
	}
	var ce *domain.CheckoutError
	if errors.As(err, &ce) {
		resp.Stage = string(ce.Stage)
	}

	writeJSON(w, status, resp)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}
