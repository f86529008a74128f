package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"tpv-system/auth"
	"tpv-system/config"
	"tpv-system/pos-svc/internal/domain"
)

type errorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// writeError maps domain errors to HTTP statuses. Unclassified errors are
// reported as a transaction failure; their text is only exposed in
// development.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	if status == http.StatusInternalServerError {
		config.LogError(h.logger, "pos-svc", "handler", r.Method+" "+r.URL.Path, nil, err)
		if h.exposeErrors {
			body.Details = map[string]string{"cause": err.Error()}
		}
	}
	writeJSON(w, status, errorResponse{Error: body})
}

func classify(err error) (int, errorBody) {
	var (
		verr  *domain.ValidationError
		stock *domain.StockError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, errorBody{
			Code:    "VALIDATION_ERROR",
			Message: verr.Error(),
			Details: map[string]string{"field": verr.Field},
		}
	case errors.As(err, &stock):
		return http.StatusConflict, errorBody{
			Code:    "INSUFFICIENT_STOCK",
			Message: stock.Error(),
			Details: map[string]interface{}{
				"productId": stock.ProductID,
				"product":   stock.ProductName,
				"requested": stock.Requested,
				"available": stock.Available,
			},
		}
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, errorBody{Code: "UNAUTHORIZED", Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorBody{Code: "FORBIDDEN", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorBody{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, errorBody{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, errorBody{Code: "INVALID_TRANSITION", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict, errorBody{Code: "INVALID_STATE", Message: err.Error()}
	case errors.Is(err, domain.ErrAmountMismatch):
		return http.StatusBadRequest, errorBody{Code: "AMOUNT_MISMATCH", Message: err.Error()}
	}
	return http.StatusInternalServerError, errorBody{
		Code:    "TRANSACTION_FAILURE",
		Message: "the operation could not be completed",
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
