package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"tpv-system/auth"
	"tpv-system/config"
	"tpv-system/dashboard-svc/internal/domain"
)

type errorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	if status == http.StatusInternalServerError {
		config.LogError(h.logger, "dashboard-svc", "handler", r.Method+" "+r.URL.Path, nil, err)
		if h.exposeErrors {
			body.Details = map[string]string{"cause": err.Error()}
		}
	}
	writeJSON(w, status, errorResponse{Error: body})
}

func classify(err error) (int, errorBody) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, errorBody{
			Code:    "VALIDATION_ERROR",
			Message: verr.Error(),
			Details: map[string]string{"field": verr.Field},
		}
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, errorBody{Code: "UNAUTHORIZED", Message: err.Error()}
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, errorBody{Code: "FORBIDDEN", Message: err.Error()}
	}
	return http.StatusInternalServerError, errorBody{
		Code:    "TRANSACTION_FAILURE",
		Message: "the report could not be produced",
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
