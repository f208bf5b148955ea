package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"printdesk-backend/internal/domain"
	"printdesk-backend/internal/logger"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// writeError maps service errors onto the stable wire contract. Unknown
// errors are logged and reported as a generic internal failure so
// implementation detail never leaks to clients.
func writeError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorBody{errorDetail{
			Code:    "VALIDATION",
			Message: verr.Message,
			Field:   verr.Field,
		}})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{errorDetail{Code: "NOT_FOUND", Message: "resource not found"}})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{errorDetail{Code: "FORBIDDEN", Message: "operation not permitted"}})
	case errors.Is(err, domain.ErrQuotaExceeded):
		writeJSON(w, http.StatusForbidden, errorBody{errorDetail{Code: "QUOTA_EXCEEDED", Message: "subscription tier limit reached"}})
	case errors.Is(err, domain.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, errorBody{errorDetail{Code: "INVALID_TRANSITION", Message: "status transition not allowed from current state"}})
	case errors.Is(err, domain.ErrSessionInvalid):
		writeJSON(w, http.StatusUnauthorized, errorBody{errorDetail{Code: "SESSION_INVALID", Message: "session is no longer valid"}})
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody{errorDetail{Code: "INVALID_CREDENTIALS", Message: "invalid email or password"}})
	case errors.Is(err, domain.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errorBody{errorDetail{Code: "EMAIL_TAKEN", Message: "email is already in use"}})
	case errors.Is(err, domain.ErrStorage):
		writeJSON(w, http.StatusBadGateway, errorBody{errorDetail{Code: "STORAGE", Message: "file storage unavailable"}})
	default:
		logger.Error("Unhandled API error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{errorDetail{Code: "INTERNAL", Message: "internal error"}})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("Failed to encode response body", "error", err)
		}
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.Validation("", "malformed JSON body")
	}
	return nil
}
