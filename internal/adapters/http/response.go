package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/keyhaven/keyhaven/internal/domain"
)

const (
	genericConflictMessage    = "An account with this email or username already exists."
	genericCredentialsMessage = "Invalid username/email or password."
	genericTokenMessage       = "Invalid or expired password reset token."
	genericServerMessage      = "An unexpected error occurred. Please try again."
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeFieldErrors(w http.ResponseWriter, statusCode int, errs domain.FieldErrors) {
	writeJSON(w, statusCode, map[string]any{"errors": errs})
}

// writeFlowError maps a flow outcome to the user-facing error contract. Store
// and other unexpected failures log full detail server-side and surface only a
// generic message; conflict and credential errors stay deliberately vague.
func writeFlowError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	if fieldErrs, ok := domain.AsFieldErrors(err); ok {
		writeFieldErrors(w, http.StatusBadRequest, fieldErrs)
		return
	}
	switch {
	case errors.Is(err, domain.ErrConflict):
		writeFieldErrors(w, http.StatusBadRequest, domain.FieldErrors{"form": genericConflictMessage})
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeFieldErrors(w, http.StatusUnauthorized, domain.FieldErrors{"form": genericCredentialsMessage})
	case errors.Is(err, domain.ErrTokenInvalid):
		writeFieldErrors(w, http.StatusBadRequest, domain.FieldErrors{"form": genericTokenMessage})
	default:
		logHTTPOperationError(ctx, operation, err)
		writeFieldErrors(w, http.StatusInternalServerError, domain.FieldErrors{"form": genericServerMessage})
	}
}
