package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/keyhaven/keyhaven/internal/domain"
)

type validateLicenseRequest struct {
	LicenseKey string `json:"licenseKey"`
}

// validateLicense is the machine-to-machine endpoint. Response status and the
// valid flag follow a strict matrix: 401 before the caller is authenticated,
// 400 for a bad body, 404/403/200 for the license itself.
func (h *Handler) validateLicense(w http.ResponseWriter, r *http.Request) {
	apiKey := r.Header.Get("X-API-Key")
	if apiKey == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"valid": false, "error": "Missing API Key"})
		return
	}

	// Authentication is decided before anything about the body is admitted, so
	// a decode failure still produces 401 for an unauthenticated caller.
	var req validateLicenseRequest
	badBody := ""
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req.LicenseKey = ""
		badBody = "Invalid JSON body"
	}

	res, err := h.service.ValidateLicense(r.Context(), apiKey, req.LicenseKey)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			writeJSON(w, http.StatusUnauthorized, map[string]any{"valid": false, "error": "Invalid API Key"})
		case errors.Is(err, domain.ErrInvalidInput):
			msg := "Missing or invalid licenseKey in request body"
			if badBody != "" {
				msg = badBody
			}
			writeJSON(w, http.StatusBadRequest, map[string]any{"valid": false, "error": msg})
		case errors.Is(err, domain.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]any{"valid": false, "error": "License key not found"})
		case errors.Is(err, domain.ErrLicenseInactive):
			writeJSON(w, http.StatusForbidden, map[string]any{"valid": false, "error": "License key is inactive"})
		default:
			logHTTPOperationError(r.Context(), "validate_license", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{"valid": false, "error": "Internal server error during validation"})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"valid":    true,
		"username": res.Username,
		"email":    res.Email,
	})
}
