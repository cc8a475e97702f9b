package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/keyhaven/keyhaven/internal/domain"
)

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeFieldErrors(w, http.StatusBadRequest, domain.FieldErrors{"form": "Invalid form submission."})
		return
	}

	res, err := h.service.RequestPasswordReset(r.Context(), r.PostFormValue("email"), requestBaseURL(r))
	if err != nil {
		writeFlowError(r.Context(), w, "forgot_password", err)
		return
	}

	payload := map[string]any{
		"errors":    domain.FieldErrors{},
		"message":   res.Message,
		"resetLink": nil,
	}
	if res.ResetLink != "" {
		payload["resetLink"] = res.ResetLink
	}
	writeJSON(w, http.StatusOK, payload)
}

// resetPasswordPage reports whether the token is worth rendering a form for.
// The answer is advisory: the submit path re-validates before mutating.
func (h *Handler) resetPasswordPage(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	valid, err := h.service.CheckResetToken(r.Context(), token)
	if err != nil {
		logHTTPOperationError(r.Context(), "reset_password_page", err)
		writeJSON(w, http.StatusOK, map[string]any{
			"error":        "An error occurred validating the token.",
			"tokenIsValid": false,
		})
		return
	}
	if !valid {
		writeJSON(w, http.StatusOK, map[string]any{
			"error":        genericTokenMessage,
			"tokenIsValid": false,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"error":        nil,
		"tokenIsValid": true,
		"token":        token,
	})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeFieldErrors(w, http.StatusBadRequest, domain.FieldErrors{"form": "Invalid form submission."})
		return
	}

	err := h.service.ResetPassword(
		r.Context(),
		chi.URLParam(r, "token"),
		r.PostFormValue("password"),
		r.PostFormValue("confirmPassword"),
	)
	if err != nil {
		writeFlowError(r.Context(), w, "reset_password", err)
		return
	}
	http.Redirect(w, r, "/login?reset=success", http.StatusFound)
}

// requestBaseURL reconstructs the externally visible origin for reset links,
// honoring the proxy protocol header when present.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
