package http

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/keyhaven/keyhaven/internal/application"
	"github.com/keyhaven/keyhaven/internal/domain"
)

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.identityFromRequest(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// registerPage and the other page handlers redirect authenticated visitors to
// the dashboard; rendering itself belongs to the hosting front end.
func (h *Handler) registerPage(w http.ResponseWriter, r *http.Request) {
	h.anonymousPage(w, r)
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	h.anonymousPage(w, r)
}

func (h *Handler) forgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.anonymousPage(w, r)
}

func (h *Handler) anonymousPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.identityFromRequest(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeFieldErrors(w, http.StatusBadRequest, domain.FieldErrors{"form": "Invalid form submission."})
		return
	}

	res, err := h.service.Register(r.Context(), application.RegisterRequest{
		Email:           r.PostFormValue("email"),
		Username:        r.PostFormValue("username"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	})
	if err != nil {
		writeFlowError(r.Context(), w, "register", err)
		return
	}

	if err := h.issueSession(w, res.Identity); err != nil {
		writeFlowError(r.Context(), w, "register", err)
		return
	}
	http.Redirect(w, r, res.RedirectTo, http.StatusFound)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeFieldErrors(w, http.StatusBadRequest, domain.FieldErrors{"form": "Invalid form submission."})
		return
	}

	res, err := h.service.Login(r.Context(), application.LoginRequest{
		UsernameOrEmail: r.PostFormValue("usernameOrEmail"),
		Password:        r.PostFormValue("password"),
		RedirectTo:      r.PostFormValue("redirectTo"),
	})
	if err != nil {
		writeFlowError(r.Context(), w, "login", err)
		return
	}

	if err := h.issueSession(w, res.Identity); err != nil {
		writeFlowError(r.Context(), w, "login", err)
		return
	}
	http.Redirect(w, r, res.RedirectTo, http.StatusFound)
}

// logout destroys the session. Only the state-changing verb performs
// destruction; GET requests are redirected untouched by logoutRedirect.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.clearSession(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handler) logoutRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identityFromRequest(r)
	if !ok {
		params := url.Values{"redirectTo": {r.URL.Path}}
		http.Redirect(w, r, "/login?"+params.Encode(), http.StatusFound)
		return
	}

	data, err := h.service.Dashboard(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// The account behind the cookie is gone; drop the session.
			h.clearSession(w)
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		// Keep the page usable even when the license listing fails.
		logHTTPOperationError(r.Context(), "dashboard", err)
		writeJSON(w, http.StatusOK, map[string]any{
			"user":        application.UserInfo{ID: identity.UserID, Username: identity.Username},
			"licenseKeys": []application.LicenseKeyItem{},
			"error":       "Failed to load license keys.",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":        data.User,
		"licenseKeys": data.LicenseKeys,
	})
}
