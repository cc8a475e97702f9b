package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/keyhaven/keyhaven/internal/application"
	"github.com/keyhaven/keyhaven/internal/ports"
)

// CookieSettings carries the deployment-dependent cookie attributes. Secure is
// on outside development so the session cookie never travels over plain HTTP.
type CookieSettings struct {
	Secure bool
}

// Handler is the HTTP boundary for the auth flows. It interprets the typed
// outcomes of the application layer as redirects, page data, or JSON errors.
type Handler struct {
	service  *application.Service
	sessions ports.SessionCodec
	cookies  CookieSettings
}

func NewHandler(service *application.Service, sessions ports.SessionCodec, cookies CookieSettings) *Handler {
	return &Handler{service: service, sessions: sessions, cookies: cookies}
}

// NewRouter registers routes and the shared middleware stack.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Get("/", handler.index)
	r.Get("/register", handler.registerPage)
	r.Post("/register", handler.register)
	r.Get("/login", handler.loginPage)
	r.Post("/login", handler.login)
	r.Get("/logout", handler.logoutRedirect)
	r.Post("/logout", handler.logout)
	r.Get("/forgot-password", handler.forgotPasswordPage)
	r.Post("/forgot-password", handler.forgotPassword)
	r.Get("/reset-password/{token}", handler.resetPasswordPage)
	r.Post("/reset-password/{token}", handler.resetPassword)
	r.Get("/dashboard", handler.dashboard)

	r.Post("/api/validate-license", handler.validateLicense)

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) readyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) now() time.Time {
	return time.Now().UTC()
}
