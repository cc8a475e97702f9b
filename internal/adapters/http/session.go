package http

import (
	"net/http"

	"github.com/keyhaven/keyhaven/internal/ports"
)

// The session is the cookie: a signed identity claim, no server-side record.
const sessionCookieName = "__session"

func (h *Handler) identityFromRequest(r *http.Request) (ports.SessionIdentity, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ports.SessionIdentity{}, false
	}
	return h.sessions.Decode(cookie.Value)
}

func (h *Handler) issueSession(w http.ResponseWriter, identity ports.SessionIdentity) error {
	value, err := h.sessions.Encode(identity, h.now())
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(h.sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (h *Handler) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
