package handler

import (
	"net/http"

	"github.com/mrowtown/cali-votes/internal/application/auth"
	"github.com/mrowtown/cali-votes/internal/transport/http/middleware"
)

// SessionHandler handles the logout action and the root redirect.
type SessionHandler struct {
	svc auth.Service
}

func NewSessionHandler(svc auth.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// Home routes the bare domain to the right step of the flow.
func (h *SessionHandler) Home(w http.ResponseWriter, r *http.Request) {
	_, sess := profileSession(r, h.svc)
	if sess.Active() {
		http.Redirect(w, r, "/vote", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/register", http.StatusSeeOther)
}

// Logout clears every stored session field and lands on the register page.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if pid, ok := middleware.ProfileIDFromContext(r.Context()); ok {
		if err := h.svc.Logout(r.Context(), pid); err != nil {
			http.Error(w, "logout failed", http.StatusInternalServerError)
			return
		}
	}
	http.Redirect(w, r, "/register", http.StatusSeeOther)
}
