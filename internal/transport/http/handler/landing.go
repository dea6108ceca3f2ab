package handler

import (
	"net/http"
	"strings"

	"github.com/mrowtown/cali-votes/internal/application/auth"
)

// LandingHandler verifies the emailed magic-link token. A verified token
// redirects to the vote page so the token never stays in the visible URL.
type LandingHandler struct {
	svc auth.Service
	rn  *Renderer
}

func NewLandingHandler(svc auth.Service, rn *Renderer) *LandingHandler {
	return &LandingHandler{svc: svc, rn: rn}
}

type landingView struct {
	View
	ErrorMessage string
}

func (h *LandingHandler) Verify(w http.ResponseWriter, r *http.Request) {
	pid, sess := profileSession(r, h.svc)

	token := strings.TrimSpace(r.URL.Query().Get("verify"))
	if token == "" {
		if sess.Active() {
			http.Redirect(w, r, "/vote", http.StatusSeeOther)
			return
		}
		h.rn.Render(w, http.StatusOK, "landing", landingView{
			View:         View{Title: "Sign in", Session: sess},
			ErrorMessage: "Missing login token. Use the link from your email.",
		})
		return
	}

	if _, err := h.svc.VerifyMagicLink(r.Context(), pid, token); err != nil {
		h.rn.Render(w, statusFor(err), "landing", landingView{
			View:         View{Title: "Sign in", Session: sess},
			ErrorMessage: userMessage(err),
		})
		return
	}

	http.Redirect(w, r, "/vote", http.StatusSeeOther)
}
