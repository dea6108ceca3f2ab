package handler

import (
	"net/http"

	"github.com/mrowtown/cali-votes/internal/application/auth"
)

// RegisterHandler serves the magic-link request page.
type RegisterHandler struct {
	svc auth.Service
	rn  *Renderer
}

func NewRegisterHandler(svc auth.Service, rn *Renderer) *RegisterHandler {
	return &RegisterHandler{svc: svc, rn: rn}
}

type registerView struct {
	View
	Email         string
	Name          string
	DiscordHandle string
	ErrorMessage  string
	Sent          bool
}

func (h *RegisterHandler) Show(w http.ResponseWriter, r *http.Request) {
	_, sess := profileSession(r, h.svc)
	h.rn.Render(w, http.StatusOK, "register", registerView{
		View: View{Title: "Register", Session: sess},
	})
}

func (h *RegisterHandler) Submit(w http.ResponseWriter, r *http.Request) {
	pid, sess := profileSession(r, h.svc)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	v := registerView{
		View:          View{Title: "Register", Session: sess},
		Email:         r.PostFormValue("email"),
		Name:          r.PostFormValue("name"),
		DiscordHandle: r.PostFormValue("discord_handle"),
	}

	err := h.svc.RequestMagicLink(r.Context(), pid, auth.MagicLinkRequest{
		Email:         v.Email,
		Name:          v.Name,
		DiscordHandle: v.DiscordHandle,
	})
	if err != nil {
		v.ErrorMessage = userMessage(err)
		h.rn.Render(w, statusFor(err), "register", v)
		return
	}

	v.Sent = true
	h.rn.Render(w, http.StatusOK, "register", v)
}
