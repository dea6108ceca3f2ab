package handler

import (
	"errors"
	"net/http"

	"github.com/mrowtown/cali-votes/internal/application/payment"
	"github.com/mrowtown/cali-votes/internal/application/vote"
	"github.com/mrowtown/cali-votes/internal/domain"
)

// PayHandler serves the payment page and the confirm action that actually
// submits the parked vote draft.
type PayHandler struct {
	checkout *payment.Service
	votes    vote.Service
	sessions SessionReader
	rn       *Renderer
}

func NewPayHandler(checkout *payment.Service, votes vote.Service, sessions SessionReader, rn *Renderer) *PayHandler {
	return &PayHandler{checkout: checkout, votes: votes, sessions: sessions, rn: rn}
}

type payView struct {
	View
	Checkout     payment.Checkout
	ErrorMessage string
}

func (h *PayHandler) Show(w http.ResponseWriter, r *http.Request) {
	pid, sess := profileSession(r, h.sessions)
	if !sess.Active() {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	c, err := h.checkout.Checkout(r.Context(), pid)
	if err != nil {
		// Nothing parked to pay for; the vote form is the only way in.
		http.Redirect(w, r, "/vote", http.StatusSeeOther)
		return
	}

	h.rn.Render(w, http.StatusOK, "pay", payView{
		View:     View{Title: "Pay", Session: sess},
		Checkout: c,
	})
}

func (h *PayHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	pid, sess := profileSession(r, h.sessions)
	if !sess.Active() {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	sub, err := h.votes.Confirm(r.Context(), pid)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			http.Redirect(w, r, "/vote", http.StatusSeeOther)
		case errors.Is(err, domain.ErrUnauthorized):
			http.Redirect(w, r, "/register", http.StatusSeeOther)
		default:
			// The draft was put back, so the page can be rebuilt with the
			// remote error inline.
			c, cerr := h.checkout.Checkout(r.Context(), pid)
			if cerr != nil {
				http.Redirect(w, r, "/vote", http.StatusSeeOther)
				return
			}
			h.rn.Render(w, statusFor(err), "pay", payView{
				View:         View{Title: "Pay", Session: sess},
				Checkout:     c,
				ErrorMessage: userMessage(err),
			})
		}
		return
	}

	if sub.UploadURL != "" {
		http.Redirect(w, r, sub.UploadURL, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/upload-entry", http.StatusSeeOther)
}
