package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/mrowtown/cali-votes/internal/application/vote"
	"github.com/mrowtown/cali-votes/internal/domain"
)

// VoteHandler serves the vote form. Without a session the page either
// renders locked with a registration call-to-action or redirects outright,
// depending on configuration.
type VoteHandler struct {
	votes         vote.Service
	sessions      SessionReader
	rn            *Renderer
	guardRedirect bool
}

func NewVoteHandler(votes vote.Service, sessions SessionReader, rn *Renderer, guardRedirect bool) *VoteHandler {
	return &VoteHandler{votes: votes, sessions: sessions, rn: rn, guardRedirect: guardRedirect}
}

type voteView struct {
	View
	City          string
	Votes         string
	PaymentMethod string
	Methods       []string
	ErrorMessage  string
	Locked        bool
}

func (h *VoteHandler) Show(w http.ResponseWriter, r *http.Request) {
	_, sess := profileSession(r, h.sessions)
	if !sess.Active() {
		if h.guardRedirect {
			http.Redirect(w, r, "/register", http.StatusSeeOther)
			return
		}
		h.rn.Render(w, http.StatusOK, "vote", voteView{
			View:   View{Title: "Vote", Session: sess},
			Locked: true,
		})
		return
	}

	h.rn.Render(w, http.StatusOK, "vote", voteView{
		View:    View{Title: "Vote", Session: sess},
		Methods: domain.PaymentMethods,
	})
}

func (h *VoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	pid, sess := profileSession(r, h.sessions)
	if !sess.Active() {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	v := voteView{
		View:          View{Title: "Vote", Session: sess},
		City:          r.PostFormValue("city"),
		Votes:         r.PostFormValue("votes"),
		PaymentMethod: r.PostFormValue("payment_method"),
		Methods:       domain.PaymentMethods,
	}

	// A non-numeric count becomes zero and fails the same minimum check as
	// an empty field, with the same inline message.
	votes, _ := strconv.Atoi(strings.TrimSpace(v.Votes))

	_, err := h.votes.PrepareDraft(r.Context(), pid, vote.DraftInput{
		City:          v.City,
		VotesClaimed:  votes,
		PaymentMethod: v.PaymentMethod,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			http.Redirect(w, r, "/register", http.StatusSeeOther)
			return
		}
		v.ErrorMessage = userMessage(err)
		h.rn.Render(w, statusFor(err), "vote", v)
		return
	}

	http.Redirect(w, r, "/pay", http.StatusSeeOther)
}
