package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mrowtown/cali-votes/internal/domain"
)

// LeaderboardFetcher is the minimal remote interface the leaderboard page
// needs.
type LeaderboardFetcher interface {
	Leaderboard(ctx context.Context) ([]domain.LeaderboardRow, error)
}

// LeaderboardHandler renders the public ranked city totals. City names come
// from the backend and pass through template escaping untouched otherwise.
type LeaderboardHandler struct {
	fetch    LeaderboardFetcher
	sessions SessionReader
	rn       *Renderer
}

func NewLeaderboardHandler(fetch LeaderboardFetcher, sessions SessionReader, rn *Renderer) *LeaderboardHandler {
	return &LeaderboardHandler{fetch: fetch, sessions: sessions, rn: rn}
}

type rankedRow struct {
	Rank  int
	City  string
	Votes int64
}

type leaderboardView struct {
	View
	Rows         []rankedRow
	ErrorMessage string
}

func (h *LeaderboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	_, sess := profileSession(r, h.sessions)
	v := leaderboardView{View: View{Title: "Leaderboard", Session: sess}}

	rows, err := h.fetch.Leaderboard(r.Context())
	if err != nil {
		slog.Warn("leaderboard fetch failed", "err", err)
		v.ErrorMessage = "Could not load leaderboard."
		h.rn.Render(w, http.StatusOK, "leaderboard", v)
		return
	}

	for i, row := range rows {
		v.Rows = append(v.Rows, rankedRow{Rank: i + 1, City: row.City, Votes: row.Votes})
	}
	h.rn.Render(w, http.StatusOK, "leaderboard", v)
}
