package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mrowtown/cali-votes/internal/domain"
)

type mockFetcher struct{ mock.Mock }

func (m *mockFetcher) Leaderboard(ctx context.Context) ([]domain.LeaderboardRow, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]domain.LeaderboardRow)
	return rows, args.Error(1)
}

func TestLeaderboard_RendersRankedRows(t *testing.T) {
	a := &mockAuth{}
	a.On("Current", mock.Anything, "p1").Return(domain.Session{}, nil)
	f := &mockFetcher{}
	f.On("Leaderboard", mock.Anything).Return([]domain.LeaderboardRow{
		{City: "Fresno", Votes: 120},
		{City: "Bakersfield", Votes: 45},
	}, nil)
	h := NewLeaderboardHandler(f, a, NewRenderer())

	rec := httptest.NewRecorder()
	h.Show(rec, withProfile(httptest.NewRequest(http.MethodGet, "/leaderboard", nil), "p1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Fresno")
	assert.Contains(t, body, "<strong>120</strong>")
	assert.Contains(t, body, "Bakersfield")
}

func TestLeaderboard_EscapesBackendStrings(t *testing.T) {
	a := &mockAuth{}
	a.On("Current", mock.Anything, "p1").Return(domain.Session{}, nil)
	f := &mockFetcher{}
	f.On("Leaderboard", mock.Anything).Return([]domain.LeaderboardRow{
		{City: "<script>alert(1)</script>", Votes: 1},
	}, nil)
	h := NewLeaderboardHandler(f, a, NewRenderer())

	rec := httptest.NewRecorder()
	h.Show(rec, withProfile(httptest.NewRequest(http.MethodGet, "/leaderboard", nil), "p1"))

	body := rec.Body.String()
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestLeaderboard_EmptyState(t *testing.T) {
	a := &mockAuth{}
	a.On("Current", mock.Anything, "p1").Return(domain.Session{}, nil)
	f := &mockFetcher{}
	f.On("Leaderboard", mock.Anything).Return([]domain.LeaderboardRow{}, nil)
	h := NewLeaderboardHandler(f, a, NewRenderer())

	rec := httptest.NewRecorder()
	h.Show(rec, withProfile(httptest.NewRequest(http.MethodGet, "/leaderboard", nil), "p1"))

	assert.Contains(t, rec.Body.String(), "No approved votes yet.")
}

func TestLeaderboard_FetchError(t *testing.T) {
	a := &mockAuth{}
	a.On("Current", mock.Anything, "p1").Return(domain.Session{}, nil)
	f := &mockFetcher{}
	f.On("Leaderboard", mock.Anything).Return(nil, assert.AnError)
	h := NewLeaderboardHandler(f, a, NewRenderer())

	rec := httptest.NewRecorder()
	h.Show(rec, withProfile(httptest.NewRequest(http.MethodGet, "/leaderboard", nil), "p1"))

	assert.Contains(t, rec.Body.String(), "Could not load leaderboard.")
}
