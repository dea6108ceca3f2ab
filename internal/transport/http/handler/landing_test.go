package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mrowtown/cali-votes/internal/domain"
)

func TestLanding_VerifiedRedirectsWithoutToken(t *testing.T) {
	a := &mockAuth{}
	a.On("Current", mock.Anything, "p1").Return(domain.Session{}, nil)
	a.On("VerifyMagicLink", mock.Anything, "p1", "tok123").Return(activeSession(), nil)
	h := NewLandingHandler(a, NewRenderer())

	rec := httptest.NewRecorder()
	h.Verify(rec, withProfile(httptest.NewRequest(http.MethodGet, "/landing?verify=tok123", nil), "p1"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/vote", rec.Header().Get("Location"))
}

func TestLanding_RejectedTokenInvitesNewLink(t *testing.T) {
	a := &mockAuth{}
	a.On("Current", mock.Anything, "p1").Return(domain.Session{}, nil)
	a.On("VerifyMagicLink", mock.Anything, "p1", "bad").
		Return(domain.Session{}, &domain.RemoteError{Message: "Invalid or expired token"})
	h := NewLandingHandler(a, NewRenderer())

	rec := httptest.NewRecorder()
	h.Verify(rec, withProfile(httptest.NewRequest(http.MethodGet, "/landing?verify=bad", nil), "p1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Invalid or expired token")
	assert.Contains(t, body, `href="/register"`)
}

func TestLanding_NoToken_ActiveSessionRedirects(t *testing.T) {
	a := &mockAuth{}
	a.On("Current", mock.Anything, "p1").Return(activeSession(), nil)
	h := NewLandingHandler(a, NewRenderer())

	rec := httptest.NewRecorder()
	h.Verify(rec, withProfile(httptest.NewRequest(http.MethodGet, "/landing", nil), "p1"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/vote", rec.Header().Get("Location"))
	a.AssertNotCalled(t, "VerifyMagicLink", mock.Anything, mock.Anything, mock.Anything)
}

func TestLanding_NoToken_NoSessionRendersMessage(t *testing.T) {
	a := &mockAuth{}
	a.On("Current", mock.Anything, "p1").Return(domain.Session{}, nil)
	h := NewLandingHandler(a, NewRenderer())

	rec := httptest.NewRecorder()
	h.Verify(rec, withProfile(httptest.NewRequest(http.MethodGet, "/landing", nil), "p1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing login token")
}
