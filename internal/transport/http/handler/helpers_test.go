package handler

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/mock"

	"github.com/mrowtown/cali-votes/internal/application/auth"
	"github.com/mrowtown/cali-votes/internal/domain"
	"github.com/mrowtown/cali-votes/internal/transport/http/middleware"
)

type mockAuth struct{ mock.Mock }

var _ auth.Service = (*mockAuth)(nil)

func (m *mockAuth) RequestMagicLink(ctx context.Context, profileID string, req auth.MagicLinkRequest) error {
	return m.Called(ctx, profileID, req).Error(0)
}
func (m *mockAuth) VerifyMagicLink(ctx context.Context, profileID, token string) (domain.Session, error) {
	args := m.Called(ctx, profileID, token)
	return args.Get(0).(domain.Session), args.Error(1)
}
func (m *mockAuth) Current(ctx context.Context, profileID string) (domain.Session, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).(domain.Session), args.Error(1)
}
func (m *mockAuth) Logout(ctx context.Context, profileID string) error {
	return m.Called(ctx, profileID).Error(0)
}

// withProfile stamps the profile ID onto the request context, the way the
// profile middleware would.
func withProfile(req *http.Request, profileID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ProfileIDKey, profileID)
	return req.WithContext(ctx)
}

func activeSession() domain.Session {
	return domain.Session{Token: "sess_1", Email: "ada@example.com"}
}
