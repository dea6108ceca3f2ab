package auth

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mrowtown/cali-votes/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockDispatcher struct{ mock.Mock }

func (m *mockDispatcher) Dispatch(ctx context.Context, action string, payload map[string]any, out any) error {
	args := m.Called(ctx, action, payload, out)
	if raw, ok := args.Get(1).(string); ok && raw != "" {
		if target, ok := out.(*json.RawMessage); ok {
			*target = json.RawMessage(raw)
		}
	}
	return args.Error(0)
}

type mockProfileStore struct{ mock.Mock }

func (m *mockProfileStore) SaveSession(ctx context.Context, profileID string, s domain.Session) error {
	return m.Called(ctx, profileID, s).Error(0)
}
func (m *mockProfileStore) Session(ctx context.Context, profileID string) (domain.Session, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).(domain.Session), args.Error(1)
}
func (m *mockProfileStore) ClearSession(ctx context.Context, profileID string) error {
	return m.Called(ctx, profileID).Error(0)
}
func (m *mockProfileStore) SavePrefs(ctx context.Context, profileID string, p domain.Prefs) error {
	return m.Called(ctx, profileID, p).Error(0)
}
func (m *mockProfileStore) Prefs(ctx context.Context, profileID string) (domain.Prefs, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).(domain.Prefs), args.Error(1)
}

// --- RequestMagicLink ---

func TestRequestMagicLink_EmptyEmail_NoDispatch(t *testing.T) {
	d := &mockDispatcher{}
	svc := NewService(d, &mockProfileStore{})

	err := svc.RequestMagicLink(context.Background(), "p1", MagicLinkRequest{Email: "  "})

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Email is required.", ve.Message)
	d.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestMagicLink_BadEmailFormat_NoDispatch(t *testing.T) {
	d := &mockDispatcher{}
	svc := NewService(d, &mockProfileStore{})

	err := svc.RequestMagicLink(context.Background(), "p1", MagicLinkRequest{Email: "not-an-email"})

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Enter a valid email address.", ve.Message)
	d.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestMagicLink_HappyPath(t *testing.T) {
	d := &mockDispatcher{}
	st := &mockProfileStore{}

	st.On("SavePrefs", mock.Anything, "p1", domain.Prefs{Name: "Ada", DiscordHandle: "ada#1234"}).Return(nil)
	d.On("Dispatch", mock.Anything, "requestMagicLink", map[string]any{"email": "a@b.com"}, nil).Return(nil, "")

	svc := NewService(d, st)
	err := svc.RequestMagicLink(context.Background(), "p1", MagicLinkRequest{
		Email:         " A@B.com ",
		Name:          " Ada ",
		DiscordHandle: "ada#1234",
	})

	require.NoError(t, err)
	st.AssertExpectations(t)
	d.AssertExpectations(t)
}

func TestRequestMagicLink_RemoteError(t *testing.T) {
	d := &mockDispatcher{}
	st := &mockProfileStore{}

	st.On("SavePrefs", mock.Anything, "p1", mock.Anything).Return(nil)
	d.On("Dispatch", mock.Anything, "requestMagicLink", mock.Anything, nil).
		Return(&domain.RemoteError{Message: "mail quota exceeded"}, "")

	svc := NewService(d, st)
	err := svc.RequestMagicLink(context.Background(), "p1", MagicLinkRequest{Email: "a@b.com"})

	var re *domain.RemoteError
	require.True(t, errors.As(err, &re))
}

// --- VerifyMagicLink ---

func TestVerifyMagicLink_FlatPayload(t *testing.T) {
	d := &mockDispatcher{}
	st := &mockProfileStore{}

	d.On("Dispatch", mock.Anything, "verifyMagicLink", map[string]any{"token": "tok123"}, mock.Anything).
		Return(nil, `{"session_token":"sess_1","email":"a@b.com","expires_at":1900000000}`)
	st.On("Prefs", mock.Anything, "p1").Return(domain.Prefs{Name: "Ada"}, nil)
	st.On("SaveSession", mock.Anything, "p1", mock.MatchedBy(func(s domain.Session) bool {
		return s.Token == "sess_1" && s.Email == "a@b.com" && s.Name == "Ada" && s.ExpiresAt == 1900000000
	})).Return(nil)

	svc := NewService(d, st)
	sess, err := svc.VerifyMagicLink(context.Background(), "p1", "tok123")

	require.NoError(t, err)
	assert.Equal(t, "sess_1", sess.Token)
	st.AssertExpectations(t)
}

func TestVerifyMagicLink_BareTokenUnderSessionField(t *testing.T) {
	d := &mockDispatcher{}
	st := &mockProfileStore{}

	d.On("Dispatch", mock.Anything, "verifyMagicLink", mock.Anything, mock.Anything).
		Return(nil, `{"session":"sess_2","email":"b@c.com"}`)
	st.On("Prefs", mock.Anything, "p1").Return(domain.Prefs{}, nil)
	st.On("SaveSession", mock.Anything, "p1", mock.MatchedBy(func(s domain.Session) bool {
		return s.Token == "sess_2" && s.Email == "b@c.com"
	})).Return(nil)

	svc := NewService(d, st)
	sess, err := svc.VerifyMagicLink(context.Background(), "p1", "tok123")

	require.NoError(t, err)
	assert.Equal(t, "sess_2", sess.Token)
}

func TestVerifyMagicLink_NestedSessionObject(t *testing.T) {
	d := &mockDispatcher{}
	st := &mockProfileStore{}

	d.On("Dispatch", mock.Anything, "verifyMagicLink", mock.Anything, mock.Anything).
		Return(nil, `{"session":{"session_token":"sess_3","email":"c@d.com","discord_handle_optional":"cd#1"}}`)
	st.On("Prefs", mock.Anything, "p1").Return(domain.Prefs{}, nil)
	st.On("SaveSession", mock.Anything, "p1", mock.MatchedBy(func(s domain.Session) bool {
		return s.Token == "sess_3" && s.Email == "c@d.com" && s.DiscordHandle == "cd#1"
	})).Return(nil)

	svc := NewService(d, st)
	_, err := svc.VerifyMagicLink(context.Background(), "p1", "tok123")
	require.NoError(t, err)
	st.AssertExpectations(t)
}

func TestVerifyMagicLink_RejectedStoresNothing(t *testing.T) {
	d := &mockDispatcher{}
	st := &mockProfileStore{}

	d.On("Dispatch", mock.Anything, "verifyMagicLink", mock.Anything, mock.Anything).
		Return(&domain.RemoteError{Message: "link expired"}, "")

	svc := NewService(d, st)
	_, err := svc.VerifyMagicLink(context.Background(), "p1", "tok123")

	var re *domain.RemoteError
	require.True(t, errors.As(err, &re))
	st.AssertNotCalled(t, "SaveSession", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyMagicLink_PayloadWithoutTokenStoresNothing(t *testing.T) {
	d := &mockDispatcher{}
	st := &mockProfileStore{}

	d.On("Dispatch", mock.Anything, "verifyMagicLink", mock.Anything, mock.Anything).
		Return(nil, `{"email":"a@b.com"}`)

	svc := NewService(d, st)
	_, err := svc.VerifyMagicLink(context.Background(), "p1", "tok123")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	st.AssertNotCalled(t, "SaveSession", mock.Anything, mock.Anything, mock.Anything)
}

func TestDecodeSessionPayload_ExpiryAsRFC3339(t *testing.T) {
	sess, err := decodeSessionPayload(json.RawMessage(`{"session_token":"s","expires":"2030-01-02T03:04:05Z"}`))
	require.NoError(t, err)
	assert.Greater(t, sess.ExpiresAt, int64(0))
}

// --- Logout ---

func TestLogout_ClearsStore(t *testing.T) {
	st := &mockProfileStore{}
	st.On("ClearSession", mock.Anything, "p1").Return(nil)

	svc := NewService(&mockDispatcher{}, st)
	require.NoError(t, svc.Logout(context.Background(), "p1"))
	st.AssertExpectations(t)
}
