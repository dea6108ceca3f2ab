package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mrowtown/cali-votes/internal/domain"
	"github.com/mrowtown/cali-votes/internal/pkg/validate"
)

// MagicLinkRequest is the register-form input. Name and DiscordHandle are
// optional and ride along on the later vote submission.
type MagicLinkRequest struct {
	Email         string `validate:"required,email"`
	Name          string
	DiscordHandle string
}

// ValidationError carries the inline message shown next to the form field
// that failed. No remote call happens when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Dispatcher is the minimal remote-transport interface the service needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, action string, payload map[string]any, out any) error
}

// ProfileStore is the minimal per-profile state interface the service needs.
type ProfileStore interface {
	SaveSession(ctx context.Context, profileID string, s domain.Session) error
	Session(ctx context.Context, profileID string) (domain.Session, error)
	ClearSession(ctx context.Context, profileID string) error
	SavePrefs(ctx context.Context, profileID string, p domain.Prefs) error
	Prefs(ctx context.Context, profileID string) (domain.Prefs, error)
}

// Service drives the magic-link lifecycle: request a link, verify the
// emailed token, read the current session, log out.
type Service interface {
	RequestMagicLink(ctx context.Context, profileID string, req MagicLinkRequest) error
	VerifyMagicLink(ctx context.Context, profileID, token string) (domain.Session, error)
	Current(ctx context.Context, profileID string) (domain.Session, error)
	Logout(ctx context.Context, profileID string) error
}

type service struct {
	remote Dispatcher
	store  ProfileStore
}

func NewService(remote Dispatcher, store ProfileStore) Service {
	return &service{remote: remote, store: store}
}

func (s *service) RequestMagicLink(ctx context.Context, profileID string, req MagicLinkRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if ve := validate.Struct(req); ve != nil {
		for _, fe := range ve {
			if fe.Tag() == "required" {
				return &ValidationError{Message: "Email is required."}
			}
		}
		return &ValidationError{Message: "Enter a valid email address."}
	}

	// Prefs are persisted before the dispatch so they survive even when the
	// link request fails and the user retries later.
	prefs := domain.Prefs{
		Name:          strings.TrimSpace(req.Name),
		DiscordHandle: strings.TrimSpace(req.DiscordHandle),
	}
	if err := s.store.SavePrefs(ctx, profileID, prefs); err != nil {
		return err
	}

	return s.remote.Dispatch(ctx, "requestMagicLink", map[string]any{"email": req.Email}, nil)
}

// VerifyMagicLink runs the token through the remote endpoint and persists
// the resulting session. A rejected or malformed response stores nothing.
func (s *service) VerifyMagicLink(ctx context.Context, profileID, token string) (domain.Session, error) {
	var raw json.RawMessage
	if err := s.remote.Dispatch(ctx, "verifyMagicLink", map[string]any{"token": token}, &raw); err != nil {
		return domain.Session{}, err
	}

	sess, err := decodeSessionPayload(raw)
	if err != nil {
		return domain.Session{}, err
	}

	// The verification payload wins; stored prefs fill whatever it omitted.
	if prefs, err := s.store.Prefs(ctx, profileID); err == nil {
		if sess.Name == "" {
			sess.Name = prefs.Name
		}
		if sess.DiscordHandle == "" {
			sess.DiscordHandle = prefs.DiscordHandle
		}
	}

	if err := s.store.SaveSession(ctx, profileID, sess); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

func (s *service) Current(ctx context.Context, profileID string) (domain.Session, error) {
	return s.store.Session(ctx, profileID)
}

func (s *service) Logout(ctx context.Context, profileID string) error {
	return s.store.ClearSession(ctx, profileID)
}

// sessionPayload covers both response shapes the one remote deployment has
// produced: a flat object with session_token (or a bare token under
// "session"), and an object whose "session" field nests the same record.
type sessionPayload struct {
	SessionToken  string          `json:"session_token"`
	Session       json.RawMessage `json:"session"`
	Email         string          `json:"email"`
	Name          string          `json:"name_optional"`
	DiscordHandle string          `json:"discord_handle_optional"`
	ExpiresAt     json.RawMessage `json:"expires_at"`
	Expires       json.RawMessage `json:"expires"`
}

func decodeSessionPayload(raw json.RawMessage) (domain.Session, error) {
	var p sessionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Session{}, fmt.Errorf("decode verification payload: %w", err)
	}

	sess := domain.Session{
		Token:         p.SessionToken,
		Email:         p.Email,
		Name:          p.Name,
		DiscordHandle: p.DiscordHandle,
		ExpiresAt:     parseExpiry(p.ExpiresAt, p.Expires),
	}

	if len(p.Session) > 0 {
		var tok string
		if err := json.Unmarshal(p.Session, &tok); err == nil {
			// Flat shape: "session" holds the bare token string.
			if sess.Token == "" {
				sess.Token = tok
			}
		} else {
			// Nested shape: "session" holds the whole record.
			nested, err := decodeSessionPayload(p.Session)
			if err != nil {
				return domain.Session{}, err
			}
			if nested.Token != "" {
				sess.Token = nested.Token
			}
			if nested.Email != "" {
				sess.Email = nested.Email
			}
			if nested.Name != "" {
				sess.Name = nested.Name
			}
			if nested.DiscordHandle != "" {
				sess.DiscordHandle = nested.DiscordHandle
			}
			if nested.ExpiresAt != 0 {
				sess.ExpiresAt = nested.ExpiresAt
			}
		}
	}

	if sess.Token == "" {
		return domain.Session{}, fmt.Errorf("verification payload carries no session token: %w", domain.ErrBadRequest)
	}
	return sess, nil
}

// parseExpiry tolerates the expiry timestamp arriving as a Unix number, an
// RFC 3339 string, or not at all. It is informational either way.
func parseExpiry(candidates ...json.RawMessage) int64 {
	for _, raw := range candidates {
		if len(raw) == 0 {
			continue
		}
		var n int64
		if err := json.Unmarshal(raw, &n); err == nil {
			return n
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if ts, err := time.Parse(time.RFC3339, s); err == nil {
				return ts.Unix()
			}
		}
	}
	return 0
}
