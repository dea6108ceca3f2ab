package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/mrowtown/cali-votes/internal/pkg/id"
)

type contextKey string

const ProfileIDKey contextKey = "profile_id"

// ProfileCookieName is the browser cookie that carries the profile ID.
const ProfileCookieName = "cv_profile"

// Codec signs and verifies profile cookie values. A nil Codec stores the
// profile ID as the plain cookie value.
type Codec interface {
	Sign(profileID string) (string, error)
	Verify(value string) (string, error)
}

// Profile gives every browser a stable profile ID via a cookie and injects
// it into the request context. All per-profile flow state is keyed by it; a
// missing or unverifiable cookie gets a fresh ID.
func Profile(codec Codec, maxAge time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profileID := ""
			if c, err := r.Cookie(ProfileCookieName); err == nil && c.Value != "" {
				if codec == nil {
					profileID = c.Value
				} else if pid, err := codec.Verify(c.Value); err == nil {
					profileID = pid
				}
			}

			if profileID == "" {
				profileID = id.New()
				value := profileID
				if codec != nil {
					signed, err := codec.Sign(profileID)
					if err != nil {
						http.Error(w, "profile cookie unavailable", http.StatusInternalServerError)
						return
					}
					value = signed
				}
				http.SetCookie(w, &http.Cookie{
					Name:     ProfileCookieName,
					Value:    value,
					Path:     "/",
					MaxAge:   int(maxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), ProfileIDKey, profileID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ProfileIDFromContext extracts the profile ID set by Profile.
func ProfileIDFromContext(ctx context.Context) (string, bool) {
	pid, ok := ctx.Value(ProfileIDKey).(string)
	return pid, ok && pid != ""
}
