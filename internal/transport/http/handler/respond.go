package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/mrowtown/cali-votes/internal/application/auth"
	"github.com/mrowtown/cali-votes/internal/application/upload"
	"github.com/mrowtown/cali-votes/internal/application/vote"
	"github.com/mrowtown/cali-votes/internal/domain"
	"github.com/mrowtown/cali-votes/internal/transport/http/middleware"
)

// SessionReader loads the session shown in the page banner.
type SessionReader interface {
	Current(ctx context.Context, profileID string) (domain.Session, error)
}

// profileSession resolves the request's profile ID and its stored session.
// Both degrade to zero values so every page can still render.
func profileSession(r *http.Request, sessions SessionReader) (string, domain.Session) {
	pid, ok := middleware.ProfileIDFromContext(r.Context())
	if !ok {
		return "", domain.Session{}
	}
	sess, err := sessions.Current(r.Context(), pid)
	if err != nil {
		return pid, domain.Session{}
	}
	return pid, sess
}

// userMessage maps an error to the inline message a page shows. Validation
// and remote messages pass through verbatim; anything else gets a generic
// line so internals never leak into the page.
func userMessage(err error) string {
	var authVE *auth.ValidationError
	var voteVE *vote.ValidationError
	var uploadVE *upload.ValidationError
	var re *domain.RemoteError
	switch {
	case errors.As(err, &authVE):
		return authVE.Message
	case errors.As(err, &voteVE):
		return voteVE.Message
	case errors.As(err, &uploadVE):
		return uploadVE.Message
	case errors.As(err, &re):
		return re.Message
	}
	return "Something went wrong. Try again."
}

// statusFor picks the render status for a failed form action. Remote
// rejections still render the page normally; the flow failed, not the page.
func statusFor(err error) int {
	var authVE *auth.ValidationError
	var voteVE *vote.ValidationError
	var uploadVE *upload.ValidationError
	var re *domain.RemoteError
	switch {
	case errors.As(err, &authVE), errors.As(err, &voteVE), errors.As(err, &uploadVE):
		return http.StatusUnprocessableEntity
	case errors.As(err, &re):
		return http.StatusOK
	}
	return http.StatusInternalServerError
}
