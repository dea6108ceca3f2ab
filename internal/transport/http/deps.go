package http

import (
	"context"

	"github.com/mrowtown/cali-votes/internal/domain"
	"github.com/mrowtown/cali-votes/internal/infrastructure/profilestore"
	"github.com/mrowtown/cali-votes/internal/transport/http/middleware"
)

// RemoteGateway is the minimal interface the router requires from the
// action-dispatch client.
type RemoteGateway interface {
	Dispatch(ctx context.Context, action string, payload map[string]any, out any) error
	Leaderboard(ctx context.Context) ([]domain.LeaderboardRow, error)
}

// ScreenshotArchive keeps a reviewable copy of each uploaded screenshot.
type ScreenshotArchive interface {
	Store(ctx context.Context, uploadToken, contentType string, data []byte) (string, error)
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	Remote   RemoteGateway
	Profiles *profilestore.Store
	Archive  ScreenshotArchive // nil disables archival
	Cookies  middleware.Codec  // nil falls back to unsigned cookie values
}
