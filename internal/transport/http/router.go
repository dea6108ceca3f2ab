package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/mrowtown/cali-votes/internal/application/auth"
	"github.com/mrowtown/cali-votes/internal/application/payment"
	"github.com/mrowtown/cali-votes/internal/application/upload"
	"github.com/mrowtown/cali-votes/internal/application/vote"
	"github.com/mrowtown/cali-votes/internal/config"
	"github.com/mrowtown/cali-votes/internal/transport/http/handler"
	appmiddleware "github.com/mrowtown/cali-votes/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	cookieTTL := time.Duration(cfg.CookieTTLDays) * 24 * time.Hour
	r.Use(appmiddleware.Profile(deps.Cookies, cookieTTL, cfg.AppEnv != "development"))

	// 5 requests/second, burst of 10 — applied to the magic-link request.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(deps.Remote, deps.Profiles)
	voteSvc := vote.NewService(deps.Remote, deps.Profiles)
	paySvc := payment.NewService(cfg.AssetBase, deps.Profiles)
	uploadSvc := upload.NewService(deps.Remote, deps.Archive)

	rn := handler.NewRenderer()
	healthH := handler.NewHealthHandler()
	sessionH := handler.NewSessionHandler(authSvc)
	registerH := handler.NewRegisterHandler(authSvc, rn)
	landingH := handler.NewLandingHandler(authSvc, rn)
	voteH := handler.NewVoteHandler(voteSvc, authSvc, rn, cfg.VoteGuardRedirect)
	payH := handler.NewPayHandler(paySvc, voteSvc, authSvc, rn)
	uploadH := handler.NewUploadHandler(uploadSvc, authSvc, rn)
	leaderboardH := handler.NewLeaderboardHandler(deps.Remote, authSvc, rn)

	r.Get("/healthz", healthH.Check)
	r.Get("/", sessionH.Home)
	r.Get("/register", registerH.Show)
	r.With(sensitiveRL.Limit).Post("/register", registerH.Submit)
	r.Get("/landing", landingH.Verify)
	r.Get("/vote", voteH.Show)
	r.Post("/vote", voteH.Submit)
	r.Get("/pay", payH.Show)
	r.Post("/pay/confirm", payH.Confirm)
	r.Get("/upload-entry", uploadH.Entry)
	r.Get("/upload", uploadH.Show)
	r.Post("/upload", uploadH.Submit)
	r.Get("/leaderboard", leaderboardH.Show)
	r.Post("/logout", sessionH.Logout)

	return r
}
