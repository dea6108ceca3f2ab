package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mrowtown/cali-votes/internal/config"
	"github.com/mrowtown/cali-votes/internal/infrastructure/cookie"
	"github.com/mrowtown/cali-votes/internal/infrastructure/profilestore"
	"github.com/mrowtown/cali-votes/internal/infrastructure/remote"
	s3infra "github.com/mrowtown/cali-votes/internal/infrastructure/s3"
	transporthttp "github.com/mrowtown/cali-votes/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Profile store backing: in-memory for a single instance, DynamoDB
	// (with table bootstrap) when state must survive restarts.
	var kv profilestore.KV
	switch cfg.ProfileStore {
	case "dynamo":
		client := profilestore.NewDynamoClient(cfg)
		if err := profilestore.Bootstrap(context.Background(), client, cfg.DynamoTableProfiles); err != nil {
			log.Fatalf("dynamo bootstrap: %v", err)
		}
		ttl := time.Duration(cfg.ProfileTTLDays) * 24 * time.Hour
		kv = profilestore.NewDynamoKV(client, cfg.DynamoTableProfiles, ttl)
	default:
		kv = profilestore.NewMemoryKV()
	}

	deps := &transporthttp.Deps{
		Remote:   remote.NewClient(cfg),
		Profiles: profilestore.New(kv),
	}

	// Screenshot archive (optional — disabled without a bucket).
	if cfg.S3BucketName != "" {
		deps.Archive = s3infra.NewArchive(s3infra.NewClient(cfg), cfg.S3BucketName)
	}

	// Profile cookie signer (optional — graceful fallback if keys are missing).
	if provider, err := cookie.NewProvider(cfg); err == nil {
		deps.Cookies = provider
	} else {
		log.Printf("WARN: cookie signer not available, using unsigned profile cookies: %v", err)
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
