package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	// ExecURL is the remote action-dispatch endpoint. AssetBase hosts the
	// static payment QR images. PublicOrigin is stamped into every outbound
	// action payload; the remote endpoint matches it against its origin
	// allow-list.
	ExecURL      string
	AssetBase    string
	PublicOrigin string

	RemoteTimeout time.Duration

	// VoteGuardRedirect controls the vote page when no session exists:
	// false renders the disabled form with a registration call-to-action,
	// true issues a hard redirect to the register page.
	VoteGuardRedirect bool

	// ProfileStore selects the backing store: "memory" or "dynamo".
	ProfileStore        string
	AWSRegion           string
	AWSEndpointURL      string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID      string
	AWSSecretKey        string
	DynamoTableProfiles string
	ProfileTTLDays      int

	// S3 archive bucket for payment-proof screenshots; empty disables it.
	S3BucketName string

	CookiePrivateKeyPath string
	CookiePublicKeyPath  string
	CookieTTLDays        int

	AllowedOrigins []string // CORS allowed origins
}

// Load reads configuration from environment variables and validates the
// settings that must be present before any request is served.
func Load() (*Config, error) {
	cfg := &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		ExecURL:      getEnv("EXEC_URL", ""),
		AssetBase:    getEnv("ASSET_BASE", ""),
		PublicOrigin: getEnv("PUBLIC_ORIGIN", ""),

		RemoteTimeout: time.Duration(getEnvInt("REMOTE_TIMEOUT_SECONDS", 15)) * time.Second,

		VoteGuardRedirect: getEnv("VOTE_GUARD_REDIRECT", "") == "true",

		ProfileStore:        getEnv("PROFILE_STORE", "memory"),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL:      getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:        getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTableProfiles: getEnv("DYNAMO_TABLE_PROFILES", "profile_state"),
		ProfileTTLDays:      getEnvInt("PROFILE_TTL_DAYS", 30),

		S3BucketName: getEnv("S3_ARCHIVE_BUCKET", ""),

		CookiePrivateKeyPath: getEnv("COOKIE_PRIVATE_KEY_PATH", "./private_key.pem"),
		CookiePublicKeyPath:  getEnv("COOKIE_PUBLIC_KEY_PATH", "./public_key.pem"),
		CookieTTLDays:        getEnvInt("COOKIE_TTL_DAYS", 180),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}

	if err := mustBeHTTPS(cfg.ExecURL, "EXEC_URL"); err != nil {
		return nil, err
	}
	if err := mustBeHTTPS(cfg.AssetBase, "ASSET_BASE"); err != nil {
		return nil, err
	}
	if err := mustBeHTTPS(cfg.PublicOrigin, "PUBLIC_ORIGIN"); err != nil {
		return nil, err
	}
	if cfg.ProfileStore != "memory" && cfg.ProfileStore != "dynamo" {
		return nil, fmt.Errorf("config invalid: PROFILE_STORE must be \"memory\" or \"dynamo\" (got %q)", cfg.ProfileStore)
	}
	return cfg, nil
}

// mustBeHTTPS rejects empty values, leftover "PASTE_" placeholder sentinels,
// and non-https schemes (catches typos like "phttps://").
func mustBeHTTPS(url, name string) error {
	s := strings.TrimSpace(url)
	if s == "" || strings.Contains(s, "PASTE_") {
		return fmt.Errorf("config missing: %s", name)
	}
	if !strings.HasPrefix(s, "https://") {
		short := s
		if len(short) > 12 {
			short = short[:12] + "..."
		}
		return fmt.Errorf("config invalid: %s must start with https:// (got: %s)", name, short)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
