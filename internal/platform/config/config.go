package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Server captures process level configuration.
type Server struct {
	Addr             string
	Env              string
	APIBaseURL       string
	SessionFile      string
	JWTSigningKey    string
	TokenTTL         time.Duration
	SimulatedLatency bool
}

const defaultTokenTTL = 15 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present.
func FromEnv() Server {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	addr := os.Getenv("BOOKLINE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	env := os.Getenv("BOOKLINE_ENV")
	if env == "" {
		env = "development"
	}

	// Empty base URL means same-origin; callers treat it as a relative root.
	apiBaseURL := os.Getenv("API_BASE_URL")

	sessionFile := os.Getenv("SESSION_FILE")
	if sessionFile == "" {
		sessionFile = ".bookline_session.json"
	}

	tokenTTL := defaultTokenTTL
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		if duration, err := time.ParseDuration(raw); err == nil {
			tokenTTL = duration
		}
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:             addr,
		Env:              env,
		APIBaseURL:       apiBaseURL,
		SessionFile:      sessionFile,
		JWTSigningKey:    jwtSigningKey,
		TokenTTL:         tokenTTL,
		SimulatedLatency: os.Getenv("DISABLE_SIMULATED_LATENCY") != "true",
	}
}
