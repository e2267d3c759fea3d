package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds all externally supplied configuration for the server.
type Config struct {
	ServerAddress string `env:"SERVER_ADDRESS" envDefault:":4000"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"uptask"`

	// FrontendURL is both the allowed CORS origin and the base of the
	// links embedded in confirmation and password-reset emails.
	FrontendURL string `env:"FRONTEND_URL"`

	JWTSecret        string        `env:"JWT_SECRET"`
	JWTIssuer        string        `env:"JWT_ISSUER"        envDefault:"uptask"`
	SessionExpiresIn time.Duration `env:"SESSION_EXPIRES_IN" envDefault:"720h"`
	TokenExpiresIn   time.Duration `env:"TOKEN_EXPIRES_IN"   envDefault:"10m"`

	UploadsDir string `env:"UPLOADS_DIR" envDefault:"uploads"`
}

// New creates a Config instance from environment variables.
func New(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// validate checks that the configuration without a usable default is set.
func (c *Config) validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.FrontendURL == "" {
		return fmt.Errorf("missing FRONTEND_URL environment variable")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("missing JWT_SECRET environment variable")
	}

	return nil
}
