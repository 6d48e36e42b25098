// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	authproviders "github.com/cbodonnell/twentyone/pkg/auth/providers"
	"github.com/cbodonnell/twentyone/pkg/diagnostics"
	"github.com/cbodonnell/twentyone/pkg/game/types"
	"github.com/cbodonnell/twentyone/pkg/state"
)

type Config struct {
	APIPort     int    `env:"TWENTYONE_API_PORT" envDefault:"9090"`
	WSPort      int    `env:"TWENTYONE_WS_PORT" envDefault:"8888"`
	TLSCert     string `env:"TWENTYONE_TLS_CERT_FILE"`
	TLSKey      string `env:"TWENTYONE_TLS_KEY_FILE"`
	DatabaseURL string `env:"TWENTYONE_DATABASE_URL" envDefault:"sqlite://twentyone.db"`
	Migrations  string `env:"TWENTYONE_MIGRATIONS" envDefault:"./migrations/sqlite"`

	AuthorityID   string         `env:"TWENTYONE_AUTHORITY_ID" envDefault:"gm"`
	Ante          int            `env:"TWENTYONE_ANTE" envDefault:"5"`
	GameMode      types.GameMode `env:"TWENTYONE_GAME_MODE" envDefault:"standard"`
	RevealDelay   time.Duration  `env:"TWENTYONE_REVEAL_DELAY" envDefault:"600ms"`
	HistoryCap    int            `env:"TWENTYONE_HISTORY_CAP" envDefault:"100"`
	PrivateLogCap int            `env:"TWENTYONE_PRIVATE_LOG_CAP" envDefault:"50"`
	// DiceSeed fixes the dice sequence; zero seeds from the system
	DiceSeed      int64         `env:"TWENTYONE_DICE_SEED"`
	AuditInterval time.Duration `env:"TWENTYONE_AUDIT_INTERVAL" envDefault:"1m"`

	// RedisAddr enables the redis notifier when set
	RedisAddr string `env:"TWENTYONE_REDIS_ADDR"`

	FirebaseProjectID       string `env:"TWENTYONE_FIREBASE_PROJECT_ID"`
	FirebaseAPIKey          string `env:"TWENTYONE_FIREBASE_API_KEY"`
	FirebaseCredentialsFile string `env:"TWENTYONE_FIREBASE_CREDENTIALS_FILE"`
	// StaticTokens is a list of token=uid pairs for local play
	StaticTokens string `env:"TWENTYONE_STATIC_TOKENS"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the server configuration.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.AuthorityID == "" {
		return fmt.Errorf("authority id is required")
	}
	if c.Ante <= 0 {
		return fmt.Errorf("ante must be positive, got %d", c.Ante)
	}
	if !c.GameMode.Valid() {
		return fmt.Errorf("unknown game mode %q", c.GameMode)
	}
	if c.RevealDelay < 0 {
		return fmt.Errorf("reveal delay must not be negative")
	}
	if c.HistoryCap <= 0 || c.PrivateLogCap <= 0 {
		return fmt.Errorf("history and private log caps must be positive")
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return fmt.Errorf("tls needs both a cert and a key file")
	}
	if c.FirebaseProjectID == "" && c.StaticTokens == "" {
		return fmt.Errorf("either a firebase project or static tokens must be configured")
	}
	if _, err := authproviders.ParseStaticTokens(c.StaticTokens); err != nil {
		return err
	}
	return nil
}

// Limits returns the caps the state store enforces.
func (c *Config) Limits() state.Limits {
	return state.Limits{HistoryCap: c.HistoryCap, PrivateLogCap: c.PrivateLogCap}
}

// DiagnosticLimits returns the caps diagnostics check against.
func (c *Config) DiagnosticLimits() diagnostics.Limits {
	return diagnostics.Limits{HistoryCap: c.HistoryCap, PrivateLogCap: c.PrivateLogCap}
}
