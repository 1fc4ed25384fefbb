// Package config loads server settings.
//
// Values are layered: built-in defaults, then the TOML file named by
// CONNECT_CONFIG, then a .env file, then CONNECT_* environment variables.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// EnvProduction turns on secure cookies and mandatory secrets.
const EnvProduction = "production"

// MinSecretLength is the shortest JWT secret accepted in production.
const MinSecretLength = 32

var (
	ErrMissingSecret = errors.New("jwt secret is required in production")
	ErrShortSecret   = fmt.Errorf("jwt secret must be at least %d characters", MinSecretLength)
	ErrBadCSRFKey    = errors.New("csrf key must be 64 hex characters")
	ErrLogFormat     = errors.New("log format must be text or json")
)

type Config struct {
	Env      string         `toml:"env"`
	Seed     bool           `toml:"seed"`
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Email    EmailConfig    `toml:"email"`
	GenAI    GenAIConfig    `toml:"genai"`
}

type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    LogFormat  `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type ServerConfig struct {
	Addr           string        `toml:"addr"`
	PublicURL      string        `toml:"public_url"`
	AllowedOrigins []string      `toml:"allowed_origins"`
	CSRFKey        string        `toml:"csrf_key"`
	RatePerSecond  float64       `toml:"rate_per_second"`
	RateBurst      int           `toml:"rate_burst"`
	SlowRequest    time.Duration `toml:"slow_request"`
}

type DatabaseConfig struct {
	Path      string        `toml:"path"`
	SlowQuery time.Duration `toml:"slow_query"`
}

type AuthConfig struct {
	JWTSecret string        `toml:"jwt_secret"`
	AccessTTL time.Duration `toml:"access_ttl"`
}

type EmailConfig struct {
	ResendKey string `toml:"resend_key"`
	From      string `toml:"from"`
}

type GenAIConfig struct {
	APIKey    string        `toml:"api_key"`
	PerMinute int           `toml:"per_minute"`
	Timeout   time.Duration `toml:"timeout"`
}

// Default returns the development defaults.
func Default() Config {
	return Config{
		Env:  "development",
		Seed: true,
		Log: LogConfig{
			Level:  slog.LevelInfo,
			Format: LogFormatText,
		},
		Server: ServerConfig{
			Addr:          ":8080",
			PublicURL:     "http://localhost:8080",
			RatePerSecond: 10,
			RateBurst:     30,
			SlowRequest:   500 * time.Millisecond,
		},
		Database: DatabaseConfig{
			Path:      "connect.db",
			SlowQuery: 50 * time.Millisecond,
		},
		Auth: AuthConfig{
			AccessTTL: 24 * time.Hour,
		},
		Email: EmailConfig{
			From: "Connect <noreply@connect.local>",
		},
		GenAI: GenAIConfig{
			PerMinute: 30,
			Timeout:   10 * time.Second,
		},
	}
}

// IsProduction reports whether the server runs with production guarantees.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads configuration from the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	return LoadFrom(os.Getenv("CONNECT_CONFIG"), os.LookupEnv)
}

// LoadFrom layers the TOML file at path (skipped when empty) and the
// variables visible through lookup over the defaults, then validates.
// A missing development JWT secret is replaced by a random one.
func LoadFrom(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode config file: %w", err)
		}
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	if cfg.Auth.JWTSecret == "" {
		secret, err := randomHex(MinSecretLength)
		if err != nil {
			return Config{}, err
		}
		cfg.Auth.JWTSecret = secret
		slog.Warn("config_generated_jwt_secret", "reason", "CONNECT_JWT_SECRET not set; sessions reset on restart")
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("CONNECT_ENV", &c.Env)
	str("CONNECT_ADDR", &c.Server.Addr)
	str("CONNECT_PUBLIC_URL", &c.Server.PublicURL)
	str("CONNECT_CSRF_KEY", &c.Server.CSRFKey)
	str("CONNECT_DB_PATH", &c.Database.Path)
	str("CONNECT_JWT_SECRET", &c.Auth.JWTSecret)
	str("CONNECT_RESEND_KEY", &c.Email.ResendKey)
	str("CONNECT_EMAIL_FROM", &c.Email.From)
	str("CONNECT_GEMINI_KEY", &c.GenAI.APIKey)

	if v, ok := lookup("CONNECT_ALLOWED_ORIGINS"); ok && v != "" {
		c.Server.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.Server.AllowedOrigins = append(c.Server.AllowedOrigins, o)
			}
		}
	}
	if v, ok := lookup("CONNECT_ACCESS_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CONNECT_ACCESS_TTL: %w", err)
		}
		c.Auth.AccessTTL = d
	}
	if v, ok := lookup("CONNECT_SEED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid CONNECT_SEED: %w", err)
		}
		c.Seed = b
	}
	if v, ok := lookup("CONNECT_LOG_LEVEL"); ok && v != "" {
		if err := c.Log.Level.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid CONNECT_LOG_LEVEL: %w", err)
		}
	}
	if v, ok := lookup("CONNECT_LOG_FORMAT"); ok && v != "" {
		c.Log.Format = LogFormat(v)
	}
	return nil
}

// Validate checks settings that cannot be defaulted.
func (c Config) Validate() error {
	if c.IsProduction() {
		if c.Auth.JWTSecret == "" {
			return ErrMissingSecret
		}
		if len(c.Auth.JWTSecret) < MinSecretLength {
			return ErrShortSecret
		}
	}
	if c.Server.CSRFKey != "" {
		if _, err := c.CSRFKeyBytes(); err != nil {
			return err
		}
	}
	if c.Log.Format != LogFormatText && c.Log.Format != LogFormatJSON {
		return ErrLogFormat
	}
	return nil
}

// CSRFKeyBytes decodes the configured CSRF key. It returns nil, nil when unset.
func (c Config) CSRFKeyBytes() ([]byte, error) {
	if c.Server.CSRFKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.Server.CSRFKey)
	if err != nil || len(key) != 32 {
		return nil, ErrBadCSRFKey
	}
	return key, nil
}

// NewLogger builds the process logger described by c.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level, AddSource: c.AddSource}
	if c.Format == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
