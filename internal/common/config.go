// Package common provides shared utilities for copyforge
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultJWTSecret is the development-only signing secret. Production
// startup refuses to run with this value.
const DefaultJWTSecret = "dev-jwt-secret-change-in-production"

// Config holds all configuration for copyforge
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
	Auth        AuthConfig    `toml:"auth"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	StaticDir      string   `toml:"static_dir"`      // login form assets served under /static/
	AllowedOrigins []string `toml:"allowed_origins"` // CORS; empty means "*"
}

// StorageConfig holds storage configuration.
// Backend "memory" keeps credential and code tables in-process (the default);
// backend "surrealdb" persists them. Generated texts are always flat files
// under TextsPath, one directory per user.
type StorageConfig struct {
	Backend   string `toml:"backend"`
	TextsPath string `toml:"texts_path"`
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Gemini GeminiConfig `toml:"gemini"`
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	RateLimit int    `toml:"rate_limit"`
}

// AuthConfig holds authentication configuration for the token codec,
// the OAuth2 code flow, and the static user/client tables.
type AuthConfig struct {
	JWTSecret   string       `toml:"jwt_secret"`
	TokenExpiry string       `toml:"token_expiry"` // duration string, default "30m"
	CodeExpiry  string       `toml:"code_expiry"`  // duration string, default "5m"
	Users       []UserSeed   `toml:"users"`
	Clients     []ClientSeed `toml:"clients"`
}

// UserSeed is a static user record loaded at startup. Password accepts
// either a bcrypt hash ($2...) or plaintext, which is hashed at load.
type UserSeed struct {
	Username string `toml:"username"`
	Email    string `toml:"email"`
	Password string `toml:"password"`
	Disabled bool   `toml:"disabled"`
}

// ClientSeed is a static OAuth client record loaded at startup.
// ClientSecret accepts the same hash-or-plaintext forms as UserSeed.Password.
type ClientSeed struct {
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	ClientName   string   `toml:"client_name"`
	RedirectURIs []string `toml:"redirect_uris"`
}

// GetTokenExpiry parses and returns the access token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}

// GetCodeExpiry parses and returns the authorization code expiry duration.
func (c *AuthConfig) GetCodeExpiry() time.Duration {
	d, err := time.ParseDuration(c.CodeExpiry)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string `toml:"level"`
	Format   string `toml:"format"`
	FilePath string `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8000,
			StaticDir: "frontend",
		},
		Storage: StorageConfig{
			Backend:   "memory",
			TextsPath: "data/texts",
			Namespace: "copyforge",
			Database:  "copyforge",
		},
		Clients: ClientsConfig{
			Gemini: GeminiConfig{
				Model:     "gemini-2.0-flash",
				RateLimit: 2,
			},
		},
		Auth: AuthConfig{
			JWTSecret:   DefaultJWTSecret,
			TokenExpiry: "30m",
			CodeExpiry:  "5m",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validateAuth(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("COPYFORGE_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("COPYFORGE_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("COPYFORGE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("COPYFORGE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("COPYFORGE_TEXTS_PATH"); path != "" {
		config.Storage.TextsPath = path
	}

	if backend := os.Getenv("COPYFORGE_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = backend
	}

	if addr := os.Getenv("COPYFORGE_STORAGE_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}

	if v := os.Getenv("COPYFORGE_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("COPYFORGE_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}
	if v := os.Getenv("COPYFORGE_AUTH_CODE_EXPIRY"); v != "" {
		config.Auth.CodeExpiry = v
	}

	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		config.Clients.Gemini.APIKey = v
	}
	if v := os.Getenv("COPYFORGE_GEMINI_API_KEY"); v != "" {
		config.Clients.Gemini.APIKey = v
	}
}

// validateAuth enforces the signing-secret contract: the baked-in dev
// secret is never acceptable in production.
func validateAuth(config *Config) error {
	if config.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret must not be empty")
	}
	if config.IsProduction() && config.Auth.JWTSecret == DefaultJWTSecret {
		return fmt.Errorf("auth.jwt_secret must be set in production")
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
