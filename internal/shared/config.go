package shared

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/stride/internal/models"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values from the config file.
const (
	EnvClientID     = "STRAVA_CLIENT_ID"
	EnvClientSecret = "STRAVA_CLIENT_SECRET"
	EnvRefreshToken = "STRAVA_REFRESH_TOKEN"
	EnvPort         = "STRIDE_PORT"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Strava      StravaConfig      `toml:"strava"`
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Strava StravaCredentials `toml:"strava"`
}

// StravaCredentials contains the Strava API application credentials and the athlete's refresh token.
type StravaCredentials struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RefreshToken string `toml:"refresh_token"`
	RedirectURI  string `toml:"redirect_uri"`
}

// Credentials converts the configured values to [models.Credentials].
func (s StravaCredentials) Credentials() models.Credentials {
	return models.Credentials{
		ClientID:     s.ClientID,
		ClientSecret: s.ClientSecret,
		RefreshToken: s.RefreshToken,
	}
}

// StravaConfig contains API endpoints and client behavior.
type StravaConfig struct {
	BaseURL            string  `toml:"base_url"`
	TokenURL           string  `toml:"token_url"`
	AuthURL            string  `toml:"auth_url"`
	PerPage            int     `toml:"per_page"`
	Limit              int     `toml:"limit"`
	TimeoutSeconds     int     `toml:"timeout_seconds"`
	RateLimit          float64 `toml:"rate_limit"`
	SkipMalformedDates bool    `toml:"skip_malformed_dates"`
}

// Timeout returns the HTTP client timeout, defaulting to 10 seconds.
func (s StravaConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	CSRFHashKey  string `toml:"csrf_hash_key"`
	CSRFBlockKey string `toml:"csrf_block_key"`
}

// Addr returns the host:port pair to listen on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig writes config to path as TOML, replacing any existing file.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ResolveConfig loads the config at path when it exists, falls back to defaults otherwise,
// then applies overrides from a .env file and the process environment.
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if config, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: failed to load .env: %v", ErrInvalidConfig, err)
	}

	if err := config.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides credentials and the server port from environment lookups.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvClientID); v != "" {
		c.Credentials.Strava.ClientID = v
	}
	if v := getenv(EnvClientSecret); v != "" {
		c.Credentials.Strava.ClientSecret = v
	}
	if v := getenv(EnvRefreshToken); v != "" {
		c.Credentials.Strava.RefreshToken = v
	}
	if v := getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a port", ErrInvalidConfig, EnvPort, v)
		}
		c.Server.Port = port
	}
	return nil
}

// Validate reports missing Strava credentials.
//
// The refresh token is only optional when requireRefresh is false, as during `auth login`.
func (c *Config) Validate(requireRefresh bool) error {
	s := c.Credentials.Strava
	if s.ClientID == "" || s.ClientSecret == "" {
		return fmt.Errorf("%w: %s and %s must be set", ErrMissingCredentials, EnvClientID, EnvClientSecret)
	}
	if requireRefresh && s.RefreshToken == "" {
		return fmt.Errorf("%w: %s must be set (run `stride auth login`)", ErrMissingCredentials, EnvRefreshToken)
	}
	return nil
}
