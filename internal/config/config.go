package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the relay configuration.
const (
	DefaultHTTPPort         = 8080
	DefaultWebhookURLEnv    = "TEAMS_WEBHOOK_URL"
	DefaultWebhookTimeout   = 10 * time.Second
	DefaultHistoryCapacity  = 200
	DefaultHistoryRetention = 24 * time.Hour
)

// Config holds the relay configuration parsed from the `server:` section
// of config.yaml.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all relay settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API and WebSocket stream listen on
	// (default 8080).
	HTTPPort int `yaml:"http_port"`

	// Webhook controls delivery to the Teams incoming webhook.
	Webhook WebhookConfig `yaml:"webhook"`

	// Auth configures how the relay authenticates incoming API clients.
	Auth AuthConfig `yaml:"auth"`

	// History controls in-memory retention of processing records.
	History HistoryConfig `yaml:"history"`
}

// WebhookConfig controls card delivery.
type WebhookConfig struct {
	// URLEnv is the name of the environment variable that holds the
	// webhook URL. The URL itself never appears in the config file.
	// Default: TEAMS_WEBHOOK_URL.
	URLEnv string `yaml:"url_env"`

	// Timeout bounds one delivery attempt end to end. Default: 10s.
	Timeout time.Duration `yaml:"timeout"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// AuthConfig controls client authentication on the API.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable that holds the
	// expected API key. Used when Mode == "apikey".
	KeyEnv string `yaml:"key_env"`

	// Header is the HTTP header name to read the key from.
	// Defaults to "x-api-key" if empty.
	Header string `yaml:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default
// "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "x-api-key"
}

// HistoryConfig controls in-memory retention of processing records.
type HistoryConfig struct {
	// Capacity is the maximum number of records held (default 200).
	Capacity int `yaml:"capacity"`

	// Retention is how long a record remains queryable (default 24h).
	Retention time.Duration `yaml:"retention"`
}

// Load reads and parses the config file at path. An empty path skips the
// file and returns the defaults; the webhook URL always comes from the
// environment, so running without a config file is supported.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			Webhook: WebhookConfig{
				URLEnv:  DefaultWebhookURLEnv,
				Timeout: DefaultWebhookTimeout,
			},
			History: HistoryConfig{
				Capacity:  DefaultHistoryCapacity,
				Retention: DefaultHistoryRetention,
			},
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	if cfg.Server.Webhook.Timeout <= 0 {
		return fmt.Errorf("server.webhook.timeout must be positive")
	}
	switch cfg.Server.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("server.auth.mode %q unknown: want apikey|none", cfg.Server.Auth.Mode)
	}
	if cfg.Server.History.Capacity < 1 {
		return fmt.Errorf("server.history.capacity must be at least 1")
	}
	if cfg.Server.History.Retention <= 0 {
		return fmt.Errorf("server.history.retention must be positive")
	}
	return nil
}
