package config

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultGatewayURL     = "wss://gateway.discord.gg/?v=9&encoding=json"
	DefaultTokenEnv       = "DISCORD_TOKEN"
	DefaultServerEndpoint = "http://127.0.0.1:5000/receive"
)

// Config holds the collector-side configuration parsed from the
// `collector:` section of config.yaml. A `server:` key in the same file is
// ignored.
type Config struct {
	Collector CollectorConfig `yaml:"collector"`
}

// CollectorConfig holds all collector-side settings.
type CollectorConfig struct {
	// GatewayURL is the WebSocket endpoint of the real-time message
	// gateway, including version/encoding query parameters.
	GatewayURL string `yaml:"gateway_url"`

	// TokenEnv is the name of the environment variable that holds the
	// gateway authentication token. Default: DISCORD_TOKEN.
	TokenEnv string `yaml:"token_env"`

	// ChannelID is the only channel whose messages are parsed. Required.
	ChannelID string `yaml:"channel_id"`

	// ServerEndpoint is the full URL of the server's ingest endpoint.
	ServerEndpoint string `yaml:"server_endpoint"`

	// ServerAuth configures how the collector authenticates to the ingest
	// endpoint. Modes: apikey | none.
	ServerAuth AuthConfig `yaml:"server_auth"`

	// MetricsPort, when non-zero, exposes the collector's own Prometheus
	// metrics on this port.
	MetricsPort int `yaml:"metrics_port"`
}

// Token returns the gateway token resolved from the environment.
func (c CollectorConfig) Token() string {
	if c.TokenEnv == "" {
		return ""
	}
	return os.Getenv(c.TokenEnv)
}

// AuthConfig specifies how the collector authenticates to the server.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// Header is the HTTP header name to send the key in.
	// Defaults to "x-api-key" if empty.
	Header string `yaml:"header"`

	// KeyEnv is the name of the environment variable that holds the key.
	KeyEnv string `yaml:"key_env"`
}

// Key returns the API key value resolved from the environment.
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

// Load reads and parses the config file at path, returning the collector
// configuration. Missing fields are filled with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("collector config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("collector config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("collector config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Collector: CollectorConfig{
			GatewayURL:     DefaultGatewayURL,
			TokenEnv:       DefaultTokenEnv,
			ServerEndpoint: DefaultServerEndpoint,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Collector.ChannelID == "" {
		return fmt.Errorf("collector.channel_id is required")
	}
	u, err := url.Parse(cfg.Collector.GatewayURL)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
		return fmt.Errorf("collector.gateway_url %q is not a ws/wss URL", cfg.Collector.GatewayURL)
	}
	if _, err := url.Parse(cfg.Collector.ServerEndpoint); err != nil {
		return fmt.Errorf("collector.server_endpoint %q: %w", cfg.Collector.ServerEndpoint, err)
	}
	if cfg.Collector.MetricsPort < 0 || cfg.Collector.MetricsPort > 65535 {
		return fmt.Errorf("collector.metrics_port %d is out of range [0, 65535]", cfg.Collector.MetricsPort)
	}
	switch cfg.Collector.ServerAuth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("collector.server_auth.mode %q unknown: want apikey|none", cfg.Collector.ServerAuth.Mode)
	}
	return nil
}
