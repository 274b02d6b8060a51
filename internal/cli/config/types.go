// Package config provides configuration management for the grantview CLI.
package config

import "time"

// Defaults applied before any config file, env var or flag is read.
const (
	DefaultAPIURL   = "http://localhost:5000"
	DefaultOutput   = "auto"
	DefaultLogLevel = "warn"
	DefaultUIPort   = 8765
	// DefaultSessionSecret signs UI session cookies when none is configured.
	DefaultSessionSecret = "grantview-dev-secret-change-in-production" //nolint:gosec
)

// APIConfig describes the grants service.
type APIConfig struct {
	URL string `koanf:"url" validate:"required,http_url" jsonschema:"description=Grants service base URL"`
	// Timeout bounds each request; zero leaves the transport default.
	Timeout time.Duration `koanf:"timeout" validate:"gte=0" jsonschema:"description=Per-request timeout such as 10s; 0 for none"`
}

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port          int           `koanf:"port" validate:"gte=0,lte=65535" jsonschema:"minimum=0,maximum=65535"`
	AutoOpen      bool          `koanf:"auto_open" jsonschema:"description=Open a browser when the UI starts"`
	SessionSecret string        `koanf:"session_secret" validate:"required" jsonschema:"description=Key signing UI session cookies"`
	PollInterval  time.Duration `koanf:"poll_interval" validate:"gte=0" jsonschema:"description=Refresh interval such as 30s; 0 disables"`
}

// Config holds all CLI configuration options.
type Config struct {
	API          APIConfig `koanf:"api"`
	OutputFormat string    `koanf:"output" validate:"oneof=auto text markdown json yaml" jsonschema:"enum=auto,enum=text,enum=markdown,enum=json,enum=yaml"`
	Verbose      bool      `koanf:"verbose"`
	LogLevel     string    `koanf:"log_level" validate:"oneof=debug info warn error" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	UI           UIConfig  `koanf:"ui"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		API:          APIConfig{URL: DefaultAPIURL},
		OutputFormat: DefaultOutput,
		LogLevel:     DefaultLogLevel,
		UI: UIConfig{
			Port:          DefaultUIPort,
			AutoOpen:      true,
			SessionSecret: DefaultSessionSecret,
		},
	}
}
