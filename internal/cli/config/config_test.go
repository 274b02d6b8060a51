package config

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grantview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("api-url", "", "grants service URL")
	flags.String("output", "", "output format")
	flags.String("log-level", "", "log level")
	flags.Bool("verbose", false, "verbose")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.API.URL)
	assert.Zero(t, cfg.API.Timeout)
	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, DefaultUIPort, cfg.UI.Port)
	assert.True(t, cfg.UI.AutoOpen)
	assert.NotEmpty(t, cfg.UI.SessionSecret)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()

	path := writeConfig(t, `api:
  url: https://grants.example.org
  timeout: 10s
output: json
ui:
  port: 9000
  auto_open: false
  poll_interval: 30s
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://grants.example.org", cfg.API.URL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 9000, cfg.UI.Port)
	assert.False(t, cfg.UI.AutoOpen)
	assert.Equal(t, 30*time.Second, cfg.UI.PollInterval)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoadConfig_FindsFileInWorkingDir(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "grantview.yml"), []byte("output: yaml\n"), 0600))
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.OutputFormat)
	assert.Equal(t, "grantview.yml", GetConfigFileUsed())
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	ResetConfig()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

// TestLoadConfig_FlagPrecedence tests that flags override env vars and config file.
func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()

	path := writeConfig(t, "api:\n  url: http://from-file:5000\n")
	t.Setenv("GRANTVIEW_API_URL", "http://from-env:5000")

	flags := testFlags()
	require.NoError(t, flags.Set("api-url", "http://from-flag:5000"))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "http://from-flag:5000", cfg.API.URL, "flag value should override config file and env var")
}

// TestLoadConfig_EnvPrecedenceOverFile tests that env vars override config file.
func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()

	path := writeConfig(t, "api:\n  url: http://from-file:5000\nui:\n  poll_interval: 1m\n")
	t.Setenv("GRANTVIEW_API_URL", "http://from-env:5000")
	t.Setenv("GRANTVIEW_UI_POLL_INTERVAL", "5s")
	t.Setenv("GRANTVIEW_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:5000", cfg.API.URL)
	assert.Equal(t, 5*time.Second, cfg.UI.PollInterval)
	assert.Equal(t, "debug", cfg.LogLevel, "top-level snake_case keys are not nested")
}

// TestLoadConfig_FlagNotSetUsesEnv tests that unset flags fall back to env vars.
func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("GRANTVIEW_OUTPUT", "markdown")

	cfg, err := LoadConfig("", testFlags())
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.OutputFormat, "env var should be used when flag is not set")
	assert.Equal(t, DefaultAPIURL, cfg.API.URL, "unset flag keeps the default")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "relative url", mutate: func(c *Config) { c.API.URL = "/api" }, errSubstr: "api.url"},
		{name: "ftp url", mutate: func(c *Config) { c.API.URL = "ftp://host" }, errSubstr: "api.url"},
		{name: "negative timeout", mutate: func(c *Config) { c.API.Timeout = -time.Second }, errSubstr: "api.timeout"},
		{name: "unknown output", mutate: func(c *Config) { c.OutputFormat = "xml" }, errSubstr: "output must be one of"},
		{name: "output is case insensitive", mutate: func(c *Config) { c.OutputFormat = "JSON" }},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "trace" }, errSubstr: "log_level"},
		{name: "port out of range", mutate: func(c *Config) { c.UI.Port = 70000 }, errSubstr: "ui.port"},
		{name: "negative poll", mutate: func(c *Config) { c.UI.PollInterval = -time.Second }, errSubstr: "ui.poll_interval"},
		{name: "empty session secret", mutate: func(c *Config) { c.UI.SessionSecret = "" }, errSubstr: "ui.session_secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoadConfig_InvalidValueFails(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("GRANTVIEW_OUTPUT", "xml")

	_, err := LoadConfig("", nil)
	require.Error(t, err)
	assert.Nil(t, GetCurrentConfig())
}

func TestKeyFor(t *testing.T) {
	tests := map[string]string{
		"api_url":           "api.url",
		"api_timeout":       "api.timeout",
		"ui_session_secret": "ui.session_secret",
		"log_level":         "log_level",
		"verbose":           "verbose",
	}
	for in, want := range tests {
		assert.Equal(t, want, keyFor(in), in)
	}
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()), "falls back to a discard logger")

	logger := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func TestNewLogger_Level(t *testing.T) {
	cfg := Default()
	logger := NewLogger(cfg, os.Stderr)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))

	cfg.Verbose = true
	logger = NewLogger(cfg, os.Stderr)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestLoadConfig_EnvStringsAreDecoded(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("GRANTVIEW_UI_PORT", "9000")
	t.Setenv("GRANTVIEW_UI_POLL_INTERVAL", "30s")
	t.Setenv("GRANTVIEW_UI_AUTO_OPEN", "false")
	t.Setenv("GRANTVIEW_API_TIMEOUT", "1m30s")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.UI.Port)
	assert.Equal(t, 30*time.Second, cfg.UI.PollInterval)
	assert.False(t, cfg.UI.AutoOpen)
	assert.Equal(t, 90*time.Second, cfg.API.Timeout)
}

func TestLoadConfig_EmptySessionSecretFails(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("GRANTVIEW_UI_SESSION_SECRET", "")

	_, err := LoadConfig("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ui.session_secret must not be empty")
}

func TestLoadConfig_UndecodableValueFails(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("GRANTVIEW_UI_POLL_INTERVAL", "soon")

	_, err := LoadConfig("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to decode config")
}

func TestConfig_ValidateMessages(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "empty url", mutate: func(c *Config) { c.API.URL = "" }, want: `api.url must be an http or https URL, got ""`},
		{name: "output", mutate: func(c *Config) { c.OutputFormat = "xml" }, want: `output must be one of auto, text, markdown, json, yaml, got "xml"`},
		{name: "negative port", mutate: func(c *Config) { c.UI.Port = -1 }, want: "ui.port must not be negative"},
		{name: "port too large", mutate: func(c *Config) { c.UI.Port = 70000 }, want: "ui.port out of range: 70000"},
		{name: "empty session secret", mutate: func(c *Config) { c.UI.SessionSecret = "" }, want: "ui.session_secret must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestSchema(t *testing.T) {
	data, err := json.Marshal(Schema())
	require.NoError(t, err)

	var got struct {
		Title      string `json:"title"`
		Properties map[string]struct {
			Enum       []string `json:"enum"`
			Properties map[string]struct {
				Type    string `json:"type"`
				Pattern string `json:"pattern"`
			} `json:"properties"`
		} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "grantview configuration", got.Title)
	assert.ElementsMatch(t, []string{"api", "output", "verbose", "log_level", "ui"}, keys(got.Properties))
	assert.Equal(t, []string{"auto", "text", "markdown", "json", "yaml"}, got.Properties["output"].Enum)

	poll := got.Properties["ui"].Properties["poll_interval"]
	assert.Equal(t, "string", poll.Type)
	assert.Regexp(t, poll.Pattern, "30s")
	assert.Regexp(t, poll.Pattern, "1h30m")
	assert.NotRegexp(t, poll.Pattern, "soon")
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.UI.PollInterval = 30 * time.Second

	m := cfg.Redacted()
	ui := m["ui"].(map[string]any)
	assert.Equal(t, "********", ui["session_secret"])
	assert.Equal(t, "30s", ui["poll_interval"])
	assert.Equal(t, DefaultAPIURL, m["api"].(map[string]any)["url"])

	cfg.UI.SessionSecret = ""
	assert.Empty(t, cfg.Redacted()["ui"].(map[string]any)["session_secret"])
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
