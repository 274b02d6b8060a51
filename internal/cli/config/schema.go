package config

import (
	"reflect"
	"time"

	"github.com/invopop/jsonschema"
)

// durationPattern matches what time.ParseDuration accepts, plus a bare 0.
const durationPattern = `^(0|(\d+(\.\d+)?(ns|us|µs|ms|s|m|h))+)$`

// Schema returns the JSON Schema of grantview.yaml. Editors use it for
// completion and validation of the config file.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		FieldNameTag:               "koanf",
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
		ExpandedStruct:             true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(time.Duration(0)) {
				return &jsonschema.Schema{Type: "string", Pattern: durationPattern}
			}
			return nil
		},
	}
	s := r.Reflect(&Config{})
	s.Title = "grantview configuration"
	return s
}

// Redacted is the effective configuration as a nested map keyed like the
// config file, with the session secret masked.
func (c *Config) Redacted() map[string]any {
	secret := ""
	if c.UI.SessionSecret != "" {
		secret = "********"
	}
	return map[string]any{
		"api": map[string]any{
			"url":     c.API.URL,
			"timeout": c.API.Timeout.String(),
		},
		"output":    c.OutputFormat,
		"verbose":   c.Verbose,
		"log_level": c.LogLevel,
		"ui": map[string]any{
			"port":           c.UI.Port,
			"auto_open":      c.UI.AutoOpen,
			"session_secret": secret,
			"poll_interval":  c.UI.PollInterval.String(),
		},
	}
}
