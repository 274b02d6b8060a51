package config

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// validate is shared; validator caches struct metadata per instance.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by config key rather than Go name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks if the configuration is valid. Output and log level
// are matched case-insensitively.
func (c *Config) Validate() error {
	n := *c
	n.OutputFormat = strings.ToLower(n.OutputFormat)
	n.LogLevel = strings.ToLower(n.LogLevel)

	err := validate.Struct(&n)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	// Report the first problem, in field order.
	return describe(verrs[0])
}

// describe turns a field error into a message naming the config key.
func describe(fe validator.FieldError) error {
	_, key, _ := strings.Cut(fe.Namespace(), ".")

	switch fe.Tag() {
	case "http_url":
		return fmt.Errorf("%s must be an http or https URL, got %q", key, fe.Value())
	case "required":
		if fe.StructField() == "URL" {
			return fmt.Errorf("%s must be an http or https URL, got %q", key, fe.Value())
		}
		return fmt.Errorf("%s must not be empty", key)
	case "oneof":
		return fmt.Errorf("%s must be one of %s, got %q", key, strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	case "gte":
		if fe.Param() == "0" {
			return fmt.Errorf("%s must not be negative", key)
		}
		return fmt.Errorf("%s out of range: %v", key, fe.Value())
	case "lte":
		return fmt.Errorf("%s out of range: %v", key, fe.Value())
	default:
		return fmt.Errorf("%s is invalid (%s)", key, fe.Tag())
	}
}

// SlogLevel returns the configured log level, warn if unset.
func (c *Config) SlogLevel() slog.Level {
	if l, ok := logLevels[strings.ToLower(c.LogLevel)]; ok {
		return l
	}
	return slog.LevelWarn
}
