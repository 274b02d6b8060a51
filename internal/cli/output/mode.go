// Package output renders CLI results for terminals, agents and scripts.
//
// Output adapts to the environment: a terminal gets styled text, anything
// else gets markdown unless a structured format is requested.
package output

import "strings"

// OutputMode selects how results are rendered.
type OutputMode string //nolint:revive

// Output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
	ModeYAML     OutputMode = "yaml"
)

// Mode parses a configured output format. Unknown or empty values mean auto.
func Mode(s string) OutputMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return ModeText
	case "markdown", "md":
		return ModeMarkdown
	case "json":
		return ModeJSON
	case "yaml", "yml":
		return ModeYAML
	default:
		return ModeAuto
	}
}

// Structured reports whether the mode emits machine-readable data.
func (m OutputMode) Structured() bool {
	return m == ModeJSON || m == ModeYAML
}
