package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuffered(mode OutputMode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want OutputMode
	}{
		{"", ModeAuto},
		{"auto", ModeAuto},
		{"TEXT", ModeText},
		{"md", ModeMarkdown},
		{"markdown", ModeMarkdown},
		{"json", ModeJSON},
		{"yml", ModeYAML},
		{"xml", ModeAuto},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Mode(tt.in))
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{"auto on terminal", ModeAuto, true, ModeText},
		{"auto piped", ModeAuto, false, ModeMarkdown},
		{"explicit text piped", ModeText, false, ModeText},
		{"json on terminal", ModeJSON, true, ModeJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newBuffered(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestNewRenderer_BufferIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestHeader(t *testing.T) {
	r, out, _ := newBuffered(ModeMarkdown, false)
	r.Header(2, "Grants")
	assert.Equal(t, "## Grants\n\n", out.String())

	r, out, _ = newBuffered(ModeText, false)
	r.Header(1, "Grants")
	assert.Contains(t, out.String(), "Grants")
	assert.NotContains(t, out.String(), "#")
}

func TestStatusLine(t *testing.T) {
	r, out, _ := newBuffered(ModeMarkdown, false)
	r.StatusLine("service", "success", "healthy")
	assert.Equal(t, "- [success] service: healthy\n", out.String())

	r, out, _ = newBuffered(ModeText, false)
	r.StatusLine("service", "error", "down")
	assert.Contains(t, out.String(), "✗ service")
	assert.Contains(t, out.String(), "down")
}

func TestWarningAndErrorGoToErrWriter(t *testing.T) {
	r, out, errOut := newBuffered(ModeMarkdown, false)
	r.Warning("stale")
	r.Error("boom")
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "**Warning:** stale")
	assert.Contains(t, errOut.String(), "**Error:** boom")
}

func TestTags(t *testing.T) {
	r, _, _ := newBuffered(ModeMarkdown, false)
	assert.Equal(t, "`rural`, `water`", r.Tags([]string{"rural", "water"}))
	assert.Equal(t, "_none_", r.Tags(nil))

	r, _, _ = newBuffered(ModeText, false)
	got := r.Tags([]string{"rural", "water"})
	assert.Contains(t, got, "rural")
	assert.Contains(t, got, "water")
}

func TestTable(t *testing.T) {
	r, out, _ := newBuffered(ModeText, false)
	r.Table([]string{"Name", "Tags"}, [][]string{{"Rural Water", "water, rural"}})

	body := out.String()
	assert.Contains(t, body, "NAME")
	assert.Contains(t, body, "Rural Water")
	assert.Contains(t, body, "┌")
}

func TestMarkdownTable(t *testing.T) {
	r, out, _ := newBuffered(ModeMarkdown, false)
	r.MarkdownTable([]string{"Name", "Description"}, [][]string{{"A", "line one\nline two"}})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3, "header, separator and one row")
	assert.Contains(t, lines[2], "line one line two")
}

func TestStructured(t *testing.T) {
	v := map[string]any{"grants": []string{"A"}}

	r, out, _ := newBuffered(ModeJSON, false)
	ok, err := r.Structured(v)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"grants":["A"]}`, out.String())

	r, out, _ = newBuffered(ModeYAML, false)
	ok, err = r.Structured(v)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "grants:\n  - A\n", out.String())

	r, out, _ = newBuffered(ModeText, false)
	ok, err = r.Structured(v)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "- **Status:** healthy", FormatKeyValue("Status", "healthy"))
	assert.Equal(t, "```json\n{}\n```", FormatCodeBlock("json", "{}\n"))
	assert.Equal(t, "a b c", OneLine(" a\n b\tc "))
}

func TestTextOutputHasNoANSIWhenPiped(t *testing.T) {
	r, out, _ := newBuffered(ModeText, false)
	r.Header(1, "Grants")
	r.Success("done")
	r.Println(r.Tags([]string{"water"}))
	assert.NotContains(t, out.String(), "\x1b[")
}
