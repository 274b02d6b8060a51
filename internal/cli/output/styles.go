package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used for text output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Tag     lipgloss.Style
	Key     lipgloss.Style
}

// NewStyles builds styles bound to re, so color is only emitted when the
// renderer's output supports it.
func NewStyles(re *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1: re.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Underline(true),
		Header2: re.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:    re.NewStyle().Bold(true),
		Muted:   re.NewStyle().Foreground(lipgloss.Color("8")),
		Success: re.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: re.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   re.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Info:    re.NewStyle().Foreground(lipgloss.Color("12")),
		Tag:     re.NewStyle().Foreground(lipgloss.Color("4")).Background(lipgloss.Color("153")).Padding(0, 1),
		Key:     re.NewStyle().Foreground(lipgloss.Color("8")).Width(14),
	}
}
