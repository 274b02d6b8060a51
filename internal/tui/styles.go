package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#2563eb")
	colorMuted  = lipgloss.Color("#6b7280")
	colorBorder = lipgloss.Color("#e5e7eb")
	colorOK     = lipgloss.Color("#166534")
	colorErr    = lipgloss.Color("#991b1b")
	colorWarn   = lipgloss.Color("#92400e")
)

type styles struct {
	title       lipgloss.Style
	subtitle    lipgloss.Style
	tab         lipgloss.Style
	activeTab   lipgloss.Style
	section     lipgloss.Style
	chip        lipgloss.Style
	chipOn      lipgloss.Style
	chipCursor  lipgloss.Style
	card        lipgloss.Style
	grantName   lipgloss.Style
	muted       lipgloss.Style
	label       lipgloss.Style
	button      lipgloss.Style
	buttonOff   lipgloss.Style
	success     lipgloss.Style
	errorText   lipgloss.Style
	notice      lipgloss.Style
	help        lipgloss.Style
	staticChip  lipgloss.Style
	focusedEdge lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:       lipgloss.NewStyle().Bold(true),
		subtitle:    lipgloss.NewStyle().Foreground(colorMuted),
		tab:         lipgloss.NewStyle().Padding(0, 2).Foreground(colorMuted),
		activeTab:   lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(colorAccent).Underline(true),
		section:     lipgloss.NewStyle().Bold(true).MarginTop(1),
		chip:        lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted),
		chipOn:      lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(colorAccent),
		chipCursor:  lipgloss.NewStyle().Underline(true),
		card:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1),
		grantName:   lipgloss.NewStyle().Bold(true),
		muted:       lipgloss.NewStyle().Foreground(colorMuted),
		label:       lipgloss.NewStyle().Bold(true),
		button:      lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("#ffffff")).Background(colorAccent),
		buttonOff:   lipgloss.NewStyle().Padding(0, 2).Foreground(colorMuted).Background(colorBorder),
		success:     lipgloss.NewStyle().Foreground(colorOK),
		errorText:   lipgloss.NewStyle().Foreground(colorErr),
		notice:      lipgloss.NewStyle().Foreground(colorWarn),
		help:        lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1),
		staticChip:  lipgloss.NewStyle().Foreground(colorAccent),
		focusedEdge: lipgloss.NewStyle().Foreground(colorAccent),
	}
}
