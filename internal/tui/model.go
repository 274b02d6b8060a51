// Package tui provides a Bubble Tea terminal UI for browsing and adding grants.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leapstack-labs/grantview/internal/app"
)

type focus int

const (
	focusName focus = iota
	focusDescription
)

// Model is the Bubble Tea model. All grant state lives in the controller;
// the model only keeps widget state.
type Model struct {
	ctx  context.Context
	ctrl *app.Controller

	width  int
	height int

	// cursor is the index of the highlighted tag chip
	cursor int
	focus  focus

	name        textinput.Model
	description textarea.Model

	// pending is set from the submit key until its submittedMsg arrives
	pending bool

	styles styles
}

// New creates a model bound to ctrl. ctx bounds every network call.
func New(ctx context.Context, ctrl *app.Controller) Model {
	name := textinput.New()
	name.Placeholder = "Enter grant name"
	name.CharLimit = 200
	name.Width = 60

	desc := textarea.New()
	desc.Placeholder = "Enter grant description"
	desc.CharLimit = 0
	desc.ShowLineNumbers = false
	desc.SetWidth(60)
	desc.SetHeight(6)

	return Model{
		ctx:         ctx,
		ctrl:        ctrl,
		name:        name,
		description: desc,
		styles:      newStyles(),
	}
}

// Run starts the terminal UI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, ctrl *app.Controller, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, ctrl), opts...).Run()
	return err
}

// Init loads the grant list.
func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) loadCmd() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return loadedMsg{Err: ctrl.Refresh(ctx)}
	}
}

func (m Model) submitCmd() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return submittedMsg{Err: ctrl.Submit(ctx)}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case loadedMsg:
		// Failures show up as the view notice.
		m.clampCursor()
		return m, nil

	case submittedMsg:
		m.pending = false
		if msg.Err == nil {
			m.name.SetValue("")
			m.description.Reset()
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.ctrl.State().Tab == app.TabAdd {
			return m.updateAdd(msg)
		}
		return m.updateGrants(msg)
	}

	return m, nil
}

func (m Model) updateGrants(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tags := m.ctrl.View().Tags

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "a", "tab":
		return m.switchTab(app.TabAdd)
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < len(tags)-1 {
			m.cursor++
		}
	case " ", "enter", "x":
		if m.cursor < len(tags) {
			m.ctrl.ToggleTag(tags[m.cursor].Name)
		}
	case "c":
		m.ctrl.ClearFilters()
	case "r":
		return m, m.loadCmd()
	}
	return m, nil
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "shift+tab":
		return m.switchTab(app.TabGrants)
	case "tab":
		return m.cycleFocus()
	case "ctrl+s":
		if m.pending || !m.ctrl.CanSubmit() {
			return m, nil
		}
		m.pending = true
		return m, m.submitCmd()
	}

	var cmd tea.Cmd
	if m.focus == focusName {
		m.name, cmd = m.name.Update(msg)
		m.ctrl.SetName(m.name.Value())
	} else {
		m.description, cmd = m.description.Update(msg)
		m.ctrl.SetDescription(m.description.Value())
	}
	return m, cmd
}

func (m Model) switchTab(tab app.Tab) (tea.Model, tea.Cmd) {
	m.ctrl.SetTab(tab)
	if tab == app.TabAdd {
		m.focus = focusName
		m.description.Blur()
		return m, m.name.Focus()
	}
	m.name.Blur()
	m.description.Blur()
	return m, nil
}

func (m Model) cycleFocus() (tea.Model, tea.Cmd) {
	if m.focus == focusName {
		m.focus = focusDescription
		m.name.Blur()
		return m, m.description.Focus()
	}
	m.focus = focusName
	m.description.Blur()
	return m, m.name.Focus()
}

func (m *Model) clampCursor() {
	n := len(m.ctrl.View().Tags)
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m *Model) resize() {
	w := min(max(m.width-4, 20), 96)
	m.name.Width = w - 2
	m.description.SetWidth(w)
}
