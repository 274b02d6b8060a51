package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/grantview/internal/app"
)

// View renders the model.
func (m Model) View() string {
	v := m.ctrl.View()

	var b strings.Builder
	b.WriteString(m.styles.title.Render("Grant Tagging System"))
	b.WriteString("\n")
	b.WriteString(m.styles.subtitle.Render("Add and manage grant opportunities"))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs(v))
	b.WriteString("\n")

	if v.Tab == app.TabAdd {
		b.WriteString(m.renderAdd(v))
	} else {
		b.WriteString(m.renderGrants(v))
	}
	return b.String()
}

func (m Model) renderTabs(v app.View) string {
	grants := fmt.Sprintf("Grants (%d)", v.Total)
	add := "Add Grants"
	if v.Tab == app.TabAdd {
		return lipgloss.JoinHorizontal(lipgloss.Top, m.styles.tab.Render(grants), m.styles.activeTab.Render(add))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.styles.activeTab.Render(grants), m.styles.tab.Render(add))
}

func (m Model) renderGrants(v app.View) string {
	var b strings.Builder

	if v.Notice != "" {
		b.WriteString(m.styles.notice.Render(v.Notice))
		b.WriteString("\n")
	}

	if len(v.Tags) > 0 {
		b.WriteString(m.styles.section.Render("Filter by Tags"))
		b.WriteString("\n")
		chips := make([]string, len(v.Tags))
		for i, t := range v.Tags {
			style := m.styles.chip
			if t.Selected {
				style = m.styles.chipOn
			}
			label := t.Name
			if i == m.cursor {
				label = m.styles.chipCursor.Render(label)
			}
			chips[i] = style.Render(label)
		}
		b.WriteString(lipgloss.NewStyle().Width(m.contentWidth()).Render(strings.Join(chips, " ")))
		b.WriteString("\n")
		if v.Filtered {
			b.WriteString(m.styles.muted.Render(fmt.Sprintf("Showing %d of %d, press c to clear filters", len(v.Grants), v.Total)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if len(v.Grants) == 0 {
		b.WriteString(m.styles.card.Width(m.contentWidth()).Render(m.styles.muted.Render(v.EmptyText)))
		b.WriteString("\n")
	}
	for _, g := range v.Grants {
		body := m.styles.grantName.Render(g.Name) + "\n" + g.Description
		if len(g.Tags) > 0 {
			tags := make([]string, len(g.Tags))
			for i, t := range g.Tags {
				tags[i] = m.styles.staticChip.Render("#" + t)
			}
			body += "\n" + strings.Join(tags, " ")
		}
		b.WriteString(m.styles.card.Width(m.contentWidth()).Render(body))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.help.Render("←/→ move • space toggle tag • c clear • r refresh • a add grant • q quit"))
	return b.String()
}

func (m Model) renderAdd(v app.View) string {
	var b strings.Builder

	b.WriteString(m.styles.section.Render("Add Single Grant"))
	b.WriteString("\n\n")
	b.WriteString(m.fieldLabel("Grant Name", m.focus == focusName))
	b.WriteString("\n")
	b.WriteString(m.name.View())
	b.WriteString("\n\n")
	b.WriteString(m.fieldLabel("Grant Description", m.focus == focusDescription))
	b.WriteString("\n")
	b.WriteString(m.description.View())
	b.WriteString("\n\n")

	switch {
	case v.Submitting || m.pending:
		b.WriteString(m.styles.buttonOff.Render("Adding..."))
	case v.CanSubmit:
		b.WriteString(m.styles.button.Render("Add Grant"))
	default:
		b.WriteString(m.styles.buttonOff.Render("Add Grant"))
	}
	b.WriteString("\n")

	switch v.Message.Kind {
	case app.MessageSuccess:
		b.WriteString("\n" + m.styles.success.Render(v.Message.Text) + "\n")
	case app.MessageError:
		b.WriteString("\n" + m.styles.errorText.Render(v.Message.Text) + "\n")
	}

	b.WriteString(m.styles.help.Render("tab next field • ctrl+s submit • esc back to grants • ctrl+c quit"))
	return b.String()
}

func (m Model) fieldLabel(text string, focused bool) string {
	if focused {
		return m.styles.focusedEdge.Render("▸ ") + m.styles.label.Render(text)
	}
	return "  " + m.styles.label.Render(text)
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return min(max(m.width-4, 20), 96)
}
