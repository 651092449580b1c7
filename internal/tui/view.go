package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StatePlans:
		content = docStyle.Render(m.planList.View())
	case StateWeek:
		content = docStyle.Render(m.weekModel.View())
	case StateDay:
		content = docStyle.Render(m.dayModel.View())
	case StateGroup:
		content = docStyle.Render(m.groupView.View())
	case StateForm:
		content = docStyle.Render(m.form.View())
	case StateConfirmQuit:
		content = m.viewConfirmQuit()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	parts := []string{titleStyle.Render("macroplan")}

	if plan := m.store.Plan(); plan != nil {
		name := plan.Name
		if m.store.Dirty() {
			name += dirtyStyle.Render(" *")
		}
		parts = append(parts, crumbStyle.Render(name))
	}
	if m.activity.changes > 0 {
		parts = append(parts, crumbStyle.Render(fmt.Sprintf("%d edit(s), last %s", m.activity.changes, m.activity.last.Kind)))
	}
	if m.store.HasCopiedMeal() {
		parts = append(parts, crumbStyle.Render("[meal copied]"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return dangerStyle.Render("Error: " + m.err.Error())
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return ""
}

func (m Model) viewConfirmQuit() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("The current plan has unsaved changes. Quit anyway?"),
			"",
			"[y] Quit without saving",
			"[s] Save and quit",
			"[n] Cancel",
		),
	)
}
