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
	case StateHabitForm:
		title := "New habit"
		if m.editingID != "" {
			title = "Edit habit"
		}
		content = docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, activeTabStyle.Render(title), "", m.form.View()))
	case StateConfirmDelete:
		content = docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, dangerStyle.Render("Delete habit"), "", m.form.View()))
	default:
		content = m.viewTab()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewStatus(),
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.tab == Tab(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	done, total := m.store.Analytics().TodayCounts(m.store.Habits(), m.store.Today())
	tabs = append(tabs, progressStyle.Render(fmt.Sprintf("%d/%d today", done, total)))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.errMsg != "" {
		return dangerStyle.Render("❌ " + m.errMsg)
	}
	return statusStyle.Render(m.status)
}

func (m Model) viewTab() string {
	switch m.tab {
	case TabGoals:
		return docStyle.Render(m.goals.View())
	case TabManage:
		return docStyle.Render(m.manage.View())
	default:
		return docStyle.Render(m.today.View())
	}
}
