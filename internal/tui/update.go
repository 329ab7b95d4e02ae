package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/steadiness/internal/models"
	"github.com/julianstephens/steadiness/internal/tui/components/goals"
	"github.com/julianstephens/steadiness/internal/tui/components/manage"
	"github.com/julianstephens/steadiness/internal/tui/components/today"
	"github.com/julianstephens/steadiness/internal/tui/forms"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// tabs, status line and help
		listHeight := msg.Height - 5

		h, v := docStyle.GetFrameSize()
		m.today.SetSize(msg.Width-h, listHeight-v)
		m.manage.SetSize(msg.Width-h, listHeight-v)
		m.goals.SetSize(msg.Width-h, listHeight-v)
	}

	switch m.state {
	case StateHabitForm:
		return m.updateHabitForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.tab = (m.tab + 1) % Tab(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.tab = (m.tab + Tab(len(tabTitles)) - 1) % Tab(len(tabTitles))
			return m, nil
		}

	case today.ToggleHabitMsg:
		m.toggle(msg.ID)
		return m, nil

	case today.AddHabitMsg, manage.AddHabitMsg:
		return m, m.openHabitForm(nil)

	case manage.EditHabitMsg:
		if h, ok := m.store.Habit(msg.ID); ok {
			return m, m.openHabitForm(&h)
		}
		return m, nil

	case manage.DeleteHabitMsg:
		h, ok := m.store.Habit(msg.ID)
		if !ok {
			return m, nil
		}
		m.confirm = &confirmation{habitID: h.ID, title: h.Title}
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Delete %q?", h.Title)).
					Description("Its completion history and notes are deleted too.").
					Affirmative("Delete").
					Negative("Cancel").
					Value(&m.confirm.ok),
			),
		).WithTheme(huh.ThemeDracula())
		m.state = StateConfirmDelete
		return m, m.form.Init()

	case manage.ToggleActiveMsg:
		if h, ok := m.store.Habit(msg.ID); ok {
			h.IsActive = !h.IsActive
			m.store.UpdateHabit(h)
			if h.IsActive {
				m.setStatus("Resumed " + h.Title)
			} else {
				m.setStatus("Paused " + h.Title)
			}
			m.persist()
		}
		return m, nil

	case goals.PeriodChangedMsg:
		m.goals.SetStats(goals.Collect(m.store, msg.Period, nil))
		return m, nil
	}

	var cmd tea.Cmd
	switch m.tab {
	case TabToday:
		m.today, cmd = m.today.Update(msg)
	case TabGoals:
		m.goals, cmd = m.goals.Update(msg)
	case TabManage:
		m.manage, cmd = m.manage.Update(msg)
	}
	return m, cmd
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.errMsg = ""
}

// toggle flips today's completion for a habit and announces new badges.
func (m *Model) toggle(id string) {
	h, ok := m.store.Habit(id)
	if !ok {
		return
	}
	rec, earned := m.store.Toggle(h, m.store.Today())
	if rec.Completed {
		m.setStatus("✓ " + h.Title)
	} else {
		m.setStatus("○ " + h.Title)
	}
	if len(earned) > 0 {
		titles := make([]string, len(earned))
		for i, a := range earned {
			titles[i] = a.Title
		}
		m.setStatus("★ Badge earned: " + strings.Join(titles, ", "))
	}
	m.persist()
}

func (m *Model) openHabitForm(h *models.Habit) tea.Cmd {
	defaultReminder := m.store.Settings().DefaultReminderTime
	if h == nil {
		m.editingID = ""
		m.habitForm = forms.NewHabitFormModel(defaultReminder)
	} else {
		m.editingID = h.ID
		m.habitForm = forms.HabitFormModelFrom(*h, defaultReminder)
	}
	m.form = forms.NewHabitForm(m.habitForm)
	m.state = StateHabitForm
	return m.form.Init()
}

func (m Model) updateHabitForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateBrowse
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.saveHabitForm(); err != nil {
			// Stay in form state on error to allow retry
			m.errMsg = err.Error()
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.state = StateBrowse
	case huh.StateAborted:
		m.state = StateBrowse
	}
	return m, cmd
}

// saveHabitForm adds or updates the habit described by the open form.
func (m *Model) saveHabitForm() error {
	var h models.Habit
	if m.editingID != "" {
		existing, ok := m.store.Habit(m.editingID)
		if !ok {
			return fmt.Errorf("habit no longer exists")
		}
		h = existing
	}
	if err := m.habitForm.Apply(&h); err != nil {
		return err
	}

	if m.editingID == "" {
		added, err := m.store.AddHabit(h)
		if err != nil {
			return err
		}
		m.setStatus("Added " + added.Title)
	} else {
		if err := h.Validate(); err != nil {
			return err
		}
		m.store.UpdateHabit(h)
		m.setStatus("Updated " + h.Title)
	}
	m.persist()
	return nil
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateBrowse
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.confirm.ok {
			m.deleteHabit(m.confirm.habitID)
		}
		m.state = StateBrowse
	case huh.StateAborted:
		m.state = StateBrowse
	}
	return m, cmd
}

func (m *Model) deleteHabit(id string) {
	h, ok := m.store.Habit(id)
	if !ok || !m.store.DeleteHabit(id) {
		return
	}
	m.setStatus("Deleted " + h.Title)
	m.persist()
}
