// Package manage lists every habit for editing.
package manage

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/steadiness/internal/models"
	"github.com/julianstephens/steadiness/internal/utils"
)

type AddHabitMsg struct{}

type EditHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID string
}

type ToggleActiveMsg struct {
	ID string
}

type Item struct {
	Habit models.Habit
}

func (i Item) Title() string {
	if !i.Habit.IsActive {
		return "[PAUSED] " + i.Habit.Title
	}
	return i.Habit.Title
}

func (i Item) Description() string {
	desc := i.Habit.Recurrence.String()
	if i.Habit.Recurrence.Kind == models.RecurrenceDaysPerWeek {
		if days := utils.ResolvedDays(i.Habit); len(days) > 0 {
			desc += " on " + days.String()
		} else {
			desc += " (no days assigned)"
		}
	}
	desc = fmt.Sprintf("%s · %d min · %s goal", desc, i.Habit.DurationMin, i.Habit.PeriodType)
	if i.Habit.ReminderEnabled {
		desc += " · ⏰ " + i.Habit.ReminderTime
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Title }

type KeyMap struct {
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Pause  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause/resume"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(habits []models.Habit, width, height int) Model {
	l := list.New(items(habits), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	return Model{
		list: l,
		keys: DefaultKeyMap(),
	}
}

func items(habits []models.Habit) []list.Item {
	out := make([]list.Item, len(habits))
	for i, h := range habits {
		out[i] = Item{Habit: h}
	}
	return out
}

func (m *Model) SetHabits(habits []models.Habit) {
	idx := m.list.Index()
	m.list.SetItems(items(habits))
	if idx >= len(habits) {
		idx = len(habits) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
}

// Focus moves the cursor to the habit with id and reports whether it exists.
func (m *Model) Focus(id string) bool {
	for i, it := range m.list.Items() {
		if item, ok := it.(Item); ok && item.Habit.ID == id {
			m.list.Select(i)
			return true
		}
	}
	return false
}

// Selected returns the habit under the cursor.
func (m Model) Selected() (models.Habit, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Habit, ok
}

func (m Model) Keys() []key.Binding {
	return []key.Binding{m.keys.Add, m.keys.Edit, m.keys.Delete, m.keys.Pause}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if key.Matches(msg, m.keys.Add) {
			return m, func() tea.Msg { return AddHabitMsg{} }
		}
		if i, ok := m.list.SelectedItem().(Item); ok {
			id := i.Habit.ID
			switch {
			case key.Matches(msg, m.keys.Edit):
				return m, func() tea.Msg { return EditHabitMsg{ID: id} }
			case key.Matches(msg, m.keys.Delete):
				return m, func() tea.Msg { return DeleteHabitMsg{ID: id} }
			case key.Matches(msg, m.keys.Pause):
				return m, func() tea.Msg { return ToggleActiveMsg{ID: id} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
