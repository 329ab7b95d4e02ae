package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/steadiness/internal/deeplink"
	"github.com/julianstephens/steadiness/internal/logger"
	"github.com/julianstephens/steadiness/internal/store"
	"github.com/julianstephens/steadiness/internal/tui/components/goals"
	"github.com/julianstephens/steadiness/internal/tui/components/manage"
	"github.com/julianstephens/steadiness/internal/tui/components/today"
	"github.com/julianstephens/steadiness/internal/tui/forms"
)

type Tab int

const (
	TabToday Tab = iota
	TabGoals
	TabManage
)

var tabTitles = []string{"Today", "Goals", "Manage"}

type SessionState int

const (
	StateBrowse SessionState = iota
	StateHabitForm
	StateConfirmDelete
)

// confirmation backs the delete prompt; huh writes through the pointer.
type confirmation struct {
	habitID string
	title   string
	ok      bool
}

type Model struct {
	store     *store.Store
	commit    func() error
	tab       Tab
	state     SessionState
	keys      KeyMap
	help      help.Model
	today     today.Model
	goals     goals.Model
	manage    manage.Model
	form      *huh.Form
	habitForm *forms.HabitFormModel
	editingID string // empty while adding
	confirm   *confirmation
	status    string
	errMsg    string
	quitting  bool
	width     int
	height    int
}

// NewModel builds the TUI over a loaded store. commit persists the store and
// reschedules reminders; it runs after every mutation. route picks the
// opening tab.
func NewModel(s *store.Store, commit func() error, route deeplink.Route) Model {
	m := Model{
		store:  s,
		commit: commit,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		today:  today.New(nil, nil, 0, 0),
		goals:  goals.New(0, 0),
		manage: manage.New(nil, 0, 0),
	}
	m.refresh()
	m.navigate(route)
	return m
}

func (m *Model) navigate(route deeplink.Route) {
	switch route.Target {
	case deeplink.Goals:
		m.tab = TabGoals
	case deeplink.Manage:
		m.tab = TabManage
	case deeplink.Habit:
		m.tab = TabManage
		if !m.manage.Focus(route.HabitID) {
			m.errMsg = "habit not found: " + route.HabitID
		}
	default:
		m.tab = TabToday
	}
}

// refresh reloads every component from the store.
func (m *Model) refresh() {
	day := m.store.Today()
	scheduled := m.store.ScheduledHabits(day)
	done := make(map[string]bool, len(scheduled))
	for _, h := range scheduled {
		done[h.ID] = m.store.IsHabitCompleted(h.ID, day)
	}
	m.today.SetHabits(scheduled, done)
	m.manage.SetHabits(m.store.Habits())
	m.goals.SetStats(goals.Collect(m.store, m.goals.Period(), nil))
}

// persist commits pending mutations and reloads the views.
func (m *Model) persist() {
	if err := m.commit(); err != nil {
		logger.Error("Failed to save changes", "error", err)
		m.errMsg = "save failed: " + err.Error()
	}
	m.refresh()
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	return append(keys, m.tabKeys()...)
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}
	return [][]key.Binding{global, navigation, m.tabKeys()}
}

func (m Model) tabKeys() []key.Binding {
	switch m.tab {
	case TabToday:
		return m.today.Keys()
	case TabGoals:
		return m.goals.Keys()
	case TabManage:
		return m.manage.Keys()
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return nil
}
