package manage

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/steadiness/internal/models"
)

func testHabits() []models.Habit {
	return []models.Habit{
		{ID: "h1", Title: "Read", DurationMin: 10, Recurrence: models.Daily(), PeriodType: models.PeriodMonthly, IsActive: true},
		{ID: "h2", Title: "Gym", DurationMin: 45, Recurrence: models.DaysPerWeek(3), PeriodType: models.PeriodQuarter, IsActive: false},
		{ID: "h3", Title: "Walk", DurationMin: 20, Recurrence: models.Daily(), PeriodType: models.PeriodMonthly, IsActive: true},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msg tea.Msg) tea.Msg {
	t.Helper()
	_, cmd := m.Update(msg)
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestItemText(t *testing.T) {
	gym := Item{Habit: testHabits()[1]}
	if got := gym.Title(); got != "[PAUSED] Gym" {
		t.Errorf("Title() = %q", got)
	}
	desc := gym.Description()
	if !strings.Contains(desc, "(no days assigned)") || !strings.Contains(desc, "45 min") || !strings.Contains(desc, "quarter goal") {
		t.Errorf("Description() = %q", desc)
	}

	gym.Habit.ScheduleDays = models.NewWeekdaySet(models.Monday, models.Friday)
	if desc := gym.Description(); strings.Contains(desc, "no days assigned") {
		t.Errorf("Description() with days = %q", desc)
	}
}

func TestKeysEmitMessagesForSelectedHabit(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want tea.Msg
	}{
		{"edit", runes("e"), EditHabitMsg{ID: "h2"}},
		{"edit enter", tea.KeyMsg{Type: tea.KeyEnter}, EditHabitMsg{ID: "h2"}},
		{"delete", runes("d"), DeleteHabitMsg{ID: "h2"}},
		{"pause", runes("p"), ToggleActiveMsg{ID: "h2"}},
		{"add", runes("a"), AddHabitMsg{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(testHabits(), 80, 20)
			m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
			if got := press(t, m, tt.msg); got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestEmptyListOnlyAdds(t *testing.T) {
	m := New(nil, 80, 20)
	if got := press(t, m, runes("a")); got != (AddHabitMsg{}) {
		t.Errorf("add on empty list = %#v", got)
	}
	for _, k := range []string{"e", "d", "p"} {
		if got := press(t, m, runes(k)); got != nil {
			t.Errorf("%q on empty list = %#v, want nothing", k, got)
		}
	}
	if _, ok := m.Selected(); ok {
		t.Error("Selected() on empty list should report false")
	}
	if v := m.View(); !strings.Contains(v, "No habits yet") {
		t.Errorf("View() = %q", v)
	}
}

func TestFocus(t *testing.T) {
	m := New(testHabits(), 80, 20)
	if !m.Focus("h3") {
		t.Fatal("Focus(h3) = false")
	}
	if h, ok := m.Selected(); !ok || h.ID != "h3" {
		t.Errorf("Selected() = %+v", h)
	}
	if m.Focus("missing") {
		t.Error("Focus(missing) = true")
	}
}

func TestSetHabitsClampsCursor(t *testing.T) {
	m := New(testHabits(), 80, 20)
	m.Focus("h3")
	m.SetHabits(testHabits()[:2])
	if h, ok := m.Selected(); !ok || h.ID != "h2" {
		t.Errorf("Selected() after shrink = %+v, want h2", h)
	}
	m.SetHabits(nil)
	if _, ok := m.Selected(); ok {
		t.Error("Selected() after clearing should report false")
	}
}
