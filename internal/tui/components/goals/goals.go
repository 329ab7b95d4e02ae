// Package goals renders streaks, completion rates, the activity heatmap and
// badges. The render helpers are shared with the stats commands.
package goals

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/steadiness/internal/analytics"
	"github.com/julianstephens/steadiness/internal/constants"
	"github.com/julianstephens/steadiness/internal/models"
	"github.com/julianstephens/steadiness/internal/store"
)

// heatColors maps heatmap levels 0-4 to terminal colors, empty to busiest.
var heatColors = [constants.HeatmapLevels]lipgloss.Color{"237", "22", "28", "34", "46"}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	earnedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

const (
	heatCell = "■"
	barWidth = 20
)

// Stats is everything the goals view shows, computed once per refresh.
type Stats struct {
	Title        string
	Today        time.Time
	Period       models.PeriodType
	Done         int
	Total        int
	Current      int
	Max          int
	Rate         float64
	Weekly       []analytics.WeekRate
	Weeks        [][]analytics.Cell
	FirstWeekday time.Weekday
	Achievements []models.Achievement
}

// Collect computes stats for the period ending today. With a habit the
// numbers cover only that habit's records.
func Collect(s *store.Store, period models.PeriodType, habit *models.Habit) Stats {
	engine := s.Analytics()
	today := s.Today()
	st := Stats{
		Title:        "All habits",
		Today:        today,
		Period:       period,
		FirstWeekday: s.Calendar().FirstWeekday,
		Achievements: s.Achievements(),
	}
	st.Done, st.Total = engine.TodayCounts(s.Habits(), today)
	if habit != nil {
		engine = engine.ForHabit(habit.ID)
		st.Title = habit.Title
		st.Done, st.Total = engine.TodayCounts([]models.Habit{*habit}, today)
	}
	st.Current = engine.CurrentStreak(today)
	st.Max = engine.MaxStreak()
	st.Rate = engine.CompletionRate(period, today)
	st.Weekly = engine.WeeklyRates(period, today)
	start, end := engine.PeriodWindow(period, today)
	st.Weeks = engine.HeatmapWeeks(engine.Heatmap(start, end))
	return st
}

// PeriodLabel names a rolling window for display.
func PeriodLabel(p models.PeriodType) string {
	switch p {
	case models.PeriodQuarter:
		return "3 months"
	case models.PeriodHalfYear:
		return "6 months"
	default:
		return "1 month"
	}
}

// Summary renders today's progress, streaks and the period rate.
func Summary(st Stats) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(st.Title) + "\n")
	fmt.Fprintf(&b, "  %s %d/%d\n", labelStyle.Render("Today         "), st.Done, st.Total)
	fmt.Fprintf(&b, "  %s %d days\n", labelStyle.Render("Current streak"), st.Current)
	fmt.Fprintf(&b, "  %s %d days\n", labelStyle.Render("Best streak   "), st.Max)
	fmt.Fprintf(&b, "  %s %.0f%% (%s)\n", labelStyle.Render("Completion    "), st.Rate*100, PeriodLabel(st.Period))
	return b.String()
}

// Heatmap draws one column per week and one row per weekday, starting at
// firstWeekday. Days outside the range are left blank.
func Heatmap(weeks [][]analytics.Cell, firstWeekday time.Weekday) string {
	if len(weeks) == 0 {
		return labelStyle.Render("No activity yet.")
	}
	var rows [7][]string
	for _, week := range weeks {
		var column [7]string
		for i := range column {
			column[i] = " "
		}
		for _, c := range week {
			column[rowFor(c.Day.Weekday(), firstWeekday)] = lipgloss.NewStyle().Foreground(heatColors[c.Level]).Render(heatCell)
		}
		for i := range rows {
			rows[i] = append(rows[i], column[i])
		}
	}

	var b strings.Builder
	for i, row := range rows {
		day := time.Weekday((int(firstWeekday) + i) % 7)
		b.WriteString(labelStyle.Render(day.String()[:3]) + " " + strings.Join(row, " ") + "\n")
	}
	b.WriteString(Legend())
	return b.String()
}

func rowFor(wd, first time.Weekday) int {
	return (int(wd) - int(first) + 7) % 7
}

// Legend shows the heatmap scale.
func Legend() string {
	cells := make([]string, len(heatColors))
	for i, c := range heatColors {
		cells[i] = lipgloss.NewStyle().Foreground(c).Render(heatCell)
	}
	return labelStyle.Render("Less ") + strings.Join(cells, " ") + labelStyle.Render(" More")
}

// WeeklyBars draws one bar per week-of-year bucket, oldest first.
func WeeklyBars(rates []analytics.WeekRate) string {
	if len(rates) == 0 {
		return labelStyle.Render("No weeks in range.")
	}
	var b strings.Builder
	for _, r := range rates {
		filled := int(r.Rate*barWidth + 0.5)
		bar := barStyle.Render(strings.Repeat("█", filled)) + emptyStyle.Render(strings.Repeat("░", barWidth-filled))
		fmt.Fprintf(&b, "%s %s %3.0f%% %s\n",
			labelStyle.Render(fmt.Sprintf("%d-W%02d", r.Year, r.Week)), bar, r.Rate*100,
			labelStyle.Render(fmt.Sprintf("(%d/%d)", r.Completed, r.Days)))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Achievements lists the badge catalog with earn dates.
func Achievements(list []models.Achievement) string {
	var b strings.Builder
	for _, a := range list {
		if a.Earned() {
			fmt.Fprintf(&b, "%s %s  %s\n", earnedStyle.Render("★"), a.Title, labelStyle.Render("earned "+a.EarnedAt.Format(constants.DateFormat)))
		} else {
			fmt.Fprintf(&b, "%s %s  %s\n", labelStyle.Render("☆"), a.Title, labelStyle.Render(fmt.Sprintf("%d-day streak needed", a.Threshold)))
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// PeriodChangedMsg asks the parent to recollect stats for a new period.
type PeriodChangedMsg struct {
	Period models.PeriodType
}

type KeyMap struct {
	Period key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Period: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "change period"),
		),
	}
}

// Model is the goals tab.
type Model struct {
	stats  Stats
	keys   KeyMap
	width  int
	height int
}

func New(width, height int) Model {
	return Model{
		stats:  Stats{Period: models.PeriodMonthly},
		keys:   DefaultKeyMap(),
		width:  width,
		height: height,
	}
}

func (m *Model) SetStats(st Stats) {
	m.stats = st
}

func (m Model) Period() models.PeriodType {
	return m.stats.Period
}

func (m Model) Keys() []key.Binding {
	return []key.Binding{m.keys.Period}
}

func nextPeriod(p models.PeriodType) models.PeriodType {
	switch p {
	case models.PeriodMonthly:
		return models.PeriodQuarter
	case models.PeriodQuarter:
		return models.PeriodHalfYear
	default:
		return models.PeriodMonthly
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Period) {
		next := nextPeriod(m.stats.Period)
		return m, func() tea.Msg { return PeriodChangedMsg{Period: next} }
	}
	return m, nil
}

func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		Summary(m.stats),
		headerStyle.Render("Activity"),
		Heatmap(m.stats.Weeks, m.stats.FirstWeekday),
		"",
		headerStyle.Render("Weekly completion"),
		WeeklyBars(m.stats.Weekly),
		"",
		headerStyle.Render("Badges"),
		Achievements(m.stats.Achievements),
	)
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
