// Package analytics derives streaks, rolling rates and heatmaps from completion records.
// Every function is deterministic given the records, a reference date and a calendar.
package analytics

import (
	"time"

	"github.com/julianstephens/steadiness/internal/models"
	"github.com/julianstephens/steadiness/internal/utils"
)

// Engine indexes completion records by day. It is read-only once built.
type Engine struct {
	cal     utils.Calendar
	records []models.CompletionRecord
	// completed records per day key, across all indexed habits
	completed map[string]int
	// completed records per habit, then per day key
	byHabit map[string]map[string]int
	first   time.Time
	last    time.Time
}

// New indexes records under cal.
func New(records []models.CompletionRecord, cal utils.Calendar) *Engine {
	e := &Engine{
		cal:       cal,
		records:   records,
		completed: make(map[string]int),
		byHabit:   make(map[string]map[string]int),
	}
	for _, r := range records {
		day := cal.DateOf(r.Day)
		if e.first.IsZero() || day.Before(e.first) {
			e.first = day
		}
		if e.last.IsZero() || day.After(e.last) {
			e.last = day
		}
		if !r.Completed {
			continue
		}
		key := cal.DayKey(day)
		e.completed[key]++
		if e.byHabit[r.HabitID] == nil {
			e.byHabit[r.HabitID] = make(map[string]int)
		}
		e.byHabit[r.HabitID][key]++
	}
	return e
}

// ForHabit returns an engine restricted to one habit's records.
func (e *Engine) ForHabit(habitID string) *Engine {
	var filtered []models.CompletionRecord
	for _, r := range e.records {
		if r.HabitID == habitID {
			filtered = append(filtered, r)
		}
	}
	return New(filtered, e.cal)
}

// Calendar returns the calendar the engine was built with.
func (e *Engine) Calendar() utils.Calendar {
	return e.cal
}

// IsDayCompleted reports whether at least one completed record exists on day.
func (e *Engine) IsDayCompleted(day time.Time) bool {
	return e.CompletedCount(day) > 0
}

// CompletedCount returns the number of completed records on day.
func (e *Engine) CompletedCount(day time.Time) int {
	return e.completed[e.cal.DayKey(day)]
}

// IsHabitCompleted reports whether the given habit was completed on day.
func (e *Engine) IsHabitCompleted(habitID string, day time.Time) bool {
	return e.byHabit[habitID][e.cal.DayKey(day)] > 0
}

// CurrentStreak counts consecutive completed days ending at ref.
// A streak is current only if it includes ref: when ref itself is incomplete the
// result is 0 and earlier days are not examined.
func (e *Engine) CurrentStreak(ref time.Time) int {
	day := e.cal.StartOfDay(ref)
	streak := 0
	for e.IsDayCompleted(day) {
		streak++
		day = e.cal.AddDays(day, -1)
	}
	return streak
}

// MaxStreak returns the longest run of completed days between the earliest and
// latest record day. Days without records count as incomplete.
func (e *Engine) MaxStreak() int {
	if len(e.records) == 0 {
		return 0
	}
	best, run := 0, 0
	for _, day := range e.cal.Days(e.first, e.last) {
		if e.IsDayCompleted(day) {
			run++
			best = max(best, run)
		} else {
			run = 0
		}
	}
	return best
}

// PeriodWindow returns the inclusive rolling window ending on ref's day.
func (e *Engine) PeriodWindow(pt models.PeriodType, ref time.Time) (start, end time.Time) {
	end = e.cal.StartOfDay(ref)
	start = e.cal.AddMonths(end, -pt.Months())
	return start, end
}

// CompletionRate is the fraction of window days with at least one completion.
func (e *Engine) CompletionRate(pt models.PeriodType, ref time.Time) float64 {
	start, end := e.PeriodWindow(pt, ref)
	days := e.cal.Days(start, end)
	done := 0
	for _, day := range days {
		if e.IsDayCompleted(day) {
			done++
		}
	}
	return float64(done) / float64(max(1, len(days)))
}

// WeekRate is the completion rate of one week-of-year bucket inside a window.
// Days counts only window days, so the first and last buckets may be partial.
type WeekRate struct {
	Year      int
	Week      int
	Days      int
	Completed int
	Rate      float64
}

// WeeklyRates buckets the rolling window by week-of-year, in chronological order.
// Buckets are keyed by (week-numbering year, week), so a window that crosses New
// Year keeps week 52 of one year apart from week 1 of the next and lists them in
// date order rather than by bare week number. Windows inside one year come out
// the same either way.
func (e *Engine) WeeklyRates(pt models.PeriodType, ref time.Time) []WeekRate {
	start, end := e.PeriodWindow(pt, ref)
	var rates []WeekRate
	for _, day := range e.cal.Days(start, end) {
		year, week := e.cal.WeekOfYear(day)
		if n := len(rates); n == 0 || rates[n-1].Year != year || rates[n-1].Week != week {
			rates = append(rates, WeekRate{Year: year, Week: week})
		}
		cur := &rates[len(rates)-1]
		cur.Days++
		if e.IsDayCompleted(day) {
			cur.Completed++
		}
	}
	for i := range rates {
		rates[i].Rate = float64(rates[i].Completed) / float64(max(1, rates[i].Days))
	}
	return rates
}

// TodayCounts returns how many active habits scheduled on day are done, out of how many are due.
func (e *Engine) TodayCounts(habits []models.Habit, day time.Time) (done, total int) {
	for _, h := range habits {
		if !h.IsActive || !utils.IsScheduledOn(h, day, e.cal) {
			continue
		}
		total++
		if e.IsHabitCompleted(h.ID, day) {
			done++
		}
	}
	return done, total
}
