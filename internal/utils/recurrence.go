package utils

import (
	"time"

	"github.com/julianstephens/steadiness/internal/models"
)

// ResolvedDays maps a habit's recurrence to the concrete weekdays it is active on.
// This is shared by due-today checks and reminder trigger generation.
//
// A days_per_week habit without an explicit ScheduleDays selection resolves to
// the empty set: it is due on no day until weekdays are assigned.
func ResolvedDays(h models.Habit) models.WeekdaySet {
	switch h.Recurrence.Kind {
	case models.RecurrenceDaily:
		return models.NewWeekdaySet(models.AllWeekdays...)
	case models.RecurrenceCustom:
		return models.NewWeekdaySet(h.Recurrence.Weekdays...)
	case models.RecurrenceDaysPerWeek:
		return models.NewWeekdaySet(h.ScheduleDays...)
	default:
		return models.WeekdaySet{}
	}
}

// IsScheduledOn reports whether the habit is due on the given day.
func IsScheduledOn(h models.Habit, day time.Time, cal Calendar) bool {
	return ResolvedDays(h).Contains(cal.Weekday(day))
}

// WeeklyTargetDays is how many days per week the habit asks for.
// A nil habit means "all habits" and targets every day.
func WeeklyTargetDays(h *models.Habit) int {
	if h == nil {
		return 7
	}
	switch h.Recurrence.Kind {
	case models.RecurrenceDaysPerWeek:
		return clamp(h.Recurrence.DaysPerWeek, 1, 7)
	case models.RecurrenceCustom:
		return clamp(len(h.Recurrence.Weekdays), 1, 7)
	default:
		return 7
	}
}

func clamp(n, lo, hi int) int {
	return max(lo, min(n, hi))
}
