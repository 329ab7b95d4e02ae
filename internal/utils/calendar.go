package utils

import (
	"time"

	"github.com/julianstephens/steadiness/internal/constants"
	"github.com/julianstephens/steadiness/internal/models"
)

// Calendar fixes the day boundary and week numbering policy used by analytics.
// Week-of-year follows the Gregorian rule parameterised by FirstWeekday and
// MinDaysInFirstWeek: Sunday/1 matches the US calendar, Monday/4 is ISO 8601.
type Calendar struct {
	Location           *time.Location
	FirstWeekday       time.Weekday
	MinDaysInFirstWeek int
}

// DefaultCalendar uses the system location and Sunday-first weeks.
func DefaultCalendar() Calendar {
	return Calendar{Location: time.Local, FirstWeekday: time.Sunday, MinDaysInFirstWeek: 1}
}

// ISOCalendar returns an ISO 8601 week policy in loc.
func ISOCalendar(loc *time.Location) Calendar {
	return Calendar{Location: loc, FirstWeekday: time.Monday, MinDaysInFirstWeek: 4}
}

// CalendarFromSettings builds the calendar described by persisted settings.
func CalendarFromSettings(s models.Settings) (Calendar, error) {
	loc, err := LoadLocation(s.Timezone)
	if err != nil {
		return Calendar{}, err
	}
	cal := Calendar{Location: loc, FirstWeekday: time.Sunday, MinDaysInFirstWeek: s.MinDaysInFirstWeek}
	if wd := models.Weekday(s.FirstWeekday); wd.Valid() {
		cal.FirstWeekday = wd.Time()
	}
	return cal, nil
}

func (c Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c Calendar) minDays() int {
	switch {
	case c.MinDaysInFirstWeek < 1:
		return 1
	case c.MinDaysInFirstWeek > 7:
		return 7
	default:
		return c.MinDaysInFirstWeek
	}
}

// In converts t to the calendar's location.
func (c Calendar) In(t time.Time) time.Time {
	return t.In(c.loc())
}

// StartOfDay returns local midnight of the day containing t.
func (c Calendar) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(c.loc()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc())
}

func (c Calendar) SameDay(a, b time.Time) bool {
	return c.DayKey(a) == c.DayKey(b)
}

// DayKey formats the local day of t as YYYY-MM-DD.
func (c Calendar) DayKey(t time.Time) string {
	return t.In(c.loc()).Format(constants.DateFormat)
}

// DateOf reads the wall-clock date of a stored day and returns that date's
// midnight in the calendar's location. Stored days keep their date when the
// location changes; StartOfDay would shift them by the offset difference.
func (c Calendar) DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc())
}

// StoredDayKey formats the wall-clock date of a stored day as YYYY-MM-DD,
// independent of any calendar location.
func StoredDayKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDay parses YYYY-MM-DD as local midnight.
func (c Calendar) ParseDay(s string) (time.Time, error) {
	return ParseDateInLocation(s, c.loc())
}

// AddDays moves n calendar days, returning local midnight. DST shifts do not leak into the result.
func (c Calendar) AddDays(t time.Time, n int) time.Time {
	y, m, d := t.In(c.loc()).Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, c.loc())
}

// AddMonths moves n calendar months, clamping the day to the end of the target month
// (Mar 31 minus one month is Feb 28 or 29).
func (c Calendar) AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.In(c.loc()).Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, c.loc())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, c.loc())
}

// DaysBetween counts calendar days from a to b (negative when b is earlier).
func (c Calendar) DaysBetween(a, b time.Time) int {
	return int(c.civil(b).Sub(c.civil(a)).Hours() / 24)
}

// Days enumerates every day from start to end inclusive. It returns nil when end precedes start.
func (c Calendar) Days(start, end time.Time) []time.Time {
	n := c.DaysBetween(start, end)
	if n < 0 {
		return nil
	}
	days := make([]time.Time, 0, n+1)
	for i := 0; i <= n; i++ {
		days = append(days, c.AddDays(start, i))
	}
	return days
}

// Weekday returns the 1-based weekday of t in the calendar's location.
func (c Calendar) Weekday(t time.Time) models.Weekday {
	return models.WeekdayFromTime(t.In(c.loc()).Weekday())
}

// WeekOfYear returns the week-numbering year and week number of t.
// Days before week one of their year belong to the last week of the previous year.
func (c Calendar) WeekOfYear(t time.Time) (year, week int) {
	day := c.civil(t)
	year = day.Year()
	start := c.weekOneStart(year)
	if day.Before(start) {
		year--
		start = c.weekOneStart(year)
	} else if next := c.weekOneStart(year + 1); !day.Before(next) {
		return year + 1, 1
	}
	return year, int(day.Sub(start).Hours()/24)/7 + 1
}

// weekOneStart is the first day (UTC civil date) of week one of year.
func (c Calendar) weekOneStart(year int) time.Time {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(jan1.Weekday()) - int(c.FirstWeekday) + 7) % 7
	start := jan1.AddDate(0, 0, -offset)
	if 7-offset < c.minDays() {
		start = start.AddDate(0, 0, 7)
	}
	return start
}

// civil drops the location so day arithmetic is exact 24h steps.
func (c Calendar) civil(t time.Time) time.Time {
	y, m, d := t.In(c.loc()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
