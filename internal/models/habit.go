package models

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/steadiness/internal/constants"
)

// Weekday numbers days the way reminder identifiers expect them: 1=Sunday ... 7=Saturday.
type Weekday int

const (
	Sunday Weekday = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// AllWeekdays lists every weekday in numeric order.
var AllWeekdays = WeekdaySet{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// WeekdayFromTime converts a time.Weekday (0=Sunday) to a Weekday (1=Sunday).
func WeekdayFromTime(wd time.Weekday) Weekday {
	return Weekday(int(wd) + 1)
}

// Time converts back to the standard library weekday.
func (w Weekday) Time() time.Weekday {
	return time.Weekday(int(w) - 1)
}

func (w Weekday) Valid() bool {
	return w >= Sunday && w <= Saturday
}

func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return w.Time().String()[:3]
}

// WeekdaySet is a sorted, duplicate-free list of weekdays.
type WeekdaySet []Weekday

// NewWeekdaySet builds a normalized set, dropping invalid and duplicate days.
func NewWeekdaySet(days ...Weekday) WeekdaySet {
	set := make(WeekdaySet, 0, len(days))
	for _, d := range days {
		if d.Valid() && !slices.Contains(set, d) {
			set = append(set, d)
		}
	}
	slices.Sort(set)
	return set
}

func (s WeekdaySet) Contains(d Weekday) bool {
	return slices.Contains(s, d)
}

func (s WeekdaySet) String() string {
	names := make([]string, len(s))
	for i, d := range s {
		names[i] = d.String()
	}
	return strings.Join(names, ",")
}

// RecurrenceKind tags the active variant of a Recurrence.
type RecurrenceKind string

const (
	RecurrenceDaily       RecurrenceKind = "daily"
	RecurrenceDaysPerWeek RecurrenceKind = "days_per_week"
	RecurrenceCustom      RecurrenceKind = "custom"
)

// Recurrence is a tagged union: only the fields belonging to Kind are meaningful.
type Recurrence struct {
	Kind        RecurrenceKind `json:"kind"`
	DaysPerWeek int            `json:"days_per_week,omitempty"`
	Weekdays    WeekdaySet     `json:"weekdays,omitempty"`
}

func Daily() Recurrence {
	return Recurrence{Kind: RecurrenceDaily}
}

func DaysPerWeek(n int) Recurrence {
	return Recurrence{Kind: RecurrenceDaysPerWeek, DaysPerWeek: n}
}

func Custom(days ...Weekday) Recurrence {
	return Recurrence{Kind: RecurrenceCustom, Weekdays: NewWeekdaySet(days...)}
}

// Validate checks the variant payload.
func (r Recurrence) Validate() error {
	switch r.Kind {
	case RecurrenceDaily:
		return nil
	case RecurrenceDaysPerWeek:
		if r.DaysPerWeek < 1 || r.DaysPerWeek > 7 {
			return fmt.Errorf("days per week must be between 1 and 7, got %d", r.DaysPerWeek)
		}
		return nil
	case RecurrenceCustom:
		for _, d := range r.Weekdays {
			if !d.Valid() {
				return fmt.Errorf("invalid weekday: %d", int(d))
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown recurrence kind: %q", r.Kind)
	}
}

func (r Recurrence) String() string {
	switch r.Kind {
	case RecurrenceDaily:
		return "daily"
	case RecurrenceDaysPerWeek:
		return fmt.Sprintf("%d days per week", r.DaysPerWeek)
	case RecurrenceCustom:
		if len(r.Weekdays) == 0 {
			return "custom (no days)"
		}
		return "custom on " + r.Weekdays.String()
	default:
		return "unknown"
	}
}

// PeriodType selects the length of the rolling analytics window.
type PeriodType string

const (
	PeriodMonthly  PeriodType = "monthly"
	PeriodQuarter  PeriodType = "quarter"
	PeriodHalfYear PeriodType = "halfyear"
)

// Months returns the lookback length of the period in calendar months.
func (p PeriodType) Months() int {
	switch p {
	case PeriodQuarter:
		return 3
	case PeriodHalfYear:
		return 6
	default:
		return 1
	}
}

func (p PeriodType) Valid() bool {
	return p == PeriodMonthly || p == PeriodQuarter || p == PeriodHalfYear
}

// ParsePeriodType accepts the persisted names.
func ParsePeriodType(s string) (PeriodType, error) {
	p := PeriodType(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid period type: %s (expected monthly, quarter or halfyear)", s)
	}
	return p, nil
}

type Habit struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	DurationMin     int        `json:"duration_min"`
	Recurrence      Recurrence `json:"recurrence"`
	PeriodType      PeriodType `json:"period_type"`
	CreatedAt       time.Time  `json:"created_at"`
	IsActive        bool       `json:"is_active"`
	ReminderEnabled bool       `json:"reminder_enabled,omitempty"`
	ReminderTime    string     `json:"reminder_time,omitempty"` // HH:MM format
	ScheduleDays    WeekdaySet `json:"schedule_days,omitempty"` // explicit days for days_per_week
}

// UnmarshalJSON fills defaults for fields missing from older documents.
func (h *Habit) UnmarshalJSON(data []byte) error {
	type habitAlias Habit
	aux := habitAlias{
		DurationMin: constants.DefaultDurationMin,
		Recurrence:  Daily(),
		PeriodType:  PeriodMonthly,
		IsActive:    true,
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*h = Habit(aux)
	return nil
}

// Validate checks user-editable fields.
func (h Habit) Validate() error {
	if strings.TrimSpace(h.Title) == "" {
		return fmt.Errorf("habit title is required")
	}
	if h.DurationMin <= 0 {
		return fmt.Errorf("duration must be a positive number of minutes")
	}
	if !h.PeriodType.Valid() {
		return fmt.Errorf("invalid period type: %q", h.PeriodType)
	}
	if h.ReminderEnabled {
		if _, err := time.Parse(constants.TimeFormat, h.ReminderTime); err != nil {
			return fmt.Errorf("invalid reminder time %q (expected HH:MM)", h.ReminderTime)
		}
	}
	return h.Recurrence.Validate()
}
