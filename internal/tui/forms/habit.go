// Package forms holds the huh forms shared by the TUI and interactive commands.
package forms

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/steadiness/internal/constants"
	"github.com/julianstephens/steadiness/internal/models"
	"github.com/julianstephens/steadiness/internal/utils"
)

// Repeat choices offered by the wizard.
const (
	RepeatDaily  = "daily"
	RepeatThree  = "3"
	RepeatFive   = "5"
	RepeatCustom = "custom"
)

// HabitFormModel represents the form model for habit creation and editing
type HabitFormModel struct {
	Title    string
	Duration string
	Repeat   string
	Days     []models.Weekday
	Period   models.PeriodType
	Remind   bool
	Time     string
	Active   bool
}

// NewHabitFormModel returns the wizard defaults: five minutes, every day,
// monthly goal, reminder off at defaultReminder.
func NewHabitFormModel(defaultReminder string) *HabitFormModel {
	return &HabitFormModel{
		Duration: strconv.Itoa(constants.DefaultDurationMin),
		Repeat:   RepeatDaily,
		Period:   models.PeriodMonthly,
		Time:     defaultReminder,
		Active:   true,
	}
}

// HabitFormModelFrom prefills the form from an existing habit.
func HabitFormModelFrom(h models.Habit, defaultReminder string) *HabitFormModel {
	fm := NewHabitFormModel(defaultReminder)
	fm.Title = h.Title
	fm.Duration = strconv.Itoa(h.DurationMin)
	fm.Period = h.PeriodType
	fm.Remind = h.ReminderEnabled
	fm.Active = h.IsActive
	if h.ReminderTime != "" {
		fm.Time = h.ReminderTime
	}
	switch h.Recurrence.Kind {
	case models.RecurrenceDaysPerWeek:
		fm.Repeat = strconv.Itoa(h.Recurrence.DaysPerWeek)
		fm.Days = slices.Clone(h.ScheduleDays)
	case models.RecurrenceCustom:
		fm.Repeat = RepeatCustom
		fm.Days = slices.Clone(h.Recurrence.Weekdays)
	}
	return fm
}

// DefaultScheduleDays spreads n days over the week, starting Monday.
func DefaultScheduleDays(n int) models.WeekdaySet {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return models.NewWeekdaySet(models.Monday)
	case n == 2:
		return models.NewWeekdaySet(models.Monday, models.Thursday)
	case n == 3:
		return models.NewWeekdaySet(models.Monday, models.Wednesday, models.Friday)
	case n == 4:
		return models.NewWeekdaySet(models.Monday, models.Tuesday, models.Thursday, models.Friday)
	case n >= 7:
		return models.AllWeekdays
	}
	days := models.WeekdaySet{models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday, models.Saturday}
	return models.NewWeekdaySet(days[:n]...)
}

// Apply copies the form values onto h.
func (fm *HabitFormModel) Apply(h *models.Habit) error {
	title := strings.TrimSpace(fm.Title)
	if title == "" {
		return fmt.Errorf("habit title cannot be empty")
	}
	duration, err := strconv.Atoi(strings.TrimSpace(fm.Duration))
	if err != nil || duration <= 0 {
		return fmt.Errorf("duration must be a positive number of minutes")
	}

	h.Title = title
	h.DurationMin = duration
	h.PeriodType = fm.Period
	h.IsActive = fm.Active
	h.ScheduleDays = nil
	switch fm.Repeat {
	case RepeatDaily:
		h.Recurrence = models.Daily()
	case RepeatCustom:
		h.Recurrence = models.Custom(fm.Days...)
	default:
		n, err := strconv.Atoi(fm.Repeat)
		if err != nil {
			return fmt.Errorf("invalid repeat choice %q", fm.Repeat)
		}
		h.Recurrence = models.DaysPerWeek(n)
		h.ScheduleDays = models.NewWeekdaySet(fm.Days...)
		if len(h.ScheduleDays) == 0 {
			h.ScheduleDays = DefaultScheduleDays(n)
		}
	}

	h.ReminderEnabled = fm.Remind
	if fm.Remind {
		h.ReminderTime = strings.TrimSpace(fm.Time)
	}
	return nil
}

func validateDuration(s string) error {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	if i <= 0 {
		return fmt.Errorf("duration must be a positive number of minutes")
	}
	return nil
}

// NewHabitForm creates the add/edit habit wizard
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	dayOptions := make([]huh.Option[models.Weekday], 0, len(models.AllWeekdays))
	for _, d := range models.AllWeekdays {
		dayOptions = append(dayOptions, huh.NewOption(d.String(), d).Selected(slices.Contains(fm.Days, d)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit").
				Placeholder("Read 10 pages").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit title cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Duration (min)").
				Value(&fm.Duration).
				Validate(validateDuration),
			huh.NewSelect[string]().
				Title("Repeat").
				Options(
					huh.NewOption("Every day", RepeatDaily),
					huh.NewOption("3 days a week", RepeatThree),
					huh.NewOption("5 days a week", RepeatFive),
					huh.NewOption("Pick days", RepeatCustom),
				).
				Value(&fm.Repeat),
		),
		huh.NewGroup(
			huh.NewMultiSelect[models.Weekday]().
				Title("Days").
				Description("Leave empty to use the default days").
				Options(dayOptions...).
				Value(&fm.Days).
				Validate(func(days []models.Weekday) error {
					switch fm.Repeat {
					case RepeatCustom:
						if len(days) == 0 {
							return fmt.Errorf("pick at least one day")
						}
					case RepeatThree, RepeatFive:
						n, _ := strconv.Atoi(fm.Repeat)
						if len(days) != 0 && len(days) != n {
							return fmt.Errorf("pick exactly %d days", n)
						}
					}
					return nil
				}),
		).WithHideFunc(func() bool { return fm.Repeat == RepeatDaily }),
		huh.NewGroup(
			huh.NewSelect[models.PeriodType]().
				Title("Goal period").
				Options(
					huh.NewOption("1 month", models.PeriodMonthly),
					huh.NewOption("3 months", models.PeriodQuarter),
					huh.NewOption("6 months", models.PeriodHalfYear),
				).
				Value(&fm.Period),
			huh.NewConfirm().
				Title("Remind me").
				Value(&fm.Remind),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Reminder time (HH:MM)").
				Value(&fm.Time).
				Validate(func(s string) error {
					if !utils.ValidateTimeFormat(strings.TrimSpace(s)) {
						return fmt.Errorf("expected HH:MM")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return !fm.Remind }),
	).WithTheme(huh.ThemeDracula())
}
