package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/steadiness/internal/constants"
	"github.com/julianstephens/steadiness/internal/models"
	"github.com/julianstephens/steadiness/internal/tui/forms"
	"github.com/julianstephens/steadiness/internal/utils"
)

type HabitCmd struct {
	Add      HabitAddCmd      `cmd:"" help:"Add a new habit."`
	List     HabitListCmd     `cmd:"" help:"List habits."`
	Edit     HabitEditCmd     `cmd:"" help:"Edit a habit."`
	Delete   HabitDeleteCmd   `cmd:"" help:"Delete a habit with its history and notes."`
	Toggle   HabitToggleCmd   `cmd:"" help:"Mark a habit done, or undo it, for a day."`
	Today    HabitTodayCmd    `cmd:"" help:"Show today's habits."`
	Schedule HabitScheduleCmd `cmd:"" help:"Pick the days for an N-days-a-week habit."`
}

type HabitAddCmd struct {
	Title       string `arg:"" optional:"" help:"Habit title."`
	Duration    int    `help:"Minutes per session." default:"5"`
	Repeat      string `help:"daily, <n>/week or custom." default:"daily"`
	Days        string `help:"Comma-separated weekdays (mon,wed or 2,4) for custom or <n>/week habits."`
	Period      string `help:"Goal period: monthly, quarter or halfyear." default:"monthly"`
	Remind      bool   `help:"Enable a daily reminder."`
	At          string `help:"Reminder time (HH:MM). Defaults to the default_reminder_time setting."`
	Interactive bool   `short:"i" help:"Fill in the habit with a form."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	var habit models.Habit
	if c.Interactive || c.Title == "" {
		fm := forms.NewHabitFormModel(ctx.Store.Settings().DefaultReminderTime)
		fm.Title = c.Title
		if err := forms.NewHabitForm(fm).Run(); err != nil {
			return fmt.Errorf("habit form: %w", err)
		}
		if err := fm.Apply(&habit); err != nil {
			return err
		}
	} else {
		var err error
		habit, err = c.build()
		if err != nil {
			return err
		}
	}

	added, err := ctx.Store.AddHabit(habit)
	if err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}

	fmt.Printf("✓ Added habit: %s (%s)\n", added.Title, ShortID(added.ID))
	fmt.Printf("  %s, %d min, %s goal\n", FormatRecurrence(added), added.DurationMin, added.PeriodType)
	if added.ReminderEnabled {
		fmt.Printf("  Reminder at %s\n", added.ReminderTime)
	}
	warnUnscheduled(added)
	return nil
}

func (c *HabitAddCmd) build() (models.Habit, error) {
	days, err := ParseWeekdays(c.Days)
	if err != nil {
		return models.Habit{}, err
	}
	rec, err := ParseRecurrence(c.Repeat, days)
	if err != nil {
		return models.Habit{}, err
	}
	period, err := models.ParsePeriodType(c.Period)
	if err != nil {
		return models.Habit{}, err
	}
	if c.At != "" && !utils.ValidateTimeFormat(c.At) {
		return models.Habit{}, fmt.Errorf("invalid reminder time: %s (expected HH:MM)", c.At)
	}

	h := models.Habit{
		Title:           strings.TrimSpace(c.Title),
		DurationMin:     c.Duration,
		Recurrence:      rec,
		PeriodType:      period,
		IsActive:        true,
		ReminderEnabled: c.Remind || c.At != "",
		ReminderTime:    c.At,
	}
	if rec.Kind == models.RecurrenceDaysPerWeek {
		h.ScheduleDays = days
	}
	return h, nil
}

// warnUnscheduled flags N-days-a-week habits that resolve to no days.
func warnUnscheduled(h models.Habit) {
	if h.Recurrence.Kind == models.RecurrenceDaysPerWeek && len(utils.ResolvedDays(h)) == 0 {
		fmt.Printf("⚠ No days assigned yet. Run 'steadiness habit schedule %s <days>' to schedule it.\n", ShortID(h.ID))
	}
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	habits := ctx.Store.Habits()
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	for _, h := range habits {
		status := ""
		if !h.IsActive {
			status = " [PAUSED]"
		}
		reminder := ""
		if h.ReminderEnabled {
			reminder = ", reminder " + h.ReminderTime
		}
		fmt.Printf("%s  %s%s\n", ShortID(h.ID), h.Title, status)
		fmt.Printf("          %s, %d min, %s goal%s\n", FormatRecurrence(h), h.DurationMin, h.PeriodType, reminder)
	}

	return nil
}

type HabitEditCmd struct {
	Habit       string  `arg:"" help:"Habit id, id prefix or title."`
	Title       *string `help:"New title."`
	Duration    *int    `help:"Minutes per session."`
	Repeat      *string `help:"daily, <n>/week or custom."`
	Days        *string `help:"Comma-separated weekdays for custom or <n>/week habits."`
	Period      *string `help:"Goal period: monthly, quarter or halfyear."`
	Remind      *bool   `help:"Enable or disable the reminder."`
	At          *string `help:"Reminder time (HH:MM)."`
	Active      *bool   `help:"Pause (--no-active) or resume (--active) the habit."`
	Interactive bool    `short:"i" help:"Edit the habit with a form."`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	habit, err := ctx.Store.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	if c.Interactive {
		fm := forms.HabitFormModelFrom(habit, ctx.Store.Settings().DefaultReminderTime)
		if err := forms.NewHabitForm(fm).Run(); err != nil {
			return fmt.Errorf("habit form: %w", err)
		}
		if err := fm.Apply(&habit); err != nil {
			return err
		}
	} else if err := c.apply(&habit); err != nil {
		return err
	}

	if habit.ReminderEnabled && habit.ReminderTime == "" {
		habit.ReminderTime = ctx.Store.Settings().DefaultReminderTime
	}
	if err := habit.Validate(); err != nil {
		return err
	}
	ctx.Store.UpdateHabit(habit)
	if err := ctx.Commit(); err != nil {
		return err
	}

	fmt.Printf("✓ Updated habit: %s\n", habit.Title)
	warnUnscheduled(habit)
	return nil
}

func (c *HabitEditCmd) apply(h *models.Habit) error {
	if c.Title != nil {
		h.Title = strings.TrimSpace(*c.Title)
	}
	if c.Duration != nil {
		h.DurationMin = *c.Duration
	}

	var days models.WeekdaySet
	if c.Days != nil {
		var err error
		if days, err = ParseWeekdays(*c.Days); err != nil {
			return err
		}
	}
	switch {
	case c.Repeat != nil:
		if c.Days == nil && h.Recurrence.Kind == models.RecurrenceCustom {
			days = h.Recurrence.Weekdays
		}
		rec, err := ParseRecurrence(*c.Repeat, days)
		if err != nil {
			return err
		}
		h.Recurrence = rec
		h.ScheduleDays = nil
		if rec.Kind == models.RecurrenceDaysPerWeek {
			h.ScheduleDays = days
		}
	case c.Days != nil && h.Recurrence.Kind == models.RecurrenceCustom:
		h.Recurrence = models.Custom(days...)
	case c.Days != nil && h.Recurrence.Kind == models.RecurrenceDaysPerWeek:
		h.ScheduleDays = days
	case c.Days != nil:
		return fmt.Errorf("--days applies to custom or <n>/week habits")
	}

	if c.Period != nil {
		period, err := models.ParsePeriodType(*c.Period)
		if err != nil {
			return err
		}
		h.PeriodType = period
	}
	if c.Remind != nil {
		h.ReminderEnabled = *c.Remind
	}
	if c.At != nil {
		if !utils.ValidateTimeFormat(*c.At) {
			return fmt.Errorf("invalid reminder time: %s (expected HH:MM)", *c.At)
		}
		h.ReminderTime = *c.At
		if c.Remind == nil {
			h.ReminderEnabled = true
		}
	}
	if c.Active != nil {
		h.IsActive = *c.Active
	}
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or title."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	habit, err := ctx.Store.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes && !Confirm(fmt.Sprintf("Delete %q with its completion history and notes?", habit.Title)) {
		fmt.Println("Deletion cancelled.")
		return nil
	}

	ctx.Store.DeleteHabit(habit.ID)
	if err := ctx.Commit(); err != nil {
		return err
	}

	fmt.Printf("✓ Deleted habit: %s\n", habit.Title)
	return nil
}

type HabitToggleCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or title."`
	Date  string `help:"Date in YYYY-MM-DD format, today or yesterday (default: today)." default:""`
}

func (c *HabitToggleCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	habit, err := ctx.Store.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	day, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}

	rec, earned := ctx.Store.Toggle(habit, day)
	if err := ctx.Commit(); err != nil {
		return err
	}

	dayStr := day.Format(constants.DateFormat)
	if rec.Completed {
		fmt.Printf("✓ Marked %q done for %s\n", habit.Title, dayStr)
	} else {
		fmt.Printf("○ Unmarked %q for %s\n", habit.Title, dayStr)
	}
	if streak := ctx.Store.Analytics().CurrentStreak(ctx.Store.Today()); streak > 0 {
		fmt.Printf("  Current streak: %d days\n", streak)
	}
	for _, a := range earned {
		fmt.Printf("★ Badge earned: %s\n", a.Title)
	}
	return nil
}

type HabitTodayCmd struct {
	Date string `help:"Show another day instead (YYYY-MM-DD)." default:""`
}

func (c *HabitTodayCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	day, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}

	habits := ctx.Store.ScheduledHabits(day)
	if len(habits) == 0 {
		fmt.Printf("Nothing scheduled for %s.\n", day.Format(constants.DateFormat))
		return nil
	}

	done, total := ctx.Store.Analytics().TodayCounts(habits, day)
	fmt.Printf("%s  (%d/%d done)\n\n", day.Format("Mon, Jan 2"), done, total)
	for _, h := range habits {
		mark := "○"
		if ctx.Store.IsHabitCompleted(h.ID, day) {
			mark = "✓"
		}
		line := fmt.Sprintf("  %s %s  %d min", mark, h.Title, h.DurationMin)
		if h.ReminderEnabled {
			line += "  ⏰ " + h.ReminderTime
		}
		fmt.Println(line)
		if rec, ok := ctx.Store.Record(h.ID, day); ok && rec.Note != nil {
			fmt.Printf("      %s\n", *rec.Note)
		}
	}
	return nil
}

type HabitScheduleCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or title."`
	Days  string `arg:"" help:"Comma-separated weekdays, e.g. mon,wed,fri or 2,4,6."`
}

func (c *HabitScheduleCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	habit, err := ctx.Store.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	if habit.Recurrence.Kind != models.RecurrenceDaysPerWeek {
		return fmt.Errorf("%q repeats %s; only <n>/week habits take explicit days", habit.Title, habit.Recurrence)
	}
	days, err := ParseWeekdays(c.Days)
	if err != nil {
		return err
	}

	habit.ScheduleDays = days
	ctx.Store.UpdateHabit(habit)
	if err := ctx.Commit(); err != nil {
		return err
	}

	fmt.Printf("✓ %s: %s\n", habit.Title, FormatRecurrence(habit))
	if len(days) != habit.Recurrence.DaysPerWeek {
		fmt.Printf("⚠ %d days picked for a %d-days-a-week habit\n", len(days), habit.Recurrence.DaysPerWeek)
	}
	return nil
}
