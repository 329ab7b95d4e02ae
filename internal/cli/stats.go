package cli

import (
	"fmt"

	"github.com/julianstephens/steadiness/internal/models"
	"github.com/julianstephens/steadiness/internal/tui/components/goals"
)

// statsScope resolves the optional habit and period flags shared by the stats commands.
func statsScope(ctx *Context, ref, period string) (*models.Habit, models.PeriodType, error) {
	var habit *models.Habit
	pt := models.PeriodMonthly
	if ref != "" {
		h, err := ctx.Store.ResolveHabit(ref)
		if err != nil {
			return nil, "", err
		}
		habit = &h
		pt = h.PeriodType
	}
	if period != "" {
		var err error
		if pt, err = models.ParsePeriodType(period); err != nil {
			return nil, "", err
		}
	}
	return habit, pt, nil
}

type StatsCmd struct {
	Habit  string `help:"Limit the numbers to one habit (id, id prefix or title)."`
	Period string `help:"Rolling window: monthly, quarter or halfyear. Defaults to the habit's goal period, else monthly."`
	Weekly bool   `help:"Show the per-week completion bars." default:"true" negatable:""`
}

func (c *StatsCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	habit, period, err := statsScope(ctx, c.Habit, c.Period)
	if err != nil {
		return err
	}

	st := goals.Collect(ctx.Store, period, habit)
	fmt.Print(goals.Summary(st))
	if c.Weekly {
		fmt.Println()
		fmt.Println(goals.WeeklyBars(st.Weekly))
	}
	return nil
}

type HeatmapCmd struct {
	Habit  string `help:"Limit the heatmap to one habit (id, id prefix or title)."`
	Period string `help:"Rolling window: monthly, quarter or halfyear." default:""`
}

func (c *HeatmapCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	habit, period, err := statsScope(ctx, c.Habit, c.Period)
	if err != nil {
		return err
	}

	st := goals.Collect(ctx.Store, period, habit)
	fmt.Printf("%s, last %s\n\n", st.Title, goals.PeriodLabel(period))
	fmt.Println(goals.Heatmap(st.Weeks, st.FirstWeekday))
	return nil
}

type AchievementsCmd struct{}

// Run re-evaluates badges before listing them, so a streak carried into a
// new day is credited even without a toggle.
func (c *AchievementsCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	earned := ctx.Store.CheckAchievements()
	if len(earned) > 0 {
		if err := ctx.Commit(); err != nil {
			return err
		}
	}

	fmt.Printf("Current streak: %d days\n\n", ctx.Store.Analytics().CurrentStreak(ctx.Store.Today()))
	fmt.Println(goals.Achievements(ctx.Store.Achievements()))
	return nil
}
