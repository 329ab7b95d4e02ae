package settings

import (
	"fmt"
	"os"

	"github.com/julianstephens/steadiness/internal/cli"
	"github.com/julianstephens/steadiness/internal/config"
	"github.com/julianstephens/steadiness/internal/models"
	"github.com/julianstephens/steadiness/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone           *string `help:"IANA timezone name, or Local."`
	FirstWeekday       *int    `help:"First day of the week, 1=Sunday ... 7=Saturday."`
	MinDaysInFirstWeek *int    `help:"Days the first week of a year must contain (1 for US weeks, 4 for ISO)."`

	NotificationsEnabled *bool   `help:"Enable or disable reminder notifications."`
	DefaultReminderTime  *string `help:"Reminder time (HH:MM) used when a habit does not set one."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	if c.List {
		printSettings(ctx)
		return nil
	}

	settings := ctx.Store.PersistedSettings()
	updated := false
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.FirstWeekday != nil {
		if !models.Weekday(*c.FirstWeekday).Valid() {
			return fmt.Errorf("first weekday must be between 1 and 7, got %d", *c.FirstWeekday)
		}
		settings.FirstWeekday = *c.FirstWeekday
		updated = true
	}
	if c.MinDaysInFirstWeek != nil {
		if *c.MinDaysInFirstWeek < 1 || *c.MinDaysInFirstWeek > 7 {
			return fmt.Errorf("min days in first week must be between 1 and 7, got %d", *c.MinDaysInFirstWeek)
		}
		settings.MinDaysInFirstWeek = *c.MinDaysInFirstWeek
		updated = true
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}
	if c.DefaultReminderTime != nil {
		if !utils.ValidateTimeFormat(*c.DefaultReminderTime) {
			return fmt.Errorf("invalid reminder time: %s (expected HH:MM)", *c.DefaultReminderTime)
		}
		settings.DefaultReminderTime = *c.DefaultReminderTime
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if err := ctx.Store.UpdateSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if err := ctx.Commit(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("Settings updated successfully.")
	return nil
}

func printSettings(ctx *cli.Context) {
	s := ctx.Store.Settings()
	firstWeekday := models.Weekday(s.FirstWeekday)

	fmt.Println("Current Settings:")
	fmt.Printf("  Timezone:              %s\n", s.Timezone)
	fmt.Printf("  First Weekday:         %d (%s)\n", s.FirstWeekday, firstWeekday)
	fmt.Printf("  Min Days First Week:   %d\n", s.MinDaysInFirstWeek)
	fmt.Println("\nReminder Settings:")
	fmt.Printf("  Notifications Enabled: %v\n", s.NotificationsEnabled)
	fmt.Printf("  Default Reminder Time: %s\n", s.DefaultReminderTime)

	fmt.Printf("\nToday is %s (%s).\n", ctx.Store.Today().Format("Mon 2006-01-02"), ctx.Store.Calendar().Location)

	var overridden []string
	for _, key := range models.SettingKeys() {
		name := config.SettingEnvName(key)
		if v, ok := os.LookupEnv(name); ok && v != "" {
			overridden = append(overridden, fmt.Sprintf("%s=%s", name, v))
		}
	}
	if len(overridden) > 0 {
		fmt.Println("\nOverridden by environment (not saved):")
		for _, o := range overridden {
			fmt.Printf("  %s\n", o)
		}
	}
}
