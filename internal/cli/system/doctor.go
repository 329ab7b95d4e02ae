package system

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/steadiness/internal/cli"
	"github.com/julianstephens/steadiness/internal/constants"
	"github.com/julianstephens/steadiness/internal/keyring"
	"github.com/julianstephens/steadiness/internal/logger"
	"github.com/julianstephens/steadiness/internal/migration"
	"github.com/julianstephens/steadiness/internal/notifier"
	"github.com/julianstephens/steadiness/internal/reminder"
	"github.com/julianstephens/steadiness/internal/store"
	"github.com/julianstephens/steadiness/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name    string
	run     func(ctx *cli.Context) error
	needsDB bool
	warning bool // failures are reported but do not fail the command
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Documents readable", run: checkDocuments, needsDB: true},
	{name: "Habit integrity", run: checkHabitsIntegrity, needsDB: true},
	{name: "Completion records", run: checkRecords, needsDB: true},
	{name: "Pending reminders", run: checkReminders, needsDB: true},
	{name: "Clock/timezone", run: checkClockTimezone, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, needsDB: true, warning: true},
	{name: "OS keyring", run: checkKeyring, warning: true},
	{name: "Tray notifier", run: checkTray, warning: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := ctx.Provider.Load(); err != nil {
		fmt.Printf("❌ Storage reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Storage reachable: OK\n")
		dbReachable = true
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warning:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	if dir, err := cli.ConfigDir(ctx.Provider); err == nil {
		if logPath := logger.LogFilePath(dir); fileExists(logPath) {
			fmt.Printf("\nLog file: %s\n", logPath)
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	db, ok := ctx.Provider.(interface {
		SchemaRunner() (*migration.Runner, error)
	})
	if !ok {
		// JSON documents carry no schema
		return nil
	}
	runner, err := db.SchemaRunner()
	if err != nil {
		return err
	}

	current, err := runner.GetCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := runner.GetLatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkDocuments(ctx *cli.Context) error {
	err := ctx.Store.Load()
	if errors.Is(err, store.ErrCorruptDocument) {
		return fmt.Errorf("%w (fix or restore from backup, the next save overwrites it)", err)
	}
	return err
}

func checkHabitsIntegrity(ctx *cli.Context) error {
	seen := make(map[string]bool)
	for _, h := range ctx.Store.Habits() {
		if seen[h.ID] {
			return fmt.Errorf("duplicate habit ID found: %s", h.ID)
		}
		seen[h.ID] = true
		if err := h.Validate(); err != nil {
			return fmt.Errorf("habit %s (%s): %w", cli.ShortID(h.ID), h.Title, err)
		}
	}
	return nil
}

func checkRecords(ctx *cli.Context) error {
	seen := make(map[string]bool)
	orphaned := 0
	for _, r := range ctx.Store.Records() {
		if _, ok := ctx.Store.Habit(r.HabitID); !ok {
			orphaned++
		}
		day := utils.StoredDayKey(r.Day)
		key := r.HabitID + "|" + day
		if seen[key] {
			return fmt.Errorf("found duplicate records for habit %s on %s", cli.ShortID(r.HabitID), day)
		}
		seen[key] = true
	}
	if orphaned > 0 {
		return fmt.Errorf("found %d records referencing non-existent habits", orphaned)
	}
	return nil
}

func checkReminders(ctx *cli.Context) error {
	if err := ctx.Reminders.Load(); err != nil {
		return err
	}
	stale := 0
	for _, t := range ctx.Reminders.Pending() {
		id, ok := reminder.HabitIDFromTriggerID(t.ID)
		if !ok {
			stale++
			continue
		}
		if h, found := ctx.Store.Habit(id); !found || !h.ReminderEnabled || !h.IsActive {
			stale++
		}
	}
	if stale > 0 {
		return fmt.Errorf("found %d reminders without a matching habit (run 'steadiness reminder sync')", stale)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, err := utils.CalendarFromSettings(ctx.Store.Settings()); err != nil {
		return err
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return errors.New("OS keyring is not available; PostgreSQL connection strings must be passed with --config")
	}
	return nil
}

func checkTray(ctx *cli.Context) error {
	if err := notifier.TrayStatus(); err != nil {
		return fmt.Errorf("%w; reminders will not be shown", err)
	}
	return nil
}
