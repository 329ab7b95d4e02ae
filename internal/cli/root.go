package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/steadiness/internal/backup"
	"github.com/julianstephens/steadiness/internal/constants"
	"github.com/julianstephens/steadiness/internal/logger"
	"github.com/julianstephens/steadiness/internal/models"
	"github.com/julianstephens/steadiness/internal/notifier"
	"github.com/julianstephens/steadiness/internal/reminder"
	"github.com/julianstephens/steadiness/internal/storage"
	"github.com/julianstephens/steadiness/internal/store"
	"github.com/julianstephens/steadiness/internal/utils"
)

// Stdin is read by Confirm.
var Stdin io.Reader = os.Stdin

// Confirm asks a y/N question on stdout and reads the answer from Stdin.
func Confirm(prompt string) bool {
	fmt.Printf("%s (y/N): ", prompt)
	reader := bufio.NewReader(Stdin)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// Context is handed to every command's Run method.
type Context struct {
	Provider  storage.Provider
	Store     *store.Store
	Reminders *reminder.LocalCenter
	Notifier  reminder.Sender
}

// NewContext wires a store, a reminder center and the tray notifier over p.
func NewContext(p storage.Provider, opts ...store.Option) *Context {
	return &Context{
		Provider:  p,
		Store:     store.New(p, opts...),
		Reminders: reminder.NewLocalCenter(p),
		Notifier:  notifier.New(),
	}
}

// Load opens the provider and reads all documents. A corrupt document is
// reported on stderr and the command continues with defaults for it.
func (c *Context) Load() error {
	if err := c.Provider.Load(); err != nil {
		return err
	}
	if err := c.Store.Load(); err != nil {
		if !errors.Is(err, store.ErrCorruptDocument) {
			return err
		}
		fmt.Fprintf(os.Stderr, "⚠ %v\n", err)
	}
	if err := c.Reminders.Load(); err != nil {
		if !errors.Is(err, storage.ErrCorruptDocument) {
			return err
		}
		fmt.Fprintf(os.Stderr, "⚠ %v (rebuilt on next save)\n", err)
	}
	return nil
}

// Commit saves pending store mutations and brings the pending reminders in
// line with the current habits.
func (c *Context) Commit() error {
	if c.Store.Dirty() {
		if err := c.Store.Save(); err != nil {
			return fmt.Errorf("failed to save: %w", err)
		}
	}
	if err := c.Reminders.Sync(c.Store.Habits(), c.Store.Settings().NotificationsEnabled); err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}
	return c.Reminders.Save()
}

// ConfigDir is where logs and backups live: next to file-based storage, or
// the user config directory for PostgreSQL and when p is nil.
func ConfigDir(p storage.Provider) (string, error) {
	if p != nil && filepath.IsAbs(p.GetConfigPath()) {
		return filepath.Dir(p.GetConfigPath()), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(dir, constants.AppName), nil
}

// BackupManager returns a manager writing to the default backup directory.
func (c *Context) BackupManager() (*backup.Manager, error) {
	dir, err := backup.DefaultDir(c.Provider)
	if err != nil {
		return nil, err
	}
	return backup.NewManager(c.Provider, dir), nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.BackupManager()
	if err == nil {
		_, err = mgr.CreateBackup()
	}
	if err != nil && !errors.Is(err, backup.ErrNothingToBackup) {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ParseDay resolves YYYY-MM-DD, "today" or "yesterday" in the store calendar.
// An empty string is today.
func (c *Context) ParseDay(s string) (time.Time, error) {
	cal := c.Store.Calendar()
	today := c.Store.Today()
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return cal.AddDays(today, -1), nil
	}
	day, err := cal.ParseDay(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return day, nil
}

var dayMap = map[string]models.Weekday{
	"sun":       models.Sunday,
	"sunday":    models.Sunday,
	"mon":       models.Monday,
	"monday":    models.Monday,
	"tue":       models.Tuesday,
	"tuesday":   models.Tuesday,
	"wed":       models.Wednesday,
	"wednesday": models.Wednesday,
	"thu":       models.Thursday,
	"thursday":  models.Thursday,
	"fri":       models.Friday,
	"friday":    models.Friday,
	"sat":       models.Saturday,
	"saturday":  models.Saturday,
}

// ParseWeekdays parses a comma-separated list of weekday names or numbers
// (1=Sunday ... 7=Saturday).
func ParseWeekdays(s string) (models.WeekdaySet, error) {
	var weekdays []models.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		if wd, ok := dayMap[part]; ok {
			weekdays = append(weekdays, wd)
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || !models.Weekday(num).Valid() {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		weekdays = append(weekdays, models.Weekday(num))
	}
	return models.NewWeekdaySet(weekdays...), nil
}

// ParseRecurrence accepts "daily", "<n>/week" or "<n>x", and "custom".
// Custom recurrences take their days from days.
func ParseRecurrence(s string, days models.WeekdaySet) (models.Recurrence, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "" || s == "daily":
		return models.Daily(), nil
	case s == "custom":
		return models.Custom(days...), nil
	}
	n := strings.TrimSuffix(strings.TrimSuffix(s, "/week"), "x")
	count, err := strconv.Atoi(n)
	if err != nil {
		return models.Recurrence{}, fmt.Errorf("invalid recurrence: %s (expected daily, <n>/week or custom)", s)
	}
	rec := models.DaysPerWeek(count)
	if err := rec.Validate(); err != nil {
		return models.Recurrence{}, err
	}
	return rec, nil
}

// FormatRecurrence formats a habit's recurrence with the days it resolves to.
func FormatRecurrence(h models.Habit) string {
	switch h.Recurrence.Kind {
	case models.RecurrenceDaysPerWeek:
		days := utils.ResolvedDays(h)
		if len(days) == 0 {
			return fmt.Sprintf("%s (no days assigned)", h.Recurrence)
		}
		return fmt.Sprintf("%s on %s", h.Recurrence, days)
	default:
		return h.Recurrence.String()
	}
}

// ShortID is the prefix shown in listings; ResolveHabit accepts it.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
