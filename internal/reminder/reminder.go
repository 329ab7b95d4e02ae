// Package reminder turns habit reminder settings into weekly recurring triggers.
package reminder

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/steadiness/internal/constants"
	"github.com/julianstephens/steadiness/internal/deeplink"
	"github.com/julianstephens/steadiness/internal/models"
	"github.com/julianstephens/steadiness/internal/utils"
)

// Trigger fires every week on Weekday at Hour:Minute.
type Trigger struct {
	ID        string         `json:"id"`
	HabitID   string         `json:"habit_id"`
	Weekday   models.Weekday `json:"weekday"`
	Hour      int            `json:"hour"`
	Minute    int            `json:"minute"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	URL       string         `json:"url"`
	LastFired *time.Time     `json:"last_fired,omitempty"`
}

// Clock renders the trigger time as HH:MM.
func (t Trigger) Clock() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Center is a notification scheduler keyed by trigger id.
type Center interface {
	Add(t Trigger) error
	Remove(ids ...string) error
}

// ID is the stable identifier of a habit's trigger on wd.
func ID(habitID string, wd models.Weekday) string {
	return constants.ReminderIDPrefix + "." + habitID + "." + strconv.Itoa(int(wd))
}

// IDs returns all seven possible trigger ids of a habit, Sunday first.
func IDs(habitID string) []string {
	ids := make([]string, 0, len(models.AllWeekdays))
	for _, wd := range models.AllWeekdays {
		ids = append(ids, ID(habitID, wd))
	}
	return ids
}

// HabitIDFromTriggerID extracts the habit id from a trigger id.
func HabitIDFromTriggerID(id string) (string, bool) {
	rest, ok := strings.CutPrefix(id, constants.ReminderIDPrefix+".")
	if !ok {
		return "", false
	}
	i := strings.LastIndex(rest, ".")
	if i <= 0 {
		return "", false
	}
	return rest[:i], true
}

// BuildTriggers computes one trigger per weekday the habit is scheduled on.
// Habits that are inactive, have reminders off or have no reminder time get none.
func BuildTriggers(h models.Habit) ([]Trigger, error) {
	if !h.IsActive || !h.ReminderEnabled || h.ReminderTime == "" {
		return nil, nil
	}
	hour, minute, err := utils.ParseClock(h.ReminderTime)
	if err != nil {
		return nil, fmt.Errorf("habit %s: %w", h.ID, err)
	}

	days := utils.ResolvedDays(h)
	triggers := make([]Trigger, 0, len(days))
	for _, wd := range days {
		triggers = append(triggers, Trigger{
			ID:      ID(h.ID, wd),
			HabitID: h.ID,
			Weekday: wd,
			Hour:    hour,
			Minute:  minute,
			Title:   constants.NotificationTitle,
			Body:    fmt.Sprintf(constants.NotificationBodyFormat, h.Title),
			URL:     deeplink.HabitURL(h.ID),
		})
	}
	return triggers, nil
}

// Reschedule replaces every trigger of h with a fresh set.
func Reschedule(c Center, h models.Habit) error {
	if err := c.Remove(IDs(h.ID)...); err != nil {
		return err
	}
	triggers, err := BuildTriggers(h)
	if err != nil {
		return err
	}
	for _, t := range triggers {
		if err := c.Add(t); err != nil {
			return err
		}
	}
	return nil
}

// Cancel removes every trigger of a habit.
func Cancel(c Center, habitID string) error {
	return c.Remove(IDs(habitID)...)
}
