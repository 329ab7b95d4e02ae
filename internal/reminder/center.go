package reminder

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/julianstephens/steadiness/internal/constants"
	"github.com/julianstephens/steadiness/internal/logger"
	"github.com/julianstephens/steadiness/internal/models"
	"github.com/julianstephens/steadiness/internal/notifier"
	"github.com/julianstephens/steadiness/internal/storage"
	"github.com/julianstephens/steadiness/internal/utils"
)

// LocalCenter keeps pending triggers in the reminders document.
type LocalCenter struct {
	provider storage.Provider
	triggers map[string]Trigger
	dirty    bool
}

func NewLocalCenter(p storage.Provider) *LocalCenter {
	return &LocalCenter{provider: p, triggers: make(map[string]Trigger)}
}

// Load reads the pending triggers. An undecodable document leaves the center
// empty and dirty so the next Sync and Save rewrite it; the error wraps
// storage.ErrCorruptDocument.
func (c *LocalCenter) Load() error {
	c.triggers = make(map[string]Trigger)
	c.dirty = false
	data, err := c.provider.Get(constants.DocReminders)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	var list []Trigger
	if err := json.Unmarshal(data, &list); err != nil {
		logger.Warn("reminders document unreadable, starting empty", "error", err)
		c.dirty = true
		return fmt.Errorf("%w %q: %v", storage.ErrCorruptDocument, constants.DocReminders, err)
	}
	for _, t := range list {
		c.triggers[t.ID] = t
	}
	return nil
}

// Save writes the pending triggers if anything changed since Load.
func (c *LocalCenter) Save() error {
	if !c.dirty {
		return nil
	}
	data, err := json.MarshalIndent(c.Pending(), "", "  ")
	if err != nil {
		return err
	}
	if err := c.provider.Put(constants.DocReminders, data); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

func (c *LocalCenter) Add(t Trigger) error {
	if t.ID == "" {
		return errors.New("trigger id is required")
	}
	c.triggers[t.ID] = t
	c.dirty = true
	return nil
}

func (c *LocalCenter) Remove(ids ...string) error {
	for _, id := range ids {
		if _, ok := c.triggers[id]; ok {
			delete(c.triggers, id)
			c.dirty = true
		}
	}
	return nil
}

// Pending lists triggers ordered by weekday, time, then id.
func (c *LocalCenter) Pending() []Trigger {
	out := make([]Trigger, 0, len(c.triggers))
	for _, t := range c.triggers {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b Trigger) int {
		return cmp.Or(
			cmp.Compare(a.Weekday, b.Weekday),
			cmp.Compare(a.Hour, b.Hour),
			cmp.Compare(a.Minute, b.Minute),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return out
}

// Due returns the triggers matching now's weekday and minute in cal that
// have not already fired during that minute.
func (c *LocalCenter) Due(now time.Time, cal utils.Calendar) []Trigger {
	local := cal.In(now)
	minute := local.Truncate(time.Minute)
	wd := cal.Weekday(local)

	var due []Trigger
	for _, t := range c.Pending() {
		if t.Weekday != wd || t.Hour != local.Hour() || t.Minute != local.Minute() {
			continue
		}
		if t.LastFired != nil && !cal.In(*t.LastFired).Before(minute) {
			continue
		}
		due = append(due, t)
	}
	return due
}

func (c *LocalCenter) MarkFired(id string, at time.Time) {
	t, ok := c.triggers[id]
	if !ok {
		return
	}
	at = at.Truncate(time.Minute)
	t.LastFired = &at
	c.triggers[id] = t
	c.dirty = true
}

// Sync rebuilds the pending set from habits. With notifications disabled every
// trigger is dropped.
func (c *LocalCenter) Sync(habits []models.Habit, enabled bool) error {
	prev := maps.Clone(c.triggers)
	keep := make(map[string]bool)
	if enabled {
		for _, h := range habits {
			if err := Reschedule(c, h); err != nil {
				return err
			}
			for _, id := range IDs(h.ID) {
				t, ok := c.triggers[id]
				if !ok {
					continue
				}
				keep[id] = true
				if old, ok := prev[id]; ok && old.LastFired != nil {
					t.LastFired = old.LastFired
					c.triggers[id] = t
				}
			}
		}
	}
	for id := range c.triggers {
		if !keep[id] {
			delete(c.triggers, id)
			c.dirty = true
		}
	}
	return nil
}

// Sender delivers a notification. *notifier.Notifier satisfies it.
type Sender interface {
	Notify(ctx context.Context, n notifier.Notification) error
}

// Fire sends every due trigger and records the ones that were delivered.
// Delivery failures are logged and joined; undelivered triggers stay eligible
// for the rest of the minute.
func (c *LocalCenter) Fire(ctx context.Context, s Sender, now time.Time, cal utils.Calendar) (int, error) {
	var (
		sent int
		errs []error
	)
	for _, t := range c.Due(now, cal) {
		err := s.Notify(ctx, notifier.Notification{Title: t.Title, Body: t.Body, URL: t.URL})
		if err != nil {
			logger.Warn("reminder delivery failed", "id", t.ID, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", t.ID, err))
			continue
		}
		logger.Debug("reminder delivered", "id", t.ID)
		c.MarkFired(t.ID, now)
		sent++
	}
	return sent, errors.Join(errs...)
}
