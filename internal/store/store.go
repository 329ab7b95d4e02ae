// Package store owns the user's habits, completion records, achievements,
// notes and settings, and persists them as whole documents.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/steadiness/internal/analytics"
	"github.com/julianstephens/steadiness/internal/constants"
	"github.com/julianstephens/steadiness/internal/logger"
	"github.com/julianstephens/steadiness/internal/models"
	"github.com/julianstephens/steadiness/internal/storage"
	"github.com/julianstephens/steadiness/internal/utils"
)

// ErrCorruptDocument marks a document that exists but could not be decoded.
// The affected collection is reset to its default when this is reported.
var ErrCorruptDocument = storage.ErrCorruptDocument

// ErrHabitNotFound is returned by lookups that the caller asked to resolve explicitly.
var ErrHabitNotFound = errors.New("habit not found")

// Store is the single in-process owner of all user data. It is not safe for
// concurrent use; callers mutate it from one goroutine and call Save when done.
type Store struct {
	provider     storage.Provider
	cal          utils.Calendar
	calFixed     bool
	now          func() time.Time
	dirty        bool
	settings     models.Settings
	overrides    map[string]string
	habits       []models.Habit
	records      []models.CompletionRecord
	achievements []models.Achievement
	notes        []models.DayNote
}

// Option configures a Store.
type Option func(*Store)

// WithCalendar pins the calendar instead of deriving it from persisted settings.
func WithCalendar(cal utils.Calendar) Option {
	return func(s *Store) {
		s.cal = cal
		s.calFixed = true
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSettingOverrides layers values over the persisted settings at runtime.
// Overrides are never written back by Save.
func WithSettingOverrides(overrides map[string]string) Option {
	return func(s *Store) { s.overrides = overrides }
}

// New returns an empty store backed by p. Call Load to read persisted state.
func New(p storage.Provider, opts ...Option) *Store {
	s := &Store{
		provider:     p,
		cal:          utils.DefaultCalendar(),
		now:          time.Now,
		settings:     models.DefaultSettings(),
		achievements: models.DefaultAchievements(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads every document once. Missing documents keep their defaults.
// Corrupt documents are reset to defaults and reported as errors wrapping
// ErrCorruptDocument; the store stays usable in that case. Any other error
// means the provider could not be read.
func (s *Store) Load() error {
	var corrupt []error
	load := func(key string, dst any) error {
		body, err := s.provider.Get(key)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("loading %s: %w", key, err)
		}
		if err := json.Unmarshal(body, dst); err != nil {
			logger.Warn("Discarding unreadable document", "key", key, "error", err)
			corrupt = append(corrupt, fmt.Errorf("%w %q: %v", ErrCorruptDocument, key, err))
		}
		return nil
	}

	settings := models.DefaultSettings()
	var habits []models.Habit
	var records []models.CompletionRecord
	var achievements []models.Achievement
	var notes []models.DayNote

	steps := []struct {
		key   string
		dst   any
		reset func()
	}{
		{constants.DocSettings, &settings, func() { settings = models.DefaultSettings() }},
		{constants.DocHabits, &habits, func() { habits = nil }},
		{constants.DocRecords, &records, func() { records = nil }},
		{constants.DocAchievements, &achievements, func() { achievements = nil }},
		{constants.DocNotes, &notes, func() { notes = nil }},
	}
	for _, step := range steps {
		before := len(corrupt)
		if err := load(step.key, step.dst); err != nil {
			return err
		}
		if len(corrupt) > before {
			step.reset()
		}
	}

	s.settings = settings
	s.habits = habits
	s.records = records
	s.achievements = mergeCatalog(achievements)
	s.notes = notes
	s.dirty = false

	if !s.calFixed {
		cal, err := utils.CalendarFromSettings(s.Settings())
		if err != nil {
			logger.Warn("Falling back to default calendar", "error", err)
			cal = utils.DefaultCalendar()
		}
		s.cal = cal
	}
	s.rebaseDays()

	logger.Debug("Store loaded", "habits", len(s.habits), "records", len(s.records), "notes", len(s.notes))
	return errors.Join(corrupt...)
}

// mergeCatalog keeps persisted earn dates for catalog entries and restores missing ones.
func mergeCatalog(persisted []models.Achievement) []models.Achievement {
	catalog := models.DefaultAchievements()
	for i := range catalog {
		for _, p := range persisted {
			if p.ID == catalog[i].ID {
				catalog[i].EarnedAt = p.EarnedAt
			}
		}
	}
	return catalog
}

// Save writes a full snapshot of every document.
func (s *Store) Save() error {
	docs := []struct {
		key string
		v   any
	}{
		{constants.DocSettings, s.settings},
		{constants.DocHabits, nonNil(s.habits)},
		{constants.DocRecords, nonNil(s.records)},
		{constants.DocAchievements, s.achievements},
		{constants.DocNotes, nonNil(s.notes)},
	}
	for _, d := range docs {
		body, err := json.MarshalIndent(d.v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize %s: %w", d.key, err)
		}
		if err := s.provider.Put(d.key, body); err != nil {
			return err
		}
	}
	s.dirty = false
	logger.Debug("Store saved", "provider", s.provider.GetConfigPath())
	return nil
}

func nonNil[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}

// Dirty reports whether there are unsaved mutations.
func (s *Store) Dirty() bool {
	return s.dirty
}

func (s *Store) Calendar() utils.Calendar {
	return s.cal
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// Today returns local midnight of the current day.
func (s *Store) Today() time.Time {
	return s.cal.StartOfDay(s.now())
}

func (s *Store) Provider() storage.Provider {
	return s.provider
}

// Settings returns the effective settings: persisted values with runtime
// overrides applied.
func (s *Store) Settings() models.Settings {
	if len(s.overrides) == 0 {
		return s.settings
	}
	effective, err := models.MapToSettings(s.settings, s.overrides)
	if err != nil {
		logger.Warn("Ignoring invalid setting overrides", "error", err)
		return s.settings
	}
	return effective
}

// PersistedSettings returns the settings as Save would write them.
func (s *Store) PersistedSettings() models.Settings {
	return s.settings
}

// UpdateSettings replaces the persisted settings and rebuilds the calendar.
func (s *Store) UpdateSettings(settings models.Settings) error {
	if _, err := utils.CalendarFromSettings(settings); err != nil {
		return err
	}
	if settings.DefaultReminderTime != "" && !utils.ValidateTimeFormat(settings.DefaultReminderTime) {
		return fmt.Errorf("invalid default reminder time %q (expected HH:MM)", settings.DefaultReminderTime)
	}
	s.settings = settings
	if !s.calFixed {
		cal, err := utils.CalendarFromSettings(s.Settings())
		if err != nil {
			return err
		}
		s.cal = cal
		s.rebaseDays()
	}
	s.dirty = true
	return nil
}

// rebaseDays moves every stored day to midnight of the same date in the
// current calendar location.
func (s *Store) rebaseDays() {
	for i := range s.records {
		s.records[i].Day = s.cal.DateOf(s.records[i].Day)
	}
	for i := range s.notes {
		s.notes[i].Day = s.cal.DateOf(s.notes[i].Day)
	}
}

// Habits returns every habit in creation order.
func (s *Store) Habits() []models.Habit {
	return slices.Clone(s.habits)
}

// Habit looks a habit up by id.
func (s *Store) Habit(id string) (models.Habit, bool) {
	i := s.habitIndex(id)
	if i < 0 {
		return models.Habit{}, false
	}
	return s.habits[i], true
}

// ResolveHabit finds a habit by exact id, unique id prefix, or case-insensitive title.
func (s *Store) ResolveHabit(ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Habit{}, ErrHabitNotFound
	}
	if h, ok := s.Habit(ref); ok {
		return h, nil
	}
	var matches []models.Habit
	for _, h := range s.habits {
		if strings.HasPrefix(h.ID, ref) || strings.EqualFold(h.Title, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("%w: %s", ErrHabitNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, fmt.Errorf("%q matches %d habits, use the id", ref, len(matches))
	}
}

func (s *Store) habitIndex(id string) int {
	return slices.IndexFunc(s.habits, func(h models.Habit) bool { return h.ID == id })
}

// AddHabit validates and appends h, filling ID and CreatedAt when unset.
func (s *Store) AddHabit(h models.Habit) (models.Habit, error) {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = s.now()
	}
	if h.ReminderEnabled && h.ReminderTime == "" {
		h.ReminderTime = s.Settings().DefaultReminderTime
	}
	h.ScheduleDays = models.NewWeekdaySet(h.ScheduleDays...)
	if err := h.Validate(); err != nil {
		return models.Habit{}, err
	}
	if s.habitIndex(h.ID) >= 0 {
		return models.Habit{}, fmt.Errorf("habit %s already exists", h.ID)
	}
	s.habits = append(s.habits, h)
	s.dirty = true
	return h, nil
}

// UpdateHabit replaces the habit with the same id. It is a no-op returning
// false when no such habit exists.
func (s *Store) UpdateHabit(h models.Habit) bool {
	i := s.habitIndex(h.ID)
	if i < 0 {
		return false
	}
	h.ScheduleDays = models.NewWeekdaySet(h.ScheduleDays...)
	s.habits[i] = h
	s.dirty = true
	return true
}

// DeleteHabit removes the habit along with its completion records and
// habit-scoped notes. It is a no-op returning false for an unknown id.
func (s *Store) DeleteHabit(id string) bool {
	i := s.habitIndex(id)
	if i < 0 {
		return false
	}
	s.habits = slices.Delete(s.habits, i, i+1)
	s.records = slices.DeleteFunc(s.records, func(r models.CompletionRecord) bool { return r.HabitID == id })
	s.notes = slices.DeleteFunc(s.notes, func(n models.DayNote) bool { return n.HabitID == id })
	s.dirty = true
	return true
}

// Records returns all completion records.
func (s *Store) Records() []models.CompletionRecord {
	return slices.Clone(s.records)
}

func (s *Store) recordIndex(habitID string, day time.Time) int {
	key := s.cal.DayKey(day)
	return slices.IndexFunc(s.records, func(r models.CompletionRecord) bool {
		return r.HabitID == habitID && utils.StoredDayKey(r.Day) == key
	})
}

// Record returns the record for (habitID, day) if one exists.
func (s *Store) Record(habitID string, day time.Time) (models.CompletionRecord, bool) {
	i := s.recordIndex(habitID, day)
	if i < 0 {
		return models.CompletionRecord{}, false
	}
	return s.records[i], true
}

// Toggle flips the completion of h on day. The first toggle for a day creates
// a completed record worth h.DurationMin minutes; later toggles flip it.
// Achievements are re-evaluated against today afterwards; the newly earned
// ones are returned.
func (s *Store) Toggle(h models.Habit, day time.Time) (models.CompletionRecord, []models.Achievement) {
	var rec models.CompletionRecord
	if i := s.recordIndex(h.ID, day); i >= 0 {
		s.records[i].Completed = !s.records[i].Completed
		rec = s.records[i]
	} else {
		rec = models.CompletionRecord{
			ID:        uuid.NewString(),
			HabitID:   h.ID,
			Day:       s.cal.StartOfDay(day),
			Completed: true,
			Minutes:   h.DurationMin,
		}
		s.records = append(s.records, rec)
	}
	s.dirty = true
	return rec, s.CheckAchievements()
}

// SetRecordNote attaches free text to the record for (habitID, day), creating
// an incomplete record when none exists yet.
func (s *Store) SetRecordNote(habitID string, day time.Time, text string) models.CompletionRecord {
	i := s.recordIndex(habitID, day)
	if i < 0 {
		s.records = append(s.records, models.CompletionRecord{
			ID:      uuid.NewString(),
			HabitID: habitID,
			Day:     s.cal.StartOfDay(day),
		})
		i = len(s.records) - 1
	}
	if text == "" {
		s.records[i].Note = nil
	} else {
		s.records[i].Note = &text
	}
	s.dirty = true
	return s.records[i]
}

// IsHabitCompleted reports whether h has a completed record on day.
func (s *Store) IsHabitCompleted(habitID string, day time.Time) bool {
	r, ok := s.Record(habitID, day)
	return ok && r.Completed
}

// ScheduledHabits returns active habits due on day.
func (s *Store) ScheduledHabits(day time.Time) []models.Habit {
	var due []models.Habit
	for _, h := range s.habits {
		if h.IsActive && utils.IsScheduledOn(h, day, s.cal) {
			due = append(due, h)
		}
	}
	return due
}

// Analytics builds an engine over all records.
func (s *Store) Analytics() *analytics.Engine {
	return analytics.New(s.records, s.cal)
}

// Achievements returns the badge catalog with earn dates.
func (s *Store) Achievements() []models.Achievement {
	return slices.Clone(s.achievements)
}

// CheckAchievements evaluates the streak as of today and stamps newly reached badges.
func (s *Store) CheckAchievements() []models.Achievement {
	now := s.now()
	earned := s.Analytics().CheckAchievements(s.achievements, now, now)
	if len(earned) > 0 {
		s.dirty = true
		for _, a := range earned {
			logger.Info("Achievement earned", "id", a.ID, "threshold", a.Threshold)
		}
	}
	return earned
}

func (s *Store) noteIndex(day time.Time, habitID string) int {
	key := s.cal.DayKey(day)
	return slices.IndexFunc(s.notes, func(n models.DayNote) bool {
		return n.HabitID == habitID && utils.StoredDayKey(n.Day) == key
	})
}

// UpsertNote sets the note for (day, habitID); an empty habitID is a day-level note.
func (s *Store) UpsertNote(day time.Time, habitID, text string) models.DayNote {
	if i := s.noteIndex(day, habitID); i >= 0 {
		s.notes[i].Text = text
		s.dirty = true
		return s.notes[i]
	}
	n := models.DayNote{
		ID:      uuid.NewString(),
		Day:     s.cal.StartOfDay(day),
		HabitID: habitID,
		Text:    text,
	}
	s.notes = append(s.notes, n)
	s.dirty = true
	return n
}

// Note returns the note for (day, habitID).
func (s *Store) Note(day time.Time, habitID string) (models.DayNote, bool) {
	i := s.noteIndex(day, habitID)
	if i < 0 {
		return models.DayNote{}, false
	}
	return s.notes[i], true
}

// Notes returns every note on day, day-level note first.
func (s *Store) Notes(day time.Time) []models.DayNote {
	key := s.cal.DayKey(day)
	var out []models.DayNote
	for _, n := range s.notes {
		if utils.StoredDayKey(n.Day) == key {
			out = append(out, n)
		}
	}
	slices.SortStableFunc(out, func(a, b models.DayNote) int {
		return strings.Compare(a.HabitID, b.HabitID)
	})
	return out
}
