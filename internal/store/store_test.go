package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/julianstephens/steadiness/internal/constants"
	"github.com/julianstephens/steadiness/internal/models"
	"github.com/julianstephens/steadiness/internal/storage"
	"github.com/julianstephens/steadiness/internal/utils"
)

var testCal = utils.Calendar{Location: time.UTC, FirstWeekday: time.Sunday, MinDaysInFirstWeek: 1}

// 2026-03-10 is a Tuesday.
var today = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func newProvider(t *testing.T) *storage.JSONStore {
	t.Helper()
	p := storage.NewJSONStore(filepath.Join(t.TempDir(), "data"))
	if err := p.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return p
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(newProvider(t), WithCalendar(testCal), WithClock(func() time.Time { return today }))
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func addHabit(t *testing.T, s *Store, title string, rec models.Recurrence) models.Habit {
	t.Helper()
	h, err := s.AddHabit(models.Habit{
		Title:       title,
		DurationMin: 7,
		Recurrence:  rec,
		PeriodType:  models.PeriodMonthly,
		IsActive:    true,
	})
	if err != nil {
		t.Fatalf("AddHabit(%s): %v", title, err)
	}
	return h
}

func TestAddHabitFillsDefaults(t *testing.T) {
	s := newTestStore(t)
	h, err := s.AddHabit(models.Habit{
		Title:           "Meditate",
		DurationMin:     5,
		Recurrence:      models.Daily(),
		PeriodType:      models.PeriodMonthly,
		ReminderEnabled: true,
	})
	if err != nil {
		t.Fatalf("AddHabit: %v", err)
	}
	if h.ID == "" || !h.CreatedAt.Equal(today) {
		t.Errorf("ID/CreatedAt not filled: %+v", h)
	}
	if h.ReminderTime != constants.DefaultReminderTime {
		t.Errorf("ReminderTime = %q, want default %q", h.ReminderTime, constants.DefaultReminderTime)
	}
	if !s.Dirty() {
		t.Error("store should be dirty after AddHabit")
	}

	if _, err := s.AddHabit(models.Habit{Title: "", DurationMin: 5, Recurrence: models.Daily(), PeriodType: models.PeriodMonthly}); err == nil {
		t.Error("expected validation error for empty title")
	}
}

func TestToggleCreatesThenFlips(t *testing.T) {
	s := newTestStore(t)
	h := addHabit(t, s, "Read", models.Daily())

	rec, _ := s.Toggle(h, today)
	if !rec.Completed || rec.Minutes != h.DurationMin {
		t.Errorf("first toggle = %+v, want completed with %d minutes", rec, h.DurationMin)
	}
	if !rec.Day.Equal(testCal.StartOfDay(today)) {
		t.Errorf("record day = %v, want normalized", rec.Day)
	}

	rec, _ = s.Toggle(h, today.Add(3*time.Hour))
	if rec.Completed {
		t.Error("second toggle on the same day should clear completion")
	}
	if n := len(s.Records()); n != 1 {
		t.Errorf("got %d records, want exactly one per (habit, day)", n)
	}
}

func TestToggleInvolution(t *testing.T) {
	s := newTestStore(t)
	habits := []models.Habit{
		addHabit(t, s, "A", models.Daily()),
		addHabit(t, s, "B", models.Custom(models.Monday)),
	}
	for _, h := range habits {
		for i := 0; i < 10; i++ {
			day := testCal.AddDays(today, -i)
			before := s.IsHabitCompleted(h.ID, day)
			s.Toggle(h, day)
			s.Toggle(h, day)
			if after := s.IsHabitCompleted(h.ID, day); after != before {
				t.Fatalf("%s on %s: toggle twice changed %v to %v", h.Title, testCal.DayKey(day), before, after)
			}
			// flip once so the next pass starts from a non-empty state
			s.Toggle(h, day)
		}
	}
}

func TestStreakAndCascadeDelete(t *testing.T) {
	s := newTestStore(t)
	read := addHabit(t, s, "Read", models.Daily())
	walk := addHabit(t, s, "Walk", models.Daily())

	for i := 0; i < 3; i++ {
		s.Toggle(read, testCal.AddDays(today, -i))
	}
	s.Toggle(walk, testCal.AddDays(today, -5))
	s.UpsertNote(today, read.ID, "chapter 3")
	s.UpsertNote(today, "", "good day")

	if got := s.Analytics().CurrentStreak(today); got != 3 {
		t.Fatalf("CurrentStreak() = %d, want 3", got)
	}

	if !s.DeleteHabit(read.ID) {
		t.Fatal("DeleteHabit returned false for existing habit")
	}
	for _, r := range s.Records() {
		if r.HabitID == read.ID {
			t.Fatalf("record %s of deleted habit survived", r.ID)
		}
	}
	if got := s.Analytics().CurrentStreak(today); got != 0 {
		t.Errorf("CurrentStreak() after delete = %d, want 0", got)
	}
	if _, ok := s.Note(today, read.ID); ok {
		t.Error("habit note survived habit deletion")
	}
	if _, ok := s.Note(today, ""); !ok {
		t.Error("day-level note should survive habit deletion")
	}
	if len(s.Records()) != 1 {
		t.Errorf("other habit's records affected: %d left", len(s.Records()))
	}
}

func TestUpdateAndDeleteUnknownAreNoOps(t *testing.T) {
	s := newTestStore(t)
	h := addHabit(t, s, "Read", models.Daily())
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if s.UpdateHabit(models.Habit{ID: "missing", Title: "Ghost"}) {
		t.Error("UpdateHabit of unknown id returned true")
	}
	if s.DeleteHabit("missing") {
		t.Error("DeleteHabit of unknown id returned true")
	}
	if s.Dirty() {
		t.Error("no-op update/delete marked the store dirty")
	}

	h.Title = "Read more"
	if !s.UpdateHabit(h) {
		t.Fatal("UpdateHabit of existing id returned false")
	}
	if got, _ := s.Habit(h.ID); got.Title != "Read more" {
		t.Errorf("title = %q after update", got.Title)
	}
}

func TestNotesUpsert(t *testing.T) {
	s := newTestStore(t)
	first := s.UpsertNote(today, "", "tired")
	second := s.UpsertNote(today.Add(5*time.Hour), "", "tired but went anyway")
	if first.ID != second.ID {
		t.Error("upsert on the same key created a second note")
	}
	s.UpsertNote(today, "habit-1", "page 40")

	notes := s.Notes(today)
	if len(notes) != 2 || notes[0].HabitID != "" || notes[0].Text != "tired but went anyway" {
		t.Errorf("Notes() = %+v", notes)
	}
	if _, ok := s.Note(testCal.AddDays(today, 1), ""); ok {
		t.Error("note found on a different day")
	}
}

func TestSetRecordNote(t *testing.T) {
	s := newTestStore(t)
	h := addHabit(t, s, "Read", models.Daily())

	rec := s.SetRecordNote(h.ID, today, "felt easy")
	if rec.Completed || rec.Note == nil || *rec.Note != "felt easy" {
		t.Errorf("SetRecordNote on empty day = %+v", rec)
	}
	rec, _ = s.Toggle(h, today)
	if !rec.Completed || rec.Note == nil {
		t.Errorf("toggle lost the note or did not complete: %+v", rec)
	}
	if rec = s.SetRecordNote(h.ID, today, ""); rec.Note != nil {
		t.Error("empty text should clear the note")
	}
}

func TestScheduledHabits(t *testing.T) {
	s := newTestStore(t)
	addHabit(t, s, "Daily", models.Daily())
	addHabit(t, s, "Tuesdays", models.Custom(models.Tuesday))
	addHabit(t, s, "Mondays", models.Custom(models.Monday))
	addHabit(t, s, "Unassigned", models.DaysPerWeek(3))
	paused := addHabit(t, s, "Paused", models.Daily())
	paused.IsActive = false
	s.UpdateHabit(paused)

	due := s.ScheduledHabits(today)
	if len(due) != 2 || due[0].Title != "Daily" || due[1].Title != "Tuesdays" {
		t.Errorf("ScheduledHabits() = %v", due)
	}
}

func TestResolveHabit(t *testing.T) {
	s := newTestStore(t)
	h := addHabit(t, s, "Read", models.Daily())
	addHabit(t, s, "Walk", models.Daily())

	for _, ref := range []string{h.ID, h.ID[:8], "read", "READ"} {
		got, err := s.ResolveHabit(ref)
		if err != nil || got.ID != h.ID {
			t.Errorf("ResolveHabit(%q) = %v, %v", ref, got.ID, err)
		}
	}
	if _, err := s.ResolveHabit("swim"); !errors.Is(err, ErrHabitNotFound) {
		t.Errorf("ResolveHabit(swim) error = %v, want ErrHabitNotFound", err)
	}
}

func TestToggleEarnsAchievements(t *testing.T) {
	s := newTestStore(t)
	h := addHabit(t, s, "Read", models.Daily())

	var earned []models.Achievement
	for i := 2; i >= 0; i-- {
		_, earned = s.Toggle(h, testCal.AddDays(today, -i))
	}
	if len(earned) != 1 || earned[0].Threshold != 3 {
		t.Fatalf("earned = %+v, want the 3-day badge", earned)
	}

	// un-completing today drops the streak but keeps the badge
	s.Toggle(h, today)
	for _, a := range s.Achievements() {
		if a.Threshold == 3 && !a.Earned() {
			t.Error("3-day badge was revoked")
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := newProvider(t)
	s := New(p, WithCalendar(testCal), WithClock(func() time.Time { return today }))
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	h := addHabit(t, s, "Read", models.Custom(models.Monday, models.Friday))
	s.Toggle(h, today)
	s.UpsertNote(today, "", "note")
	settings := s.Settings()
	settings.NotificationsEnabled = false
	if err := s.UpdateSettings(settings); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := New(p, WithCalendar(testCal))
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, ok := reloaded.Habit(h.ID)
	if !ok || got.Recurrence.Kind != models.RecurrenceCustom || len(got.Recurrence.Weekdays) != 2 {
		t.Errorf("habit not restored: %+v", got)
	}
	if !reloaded.IsHabitCompleted(h.ID, today) {
		t.Error("completion not restored")
	}
	if _, ok := reloaded.Note(today, ""); !ok {
		t.Error("note not restored")
	}
	if reloaded.Settings().NotificationsEnabled {
		t.Error("settings not restored")
	}
	if len(reloaded.Achievements()) != 3 {
		t.Errorf("achievement catalog has %d entries", len(reloaded.Achievements()))
	}
}

func TestLoadMissingDocumentsUsesDefaults(t *testing.T) {
	s := New(newProvider(t))
	if err := s.Load(); err != nil {
		t.Fatalf("Load on empty provider: %v", err)
	}
	if len(s.Habits()) != 0 || len(s.Achievements()) != 3 {
		t.Errorf("unexpected defaults: %d habits, %d achievements", len(s.Habits()), len(s.Achievements()))
	}
	if s.Settings() != models.DefaultSettings() {
		t.Errorf("Settings() = %+v, want defaults", s.Settings())
	}
}

func TestSettingOverridesAreNotPersisted(t *testing.T) {
	p := newProvider(t)
	s := New(p, WithSettingOverrides(map[string]string{
		constants.SettingTimezone:     "UTC",
		constants.SettingFirstWeekday: "2",
	}))
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := s.Settings().Timezone; got != "UTC" {
		t.Errorf("effective timezone = %q", got)
	}
	if got := s.Calendar().FirstWeekday; got != time.Monday {
		t.Errorf("calendar first weekday = %v, want Monday", got)
	}
	if s.PersistedSettings() != models.DefaultSettings() {
		t.Errorf("persisted settings changed: %+v", s.PersistedSettings())
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	plain := New(p)
	if err := plain.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if plain.Settings().Timezone != constants.DefaultTimezone {
		t.Errorf("override leaked into saved settings: %+v", plain.Settings())
	}
}

func TestLoadCorruptDocumentFallsBack(t *testing.T) {
	p := newProvider(t)
	s := New(p, WithCalendar(testCal), WithClock(func() time.Time { return today }))
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	h := addHabit(t, s, "Read", models.Daily())
	s.Toggle(h, today)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := p.Put(constants.DocRecords, []byte(`[{"id":`)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	reloaded := New(p, WithCalendar(testCal))
	err := reloaded.Load()
	if !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("Load() error = %v, want ErrCorruptDocument", err)
	}
	if len(reloaded.Records()) != 0 {
		t.Error("corrupt records document should fall back to empty")
	}
	if _, ok := reloaded.Habit(h.ID); !ok {
		t.Error("intact habits document should still load")
	}
}

type failingProvider struct{ storage.Provider }

func (failingProvider) Get(string) ([]byte, error) { return nil, errors.New("disk on fire") }

func TestLoadProviderErrorIsNotCorruption(t *testing.T) {
	s := New(failingProvider{})
	err := s.Load()
	if err == nil || errors.Is(err, ErrCorruptDocument) {
		t.Errorf("Load() error = %v, want a non-corruption error", err)
	}
}

func TestSeed(t *testing.T) {
	s := newTestStore(t)
	n, err := s.Seed()
	if err != nil || n != 2 {
		t.Fatalf("Seed() = %d, %v", n, err)
	}
	if n, _ := s.Seed(); n != 0 {
		t.Errorf("second Seed() added %d habits", n)
	}
	// 2026-03-10 is a Tuesday: both samples are due
	if due := s.ScheduledHabits(today); len(due) != 2 {
		t.Errorf("ScheduledHabits() = %d, want 2", len(due))
	}
}

func TestStoredDaysSurviveLocationChange(t *testing.T) {
	p := newProvider(t)
	seoul := utils.Calendar{Location: time.FixedZone("KST", 9*3600), FirstWeekday: time.Sunday, MinDaysInFirstWeek: 1}
	newYork := utils.Calendar{Location: time.FixedZone("EST", -5*3600), FirstWeekday: time.Sunday, MinDaysInFirstWeek: 1}

	// 08:00 on 2026-03-10 in Seoul is still 2026-03-09 in New York.
	s := New(p, WithCalendar(seoul), WithClock(func() time.Time { return time.Date(2026, 3, 10, 8, 0, 0, 0, seoul.Location) }))
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}
	h := addHabit(t, s, "Read", models.Daily())
	s.Toggle(h, s.Today())
	s.UpsertNote(s.Today(), "", "good start")
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}

	moved := New(p, WithCalendar(newYork), WithClock(func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, newYork.Location) }))
	if err := moved.Load(); err != nil {
		t.Fatal(err)
	}
	day := moved.Today()
	if got := newYork.DayKey(day); got != "2026-03-10" {
		t.Fatalf("Today() = %s", got)
	}
	if !moved.IsHabitCompleted(h.ID, day) {
		t.Error("completion moved off 2026-03-10 after the location changed")
	}
	if _, ok := moved.Note(day, ""); !ok {
		t.Error("note moved off 2026-03-10 after the location changed")
	}
	if got := moved.Analytics().CurrentStreak(day); got != 1 {
		t.Errorf("CurrentStreak = %d, want 1", got)
	}

	// toggling the same day flips the existing record instead of adding one
	moved.Toggle(h, day)
	if n := len(moved.Records()); n != 1 {
		t.Errorf("records = %d, want 1", n)
	}
	if moved.IsHabitCompleted(h.ID, day) {
		t.Error("second toggle should clear the completion")
	}
}

func TestUpdateSettingsTimezoneKeepsDays(t *testing.T) {
	p := newProvider(t)
	clock := func() time.Time { return time.Date(2026, 3, 10, 0, 30, 0, 0, time.UTC) }
	s := New(p, WithClock(clock))
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}
	settings := s.PersistedSettings()
	settings.Timezone = "UTC"
	if err := s.UpdateSettings(settings); err != nil {
		t.Fatal(err)
	}
	h := addHabit(t, s, "Read", models.Daily())
	day, err := s.Calendar().ParseDay("2026-03-10")
	if err != nil {
		t.Fatal(err)
	}
	s.Toggle(h, day)

	settings.Timezone = "America/New_York"
	if err := s.UpdateSettings(settings); err != nil {
		t.Fatal(err)
	}
	day, err = s.Calendar().ParseDay("2026-03-10")
	if err != nil {
		t.Fatal(err)
	}
	if !s.IsHabitCompleted(h.ID, day) {
		t.Error("completion moved off 2026-03-10 after the timezone setting changed")
	}
	if !s.Analytics().IsHabitCompleted(h.ID, day) {
		t.Error("analytics moved the completion off 2026-03-10")
	}
}
