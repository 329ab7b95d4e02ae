package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/steadiness/internal/models"
	"github.com/julianstephens/steadiness/internal/storage/sqlite"
	"github.com/julianstephens/steadiness/internal/store"
	"github.com/julianstephens/steadiness/internal/utils"
)

// TestIntegrationBackupRestoreWorkflow runs a backup and restore against a
// SQLite-backed habit store.
func TestIntegrationBackupRestoreWorkflow(t *testing.T) {
	tempDir := t.TempDir()
	provider := sqlite.NewStore(filepath.Join(tempDir, "steadiness.db"))
	if err := provider.Init(); err != nil {
		t.Fatalf("failed to init provider: %v", err)
	}
	defer provider.Close()

	cal := utils.Calendar{Location: time.UTC, FirstWeekday: time.Sunday, MinDaysInFirstWeek: 1}
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	open := func() *store.Store {
		s := store.New(provider, store.WithCalendar(cal), store.WithClock(func() time.Time { return now }))
		if err := s.Load(); err != nil {
			t.Fatalf("failed to load store: %v", err)
		}
		return s
	}

	// Step 1: one habit completed today
	s := open()
	h, err := s.AddHabit(models.Habit{Title: "Read", DurationMin: 10, Recurrence: models.Daily(), PeriodType: models.PeriodMonthly, IsActive: true})
	if err != nil {
		t.Fatalf("AddHabit: %v", err)
	}
	s.Toggle(h, now)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Step 2: back up
	mgr := NewManager(provider, filepath.Join(tempDir, "backups"))
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}

	// Step 3: delete the habit, cascading its record
	s.DeleteHabit(h.ID)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := open(); len(got.Habits()) != 0 || len(got.Records()) != 0 {
		t.Fatalf("expected empty store after delete, got %d habits, %d records", len(got.Habits()), len(got.Records()))
	}

	// Step 4: restore
	if _, err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("failed to restore backup: %v", err)
	}

	// Step 5: the habit and its completion are back
	restored := open()
	got, ok := restored.Habit(h.ID)
	if !ok || got.Title != "Read" {
		t.Fatalf("habit not restored: %+v", got)
	}
	if !restored.IsHabitCompleted(h.ID, now) {
		t.Error("completion record not restored")
	}
	if streak := restored.Analytics().CurrentStreak(now); streak != 1 {
		t.Errorf("CurrentStreak() after restore = %d, want 1", streak)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) != 2 {
		t.Errorf("expected original and pre-restore backups, got %d", len(backups))
	}
}

// TestBackupDirectoryCreation tests that backup directory is created if it doesn't exist
func TestBackupDirectoryCreation(t *testing.T) {
	p := setupTestProvider(t)
	mgr := NewManager(p, filepath.Join(t.TempDir(), "nested", "backups"))

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if _, err := os.Stat(mgr.GetBackupDir()); os.IsNotExist(err) {
		t.Error("backup directory was not created")
	}
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		t.Error("backup file was not created")
	}
}
