package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/steadiness/internal/cli"
	"github.com/julianstephens/steadiness/internal/constants"
	"github.com/julianstephens/steadiness/internal/storage"
	"github.com/julianstephens/steadiness/internal/storage/sqlite"
	"github.com/julianstephens/steadiness/internal/store"
	"github.com/julianstephens/steadiness/internal/utils"
)

var testCal = utils.Calendar{Location: time.UTC, FirstWeekday: time.Sunday, MinDaysInFirstWeek: 1}

// 2026-03-10 07:30 UTC, a Tuesday.
var testNow = time.Date(2026, 3, 10, 7, 30, 0, 0, time.UTC)

func newTestContext(p storage.Provider) *cli.Context {
	return cli.NewContext(p, store.WithCalendar(testCal), store.WithClock(func() time.Time { return testNow }))
}

func setupTestInitDB(t *testing.T) (*cli.Context, string, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	p := sqlite.NewStore(dbPath)
	cleanup := func() {
		if err := p.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
	return newTestContext(p), dbPath, cleanup
}

func TestInitCmd_Success(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Errorf("init command failed: %v", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	cmd := &InitCmd{Seed: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("second init failed (should be idempotent): %v", err)
	}
	if n := len(ctx.Store.Habits()); n != len(store.SampleHabits()) {
		t.Errorf("expected sample habits once, got %d habits", n)
	}
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{Seed: true}).Run(ctx); err != nil {
		t.Fatalf("initial init failed: %v", err)
	}
	if keys, _ := ctx.Provider.Keys(); len(keys) == 0 {
		t.Fatal("seeding should have written documents")
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("force init failed: %v", err)
	}
	if keys, _ := ctx.Provider.Keys(); len(keys) != 0 {
		t.Errorf("force init left documents behind: %v", keys)
	}
}

func TestInitCmd_MigrateFromJSON(t *testing.T) {
	srcDir := filepath.Join(t.TempDir(), "data")
	src := storage.NewJSONStore(srcDir)
	if err := src.Init(); err != nil {
		t.Fatal(err)
	}
	srcCtx := newTestContext(src)
	add := &cli.HabitAddCmd{Title: "Read", Duration: 10, Repeat: "daily", Period: "monthly"}
	if err := add.Run(srcCtx); err != nil {
		t.Fatal(err)
	}
	if err := (&cli.HabitToggleCmd{Habit: "Read"}).Run(srcCtx); err != nil {
		t.Fatal(err)
	}

	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()
	if err := (&InitCmd{Source: srcDir}).Run(ctx); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	if err := ctx.Load(); err != nil {
		t.Fatal(err)
	}
	if len(ctx.Store.Habits()) != 1 || len(ctx.Store.Records()) != 1 {
		t.Errorf("migrated habits = %d, records = %d", len(ctx.Store.Habits()), len(ctx.Store.Records()))
	}
	if _, err := ctx.Provider.Get(constants.DocRecords); err != nil {
		t.Errorf("records document not migrated: %v", err)
	}
}

func TestInitCmd_SourceSameAsDestination(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{Force: true, Source: dbPath}).Run(ctx); err == nil {
		t.Error("expected error when source and destination are the same")
	}
}

func TestInitCmd_MissingSource(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	missing := filepath.Join(t.TempDir(), "missing.db")
	if err := (&InitCmd{Source: missing}).Run(ctx); err == nil {
		t.Error("expected error for a missing source")
	}
}
