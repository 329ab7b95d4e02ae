package system

import (
	"testing"

	"github.com/julianstephens/steadiness/internal/cli"
	"github.com/julianstephens/steadiness/internal/constants"
)

func TestDebugCommands(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()
	if err := ctx.Provider.Init(); err != nil {
		t.Fatal(err)
	}

	add := &cli.HabitAddCmd{Title: "Read", Duration: 10, Repeat: "daily", Period: "monthly"}
	if err := add.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&cli.HabitToggleCmd{Habit: "Read"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if err := (&DebugDBPathCmd{}).Run(ctx); err != nil {
		t.Errorf("debug db-path failed: %v", err)
	}
	if err := (&DebugKeysCmd{}).Run(ctx); err != nil {
		t.Errorf("debug keys failed: %v", err)
	}
	if err := (&DebugDumpCmd{Key: constants.DocHabits}).Run(ctx); err != nil {
		t.Errorf("debug dump failed: %v", err)
	}
	if err := (&DebugDumpHabitCmd{Habit: "Read"}).Run(ctx); err != nil {
		t.Errorf("debug dump-habit failed: %v", err)
	}
}

func TestDebugDumpErrors(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()
	if err := ctx.Provider.Init(); err != nil {
		t.Fatal(err)
	}

	if err := (&DebugDumpCmd{Key: constants.DocNotes}).Run(ctx); err == nil {
		t.Error("expected error for a missing document")
	}
	if err := (&DebugDumpCmd{Key: "../etc"}).Run(ctx); err == nil {
		t.Error("expected error for an invalid key")
	}
	if err := ctx.Provider.Put(constants.DocNotes, []byte("{oops")); err != nil {
		t.Fatal(err)
	}
	if err := (&DebugDumpCmd{Key: constants.DocNotes}).Run(ctx); err == nil {
		t.Error("expected error for an unreadable document")
	}
	if err := (&DebugDumpHabitCmd{Habit: "nope"}).Run(ctx); err == nil {
		t.Error("expected error for an unknown habit")
	}
}
