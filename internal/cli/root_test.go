package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/julianstephens/steadiness/internal/constants"
	"github.com/julianstephens/steadiness/internal/models"
)

func TestParseWeekdays(t *testing.T) {
	tests := []struct {
		in      string
		want    models.WeekdaySet
		wantErr bool
	}{
		{"mon,wed,fri", models.WeekdaySet{models.Monday, models.Wednesday, models.Friday}, false},
		{"Sunday, saturday", models.WeekdaySet{models.Sunday, models.Saturday}, false},
		{"1,7", models.WeekdaySet{models.Sunday, models.Saturday}, false},
		{"fri,2,fri", models.WeekdaySet{models.Monday, models.Friday}, false},
		{"", models.WeekdaySet{}, false},
		{"0", nil, true},
		{"8", nil, true},
		{"funday", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekdays(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekdays(%q) error = %v", tt.in, err)
			}
			if !tt.wantErr && !slices.Equal(got, tt.want) {
				t.Errorf("ParseWeekdays(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRecurrence(t *testing.T) {
	days := models.WeekdaySet{models.Tuesday}
	tests := []struct {
		in      string
		want    models.Recurrence
		wantErr bool
	}{
		{"daily", models.Daily(), false},
		{"", models.Daily(), false},
		{"3/week", models.DaysPerWeek(3), false},
		{"5x", models.DaysPerWeek(5), false},
		{"custom", models.Custom(models.Tuesday), false},
		{"8/week", models.Recurrence{}, true},
		{"weekly", models.Recurrence{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRecurrence(tt.in, days)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRecurrence(%q) error = %v", tt.in, err)
			}
			if tt.wantErr {
				return
			}
			if got.Kind != tt.want.Kind || got.DaysPerWeek != tt.want.DaysPerWeek || !slices.Equal(got.Weekdays, tt.want.Weekdays) {
				t.Errorf("ParseRecurrence(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatRecurrence(t *testing.T) {
	h := models.Habit{Recurrence: models.DaysPerWeek(3)}
	if got := FormatRecurrence(h); !strings.Contains(got, "no days assigned") {
		t.Errorf("FormatRecurrence() = %q", got)
	}
	h.ScheduleDays = models.NewWeekdaySet(models.Monday, models.Friday)
	if got := FormatRecurrence(h); got != "3 days per week on Mon,Fri" {
		t.Errorf("FormatRecurrence() = %q", got)
	}
	if got := FormatRecurrence(models.Habit{Recurrence: models.Daily()}); got != "daily" {
		t.Errorf("FormatRecurrence(daily) = %q", got)
	}
}

func TestConfirm(t *testing.T) {
	old := Stdin
	defer func() { Stdin = old }()

	for in, want := range map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false, "": false} {
		Stdin = strings.NewReader(in)
		if got := Confirm("ok?"); got != want {
			t.Errorf("Confirm with %q = %v, want %v", in, got, want)
		}
	}
}

func TestLoadRebuildsCorruptReminders(t *testing.T) {
	ctx, dir := setupTestContext(t)
	addTestHabit(t, ctx, HabitAddCmd{Title: "Read", At: "07:30"})
	if err := os.WriteFile(filepath.Join(dir, constants.DocReminders+".json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	fresh := newTestContext(ctx.Provider)
	if err := fresh.Load(); err != nil {
		t.Fatalf("Load should tolerate a corrupt reminders document: %v", err)
	}
	if len(fresh.Store.Habits()) != 1 {
		t.Errorf("habits = %d, want 1", len(fresh.Store.Habits()))
	}
	if err := fresh.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if n := len(reopen(t, fresh).Reminders.Pending()); n != 7 {
		t.Errorf("pending reminders after rebuild = %d, want 7", n)
	}
}
