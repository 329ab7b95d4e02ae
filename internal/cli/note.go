package cli

import (
	"fmt"

	"github.com/julianstephens/steadiness/internal/constants"
)

type NoteCmd struct {
	Set  NoteSetCmd  `cmd:"" help:"Write the note for a day, optionally scoped to a habit."`
	Show NoteShowCmd `cmd:"" help:"Show the notes for a day."`
}

type NoteSetCmd struct {
	Text   string `arg:"" help:"Note text. An empty string clears a completion note."`
	Habit  string `help:"Scope the note to a habit (id, id prefix or title)."`
	Date   string `help:"Date in YYYY-MM-DD format, today or yesterday (default: today)." default:""`
	Record bool   `help:"Attach the text to the habit's completion record instead of the day notes."`
}

func (c *NoteSetCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	day, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}

	habitID, habitTitle := "", ""
	if c.Habit != "" {
		h, err := ctx.Store.ResolveHabit(c.Habit)
		if err != nil {
			return err
		}
		habitID, habitTitle = h.ID, h.Title
	}

	if c.Record {
		if habitID == "" {
			return fmt.Errorf("--record needs --habit")
		}
		ctx.Store.SetRecordNote(habitID, day, c.Text)
	} else {
		ctx.Store.UpsertNote(day, habitID, c.Text)
	}
	if err := ctx.Commit(); err != nil {
		return err
	}

	target := "day"
	if habitTitle != "" {
		target = habitTitle
	}
	fmt.Printf("✓ Saved note for %s on %s\n", target, day.Format(constants.DateFormat))
	return nil
}

type NoteShowCmd struct {
	Date string `arg:"" optional:"" help:"Date in YYYY-MM-DD format, today or yesterday (default: today)."`
}

func (c *NoteShowCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	day, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}

	title := func(habitID string) string {
		if h, ok := ctx.Store.Habit(habitID); ok {
			return h.Title
		}
		return ShortID(habitID)
	}

	found := false
	fmt.Printf("Notes for %s:\n", day.Format(constants.DateFormat))
	for _, n := range ctx.Store.Notes(day) {
		found = true
		if n.HabitID == "" {
			fmt.Printf("  [day] %s\n", n.Text)
		} else {
			fmt.Printf("  [%s] %s\n", title(n.HabitID), n.Text)
		}
	}
	for _, h := range ctx.Store.Habits() {
		if rec, ok := ctx.Store.Record(h.ID, day); ok && rec.Note != nil {
			found = true
			fmt.Printf("  [%s, completion] %s\n", h.Title, *rec.Note)
		}
	}
	if !found {
		fmt.Println("  (none)")
	}
	return nil
}
