package system

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/steadiness/internal/cli"
	"github.com/julianstephens/steadiness/internal/storage"
)

type DebugCmd struct {
	DBPath    DebugDBPathCmd    `cmd:"" name:"db-path" help:"Show storage location."`
	Keys      DebugKeysCmd      `cmd:"" help:"List stored document keys."`
	Dump      DebugDumpCmd      `cmd:"" help:"Dump a raw document as JSON."`
	DumpHabit DebugDumpHabitCmd `cmd:"" help:"Dump one habit with its records as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	dir, err := cli.ConfigDir(ctx.Provider)
	if err != nil {
		return err
	}
	return printJSON(map[string]string{
		"path":       ctx.Provider.GetConfigPath(),
		"config_dir": dir,
	})
}

type DebugKeysCmd struct{}

func (cmd *DebugKeysCmd) Run(ctx *cli.Context) error {
	if err := ctx.Provider.Load(); err != nil {
		return err
	}
	keys, err := ctx.Provider.Keys()
	if err != nil {
		return err
	}
	return printJSON(keys)
}

type DebugDumpCmd struct {
	Key string `arg:"" help:"Document key: habits, records, achievements, notes, settings or reminders."`
}

func (cmd *DebugDumpCmd) Run(ctx *cli.Context) error {
	if err := ctx.Provider.Load(); err != nil {
		return err
	}
	body, err := ctx.Provider.Get(cmd.Key)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no document stored under %q", cmd.Key)
	}
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		// show unreadable documents as they are
		fmt.Println(string(body))
		return fmt.Errorf("document %q is not valid JSON: %w", cmd.Key, err)
	}
	fmt.Println(out.String())
	return nil
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or title."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := ctx.Store.ResolveHabit(cmd.Habit)
	if err != nil {
		return err
	}
	eng := ctx.Store.Analytics().ForHabit(h.ID)
	today := ctx.Store.Today()

	var records []any
	for _, r := range ctx.Store.Records() {
		if r.HabitID == h.ID {
			records = append(records, r)
		}
	}
	return printJSON(map[string]any{
		"habit":          h,
		"records":        records,
		"current_streak": eng.CurrentStreak(today),
		"max_streak":     eng.MaxStreak(),
		"rate":           eng.CompletionRate(h.PeriodType, today),
	})
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}
