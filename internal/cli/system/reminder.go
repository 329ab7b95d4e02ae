package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/steadiness/internal/cli"
	"github.com/julianstephens/steadiness/internal/logger"
	"github.com/julianstephens/steadiness/internal/notifier"
	"github.com/julianstephens/steadiness/internal/storage"
)

type ReminderCmd struct {
	Sync ReminderSyncCmd `cmd:"" help:"Rebuild pending reminders from the current habits."`
	List ReminderListCmd `cmd:"" help:"List pending reminders."`
	Fire ReminderFireCmd `cmd:"" help:"Deliver reminders due this minute to the tray app."`
}

type ReminderSyncCmd struct{}

func (c *ReminderSyncCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	fmt.Printf("✓ %d reminders scheduled\n", len(ctx.Reminders.Pending()))
	if !ctx.Store.Settings().NotificationsEnabled {
		fmt.Println("  Notifications are disabled in settings.")
	}
	return nil
}

type ReminderListCmd struct{}

func (c *ReminderListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	pending := ctx.Reminders.Pending()
	if len(pending) == 0 {
		fmt.Println("No pending reminders.")
		return nil
	}
	for _, t := range pending {
		fmt.Printf("  %s %s  %s  %s\n", t.Weekday, t.Clock(), t.Body, t.URL)
	}
	return nil
}

type ReminderFireCmd struct {
	DryRun   bool          `help:"Print due reminders to stdout instead of sending them."`
	Watch    bool          `help:"Keep running and check for due reminders every interval."`
	Interval time.Duration `help:"Check interval for --watch." default:"30s"`
}

// printSender writes notifications to stdout.
type printSender struct{}

func (printSender) Notify(_ context.Context, n notifier.Notification) error {
	fmt.Printf("[%s] %s (%s)\n", n.Title, n.Body, n.URL)
	return nil
}

func (c *ReminderFireCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	if !ctx.Store.Settings().NotificationsEnabled {
		if c.DryRun {
			fmt.Println("Notifications are disabled in settings.")
		}
		return nil
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !c.Watch {
		return c.fire(runCtx, ctx)
	}

	if c.Interval < time.Second {
		return fmt.Errorf("interval must be at least 1s, got %s", c.Interval)
	}
	logger.Info("Watching reminders", "interval", c.Interval)
	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()
	for {
		if err := c.fire(runCtx, ctx); err != nil {
			logger.Warn("Reminder check failed", "error", err)
		}
		select {
		case <-runCtx.Done():
			return nil
		case <-ticker.C:
		}
		// pick up habits edited by other processes
		if err := ctx.Reminders.Load(); err != nil {
			if !errors.Is(err, storage.ErrCorruptDocument) {
				return err
			}
			logger.Warn("Reminders document unreadable, rebuilding", "error", err)
			if err := ctx.Commit(); err != nil {
				return err
			}
		}
	}
}

func (c *ReminderFireCmd) fire(runCtx context.Context, ctx *cli.Context) error {
	sender := ctx.Notifier
	if c.DryRun {
		sender = printSender{}
	}

	sent, err := ctx.Reminders.Fire(runCtx, sender, ctx.Store.Now(), ctx.Store.Calendar())
	if sent > 0 && !c.DryRun {
		if saveErr := ctx.Reminders.Save(); saveErr != nil {
			return saveErr
		}
	}
	if c.DryRun && sent == 0 {
		fmt.Println("No reminders due.")
	}
	return err
}
