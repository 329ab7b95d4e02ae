package system

import (
	"fmt"

	"github.com/julianstephens/steadiness/internal/cli"
	"github.com/julianstephens/steadiness/internal/deeplink"
)

// OpenCmd is registered as the handler for kkujun:// links.
type OpenCmd struct {
	URL      string `arg:"" help:"kkujun://<path> or https://kkujune.app/<path> link."`
	Describe bool   `help:"Print the resolved route instead of opening the TUI."`
}

func (c *OpenCmd) Run(ctx *cli.Context) error {
	route, ok := deeplink.Parse(c.URL)
	if !ok {
		return fmt.Errorf("no route for %q", c.URL)
	}

	if c.Describe {
		return describeRoute(ctx, route)
	}
	return runTUI(ctx, route)
}

func describeRoute(ctx *cli.Context, route deeplink.Route) error {
	if route.Target != deeplink.Habit {
		fmt.Printf("route: %s\n", route.Target)
		return nil
	}

	fmt.Printf("route: %s %s\n", route.Target, route.HabitID)
	if err := ctx.Load(); err != nil {
		return err
	}
	h, ok := ctx.Store.Habit(route.HabitID)
	if !ok {
		return fmt.Errorf("habit %s not found", route.HabitID)
	}
	fmt.Printf("habit: %s (%s)\n", h.Title, cli.FormatRecurrence(h))
	return nil
}
