package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/steadiness/internal/cli"
	"github.com/julianstephens/steadiness/internal/deeplink"
	"github.com/julianstephens/steadiness/internal/tui"
)

type TuiCmd struct {
	Open string `help:"Deep link to start on, e.g. kkujun://goals or https://kkujune.app/habit/<id>."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	route := deeplink.Route{Target: deeplink.Home}
	if c.Open != "" {
		r, ok := deeplink.Parse(c.Open)
		if !ok {
			return fmt.Errorf("no route for %q", c.Open)
		}
		route = r
	}
	return runTUI(ctx, route)
}

func runTUI(ctx *cli.Context, route deeplink.Route) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(ctx.Store, ctx.Commit, route), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
