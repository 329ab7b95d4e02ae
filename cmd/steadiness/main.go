package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/steadiness/internal/cli"
	"github.com/julianstephens/steadiness/internal/cli/backups"
	"github.com/julianstephens/steadiness/internal/cli/settings"
	"github.com/julianstephens/steadiness/internal/cli/system"
	"github.com/julianstephens/steadiness/internal/config"
	"github.com/julianstephens/steadiness/internal/constants"
	apperrors "github.com/julianstephens/steadiness/internal/errors"
	"github.com/julianstephens/steadiness/internal/logger"
	"github.com/julianstephens/steadiness/internal/storage"
	"github.com/julianstephens/steadiness/internal/store"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Storage location: a .db file (SQLite), a directory (JSON documents), a PostgreSQL URL without password, or 'keyring'." type:"string" default:"${default_config}" env:"STEADINESS_CONFIG"`
	DebugLog bool   `name:"debug-log" help:"Log debug output to stderr as well as the log file." env:"STEADINESS_DEBUG"`
	LogLevel string `help:"Log level (debug, info, warn, error)." env:"STEADINESS_LOG_LEVEL"`

	Init         system.InitCmd      `cmd:"" help:"Initialize steadiness storage."`
	Doctor       system.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Tui          system.TuiCmd       `cmd:"" help:"Launch the interactive TUI." default:"withargs"`
	Open         system.OpenCmd      `cmd:"" help:"Open a kkujun:// or https://kkujune.app link."`
	Habit        cli.HabitCmd        `cmd:"" help:"Manage habits and mark them done."`
	Note         cli.NoteCmd         `cmd:"" help:"Write and read day notes."`
	Stats        cli.StatsCmd        `cmd:"" help:"Show streaks and completion rates."`
	Heatmap      cli.HeatmapCmd      `cmd:"" help:"Show the activity heatmap."`
	Achievements cli.AchievementsCmd `cmd:"" help:"Show streak badges."`
	Reminder     system.ReminderCmd  `cmd:"" help:"Manage and deliver habit reminders."`
	Backup       struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage backups."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Debug    system.DebugCmd      `cmd:"" help:"Debug commands for troubleshooting."`
}

func main() {
	// .env values only fill variables the environment does not already set
	if _, err := config.LoadEnv(config.DefaultEnvFiles()...); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streaks, goal periods and reminders"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	// keyring commands must work before the keyring holds anything
	var provider storage.Provider
	if !strings.HasPrefix(ctx.Command(), "keyring") {
		p, err := cli.OpenProvider(CLI.Config)
		if err != nil {
			apperrors.Fatal(err)
		}
		provider = p
	}

	logDir, err := cli.ConfigDir(provider)
	if err == nil {
		err = logger.Init(logger.Config{Debug: CLI.DebugLog, ConfigDir: logDir, Level: CLI.LogLevel})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	overrides, err := config.SettingOverrides()
	if err != nil {
		apperrors.Fatal(err)
	}

	appCtx := cli.NewContext(provider, store.WithSettingOverrides(overrides))
	err = ctx.Run(appCtx)
	if provider != nil {
		if closeErr := provider.Close(); closeErr != nil {
			logger.Warn("Failed to close storage", "error", closeErr)
		}
	}
	apperrors.Fatal(err)
}
