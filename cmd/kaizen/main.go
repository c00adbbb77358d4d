package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/tyamagishi/kaizen/internal/auth"
	"github.com/tyamagishi/kaizen/internal/cli"
	"github.com/tyamagishi/kaizen/internal/cli/account"
	"github.com/tyamagishi/kaizen/internal/cli/backups"
	"github.com/tyamagishi/kaizen/internal/cli/entries"
	"github.com/tyamagishi/kaizen/internal/cli/goalcmds"
	"github.com/tyamagishi/kaizen/internal/cli/plans"
	"github.com/tyamagishi/kaizen/internal/cli/profiles"
	"github.com/tyamagishi/kaizen/internal/cli/system"
	"github.com/tyamagishi/kaizen/internal/config"
	"github.com/tyamagishi/kaizen/internal/goals"
	"github.com/tyamagishi/kaizen/internal/journal"
	"github.com/tyamagishi/kaizen/internal/logging"
	"github.com/tyamagishi/kaizen/internal/profile"
	"github.com/tyamagishi/kaizen/internal/session"
	"github.com/tyamagishi/kaizen/internal/store"
	"github.com/tyamagishi/kaizen/internal/subscription"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Config file path." type:"path"`
	Storage  string `help:"Database file path or PostgreSQL connection string. Overrides the config file."`
	LogLevel string `help:"Log level (debug|info|warn|error). Overrides the config file."`

	Init    system.InitCmd     `cmd:"" help:"Initialize kaizen storage."`
	Signup  account.SignupCmd  `cmd:"" help:"Create an account."`
	Signin  account.SigninCmd  `cmd:"" help:"Sign in and persist the session."`
	Signout account.SignoutCmd `cmd:"" help:"Sign out and clear the session."`
	Whoami  account.WhoamiCmd  `cmd:"" help:"Show the signed-in user."`
	Tui     system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Month   entries.MonthCmd   `cmd:"" help:"Show the month calendar with entry counts."`
	Entry   struct {
		Add  entries.EntryAddCmd  `cmd:"" help:"Add a PDCA entry."`
		List entries.EntryListCmd `cmd:"" help:"List a day's entries."`
		Show entries.EntryShowCmd `cmd:"" help:"Show one entry."`
	} `cmd:"" help:"Manage PDCA entries."`
	Goal struct {
		Add  goalcmds.GoalAddCmd  `cmd:"" help:"Add a goal."`
		List goalcmds.GoalListCmd `cmd:"" help:"List goals."`
	} `cmd:"" help:"Manage goals."`
	Theme struct {
		Add  goalcmds.ThemeAddCmd  `cmd:"" help:"Add a theme."`
		List goalcmds.ThemeListCmd `cmd:"" help:"List themes."`
	} `cmd:"" help:"Manage themes."`
	Profile struct {
		Show profiles.ProfileShowCmd `cmd:"" help:"Show the profile." default:"1"`
		Set  profiles.ProfileSetCmd  `cmd:"" help:"Create or update the profile."`
	} `cmd:"" help:"Manage the user profile."`
	Plan struct {
		Show    plans.PlanShowCmd    `cmd:"" help:"Show the current plan and features." default:"1"`
		Upgrade plans.PlanUpgradeCmd `cmd:"" help:"Change the plan tier."`
	} `cmd:"" help:"Manage the subscription plan."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Export your data to a snapshot." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available snapshots."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a snapshot."`
	} `cmd:"" help:"Manage data snapshots."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("kaizen"),
		kong.Description("PDCA journaling and coaching companion"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.1.0"},
	)

	configPath := CLI.Config
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if CLI.Storage != "" {
		cfg.Storage = CLI.Storage
	}
	if CLI.LogLevel != "" {
		cfg.LogLevel = CLI.LogLevel
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var provider store.Provider
	switch {
	case strings.HasPrefix(cfg.Storage, "postgres://"), strings.HasPrefix(cfg.Storage, "postgresql://"):
		provider = store.NewPostgresStore(cfg.Storage)
	case strings.HasSuffix(cfg.Storage, ".json"):
		provider = store.NewJSONStore(cfg.Storage)
	default:
		provider = store.NewSQLiteStore(cfg.Storage)
	}

	authSvc := auth.New(provider, logger, cfg.SessionPath, cfg.SecretPath)
	appCtx := &cli.Context{
		Store:  provider,
		Auth:   authSvc,
		Config: cfg,
		Logger: logger,
		Services: session.Services{
			Profiles:      profile.NewService(provider, logger),
			Goals:         goals.NewService(provider, logger),
			Journal:       journal.NewService(provider, logger),
			Subscriptions: subscription.NewService(provider, logger),
		},
	}

	// Every command except init expects an initialized store.
	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := provider.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer provider.Close()
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
