package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/duet/internal/cli"
	"github.com/julianstephens/duet/internal/cli/backups"
	"github.com/julianstephens/duet/internal/cli/entries"
	"github.com/julianstephens/duet/internal/cli/settings"
	"github.com/julianstephens/duet/internal/cli/system"
	"github.com/julianstephens/duet/internal/constants"
	apperrors "github.com/julianstephens/duet/internal/errors"
	"github.com/julianstephens/duet/internal/keyring"
	"github.com/julianstephens/duet/internal/logger"
	"github.com/julianstephens/duet/internal/storage"
	"github.com/julianstephens/duet/internal/storage/postgres"
	"github.com/julianstephens/duet/internal/storage/sqlite"
)

var CLI struct {
	Version      kong.VersionFlag
	Config       string `help:"Local database path." type:"path" default:"${config_path}" env:"DUET_CONFIG"`
	Debug        bool   `help:"Log debug output to stderr." env:"DUET_DEBUG"`
	DBConnection string `name:"db-connection" help:"PostgreSQL connection string for a shared journal. Passwords belong in the keyring or .pgpass." env:"DUET_DB_CONNECTION"`
	Local        bool   `help:"Ignore any shared database in the keyring."`

	Init     system.InitCmd       `cmd:"" help:"Initialize duet storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd   `cmd:"" help:"Check stored entries, reactions and streaks for conflicts."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage pairing and reveal settings."`
	Keyring  struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the shared database connection string."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	} `cmd:"" help:"Manage the shared database credentials."`

	Write     entries.WriteCmd     `cmd:"" help:"Write an entry for your partner."`
	Edit      entries.EditCmd      `cmd:"" help:"Edit one of your entries."`
	Delete    entries.DeleteCmd    `cmd:"" help:"Delete one of your entries."`
	Restore   entries.RestoreCmd   `cmd:"" help:"Restore a deleted entry."`
	Entries   entries.EntriesCmd   `cmd:"" help:"List your entries."`
	Partner   entries.PartnerCmd   `cmd:"" help:"Show your partner's readable entries."`
	Progress  entries.ProgressCmd  `cmd:"" help:"Show this week's writing progress."`
	Streak    entries.StreakCmd    `cmd:"" help:"Show your streak and themes."`
	React     entries.ReactCmd     `cmd:"" help:"React to a partner entry."`
	Reactions entries.ReactionsCmd `cmd:"" help:"Show reactions on one of your entries."`
	Reveal    entries.RevealCmd    `cmd:"" help:"Play this week's reveal." default:"1"`

	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Notify system.NotifyCmd `cmd:"" hidden:"" help:"Notify about entries unlocked today (used by the tray)."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Write to each other all week, read it together on Sunday"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
		},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir()}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store, err := openStore()
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	switch ctx.Command() {
	case "init", "doctor", "keyring set <connection-string>", "keyring delete":
		// These open the store themselves or do not need it.
	default:
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	err = ctx.Run(&cli.Context{Store: store})
	if err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}

func configDir() string {
	if CLI.Config != "" {
		return filepath.Dir(CLI.Config)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, constants.AppName)
}

// openStore picks the shared PostgreSQL journal when a connection string is
// configured and the local SQLite file otherwise.
func openStore() (storage.Provider, error) {
	if CLI.Local {
		return sqlite.NewStore(CLI.Config), nil
	}

	connStr, source, err := keyring.Resolve(CLI.DBConnection)
	switch {
	case err == nil:
	case errors.Is(err, keyring.ErrNotFound), errors.Is(err, keyring.ErrKeyringUnavailable):
		logger.Debug("No shared database configured", "reason", err)
		return sqlite.NewStore(CLI.Config), nil
	default:
		return nil, err
	}

	if err := postgres.ValidateConnString(connStr); err != nil {
		if source != keyring.SourceKeyring || !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, fmt.Errorf("%w\n       Store the connection string with 'duet keyring set' or use .pgpass for the password", err)
		}
	}
	logger.Debug("Using shared database", "source", source)
	return postgres.New(connStr), nil
}
