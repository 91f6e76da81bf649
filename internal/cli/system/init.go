package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/duet/internal/cli"
	"github.com/julianstephens/duet/internal/storage/sqlite"
)

type InitCmd struct {
	Force   bool   `help:"Delete an existing local database before initialization."`
	User    string `help:"Your user id."`
	Partner string `help:"Your partner's user id."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if _, ok := ctx.Store.(*sqlite.Store); !ok {
			return fmt.Errorf("--force only applies to a local database")
		}
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized duet storage at: %s\n", ctx.Store.GetConfigPath())

	if c.User == "" && c.Partner == "" {
		return nil
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if c.User != "" {
		settings.UserID = c.User
	}
	if c.Partner != "" {
		settings.PartnerID = c.Partner
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Printf("Paired %s with %s\n", settings.UserID, settings.PartnerID)
	return nil
}
