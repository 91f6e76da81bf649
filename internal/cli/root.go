package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/duet/internal/backup"
	"github.com/julianstephens/duet/internal/clock"
	"github.com/julianstephens/duet/internal/journal"
	"github.com/julianstephens/duet/internal/logger"
	"github.com/julianstephens/duet/internal/models"
	"github.com/julianstephens/duet/internal/storage"
	"github.com/julianstephens/duet/internal/storage/sqlite"
	"github.com/julianstephens/duet/internal/utils"
)

var ErrNoIdentity = errors.New("no user configured; run 'duet settings --user <id> --partner <id>' first")

type Context struct {
	Store storage.Provider
	// Clock overrides the settings timezone. Tests set it; the CLI leaves it nil.
	Clock clock.Clock
}

// ClockFor returns a clock in the settings timezone.
func ClockFor(s models.Settings) (clock.Clock, error) {
	loc, err := utils.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
	}
	return clock.New(loc), nil
}

// Settings loads settings and resolves the clock.
func (c *Context) Settings() (models.Settings, clock.Clock, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return models.Settings{}, nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if c.Clock != nil {
		return settings, c.Clock, nil
	}
	clk, err := ClockFor(settings)
	if err != nil {
		return models.Settings{}, nil, err
	}
	return settings, clk, nil
}

// Journal builds the entry service for the configured pair. It fails when
// no local user has been set.
func (c *Context) Journal() (*journal.Service, models.Settings, error) {
	settings, clk, err := c.Settings()
	if err != nil {
		return nil, models.Settings{}, err
	}
	if strings.TrimSpace(settings.UserID) == "" {
		return nil, models.Settings{}, ErrNoIdentity
	}
	return journal.NewService(c.Store, clk), settings, nil
}

// PerformAutomaticBackup snapshots a local SQLite store before a write.
// Failures are logged and never interrupt the command.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ResolveEntryID expands a unique id prefix against entries.
func ResolveEntryID(entries []models.Entry, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", errors.New("entry id cannot be empty")
	}
	var match string
	for _, e := range entries {
		if e.ID == prefix {
			return e.ID, nil
		}
		if strings.HasPrefix(e.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("entry id %q is ambiguous", prefix)
			}
			match = e.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("entry %q not found", prefix)
	}
	return match, nil
}

// ShortID is the display form of an entry id.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
