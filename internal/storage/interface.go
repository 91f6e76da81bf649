package storage

import (
	"errors"

	"github.com/julianstephens/duet/internal/models"
)

// ErrNotFound is returned when a requested row does not exist or is soft-deleted.
var ErrNotFound = errors.New("not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Entries
	AddEntry(models.Entry) error
	GetEntry(id string) (models.Entry, error)
	// GetEntriesByAuthor returns the author's live entries, newest first.
	GetEntriesByAuthor(authorID string) ([]models.Entry, error)
	GetAllEntries() ([]models.Entry, error)
	UpdateEntry(models.Entry) error
	DeleteEntry(id string) error
	RestoreEntry(id string) error

	// Reactions
	AddReaction(models.Reaction) error
	// DeleteReaction removes a single reaction row by id.
	DeleteReaction(id string) error
	GetReactionsForEntry(entryID string) ([]models.Reaction, error)
	GetAllReactions() ([]models.Reaction, error)

	// Profiles
	GetProfile(userID string) (models.Profile, error)
	SaveProfile(models.Profile) error
	GetAllProfiles() ([]models.Profile, error)

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by SQL-backed stores.
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current, latest int, err error)
}
