// Package streak maintains the consecutive-day writing streak and the
// cosmetic themes it unlocks.
package streak

import (
	"errors"
	"time"

	"github.com/julianstephens/duet/internal/constants"
	apperrors "github.com/julianstephens/duet/internal/errors"
	"github.com/julianstephens/duet/internal/logger"
	"github.com/julianstephens/duet/internal/models"
	"github.com/julianstephens/duet/internal/storage"
	"github.com/julianstephens/duet/internal/utils"
)

// Update applies one authored entry at now to profile and returns the result.
//
// A second entry on the same calendar day leaves the streak alone. An entry
// the day after the last one extends it; any longer gap, or no previous
// entry, restarts it at 1. TotalEntries always counts the entry.
func Update(profile models.Profile, now time.Time) models.Profile {
	next := profile
	next.UnlockedThemes = append([]string(nil), profile.UnlockedThemes...)
	next.TotalEntries++

	if profile.LastEntryDate != nil {
		switch utils.DaysBetween(*profile.LastEntryDate, now) {
		case 0:
			return next
		case 1:
			next.CurrentStreak++
		default:
			next.CurrentStreak = 1
		}
	} else {
		next.CurrentStreak = 1
	}

	today := utils.StartOfDay(now)
	next.LastEntryDate = &today
	next.UpdatedAt = now
	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}

	for _, tu := range constants.ThemeUnlocks {
		if next.CurrentStreak >= tu.Streak && !next.HasTheme(tu.Theme) {
			next.UnlockedThemes = append(next.UnlockedThemes, tu.Theme)
		}
	}
	return next
}

// NewlyUnlocked returns the themes present in after but not in before.
func NewlyUnlocked(before, after models.Profile) []string {
	var themes []string
	for _, theme := range after.UnlockedThemes {
		if !before.HasTheme(theme) {
			themes = append(themes, theme)
		}
	}
	return themes
}

// ProfileStore is the slice of the repository the updater needs.
type ProfileStore interface {
	GetProfile(userID string) (models.Profile, error)
	SaveProfile(models.Profile) error
}

// Updater persists streak changes for a writer.
type Updater struct {
	store ProfileStore
}

func NewUpdater(store ProfileStore) *Updater {
	return &Updater{store: store}
}

// Record loads the writer's profile, applies an entry written at now and saves it.
// The updated profile is returned even when saving fails, alongside a
// RemoteWriteError, so callers can still show it.
func (u *Updater) Record(userID string, now time.Time) (before, after models.Profile, err error) {
	before, err = u.store.GetProfile(userID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return models.Profile{}, models.Profile{}, apperrors.NewRemoteWriteError("load profile", err)
		}
		before = models.Profile{UserID: userID, UnlockedThemes: []string{}}
	}

	after = Update(before, now)
	if err := u.store.SaveProfile(after); err != nil {
		logger.Warn("Failed to save streak", "user", userID, "error", err)
		return before, after, apperrors.NewRemoteWriteError("save profile", err)
	}

	logger.Debug("Streak recorded", "user", userID, "streak", after.CurrentStreak, "total", after.TotalEntries)
	return before, after, nil
}
