package sqldb

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/duet/internal/constants"
	"github.com/julianstephens/duet/internal/models"
	"github.com/julianstephens/duet/internal/storage"
)

// DefaultSettings is written by Init when a store has no settings yet.
func DefaultSettings() models.Settings {
	return models.Settings{
		Timezone:         constants.DefaultTimezone,
		StepSeconds:      constants.DefaultStepSeconds,
		RevealWindowDays: constants.RevealWindowDays,
		RevealHour:       constants.RevealHour,
	}
}

func (q *Queries) GetSettings() (models.Settings, error) {
	rows, err := q.query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	settings := DefaultSettings()
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		switch key {
		case constants.SettingUserID:
			settings.UserID = value
		case constants.SettingPartnerID:
			settings.PartnerID = value
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingStepSeconds:
			if settings.StepSeconds, err = strconv.Atoi(value); err != nil {
				return models.Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
		case constants.SettingRevealWindowDays:
			if settings.RevealWindowDays, err = strconv.Atoi(value); err != nil {
				return models.Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
		case constants.SettingRevealHour:
			if settings.RevealHour, err = strconv.Atoi(value); err != nil {
				return models.Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}
	if count == 0 {
		return models.Settings{}, storage.ErrNotFound
	}
	return settings, nil
}

func (q *Queries) SaveSettings(settings models.Settings) error {
	tx, err := q.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(q.rebind(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	values := []struct{ key, value string }{
		{constants.SettingUserID, settings.UserID},
		{constants.SettingPartnerID, settings.PartnerID},
		{constants.SettingTimezone, settings.Timezone},
		{constants.SettingStepSeconds, strconv.Itoa(settings.StepSeconds)},
		{constants.SettingRevealWindowDays, strconv.Itoa(settings.RevealWindowDays)},
		{constants.SettingRevealHour, strconv.Itoa(settings.RevealHour)},
	}
	for _, kv := range values {
		if _, err := stmt.Exec(kv.key, kv.value); err != nil {
			return fmt.Errorf("saving %s: %w", kv.key, err)
		}
	}
	return tx.Commit()
}
