package sqldb

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/duet/internal/models"
)

const profileColumns = `user_id, current_streak, longest_streak, total_entries,
	last_entry_date, unlocked_themes, updated_at`

func scanProfile(row rowScanner) (models.Profile, error) {
	var p models.Profile
	var lastEntry sql.NullString
	var themes, updatedAt string

	if err := row.Scan(&p.UserID, &p.CurrentStreak, &p.LongestStreak, &p.TotalEntries,
		&lastEntry, &themes, &updatedAt); err != nil {
		return models.Profile{}, err
	}

	var err error
	if p.LastEntryDate, err = parseNullDate(lastEntry); err != nil {
		return models.Profile{}, fmt.Errorf("profile %s last_entry_date: %w", p.UserID, err)
	}
	if err := json.Unmarshal([]byte(themes), &p.UnlockedThemes); err != nil {
		return models.Profile{}, fmt.Errorf("profile %s unlocked_themes: %w", p.UserID, err)
	}
	if p.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return models.Profile{}, fmt.Errorf("profile %s updated_at: %w", p.UserID, err)
	}
	return p, nil
}

func (q *Queries) GetProfile(userID string) (models.Profile, error) {
	p, err := scanProfile(q.queryRow(`SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`, userID))
	if err != nil {
		return models.Profile{}, notFound(err)
	}
	return p, nil
}

func (q *Queries) SaveProfile(p models.Profile) error {
	themes := p.UnlockedThemes
	if themes == nil {
		themes = []string{}
	}
	encoded, err := json.Marshal(themes)
	if err != nil {
		return err
	}

	_, err = q.exec(`
		INSERT INTO profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			total_entries = excluded.total_entries,
			last_entry_date = excluded.last_entry_date,
			unlocked_themes = excluded.unlocked_themes,
			updated_at = excluded.updated_at`,
		p.UserID, p.CurrentStreak, p.LongestStreak, p.TotalEntries,
		nullDate(p.LastEntryDate), string(encoded), formatTimestamp(p.UpdatedAt),
	)
	return err
}

func (q *Queries) GetAllProfiles() ([]models.Profile, error) {
	rows, err := q.query(`SELECT ` + profileColumns + ` FROM profiles ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
