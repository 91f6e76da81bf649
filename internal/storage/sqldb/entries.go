package sqldb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/duet/internal/constants"
	"github.com/julianstephens/duet/internal/models"
)

const entryColumns = `id, author_id, content, mood, photo_url, is_special_date,
	unlock_date, created_at, updated_at, deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (models.Entry, error) {
	var e models.Entry
	var mood, deletedAt sql.NullString
	var unlockDate, createdAt, updatedAt string

	if err := row.Scan(&e.ID, &e.AuthorID, &e.Content, &mood, &e.PhotoURL, &e.IsSpecialDate,
		&unlockDate, &createdAt, &updatedAt, &deletedAt); err != nil {
		return models.Entry{}, err
	}

	if mood.Valid && mood.String != "" {
		m, err := models.ParseMood(mood.String)
		if err != nil {
			return models.Entry{}, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		e.Mood = m
	}

	var err error
	if e.UnlockDate, err = parseDate(unlockDate); err != nil {
		return models.Entry{}, fmt.Errorf("entry %s unlock_date: %w", e.ID, err)
	}
	if e.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return models.Entry{}, fmt.Errorf("entry %s created_at: %w", e.ID, err)
	}
	if e.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return models.Entry{}, fmt.Errorf("entry %s updated_at: %w", e.ID, err)
	}
	if e.DeletedAt, err = parseNullTimestamp(deletedAt); err != nil {
		return models.Entry{}, fmt.Errorf("entry %s deleted_at: %w", e.ID, err)
	}
	return e, nil
}

func (q *Queries) scanEntries(query string, args ...any) ([]models.Entry, error) {
	rows, err := q.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func moodValue(m *models.Mood) sql.NullString {
	if m == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*m), Valid: true}
}

func (q *Queries) AddEntry(e models.Entry) error {
	_, err := q.exec(`
		INSERT INTO entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.AuthorID, e.Content, moodValue(e.Mood), e.PhotoURL, e.IsSpecialDate,
		e.UnlockDate.Format(constants.DateFormat), formatTimestamp(e.CreatedAt), formatTimestamp(e.UpdatedAt),
		nullTimestamp(e.DeletedAt),
	)
	return err
}

// GetEntry returns a live entry.
func (q *Queries) GetEntry(id string) (models.Entry, error) {
	row := q.queryRow(`SELECT `+entryColumns+` FROM entries WHERE id = ? AND deleted_at IS NULL`, id)
	e, err := scanEntry(row)
	if err != nil {
		return models.Entry{}, notFound(err)
	}
	return e, nil
}

func (q *Queries) GetEntriesByAuthor(authorID string) ([]models.Entry, error) {
	return q.scanEntries(`
		SELECT `+entryColumns+` FROM entries
		WHERE author_id = ? AND deleted_at IS NULL
		ORDER BY created_at DESC`, authorID)
}

// GetAllEntries returns every entry, deleted ones included, oldest first.
func (q *Queries) GetAllEntries() ([]models.Entry, error) {
	return q.scanEntries(`SELECT ` + entryColumns + ` FROM entries ORDER BY created_at`)
}

// UpdateEntry rewrites the mutable fields of a live entry. The unlock date,
// author and creation time are never touched.
func (q *Queries) UpdateEntry(e models.Entry) error {
	return affected(q.exec(`
		UPDATE entries SET content = ?, mood = ?, photo_url = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		e.Content, moodValue(e.Mood), e.PhotoURL, formatTimestamp(e.UpdatedAt), e.ID,
	))
}

func (q *Queries) DeleteEntry(id string) error {
	return affected(q.exec(
		`UPDATE entries SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		formatTimestamp(time.Now()), id,
	))
}

func (q *Queries) RestoreEntry(id string) error {
	return affected(q.exec(
		`UPDATE entries SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL`, id,
	))
}
