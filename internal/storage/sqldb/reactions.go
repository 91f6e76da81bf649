package sqldb

import (
	"github.com/julianstephens/duet/internal/models"
)

const reactionColumns = `id, entry_id, user_id, kind, emoji, note, created_at`

func (q *Queries) AddReaction(r models.Reaction) error {
	_, err := q.exec(`INSERT INTO reactions (`+reactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.EntryID, r.UserID, string(r.Kind), r.Emoji, r.Note, formatTimestamp(r.CreatedAt))
	return err
}

func (q *Queries) DeleteReaction(id string) error {
	return affected(q.exec(`DELETE FROM reactions WHERE id = ?`, id))
}

func (q *Queries) GetReactionsForEntry(entryID string) ([]models.Reaction, error) {
	return q.scanReactions(`SELECT `+reactionColumns+` FROM reactions WHERE entry_id = ? ORDER BY created_at`, entryID)
}

func (q *Queries) GetAllReactions() ([]models.Reaction, error) {
	return q.scanReactions(`SELECT ` + reactionColumns + ` FROM reactions ORDER BY created_at`)
}

func (q *Queries) scanReactions(query string, args ...any) ([]models.Reaction, error) {
	rows, err := q.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reactions []models.Reaction
	for rows.Next() {
		var r models.Reaction
		var kind, createdAt string
		if err := rows.Scan(&r.ID, &r.EntryID, &r.UserID, &kind, &r.Emoji, &r.Note, &createdAt); err != nil {
			return nil, err
		}
		r.Kind = models.ReactionKind(kind)
		if r.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		reactions = append(reactions, r)
	}
	return reactions, rows.Err()
}
