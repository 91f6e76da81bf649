package models

import "time"

type ReactionKind string

const (
	ReactionHeart ReactionKind = "heart"
	ReactionNote  ReactionKind = "note"
)

// Reaction is a partner's response to an unlocked entry
type Reaction struct {
	ID        string       `json:"id"`
	EntryID   string       `json:"entry_id"`
	UserID    string       `json:"user_id"`
	Kind      ReactionKind `json:"kind"`
	Emoji     string       `json:"emoji,omitempty"`
	Note      string       `json:"note,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
