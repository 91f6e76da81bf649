// Package reaction records a partner's responses to unlocked entries.
package reaction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/duet/internal/clock"
	apperrors "github.com/julianstephens/duet/internal/errors"
	"github.com/julianstephens/duet/internal/models"
	"github.com/julianstephens/duet/internal/storage"
)

var (
	ErrInvalidKind   = errors.New("reaction kind must be heart or note")
	ErrMissingEmoji  = errors.New("heart reaction requires an emoji")
	ErrEmptyNote     = errors.New("note reaction requires text or an emoji")
	ErrMissingTarget = errors.New("reaction requires an entry and a user")
)

// Store is the reaction repository the recorder writes through.
type Store interface {
	AddReaction(models.Reaction) error
	DeleteReaction(id string) error
	GetReactionsForEntry(entryID string) ([]models.Reaction, error)
}

// Recorder validates reactions and hands them to the repository. It does not
// retry, queue or deduplicate; repeated calls produce repeated rows.
type Recorder struct {
	store Store
	clock clock.Clock
}

func NewRecorder(store Store, c clock.Clock) *Recorder {
	return &Recorder{store: store, clock: c}
}

// React stores a reaction by userID on entryID.
func (r *Recorder) React(entryID, userID string, kind models.ReactionKind, emoji, note string) (models.Reaction, error) {
	if entryID == "" || userID == "" {
		return models.Reaction{}, ErrMissingTarget
	}
	emoji = strings.TrimSpace(emoji)
	note = strings.TrimSpace(note)

	switch kind {
	case models.ReactionHeart:
		if emoji == "" {
			return models.Reaction{}, ErrMissingEmoji
		}
	case models.ReactionNote:
		if emoji == "" && note == "" {
			return models.Reaction{}, ErrEmptyNote
		}
	default:
		return models.Reaction{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	reaction := models.Reaction{
		ID:        uuid.New().String(),
		EntryID:   entryID,
		UserID:    userID,
		Kind:      kind,
		Emoji:     emoji,
		Note:      note,
		CreatedAt: r.clock.Now(),
	}
	if err := r.store.AddReaction(reaction); err != nil {
		return reaction, apperrors.NewRemoteWriteError("insert reaction", err)
	}
	return reaction, nil
}

// Retract removes the reaction row React returned. A row that is already gone
// counts as retracted.
func (r *Recorder) Retract(reactionID string) error {
	if reactionID == "" {
		return ErrMissingTarget
	}
	err := r.store.DeleteReaction(reactionID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return apperrors.NewRemoteWriteError("delete reaction", err)
}

// ForEntry lists the reactions on an entry, oldest first.
func (r *Recorder) ForEntry(entryID string) ([]models.Reaction, error) {
	return r.store.GetReactionsForEntry(entryID)
}
