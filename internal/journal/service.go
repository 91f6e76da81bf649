// Package journal is the entry workflow shared by the CLI and the TUI:
// writing and editing entries, the partner feed, weekly progress and the
// entries a reveal walks through.
package journal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/duet/internal/clock"
	"github.com/julianstephens/duet/internal/logger"
	"github.com/julianstephens/duet/internal/models"
	"github.com/julianstephens/duet/internal/progress"
	"github.com/julianstephens/duet/internal/reaction"
	"github.com/julianstephens/duet/internal/reveal"
	"github.com/julianstephens/duet/internal/storage"
	"github.com/julianstephens/duet/internal/streak"
	"github.com/julianstephens/duet/internal/unlock"
)

var (
	ErrEmptyContent = errors.New("entry content cannot be empty")
	ErrNotAuthor    = errors.New("only the author can change an entry")
	ErrEntryLocked  = errors.New("entry is still locked")
	ErrOwnEntry     = errors.New("you cannot react to your own entry")
)

// Draft is what a writer submits for a new entry.
type Draft struct {
	Content       string
	Mood          *models.Mood
	PhotoURL      string
	IsSpecialDate bool
	SpecialDate   *time.Time
}

// WriteResult is a saved entry plus the streak change it caused. StreakErr
// is set when the entry saved but the profile did not.
type WriteResult struct {
	Entry     models.Entry
	Before    models.Profile
	After     models.Profile
	NewThemes []string
	StreakErr error
}

type Service struct {
	store     storage.Provider
	clock     clock.Clock
	streaks   *streak.Updater
	reactions *reaction.Recorder
}

func NewService(store storage.Provider, c clock.Clock) *Service {
	return &Service{
		store:     store,
		clock:     c,
		streaks:   streak.NewUpdater(store),
		reactions: reaction.NewRecorder(store, c),
	}
}

// Recorder is the reaction recorder reveal sessions forward to.
func (s *Service) Recorder() *reaction.Recorder { return s.reactions }

func (s *Service) Now() time.Time { return s.clock.Now() }

// Write stores a new entry. Its unlock date is fixed here and never changes.
func (s *Service) Write(authorID string, d Draft) (WriteResult, error) {
	content := strings.TrimSpace(d.Content)
	if content == "" {
		return WriteResult{}, ErrEmptyContent
	}

	now := s.clock.Now()
	unlockDate, err := unlock.ComputeUnlockDate(d.IsSpecialDate, d.SpecialDate, now)
	if err != nil {
		return WriteResult{}, err
	}

	entry := models.Entry{
		ID:            uuid.NewString(),
		AuthorID:      authorID,
		Content:       content,
		Mood:          d.Mood,
		PhotoURL:      strings.TrimSpace(d.PhotoURL),
		IsSpecialDate: d.IsSpecialDate,
		UnlockDate:    unlockDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.AddEntry(entry); err != nil {
		return WriteResult{}, fmt.Errorf("failed to save entry: %w", err)
	}
	logger.Info("Entry written", "id", entry.ID, "unlock", entry.UnlockDate.Format("2006-01-02"))

	res := WriteResult{Entry: entry}
	res.Before, res.After, res.StreakErr = s.streaks.Record(authorID, now)
	res.NewThemes = streak.NewlyUnlocked(res.Before, res.After)
	return res, nil
}

// Edit applies patch to one of the author's entries. The unlock date stays as written.
func (s *Service) Edit(authorID, id string, patch models.EntryPatch) (models.Entry, error) {
	entry, err := s.owned(authorID, id)
	if err != nil {
		return models.Entry{}, err
	}

	if patch.Content != nil {
		content := strings.TrimSpace(*patch.Content)
		if content == "" {
			return models.Entry{}, ErrEmptyContent
		}
		entry.Content = content
	}
	if patch.ClearMood {
		entry.Mood = nil
	} else if patch.Mood != nil {
		entry.Mood = patch.Mood
	}
	if patch.PhotoURL != nil {
		entry.PhotoURL = strings.TrimSpace(*patch.PhotoURL)
	}
	entry.UpdatedAt = s.clock.Now()

	if err := s.store.UpdateEntry(entry); err != nil {
		return models.Entry{}, fmt.Errorf("failed to update entry: %w", err)
	}
	return entry, nil
}

// Delete soft-deletes one of the author's entries.
func (s *Service) Delete(authorID, id string) error {
	if _, err := s.owned(authorID, id); err != nil {
		return err
	}
	return s.store.DeleteEntry(id)
}

// Restore undeletes one of the author's entries.
func (s *Service) Restore(authorID, id string) error {
	all, err := s.store.GetAllEntries()
	if err != nil {
		return err
	}
	for _, e := range all {
		if e.ID != id {
			continue
		}
		if e.AuthorID != authorID {
			return ErrNotAuthor
		}
		return s.store.RestoreEntry(id)
	}
	return storage.ErrNotFound
}

func (s *Service) owned(authorID, id string) (models.Entry, error) {
	entry, err := s.store.GetEntry(id)
	if err != nil {
		return models.Entry{}, err
	}
	if entry.AuthorID != authorID {
		return models.Entry{}, ErrNotAuthor
	}
	return entry, nil
}

// Mine lists the author's own entries, newest first. Authors always see
// their own entries, locked or not.
func (s *Service) Mine(authorID string) ([]models.Entry, error) {
	return s.store.GetEntriesByAuthor(authorID)
}

// PartnerFeed splits the partner's entries into readable and still locked.
func (s *Service) PartnerFeed(partnerID string) (unlock.Partition, error) {
	entries, err := s.store.GetEntriesByAuthor(partnerID)
	if err != nil {
		return unlock.Partition{}, err
	}
	return unlock.Split(entries, s.clock.Now()), nil
}

// Progress is the author's writing days for the current Monday-start week.
func (s *Service) Progress(authorID string) (models.WeeklyProgress, error) {
	entries, err := s.store.GetEntriesByAuthor(authorID)
	if err != nil {
		return models.WeeklyProgress{}, err
	}
	return progress.Weekly(entries, authorID, s.clock.Now()), nil
}

// Profile returns the writer's streak profile, or a fresh one.
func (s *Service) Profile(userID string) (models.Profile, error) {
	p, err := s.store.GetProfile(userID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Profile{UserID: userID, UnlockedThemes: []string{}}, nil
	}
	return p, err
}

// RevealEntries returns the partner's unlocked entries from the trailing
// window, oldest first, ready to seed a reveal session.
func (s *Service) RevealEntries(partnerID string, windowDays int) ([]models.Entry, error) {
	entries, err := s.store.GetEntriesByAuthor(partnerID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()

	var readable []models.Entry
	for _, pe := range unlock.Split(entries, now).Unlocked {
		readable = append(readable, pe.Entry)
	}
	sort.SliceStable(readable, func(i, j int) bool {
		return readable[i].CreatedAt.Before(readable[j].CreatedAt)
	})
	return reveal.Scope(readable, now, windowDays), nil
}

// React records a reaction by userID on an unlocked partner entry.
func (s *Service) React(userID, entryID string, kind models.ReactionKind, emoji, note string) (models.Reaction, error) {
	entry, err := s.store.GetEntry(entryID)
	if err != nil {
		return models.Reaction{}, err
	}
	if entry.AuthorID == userID {
		return models.Reaction{}, ErrOwnEntry
	}
	if !unlock.IsUnlocked(entry.UnlockDate, s.clock.Now()) {
		return models.Reaction{}, ErrEntryLocked
	}
	return s.reactions.React(entryID, userID, kind, emoji, note)
}

// Reactions lists the reactions left on an entry.
func (s *Service) Reactions(entryID string) ([]models.Reaction, error) {
	return s.reactions.ForEntry(entryID)
}
