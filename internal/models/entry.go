package models

import (
	"fmt"
	"time"
)

// Mood is the optional emotional tag an author attaches to an entry
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodLoved    Mood = "loved"
	MoodCalm     Mood = "calm"
	MoodGrateful Mood = "grateful"
	MoodExcited  Mood = "excited"
	MoodTired    Mood = "tired"
	MoodSad      Mood = "sad"
	MoodAnxious  Mood = "anxious"
	MoodAngry    Mood = "angry"
)

// Moods lists the fixed mood set in display order
var Moods = []Mood{
	MoodHappy, MoodLoved, MoodCalm, MoodGrateful, MoodExcited,
	MoodTired, MoodSad, MoodAnxious, MoodAngry,
}

// ParseMood validates s against the fixed mood set. An empty string means no mood.
func ParseMood(s string) (*Mood, error) {
	if s == "" {
		return nil, nil
	}
	for _, m := range Moods {
		if string(m) == s {
			mood := m
			return &mood, nil
		}
	}
	return nil, fmt.Errorf("invalid mood: %s", s)
}

// Entry is a single diary entry written by one partner
type Entry struct {
	ID            string     `json:"id"`
	AuthorID      string     `json:"author_id"`
	Content       string     `json:"content"`
	Mood          *Mood      `json:"mood,omitempty"`
	PhotoURL      string     `json:"photo_url,omitempty"`
	IsSpecialDate bool       `json:"is_special_date"`
	UnlockDate    time.Time  `json:"unlock_date"` // calendar date at local midnight
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}

// EntryPatch holds the mutable fields of an entry. Nil fields are left untouched.
// The unlock date is deliberately absent.
type EntryPatch struct {
	Content   *string
	Mood      *Mood
	ClearMood bool
	PhotoURL  *string
}

// PartnerEntry is an entry as seen by the non-author partner at a given moment.
// IsUnlocked is recomputed on every evaluation and never stored.
type PartnerEntry struct {
	Entry
	IsUnlocked bool `json:"is_unlocked"`
}

// WeeklyProgress marks which days of the current week (0=Monday ... 6=Sunday)
// have at least one entry.
type WeeklyProgress [7]bool
