package models

import (
	"slices"
	"time"
)

// Profile holds the gamification state of a single writer
type Profile struct {
	UserID         string     `json:"user_id"`
	CurrentStreak  int        `json:"current_streak"`
	LongestStreak  int        `json:"longest_streak"`
	TotalEntries   int        `json:"total_entries"`
	LastEntryDate  *time.Time `json:"last_entry_date,omitempty"` // calendar date at local midnight
	UnlockedThemes []string   `json:"unlocked_themes"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// HasTheme reports whether the theme has been unlocked
func (p Profile) HasTheme(theme string) bool {
	return slices.Contains(p.UnlockedThemes, theme)
}
