// Package progress derives the weekly writing progress shown as a 7-day bar.
package progress

import (
	"time"

	"github.com/julianstephens/duet/internal/models"
	"github.com/julianstephens/duet/internal/utils"
)

// Weekly marks the days of the Monday-start week containing now on which
// authorID wrote at least one entry. Entries by other authors or outside the
// week are ignored.
func Weekly(entries []models.Entry, authorID string, now time.Time) models.WeeklyProgress {
	var p models.WeeklyProgress
	monday := utils.StartOfWeek(now)
	for _, e := range entries {
		if e.AuthorID != authorID {
			continue
		}
		offset := utils.DaysBetween(monday, e.CreatedAt.In(now.Location()))
		if offset >= 0 && offset < len(p) {
			p[offset] = true
		}
	}
	return p
}

// Count returns the number of days with an entry.
func Count(p models.WeeklyProgress) int {
	n := 0
	for _, done := range p {
		if done {
			n++
		}
	}
	return n
}

// GoalMet reports whether at least goal days of the week have an entry.
func GoalMet(p models.WeeklyProgress, goal int) bool {
	return Count(p) >= goal
}

// Bar renders progress as a compact row such as "M●T○W●T○F○S○S○".
func Bar(p models.WeeklyProgress, filled, empty string) string {
	labels := [7]string{"M", "T", "W", "T", "F", "S", "S"}
	s := ""
	for i, done := range p {
		mark := empty
		if done {
			mark = filled
		}
		s += labels[i] + mark
	}
	return s
}
