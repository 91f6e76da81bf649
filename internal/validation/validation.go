package validation

import (
	"fmt"
	"sort"

	"github.com/julianstephens/duet/internal/constants"
	"github.com/julianstephens/duet/internal/models"
	"github.com/julianstephens/duet/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictEmptyContent       ConflictType = "empty_content"
	ConflictInvalidMood        ConflictType = "invalid_mood"
	ConflictUnlockNotAfter     ConflictType = "unlock_not_after_creation"
	ConflictUnlockOffCadence   ConflictType = "unlock_off_cadence"
	ConflictDuplicateEntryID   ConflictType = "duplicate_entry_id"
	ConflictOrphanReaction     ConflictType = "orphan_reaction"
	ConflictSelfReaction       ConflictType = "self_reaction"
	ConflictInvalidReaction    ConflictType = "invalid_reaction"
	ConflictStreakInconsistent ConflictType = "streak_inconsistent"
)

// Conflict represents a detected problem in stored journal data
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	IDs         []string // entry, reaction or user ids involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Merge appends the conflicts of other.
func (vr *ValidationResult) Merge(other ValidationResult) {
	vr.Conflicts = append(vr.Conflicts, other.Conflicts...)
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator checks stored entries, reactions and profiles for states the
// journal should never produce.
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateEntries checks entries, skipping soft-deleted ones. Special date
// entries are exempt from the cadence checks.
func (v *Validator) ValidateEntries(entries []models.Entry) ValidationResult {
	var result ValidationResult
	seen := make(map[string]bool)

	for _, e := range entries {
		if e.DeletedAt != nil {
			continue
		}
		date := utils.FormatDate(e.UnlockDate)

		if seen[e.ID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateEntryID,
				Description: fmt.Sprintf("Entry id %s appears more than once", e.ID),
				IDs:         []string{e.ID},
			})
		}
		seen[e.ID] = true

		if e.Content == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyContent,
				Description: fmt.Sprintf("Entry %s has no content", e.ID),
				IDs:         []string{e.ID},
			})
		}
		if e.Mood != nil {
			if _, err := models.ParseMood(string(*e.Mood)); err != nil {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictInvalidMood,
					Description: fmt.Sprintf("Entry %s has unknown mood %q", e.ID, *e.Mood),
					IDs:         []string{e.ID},
				})
			}
		}

		if e.IsSpecialDate {
			continue
		}
		written := e.CreatedAt.In(e.UnlockDate.Location())
		if utils.CompareDates(e.UnlockDate, written) <= 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnlockNotAfter,
				Description: fmt.Sprintf("Entry %s unlocks %s but was written %s", e.ID, date, utils.FormatDate(written)),
				Date:        date,
				IDs:         []string{e.ID},
			})
		}
		if e.UnlockDate.Weekday() != constants.UnlockWeekday {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnlockOffCadence,
				Description: fmt.Sprintf("Entry %s unlocks on a %s, not a %s", e.ID, e.UnlockDate.Weekday(), constants.UnlockWeekday),
				Date:        date,
				IDs:         []string{e.ID},
			})
		}
	}
	return result
}

// ValidateReactions checks reactions against the entries they point at.
// Reactions on soft-deleted entries are fine; they come back on restore.
func (v *Validator) ValidateReactions(reactions []models.Reaction, entries []models.Entry) ValidationResult {
	var result ValidationResult
	authors := make(map[string]string, len(entries))
	for _, e := range entries {
		authors[e.ID] = e.AuthorID
	}

	for _, r := range reactions {
		author, ok := authors[r.EntryID]
		switch {
		case !ok:
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOrphanReaction,
				Description: fmt.Sprintf("Reaction %s points at missing entry %s", r.ID, r.EntryID),
				IDs:         []string{r.ID, r.EntryID},
			})
		case author == r.UserID:
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictSelfReaction,
				Description: fmt.Sprintf("Reaction %s was left by the entry's own author", r.ID),
				IDs:         []string{r.ID, r.EntryID},
			})
		}

		switch r.Kind {
		case models.ReactionHeart:
			if r.Emoji == "" {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictInvalidReaction,
					Description: fmt.Sprintf("Heart reaction %s has no emoji", r.ID),
					IDs:         []string{r.ID},
				})
			}
		case models.ReactionNote:
			if r.Note == "" && r.Emoji == "" {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictInvalidReaction,
					Description: fmt.Sprintf("Note reaction %s is empty", r.ID),
					IDs:         []string{r.ID},
				})
			}
		default:
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidReaction,
				Description: fmt.Sprintf("Reaction %s has unknown kind %q", r.ID, r.Kind),
				IDs:         []string{r.ID},
			})
		}
	}
	return result
}

// ValidateProfiles checks streak bookkeeping.
func (v *Validator) ValidateProfiles(profiles []models.Profile) ValidationResult {
	var result ValidationResult
	sorted := append([]models.Profile(nil), profiles...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].UserID < sorted[j].UserID })

	for _, p := range sorted {
		var problems []string
		if p.CurrentStreak < 0 || p.LongestStreak < 0 || p.TotalEntries < 0 {
			problems = append(problems, "negative counters")
		}
		if p.LongestStreak < p.CurrentStreak {
			problems = append(problems, fmt.Sprintf("longest streak %d below current %d", p.LongestStreak, p.CurrentStreak))
		}
		if p.CurrentStreak > 0 && p.LastEntryDate == nil {
			problems = append(problems, "streak without a last entry date")
		}
		for _, t := range constants.ThemeUnlocks {
			if p.LongestStreak >= t.Streak && !p.HasTheme(t.Theme) {
				problems = append(problems, fmt.Sprintf("theme %s missing at streak %d", t.Theme, p.LongestStreak))
			}
		}
		for _, msg := range problems {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictStreakInconsistent,
				Description: fmt.Sprintf("Profile %s: %s", p.UserID, msg),
				IDs:         []string{p.UserID},
			})
		}
	}
	return result
}
