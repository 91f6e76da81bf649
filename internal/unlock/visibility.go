package unlock

import (
	"time"

	"github.com/julianstephens/duet/internal/models"
	"github.com/julianstephens/duet/internal/utils"
)

// IsUnlocked reports whether an entry with the given unlock date is visible
// at now. The unlock day itself counts as unlocked.
func IsUnlocked(unlockDate, now time.Time) bool {
	return utils.CompareDates(now, unlockDate) >= 0
}

// Partition is the result of evaluating a set of entries against a moment.
type Partition struct {
	Unlocked []models.PartnerEntry
	Locked   []models.PartnerEntry
	// NextUnlockDate is the earliest unlock date among locked entries, nil when nothing is locked.
	NextUnlockDate *time.Time
}

// Tag projects entries into partner entries without splitting them. Input order is kept.
func Tag(entries []models.Entry, now time.Time) []models.PartnerEntry {
	tagged := make([]models.PartnerEntry, 0, len(entries))
	for _, e := range entries {
		tagged = append(tagged, models.PartnerEntry{Entry: e, IsUnlocked: IsUnlocked(e.UnlockDate, now)})
	}
	return tagged
}

// Split partitions entries into unlocked and locked sets, preserving input order.
func Split(entries []models.Entry, now time.Time) Partition {
	p := Partition{
		Unlocked: []models.PartnerEntry{},
		Locked:   []models.PartnerEntry{},
	}
	for _, pe := range Tag(entries, now) {
		if pe.IsUnlocked {
			p.Unlocked = append(p.Unlocked, pe)
			continue
		}
		p.Locked = append(p.Locked, pe)
		if p.NextUnlockDate == nil || utils.CompareDates(pe.UnlockDate, *p.NextUnlockDate) < 0 {
			next := pe.UnlockDate
			p.NextUnlockDate = &next
		}
	}
	return p
}

// RevealCountdown returns the moment the UI advertises as "reveal time" for
// an unlock date: revealHour o'clock on that day in now's location. It is a
// display hint only and never gates visibility.
func RevealCountdown(unlockDate time.Time, revealHour int, now time.Time) time.Duration {
	at := time.Date(unlockDate.Year(), unlockDate.Month(), unlockDate.Day(), revealHour, 0, 0, 0, now.Location())
	if d := at.Sub(now); d > 0 {
		return d
	}
	return 0
}
