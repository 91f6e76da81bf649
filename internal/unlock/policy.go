// Package unlock decides when an entry becomes visible to the partner and
// whether it is visible at a given moment.
//
// All comparisons are by calendar date: an entry unlocks at the start of its
// unlock day in the reader's location, not at any particular hour.
package unlock

import (
	"errors"
	"time"

	"github.com/julianstephens/duet/internal/constants"
	"github.com/julianstephens/duet/internal/utils"
)

var (
	// ErrInvalidUnlockConfiguration is returned when a special date unlock is
	// requested without the date itself.
	ErrInvalidUnlockConfiguration = errors.New("special date unlock requested without a date")
	// ErrSpecialDateInPast is returned by ValidateSpecialDate for dates that are not in the future.
	ErrSpecialDateInPast = errors.New("special date must be after today")
)

// ComputeUnlockDate returns the calendar date (local midnight) on which a new
// entry becomes visible to the partner.
//
// A special date entry unlocks on specialDate. Every other entry unlocks on the
// next Sunday strictly after today, so an entry written on a Sunday waits a
// full week.
func ComputeUnlockDate(isSpecial bool, specialDate *time.Time, now time.Time) (time.Time, error) {
	if isSpecial {
		if specialDate == nil || specialDate.IsZero() {
			return time.Time{}, ErrInvalidUnlockConfiguration
		}
		return utils.StartOfDay(*specialDate), nil
	}
	return NextWeeklyUnlock(now), nil
}

// NextWeeklyUnlock returns midnight of the next unlock weekday strictly after now.
func NextWeeklyUnlock(now time.Time) time.Time {
	days := (int(constants.UnlockWeekday) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return utils.AddDays(now, days)
}

// ValidateSpecialDate enforces the editor rule that a special date lies after today.
// ComputeUnlockDate itself does not apply this rule.
func ValidateSpecialDate(date, now time.Time) error {
	if utils.CompareDates(date, now) <= 0 {
		return ErrSpecialDateInPast
	}
	return nil
}
