package reveal

import (
	"time"

	"github.com/julianstephens/duet/internal/models"
)

// Scope selects the entries a reveal opened at now presents: those created no
// earlier than windowDays before now. Entries stamped after now are kept, since
// the partner's device clock may run ahead. Lock status is not checked here;
// callers gate the reveal before opening it. Input order is kept.
func Scope(entries []models.Entry, now time.Time, windowDays int) []models.Entry {
	from := now.AddDate(0, 0, -windowDays)
	scoped := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if e.CreatedAt.Before(from) {
			continue
		}
		scoped = append(scoped, e)
	}
	return scoped
}
