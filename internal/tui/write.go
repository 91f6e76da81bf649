package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/duet/internal/constants"
	"github.com/julianstephens/duet/internal/journal"
	"github.com/julianstephens/duet/internal/models"
	"github.com/julianstephens/duet/internal/unlock"
)

// EntryFormModel backs the entry editor fields.
type EntryFormModel struct {
	Content     string
	Mood        string
	PhotoURL    string
	Special     bool
	SpecialDate string
}

// NewEntryForm creates the form used by `duet write` when no content is given.
func NewEntryForm(fm *EntryFormModel, now time.Time) *huh.Form {
	moods := []huh.Option[string]{huh.NewOption("None", "")}
	for _, m := range models.Moods {
		moods = append(moods, huh.NewOption(string(m), string(m)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Dear you,").
				Value(&fm.Content).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("entry cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Mood").
				Options(moods...).
				Value(&fm.Mood),
			huh.NewInput().
				Title("Photo URL").
				Description("Optional").
				Value(&fm.PhotoURL),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save for a special date?").
				Description("Otherwise it unlocks on Sunday").
				Value(&fm.Special),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Special date (YYYY-MM-DD)").
				Value(&fm.SpecialDate).
				Validate(func(s string) error {
					_, err := parseSpecialDate(s, now)
					return err
				}),
		).WithHideFunc(func() bool { return !fm.Special }),
	).WithTheme(huh.ThemeDracula())
}

func parseSpecialDate(s string, now time.Time) (time.Time, error) {
	d, err := time.ParseInLocation(constants.DateFormat, strings.TrimSpace(s), now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("use YYYY-MM-DD")
	}
	if err := unlock.ValidateSpecialDate(d, now); err != nil {
		return time.Time{}, err
	}
	return d, nil
}

// Draft converts the filled form into a journal draft.
func (fm *EntryFormModel) Draft(now time.Time) (journal.Draft, error) {
	mood, err := models.ParseMood(fm.Mood)
	if err != nil {
		return journal.Draft{}, err
	}
	d := journal.Draft{
		Content:       strings.TrimSpace(fm.Content),
		Mood:          mood,
		PhotoURL:      strings.TrimSpace(fm.PhotoURL),
		IsSpecialDate: fm.Special,
	}
	if fm.Special {
		date, err := parseSpecialDate(fm.SpecialDate, now)
		if err != nil {
			return journal.Draft{}, err
		}
		d.SpecialDate = &date
	}
	return d, nil
}

// RunEntryForm shows the editor and returns the resulting draft.
func RunEntryForm(now time.Time) (journal.Draft, error) {
	var fm EntryFormModel
	if err := NewEntryForm(&fm, now).Run(); err != nil {
		return journal.Draft{}, err
	}
	return fm.Draft(now)
}
