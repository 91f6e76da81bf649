package entries

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/duet/internal/cli"
	"github.com/julianstephens/duet/internal/constants"
	"github.com/julianstephens/duet/internal/journal"
	"github.com/julianstephens/duet/internal/logger"
	"github.com/julianstephens/duet/internal/models"
	"github.com/julianstephens/duet/internal/tui"
	"github.com/julianstephens/duet/internal/unlock"
	"github.com/julianstephens/duet/internal/utils"
)

type WriteCmd struct {
	Content string `arg:"" optional:"" help:"Entry text. Opens the editor when omitted."`
	Mood    string `help:"Mood tag (happy, loved, calm, grateful, excited, tired, sad, anxious, angry)."`
	Photo   string `help:"Photo URL to attach."`
	Special string `help:"Unlock on this date (YYYY-MM-DD) instead of Sunday."`
}

func (c *WriteCmd) Run(ctx *cli.Context) error {
	svc, settings, err := ctx.Journal()
	if err != nil {
		return err
	}

	var draft journal.Draft
	if strings.TrimSpace(c.Content) == "" {
		draft, err = tui.RunEntryForm(svc.Now())
		if err != nil {
			return err
		}
	} else {
		draft, err = c.draft(svc.Now())
		if err != nil {
			return err
		}
	}

	ctx.PerformAutomaticBackup()

	res, err := svc.Write(settings.UserID, draft)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Entry saved (%s)\n", cli.ShortID(res.Entry.ID))
	fmt.Printf("  Unlocks for your partner on %s\n", res.Entry.UnlockDate.Format("Monday, Jan 2"))

	if res.StreakErr != nil {
		logger.Warn("Streak not updated", "error", res.StreakErr)
		fmt.Println("  Streak could not be updated right now.")
		return nil
	}
	fmt.Printf("  🔥 Streak: %d day(s)\n", res.After.CurrentStreak)
	for _, theme := range res.NewThemes {
		fmt.Printf("  ✨ New theme unlocked: %s\n", theme)
	}
	return nil
}

func (c *WriteCmd) draft(now time.Time) (journal.Draft, error) {
	mood, err := models.ParseMood(c.Mood)
	if err != nil {
		return journal.Draft{}, err
	}
	d := journal.Draft{
		Content:  c.Content,
		Mood:     mood,
		PhotoURL: c.Photo,
	}
	if c.Special != "" {
		date, err := utils.ParseDateInLocation(c.Special, now.Location())
		if err != nil {
			return journal.Draft{}, fmt.Errorf("invalid special date %q, expected %s", c.Special, constants.DateFormat)
		}
		if err := unlock.ValidateSpecialDate(date, now); err != nil {
			return journal.Draft{}, err
		}
		d.IsSpecialDate = true
		d.SpecialDate = &date
	}
	return d, nil
}

type EditCmd struct {
	ID      string  `arg:"" help:"Entry id or unique prefix."`
	Content *string `help:"New entry text."`
	Mood    *string `help:"New mood tag, or empty to clear."`
	Photo   *string `help:"New photo URL, or empty to remove."`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	svc, settings, err := ctx.Journal()
	if err != nil {
		return err
	}
	mine, err := svc.Mine(settings.UserID)
	if err != nil {
		return err
	}
	id, err := cli.ResolveEntryID(mine, c.ID)
	if err != nil {
		return err
	}

	patch := models.EntryPatch{Content: c.Content, PhotoURL: c.Photo}
	if c.Mood != nil {
		mood, err := models.ParseMood(*c.Mood)
		if err != nil {
			return err
		}
		patch.Mood = mood
		patch.ClearMood = mood == nil
	}
	if patch.Content == nil && patch.Mood == nil && !patch.ClearMood && patch.PhotoURL == nil {
		fmt.Println("No changes specified.")
		return nil
	}

	ctx.PerformAutomaticBackup()

	entry, err := svc.Edit(settings.UserID, id, patch)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Entry %s updated (still unlocks %s)\n", cli.ShortID(entry.ID), utils.FormatDate(entry.UnlockDate))
	return nil
}

type DeleteCmd struct {
	ID string `arg:"" help:"Entry id or unique prefix."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	svc, settings, err := ctx.Journal()
	if err != nil {
		return err
	}
	mine, err := svc.Mine(settings.UserID)
	if err != nil {
		return err
	}
	id, err := cli.ResolveEntryID(mine, c.ID)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	if err := svc.Delete(settings.UserID, id); err != nil {
		return err
	}
	fmt.Printf("✓ Entry %s deleted. Use 'duet restore %s' to undo.\n", cli.ShortID(id), cli.ShortID(id))
	return nil
}

type RestoreCmd struct {
	ID string `arg:"" help:"Entry id or unique prefix."`
}

func (c *RestoreCmd) Run(ctx *cli.Context) error {
	svc, settings, err := ctx.Journal()
	if err != nil {
		return err
	}
	all, err := ctx.Store.GetAllEntries()
	if err != nil {
		return err
	}
	var deleted []models.Entry
	for _, e := range all {
		if e.DeletedAt != nil && e.AuthorID == settings.UserID {
			deleted = append(deleted, e)
		}
	}
	id, err := cli.ResolveEntryID(deleted, c.ID)
	if err != nil {
		return err
	}

	if err := svc.Restore(settings.UserID, id); err != nil {
		return err
	}
	fmt.Printf("✓ Entry %s restored\n", cli.ShortID(id))
	return nil
}
