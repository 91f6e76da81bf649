package entries

import (
	"fmt"

	"github.com/julianstephens/duet/internal/cli"
	"github.com/julianstephens/duet/internal/models"
)

type ReactCmd struct {
	ID    string `arg:"" help:"Partner entry id or unique prefix."`
	Emoji string `help:"Emoji to react with." default:"❤️"`
	Note  string `help:"Leave a short note instead of a heart."`
}

func (c *ReactCmd) Run(ctx *cli.Context) error {
	svc, settings, err := ctx.Journal()
	if err != nil {
		return err
	}
	theirs, err := ctx.Store.GetEntriesByAuthor(settings.PartnerID)
	if err != nil {
		return err
	}
	id, err := cli.ResolveEntryID(theirs, c.ID)
	if err != nil {
		return err
	}

	kind := models.ReactionHeart
	emoji := c.Emoji
	if c.Note != "" {
		kind = models.ReactionNote
		emoji = ""
	}

	if _, err := svc.React(settings.UserID, id, kind, emoji, c.Note); err != nil {
		return err
	}

	if kind == models.ReactionNote {
		fmt.Printf("✓ Note left on %s\n", cli.ShortID(id))
	} else {
		fmt.Printf("✓ Reacted %s to %s\n", emoji, cli.ShortID(id))
	}
	return nil
}

type ReactionsCmd struct {
	ID string `arg:"" help:"Entry id or unique prefix."`
}

func (c *ReactionsCmd) Run(ctx *cli.Context) error {
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
	reactions, err := svc.Reactions(id)
	if err != nil {
		return err
	}
	if len(reactions) == 0 {
		fmt.Println("No reactions yet.")
		return nil
	}
	for _, r := range reactions {
		when := r.CreatedAt.In(svc.Now().Location()).Format("Mon Jan 2 15:04")
		switch r.Kind {
		case models.ReactionNote:
			fmt.Printf("  %s  📝 %s %s\n", when, r.Emoji, r.Note)
		default:
			fmt.Printf("  %s  %s\n", when, r.Emoji)
		}
	}
	return nil
}
