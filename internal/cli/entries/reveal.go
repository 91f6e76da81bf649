package entries

import (
	"fmt"
	"time"

	"github.com/julianstephens/duet/internal/cli"
	"github.com/julianstephens/duet/internal/logger"
	"github.com/julianstephens/duet/internal/reveal"
	"github.com/julianstephens/duet/internal/tui"
)

type RevealCmd struct {
	Window int `help:"Override the number of trailing days to reveal."`
}

func (c *RevealCmd) Run(ctx *cli.Context) error {
	svc, settings, err := ctx.Journal()
	if err != nil {
		return err
	}
	if settings.PartnerID == "" {
		return fmt.Errorf("no partner configured; run 'duet settings --partner <id>'")
	}

	window := settings.RevealWindowDays
	if c.Window > 0 {
		window = c.Window
	}
	entries, err := svc.RevealEntries(settings.PartnerID, window)
	if err != nil {
		return fmt.Errorf("failed to load entries: %w", err)
	}

	profile, err := svc.Profile(settings.UserID)
	if err != nil {
		logger.Warn("Failed to load profile for theme", "error", err)
	}

	session := reveal.NewSession(entries, reveal.Options{
		StepBudget: time.Duration(settings.StepSeconds) * time.Second,
		UserID:     settings.UserID,
		Recorder:   svc.Recorder(),
	})
	logger.Debug("Starting reveal", "entries", len(entries), "window", window)

	p, driver := tui.NewProgram(session, tui.Options{
		PartnerName: settings.PartnerID,
		Accent:      profile.UnlockedThemes,
	})
	defer driver.Close()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running reveal: %w", err)
	}

	if n := len(driver.Reactions()); n > 0 {
		fmt.Printf("💞 %d reaction(s) sent\n", n)
	}
	return nil
}
