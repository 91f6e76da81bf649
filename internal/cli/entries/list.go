package entries

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/duet/internal/cli"
	"github.com/julianstephens/duet/internal/constants"
	"github.com/julianstephens/duet/internal/models"
	"github.com/julianstephens/duet/internal/progress"
	"github.com/julianstephens/duet/internal/unlock"
)

type EntriesCmd struct {
	Limit int `help:"Show at most this many entries." default:"20"`
}

func (c *EntriesCmd) Run(ctx *cli.Context) error {
	svc, settings, err := ctx.Journal()
	if err != nil {
		return err
	}
	mine, err := svc.Mine(settings.UserID)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}
	if len(mine) == 0 {
		fmt.Println("No entries yet. Start with 'duet write'.")
		return nil
	}

	now := svc.Now()
	for i, e := range mine {
		if c.Limit > 0 && i >= c.Limit {
			fmt.Printf("... and %d more\n", len(mine)-i)
			break
		}
		state := "🔓"
		if !unlock.IsUnlocked(e.UnlockDate, now) {
			state = "🔒"
		}
		fmt.Printf("%s %s  %s  %s%s\n", state, cli.ShortID(e.ID), e.CreatedAt.In(now.Location()).Format("Mon Jan 2"), moodLabel(e.Mood), preview(e.Content))
		if e.IsSpecialDate {
			fmt.Printf("   ★ special date %s\n", e.UnlockDate.Format(constants.DateFormat))
		}
	}
	return nil
}

type PartnerCmd struct{}

func (c *PartnerCmd) Run(ctx *cli.Context) error {
	svc, settings, err := ctx.Journal()
	if err != nil {
		return err
	}
	if settings.PartnerID == "" {
		return fmt.Errorf("no partner configured; run 'duet settings --partner <id>'")
	}
	feed, err := svc.PartnerFeed(settings.PartnerID)
	if err != nil {
		return fmt.Errorf("failed to load partner entries: %w", err)
	}
	now := svc.Now()

	fmt.Printf("From %s (%d readable):\n\n", settings.PartnerID, len(feed.Unlocked))
	for _, pe := range feed.Unlocked {
		fmt.Printf("  %s  %s  %s%s\n", cli.ShortID(pe.ID), pe.CreatedAt.In(now.Location()).Format("Mon Jan 2"), moodLabel(pe.Mood), preview(pe.Content))
	}

	if len(feed.Locked) > 0 {
		fmt.Printf("\n🔒 %d letter(s) still sealed\n", len(feed.Locked))
		if feed.NextUnlockDate != nil {
			fmt.Printf("   Next reveal %s at %02d:00", feed.NextUnlockDate.Format("Monday, Jan 2"), settings.RevealHour)
			if d := unlock.RevealCountdown(*feed.NextUnlockDate, settings.RevealHour, now); d > 0 {
				fmt.Printf(" (in %s)", formatCountdown(d))
			}
			fmt.Println()
		}
	}
	return nil
}

type ProgressCmd struct{}

func (c *ProgressCmd) Run(ctx *cli.Context) error {
	svc, settings, err := ctx.Journal()
	if err != nil {
		return err
	}
	p, err := svc.Progress(settings.UserID)
	if err != nil {
		return fmt.Errorf("failed to compute progress: %w", err)
	}

	fmt.Println(progress.Bar(p, "●", "○"))
	n := progress.Count(p)
	if progress.GoalMet(p, constants.WeeklyGoalDays) {
		fmt.Printf("\n%d/7 days. Weekly goal met 🎉\n", n)
	} else {
		fmt.Printf("\n%d/7 days. %d more for the weekly goal.\n", n, constants.WeeklyGoalDays-n)
	}
	return nil
}

type StreakCmd struct{}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	svc, settings, err := ctx.Journal()
	if err != nil {
		return err
	}
	p, err := svc.Profile(settings.UserID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	fmt.Printf("🔥 Current streak: %d\n", p.CurrentStreak)
	fmt.Printf("   Longest streak: %d\n", p.LongestStreak)
	fmt.Printf("   Total entries:  %d\n", p.TotalEntries)
	if len(p.UnlockedThemes) > 0 {
		fmt.Printf("   Themes:         %s\n", strings.Join(p.UnlockedThemes, ", "))
	}
	for _, t := range constants.ThemeUnlocks {
		if !p.HasTheme(t.Theme) {
			fmt.Printf("   Next theme:     %s at %d days\n", t.Theme, t.Streak)
			break
		}
	}
	return nil
}

func moodLabel(m *models.Mood) string {
	if m == nil {
		return ""
	}
	return "(" + string(*m) + ") "
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > 60 {
		return string(r[:57]) + "..."
	}
	return s
}

func formatCountdown(d time.Duration) string {
	d = d.Round(time.Minute)
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}
