package settings

import (
	"fmt"

	"github.com/julianstephens/duet/internal/cli"
	"github.com/julianstephens/duet/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	User             *string `help:"Your user id."`
	Partner          *string `help:"Your partner's user id."`
	Timezone         *string `help:"IANA timezone used for unlock days (or 'Local')."`
	StepSeconds      *int    `help:"Seconds each reveal step is shown."`
	RevealWindowDays *int    `help:"How many trailing days a reveal covers."`
	RevealHour       *int    `help:"Hour shown as reveal time on unlock day (0-23)."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  User:               %s\n", orUnset(settings.UserID))
		fmt.Printf("  Partner:            %s\n", orUnset(settings.PartnerID))
		fmt.Printf("  Timezone:           %s\n", settings.Timezone)
		fmt.Println("\nReveal Settings:")
		fmt.Printf("  Step Seconds:       %d\n", settings.StepSeconds)
		fmt.Printf("  Reveal Window Days: %d\n", settings.RevealWindowDays)
		fmt.Printf("  Reveal Hour:        %02d:00\n", settings.RevealHour)
		return nil
	}

	updated := false
	if c.User != nil {
		settings.UserID = *c.User
		updated = true
	}
	if c.Partner != nil {
		settings.PartnerID = *c.Partner
		updated = true
	}
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone: %s", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.StepSeconds != nil {
		if *c.StepSeconds <= 0 {
			return fmt.Errorf("step seconds must be positive")
		}
		settings.StepSeconds = *c.StepSeconds
		updated = true
	}
	if c.RevealWindowDays != nil {
		if *c.RevealWindowDays <= 0 {
			return fmt.Errorf("reveal window must be at least one day")
		}
		settings.RevealWindowDays = *c.RevealWindowDays
		updated = true
	}
	if c.RevealHour != nil {
		if *c.RevealHour < 0 || *c.RevealHour > 23 {
			return fmt.Errorf("reveal hour must be 0-23")
		}
		settings.RevealHour = *c.RevealHour
		updated = true
	}

	if updated && settings.UserID != "" && settings.UserID == settings.PartnerID {
		return fmt.Errorf("user and partner must be different")
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
