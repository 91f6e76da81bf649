package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/duet/internal/cli"
	"github.com/julianstephens/duet/internal/logger"
	"github.com/julianstephens/duet/internal/models"
	"github.com/julianstephens/duet/internal/notifier"
)

// Sender delivers a desktop notification.
type Sender interface {
	Notify(ctx context.Context, text string) error
}

type NotifyCmd struct {
	DryRun bool `help:"Print the notification instead of sending it."`

	sender Sender `kong:"-"`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	svc, settings, err := ctx.Journal()
	if err != nil {
		return err
	}

	feed, err := svc.PartnerFeed(settings.PartnerID)
	if err != nil {
		return fmt.Errorf("failed to load partner entries: %w", err)
	}

	readable := make([]models.Entry, 0, len(feed.Unlocked))
	for _, pe := range feed.Unlocked {
		readable = append(readable, pe.Entry)
	}
	fresh := notifier.UnlockedToday(readable, svc.Now())

	text := notifier.UnlockMessage(len(fresh))
	if text == "" {
		if c.DryRun {
			fmt.Println("Nothing unlocked today.")
		}
		return nil
	}
	if c.DryRun {
		fmt.Println(text)
		return nil
	}

	sender := c.sender
	if sender == nil {
		sender = notifier.New()
	}
	notifyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sender.Notify(notifyCtx, text); err != nil {
		if errors.Is(err, notifier.ErrTrayNotRunning) {
			logger.Debug("Tray not running, skipping notification")
			return nil
		}
		return fmt.Errorf("failed to send notification: %w", err)
	}
	logger.Info("Sent unlock notification", "entries", len(fresh))
	return nil
}
