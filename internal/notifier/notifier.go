// Package notifier pushes desktop notifications through the duet tray app,
// which listens on a localhost webhook advertised in a lockfile.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/duet/internal/constants"
	"github.com/julianstephens/duet/internal/models"
	"github.com/julianstephens/duet/internal/utils"
)

var ErrTrayNotRunning = errors.New(constants.TrayAppExecutable + " is not running")

type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

type Notifier struct {
	configDir   func() (string, error)
	findProcess func(int) (ps.Process, error)
	client      *http.Client
}

func New() *Notifier {
	return &Notifier{
		configDir:   os.UserConfigDir,
		findProcess: ps.FindProcess,
		client:      &http.Client{Timeout: 5 * time.Second},
	}
}

// Notify shows text as a desktop notification.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	dir, err := n.TrayConfigDir()
	if err != nil {
		return err
	}
	port, secret, err := n.locateTray(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}
	return n.send(ctx, port, secret, WebhookPayload{
		Text:       text,
		DurationMs: constants.NotificationDurationMs,
	})
}

// TrayConfigDir is where the tray app keeps its lockfile. The tray's own
// settings.json may redirect it.
func (n *Notifier) TrayConfigDir() (string, error) {
	base, err := n.configDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	dir := filepath.Join(base, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	if err != nil {
		return dir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if json.Unmarshal(data, &store) == nil && store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
		return *store.Settings.LockfileDir, nil
	}
	return dir, nil
}

// locateTray reads "port|pid|secret" from the lockfile and checks that pid
// really is the tray app.
func (n *Notifier) locateTray(lockfilePath string) (port, secret string, err error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", ErrTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}
	port, pidStr, secret := strings.TrimSpace(parts[0]), parts[1], parts[2]

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	if strings.TrimSpace(secret) == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	proc, err := n.findProcess(pid)
	if err != nil || proc == nil {
		return "", "", ErrTrayNotRunning
	}
	if !strings.HasPrefix(proc.Executable(), constants.TrayAppExecutable) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.TrayAppExecutable, proc.Executable())
	}
	return port, secret, nil
}

func (n *Notifier) send(ctx context.Context, port, secret string, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://127.0.0.1:"+port, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Duet-Secret", secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(msg))
}

// UnlockedToday returns the entries whose unlock date is today.
func UnlockedToday(entries []models.Entry, now time.Time) []models.Entry {
	var out []models.Entry
	for _, e := range entries {
		if utils.SameDate(e.UnlockDate, now) {
			out = append(out, e)
		}
	}
	return out
}

// UnlockMessage is the notification text for n newly readable entries.
func UnlockMessage(n int) string {
	switch n {
	case 0:
		return ""
	case 1:
		return "💌 Your partner's entry just unlocked. Run 'duet reveal' to read it."
	default:
		return fmt.Sprintf("💌 %d entries from your partner just unlocked. Run 'duet reveal' to read them.", n)
	}
}
