package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/duet/internal/constants"
	"github.com/julianstephens/duet/internal/models"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func testNotifier(configDir string, exe string) *Notifier {
	n := New()
	n.configDir = func() (string, error) { return configDir, nil }
	n.findProcess = func(pid int) (ps.Process, error) {
		if exe == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: exe}, nil
	}
	return n
}

func TestTrayConfigDir(t *testing.T) {
	base := t.TempDir()
	n := testNotifier(base, constants.TrayAppExecutable)

	want := filepath.Join(base, constants.TrayAppIdentifier)
	dir, err := n.TrayConfigDir()
	if err != nil || dir != want {
		t.Errorf("TrayConfigDir() = %q, %v; want %q", dir, err, want)
	}

	if err := os.MkdirAll(want, 0755); err != nil {
		t.Fatal(err)
	}
	settings := `{"settings": {"lockfile_dir": "/custom/duet/dir"}}`
	if err := os.WriteFile(filepath.Join(want, "settings.json"), []byte(settings), 0644); err != nil {
		t.Fatal(err)
	}
	dir, err = n.TrayConfigDir()
	if err != nil || dir != "/custom/duet/dir" {
		t.Errorf("TrayConfigDir() = %q, %v; want custom dir", dir, err)
	}
}

func TestLocateTray(t *testing.T) {
	lockfile := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	tests := []struct {
		name    string
		content string
		exe     string
		wantErr string
	}{
		{"missing lockfile", "", constants.TrayAppExecutable, "not running"},
		{"two parts", "8080|12345", constants.TrayAppExecutable, "malformed"},
		{"empty secret", "8080|12345|", constants.TrayAppExecutable, "secret"},
		{"empty port", "|12345|s3cret", constants.TrayAppExecutable, "port"},
		{"port out of range", "99999|12345|s3cret", constants.TrayAppExecutable, "range"},
		{"bad pid", "8080|abc|s3cret", constants.TrayAppExecutable, "process ID"},
		{"no process", "8080|12345|s3cret", "", "not running"},
		{"wrong executable", "8080|12345|s3cret", "other-app", "is not"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Remove(lockfile)
			if tt.content != "" {
				if err := os.WriteFile(lockfile, []byte(tt.content), 0644); err != nil {
					t.Fatal(err)
				}
			}
			_, _, err := testNotifier(t.TempDir(), tt.exe).locateTray(lockfile)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("locateTray() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}

	if err := os.WriteFile(lockfile, []byte("8080|12345|s3cret\n"), 0644); err != nil {
		t.Fatal(err)
	}
	port, secret, err := testNotifier(t.TempDir(), constants.TrayAppExecutable).locateTray(lockfile)
	if err != nil || port != "8080" || secret != "s3cret" {
		t.Errorf("locateTray() = %q, %q, %v", port, secret, err)
	}
}

func TestNotify(t *testing.T) {
	var got WebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Duet-Secret") != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if got.Text == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, "boom")
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	base := t.TempDir()
	trayDir := filepath.Join(base, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	lock := fmt.Sprintf("%s|4242|s3cret", u.Port())
	if err := os.WriteFile(filepath.Join(trayDir, constants.NotifierLockfileName), []byte(lock), 0600); err != nil {
		t.Fatal(err)
	}

	n := testNotifier(base, constants.TrayAppExecutable)
	if err := n.Notify(context.Background(), "hello"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if got.Text != "hello" || got.DurationMs != constants.NotificationDurationMs {
		t.Errorf("payload = %+v", got)
	}

	err = n.Notify(context.Background(), "fail")
	if err == nil || !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Notify() error = %v", err)
	}
}

func TestNotifyWithoutTray(t *testing.T) {
	n := testNotifier(t.TempDir(), constants.TrayAppExecutable)
	if err := n.Notify(context.Background(), "hi"); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("Notify() error = %v, want ErrTrayNotRunning", err)
	}
}

func TestUnlockedToday(t *testing.T) {
	now := time.Date(2024, 1, 14, 8, 0, 0, 0, time.UTC)
	entries := []models.Entry{
		{ID: "today", UnlockDate: time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)},
		{ID: "earlier", UnlockDate: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)},
		{ID: "later", UnlockDate: time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC)},
	}
	got := UnlockedToday(entries, now)
	if len(got) != 1 || got[0].ID != "today" {
		t.Errorf("UnlockedToday() = %+v", got)
	}
}

func TestUnlockMessage(t *testing.T) {
	if UnlockMessage(0) != "" {
		t.Error("UnlockMessage(0) should be empty")
	}
	if !strings.Contains(UnlockMessage(1), "entry") {
		t.Errorf("UnlockMessage(1) = %q", UnlockMessage(1))
	}
	if !strings.Contains(UnlockMessage(3), "3 entries") {
		t.Errorf("UnlockMessage(3) = %q", UnlockMessage(3))
	}
}
