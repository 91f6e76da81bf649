package entries

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/duet/internal/cli"
	"github.com/julianstephens/duet/internal/clock"
	"github.com/julianstephens/duet/internal/journal"
	"github.com/julianstephens/duet/internal/models"
	"github.com/julianstephens/duet/internal/storage"
	"github.com/julianstephens/duet/internal/storage/sqlite"
)

// Wednesday 10 January 2024, 20:00 local.
var wednesday = time.Date(2024, 1, 10, 20, 0, 0, 0, time.Local)

func setupTestDB(t *testing.T, user string) (*cli.Context, *clock.Manual) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "duet.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	settings.UserID = user
	settings.PartnerID = "sam"
	if user == "sam" {
		settings.PartnerID = "alex"
	}
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	c := clock.NewManual(wednesday)
	return &cli.Context{Store: store, Clock: c}, c
}

func TestWriteCmd(t *testing.T) {
	ctx, _ := setupTestDB(t, "alex")

	cmd := &WriteCmd{Content: "missed you today", Mood: "loved"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	mine, err := ctx.Store.GetEntriesByAuthor("alex")
	if err != nil {
		t.Fatalf("failed to list entries: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(mine))
	}
	e := mine[0]
	if e.Mood == nil || *e.Mood != models.MoodLoved {
		t.Errorf("expected loved mood, got %v", e.Mood)
	}
	if got := e.UnlockDate.Format("2006-01-02"); got != "2024-01-14" {
		t.Errorf("expected Sunday unlock, got %s", got)
	}

	profile, err := ctx.Store.GetProfile("alex")
	if err != nil {
		t.Fatalf("failed to get profile: %v", err)
	}
	if profile.CurrentStreak != 1 {
		t.Errorf("expected streak 1, got %d", profile.CurrentStreak)
	}
}

func TestWriteCmd_Special(t *testing.T) {
	tests := []struct {
		name    string
		special string
		want    string
		wantErr bool
	}{
		{name: "future", special: "2024-02-14", want: "2024-02-14"},
		{name: "today", special: "2024-01-10", wantErr: true},
		{name: "malformed", special: "Feb 14", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestDB(t, "alex")
			err := (&WriteCmd{Content: "for our anniversary", Special: tt.special}).Run(ctx)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("write failed: %v", err)
			}
			mine, _ := ctx.Store.GetEntriesByAuthor("alex")
			if len(mine) != 1 || !mine[0].IsSpecialDate {
				t.Fatalf("expected one special entry, got %+v", mine)
			}
			if got := mine[0].UnlockDate.Format("2006-01-02"); got != tt.want {
				t.Errorf("unlock = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWriteCmd_BadMood(t *testing.T) {
	ctx, _ := setupTestDB(t, "alex")
	if err := (&WriteCmd{Content: "hi", Mood: "meh"}).Run(ctx); err == nil {
		t.Fatal("expected error for unknown mood")
	}
}

func TestEditDeleteRestore(t *testing.T) {
	ctx, _ := setupTestDB(t, "alex")
	if err := (&WriteCmd{Content: "first draft", Mood: "calm"}).Run(ctx); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	mine, _ := ctx.Store.GetEntriesByAuthor("alex")
	id := mine[0].ID
	unlockDate := mine[0].UnlockDate

	content := "second draft"
	none := ""
	if err := (&EditCmd{ID: id[:8], Content: &content, Mood: &none}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	got, err := ctx.Store.GetEntry(id)
	if err != nil {
		t.Fatalf("failed to get entry: %v", err)
	}
	if got.Content != "second draft" || got.Mood != nil {
		t.Errorf("edit not applied: %+v", got)
	}
	if !got.UnlockDate.Equal(unlockDate) {
		t.Errorf("unlock date changed on edit: %v -> %v", unlockDate, got.UnlockDate)
	}

	if err := (&DeleteCmd{ID: id[:8]}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := ctx.Store.GetEntry(id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected deleted entry to be hidden, got %v", err)
	}

	if err := (&RestoreCmd{ID: id[:8]}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if _, err := ctx.Store.GetEntry(id); err != nil {
		t.Fatalf("expected restored entry, got %v", err)
	}
}

func TestEditCmd_OtherAuthor(t *testing.T) {
	ctx, _ := setupTestDB(t, "alex")
	svc := journal.NewService(ctx.Store, ctx.Clock)
	res, err := svc.Write("sam", journal.Draft{Content: "mine, not yours"})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	content := "hijack"
	if err := (&EditCmd{ID: res.Entry.ID, Content: &content}).Run(ctx); err == nil {
		t.Fatal("expected error editing partner's entry")
	}
}

func TestReactCmd(t *testing.T) {
	ctx, c := setupTestDB(t, "alex")
	svc := journal.NewService(ctx.Store, ctx.Clock)
	res, err := svc.Write("sam", journal.Draft{Content: "see you soon"})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	id := res.Entry.ID

	if err := (&ReactCmd{ID: id[:8], Emoji: "❤️"}).Run(ctx); !errors.Is(err, journal.ErrEntryLocked) {
		t.Fatalf("expected ErrEntryLocked before Sunday, got %v", err)
	}

	c.Advance(4 * 24 * time.Hour) // Sunday
	if err := (&ReactCmd{ID: id[:8], Emoji: "❤️"}).Run(ctx); err != nil {
		t.Fatalf("react failed: %v", err)
	}
	if err := (&ReactCmd{ID: id[:8], Note: "me too"}).Run(ctx); err != nil {
		t.Fatalf("note failed: %v", err)
	}

	reactions, err := ctx.Store.GetReactionsForEntry(id)
	if err != nil {
		t.Fatalf("failed to get reactions: %v", err)
	}
	if len(reactions) != 2 {
		t.Fatalf("expected 2 reactions, got %d", len(reactions))
	}
}

func TestReadCommands(t *testing.T) {
	ctx, c := setupTestDB(t, "alex")
	svc := journal.NewService(ctx.Store, ctx.Clock)
	if _, err := svc.Write("sam", journal.Draft{Content: "locked for now"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := (&WriteCmd{Content: "hello"}).Run(ctx); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	c.Advance(24 * time.Hour)

	cmds := []interface{ Run(*cli.Context) error }{
		&EntriesCmd{Limit: 10},
		&PartnerCmd{},
		&ProgressCmd{},
		&StreakCmd{},
	}
	for _, cmd := range cmds {
		if err := cmd.Run(ctx); err != nil {
			t.Errorf("%T failed: %v", cmd, err)
		}
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{d: 50 * time.Hour, want: "2d 2h"},
		{d: 90 * time.Minute, want: "1h 30m"},
		{d: 59 * time.Second, want: "1m"},
	}
	for _, tt := range tests {
		if got := formatCountdown(tt.d); got != tt.want {
			t.Errorf("formatCountdown(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestPreview(t *testing.T) {
	long := "a very long entry that keeps going and going well past the sixty character limit"
	got := preview(long)
	if len([]rune(got)) != 60 {
		t.Errorf("expected 60 runes, got %d: %q", len([]rune(got)), got)
	}
	if got := preview("line one\nline two"); got != "line one line two" {
		t.Errorf("preview collapsed = %q", got)
	}
}
