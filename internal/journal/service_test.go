package journal

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/duet/internal/clock"
	"github.com/julianstephens/duet/internal/models"
	"github.com/julianstephens/duet/internal/reveal"
	"github.com/julianstephens/duet/internal/storage"
	"github.com/julianstephens/duet/internal/storage/sqlite"
	"github.com/julianstephens/duet/internal/unlock"
)

const (
	me      = "me"
	partner = "partner"
)

func setup(t *testing.T, start time.Time) (*Service, *clock.Manual, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "duet.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	c := clock.NewManual(start)
	return NewService(store, c), c, store
}

// Monday 8 January 2024, 09:00 local.
var monday = time.Date(2024, 1, 8, 9, 0, 0, 0, time.Local)

func mustWrite(t *testing.T, svc *Service, author, content string) models.Entry {
	t.Helper()
	res, err := svc.Write(author, Draft{Content: content})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return res.Entry
}

func TestWriteComputesUnlockDate(t *testing.T) {
	svc, _, store := setup(t, monday)

	res, err := svc.Write(me, Draft{Content: "  thinking of you  "})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if res.Entry.Content != "thinking of you" {
		t.Errorf("Content = %q", res.Entry.Content)
	}
	if got := res.Entry.UnlockDate.Format("2006-01-02"); got != "2024-01-14" {
		t.Errorf("UnlockDate = %s, want next Sunday", got)
	}
	if res.StreakErr != nil {
		t.Errorf("StreakErr = %v", res.StreakErr)
	}
	if res.After.CurrentStreak != 1 || res.After.TotalEntries != 1 {
		t.Errorf("profile after first entry = %+v", res.After)
	}

	stored, err := store.GetEntry(res.Entry.ID)
	if err != nil {
		t.Fatalf("GetEntry() error = %v", err)
	}
	if !stored.UnlockDate.Equal(res.Entry.UnlockDate) {
		t.Errorf("stored UnlockDate = %v", stored.UnlockDate)
	}
}

func TestWriteSpecialDate(t *testing.T) {
	svc, _, _ := setup(t, monday)
	anniversary := time.Date(2024, 2, 14, 18, 30, 0, 0, time.Local)

	res, err := svc.Write(me, Draft{Content: "for our day", IsSpecialDate: true, SpecialDate: &anniversary})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got := res.Entry.UnlockDate.Format("2006-01-02"); got != "2024-02-14" || res.Entry.UnlockDate.Hour() != 0 {
		t.Errorf("UnlockDate = %v", res.Entry.UnlockDate)
	}

	if _, err := svc.Write(me, Draft{Content: "oops", IsSpecialDate: true}); !errors.Is(err, unlock.ErrInvalidUnlockConfiguration) {
		t.Errorf("Write() without special date error = %v", err)
	}
}

func TestWriteRejectsEmptyContent(t *testing.T) {
	svc, _, _ := setup(t, monday)
	if _, err := svc.Write(me, Draft{Content: "   "}); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("Write() error = %v, want ErrEmptyContent", err)
	}
}

func TestWriteBuildsStreakAndThemes(t *testing.T) {
	svc, c, _ := setup(t, monday)

	var res WriteResult
	for day := 0; day < 3; day++ {
		var err error
		res, err = svc.Write(me, Draft{Content: "day"})
		if err != nil {
			t.Fatal(err)
		}
		c.Advance(24 * time.Hour)
	}
	if res.After.CurrentStreak != 3 {
		t.Errorf("CurrentStreak = %d, want 3", res.After.CurrentStreak)
	}
	if len(res.NewThemes) != 1 || res.NewThemes[0] != "blush" {
		t.Errorf("NewThemes = %v, want [blush]", res.NewThemes)
	}

	profile, err := svc.Profile(me)
	if err != nil || !profile.HasTheme("blush") {
		t.Errorf("Profile() = %+v, %v", profile, err)
	}
}

type failingProfiles struct {
	*sqlite.Store
}

func (failingProfiles) SaveProfile(models.Profile) error { return errors.New("backend down") }

func TestWriteSurvivesStreakFailure(t *testing.T) {
	_, c, store := setup(t, monday)
	svc := NewService(failingProfiles{store}, c)

	res, err := svc.Write(me, Draft{Content: "still saved"})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if res.StreakErr == nil {
		t.Error("StreakErr should report the failed profile save")
	}
	if _, err := store.GetEntry(res.Entry.ID); err != nil {
		t.Errorf("entry not saved: %v", err)
	}
}

func TestEditKeepsUnlockDate(t *testing.T) {
	svc, c, _ := setup(t, monday)
	entry := mustWrite(t, svc, me, "first draft")

	c.Advance(3 * 24 * time.Hour)
	content := "second draft"
	mood := models.MoodLoved
	edited, err := svc.Edit(me, entry.ID, models.EntryPatch{Content: &content, Mood: &mood})
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if edited.Content != content || edited.Mood == nil || *edited.Mood != mood {
		t.Errorf("Edit() = %+v", edited)
	}
	if !edited.UnlockDate.Equal(entry.UnlockDate) {
		t.Errorf("UnlockDate changed from %v to %v", entry.UnlockDate, edited.UnlockDate)
	}

	edited, err = svc.Edit(me, entry.ID, models.EntryPatch{ClearMood: true})
	if err != nil || edited.Mood != nil {
		t.Errorf("ClearMood edit = %+v, %v", edited, err)
	}

	empty := " "
	if _, err := svc.Edit(me, entry.ID, models.EntryPatch{Content: &empty}); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("Edit() with empty content error = %v", err)
	}
	if _, err := svc.Edit(partner, entry.ID, models.EntryPatch{Content: &content}); !errors.Is(err, ErrNotAuthor) {
		t.Errorf("Edit() by partner error = %v", err)
	}
}

func TestDeleteAndRestore(t *testing.T) {
	svc, _, _ := setup(t, monday)
	entry := mustWrite(t, svc, me, "regret")

	if err := svc.Delete(partner, entry.ID); !errors.Is(err, ErrNotAuthor) {
		t.Errorf("Delete() by partner error = %v", err)
	}
	if err := svc.Delete(me, entry.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if mine, _ := svc.Mine(me); len(mine) != 0 {
		t.Errorf("Mine() after delete = %d entries", len(mine))
	}

	if err := svc.Restore(partner, entry.ID); !errors.Is(err, ErrNotAuthor) {
		t.Errorf("Restore() by partner error = %v", err)
	}
	if err := svc.Restore(me, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Restore(missing) error = %v", err)
	}
	if err := svc.Restore(me, entry.ID); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if mine, _ := svc.Mine(me); len(mine) != 1 {
		t.Errorf("Mine() after restore = %d entries", len(mine))
	}
}

func TestPartnerFeedAndReveal(t *testing.T) {
	svc, c, _ := setup(t, monday)

	for day := 0; day < 7; day++ {
		mustWrite(t, svc, partner, time.Weekday((day+1)%7).String())
		c.Advance(24 * time.Hour)
	}
	// Clock is now Monday 15 January 09:00; step back to Sunday 10:00.
	c.Set(time.Date(2024, 1, 14, 10, 0, 0, 0, time.Local))

	feed, err := svc.PartnerFeed(partner)
	if err != nil {
		t.Fatalf("PartnerFeed() error = %v", err)
	}
	if len(feed.Unlocked) != 6 || len(feed.Locked) != 1 {
		t.Fatalf("PartnerFeed() unlocked=%d locked=%d, want 6/1", len(feed.Unlocked), len(feed.Locked))
	}
	if feed.NextUnlockDate == nil || feed.NextUnlockDate.Format("2006-01-02") != "2024-01-21" {
		t.Errorf("NextUnlockDate = %v", feed.NextUnlockDate)
	}

	entries, err := svc.RevealEntries(partner, 7)
	if err != nil {
		t.Fatalf("RevealEntries() error = %v", err)
	}
	if len(entries) != 6 {
		t.Fatalf("RevealEntries() = %d entries, want 6", len(entries))
	}
	if entries[0].Content != "Monday" || entries[5].Content != "Saturday" {
		t.Errorf("reveal order = %s..%s, want Monday..Saturday", entries[0].Content, entries[5].Content)
	}

	// The author still sees everything, including the locked Sunday entry.
	if mine, _ := svc.Mine(partner); len(mine) != 7 {
		t.Errorf("Mine() = %d entries, want 7", len(mine))
	}
}

func TestRevealBeforeUnlockIsEmpty(t *testing.T) {
	svc, c, _ := setup(t, monday)
	mustWrite(t, svc, partner, "not yet")
	c.Advance(2 * 24 * time.Hour)

	entries, err := svc.RevealEntries(partner, 7)
	if err != nil {
		t.Fatalf("RevealEntries() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("RevealEntries() leaked %d locked entries", len(entries))
	}
}

func TestProgress(t *testing.T) {
	svc, c, _ := setup(t, monday)
	mustWrite(t, svc, me, "mon")
	c.Advance(2 * 24 * time.Hour)
	mustWrite(t, svc, me, "wed")
	mustWrite(t, svc, me, "wed again")
	mustWrite(t, svc, partner, "not mine")

	p, err := svc.Progress(me)
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	want := models.WeeklyProgress{true, false, true, false, false, false, false}
	if p != want {
		t.Errorf("Progress() = %v, want %v", p, want)
	}
}

func TestReact(t *testing.T) {
	svc, c, _ := setup(t, monday)
	entry := mustWrite(t, svc, partner, "guess what")

	if _, err := svc.React(me, entry.ID, models.ReactionHeart, "❤️", ""); !errors.Is(err, ErrEntryLocked) {
		t.Errorf("React() on locked entry error = %v", err)
	}

	c.Set(time.Date(2024, 1, 14, 10, 0, 0, 0, time.Local))
	if _, err := svc.React(partner, entry.ID, models.ReactionHeart, "❤️", ""); !errors.Is(err, ErrOwnEntry) {
		t.Errorf("React() on own entry error = %v", err)
	}
	r, err := svc.React(me, entry.ID, models.ReactionNote, "", "tell me more")
	if err != nil {
		t.Fatalf("React() error = %v", err)
	}
	if r.ID == "" || r.Kind != models.ReactionNote {
		t.Errorf("React() = %+v", r)
	}

	got, err := svc.Reactions(entry.ID)
	if err != nil || len(got) != 1 || got[0].Note != "tell me more" {
		t.Errorf("Reactions() = %+v, %v", got, err)
	}
}

func TestRevealToggleKeepsEarlierSessionReactions(t *testing.T) {
	svc, c, _ := setup(t, monday)
	entry := mustWrite(t, svc, partner, "guess what")
	c.Set(time.Date(2024, 1, 14, 10, 0, 0, 0, time.Local))

	newSession := func() *reveal.Session {
		t.Helper()
		entries, err := svc.RevealEntries(partner, 7)
		if err != nil || len(entries) != 1 {
			t.Fatalf("RevealEntries() = %d entries, %v", len(entries), err)
		}
		s := reveal.NewSession(entries, reveal.Options{UserID: me, Recorder: svc.Recorder()})
		s.StepForward()
		return s
	}

	first := newSession()
	if _, err := first.React(entry.ID, "❤️"); err != nil {
		t.Fatalf("first React() error = %v", err)
	}
	first.Close()

	second := newSession()
	for i := 0; i < 2; i++ {
		if _, err := second.React(entry.ID, "❤️"); err != nil {
			t.Fatalf("second React() #%d error = %v", i, err)
		}
	}
	if second.Reaction(entry.ID) != "" {
		t.Errorf("selecting twice should clear, got %q", second.Reaction(entry.ID))
	}

	got, err := svc.Reactions(entry.ID)
	if err != nil {
		t.Fatalf("Reactions() error = %v", err)
	}
	if len(got) != 1 || got[0].Emoji != "❤️" {
		t.Errorf("Reactions() = %+v, want the first reveal's heart only", got)
	}
}
