package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/duet/internal/clock"
	"github.com/julianstephens/duet/internal/models"
	"github.com/julianstephens/duet/internal/reveal"
)

type stubTimer struct{}

func (stubTimer) Stop() bool { return true }

// stubScheduler records callbacks without running them.
type stubScheduler struct {
	scheduled int
}

func (s *stubScheduler) AfterFunc(time.Duration, func()) reveal.Timer {
	s.scheduled++
	return stubTimer{}
}

func newTestModel(t *testing.T, n int) Model {
	t.Helper()
	var entries []models.Entry
	for i := 0; i < n; i++ {
		entries = append(entries, models.Entry{
			ID:        string(rune('a' + i)),
			AuthorID:  "partner",
			Content:   "hello",
			CreatedAt: time.Date(2026, 3, 2+i, 9, 0, 0, 0, time.UTC),
		})
	}
	session := reveal.NewSession(entries, reveal.Options{StepBudget: time.Second, UserID: "me"})
	m, ps := NewModel(session, Options{
		PartnerName: "Sam",
		Clock:       clock.NewManual(time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)),
		Scheduler:   &stubScheduler{},
	})
	if ps != nil {
		t.Fatal("expected no program scheduler when one is supplied")
	}
	return m
}

func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelNavigation(t *testing.T) {
	m := newTestModel(t, 2)
	m = press(t, m, startMsg{})

	if m.view.Kind != reveal.StepIntro {
		t.Fatalf("expected intro, got %v", m.view.Kind)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.view.Kind != reveal.StepEntry || m.view.Index != 1 {
		t.Fatalf("expected first entry, got %v at %d", m.view.Kind, m.view.Index)
	}
	m = press(t, m, runes("h"))
	if m.view.Index != 0 {
		t.Errorf("expected intro after back, got %d", m.view.Index)
	}
}

func TestModelPauseToggle(t *testing.T) {
	m := newTestModel(t, 1)
	m = press(t, m, startMsg{})

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.view.Paused {
		t.Fatal("expected paused after space")
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.view.Paused {
		t.Fatal("expected playing after second space")
	}
}

func TestModelReact(t *testing.T) {
	m := newTestModel(t, 1)
	m = press(t, m, startMsg{})

	// Reactions on the intro are ignored.
	m = press(t, m, runes("1"))
	if len(m.Reactions()) != 0 {
		t.Fatalf("expected no reactions on intro, got %v", m.Reactions())
	}

	m = press(t, m, runes("n"))
	m = press(t, m, runes("2"))
	if m.view.Reaction != Emojis[1] {
		t.Errorf("expected %s selected, got %q", Emojis[1], m.view.Reaction)
	}
	m = press(t, m, runes("2"))
	if m.view.Reaction != "" {
		t.Errorf("expected selection cleared, got %q", m.view.Reaction)
	}
}

func TestModelRunMsgRefreshesView(t *testing.T) {
	m := newTestModel(t, 1)
	m = press(t, m, startMsg{})

	ran := false
	m = press(t, m, runMsg(func() { ran = true }))
	if !ran {
		t.Error("expected scheduled callback to run on update")
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, 1)
	m = press(t, m, startMsg{})

	next, cmd := m.Update(runes("q"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !m.view.Closed {
		t.Error("expected session closed on quit")
	}
	if m.View() != "" {
		t.Error("expected empty view after quit")
	}
}

// captureScheduler keeps the latest callback so a test can fire it by hand.
type captureScheduler struct {
	next func()
}

func (s *captureScheduler) AfterFunc(_ time.Duration, f func()) reveal.Timer {
	s.next = f
	return stubTimer{}
}

func TestModelQuitsWhenRevealCompletes(t *testing.T) {
	tests := []struct {
		name    string
		entries int
		ticks   int
	}{
		{name: "empty reveal", entries: 0, ticks: 2},
		{name: "one entry", entries: 1, ticks: 3},
		{name: "three entries", entries: 3, ticks: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entries []models.Entry
			for i := 0; i < tt.entries; i++ {
				entries = append(entries, models.Entry{ID: string(rune('a' + i)), AuthorID: "partner", Content: "hello"})
			}
			c := clock.NewManual(time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC))
			sched := &captureScheduler{}
			session := reveal.NewSession(entries, reveal.Options{StepBudget: time.Second, UserID: "me"})
			m, _ := NewModel(session, Options{Clock: c, Scheduler: sched})
			m = press(t, m, startMsg{})

			var cmd tea.Cmd
			ticks := 0
			for sched.next != nil && !m.quitting {
				f := sched.next
				sched.next = nil
				c.Advance(time.Second)
				var next tea.Model
				next, cmd = m.Update(runMsg(f))
				m = next.(Model)
				ticks++
			}

			if ticks != tt.ticks {
				t.Errorf("completed after %d ticks, want %d", ticks, tt.ticks)
			}
			if !m.quitting || !m.view.Closed {
				t.Fatalf("reveal did not close on completion: %+v", m.view)
			}
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Errorf("command returned %T, want tea.QuitMsg", cmd())
			}
		})
	}
}

func TestProgramSenderRoutesTicks(t *testing.T) {
	msgs := make(chan tea.Msg, 1)
	ps := &programSender{send: func(msg tea.Msg) { msgs <- msg }}
	sched := ps.scheduler()

	ran := false
	sched.AfterFunc(time.Millisecond, func() { ran = true })

	select {
	case msg := <-msgs:
		run, ok := msg.(runMsg)
		if !ok {
			t.Fatalf("sent %T, want runMsg", msg)
		}
		if ran {
			t.Fatal("callback ran off the event loop")
		}
		run()
		if !ran {
			t.Error("runMsg did not run the callback")
		}
	case <-time.After(time.Second):
		t.Fatal("tick was never delivered")
	}

	if timer := sched.AfterFunc(time.Hour, func() {}); !timer.Stop() {
		t.Error("Stop() on a pending tick = false")
	}
}

func TestViewRendersPartner(t *testing.T) {
	m := newTestModel(t, 0)
	m = press(t, m, startMsg{})
	if out := m.View(); !strings.Contains(out, "Sam") {
		t.Errorf("expected partner name in intro, got %q", out)
	}
}

func TestEntryFormDraft(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		form    EntryFormModel
		wantErr bool
		special bool
	}{
		{name: "plain", form: EntryFormModel{Content: " hi ", Mood: "calm"}},
		{name: "no mood", form: EntryFormModel{Content: "hi"}},
		{name: "bad mood", form: EntryFormModel{Content: "hi", Mood: "meh"}, wantErr: true},
		{name: "special", form: EntryFormModel{Content: "hi", Special: true, SpecialDate: "2026-03-20"}, special: true},
		{name: "special today", form: EntryFormModel{Content: "hi", Special: true, SpecialDate: "2026-03-04"}, wantErr: true},
		{name: "special malformed", form: EntryFormModel{Content: "hi", Special: true, SpecialDate: "03/20"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := tt.form.Draft(now)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Content != "hi" {
				t.Errorf("expected trimmed content, got %q", d.Content)
			}
			if tt.special != (d.SpecialDate != nil) || d.IsSpecialDate != tt.special {
				t.Errorf("special mismatch: %+v", d)
			}
		})
	}
}
