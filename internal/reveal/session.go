// Package reveal drives the timed, step-through disclosure of a partner's
// unlocked entries: an intro, one step per entry, and a finale.
//
// Session is a plain state machine advanced by Tick; it owns no timers.
// Driver connects a Session to a host scheduler and a clock.
package reveal

import (
	"errors"
	"time"

	"github.com/julianstephens/duet/internal/constants"
	"github.com/julianstephens/duet/internal/logger"
	"github.com/julianstephens/duet/internal/models"
)

var (
	ErrSessionClosed = errors.New("reveal session is closed")
	ErrNotOnEntry    = errors.New("reactions are only accepted on the entry being shown")
	ErrEmptyEmoji    = errors.New("reaction emoji is empty")
)

type StepKind int

const (
	StepIntro StepKind = iota
	StepEntry
	StepFinale
)

func (k StepKind) String() string {
	switch k {
	case StepIntro:
		return "intro"
	case StepEntry:
		return "entry"
	case StepFinale:
		return "finale"
	default:
		return "unknown"
	}
}

// Step is one screen of a reveal. Entry is set only for StepEntry.
type Step struct {
	Kind  StepKind
	Entry *models.Entry
}

// Forwarder receives reaction changes as they happen.
type Forwarder interface {
	React(entryID, userID string, kind models.ReactionKind, emoji, note string) (models.Reaction, error)
	Retract(reactionID string) error
}

type Options struct {
	// StepBudget is how long each step is shown. Zero means constants.StepBudget.
	StepBudget time.Duration
	// UserID is the reader reacting to entries.
	UserID string
	// Recorder is optional; without it reactions stay local to the session.
	Recorder Forwarder
}

// View is what a host needs to render the current step.
type View struct {
	Index     int
	Count     int
	Kind      StepKind
	Entry     *models.Entry
	Progress  float64 // fill of the current step's bar, 0..1
	Remaining time.Duration
	Paused    bool
	Complete  bool
	Closed    bool
	Reaction  string // emoji selected on this step's entry, if any
}

// ReactionChange describes what a React call did to the local selection.
type ReactionChange struct {
	EntryID  string
	Emoji    string // selection after the change, empty when cleared
	Previous string
}

// Session is the reveal state machine. It is not safe for concurrent use.
type Session struct {
	steps     []Step
	current   int
	budget    time.Duration
	elapsed   time.Duration
	paused    bool
	complete  bool
	closed    bool
	token     uint64
	userID    string
	recorder  Forwarder
	reactions map[string]string
	saved     map[string]string // entry id to the stored row behind its selection
}

// NewSession builds a session over entries, keeping their order. An empty
// list still yields a valid intro and finale.
func NewSession(entries []models.Entry, opts Options) *Session {
	budget := opts.StepBudget
	if budget <= 0 {
		budget = constants.StepBudget
	}

	steps := make([]Step, 0, len(entries)+2)
	steps = append(steps, Step{Kind: StepIntro})
	for i := range entries {
		e := entries[i]
		steps = append(steps, Step{Kind: StepEntry, Entry: &e})
	}
	steps = append(steps, Step{Kind: StepFinale})

	return &Session{
		steps:     steps,
		budget:    budget,
		userID:    opts.UserID,
		recorder:  opts.Recorder,
		reactions: make(map[string]string),
		saved:     make(map[string]string),
	}
}

func (s *Session) Len() int              { return len(s.steps) }
func (s *Session) Current() int          { return s.current }
func (s *Session) Step() Step            { return s.steps[s.current] }
func (s *Session) Paused() bool          { return s.paused }
func (s *Session) Complete() bool        { return s.complete }
func (s *Session) Closed() bool          { return s.closed }
func (s *Session) Budget() time.Duration { return s.budget }

// Token changes whenever the timing context changes: a new step, a pause, a
// resume or a close. A tick scheduled under an old token must be dropped.
func (s *Session) Token() uint64 { return s.token }

// Running reports whether the step timer should be ticking.
func (s *Session) Running() bool {
	return !s.paused && !s.complete && !s.closed
}

// Remaining is the unspent budget of the current step.
func (s *Session) Remaining() time.Duration {
	if s.elapsed >= s.budget {
		return 0
	}
	return s.budget - s.elapsed
}

// Progress is the current step's elapsed share of its budget, clamped to [0,1].
func (s *Session) Progress() float64 {
	p := float64(s.elapsed) / float64(s.budget)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func (s *Session) last() int { return len(s.steps) - 1 }

// Tick adds elapsed active time to the current step. A full bar advances to
// the next step, or completes the session on the finale. It reports whether
// the step changed. Ticks while paused, complete or closed are ignored.
func (s *Session) Tick(elapsed time.Duration) bool {
	if !s.Running() || elapsed <= 0 {
		return false
	}
	s.elapsed += elapsed
	if s.elapsed < s.budget {
		return false
	}
	if s.current < s.last() {
		s.enter(s.current + 1)
		return true
	}
	s.elapsed = s.budget
	s.complete = true
	s.token++
	return false
}

// Pause freezes the current step, keeping its progress.
func (s *Session) Pause() bool {
	if !s.Running() {
		return false
	}
	s.paused = true
	s.token++
	return true
}

// Resume continues the current step from its remaining budget.
func (s *Session) Resume() bool {
	if !s.paused || s.closed {
		return false
	}
	s.paused = false
	s.token++
	return true
}

// TogglePause pauses a running step or resumes a paused one.
func (s *Session) TogglePause() bool {
	if s.paused {
		return s.Resume()
	}
	return s.Pause()
}

// StepForward moves to the next step with a full budget. It is a no-op on the last step.
func (s *Session) StepForward() bool {
	if s.closed || s.current >= s.last() {
		return false
	}
	s.enter(s.current + 1)
	return true
}

// StepBack moves to the previous step with a full budget. It is a no-op on the first step.
func (s *Session) StepBack() bool {
	if s.closed || s.current == 0 {
		return false
	}
	s.enter(s.current - 1)
	return true
}

// enter makes step i current with a fresh budget. Navigation always resumes playback.
func (s *Session) enter(i int) {
	s.current = i
	s.elapsed = 0
	s.paused = false
	s.complete = false
	s.token++
}

// Close ends the session. Further commands are ignored.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.token++
}

// React toggles emoji on the entry currently shown. Choosing the selected
// emoji again clears it; choosing another replaces it. Every change is sent
// to the recorder straight away. A recorder failure is logged and returned,
// but the local selection stands.
func (s *Session) React(entryID, emoji string) (ReactionChange, error) {
	if s.closed {
		return ReactionChange{}, ErrSessionClosed
	}
	step := s.Step()
	if step.Kind != StepEntry || step.Entry.ID != entryID {
		return ReactionChange{}, ErrNotOnEntry
	}
	if emoji == "" {
		return ReactionChange{}, ErrEmptyEmoji
	}

	prev := s.reactions[entryID]
	change := ReactionChange{EntryID: entryID, Previous: prev}
	if prev == emoji {
		delete(s.reactions, entryID)
	} else {
		s.reactions[entryID] = emoji
		change.Emoji = emoji
	}

	return change, s.forward(change)
}

func (s *Session) forward(change ReactionChange) error {
	if s.recorder == nil {
		return nil
	}
	var firstErr error
	// Only the row this session stored is retracted. A selection whose insert
	// failed has no row, and rows from earlier reveals are left alone.
	if id, ok := s.saved[change.EntryID]; ok && change.Previous != "" {
		delete(s.saved, change.EntryID)
		if err := s.recorder.Retract(id); err != nil {
			logger.Warn("Failed to retract reaction", "entry", change.EntryID, "reaction", id, "error", err)
			firstErr = err
		}
	}
	if change.Emoji != "" {
		r, err := s.recorder.React(change.EntryID, s.userID, models.ReactionHeart, change.Emoji, "")
		if err != nil {
			logger.Warn("Failed to record reaction", "entry", change.EntryID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		} else {
			s.saved[change.EntryID] = r.ID
		}
	}
	return firstErr
}

// Reaction returns the emoji selected on entryID in this session.
func (s *Session) Reaction(entryID string) string {
	return s.reactions[entryID]
}

// Reactions returns a copy of all selections made in this session.
func (s *Session) Reactions() map[string]string {
	out := make(map[string]string, len(s.reactions))
	for k, v := range s.reactions {
		out[k] = v
	}
	return out
}

func (s *Session) View() View {
	step := s.Step()
	v := View{
		Index:     s.current,
		Count:     len(s.steps),
		Kind:      step.Kind,
		Entry:     step.Entry,
		Progress:  s.Progress(),
		Remaining: s.Remaining(),
		Paused:    s.paused,
		Complete:  s.complete,
		Closed:    s.closed,
	}
	if step.Entry != nil {
		v.Reaction = s.reactions[step.Entry.ID]
	}
	return v
}
