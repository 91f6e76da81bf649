// Package tui hosts the reveal session in a bubbletea program and provides
// the interactive entry editor.
package tui

import (
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/duet/internal/clock"
	"github.com/julianstephens/duet/internal/reveal"
)

// runMsg carries a scheduled driver callback onto the event loop.
type runMsg func()

type startMsg struct{}

// programSender delivers timer callbacks through the program's message queue,
// so every tick runs on the event loop alongside key handling.
type programSender struct {
	send func(tea.Msg)
}

func (s *programSender) scheduler() reveal.Scheduler {
	return reveal.SchedulerFunc(func(d time.Duration, f func()) reveal.Timer {
		return reveal.TimeScheduler{}.AfterFunc(d, func() {
			if s.send != nil {
				s.send(runMsg(f))
			}
		})
	})
}

// Options configures a reveal program.
type Options struct {
	PartnerName string
	Accent      []string // unlocked themes of the reader
	Clock       clock.Clock
	Scheduler   reveal.Scheduler
}

type Model struct {
	driver   *reveal.Driver
	view     reveal.View
	keys     KeyMap
	help     help.Model
	bar      progress.Model
	partner  string
	status   string
	width    int
	quitting bool
	// done is set by the driver once the finale's bar fills.
	done *atomic.Bool
}

// NewModel wraps session in a driver. When opts.Scheduler is nil the caller
// must use NewProgram so ticks are routed through the program.
func NewModel(session *reveal.Session, opts Options) (Model, *programSender) {
	c := opts.Clock
	if c == nil {
		c = clock.New(nil)
	}
	var ps *programSender
	sched := opts.Scheduler
	if sched == nil {
		ps = &programSender{}
		sched = ps.scheduler()
	}

	bar := progress.New(progress.WithSolidFill(string(Accent(opts.Accent))), progress.WithoutPercentage())
	done := new(atomic.Bool)
	driver := reveal.NewDriver(session, sched, c, reveal.WithOnComplete(func() { done.Store(true) }))

	return Model{
		driver:  driver,
		view:    driver.View(),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		bar:     bar,
		partner: opts.PartnerName,
		done:    done,
	}, ps
}

// NewProgram builds the bubbletea program for a reveal session.
func NewProgram(session *reveal.Session, opts Options) (*tea.Program, *reveal.Driver) {
	m, ps := NewModel(session, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if ps != nil {
		ps.send = p.Send
	}
	return p, m.driver
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return startMsg{} }
}

// Reactions returns what the reader chose during the session.
func (m Model) Reactions() map[string]string {
	return m.driver.Reactions()
}
