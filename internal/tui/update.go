package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/julianstephens/duet/internal/errors"
	"github.com/julianstephens/duet/internal/logger"
	"github.com/julianstephens/duet/internal/reveal"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.bar.Width = min(msg.Width-8, 60)

	case startMsg:
		m.driver.Start()

	case runMsg:
		msg()

	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	}

	// The reveal closes itself once the finale has played out.
	if !m.quitting && m.done.Load() {
		cmd = m.quit()
	}
	m.view = m.driver.View()
	return m, cmd
}

func (m *Model) quit() tea.Cmd {
	m.driver.Close()
	m.quitting = true
	return tea.Quit
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Next):
		m.driver.StepForward()
		m.status = ""
	case key.Matches(msg, m.keys.Prev):
		m.driver.StepBack()
		m.status = ""
	case key.Matches(msg, m.keys.Pause):
		m.driver.TogglePause()
	case key.Matches(msg, m.keys.React):
		m.react(msg.String())
	}
	return nil
}

func (m *Model) react(k string) {
	i, err := strconv.Atoi(k)
	if err != nil || i < 1 || i > len(Emojis) {
		return
	}
	view := m.driver.View()
	if view.Kind != reveal.StepEntry || view.Entry == nil {
		return
	}

	_, err = m.driver.React(view.Entry.ID, Emojis[i-1])
	if err != nil {
		logger.Debug("Reaction not saved", "entry", view.Entry.ID, "error", err)
		m.status = apperrors.UserMessage(err)
		return
	}
	m.status = ""
}
