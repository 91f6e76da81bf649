package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/duet/internal/reveal"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.view.Kind {
	case reveal.StepIntro:
		body = m.viewIntro()
	case reveal.StepEntry:
		body = m.viewEntry()
	case reveal.StepFinale:
		body = m.viewFinale()
	}

	header := stepStyle.Render(fmt.Sprintf("%d / %d", m.view.Index+1, m.view.Count))
	if m.view.Paused {
		header += "  " + pausedStyle.Render("❚❚ paused")
	}

	parts := []string{header, body, m.bar.ViewAs(m.view.Progress)}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	parts = append(parts, m.help.View(m.keys))
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) name() string {
	if m.partner == "" {
		return "your partner"
	}
	return m.partner
}

func (m Model) viewIntro() string {
	entries := m.view.Count - 2
	var sub string
	switch entries {
	case 0:
		sub = "Nothing new this week. The finale is still yours."
	case 1:
		sub = "One letter is waiting."
	default:
		sub = fmt.Sprintf("%d letters are waiting.", entries)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("💌 This week from "+m.name()),
		"",
		sub,
		"",
	)
}

func (m Model) viewEntry() string {
	e := m.view.Entry
	if e == nil {
		return ""
	}

	meta := dateStyle.Render(e.CreatedAt.Local().Format("Monday, Jan 2"))
	if e.Mood != nil {
		meta += "  " + moodStyle.Render("feeling "+string(*e.Mood))
	}
	if e.IsSpecialDate {
		meta += "  " + specialStyle.Render("★ saved for "+e.UnlockDate.Format("Jan 2"))
	}

	width := 60
	if m.width > 0 {
		width = min(m.width-8, 72)
	}
	content := contentStyle.Width(width).Render(e.Content)
	if e.PhotoURL != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, stepStyle.Render("📷 "+e.PhotoURL))
	}

	var picks []string
	for i, emoji := range Emojis {
		label := fmt.Sprintf("%d %s", i+1, emoji)
		if emoji == m.view.Reaction {
			label = reactionStyle.Render("[" + label + "]")
		}
		picks = append(picks, label)
	}

	return lipgloss.JoinVertical(lipgloss.Left, meta, content, strings.Join(picks, "  "), "")
}

func (m Model) viewFinale() string {
	reactions := m.driver.Reactions()
	lines := []string{titleStyle.Render("That's everything for now 💞"), ""}
	if len(reactions) == 0 {
		lines = append(lines, "Press ← to revisit a letter, or q to close.")
	} else {
		lines = append(lines, fmt.Sprintf("You reacted to %d letter(s). %s will see them.", len(reactions), m.name()))
	}
	if m.view.Complete {
		lines = append(lines, stepStyle.Render("Reveal complete."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, append(lines, "")...)
}
