package tui

import "github.com/charmbracelet/lipgloss"

var (
	docStyle = lipgloss.NewStyle().Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Italic(true)

	moodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("180"))

	contentStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(1, 2)

	specialStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	reactionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// themeColors maps unlocked streak themes to an accent color.
var themeColors = map[string]lipgloss.Color{
	"blush":    lipgloss.Color("218"),
	"sunset":   lipgloss.Color("209"),
	"lavender": lipgloss.Color("183"),
	"midnight": lipgloss.Color("61"),
}

// Accent returns the color for the most recent theme in themes.
func Accent(themes []string) lipgloss.Color {
	for i := len(themes) - 1; i >= 0; i-- {
		if c, ok := themeColors[themes[i]]; ok {
			return c
		}
	}
	return lipgloss.Color("205")
}
