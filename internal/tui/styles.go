package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// styles holds every lipgloss style derived from the active theme.
// Rebuilt once on theme change, never per frame.
type styles struct {
	title     lipgloss.Style
	text      lipgloss.Style
	muted     lipgloss.Style
	accent    lipgloss.Style
	trusted   lipgloss.Style
	remake    lipgloss.Style
	errText   lipgloss.Style
	success   lipgloss.Style
	selected  lipgloss.Style
	marked    lipgloss.Style
	popup     lipgloss.Style
	statusBar lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
		text:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		muted: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		accent: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),
		trusted: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)),
		remake:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error)),
		errText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Error)).
			Bold(true),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)),
		selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Selected)).
			Foreground(lipgloss.Color(t.Text)),
		marked: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Highlight)).
			Bold(true),
		popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),
		statusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),
	}
}
