package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const notifLifetime = 4 * time.Second

// notification is one transient message shown above the status bar.
type notification struct {
	text    string
	isError bool
	expires time.Time
}

type notifications struct {
	entries []notification
}

func (n *notifications) add(text string, isError bool) {
	n.entries = append(n.entries, notification{
		text:    text,
		isError: isError,
		expires: time.Now().Add(notifLifetime),
	})
}

func (n *notifications) clear() {
	n.entries = nil
}

// expire drops every notification past its deadline and reports
// whether any remain.
func (n *notifications) expire(now time.Time) bool {
	kept := n.entries[:0]
	for _, e := range n.entries {
		if e.expires.After(now) {
			kept = append(kept, e)
		}
	}
	n.entries = kept
	return len(n.entries) > 0
}

func (n *notifications) empty() bool {
	return len(n.entries) == 0
}

// tick schedules the next expiry check.
func notifTick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return notifTickMsg(t)
	})
}

func (n *notifications) view(s styles, width int) string {
	if len(n.entries) == 0 {
		return ""
	}
	var lines []string
	for _, e := range n.entries {
		text := e.text
		if width > 4 {
			text = truncate(text, width-4)
		}
		if e.isError {
			lines = append(lines, s.errText.Render("✗ "+text))
		} else {
			lines = append(lines, s.success.Render("✓ "+text))
		}
	}
	return strings.Join(lines, "\n")
}
