package tui

import (
	"fmt"
	"strings"
)

// HintsForMode returns the short key hints shown in the status bar.
func (kh *KeyHandler) HintsForMode(kind ModeKind) []string {
	switch kind {
	case ModeNormal:
		return []string{"/: search", "enter: download", "space: batch", "?: help", "q: quit"}
	case ModeSearch:
		return []string{"enter: search", "esc: cancel"}
	case ModeCategory:
		return []string{"enter: select", "tab: next group", "esc: cancel"}
	case ModeSort, ModeFilter, ModeTheme, ModeSources, ModeClients:
		return []string{"enter: select", "esc: cancel"}
	case ModeBatch:
		return []string{"enter: download all", "space: remove", "c: clear", "esc: back"}
	case ModePage, ModeUser, ModeCaptcha:
		return []string{"enter: confirm", "esc: cancel"}
	case ModeKeyCombo:
		return []string{"t: torrent", "m: magnet", "p: post", "i: id", "esc: cancel"}
	case ModeHelp:
		return []string{"j/k: scroll", "esc: back"}
	}
	return nil
}

type helpEntry struct {
	keys string
	desc string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

func helpSections() []helpSection {
	return []helpSection{
		{"Results", []helpEntry{
			{"j/k, ↓/↑", "Move cursor"},
			{"g/G", "First/last result"},
			{"h/l, ←/→", "Previous/next page"},
			{"p", "Go to page"},
			{"r", "Reload"},
			{"enter", "Download with active client"},
			{"space", "Toggle item in batch"},
			{"ctrl+a", "Toggle every item on the page"},
			{"tab", "Open batch"},
			{"o", "Open post in browser"},
			{"y, then t/m/p/i", "Copy torrent/magnet/post link or id"},
			{"esc", "Dismiss errors and notifications"},
		}},
		{"Query", []helpEntry{
			{"/, i", "Edit search"},
			{"c", "Category"},
			{"s", "Sort (descending)"},
			{"S", "Sort (ascending)"},
			{"f", "Filter"},
			{"u", "Posts by user"},
		}},
		{"App", []helpEntry{
			{"w", "Sources"},
			{"d", "Download clients"},
			{"t", "Themes"},
			{"?, F1", "This help"},
			{"q, ctrl+c", "Quit"},
		}},
		{"Batch", []helpEntry{
			{"enter", "Download every item"},
			{"space, x", "Remove item"},
			{"c", "Clear batch"},
			{"tab, esc", "Back to results"},
		}},
	}
}

func helpContent(s styles) string {
	var b strings.Builder
	b.WriteString(s.title.Render("› Help"))
	b.WriteString("\n")
	for _, section := range helpSections() {
		b.WriteString("\n")
		b.WriteString(s.accent.Render(section.title))
		b.WriteString("\n")
		for _, e := range section.entries {
			// Pad before styling; escape codes would skew the width.
			keys := fmt.Sprintf("%-18s", e.keys)
			b.WriteString("  " + s.text.Render(keys) + " " + s.muted.Render(e.desc) + "\n")
		}
	}
	return b.String()
}
