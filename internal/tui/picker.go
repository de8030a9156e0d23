package tui

import (
	"fmt"
	"strings"
)

// picker is a small single-column selection list used by every popup
// that picks one entry from a fixed set.
type picker struct {
	title  string
	items  []string
	cursor int
	active int
}

func newPicker(title string, items []string, active int) picker {
	if active < 0 || active >= len(items) {
		active = 0
	}
	return picker{title: title, items: items, cursor: active, active: active}
}

func (p *picker) up() {
	if p.cursor > 0 {
		p.cursor--
	}
}

func (p *picker) down() {
	if p.cursor < len(p.items)-1 {
		p.cursor++
	}
}

func (p *picker) first() { p.cursor = 0 }

func (p *picker) last() {
	if len(p.items) > 0 {
		p.cursor = len(p.items) - 1
	}
}

// confirm marks the cursor entry active and returns its index.
func (p *picker) confirm() int {
	p.active = p.cursor
	return p.active
}

// reset moves the cursor back onto the active entry.
func (p *picker) reset() { p.cursor = p.active }

func (p *picker) view(s styles) string {
	var b strings.Builder
	b.WriteString(s.title.Render("› " + p.title))
	b.WriteString("\n\n")
	for i, item := range p.items {
		marker := "  "
		if i == p.active {
			marker = s.accent.Render("* ")
		}
		line := fmt.Sprintf("%s%s", marker, item)
		if i == p.cursor {
			line = s.selected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
