package tui

import (
	"strings"

	"toru/internal/source"
)

// categoryPicker flattens a source's grouped category tree into one
// scrollable list with unselectable group headers.
type categoryPicker struct {
	groups []source.CategoryGroup
	flat   []source.Category
	cursor int
	active int
}

func newCategoryPicker(info source.Info, activeID int) categoryPicker {
	p := categoryPicker{groups: info.Groups}
	for _, g := range info.Groups {
		p.flat = append(p.flat, g.Entries...)
	}
	for i, c := range p.flat {
		if c.ID == activeID {
			p.cursor = i
			p.active = i
			break
		}
	}
	return p
}

func (p *categoryPicker) up() {
	if p.cursor > 0 {
		p.cursor--
	}
}

func (p *categoryPicker) down() {
	if p.cursor < len(p.flat)-1 {
		p.cursor++
	}
}

func (p *categoryPicker) first() { p.cursor = 0 }

func (p *categoryPicker) last() {
	if len(p.flat) > 0 {
		p.cursor = len(p.flat) - 1
	}
}

// groupStarts returns the flat index of each group's first entry.
func (p *categoryPicker) groupStarts() []int {
	starts := make([]int, 0, len(p.groups))
	passed := 0
	for _, g := range p.groups {
		starts = append(starts, passed)
		passed += len(g.Entries)
	}
	return starts
}

// nextGroup jumps the cursor to the first entry of the following group.
func (p *categoryPicker) nextGroup() {
	for _, start := range p.groupStarts() {
		if start > p.cursor {
			p.cursor = start
			return
		}
	}
}

func (p *categoryPicker) prevGroup() {
	starts := p.groupStarts()
	for i := len(starts) - 1; i >= 0; i-- {
		if starts[i] < p.cursor {
			p.cursor = starts[i]
			return
		}
	}
}

// confirm marks the cursor entry active and returns the category.
func (p *categoryPicker) confirm() source.Category {
	p.active = p.cursor
	return p.flat[p.cursor]
}

func (p *categoryPicker) reset() { p.cursor = p.active }

func (p *categoryPicker) view(s styles) string {
	var b strings.Builder
	b.WriteString(s.title.Render("› Category"))
	b.WriteString("\n")

	i := 0
	for _, g := range p.groups {
		b.WriteString("\n")
		b.WriteString(s.muted.Render(g.Name))
		b.WriteString("\n")
		for _, c := range g.Entries {
			marker := "  "
			if i == p.active {
				marker = s.accent.Render("* ")
			}
			line := marker + c.Name
			if i == p.cursor {
				line = s.selected.Render(line)
			}
			b.WriteString(" " + line + "\n")
			i++
		}
	}
	return b.String()
}
