package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"toru/internal/source"
)

// batchView accumulates items marked for a combined download. Order is
// insertion order; toggling an already-marked item removes it.
type batchView struct {
	items  []source.Item
	cursor int
}

func (b *batchView) has(id string) bool {
	return b.indexOf(id) >= 0
}

func (b *batchView) indexOf(id string) int {
	for i, item := range b.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// toggle adds the item, or removes it when already present.
func (b *batchView) toggle(item source.Item) {
	if i := b.indexOf(item.ID); i >= 0 {
		b.items = append(b.items[:i], b.items[i+1:]...)
		b.clampCursor()
		return
	}
	b.items = append(b.items, item)
}

// removeIDs drops every item whose id is in ids.
func (b *batchView) removeIDs(ids []string) {
	if len(ids) == 0 {
		return
	}
	gone := make(map[string]bool, len(ids))
	for _, id := range ids {
		gone[id] = true
	}
	kept := b.items[:0]
	for _, item := range b.items {
		if !gone[item.ID] {
			kept = append(kept, item)
		}
	}
	b.items = kept
	b.clampCursor()
}

func (b *batchView) removeCurrent() {
	if b.cursor < len(b.items) {
		b.items = append(b.items[:b.cursor], b.items[b.cursor+1:]...)
		b.clampCursor()
	}
}

func (b *batchView) clear() {
	b.items = nil
	b.cursor = 0
}

func (b *batchView) empty() bool {
	return len(b.items) == 0
}

func (b *batchView) up() {
	if b.cursor > 0 {
		b.cursor--
	}
}

func (b *batchView) down() {
	if b.cursor < len(b.items)-1 {
		b.cursor++
	}
}

func (b *batchView) clampCursor() {
	if b.cursor >= len(b.items) {
		b.cursor = len(b.items) - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
}

func (b *batchView) totalBytes() int64 {
	var total int64
	for _, item := range b.items {
		total += item.Bytes
	}
	return total
}

func (b *batchView) view(s styles, width int) string {
	var out strings.Builder
	out.WriteString(s.title.Render("› Batch"))
	out.WriteString("\n\n")

	if len(b.items) == 0 {
		out.WriteString(s.muted.Render("  Batch is empty"))
		return out.String()
	}

	titleWidth := width - 16
	if titleWidth < 12 {
		titleWidth = 12
	}
	for i, item := range b.items {
		line := fmt.Sprintf("  %-*s %9s", titleWidth, truncate(item.Title, titleWidth), item.Size)
		if i == b.cursor {
			line = s.selected.Render(line)
		} else {
			line = s.text.Render(line)
		}
		out.WriteString(line)
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(s.muted.Render(fmt.Sprintf("  %d items, %s total",
		len(b.items), humanize.Bytes(uint64(b.totalBytes())))))
	return out.String()
}
