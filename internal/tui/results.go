package tui

import (
	"fmt"
	"strings"

	"toru/internal/source"
)

// resultsView is the scrolling result table. It owns the cursor and
// viewport offset; items are replaced wholesale after each search.
type resultsView struct {
	items   []source.Item
	cursor  int
	offset  int
	width   int
	height  int
	padding int
}

func (r *resultsView) setItems(items []source.Item) {
	r.items = items
	r.cursor = 0
	r.offset = 0
}

func (r *resultsView) setSize(width, height int) {
	r.width = width
	r.height = height
	r.scroll()
}

func (r *resultsView) current() *source.Item {
	if r.cursor < 0 || r.cursor >= len(r.items) {
		return nil
	}
	return &r.items[r.cursor]
}

func (r *resultsView) up() {
	if r.cursor > 0 {
		r.cursor--
	}
	r.scroll()
}

func (r *resultsView) down() {
	if r.cursor < len(r.items)-1 {
		r.cursor++
	}
	r.scroll()
}

func (r *resultsView) first() {
	r.cursor = 0
	r.scroll()
}

func (r *resultsView) last() {
	if len(r.items) > 0 {
		r.cursor = len(r.items) - 1
	}
	r.scroll()
}

// rows is the number of item lines that fit under the header.
func (r *resultsView) rows() int {
	rows := r.height - 1
	if rows < 1 {
		rows = 1
	}
	return rows
}

// scroll keeps the cursor within the viewport, padding lines away from
// its edges where possible.
func (r *resultsView) scroll() {
	rows := r.rows()
	pad := r.padding
	if pad*2 >= rows {
		pad = 0
	}
	if r.cursor < r.offset+pad {
		r.offset = r.cursor - pad
	}
	if r.cursor > r.offset+rows-1-pad {
		r.offset = r.cursor - rows + 1 + pad
	}
	if r.offset > len(r.items)-rows {
		r.offset = len(r.items) - rows
	}
	if r.offset < 0 {
		r.offset = 0
	}
}

func (r *resultsView) view(s styles, marked, seen func(id string) bool) string {
	if len(r.items) == 0 {
		return s.muted.Render("  No results")
	}

	titleWidth := r.width - 46
	if titleWidth < 12 {
		titleWidth = 12
	}

	var b strings.Builder
	header := fmt.Sprintf("  %-3s %-*s %9s %-16s %4s %4s %5s",
		"Cat", titleWidth, "Name", "Size", "Date", "S", "L", "DL")
	b.WriteString(s.muted.Render(truncate(header, r.width)))
	b.WriteString("\n")

	rows := r.rows()
	end := r.offset + rows
	if end > len(r.items) {
		end = len(r.items)
	}
	for i := r.offset; i < end; i++ {
		item := r.items[i]

		mark := " "
		switch {
		case marked != nil && marked(item.ID):
			mark = s.marked.Render("▶")
		case seen != nil && seen(item.ID):
			mark = s.muted.Render("✓")
		}

		title := truncate(item.Title, titleWidth)
		line := fmt.Sprintf("%s %-3s %-*s %9s %-16s %4s %4s %5s",
			mark,
			item.IconLabel,
			titleWidth, title,
			item.Size,
			truncate(item.Date, 16),
			source.ShortenNumber(item.Seeders),
			source.ShortenNumber(item.Leechers),
			source.ShortenNumber(item.Downloads),
		)
		line = truncate(line, r.width)

		switch {
		case i == r.cursor:
			line = s.selected.Render(line)
		case item.Type == source.TypeTrusted:
			line = s.trusted.Render(line)
		case item.Type == source.TypeRemake:
			line = s.remake.Render(line)
		default:
			line = s.text.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
