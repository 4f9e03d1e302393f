package display

import (
	"strings"
	"unicode/utf8"
)

// Table renders an aligned text table.
type Table struct {
	headers []string
	rows    [][]string
	styles  map[int]func(string) string
}

// NewTable creates a table with the given column headers.
func NewTable(headers []string) *Table {
	return &Table{headers: headers, styles: make(map[int]func(string) string)}
}

// AddRow appends a row. Missing trailing cells render empty.
func (t *Table) AddRow(values []string) {
	t.rows = append(t.rows, values)
}

// SetHighlightRow renders row idx (0-based) with Accent.
func (t *Table) SetHighlightRow(idx int) {
	t.StyleRow(idx, Accent)
}

// StyleRow renders row idx with style. A later call for the same row wins.
func (t *Table) StyleRow(idx int, style func(string) string) {
	t.styles[idx] = style
}

// Render produces the table with a two-space indent.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	// widths count runes so Hijri month names like "Shawwāl" align
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); i < len(widths) && n > widths[i] {
				widths[i] = n
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("  " + Bold(formatRow(t.headers, widths)) + "\n")

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("─", w)
	}
	sb.WriteString(Dim("  "+strings.Join(sep, "  ")) + "\n")

	for i, row := range t.rows {
		line := formatRow(row, widths)
		if style, ok := t.styles[i]; ok {
			line = style(line)
		}
		sb.WriteString("  " + line + "\n")
	}
	return sb.String()
}

func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = cell + strings.Repeat(" ", w-utf8.RuneCountInString(cell))
	}
	return strings.Join(parts, "  ")
}
