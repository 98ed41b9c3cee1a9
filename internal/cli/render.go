package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	keyStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Align controls per-column cell alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Aligns  []Align // optional per-column alignment, left if nil/short
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		if len(h) > widths[i] {
			widths[i] = len(h)
		}
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	border := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
	}

	border("╭", "┬", "╮")

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			padded := fmt.Sprintf(" %-*s ", widths[i], h)
			b.WriteString(headerStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
		border("├", "┼", "┤")
	}

	for _, row := range t.Rows {
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(valueStyle.Render(" " + pad(cell, widths[i], t.align(i)) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	border("╰", "┴", "╯")

	return b.String()
}

func (t Table) align(col int) Align {
	if col < len(t.Aligns) {
		return t.Aligns[col]
	}
	return AlignLeft
}

func pad(s string, width int, a Align) string {
	switch a {
	case AlignRight:
		return fmt.Sprintf("%*s", width, s)
	case AlignCenter:
		left := (width - len(s)) / 2
		if left < 0 {
			left = 0
		}
		right := width - len(s) - left
		if right < 0 {
			right = 0
		}
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
	default:
		return fmt.Sprintf("%-*s", width, s)
	}
}

// Fields is an ordered list of name/value pairs for vertical output. A
// value may be a []string, rendered as an indented block.
type Fields []struct {
	Name  string
	Value any
}

// Add appends a field, skipping empty values so the vertical dump only
// shows what is actually set.
func (f *Fields) Add(name string, value any) {
	switch v := value.(type) {
	case nil:
		return
	case string:
		if v == "" {
			return
		}
	case []string:
		if len(v) == 0 {
			return
		}
	}
	*f = append(*f, struct {
		Name  string
		Value any
	}{name, value})
}

// RenderVertical prints one entity per block, every field on its own
// line, blank line between blocks.
func RenderVertical(blocks []Fields) string {
	var b strings.Builder
	for _, fields := range blocks {
		for _, f := range fields {
			switch v := f.Value.(type) {
			case []string:
				b.WriteString(keyStyle.Render(f.Name + ":"))
				b.WriteString("\n")
				for _, line := range v {
					b.WriteString("    " + valueStyle.Render(line) + "\n")
				}
			default:
				b.WriteString(keyStyle.Render(f.Name + ": "))
				b.WriteString(valueStyle.Render(fmt.Sprint(v)))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
