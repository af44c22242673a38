package ui

import (
	"strings"

	"shelf/internal/table"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// renderPager draws the pager controls cut to width. Nothing is drawn for a
// single page.
func renderPager(controls []table.Control, width int) string {
	if len(controls) == 0 {
		return ""
	}
	parts := make([]string, 0, len(controls))
	for _, c := range controls {
		style := PagerStyle
		switch {
		case c.Active:
			style = PagerActiveStyle
		case c.Disabled || c.Kind == table.ControlEllipsis:
			style = PagerDisabledStyle
		}
		parts = append(parts, style.Render(c.Label()))
	}
	line := lipgloss.NewStyle().Padding(0, 1).Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	if width > 0 && lipgloss.Width(line) > width {
		line = ansi.Truncate(line, width, "…")
	}
	return line
}

// PagerText renders controls as plain text, the active page in brackets
// and disabled arrows in parentheses.
func PagerText(controls []table.Control) string {
	parts := make([]string, 0, len(controls))
	for _, c := range controls {
		label := c.Label()
		switch {
		case c.Active:
			label = "[" + label + "]"
		case c.Disabled:
			label = "(" + label + ")"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}

func formatHeaderLabel(label string) string {
	return strings.ToUpper(label)
}

func renderTableRow(cells []string, widths []int, style lipgloss.Style) string {
	var parts []string
	for i, cell := range cells {
		if i >= len(widths) {
			continue
		}
		parts = append(parts, style.Width(widths[i]).Render(cell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}

func renderTableDivider(widths []int) string {
	total := 0
	for _, w := range widths {
		total += w
	}
	return DividerStyle.Render(strings.Repeat("─", total))
}
