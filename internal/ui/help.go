package ui

import (
	"strings"

	"shelf/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// RenderHelp renders context-sensitive help footer.
func RenderHelp(mode model.Mode, pageJump bool, width int) string {
	switch {
	case mode == model.ModeSearch:
		return renderSearchHelp(width)
	case pageJump:
		return renderPageJumpHelp(width)
	default:
		return renderProductsHelp(width)
	}
}

func renderProductsHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("/", "search"),
		helpKey("c/C", "category"),
		helpKey("z/Z", "page size"),
		helpKey("h/l", "page"),
		helpKey("g/G", "first/last"),
		helpKey("1-9", "go to page"),
		helpKey("x", "clear"),
		helpKey("?", "help"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func renderSearchHelp(width int) string {
	keys := []string{
		helpKey("type", "filter by name or category"),
		helpKey("enter", "keep"),
		helpKey("esc", "clear"),
	}
	return renderHelpLine(keys, width)
}

func renderPageJumpHelp(width int) string {
	keys := []string{
		helpKey("0-9", "page number"),
		helpKey("enter", "go"),
		helpKey("esc", "cancel"),
	}
	return renderHelpLine(keys, width)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	line := strings.Join(keys, "  ")
	return FooterStyle.Width(width).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(max(0, width-4)).
		Height(max(0, height-6)).
		Padding(1, 2)

	sections := []string{
		titleSection("Rows"),
		helpSection([]helpItem{
			{"j / ↓", "Move down"},
			{"k / ↑", "Move up"},
		}),
		titleSection("Filters"),
		helpSection([]helpItem{
			{"/", "Search name or category"},
			{"enter", "Leave search, keep the term"},
			{"esc", "Clear the search"},
			{"c / C", "Next / previous category"},
			{"x", "Clear search and category"},
		}),
		titleSection("Pages"),
		helpSection([]helpItem{
			{"h / ← / [", "Previous page"},
			{"l / → / ]", "Next page"},
			{"g / G", "First / last page"},
			{"1-9", "Go to page"},
			{"p then digits", "Go to any page (enter to confirm)"},
			{"z / Z", "Bigger / smaller pages"},
		}),
		titleSection("General"),
		helpSection([]helpItem{
			{"r", "Reload from the database"},
			{"?", "Toggle help"},
			{"q / ctrl+c", "Quit"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Help"),
		helpText,
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render("close help")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
