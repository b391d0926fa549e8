package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/newsdash/internal/article"
	"github.com/matheuskafuri/newsdash/internal/format"
)

func renderListItem(c article.Card, selected, dimmed bool, width int) string {
	if width < 10 {
		width = 30
	}

	text := format.PlainText(c.Title)
	var title string
	switch {
	case dimmed:
		title = itemDimmedStyle.Render("  " + truncateStr(text, width-4))
	case selected:
		title = itemSelectedStyle.Render("> " + truncateStr(text, width-4))
	default:
		title = itemTitleStyle.Render("  " + truncateStr(text, width-4))
	}

	meta := "  " + sentimentStyle(c.Tag.Class).Render(c.Tag.Glyph) + " " +
		itemSourceStyle.Render(truncateStr(format.PlainText(c.Source), width/2)) + " " +
		itemTimeStyle.Render("· "+c.Date)

	return title + "\n" + meta
}

func sentimentStyle(class string) lipgloss.Style {
	switch class {
	case "positive":
		return lipgloss.NewStyle().Foreground(colorGreen)
	case "negative":
		return lipgloss.NewStyle().Foreground(colorRed)
	default:
		return lipgloss.NewStyle().Foreground(colorYellow)
	}
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// renderList draws the card list. dimmed greys out every item while a
// request is in flight.
func renderList(cards []article.Card, cursor int, dimmed bool, height int, width int) string {
	if len(cards) == 0 {
		return lipglossCenter("No articles", width, height)
	}

	// Each item is 2 lines + 1 blank line = 3 lines
	itemHeight := 3
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}

	// Calculate scroll offset
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(cards) {
		end = len(cards)
		start = end - visible
		if start < 0 {
			start = 0
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(cards[i], i == cursor, dimmed, width))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}

	return b.String()
}

func lipglossCenter(s string, width, height int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
