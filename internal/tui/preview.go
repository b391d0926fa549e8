package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/newsdash/internal/article"
	"github.com/matheuskafuri/newsdash/internal/format"
)

func renderPreview(card *article.Card, width, height, scroll int) string {
	if card == nil {
		return lipglossCenter("Select an article", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	tag := sentimentStyle(card.Tag.Class).Render(card.Tag.Glyph + " " + format.PlainText(card.Sentiment))
	title := previewTitleStyle.Width(contentWidth).Render(format.PlainText(card.Title))

	meta := format.PlainText(card.Source)
	if card.Category != "" {
		meta += " · " + label(format.PlainText(card.Category))
	}
	meta += " · " + card.Date
	source := previewSourceStyle.Render(meta)

	body := previewBodyStyle.Width(contentWidth).Render(wrapText(format.PlainText(card.Summary), contentWidth))

	parts := []string{tag, title, source, body}
	if card.URL != "" {
		parts = append(parts,
			previewLinkStyle.Width(contentWidth).Render(format.PlainText(card.URL)),
			readMoreStyle.Render("Read Full"),
		)
	}
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	// Apply scroll offset
	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	// Pad to fill height
	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if lipgloss.Width(line)+1+lipgloss.Width(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
