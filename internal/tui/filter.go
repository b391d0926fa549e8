package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// categoryTabs is the single-select category filter.
type categoryTabs struct {
	categories []string
}

func newCategoryTabs(categories []string) categoryTabs {
	return categoryTabs{categories: categories}
}

func (t categoryTabs) index(category string) int {
	for i, c := range t.categories {
		if c == category {
			return i
		}
	}
	return -1
}

// next returns the category delta steps away from current, wrapping at
// both ends.
func (t categoryTabs) next(current string, delta int) string {
	n := len(t.categories)
	if n == 0 {
		return current
	}
	i := t.index(current)
	if i < 0 {
		return t.categories[0]
	}
	return t.categories[((i+delta)%n+n)%n]
}

// at returns the category for a number key: 1-9, then 0 for the tenth.
func (t categoryTabs) at(key string) (string, bool) {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return "", false
	}
	idx := int(key[0] - '1')
	if key == "0" {
		idx = 9
	}
	if idx >= len(t.categories) {
		return "", false
	}
	return t.categories[idx], true
}

func label(category string) string {
	if category == "" {
		return ""
	}
	return strings.ToUpper(category[:1]) + category[1:]
}

func (t categoryTabs) render(active string, width int) string {
	sep := tabSeparatorStyle.Render(" · ")

	// Build row with · separators, stopping when we'd exceed width
	var row string
	for i, c := range t.categories {
		style := tabInactiveStyle
		if c == active {
			style = tabActiveStyle
		}
		part := style.Render(label(c))
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Background(colorSurface).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}
