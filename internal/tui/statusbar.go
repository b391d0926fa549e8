package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/newsdash/internal/format"
	"github.com/matheuskafuri/newsdash/internal/notify"
)

func notificationStyle(kind notify.Kind) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	switch kind {
	case notify.Error:
		return base.Background(colorRed)
	case notify.Success:
		return base.Background(colorGreen)
	default:
		return base.Background(colorBlue)
	}
}

// renderBottomBar shows the active notification on the left, or where the
// user is when there is none, and the key hints on the right.
func renderBottomBar(note *notify.Notification, location, hints string, width int) string {
	left := " " + location
	if note != nil {
		left = notificationStyle(note.Kind).Render(" "+format.PlainText(note.Message)+" ") +
			helpDimStyle.Render("  ctrl+x close")
	}

	right := " " + hints + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
