// Package format turns raw article values into display strings.
package format

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the ISO 8601 variants the backend emits. Values
// without a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// RelativeTime formats iso relative to now: "Just now", "5m ago", "3h ago",
// "2d ago", and a calendar date such as "Jun 15, 2025" from a week onwards.
// Unparseable input is returned as "Unknown date".
func RelativeTime(iso string, now time.Time) string {
	t, err := ParseTimestamp(iso)
	if err != nil {
		return "Unknown date"
	}
	return Since(t, now)
}

// Since is RelativeTime for an already parsed instant.
func Since(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	default:
		return t.In(now.Location()).Format("Jan 2, 2006")
	}
}

// Escape neutralizes markup metacharacters so text placed into a document
// renders literally.
func Escape(text string) string {
	return html.EscapeString(text)
}

// PlainText strips control characters (including the ESC that starts
// terminal escape sequences) so that backend text cannot restyle or move the
// cursor of the terminal it is painted on. Newlines and tabs become spaces.
func PlainText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n' || r == '\t' || r == '\r':
			b.WriteByte(' ')
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tag is the visual marker for an article's sentiment.
type Tag struct {
	Class string
	Glyph string
}

var (
	positiveTag = Tag{Class: "positive", Glyph: "🟢"}
	negativeTag = Tag{Class: "negative", Glyph: "🔴"}
	neutralTag  = Tag{Class: "neutral", Glyph: "🟡"}
)

// SentimentTag maps a sentiment label case-insensitively. Unknown labels are
// neutral.
func SentimentTag(label string) Tag {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "positive":
		return positiveTag
	case "negative":
		return negativeTag
	default:
		return neutralTag
	}
}
