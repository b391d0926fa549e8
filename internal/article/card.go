package article

import (
	"time"

	"github.com/matheuskafuri/newsdash/internal/format"
)

const (
	DefaultImage   = "/static/images/default-news.jpg"
	NoSummary      = "No summary available."
	DefaultLabel   = "Neutral"
	readMoreTarget = "_blank"
)

// Card is the display-ready form of an Article. Text fields are raw; each
// renderer escapes for its own medium.
type Card struct {
	Title         string
	Summary       string
	Source        string
	Category      string
	Date          string
	URL           string
	ImageURL      string
	FallbackImage string
	Sentiment     string
	Tag           format.Tag
}

// NewCard builds the card for a, formatting its date relative to now.
func NewCard(a Article, now time.Time) Card {
	img := a.URLToImage
	if img == "" {
		img = DefaultImage
	}
	summary := a.AISummary
	if summary == "" {
		summary = a.Description
	}
	if summary == "" {
		summary = NoSummary
	}
	label := a.Sentiment
	if label == "" {
		label = DefaultLabel
	}
	return Card{
		Title:         a.Title,
		Summary:       summary,
		Source:        a.Source,
		Category:      a.Category,
		Date:          format.RelativeTime(a.PublishedAt, now),
		URL:           a.URL,
		ImageURL:      img,
		FallbackImage: DefaultImage,
		Sentiment:     label,
		Tag:           format.SentimentTag(label),
	}
}

func NewCards(articles []Article, now time.Time) []Card {
	cards := make([]Card, 0, len(articles))
	for _, a := range articles {
		cards = append(cards, NewCard(a, now))
	}
	return cards
}
