package article

import (
	"html/template"
	"strings"
)

// Outbound links open in a new browsing context with rel="noopener
// noreferrer" so the opened page gets no handle back to the dashboard.
var cardTemplate = template.Must(template.New("card").Parse(`<div class="article-card">
  <img src="{{.ImageURL}}" alt="{{.Title}}" class="article-image" onerror="this.onerror=null;this.src='{{.FallbackImage}}'">
  <div class="article-content">
    <div class="article-header">
      <span class="article-category">{{.Category}}</span>
      <span class="sentiment-tag sentiment-{{.Tag.Class}}">{{.Tag.Glyph}} {{.Sentiment}}</span>
    </div>
    <h3 class="article-title">{{.Title}}</h3>
    <p class="article-summary">{{.Summary}}</p>
    <div class="article-footer">
      <div>
        <div class="article-source">{{.Source}}</div>
        <div class="article-date">{{.Date}}</div>
      </div>
      <a href="{{.URL}}" target="` + readMoreTarget + `" rel="noopener noreferrer" class="read-more-btn">Read Full</a>
    </div>
  </div>
</div>
`))

// RenderCard returns the HTML for a single card. All card text is escaped
// for its context; link and image URLs with unsafe schemes are neutralized.
func RenderCard(c Card) (string, error) {
	var b strings.Builder
	if err := cardTemplate.Execute(&b, c); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderGrid concatenates the HTML of every card.
func RenderGrid(cards []Card) (string, error) {
	var b strings.Builder
	for _, c := range cards {
		if err := cardTemplate.Execute(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}
