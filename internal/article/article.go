// Package article holds the backend's article shape and turns articles into
// display cards.
package article

// Article is one item of the backend's {"articles": [...]} payload. Optional
// fields decode to the zero value when absent or null.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage,omitempty"`
	Source      string `json:"source"`
	PublishedAt string `json:"publishedAt"`
	Category    string `json:"category"`
	AISummary   string `json:"ai_summary,omitempty"`
	Sentiment   string `json:"sentiment,omitempty"`
}
