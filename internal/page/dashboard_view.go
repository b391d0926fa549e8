package page

import "github.com/matheuskafuri/newsdash/internal/article"

// DashboardView adapts a dashboard Page to the controller's view contract.
type DashboardView struct {
	p *Page
}

func NewDashboardView(p *Page) *DashboardView {
	return &DashboardView{p: p}
}

func (v *DashboardView) SetLoading(loading bool) {
	v.p.SetVisible(LoadingSpinner, loading)
	v.p.SetDimmed(ArticlesGrid, loading)
}

func (v *DashboardView) ShowError(message string) {
	v.p.Update(ErrorMessage, func(e *Element) {
		e.Text = message
		e.HTML = ""
		e.Visible = true
	})
}

func (v *DashboardView) HideError() {
	v.p.SetVisible(ErrorMessage, false)
}

// ShowEmpty reveals the empty-state panel. An empty heading keeps the
// panel's current one.
func (v *DashboardView) ShowEmpty(heading string) {
	v.p.Update(EmptyState, func(e *Element) {
		if heading != "" {
			e.Text = heading
		}
		e.Visible = true
	})
}

func (v *DashboardView) HideEmpty() {
	v.p.SetVisible(EmptyState, false)
}

func (v *DashboardView) ShowArticles(cards []article.Card, html string) {
	v.p.SetCards(cards)
	v.p.SetHTML(ArticlesGrid, html)
}

func (v *DashboardView) SetTitle(text string) {
	v.p.SetText(WelcomeTitle, text)
}

func (v *DashboardView) Greeting() string {
	return Greeting(v.p.Data("username"))
}
