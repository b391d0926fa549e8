package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/newsdash/internal/api"
	"github.com/matheuskafuri/newsdash/internal/article"
	"github.com/matheuskafuri/newsdash/internal/dashboard"
	"github.com/matheuskafuri/newsdash/internal/format"
	"github.com/matheuskafuri/newsdash/internal/formguard"
	"github.com/matheuskafuri/newsdash/internal/notify"
	"github.com/matheuskafuri/newsdash/internal/page"
	"github.com/matheuskafuri/newsdash/internal/session"
)

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type dashboardScreen struct {
	page     *page.Page
	notifier *notify.Notifier
	guard    *formguard.Guard
	ctrl     *dashboard.Controller

	tabs      categoryTabs
	search    textinput.Model
	searching bool
	spinner   spinner.Model

	// keyword is a search to run when the view opens.
	keyword       string
	cursor        int
	focus         focusPane
	previewScroll int
}

// newDashboardScreen builds the dashboard. An empty category falls back to
// the stored preference, then the configured default.
func newDashboardScreen(a *App, category, keyword string) *dashboardScreen {
	if category == "" {
		if v, ok := a.local.GetItem(session.PreferencesKey); ok && a.cfg.HasCategory(v) {
			category = v
		}
	}
	if category == "" {
		category = a.cfg.DefaultCategory
	}

	loggedIn := a.backend != nil && a.backend.HasSession()
	doc := page.NewDashboard(a.cfg.Username, category, loggedIn)
	doc.SetValue(page.SearchInput, keyword)
	n := notify.New(doc, a.clock)

	ti := textinput.New()
	ti.Placeholder = "Search news..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100
	ti.SetValue(keyword)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	return &dashboardScreen{
		page:     doc,
		notifier: n,
		guard:    formguard.New(doc, n, a.clock),
		ctrl: dashboard.New(dashboard.Options{
			Source:   a.backend,
			View:     page.NewDashboardView(doc),
			Notifier: n,
			Clock:    a.clock,
			Logger:   a.log.With(slog.String("view", page.DashboardPath)),
			Category: category,
		}),
		tabs:    newCategoryTabs(a.cfg.Categories),
		search:  ti,
		spinner: sp,
		keyword: keyword,
	}
}

func (s *dashboardScreen) doc() *page.Page { return s.page }

func (s *dashboardScreen) typing() bool { return s.searching }

func (s *dashboardScreen) init(a *App) tea.Cmd {
	if strings.TrimSpace(s.keyword) != "" {
		return s.runSearch(a, s.keyword)
	}
	return s.request(a, func(ctx context.Context) error {
		return s.ctrl.Reload(ctx)
	})
}

// request runs one controller call off the update loop and ticks the
// spinner while it is in flight.
func (s *dashboardScreen) request(a *App, fn func(ctx context.Context) error) tea.Cmd {
	doc := s.page
	return tea.Batch(
		a.run(func(ctx context.Context) tea.Msg {
			return loadDoneMsg{doc: doc, err: fn(ctx)}
		}),
		s.spinner.Tick,
	)
}

func (s *dashboardScreen) selectCategory(a *App, category string) tea.Cmd {
	s.page.SetValue(page.CategoryFilter, category)
	a.local.SetItem(session.PreferencesKey, category)
	s.cursor, s.previewScroll = 0, 0
	return s.request(a, func(ctx context.Context) error {
		return s.ctrl.SelectCategory(ctx, category)
	})
}

func (s *dashboardScreen) runSearch(a *App, keyword string) tea.Cmd {
	s.page.SetValue(page.SearchInput, keyword)
	if strings.TrimSpace(keyword) == "" {
		// Refused locally; only the warning is shown.
		_ = s.ctrl.Search(a.ctx, keyword)
		return nil
	}
	s.cursor, s.previewScroll = 0, 0
	return s.request(a, func(ctx context.Context) error {
		return s.ctrl.Search(ctx, keyword)
	})
}

func (s *dashboardScreen) selected() *article.Card {
	cards := s.page.Cards()
	if s.cursor < 0 || s.cursor >= len(cards) {
		return nil
	}
	return &cards[s.cursor]
}

func (s *dashboardScreen) readFull(a *App) tea.Cmd {
	c := s.selected()
	if c == nil || c.URL == "" {
		return nil
	}
	opener, doc, link := a.opener, s.page, c.URL
	return func() tea.Msg {
		if err := opener.Open(link); err != nil {
			return openErrMsg{doc: doc, err: err}
		}
		return nil
	}
}

// logout clears client storage before the logout request leaves. The
// button stays busy until the response or FormBusyTimeout, whichever is
// first.
func (s *dashboardScreen) logout(a *App) tea.Cmd {
	if s.guard.IsBusy(page.LogoutButton) {
		return nil
	}
	a.guard.Logout()
	s.guard.Busy(page.LogoutButton, formguard.FormBusyTimeout)
	backend := a.backend
	return a.run(func(ctx context.Context) tea.Msg {
		return logoutDoneMsg{err: backend.Logout(ctx)}
	})
}

func (s *dashboardScreen) handleMsg(a *App, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loadDoneMsg:
		if msg.doc != s.page {
			return nil
		}
		if n := len(s.page.Cards()); s.cursor >= n {
			s.cursor = max(0, n-1)
		}
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return a.navigate(session.LoginRedirect(a.path))
		}
		return nil

	case openErrMsg:
		if msg.doc == s.page {
			s.notifier.Show("Could not open the article: "+msg.err.Error(), notify.Error)
		}
		return nil

	case spinner.TickMsg:
		if !s.ctrl.Loading() {
			return nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	}

	if s.searching {
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		return cmd
	}
	return nil
}

func (s *dashboardScreen) handleKey(a *App, msg tea.KeyMsg) tea.Cmd {
	if s.searching {
		return s.handleSearchKey(a, msg)
	}

	key := msg.String()
	if c, ok := s.tabs.at(key); ok {
		return s.selectCategory(a, c)
	}

	switch key {
	case "q":
		return tea.Quit
	case "j", "down":
		if s.focus == focusList && s.cursor < len(s.page.Cards())-1 {
			s.cursor++
			s.previewScroll = 0
		} else if s.focus == focusPreview {
			s.previewScroll++
		}
	case "k", "up":
		if s.focus == focusList && s.cursor > 0 {
			s.cursor--
			s.previewScroll = 0
		} else if s.focus == focusPreview && s.previewScroll > 0 {
			s.previewScroll--
		}
	case "tab":
		if s.focus == focusList {
			s.focus = focusPreview
		} else {
			s.focus = focusList
		}
	case "left", "h":
		return s.selectCategory(a, s.tabs.next(s.ctrl.CurrentCategory(), -1))
	case "right", "l":
		return s.selectCategory(a, s.tabs.next(s.ctrl.CurrentCategory(), 1))
	case "/":
		s.searching = true
		s.search.Focus()
		return textinput.Blink
	case "o", "enter":
		return s.readFull(a)
	case "r":
		return s.request(a, func(ctx context.Context) error {
			return s.ctrl.Reload(ctx)
		})
	case "x":
		s.notifier.DismissCurrent()
	case "L":
		return s.logout(a)
	case "b", "esc", "backspace":
		return a.back()
	}
	return nil
}

func (s *dashboardScreen) handleSearchKey(a *App, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		s.searching = false
		s.search.Blur()
		return nil
	case "enter":
		s.searching = false
		s.search.Blur()
		return s.runSearch(a, s.search.Value())
	}

	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	s.page.SetValue(page.SearchInput, s.search.Value())
	return cmd
}

func (s *dashboardScreen) hints() string {
	if s.searching {
		return "enter search  esc cancel"
	}
	return "←/→ category  / search  o read  r reload  L logout  ? help  q quit"
}

func (s *dashboardScreen) view(a *App, width, height int) string {
	title := format.PlainText(s.page.Text(page.WelcomeTitle))
	header := headerLine("newsdash  "+title, today(a.clock), width)
	tabs := s.tabs.render(s.page.Value(page.CategoryFilter), width)
	search := " " + s.search.View()

	loading := ""
	if e, ok := s.page.Element(page.LoadingSpinner); ok && e.Visible {
		loading = " " + s.spinner.View() + " Loading news..."
	}

	// header, tabs, search and loading rows plus pane borders
	contentHeight := height - 4 - 2
	if contentHeight < 3 {
		contentHeight = 3
	}

	var body string
	errEl, _ := s.page.Element(page.ErrorMessage)
	emptyEl, _ := s.page.Element(page.EmptyState)
	switch {
	case errEl.Visible:
		box := errorBoxStyle.Render(format.PlainText(errEl.Text))
		body = lipgloss.Place(width, contentHeight+2, lipgloss.Center, lipgloss.Center, box)
	case emptyEl.Visible:
		panel := lipgloss.JoinVertical(lipgloss.Center,
			emptyHeadingStyle.Render(format.PlainText(emptyEl.Text)),
			"",
			helpDimStyle.Render("Try another category or search term."),
		)
		body = lipgloss.Place(width, contentHeight+2, lipgloss.Center, lipgloss.Center, panel)
	default:
		body = s.renderPanes(width, contentHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, tabs, search, loading, body)
}

func (s *dashboardScreen) renderPanes(width, contentHeight int) string {
	listWidth := int(float64(width) * 0.35)
	previewWidth := width - listWidth - 1 // gap

	grid, _ := s.page.Element(page.ArticlesGrid)
	cards := s.page.Cards()

	innerListW := listWidth - 4 // border + padding
	listContent := renderList(cards, s.cursor, grid.Dimmed, contentHeight, innerListW)

	var listPane string
	if s.focus == focusList {
		listPane = listPaneActiveStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	} else {
		listPane = listPaneStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	}

	innerPreviewW := previewWidth - 4
	previewContent := renderPreview(s.selected(), innerPreviewW, contentHeight, s.previewScroll)

	var previewPane string
	if s.focus == focusPreview {
		previewPane = previewPaneActiveStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	} else {
		previewPane = previewPaneStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)
}
