package tui

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/matheuskafuri/newsdash/internal/api"
	"github.com/matheuskafuri/newsdash/internal/browser"
	"github.com/matheuskafuri/newsdash/internal/clock"
	"github.com/matheuskafuri/newsdash/internal/config"
	"github.com/matheuskafuri/newsdash/internal/dashboard"
	"github.com/matheuskafuri/newsdash/internal/logging"
	"github.com/matheuskafuri/newsdash/internal/notify"
	"github.com/matheuskafuri/newsdash/internal/page"
	"github.com/matheuskafuri/newsdash/internal/session"
)

// maxRedirects bounds the guard redirects followed for one navigation.
const maxRedirects = 5

// Backend is everything the views ask of the server.
type Backend interface {
	dashboard.Source
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, r api.Registration) error
	Logout(ctx context.Context) error
	HasSession() bool
}

// screen is one view: a page plus the widgets that edit it.
type screen interface {
	doc() *page.Page
	init(a *App) tea.Cmd
	handleKey(a *App, msg tea.KeyMsg) tea.Cmd
	handleMsg(a *App, msg tea.Msg) tea.Cmd
	view(a *App, width, height int) string
	hints() string
	// typing reports whether keystrokes go to a text field.
	typing() bool
}

// navigator records what the session guard asked for while a view loads.
type navigator struct {
	path   string
	target string
	reload bool
}

func (n *navigator) Path() string           { return n.path }
func (n *navigator) Navigate(target string) { n.target = target }
func (n *navigator) Reload()                { n.reload = true }

type App struct {
	ctx     context.Context
	backend Backend
	cfg     *config.Config
	opener  browser.Opener
	clock   clock.Clock
	log     *slog.Logger
	local   session.Storage
	session session.Storage
	guard   *session.Guard
	nav     *navigator

	start   string
	path    string
	history []string
	// restorable holds views that were left, keyed by path, so going back
	// can restore them the way a browser's history cache does.
	restorable map[string]screen
	current    screen
	changes    chan struct{}

	width    int
	height   int
	showHelp bool
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Backend Backend
	Config  *config.Config
	Opener  browser.Opener
	Clock   clock.Clock
	Logger  *slog.Logger
	// Local and Session stand in for the browser's storage areas.
	Local   session.Storage
	Session session.Storage
	// Start is the first path shown. Defaults to the dashboard.
	Start string
}

func NewApp(ctx context.Context, opts RunOpts) *App {
	a := &App{
		ctx:        ctx,
		backend:    opts.Backend,
		cfg:        opts.Config,
		opener:     opts.Opener,
		clock:      opts.Clock,
		log:        opts.Logger,
		local:      opts.Local,
		session:    opts.Session,
		nav:        &navigator{},
		start:      opts.Start,
		restorable: make(map[string]screen),
		changes:    make(chan struct{}, 1),
	}
	if a.cfg == nil {
		a.cfg = &config.Config{DefaultCategory: dashboard.DefaultCategory, Categories: []string{dashboard.DefaultCategory}}
	}
	if a.opener == nil {
		a.opener = browser.System{}
	}
	if a.clock == nil {
		a.clock = clock.Real{}
	}
	if a.log == nil {
		a.log = logging.FromContext(ctx)
	}
	if a.local == nil {
		a.local = session.NewMemoryStorage()
	}
	if a.session == nil {
		a.session = session.NewMemoryStorage()
	}
	if a.start == "" {
		a.start = page.DashboardPath
	}
	a.guard = session.NewGuard(a.nav, a.backend, a.local, a.session, a.log)
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.open(a.start, false), a.waitForChange())
}

// watch subscribes the app to changes on p. The send never blocks: one
// pending repaint covers any number of changes.
func (a *App) watch(p *page.Page) {
	p.OnChange(func() {
		select {
		case a.changes <- struct{}{}:
		default:
		}
	})
}

func (a *App) waitForChange() tea.Cmd {
	ch := a.changes
	return func() tea.Msg {
		<-ch
		return repaintMsg{}
	}
}

// navigate leaves the current view for target, recording it in history.
func (a *App) navigate(target string) tea.Cmd {
	if a.path != "" {
		a.history = append(a.history, a.path)
	}
	return a.open(target, false)
}

// back returns to the previous view, restoring it from the history cache
// when it is still there.
func (a *App) back() tea.Cmd {
	if len(a.history) == 0 {
		return nil
	}
	prev := a.history[len(a.history)-1]
	a.history = a.history[:len(a.history)-1]
	return a.open(prev, true)
}

// open shows target, running the session guard on it first. The guard may
// ask for a reload or a redirect; both are followed here.
func (a *App) open(target string, persisted bool) tea.Cmd {
	if a.current != nil {
		a.guard.BeforeUnload(a.current.doc())
		a.restorable[a.path] = a.current
	}

	for range maxRedirects {
		a.nav.path, a.nav.target, a.nav.reload = target, "", false

		var scr screen
		if persisted {
			scr = a.restorable[target]
		}
		if scr == nil {
			persisted = false
			scr = a.build(target)
		}

		if a.guard.Load(scr.doc(), persisted) {
			delete(a.restorable, target)
			a.path = target
			a.current = scr
			a.showHelp = false
			return scr.init(a)
		}

		switch {
		case a.nav.reload:
			persisted = false
		case a.nav.target != "":
			target = a.nav.target
			persisted = false
		default:
			return nil
		}
	}
	a.log.Warn("too many redirects", slog.String("path", target))
	return nil
}

// build makes a fresh view for target.
func (a *App) build(target string) screen {
	path, rawQuery, _ := strings.Cut(target, "?")
	query, _ := url.ParseQuery(rawQuery)

	var scr screen
	switch {
	case path == session.LoginPath:
		scr = newAuthScreen(a, false, query.Get("redirect"))
	case path == session.RegisterPath:
		scr = newAuthScreen(a, true, "")
	case strings.HasPrefix(path, "/news/"):
		scr = newDashboardScreen(a, strings.TrimPrefix(path, "/news/"), "")
	case path == "/search":
		scr = newDashboardScreen(a, "", query.Get("keyword"))
	default:
		scr = newDashboardScreen(a, "", "")
	}
	a.watch(scr.doc())
	return scr
}

// run executes fn off the update loop, bounded by the request timeout. The
// context carries a request id and a logger tagged with the current path.
func (a *App) run(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	id := uuid.NewString()
	log := a.log.With(slog.String("path", a.path), slog.String("request_id", id))
	parent := logging.WithRequestID(logging.WithLogger(a.ctx, log), id)
	timeout := a.cfg.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		return fn(ctx)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case repaintMsg:
		return a, a.waitForChange()

	case logoutDoneMsg:
		if s, ok := a.current.(*dashboardScreen); ok {
			s.guard.Release(page.LogoutButton)
		}
		if msg.err != nil {
			a.log.Warn("logout request failed", slog.Any("error", msg.err))
		}
		return a, a.navigate(session.LoginPath)

	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}

	if a.current == nil {
		return a, nil
	}
	return a, a.current.handleMsg(a, msg)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.current == nil {
		if msg.String() == "ctrl+c" {
			return tea.Quit
		}
		return nil
	}

	// Global keys
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "ctrl+x":
		a.dismiss()
		return nil
	}

	if a.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			a.showHelp = false
		}
		return nil
	}
	if !a.current.typing() && msg.String() == "?" {
		a.showHelp = true
		return nil
	}
	return a.current.handleKey(a, msg)
}

// dismiss closes the current view's notification.
func (a *App) dismiss() {
	switch s := a.current.(type) {
	case *dashboardScreen:
		s.notifier.DismissCurrent()
	case *authScreen:
		s.notifier.DismissCurrent()
	}
}

func (a *App) withBottomBar(content string, hints string) string {
	var note *notify.Notification
	if a.current != nil {
		if n, ok := a.current.doc().Notification(); ok {
			note = &n
		}
	}
	bar := renderBottomBar(note, a.path, hints, a.width)
	lines := strings.Split(content, "\n")
	for len(lines) < a.height-1 {
		lines = append(lines, "")
	}
	if len(lines) >= a.height {
		lines = lines[:a.height-1]
	}
	lines = append(lines, bar)
	return strings.Join(lines, "\n")
}

func (a *App) View() string {
	if a.width == 0 || a.current == nil {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  newsdash")
	}
	if a.showHelp {
		return a.withBottomBar(a.renderHelp(), "? close  q quit")
	}
	return a.withBottomBar(a.current.view(a, a.width, a.height-1), a.current.hints())
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("newsdash")
	dim := helpDimStyle

	help := title + dim.Render(" · Keyboard Shortcuts") + "\n\n" +
		dim.Render("Articles") + "\n" +
		"  j/k, ↑/↓      Navigate article list\n" +
		"  tab           Switch focus between list and preview\n" +
		"  o, enter      Read the full article in the browser\n\n" +
		dim.Render("Categories") + "\n" +
		"  ←/→, h/l      Previous / next category\n" +
		"  1-9, 0        Jump to a category\n" +
		"  r             Reload the current category\n\n" +
		dim.Render("Search") + "\n" +
		"  /             Focus the search box\n" +
		"  enter         Search\n" +
		"  esc           Leave the search box\n\n" +
		dim.Render("Forms") + "\n" +
		"  tab, ↑/↓      Move between fields\n" +
		"  enter         Submit\n" +
		"  ctrl+r        Switch between sign in and sign up\n\n" +
		dim.Render("General") + "\n" +
		"  ctrl+x        Close the notification\n" +
		"  b, esc        Back\n" +
		"  L             Log out\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c     Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, card)
}

func headerLine(left, right string, width int) string {
	l := headerStyle.Render(left)
	r := headerDateStyle.Render(right)
	gap := width - lipgloss.Width(l) - lipgloss.Width(r)
	if gap < 0 {
		gap = 0
	}
	return l + strings.Repeat(" ", gap) + r
}

func today(c clock.Clock) string {
	return c.Now().Format("Mon, Jan 2")
}

// Run starts the TUI application.
func Run(ctx context.Context, opts RunOpts) error {
	app := NewApp(ctx, opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
