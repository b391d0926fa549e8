package tui

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matheuskafuri/newsdash/internal/api"
	"github.com/matheuskafuri/newsdash/internal/article"
	"github.com/matheuskafuri/newsdash/internal/clock"
	"github.com/matheuskafuri/newsdash/internal/config"
	"github.com/matheuskafuri/newsdash/internal/formguard"
	"github.com/matheuskafuri/newsdash/internal/logging"
	"github.com/matheuskafuri/newsdash/internal/page"
	"github.com/matheuskafuri/newsdash/internal/session"
)

type fakeBackend struct {
	session  bool
	news     map[string][]article.Article
	newsErr  error
	loginErr error

	categories []string
	keywords   []string
	logins     int
	logouts    int
}

func (f *fakeBackend) News(_ context.Context, category string) ([]article.Article, error) {
	f.categories = append(f.categories, category)
	if f.newsErr != nil {
		return nil, f.newsErr
	}
	return f.news[category], nil
}

func (f *fakeBackend) Search(_ context.Context, keyword string) ([]article.Article, error) {
	f.keywords = append(f.keywords, keyword)
	return nil, f.newsErr
}

func (f *fakeBackend) Login(_ context.Context, _, _ string) error {
	f.logins++
	if f.loginErr != nil {
		return f.loginErr
	}
	f.session = true
	return nil
}

func (f *fakeBackend) Register(_ context.Context, _ api.Registration) error {
	f.session = true
	return nil
}

func (f *fakeBackend) Logout(_ context.Context) error {
	f.logouts++
	f.session = false
	return nil
}

func (f *fakeBackend) HasSession() bool { return f.session }

type fakeOpener struct {
	opened []string
}

func (o *fakeOpener) Open(url string) error {
	o.opened = append(o.opened, url)
	return nil
}

func newTestApp(b *fakeBackend) (*App, *session.MemoryStorage) {
	local := session.NewMemoryStorage()
	a := NewApp(context.Background(), RunOpts{
		Backend: b,
		Config: &config.Config{
			DefaultCategory: "general",
			Categories:      []string{"general", "technology", "business"},
			Username:        "ada",
		},
		Opener: &fakeOpener{},
		Clock:  clock.NewManual(time.Date(2025, 10, 16, 12, 0, 0, 0, time.UTC)),
		Logger: logging.Discard(),
		Local:  local,
	})
	return a, local
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// pump feeds request results back into the app until nothing is left.
func pump(a *App, cmd tea.Cmd) {
	for i := 0; cmd != nil && i < 10; i++ {
		var next []tea.Cmd
		for _, msg := range collect(cmd) {
			switch msg.(type) {
			case loadDoneMsg, authDoneMsg, logoutDoneMsg, openErrMsg:
				_, c := a.Update(msg)
				next = append(next, c)
			}
		}
		cmd = tea.Batch(next...)
	}
}

func press(a *App, key string) tea.Cmd {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+x":
		msg = tea.KeyMsg{Type: tea.KeyCtrlX}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := a.Update(msg)
	return cmd
}

func notification(t *testing.T, a *App) string {
	t.Helper()
	n, ok := a.current.doc().Notification()
	if !ok {
		t.Fatal("expected a notification")
	}
	return n.Message
}

func TestProtectedPathWithoutSessionRedirectsToLogin(t *testing.T) {
	a, _ := newTestApp(&fakeBackend{})
	a.open("/dashboard", false)

	if a.path != "/login?redirect=%2Fdashboard" {
		t.Fatalf("path = %q", a.path)
	}
	s, ok := a.current.(*authScreen)
	if !ok || s.register {
		t.Fatalf("current = %T, want login screen", a.current)
	}
	if s.next() != "/dashboard" {
		t.Errorf("next() = %q, want /dashboard", s.next())
	}
}

func TestDashboardLoadsStartCategory(t *testing.T) {
	b := &fakeBackend{
		session: true,
		news: map[string][]article.Article{
			"technology": {{Title: "Go 2", URL: "https://example.com/go", PublishedAt: "2025-10-16T11:00:00Z"}},
		},
	}
	a, _ := newTestApp(b)
	pump(a, a.open("/news/technology", false))

	s := a.current.(*dashboardScreen)
	if got := s.page.Cards(); len(got) != 1 || got[0].Title != "Go 2" {
		t.Fatalf("cards = %+v", got)
	}
	if s.page.Text(page.WelcomeTitle) != "Hello, ada! 👋" {
		t.Errorf("title = %q", s.page.Text(page.WelcomeTitle))
	}
	if e, _ := s.page.Element(page.LoadingSpinner); e.Visible {
		t.Error("spinner still visible after load")
	}

	pump(a, press(a, "o"))
	opener := a.opener.(*fakeOpener)
	if len(opener.opened) != 1 || opener.opened[0] != "https://example.com/go" {
		t.Errorf("opened = %v", opener.opened)
	}
}

func TestLoginReturnsToRequestedPath(t *testing.T) {
	b := &fakeBackend{}
	a, _ := newTestApp(b)
	a.open("/dashboard", false)

	s := a.current.(*authScreen)
	s.inputs[0].SetValue("ada@example.com")
	s.inputs[1].SetValue("secret1")
	pump(a, press(a, "enter"))

	if b.logins != 1 {
		t.Fatalf("logins = %d, want 1", b.logins)
	}
	if a.path != "/dashboard" {
		t.Fatalf("path = %q, want /dashboard", a.path)
	}
	if _, ok := a.current.(*dashboardScreen); !ok {
		t.Fatalf("current = %T", a.current)
	}
	if len(b.categories) != 1 || b.categories[0] != "general" {
		t.Errorf("categories fetched = %v", b.categories)
	}
}

func TestLoginValidationStopsSubmission(t *testing.T) {
	b := &fakeBackend{}
	a, _ := newTestApp(b)
	a.open("/login", false)

	if cmd := press(a, "enter"); cmd != nil {
		t.Error("invalid form should not start a request")
	}
	if got := notification(t, a); got != "Please fill in all fields." {
		t.Errorf("notification = %q", got)
	}
	if b.logins != 0 {
		t.Errorf("logins = %d", b.logins)
	}
}

func TestLoginRejectedRestoresButton(t *testing.T) {
	b := &fakeBackend{loginErr: &api.FormError{Status: 200, Message: "Invalid email or password"}}
	a, _ := newTestApp(b)
	a.open("/login", false)

	s := a.current.(*authScreen)
	s.inputs[0].SetValue("ada@example.com")
	s.inputs[1].SetValue("secret1")
	cmd := press(a, "enter")

	btn, _ := s.page.Element(page.Submit)
	if !btn.Disabled || btn.Text != "Processing..." {
		t.Fatalf("button while pending = %+v", btn)
	}
	pump(a, cmd)

	btn, _ = s.page.Element(page.Submit)
	if btn.Disabled || btn.Text != page.LoginLabel {
		t.Errorf("button after response = %+v", btn)
	}
	if got := notification(t, a); got != "Invalid email or password" {
		t.Errorf("notification = %q", got)
	}
	if a.path != "/login" {
		t.Errorf("path = %q", a.path)
	}

	press(a, "ctrl+x")
	if _, ok := s.page.Notification(); ok {
		t.Error("ctrl+x should close the notification")
	}
}

func TestBackRebuildsRestoredView(t *testing.T) {
	b := &fakeBackend{session: true}
	a, _ := newTestApp(b)
	pump(a, a.open("/dashboard", false))
	first := a.current

	a.navigate("/register")
	pump(a, a.back())

	if a.path != "/dashboard" {
		t.Fatalf("path = %q", a.path)
	}
	if a.current == first {
		t.Error("restored view should be rebuilt, not reused")
	}
}

func TestLogoutClearsStorageAndBackStaysOut(t *testing.T) {
	b := &fakeBackend{session: true}
	a, local := newTestApp(b)
	local.SetItem(session.PreferencesKey, "technology")
	a.session.SetItem("draft", "x")
	pump(a, a.open("/dashboard", false))

	cmd := press(a, "L")
	if _, ok := local.GetItem(session.PreferencesKey); ok {
		t.Error("preferences survived logout")
	}
	if a.session.(*session.MemoryStorage).Len() != 0 {
		t.Error("session storage survived logout")
	}
	pump(a, cmd)

	if b.logouts != 1 {
		t.Errorf("logouts = %d", b.logouts)
	}
	if a.path != "/login" {
		t.Fatalf("path = %q, want /login", a.path)
	}

	a.back()
	if a.path != "/login?redirect=%2Fdashboard" {
		t.Errorf("back after logout landed on %q", a.path)
	}
}

func TestLogoutButtonReleasesAfterTimeout(t *testing.T) {
	b := &fakeBackend{session: true}
	a, _ := newTestApp(b)
	pump(a, a.open("/dashboard", false))
	s := a.current.(*dashboardScreen)
	clk := a.clock.(*clock.Manual)

	if cmd := press(a, "L"); cmd == nil {
		t.Fatal("logout should start a request")
	}
	if cmd := press(a, "L"); cmd != nil {
		t.Error("second logout while busy should be ignored")
	}

	clk.Advance(formguard.FormBusyTimeout - time.Millisecond)
	if btn, _ := s.page.Element(page.LogoutButton); !btn.Disabled || btn.Text != formguard.BusyLabel {
		t.Fatalf("button before timeout = %+v", btn)
	}

	clk.Advance(time.Millisecond)
	if btn, _ := s.page.Element(page.LogoutButton); btn.Disabled || btn.Text != "Logout" {
		t.Errorf("button after timeout = %+v", btn)
	}
}

func TestFormResetReleasesSubmit(t *testing.T) {
	b := &fakeBackend{}
	a, _ := newTestApp(b)
	a.open("/login", false)

	s := a.current.(*authScreen)
	s.inputs[0].SetValue("ada@example.com")
	s.inputs[1].SetValue("secret1")
	if cmd := press(a, "enter"); cmd == nil {
		t.Fatal("valid form should start a request")
	}
	if !s.guard.IsBusy(page.Submit) {
		t.Fatal("submit should be busy while the request is pending")
	}

	s.page.ResetForms(true)
	if s.guard.IsBusy(page.Submit) {
		t.Error("reset form left the submit busy")
	}
	if cmd := press(a, "enter"); cmd == nil {
		t.Error("submit after reset was refused")
	}
}

func TestRunTagsRequestContext(t *testing.T) {
	a, _ := newTestApp(&fakeBackend{session: true})
	a.path = "/dashboard"

	var buf bytes.Buffer
	a.log = logging.NewLogger(&buf, slog.LevelDebug)
	msg := a.run(func(ctx context.Context) tea.Msg {
		logging.FromContext(ctx).Info("fetching")
		return logging.RequestID(ctx)
	})()

	id, _ := msg.(string)
	if id == "" {
		t.Fatal("run did not stamp a request id")
	}
	if !strings.Contains(buf.String(), `"request_id":"`+id+`"`) || !strings.Contains(buf.String(), `"path":"/dashboard"`) {
		t.Errorf("log line = %q", buf.String())
	}
}

func TestCategoryKeysSelectAndRemember(t *testing.T) {
	b := &fakeBackend{session: true}
	a, local := newTestApp(b)
	pump(a, a.open("/dashboard", false))

	pump(a, press(a, "right"))
	s := a.current.(*dashboardScreen)
	if got := s.page.Value(page.CategoryFilter); got != "technology" {
		t.Errorf("filter = %q", got)
	}
	if v, _ := local.GetItem(session.PreferencesKey); v != "technology" {
		t.Errorf("stored preference = %q", v)
	}

	pump(a, press(a, "3"))
	want := []string{"general", "technology", "business"}
	if fmt.Sprint(b.categories) != fmt.Sprint(want) {
		t.Errorf("categories fetched = %v, want %v", b.categories, want)
	}

	// A new dashboard starts from the remembered category.
	pump(a, a.navigate("/dashboard"))
	if got := a.current.(*dashboardScreen).ctrl.CurrentCategory(); got != "business" {
		t.Errorf("restarted on %q, want business", got)
	}
}

func TestBlankSearchWarnsWithoutRequest(t *testing.T) {
	b := &fakeBackend{session: true}
	a, _ := newTestApp(b)
	pump(a, a.open("/dashboard", false))

	press(a, "/")
	if cmd := press(a, "enter"); cmd != nil {
		t.Error("blank search should not start a request")
	}
	if got := notification(t, a); got != "Please enter a search term" {
		t.Errorf("notification = %q", got)
	}
	if len(b.keywords) != 0 {
		t.Errorf("keywords = %v", b.keywords)
	}
}

func TestSearchPathRunsKeyword(t *testing.T) {
	b := &fakeBackend{session: true}
	a, _ := newTestApp(b)
	pump(a, a.open("/search?keyword=go+lang", false))

	if len(b.keywords) != 1 || b.keywords[0] != "go lang" {
		t.Fatalf("keywords = %v", b.keywords)
	}
	s := a.current.(*dashboardScreen)
	e, _ := s.page.Element(page.EmptyState)
	if !e.Visible || e.Text != `No results found for "go lang"` {
		t.Errorf("empty state = %+v", e)
	}
}

func TestUnauthorizedLoadRedirectsToLogin(t *testing.T) {
	tests := []struct {
		start string
		want  string
	}{
		{"/dashboard", "/login?redirect=%2Fdashboard"},
		{"/news/technology", "/login?redirect=%2Fnews%2Ftechnology"},
		{"/search?keyword=go", "/login?redirect=%2Fsearch"},
	}
	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			b := &fakeBackend{session: true, newsErr: fmt.Errorf("fetching: %w", api.ErrUnauthorized)}
			a, _ := newTestApp(b)
			pump(a, a.open(tt.start, false))

			if a.path != tt.want {
				t.Errorf("path = %q, want %q", a.path, tt.want)
			}
		})
	}
}
