package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/newsdash/internal/api"
	"github.com/matheuskafuri/newsdash/internal/formguard"
	"github.com/matheuskafuri/newsdash/internal/notify"
	"github.com/matheuskafuri/newsdash/internal/page"
	"github.com/matheuskafuri/newsdash/internal/session"
)

var asciiLogo = []string{
	`███╗   ██╗███████╗██╗    ██╗███████╗██████╗  █████╗ ███████╗██╗  ██╗`,
	`████╗  ██║██╔════╝██║    ██║██╔════╝██╔══██╗██╔══██╗██╔════╝██║  ██║`,
	`██╔██╗ ██║█████╗  ██║ █╗ ██║███████╗██║  ██║███████║███████╗███████║`,
	`██║╚██╗██║██╔══╝  ██║███╗██║╚════██║██║  ██║██╔══██║╚════██║██╔══██║`,
	`██║ ╚████║███████╗╚███╔███╔╝███████║██████╔╝██║  ██║███████║██║  ██║`,
	`╚═╝  ╚═══╝╚══════╝ ╚══╝╚══╝ ╚══════╝╚═════╝ ╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝`,
}

const (
	loginFailed    = "Login failed. Please try again."
	registerFailed = "Registration failed. Please try again."
)

var fieldLabels = map[string]string{
	page.Username:        "Username",
	page.Email:           "Email",
	page.Password:        "Password",
	page.ConfirmPassword: "Confirm password",
}

// authScreen is the login or the registration form.
type authScreen struct {
	page     *page.Page
	notifier *notify.Notifier
	guard    *formguard.Guard
	register bool
	// redirect is where a successful login goes.
	redirect string

	fields []string
	inputs []textinput.Model
	focus  int
}

func newAuthScreen(a *App, register bool, redirect string) *authScreen {
	doc := page.NewLogin()
	fields := []string{page.Email, page.Password}
	if register {
		doc = page.NewRegister()
		fields = []string{page.Username, page.Email, page.Password, page.ConfirmPassword}
	}
	n := notify.New(doc, a.clock)

	s := &authScreen{
		page:     doc,
		notifier: n,
		guard:    formguard.New(doc, n, a.clock),
		register: register,
		redirect: redirect,
		fields:   fields,
	}
	for _, id := range fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = fieldLabels[id]
		ti.CharLimit = 128
		ti.Width = 36
		if id == page.Password || id == page.ConfirmPassword {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		s.inputs = append(s.inputs, ti)
	}
	doc.OnFormReset(func(f page.Form) { s.guard.Release(f.SubmitID) })
	return s
}

func (s *authScreen) doc() *page.Page { return s.page }

func (s *authScreen) typing() bool { return true }

func (s *authScreen) init(a *App) tea.Cmd {
	for i, id := range s.fields {
		s.inputs[i].SetValue(s.page.Value(id))
	}
	s.focus = 0
	s.inputs[0].Focus()
	return textinput.Blink
}

// next is where to go after signing in. Only local paths are followed.
func (s *authScreen) next() string {
	if strings.HasPrefix(s.redirect, "/") && !strings.HasPrefix(s.redirect, "//") {
		return s.redirect
	}
	return page.DashboardPath
}

// sync copies a widget's value into the page.
func (s *authScreen) sync(i int) {
	s.page.SetValue(s.fields[i], s.inputs[i].Value())
}

func (s *authScreen) move(delta int) tea.Cmd {
	s.inputs[s.focus].Blur()
	if s.fields[s.focus] == page.Email {
		s.guard.EmailBlur()
	}
	n := len(s.inputs)
	s.focus = ((s.focus+delta)%n + n) % n
	s.inputs[s.focus].Focus()
	return textinput.Blink
}

func (s *authScreen) submit(a *App) tea.Cmd {
	for i := range s.fields {
		s.sync(i)
	}
	backend, doc := a.backend, s.page

	if s.register {
		if !s.guard.SubmitRegistration(page.Submit) {
			return nil
		}
		reg := api.Registration{
			Username:        doc.Value(page.Username),
			Email:           doc.Value(page.Email),
			Password:        doc.Value(page.Password),
			ConfirmPassword: doc.Value(page.ConfirmPassword),
		}
		return a.run(func(ctx context.Context) tea.Msg {
			return authDoneMsg{doc: doc, err: backend.Register(ctx, reg)}
		})
	}

	if !s.guard.SubmitLogin(page.Submit) {
		return nil
	}
	email, password := doc.Value(page.Email), doc.Value(page.Password)
	return a.run(func(ctx context.Context) tea.Msg {
		return authDoneMsg{doc: doc, err: backend.Login(ctx, email, password)}
	})
}

func (s *authScreen) handleKey(a *App, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return a.back()
	case "ctrl+r":
		if s.register {
			return a.navigate(session.LoginPath)
		}
		return a.navigate(session.RegisterPath)
	case "tab", "down":
		return s.move(1)
	case "shift+tab", "up":
		return s.move(-1)
	case "enter":
		return s.submit(a)
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	s.sync(s.focus)
	switch s.fields[s.focus] {
	case page.Password:
		s.guard.PasswordInput()
	case page.ConfirmPassword:
		s.guard.ConfirmInput()
	}
	return cmd
}

func (s *authScreen) handleMsg(a *App, msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(authDoneMsg); ok {
		if msg.doc != s.page {
			return nil
		}
		s.guard.Release(page.Submit)
		if msg.err != nil {
			fallback := loginFailed
			if s.register {
				fallback = registerFailed
			}
			s.notifier.Show(api.Message(msg.err, fallback), notify.Error)
			return nil
		}
		return a.navigate(s.next())
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return cmd
}

func (s *authScreen) hints() string {
	if s.register {
		return "tab next  enter create  ctrl+r sign in  esc back"
	}
	return "tab next  enter sign in  ctrl+r sign up  esc back"
}

func (s *authScreen) renderField(i int) string {
	id := s.fields[i]
	border := lipgloss.TerminalColor(colorBorder)
	if i == s.focus {
		border = colorActiveBdr
	}
	if e, ok := s.page.Element(id); ok && e.Border != "" {
		border = lipgloss.Color(e.Border)
	}
	box := fieldStyle.BorderForeground(border).Width(s.inputs[i].Width + 2).Render(s.inputs[i].View())
	return fieldLabelStyle.Render(fieldLabels[id]) + "\n" + box
}

func (s *authScreen) view(a *App, width, height int) string {
	logoStyle := lipgloss.NewStyle().Foreground(colorAccent)
	keyStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	var lines []string

	// ASCII logo
	if width > lipgloss.Width(asciiLogo[0]) {
		for _, l := range asciiLogo {
			lines = append(lines, logoStyle.Render(l))
		}
	} else {
		lines = append(lines, logoStyle.Bold(true).Render("newsdash"))
	}
	lines = append(lines, "")

	heading, switchHint := "Sign in to your account", "Don't have an account? Sign up"
	if s.register {
		heading, switchHint = "Create your account", "Already have an account? Sign in"
	}
	lines = append(lines, headerStyle.Render(heading), "")

	for i := range s.fields {
		lines = append(lines, s.renderField(i))
	}
	lines = append(lines, "")

	btn, _ := s.page.Element(page.Submit)
	if btn.Disabled {
		lines = append(lines, buttonDisabledStyle.Render(btn.Text))
	} else {
		lines = append(lines, buttonStyle.Render(btn.Text))
	}
	lines = append(lines, "", keyStyle.Render("[ctrl+r]")+"  "+fieldLabelStyle.Render(switchHint))

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	contentHeight := strings.Count(content, "\n") + 1

	topPad := (height - contentHeight) / 3
	if topPad < 0 {
		topPad = 0
	}

	// Center horizontally
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		strings.Repeat("\n", topPad)+content)
}
