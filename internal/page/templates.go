package page

import (
	"fmt"

	"github.com/matheuskafuri/newsdash/internal/session"
)

const (
	LoginPath     = session.LoginPath
	RegisterPath  = session.RegisterPath
	DashboardPath = "/dashboard"

	RegisterForm = "registerForm"
	LoginForm    = "loginForm"

	RegisterLabel = "Create Account"
	LoginLabel    = "Sign In"

	defaultEmptyHeading = "No results found"
)

// Greeting is the welcome title shown on the dashboard.
func Greeting(username string) string {
	if username == "" {
		username = "User"
	}
	return fmt.Sprintf("Hello, %s! 👋", username)
}

// NewDashboard builds the dashboard document. loggedIn sets the body marker
// class the session guard looks for.
func NewDashboard(username, current string, loggedIn bool) *Page {
	p := New(DashboardPath)
	p.SetData("username", username)
	if loggedIn {
		p.AddClass(LoggedInClass)
	}
	p.Add(Element{ID: WelcomeTitle, Text: Greeting(username), Visible: true})
	p.Add(Element{ID: CategoryFilter, Value: current, Visible: true})
	p.Add(Element{ID: SearchInput, Visible: true})
	p.Add(Element{ID: SearchButton, Text: "Search", Visible: true})
	p.Add(Element{ID: LoadingSpinner})
	p.Add(Element{ID: ErrorMessage})
	p.Add(Element{ID: EmptyState, Text: defaultEmptyHeading})
	p.Add(Element{ID: ArticlesGrid, Visible: true})
	p.Add(Element{ID: LogoutButton, Text: "Logout", Visible: true})
	return p
}

func NewLogin() *Page {
	p := New(LoginPath)
	p.Add(Element{ID: Email, Visible: true})
	p.Add(Element{ID: Password, Visible: true})
	p.Add(Element{ID: Submit, Text: LoginLabel, Visible: true})
	p.AddForm(Form{ID: LoginForm, Fields: []string{Email, Password}, SubmitID: Submit, Label: LoginLabel})
	return p
}

func NewRegister() *Page {
	p := New(RegisterPath)
	p.Add(Element{ID: Username, Visible: true})
	p.Add(Element{ID: Email, Visible: true})
	p.Add(Element{ID: Password, Visible: true})
	p.Add(Element{ID: ConfirmPassword, Visible: true})
	p.Add(Element{ID: Submit, Text: RegisterLabel, Visible: true})
	p.AddForm(Form{
		ID:       RegisterForm,
		Fields:   []string{Username, Email, Password, ConfirmPassword},
		SubmitID: Submit,
		Label:    RegisterLabel,
	})
	return p
}
