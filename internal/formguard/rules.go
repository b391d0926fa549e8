// Package formguard validates the login and registration forms and manages
// the submit button's busy state.
package formguard

import (
	"regexp"
	"strings"
)

// Color is a field highlight. None clears any highlight.
type Color string

const (
	None  Color = ""
	Red   Color = "#f44336"
	Green Color = "#4caf50"
)

const MinPasswordLength = 6

const (
	MsgPasswordMismatch = "Passwords do not match."
	MsgPasswordShort    = "Password must be at least 6 characters long."
	MsgInvalidEmail     = "Please enter a valid email address."
	MsgMissingFields    = "Please fill in all fields."
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Field IDs.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
)

type Registration struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Result is the outcome of one validation pass. Highlights covers every
// checked field: Red for failures, None for passes.
type Result struct {
	Valid      bool
	Message    string
	Highlights map[string]Color
}

func (r *Result) fail(field, message string) {
	r.Valid = false
	if r.Message == "" {
		r.Message = message
	}
	r.Highlights[field] = Red
}

func (r *Result) pass(field string) {
	r.Highlights[field] = None
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidateRegistration checks, in order, password confirmation, password
// length and email format. Every failing field is flagged but the message is
// that of the first failure.
func ValidateRegistration(in Registration) Result {
	r := Result{Valid: true, Highlights: make(map[string]Color, 3)}

	if in.Password != in.ConfirmPassword {
		r.fail(FieldConfirmPassword, MsgPasswordMismatch)
	} else {
		r.pass(FieldConfirmPassword)
	}

	if len(in.Password) < MinPasswordLength {
		r.fail(FieldPassword, MsgPasswordShort)
	} else {
		r.pass(FieldPassword)
	}

	if !ValidEmail(in.Email) {
		r.fail(FieldEmail, MsgInvalidEmail)
	} else {
		r.pass(FieldEmail)
	}

	return r
}

// ValidateLogin only requires both fields; credentials are checked by the
// server.
func ValidateLogin(email, password string) Result {
	r := Result{Valid: true, Highlights: make(map[string]Color, 2)}
	if strings.TrimSpace(email) == "" {
		r.fail(FieldEmail, MsgMissingFields)
	} else {
		r.pass(FieldEmail)
	}
	if password == "" {
		r.fail(FieldPassword, MsgMissingFields)
	} else {
		r.pass(FieldPassword)
	}
	return r
}

// ConfirmColor is the live highlight for the confirmation field.
func ConfirmColor(confirm, password string) Color {
	if confirm != password {
		return Red
	}
	return Green
}

// PasswordColor is the live highlight for the password field.
func PasswordColor(password string) Color {
	if len(password) < MinPasswordLength {
		return Red
	}
	return Green
}

// EmailColor is the highlight applied when the email field loses focus. An
// empty field is left unmarked.
func EmailColor(email string) Color {
	switch {
	case email == "":
		return None
	case !ValidEmail(email):
		return Red
	default:
		return Green
	}
}
