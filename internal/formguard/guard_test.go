package formguard

import (
	"testing"
	"time"

	"github.com/matheuskafuri/newsdash/internal/clock"
	"github.com/matheuskafuri/newsdash/internal/notify"
	"github.com/matheuskafuri/newsdash/internal/page"
)

type fixture struct {
	page     *page.Page
	notifier *notify.Notifier
	clock    *clock.Manual
	guard    *Guard
}

func newFixture(p *page.Page) *fixture {
	c := clock.NewManual(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	n := notify.New(p, c)
	return &fixture{page: p, notifier: n, clock: c, guard: New(p, n, c)}
}

func (f *fixture) fill(values map[string]string) {
	for id, v := range values {
		f.page.SetValue(id, v)
	}
}

func (f *fixture) border(id string) Color {
	e, _ := f.page.Element(id)
	return Color(e.Border)
}

func TestSubmitRegistrationInvalid(t *testing.T) {
	f := newFixture(page.NewRegister())
	f.fill(map[string]string{
		page.Email:           "broken",
		page.Password:        "secret1",
		page.ConfirmPassword: "secret2",
	})

	if f.guard.SubmitRegistration(page.Submit) {
		t.Fatal("invalid form was allowed to submit")
	}
	n, ok := f.page.Notification()
	if !ok || n.Message != MsgPasswordMismatch || n.Kind != notify.Error {
		t.Errorf("notification = %+v, %v", n, ok)
	}
	if f.border(page.ConfirmPassword) != Red || f.border(page.Email) != Red {
		t.Error("failing fields not flagged")
	}
	if f.border(page.Password) != None {
		t.Error("passing field flagged")
	}
	if submit, _ := f.page.Element(page.Submit); submit.Disabled {
		t.Error("submit disabled after failed validation")
	}
}

func TestSubmitRegistrationBusyLifecycle(t *testing.T) {
	f := newFixture(page.NewRegister())
	f.fill(map[string]string{
		page.Email:           "ada@example.com",
		page.Password:        "secret1",
		page.ConfirmPassword: "secret1",
	})

	if !f.guard.SubmitRegistration(page.Submit) {
		t.Fatal("valid form rejected")
	}
	submit, _ := f.page.Element(page.Submit)
	if !submit.Disabled || submit.Text != BusyLabel {
		t.Errorf("submit not busy: %+v", submit)
	}
	if f.guard.SubmitRegistration(page.Submit) {
		t.Error("second submit accepted while busy")
	}

	f.clock.Advance(AuthBusyTimeout)
	submit, _ = f.page.Element(page.Submit)
	if submit.Disabled || submit.Text != page.RegisterLabel {
		t.Errorf("submit not restored after timeout: %+v", submit)
	}
}

func TestStaleBusyTimerDoesNotReleaseNewerSubmit(t *testing.T) {
	f := newFixture(page.NewLogin())
	f.fill(map[string]string{page.Email: "a@b.c", page.Password: "pw"})

	if !f.guard.SubmitLogin(page.Submit) {
		t.Fatal("first submit rejected")
	}
	f.clock.Advance(2 * time.Second)
	f.guard.Release(page.Submit)

	if !f.guard.SubmitLogin(page.Submit) {
		t.Fatal("second submit rejected")
	}
	// The first submission's deadline passes; the second must stay busy.
	f.clock.Advance(3 * time.Second)
	if !f.guard.IsBusy(page.Submit) {
		t.Fatal("second submission released by first timer")
	}
	f.clock.Advance(2 * time.Second)
	if f.guard.IsBusy(page.Submit) {
		t.Error("second submission not released by its own timer")
	}
}

func TestSubmitLoginMissingFields(t *testing.T) {
	f := newFixture(page.NewLogin())
	if f.guard.SubmitLogin(page.Submit) {
		t.Fatal("empty login accepted")
	}
	if n, _ := f.page.Notification(); n.Message != MsgMissingFields {
		t.Errorf("notification = %q", n.Message)
	}
}

func TestLiveFeedback(t *testing.T) {
	f := newFixture(page.NewRegister())

	f.page.SetValue(page.Password, "abc")
	f.guard.PasswordInput()
	if f.border(page.Password) != Red {
		t.Error("short password not red")
	}
	f.page.SetValue(page.Password, "abcdef")
	f.guard.PasswordInput()
	if f.border(page.Password) != Green {
		t.Error("long password not green")
	}

	f.page.SetValue(page.ConfirmPassword, "abcde")
	f.guard.ConfirmInput()
	if f.border(page.ConfirmPassword) != Red {
		t.Error("mismatch not red")
	}
	f.page.SetValue(page.ConfirmPassword, "abcdef")
	f.guard.ConfirmInput()
	if f.border(page.ConfirmPassword) != Green {
		t.Error("match not green")
	}

	f.guard.EmailBlur()
	if f.border(page.Email) != None {
		t.Error("empty email should be unmarked")
	}
	f.page.SetValue(page.Email, "x@y")
	f.guard.EmailBlur()
	if f.border(page.Email) != Red {
		t.Error("invalid email not red")
	}

	if _, ok := f.page.Notification(); ok {
		t.Error("live feedback must not notify")
	}
}
