package formguard

import (
	"sync"
	"time"

	"github.com/matheuskafuri/newsdash/internal/clock"
	"github.com/matheuskafuri/newsdash/internal/notify"
)

const (
	// AuthBusyTimeout re-enables a login or registration button whose
	// request never came back.
	AuthBusyTimeout = 5 * time.Second
	// FormBusyTimeout is the same safety net for any other form.
	FormBusyTimeout = 10 * time.Second

	BusyLabel = "Processing..."
)

// Surface is the part of a document the guard reads and decorates.
type Surface interface {
	Value(id string) string
	SetBorder(id, color string)
	Text(id string) string
	SetText(id, text string)
	SetDisabled(id string, disabled bool)
}

// Guard wires the validation rules to a form surface.
type Guard struct {
	surface  Surface
	notifier notify.Shower
	clock    clock.Clock

	mu   sync.Mutex
	seq  uint64
	busy map[string]*busyState
}

type busyState struct {
	gen   uint64
	label string
	timer clock.Timer
}

func New(surface Surface, notifier notify.Shower, c clock.Clock) *Guard {
	if c == nil {
		c = clock.Real{}
	}
	return &Guard{
		surface:  surface,
		notifier: notifier,
		clock:    c,
		busy:     make(map[string]*busyState),
	}
}

// SubmitRegistration validates the registration fields. On failure it
// flags the fields, shows the message and returns false so the caller
// cancels the submission. On success the submit button goes busy.
func (g *Guard) SubmitRegistration(submitID string) bool {
	if g.IsBusy(submitID) {
		return false
	}
	r := ValidateRegistration(Registration{
		Email:           g.surface.Value(FieldEmail),
		Password:        g.surface.Value(FieldPassword),
		ConfirmPassword: g.surface.Value(FieldConfirmPassword),
	})
	return g.settle(r, submitID, AuthBusyTimeout)
}

// SubmitLogin is SubmitRegistration for the login form.
func (g *Guard) SubmitLogin(submitID string) bool {
	if g.IsBusy(submitID) {
		return false
	}
	r := ValidateLogin(g.surface.Value(FieldEmail), g.surface.Value(FieldPassword))
	return g.settle(r, submitID, AuthBusyTimeout)
}

func (g *Guard) settle(r Result, submitID string, timeout time.Duration) bool {
	g.Apply(r)
	if !r.Valid {
		g.notifier.Show(r.Message, notify.Error)
		return false
	}
	g.Busy(submitID, timeout)
	return true
}

// Apply paints a result's highlights onto the surface.
func (g *Guard) Apply(r Result) {
	for field, c := range r.Highlights {
		g.surface.SetBorder(field, string(c))
	}
}

// PasswordInput runs on every keystroke in the password field.
func (g *Guard) PasswordInput() {
	g.surface.SetBorder(FieldPassword, string(PasswordColor(g.surface.Value(FieldPassword))))
}

// ConfirmInput runs on every keystroke in the confirmation field.
func (g *Guard) ConfirmInput() {
	c := ConfirmColor(g.surface.Value(FieldConfirmPassword), g.surface.Value(FieldPassword))
	g.surface.SetBorder(FieldConfirmPassword, string(c))
}

// EmailBlur runs when the email field loses focus.
func (g *Guard) EmailBlur() {
	g.surface.SetBorder(FieldEmail, string(EmailColor(g.surface.Value(FieldEmail))))
}

// Busy disables the button, swaps its label for BusyLabel and schedules
// Release after timeout. A busy button is left as is.
func (g *Guard) Busy(buttonID string, timeout time.Duration) {
	g.mu.Lock()
	if _, ok := g.busy[buttonID]; ok {
		g.mu.Unlock()
		return
	}
	g.seq++
	st := &busyState{gen: g.seq, label: g.surface.Text(buttonID)}
	g.busy[buttonID] = st
	gen := st.gen
	st.timer = g.clock.AfterFunc(timeout, func() { g.release(buttonID, gen) })
	g.mu.Unlock()

	g.surface.SetDisabled(buttonID, true)
	g.surface.SetText(buttonID, BusyLabel)
}

// Release restores a busy button right away, e.g. when the response
// arrived or the form was reset.
func (g *Guard) Release(buttonID string) bool {
	g.mu.Lock()
	st, ok := g.busy[buttonID]
	g.mu.Unlock()
	if !ok {
		return false
	}
	return g.release(buttonID, st.gen)
}

// release restores the button only if gen still owns it, so a timer left
// over from an earlier submission cannot unlock a newer one.
func (g *Guard) release(buttonID string, gen uint64) bool {
	g.mu.Lock()
	st, ok := g.busy[buttonID]
	if !ok || st.gen != gen {
		g.mu.Unlock()
		return false
	}
	delete(g.busy, buttonID)
	st.timer.Stop()
	g.mu.Unlock()

	g.surface.SetText(buttonID, st.label)
	g.surface.SetDisabled(buttonID, false)
	return true
}

func (g *Guard) IsBusy(buttonID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.busy[buttonID]
	return ok
}
