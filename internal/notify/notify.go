// Package notify shows transient, single-slot messages: a new message
// replaces whatever is on screen and each message dismisses itself after
// Timeout.
package notify

import (
	"sync"
	"time"

	"github.com/matheuskafuri/newsdash/internal/clock"
)

// Timeout is how long a notification stays up unless dismissed earlier.
const Timeout = 5 * time.Second

type Kind string

const (
	Info    Kind = "info"
	Error   Kind = "error"
	Success Kind = "success"
)

type Notification struct {
	ID      uint64
	Message string
	Kind    Kind
}

// Display is the surface that paints the notification slot. A nil
// notification clears it.
type Display interface {
	SetNotification(n *Notification)
}

// Shower is what callers depend on when all they do is surface a message.
type Shower interface {
	Show(message string, kind Kind) Notification
}

type Notifier struct {
	mu      sync.Mutex
	display Display
	clock   clock.Clock
	seq     uint64
	current *Notification
	timer   clock.Timer
}

func New(display Display, c clock.Clock) *Notifier {
	if c == nil {
		c = clock.Real{}
	}
	return &Notifier{display: display, clock: c}
}

// Show replaces the current notification with message.
func (n *Notifier) Show(message string, kind Kind) Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}
	n.seq++
	note := Notification{ID: n.seq, Message: message, Kind: kind}
	n.current = &note
	id := note.ID
	n.timer = n.clock.AfterFunc(Timeout, func() { n.Dismiss(id) })

	shown := note
	n.display.SetNotification(&shown)
	return note
}

// Dismiss removes the notification with the given id. It is a no-op when a
// newer notification has taken the slot, which keeps a stale timer from
// clearing a message it does not own.
func (n *Notifier) Dismiss(id uint64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current == nil || n.current.ID != id {
		return false
	}
	n.current = nil
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.display.SetNotification(nil)
	return true
}

// DismissCurrent is the explicit user "close" action.
func (n *Notifier) DismissCurrent() bool {
	n.mu.Lock()
	cur := n.current
	n.mu.Unlock()
	if cur == nil {
		return false
	}
	return n.Dismiss(cur.ID)
}

func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}
