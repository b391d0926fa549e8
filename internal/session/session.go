// Package session holds the page-load checks that keep signed-out users
// away from protected views and scrub client state on logout.
package session

import (
	"log/slog"
	"net/url"
	"strings"
)

// ProtectedPrefixes are the path prefixes that need a session.
var ProtectedPrefixes = []string{"/dashboard", "/news", "/search"}

const (
	LoginPath    = "/login"
	RegisterPath = "/register"
	// PreferencesKey is the only local-storage entry the client owns.
	PreferencesKey = "news_preferences"
	// LoggedInClass is the body marker of a page rendered for a signed-in
	// user.
	LoggedInClass = "logged-in"
)

// RequiresAuth reports whether path falls under a protected prefix.
func RequiresAuth(path string) bool {
	for _, prefix := range ProtectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// LoginRedirect is the login URL that returns to path after signing in.
// Only the path part is kept; any query is dropped. It is encoded the way
// encodeURIComponent does it.
func LoginRedirect(path string) string {
	path, _, _ = strings.Cut(path, "?")
	return LoginPath + "?redirect=" + strings.ReplaceAll(url.QueryEscape(path), "+", "%20")
}

// Navigator moves between views.
type Navigator interface {
	Path() string
	Navigate(target string)
	Reload()
}

// Document is what the guard inspects and resets on the current view.
type Document interface {
	HasClass(class string) bool
	ResetForms(includePreserved bool) int
}

// Cookies reports whether a session cookie is held.
type Cookies interface {
	HasSession() bool
}

type Guard struct {
	nav     Navigator
	cookies Cookies
	local   Storage
	session Storage
	log     *slog.Logger
}

func NewGuard(nav Navigator, cookies Cookies, local, sess Storage, log *slog.Logger) *Guard {
	if log == nil {
		log = slog.Default()
	}
	return &Guard{nav: nav, cookies: cookies, local: local, session: sess, log: log}
}

// Load runs the checks for a freshly shown view. persisted is true when the
// view was restored from history rather than built anew. It reports whether
// the view may stay on screen.
func (g *Guard) Load(doc Document, persisted bool) bool {
	if g.PageShow(persisted) {
		return false
	}
	path, _, _ := strings.Cut(g.nav.Path(), "?")
	if path == LoginPath || path == RegisterPath {
		doc.ResetForms(true)
	}
	return g.CheckAuthentication(doc)
}

// PageShow forces a reload of a view restored from history so stale
// signed-in content is never shown after logout.
func (g *Guard) PageShow(persisted bool) bool {
	if !persisted {
		return false
	}
	g.log.Debug("view restored from history, reloading", slog.String("path", g.nav.Path()))
	g.nav.Reload()
	return true
}

// BeforeUnload resets every form not marked to preserve its state.
func (g *Guard) BeforeUnload(doc Document) {
	doc.ResetForms(false)
}

// HasSession reports whether a session indicator is present: a session
// cookie or the signed-in body marker.
func (g *Guard) HasSession(doc Document) bool {
	if g.cookies != nil && g.cookies.HasSession() {
		return true
	}
	return doc != nil && doc.HasClass(LoggedInClass)
}

// CheckAuthentication redirects to the login view when the current path is
// protected and no session indicator is present.
func (g *Guard) CheckAuthentication(doc Document) bool {
	path := g.nav.Path()
	if !RequiresAuth(path) || g.HasSession(doc) {
		return true
	}
	g.log.Debug("authentication required, redirecting to login", slog.String("path", path))
	g.nav.Navigate(LoginRedirect(path))
	return false
}

// Logout clears client-side storage. Call it before navigating away.
func (g *Guard) Logout() {
	if g.local != nil {
		g.local.RemoveItem(PreferencesKey)
	}
	if g.session != nil {
		g.session.Clear()
	}
}
