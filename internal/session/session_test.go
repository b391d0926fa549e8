package session

import (
	"testing"
)

type fakeNav struct {
	path      string
	navigated []string
	reloads   int
}

func (n *fakeNav) Path() string           { return n.path }
func (n *fakeNav) Navigate(target string) { n.navigated = append(n.navigated, target) }
func (n *fakeNav) Reload()                { n.reloads++ }

type fakeDoc struct {
	classes map[string]bool
	resets  []bool
}

func (d *fakeDoc) HasClass(c string) bool { return d.classes[c] }
func (d *fakeDoc) ResetForms(includePreserved bool) int {
	d.resets = append(d.resets, includePreserved)
	return 1
}

type cookieFlag bool

func (c cookieFlag) HasSession() bool { return bool(c) }

func TestRequiresAuth(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/dashboard", true},
		{"/dashboard/settings", true},
		{"/news/general", true},
		{"/search", true},
		{"/login", false},
		{"/register", false},
		{"/", false},
		{"/static/js/main.js", false},
	}
	for _, tt := range tests {
		if got := RequiresAuth(tt.path); got != tt.want {
			t.Errorf("RequiresAuth(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLoginRedirect(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/dashboard", "/login?redirect=%2Fdashboard"},
		{"/news/world news", "/login?redirect=%2Fnews%2Fworld%20news"},
		{"/search?keyword=a&b", "/login?redirect=%2Fsearch"},
		{"/news/a%b", "/login?redirect=%2Fnews%2Fa%25b"},
	}
	for _, tt := range tests {
		if got := LoginRedirect(tt.path); got != tt.want {
			t.Errorf("LoginRedirect(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCheckAuthentication(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		cookie   bool
		loggedIn bool
		allowed  bool
	}{
		{"public path", "/login", false, false, true},
		{"protected without session", "/dashboard", false, false, false},
		{"protected with cookie", "/dashboard", true, false, true},
		{"protected with body marker", "/news/general", false, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := &fakeNav{path: tt.path}
			doc := &fakeDoc{classes: map[string]bool{LoggedInClass: tt.loggedIn}}
			g := NewGuard(nav, cookieFlag(tt.cookie), nil, nil, nil)

			if got := g.CheckAuthentication(doc); got != tt.allowed {
				t.Errorf("CheckAuthentication = %v, want %v", got, tt.allowed)
			}
			if !tt.allowed {
				if len(nav.navigated) != 1 || nav.navigated[0] != LoginRedirect(tt.path) {
					t.Errorf("navigated to %v", nav.navigated)
				}
			} else if len(nav.navigated) != 0 {
				t.Errorf("unexpected navigation %v", nav.navigated)
			}
		})
	}
}

func TestLoadReloadsPersistedView(t *testing.T) {
	nav := &fakeNav{path: "/dashboard"}
	g := NewGuard(nav, cookieFlag(true), nil, nil, nil)
	if g.Load(&fakeDoc{}, true) {
		t.Error("restored view should not stay on screen")
	}
	if nav.reloads != 1 {
		t.Errorf("reloads = %d, want 1", nav.reloads)
	}
	if !g.Load(&fakeDoc{}, false) {
		t.Error("fresh view with session should stay")
	}
	if nav.reloads != 1 {
		t.Error("fresh view reloaded")
	}
}

func TestLoadResetsAuthForms(t *testing.T) {
	nav := &fakeNav{path: "/login?redirect=%2Fdashboard"}
	doc := &fakeDoc{}
	g := NewGuard(nav, cookieFlag(false), nil, nil, nil)
	if !g.Load(doc, false) {
		t.Error("login view should be allowed")
	}
	if len(doc.resets) != 1 || !doc.resets[0] {
		t.Errorf("login forms not fully reset: %v", doc.resets)
	}
}

func TestBeforeUnloadKeepsPreserved(t *testing.T) {
	doc := &fakeDoc{}
	g := NewGuard(&fakeNav{}, nil, nil, nil, nil)
	g.BeforeUnload(doc)
	if len(doc.resets) != 1 || doc.resets[0] {
		t.Errorf("BeforeUnload resets = %v, want [false]", doc.resets)
	}
}

func TestLogoutClearsStorage(t *testing.T) {
	local := NewMemoryStorage()
	sess := NewMemoryStorage()
	local.SetItem(PreferencesKey, `{"category":"tech"}`)
	local.SetItem("other", "kept")
	sess.SetItem("a", "1")
	sess.SetItem("b", "2")

	g := NewGuard(&fakeNav{}, nil, local, sess, nil)
	g.Logout()

	if _, ok := local.GetItem(PreferencesKey); ok {
		t.Error("preferences not removed")
	}
	if v, _ := local.GetItem("other"); v != "kept" {
		t.Error("unrelated local item removed")
	}
	if sess.Len() != 0 {
		t.Errorf("session storage has %d items after logout", sess.Len())
	}
}
