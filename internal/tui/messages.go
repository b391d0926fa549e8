package tui

import "github.com/matheuskafuri/newsdash/internal/page"

// repaintMsg is sent when a page changed outside of Update, e.g. from a
// timer or a request goroutine.
type repaintMsg struct{}

// loadDoneMsg ends a dashboard request. doc identifies the page that
// issued it so results for a page already left are ignored.
type loadDoneMsg struct {
	doc *page.Page
	err error
}

type authDoneMsg struct {
	doc *page.Page
	err error
}

type logoutDoneMsg struct {
	err error
}

type openErrMsg struct {
	doc *page.Page
	err error
}
