// Package page is an in-memory document: elements addressed by ID, body
// classes and data attributes, registered forms, a notification slot and the
// rendered article cards. Controllers mutate it; the TUI paints it.
package page

import (
	"fmt"
	"sync"

	"github.com/matheuskafuri/newsdash/internal/article"
	"github.com/matheuskafuri/newsdash/internal/format"
	"github.com/matheuskafuri/newsdash/internal/notify"
	"github.com/matheuskafuri/newsdash/internal/session"
)

// Element IDs the controllers bind to.
const (
	CategoryFilter  = "categoryFilter"
	SearchButton    = "searchButton"
	SearchInput     = "searchInput"
	ArticlesGrid    = "articlesGrid"
	LoadingSpinner  = "loadingSpinner"
	ErrorMessage    = "errorMessage"
	EmptyState      = "emptyState"
	WelcomeTitle    = "welcomeTitle"
	LogoutButton    = "logoutButton"
	Username        = "username"
	Email           = "email"
	Password        = "password"
	ConfirmPassword = "confirm_password"
	Submit          = "submit"
)

const LoggedInClass = session.LoggedInClass

type Element struct {
	ID       string
	Text     string
	HTML     string
	Value    string
	Border   string
	Visible  bool
	Disabled bool
	Dimmed   bool
}

type Form struct {
	ID       string
	Fields   []string
	SubmitID string
	// Label is the submit button's resting text, restored on reset.
	Label string
	// Preserve keeps the form's values when the page is left.
	Preserve bool
}

type Page struct {
	mu           sync.RWMutex
	path         string
	elements     map[string]*Element
	order        []string
	classes      map[string]bool
	dataset      map[string]string
	forms        []Form
	notification *notify.Notification
	cards        []article.Card
	listeners    []func()
	resets       []func(Form)
}

func New(path string) *Page {
	return &Page{
		path:     path,
		elements: make(map[string]*Element),
		classes:  make(map[string]bool),
		dataset:  make(map[string]string),
	}
}

func (p *Page) Path() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.path
}

// OnChange registers fn to run after every mutation. Listeners run outside
// the page lock and must not block.
func (p *Page) OnChange(fn func()) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}

// OnFormReset registers fn to run after a form has been reset.
func (p *Page) OnFormReset(fn func(Form)) {
	p.mu.Lock()
	p.resets = append(p.resets, fn)
	p.mu.Unlock()
}

func (p *Page) changed() {
	p.mu.RLock()
	ls := append([]func(){}, p.listeners...)
	p.mu.RUnlock()
	for _, fn := range ls {
		fn()
	}
}

// Add inserts or replaces an element.
func (p *Page) Add(e Element) {
	p.mu.Lock()
	if _, ok := p.elements[e.ID]; !ok {
		p.order = append(p.order, e.ID)
	}
	el := e
	p.elements[e.ID] = &el
	p.mu.Unlock()
	p.changed()
}

// Element returns a copy of the element with the given id.
func (p *Page) Element(id string) (Element, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.elements[id]
	if !ok {
		return Element{}, false
	}
	return *e, true
}

// Update applies fn to the element if it exists. Missing elements are
// skipped, the same way a script tolerates a template without them.
func (p *Page) Update(id string, fn func(*Element)) bool {
	p.mu.Lock()
	e, ok := p.elements[id]
	if ok {
		fn(e)
	}
	p.mu.Unlock()
	if ok {
		p.changed()
	}
	return ok
}

func (p *Page) Text(id string) string {
	e, _ := p.Element(id)
	return e.Text
}

func (p *Page) SetText(id, text string) {
	p.Update(id, func(e *Element) { e.Text = text; e.HTML = "" })
}

func (p *Page) SetHTML(id, html string) {
	p.Update(id, func(e *Element) { e.HTML = html; e.Text = "" })
}

// InnerHTML returns the element's markup. Plain text content is escaped.
func (p *Page) InnerHTML(id string) string {
	e, _ := p.Element(id)
	if e.HTML != "" {
		return e.HTML
	}
	return format.Escape(e.Text)
}

func (p *Page) Value(id string) string {
	e, _ := p.Element(id)
	return e.Value
}

func (p *Page) SetValue(id, value string) {
	p.Update(id, func(e *Element) { e.Value = value })
}

func (p *Page) SetBorder(id, color string) {
	p.Update(id, func(e *Element) { e.Border = color })
}

func (p *Page) SetVisible(id string, visible bool) {
	p.Update(id, func(e *Element) { e.Visible = visible })
}

func (p *Page) SetDisabled(id string, disabled bool) {
	p.Update(id, func(e *Element) { e.Disabled = disabled })
}

func (p *Page) SetDimmed(id string, dimmed bool) {
	p.Update(id, func(e *Element) { e.Dimmed = dimmed })
}

func (p *Page) HasClass(class string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.classes[class]
}

func (p *Page) AddClass(class string) {
	p.mu.Lock()
	p.classes[class] = true
	p.mu.Unlock()
	p.changed()
}

func (p *Page) RemoveClass(class string) {
	p.mu.Lock()
	delete(p.classes, class)
	p.mu.Unlock()
	p.changed()
}

func (p *Page) Data(key string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dataset[key]
}

func (p *Page) SetData(key, value string) {
	p.mu.Lock()
	p.dataset[key] = value
	p.mu.Unlock()
	p.changed()
}

// AddForm registers a form. Its fields and submit button must already exist
// or be added later; the form only refers to them by ID.
func (p *Page) AddForm(f Form) {
	p.mu.Lock()
	p.forms = append(p.forms, f)
	p.mu.Unlock()
}

func (p *Page) Forms() []Form {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]Form(nil), p.forms...)
}

func (p *Page) Form(id string) (Form, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, f := range p.forms {
		if f.ID == id {
			return f, nil
		}
	}
	return Form{}, fmt.Errorf("no form %q on %s", id, p.path)
}

// ResetForm clears a form's values and highlights and restores its submit
// button.
func (p *Page) ResetForm(f Form) {
	p.mu.Lock()
	for _, id := range f.Fields {
		if e, ok := p.elements[id]; ok {
			e.Value = ""
			e.Border = ""
		}
	}
	if e, ok := p.elements[f.SubmitID]; ok {
		e.Disabled = false
		if f.Label != "" {
			e.Text = f.Label
		}
	}
	resets := append([]func(Form){}, p.resets...)
	p.mu.Unlock()
	p.changed()
	for _, fn := range resets {
		fn(f)
	}
}

// ResetForms resets every form; forms marked Preserve are skipped unless
// includePreserved is set.
func (p *Page) ResetForms(includePreserved bool) int {
	n := 0
	for _, f := range p.Forms() {
		if f.Preserve && !includePreserved {
			continue
		}
		p.ResetForm(f)
		n++
	}
	return n
}

// SetNotification implements notify.Display.
func (p *Page) SetNotification(n *notify.Notification) {
	p.mu.Lock()
	if n == nil {
		p.notification = nil
	} else {
		cp := *n
		p.notification = &cp
	}
	p.mu.Unlock()
	p.changed()
}

func (p *Page) Notification() (notify.Notification, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.notification == nil {
		return notify.Notification{}, false
	}
	return *p.notification, true
}

func (p *Page) SetCards(cards []article.Card) {
	p.mu.Lock()
	p.cards = append([]article.Card(nil), cards...)
	p.mu.Unlock()
	p.changed()
}

func (p *Page) Cards() []article.Card {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]article.Card(nil), p.cards...)
}
