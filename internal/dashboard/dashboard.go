// Package dashboard drives the news grid: it owns the selected category and
// the loading flag, runs at most one backend request at a time and renders
// the results, the empty state or the error.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/matheuskafuri/newsdash/internal/api"
	"github.com/matheuskafuri/newsdash/internal/article"
	"github.com/matheuskafuri/newsdash/internal/clock"
	"github.com/matheuskafuri/newsdash/internal/notify"
)

const (
	DefaultCategory = "general"
	// TitleRestoreDelay is how long the search heading replaces the
	// greeting.
	TitleRestoreDelay = 5 * time.Second

	MsgEmptyKeyword = "Please enter a search term"
	emptyHeading    = "No results found"
)

var (
	// ErrBusy is returned when a request is dropped because another one is
	// still in flight.
	ErrBusy         = errors.New("dashboard: request already in flight")
	ErrEmptyKeyword = errors.New("dashboard: empty search keyword")
)

// Source is the backend.
type Source interface {
	News(ctx context.Context, category string) ([]article.Article, error)
	Search(ctx context.Context, keyword string) ([]article.Article, error)
}

// View is the surface the controller renders onto.
type View interface {
	SetLoading(loading bool)
	ShowError(message string)
	HideError()
	ShowEmpty(heading string)
	HideEmpty()
	ShowArticles(cards []article.Card, html string)
	SetTitle(text string)
	Greeting() string
}

type Options struct {
	Source   Source
	View     View
	Notifier notify.Shower
	Clock    clock.Clock
	Logger   *slog.Logger
	Category string
}

type Controller struct {
	src      Source
	view     View
	notifier notify.Shower
	clock    clock.Clock
	log      *slog.Logger

	mu              sync.Mutex
	currentCategory string
	isLoading       bool
	titleGen        uint64
	titleTimer      clock.Timer
}

func New(opts Options) *Controller {
	c := &Controller{
		src:             opts.Source,
		view:            opts.View,
		notifier:        opts.Notifier,
		clock:           opts.Clock,
		log:             opts.Logger,
		currentCategory: opts.Category,
	}
	if c.clock == nil {
		c.clock = clock.Real{}
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.currentCategory == "" {
		c.currentCategory = DefaultCategory
	}
	return c
}

func (c *Controller) CurrentCategory() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentCategory
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isLoading
}

// SelectCategory records category as current and loads it. The selection
// sticks even when the load is dropped as busy.
func (c *Controller) SelectCategory(ctx context.Context, category string) error {
	c.mu.Lock()
	c.currentCategory = category
	c.mu.Unlock()
	return c.LoadNews(ctx, category)
}

// Reload fetches the current category again.
func (c *Controller) Reload(ctx context.Context) error {
	return c.LoadNews(ctx, c.CurrentCategory())
}

// LoadNews fetches and renders one category. It returns ErrBusy without
// touching the view if a request is already in flight.
func (c *Controller) LoadNews(ctx context.Context, category string) error {
	if !c.begin() {
		return ErrBusy
	}
	defer c.finish()

	log := c.log.With(slog.String("category", category))
	articles, err := c.src.News(ctx, category)
	if err != nil {
		log.Error("loading news failed", slog.Any("error", err))
		c.fail(api.Message(err, api.FallbackNews))
		return fmt.Errorf("loading %s news: %w", category, err)
	}
	if err := c.display(articles, ""); err != nil {
		log.Error("rendering news failed", slog.Any("error", err))
		c.fail(api.FallbackNews)
		return err
	}
	return nil
}

// Search runs a keyword search. Blank keywords are refused locally with a
// warning and never reach the backend.
func (c *Controller) Search(ctx context.Context, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		c.notifier.Show(MsgEmptyKeyword, notify.Error)
		return ErrEmptyKeyword
	}
	if !c.begin() {
		return ErrBusy
	}
	defer c.finish()

	log := c.log.With(slog.String("keyword", keyword))
	articles, err := c.src.Search(ctx, keyword)
	if err != nil {
		log.Error("search failed", slog.Any("error", err))
		c.fail(api.Message(err, api.FallbackSearch))
		return fmt.Errorf("searching %q: %w", keyword, err)
	}
	if err := c.display(articles, keyword); err != nil {
		log.Error("rendering search results failed", slog.Any("error", err))
		c.fail(api.FallbackSearch)
		return err
	}
	return nil
}

// begin is the check-and-set on the loading flag.
func (c *Controller) begin() bool {
	c.mu.Lock()
	if c.isLoading {
		c.mu.Unlock()
		return false
	}
	c.isLoading = true
	c.mu.Unlock()

	c.view.SetLoading(true)
	c.view.HideError()
	c.view.HideEmpty()
	return true
}

func (c *Controller) finish() {
	c.mu.Lock()
	c.isLoading = false
	c.mu.Unlock()
	c.view.SetLoading(false)
}

func (c *Controller) fail(message string) {
	c.view.ShowError(message)
	c.notifier.Show(message, notify.Error)
}

func (c *Controller) display(articles []article.Article, keyword string) error {
	if len(articles) == 0 {
		heading := emptyHeading
		if keyword != "" {
			heading = emptyHeading + ` for "` + keyword + `"`
		}
		c.view.ShowEmpty(heading)
		c.view.ShowArticles(nil, "")
		return nil
	}

	cards := article.NewCards(articles, c.clock.Now())
	html, err := article.RenderGrid(cards)
	if err != nil {
		return fmt.Errorf("rendering cards: %w", err)
	}
	if keyword != "" {
		c.showSearchTitle(keyword)
	}
	c.view.ShowArticles(cards, html)
	return nil
}

// showSearchTitle swaps the greeting for the search heading and schedules
// the greeting's return. Each swap takes a new generation so an older
// timer cannot restore over a newer search.
func (c *Controller) showSearchTitle(keyword string) {
	c.mu.Lock()
	if c.titleTimer != nil {
		c.titleTimer.Stop()
	}
	c.titleGen++
	gen := c.titleGen
	c.titleTimer = c.clock.AfterFunc(TitleRestoreDelay, func() { c.restoreTitle(gen) })
	c.mu.Unlock()

	c.view.SetTitle(`Search results for "` + keyword + `"`)
}

func (c *Controller) restoreTitle(gen uint64) {
	c.mu.Lock()
	if gen != c.titleGen {
		c.mu.Unlock()
		return
	}
	c.titleTimer = nil
	c.mu.Unlock()
	c.view.SetTitle(c.view.Greeting())
}
