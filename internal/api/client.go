// Package api talks to the news summarizer backend: the JSON news and
// search endpoints and the form-based login, registration and logout.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matheuskafuri/newsdash/internal/article"
	"github.com/matheuskafuri/newsdash/internal/logging"
)

const (
	RequestIDHeader = "X-Request-ID"
	SessionCookie   = "session"

	FallbackNews   = "Failed to fetch news"
	FallbackSearch = "Search failed"

	maxBody = 4 << 20
)

var (
	// ErrUnauthorized means the backend bounced the request to its login
	// page.
	ErrUnauthorized = errors.New("not signed in")
	// ErrRejected means a form post was answered with the form again.
	ErrRejected = errors.New("rejected by server")
)

// ResponseError is a non-2xx or unreadable JSON response.
type ResponseError struct {
	Status  int
	Message string
	Err     error
}

func (e *ResponseError) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *ResponseError) Unwrap() error { return e.Err }

// Message picks the text to show a user for err: the server's message when
// there is one, otherwise fallback.
func Message(err error, fallback string) string {
	var re *ResponseError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	var fe *FormError
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}
	if errors.Is(err, ErrUnauthorized) {
		return "Please log in to access this page."
	}
	return fallback
}

type Client struct {
	base *url.URL
	http *http.Client
	jar  *sessionJar
	now  func() time.Time
	log  *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the transport client. Its Jar and CheckRedirect
// are overwritten.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url scheme must be http or https, got %q", base.Scheme)
	}
	jar, err := newSessionJar()
	if err != nil {
		return nil, err
	}
	c := &Client{
		base: base,
		http: &http.Client{Timeout: 30 * time.Second},
		jar:  jar,
		now:  time.Now,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.Jar = c.jar
	// Redirects are answers here: a bounce to /login means no session and a
	// redirect after a form post means it was accepted.
	c.http.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c, nil
}

func (c *Client) BaseURL() string { return c.base.String() }

// NoCache appends a cache-busting parameter to raw unless it points at a
// different host than the backend.
func (c *Client) NoCache(raw string) string {
	return NoCache(raw, c.base.Host, c.now())
}

// NoCache appends _=<unix millis> to raw with ? or & as needed. Absolute
// URLs for another host are returned unchanged.
func NoCache(raw, host string, now time.Time) string {
	if u, err := url.Parse(raw); err == nil && u.IsAbs() && u.Host != host {
		return raw
	}
	sep := "?"
	if strings.Contains(raw, "?") {
		sep = "&"
	}
	return raw + sep + "_=" + strconv.FormatInt(now.UnixMilli(), 10)
}

func (c *Client) resolve(path string) string {
	return c.base.String() + path
}

// SetSession seeds the jar with a session cookie obtained elsewhere.
func (c *Client) SetSession(value string) {
	if value == "" {
		return
	}
	c.jar.SetCookies(c.base, []*http.Cookie{{Name: SessionCookie, Value: value, Path: "/"}})
}

// HasSession reports whether the jar holds a session cookie for the
// backend.
func (c *Client) HasSession() bool {
	for _, ck := range c.jar.Cookies(c.base) {
		if strings.Contains(ck.Name, SessionCookie) {
			return true
		}
	}
	return false
}

// ClearCookies drops every cookie the client holds. Requests in flight
// keep working against the emptied jar.
func (c *Client) ClearCookies() {
	c.jar.reset()
}

// sessionJar is the client's only cookie jar. Clearing it swaps the inner
// jar under the lock, so http.Client.Jar is never reassigned.
type sessionJar struct {
	mu  sync.Mutex
	jar *cookiejar.Jar
}

func newSessionJar() (*sessionJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return &sessionJar{jar: jar}, nil
}

func (j *sessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.jar.SetCookies(u, cookies)
}

func (j *sessionJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.jar.Cookies(u)
}

func (j *sessionJar) reset() {
	// cookiejar.New only fails for a bad PublicSuffixList and none is set.
	jar, _ := cookiejar.New(nil)
	j.mu.Lock()
	j.jar = jar
	j.mu.Unlock()
}

// do sends req with a request id and logs it through the logger in the
// request's context. An id already in the context is reused so callers can
// correlate their own log lines.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	id := logging.RequestID(ctx)
	if id == "" {
		id = uuid.NewString()
		req = req.WithContext(logging.WithRequestID(ctx, id))
	}
	req.Header.Set(RequestIDHeader, id)
	req.Header.Set("Cache-Control", "no-cache")
	log := logging.FromContextOr(ctx, c.log).With(slog.String("request_id", id), slog.String("method", req.Method), slog.String("url", req.URL.String()))

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug("request failed", slog.Any("error", err))
		return nil, err
	}
	log.Debug("request done", slog.Int("status", resp.StatusCode), slog.Duration("elapsed", c.now().Sub(start)))
	return resp, nil
}

type articlesResponse struct {
	Articles []article.Article `json:"articles"`
	Error    string            `json:"error"`
}

// News fetches GET /news/{category}.
func (c *Client) News(ctx context.Context, category string) ([]article.Article, error) {
	u := c.NoCache(c.resolve("/news/" + url.PathEscape(category)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.articles(req, FallbackNews)
}

// Search posts the keyword to /search.
func (c *Client) Search(ctx context.Context, keyword string) ([]article.Article, error) {
	body, err := json.Marshal(map[string]string{"keyword": keyword})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.NoCache(c.resolve("/search")), strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.articles(req, FallbackSearch)
}

func (c *Client) articles(req *http.Request, fallback string) ([]article.Article, error) {
	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fallback, err)
	}
	defer resp.Body.Close()

	if isRedirect(resp.StatusCode) && strings.HasPrefix(locationPath(resp), "/login") {
		return nil, &ResponseError{Status: resp.StatusCode, Err: ErrUnauthorized}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &ResponseError{Status: resp.StatusCode, Message: fallback, Err: err}
	}

	var payload articlesResponse
	decodeErr := json.Unmarshal(data, &payload)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := payload.Error
		if decodeErr != nil || msg == "" {
			msg = fallback
		}
		return nil, &ResponseError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, &ResponseError{Status: resp.StatusCode, Message: fallback, Err: decodeErr}
	}
	return payload.Articles, nil
}

func isRedirect(status int) bool {
	return status >= 300 && status < 400
}

func locationPath(resp *http.Response) string {
	loc, err := resp.Location()
	if err != nil {
		return ""
	}
	return loc.Path
}
