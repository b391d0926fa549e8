package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FormError carries the flash message the server rendered with a rejected
// form.
type FormError struct {
	Status  int
	Message string
}

func (e *FormError) Error() string {
	if e.Message == "" {
		return ErrRejected.Error()
	}
	return e.Message
}

func (e *FormError) Is(target error) bool { return target == ErrRejected }

// Flash message containers, most specific first.
var flashSelectors = []string{".flash-message", ".flash", ".alert", ".notification", ".error"}

type Registration struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Login posts the login form. The session cookie lands in the client's jar.
func (c *Client) Login(ctx context.Context, email, password string) error {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)
	return c.postForm(ctx, "/login", form)
}

// Register posts the registration form. The backend signs the new user in
// on success.
func (c *Client) Register(ctx context.Context, r Registration) error {
	form := url.Values{}
	form.Set("username", r.Username)
	form.Set("email", r.Email)
	form.Set("password", r.Password)
	form.Set("confirm_password", r.ConfirmPassword)
	return c.postForm(ctx, "/register", form)
}

// Logout ends the server session and drops every cookie, even when the
// request fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.ClearCookies()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.NoCache(c.resolve("/logout")), nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	resp.Body.Close()
	return nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(path), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("posting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if isRedirect(resp.StatusCode) && strings.HasPrefix(locationPath(resp), "/dashboard") {
		return nil
	}
	fe := &FormError{Status: resp.StatusCode}
	if doc, err := goquery.NewDocumentFromReader(resp.Body); err == nil {
		fe.Message = flashMessage(doc)
	}
	return fe
}

func flashMessage(doc *goquery.Document) string {
	for _, sel := range flashSelectors {
		var msg string
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			msg = strings.Join(strings.Fields(s.Text()), " ")
			msg = strings.TrimSpace(strings.TrimSuffix(msg, "×"))
			return msg == ""
		})
		if msg != "" {
			return msg
		}
	}
	return ""
}
