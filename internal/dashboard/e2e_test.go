package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/matheuskafuri/newsdash/internal/api"
	"github.com/matheuskafuri/newsdash/internal/clock"
	"github.com/matheuskafuri/newsdash/internal/notify"
	"github.com/matheuskafuri/newsdash/internal/page"
)

func TestEndToEndGeneralNews(t *testing.T) {
	now := time.Now().UTC()
	var calls atomic.Int32

	r := chi.NewRouter()
	r.Get("/news/{category}", func(w http.ResponseWriter, req *http.Request) {
		calls.Add(1)
		if chi.URLParam(req, "category") != "general" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid category"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"articles": []map[string]string{{
			"title":       "T",
			"source":      "S",
			"publishedAt": now.Add(-30 * time.Second).Format(time.RFC3339),
			"sentiment":   "Negative",
			"url":         "http://x",
		}}})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	client, err := api.New(srv.URL)
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}

	p := page.NewDashboard("", DefaultCategory, true)
	c := clock.NewManual(now)
	ctrl := New(Options{
		Source:   client,
		View:     page.NewDashboardView(p),
		Notifier: notify.New(p, c),
		Clock:    c,
	})

	if err := ctrl.LoadNews(context.Background(), "general"); err != nil {
		t.Fatalf("LoadNews: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("backend calls = %d", calls.Load())
	}

	cards := p.Cards()
	if len(cards) != 1 {
		t.Fatalf("cards = %d, want 1", len(cards))
	}
	html := p.InnerHTML(page.ArticlesGrid)
	for _, want := range []string{
		`<h3 class="article-title">T</h3>`,
		`<div class="article-date">Just now</div>`,
		`sentiment-negative">🔴 Negative</span>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("grid missing %q\n%s", want, html)
		}
	}

	if err := ctrl.LoadNews(context.Background(), "weather"); err == nil {
		t.Fatal("expected error for unknown category")
	}
	if got := p.Text(page.ErrorMessage); got != "Invalid category" {
		t.Errorf("inline error = %q", got)
	}
}
