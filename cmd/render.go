package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/matheuskafuri/newsdash/internal/config"
	"github.com/matheuskafuri/newsdash/internal/dashboard"
	"github.com/matheuskafuri/newsdash/internal/logging"
	"github.com/matheuskafuri/newsdash/internal/notify"
	"github.com/matheuskafuri/newsdash/internal/page"
	"github.com/spf13/cobra"
)

var (
	flagCategory string
	flagSearch   string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the article grid HTML for a category or a search",
	Long: `Fetch one category (or run one search) and print the rendered article cards
as HTML. When nothing matches, the empty-state panel is printed instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		category := flagCategory
		if category == "" {
			category = e.cfg.DefaultCategory
		}
		req := renderRequest{category: category}
		if cmd.Flags().Changed("search") {
			req.keyword, req.search = flagSearch, true
		}
		return render(logging.WithLogger(cmd.Context(), e.log), cmd.OutOrStdout(), e.client, e.cfg, e.log, req)
	},
}

func init() {
	renderCmd.Flags().StringVar(&flagCategory, "category", "", "category to fetch (default from config)")
	renderCmd.Flags().StringVar(&flagSearch, "search", "", "keyword to search instead of a category")
	renderCmd.MarkFlagsMutuallyExclusive("category", "search")
}

type renderRequest struct {
	category string
	keyword  string
	search   bool
}

// render drives the dashboard controller against a headless page and
// prints what the grid ends up showing.
func render(ctx context.Context, w io.Writer, src dashboard.Source, cfg *config.Config, log *slog.Logger, req renderRequest) error {
	doc := page.NewDashboard(cfg.Username, req.category, false)
	ctrl := dashboard.New(dashboard.Options{
		Source:   src,
		View:     page.NewDashboardView(doc),
		Notifier: notify.New(doc, nil),
		Logger:   log,
		Category: req.category,
	})

	var err error
	if req.search {
		err = ctrl.Search(ctx, req.keyword)
	} else {
		err = ctrl.LoadNews(ctx, req.category)
	}
	if err != nil {
		if e, ok := doc.Element(page.ErrorMessage); ok && e.Visible {
			return errors.New(e.Text)
		}
		if n, ok := doc.Notification(); ok {
			return errors.New(n.Message)
		}
		return err
	}

	if e, _ := doc.Element(page.EmptyState); e.Visible {
		_, err = fmt.Fprintf(w, "<div id=\"%s\" class=\"empty-state\"><h3>%s</h3></div>\n",
			page.EmptyState, doc.InnerHTML(page.EmptyState))
		return err
	}
	_, err = fmt.Fprintf(w, "<div id=\"%s\" class=\"articles-grid\">%s</div>\n",
		page.ArticlesGrid, doc.InnerHTML(page.ArticlesGrid))
	return err
}
