package cmd

import (
	"context"
	"log/slog"

	"github.com/matheuskafuri/newsdash/internal/logging"
	"github.com/matheuskafuri/newsdash/internal/session"
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the backend session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()
		return logout(logging.WithLogger(cmd.Context(), e.log), e.client, session.NewMemoryStorage(), session.NewMemoryStorage(), e.log)
	},
}

type sessionEnder interface {
	session.Cookies
	Logout(ctx context.Context) error
}

// logout clears client storage first, then tells the backend.
func logout(ctx context.Context, client sessionEnder, local, sess session.Storage, log *slog.Logger) error {
	session.NewGuard(nil, client, local, sess, log).Logout()
	if !client.HasSession() {
		log.Debug("no session cookie held, logging out anyway")
	}
	return client.Logout(ctx)
}
