package cmd

import (
	"github.com/matheuskafuri/newsdash/internal/logging"
	"github.com/matheuskafuri/newsdash/internal/session"
	"github.com/matheuskafuri/newsdash/internal/tui"
	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := logging.WithLogger(cmd.Context(), e.log)
	return tui.Run(ctx, tui.RunOpts{
		Backend: e.client,
		Config:  e.cfg,
		Local:   session.NewMemoryStorage(),
		Session: session.NewMemoryStorage(),
		Start:   flagStart,
	})
}
