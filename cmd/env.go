package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/matheuskafuri/newsdash/internal/api"
	"github.com/matheuskafuri/newsdash/internal/config"
	"github.com/matheuskafuri/newsdash/internal/logging"
)

// env is what every command needs: config, a logger and a backend client.
type env struct {
	cfg    *config.Config
	log    *slog.Logger
	client *api.Client
	closer io.Closer
}

func (e *env) Close() error {
	if e.closer != nil {
		return e.closer.Close()
	}
	return nil
}

func logPathHint() string {
	return logging.LogPath()
}

// setup loads the config, opens the log (only with --debug, stdout belongs
// to the TUI) and builds the backend client.
func setup() (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	e := &env{cfg: cfg, log: logging.Discard()}
	if flagDebug {
		log, closer, err := logging.Open(logging.LogPath(), true)
		if err != nil {
			return nil, err
		}
		e.log, e.closer = log, closer
	}

	client, err := api.New(cfg.Backend(),
		api.WithTimeout(cfg.Timeout()),
		api.WithLogger(e.log),
	)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("creating client: %w", err)
	}
	if s := cfg.SessionCookie(); s != "" {
		client.SetSession(s)
	}
	e.client = client

	e.log.Debug("starting", slog.String("backend", client.BaseURL()), slog.String("version", version))
	return e, nil
}
