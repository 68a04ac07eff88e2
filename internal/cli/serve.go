package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/irrigo/internal/history"
	"github.com/Dicklesworthstone/irrigo/internal/irrigation"
	"github.com/Dicklesworthstone/irrigo/internal/reload"
	"github.com/Dicklesworthstone/irrigo/internal/ruleset"
	"github.com/Dicklesworthstone/irrigo/internal/server"
)

var serveListen string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the controller over HTTP",
		Long: `Start the HTTP API: compute requests, variable and rule metadata, decision
history, host status, and a websocket stream of simulated sensor runs.

When --ruleset (or the configured ruleset path) points at a file, the server
watches it and hot-reloads the engine on changes; a broken edit keeps the last
good rule base in service. Without a rule base file the embedded default is
served.

Examples:
  irrigo serve
  irrigo serve --listen 0.0.0.0:8530
  irrigo serve --ruleset my-rules.yaml`,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (default from config)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	listen := cfg.Listen
	if serveListen != "" {
		listen = serveListen
	}

	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))

	var source server.EngineSource
	if path := resolveRuleset(cfg); path != "" {
		r, err := reload.New(path, log)
		if err != nil {
			return err
		}
		defer r.Close()
		log.Info("watching rule base", "path", r.Path())
		source = r
	} else {
		engine, err := ruleset.Default()
		if err != nil {
			return err
		}
		if _, err := irrigation.New(engine); err != nil {
			return err
		}
		source = server.StaticEngine{E: engine}
	}

	var store *history.Store
	if cfg.HistoryDB != "" {
		store, err = history.Open(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer store.Close()
		log.Info("recording decisions", "path", cfg.HistoryDB)
	}

	srv := &http.Server{
		Addr:              listen,
		Handler:           server.New(source, store, log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", listen)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
