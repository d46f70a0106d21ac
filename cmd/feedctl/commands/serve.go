package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sternrassler/newsfeed-client/pkg/logging"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the feed controller and asset coordinator over HTTP",
	Long: `Serve the feed over HTTP.

Routes:
  GET  /health         liveness probe
  GET  /metrics        Prometheus metrics
  GET  /feed           current feed state
  POST /feed/refresh   reload from the first page
  POST /feed/more      load the next page
  GET  /assets?key=    resolve a title image through the shared cache`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.NewLogger(logging.ComponentServer)

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctl, err := a.newController()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newRouter(ctl, a.coordinator, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.Server.Addr).
			Str("base_url", cfg.Feed.BaseURL).
			Msg("Starting feed server")
		errCh <- srv.ListenAndServe()
	}()

	// Warm the feed; failures are kept in the controller state.
	go func() {
		if err := ctl.LoadInitial(ctx); err != nil {
			logger.Warn().Err(err).Msg("Initial feed load failed")
		}
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error().Err(err).Msg("Server failed")
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down feed server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
