package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"genelens/internal/api"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the dataset and serve the HTTP API (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	// 1. Load the dataset. Nothing is served without it.
	t0 := time.Now()
	ds, err := loadDataset()
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DataPath).Msg("cannot start without dataset")
	}

	// 2. Initialize Echo with a read-only handler over the dataset
	e := api.NewEcho(cfg.CORSOrigins)
	api.NewHandler(ds).RegisterRoutes(e)

	// 3. Serve until interrupted
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		log.Info().
			Str("addr", cfg.Addr()).
			Int("rows", ds.Len()).
			Dur("startup", time.Since(t0)).
			Msg("Server ready")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
