package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"uffetcher/internal/api"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP API (GET /uf/{date}).",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, source, service, err := setup()
		if err != nil {
			return err
		}
		defer source.Close()

		server := &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           api.NewHandler(service),
			ReadHeaderTimeout: 5 * time.Second,
		}

		errChan := make(chan error, 1)
		go func() {
			slog.Info("UF API listening", "addr", cfg.ListenAddr, "source", cfg.SourceBaseURL)
			errChan <- server.ListenAndServe()
		}()

		select {
		case err := <-errChan:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("failed to serve: %w", err)
		case <-cmd.Context().Done():
		}

		slog.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
