package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/trackscope/internal/handler"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// NewHTTPServer wires the API router for the app's services.
func NewHTTPServer(app *App, addr string) *http.Server {
	router := handler.NewRouter(handler.Services{
		Tracks:   app.Tracks,
		Scope:    app.Scope,
		Progress: app.Progress,
		Signals:  app.Signals,
	}, app.Logger, app.Config.Origins())

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func newServeCmd(app *App) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = app.Config.Port
			}
			srv := NewHTTPServer(app, ":"+port)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				app.Logger.Info("server starting", "environment", app.Config.Environment, "port", port)
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("serving: %w", err)
			case <-ctx.Done():
			}

			app.Logger.Info("server shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port (default $PORT)")

	return cmd
}
