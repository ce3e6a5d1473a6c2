package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mwhydro/hydromap/internal/config"
	"github.com/mwhydro/hydromap/internal/dashboard"
	"github.com/mwhydro/hydromap/internal/loader"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		handler, err := newDashboard(cfg)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newDashboard wires the dashboard to the configured layers. Every request
// reloads them.
func newDashboard(c *config.Config) (http.Handler, error) {
	builder, err := newBuilder(c)
	if err != nil {
		return nil, err
	}
	view, placesView, roadsView := mapViews(c)

	load := func(ctx context.Context) (*loader.Dataset, error) {
		return loadDataset(ctx, c, layers{places: true, roads: true})
	}

	srv := dashboard.New(load, builder, dashboard.Config{
		Options:        engineOptions(c),
		View:           view,
		PlacesView:     placesView,
		RoadsView:      roadsView,
		MajorTypes:     c.Roads.MajorTypes,
		AllowedOrigins: c.Server.AllowedOrigins,
	})
	return srv.Handler(), nil
}
