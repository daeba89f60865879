// Package serve implements the command that runs the HTTP server.
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/habitwheel/internal/conf"
	"github.com/tphakala/habitwheel/internal/datastore"
	"github.com/tphakala/habitwheel/internal/httpcontroller"
	"github.com/tphakala/habitwheel/internal/logging"
	"github.com/tphakala/habitwheel/internal/observability"
)

// Command creates the serve command which runs the web server until
// interrupted.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the habit tracking web server",
		Long:  "Open the database, start the HTTP server and serve the habit tracking API until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the serve command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.WebServer.Host, "host", viper.GetString("webserver.host"), "Listen address for the web server")
	cmd.Flags().StringVar(&settings.WebServer.Port, "port", viper.GetString("webserver.port"), "Listen port for the web server")
	cmd.Flags().StringVar(&settings.Output.SQLite.Path, "dbpath", viper.GetString("output.sqlite.path"), "Path to the SQLite database file")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}

// runServer wires the datastore, metrics and HTTP server together and blocks
// until SIGINT or SIGTERM.
func runServer(settings *conf.Settings) error {
	logger := logging.ForService("main")

	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	server, err := httpcontroller.New(settings, store, metrics)
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting habitwheel",
		"version", settings.Version,
		"host", settings.WebServer.Host,
		"port", settings.WebServer.Port)

	return server.Start(ctx)
}
