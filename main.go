// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/julekalender/cliparse"
	"github.com/danielhkuo/julekalender/db"
	"github.com/danielhkuo/julekalender/live"
	"github.com/danielhkuo/julekalender/logging"
	"github.com/danielhkuo/julekalender/middleware"
	"github.com/danielhkuo/julekalender/router"
)

const configHelp = `
Configuration flags (all commands):
  -p PORT            Server port (PORT, default 3318)
  -d URL             Database URL (DATABASE_URL)
  -t TYPE            sqlite or postgres (DATABASE_TYPE, default sqlite)
  -read-only BOOL    Disable task toggles (READ_ONLY)
  -tz ZONE           Calendar timezone (CALENDAR_TIMEZONE, default Europe/Oslo)
  -log-file PATH     Rotating log file (LOG_FILE)
  -log-format FMT    text or json (LOG_FORMAT)
  -env-file PATH     Optional dotenv file (default .env)
`

func main() {
	root := &cobra.Command{
		Use:           "julekalender",
		Short:         "Christmas calendar API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newImportCmd(), newSyncCmd())

	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "serve [flags]",
		Short:              "Run the HTTP API",
		Long:               "Run the HTTP API.\n" + configHelp,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliparse.ParseFlags(args)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

// openDatabase sets up logging, connects and makes sure the schema exists.
func openDatabase(ctx context.Context, cfg cliparse.Config) (*sql.DB, func(), error) {
	logCloser := logging.Setup(cfg)

	conn, err := db.Open(ctx, cfg)
	if err != nil {
		logCloser.Close()
		return nil, nil, err
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		logCloser.Close()
		return nil, nil, err
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	return conn, func() {
		conn.Close()
		logCloser.Close()
	}, nil
}

func serve(cfg cliparse.Config) error {
	conn, cleanup, err := openDatabase(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	hub := live.NewHub()
	mux := router.NewRouter(conn, cfg, hub)

	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		hub.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	slog.Info("Listening", "port", cfg.Port, "read_only", cfg.ReadOnly, "timezone", cfg.Timezone)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
		return err
	}
	slog.Info("Server closed")
	return nil
}
