// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/julekalender/cliparse"
	"github.com/danielhkuo/julekalender/content"
	"github.com/danielhkuo/julekalender/importer"
	"github.com/danielhkuo/julekalender/progress"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [flags] FILE",
		Short: "Import calendar content from a YAML, TOML or JSON file",
		Long: `Import calendar content from a YAML, TOML or JSON file.

The file is validated first and written in a single transaction.
  -watch             Re-import whenever the file changes
` + configHelp,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var watch bool
			cfg, rest, err := cliparse.Parse("import", args, func(fs *flag.FlagSet) {
				fs.BoolVar(&watch, "watch", false, "Re-import whenever the file changes")
			})
			if err != nil {
				return err
			}
			if len(rest) != 1 {
				return errors.New("import needs exactly one content file")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			conn, cleanup, err := openDatabase(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			im := importer.New(content.NewRepo(conn))
			summary, err := im.ImportFile(ctx, rest[0])
			if err != nil {
				if !watch {
					return err
				}
				slog.Error("import failed", "error", err)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", summary)
			}

			if !watch {
				return nil
			}
			return importer.Watch(ctx, rest[0], func() error {
				_, err := im.ImportFile(ctx, rest[0])
				return err
			})
		},
	}
}

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "sync [flags]",
		Short:              "Reconcile every user's status list with the calendar",
		Long:               "Reconcile every user's status list with the calendar.\n" + configHelp,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliparse.ParseFlags(args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			conn, cleanup, err := openDatabase(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			repo := content.NewRepo(conn)
			syncer := progress.NewSyncer(repo, repo, progress.Options{})

			res, err := syncAll(ctx, repo, syncer)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "synced %d users (%d failed)\n", res.Synced, res.Failed)
			if res.Failed > 0 {
				return fmt.Errorf("%d users could not be synced", res.Failed)
			}
			return nil
		},
	}
}

type syncResult struct {
	Synced int
	Failed int
}

// syncAll runs Sync for every stored user. A failing user is logged and
// skipped, except when the calendar itself cannot be read.
func syncAll(ctx context.Context, repo *content.Repo, syncer *progress.Syncer) (syncResult, error) {
	var res syncResult

	ids, err := repo.UserIDs(ctx)
	if err != nil {
		return res, err
	}

	for _, id := range ids {
		if _, err := syncer.Sync(ctx, id); err != nil {
			var fetchErr *progress.FetchError
			if errors.As(err, &fetchErr) || errors.Is(err, progress.ErrDuplicateItems) {
				return res, err
			}
			slog.Error("sync failed", "user_id", id, "error", err)
			res.Failed++
			continue
		}
		res.Synced++
	}

	slog.Info("batch sync done", "synced", res.Synced, "failed", res.Failed)
	return res, nil
}
