package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sakif/yatube/internal/config"
	"github.com/sakif/yatube/internal/repository/sqlite"
	"github.com/sakif/yatube/internal/storage"
)

// app holds what every subcommand needs. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	dbPath string
	cfg    *config.Config
	logger *slog.Logger
	db     *sqlite.DB
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "yatubectl",
		Short:         "Administer a Yatube installation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database path (default: DB_PATH)")

	root.AddCommand(newGroupCmd(a), newUserCmd(a), newPostCmd(a))
	return root
}

func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	a.cfg = cfg

	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.db = db
	return nil
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// images returns the store uploads were written to, so deleting a post
// also removes its picture.
func (a *app) images(ctx context.Context) (storage.ImageStore, error) {
	if a.cfg.S3Enabled() {
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:          a.cfg.AWSBucket,
			Region:          a.cfg.AWSRegion,
			AccessKeyID:     a.cfg.AWSAccessKeyID,
			SecretAccessKey: a.cfg.AWSSecretAccessKey,
		})
	}
	return storage.NewLocalStore(a.cfg.MediaDir, "/media/")
}
