package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/iudanet/sgisync/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sync server",
		RunE:  runServe,
	}

	cmd.Flags().String("listen-addr", "", "listen address (overrides listen_addr)")
	cmd.Flags().String("db", "", "SQLite database path (overrides db_path)")
	cmd.Flags().Bool("strict-versions", false, "reject stale updates by baseVersion")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, map[string]string{
		"listen_addr":     "listen-addr",
		"db_path":         "db",
		"strict_versions": "strict-versions",
	})
	if err != nil {
		return err
	}

	logger, closer, err := buildLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	ctx := shutdownContext(context.Background(), logger)

	logger.Info("Starting sgisync server",
		"version", Version,
		"build_date", BuildDate,
		"git_commit", GitCommit,
	)

	srv, err := server.New(ctx, *cfg, logger, Version)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
