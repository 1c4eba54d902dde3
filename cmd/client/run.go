package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/iudanet/sgisync/internal/client/cli"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Stay connected: drain the queue, receive changes, watch the spool directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCli(cmd, map[string]string{
				"spool_dir":      "spool",
				"check_interval": "check-interval",
				"debounce":       "debounce",
			}, func(ctx context.Context, c *cli.Cli) error {
				return c.RunDaemon(ctx)
			})
		},
	}

	cmd.Flags().String("spool", "", "spool directory for mutation files (overrides spool_dir)")
	cmd.Flags().Duration("check-interval", 0, "health check interval (overrides check_interval)")
	cmd.Flags().Duration("debounce", 0, "ignore repeated online signals within this window")

	return cmd
}
