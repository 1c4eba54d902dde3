package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/sgisync/internal/client/cli"
)

func newEnqueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enqueue <kind> <action> [payload-json]",
		Short: "Add a local mutation to the offline queue",
		Example: `  sgisync-client enqueue agenda create '{"titulo":"Inspeção","dataInicio":"2024-06-01T08:00:00Z"}'
  sgisync-client enqueue agenda delete --target 3f0c...
  sgisync-client enqueue notification update '{"lida":true}' --target 9a1b... --direct`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := cli.EnqueueParams{
				Kind:   args[0],
				Action: args[1],
			}
			if len(args) == 3 {
				params.Payload = args[2]
			}
			params.TargetID, _ = cmd.Flags().GetString("target")
			params.Direct, _ = cmd.Flags().GetBool("direct")
			if cmd.Flags().Changed("base-version") {
				v, _ := cmd.Flags().GetInt64("base-version")
				params.BaseVersion = &v
			}

			return withCli(cmd, map[string]string{}, func(ctx context.Context, c *cli.Cli) error {
				return c.Enqueue(ctx, params)
			})
		},
	}

	cmd.Flags().String("target", "", "entity id for update and delete")
	cmd.Flags().Int64("base-version", 0, "syncVersion the change is based on")
	cmd.Flags().Bool("direct", false, "apply on the server now, queue only if it is unreachable")

	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show pending mutations and the sync watermark",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCli(cmd, map[string]string{}, func(ctx context.Context, c *cli.Cli) error {
				return c.Status(ctx)
			})
		},
	}
}

func newPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Send the offline queue once over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCli(cmd, map[string]string{}, func(ctx context.Context, c *cli.Cli) error {
				return c.Push(ctx)
			})
		},
	}
}

func newPullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Fetch changes since the stored watermark once over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			full, _ := cmd.Flags().GetBool("full")
			return withCli(cmd, map[string]string{}, func(ctx context.Context, c *cli.Cli) error {
				return c.Pull(ctx, full)
			})
		},
	}

	cmd.Flags().Bool("full", false, "ignore the stored watermark and fetch everything")

	return cmd
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login [token]",
		Short: "Store the bearer token (prompted when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) == 1 {
				token = args[0]
			}
			return withCli(cmd, map[string]string{}, func(ctx context.Context, c *cli.Cli) error {
				return c.Login(ctx, token)
			})
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored bearer token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCli(cmd, map[string]string{}, func(ctx context.Context, c *cli.Cli) error {
				if err := c.Logout(ctx); err != nil {
					return fmt.Errorf("logout failed: %w", err)
				}
				return nil
			})
		},
	}
}
