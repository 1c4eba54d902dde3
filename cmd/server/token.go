package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/sgisync/internal/server/auth"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a participant",
		RunE:  runToken,
	}

	cmd.Flags().String("user", "", "user id (required)")
	cmd.Flags().String("role", "", "role, e.g. admin or tecnico")
	cmd.Flags().Duration("ttl", 0, "token lifetime (overrides token_ttl)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, map[string]string{"token_ttl": "ttl"})
	if err != nil {
		return err
	}

	userID, _ := cmd.Flags().GetString("user")
	role, _ := cmd.Flags().GetString("role")

	tokens := auth.NewJWT(auth.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.TokenTTL,
	})
	token, expiresAt, err := tokens.IssueToken(userID, role)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.UTC().Format(time.RFC3339))
	return nil
}
