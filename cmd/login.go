package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify credentials against TheTVDB",
	Long:  `Log in with the configured pin and API key and report when the token will be renewed.`,
	RunE:  runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	fmt.Fprintf(cmd.OutOrStdout(), "Logging in to %s...\n", cfg.TVDB.BaseURL)

	if err := client.Login(ctx); err != nil {
		return err
	}

	token, found, err := client.CachedToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to read token cache: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Login successful!")
	if found {
		fmt.Fprintf(cmd.OutOrStdout(), "- Token reused until: %s\n", token.ExpiresAt.Format(time.RFC3339))
	}

	return nil
}
