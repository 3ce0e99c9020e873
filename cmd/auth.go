package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mailquill/mailquill/internal/google"
)

func newAuthCmd() *cobra.Command {
	var account string
	var authCode string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate a Google account",
		Long: `Obtain and store an OAuth token for a Google account.

Without --code, prints the authorization URL and reads the resulting
authorization code from stdin. With --code, saves the token directly.

Tokens are stored per account, so multiple Google accounts can be used
side by side (e.g. --account work, --account personal).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Pick up a token written by older releases before checking state.
			if err := google.MigrateDefaultToken(); err != nil {
				return fmt.Errorf("failed to migrate legacy token: %w", err)
			}

			ctx := context.Background()

			if authCode != "" {
				if err := google.SaveTokenForAccount(ctx, account, authCode); err != nil {
					return fmt.Errorf("failed to save token: %w", err)
				}
				fmt.Printf("Token saved for account %q\n", account)
				return nil
			}

			if google.HasTokenForAccount(account) {
				fmt.Printf("Account %q already has a token. Continuing will replace it.\n", account)
			}

			url, err := google.GetAuthURLForAccount(account)
			if err != nil {
				return err
			}

			fmt.Println("Open the following URL in your browser and authorize access:")
			fmt.Println()
			fmt.Println("  " + url)
			fmt.Println()
			fmt.Print("Enter the authorization code: ")

			scanner := bufio.NewScanner(os.Stdin)
			if !scanner.Scan() {
				return fmt.Errorf("no authorization code entered")
			}
			code := strings.TrimSpace(scanner.Text())
			if code == "" {
				return fmt.Errorf("no authorization code entered")
			}

			if err := google.SaveTokenForAccount(ctx, account, code); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Printf("Token saved for account %q\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to authenticate")
	cmd.Flags().StringVar(&authCode, "code", "", "Authorization code (skips the interactive prompt)")

	return cmd
}
