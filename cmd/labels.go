package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mailquill/mailquill/internal/gmail"
)

// newBatchLabelCmd builds a command applying a fixed label operation to the
// message IDs given as arguments.
func newBatchLabelCmd(use, short string, op func(ctx context.Context, c *gmail.Client, ids []string) (int, error)) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   use + " <message-id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newCLIClient(account)
			if err != nil {
				return err
			}

			processed, err := op(context.Background(), client, args)
			if err != nil {
				return fmt.Errorf("processed %d message(s) before error: %w", processed, err)
			}
			fmt.Printf("Processed %d message(s)\n", processed)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use")

	return cmd
}

func newLabelCmds() []*cobra.Command {
	return []*cobra.Command{
		newBatchLabelCmd("archive", "Remove messages from the inbox",
			func(ctx context.Context, c *gmail.Client, ids []string) (int, error) {
				return c.ArchiveMessages(ctx, ids)
			}),
		newBatchLabelCmd("unarchive", "Move messages back to the inbox",
			func(ctx context.Context, c *gmail.Client, ids []string) (int, error) {
				return c.UnarchiveMessages(ctx, ids)
			}),
		newBatchLabelCmd("star", "Star messages",
			func(ctx context.Context, c *gmail.Client, ids []string) (int, error) {
				return c.StarMessages(ctx, ids)
			}),
		newBatchLabelCmd("unstar", "Remove the star from messages",
			func(ctx context.Context, c *gmail.Client, ids []string) (int, error) {
				return c.UnstarMessages(ctx, ids)
			}),
		newBatchLabelCmd("mark-read", "Mark messages as read",
			func(ctx context.Context, c *gmail.Client, ids []string) (int, error) {
				return c.MarkMessagesRead(ctx, ids)
			}),
		newBatchLabelCmd("mark-unread", "Mark messages as unread",
			func(ctx context.Context, c *gmail.Client, ids []string) (int, error) {
				return c.MarkMessagesUnread(ctx, ids)
			}),
		newBatchLabelCmd("trash", "Move messages to the trash",
			func(ctx context.Context, c *gmail.Client, ids []string) (int, error) {
				return c.TrashMessages(ctx, ids)
			}),
	}
}
