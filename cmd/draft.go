package cmd

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mailquill/mailquill/internal/gmail"
)

// loadAttachments reads local files into attachments, guessing MIME types
// from the file extension.
func loadAttachments(paths []string) ([]gmail.Attachment, error) {
	attachments := make([]gmail.Attachment, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read attachment %s: %w", path, err)
		}
		mimeType := mime.TypeByExtension(filepath.Ext(path))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		attachments = append(attachments, gmail.Attachment{
			Filename: filepath.Base(path),
			MimeType: mimeType,
			Data:     data,
		})
	}
	return attachments, nil
}

func newDraftCmd() *cobra.Command {
	var (
		account string
		to      string
		cc      string
		bcc     string
		subject string
		body    string
		attach  []string
	)

	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Create a Gmail draft",
		Long: `Create a fresh Gmail draft. The account's signature is appended to
the body and local files can be attached with --attach.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := gmail.NewClientForAccount(ctx, account)
			if err != nil {
				return fmt.Errorf("failed to create Gmail client for account %s: %w", account, err)
			}

			attachments, err := loadAttachments(attach)
			if err != nil {
				return err
			}

			draftID, url, err := client.ComposeDraft(to, cc, bcc, subject, body, attachments)
			if err != nil {
				return err
			}

			fmt.Printf("Created draft %s\n%s\n", draftID, url)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use")
	cmd.Flags().StringVar(&to, "to", "", "Recipient address(es), comma separated")
	cmd.Flags().StringVar(&cc, "cc", "", "CC address(es), comma separated")
	cmd.Flags().StringVar(&bcc, "bcc", "", "BCC address(es), comma separated")
	cmd.Flags().StringVar(&subject, "subject", "", "Message subject")
	cmd.Flags().StringVar(&body, "body", "", "Message body (plain text)")
	cmd.Flags().StringSliceVar(&attach, "attach", nil, "File(s) to attach")

	return cmd
}

func newReplyCmd() *cobra.Command {
	var (
		account  string
		body     string
		replyAll bool
		cc       string
	)

	cmd := &cobra.Command{
		Use:   "reply <message-id>",
		Short: "Draft a reply to a Gmail message",
		Long: `Draft a reply to an existing message. The original is quoted below the
body and the draft stays on the original thread. Use --all to reply to
everyone on the original message.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := gmail.NewClientForAccount(ctx, account)
			if err != nil {
				return fmt.Errorf("failed to create Gmail client for account %s: %w", account, err)
			}

			draftID, url, err := client.CreateReplyDraft(args[0], body, gmail.ReplyDraftOptions{
				ReplyAll: replyAll,
				CustomCc: cc,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created reply draft %s\n%s\n", draftID, url)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use")
	cmd.Flags().StringVar(&body, "body", "", "Reply body (plain text)")
	cmd.Flags().BoolVar(&replyAll, "all", false, "Reply to all original recipients")
	cmd.Flags().StringVar(&cc, "cc", "", "CC address(es), overrides the auto-detected list")

	return cmd
}

func newForwardCmd() *cobra.Command {
	var (
		account string
		to      string
		body    string
		attach  []string
	)

	cmd := &cobra.Command{
		Use:   "forward <message-id>",
		Short: "Draft a forward of a Gmail message",
		Long: `Draft a forward of an existing message. The original message and its
attachments are carried into the draft, which starts a new thread.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := gmail.NewClientForAccount(ctx, account)
			if err != nil {
				return fmt.Errorf("failed to create Gmail client for account %s: %w", account, err)
			}

			attachments, err := loadAttachments(attach)
			if err != nil {
				return err
			}

			draftID, url, err := client.CreateForwardDraft(args[0], to, body, attachments)
			if err != nil {
				return err
			}

			fmt.Printf("Created forward draft %s\n%s\n", draftID, url)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use")
	cmd.Flags().StringVar(&to, "to", "", "Recipient address(es), comma separated")
	cmd.Flags().StringVar(&body, "body", "", "Introductory body above the forwarded message")
	cmd.Flags().StringSliceVar(&attach, "attach", nil, "Extra file(s) to attach")

	return cmd
}
