package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mailquill/mailquill/internal/gmail"
)

func newAttachmentsCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "attachments <message-id>",
		Short: "List attachments of a Gmail message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newCLIClient(account)
			if err != nil {
				return err
			}

			attachments, err := client.ListAttachments(args[0])
			if err != nil {
				return err
			}
			return printJSON(attachments)
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use")

	return cmd
}

func newAttachmentDownloadCmd() *cobra.Command {
	var account string
	var output string

	cmd := &cobra.Command{
		Use:   "attachment-download <message-id> <attachment-id>",
		Short: "Download an attachment to a local file",
		Long: `Download an attachment's content. The output filename defaults to the
attachment's own (sanitized) filename in the current directory.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			messageID, attachmentID := args[0], args[1]

			client, err := newCLIClient(account)
			if err != nil {
				return err
			}

			data, err := client.GetAttachment(messageID, attachmentID)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				attachments, err := client.ListAttachments(messageID)
				if err != nil {
					return err
				}
				for _, att := range attachments {
					if att.AttachmentID == attachmentID {
						path = gmail.SanitizeFilename(att.Filename)
						break
					}
				}
				if path == "" {
					path = "attachment.bin"
				}
			}

			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return err
				}
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			fmt.Printf("Wrote %d bytes to %s\n", len(data), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path")

	return cmd
}
