package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mailquill/mailquill/internal/gmail"
)

func newDraftsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Inspect and manage Gmail drafts",
	}

	cmd.AddCommand(newDraftsListCmd())
	cmd.AddCommand(newDraftsGetCmd())
	cmd.AddCommand(newDraftsUpdateCmd())
	cmd.AddCommand(newDraftsSendCmd())
	cmd.AddCommand(newDraftsDeleteCmd())

	return cmd
}

func newDraftsListCmd() *cobra.Command {
	var account string
	var max int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List drafts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newCLIClient(account)
			if err != nil {
				return err
			}

			drafts, err := client.ListDrafts(max)
			if err != nil {
				return err
			}

			summaries := make([]*gmail.DraftSummary, 0, len(drafts))
			for _, d := range drafts {
				summaries = append(summaries, gmail.SummarizeDraft(d))
			}
			return printJSON(summaries)
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use")
	cmd.Flags().Int64Var(&max, "max", 10, "Maximum number of drafts to return")

	return cmd
}

func newDraftsGetCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "get <draft-id>",
		Short: "Get a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newCLIClient(account)
			if err != nil {
				return err
			}

			draft, err := client.GetDraft(args[0])
			if err != nil {
				return err
			}
			return printJSON(gmail.SummarizeDraft(draft))
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use")

	return cmd
}

func newDraftsUpdateCmd() *cobra.Command {
	var account string
	var body string

	cmd := &cobra.Command{
		Use:   "update <draft-id>",
		Short: "Replace a draft's body",
		Long: `Replace a draft's body while keeping its recipients, subject, threading
headers and thread attachment.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newCLIClient(account)
			if err != nil {
				return err
			}

			draftID, url, err := client.UpdateDraft(args[0], body)
			if err != nil {
				return err
			}
			fmt.Printf("Updated draft %s\n%s\n", draftID, url)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use")
	cmd.Flags().StringVar(&body, "body", "", "New body (plain text)")

	return cmd
}

func newDraftsSendCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "send <draft-id>",
		Short: "Send a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newCLIClient(account)
			if err != nil {
				return err
			}

			messageID, err := client.SendDraft(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Sent draft as message %s\n", messageID)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use")

	return cmd
}

func newDraftsDeleteCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "delete <draft-id>",
		Short: "Delete a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newCLIClient(account)
			if err != nil {
				return err
			}

			if err := client.DeleteDraft(args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted draft %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use")

	return cmd
}
