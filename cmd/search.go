package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mailquill/mailquill/internal/gmail"
)

// printJSON writes a value to stdout as indented JSON.
func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func newCLIClient(account string) (*gmail.Client, error) {
	client, err := gmail.NewClientForAccount(context.Background(), account)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail client for account %s: %w", account, err)
	}
	return client, nil
}

func searchThreads(account, query string, max int64) error {
	client, err := newCLIClient(account)
	if err != nil {
		return err
	}

	threads, err := client.ListThreads(query, max)
	if err != nil {
		return err
	}

	summaries := make([]*gmail.ThreadSummary, 0, len(threads))
	for _, t := range threads {
		full, err := client.GetThread(t.Id)
		if err != nil {
			return err
		}
		summaries = append(summaries, gmail.SummarizeThread(full))
	}

	return printJSON(summaries)
}

func newSearchCmd() *cobra.Command {
	var account string
	var max int64

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search Gmail threads",
		Long:  `Search Gmail threads with a Gmail query (e.g. 'from:user@example.com') and print compact thread summaries as JSON.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return searchThreads(account, args[0], max)
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use")
	cmd.Flags().Int64Var(&max, "max", 10, "Maximum number of threads to return")

	return cmd
}

func newInboxCmd() *cobra.Command {
	var account string
	var max int64

	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "List inbox threads",
		Long:  `List threads currently in the inbox as compact JSON summaries. Shorthand for 'search in:inbox'.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return searchThreads(account, "in:inbox", max)
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use")
	cmd.Flags().Int64Var(&max, "max", 10, "Maximum number of threads to return")

	return cmd
}

func newGetCmd() *cobra.Command {
	var account string
	var bodies bool

	cmd := &cobra.Command{
		Use:   "get <thread-id>",
		Short: "Get a Gmail thread",
		Long:  `Get a thread and print its summary together with per-message summaries as JSON. Use --bodies to include decoded message bodies.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newCLIClient(account)
			if err != nil {
				return err
			}

			thread, err := client.GetThread(args[0])
			if err != nil {
				return err
			}

			messages := make([]*gmail.MessageSummary, 0, len(thread.Messages))
			for _, msg := range thread.Messages {
				messages = append(messages, gmail.SummarizeMessage(msg, bodies))
			}

			return printJSON(struct {
				Thread   *gmail.ThreadSummary    `json:"thread"`
				Messages []*gmail.MessageSummary `json:"messages"`
			}{gmail.SummarizeThread(thread), messages})
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use")
	cmd.Flags().BoolVar(&bodies, "bodies", false, "Include decoded message bodies")

	return cmd
}
