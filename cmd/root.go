package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the mailquill application
var rootCmd = &cobra.Command{
	Use:   "mailquill",
	Short: "Compose Gmail replies, forwards and drafts from the command line",
	Long: `mailquill drafts Gmail replies and forwards the way the Gmail web UI
does: quoted originals, Re:/Fwd: subject prefixes, threading headers and
carried-over attachments.

It can run as:
  - A standalone CLI tool (default)
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mailquill version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newInboxCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newDraftCmd())
	rootCmd.AddCommand(newReplyCmd())
	rootCmd.AddCommand(newForwardCmd())
	rootCmd.AddCommand(newDraftsCmd())
	rootCmd.AddCommand(newAttachmentsCmd())
	rootCmd.AddCommand(newAttachmentDownloadCmd())
	for _, c := range newLabelCmds() {
		rootCmd.AddCommand(c)
	}
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
