// Package cmd implements the command-line interface for mailquill.
//
// This package provides the following commands:
//   - auth: Obtain and store an OAuth token for a Google account
//   - inbox, search, get: Thread search and inspection with JSON summaries
//   - draft: Create a fresh Gmail draft
//   - reply: Draft a reply to an existing message with the original quoted
//   - forward: Draft a forward with the original attachments carried over
//   - drafts list|get|update|send|delete: Draft lifecycle management
//   - attachments, attachment-download: Attachment listing and retrieval
//   - archive, unarchive, star, unstar, mark-read, mark-unread, trash:
//     Batched mailbox state changes
//   - serve: Start the MCP server to provide tools for AI assistants
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// Every Gmail command accepts --account to select one of multiple
// authenticated Google accounts.
package cmd
