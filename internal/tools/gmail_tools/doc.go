// Package gmail_tools provides MCP (Model Context Protocol) tools for interacting with Gmail.
//
// This package exposes Gmail functionality through MCP tools that can be called by
// AI agents or other MCP clients. It provides capabilities for:
//
// Reading:
//   - gmail_search_threads: Search threads matching a Gmail query
//   - gmail_get_thread: Get a thread with per-message summaries
//   - gmail_get_message: Get a single message summary with its decoded body
//   - gmail_list_attachments: List all attachments in a message
//   - gmail_get_attachment: Retrieve attachment content (base64 or text)
//   - gmail_get_message_bodies: Extract text or HTML bodies from messages
//
// Drafts:
//   - gmail_list_drafts / gmail_get_draft: Inspect existing drafts
//   - gmail_create_draft: Compose a fresh draft (signature appended)
//   - gmail_create_reply_draft: Reply with Gmail-style quoting and threading
//   - gmail_create_forward_draft: Forward with attachments carried over
//   - gmail_update_draft / gmail_send_draft / gmail_delete_draft
//
// Labels and mailbox state:
//   - gmail_modify_labels: Batch add/remove labels on messages
//   - gmail_archive_threads / gmail_unarchive_threads
//   - gmail_trash_messages, gmail_mark_read, gmail_mark_unread,
//     gmail_star_messages, gmail_unstar_messages
//
// Write tools (drafts, labels, trash) are only registered when the server
// runs with write access; in read-only mode only the reading tools appear.
//
// All tools require an authenticated Gmail client which is provided through the
// server context. The client handles OAuth2 authentication and token management.
//
// Security Considerations:
//   - Attachment size is limited to 25MB (MaxAttachmentSize)
//   - Filenames are sanitized to prevent path traversal attacks
//   - OAuth2 tokens are securely stored and refreshed automatically
package gmail_tools
