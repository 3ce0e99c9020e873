// Package gmail provides a client for interacting with the Gmail API and
// the MIME engine that powers message reading and draft composition.
//
// The package has two layers:
//
// The MIME engine is a set of pure functions over Gmail API payload trees:
//   - Payload traversal (ExtractBody, ExtractHTMLBody, ExtractAttachments,
//     ExtractInlineImages) classifies parts as text, HTML, attachments, or
//     inline images in a single depth-first walk.
//   - HTML/text conversion (StripHTML, TextToHTML) performs the lossy
//     transforms used for display and quoting.
//   - The composer (ComposeReply, ComposeForward) derives recipients,
//     subjects, quoted bodies, and threading headers for replies and
//     forwards.
//   - The assembler (Assemble, Raw) builds the nested multipart structure
//     (mixed > related > alternative) and serializes it for the API.
//
// The client layer wraps the Gmail Users service and the People service
// for message/thread retrieval, attachment download, the draft lifecycle,
// and batched label operations with rate-limit backoff.
//
// Authentication uses the unified Google OAuth token from the google
// package. For HTTP transports, OAuth is handled by the MCP client; for
// STDIO transport, tokens are loaded from the file system
// (~/.cache/mailquill/).
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := gmail.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// List threads matching a query
//	threads, err := client.ListThreads("in:inbox", 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create a reply draft with the quoted original
//	draftID, url, err := client.CreateReplyDraft(ctx, "msg-id", "Thanks!", gmail.ReplyDraftOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
package gmail
