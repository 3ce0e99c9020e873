package gmail

import (
	"fmt"
	"html"
	"net/mail"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

// Attachment is resolved attachment content ready for assembly.
type Attachment struct {
	Filename string
	MimeType string
	Data     []byte
}

// InlineImage is resolved inline image content keyed by its Content-ID.
type InlineImage struct {
	ContentID string
	MimeType  string
	Data      []byte
}

// ComposedMessage is the outbound build target for the assembler. Built
// fresh per compose operation and consumed exactly once by Assemble.
type ComposedMessage struct {
	From     string
	To       string
	Cc       string
	Bcc      string
	Subject  string
	TextBody string
	HTMLBody string

	Attachments  []Attachment
	InlineImages []InlineImage

	// Threading headers. Empty for messages that start a new thread.
	InReplyTo  string
	References string

	// ThreadID keeps a draft attached to the original conversation.
	ThreadID string
}

// ReplyOptions controls recipient derivation when composing a reply.
type ReplyOptions struct {
	// Self is the user's own address, used to exclude the user from the
	// auto-populated CC list.
	Self string

	// From is the display form of the user's sending address.
	From string

	// Body is the new reply text, placed above the quoted original.
	Body string

	// ReplyAll populates CC with the original To+Cc recipients.
	ReplyAll bool

	// CustomCc overrides any auto-detected CC list.
	CustomCc string
}

// ForwardOptions controls composition of a forward.
type ForwardOptions struct {
	// From is the display form of the user's sending address.
	From string

	// To is the externally supplied recipient list, never derived.
	To string

	// Body is optional text prepended above the forwarded content.
	Body string
}

// ComposeReply builds a reply to the given message. The recipient is the
// Reply-To header if present; otherwise, when the original carries the SENT
// label (replying to one's own message), the original To; otherwise the
// original From. When no recipient can be derived this is a UsageError.
func ComposeReply(original *gmail.Message, opts ReplyOptions) (*ComposedMessage, error) {
	if original == nil || original.Payload == nil {
		return nil, usageErrorf("cannot reply: original message has no payload")
	}

	subject := HeaderValue(original, "Subject")
	date := HeaderValue(original, "Date")
	fromAddr := HeaderValue(original, "From")
	replyTo := HeaderValue(original, "Reply-To")
	origTo := HeaderValue(original, "To")
	origCc := HeaderValue(original, "Cc")
	messageID := HeaderValue(original, "Message-ID")
	origRefs := HeaderValue(original, "References")

	originalBody := ExtractBody(original.Payload)
	originalHTML := ExtractHTMLBody(original.Payload)

	// The SENT label detects own messages even with send-as aliases.
	isOwnMessage := hasLabel(original.LabelIds, "SENT")
	fromEmail := bareAddress(fromAddr)

	var toAddr, ccAddr string
	switch {
	case replyTo != "":
		toAddr = replyTo
		// Exclude the Reply-To address from CC to avoid duplicates.
		ccAddr = filterAddresses(joinAddressLists(origTo, origCc), opts.Self, bareAddress(replyTo))
	case isOwnMessage:
		toAddr = origTo
		if toAddr == "" {
			return nil, usageErrorf("cannot reply to own message: original has no To header")
		}
		ccAddr = filterAddresses(origCc, opts.Self)
	default:
		toAddr = fromAddr
		ccAddr = filterAddresses(joinAddressLists(origTo, origCc), opts.Self, fromEmail)
	}

	if toAddr == "" {
		return nil, usageErrorf("cannot determine reply recipient: no From/To header")
	}

	if !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}

	var cc string
	switch {
	case opts.CustomCc != "":
		cc = opts.CustomCc
	case opts.ReplyAll:
		cc = ccAddr
	}

	msg := &ComposedMessage{
		From:     opts.From,
		To:       toAddr,
		Cc:       cc,
		Subject:  subject,
		TextBody: buildQuotedReply(opts.Body, originalBody, fromAddr, date),
		HTMLBody: buildHTMLQuotedReply(opts.Body, originalHTML, originalBody, fromAddr, date),
		ThreadID: original.ThreadId,
	}

	if messageID != "" {
		msg.InReplyTo = messageID
		if origRefs != "" {
			msg.References = origRefs + " " + messageID
		} else {
			msg.References = messageID
		}
	}

	return msg, nil
}

// ComposeForward builds a forward of the given message. Forwards start a new
// thread: no In-Reply-To or References headers, no thread ID. The returned
// refs are the original attachments to carry over, excluding parts already
// referenced as inline images; the caller resolves them to bytes before
// assembly.
func ComposeForward(original *gmail.Message, opts ForwardOptions) (*ComposedMessage, []AttachmentRef, error) {
	if original == nil || original.Payload == nil {
		return nil, nil, usageErrorf("cannot forward: original message has no payload")
	}
	if opts.To == "" {
		return nil, nil, usageErrorf("cannot forward: no recipient specified")
	}

	subject := HeaderValue(original, "Subject")
	fromAddr := HeaderValue(original, "From")
	date := HeaderValue(original, "Date")
	originalBody := ExtractBody(original.Payload)

	lower := strings.ToLower(subject)
	if !strings.HasPrefix(lower, "fwd:") && !strings.HasPrefix(lower, "fw:") {
		subject = "Fwd: " + subject
	}

	var b strings.Builder
	if opts.Body != "" {
		b.WriteString(opts.Body)
		b.WriteString("\n\n")
	}
	b.WriteString("---------- Forwarded message ----------\n")
	fmt.Fprintf(&b, "From: %s\n", fromAddr)
	fmt.Fprintf(&b, "Date: %s\n", date)
	fmt.Fprintf(&b, "Subject: %s\n\n", HeaderValue(original, "Subject"))
	b.WriteString(originalBody)

	msg := &ComposedMessage{
		From:     opts.From,
		To:       opts.To,
		Subject:  subject,
		TextBody: b.String(),
	}

	// Carry over original attachments, minus those embedded as inline images.
	inline := make(map[string]bool)
	for _, img := range ExtractInlineImages(original.Payload) {
		inline[img.AttachmentID] = true
	}
	var carryover []AttachmentRef
	for _, ref := range ExtractAttachments(original.Payload) {
		if !inline[ref.AttachmentID] {
			carryover = append(carryover, ref)
		}
	}

	return msg, carryover, nil
}

// buildQuotedReply builds a plain text reply body with the quoted original:
//
//	[reply]
//
//	On Mon, 22 Dec 2025 at 02:50, Sender Name <sender@example.com> wrote:
//
//	> quoted line 1
//	> quoted line 2
func buildQuotedReply(body, originalBody, from, date string) string {
	lines := strings.Split(originalBody, "\n")
	quoted := make([]string, len(lines))
	for i, line := range lines {
		quoted[i] = "> " + strings.TrimSuffix(line, "\r")
	}
	return fmt.Sprintf("%s\n\nOn %s, %s wrote:\n\n%s\n",
		body, formatQuoteDate(date), from, strings.Join(quoted, "\n"))
}

// buildHTMLQuotedReply builds the HTML reply body with a gmail_quote
// blockquote. When the original had an HTML body it is embedded verbatim;
// rendering downstream is trusted to sanitize. Otherwise the original text
// is converted via TextToHTML.
func buildHTMLQuotedReply(body, originalHTML, originalText, from, date string) string {
	replyHTML := TextToHTML(body)

	quoted := originalHTML
	if quoted == "" {
		quoted = TextToHTML(originalText)
	}

	// The From header may contain < > characters.
	safeFrom := html.EscapeString(from)
	safeDate := html.EscapeString(formatQuoteDate(date))

	return fmt.Sprintf(`<div dir="ltr">%s</div>
<br>
<div class="gmail_quote gmail_quote_container">
<div dir="ltr" class="gmail_attr">On %s, %s wrote:<br></div>
<blockquote class="gmail_quote" style="margin:0px 0px 0px 0.8ex;border-left:1px solid rgb(204,204,204);padding-left:1ex">
%s
</blockquote>
</div>`, replyHTML, safeDate, safeFrom, quoted)
}

// formatQuoteDate reformats an RFC 5322 date header to the attribution
// format used in quoted replies, e.g. "Mon, 22 Dec 2025 at 02:50".
// A malformed date header is kept verbatim.
func formatQuoteDate(date string) string {
	t, err := mail.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("Mon, 02 Jan 2006 at 15:04")
}

// parseAddresses parses a comma-separated address list, tolerating malformed
// input by falling back to naive comma splitting so that reading a bad
// header never fails the compose.
func parseAddresses(list string) []*mail.Address {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	addrs, err := mail.ParseAddressList(list)
	if err == nil {
		return addrs
	}
	var out []*mail.Address
	for _, tok := range strings.Split(list, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if a, err := mail.ParseAddress(tok); err == nil {
			out = append(out, a)
		} else {
			out = append(out, &mail.Address{Address: tok})
		}
	}
	return out
}

// bareAddress extracts the address part from a display form like
// "Name <addr@example.com>", or returns the input trimmed when unparsable.
func bareAddress(s string) string {
	a, err := mail.ParseAddress(s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return a.Address
}

// filterAddresses removes the excluded addresses (case-insensitive) from a
// comma-separated address list and deduplicates by address, preserving each
// entry's display name and original order.
func filterAddresses(list string, exclude ...string) string {
	excluded := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		if e != "" {
			excluded[strings.ToLower(e)] = true
		}
	}

	seen := make(map[string]bool)
	var kept []string
	for _, a := range parseAddresses(list) {
		key := strings.ToLower(a.Address)
		if a.Address == "" || excluded[key] || seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, formatAddress(a))
	}
	return strings.Join(kept, ", ")
}

// formatAddress renders an address, keeping the bare form when there is no
// display name.
func formatAddress(a *mail.Address) string {
	if a.Name == "" {
		return a.Address
	}
	return a.String()
}

// joinAddressLists joins non-empty comma-separated address lists.
func joinAddressLists(lists ...string) string {
	var nonEmpty []string
	for _, l := range lists {
		if strings.TrimSpace(l) != "" {
			nonEmpty = append(nonEmpty, l)
		}
	}
	return strings.Join(nonEmpty, ", ")
}

// hasLabel reports whether a label ID is present in a message's label set.
func hasLabel(labels []string, id string) bool {
	for _, l := range labels {
		if l == id {
			return true
		}
	}
	return false
}
