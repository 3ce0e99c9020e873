package gmail

import (
	"fmt"

	gmail "google.golang.org/api/gmail/v1"
)

// DraftURL returns the Gmail web URL for a draft, keyed by the draft's
// message ID (not the draft ID).
func DraftURL(messageID string) string {
	return "https://mail.google.com/mail/u/0/#drafts/" + messageID
}

// CreateDraft assembles a composed message and creates a Gmail draft from
// it. When the composed message carries a thread ID the draft stays
// attached to that conversation. Returns the draft ID and its web URL.
func (c *Client) CreateDraft(msg *ComposedMessage) (string, string, error) {
	entity, err := Assemble(msg)
	if err != nil {
		return "", "", err
	}
	raw, err := Raw(entity)
	if err != nil {
		return "", "", err
	}

	draft := &gmail.Draft{
		Message: &gmail.Message{
			Raw:      raw,
			ThreadId: msg.ThreadID,
		},
	}

	created, err := c.svc.Drafts.Create("me", draft).Do()
	if err != nil {
		return "", "", fmt.Errorf("failed to create draft: %w", err)
	}

	var url string
	if created.Message != nil {
		url = DraftURL(created.Message.Id)
	}
	return created.Id, url, nil
}

// ComposeDraft builds and creates a plain draft from user-specified fields.
// The user's signature is appended to the body before assembly.
func (c *Client) ComposeDraft(to, cc, bcc, subject, body string, attachments []Attachment) (string, string, error) {
	if to == "" {
		return "", "", usageErrorf("cannot create draft: no recipient specified")
	}

	from, err := c.FromAddress()
	if err != nil {
		return "", "", err
	}

	msg := &ComposedMessage{
		From:        from,
		To:          to,
		Cc:          cc,
		Bcc:         bcc,
		Subject:     subject,
		TextBody:    c.appendSignature(body, false),
		Attachments: attachments,
	}
	return c.CreateDraft(msg)
}

// ReplyDraftOptions controls CreateReplyDraft behavior.
type ReplyDraftOptions struct {
	// ReplyAll auto-populates CC with the original recipients.
	ReplyAll bool

	// CustomCc overrides any auto-detected CC list.
	CustomCc string
}

// CreateReplyDraft fetches the original message, composes a reply with the
// quoted original in both plain and HTML form, and creates a draft on the
// original thread. Returns the draft ID and its web URL.
func (c *Client) CreateReplyDraft(messageID, body string, opts ReplyDraftOptions) (string, string, error) {
	original, err := c.GetMessage(messageID)
	if err != nil {
		return "", "", err
	}

	from, err := c.FromAddress()
	if err != nil {
		return "", "", err
	}

	msg, err := ComposeReply(original, ReplyOptions{
		Self:     bareAddress(from),
		From:     from,
		Body:     body,
		ReplyAll: opts.ReplyAll,
		CustomCc: opts.CustomCc,
	})
	if err != nil {
		return "", "", err
	}

	// The quoted original HTML may reference inline images by Content-ID.
	// Carry them over so cid: references still resolve in the draft.
	if refs := ExtractInlineImages(original.Payload); len(refs) > 0 {
		msg.InlineImages = c.resolveInlineImages(messageID, refs)
	}

	return c.CreateDraft(msg)
}

// CreateForwardDraft fetches the original message, composes a forward, and
// creates a draft. Original attachments are carried over (inline images
// excluded) along with any extra attachments supplied by the caller.
// Forwards start a new thread.
func (c *Client) CreateForwardDraft(messageID, to, body string, extra []Attachment) (string, string, error) {
	original, err := c.GetMessage(messageID)
	if err != nil {
		return "", "", err
	}

	from, err := c.FromAddress()
	if err != nil {
		return "", "", err
	}

	msg, carryover, err := ComposeForward(original, ForwardOptions{
		From: from,
		To:   to,
		Body: body,
	})
	if err != nil {
		return "", "", err
	}

	msg.Attachments = append(c.resolveAttachments(messageID, carryover), extra...)

	return c.CreateDraft(msg)
}

// GetDraft retrieves a full draft
func (c *Client) GetDraft(draftID string) (*gmail.Draft, error) {
	draft, err := c.svc.Drafts.Get("me", draftID).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get draft %s: %w", draftID, err)
	}
	return draft, nil
}

// ListDrafts lists up to maxResults drafts, each fetched in full so
// summaries can show recipients and subjects
func (c *Client) ListDrafts(maxResults int64) ([]*gmail.Draft, error) {
	res, err := c.svc.Drafts.List("me").MaxResults(maxResults).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	drafts := make([]*gmail.Draft, 0, len(res.Drafts))
	for _, d := range res.Drafts {
		full, err := c.GetDraft(d.Id)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, full)
	}
	return drafts, nil
}

// UpdateDraft replaces a draft's body while preserving its recipients,
// subject, threading headers, and thread attachment.
func (c *Client) UpdateDraft(draftID, body string) (string, string, error) {
	existing, err := c.GetDraft(draftID)
	if err != nil {
		return "", "", err
	}
	if existing.Message == nil {
		return "", "", fmt.Errorf("draft %s has no message", draftID)
	}

	from, err := c.FromAddress()
	if err != nil {
		return "", "", err
	}

	old := existing.Message
	msg := &ComposedMessage{
		From:       from,
		To:         HeaderValue(old, "To"),
		Cc:         HeaderValue(old, "Cc"),
		Bcc:        HeaderValue(old, "Bcc"),
		Subject:    HeaderValue(old, "Subject"),
		TextBody:   body,
		InReplyTo:  HeaderValue(old, "In-Reply-To"),
		References: HeaderValue(old, "References"),
		ThreadID:   old.ThreadId,
	}

	entity, err := Assemble(msg)
	if err != nil {
		return "", "", err
	}
	raw, err := Raw(entity)
	if err != nil {
		return "", "", err
	}

	updated, err := c.svc.Drafts.Update("me", draftID, &gmail.Draft{
		Message: &gmail.Message{
			Raw:      raw,
			ThreadId: old.ThreadId,
		},
	}).Do()
	if err != nil {
		return "", "", fmt.Errorf("failed to update draft %s: %w", draftID, err)
	}

	var url string
	if updated.Message != nil {
		url = DraftURL(updated.Message.Id)
	}
	return updated.Id, url, nil
}

// SendDraft sends an existing draft, returning the sent message ID
func (c *Client) SendDraft(draftID string) (string, error) {
	sent, err := c.svc.Drafts.Send("me", &gmail.Draft{Id: draftID}).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send draft %s: %w", draftID, err)
	}
	return sent.Id, nil
}

// DeleteDraft permanently deletes a draft
func (c *Client) DeleteDraft(draftID string) error {
	if err := c.svc.Drafts.Delete("me", draftID).Do(); err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", draftID, err)
	}
	return nil
}
