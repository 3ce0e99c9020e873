package gmail

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
)

const (
	// MaxAttachmentSize defines the maximum attachment size in bytes (25MB)
	MaxAttachmentSize = 25 * 1024 * 1024
)

// ListAttachments extracts all attachment references from a message
func (c *Client) ListAttachments(messageID string) ([]AttachmentRef, error) {
	msg, err := c.GetMessage(messageID)
	if err != nil {
		return nil, err
	}
	return ExtractAttachments(msg.Payload), nil
}

// GetAttachment retrieves the content of an attachment (returns []byte)
func (c *Client) GetAttachment(messageID, attachmentID string) ([]byte, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}
	if attachmentID == "" {
		return nil, fmt.Errorf("attachmentID is required")
	}

	attachment, err := c.svc.Messages.Attachments.Get("me", messageID, attachmentID).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment %s: %w", attachmentID, err)
	}

	// Check size limit
	if attachment.Size > MaxAttachmentSize {
		return nil, fmt.Errorf("attachment size %d exceeds maximum size %d", attachment.Size, MaxAttachmentSize)
	}

	// Decode base64url-encoded data (Gmail API uses RFC 4648 base64url encoding)
	data, err := base64.URLEncoding.DecodeString(attachment.Data)
	if err != nil {
		// Try with standard base64 if URLEncoding fails
		data, err = base64.StdEncoding.DecodeString(attachment.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode attachment data: %w", err)
		}
	}

	return data, nil
}

// GetAttachmentAsString retrieves attachment content as string (for text files)
func (c *Client) GetAttachmentAsString(messageID, attachmentID string) (string, error) {
	data, err := c.GetAttachment(messageID, attachmentID)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetMessageBody extracts the text or HTML body from a message.
// Format "text" falls back to stripped HTML when no plain text exists.
func (c *Client) GetMessageBody(messageID string, format string) (string, error) {
	if format == "" {
		format = "text"
	}

	msg, err := c.GetMessage(messageID)
	if err != nil {
		return "", err
	}

	switch format {
	case "text":
		return ExtractBody(msg.Payload), nil
	case "html":
		return ExtractHTMLBody(msg.Payload), nil
	default:
		return "", fmt.Errorf("invalid format %s, must be 'text' or 'html'", format)
	}
}

// resolveAttachments fetches attachment content for the given refs. A
// failed fetch drops that attachment with a warning rather than failing
// the whole compose.
func (c *Client) resolveAttachments(messageID string, refs []AttachmentRef) []Attachment {
	var resolved []Attachment
	for _, ref := range refs {
		data, err := c.GetAttachment(messageID, ref.AttachmentID)
		if err != nil {
			slog.Warn("skipping attachment that could not be fetched",
				"message_id", messageID,
				"filename", ref.Filename,
				"error", err)
			continue
		}
		resolved = append(resolved, Attachment{
			Filename: ref.Filename,
			MimeType: ref.MimeType,
			Data:     data,
		})
	}
	return resolved
}

// inlineImageMimeTypes lists the image types carried over as inline parts
// when composing. Other cid-referenced parts (calendar invites, signatures)
// are not images and must not end up in multipart/related.
var inlineImageMimeTypes = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/webp",
	"image/bmp",
	"image/tiff",
	"image/svg+xml",
}

// resolveInlineImages fetches inline image content for the given refs.
// A failed fetch drops that image with a warning; assembly proceeds.
func (c *Client) resolveInlineImages(messageID string, refs []InlineImageRef) []InlineImage {
	var resolved []InlineImage
	for _, ref := range refs {
		if !ValidateMimeType(ref.MimeType, inlineImageMimeTypes) {
			slog.Warn("skipping non-image inline part",
				"message_id", messageID,
				"content_id", ref.ContentID,
				"mime_type", ref.MimeType)
			continue
		}
		data, err := c.GetAttachment(messageID, ref.AttachmentID)
		if err != nil {
			slog.Warn("skipping inline image that could not be fetched",
				"message_id", messageID,
				"content_id", ref.ContentID,
				"error", err)
			continue
		}
		resolved = append(resolved, InlineImage{
			ContentID: ref.ContentID,
			MimeType:  ref.MimeType,
			Data:      data,
		})
	}
	return resolved
}

// SanitizeFilename sanitizes a filename to prevent path traversal attacks
func SanitizeFilename(filename string) string {
	// Remove path separators and other potentially dangerous characters
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.ReplaceAll(filename, "..", "_")
	return filename
}

// ValidateMimeType checks if a MIME type is in the allowed list
func ValidateMimeType(mimeType string, allowedTypes []string) bool {
	if len(allowedTypes) == 0 {
		return true // No restrictions if list is empty
	}

	for _, allowed := range allowedTypes {
		if mimeType == allowed {
			return true
		}
	}
	return false
}
