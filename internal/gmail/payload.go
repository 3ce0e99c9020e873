package gmail

import (
	"encoding/base64"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

// AttachmentRef describes a message part carrying a downloadable attachment.
// The content itself is fetched separately via GetAttachment.
type AttachmentRef struct {
	Filename     string `json:"filename"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	AttachmentID string `json:"attachmentId"`
}

// InlineImageRef describes a message part referenced from an HTML body via a
// cid: URL. Distinguished from a regular attachment by its Content-ID header.
type InlineImageRef struct {
	ContentID    string `json:"contentId"`
	MimeType     string `json:"mimeType"`
	AttachmentID string `json:"attachmentId"`
}

// decodePartData decodes the base64url body data of a message part.
// The Gmail API uses RFC 4648 base64url encoding, but some messages in the
// wild carry standard base64, so both are attempted. Invalid UTF-8 bytes are
// replaced rather than reported; body decoding never fails the pipeline.
func decodePartData(data string) string {
	if data == "" {
		return ""
	}
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return strings.ToValidUTF8(string(decoded), "�")
}

// PartHeader returns the value of a part-level header, looked up
// case-insensitively. Returns "" when the header is absent.
func PartHeader(part *gmail.MessagePart, name string) string {
	if part == nil {
		return ""
	}
	for _, h := range part.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// HeaderValue extracts a top-level header value from a Gmail message,
// looked up case-insensitively.
func HeaderValue(m *gmail.Message, header string) string {
	if m == nil {
		return ""
	}
	return PartHeader(m.Payload, header)
}

// ExtractBody extracts the display text from a message payload.
//
// It prefers a decoded text/plain part (legacy single-part messages with an
// empty MIME type count as plain text), then falls back to a text/html part
// run through StripHTML. Returns "" when neither exists. The result is
// always plain text, never markup.
func ExtractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	// Single-part message: the payload carries the body directly.
	if payload.Body != nil && payload.Body.Data != "" && len(payload.Parts) == 0 {
		data := decodePartData(payload.Body.Data)
		if payload.MimeType == "text/html" {
			return StripHTML(data)
		}
		return data
	}

	// First pass: look for text/plain, descending into nested multiparts.
	if text := findPlainText(payload); text != "" {
		return text
	}

	// Second pass: fall back to stripped HTML.
	if html := ExtractHTMLBody(payload); html != "" {
		return StripHTML(html)
	}

	return ""
}

// findPlainText returns the first decodable text/plain (or empty MIME type)
// leaf in tree order, or "".
func findPlainText(part *gmail.MessagePart) string {
	for _, p := range part.Parts {
		if (p.MimeType == "text/plain" || p.MimeType == "") && p.Body != nil && p.Body.Data != "" {
			return decodePartData(p.Body.Data)
		}
		if strings.HasPrefix(p.MimeType, "multipart/") {
			if text := findPlainText(p); text != "" {
				return text
			}
		}
	}
	return ""
}

// ExtractHTMLBody extracts the raw decoded HTML body from a message payload,
// or "" when the message has no HTML part. Needed independently of
// ExtractBody because quoting embeds the original HTML verbatim even when
// plain text was the primary display source.
func ExtractHTMLBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	// Simple HTML-only message with no parts.
	if payload.MimeType == "text/html" && payload.Body != nil && payload.Body.Data != "" {
		return decodePartData(payload.Body.Data)
	}

	for _, p := range payload.Parts {
		if p.MimeType == "text/html" && p.Body != nil && p.Body.Data != "" {
			return decodePartData(p.Body.Data)
		}
		if strings.HasPrefix(p.MimeType, "multipart/") {
			if html := ExtractHTMLBody(p); html != "" {
				return html
			}
		}
	}
	return ""
}

// ExtractAttachments collects every part, at any depth, that carries both a
// filename and an attachment handle. A payload with no nested parts is
// treated as a single-element part list; this matters for messages whose
// entire body is one attachment, such as DMARC report zips.
func ExtractAttachments(payload *gmail.MessagePart) []AttachmentRef {
	var refs []AttachmentRef
	walkParts(payload, func(part *gmail.MessagePart) {
		if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
			refs = append(refs, AttachmentRef{
				Filename:     part.Filename,
				MimeType:     part.MimeType,
				Size:         part.Body.Size,
				AttachmentID: part.Body.AttachmentId,
			})
		}
	})
	return refs
}

// ExtractInlineImages collects every part, at any depth, that carries a
// Content-ID header and an attachment handle. These are the parts an HTML
// body references through cid: URLs.
func ExtractInlineImages(payload *gmail.MessagePart) []InlineImageRef {
	var refs []InlineImageRef
	walkParts(payload, func(part *gmail.MessagePart) {
		cid := PartHeader(part, "Content-ID")
		if cid != "" && part.Body != nil && part.Body.AttachmentId != "" {
			refs = append(refs, InlineImageRef{
				ContentID:    cid,
				MimeType:     part.MimeType,
				AttachmentID: part.Body.AttachmentId,
			})
		}
	})
	return refs
}

// walkParts recursively walks a message part tree in depth-first order.
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}

	fn(part)

	for _, subpart := range part.Parts {
		walkParts(subpart, fn)
	}
}
