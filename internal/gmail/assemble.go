package gmail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/emersion/go-message"
)

// Assemble constructs the MIME tree for a composed message.
//
// Nesting follows the strict invariant mixed > related > alternative:
//  1. The body is a bare text/plain part, or a multipart/alternative with
//     the plain part first and the HTML part last (last part is the
//     preferred rendering).
//  2. Inline images wrap the body in multipart/related, body first, each
//     image carrying its Content-ID and Content-Disposition: inline.
//  3. Attachments wrap the result in multipart/mixed, body first.
//  4. With neither, the result is exactly the body part; empty levels are
//     never emitted.
//
// Address and threading headers land on the outermost entity.
func Assemble(msg *ComposedMessage) (*message.Entity, error) {
	root, err := buildBody(msg)
	if err != nil {
		return nil, err
	}

	if len(msg.InlineImages) > 0 {
		parts := []*message.Entity{root}
		for _, img := range msg.InlineImages {
			part, err := buildInlineImagePart(img)
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
		var h message.Header
		h.SetContentType("multipart/related", nil)
		root, err = message.NewMultipart(h, parts)
		if err != nil {
			return nil, fmt.Errorf("failed to build related part: %w", err)
		}
	}

	if len(msg.Attachments) > 0 {
		parts := []*message.Entity{root}
		for _, att := range msg.Attachments {
			part, err := buildAttachmentPart(att)
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
		var h message.Header
		h.SetContentType("multipart/mixed", nil)
		root, err = message.NewMultipart(h, parts)
		if err != nil {
			return nil, fmt.Errorf("failed to build mixed part: %w", err)
		}
	}

	setEnvelopeHeaders(&root.Header, msg)
	return root, nil
}

// Raw serializes an assembled entity and encodes it in the base64url form
// the Gmail API expects in the raw message field.
func Raw(e *message.Entity) (string, error) {
	var buf bytes.Buffer
	if err := e.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("failed to serialize message: %w", err)
	}
	return base64.URLEncoding.EncodeToString(buf.Bytes()), nil
}

// buildBody returns the text part, or a multipart/alternative when an HTML
// body exists.
func buildBody(msg *ComposedMessage) (*message.Entity, error) {
	text, err := buildTextPart("text/plain", msg.TextBody)
	if err != nil {
		return nil, err
	}
	if msg.HTMLBody == "" {
		return text, nil
	}

	html, err := buildTextPart("text/html", msg.HTMLBody)
	if err != nil {
		return nil, err
	}

	var h message.Header
	h.SetContentType("multipart/alternative", nil)
	alt, err := message.NewMultipart(h, []*message.Entity{text, html})
	if err != nil {
		return nil, fmt.Errorf("failed to build alternative part: %w", err)
	}
	return alt, nil
}

// newRawPart builds an entity whose body is the raw, decoded content.
// The transfer encoding is set after construction so message.New does not
// wrap the body in a decoder; WriteTo encodes on serialization instead.
func newRawPart(h message.Header, body []byte, encoding string) (*message.Entity, error) {
	e, err := message.New(h, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	e.Header.Set("Content-Transfer-Encoding", encoding)
	return e, nil
}

func buildTextPart(mimeType, body string) (*message.Entity, error) {
	var h message.Header
	h.SetContentType(mimeType, map[string]string{"charset": "utf-8"})
	e, err := newRawPart(h, []byte(body), "quoted-printable")
	if err != nil {
		return nil, fmt.Errorf("failed to build %s part: %w", mimeType, err)
	}
	return e, nil
}

func buildAttachmentPart(att Attachment) (*message.Entity, error) {
	mimeType := att.MimeType
	if mimeType == "" {
		mimeType = GuessMimeType(att.Filename)
	}

	var h message.Header
	h.SetContentType(mimeType, nil)
	h.SetContentDisposition("attachment", map[string]string{"filename": att.Filename})
	e, err := newRawPart(h, att.Data, "base64")
	if err != nil {
		return nil, fmt.Errorf("failed to build attachment part %q: %w", att.Filename, err)
	}
	return e, nil
}

func buildInlineImagePart(img InlineImage) (*message.Entity, error) {
	mimeType := img.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	var h message.Header
	h.SetContentType(mimeType, nil)
	h.Set("Content-ID", ensureAngleBrackets(img.ContentID))
	h.SetContentDisposition("inline", nil)
	e, err := newRawPart(h, img.Data, "base64")
	if err != nil {
		return nil, fmt.Errorf("failed to build inline image part %q: %w", img.ContentID, err)
	}
	return e, nil
}

// setEnvelopeHeaders sets address, subject, and threading headers on the
// outermost entity.
func setEnvelopeHeaders(h *message.Header, msg *ComposedMessage) {
	h.Set("MIME-Version", "1.0")
	if msg.From != "" {
		h.Set("From", msg.From)
	}
	h.Set("To", msg.To)
	if msg.Cc != "" {
		h.Set("Cc", msg.Cc)
	}
	if msg.Bcc != "" {
		h.Set("Bcc", msg.Bcc)
	}
	h.Set("Subject", encodeRFC2047(msg.Subject))
	if msg.InReplyTo != "" {
		h.Set("In-Reply-To", msg.InReplyTo)
	}
	if msg.References != "" {
		h.Set("References", msg.References)
	}
}

// encodeRFC2047 encodes a string for use in email headers according to
// RFC 2047. Needed for non-ASCII characters (like German umlauts) in
// subjects.
func encodeRFC2047(s string) string {
	needsEncoding := false
	for _, r := range s {
		if r > 127 {
			needsEncoding = true
			break
		}
	}
	if !needsEncoding {
		return s
	}

	return mime.BEncoding.Encode("UTF-8", s)
}

// GuessMimeType guesses a MIME type from a filename extension, defaulting
// to application/octet-stream.
func GuessMimeType(filename string) string {
	t := mime.TypeByExtension(filepath.Ext(filename))
	if t == "" {
		return "application/octet-stream"
	}
	// TypeByExtension may include parameters like charset.
	if mediaType, _, err := mime.ParseMediaType(t); err == nil {
		return mediaType
	}
	return t
}

// ensureAngleBrackets normalizes a Content-ID to the <id> header form.
func ensureAngleBrackets(cid string) string {
	if strings.HasPrefix(cid, "<") {
		return cid
	}
	return "<" + cid + ">"
}
