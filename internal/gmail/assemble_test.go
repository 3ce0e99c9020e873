package gmail

import (
	"bytes"
	"encoding/base64"
	"io"
	"strings"
	"testing"

	"github.com/emersion/go-message"
)

// assembleAndParse round-trips a composed message through serialization so
// the tests see exactly what the Gmail API would receive.
func assembleAndParse(t *testing.T, msg *ComposedMessage) *message.Entity {
	t.Helper()
	e, err := Assemble(msg)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	var buf bytes.Buffer
	if err := e.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	parsed, err := message.Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	return parsed
}

// structureOf renders the content-type tree, e.g.
// "multipart/mixed(multipart/alternative(text/plain,text/html),application/pdf)".
func structureOf(t *testing.T, e *message.Entity) string {
	t.Helper()
	mediaType, _, err := e.Header.ContentType()
	if err != nil {
		t.Fatalf("ContentType() error = %v", err)
	}

	mr := e.MultipartReader()
	if mr == nil {
		return mediaType
	}

	var children []string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextPart() error = %v", err)
		}
		children = append(children, structureOf(t, part))
	}
	return mediaType + "(" + strings.Join(children, ",") + ")"
}

func TestAssembleNesting(t *testing.T) {
	att := Attachment{Filename: "report.pdf", MimeType: "application/pdf", Data: []byte("%PDF-1.4")}
	img := InlineImage{ContentID: "logo@mail", MimeType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}

	tests := []struct {
		name string
		msg  *ComposedMessage
		want string
	}{
		{
			name: "plain text only is a bare part",
			msg: &ComposedMessage{
				To:       "a@x.com",
				Subject:  "s",
				TextBody: "hello",
			},
			want: "text/plain",
		},
		{
			name: "html adds alternative",
			msg: &ComposedMessage{
				To:       "a@x.com",
				Subject:  "s",
				TextBody: "hello",
				HTMLBody: "hello",
			},
			want: "multipart/alternative(text/plain,text/html)",
		},
		{
			name: "attachment wraps in mixed",
			msg: &ComposedMessage{
				To:          "a@x.com",
				Subject:     "s",
				TextBody:    "hello",
				Attachments: []Attachment{att},
			},
			want: "multipart/mixed(text/plain,application/pdf)",
		},
		{
			name: "inline image wraps in related",
			msg: &ComposedMessage{
				To:           "a@x.com",
				Subject:      "s",
				TextBody:     "hello",
				HTMLBody:     `<img src="cid:logo@mail">`,
				InlineImages: []InlineImage{img},
			},
			want: "multipart/related(multipart/alternative(text/plain,text/html),image/png)",
		},
		{
			name: "everything nests mixed over related over alternative",
			msg: &ComposedMessage{
				To:           "a@x.com",
				Subject:      "s",
				TextBody:     "hello",
				HTMLBody:     `<img src="cid:logo@mail">`,
				Attachments:  []Attachment{att},
				InlineImages: []InlineImage{img},
			},
			want: "multipart/mixed(multipart/related(multipart/alternative(text/plain,text/html),image/png),application/pdf)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := assembleAndParse(t, tt.msg)
			if got := structureOf(t, parsed); got != tt.want {
				t.Errorf("structure = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAssembleEnvelopeHeaders(t *testing.T) {
	msg := &ComposedMessage{
		From:       "Me <me@x.com>",
		To:         "a@x.com",
		Cc:         "b@x.com",
		Subject:    "threaded",
		TextBody:   "hi",
		InReplyTo:  "<id-1@x.com>",
		References: "<id-0@x.com> <id-1@x.com>",
	}

	parsed := assembleAndParse(t, msg)
	for header, want := range map[string]string{
		"From":         "Me <me@x.com>",
		"To":           "a@x.com",
		"Cc":           "b@x.com",
		"Subject":      "threaded",
		"In-Reply-To":  "<id-1@x.com>",
		"References":   "<id-0@x.com> <id-1@x.com>",
		"MIME-Version": "1.0",
	} {
		if got := parsed.Header.Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
}

func TestAssembleBodyRoundTrip(t *testing.T) {
	msg := &ComposedMessage{
		To:       "a@x.com",
		Subject:  "s",
		TextBody: "Grüße aus München\nsecond line",
	}

	parsed := assembleAndParse(t, msg)
	body, err := io.ReadAll(parsed.Body)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	got := strings.ReplaceAll(string(body), "\r\n", "\n")
	if got != msg.TextBody {
		t.Errorf("body = %q, want %q", got, msg.TextBody)
	}
}

func TestAssembleInlineImageHeaders(t *testing.T) {
	msg := &ComposedMessage{
		To:       "a@x.com",
		Subject:  "s",
		TextBody: "hi",
		InlineImages: []InlineImage{
			{ContentID: "logo@mail", MimeType: "image/png", Data: []byte{1, 2, 3}},
		},
	}

	parsed := assembleAndParse(t, msg)
	mr := parsed.MultipartReader()
	if mr == nil {
		t.Fatal("expected multipart/related root")
	}
	if _, err := mr.NextPart(); err != nil {
		t.Fatalf("NextPart() error = %v", err)
	}
	imgPart, err := mr.NextPart()
	if err != nil {
		t.Fatalf("NextPart() error = %v", err)
	}

	if got := imgPart.Header.Get("Content-ID"); got != "<logo@mail>" {
		t.Errorf("Content-ID = %q, want <logo@mail>", got)
	}
	disp, _, err := imgPart.Header.ContentDisposition()
	if err != nil {
		t.Fatalf("ContentDisposition() error = %v", err)
	}
	if disp != "inline" {
		t.Errorf("Content-Disposition = %q, want inline", disp)
	}

	// Binary image bytes must survive serialization untouched.
	data, err := io.ReadAll(imgPart.Body)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !bytes.Equal(data, []byte{1, 2, 3}) {
		t.Errorf("inline image body = %v, want [1 2 3]", data)
	}
}

func TestAssembleAttachmentHeaders(t *testing.T) {
	msg := &ComposedMessage{
		To:       "a@x.com",
		Subject:  "s",
		TextBody: "hi",
		Attachments: []Attachment{
			{Filename: "notes.txt", Data: []byte("plain notes")},
		},
	}

	parsed := assembleAndParse(t, msg)
	mr := parsed.MultipartReader()
	if mr == nil {
		t.Fatal("expected multipart/mixed root")
	}
	if _, err := mr.NextPart(); err != nil {
		t.Fatalf("NextPart() error = %v", err)
	}
	attPart, err := mr.NextPart()
	if err != nil {
		t.Fatalf("NextPart() error = %v", err)
	}

	// Missing MIME type is guessed from the extension.
	mediaType, _, err := attPart.Header.ContentType()
	if err != nil {
		t.Fatalf("ContentType() error = %v", err)
	}
	if mediaType != "text/plain" {
		t.Errorf("Content-Type = %q, want text/plain", mediaType)
	}

	disp, params, err := attPart.Header.ContentDisposition()
	if err != nil {
		t.Fatalf("ContentDisposition() error = %v", err)
	}
	if disp != "attachment" || params["filename"] != "notes.txt" {
		t.Errorf("Content-Disposition = %q %v, want attachment with filename notes.txt", disp, params)
	}

	data, err := io.ReadAll(attPart.Body)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != "plain notes" {
		t.Errorf("attachment body = %q, want %q", data, "plain notes")
	}
}

func TestRaw(t *testing.T) {
	e, err := Assemble(&ComposedMessage{To: "a@x.com", Subject: "s", TextBody: "hi"})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	raw, err := Raw(e)
	if err != nil {
		t.Fatalf("Raw() error = %v", err)
	}
	decoded, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		t.Fatalf("raw message is not base64url: %v", err)
	}
	parsed, err := message.Read(bytes.NewReader(decoded))
	if err != nil {
		t.Fatalf("decoded message does not parse: %v", err)
	}
	if got := parsed.Header.Get("Mime-Version"); got != "1.0" {
		t.Errorf("Mime-Version = %q, want 1.0", got)
	}
	if got := parsed.Header.Get("To"); got != "a@x.com" {
		t.Errorf("To = %q, want a@x.com", got)
	}
}

func TestEncodeRFC2047(t *testing.T) {
	if got := encodeRFC2047("plain ascii"); got != "plain ascii" {
		t.Errorf("ascii subject changed: %q", got)
	}
	got := encodeRFC2047("Grüße")
	if !strings.HasPrefix(got, "=?UTF-8?") || !strings.HasSuffix(got, "?=") {
		t.Errorf("non-ascii subject not RFC 2047 encoded: %q", got)
	}
}

func TestGuessMimeType(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"report.pdf", "application/pdf"},
		{"photo.png", "image/png"},
		{"notes.txt", "text/plain"},
		{"no-extension", "application/octet-stream"},
		{"weird.zzz9", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := GuessMimeType(tt.filename); got != tt.want {
			t.Errorf("GuessMimeType(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
