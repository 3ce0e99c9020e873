package gmail

import (
	"strings"
	"testing"

	gmail "google.golang.org/api/gmail/v1"
)

func makeMessage(headers map[string]string, labels []string, payload *gmail.MessagePart) *gmail.Message {
	var hs []*gmail.MessagePartHeader
	for k, v := range headers {
		hs = append(hs, &gmail.MessagePartHeader{Name: k, Value: v})
	}
	if payload == nil {
		payload = &gmail.MessagePart{
			MimeType: "text/plain",
			Body:     &gmail.MessagePartBody{Data: b64("original body")},
		}
	}
	payload.Headers = hs
	return &gmail.Message{
		Id:       "msg-1",
		ThreadId: "thread-1",
		LabelIds: labels,
		Payload:  payload,
	}
}

func TestComposeReplyRecipient(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		labels  []string
		wantTo  string
	}{
		{
			name: "reply goes to sender",
			headers: map[string]string{
				"From":    "Alice <alice@example.com>",
				"To":      "me@example.com",
				"Subject": "Hi",
				"Date":    "Mon, 22 Dec 2025 02:50:00 +0000",
			},
			wantTo: "Alice <alice@example.com>",
		},
		{
			name: "reply-to header wins",
			headers: map[string]string{
				"From":     "Alice <alice@example.com>",
				"Reply-To": "list@example.com",
				"To":       "me@example.com",
				"Subject":  "Hi",
			},
			wantTo: "list@example.com",
		},
		{
			name: "own message replies to original recipients",
			headers: map[string]string{
				"From":    "Me <me@example.com>",
				"To":      "bob@example.com",
				"Subject": "Hi",
			},
			labels: []string{"SENT"},
			wantTo: "bob@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := makeMessage(tt.headers, tt.labels, nil)
			msg, err := ComposeReply(original, ReplyOptions{
				Self: "me@example.com",
				From: "Me <me@example.com>",
				Body: "Thanks!",
			})
			if err != nil {
				t.Fatalf("ComposeReply() error = %v", err)
			}
			if msg.To != tt.wantTo {
				t.Errorf("To = %q, want %q", msg.To, tt.wantTo)
			}
		})
	}
}

func TestComposeReplyNoRecipientIsUsageError(t *testing.T) {
	original := makeMessage(map[string]string{"Subject": "orphan"}, nil, nil)
	_, err := ComposeReply(original, ReplyOptions{Self: "me@example.com", Body: "hi"})
	if err == nil {
		t.Fatal("ComposeReply() expected error for message with no From/To")
	}
	if !IsUsageError(err) {
		t.Errorf("ComposeReply() error = %v, want UsageError", err)
	}

	// Own message with no To header is also a usage error.
	original = makeMessage(map[string]string{
		"From":    "me@example.com",
		"Subject": "note to self",
	}, []string{"SENT"}, nil)
	_, err = ComposeReply(original, ReplyOptions{Self: "me@example.com", Body: "hi"})
	if err == nil || !IsUsageError(err) {
		t.Errorf("ComposeReply() error = %v, want UsageError", err)
	}
}

func TestComposeReplyAllCc(t *testing.T) {
	original := makeMessage(map[string]string{
		"From":    "a@x.com",
		"To":      "me@x.com, b@x.com",
		"Cc":      "c@x.com",
		"Subject": "planning",
	}, nil, nil)

	msg, err := ComposeReply(original, ReplyOptions{
		Self:     "me@x.com",
		From:     "me@x.com",
		Body:     "sounds good",
		ReplyAll: true,
	})
	if err != nil {
		t.Fatalf("ComposeReply() error = %v", err)
	}

	if msg.To != "a@x.com" {
		t.Errorf("To = %q, want a@x.com", msg.To)
	}
	if msg.Cc != "b@x.com, c@x.com" {
		t.Errorf("Cc = %q, want %q", msg.Cc, "b@x.com, c@x.com")
	}
}

func TestComposeReplyAllDedupesAndKeepsNames(t *testing.T) {
	original := makeMessage(map[string]string{
		"From":    "a@x.com",
		"To":      "me@x.com, Bob <b@x.com>",
		"Cc":      "B@X.COM, c@x.com",
		"Subject": "dupes",
	}, nil, nil)

	msg, err := ComposeReply(original, ReplyOptions{
		Self:     "me@x.com",
		From:     "me@x.com",
		Body:     "ok",
		ReplyAll: true,
	})
	if err != nil {
		t.Fatalf("ComposeReply() error = %v", err)
	}

	if msg.Cc != `"Bob" <b@x.com>, c@x.com` {
		t.Errorf("Cc = %q, want first-seen entry with display name kept", msg.Cc)
	}
}

func TestComposeReplyCustomCcOverrides(t *testing.T) {
	original := makeMessage(map[string]string{
		"From":    "a@x.com",
		"To":      "me@x.com, b@x.com",
		"Cc":      "c@x.com",
		"Subject": "override",
	}, nil, nil)

	msg, err := ComposeReply(original, ReplyOptions{
		Self:     "me@x.com",
		From:     "me@x.com",
		Body:     "ok",
		ReplyAll: true,
		CustomCc: "custom@y.com",
	})
	if err != nil {
		t.Fatalf("ComposeReply() error = %v", err)
	}
	if msg.Cc != "custom@y.com" {
		t.Errorf("Cc = %q, want custom@y.com", msg.Cc)
	}

	// Without reply-all and without custom CC, the CC stays empty.
	msg, err = ComposeReply(original, ReplyOptions{
		Self: "me@x.com",
		From: "me@x.com",
		Body: "ok",
	})
	if err != nil {
		t.Fatalf("ComposeReply() error = %v", err)
	}
	if msg.Cc != "" {
		t.Errorf("Cc = %q, want empty for plain reply", msg.Cc)
	}
}

func TestComposeReplySubjectPrefix(t *testing.T) {
	tests := []struct {
		subject string
		want    string
	}{
		{"Weekly Update", "Re: Weekly Update"},
		{"Re: Weekly Update", "Re: Weekly Update"},
		{"RE: shouting", "RE: shouting"},
		{"", "Re: "},
	}

	for _, tt := range tests {
		original := makeMessage(map[string]string{
			"From":    "a@x.com",
			"Subject": tt.subject,
		}, nil, nil)
		msg, err := ComposeReply(original, ReplyOptions{Self: "me@x.com", Body: "hi"})
		if err != nil {
			t.Fatalf("ComposeReply() error = %v", err)
		}
		if msg.Subject != tt.want {
			t.Errorf("Subject = %q, want %q", msg.Subject, tt.want)
		}
	}
}

func TestComposeReplyThreading(t *testing.T) {
	original := makeMessage(map[string]string{
		"From":       "a@x.com",
		"Subject":    "threaded",
		"Message-ID": "<id-3@x.com>",
		"References": "<id-1@x.com> <id-2@x.com>",
	}, nil, nil)

	msg, err := ComposeReply(original, ReplyOptions{Self: "me@x.com", Body: "hi"})
	if err != nil {
		t.Fatalf("ComposeReply() error = %v", err)
	}

	if msg.InReplyTo != "<id-3@x.com>" {
		t.Errorf("InReplyTo = %q, want <id-3@x.com>", msg.InReplyTo)
	}
	if msg.References != "<id-1@x.com> <id-2@x.com> <id-3@x.com>" {
		t.Errorf("References = %q, want chain with Message-ID appended", msg.References)
	}
	if msg.ThreadID != "thread-1" {
		t.Errorf("ThreadID = %q, want thread-1", msg.ThreadID)
	}

	// First reply in a thread starts the References chain.
	original = makeMessage(map[string]string{
		"From":       "a@x.com",
		"Subject":    "first",
		"Message-ID": "<id-1@x.com>",
	}, nil, nil)
	msg, err = ComposeReply(original, ReplyOptions{Self: "me@x.com", Body: "hi"})
	if err != nil {
		t.Fatalf("ComposeReply() error = %v", err)
	}
	if msg.References != "<id-1@x.com>" {
		t.Errorf("References = %q, want <id-1@x.com>", msg.References)
	}
}

func TestComposeReplyQuotedBodies(t *testing.T) {
	original := makeMessage(map[string]string{
		"From":    "Alice <alice@example.com>",
		"Subject": "quoting",
		"Date":    "Mon, 22 Dec 2025 02:50:00 +0000",
	}, nil, &gmail.MessagePart{
		MimeType: "text/plain",
		Body:     &gmail.MessagePartBody{Data: b64("first line\nsecond line")},
	})

	msg, err := ComposeReply(original, ReplyOptions{
		Self: "me@example.com",
		Body: "Thanks!",
	})
	if err != nil {
		t.Fatalf("ComposeReply() error = %v", err)
	}

	want := "Thanks!\n\nOn Mon, 22 Dec 2025 at 02:50, Alice <alice@example.com> wrote:\n\n> first line\n> second line\n"
	if msg.TextBody != want {
		t.Errorf("TextBody = %q, want %q", msg.TextBody, want)
	}

	if !strings.Contains(msg.HTMLBody, `<blockquote class="gmail_quote"`) {
		t.Errorf("HTMLBody missing gmail_quote blockquote: %q", msg.HTMLBody)
	}
	// No original HTML, so the quoted text is converted.
	if !strings.Contains(msg.HTMLBody, "first line<br>\nsecond line") {
		t.Errorf("HTMLBody missing converted original text: %q", msg.HTMLBody)
	}
	// The From header's angle brackets must be escaped in the attribution.
	if !strings.Contains(msg.HTMLBody, "Alice &lt;alice@example.com&gt;") {
		t.Errorf("HTMLBody attribution not escaped: %q", msg.HTMLBody)
	}
}

func TestComposeReplyEmbedsOriginalHTMLVerbatim(t *testing.T) {
	originalHTML := `<div style="font-family:arial">fancy <b>markup</b></div>`
	original := makeMessage(map[string]string{
		"From":    "alice@example.com",
		"Subject": "html",
	}, nil, &gmail.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmail.MessagePart{
			{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: b64("fancy markup")},
			},
			{
				MimeType: "text/html",
				Body:     &gmail.MessagePartBody{Data: b64(originalHTML)},
			},
		},
	})

	msg, err := ComposeReply(original, ReplyOptions{Self: "me@example.com", Body: "nice"})
	if err != nil {
		t.Fatalf("ComposeReply() error = %v", err)
	}
	if !strings.Contains(msg.HTMLBody, originalHTML) {
		t.Errorf("HTMLBody should embed original HTML verbatim, got %q", msg.HTMLBody)
	}
}

func TestComposeForward(t *testing.T) {
	original := makeMessage(map[string]string{
		"From":    "Alice <alice@example.com>",
		"Subject": "Weekly Update",
		"Date":    "Mon, 22 Dec 2025 02:50:00 +0000",
	}, nil, &gmail.MessagePart{
		MimeType: "text/plain",
		Body:     &gmail.MessagePartBody{Data: b64("the update")},
	})

	msg, carryover, err := ComposeForward(original, ForwardOptions{
		From: "me@example.com",
		To:   "bob@example.com",
		Body: "FYI",
	})
	if err != nil {
		t.Fatalf("ComposeForward() error = %v", err)
	}

	if msg.Subject != "Fwd: Weekly Update" {
		t.Errorf("Subject = %q, want Fwd: Weekly Update", msg.Subject)
	}
	if msg.To != "bob@example.com" {
		t.Errorf("To = %q, want bob@example.com", msg.To)
	}
	// Forwards start a new thread.
	if msg.InReplyTo != "" || msg.References != "" || msg.ThreadID != "" {
		t.Errorf("forward must not carry threading: InReplyTo=%q References=%q ThreadID=%q",
			msg.InReplyTo, msg.References, msg.ThreadID)
	}
	if len(carryover) != 0 {
		t.Errorf("carryover = %v, want none", carryover)
	}

	for _, want := range []string{
		"FYI\n\n",
		"---------- Forwarded message ----------\n",
		"From: Alice <alice@example.com>\n",
		"Subject: Weekly Update\n\n",
		"the update",
	} {
		if !strings.Contains(msg.TextBody, want) {
			t.Errorf("TextBody missing %q, got %q", want, msg.TextBody)
		}
	}
}

func TestComposeForwardSubjectPrefixIdempotent(t *testing.T) {
	for _, tt := range []struct {
		subject string
		want    string
	}{
		{"Weekly Update", "Fwd: Weekly Update"},
		{"Fwd: Weekly Update", "Fwd: Weekly Update"},
		{"FW: legacy prefix", "FW: legacy prefix"},
		{"fwd: lower", "fwd: lower"},
	} {
		original := makeMessage(map[string]string{
			"From":    "a@x.com",
			"Subject": tt.subject,
		}, nil, nil)
		msg, _, err := ComposeForward(original, ForwardOptions{To: "b@x.com"})
		if err != nil {
			t.Fatalf("ComposeForward() error = %v", err)
		}
		if msg.Subject != tt.want {
			t.Errorf("Subject = %q, want %q", msg.Subject, tt.want)
		}
	}
}

func TestComposeForwardCarriesAttachmentsExceptInline(t *testing.T) {
	original := makeMessage(map[string]string{
		"From":    "a@x.com",
		"Subject": "with files",
	}, nil, &gmail.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmail.MessagePart{
			{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: b64("body")},
			},
			{
				MimeType: "application/pdf",
				Filename: "report.pdf",
				Body:     &gmail.MessagePartBody{AttachmentId: "att-pdf"},
			},
			{
				MimeType: "image/png",
				Filename: "logo.png",
				Headers:  []*gmail.MessagePartHeader{{Name: "Content-ID", Value: "<logo>"}},
				Body:     &gmail.MessagePartBody{AttachmentId: "att-logo"},
			},
		},
	})

	_, carryover, err := ComposeForward(original, ForwardOptions{To: "b@x.com"})
	if err != nil {
		t.Fatalf("ComposeForward() error = %v", err)
	}

	if len(carryover) != 1 {
		t.Fatalf("carryover = %v, want only the non-inline attachment", carryover)
	}
	if carryover[0].Filename != "report.pdf" {
		t.Errorf("carryover[0] = %q, want report.pdf", carryover[0].Filename)
	}
}

func TestComposeForwardRequiresRecipient(t *testing.T) {
	original := makeMessage(map[string]string{"From": "a@x.com", "Subject": "s"}, nil, nil)
	_, _, err := ComposeForward(original, ForwardOptions{})
	if err == nil || !IsUsageError(err) {
		t.Errorf("ComposeForward() error = %v, want UsageError", err)
	}
}

func TestFormatQuoteDate(t *testing.T) {
	tests := []struct {
		name string
		date string
		want string
	}{
		{
			name: "rfc5322 date",
			date: "Mon, 22 Dec 2025 02:50:00 +0000",
			want: "Mon, 22 Dec 2025 at 02:50",
		},
		{
			name: "malformed date kept verbatim",
			date: "not a date",
			want: "not a date",
		},
		{
			name: "empty date kept",
			date: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatQuoteDate(tt.date); got != tt.want {
				t.Errorf("formatQuoteDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilterAddresses(t *testing.T) {
	tests := []struct {
		name    string
		list    string
		exclude []string
		want    string
	}{
		{
			name:    "excludes self case-insensitively",
			list:    "a@x.com, ME@X.COM, b@x.com",
			exclude: []string{"me@x.com"},
			want:    "a@x.com, b@x.com",
		},
		{
			name: "dedupes by address",
			list: "a@x.com, A@x.com, b@x.com",
			want: "a@x.com, b@x.com",
		},
		{
			name: "preserves display names",
			list: `"Alice A" <a@x.com>, b@x.com`,
			want: `"Alice A" <a@x.com>, b@x.com`,
		},
		{
			name: "quoted comma in display name",
			list: `"Doe, Jane" <jane@x.com>, b@x.com`,
			want: `"Doe, Jane" <jane@x.com>, b@x.com`,
		},
		{
			name: "empty list",
			list: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filterAddresses(tt.list, tt.exclude...); got != tt.want {
				t.Errorf("filterAddresses() = %q, want %q", got, tt.want)
			}
		})
	}
}
