package gmail

import (
	"sort"

	gmail "google.golang.org/api/gmail/v1"
)

// MessageSummary is the compact JSON view of a single message.
type MessageSummary struct {
	ID       string   `json:"id"`
	ThreadID string   `json:"threadId"`
	From     string   `json:"from"`
	To       string   `json:"to"`
	Cc       string   `json:"cc,omitempty"`
	Subject  string   `json:"subject"`
	Date     string   `json:"date"`
	Snippet  string   `json:"snippet"`
	Labels   []string `json:"labels"`
	Body     string   `json:"body,omitempty"`
	HTMLBody string   `json:"htmlBody,omitempty"`
}

// ThreadSummary is the compact JSON view of a thread, showing the latest
// message's details the way the Gmail UI does.
type ThreadSummary struct {
	ThreadID        string   `json:"threadId"`
	MessageCount    int      `json:"messageCount"`
	UnreadCount     int      `json:"unreadCount"`
	LatestMessageID string   `json:"latestMessageId,omitempty"`
	From            string   `json:"from,omitempty"`
	To              string   `json:"to,omitempty"`
	Cc              string   `json:"cc,omitempty"`
	Subject         string   `json:"subject,omitempty"`
	Date            string   `json:"date,omitempty"`
	Snippet         string   `json:"snippet,omitempty"`
	Labels          []string `json:"labels,omitempty"`
}

// DraftSummary is the compact JSON view of a draft.
type DraftSummary struct {
	ID        string `json:"id"`
	MessageID string `json:"messageId"`
	To        string `json:"to"`
	Cc        string `json:"cc,omitempty"`
	Subject   string `json:"subject"`
	Snippet   string `json:"snippet"`
}

// SummarizeMessage extracts the essential fields from a message. When
// includeBody is set, the decoded text body (and raw HTML body when
// present) are included.
func SummarizeMessage(msg *gmail.Message, includeBody bool) *MessageSummary {
	s := &MessageSummary{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		From:     HeaderValue(msg, "From"),
		To:       HeaderValue(msg, "To"),
		Cc:       HeaderValue(msg, "Cc"),
		Subject:  HeaderValue(msg, "Subject"),
		Date:     HeaderValue(msg, "Date"),
		Snippet:  msg.Snippet,
		Labels:   msg.LabelIds,
	}
	if includeBody {
		s.Body = ExtractBody(msg.Payload)
		s.HTMLBody = ExtractHTMLBody(msg.Payload)
	}
	return s
}

// SummarizeThread extracts the essential fields from a thread, aggregating
// labels and unread counts across all messages and showing the latest
// message's headers.
func SummarizeThread(thread *gmail.Thread) *ThreadSummary {
	s := &ThreadSummary{
		ThreadID:     thread.Id,
		MessageCount: len(thread.Messages),
	}
	if len(thread.Messages) == 0 {
		return s
	}

	labelSet := make(map[string]bool)
	for _, msg := range thread.Messages {
		for _, l := range msg.LabelIds {
			labelSet[l] = true
		}
		if hasLabel(msg.LabelIds, "UNREAD") {
			s.UnreadCount++
		}
	}

	labels := make([]string, 0, len(labelSet))
	for l := range labelSet {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	s.Labels = labels

	latest := thread.Messages[len(thread.Messages)-1]
	s.LatestMessageID = latest.Id
	s.From = HeaderValue(latest, "From")
	s.To = HeaderValue(latest, "To")
	s.Cc = HeaderValue(latest, "Cc")
	s.Subject = HeaderValue(latest, "Subject")
	s.Date = HeaderValue(latest, "Date")
	s.Snippet = latest.Snippet

	return s
}

// SummarizeDraft extracts the essential fields from a draft.
func SummarizeDraft(draft *gmail.Draft) *DraftSummary {
	s := &DraftSummary{ID: draft.Id}
	if draft.Message == nil {
		return s
	}
	s.MessageID = draft.Message.Id
	s.To = HeaderValue(draft.Message, "To")
	s.Cc = HeaderValue(draft.Message, "Cc")
	s.Subject = HeaderValue(draft.Message, "Subject")
	s.Snippet = draft.Message.Snippet
	return s
}
