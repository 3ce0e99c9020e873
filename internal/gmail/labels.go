package gmail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
)

const (
	// batchModifyChunkSize is the messages.batchModify limit per call.
	batchModifyChunkSize = 1000

	// batchModifyDelay spaces out consecutive batchModify chunks.
	batchModifyDelay = 500 * time.Millisecond

	// trashChunkSize bounds how many individual trash calls run between delays.
	// There is no batchTrash API.
	trashChunkSize = 50

	// trashDelay spaces out consecutive trash chunks.
	trashDelay = 300 * time.Millisecond

	// maxRateLimitRetries bounds retries on HTTP 429 responses.
	maxRateLimitRetries = 3
)

// withRateLimitRetry runs fn, retrying on HTTP 429 with exponential backoff
// (2s, 4s, 8s). Other errors are returned immediately.
func withRateLimitRetry(ctx context.Context, fn func() error) error {
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		var apiErr *googleapi.Error
		if !errors.As(err, &apiErr) || apiErr.Code != 429 {
			return err
		}
		if attempt >= maxRateLimitRetries {
			return fmt.Errorf("rate limit exceeded after %d retries: %w", maxRateLimitRetries, err)
		}

		delay := time.Duration(1<<(attempt+1)) * time.Second // 2s, 4s, 8s
		slog.Warn("rate limited, retrying",
			"delay", delay,
			"attempt", attempt+1,
			"max_retries", maxRateLimitRetries)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// sleepBetweenChunks waits for the given delay unless the context is
// cancelled first.
func sleepBetweenChunks(ctx context.Context, delay time.Duration) error {
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// BatchModifyLabels adds and removes labels on messages using the
// batchModify API, in chunks of up to 1000 with a short delay between
// chunks. Returns how many messages were processed; on error the count
// covers the chunks that succeeded.
func (c *Client) BatchModifyLabels(ctx context.Context, messageIDs, addLabelIDs, removeLabelIDs []string) (int, error) {
	if len(messageIDs) == 0 {
		return 0, nil
	}

	processed := 0
	for i := 0; i < len(messageIDs); i += batchModifyChunkSize {
		end := i + batchModifyChunkSize
		if end > len(messageIDs) {
			end = len(messageIDs)
		}
		chunk := messageIDs[i:end]

		req := &gmail.BatchModifyMessagesRequest{
			Ids:            chunk,
			AddLabelIds:    addLabelIDs,
			RemoveLabelIds: removeLabelIDs,
		}

		err := withRateLimitRetry(ctx, func() error {
			return c.svc.Messages.BatchModify("me", req).Context(ctx).Do()
		})
		if err != nil {
			return processed, fmt.Errorf("failed to modify labels (processed %d of %d): %w",
				processed, len(messageIDs), err)
		}
		processed += len(chunk)

		if end < len(messageIDs) {
			if err := sleepBetweenChunks(ctx, batchModifyDelay); err != nil {
				return processed, err
			}
		}
	}

	return processed, nil
}

// ModifyThreadLabels adds and removes labels on entire threads, matching
// the Gmail UI behavior of acting on every message in the conversation.
func (c *Client) ModifyThreadLabels(ctx context.Context, threadIDs, addLabelIDs, removeLabelIDs []string) (int, error) {
	processed := 0
	for _, tid := range threadIDs {
		req := &gmail.ModifyThreadRequest{
			AddLabelIds:    addLabelIDs,
			RemoveLabelIds: removeLabelIDs,
		}
		err := withRateLimitRetry(ctx, func() error {
			_, err := c.svc.Threads.Modify("me", tid, req).Context(ctx).Do()
			return err
		})
		if err != nil {
			return processed, fmt.Errorf("failed to modify thread %s (processed %d of %d): %w",
				tid, processed, len(threadIDs), err)
		}
		processed++
	}
	return processed, nil
}

// TrashMessages moves messages to the trash. There is no batch trash API,
// so messages are trashed individually in chunks of 50 with a short delay
// between chunks.
func (c *Client) TrashMessages(ctx context.Context, messageIDs []string) (int, error) {
	processed := 0
	for i, id := range messageIDs {
		err := withRateLimitRetry(ctx, func() error {
			_, err := c.svc.Messages.Trash("me", id).Context(ctx).Do()
			return err
		})
		if err != nil {
			return processed, fmt.Errorf("failed to trash message %s (processed %d of %d): %w",
				id, processed, len(messageIDs), err)
		}
		processed++

		if (i+1)%trashChunkSize == 0 && i+1 < len(messageIDs) {
			if err := sleepBetweenChunks(ctx, trashDelay); err != nil {
				return processed, err
			}
		}
	}
	return processed, nil
}

// ArchiveMessages removes the INBOX label from messages
func (c *Client) ArchiveMessages(ctx context.Context, messageIDs []string) (int, error) {
	return c.BatchModifyLabels(ctx, messageIDs, nil, []string{"INBOX"})
}

// UnarchiveMessages moves messages back to the inbox
func (c *Client) UnarchiveMessages(ctx context.Context, messageIDs []string) (int, error) {
	return c.BatchModifyLabels(ctx, messageIDs, []string{"INBOX"}, nil)
}

// StarMessages adds the STARRED label to messages
func (c *Client) StarMessages(ctx context.Context, messageIDs []string) (int, error) {
	return c.BatchModifyLabels(ctx, messageIDs, []string{"STARRED"}, nil)
}

// UnstarMessages removes the STARRED label from messages
func (c *Client) UnstarMessages(ctx context.Context, messageIDs []string) (int, error) {
	return c.BatchModifyLabels(ctx, messageIDs, nil, []string{"STARRED"})
}

// MarkMessagesRead removes the UNREAD label from messages
func (c *Client) MarkMessagesRead(ctx context.Context, messageIDs []string) (int, error) {
	return c.BatchModifyLabels(ctx, messageIDs, nil, []string{"UNREAD"})
}

// MarkMessagesUnread adds the UNREAD label to messages
func (c *Client) MarkMessagesUnread(ctx context.Context, messageIDs []string) (int, error) {
	return c.BatchModifyLabels(ctx, messageIDs, []string{"UNREAD"}, nil)
}

// ArchiveThread archives a thread by removing the INBOX label
func (c *Client) ArchiveThread(ctx context.Context, threadID string) error {
	_, err := c.ModifyThreadLabels(ctx, []string{threadID}, nil, []string{"INBOX"})
	return err
}

// UnarchiveThread moves a thread back to inbox by adding the INBOX label
func (c *Client) UnarchiveThread(ctx context.Context, threadID string) error {
	_, err := c.ModifyThreadLabels(ctx, []string{threadID}, []string{"INBOX"}, nil)
	return err
}
