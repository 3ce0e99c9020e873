package gmail

import (
	"context"
	"fmt"
	"net/mail"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"

	"github.com/mailquill/mailquill/internal/google"
)

// Client wraps the Gmail Users service and People service
type Client struct {
	svc       *gmail.UsersService
	peopleSvc *people.Service
	account   string // The account this client is associated with
	signature string // Cached signature for this account
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// HasToken checks if a valid OAuth token exists for the default account
func HasToken() bool {
	return google.HasToken()
}

// NewClientForAccount creates a new Gmail client with OAuth2 authentication for a specific account
// The OAuth token must be provided by the MCP client through the OAuth middleware
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	// Get HTTP client with OAuth token
	client, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w. Please authenticate with Google through your MCP client", account, err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	peopleSvc, err := people.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create People service: %w", err)
	}

	return &Client{
		svc:       svc.Users,
		peopleSvc: peopleSvc,
		account:   account,
	}, nil
}

// NewClient creates a new Gmail client with OAuth2 authentication for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// GetMessage retrieves a full Gmail message
func (c *Client) GetMessage(messageID string) (*gmail.Message, error) {
	msg, err := c.svc.Messages.Get("me", messageID).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return msg, nil
}

// GetThread retrieves a full Gmail thread with all its messages
func (c *Client) GetThread(threadID string) (*gmail.Thread, error) {
	thread, err := c.svc.Threads.Get("me", threadID).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get thread %s: %w", threadID, err)
	}
	return thread, nil
}

// ForeachThread iterates over all threads matching the query
func (c *Client) ForeachThread(q string, fn func(*gmail.Thread) error) error {
	pageToken := ""
	for {
		req := c.svc.Threads.List("me").Q(q)
		if pageToken != "" {
			req.PageToken(pageToken)
		}
		res, err := req.Do()
		if err != nil {
			return err
		}
		for _, t := range res.Threads {
			if err := fn(t); err != nil {
				return err
			}
		}
		if res.NextPageToken == "" {
			return nil
		}
		pageToken = res.NextPageToken
	}
}

// ListThreads lists threads matching the query with pagination
// It will fetch up to maxResults threads, making multiple API calls if necessary
func (c *Client) ListThreads(q string, maxResults int64) ([]*gmail.Thread, error) {
	var allThreads []*gmail.Thread
	pageToken := ""

	for {
		// Request the remaining number of threads needed
		remaining := maxResults - int64(len(allThreads))
		if remaining <= 0 {
			break
		}

		// Gmail API has a max page size, typically 100
		pageSize := remaining
		if pageSize > 100 {
			pageSize = 100
		}

		req := c.svc.Threads.List("me").Q(q).MaxResults(pageSize)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		res, err := req.Do()
		if err != nil {
			return nil, err
		}

		allThreads = append(allThreads, res.Threads...)

		// If there's no next page or we have enough results, stop
		if res.NextPageToken == "" || int64(len(allThreads)) >= maxResults {
			break
		}

		pageToken = res.NextPageToken
	}

	// Trim to exact maxResults if we got more
	if int64(len(allThreads)) > maxResults {
		allThreads = allThreads[:maxResults]
	}

	return allThreads, nil
}

// ListMessages lists message IDs matching the query with pagination
func (c *Client) ListMessages(q string, maxResults int64) ([]*gmail.Message, error) {
	var allMessages []*gmail.Message
	pageToken := ""

	for {
		remaining := maxResults - int64(len(allMessages))
		if remaining <= 0 {
			break
		}

		pageSize := remaining
		if pageSize > 100 {
			pageSize = 100
		}

		req := c.svc.Messages.List("me").Q(q).MaxResults(pageSize)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		res, err := req.Do()
		if err != nil {
			return nil, err
		}

		allMessages = append(allMessages, res.Messages...)

		if res.NextPageToken == "" || int64(len(allMessages)) >= maxResults {
			break
		}

		pageToken = res.NextPageToken
	}

	if int64(len(allMessages)) > maxResults {
		allMessages = allMessages[:maxResults]
	}

	return allMessages, nil
}

// EmailAddress returns the authenticated user's email address
func (c *Client) EmailAddress() (string, error) {
	profile, err := c.svc.GetProfile("me").Do()
	if err != nil {
		return "", fmt.Errorf("failed to get profile: %w", err)
	}
	return profile.EmailAddress, nil
}

// FromAddress returns the user's sending address in display form,
// "Name <addr@example.com>" when the People API yields a display name,
// or the bare address otherwise. People API failures degrade gracefully.
func (c *Client) FromAddress() (string, error) {
	email, err := c.EmailAddress()
	if err != nil {
		return "", err
	}

	person, err := c.peopleSvc.People.Get("people/me").PersonFields("names").Do()
	if err == nil && len(person.Names) > 0 && person.Names[0].DisplayName != "" {
		addr := mail.Address{Name: person.Names[0].DisplayName, Address: email}
		return addr.String(), nil
	}

	return email, nil
}

// GetSignature fetches the user's Gmail signature (primary send-as address)
// The signature is cached after the first fetch
func (c *Client) GetSignature() (string, error) {
	// Return cached signature if available
	if c.signature != "" {
		return c.signature, nil
	}

	// Fetch send-as settings to get the signature
	sendAs, err := c.svc.Settings.SendAs.Get("me", "me").Do()
	if err != nil {
		// If we can't fetch the signature, return empty string (not an error)
		// This allows drafts to be created even if signature fetching fails
		return "", nil
	}

	// Cache the signature
	if sendAs.Signature != "" {
		c.signature = sendAs.Signature
	}

	return c.signature, nil
}

// appendSignature adds the user's signature to the message body
func (c *Client) appendSignature(body string, isHTML bool) string {
	signature, err := c.GetSignature()
	if err != nil || signature == "" {
		// No signature or error fetching it, return body as-is
		return body
	}

	if isHTML {
		return body + "<br><br>-- <br>" + signature
	}

	return body + "\n\n-- \n" + signature
}
