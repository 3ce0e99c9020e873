package gmail_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mailquill/mailquill/internal/gmail"
	"github.com/mailquill/mailquill/internal/google"
	"github.com/mailquill/mailquill/internal/instrumentation"
	"github.com/mailquill/mailquill/internal/server"
	"github.com/mailquill/mailquill/internal/tools/common"
)

// getAccountFromArgs extracts the account name from request arguments, defaulting to "default"
func getAccountFromArgs(args map[string]interface{}) string {
	return common.GetAccountFromArgs(args)
}

// getClient returns the Gmail client for the account, or an error result
// telling the user how to authenticate. The second return value is non-nil
// exactly when the client is nil.
func getClient(ctx context.Context, sc *server.ServerContext, account string) (*gmail.Client, *mcp.CallToolResult) {
	client := sc.GmailClientForAccount(account)
	if client != nil {
		return client, nil
	}

	if !gmail.HasTokenForAccount(account) {
		return nil, mcp.NewToolResultError(google.GetAuthenticationErrorMessage(account) +
			". Alternatively call the google_get_auth_url tool and complete the flow with google_save_auth_code.")
	}

	client, err := gmail.NewClientForAccount(ctx, account)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("Failed to create Gmail client for account %s: %v", account, err))
	}
	sc.SetGmailClientForAccount(account, client)
	return client, nil
}

// toJSON marshals a value for structured tool output
func toJSON(v interface{}) (string, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format output: %w", err)
	}
	return string(jsonBytes), nil
}

// addTool registers a tool with metrics and audit instrumentation applied
func addTool(
	s *mcpserver.MCPServer,
	sc *server.ServerContext,
	tool mcp.Tool,
	operation string,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) {
	s.AddTool(tool, common.InstrumentedToolHandlerWithService(
		tool.Name, instrumentation.ServiceGmail, operation, sc, handler))
}

// RegisterGmailTools registers all Gmail-related tools with the MCP server.
// Write operations (drafts, labels, trash) are skipped when readOnly is set.
func RegisterGmailTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := RegisterThreadTools(s, sc); err != nil {
		return fmt.Errorf("failed to register thread tools: %w", err)
	}

	if err := RegisterAttachmentTools(s, sc); err != nil {
		return fmt.Errorf("failed to register attachment tools: %w", err)
	}

	if err := RegisterDraftTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register draft tools: %w", err)
	}

	if err := RegisterLabelTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register label tools: %w", err)
	}

	return nil
}

// RegisterThreadTools registers thread and message read tools with the MCP server
func RegisterThreadTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	searchThreadsTool := mcp.NewTool("gmail_search_threads",
		mcp.WithDescription("Search Gmail threads matching a query, returning compact thread summaries"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Gmail search query (e.g., 'in:inbox', 'from:user@example.com')"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of results to return (default: 10)"),
		),
	)
	addTool(s, sc, searchThreadsTool, instrumentation.OperationSearch, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSearchThreads(ctx, request, sc)
	})

	getThreadTool := mcp.NewTool("gmail_get_thread",
		mcp.WithDescription("Get a Gmail thread with summaries of every message in the conversation"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("threadId",
			mcp.Required(),
			mcp.Description("The ID of the thread to fetch"),
		),
		mcp.WithBoolean("includeBodies",
			mcp.Description("Include decoded message bodies in the output (default: false)"),
		),
	)
	addTool(s, sc, getThreadTool, instrumentation.OperationGet, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetThread(ctx, request, sc)
	})

	getMessageTool := mcp.NewTool("gmail_get_message",
		mcp.WithDescription("Get a single Gmail message as a compact summary"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The ID of the message to fetch"),
		),
		mcp.WithBoolean("includeBody",
			mcp.Description("Include the decoded body in the output (default: true)"),
		),
	)
	addTool(s, sc, getMessageTool, instrumentation.OperationGet, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetMessage(ctx, request, sc)
	})

	return nil
}

func handleSearchThreads(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	maxResults := int64(10)
	if maxResultsVal, ok := args["maxResults"].(float64); ok {
		maxResults = int64(maxResultsVal)
	}

	client, errResult := getClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	threads, err := client.ListThreads(query, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to search threads: %v", err)), nil
	}

	// Thread list results are stubs; fetch each in full to summarize.
	summaries := make([]*gmail.ThreadSummary, 0, len(threads))
	for _, t := range threads {
		full, err := client.GetThread(t.Id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get thread %s: %v", t.Id, err)), nil
		}
		summaries = append(summaries, gmail.SummarizeThread(full))
	}

	out, err := toJSON(summaries)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Found %d thread(s):\n%s", len(summaries), out)), nil
}

func handleGetThread(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	threadID, ok := args["threadId"].(string)
	if !ok || threadID == "" {
		return mcp.NewToolResultError("threadId is required"), nil
	}

	includeBodies := false
	if v, ok := args["includeBodies"].(bool); ok {
		includeBodies = v
	}

	client, errResult := getClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	thread, err := client.GetThread(threadID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get thread: %v", err)), nil
	}

	messages := make([]*gmail.MessageSummary, 0, len(thread.Messages))
	for _, msg := range thread.Messages {
		messages = append(messages, gmail.SummarizeMessage(msg, includeBodies))
	}

	out, err := toJSON(struct {
		Thread   *gmail.ThreadSummary    `json:"thread"`
		Messages []*gmail.MessageSummary `json:"messages"`
	}{gmail.SummarizeThread(thread), messages})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func handleGetMessage(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	messageID, ok := args["messageId"].(string)
	if !ok || messageID == "" {
		return mcp.NewToolResultError("messageId is required"), nil
	}

	includeBody := true
	if v, ok := args["includeBody"].(bool); ok {
		includeBody = v
	}

	client, errResult := getClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	msg, err := client.GetMessage(messageID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get message: %v", err)), nil
	}

	out, err := toJSON(gmail.SummarizeMessage(msg, includeBody))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}
