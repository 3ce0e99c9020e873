package gmail_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mailquill/mailquill/internal/gmail"
	"github.com/mailquill/mailquill/internal/instrumentation"
	"github.com/mailquill/mailquill/internal/server"
)

// RegisterDraftTools registers draft-related tools with the MCP server.
// Draft creation, update, send, and delete are write operations and are
// skipped when readOnly is set; listing and reading drafts are always
// available.
func RegisterDraftTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listDraftsTool := mcp.NewTool("gmail_list_drafts",
		mcp.WithDescription("List Gmail drafts with recipients and subjects"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of drafts to return (default: 10)"),
		),
	)
	addTool(s, sc, listDraftsTool, instrumentation.OperationList, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListDrafts(ctx, request, sc)
	})

	getDraftTool := mcp.NewTool("gmail_get_draft",
		mcp.WithDescription("Get a Gmail draft including its current body"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("draftId",
			mcp.Required(),
			mcp.Description("The ID of the draft"),
		),
	)
	addTool(s, sc, getDraftTool, instrumentation.OperationGet, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetDraft(ctx, request, sc)
	})

	if readOnly {
		return nil
	}

	createDraftTool := mcp.NewTool("gmail_create_draft",
		mcp.WithDescription("Create a new Gmail draft. The user's signature is appended automatically."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Recipient email address(es), comma-separated for multiple recipients"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Email subject"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Plain text email body"),
		),
		mcp.WithString("cc",
			mcp.Description("CC email address(es), comma-separated"),
		),
		mcp.WithString("bcc",
			mcp.Description("BCC email address(es), comma-separated"),
		),
	)
	addTool(s, sc, createDraftTool, instrumentation.OperationCreate, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCreateDraft(ctx, request, sc)
	})

	replyDraftTool := mcp.NewTool("gmail_create_reply_draft",
		mcp.WithDescription("Create a reply draft for a Gmail message, quoting the original and keeping the conversation threaded"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The ID of the message to reply to"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("The reply text, placed above the quoted original"),
		),
		mcp.WithBoolean("replyAll",
			mcp.Description("CC all original recipients (default: false)"),
		),
		mcp.WithString("cc",
			mcp.Description("Explicit CC list, overriding the auto-detected recipients"),
		),
	)
	addTool(s, sc, replyDraftTool, instrumentation.OperationCreate, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCreateReplyDraft(ctx, request, sc)
	})

	forwardDraftTool := mcp.NewTool("gmail_create_forward_draft",
		mcp.WithDescription("Create a forward draft for a Gmail message, carrying over its attachments"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The ID of the message to forward"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Recipient email address(es), comma-separated"),
		),
		mcp.WithString("body",
			mcp.Description("Optional text placed above the forwarded content"),
		),
	)
	addTool(s, sc, forwardDraftTool, instrumentation.OperationCreate, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCreateForwardDraft(ctx, request, sc)
	})

	updateDraftTool := mcp.NewTool("gmail_update_draft",
		mcp.WithDescription("Replace a draft's body while preserving its recipients, subject, and threading"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("draftId",
			mcp.Required(),
			mcp.Description("The ID of the draft to update"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("The new plain text body"),
		),
	)
	addTool(s, sc, updateDraftTool, instrumentation.OperationUpdate, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleUpdateDraft(ctx, request, sc)
	})

	sendDraftTool := mcp.NewTool("gmail_send_draft",
		mcp.WithDescription("Send an existing Gmail draft"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("draftId",
			mcp.Required(),
			mcp.Description("The ID of the draft to send"),
		),
	)
	addTool(s, sc, sendDraftTool, instrumentation.OperationSend, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSendDraft(ctx, request, sc)
	})

	deleteDraftTool := mcp.NewTool("gmail_delete_draft",
		mcp.WithDescription("Permanently delete a Gmail draft"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("draftId",
			mcp.Required(),
			mcp.Description("The ID of the draft to delete"),
		),
	)
	addTool(s, sc, deleteDraftTool, instrumentation.OperationDelete, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDeleteDraft(ctx, request, sc)
	})

	return nil
}

func handleListDrafts(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	maxResults := int64(10)
	if v, ok := args["maxResults"].(float64); ok {
		maxResults = int64(v)
	}

	client, errResult := getClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	drafts, err := client.ListDrafts(maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list drafts: %v", err)), nil
	}

	summaries := make([]*gmail.DraftSummary, 0, len(drafts))
	for _, d := range drafts {
		summaries = append(summaries, gmail.SummarizeDraft(d))
	}

	out, err := toJSON(summaries)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Found %d draft(s):\n%s", len(summaries), out)), nil
}

func handleGetDraft(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	draftID, ok := args["draftId"].(string)
	if !ok || draftID == "" {
		return mcp.NewToolResultError("draftId is required"), nil
	}

	client, errResult := getClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	draft, err := client.GetDraft(draftID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get draft: %v", err)), nil
	}

	summary := gmail.SummarizeDraft(draft)
	body := ""
	if draft.Message != nil {
		body = gmail.ExtractBody(draft.Message.Payload)
	}

	out, err := toJSON(struct {
		Draft *gmail.DraftSummary `json:"draft"`
		Body  string              `json:"body"`
	}{summary, body})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func handleCreateDraft(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	to, ok := args["to"].(string)
	if !ok || to == "" {
		return mcp.NewToolResultError("to is required"), nil
	}
	subject, ok := args["subject"].(string)
	if !ok {
		return mcp.NewToolResultError("subject is required"), nil
	}
	body, ok := args["body"].(string)
	if !ok {
		return mcp.NewToolResultError("body is required"), nil
	}

	cc, _ := args["cc"].(string)
	bcc, _ := args["bcc"].(string)

	client, errResult := getClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	draftID, url, err := client.ComposeDraft(to, cc, bcc, subject, body, nil)
	if err != nil {
		if gmail.IsUsageError(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create draft: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Draft created.\nDraft ID: %s\nURL: %s", draftID, url)), nil
}

func handleCreateReplyDraft(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	messageID, ok := args["messageId"].(string)
	if !ok || messageID == "" {
		return mcp.NewToolResultError("messageId is required"), nil
	}
	body, ok := args["body"].(string)
	if !ok || body == "" {
		return mcp.NewToolResultError("body is required"), nil
	}

	replyAll := false
	if v, ok := args["replyAll"].(bool); ok {
		replyAll = v
	}
	cc, _ := args["cc"].(string)

	client, errResult := getClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	draftID, url, err := client.CreateReplyDraft(messageID, body, gmail.ReplyDraftOptions{
		ReplyAll: replyAll,
		CustomCc: cc,
	})
	if err != nil {
		if gmail.IsUsageError(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create reply draft: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reply draft created.\nDraft ID: %s\nURL: %s", draftID, url)), nil
}

func handleCreateForwardDraft(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	messageID, ok := args["messageId"].(string)
	if !ok || messageID == "" {
		return mcp.NewToolResultError("messageId is required"), nil
	}
	to, ok := args["to"].(string)
	if !ok || to == "" {
		return mcp.NewToolResultError("to is required"), nil
	}
	body, _ := args["body"].(string)

	client, errResult := getClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	draftID, url, err := client.CreateForwardDraft(messageID, to, body, nil)
	if err != nil {
		if gmail.IsUsageError(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create forward draft: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Forward draft created.\nDraft ID: %s\nURL: %s", draftID, url)), nil
}

func handleUpdateDraft(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	draftID, ok := args["draftId"].(string)
	if !ok || draftID == "" {
		return mcp.NewToolResultError("draftId is required"), nil
	}
	body, ok := args["body"].(string)
	if !ok || body == "" {
		return mcp.NewToolResultError("body is required"), nil
	}

	client, errResult := getClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	id, url, err := client.UpdateDraft(draftID, body)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update draft: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Draft updated.\nDraft ID: %s\nURL: %s", id, url)), nil
}

func handleSendDraft(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	draftID, ok := args["draftId"].(string)
	if !ok || draftID == "" {
		return mcp.NewToolResultError("draftId is required"), nil
	}

	client, errResult := getClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	messageID, err := client.SendDraft(draftID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to send draft: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Draft sent.\nMessage ID: %s", messageID)), nil
}

func handleDeleteDraft(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	draftID, ok := args["draftId"].(string)
	if !ok || draftID == "" {
		return mcp.NewToolResultError("draftId is required"), nil
	}

	client, errResult := getClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	if err := client.DeleteDraft(draftID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete draft: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Draft %s deleted.", draftID)), nil
}
