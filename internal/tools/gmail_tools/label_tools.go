package gmail_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mailquill/mailquill/internal/instrumentation"
	"github.com/mailquill/mailquill/internal/server"
	"github.com/mailquill/mailquill/internal/tools/batch"
)

// RegisterLabelTools registers label and mailbox state tools with the MCP
// server. All of these mutate messages, so none are registered in read-only
// mode.
func RegisterLabelTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	modifyLabelsTool := mcp.NewTool("gmail_modify_labels",
		mcp.WithDescription("Add and/or remove labels on one or more Gmail messages using the batch API"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageIds",
			mcp.Required(),
			mcp.Description("Message ID (string) or array of message IDs"),
		),
		mcp.WithString("addLabelIds",
			mcp.Description("Label ID (string) or array of label IDs to add"),
		),
		mcp.WithString("removeLabelIds",
			mcp.Description("Label ID (string) or array of label IDs to remove"),
		),
	)
	addTool(s, sc, modifyLabelsTool, instrumentation.OperationUpdate, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleModifyLabels(ctx, request, sc)
	})

	archiveThreadsTool := mcp.NewTool("gmail_archive_threads",
		mcp.WithDescription("Archive one or more Gmail threads by removing them from the inbox"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("threadIds",
			mcp.Required(),
			mcp.Description("Thread ID (string) or array of thread IDs to archive"),
		),
	)
	addTool(s, sc, archiveThreadsTool, instrumentation.OperationUpdate, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleArchiveThreads(ctx, request, sc, false)
	})

	unarchiveThreadsTool := mcp.NewTool("gmail_unarchive_threads",
		mcp.WithDescription("Move one or more Gmail threads back to the inbox"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("threadIds",
			mcp.Required(),
			mcp.Description("Thread ID (string) or array of thread IDs to unarchive"),
		),
	)
	addTool(s, sc, unarchiveThreadsTool, instrumentation.OperationUpdate, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleArchiveThreads(ctx, request, sc, true)
	})

	trashMessagesTool := mcp.NewTool("gmail_trash_messages",
		mcp.WithDescription("Move one or more Gmail messages to the trash"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageIds",
			mcp.Required(),
			mcp.Description("Message ID (string) or array of message IDs to trash"),
		),
	)
	addTool(s, sc, trashMessagesTool, instrumentation.OperationDelete, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleTrashMessages(ctx, request, sc)
	})

	markReadTool := mcp.NewTool("gmail_mark_read",
		mcp.WithDescription("Mark one or more Gmail messages as read"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageIds",
			mcp.Required(),
			mcp.Description("Message ID (string) or array of message IDs"),
		),
	)
	addTool(s, sc, markReadTool, instrumentation.OperationUpdate, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleBatchLabelOp(ctx, request, sc, "marked read", nil, []string{"UNREAD"})
	})

	markUnreadTool := mcp.NewTool("gmail_mark_unread",
		mcp.WithDescription("Mark one or more Gmail messages as unread"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageIds",
			mcp.Required(),
			mcp.Description("Message ID (string) or array of message IDs"),
		),
	)
	addTool(s, sc, markUnreadTool, instrumentation.OperationUpdate, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleBatchLabelOp(ctx, request, sc, "marked unread", []string{"UNREAD"}, nil)
	})

	starTool := mcp.NewTool("gmail_star_messages",
		mcp.WithDescription("Star one or more Gmail messages"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageIds",
			mcp.Required(),
			mcp.Description("Message ID (string) or array of message IDs"),
		),
	)
	addTool(s, sc, starTool, instrumentation.OperationUpdate, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleBatchLabelOp(ctx, request, sc, "starred", []string{"STARRED"}, nil)
	})

	unstarTool := mcp.NewTool("gmail_unstar_messages",
		mcp.WithDescription("Remove the star from one or more Gmail messages"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageIds",
			mcp.Required(),
			mcp.Description("Message ID (string) or array of message IDs"),
		),
	)
	addTool(s, sc, unstarTool, instrumentation.OperationUpdate, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleBatchLabelOp(ctx, request, sc, "unstarred", nil, []string{"STARRED"})
	})

	return nil
}

func handleModifyLabels(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	messageIDs, err := batch.ParseStringOrArray(args["messageIds"], "messageIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var addLabelIDs, removeLabelIDs []string
	if args["addLabelIds"] != nil {
		if addLabelIDs, err = batch.ParseStringOrArray(args["addLabelIds"], "addLabelIds"); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if args["removeLabelIds"] != nil {
		if removeLabelIDs, err = batch.ParseStringOrArray(args["removeLabelIds"], "removeLabelIds"); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if len(addLabelIDs) == 0 && len(removeLabelIDs) == 0 {
		return mcp.NewToolResultError("at least one of addLabelIds or removeLabelIds is required"), nil
	}

	client, errResult := getClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	processed, err := client.BatchModifyLabels(ctx, messageIDs, addLabelIDs, removeLabelIDs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to modify labels (processed %d): %v", processed, err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Modified labels on %d message(s)", processed)), nil
}

func handleArchiveThreads(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext, unarchive bool) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	threadIDs, err := batch.ParseStringOrArray(args["threadIds"], "threadIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := getClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	verb := "archived"
	op := client.ArchiveThread
	if unarchive {
		verb = "unarchived"
		op = client.UnarchiveThread
	}

	results := batch.ProcessBatch(threadIDs, func(threadID string) (string, error) {
		if err := op(ctx, threadID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Thread %s %s successfully", threadID, verb), nil
	})

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

func handleTrashMessages(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	messageIDs, err := batch.ParseStringOrArray(args["messageIds"], "messageIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := getClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	processed, err := client.TrashMessages(ctx, messageIDs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to trash messages (processed %d): %v", processed, err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Moved %d message(s) to trash", processed)), nil
}

// handleBatchLabelOp handles the fixed-label batch tools (read/unread, star).
func handleBatchLabelOp(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext, verb string, addLabelIDs, removeLabelIDs []string) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	messageIDs, err := batch.ParseStringOrArray(args["messageIds"], "messageIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := getClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	processed, err := client.BatchModifyLabels(ctx, messageIDs, addLabelIDs, removeLabelIDs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed: %d message(s) %s before error: %v", processed, verb, err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%d message(s) %s", processed, verb)), nil
}
