package cmd

import (
	"context"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mailquill/mailquill/internal/server"
)

func registeredToolNames(t *testing.T, readOnly bool) map[string]bool {
	t.Helper()

	ctx := context.Background()
	serverContext, err := server.NewServerContext(ctx)
	if err != nil {
		t.Fatalf("NewServerContext: %v", err)
	}
	defer func() {
		_ = serverContext.Shutdown()
	}()

	mcpSrv := mcpserver.NewMCPServer("mailquill", "test",
		mcpserver.WithToolCapabilities(true),
	)

	if err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		t.Fatalf("registerAllTools: %v", err)
	}

	names := make(map[string]bool)
	for _, st := range mcpSrv.ListTools() {
		names[st.Tool.Name] = true
	}
	return names
}

func TestRegisterAllToolsReadOnly(t *testing.T) {
	names := registeredToolNames(t, true)

	for _, want := range []string{
		"google_get_auth_url",
		"google_save_auth_code",
		"gmail_search_threads",
		"gmail_get_thread",
		"gmail_get_message",
		"gmail_list_attachments",
		"gmail_get_attachment",
		"gmail_get_message_bodies",
		"gmail_list_drafts",
		"gmail_get_draft",
	} {
		if !names[want] {
			t.Errorf("read-only mode missing tool %q", want)
		}
	}

	for _, absent := range []string{
		"gmail_create_draft",
		"gmail_create_reply_draft",
		"gmail_create_forward_draft",
		"gmail_send_draft",
		"gmail_delete_draft",
		"gmail_modify_labels",
		"gmail_trash_messages",
		"gmail_archive_threads",
	} {
		if names[absent] {
			t.Errorf("read-only mode should not register tool %q", absent)
		}
	}
}

func TestRegisterAllToolsWriteMode(t *testing.T) {
	names := registeredToolNames(t, false)

	for _, want := range []string{
		"gmail_create_draft",
		"gmail_create_reply_draft",
		"gmail_create_forward_draft",
		"gmail_update_draft",
		"gmail_send_draft",
		"gmail_delete_draft",
		"gmail_modify_labels",
		"gmail_archive_threads",
		"gmail_unarchive_threads",
		"gmail_trash_messages",
		"gmail_mark_read",
		"gmail_mark_unread",
		"gmail_star_messages",
		"gmail_unstar_messages",
	} {
		if !names[want] {
			t.Errorf("write mode missing tool %q", want)
		}
	}
}
