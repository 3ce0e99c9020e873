package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAttachments(t *testing.T) {
	dir := t.TempDir()

	txtPath := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txtPath, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	binPath := filepath.Join(dir, "blob.xyzdata")
	if err := os.WriteFile(binPath, []byte{0x01, 0x02}, 0644); err != nil {
		t.Fatal(err)
	}

	attachments, err := loadAttachments([]string{txtPath, binPath})
	if err != nil {
		t.Fatalf("loadAttachments: %v", err)
	}
	if len(attachments) != 2 {
		t.Fatalf("got %d attachments, want 2", len(attachments))
	}

	if attachments[0].Filename != "notes.txt" {
		t.Errorf("filename = %q, want notes.txt", attachments[0].Filename)
	}
	if got := attachments[0].MimeType; got != "text/plain; charset=utf-8" {
		t.Errorf("mime type = %q, want text/plain; charset=utf-8", got)
	}
	if string(attachments[0].Data) != "hello" {
		t.Errorf("data = %q, want hello", attachments[0].Data)
	}

	// Unknown extensions fall back to octet-stream.
	if got := attachments[1].MimeType; got != "application/octet-stream" {
		t.Errorf("mime type = %q, want application/octet-stream", got)
	}
}

func TestLoadAttachmentsMissingFile(t *testing.T) {
	_, err := loadAttachments([]string{filepath.Join(t.TempDir(), "nope.pdf")})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadAttachmentsEmpty(t *testing.T) {
	attachments, err := loadAttachments(nil)
	if err != nil {
		t.Fatalf("loadAttachments(nil): %v", err)
	}
	if len(attachments) != 0 {
		t.Errorf("got %d attachments, want 0", len(attachments))
	}
}
