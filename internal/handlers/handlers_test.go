package handlers

import (
	"strings"
	"testing"

	tele "gopkg.in/telebot.v4"

	"contentbot/internal/catalog"
)

func TestChunkLinesRespectsLimit(t *testing.T) {
	lines := []string{
		strings.Repeat("a", 30),
		strings.Repeat("b", 30),
		strings.Repeat("c", 30),
	}

	chunks := chunkLines(lines, 70)
	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(chunks))
	}
	if got := chunks[0]; got != lines[0]+"\n"+lines[1] {
		t.Fatalf("first chunk = %q", got)
	}
	if got := chunks[1]; got != lines[2] {
		t.Fatalf("second chunk = %q", got)
	}
}

func TestChunkLinesSingleMessage(t *testing.T) {
	chunks := chunkLines([]string{"- A (ID=1)", "  - B (ID=2)"}, 3500)
	if len(chunks) != 1 {
		t.Fatalf("chunks = %d, want 1", len(chunks))
	}
	if !strings.Contains(chunks[0], "\n") {
		t.Fatal("lines should be joined with newlines")
	}
}

func TestChunkLinesEmpty(t *testing.T) {
	if chunks := chunkLines(nil, 100); chunks != nil {
		t.Fatalf("chunks = %v, want nil", chunks)
	}
}

func TestMediaFromItem(t *testing.T) {
	fileID := "file-123"
	caption := "a caption"

	sendable, err := mediaFromItem(&catalog.Item{ID: 1, Kind: catalog.KindPhoto, FileID: &fileID, Caption: &caption})
	if err != nil {
		t.Fatalf("mediaFromItem: %v", err)
	}
	photo, ok := sendable.(*tele.Photo)
	if !ok {
		t.Fatalf("sendable = %T, want *tele.Photo", sendable)
	}
	if photo.FileID != fileID || photo.Caption != caption {
		t.Fatalf("photo = %q/%q", photo.FileID, photo.Caption)
	}

	// No caption stays empty rather than panicking on the nil pointer.
	sendable, err = mediaFromItem(&catalog.Item{ID: 2, Kind: catalog.KindDocument, FileID: &fileID})
	if err != nil {
		t.Fatalf("mediaFromItem: %v", err)
	}
	doc, ok := sendable.(*tele.Document)
	if !ok {
		t.Fatalf("sendable = %T, want *tele.Document", sendable)
	}
	if doc.Caption != "" {
		t.Fatalf("caption = %q, want empty", doc.Caption)
	}

	if _, err := mediaFromItem(&catalog.Item{ID: 3, Kind: catalog.KindPhoto}); err == nil {
		t.Fatal("media without file id should error")
	}
}

func TestMDEscape(t *testing.T) {
	if got := mdEscape("a_b*c"); got != `a\_b\*c` {
		t.Fatalf("mdEscape = %q", got)
	}
	if got := mdEscape("plain"); got != "plain" {
		t.Fatalf("mdEscape = %q", got)
	}
}
