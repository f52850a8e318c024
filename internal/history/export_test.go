package history

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/diogo/codexside/internal/models"
)

func sampleStore() *Store {
	store := NewStore()
	store.Add(models.RoleUser, "Hello, how are you?")
	store.Add(models.RoleAssistant, "I'm doing well, thank you!")
	store.Add(models.RoleDebug, "executable: codex\nexitCode: 0")
	store.Add(models.RoleSystem, "New chat")
	return store
}

func TestExportMarkdown(t *testing.T) {
	md := ExportMarkdown(sampleStore().Messages(), DefaultExportOptions())

	if !strings.Contains(md, "# Codex chat") {
		t.Error("markdown should contain title as header")
	}
	if !strings.Contains(md, "**Messages:** 2") {
		t.Error("markdown should count conversational messages")
	}
	if !strings.Contains(md, "## User") {
		t.Error("markdown should contain User header")
	}
	if !strings.Contains(md, "## Assistant") {
		t.Error("markdown should contain Assistant header")
	}
	if !strings.Contains(md, "Hello, how are you?") {
		t.Error("markdown should contain user message")
	}
	if !strings.Contains(md, "_New chat_") {
		t.Error("markdown should contain system marker")
	}
	// Default excludes debug
	if strings.Contains(md, "executable: codex") {
		t.Error("markdown should NOT contain debug traces by default")
	}
}

func TestExportMarkdown_WithDebug(t *testing.T) {
	opts := DefaultExportOptions()
	opts.IncludeDebug = true
	opts.Title = "Session"

	md := ExportMarkdown(sampleStore().Messages(), opts)

	if !strings.Contains(md, "# Session") {
		t.Error("markdown should use custom title")
	}
	if !strings.Contains(md, "<summary>Debug</summary>") {
		t.Error("markdown should wrap debug in details")
	}
	if !strings.Contains(md, "executable: codex") {
		t.Error("markdown should contain debug traces when enabled")
	}
}

func TestExportMarkdown_Empty(t *testing.T) {
	md := ExportMarkdown(nil, ExportOptions{})

	if !strings.HasPrefix(md, "# Codex chat") {
		t.Errorf("empty export should still have a header, got %q", md)
	}
	if !strings.Contains(md, "**Messages:** 0") {
		t.Error("empty export should report zero messages")
	}
}

func TestExportJSON(t *testing.T) {
	data, err := ExportJSON(sampleStore().Messages(), DefaultExportOptions())
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("failed to parse exported JSON: %v", err)
	}

	if parsed["title"] != "Codex chat" {
		t.Errorf("title = %v, want Codex chat", parsed["title"])
	}

	messages, ok := parsed["messages"].([]interface{})
	if !ok {
		t.Fatal("messages should be an array")
	}
	if len(messages) != 3 {
		t.Errorf("expected 3 messages without debug, got %d", len(messages))
	}

	first := messages[0].(map[string]interface{})
	if first["role"] != "user" {
		t.Errorf("first role = %v, want user", first["role"])
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want ExportFormat
	}{
		{"chat.json", ExportFormatJSON},
		{"chat.JSON", ExportFormatJSON},
		{"chat.md", ExportFormatMarkdown},
		{"chat", ExportFormatMarkdown},
	}

	for _, tt := range tests {
		if got := FormatForPath(tt.path); got != tt.want {
			t.Errorf("FormatForPath(%s) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestExport_Dispatch(t *testing.T) {
	msgs := sampleStore().Messages()

	opts := DefaultExportOptions()
	opts.Format = ExportFormatJSON
	data, err := Export(msgs, opts)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !json.Valid(data) {
		t.Error("JSON export should be valid JSON")
	}

	opts.Format = ExportFormatMarkdown
	data, err = Export(msgs, opts)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.HasPrefix(string(data), "# ") {
		t.Error("Markdown export should start with a header")
	}
}
