package history

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/codexside/internal/models"
)

// ExportFormat represents the format for exporting a transcript
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ExportOptions configures how a transcript is exported
type ExportOptions struct {
	Format       ExportFormat
	Title        string
	IncludeDebug bool // Include debug traces inside <details> blocks
}

// DefaultExportOptions returns sensible defaults for export
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format:       ExportFormatMarkdown,
		Title:        "Codex chat",
		IncludeDebug: false,
	}
}

// FormatForPath picks the export format from a file extension
func FormatForPath(path string) ExportFormat {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ExportFormatJSON
	}
	return ExportFormatMarkdown
}

// Export renders messages in the format selected by opts
func Export(msgs []models.Message, opts ExportOptions) ([]byte, error) {
	if opts.Format == ExportFormatJSON {
		return ExportJSON(msgs, opts)
	}
	return []byte(ExportMarkdown(msgs, opts)), nil
}

// ExportMarkdown renders messages as a Markdown transcript
func ExportMarkdown(msgs []models.Message, opts ExportOptions) string {
	var sb strings.Builder

	title := opts.Title
	if title == "" {
		title = DefaultExportOptions().Title
	}

	// Header
	sb.WriteString("# ")
	sb.WriteString(title)
	sb.WriteString("\n\n")

	if len(msgs) > 0 {
		sb.WriteString("**Started:** ")
		sb.WriteString(msgs[0].CreatedAt.Format("2006-01-02 15:04:05"))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n\n---\n\n", countConversational(msgs)))

	var sections []string
	for _, msg := range msgs {
		if section, ok := markdownSection(msg, opts); ok {
			sections = append(sections, section)
		}
	}
	sb.WriteString(strings.Join(sections, "\n---\n\n"))

	return sb.String()
}

func markdownSection(msg models.Message, opts ExportOptions) (string, bool) {
	var sb strings.Builder

	switch msg.Role {
	case models.RoleUser, models.RoleAssistant:
		sb.WriteString("## ")
		if msg.Role == models.RoleUser {
			sb.WriteString("User")
		} else {
			sb.WriteString("Assistant")
		}
		if !msg.CreatedAt.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.CreatedAt.Format("15:04:05"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	case models.RoleDebug:
		if !opts.IncludeDebug {
			return "", false
		}
		sb.WriteString("<details>\n<summary>Debug</summary>\n\n```\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n```\n\n</details>\n")
	case models.RoleSystem:
		sb.WriteString("_")
		sb.WriteString(msg.Content)
		sb.WriteString("_\n")
	default:
		return "", false
	}

	return sb.String(), true
}

func countConversational(msgs []models.Message) int {
	n := 0
	for _, msg := range msgs {
		if msg.Role.Conversational() {
			n++
		}
	}
	return n
}

// ExportJSON renders messages as an indented JSON document
func ExportJSON(msgs []models.Message, opts ExportOptions) ([]byte, error) {
	type exportMessage struct {
		ID        string    `json:"id"`
		Role      string    `json:"role"`
		Content   string    `json:"content"`
		Timestamp time.Time `json:"timestamp"`
	}

	type exportTranscript struct {
		Title    string          `json:"title"`
		Messages []exportMessage `json:"messages"`
	}

	title := opts.Title
	if title == "" {
		title = DefaultExportOptions().Title
	}

	export := exportTranscript{
		Title:    title,
		Messages: make([]exportMessage, 0, len(msgs)),
	}

	for _, msg := range msgs {
		if msg.Role == models.RoleDebug && !opts.IncludeDebug {
			continue
		}
		export.Messages = append(export.Messages, exportMessage{
			ID:        msg.ID,
			Role:      msg.Role.String(),
			Content:   msg.Content,
			Timestamp: msg.CreatedAt,
		})
	}

	return json.MarshalIndent(export, "", "  ")
}
