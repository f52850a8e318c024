package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/codexside/internal/history"
)

// slashHelp lists the composer commands in display order.
var slashHelp = []struct {
	usage string
	desc  string
}{
	{"/new", "start a new chat"},
	{"/note <path>", "open a note (no path shows the current one)"},
	{"/cd [dir]", "set the working directory (no dir resets to the vault root)"},
	{"/attach <path>", "insert a file or PDF as text"},
	{"/copy", "copy the last reply"},
	{"/export <path>", "save the transcript (.md or .json)"},
	{"/debug", "show or hide debug traces"},
	{"/quit", "leave the panel"},
}

var slashNames = map[string]bool{
	"new": true, "note": true, "cd": true, "attach": true, "copy": true,
	"export": true, "debug": true, "quit": true, "exit": true, "help": true,
}

// parseSlash splits "/name arg" when name is a known command. Other input
// starting with a slash is sent as a prompt.
func parseSlash(input string) (name, arg string, ok bool) {
	if !strings.HasPrefix(input, "/") {
		return "", "", false
	}
	head, rest, _ := strings.Cut(input[1:], " ")
	name = strings.ToLower(strings.TrimSpace(head))
	if !slashNames[name] {
		return "", "", false
	}
	return name, strings.TrimSpace(rest), true
}

func (m *Model) runSlash(name, arg string) tea.Cmd {
	m.textarea.Reset()

	switch name {
	case "new":
		m.orch.StartNewChat()
		m.refresh()
		return nil

	case "note":
		return m.slashNote(arg)

	case "cd":
		if arg == "" {
			m.orch.ResetCwd()
		} else {
			m.orch.SetCwd(arg)
		}
		return m.setNotice("cwd: "+m.orch.CwdDisplay(), false)

	case "attach":
		return m.slashAttach(arg)

	case "copy":
		return m.copyLastReply()

	case "export":
		return m.slashExport(arg)

	case "debug":
		m.showDebug = !m.showDebug
		m.refresh()
		return nil

	case "quit", "exit":
		m.orch.Cancel()
		return tea.Quit

	case "help":
		parts := make([]string, 0, len(slashHelp))
		for _, h := range slashHelp {
			parts = append(parts, h.usage)
		}
		return m.setNotice("Commands: "+strings.Join(parts, "  "), false)
	}
	return nil
}

func (m *Model) slashNote(arg string) tea.Cmd {
	if arg == "" {
		note, ok := m.ws.CurrentNote()
		if !ok {
			return m.setNotice("No note is open.", false)
		}
		return m.setNotice("Current note: "+m.displayPath(note), false)
	}
	if err := m.ws.SetCurrentNote(arg); err != nil {
		m.log.Warn().Err(err).Str("path", arg).Msg("open note failed")
		return m.setNotice(err.Error(), true)
	}
	note, _ := m.ws.CurrentNote()
	return m.setNotice("Current note: "+m.displayPath(note), false)
}

func (m *Model) slashAttach(arg string) tea.Cmd {
	if arg == "" {
		return m.setNotice("Usage: /attach <path>", false)
	}
	text, err := m.ws.ReadAttachment(arg)
	if err != nil {
		m.log.Warn().Err(err).Str("path", arg).Msg("attachment failed")
		return m.setNotice(fmt.Sprintf("Could not attach %s: %v", arg, err), true)
	}
	m.textarea.SetValue(attachmentBlock(filepath.Base(arg), text))
	return m.setNotice("Attached "+arg, false)
}

func (m *Model) slashExport(arg string) tea.Cmd {
	if arg == "" {
		return m.setNotice("Usage: /export <path>", false)
	}
	path := arg
	if !filepath.IsAbs(path) {
		if root := m.ws.VaultRoot(); root != "" {
			path = filepath.Join(root, path)
		}
	}

	msgs := m.orch.Store().Messages()
	opts := history.DefaultExportOptions()
	opts.Format = history.FormatForPath(path)
	opts.IncludeDebug = m.showDebug

	data, err := history.Export(msgs, opts)
	if err == nil {
		err = os.MkdirAll(filepath.Dir(path), 0o755)
	}
	if err == nil {
		err = os.WriteFile(path, data, 0o644)
	}
	if err != nil {
		m.log.Error().Err(err).Str("path", path).Msg("export failed")
		return m.setNotice(fmt.Sprintf("Export failed: %v", err), true)
	}
	m.log.Info().Str("path", path).Int("messages", len(msgs)).Msg("transcript exported")
	return m.setNotice("Exported transcript to "+m.displayPath(path), false)
}

func (m *Model) displayPath(path string) string {
	if rel, ok := m.ws.Rel(path); ok && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

// attachmentBlock wraps text in a fence longer than any backtick run inside it.
func attachmentBlock(name, text string) string {
	fence := "```"
	for strings.Contains(text, fence) {
		fence += "`"
	}
	return fmt.Sprintf("Attached file: %s\n%s\n%s\n%s\n", name, fence, strings.TrimRight(text, "\n"), fence)
}
