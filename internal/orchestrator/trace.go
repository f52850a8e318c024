package orchestrator

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Placeholder values shown in the debug trace while a run is in flight.
const (
	exitRunning    = "(running)"
	exitMock       = "(mock)"
	exitSpawnError = "(spawn error)"
	exitUnknown    = "(unknown)"
	exitCancelled  = "(cancelled)"
	exitNotStarted = "(not started)"

	stderrStreaming = "(streaming)"
	errorPending    = "(none yet)"
	errorNone       = "(none)"

	noteMock      = "mockRun=true (no process spawned)"
	noteCancelled = "cancelled by user"
)

// trace is the content of a debug message: one field per line.
type trace struct {
	Executable string
	Args       []string
	Cwd        string
	AddDirs    []string
	ExitCode   string
	Stderr     string
	Error      string
	Note       string
}

func (t trace) String() string {
	cwd := t.Cwd
	if cwd == "" {
		cwd = "(undefined)"
	}
	stderr := t.Stderr
	if stderr == "" {
		stderr = "(empty)"
	}
	errText := t.Error
	if errText == "" {
		errText = errorNone
	}

	lines := []string{
		"executable: " + t.Executable,
		"args: " + jsonList(t.Args),
		"cwd: " + cwd,
		"addDirs: " + jsonList(t.AddDirs),
		"exitCode: " + t.ExitCode,
		"stderr:\n" + stderr,
		"error: " + errText,
	}
	if t.Note != "" {
		lines = append(lines, "note: "+t.Note)
	}
	return strings.Join(lines, "\n")
}

// jsonList encodes items as a compact JSON array without HTML escaping.
func jsonList(items []string) string {
	if items == nil {
		items = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return "[]"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
