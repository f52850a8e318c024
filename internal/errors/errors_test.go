package errors

import (
	"errors"
	"fmt"
	"os/exec"
	"testing"
)

func TestSpawnError(t *testing.T) {
	err := NewSpawnError("codex", exec.ErrNotFound, true)

	if err == nil {
		t.Fatal("Expected non-nil error")
	}

	expected := "spawn codex ENOENT: executable not found"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if !errors.Is(err, ErrSpawnFailed) {
		t.Error("Expected error to match ErrSpawnFailed")
	}

	if !errors.Is(err, exec.ErrNotFound) {
		t.Error("Expected error to unwrap to exec.ErrNotFound")
	}

	stdErr := errors.New("standard error")
	if err.Is(stdErr) {
		t.Error("Expected error not to match standard error")
	}
}

func TestSpawnErrorGeneric(t *testing.T) {
	err := NewSpawnError("codex", errors.New("permission denied"), false)

	expected := "spawn codex: permission denied"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if IsNotFoundError(err) {
		t.Error("Expected permission failure not to classify as not found")
	}

	if !IsSpawnError(err) {
		t.Error("Expected IsSpawnError to be true")
	}

	noCause := NewSpawnError("codex", nil, false)
	if noCause.Error() != "spawn codex: failed to start" {
		t.Errorf("Error() = %s, want spawn codex: failed to start", noCause.Error())
	}
}

func TestClassifySpawnFailure(t *testing.T) {
	tests := []struct {
		text string
		want SpawnFailure
	}{
		{"spawn codex ENOENT", SpawnFailureNotFound},
		{"exec: \"codex\": executable file not found in $PATH", SpawnFailureNotFound},
		{"fork/exec /opt/codex: no such file or directory", SpawnFailureNotFound},
		{"permission denied", SpawnFailureGeneric},
		{"", SpawnFailureGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := ClassifySpawnFailure(tt.text); got != tt.want {
				t.Errorf("ClassifySpawnFailure(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"typed", NewSpawnError("codex", nil, true), true},
		{"wrapped typed", fmt.Errorf("run: %w", NewSpawnError("codex", nil, true)), true},
		{"plain text", errors.New("spawn codex ENOENT"), true},
		{"other", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFoundError(tt.err); got != tt.want {
				t.Errorf("IsNotFoundError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPDFError(t *testing.T) {
	cause := errors.New("malformed xref")
	err := NewPDFError("failed to parse PDF", cause)

	expected := "pdf error: failed to parse PDF: malformed xref"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if !errors.Is(err, cause) {
		t.Error("Expected PDFError to unwrap to its cause")
	}

	if !IsPDFError(err) {
		t.Error("Expected IsPDFError to be true")
	}

	if !IsPDFError(ErrPDFTooLarge) {
		t.Error("Expected ErrPDFTooLarge to classify as a PDF error")
	}

	bare := NewPDFError("no pages", nil)
	if bare.Error() != "pdf error: no pages" {
		t.Errorf("Error() = %s, want pdf error: no pages", bare.Error())
	}
}

func TestConfigError(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := NewConfigError("/tmp/config.json", cause)

	expected := "config error at /tmp/config.json: unexpected end of JSON input"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if !IsConfigError(fmt.Errorf("load: %w", err)) {
		t.Error("Expected wrapped ConfigError to be detected")
	}

	if IsConfigError(cause) {
		t.Error("Expected plain error not to be a ConfigError")
	}
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrEmptyPrompt,
		ErrRunInProgress,
		ErrNoCurrentNote,
		ErrSpawnFailed,
		ErrPDFTooLarge,
		ErrAttachmentTooLarge,
		ErrOutsideVault,
	}

	for i, a := range sentinels {
		if a.Error() == "" {
			t.Errorf("sentinel %d has empty message", i)
		}
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %v should not match %v", a, b)
			}
		}
	}
}
