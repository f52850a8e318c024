package commands

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	apierrors "github.com/diogo/codexside/internal/errors"
)

func TestFormatErrorMessage_Nil(t *testing.T) {
	if got := formatErrorMessage(nil, "ctx"); got != "" {
		t.Fatalf("expected empty for nil error, got %s", got)
	}
}

func TestFormatErrorMessage_Hints(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "spawn not found",
			err:  apierrors.NewSpawnError("codex", exec.ErrNotFound, true),
			want: []string{"Executable: codex", "codex_executable_path"},
		},
		{
			name: "spawn failed",
			err:  apierrors.NewSpawnError("/opt/codex", os.ErrPermission, false),
			want: []string{"Executable: /opt/codex", "could not be started"},
		},
		{
			name: "not found text",
			err:  errors.New("Codex not found. Check the executable path in settings."),
			want: []string{"Hint: Install codex"},
		},
		{
			name: "config error",
			err:  apierrors.NewConfigError("/tmp/config.json", errors.New("bad json")),
			want: []string{"File: /tmp/config.json", "config path"},
		},
		{
			name: "pdf",
			err:  apierrors.ErrPDFTooLarge,
			want: []string{"PDF could not be read"},
		},
		{
			name: "outside vault",
			err:  fmt.Errorf("%w: ../x.md", apierrors.ErrOutsideVault),
			want: []string{"inside the vault"},
		},
		{
			name: "empty prompt",
			err:  apierrors.ErrEmptyPrompt,
			want: []string{"on stdin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := formatErrorMessage(tt.err, "Failed")
			if !strings.Contains(out, "Failed") {
				t.Errorf("missing context in %q", out)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("formatErrorMessage() = %q, missing %q", out, want)
				}
			}
		})
	}
}

func TestFormatErrorMessage_PlainError(t *testing.T) {
	out := formatErrorMessage(errors.New("something odd"), "Error")
	if !strings.Contains(out, "something odd") {
		t.Errorf("missing error text in %q", out)
	}
	if strings.Contains(out, "Hint") {
		t.Errorf("unexpected hint for a plain error: %q", out)
	}
}
