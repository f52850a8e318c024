package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apierrors "github.com/diogo/codexside/internal/errors"
)

var colorTextDim = lipgloss.Color("#565f89")

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e"))
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	var spawnErr *apierrors.SpawnError
	if errors.As(err, &spawnErr) && spawnErr.Executable != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Executable: %s", spawnErr.Executable)))
	}

	var cfgErr *apierrors.ConfigError
	if errors.As(err, &cfgErr) && cfgErr.Path != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  File: %s", cfgErr.Path)))
	}

	switch {
	case apierrors.IsNotFoundError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Install codex or set the path with 'codexside config set codex_executable_path <path>'"))
	case apierrors.IsSpawnError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: codex could not be started; check that the path is executable"))
	case apierrors.IsConfigError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Fix or delete the settings file; 'codexside config path' shows where it is"))
	case apierrors.IsPDFError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The PDF could not be read. Try exporting it as text"))
	case errors.Is(err, apierrors.ErrOutsideVault):
		sb.WriteString(dimStyle.Render("\n  Hint: Paths must be inside the vault; pass --vault to choose another root"))
	case errors.Is(err, apierrors.ErrEmptyPrompt):
		sb.WriteString(dimStyle.Render("\n  Hint: Pass a prompt as an argument, with -f, or on stdin"))
	}

	return sb.String()
}
