package commands

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/diogo/codexside/internal/config"
	"github.com/diogo/codexside/internal/runner"
	"github.com/diogo/codexside/internal/tui"
)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// StdinPiped reports whether a prompt can be read from Stdin.
	StdinPiped func() bool
	// StdoutTTY reports whether Stdout is an interactive terminal.
	StdoutTTY func() bool
	// TermWidth returns the terminal width in cells.
	TermWidth func() int

	// Runner starts the external tool. Nil means runner.Run.
	Runner runner.Func
	// CopyText writes text to the system clipboard.
	CopyText func(string) error
	// ConfigPath locates the settings file.
	ConfigPath func() (string, error)
	// LogPath locates the chat log file.
	LogPath func() (string, error)
	// Getwd is the vault root of last resort.
	Getwd func() (string, error)

	RunChat   func(ctx context.Context, src config.Source, ws tui.Workspace, log zerolog.Logger) error
	RunConfig func(store tui.SettingsStore) error
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		StdinPiped: isStdinPiped,
		StdoutTTY:  isStdoutTTY,
		TermWidth:  getTerminalWidth,
		Runner:     runner.Run,
		CopyText:   clipboard.WriteAll,
		ConfigPath: config.GetConfigPath,
		LogPath:    config.GetLogPath,
		Getwd:      os.Getwd,
		RunChat:    tui.RunChat,
		RunConfig:  tui.RunConfig,
	}
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func isStdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
