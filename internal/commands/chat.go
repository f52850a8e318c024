package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/diogo/codexside/internal/logger"
)

func newChatCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the chat panel",
		Long: `Start the interactive chat panel.

Prompts are sent to codex together with the conversation so far. Type
/help for the slash commands; press Esc or Ctrl+C to quit.

Settings edited with 'codexside config' in another terminal apply to the
next run without restarting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps, opts)
		},
	}
}

func runChat(cmd *cobra.Command, deps *Dependencies, opts *rootOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log, closeLog := chatLogger(deps)
	defer closeLog()

	provider, src, err := loadSettings(cmd, deps, opts, log)
	if err != nil {
		return err
	}
	log = log.Level(logger.ParseLevel(provider.Settings().LogLevel))

	ws, err := openVault(deps, src.Settings(), opts)
	if err != nil {
		return err
	}

	if err := provider.Watch(ctx); err != nil {
		log.Warn().Err(err).Msg("settings will not reload automatically")
	}

	if err := deps.RunChat(ctx, src, ws, log); err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}
	return nil
}

// chatLogger writes JSON lines to the log file. Stderr is not an option
// while the alternate screen is active.
func chatLogger(deps *Dependencies) (zerolog.Logger, func()) {
	if deps.LogPath == nil {
		return zerolog.Nop(), func() {}
	}
	path, err := deps.LogPath()
	if err != nil {
		return zerolog.Nop(), func() {}
	}
	f, err := logger.OpenFile(path)
	if err != nil {
		fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Logging disabled"))
		return zerolog.Nop(), func() {}
	}

	return logger.Configure(string(logger.LevelDebug), f, false), func() { f.Close() }
}
