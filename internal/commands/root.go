// Package commands provides CLI commands for codexside.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/diogo/codexside/internal/config"
	"github.com/diogo/codexside/internal/logger"
	"github.com/diogo/codexside/internal/vault"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootOptions holds the flags shared by the root command and chat.
type rootOptions struct {
	exe          string
	mock         bool
	vault        string
	note         string
	skipGitCheck bool

	file    string
	output  string
	copy    bool
	verbose bool
	version bool
}

// NewRootCmd builds the command tree.
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "codexside [prompt]",
		Short: "Chat panel for the Codex CLI",
		Long: `codexside forwards prompts to the codex CLI, streams its output and
renders the replies as Markdown. The vault is the directory of notes the
runs are attached to.

Examples:
  codexside chat                        Start the chat panel
  codexside config                      Configure settings
  codexside "Summarise this note"       Run a single prompt
  codexside -f prompt.md                Read prompt from file
  cat prompt.md | codexside             Read prompt from stdin
  codexside "Hello" -o reply.md         Save the reply to file`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.version {
				fmt.Fprintf(deps.Stdout, "codexside %s (built %s)\n", Version, BuildTime)
				return nil
			}

			prompt, ok, err := readPrompt(deps, opts, args)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}
			return runQuery(cmd, deps, opts, prompt)
		},
	}
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.exe, "exe", "", "Path to the codex executable")
	pf.BoolVar(&opts.mock, "mock", false, "Fake runs without starting codex")
	pf.StringVar(&opts.vault, "vault", "", "Vault root directory (default: settings, then the current directory)")
	pf.StringVar(&opts.note, "note", "", "Current note, relative to the vault root")
	pf.BoolVar(&opts.skipGitCheck, "skip-git-check", false, "Pass --skip-git-repo-check to codex")

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read prompt from file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save reply to file")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "Copy the reply to the clipboard")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Log to stderr and print the debug trace on failure")
	cmd.Flags().BoolVarP(&opts.version, "version", "v", false, "Show version and exit")

	cmd.AddCommand(newChatCmd(deps, opts))
	cmd.AddCommand(newConfigCmd(deps))

	return cmd
}

// readPrompt picks the prompt source: file, then piped stdin, then the
// positional argument. ok is false when there is none.
func readPrompt(deps *Dependencies, opts *rootOptions, args []string) (string, bool, error) {
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if deps.StdinPiped != nil && deps.StdinPiped() {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}
	return "", false, nil
}

// loadSettings opens the settings file and layers the changed flags on
// top of it. A malformed file is reported and defaults are used.
func loadSettings(cmd *cobra.Command, deps *Dependencies, opts *rootOptions, log zerolog.Logger) (*config.Provider, config.Source, error) {
	path, err := deps.ConfigPath()
	if err != nil {
		return nil, nil, err
	}
	provider, err := config.NewProvider(path, log)
	if err != nil {
		fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Using default settings"))
	}
	return provider, config.WithOverrides(provider, flagOverrides(cmd, opts)...), nil
}

// flagOverrides turns the flags the user actually set into overrides.
func flagOverrides(cmd *cobra.Command, opts *rootOptions) []config.Override {
	flags := cmd.Flags()
	var overrides []config.Override

	if flags.Changed("exe") {
		exe := opts.exe
		overrides = append(overrides, func(s *config.Settings) { s.CodexExecutablePath = exe })
	}
	if flags.Changed("mock") {
		mock := opts.mock
		overrides = append(overrides, func(s *config.Settings) { s.MockRun = mock })
	}
	if flags.Changed("skip-git-check") {
		skip := opts.skipGitCheck
		overrides = append(overrides, func(s *config.Settings) { s.SkipGitRepoCheck = skip })
	}
	if flags.Changed("vault") {
		root := opts.vault
		overrides = append(overrides, func(s *config.Settings) { s.VaultRoot = root })
	}
	return overrides
}

// openVault resolves the vault root (flag, then settings, then the working
// directory) and selects the current note.
func openVault(deps *Dependencies, s config.Settings, opts *rootOptions) (*vault.Vault, error) {
	root := strings.TrimSpace(s.VaultRoot)
	if root == "" && deps.Getwd != nil {
		if wd, err := deps.Getwd(); err == nil {
			root = wd
		}
	}

	v, err := vault.New(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault: %w", err)
	}
	if opts.note != "" {
		if err := v.SetCurrentNote(opts.note); err != nil {
			return nil, fmt.Errorf("failed to select note: %w", err)
		}
	}
	return v, nil
}

// stderrLogger logs to stderr when verbose and discards otherwise.
func stderrLogger(deps *Dependencies, opts *rootOptions) zerolog.Logger {
	if !opts.verbose {
		return zerolog.Nop()
	}
	return logger.Configure(string(logger.LevelDebug), deps.Stderr, true)
}

// exitCode maps an Execute error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errRunCancelled):
		return 130
	default:
		return 1
	}
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := NewDependencies()
	err := NewRootCmd(deps).ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errRunFailed) && !errors.Is(err, errRunCancelled) {
		fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Error"))
	}
	if code := exitCode(err); code != 0 {
		stop()
		os.Exit(code)
	}
}
