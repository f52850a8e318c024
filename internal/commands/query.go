package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/codexside/internal/config"
	apierrors "github.com/diogo/codexside/internal/errors"
	"github.com/diogo/codexside/internal/models"
	"github.com/diogo/codexside/internal/orchestrator"
	"github.com/diogo/codexside/internal/render"
	"github.com/diogo/codexside/internal/runner"
)

var (
	errRunFailed    = errors.New("run failed")
	errRunCancelled = errors.New("run cancelled")
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"),
	lipgloss.Color("#feca57"),
	lipgloss.Color("#48dbfb"),
	lipgloss.Color("#ff9ff3"),
	lipgloss.Color("#54a0ff"),
	lipgloss.Color("#5f27cd"),
	lipgloss.Color("#00d2d3"),
	lipgloss.Color("#1dd1a1"),
}

var (
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorWarning  = lipgloss.Color("#e0af68")
)

// spinner handles the animated loading indicator
type spinner struct {
	w       io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

// newSpinner creates a new animated spinner writing to w
func newSpinner(w io.Writer, message string) *spinner {
	return &spinner{
		w:       w,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.w, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.w, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	fmt.Fprintf(s.w, "\r\033[K%s %s %s", spinnerChar, s.message, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.w, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner without a message
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// teeStdout copies every stdout chunk of a run to w as it arrives.
func teeStdout(run runner.Func, w io.Writer) runner.Func {
	return func(ctx context.Context, inv runner.Invocation, cb runner.Callbacks) runner.Result {
		inner := cb.OnStdout
		cb.OnStdout = func(chunk string) {
			io.WriteString(w, chunk)
			if inner != nil {
				inner(chunk)
			}
		}
		return run(ctx, inv, cb)
	}
}

// runQuery executes a single prompt and prints the reply.
//
// On a terminal a spinner runs until the reply is complete and the reply
// is rendered as Markdown. Otherwise stdout chunks are streamed raw.
func runQuery(cmd *cobra.Command, deps *Dependencies, opts *rootOptions, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return apierrors.ErrEmptyPrompt
	}

	log := stderrLogger(deps, opts)
	_, src, err := loadSettings(cmd, deps, opts, log)
	if err != nil {
		return err
	}
	settings := src.Settings()

	ws, err := openVault(deps, settings, opts)
	if err != nil {
		return err
	}

	decorated := deps.StdoutTTY() && opts.output == ""
	stream := !deps.StdoutTTY() && opts.output == ""

	run := deps.Runner
	if run == nil {
		run = runner.Run
	}
	if stream {
		run = teeStdout(run, deps.Stdout)
	}

	orch := orchestrator.New(src, ws,
		orchestrator.WithRunner(run),
		orchestrator.WithLogger(log),
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var spin *spinner
	if decorated {
		spin = newSpinner(deps.Stderr, "Codex is working")
		spin.start()
	}

	if err := orch.Submit(ctx, prompt); err != nil {
		if spin != nil {
			spin.stopWithError()
		}
		return err
	}

	store := orch.Store()
	reply, _ := store.LastOf(models.RoleAssistant)
	text := reply.Content

	switch orch.Status() {
	case models.StatusCancelled:
		if spin != nil {
			spin.stopWithError()
		}
		warn := lipgloss.NewStyle().Foreground(colorWarning).Render("⚠ " + orchestrator.MsgCancelled)
		fmt.Fprintln(deps.Stderr, warn)
		return errRunCancelled

	case models.StatusError:
		if spin != nil {
			spin.stopWithError()
		}
		fmt.Fprintln(deps.Stderr, formatErrorMessage(errors.New(text), "Run failed"))
		if opts.verbose {
			if trace, ok := store.LastOf(models.RoleDebug); ok {
				fmt.Fprintln(deps.Stderr, trace.Content)
			}
		}
		return errRunFailed
	}

	if spin != nil {
		spin.stopWithSuccess("Done")
	}

	if opts.copy || settings.CopyToClipboard {
		copyReply(deps, text)
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Reply saved to %s", opts.output),
		)
		fmt.Fprintln(deps.Stderr, successMsg)
		return nil
	}

	if decorated {
		printReply(deps, settings, text)
	} else if text != "" && !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(deps.Stdout)
	}
	return nil
}

func copyReply(deps *Dependencies, text string) {
	if err := deps.CopyText(text); err != nil {
		warnMsg := lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")).Render(
			fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
		)
		fmt.Fprintln(deps.Stderr, warnMsg)
		return
	}
	clipMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard")
	fmt.Fprintln(deps.Stderr, clipMsg)
}

// printReply renders text as Markdown inside an assistant bubble.
func printReply(deps *Dependencies, s config.Settings, text string) {
	bubbleWidth := deps.TermWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	theme, ok := render.GetTUIThemeByName(s.TUITheme)
	if !ok {
		theme = render.GetTUITheme()
	}
	label := lipgloss.NewStyle().Foreground(theme.Assistant).Bold(true).Render("✦ Codex")
	bubble := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Assistant).
		Foreground(theme.Text).
		Padding(0, 1).
		MarginTop(1).
		MarginBottom(1)

	rendered := render.MarkdownOrPlain(text, render.OptionsFromSettings(s, contentWidth))

	fmt.Fprintln(deps.Stdout)
	fmt.Fprintln(deps.Stdout, label)
	fmt.Fprintln(deps.Stdout, bubble.Width(bubbleWidth).Render(rendered))
}
