package commands

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diogo/codexside/internal/config"
	apierrors "github.com/diogo/codexside/internal/errors"
	"github.com/diogo/codexside/internal/orchestrator"
	"github.com/diogo/codexside/internal/render"
	"github.com/diogo/codexside/internal/runner"
)

func TestRunQuery_StreamsToStdout(t *testing.T) {
	env := newTestEnv(t)

	err := env.execute(context.Background(), "--mock=false", "--exe", "fake-codex", "Explain Go")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if got := env.stdout.String(); got != "answer\n" {
		t.Errorf("stdout = %q, want %q", got, "answer\n")
	}
	if len(env.calls) != 1 {
		t.Fatalf("runner called %d times, want 1", len(env.calls))
	}
	inv := env.calls[0]
	if inv.Executable != "fake-codex" {
		t.Errorf("Executable = %q, want fake-codex", inv.Executable)
	}
	if inv.Mock() {
		t.Error("invocation is a mock run despite --mock=false")
	}
	if len(inv.Args) == 0 || inv.Args[0] != "exec" {
		t.Errorf("Args = %v, want to start with exec", inv.Args)
	}
	if last := inv.Args[len(inv.Args)-1]; !strings.Contains(last, "Explain Go") {
		t.Errorf("prompt argument = %q, want it to contain the prompt", last)
	}
	if inv.Dir != env.dir {
		t.Errorf("Dir = %q, want the vault root %q", inv.Dir, env.dir)
	}
}

func TestRunQuery_MockRun(t *testing.T) {
	env := newTestEnv(t)
	env.deps.Runner = runner.Run

	if err := env.execute(context.Background(), "--mock", "hello mock"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out := env.stdout.String()
	if !strings.Contains(out, "MOCK RESULT") || !strings.Contains(out, "hello mock") {
		t.Errorf("stdout = %q, want the mock reply", out)
	}
}

func TestRunQuery_PromptFromFile(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.dir, "prompt.md")
	if err := os.WriteFile(path, []byte("from a file\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := env.execute(context.Background(), "--mock=false", "-f", path); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(env.calls) != 1 {
		t.Fatalf("runner called %d times, want 1", len(env.calls))
	}
	if last := env.calls[0].Args[len(env.calls[0].Args)-1]; !strings.Contains(last, "from a file") {
		t.Errorf("prompt argument = %q", last)
	}
}

func TestRunQuery_MissingFile(t *testing.T) {
	env := newTestEnv(t)
	err := env.execute(context.Background(), "-f", filepath.Join(env.dir, "missing.md"))
	if err == nil || !strings.Contains(err.Error(), "failed to read file") {
		t.Errorf("err = %v, want a read failure", err)
	}
}

func TestRunQuery_PromptFromStdin(t *testing.T) {
	env := newTestEnv(t)
	env.deps.StdinPiped = func() bool { return true }
	env.deps.Stdin = strings.NewReader("piped prompt")

	if err := env.execute(context.Background(), "--mock=false"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(env.calls) != 1 {
		t.Fatalf("runner called %d times, want 1", len(env.calls))
	}
	if last := env.calls[0].Args[len(env.calls[0].Args)-1]; !strings.Contains(last, "piped prompt") {
		t.Errorf("prompt argument = %q", last)
	}
}

func TestRunQuery_EmptyPrompt(t *testing.T) {
	env := newTestEnv(t)

	err := env.execute(context.Background(), "   ")
	if !errors.Is(err, apierrors.ErrEmptyPrompt) {
		t.Errorf("err = %v, want ErrEmptyPrompt", err)
	}
	if len(env.calls) != 0 {
		t.Error("runner called for an empty prompt")
	}
}

func TestRunQuery_NonZeroExit(t *testing.T) {
	env := newTestEnv(t)
	env.deps.Runner = func(ctx context.Context, inv runner.Invocation, cb runner.Callbacks) runner.Result {
		if cb.OnStderr != nil {
			cb.OnStderr("boom")
		}
		code := 2
		return runner.Result{ExitCode: &code, Stderr: "boom"}
	}

	err := env.execute(context.Background(), "--mock=false", "--verbose", "fail please")
	if !errors.Is(err, errRunFailed) {
		t.Fatalf("err = %v, want errRunFailed", err)
	}

	stderr := env.stderr.String()
	if !strings.Contains(stderr, orchestrator.MsgExitedError) {
		t.Errorf("stderr missing the run error, got %q", stderr)
	}
	if !strings.Contains(stderr, "boom") {
		t.Errorf("verbose stderr missing the debug trace, got %q", stderr)
	}
	if env.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing", env.stdout.String())
	}
}

func TestRunQuery_ExecutableNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.deps.Runner = func(ctx context.Context, inv runner.Invocation, cb runner.Callbacks) runner.Result {
		return runner.Result{Err: apierrors.NewSpawnError(inv.Executable, exec.ErrNotFound, true)}
	}

	err := env.execute(context.Background(), "--mock=false", "hi")
	if !errors.Is(err, errRunFailed) {
		t.Fatalf("err = %v, want errRunFailed", err)
	}
	stderr := env.stderr.String()
	if !strings.Contains(stderr, orchestrator.MsgNotFound) {
		t.Errorf("stderr = %q, want the not-found message", stderr)
	}
	if !strings.Contains(stderr, "Hint") {
		t.Errorf("stderr = %q, want an install hint", stderr)
	}
}

func TestRunQuery_Cancelled(t *testing.T) {
	env := newTestEnv(t)
	env.deps.Runner = func(ctx context.Context, inv runner.Invocation, cb runner.Callbacks) runner.Result {
		<-ctx.Done()
		return runner.Result{Cancelled: true}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := env.execute(ctx, "--mock=false", "long job")
	if !errors.Is(err, errRunCancelled) {
		t.Fatalf("err = %v, want errRunCancelled", err)
	}
	if exitCode(err) != 130 {
		t.Errorf("exitCode = %d, want 130", exitCode(err))
	}
	if !strings.Contains(env.stderr.String(), orchestrator.MsgCancelled) {
		t.Errorf("stderr = %q, want the cancel notice", env.stderr.String())
	}
}

func TestRunQuery_OutputFile(t *testing.T) {
	env := newTestEnv(t)
	out := filepath.Join(env.dir, "reply.md")

	if err := env.execute(context.Background(), "--mock=false", "-o", out, "save it"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "answer" {
		t.Errorf("file content = %q, want %q", data, "answer")
	}
	if env.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing when writing to a file", env.stdout.String())
	}
	if !strings.Contains(env.stderr.String(), "Reply saved to") {
		t.Errorf("stderr = %q, want a saved notice", env.stderr.String())
	}
}

func TestRunQuery_Copy(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		settings bool
		want     bool
	}{
		{"flag", []string{"--copy"}, false, true},
		{"setting", nil, true, true},
		{"neither", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.saveSettings(t, func(s *config.Settings) {
				s.MockRun = false
				s.CopyToClipboard = tt.settings
			})

			args := append(append([]string{}, tt.args...), "copy me")
			if err := env.execute(context.Background(), args...); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}

			copied := len(env.copied) == 1 && env.copied[0] == "answer"
			if copied != tt.want {
				t.Errorf("copied = %v (%q), want %v", copied, env.copied, tt.want)
			}
		})
	}
}

func TestRunQuery_CopyFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(t)
	env.deps.CopyText = func(string) error { return errors.New("no clipboard") }

	if err := env.execute(context.Background(), "--mock=false", "--copy", "hi"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(env.stderr.String(), "no clipboard") {
		t.Errorf("stderr = %q, want the clipboard warning", env.stderr.String())
	}
}

func TestRunQuery_DecoratedOnTerminal(t *testing.T) {
	env := newTestEnv(t)
	env.deps.StdoutTTY = func() bool { return true }
	env.deps.Runner = env.reply("# Title\n\nrendered reply", 0)
	env.saveSettings(t, func(s *config.Settings) {
		s.MockRun = false
		s.Markdown.Style = render.ThemeNoTTY
	})

	if err := env.execute(context.Background(), "hi"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out := env.stdout.String()
	if !strings.Contains(out, "✦ Codex") {
		t.Errorf("stdout missing the assistant label: %q", out)
	}
	if !strings.Contains(out, "rendered reply") {
		t.Errorf("stdout missing the reply: %q", out)
	}
	if !strings.Contains(env.stderr.String(), "Done") {
		t.Errorf("stderr = %q, want the spinner success line", env.stderr.String())
	}
}

func TestTeeStdout(t *testing.T) {
	var sb strings.Builder
	var seen []string

	run := teeStdout(func(ctx context.Context, inv runner.Invocation, cb runner.Callbacks) runner.Result {
		cb.OnStdout("a")
		cb.OnStdout("b")
		code := 0
		return runner.Result{ExitCode: &code}
	}, &sb)

	run(context.Background(), runner.Invocation{}, runner.Callbacks{
		OnStdout: func(chunk string) { seen = append(seen, chunk) },
	})

	if sb.String() != "ab" {
		t.Errorf("tee output = %q, want %q", sb.String(), "ab")
	}
	if strings.Join(seen, "") != "ab" {
		t.Errorf("inner callback saw %q, want %q", seen, []string{"a", "b"})
	}
}
