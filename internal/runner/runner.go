// Package runner executes the external assistant process, streaming its
// output through callbacks, or fakes a run with canned output in mock mode.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	apierrors "github.com/diogo/codexside/internal/errors"
)

const (
	// DefaultMockDelay is the mock wait used by callers that do not pick one.
	DefaultMockDelay = 300 * time.Millisecond

	// WaitDelay bounds how long Run waits for a terminated child to release
	// its output pipes.
	WaitDelay = 3 * time.Second
)

// Invocation describes one run of the external tool.
type Invocation struct {
	Executable string
	Args       []string
	// Dir is the working directory; empty inherits the current one.
	Dir string
	// MockOutput switches the run to mock mode when non-nil.
	MockOutput *string
	// MockDelay is how long a mock run waits; zero or negative means no wait.
	MockDelay time.Duration
}

// Mock reports whether the invocation will not spawn a process.
func (inv Invocation) Mock() bool {
	return inv.MockOutput != nil
}

// Result is the outcome of a run. Every failure is reported here.
type Result struct {
	// ExitCode is nil when the process did not exit normally
	// (start failure, killed by a signal, cancelled mock).
	ExitCode  *int
	Stdout    string
	Stderr    string
	Err       error
	Cancelled bool
}

// ErrorText returns the error message or "" when there is none.
func (r Result) ErrorText() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Handle is a live child process.
type Handle interface {
	Pid() int
	Terminate() error
}

// Callbacks are optional hooks invoked while a run is in flight.
// OnStdout and OnStderr are each called from a single goroutine, so chunks
// of one stream arrive in order.
type Callbacks struct {
	OnStdout  func(chunk string)
	OnStderr  func(chunk string)
	OnSpawned func(h Handle)
}

// Func is the signature of Run, used to inject fakes.
type Func func(ctx context.Context, inv Invocation, cb Callbacks) Result

// Run executes inv and returns exactly one Result. It never panics.
func Run(ctx context.Context, inv Invocation, cb Callbacks) Result {
	if inv.Mock() {
		return runMock(ctx, inv, cb)
	}
	return runLive(ctx, inv, cb)
}

func runMock(ctx context.Context, inv Invocation, cb Callbacks) Result {
	if delay := inv.MockDelay; delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Result{Cancelled: true}
		case <-timer.C:
		}
	} else if ctx.Err() != nil {
		return Result{Cancelled: true}
	}

	text := *inv.MockOutput
	if cb.OnStdout != nil {
		safeCall(cb.OnStdout, text)
	}

	code := 0
	return Result{ExitCode: &code, Stdout: text}
}

func runLive(ctx context.Context, inv Invocation, cb Callbacks) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: apierrors.NewSpawnError(inv.Executable, fmt.Errorf("panic: %v", r), false)}
		}
	}()

	cmd := exec.CommandContext(ctx, inv.Executable, inv.Args...)
	if inv.Dir != "" {
		cmd.Dir = inv.Dir
	}
	configureSysProc(cmd)
	cmd.Cancel = func() error {
		return terminate(cmd.Process)
	}
	cmd.WaitDelay = WaitDelay

	outR, outW := io.Pipe()
	errR, errW := io.Pipe()
	cmd.Stdout = outW
	cmd.Stderr = errW

	if err := cmd.Start(); err != nil {
		outW.Close()
		errW.Close()
		if ctx.Err() != nil {
			return Result{Cancelled: true}
		}
		return Result{Err: spawnError(inv.Executable, err)}
	}

	if cb.OnSpawned != nil {
		cb.OnSpawned(&processHandle{proc: cmd.Process})
	}

	var (
		wg     sync.WaitGroup
		stdout strings.Builder
		stderr strings.Builder
	)
	wg.Add(2)
	go pump(&wg, outR, &stdout, cb.OnStdout)
	go pump(&wg, errR, &stderr, cb.OnStderr)

	waitErr := cmd.Wait()
	outW.Close()
	errW.Close()
	wg.Wait()

	res = Result{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Cancelled: ctx.Err() != nil,
	}

	if cmd.ProcessState != nil {
		if code := cmd.ProcessState.ExitCode(); code >= 0 {
			res.ExitCode = &code
		}
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !res.Cancelled && res.ExitCode == nil &&
		!errors.As(waitErr, &exitErr) && !errors.Is(waitErr, exec.ErrWaitDelay) {
		res.Err = waitErr
	}

	return res
}

// pump decodes one output stream and forwards each chunk.
func pump(wg *sync.WaitGroup, r io.Reader, acc *strings.Builder, onChunk func(string)) {
	defer wg.Done()

	dec := newDecoder(r)
	buf := make([]byte, 4096)
	for {
		n, err := dec.Read(buf)
		if n > 0 {
			chunk := string(buf[:n])
			acc.WriteString(chunk)
			if onChunk != nil {
				safeCall(onChunk, chunk)
			}
		}
		if err != nil {
			// Drain so the writer side never blocks.
			_, _ = io.Copy(io.Discard, r)
			return
		}
	}
}

func safeCall(fn func(string), chunk string) {
	defer func() {
		_ = recover()
	}()
	fn(chunk)
}

func spawnError(executable string, err error) *apierrors.SpawnError {
	notFound := errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
	return apierrors.NewSpawnError(executable, err, notFound)
}

type processHandle struct {
	proc *os.Process
}

func (h *processHandle) Pid() int {
	return h.proc.Pid
}

func (h *processHandle) Terminate() error {
	return terminate(h.proc)
}
