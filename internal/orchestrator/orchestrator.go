// Package orchestrator drives one chat panel: it turns a submitted prompt
// into an invocation of the external tool, streams the output into the
// message store and tracks the run state.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diogo/codexside/internal/config"
	apierrors "github.com/diogo/codexside/internal/errors"
	"github.com/diogo/codexside/internal/history"
	"github.com/diogo/codexside/internal/models"
	"github.com/diogo/codexside/internal/runner"
	"github.com/diogo/codexside/internal/tokens"
)

// User-facing texts written into the assistant message.
const (
	MsgNotFound     = "Codex not found. Check the executable path in settings."
	MsgStartFailed  = "Failed to start Codex. See Debug for details."
	MsgExitedError  = "Codex exited with an error. See Debug for details."
	MsgCancelled    = "Run cancelled."
	MsgNewChat      = "New chat"
	MsgEmptyPrompt  = "Please enter a prompt."
	MsgNoOpenNote   = "Please open a note."
	msgDirNotFound  = "Working directory not found: %s"
	cwdVaultRoot    = "(vault root)"
	cwdUnknownVault = "(unknown vault root)"
)

// EventKind identifies what changed.
type EventKind int

const (
	EventMessageAdded EventKind = iota
	EventMessageUpdated
	EventStatusChanged
	EventCwdChanged
)

// Event notifies the view of a change. MessageID is set for message
// events, Status for status events.
type Event struct {
	Kind      EventKind
	MessageID string
	Status    models.RunStatus
	RunID     string
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithRunner replaces the process runner.
func WithRunner(run runner.Func) Option {
	return func(o *Orchestrator) {
		o.run = run
	}
}

// WithStore uses an existing message store.
func WithStore(store *history.Store) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithListener registers the function that receives every Event.
// It is called from the goroutine that caused the change.
func WithListener(fn func(Event)) Option {
	return func(o *Orchestrator) {
		o.listener = fn
	}
}

// WithMockDelay sets how long mock runs wait before answering.
func WithMockDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.mockDelay = d
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.log = log
	}
}

// Orchestrator owns the message store and the state of the current run.
// At most one run is in flight at any time.
type Orchestrator struct {
	settings  config.Source
	ws        Workspace
	store     *history.Store
	run       runner.Func
	listener  func(Event)
	mockDelay time.Duration
	log       zerolog.Logger

	mu          sync.Mutex
	status      models.RunStatus
	cwdOverride string
	cancel      context.CancelFunc
	cancelled   bool
	handle      runner.Handle
}

// New creates an orchestrator reading settings from src on every submit.
func New(src config.Source, ws Workspace, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		settings:  src,
		ws:        ws,
		run:       runner.Run,
		mockDelay: runner.DefaultMockDelay,
		log:       zerolog.Nop(),
		status:    models.StatusIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.store == nil {
		o.store = history.NewStore()
	}
	o.log = o.log.With().Str("component", "orchestrator").Logger()
	return o
}

// Store returns the message store.
func (o *Orchestrator) Store() *history.Store {
	return o.store
}

// Status returns the current run state.
func (o *Orchestrator) Status() models.RunStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Settings returns the settings as they are now.
func (o *Orchestrator) Settings() config.Settings {
	return o.settings.Settings()
}

// Submit runs prompt through the external tool and blocks until the run
// resolves. It returns ErrRunInProgress or ErrEmptyPrompt without side
// effects; every other outcome is recorded in the store and the status.
func (o *Orchestrator) Submit(ctx context.Context, prompt string) error {
	prompt = strings.TrimSpace(prompt)

	o.mu.Lock()
	if o.status == models.StatusRunning {
		o.mu.Unlock()
		return apierrors.ErrRunInProgress
	}
	if prompt == "" {
		o.mu.Unlock()
		return apierrors.ErrEmptyPrompt
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	o.status = models.StatusRunning
	o.cancel = cancel
	o.cancelled = false
	o.handle = nil
	cwd := o.cwdLocked()
	o.mu.Unlock()

	s := o.settings.Settings().Normalize()
	addDirs := AddDirs(s, o.ws)
	wire := WirePrompt(o.store.BuildContext(), prompt)

	r := &run{
		id:      uuid.NewString(),
		started: time.Now(),
		mock:    s.MockRun,
		trace: trace{
			Executable: s.Executable(),
			Args:       BuildArgs(s, addDirs, wire),
			Cwd:        cwd,
			AddDirs:    addDirs,
			ExitCode:   exitRunning,
			Stderr:     stderrStreaming,
			Error:      errorPending,
		},
	}
	log := o.log.With().Str("run_id", r.id).Logger()

	user := o.store.Add(models.RoleUser, prompt)
	o.emit(Event{Kind: EventMessageAdded, MessageID: user.ID, RunID: r.id})
	assistant := o.store.Add(models.RoleAssistant, "")
	r.assistant = assistant.ID
	o.emit(Event{Kind: EventMessageAdded, MessageID: assistant.ID, RunID: r.id})
	debug := o.store.Add(models.RoleDebug, r.trace.String())
	r.debug = debug.ID
	o.emit(Event{Kind: EventMessageAdded, MessageID: debug.ID, RunID: r.id})
	o.emit(Event{Kind: EventStatusChanged, Status: models.StatusRunning, RunID: r.id})

	log.Info().
		Str("executable", r.trace.Executable).
		Str("cwd", cwd).
		Bool("mock", r.mock).
		Int("add_dirs", len(addDirs)).
		Msg("run started")

	if !r.mock && cwd != "" {
		if info, err := os.Stat(cwd); err != nil || !info.IsDir() {
			o.finishMissingDir(r, log)
			return nil
		}
	}

	inv := runner.Invocation{
		Executable: r.trace.Executable,
		Args:       r.trace.Args,
		Dir:        cwd,
	}
	if r.mock {
		text := fmt.Sprintf("MOCK RESULT\n\nPrompt:\n%s\n\n(cwd: %s)\n", prompt, o.CwdDisplay())
		inv.MockOutput = &text
		inv.MockDelay = o.mockDelay
	}

	res := o.run(runCtx, inv, o.callbacks(r))
	o.finish(r, res, log)
	return nil
}

// run holds the per-run state shared by the callbacks.
type run struct {
	id        string
	started   time.Time
	mock      bool
	assistant string
	debug     string
	trace     trace

	mu     sync.Mutex
	stderr strings.Builder
}

func (o *Orchestrator) callbacks(r *run) runner.Callbacks {
	return runner.Callbacks{
		OnStdout: func(chunk string) {
			o.store.AppendContent(r.assistant, chunk)
			o.emit(Event{Kind: EventMessageUpdated, MessageID: r.assistant, RunID: r.id})
		},
		OnStderr: func(chunk string) {
			r.mu.Lock()
			r.stderr.WriteString(chunk)
			t := r.trace
			t.ExitCode = exitRunning
			t.Stderr = r.stderr.String()
			t.Error = errorNone
			r.mu.Unlock()

			o.store.SetContent(r.debug, t.String())
			o.emit(Event{Kind: EventMessageUpdated, MessageID: r.debug, RunID: r.id})
		},
		OnSpawned: func(h runner.Handle) {
			o.mu.Lock()
			o.handle = h
			o.mu.Unlock()
		},
	}
}

// finish maps the runner result onto the final status and messages.
func (o *Orchestrator) finish(r *run, res runner.Result, log zerolog.Logger) {
	o.mu.Lock()
	userCancelled := o.cancelled
	o.mu.Unlock()

	// A clean exit that raced a late Cancel keeps its result.
	cleanExit := !res.Cancelled && res.Err == nil && res.ExitCode != nil && *res.ExitCode == 0
	cancelled := res.Cancelled || (userCancelled && !cleanExit)

	t := r.trace
	t.Stderr = res.Stderr
	t.Error = errorNone

	var (
		status     models.RunStatus
		assistText string
	)
	assistant, _ := o.store.Get(r.assistant)
	noStdout := assistant.Content == ""

	switch {
	case cancelled:
		status = models.StatusCancelled
		t.ExitCode = exitCodeText(res.ExitCode, exitCancelled)
		t.Note = noteCancelled
		if noStdout {
			assistText = MsgCancelled
		}
	case r.mock:
		status = models.StatusIdle
		t.ExitCode = exitMock
		t.Note = noteMock
	case res.Err != nil:
		status = models.StatusError
		t.ExitCode = exitSpawnError
		t.Error = res.ErrorText()
		if apierrors.IsNotFoundError(res.Err) {
			assistText = MsgNotFound
		} else {
			assistText = MsgStartFailed
		}
	case res.ExitCode != nil && *res.ExitCode == 0:
		status = models.StatusIdle
		t.ExitCode = "0"
	default:
		status = models.StatusError
		t.ExitCode = exitCodeText(res.ExitCode, exitUnknown)
		if noStdout && res.Stderr != "" {
			assistText = MsgExitedError
		}
	}

	if assistText != "" {
		o.store.SetContent(r.assistant, assistText)
		o.emit(Event{Kind: EventMessageUpdated, MessageID: r.assistant, RunID: r.id})
	}
	o.store.SetContent(r.debug, t.String())
	o.emit(Event{Kind: EventMessageUpdated, MessageID: r.debug, RunID: r.id})

	o.setIdle(status)
	o.emit(Event{Kind: EventStatusChanged, Status: status, RunID: r.id})

	event := log.Info()
	if status == models.StatusError {
		event = log.Warn()
	}
	event.
		Str("status", string(status)).
		Str("exit_code", t.ExitCode).
		Dur("duration", time.Since(r.started)).
		Msg("run finished")
}

func (o *Orchestrator) finishMissingDir(r *run, log zerolog.Logger) {
	text := fmt.Sprintf(msgDirNotFound, r.trace.Cwd)

	t := r.trace
	t.ExitCode = exitNotStarted
	t.Stderr = ""
	t.Error = text

	o.store.SetContent(r.assistant, text)
	o.emit(Event{Kind: EventMessageUpdated, MessageID: r.assistant, RunID: r.id})
	o.store.SetContent(r.debug, t.String())
	o.emit(Event{Kind: EventMessageUpdated, MessageID: r.debug, RunID: r.id})

	o.setIdle(models.StatusError)
	o.emit(Event{Kind: EventStatusChanged, Status: models.StatusError, RunID: r.id})

	log.Warn().Str("cwd", r.trace.Cwd).Msg("working directory not found")
}

func (o *Orchestrator) setIdle(status models.RunStatus) {
	o.mu.Lock()
	o.status = status
	o.cancel = nil
	o.handle = nil
	o.mu.Unlock()
}

func exitCodeText(code *int, fallback string) string {
	if code == nil {
		return fallback
	}
	return strconv.Itoa(*code)
}

// Cancel requests termination of the run in flight. It returns false when
// nothing is running.
func (o *Orchestrator) Cancel() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status != models.StatusRunning || o.cancel == nil {
		return false
	}
	o.cancelled = true
	o.cancel()
	if o.handle != nil {
		o.log.Debug().Int("pid", o.handle.Pid()).Msg("terminating child")
	}
	return true
}

// StartNewChat excludes every earlier message from future context and
// adds a visible marker.
func (o *Orchestrator) StartNewChat() {
	o.store.StartNewChat()
	msg := o.store.Add(models.RoleSystem, MsgNewChat)
	o.emit(Event{Kind: EventMessageAdded, MessageID: msg.ID})
}

// Cwd returns the working directory for the next run: the explicit
// override, else the vault root, else "".
func (o *Orchestrator) Cwd() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cwdLocked()
}

func (o *Orchestrator) cwdLocked() string {
	if o.cwdOverride != "" {
		return o.cwdOverride
	}
	return o.ws.VaultRoot()
}

// CwdDisplay returns the working directory relative to the vault root.
func (o *Orchestrator) CwdDisplay() string {
	cwd := o.Cwd()
	root := o.ws.VaultRoot()
	if root == "" {
		if cwd == "" {
			return cwdUnknownVault
		}
		return cwd
	}
	rel, err := filepath.Rel(root, cwd)
	if err != nil {
		return cwd
	}
	if rel == "." || rel == "" {
		return cwdVaultRoot
	}
	return rel
}

// SetCwd sets the working directory override. Relative paths are resolved
// against the vault root.
func (o *Orchestrator) SetCwd(dir string) {
	if root := o.ws.VaultRoot(); root != "" && dir != "" && !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	o.mu.Lock()
	o.cwdOverride = dir
	o.mu.Unlock()
	o.emit(Event{Kind: EventCwdChanged})
}

// ResetCwd returns to the vault root.
func (o *Orchestrator) ResetCwd() {
	o.SetCwd("")
}

// MoveToCurrentNote sets the working directory to the open note's folder.
func (o *Orchestrator) MoveToCurrentNote() error {
	folder, ok := o.ws.CurrentNoteFolder()
	if !ok {
		return apierrors.ErrNoCurrentNote
	}
	o.SetCwd(folder)
	return nil
}

// ContextUsage estimates the draft prompt against the configured budget.
func (o *Orchestrator) ContextUsage(draft string) tokens.Usage {
	s := o.settings.Settings().Normalize()
	return tokens.NewUsage(draft, s.ContextMaxTokens)
}

// HistoryUsage estimates the current session's context.
func (o *Orchestrator) HistoryUsage() tokens.Usage {
	return tokens.NewUsage(o.store.BuildContext(), tokens.HistoryTokenCap)
}

func (o *Orchestrator) emit(e Event) {
	if o.listener != nil {
		o.listener(e)
	}
}
