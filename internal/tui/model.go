package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	apierrors "github.com/diogo/codexside/internal/errors"
	"github.com/diogo/codexside/internal/models"
	"github.com/diogo/codexside/internal/orchestrator"
	"github.com/diogo/codexside/internal/render"
	"github.com/diogo/codexside/internal/tokens"
)

const noticeTimeout = 4 * time.Second

// Message types for the TUI
type (
	// eventMsg tells the model that orchestrator state changed.
	eventMsg orchestrator.Event

	// runDoneMsg is returned by the submit command once the run resolved.
	runDoneMsg struct {
		err error
	}

	noticeClearMsg struct {
		seq int
	}

	// settingsChangedMsg is sent after the settings file was reloaded.
	settingsChangedMsg struct{}
)

// Workspace is the part of the vault the chat panel works with.
type Workspace interface {
	orchestrator.Workspace
	CurrentNote() (string, bool)
	SetCurrentNote(path string) error
	Rel(path string) (string, bool)
	ReadAttachment(path string) (string, error)
}

// Model is the chat panel state.
type Model struct {
	ctx      context.Context
	orch     *orchestrator.Orchestrator
	ws       Workspace
	log      zerolog.Logger
	copyText func(string) error

	// UI components
	viewport   viewport.Model
	textarea   textarea.Model
	spinner    spinner.Model
	contextBar progress.Model
	historyBar progress.Model

	styles styles
	layout layout
	cache  *renderCache
	ready  bool

	// State
	submitting bool
	showDebug  bool

	notice      string
	noticeIsErr bool
	noticeSeq   int
}

// NewChatModel creates a chat panel driving orch.
func NewChatModel(ctx context.Context, orch *orchestrator.Orchestrator, ws Workspace, log zerolog.Logger) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask Codex... (/help for commands)"
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(composerLines)
	// Shift+Enter arrives as a plain enter.
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	ta.Focus()

	st := stylesFor(orch.Settings().TUITheme)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(st.theme.Text)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(st.theme.TextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = st.typing

	vp := viewport.New(0, 0)
	vp.KeyMap = viewport.KeyMap{
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
	}

	return Model{
		ctx:        ctx,
		orch:       orch,
		ws:         ws,
		log:        log,
		copyText:   clipboard.WriteAll,
		viewport:   vp,
		textarea:   ta,
		spinner:    s,
		contextBar: progress.New(progress.WithSolidFill(string(st.theme.BarLow)), progress.WithoutPercentage()),
		historyBar: progress.New(progress.WithSolidFill(string(st.theme.BarLow)), progress.WithoutPercentage()),
		styles:     st,
		cache:      newRenderCache(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

	case eventMsg, settingsChangedMsg:
		m.refresh()

	case runDoneMsg:
		m.submitting = false
		m.refresh()
		if msg.err != nil {
			cmds = append(cmds, m.runError(msg.err))
		}

	case noticeClearMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}

	case spinner.TickMsg:
		if m.busy() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes panel shortcuts. Keys it does not claim go to the
// composer.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.orch.Cancel()
		return m, tea.Quit, true

	case "esc":
		if m.busy() {
			return m, m.cancelRun(), true
		}
		return m, tea.Quit, true

	case "ctrl+x":
		return m, m.cancelRun(), true

	case "enter":
		cmd := m.submit()
		return m, cmd, true

	case "tab":
		if strings.TrimSpace(m.textarea.Value()) != "" {
			return m, nil, false
		}
		return m, m.moveToCurrentNote(), true

	case "ctrl+n":
		m.orch.StartNewChat()
		m.refresh()
		return m, nil, true

	case "ctrl+y":
		return m, m.copyLastReply(), true

	case "ctrl+d":
		m.showDebug = !m.showDebug
		m.refresh()
		return m, nil, true

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd, true
	}
	return m, nil, false
}

func (m *Model) resize(width, height int) {
	m.layout = newLayout(width, height)
	m.viewport.Width = m.layout.viewportWidth
	m.viewport.Height = m.layout.viewportHeight
	m.textarea.SetWidth(m.layout.composerWidth)
	m.contextBar.Width = m.layout.barWidth
	m.historyBar.Width = m.layout.barWidth
	m.ready = true
	m.refresh()
}

func (m Model) busy() bool {
	return m.submitting || m.orch.Status() == models.StatusRunning
}

// submit sends the composer text, or runs it as a slash command.
func (m *Model) submit() tea.Cmd {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		return m.setNotice(orchestrator.MsgEmptyPrompt, false)
	}

	if name, arg, ok := parseSlash(input); ok {
		return m.runSlash(name, arg)
	}

	if m.busy() {
		return m.setNotice(apierrors.ErrRunInProgress.Error(), false)
	}

	m.textarea.Reset()
	m.submitting = true
	m.viewport.GotoBottom()

	orch, ctx := m.orch, m.ctx
	return tea.Batch(
		func() tea.Msg {
			return runDoneMsg{err: orch.Submit(ctx, input)}
		},
		m.spinner.Tick,
	)
}

func (m *Model) runError(err error) tea.Cmd {
	switch {
	case errors.Is(err, apierrors.ErrEmptyPrompt):
		return m.setNotice(orchestrator.MsgEmptyPrompt, false)
	case errors.Is(err, apierrors.ErrRunInProgress):
		return m.setNotice(err.Error(), false)
	default:
		m.log.Error().Err(err).Msg("submit failed")
		return m.setNotice(err.Error(), true)
	}
}

func (m *Model) cancelRun() tea.Cmd {
	if !m.orch.Cancel() {
		return nil
	}
	return m.setNotice("Cancelling run...", false)
}

func (m *Model) moveToCurrentNote() tea.Cmd {
	if err := m.orch.MoveToCurrentNote(); err != nil {
		if errors.Is(err, apierrors.ErrNoCurrentNote) {
			return m.setNotice(orchestrator.MsgNoOpenNote, false)
		}
		return m.setNotice(err.Error(), true)
	}
	return m.setNotice("cwd: "+m.orch.CwdDisplay(), false)
}

func (m *Model) copyLastReply() tea.Cmd {
	msg, ok := m.orch.Store().LastOf(models.RoleAssistant)
	if !ok || strings.TrimSpace(msg.Content) == "" {
		return m.setNotice("Nothing to copy yet.", false)
	}
	if err := m.copyText(msg.Content); err != nil {
		m.log.Warn().Err(err).Msg("clipboard copy failed")
		return m.setNotice(fmt.Sprintf("Failed to copy to clipboard: %v", err), true)
	}
	return m.setNotice("Copied last reply to clipboard.", false)
}

// setNotice shows a transient line above the status bar.
func (m *Model) setNotice(text string, isErr bool) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	m.noticeIsErr = isErr
	seq := m.noticeSeq
	return tea.Tick(noticeTimeout, func(time.Time) tea.Msg {
		return noticeClearMsg{seq: seq}
	})
}

// refresh rebuilds the conversation view from the store.
func (m *Model) refresh() {
	if name := m.orch.Settings().TUITheme; name != "" && name != m.styles.theme.Name {
		m.styles = stylesFor(name)
		m.spinner.Style = m.styles.typing
	}
	if !m.ready {
		return
	}
	follow := m.viewport.AtBottom() || m.busy()
	m.viewport.SetContent(m.renderMessages())
	if follow {
		m.viewport.GotoBottom()
	}
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return m.styles.hint.Render("  Initializing...")
	}

	l := m.layout
	sections := []string{
		m.renderHeader(l.contentWidth),
		m.styles.messagesArea.Width(l.contentWidth).Height(l.viewportHeight).Render(m.viewport.View()),
		m.renderBars(),
		m.styles.inputPanel.Width(l.contentWidth).Render(lipgloss.JoinVertical(lipgloss.Left,
			m.renderComposerLabel(),
			m.textarea.View(),
		)),
		m.renderNotice(),
		m.renderStatusBar(l.contentWidth),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(width int) string {
	status := m.orch.Status()
	statusStyle := m.styles.statusIdle
	switch status {
	case models.StatusRunning:
		statusStyle = m.styles.statusRunning
	case models.StatusError:
		statusStyle = m.styles.statusError
	case models.StatusIdle, models.StatusCancelled:
	}

	sep := m.styles.hint.Render("  •  ")
	top := lipgloss.JoinHorizontal(lipgloss.Center,
		m.styles.title.Render("✦ Codex"),
		sep,
		statusStyle.Render("Status: "+string(status)),
	)
	bottom := lipgloss.JoinHorizontal(lipgloss.Center,
		m.styles.subtitle.Render("cwd: "+m.orch.CwdDisplay()),
		sep,
		m.styles.hint.Render("Tab to move to current note"),
	)
	return m.styles.header.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, top, bottom))
}

func (m Model) renderBars() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.usageLine("Context", m.orch.ContextUsage(m.textarea.Value()), m.contextBar),
		m.usageLine("History", m.orch.HistoryUsage(), m.historyBar),
	)
}

func (m Model) usageLine(name string, u tokens.Usage, bar progress.Model) string {
	bar.FullColor = string(m.styles.theme.BarColor(u.Percent))
	return " " + bar.ViewAs(u.Ratio()) + " " + m.styles.barLabel.Render(u.Label(name))
}

func (m Model) renderComposerLabel() string {
	if m.busy() {
		return m.spinner.View() + m.styles.typing.Render(" Codex is working... ctrl+x to cancel")
	}
	return m.styles.inputLabel.Render("You")
}

func (m Model) renderNotice() string {
	if m.notice == "" {
		return ""
	}
	if m.noticeIsErr {
		return m.styles.noticeError.Render(" ⚠ " + m.notice)
	}
	return m.styles.notice.Render(" " + m.notice)
}

func (m Model) renderStatusBar(width int) string {
	items := []shortcut{
		{"Enter", "Send"},
		{"Alt+Enter", "Newline"},
		{"Ctrl+N", "New chat"},
		{"Ctrl+D", "Debug"},
		{"Esc", "Quit"},
	}
	if m.busy() {
		items = []shortcut{
			{"Ctrl+X", "Cancel"},
			{"PgUp/PgDn", "Scroll"},
			{"Ctrl+C", "Quit"},
		}
	}
	return m.styles.renderShortcuts(items, width)
}

// markdownOptions returns render options for assistant replies.
func (m Model) markdownOptions() render.Options {
	return render.OptionsFromSettings(m.orch.Settings(), m.layout.markdownWidth)
}
