package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/codexside/internal/models"
	"github.com/diogo/codexside/internal/render"
)

// renderCache keeps the rendered Markdown of each assistant message so
// refreshes only re-render what changed.
type renderCache struct {
	mu      sync.Mutex
	entries map[string]cachedRender
}

type cachedRender struct {
	content string
	opts    render.Options
	out     string
}

func newRenderCache() *renderCache {
	return &renderCache{entries: make(map[string]cachedRender)}
}

func (c *renderCache) markdown(id, content string, opts render.Options) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[id]; ok && e.content == content && e.opts == opts {
		return e.out
	}
	out := render.MarkdownOrPlain(content, opts)
	c.entries[id] = cachedRender{content: content, opts: opts, out: out}
	return out
}

// renderMessages draws the whole conversation for the viewport.
func (m Model) renderMessages() string {
	msgs := m.orch.Store().Messages()
	if len(msgs) == 0 {
		return m.renderWelcome()
	}

	opts := m.markdownOptions()
	width := m.layout.bubbleWidth

	blocks := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		blocks = append(blocks, m.renderMessage(msg, width, opts))
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) renderMessage(msg models.Message, width int, opts render.Options) string {
	switch msg.Role {
	case models.RoleUser:
		return m.styles.userLabel.Render("● You") + "\n" +
			m.styles.userBubble.Width(width).Render(msg.Content)

	case models.RoleAssistant:
		body := msg.Content
		if strings.TrimSpace(body) == "" {
			body = m.styles.hint.Render("…")
		} else {
			body = m.cache.markdown(msg.ID, msg.Content, opts)
		}
		return m.styles.assistantLabel.Render("✦ Codex") + "\n" +
			m.styles.assistantBubble.Width(width).Render(body)

	case models.RoleDebug:
		if !m.showDebug {
			return m.styles.debugLabel.Render("▸ " + debugSummary(msg.Content))
		}
		return m.styles.debugLabel.Render("▾ Debug") + "\n" +
			m.styles.debugBody.Width(width).Render(msg.Content)

	case models.RoleSystem:
		return m.styles.system.Width(m.layout.viewportWidth).Render("── " + msg.Content + " ──")

	default:
		return msg.Content
	}
}

// debugSummary is the one-line form of a debug trace.
func debugSummary(trace string) string {
	for _, line := range strings.Split(trace, "\n") {
		if strings.HasPrefix(line, "exitCode: ") {
			return "Debug (" + line + ") ctrl+d to expand"
		}
	}
	return "Debug ctrl+d to expand"
}

func (m Model) renderWelcome() string {
	width := m.layout.viewportWidth
	height := m.layout.viewportHeight

	lines := []string{
		m.styles.title.Width(width).Align(lipgloss.Center).Render("✦ Codex side panel"),
		"",
		m.styles.subtitle.Width(width).Align(lipgloss.Center).Render("Type a prompt below and press Enter."),
		m.styles.hint.Width(width).Align(lipgloss.Center).Render("/help lists the slash commands"),
	}
	if m.orch.Settings().MockRun {
		lines = append(lines, "", m.styles.notice.Width(width).Align(lipgloss.Center).Render("Mock mode: no process will be spawned"))
	}
	content := lipgloss.JoinVertical(lipgloss.Center, lines...)

	top := (height - lipgloss.Height(content)) / 2
	if top < 0 {
		top = 0
	}
	return strings.Repeat("\n", top) + content
}
