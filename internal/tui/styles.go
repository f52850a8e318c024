// Package tui provides the terminal user interface for codexside.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/codexside/internal/render"
)

// styles holds every lipgloss style the panel uses, derived from one theme.
type styles struct {
	theme render.TUITheme

	header   lipgloss.Style
	title    lipgloss.Style
	subtitle lipgloss.Style
	hint     lipgloss.Style

	statusIdle    lipgloss.Style
	statusRunning lipgloss.Style
	statusError   lipgloss.Style

	messagesArea lipgloss.Style

	userLabel       lipgloss.Style
	userBubble      lipgloss.Style
	assistantLabel  lipgloss.Style
	assistantBubble lipgloss.Style
	debugLabel      lipgloss.Style
	debugBody       lipgloss.Style
	system          lipgloss.Style
	typing          lipgloss.Style

	barLabel lipgloss.Style

	inputPanel lipgloss.Style
	inputLabel lipgloss.Style

	notice      lipgloss.Style
	noticeError lipgloss.Style

	statusBar  lipgloss.Style
	statusKey  lipgloss.Style
	statusDesc lipgloss.Style

	// settings editor
	panel        lipgloss.Style
	sectionTitle lipgloss.Style
	menuItem     lipgloss.Style
	menuSelected lipgloss.Style
	cursor       lipgloss.Style
	value        lipgloss.Style
	enabled      lipgloss.Style
	disabled     lipgloss.Style
	path         lipgloss.Style
}

func newStyles(theme render.TUITheme) styles {
	s := styles{theme: theme}

	s.header = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 2)

	s.title = lipgloss.NewStyle().
		Foreground(theme.Title).
		Bold(true)

	s.subtitle = lipgloss.NewStyle().
		Foreground(theme.TextDim)

	s.hint = lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true)

	s.statusIdle = lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true)
	s.statusRunning = lipgloss.NewStyle().Foreground(theme.Running).Bold(true)
	s.statusError = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)

	s.messagesArea = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	s.userLabel = lipgloss.NewStyle().
		Foreground(theme.User).
		Bold(true).
		MarginLeft(4)

	s.userBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.User).
		Foreground(theme.Text).
		Padding(0, 1).
		MarginLeft(4)

	s.assistantLabel = lipgloss.NewStyle().
		Foreground(theme.Assistant).
		Bold(true)

	s.assistantBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Assistant).
		Foreground(theme.Text).
		Padding(0, 1).
		MarginRight(4)

	s.debugLabel = lipgloss.NewStyle().
		Foreground(theme.Debug).
		Italic(true)

	s.debugBody = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderTop(false).
		BorderRight(false).
		BorderBottom(false).
		BorderForeground(theme.Debug).
		Foreground(theme.Debug).
		PaddingLeft(1)

	s.system = lipgloss.NewStyle().
		Foreground(theme.System).
		Italic(true).
		Align(lipgloss.Center)

	s.typing = lipgloss.NewStyle().
		Foreground(theme.Running)

	s.barLabel = lipgloss.NewStyle().
		Foreground(theme.TextDim)

	s.inputPanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	s.inputLabel = lipgloss.NewStyle().
		Foreground(theme.Title).
		Bold(true)

	s.notice = lipgloss.NewStyle().
		Foreground(theme.System)

	s.noticeError = lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true)

	s.statusBar = lipgloss.NewStyle().
		Foreground(theme.TextDim)

	s.statusKey = lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true)

	s.statusDesc = lipgloss.NewStyle().
		Foreground(theme.TextDim)

	s.panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 2)

	s.sectionTitle = lipgloss.NewStyle().
		Foreground(theme.Title).
		Bold(true)

	s.menuItem = lipgloss.NewStyle().
		Foreground(theme.Text)

	s.menuSelected = lipgloss.NewStyle().
		Foreground(theme.User).
		Bold(true)

	s.cursor = lipgloss.NewStyle().
		Foreground(theme.User)

	s.value = lipgloss.NewStyle().
		Foreground(theme.TextDim)

	s.enabled = lipgloss.NewStyle().
		Foreground(theme.Running)

	s.disabled = lipgloss.NewStyle().
		Foreground(theme.Error)

	s.path = lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true)

	return s
}

// stylesFor returns styles for a theme name, falling back to the default.
func stylesFor(name string) styles {
	theme, ok := render.GetTUIThemeByName(name)
	if !ok {
		theme, _ = render.GetTUIThemeByName(render.DefaultTUITheme)
	}
	return newStyles(theme)
}

// shortcut is one entry of a status bar.
type shortcut struct {
	key  string
	desc string
}

func (s styles) renderShortcuts(items []shortcut, width int) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, s.statusKey.Render(it.key)+s.statusDesc.Render(" "+it.desc))
	}
	bar := ""
	for i, p := range parts {
		if i > 0 {
			bar += s.statusDesc.Render("  │  ")
		}
		bar += p
	}
	return s.statusBar.Width(width).Align(lipgloss.Center).Render(bar)
}
