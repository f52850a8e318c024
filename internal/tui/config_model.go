package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/codexside/internal/config"
	"github.com/diogo/codexside/internal/render"
)

// SettingsStore is where the settings editor reads and saves settings.
type SettingsStore interface {
	Settings() config.Settings
	Update(fn func(*config.Settings)) error
	Path() string
}

// configView represents the current view in the settings editor
type configView int

const (
	viewMain configView = iota
	viewChoice
)

// settingItem is one row of the main menu. Toggles flip a boolean; choices
// open a list of values.
type settingItem struct {
	label string

	get    func(config.Settings) bool
	toggle func(*config.Settings)

	current func(config.Settings) string
	choices func() []string
	choose  func(*config.Settings, string)
}

func (it settingItem) isToggle() bool { return it.toggle != nil }

var settingItems = []settingItem{
	{
		label:  "Mock run",
		get:    func(s config.Settings) bool { return s.MockRun },
		toggle: func(s *config.Settings) { s.MockRun = !s.MockRun },
	},
	{
		label:  "Skip git repo check",
		get:    func(s config.Settings) bool { return s.SkipGitRepoCheck },
		toggle: func(s *config.Settings) { s.SkipGitRepoCheck = !s.SkipGitRepoCheck },
	},
	{
		label:  "Attach vault root",
		get:    func(s config.Settings) bool { return s.AttachVaultRoot },
		toggle: func(s *config.Settings) { s.AttachVaultRoot = !s.AttachVaultRoot },
	},
	{
		label:  "Attach note folder",
		get:    func(s config.Settings) bool { return s.AttachCurrentNoteFolder },
		toggle: func(s *config.Settings) { s.AttachCurrentNoteFolder = !s.AttachCurrentNoteFolder },
	},
	{
		label:  "Copy to clipboard",
		get:    func(s config.Settings) bool { return s.CopyToClipboard },
		toggle: func(s *config.Settings) { s.CopyToClipboard = !s.CopyToClipboard },
	},
	{
		label:   "Markdown theme",
		current: func(s config.Settings) string { return s.Markdown.Style },
		choices: render.ThemeNames,
		choose:  func(s *config.Settings, v string) { s.Markdown.Style = v },
	},
	{
		label:   "TUI theme",
		current: func(s config.Settings) string { return s.TUITheme },
		choices: render.TUIThemeNames,
		choose:  func(s *config.Settings, v string) { s.TUITheme = v },
	},
}

// menuExit is the index of the trailing Exit row.
var menuExit = len(settingItems)

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// ConfigModel is the interactive settings editor.
type ConfigModel struct {
	store    SettingsStore
	settings config.Settings
	styles   styles

	view         configView
	cursor       int
	choiceCursor int

	feedback        string
	feedbackTimeout time.Duration

	width int
	ready bool
}

// NewConfigModel creates a settings editor backed by store.
func NewConfigModel(store SettingsStore) ConfigModel {
	s := store.Settings()
	return ConfigModel{
		store:           store,
		settings:        s,
		styles:          stylesFor(s.TUITheme),
		feedbackTimeout: 2 * time.Second,
	}
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view == viewChoice {
				m.view = viewMain
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			m.move(-1)

		case "down", "j":
			m.move(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

func (m *ConfigModel) move(delta int) {
	if m.view == viewChoice {
		n := len(settingItems[m.cursor].choices())
		m.choiceCursor = (m.choiceCursor + delta + n) % n
		return
	}
	n := len(settingItems) + 1
	m.cursor = (m.cursor + delta + n) % n
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	if m.view == viewMain {
		if m.cursor == menuExit {
			return m, tea.Quit
		}
		item := settingItems[m.cursor]
		if item.isToggle() {
			m.save(item.toggle)
			state := "disabled"
			if item.get(m.settings) {
				state = "enabled"
			}
			if m.feedback == "" {
				m.feedback = fmt.Sprintf("%s %s", item.label, state)
			}
			return m, clearFeedback(m.feedbackTimeout)
		}

		m.view = viewChoice
		m.choiceCursor = 0
		current := item.current(m.settings)
		for i, c := range item.choices() {
			if c == current {
				m.choiceCursor = i
			}
		}
		return m, nil
	}

	item := settingItems[m.cursor]
	value := item.choices()[m.choiceCursor]
	m.save(func(s *config.Settings) { item.choose(s, value) })
	if m.feedback == "" {
		m.feedback = fmt.Sprintf("%s set to %s", item.label, value)
	}
	m.styles = stylesFor(m.settings.TUITheme)
	m.view = viewMain
	return m, clearFeedback(m.feedbackTimeout)
}

// save applies fn through the store and reloads the local copy.
// A failed save leaves the error in feedback.
func (m *ConfigModel) save(fn func(*config.Settings)) {
	m.feedback = ""
	if err := m.store.Update(fn); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
		return
	}
	m.settings = m.store.Settings()
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return m.styles.hint.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	header := m.styles.sectionTitle.Width(contentWidth).Align(lipgloss.Center).Render("✦ Settings")
	paths := m.styles.panel.Width(contentWidth).Render(
		m.styles.sectionTitle.Render("Config file") + "\n   " + m.styles.path.Render(m.store.Path()),
	)

	var body string
	switch m.view {
	case viewMain:
		body = m.renderMainMenu()
	case viewChoice:
		body = m.renderChoices()
	}

	sections := []string{header, paths, m.styles.panel.Width(contentWidth).Render(body)}
	if m.feedback != "" {
		sections = append(sections, m.styles.notice.Render("✓ "+m.feedback))
	}

	back := "Exit"
	if m.view == viewChoice {
		back = "Back"
	}
	sections = append(sections, m.styles.renderShortcuts([]shortcut{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", back},
	}, contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ConfigModel) row(selected bool, label, value string) string {
	cursor := "  "
	style := m.styles.menuItem
	if selected {
		cursor = m.styles.cursor.Render("▸ ")
		style = m.styles.menuSelected
	}
	return cursor + style.Render(fmt.Sprintf("%-22s", label)) + value
}

// renderMainMenu renders the main settings menu
func (m ConfigModel) renderMainMenu() string {
	lines := []string{m.styles.sectionTitle.Render("⚙ Settings"), ""}
	for i, item := range settingItems {
		var value string
		if item.isToggle() {
			value = m.renderBoolValue(item.get(m.settings))
		} else {
			value = m.styles.value.Render(item.current(m.settings))
		}
		lines = append(lines, m.row(m.cursor == i, item.label, value))
	}
	lines = append(lines, "", m.row(m.cursor == menuExit, "Exit", ""))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m ConfigModel) renderChoices() string {
	item := settingItems[m.cursor]
	current := item.current(m.settings)

	lines := []string{m.styles.sectionTitle.Render("Select " + item.label), ""}
	for i, c := range item.choices() {
		mark := ""
		if c == current {
			mark = m.styles.enabled.Render(" (current)")
		}
		lines = append(lines, m.row(m.choiceCursor == i, c, mark))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderBoolValue renders a boolean value with appropriate styling
func (m ConfigModel) renderBoolValue(value bool) string {
	if value {
		return m.styles.enabled.Render("enabled")
	}
	return m.styles.disabled.Render("disabled")
}

// RunConfig starts the settings editor
func RunConfig(store SettingsStore) error {
	p := tea.NewProgram(
		NewConfigModel(store),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
