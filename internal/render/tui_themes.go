package render

import (
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme is the palette used by the chat panel.
type TUITheme struct {
	Name        string
	Description string

	// MarkdownStyle is the glamour style paired with this palette
	MarkdownStyle string

	Border  lipgloss.Color
	Surface lipgloss.Color

	Title   lipgloss.Color
	Text    lipgloss.Color
	TextDim lipgloss.Color

	User      lipgloss.Color
	Assistant lipgloss.Color
	Debug     lipgloss.Color
	System    lipgloss.Color

	Running lipgloss.Color
	Error   lipgloss.Color

	// Usage bar fill by level
	BarLow  lipgloss.Color
	BarMid  lipgloss.Color
	BarHigh lipgloss.Color
}

// DefaultTUITheme names the palette used when none is configured.
const DefaultTUITheme = "tokyonight"

var tuiThemes = map[string]TUITheme{
	"tokyonight": {
		Name:          "tokyonight",
		Description:   "Tokyo Night - Dark theme with blue accents",
		MarkdownStyle: ThemeTokyoNight,
		Border:        lipgloss.Color("#414868"),
		Surface:       lipgloss.Color("#24283b"),
		Title:         lipgloss.Color("#7aa2f7"),
		Text:          lipgloss.Color("#c0caf5"),
		TextDim:       lipgloss.Color("#565f89"),
		User:          lipgloss.Color("#bb9af7"),
		Assistant:     lipgloss.Color("#7aa2f7"),
		Debug:         lipgloss.Color("#565f89"),
		System:        lipgloss.Color("#e0af68"),
		Running:       lipgloss.Color("#9ece6a"),
		Error:         lipgloss.Color("#f7768e"),
		BarLow:        lipgloss.Color("#9ece6a"),
		BarMid:        lipgloss.Color("#e0af68"),
		BarHigh:       lipgloss.Color("#f7768e"),
	},
	"catppuccin": {
		Name:          "catppuccin",
		Description:   "Catppuccin Mocha - Warm dark theme with pastel colors",
		MarkdownStyle: ThemeDark,
		Border:        lipgloss.Color("#45475a"),
		Surface:       lipgloss.Color("#313244"),
		Title:         lipgloss.Color("#89b4fa"),
		Text:          lipgloss.Color("#cdd6f4"),
		TextDim:       lipgloss.Color("#6c7086"),
		User:          lipgloss.Color("#cba6f7"),
		Assistant:     lipgloss.Color("#89b4fa"),
		Debug:         lipgloss.Color("#6c7086"),
		System:        lipgloss.Color("#f9e2af"),
		Running:       lipgloss.Color("#a6e3a1"),
		Error:         lipgloss.Color("#f38ba8"),
		BarLow:        lipgloss.Color("#a6e3a1"),
		BarMid:        lipgloss.Color("#f9e2af"),
		BarHigh:       lipgloss.Color("#f38ba8"),
	},
	"nord": {
		Name:          "nord",
		Description:   "Nord - Arctic-inspired theme with cool tones",
		MarkdownStyle: ThemeDark,
		Border:        lipgloss.Color("#4c566a"),
		Surface:       lipgloss.Color("#3b4252"),
		Title:         lipgloss.Color("#88c0d0"),
		Text:          lipgloss.Color("#eceff4"),
		TextDim:       lipgloss.Color("#7b88a1"),
		User:          lipgloss.Color("#b48ead"),
		Assistant:     lipgloss.Color("#88c0d0"),
		Debug:         lipgloss.Color("#7b88a1"),
		System:        lipgloss.Color("#ebcb8b"),
		Running:       lipgloss.Color("#a3be8c"),
		Error:         lipgloss.Color("#bf616a"),
		BarLow:        lipgloss.Color("#a3be8c"),
		BarMid:        lipgloss.Color("#ebcb8b"),
		BarHigh:       lipgloss.Color("#bf616a"),
	},
	"dracula": {
		Name:          "dracula",
		Description:   "Dracula - Dark theme with vibrant colors",
		MarkdownStyle: ThemeDracula,
		Border:        lipgloss.Color("#6272a4"),
		Surface:       lipgloss.Color("#44475a"),
		Title:         lipgloss.Color("#8be9fd"),
		Text:          lipgloss.Color("#f8f8f2"),
		TextDim:       lipgloss.Color("#6272a4"),
		User:          lipgloss.Color("#ff79c6"),
		Assistant:     lipgloss.Color("#8be9fd"),
		Debug:         lipgloss.Color("#6272a4"),
		System:        lipgloss.Color("#f1fa8c"),
		Running:       lipgloss.Color("#50fa7b"),
		Error:         lipgloss.Color("#ff5555"),
		BarLow:        lipgloss.Color("#50fa7b"),
		BarMid:        lipgloss.Color("#f1fa8c"),
		BarHigh:       lipgloss.Color("#ff5555"),
	},
}

var (
	themeMu         sync.RWMutex
	currentTUITheme = tuiThemes[DefaultTUITheme]
)

// GetTUITheme returns the currently active TUI theme
func GetTUITheme() TUITheme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme sets the active TUI theme by name.
// Unknown names leave the current theme in place and return false.
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	themeMu.Lock()
	currentTUITheme = theme
	themeMu.Unlock()
	return true
}

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	theme, ok := tuiThemes[name]
	return theme, ok
}

// BarColor picks the usage bar color for a percentage.
func (t TUITheme) BarColor(percent int) lipgloss.Color {
	switch {
	case percent >= 90:
		return t.BarHigh
	case percent >= 70:
		return t.BarMid
	default:
		return t.BarLow
	}
}

// TUIThemeNames returns the palette names, sorted.
func TUIThemeNames() []string {
	names := make([]string, 0, len(tuiThemes))
	for name := range tuiThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
