package render

import (
	"sort"
)

// Built-in markdown style names
const (
	ThemeDark       = "dark"
	ThemeLight      = "light"
	ThemeTokyoNight = "tokyonight"
	ThemeDracula    = "dracula"
	ThemePink       = "pink"
	ThemeNoTTY      = "notty"
	ThemeASCII      = "ascii"
)

// ThemeInfo contains information about a theme for display purposes.
type ThemeInfo struct {
	Name        string
	Description string
	// standard is the glamour style name
	standard string
}

var themes = map[string]ThemeInfo{
	ThemeDark:       {Name: ThemeDark, Description: "Dark theme (default)", standard: "dark"},
	ThemeLight:      {Name: ThemeLight, Description: "Light theme for bright terminals", standard: "light"},
	ThemeTokyoNight: {Name: ThemeTokyoNight, Description: "Tokyo Night color scheme", standard: "tokyo-night"},
	ThemeDracula:    {Name: ThemeDracula, Description: "Dracula color scheme", standard: "dracula"},
	ThemePink:       {Name: ThemePink, Description: "Pink accents", standard: "pink"},
	ThemeNoTTY:      {Name: ThemeNoTTY, Description: "Plain text (no styling)", standard: "notty"},
	ThemeASCII:      {Name: ThemeASCII, Description: "ASCII-only output", standard: "ascii"},
}

// StandardStyle maps a theme name to the glamour built-in style.
// It returns false for names that should be treated as style file paths.
func StandardStyle(name string) (string, bool) {
	info, ok := themes[name]
	if !ok {
		return "", false
	}
	return info.standard, true
}

// IsBuiltinStyle returns true if the style is a built-in style.
func IsBuiltinStyle(style string) bool {
	_, ok := themes[style]
	return ok
}

// AvailableThemes returns all built-in themes sorted by name, default first.
func AvailableThemes() []ThemeInfo {
	out := make([]ThemeInfo, 0, len(themes))
	for _, info := range themes {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == ThemeDark || out[j].Name == ThemeDark {
			return out[i].Name == ThemeDark
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ThemeNames returns just the theme names for selection.
func ThemeNames() []string {
	list := AvailableThemes()
	names := make([]string, len(list))
	for i, t := range list {
		names[i] = t.Name
	}
	return names
}
