package render

import (
	"os"

	"github.com/diogo/codexside/internal/config"
)

// StyleEnv overrides the configured markdown style.
const StyleEnv = "GLAMOUR_STYLE"

// OptionsFromSettings builds render options from user settings.
// The GLAMOUR_STYLE environment variable takes precedence for the style.
func OptionsFromSettings(s config.Settings, width int) Options {
	opts := Options{MarkdownConfig: s.Markdown}
	if opts.Style == "" {
		opts.Style = ThemeDark
	}
	if style := os.Getenv(StyleEnv); style != "" {
		opts.Style = style
	}
	return opts.WithWidth(width)
}
