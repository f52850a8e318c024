// Package render provides markdown rendering utilities for terminal output.
package render

import "github.com/diogo/codexside/internal/config"

const minWidth = 20

// Options is the full renderer configuration: the markdown block of the
// settings plus the wrap width. It is comparable and keys the renderer pool.
type Options struct {
	config.MarkdownConfig

	Width int
}

// DefaultOptions wraps at 80 columns with the default markdown settings.
func DefaultOptions() Options {
	return Options{MarkdownConfig: config.DefaultMarkdownConfig(), Width: 80}
}

// WithWidth returns a copy wrapping at width, raised to minWidth.
func (o Options) WithWidth(width int) Options {
	o.Width = max(width, minWidth)
	return o
}

// WithStyle returns a copy using style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
