// Package render turns markdown answers into styled terminal output.
package render

import "github.com/cinematen/wabliefteru/internal/config"

// Options configures the markdown renderer behavior.
type Options struct {
	// Width is the word-wrap column (default: 80)
	Width int

	// Style is a built-in style name or a path to a glamour JSON style
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return FromMarkdownConfig(config.DefaultMarkdownConfig()).WithStyle(ThemeWabliefteru)
}

// FromMarkdownConfig maps the user's markdown settings onto Options
func FromMarkdownConfig(md config.MarkdownConfig) Options {
	style := md.Style
	if style == "" {
		style = ThemeWabliefteru
	}
	return Options{
		Width:            80,
		Style:            style,
		EnableEmoji:      md.EnableEmoji,
		PreserveNewLines: md.PreserveNewLines,
		TableWrap:        md.TableWrap,
		InlineTableLinks: md.InlineTableLinks,
	}
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
