package render

import (
	"os"

	"github.com/cinematen/wabliefteru/internal/config"
)

// OptionsFromConfig builds render options from the user's configuration.
// GLAMOUR_STYLE wins over the config file; NO_COLOR forces plain output.
func OptionsFromConfig(cfg config.Config, width int) Options {
	opts := FromMarkdownConfig(cfg.Markdown).WithWidth(width)

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	if os.Getenv("NO_COLOR") != "" {
		opts.Style = ThemeNoTTY
	}

	return opts
}
