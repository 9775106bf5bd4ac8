package render

import (
	_ "embed"
)

//go:embed themes/wabliefteru.json
var wabliefteruTheme []byte

// Markdown style names
const (
	ThemeWabliefteru = "wabliefteru"
	ThemeDark        = "dark"
	ThemeLight       = "light"
	ThemeNoTTY       = "notty"
)

// GetBuiltinTheme returns the JSON of a style shipped with wabliefteru.
// Returns nil and false for glamour's own styles and for file paths.
func GetBuiltinTheme(name string) ([]byte, bool) {
	switch name {
	case ThemeWabliefteru:
		return wabliefteruTheme, true
	default:
		return nil, false
	}
}

// IsBuiltinStyle returns true if the style is a built-in style
// (either glamour built-in or ours).
func IsBuiltinStyle(style string) bool {
	switch style {
	case ThemeWabliefteru, ThemeDark, ThemeLight, ThemeNoTTY, "dracula", "ascii", "tokyo-night", "pink":
		return true
	default:
		return false
	}
}

// ThemeInfo contains information about a theme for display purposes.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes returns the markdown styles that can be set in the config file
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: ThemeWabliefteru, Description: "Podcast green"},
		{Name: ThemeDark, Description: "Dark theme"},
		{Name: ThemeLight, Description: "Light theme for bright terminals"},
		{Name: "dracula", Description: "Dracula color scheme"},
		{Name: "tokyo-night", Description: "Tokyo Night color scheme"},
		{Name: ThemeNoTTY, Description: "Plain text (no styling)"},
		{Name: "ascii", Description: "ASCII-only output"},
	}
}

// ThemeNames returns just the theme names for selection.
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
