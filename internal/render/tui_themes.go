package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme for the chat screen
type TUITheme struct {
	Name        string
	Description string

	// Base colors
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	// Chat bubbles
	UserBubble      lipgloss.Color
	AssistantBubble lipgloss.Color
	Loading         lipgloss.Color

	// Text colors
	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// Built-in TUI themes
var (
	// WabliefteruTheme follows the podcast page: dark green background,
	// bright green answers, deep teal questions and a blue searching bubble.
	WabliefteruTheme = TUITheme{
		Name:        "wabliefteru",
		Description: "Wabliefteru - Podcast green",

		Background: lipgloss.Color("#002902"),
		Surface:    lipgloss.Color("#1c5732"),
		Border:     lipgloss.Color("#22c55e"),

		Primary:   lipgloss.Color("#22c55e"),
		Secondary: lipgloss.Color("#6ee7b7"),
		Accent:    lipgloss.Color("#27a8e5"),
		Warning:   lipgloss.Color("#facc15"),
		Error:     lipgloss.Color("#f87171"),

		UserBubble:      lipgloss.Color("#064e3b"),
		AssistantBubble: lipgloss.Color("#22c55e"),
		Loading:         lipgloss.Color("#27a8e5"),

		Text:     lipgloss.Color("#ecfdf5"),
		TextDim:  lipgloss.Color("#86efac"),
		TextMute: lipgloss.Color("#3f6f4f"),
	}

	// TokyoNightTheme is based on Tokyo Night color scheme
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night - Dark theme with blue accents",

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		UserBubble:      lipgloss.Color("#7aa2f7"),
		AssistantBubble: lipgloss.Color("#9ece6a"),
		Loading:         lipgloss.Color("#bb9af7"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),
	}

	// NordTheme is based on the Nord color palette
	NordTheme = TUITheme{
		Name:        "nord",
		Description: "Nord - Arctic-inspired theme with cool tones",

		Background: lipgloss.Color("#2e3440"),
		Surface:    lipgloss.Color("#3b4252"),
		Border:     lipgloss.Color("#4c566a"),

		Primary:   lipgloss.Color("#88c0d0"),
		Secondary: lipgloss.Color("#a3be8c"),
		Accent:    lipgloss.Color("#b48ead"),
		Warning:   lipgloss.Color("#ebcb8b"),
		Error:     lipgloss.Color("#bf616a"),

		UserBubble:      lipgloss.Color("#81a1c1"),
		AssistantBubble: lipgloss.Color("#a3be8c"),
		Loading:         lipgloss.Color("#88c0d0"),

		Text:     lipgloss.Color("#eceff4"),
		TextDim:  lipgloss.Color("#6b7385"),
		TextMute: lipgloss.Color("#4c566a"),
	}
)

var (
	themeMu         sync.RWMutex
	currentTUITheme = WabliefteruTheme
)

// GetTUITheme returns the active TUI theme
func GetTUITheme() TUITheme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme sets the active TUI theme by name. Unknown names leave the
// current theme in place and return false.
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
	for _, t := range AvailableTUIThemes() {
		if t.Name == name {
			return t, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes returns a list of all available TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{
		WabliefteruTheme,
		TokyoNightTheme,
		NordTheme,
	}
}

// TUIThemeNames returns just the theme names for selection
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
