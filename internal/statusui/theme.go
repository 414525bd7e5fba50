package statusui

import "github.com/charmbracelet/lipgloss"

// Theme defines all colors used by the status TUI.
// Use DarkTheme() or LightTheme() to get a pre-built theme,
// or construct a custom Theme.
type Theme struct {
	Primary   lipgloss.Color // title, cursor
	Active    lipgloss.Color // live panels
	Inactive  lipgloss.Color // registered but closed panels
	Focused   lipgloss.Color // panel holding host focus
	Error     lipgloss.Color // operation failures
	Text      lipgloss.Color // primary text
	TextMuted lipgloss.Color // hints, edge headers
	Border    lipgloss.Color // separators
}

// DarkTheme returns the default dark theme.
func DarkTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("#fab283"),
		Active:    lipgloss.Color("#7fd88f"),
		Inactive:  lipgloss.Color("#808080"),
		Focused:   lipgloss.Color("#5c9cf5"),
		Error:     lipgloss.Color("#e06c75"),
		Text:      lipgloss.Color("#eeeeee"),
		TextMuted: lipgloss.Color("#808080"),
		Border:    lipgloss.Color("#484848"),
	}
}

// LightTheme returns a light theme for bright terminal backgrounds.
func LightTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("#b35c00"),
		Active:    lipgloss.Color("#116329"),
		Inactive:  lipgloss.Color("#656d76"),
		Focused:   lipgloss.Color("#0550ae"),
		Error:     lipgloss.Color("#cf222e"),
		Text:      lipgloss.Color("#1f2328"),
		TextMuted: lipgloss.Color("#656d76"),
		Border:    lipgloss.Color("#d0d7de"),
	}
}
