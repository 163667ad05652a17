package render

import "github.com/charmbracelet/glamour"

// Markdown style names understood by glamour
const (
	StyleAuto       = "auto"
	StyleDark       = "dark"
	StyleLight      = "light"
	StyleDracula    = "dracula"
	StyleTokyoNight = "tokyo-night"
	StylePink       = "pink"
	StyleNoTTY      = "notty"
	StyleASCII      = "ascii"
)

// IsBuiltinStyle returns true if the style is one of glamour's standard styles.
func IsBuiltinStyle(style string) bool {
	switch style {
	case StyleAuto, StyleDark, StyleLight, StyleDracula, StyleTokyoNight,
		StylePink, StyleNoTTY, StyleASCII:
		return true
	default:
		return false
	}
}

// styleOption selects the glamour option for a style: standard names map to
// built-in styles and anything else is treated as a JSON style file.
func styleOption(style string) glamour.TermRendererOption {
	switch {
	case style == "" || style == StyleAuto:
		return glamour.WithAutoStyle()
	case IsBuiltinStyle(style):
		return glamour.WithStandardStyle(style)
	default:
		return glamour.WithStylePath(style)
	}
}

// ThemeInfo contains information about a theme for display purposes.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes returns the markdown styles offered in the config menu.
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: StyleDark, Description: "Dark theme (default)"},
		{Name: StyleLight, Description: "Light theme for bright terminals"},
		{Name: StyleAuto, Description: "Pick dark or light from the terminal background"},
		{Name: StyleTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: StyleDracula, Description: "Dracula color scheme"},
		{Name: StylePink, Description: "Pink accents"},
		{Name: StyleNoTTY, Description: "Plain text (no styling)"},
		{Name: StyleASCII, Description: "ASCII-only output"},
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
