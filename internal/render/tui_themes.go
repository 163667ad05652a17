package render

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// DefaultTUITheme is used when the configured theme is unknown
const DefaultTUITheme = "tokyonight"

// TUITheme defines the color scheme for the explorer
type TUITheme struct {
	Name        string
	Description string

	Surface lipgloss.Color
	Border  lipgloss.Color

	// Primary marks headers and focused panes, Selected the highlighted row
	Primary  lipgloss.Color
	Selected lipgloss.Color
	Accent   lipgloss.Color
	Success  lipgloss.Color
	Warning  lipgloss.Color
	Error    lipgloss.Color

	Text    lipgloss.Color
	TextDim lipgloss.Color
}

var tuiThemes = map[string]TUITheme{
	"tokyonight": {
		Name:        "tokyonight",
		Description: "Tokyo Night - Dark theme with blue accents",
		Surface:     "#24283b",
		Border:      "#414868",
		Primary:     "#7aa2f7",
		Selected:    "#33467c",
		Accent:      "#bb9af7",
		Success:     "#9ece6a",
		Warning:     "#e0af68",
		Error:       "#f7768e",
		Text:        "#c0caf5",
		TextDim:     "#565f89",
	},
	"catppuccin": {
		Name:        "catppuccin",
		Description: "Catppuccin Mocha - Warm dark theme with pastel colors",
		Surface:     "#313244",
		Border:      "#45475a",
		Primary:     "#89b4fa",
		Selected:    "#585b70",
		Accent:      "#cba6f7",
		Success:     "#a6e3a1",
		Warning:     "#f9e2af",
		Error:       "#f38ba8",
		Text:        "#cdd6f4",
		TextDim:     "#6c7086",
	},
	"nord": {
		Name:        "nord",
		Description: "Nord - Arctic-inspired theme with cool tones",
		Surface:     "#3b4252",
		Border:      "#4c566a",
		Primary:     "#88c0d0",
		Selected:    "#434c5e",
		Accent:      "#b48ead",
		Success:     "#a3be8c",
		Warning:     "#ebcb8b",
		Error:       "#bf616a",
		Text:        "#eceff4",
		TextDim:     "#7b88a1",
	},
	"paper": {
		Name:        "paper",
		Description: "Paper - Light theme for bright terminals",
		Surface:     "#eeeeee",
		Border:      "#bcbcbc",
		Primary:     "#005f87",
		Selected:    "#d0d0d0",
		Accent:      "#8700af",
		Success:     "#008700",
		Warning:     "#af5f00",
		Error:       "#d70000",
		Text:        "#1c1c1c",
		TextDim:     "#808080",
	},
}

// currentTUITheme holds the currently active TUI theme
var currentTUITheme = tuiThemes[DefaultTUITheme]

// GetTUITheme returns the currently active TUI theme
func GetTUITheme() TUITheme {
	return currentTUITheme
}

// SetTUITheme sets the active TUI theme by name
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if ok {
		currentTUITheme = theme
	}
	return ok
}

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	theme, ok := tuiThemes[name]
	return theme, ok
}

// AvailableTUIThemes returns all TUI themes, default first
func AvailableTUIThemes() []TUITheme {
	names := TUIThemeNames()
	themes := make([]TUITheme, len(names))
	for i, name := range names {
		themes[i] = tuiThemes[name]
	}
	return themes
}

// TUIThemeNames returns the theme names, default first and the rest sorted
func TUIThemeNames() []string {
	names := []string{DefaultTUITheme}
	var rest []string
	for name := range tuiThemes {
		if name != DefaultTUITheme {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}
