// Package tui provides the terminal user interface for chatsearch.
package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/chatsearch/internal/render"
)

// Color variables (updated from theme)
var (
	colorSurface  lipgloss.Color
	colorBorder   lipgloss.Color
	colorPrimary  lipgloss.Color
	colorSelected lipgloss.Color
	colorAccent   lipgloss.Color
	colorSuccess  lipgloss.Color
	colorWarning  lipgloss.Color
	colorError    lipgloss.Color
	colorText     lipgloss.Color
	colorTextDim  lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	// Explorer panes
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	subtitleStyle      lipgloss.Style
	hintStyle          lipgloss.Style
	panelStyle         lipgloss.Style
	focusedPanelStyle  lipgloss.Style
	inputPanelStyle    lipgloss.Style
	inputLabelStyle    lipgloss.Style
	loadingStyle       lipgloss.Style
	statusLineStyle    lipgloss.Style
	statusErrorStyle   lipgloss.Style
	statusKeyStyle     lipgloss.Style
	statusDescStyle    lipgloss.Style
	errorStyle         lipgloss.Style

	// Config menu styles
	configHeaderStyle       lipgloss.Style
	configTitleStyle        lipgloss.Style
	configPanelStyle        lipgloss.Style
	configSectionTitleStyle lipgloss.Style
	configMenuItemStyle     lipgloss.Style
	configMenuSelectedStyle lipgloss.Style
	configCursorStyle       lipgloss.Style
	configValueStyle        lipgloss.Style
	configEnabledStyle      lipgloss.Style
	configDisabledStyle     lipgloss.Style
	configPathStyle         lipgloss.Style
	configFeedbackStyle     lipgloss.Style
	configStatusBarStyle    lipgloss.Style
)

// init loads the default theme on package initialization
func init() {
	UpdateTheme()
}

// UpdateTheme refreshes all styles based on the current TUI theme
func UpdateTheme() {
	theme := render.GetTUITheme()

	colorSurface = theme.Surface
	colorBorder = theme.Border
	colorPrimary = theme.Primary
	colorSelected = theme.Selected
	colorAccent = theme.Accent
	colorSuccess = theme.Success
	colorWarning = theme.Warning
	colorError = theme.Error
	colorText = theme.Text
	colorTextDim = theme.TextDim

	rebuildStyles()
}

// rebuildStyles creates all lipgloss styles with current color values
func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true)

	panelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder)

	focusedPanelStyle = panelStyle.
		BorderForeground(colorPrimary)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		MarginRight(1)

	loadingStyle = lipgloss.NewStyle().
		Foreground(colorWarning).
		Bold(true)

	statusLineStyle = lipgloss.NewStyle().
		Foreground(colorSuccess).
		Background(colorSurface).
		Padding(0, 1)

	statusErrorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Background(colorSurface).
		Padding(0, 1)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	configHeaderStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		MarginBottom(1).
		Align(lipgloss.Center)

	configTitleStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Bold(true).
		PaddingLeft(1)

	configPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 2)

	configSectionTitleStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	configMenuItemStyle = lipgloss.NewStyle().
		Foreground(colorText)

	configMenuSelectedStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	configCursorStyle = lipgloss.NewStyle().
		Foreground(colorAccent)

	configValueStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	configEnabledStyle = lipgloss.NewStyle().
		Foreground(colorSuccess)

	configDisabledStyle = lipgloss.NewStyle().
		Foreground(colorError)

	configPathStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true)

	configFeedbackStyle = lipgloss.NewStyle().
		Foreground(colorSuccess).
		Italic(true).
		MarginTop(1)

	configStatusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		MarginTop(1).
		Align(lipgloss.Center)
}

// tableStyles returns the bubbles table styles for the current theme
func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Foreground(colorPrimary).
		Bold(true)
	s.Cell = s.Cell.Foreground(colorText)
	s.Selected = s.Selected.
		Foreground(colorText).
		Background(colorSelected).
		Bold(true)
	return s
}
