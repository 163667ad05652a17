package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/chatsearch/internal/config"
	"github.com/diogo/chatsearch/internal/render"
)

// configView represents the current view in the config menu
type configView int

const (
	viewMain           configView = iota
	viewThemeSelect               // Markdown theme
	viewTUIThemeSelect            // TUI color theme
)

// Menu item indices for main view
const (
	menuVerbose = iota
	menuCopyToClipboard
	menuOpenExports
	menuMarkdownEmoji
	menuTheme    // Markdown theme
	menuTUITheme // TUI color theme
	menuExit
	menuItemCount
)

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// SaveFunc persists a configuration
type SaveFunc func(cfg config.Config) error

// ConfigPaths are the files shown in the paths panel
type ConfigPaths struct {
	Config      string
	Log         string
	DefaultFile string
}

// ConfigModel represents the config TUI state
type ConfigModel struct {
	config config.Config
	paths  ConfigPaths
	save   SaveFunc

	defaultFileExists bool

	// Navigation
	view           configView
	cursor         int
	themeCursor    int // Markdown theme cursor
	tuiThemeCursor int // TUI theme cursor

	// Feedback
	feedback        string
	feedbackErr     bool
	feedbackTimeout time.Duration

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewConfigModel creates a config menu for the configuration on disk
func NewConfigModel() ConfigModel {
	cfg, err := config.LoadConfig()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	configPath, _ := config.GetConfigPath()
	logPath, _ := config.GetLogPath()

	return NewConfigModelWith(cfg, ConfigPaths{
		Config:      configPath,
		Log:         logPath,
		DefaultFile: cfg.DefaultFile,
	}, config.SaveConfig)
}

// NewConfigModelWith creates a config menu for cfg that persists changes with save
func NewConfigModelWith(cfg config.Config, paths ConfigPaths, save SaveFunc) ConfigModel {
	defaultFileExists := false
	if paths.DefaultFile != "" {
		if _, err := os.Stat(paths.DefaultFile); err == nil {
			defaultFileExists = true
		}
	}

	currentTheme := cfg.Markdown.Style
	if currentTheme == "" {
		currentTheme = render.StyleDark
	}
	currentTUITheme := cfg.TUITheme
	if currentTUITheme == "" {
		currentTUITheme = render.DefaultTUITheme
	}

	// Apply the configured TUI theme at startup
	if render.SetTUITheme(currentTUITheme) {
		UpdateTheme()
	}

	return ConfigModel{
		config:            cfg,
		paths:             paths,
		save:              save,
		defaultFileExists: defaultFileExists,
		view:              viewMain,
		themeCursor:       indexOf(render.ThemeNames(), currentTheme),
		tuiThemeCursor:    indexOf(render.TUIThemeNames(), currentTUITheme),
		feedbackTimeout:   2 * time.Second,
	}
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return 0
}

// Config returns the configuration as edited so far
func (m ConfigModel) Config() config.Config {
	return m.config
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// wrap moves a cursor by delta within n items, wrapping at both ends
func wrap(cursor, delta, n int) int {
	if n == 0 {
		return 0
	}
	return ((cursor+delta)%n + n) % n
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""
		m.feedbackErr = false

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			m.moveCursor(-1)

		case "down", "j":
			m.moveCursor(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

func (m *ConfigModel) moveCursor(delta int) {
	switch m.view {
	case viewMain:
		m.cursor = wrap(m.cursor, delta, menuItemCount)
	case viewThemeSelect:
		m.themeCursor = wrap(m.themeCursor, delta, len(render.ThemeNames()))
	case viewTUIThemeSelect:
		m.tuiThemeCursor = wrap(m.tuiThemeCursor, delta, len(render.TUIThemeNames()))
	}
}

// persist saves the configuration and reports the outcome
func (m *ConfigModel) persist(success string) tea.Cmd {
	if err := m.save(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
		m.feedbackErr = true
	} else {
		m.feedback = success
		m.feedbackErr = false
	}
	return clearFeedback(m.feedbackTimeout)
}

func toggleFeedback(name string, enabled bool) string {
	if enabled {
		return name + " enabled"
	}
	return name + " disabled"
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewMain:
		switch m.cursor {
		case menuVerbose:
			m.config.Verbose = !m.config.Verbose
			return m, m.persist(toggleFeedback("Verbose logging", m.config.Verbose))

		case menuCopyToClipboard:
			m.config.CopyToClipboard = !m.config.CopyToClipboard
			return m, m.persist(toggleFeedback("Copy to clipboard", m.config.CopyToClipboard))

		case menuOpenExports:
			m.config.OpenExports = !m.config.OpenExports
			return m, m.persist(toggleFeedback("Open exports", m.config.OpenExports))

		case menuMarkdownEmoji:
			m.config.Markdown.EnableEmoji = !m.config.Markdown.EnableEmoji
			return m, m.persist(toggleFeedback("Emoji rendering", m.config.Markdown.EnableEmoji))

		case menuTheme:
			m.view = viewThemeSelect
			return m, nil

		case menuTUITheme:
			m.view = viewTUIThemeSelect
			return m, nil

		case menuExit:
			return m, tea.Quit
		}

	case viewThemeSelect:
		m.config.Markdown.Style = render.ThemeNames()[m.themeCursor]
		m.view = viewMain
		return m, m.persist(fmt.Sprintf("Markdown theme set to %s", m.config.Markdown.Style))

	case viewTUIThemeSelect:
		selected := render.TUIThemeNames()[m.tuiThemeCursor]
		m.config.TUITheme = selected

		// Apply the new TUI theme immediately
		render.SetTUITheme(selected)
		UpdateTheme()

		m.view = viewMain
		return m, m.persist(fmt.Sprintf("TUI theme set to %s", selected))
	}

	return m, nil
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := max(40, m.width-4)

	header := configHeaderStyle.Width(contentWidth).Render(configTitleStyle.Render("✦ Configuration"))
	sections := []string{header, m.renderPaths(contentWidth)}

	var settingsContent string
	switch m.view {
	case viewMain:
		settingsContent = m.renderMainMenu()
	case viewThemeSelect:
		settingsContent = m.renderThemeSelect()
	case viewTUIThemeSelect:
		settingsContent = m.renderTUIThemeSelect()
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(settingsContent))

	if m.feedback != "" {
		if m.feedbackErr {
			sections = append(sections, errorStyle.Render("✗ "+m.feedback))
		} else {
			sections = append(sections, configFeedbackStyle.Render("✓ "+m.feedback))
		}
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderPaths renders the panel listing config, log and default export files
func (m ConfigModel) renderPaths(width int) string {
	defaultFile := configDisabledStyle.Render("not set")
	if m.paths.DefaultFile != "" {
		status := configEnabledStyle.Render("✓ exists")
		if !m.defaultFileExists {
			status = configDisabledStyle.Render("✗ not found")
		}
		defaultFile = configPathStyle.Render(m.paths.DefaultFile) + "  " + status
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render("Paths"),
		fmt.Sprintf("   Config:  %s", configPathStyle.Render(m.paths.Config)),
		fmt.Sprintf("   Log:     %s", configPathStyle.Render(m.paths.Log)),
		fmt.Sprintf("   Default: %s", defaultFile),
	)
	return configPanelStyle.Width(width).Render(content)
}

// menuLine renders one menu entry with a padded value column
func (m ConfigModel) menuLine(index int, label, value string) string {
	const labelWidth = 20

	cursor := "  "
	style := configMenuItemStyle
	if m.cursor == index {
		cursor = configCursorStyle.Render("▸ ")
		style = configMenuSelectedStyle
	}

	if value == "" {
		return cursor + style.Render(label)
	}
	pad := max(1, labelWidth-lipgloss.Width(label))
	return cursor + style.Render(label) + strings.Repeat(" ", pad) + value
}

// renderMainMenu renders the main settings menu
func (m ConfigModel) renderMainMenu() string {
	currentTheme := m.config.Markdown.Style
	if currentTheme == "" {
		currentTheme = render.StyleDark
	}
	currentTUITheme := m.config.TUITheme
	if currentTUITheme == "" {
		currentTUITheme = render.DefaultTUITheme
	}

	items := []string{
		configSectionTitleStyle.Render("Settings"),
		"",
		m.menuLine(menuVerbose, "Verbose Logging", m.renderBoolValue(m.config.Verbose)),
		m.menuLine(menuCopyToClipboard, "Copy to Clipboard", m.renderBoolValue(m.config.CopyToClipboard)),
		m.menuLine(menuOpenExports, "Open Exports", m.renderBoolValue(m.config.OpenExports)),
		m.menuLine(menuMarkdownEmoji, "Emoji in Markdown", m.renderBoolValue(m.config.Markdown.EnableEmoji)),
		m.menuLine(menuTheme, "Markdown Theme", configValueStyle.Render(currentTheme)),
		m.menuLine(menuTUITheme, "TUI Theme", configValueStyle.Render(currentTUITheme)),
		"",
		m.menuLine(menuExit, "Exit", ""),
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderSelect renders a theme list with the cursor on index
func renderSelect(title string, names, descriptions []string, cursor int, current string) string {
	items := []string{configSectionTitleStyle.Render(title), ""}

	for i, name := range names {
		prefix := "  "
		style := configMenuItemStyle
		if cursor == i {
			prefix = configCursorStyle.Render("▸ ")
			style = configMenuSelectedStyle
		}

		suffix := ""
		if name == current {
			suffix = configEnabledStyle.Render(" (current)")
		}

		items = append(items, prefix+style.Render(fmt.Sprintf("%s - %s", name, descriptions[i]))+suffix)
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderThemeSelect renders the markdown theme selection sub-menu
func (m ConfigModel) renderThemeSelect() string {
	themes := render.AvailableThemes()
	names := make([]string, len(themes))
	descriptions := make([]string, len(themes))
	for i, theme := range themes {
		names[i] = theme.Name
		descriptions[i] = theme.Description
	}

	current := m.config.Markdown.Style
	if current == "" {
		current = render.StyleDark
	}
	return renderSelect("Select Markdown Theme", names, descriptions, m.themeCursor, current)
}

// renderTUIThemeSelect renders the TUI color theme selection sub-menu
func (m ConfigModel) renderTUIThemeSelect() string {
	themes := render.AvailableTUIThemes()
	names := make([]string, len(themes))
	descriptions := make([]string, len(themes))
	for i, theme := range themes {
		names[i] = theme.Name
		descriptions[i] = theme.Description
	}

	current := m.config.TUITheme
	if current == "" {
		current = render.DefaultTUITheme
	}
	return renderSelect("Select TUI Theme", names, descriptions, m.tuiThemeCursor, current)
}

// renderBoolValue renders a boolean value with appropriate styling
func (m ConfigModel) renderBoolValue(value bool) string {
	if value {
		return configEnabledStyle.Render("enabled")
	}
	return configDisabledStyle.Render("disabled")
}

// renderStatusBar renders the bottom status bar
func (m ConfigModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.view != viewMain {
		back = "Back"
	}

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", back},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return configStatusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunConfig starts the config TUI
func RunConfig() error {
	p := tea.NewProgram(
		NewConfigModel(),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
