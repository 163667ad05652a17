package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	apperrors "github.com/diogo/chatsearch/internal/errors"
	"github.com/diogo/chatsearch/internal/browser"
	"github.com/diogo/chatsearch/internal/history"
	"github.com/diogo/chatsearch/internal/models"
	"github.com/diogo/chatsearch/internal/render"
)

// Status messages shown in the explorer status line
const (
	StatusLoaded       = "File loaded successfully."
	StatusLoadFailed   = "Failed to load file."
	StatusCleared      = "Cleared search and displayed all conversations."
	StatusNotLoaded    = "Please load a JSON file first."
	StatusNoFile       = "Press L to load a conversations.json file."
	StatusCopied       = "Copied conversation to clipboard."
	StatusNoSelection  = "No conversation selected."
	explorerHelpStatus = "/:Search  Esc:Clear  1/2/3:Sort  c:Copy  o:Open  m:Markdown  Tab:Focus  L:Load  q:Quit"
)

// ExplorerBackend performs the side effects of the explorer
type ExplorerBackend interface {
	Load(path string) ([]*models.Conversation, error)
	CopyToClipboard(text string) error
	Open(m history.SearchMatch) (string, error)
}

// systemBackend reads files from disk and talks to the OS clipboard and
// default application
type systemBackend struct {
	opener browser.Opener
}

// NewSystemBackend returns the backend used outside of tests
func NewSystemBackend() ExplorerBackend {
	return systemBackend{opener: browser.OpenFile}
}

func (b systemBackend) Load(path string) ([]*models.Conversation, error) {
	return history.Load(path)
}

func (b systemBackend) CopyToClipboard(text string) error {
	return clipboard.WriteAll(text)
}

func (b systemBackend) Open(m history.SearchMatch) (string, error) {
	path, err := history.WriteTempFile(m)
	if err != nil {
		return "", err
	}
	if err := b.opener(path); err != nil {
		return path, err
	}
	return path, nil
}

// ExplorerMode represents the current input mode of the explorer
type ExplorerMode int

const (
	ExplorerModeNormal ExplorerMode = iota
	ExplorerModeSearch
	ExplorerModeLoad
)

// explorerFocus is the pane receiving navigation keys
type explorerFocus int

const (
	focusList explorerFocus = iota
	focusDetail
)

// ExplorerOptions configures a new explorer
type ExplorerOptions struct {
	// Path is loaded on start when set
	Path string
	// Markdown renders the detail pane through glamour
	Markdown      bool
	RenderOptions render.Options
	Logger        *zap.Logger
}

// explorerLoadedMsg is sent when a file load finishes
type explorerLoadedMsg struct {
	path          string
	conversations []*models.Conversation
	err           error
}

// explorerCopiedMsg is sent after a clipboard copy
type explorerCopiedMsg struct {
	err error
}

// explorerOpenedMsg is sent after opening a conversation externally
type explorerOpenedMsg struct {
	path string
	err  error
}

// ExplorerModel is the conversation explorer: a sortable list of
// conversations, a detail pane and a regex search box
type ExplorerModel struct {
	backend ExplorerBackend
	session *history.Session
	logger  *zap.Logger

	// Listing in display order; table row i shows matches[i]
	matches      []history.SearchMatch
	filterActive bool
	pattern      string
	sortColumn   history.SortColumn
	sortDesc     bool

	// Widgets
	table       table.Model
	detail      viewport.Model
	searchInput textinput.Model
	pathInput   textinput.Model

	// State
	mode        ExplorerMode
	focus       explorerFocus
	loading     bool
	status      string
	statusError bool
	lastErr     error

	markdown   bool
	renderOpts render.Options

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewExplorerModel creates a new explorer model
func NewExplorerModel(backend ExplorerBackend, opts ExplorerOptions) ExplorerModel {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	searchInput := textinput.New()
	searchInput.Placeholder = "regular expression, matched as whole words..."
	searchInput.CharLimit = 256

	pathInput := textinput.New()
	pathInput.Placeholder = "path/to/conversations.json"
	pathInput.CharLimit = 1024

	t := table.New(
		table.WithColumns(explorerColumns(80, history.SortByEntry, false)),
		table.WithFocused(true),
		table.WithHeight(5),
		table.WithStyles(tableStyles()),
	)

	renderOpts := opts.RenderOptions
	if renderOpts.Style == "" {
		renderOpts = render.DefaultOptions()
	}

	m := ExplorerModel{
		backend:     backend,
		session:     history.NewSession(logger),
		logger:      logger,
		sortColumn:  history.SortByEntry,
		table:       t,
		detail:      viewport.New(80, 10),
		searchInput: searchInput,
		pathInput:   pathInput,
		mode:        ExplorerModeNormal,
		focus:       focusList,
		markdown:    opts.Markdown,
		renderOpts:  renderOpts,
		status:      StatusNoFile,
	}

	if opts.Path != "" {
		m.loading = true
		m.pathInput.SetValue(opts.Path)
		m.status = fmt.Sprintf("Loading %s...", opts.Path)
	}

	return m
}

// Init starts loading the initial file, if any
func (m ExplorerModel) Init() tea.Cmd {
	if m.loading {
		return m.loadFile(m.pathInput.Value())
	}
	return nil
}

// loadFile returns a command that parses path off the UI loop
func (m ExplorerModel) loadFile(path string) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		conversations, err := backend.Load(path)
		return explorerLoadedMsg{path: path, conversations: conversations, err: err}
	}
}

// copyText returns a command that copies text to the clipboard
func (m ExplorerModel) copyText(text string) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		return explorerCopiedMsg{err: backend.CopyToClipboard(text)}
	}
}

// openMatch returns a command that opens a match in the default application
func (m ExplorerModel) openMatch(match history.SearchMatch) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		path, err := backend.Open(match)
		return explorerOpenedMsg{path: path, err: err}
	}
}

// Update handles messages and updates the model
func (m ExplorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		m.refreshDetail()
		return m, nil

	case explorerLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.logger.Warn("load failed, keeping previous document",
				zap.String("path", msg.path),
				zap.String("previous", m.session.Path()),
				zap.Error(msg.err))
			m.setError(StatusLoadFailed, msg.err)
			return m, nil
		}

		m.session.Replace(msg.path, msg.conversations)
		m.logger.Debug("loaded export",
			zap.String("path", msg.path),
			zap.Int("conversations", len(msg.conversations)))
		m.pathInput.SetValue(msg.path)
		m.searchInput.SetValue("")
		m.pattern = ""
		m.filterActive = false
		m.setListing(m.session.All())
		m.setStatus(StatusLoaded)
		return m, nil

	case explorerCopiedMsg:
		if msg.err != nil {
			m.setError("Failed to copy to clipboard.", msg.err)
		} else {
			m.setStatus(StatusCopied)
		}
		return m, nil

	case explorerOpenedMsg:
		if msg.err != nil {
			m.logger.Warn("open failed", zap.String("path", msg.path), zap.Error(msg.err))
			m.setError("Failed to open conversation.", msg.err)
		} else {
			m.setStatus(fmt.Sprintf("Opened %s", msg.path))
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.mode {
		case ExplorerModeSearch:
			return m.updateSearchMode(msg)
		case ExplorerModeLoad:
			return m.updateLoadMode(msg)
		default:
			return m.updateNormalMode(msg)
		}
	}

	return m, nil
}

// updateNormalMode handles input in normal mode
func (m ExplorerModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "/":
		m.mode = ExplorerModeSearch
		m.searchInput.SetValue(m.pattern)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case "L", "ctrl+o":
		m.mode = ExplorerModeLoad
		m.pathInput.CursorEnd()
		return m, m.pathInput.Focus()

	case "esc":
		if m.filterActive {
			m.clearSearch()
		}
		return m, nil

	case "ctrl+l":
		if m.session.Loaded() {
			m.clearSearch()
		}
		return m, nil

	case "1":
		m.toggleSort(history.SortByEntry)
		return m, nil
	case "2":
		m.toggleSort(history.SortByTitle)
		return m, nil
	case "3":
		m.toggleSort(history.SortByDate)
		return m, nil

	case "c":
		match, ok := m.Selected()
		if !ok {
			m.setStatus(StatusNoSelection)
			return m, nil
		}
		return m, m.copyText(history.FormatConversation(match))

	case "o", "enter":
		match, ok := m.Selected()
		if !ok {
			m.setStatus(StatusNoSelection)
			return m, nil
		}
		return m, m.openMatch(match)

	case "m":
		m.markdown = !m.markdown
		m.refreshDetail()
		return m, nil

	case "tab":
		if m.focus == focusList {
			m.focus = focusDetail
			m.table.Blur()
		} else {
			m.focus = focusList
			m.table.Focus()
		}
		return m, nil

	case "?":
		m.setStatus(explorerHelpStatus)
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusDetail {
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}

	before := m.table.Cursor()
	m.table, cmd = m.table.Update(msg)
	if m.table.Cursor() != before {
		m.refreshDetail()
	}
	return m, cmd
}

// updateSearchMode handles input in search mode
func (m ExplorerModel) updateSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ExplorerModeNormal
		m.searchInput.Blur()
		return m, nil

	case "enter":
		m.mode = ExplorerModeNormal
		m.searchInput.Blur()
		m.runSearch(m.searchInput.Value())
		return m, nil

	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
}

// updateLoadMode handles input in load mode
func (m ExplorerModel) updateLoadMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ExplorerModeNormal
		m.pathInput.Blur()
		if m.session.Loaded() {
			m.pathInput.SetValue(m.session.Path())
		}
		return m, nil

	case "enter":
		path := strings.TrimSpace(m.pathInput.Value())
		m.mode = ExplorerModeNormal
		m.pathInput.Blur()
		if path == "" {
			return m, nil
		}
		m.loading = true
		m.setStatus(fmt.Sprintf("Loading %s...", path))
		return m, m.loadFile(path)

	default:
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}
}

// runSearch filters the listing by pattern; a blank pattern clears the search
func (m *ExplorerModel) runSearch(pattern string) {
	if !m.session.Loaded() {
		m.setError(StatusNotLoaded, nil)
		return
	}

	if history.IsBlankPattern(pattern) {
		m.clearSearch()
		return
	}

	matches, err := m.session.Search(pattern)
	if err != nil {
		// listing and document stay as they were
		m.setError(fmt.Sprintf("Invalid regex '%s'.", strings.TrimSpace(pattern)), err)
		return
	}

	m.pattern = pattern
	m.filterActive = true
	m.setListing(matches)
	m.setStatus(history.SearchSummary(len(matches), pattern))
}

// clearSearch restores the full listing
func (m *ExplorerModel) clearSearch() {
	m.searchInput.SetValue("")
	m.pattern = ""
	m.filterActive = false
	m.setListing(m.session.All())
	m.setStatus(StatusCleared)
}

// toggleSort sorts by column, flipping direction when it is already active
func (m *ExplorerModel) toggleSort(column history.SortColumn) {
	if m.sortColumn == column {
		m.sortDesc = !m.sortDesc
	} else {
		m.sortColumn = column
		m.sortDesc = false
	}

	selected, ok := m.Selected()
	history.SortMatches(m.matches, m.sortColumn, m.sortDesc)
	m.syncTable()

	// keep the same conversation selected
	if ok {
		for i, match := range m.matches {
			if match.Index == selected.Index {
				m.table.SetCursor(i)
				break
			}
		}
	}
	m.refreshDetail()
}

// setListing replaces the displayed matches, applying the current sort
func (m *ExplorerModel) setListing(matches []history.SearchMatch) {
	m.matches = matches
	history.SortMatches(m.matches, m.sortColumn, m.sortDesc)
	m.syncTable()
	m.table.SetCursor(0)
	m.detail.GotoTop()
	m.refreshDetail()
}

// syncTable rebuilds the table rows and headings from matches
func (m *ExplorerModel) syncTable() {
	rows := make([]table.Row, len(m.matches))
	for i, match := range m.matches {
		rows[i] = explorerRow(match)
	}
	m.table.SetColumns(explorerColumns(m.listWidth(), m.sortColumn, m.sortDesc))
	m.table.SetRows(rows)
}

func (m *ExplorerModel) setStatus(status string) {
	m.status = status
	m.statusError = false
	m.lastErr = nil
}

func (m *ExplorerModel) setError(status string, err error) {
	m.status = status
	m.statusError = true
	m.lastErr = err
}

// Selected returns the highlighted conversation
func (m ExplorerModel) Selected() (history.SearchMatch, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.matches) {
		return history.SearchMatch{}, false
	}
	return m.matches[cursor], true
}

// Matches returns the listing in display order
func (m ExplorerModel) Matches() []history.SearchMatch {
	return m.matches
}

// Status returns the status line text
func (m ExplorerModel) Status() string {
	return m.status
}

// Mode returns the current input mode
func (m ExplorerModel) Mode() ExplorerMode {
	return m.mode
}

// DetailText returns the text shown in the detail pane before styling
func (m ExplorerModel) DetailText() string {
	match, ok := m.Selected()
	if !ok {
		return ""
	}
	return history.FormatConversation(match)
}

// refreshDetail renders the selected conversation into the detail pane
func (m *ExplorerModel) refreshDetail() {
	match, ok := m.Selected()
	if !ok {
		m.detail.SetContent(hintStyle.Render("No conversation selected"))
		return
	}

	width := m.detail.Width
	if width <= 0 {
		width = 80
	}

	content := history.FormatConversation(match)
	if m.markdown {
		rendered, err := render.Conversation(match, m.renderOpts.WithWidth(width))
		if err == nil {
			content = rendered
		} else {
			m.logger.Debug("markdown render failed, showing plain text", zap.Error(err))
		}
	} else {
		content = lipgloss.NewStyle().Width(width).Render(content)
	}

	m.detail.SetContent(content)
	m.detail.GotoTop()
}

// layout sizes the widgets to the window
func (m *ExplorerModel) layout() {
	const (
		headerHeight = 3 // border + one line
		footerHeight = 2 // status line + shortcuts
		inputHeight  = 3
		panelBorder  = 2
		tableHeader  = 2 // heading + rule
	)

	avail := m.height - headerHeight - footerHeight - inputHeight
	listRows := max(3, avail*2/5-panelBorder-tableHeader)
	detailRows := max(3, avail-(listRows+panelBorder+tableHeader)-panelBorder)

	m.table.SetHeight(listRows)
	m.table.SetWidth(m.listWidth())
	m.table.SetColumns(explorerColumns(m.listWidth(), m.sortColumn, m.sortDesc))

	m.detail.Width = m.listWidth()
	m.detail.Height = detailRows

	inputWidth := max(20, m.width-20)
	m.searchInput.Width = inputWidth
	m.pathInput.Width = inputWidth
}

// listWidth is the inner width of the panes
func (m ExplorerModel) listWidth() int {
	return max(40, m.width-2)
}

// explorerColumns returns the table columns with a sort indicator
func explorerColumns(width int, column history.SortColumn, desc bool) []table.Column {
	const (
		entryWidth = 12
		dateWidth  = 19
		padding    = 6 // cell padding for three columns
	)

	titles := map[history.SortColumn]string{
		history.SortByEntry: "Entry Number",
		history.SortByTitle: "Title",
		history.SortByDate:  "Date Created",
	}
	arrow := "▲"
	if desc {
		arrow = "▼"
	}
	titles[column] = titles[column] + " " + arrow

	return []table.Column{
		{Title: titles[history.SortByEntry], Width: entryWidth + 2},
		{Title: titles[history.SortByTitle], Width: max(10, width-entryWidth-2-dateWidth-padding)},
		{Title: titles[history.SortByDate], Width: dateWidth},
	}
}

// explorerRow formats a match as a table row
func explorerRow(match history.SearchMatch) table.Row {
	date := history.UnknownDate
	if match.Conversation != nil {
		date = history.FormatDate(match.Conversation.CreateTime)
	}
	return table.Row{
		strconv.Itoa(match.Index),
		strings.Join(strings.Fields(match.Title), " "),
		date,
	}
}

// View renders the TUI
func (m ExplorerModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	sections := []string{m.renderHeader()}

	listPanel := panelStyle
	detailPanel := panelStyle
	if m.focus == focusList {
		listPanel = focusedPanelStyle
	} else {
		detailPanel = focusedPanelStyle
	}

	if m.loading && !m.session.Loaded() {
		sections = append(sections, listPanel.Width(m.listWidth()).Render(loadingStyle.Render("  Loading conversations...")))
	} else {
		sections = append(sections, listPanel.Render(m.table.View()))
	}
	sections = append(sections, detailPanel.Render(m.detail.View()))

	switch m.mode {
	case ExplorerModeSearch:
		sections = append(sections, m.renderInput("Search regex:", m.searchInput))
	case ExplorerModeLoad:
		sections = append(sections, m.renderInput("JSON file:", m.pathInput))
	}

	sections = append(sections, m.renderStatus(), m.renderShortcuts())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the header panel
func (m ExplorerModel) renderHeader() string {
	title := titleStyle.Render("Conversation Search")

	file := "no file loaded"
	if m.session.Loaded() {
		file = m.session.Path()
	}

	info := fmt.Sprintf("  %s  %d of %d conversations", file, len(m.matches), len(m.session.Conversations()))
	if m.filterActive {
		info += fmt.Sprintf("  regex: %s", history.WrapPattern(m.pattern))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Center, title, subtitleStyle.Render(info))
	return headerStyle.Width(m.listWidth()).Render(content)
}

// renderInput renders a labelled input field
func (m ExplorerModel) renderInput(label string, input textinput.Model) string {
	content := lipgloss.JoinHorizontal(lipgloss.Left,
		inputLabelStyle.Render(label),
		input.View(),
		hintStyle.Render("  Enter: Confirm  Esc: Cancel"),
	)
	return inputPanelStyle.Width(m.listWidth()).Render(content)
}

// renderStatus renders the status line
func (m ExplorerModel) renderStatus() string {
	if m.statusError {
		text := m.status
		if m.lastErr != nil {
			text += " " + m.lastErr.Error()
			if hint := apperrors.Hint(m.lastErr); hint != "" {
				text += "  Hint: " + hint
			}
		}
		return statusErrorStyle.Width(m.listWidth()).Render(text)
	}
	return statusLineStyle.Width(m.listWidth()).Render(m.status)
}

// renderShortcuts renders the bottom shortcut bar
func (m ExplorerModel) renderShortcuts() string {
	var shortcuts []struct {
		key  string
		desc string
	}

	switch m.mode {
	case ExplorerModeSearch, ExplorerModeLoad:
		shortcuts = []struct {
			key  string
			desc string
		}{
			{"Enter", "Confirm"},
			{"Esc", "Cancel"},
		}
	default:
		shortcuts = []struct {
			key  string
			desc string
		}{
			{"↑↓", "Nav"},
			{"/", "Search"},
			{"Esc", "Clear"},
			{"1/2/3", "Sort"},
			{"c", "Copy"},
			{"o", "Open"},
			{"m", "Markdown"},
			{"Tab", "Focus"},
			{"L", "Load"},
			{"q", "Quit"},
		}
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return configStatusBarStyle.Width(m.listWidth()).Render(strings.Join(items, "  "))
}

// RunExplorer starts the explorer TUI
func RunExplorer(backend ExplorerBackend, opts ExplorerOptions) error {
	m := NewExplorerModel(backend, opts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
