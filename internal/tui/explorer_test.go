package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/diogo/chatsearch/internal/history"
	"github.com/diogo/chatsearch/internal/models"
)

const explorerExport = `[
  {
    "title": "Banana bread",
    "create_time": 300,
    "mapping": {
      "a": {"message": {"author": "user", "content": {"parts": ["How do I bake banana bread?"]}}},
      "b": {"message": {"author": "assistant", "content": {"parts": ["Mash the bananas first."]}}}
    }
  },
  {
    "title": "Apple pie",
    "create_time": 100,
    "mapping": {
      "a": {"message": {"author": "user", "content": "Apple pie recipe please"}}
    }
  },
  {
    "title": "Cherry notes",
    "create_time": 200
  }
]`

// mockExplorerBackend is a mock implementation of ExplorerBackend for testing
type mockExplorerBackend struct {
	documents map[string]string
	loadErr   error
	copyErr   error
	openErr   error

	loadedPaths []string
	copied      string
	opened      *history.SearchMatch
}

func (b *mockExplorerBackend) Load(path string) ([]*models.Conversation, error) {
	b.loadedPaths = append(b.loadedPaths, path)
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	doc, ok := b.documents[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return history.Parse([]byte(doc))
}

func (b *mockExplorerBackend) CopyToClipboard(text string) error {
	if b.copyErr != nil {
		return b.copyErr
	}
	b.copied = text
	return nil
}

func (b *mockExplorerBackend) Open(m history.SearchMatch) (string, error) {
	if b.openErr != nil {
		return "", b.openErr
	}
	b.opened = &m
	return "/tmp/chatsearch-test.txt", nil
}

func newMockBackend() *mockExplorerBackend {
	return &mockExplorerBackend{documents: map[string]string{"export.json": explorerExport}}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runCmd executes cmd and feeds the resulting message back into the model
func runCmd(t *testing.T, m ExplorerModel, cmd tea.Cmd) ExplorerModel {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	updated, _ := m.Update(cmd())
	return updated.(ExplorerModel)
}

func update(m ExplorerModel, msg tea.Msg) (ExplorerModel, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(ExplorerModel), cmd
}

// loadedExplorer returns a sized explorer with explorerExport loaded
func loadedExplorer(t *testing.T, backend *mockExplorerBackend) ExplorerModel {
	t.Helper()
	m := NewExplorerModel(backend, ExplorerOptions{Path: "export.json"})
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = runCmd(t, m, m.Init())
	if m.Status() != StatusLoaded {
		t.Fatalf("status = %q, want %q", m.Status(), StatusLoaded)
	}
	return m
}

func search(t *testing.T, m ExplorerModel, pattern string) ExplorerModel {
	t.Helper()
	m, _ = update(m, keyRunes("/"))
	if m.Mode() != ExplorerModeSearch {
		t.Fatalf("mode = %d, want search", m.Mode())
	}
	m.searchInput.SetValue(pattern)
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	return m
}

func listedTitles(m ExplorerModel) []string {
	var titles []string
	for _, match := range m.Matches() {
		titles = append(titles, match.Title)
	}
	return titles
}

func equalTitles(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewExplorerModel(t *testing.T) {
	m := NewExplorerModel(newMockBackend(), ExplorerOptions{})

	if m.loading {
		t.Error("model without path should not be loading")
	}
	if m.Status() != StatusNoFile {
		t.Errorf("status = %q, want %q", m.Status(), StatusNoFile)
	}
	if m.Init() != nil {
		t.Error("Init without path should not return a command")
	}
	if !strings.Contains(m.View(), "Initializing") {
		t.Error("View before WindowSizeMsg should show initializing")
	}
}

func TestExplorer_InitialLoad(t *testing.T) {
	backend := newMockBackend()
	m := loadedExplorer(t, backend)

	want := []string{"Apple pie", "Cherry notes", "Banana bread"}
	if got := listedTitles(m); !equalTitles(got, want) {
		t.Errorf("listing = %v, want %v", got, want)
	}
	if len(backend.loadedPaths) != 1 || backend.loadedPaths[0] != "export.json" {
		t.Errorf("loaded paths = %v", backend.loadedPaths)
	}

	selected, ok := m.Selected()
	if !ok || selected.Index != 0 {
		t.Fatalf("selected = %+v, %v", selected, ok)
	}
	if !strings.HasPrefix(m.DetailText(), "Title: Apple pie\n") {
		t.Errorf("detail = %q", m.DetailText())
	}

	view := m.View()
	for _, want := range []string{"Entry Number", "Title", "Date Created", "Apple pie", StatusLoaded} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}

func TestExplorer_FailedLoadKeepsDocument(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	backend := newMockBackend()

	m := NewExplorerModel(backend, ExplorerOptions{Path: "export.json", Logger: zap.New(core)})
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = runCmd(t, m, m.Init())
	before := listedTitles(m)

	m, _ = update(m, keyRunes("L"))
	if m.Mode() != ExplorerModeLoad {
		t.Fatalf("mode = %d, want load", m.Mode())
	}
	m.pathInput.SetValue("missing.json")
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = runCmd(t, m, cmd)

	if m.Status() != StatusLoadFailed {
		t.Errorf("status = %q, want %q", m.Status(), StatusLoadFailed)
	}
	if got := listedTitles(m); !equalTitles(got, before) {
		t.Errorf("listing changed after failed load: %v", got)
	}
	if m.session.Path() != "export.json" {
		t.Errorf("session path = %s, want export.json", m.session.Path())
	}
	if logs.FilterMessage("load failed, keeping previous document").Len() != 1 {
		t.Errorf("expected one load warning, got %d", logs.Len())
	}
}

func TestExplorer_LoadAnotherFile(t *testing.T) {
	backend := newMockBackend()
	backend.documents["other.json"] = `[{"title": "Only one", "create_time": 5, "mapping": {}}]`
	m := loadedExplorer(t, backend)

	m = search(t, m, "apple")
	m, _ = update(m, keyRunes("L"))
	m.pathInput.SetValue("  other.json ")
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = runCmd(t, m, cmd)

	if m.Status() != StatusLoaded {
		t.Errorf("status = %q", m.Status())
	}
	if got := listedTitles(m); !equalTitles(got, []string{"Only one"}) {
		t.Errorf("listing = %v", got)
	}
	if m.filterActive {
		t.Error("loading a file should reset the search")
	}
}

func TestExplorer_LoadModeCancel(t *testing.T) {
	backend := newMockBackend()
	m := loadedExplorer(t, backend)

	m, _ = update(m, keyRunes("L"))
	m.pathInput.SetValue("other.json")
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEsc})

	if cmd != nil {
		t.Error("cancel should not start a load")
	}
	if m.Mode() != ExplorerModeNormal {
		t.Errorf("mode = %d, want normal", m.Mode())
	}
	if m.pathInput.Value() != "export.json" {
		t.Errorf("path input = %q, want restored path", m.pathInput.Value())
	}
}

func TestExplorer_Search(t *testing.T) {
	m := loadedExplorer(t, newMockBackend())

	m = search(t, m, "banana")

	if got := listedTitles(m); !equalTitles(got, []string{"Banana bread"}) {
		t.Errorf("listing = %v", got)
	}
	want := `Found 1 conversations matching the regex '\bbanana\b'.`
	if m.Status() != want {
		t.Errorf("status = %q, want %q", m.Status(), want)
	}
	if m.Mode() != ExplorerModeNormal {
		t.Error("search should return to normal mode")
	}
	if !strings.HasPrefix(m.DetailText(), "Title: Banana bread\n") {
		t.Errorf("detail should follow the first match, got %q", m.DetailText())
	}
}

func TestExplorer_SearchWholeWord(t *testing.T) {
	m := loadedExplorer(t, newMockBackend())

	m = search(t, m, "banan")

	if len(m.Matches()) != 0 {
		t.Errorf("partial word should not match, got %v", listedTitles(m))
	}
	if m.Status() != `Found 0 conversations matching the regex '\bbanan\b'.` {
		t.Errorf("status = %q", m.Status())
	}
	if _, ok := m.Selected(); ok {
		t.Error("nothing should be selected in an empty listing")
	}
}

func TestExplorer_InvalidRegexKeepsListing(t *testing.T) {
	m := loadedExplorer(t, newMockBackend())
	m = search(t, m, "banana")

	m = search(t, m, "(unclosed")

	if !m.statusError {
		t.Error("invalid regex should be reported as an error")
	}
	if !strings.Contains(m.Status(), "(unclosed") {
		t.Errorf("status = %q", m.Status())
	}
	if got := listedTitles(m); !equalTitles(got, []string{"Banana bread"}) {
		t.Errorf("listing changed after invalid regex: %v", got)
	}
	if !strings.Contains(m.View(), "Hint:") {
		t.Error("status line should include a hint for pattern errors")
	}
}

func TestExplorer_BlankSearchClears(t *testing.T) {
	m := loadedExplorer(t, newMockBackend())
	m = search(t, m, "banana")

	m = search(t, m, "   ")

	if m.Status() != StatusCleared {
		t.Errorf("status = %q, want %q", m.Status(), StatusCleared)
	}
	if len(m.Matches()) != 3 {
		t.Errorf("expected full listing, got %v", listedTitles(m))
	}
}

func TestExplorer_ClearSearch(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
	}{
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}},
		{"ctrl+l", tea.KeyMsg{Type: tea.KeyCtrlL}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loadedExplorer(t, newMockBackend())
			m = search(t, m, "apple")

			m, _ = update(m, tt.key)

			if m.Status() != StatusCleared {
				t.Errorf("status = %q, want %q", m.Status(), StatusCleared)
			}
			if len(m.Matches()) != 3 {
				t.Errorf("expected 3 conversations, got %d", len(m.Matches()))
			}
			if m.searchInput.Value() != "" {
				t.Errorf("search input = %q, want empty", m.searchInput.Value())
			}
		})
	}
}

func TestExplorer_SearchBeforeLoad(t *testing.T) {
	m := NewExplorerModel(newMockBackend(), ExplorerOptions{})
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m = search(t, m, "anything")

	if m.Status() != StatusNotLoaded {
		t.Errorf("status = %q, want %q", m.Status(), StatusNotLoaded)
	}
}

func TestExplorer_SearchModeCancel(t *testing.T) {
	m := loadedExplorer(t, newMockBackend())

	m, _ = update(m, keyRunes("/"))
	m, _ = update(m, keyRunes("q"))
	if m.searchInput.Value() != "q" {
		t.Errorf("typing in search mode should edit the input, got %q", m.searchInput.Value())
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Mode() != ExplorerModeNormal {
		t.Error("esc should leave search mode")
	}
	if len(m.Matches()) != 3 {
		t.Error("cancelled search should not filter")
	}
}

func TestExplorer_Sort(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want []string
	}{
		{"entry desc", []string{"1"}, []string{"Banana bread", "Cherry notes", "Apple pie"}},
		{"title asc", []string{"2"}, []string{"Apple pie", "Banana bread", "Cherry notes"}},
		{"title desc", []string{"2", "2"}, []string{"Cherry notes", "Banana bread", "Apple pie"}},
		{"date asc", []string{"3"}, []string{"Apple pie", "Cherry notes", "Banana bread"}},
		{"date desc", []string{"3", "3"}, []string{"Banana bread", "Cherry notes", "Apple pie"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loadedExplorer(t, newMockBackend())
			for _, k := range tt.keys {
				m, _ = update(m, keyRunes(k))
			}
			if got := listedTitles(m); !equalTitles(got, tt.want) {
				t.Errorf("listing = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExplorer_SortKeepsSelection(t *testing.T) {
	m := loadedExplorer(t, newMockBackend())

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	selected, _ := m.Selected()
	if selected.Title != "Cherry notes" {
		t.Fatalf("selected = %s, want Cherry notes", selected.Title)
	}

	m, _ = update(m, keyRunes("2"))

	after, ok := m.Selected()
	if !ok || after.Index != selected.Index {
		t.Errorf("selection moved from %d to %d", selected.Index, after.Index)
	}
}

func TestExplorer_NavigationUpdatesDetail(t *testing.T) {
	m := loadedExplorer(t, newMockBackend())

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})

	if !strings.HasPrefix(m.DetailText(), "Title: Banana bread\n") {
		t.Errorf("detail = %q", m.DetailText())
	}
	if !strings.Contains(m.detail.View(), "Mash the bananas first.") {
		t.Error("detail pane should show the selected conversation")
	}
}

func TestExplorer_Copy(t *testing.T) {
	backend := newMockBackend()
	m := loadedExplorer(t, backend)

	m, cmd := update(m, keyRunes("c"))
	m = runCmd(t, m, cmd)

	if m.Status() != StatusCopied {
		t.Errorf("status = %q, want %q", m.Status(), StatusCopied)
	}
	if backend.copied != m.DetailText() {
		t.Errorf("copied %q, want detail text", backend.copied)
	}
}

func TestExplorer_CopyError(t *testing.T) {
	backend := newMockBackend()
	backend.copyErr = errors.New("no clipboard")
	m := loadedExplorer(t, backend)

	m, cmd := update(m, keyRunes("c"))
	m = runCmd(t, m, cmd)

	if !m.statusError {
		t.Error("copy failure should be reported as an error")
	}
}

func TestExplorer_Open(t *testing.T) {
	backend := newMockBackend()
	m := loadedExplorer(t, backend)

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = runCmd(t, m, cmd)

	if backend.opened == nil || backend.opened.Index != 0 {
		t.Fatalf("opened = %+v", backend.opened)
	}
	if !strings.Contains(m.Status(), "/tmp/chatsearch-test.txt") {
		t.Errorf("status = %q", m.Status())
	}
}

func TestExplorer_ActionsWithoutSelection(t *testing.T) {
	backend := newMockBackend()
	m := NewExplorerModel(backend, ExplorerOptions{})
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	for _, key := range []string{"c", "o"} {
		var cmd tea.Cmd
		m, cmd = update(m, keyRunes(key))
		if cmd != nil {
			t.Errorf("%s without selection should not return a command", key)
		}
		if m.Status() != StatusNoSelection {
			t.Errorf("%s: status = %q", key, m.Status())
		}
	}
}

func TestExplorer_MarkdownToggle(t *testing.T) {
	m := loadedExplorer(t, newMockBackend())

	m, _ = update(m, keyRunes("m"))
	if !m.markdown {
		t.Fatal("m should enable markdown rendering")
	}
	if !strings.Contains(m.detail.View(), "Apple pie") {
		t.Error("markdown detail should still show the title")
	}

	m, _ = update(m, keyRunes("m"))
	if m.markdown {
		t.Error("second m should disable markdown rendering")
	}
}

func TestExplorer_FocusToggle(t *testing.T) {
	m := loadedExplorer(t, newMockBackend())

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusDetail {
		t.Fatal("tab should focus the detail pane")
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	if selected, _ := m.Selected(); selected.Index != 0 {
		t.Error("navigation keys should scroll the detail pane, not move the list")
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusList {
		t.Error("second tab should focus the list")
	}
}

func TestExplorer_Quit(t *testing.T) {
	tests := []tea.KeyMsg{
		keyRunes("q"),
		{Type: tea.KeyCtrlC},
	}

	for _, key := range tests {
		m := loadedExplorer(t, newMockBackend())
		_, cmd := update(m, key)
		if cmd == nil {
			t.Fatalf("%s should return a command", key.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s should quit", key.String())
		}
	}
}

func TestExplorerColumns(t *testing.T) {
	cols := explorerColumns(100, history.SortByTitle, true)

	if len(cols) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(cols))
	}
	if cols[0].Title != "Entry Number" || cols[2].Title != "Date Created" {
		t.Errorf("titles = %q, %q", cols[0].Title, cols[2].Title)
	}
	if cols[1].Title != "Title ▼" {
		t.Errorf("sorted column title = %q", cols[1].Title)
	}
	if cols[1].Width < 10 {
		t.Errorf("title width = %d", cols[1].Width)
	}
}

func TestExplorerRow(t *testing.T) {
	convs, err := history.Parse([]byte(`[{"title": "multi\nline   title"}]`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	row := explorerRow(history.NewMatch(0, convs[0]))
	if row[0] != "0" || row[1] != "multi line title" || row[2] != history.UnknownDate {
		t.Errorf("row = %v", row)
	}
}
