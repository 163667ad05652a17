package commands

import (
	"github.com/atotto/clipboard"

	"github.com/diogo/chatsearch/internal/browser"
	"github.com/diogo/chatsearch/internal/config"
	"github.com/diogo/chatsearch/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunExplorer(opts tui.ExplorerOptions) error
	RunConfig() error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// TUI is the terminal user interface.
	TUI TUIInterface

	// LoadConfig returns the effective configuration (file plus environment).
	LoadConfig func() (config.Config, error)

	// Clipboard copies text to the system clipboard.
	Clipboard func(text string) error

	// Open opens a file in the default application.
	Open browser.Opener
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunExplorer(opts tui.ExplorerOptions) error {
	return tui.RunExplorer(tui.NewSystemBackend(), opts)
}

func (d *DefaultTUI) RunConfig() error {
	return tui.RunConfig()
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:        &DefaultTUI{},
		LoadConfig: config.LoadConfig,
		Clipboard:  clipboard.WriteAll,
		Open:       browser.OpenFile,
	}
}

// withDefaults fills unset fields so commands can be built with partial
// or nil dependencies.
func (d *Dependencies) withDefaults() *Dependencies {
	defaults := NewDependencies()
	if d == nil {
		return defaults
	}

	out := *d
	if out.TUI == nil {
		out.TUI = defaults.TUI
	}
	if out.LoadConfig == nil {
		out.LoadConfig = defaults.LoadConfig
	}
	if out.Clipboard == nil {
		out.Clipboard = defaults.Clipboard
	}
	if out.Open == nil {
		out.Open = defaults.Open
	}
	return &out
}

// loadConfig returns the configuration, falling back to defaults when the
// file cannot be read
func (d *Dependencies) loadConfig() config.Config {
	cfg, err := d.LoadConfig()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}
