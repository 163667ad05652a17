// Package config handles configuration for chatsearch.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides. A double underscore
// separates nested keys: CHATSEARCH_MARKDOWN__STYLE -> markdown.style
const EnvPrefix = "CHATSEARCH_"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`             // "dark", "light", "notty" or "auto"
	EnableEmoji      bool   `json:"enable_emoji"`      // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"` // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`        // Enable word wrap in table cells
}

// Config represents the user configuration
type Config struct {
	// DefaultFile is opened by the explorer when no file argument is given.
	DefaultFile string `json:"default_file,omitempty"`
	// Verbose enables debug logging. The explorer writes its log to
	// chatsearch.log in the config directory.
	Verbose         bool           `json:"verbose"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	OpenExports     bool           `json:"open_exports"`
	TUITheme        string         `json:"tui_theme,omitempty"`  // TUI color theme
	ExportDir       string         `json:"export_dir,omitempty"` // Directory for exported conversations
	Markdown        MarkdownConfig `json:"markdown"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Verbose:         false,
		CopyToClipboard: false,
		OpenExports:     false,
		TUITheme:        "tokyonight",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".chatsearch")
	return configDir, nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the path to the explorer log file
func GetLogPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "chatsearch.log"), nil
}

// LoadConfig loads the configuration from disk and applies environment
// overrides on top of it
func LoadConfig() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return cfg, err
	}

	if err := applyEnv(&cfg); err != nil {
		return DefaultConfig(), err
	}

	return cfg, nil
}

// LoadFile loads the configuration file without environment overrides.
// Use it before saving so overrides are not written back.
func LoadFile() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// applyEnv overlays CHATSEARCH_* variables onto cfg.
// Fields without a matching variable keep their value.
func applyEnv(cfg *Config) error {
	k := koanf.New(".")

	provider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(key, EnvPrefix)
		key = strings.ReplaceAll(strings.ToLower(key), "__", ".")
		return key, value
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}

	if len(k.Keys()) == 0 {
		return nil
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setters maps a dotted config key to a function that parses and stores a value
var setters = map[string]func(cfg *Config, value string) error{
	"default_file": func(cfg *Config, v string) error { cfg.DefaultFile = v; return nil },
	"tui_theme":    func(cfg *Config, v string) error { cfg.TUITheme = v; return nil },
	"export_dir":   func(cfg *Config, v string) error { cfg.ExportDir = v; return nil },
	"verbose":      boolSetter(func(cfg *Config) *bool { return &cfg.Verbose }),
	"copy_to_clipboard": boolSetter(func(cfg *Config) *bool {
		return &cfg.CopyToClipboard
	}),
	"open_exports":   boolSetter(func(cfg *Config) *bool { return &cfg.OpenExports }),
	"markdown.style": func(cfg *Config, v string) error { cfg.Markdown.Style = v; return nil },
	"markdown.enable_emoji": boolSetter(func(cfg *Config) *bool {
		return &cfg.Markdown.EnableEmoji
	}),
	"markdown.preserve_newlines": boolSetter(func(cfg *Config) *bool {
		return &cfg.Markdown.PreserveNewLines
	}),
	"markdown.table_wrap": boolSetter(func(cfg *Config) *bool {
		return &cfg.Markdown.TableWrap
	}),
}

func boolSetter(field func(cfg *Config) *bool) func(cfg *Config, value string) error {
	return func(cfg *Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("expected true or false, got %q", value)
		}
		*field(cfg) = b
		return nil
	}
}

// Keys returns the settable config keys in sorted order
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set parses value and stores it under key
func (c *Config) Set(key, value string) error {
	setter, ok := setters[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return fmt.Errorf("unknown config key %q (available: %s)", key, strings.Join(Keys(), ", "))
	}
	if err := setter(c, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}
