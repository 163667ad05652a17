package render

import (
	"os"

	"github.com/diogo/chatsearch/internal/config"
)

// LoadOptionsFromConfig builds render options from user configuration.
// GLAMOUR_STYLE takes precedence over the configured style.
func LoadOptionsFromConfig(cfg config.Config) Options {
	opts := OptionsFromMarkdownConfig(cfg.Markdown)

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}

	return opts
}

// LoadOptionsFromConfigWithWidth builds options from config with a specific width.
func LoadOptionsFromConfigWithWidth(cfg config.Config, width int) Options {
	return LoadOptionsFromConfig(cfg).WithWidth(width)
}
