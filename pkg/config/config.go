// Package config loads optional TOML configuration for treeline.
//
// Configuration is entirely optional: every field has a built-in default
// and a missing file is not an error. A config file can override the
// default layout, the auto-grouping flag, the watch-mode debounce, and
// the classifier's ordered category table:
//
//	layout = "radial"
//	auto_group = true
//	debounce_ms = 500
//
//	[[categories]]
//	name = "Food"
//	keywords = ["pizza", "coffee"]
//	color = "#FF7043"
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/treeline-io/treeline/pkg/classify"
	"github.com/treeline-io/treeline/pkg/document"
	"github.com/treeline-io/treeline/pkg/errors"
	"github.com/treeline-io/treeline/pkg/refresh"
)

// DefaultFile is the config filename searched in the working directory.
const DefaultFile = "treeline.toml"

// Config holds user-tunable settings.
type Config struct {
	Layout     string              `toml:"layout"`
	AutoGroup  bool                `toml:"auto_group"`
	DebounceMS int                 `toml:"debounce_ms"`
	Categories []classify.Category `toml:"categories"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout:     document.LayoutTree,
		AutoGroup:  true,
		DebounceMS: int(refresh.DefaultQuiet / time.Millisecond),
		Categories: classify.DefaultTable,
	}
}

// Load reads a TOML config file, filling unset fields with defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "load config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrDefault loads [DefaultFile] from the working directory if it
// exists, otherwise returns the defaults.
func LoadOrDefault() (Config, error) {
	if _, err := os.Stat(DefaultFile); err != nil {
		return Default(), nil
	}
	return Load(DefaultFile)
}

func (c Config) validate() error {
	switch c.Layout {
	case document.LayoutTree, document.LayoutRadial, document.LayoutForce:
	default:
		return errors.New(errors.ErrCodeInvalidLayout, "unknown layout: %q (must be one of: tree, radial, force)", c.Layout)
	}
	if c.DebounceMS < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "debounce_ms cannot be negative")
	}
	return nil
}

// Classifier builds a classifier from the configured category table.
func (c Config) Classifier() *classify.Classifier {
	return classify.New(c.Categories)
}

// Debounce returns the configured debounce quiet period.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}
