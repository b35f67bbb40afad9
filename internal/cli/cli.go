// Package cli implements the treeline command-line interface.
//
// This package provides commands for generating mind maps from
// indentation outlines, converting between serialization formats,
// editing maps interactively, watching outline files for changes, and
// serving a live HTML viewer. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - generate: Build a mind map from an outline and render it
//   - convert: Convert between json, text, and xml representations
//   - edit: Interactive terminal editor for a mind map
//   - watch: Re-render outputs whenever the outline file changes
//   - serve: Local HTTP viewer with live reload
//   - share: Encode maps as URL-safe tokens and manage saved maps
//   - cache: Manage the rendered artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/treeline-io/treeline/pkg/buildinfo"
	"github.com/treeline-io/treeline/pkg/cache"
	"github.com/treeline-io/treeline/pkg/config"
	"github.com/treeline-io/treeline/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "treeline"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "treeline",
		Short:        "Treeline turns indented outlines into mind maps",
		Long:         `Treeline is a CLI tool for turning plain-text indentation outlines into styled mind map diagrams, with keyword-based grouping, live file watching, and a local HTML viewer.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.shareCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/treeline/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// loadConfig reads the config file, or the defaults when path is empty and
// no treeline.toml exists in the working directory.
func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault()
}

// pipelineOptions builds pipeline options from config plus per-command flags.
func pipelineOptions(cfg config.Config, text, layout string, noGroup bool) pipeline.Options {
	opts := pipeline.Options{
		Text:       text,
		Layout:     cfg.Layout,
		Categories: cfg.Categories,
	}
	if layout != "" {
		opts.Layout = layout
	}
	autoGroup := cfg.AutoGroup && !noGroup
	opts.AutoGroup = &autoGroup
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// readInput reads outline text from a file, or stdin when path is "-".
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
