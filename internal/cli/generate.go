package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/treeline-io/treeline/pkg/errors"
	"github.com/treeline-io/treeline/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	output     string // output file path (single format) or base path (multiple)
	formatsStr string // comma-separated output formats
	layout     string // layout engine: tree, radial, force
	noGroup    bool   // disable keyword-based grouping
	noCache    bool   // disable the artifact cache
	refresh    bool   // re-render even when cached
	configPath string // explicit config file
}

// generateCommand creates the generate command for building mind maps.
//
// Default settings:
//   - format: svg
//   - layout: tree (or the configured layout)
//   - grouping: enabled
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Build a mind map from an indented outline",
		Long:  `Generate parses a plain-text indentation outline (2 spaces per level, tabs count as 4 spaces) into a mind map and renders it in one or more formats. Use "-" to read the outline from stdin.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json, text, xml (comma-separated)")
	cmd.Flags().StringVar(&opts.layout, "layout", "", "layout engine: tree (default), radial, force")
	cmd.Flags().BoolVar(&opts.noGroup, "no-group", false, "disable keyword-based category grouping")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when a cached artifact exists")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to a treeline.toml config file")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, input string, opts generateOpts) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	text, err := readInput(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read outline %s", input)
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	pipeOpts := pipelineOptions(cfg, text, opts.layout, opts.noGroup)
	pipeOpts.Formats = parseFormats(opts.formatsStr)
	pipeOpts.Refresh = opts.refresh
	pipeOpts.Logger = c.Logger

	prog := newProgress(c.Logger)
	spin := newSpinnerWithContext(cmd.Context(), "Building mind map...")
	spin.Start()

	result, err := runner.Execute(cmd.Context(), pipeOpts)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d output(s)", len(result.Artifacts)))

	paths, err := writeArtifacts(input, opts.output, result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Mind map generated")
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	if len(paths) > 0 && input != "-" {
		printNextStep("View it live", "treeline serve "+input)
	}
	return nil
}

// writeArtifacts writes each rendered artifact next to the input file, or
// under the explicit output path. For a single format, output is used as
// the file path; for several, it is the base and the extension is appended.
func writeArtifacts(input, output string, artifacts map[string][]byte) ([]string, error) {
	base := output
	if base == "" {
		name := filepath.Base(input)
		if input == "-" {
			name = "mindmap"
		}
		base = strings.TrimSuffix(name, filepath.Ext(name))
	}

	var paths []string
	for format, data := range artifacts {
		path := base
		if len(artifacts) > 1 || output == "" || filepath.Ext(output) == "" {
			path = base + "." + artifactExt(format)
		}
		if path == input {
			// Never clobber the outline itself (e.g. -f text on ideas.txt).
			path = base + ".out." + artifactExt(format)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// artifactExt maps a format to its file extension.
func artifactExt(format string) string {
	if format == pipeline.FormatText {
		return "txt"
	}
	return format
}
