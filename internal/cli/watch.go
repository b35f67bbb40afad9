package cli

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/treeline-io/treeline/pkg/cache"
	"github.com/treeline-io/treeline/pkg/config"
	"github.com/treeline-io/treeline/pkg/errors"
	"github.com/treeline-io/treeline/pkg/mapper"
	"github.com/treeline-io/treeline/pkg/pipeline"
	"github.com/treeline-io/treeline/pkg/refresh"
)

// watchOpts holds the command-line flags for the watch command.
type watchOpts struct {
	output     string
	formatsStr string
	layout     string
	noGroup    bool
	noCache    bool
	normalize  bool // rewrite the outline in canonical form after each build
	configPath string
}

// watchCommand creates the watch command, which re-renders outputs
// whenever the outline file changes. Bursts of editor events are
// debounced, and with --normalize the outline is rewritten in canonical
// form after each build; a write guard plus content hashing keeps that
// self-write from triggering another build.
func (c *CLI) watchCommand() *cobra.Command {
	var opts watchOpts

	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-render outputs whenever the outline changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json, text, xml (comma-separated)")
	cmd.Flags().StringVar(&opts.layout, "layout", "", "layout engine: tree (default), radial, force")
	cmd.Flags().BoolVar(&opts.noGroup, "no-group", false, "disable keyword-based category grouping")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.normalize, "normalize", false, "rewrite the outline in canonical form after each build")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to a treeline.toml config file")

	return cmd
}

// watcher re-runs the pipeline on outline changes.
type watcher struct {
	cli    *CLI
	input  string
	opts   watchOpts
	cfg    config.Config
	runner *pipeline.Runner

	guard    *refresh.Guard
	debounce *refresh.Debouncer

	mu       sync.Mutex
	selfHash string // hash of our own last write to the outline
}

func (c *CLI) runWatch(ctx context.Context, input string, opts watchOpts) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", input)
	}
	if _, err := os.Stat(abs); err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "stat %s", input)
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	w := &watcher{
		cli:      c,
		input:    abs,
		opts:     opts,
		cfg:      cfg,
		runner:   runner,
		guard:    &refresh.Guard{},
		debounce: refresh.NewDebouncer(cfg.Debounce()),
	}

	// Initial build before entering the loop.
	w.rebuild(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create file watcher")
	}
	defer fw.Close()

	// Watch the directory, not the file: editors that save via atomic
	// rename replace the inode and a file watch would go stale.
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "watch %s", filepath.Dir(abs))
	}

	printInfo("Watching %s", input)
	printDetail("debounce: %s", cfg.Debounce())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.debounce.Trigger(func() { w.rebuild(ctx) })
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watch error", "err", err)
		}
	}
}

// relevant reports whether a filesystem event should trigger a rebuild.
func (w *watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.input {
		return false
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	// An event raised while we are writing the canonical form back is
	// our own; without this the normalize write would loop forever.
	if w.guard.Active() {
		return false
	}
	return true
}

// rebuild runs the pipeline and writes artifacts. User-originated only;
// self-writes are filtered out before this is scheduled.
func (w *watcher) rebuild(ctx context.Context) {
	data, err := os.ReadFile(w.input)
	if err != nil {
		w.cli.Logger.Error("read outline", "err", err)
		return
	}

	w.mu.Lock()
	self := w.selfHash != "" && cache.Hash(data) == w.selfHash
	w.mu.Unlock()
	if self {
		// Debounced remnant of our own canonical rewrite.
		return
	}

	pipeOpts := pipelineOptions(w.cfg, string(data), w.opts.layout, w.opts.noGroup)
	pipeOpts.Formats = parseFormats(w.opts.formatsStr)
	pipeOpts.Logger = w.cli.Logger

	result, err := w.runner.Execute(ctx, pipeOpts)
	if err != nil {
		printError("build failed: %s", errors.UserMessage(err))
		return
	}

	paths, err := writeArtifacts(w.input, w.opts.output, result.Artifacts)
	if err != nil {
		printError("write outputs: %s", errors.UserMessage(err))
		return
	}

	if w.opts.normalize {
		w.writeCanonical(result)
	}

	printSuccess("Rebuilt")
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
}

// writeCanonical rewrites the outline in its canonical textual form.
// The write runs inside the guard and its content hash is remembered so
// the resulting filesystem event is recognized as system-originated.
func (w *watcher) writeCanonical(result *pipeline.Result) {
	canonical := []byte(mapper.Reconstruct(result.Document))

	w.guard.Do(func() {
		w.mu.Lock()
		w.selfHash = cache.Hash(canonical)
		w.mu.Unlock()
		if err := os.WriteFile(w.input, canonical, 0o644); err != nil {
			w.cli.Logger.Warn("rewrite outline", "err", err)
		}
	})
}
