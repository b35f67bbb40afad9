package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/fsnotify/fsnotify"

	"github.com/treeline-io/treeline/pkg/config"
	"github.com/treeline-io/treeline/pkg/errors"
	"github.com/treeline-io/treeline/pkg/pipeline"
	"github.com/treeline-io/treeline/pkg/refresh"
	"github.com/treeline-io/treeline/pkg/share"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr       string
	layout     string
	noGroup    bool
	noCache    bool
	configPath string
}

// serveCommand creates the serve command, a local HTTP viewer with live
// reload. The outline file is watched and rebuilt on change; the page
// polls the document hash and refreshes the rendered map when it moves.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a live HTML view of the mind map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "localhost:7777", "listen address")
	cmd.Flags().StringVar(&opts.layout, "layout", "", "layout engine: tree (default), radial, force")
	cmd.Flags().BoolVar(&opts.noGroup, "no-group", false, "disable keyword-based category grouping")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to a treeline.toml config file")

	return cmd
}

// viewerState is the most recent successful build, swapped atomically
// under the mutex so request handlers never see a half-built map.
type viewerState struct {
	result *pipeline.Result
	text   string
}

// viewer serves the current map over HTTP and rebuilds it on change.
type viewer struct {
	cli    *CLI
	input  string
	opts   serveOpts
	cfg    config.Config
	runner *pipeline.Runner

	mu    sync.RWMutex
	state *viewerState
}

func (c *CLI) runServe(ctx context.Context, input string, opts serveOpts) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", input)
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	v := &viewer{
		cli:    c,
		input:  abs,
		opts:   opts,
		cfg:    cfg,
		runner: runner,
	}
	if err := v.rebuild(ctx); err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create file watcher")
	}
	defer fw.Close()
	// Watch the directory: editors that save via atomic rename leave a
	// watch on the file itself stale.
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "watch %s", filepath.Dir(abs))
	}
	go v.watchLoop(ctx, fw, refresh.NewDebouncer(cfg.Debounce()))

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           v.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	printSuccess("Serving %s", input)
	printKeyValue("viewer", "http://"+opts.addr+"/")
	printKeyValue("api", "http://"+opts.addr+"/api/document.json")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(errors.ErrCodeInternal, err, "serve on %s", opts.addr)
	}
	return nil
}

// watchLoop rebuilds the viewer state when the outline file changes.
func (v *viewer) watchLoop(ctx context.Context, fw *fsnotify.Watcher, debounce *refresh.Debouncer) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != v.input {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			debounce.Trigger(func() {
				if err := v.rebuild(ctx); err != nil {
					v.cli.Logger.Error("rebuild failed", "err", err)
				}
			})
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			v.cli.Logger.Warn("watch error", "err", err)
		}
	}
}

// rebuild re-reads the outline and rebuilds the viewer state.
func (v *viewer) rebuild(ctx context.Context) error {
	data, err := os.ReadFile(v.input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read outline %s", v.input)
	}

	pipeOpts := pipelineOptions(v.cfg, string(data), v.opts.layout, v.opts.noGroup)
	pipeOpts.Formats = []string{pipeline.FormatSVG, pipeline.FormatJSON, pipeline.FormatText, pipeline.FormatXML}
	pipeOpts.Logger = v.cli.Logger

	result, err := v.runner.Execute(ctx, pipeOpts)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.state = &viewerState{result: result, text: string(data)}
	v.mu.Unlock()

	v.cli.Logger.Info("viewer updated", "nodes", result.Stats.NodeCount, "hash", result.DocHash[:12])
	return nil
}

func (v *viewer) current() *viewerState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// routes builds the chi router for the viewer.
func (v *viewer) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(v.logRequests)

	r.Get("/", v.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Get("/hash", v.handleHash)
		r.Get("/map.svg", v.artifactHandler(pipeline.FormatSVG, "image/svg+xml"))
		r.Get("/document.json", v.artifactHandler(pipeline.FormatJSON, "application/json"))
		r.Get("/outline.txt", v.artifactHandler(pipeline.FormatText, "text/plain; charset=utf-8"))
		r.Get("/document.xml", v.artifactHandler(pipeline.FormatXML, "application/xml"))
		r.Post("/share", v.handleShare)
	})
	r.Get("/share/{token}", v.handleShared)

	return r
}

// logRequests attaches the CLI logger to the request context and logs
// each request at debug level.
func (v *viewer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := withLogger(r.Context(), v.cli.Logger)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		loggerFromContext(ctx).Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).Round(time.Microsecond))
	})
}

func (v *viewer) handleHash(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"hash": v.current().result.DocHash})
}

func (v *viewer) artifactHandler(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, ok := v.current().result.Artifacts[format]
		if !ok {
			writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeNotFound, "no %s artifact", format))
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(data)
	}
}

// handleShare encodes the current map as a URL-safe token.
func (v *viewer) handleShare(w http.ResponseWriter, r *http.Request) {
	token, err := share.EncodeToken(v.current().result.Document)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"token": token,
		"url":   "http://" + v.opts.addr + "/share/" + token,
	})
}

// handleShared renders a map carried entirely inside the share token.
func (v *viewer) handleShared(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	doc, err := share.DecodeToken(token)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	artifacts, err := v.runner.Render(r.Context(), doc, pipeline.Options{
		Layout:  doc.Meta().Layout,
		Formats: []string{pipeline.FormatSVG},
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(artifacts[pipeline.FormatSVG])
}

func (v *viewer) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexHTML, filepath.Base(v.input))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{
		"code":  string(errors.GetCode(err)),
		"error": errors.UserMessage(err),
	})
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>treeline · %s</title>
<style>
  body { margin: 0; font-family: system-ui, sans-serif; background: #fafafa; }
  header { padding: 0.6rem 1rem; border-bottom: 1px solid #ddd; background: #fff; }
  header h1 { font-size: 1rem; margin: 0; display: inline; }
  header span { color: #888; margin-left: 0.6rem; font-size: 0.85rem; }
  main { display: flex; justify-content: center; padding: 1rem; }
  img { max-width: 100%%; }
</style>
</head>
<body>
<header><h1>treeline</h1><span id="status">live</span></header>
<main><img id="map" src="/api/map.svg" alt="mind map"></main>
<script>
let hash = "";
async function poll() {
  try {
    const res = await fetch("/api/hash");
    const body = await res.json();
    if (hash && body.hash !== hash) {
      document.getElementById("map").src = "/api/map.svg?t=" + Date.now();
    }
    hash = body.hash;
    document.getElementById("status").textContent = "live";
  } catch (err) {
    document.getElementById("status").textContent = "disconnected";
  }
}
setInterval(poll, 1000);
</script>
</body>
</html>
`
