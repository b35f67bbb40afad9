package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/treeline-io/treeline/pkg/cache"
	"github.com/treeline-io/treeline/pkg/errors"
)

const sampleOutline = "Plan the launch\n  Write the docs\n  Fix bugs\nResearch competitors"

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Text: sampleOutline}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Layout != DefaultLayout {
		t.Errorf("Layout = %q, want %q", opts.Layout, DefaultLayout)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call error = %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing text", Options{}, errors.ErrCodeInvalidInput},
		{"bad layout", Options{Text: "A", Layout: "spiral"}, errors.ErrCodeInvalidLayout},
		{"bad format", Options{Text: "A", Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Text:    sampleOutline,
		Formats: []string{FormatJSON, FormatDOT, FormatText},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// Root plus four outline nodes
	if result.Stats.NodeCount != 5 {
		t.Errorf("NodeCount = %d, want 5", result.Stats.NodeCount)
	}
	if result.Stats.EdgeCount != 4 {
		t.Errorf("EdgeCount = %d, want 4", result.Stats.EdgeCount)
	}
	if result.DocHash == "" {
		t.Error("DocHash should be set")
	}
	if result.CacheInfo.RenderHit {
		t.Error("first run should not hit the cache")
	}

	for _, format := range []string{FormatJSON, FormatDOT, FormatText} {
		if len(result.Artifacts[format]) == 0 {
			t.Errorf("missing %s artifact", format)
		}
	}
	if !bytes.Contains(result.Artifacts[FormatDOT], []byte("digraph")) {
		t.Error("dot artifact should contain a digraph")
	}
	if !strings.Contains(string(result.Artifacts[FormatText]), "Fix bugs") {
		t.Error("text artifact should contain the outline")
	}
}

func TestExecuteCaching(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil, nil)
	defer runner.Close()

	opts := Options{Text: sampleOutline, Formats: []string{FormatJSON}}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the cache")
	}
	if !bytes.Equal(first.Artifacts[FormatJSON], second.Artifacts[FormatJSON]) {
		t.Error("cached artifact differs from rendered artifact")
	}

	// Refresh bypasses the cache
	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("refresh run should not hit the cache")
	}
}

func TestExecuteNoGrouping(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	off := false
	result, err := runner.Execute(context.Background(), Options{
		Text:      sampleOutline,
		AutoGroup: &off,
		Formats:   []string{FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	n, ok := result.Document.Node("n0001")
	if !ok {
		t.Fatal("n0001 missing")
	}
	if n.Category != "Other" {
		t.Errorf("Category = %q, want Other with grouping disabled", n.Category)
	}
}
