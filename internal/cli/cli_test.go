package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/treeline-io/treeline/pkg/config"
)

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", "treeline") {
		t.Errorf("cacheDir() = %q, want XDG path", dir)
	}
}

func TestCacheDirHome(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", "treeline")
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestRootCommandRegistration(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()

	if root.Use != "treeline" {
		t.Errorf("root command use = %q, want %q", root.Use, "treeline")
	}

	want := []string{"generate", "convert", "edit", "watch", "serve", "share", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"svg,json,dot", []string{"svg", "json", "dot"}},
	}

	for _, tt := range tests {
		got := parseFormats(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestPipelineOptions(t *testing.T) {
	cfg := config.Default()

	opts := pipelineOptions(cfg, "Root idea", "", false)
	if opts.Layout != cfg.Layout {
		t.Errorf("layout = %q, want config default %q", opts.Layout, cfg.Layout)
	}
	if opts.AutoGroup == nil || !*opts.AutoGroup {
		t.Error("grouping should follow the config default")
	}

	opts = pipelineOptions(cfg, "Root idea", "radial", true)
	if opts.Layout != "radial" {
		t.Errorf("layout flag should override config, got %q", opts.Layout)
	}
	if opts.AutoGroup == nil || *opts.AutoGroup {
		t.Error("--no-group should disable grouping")
	}
}

func TestReadInputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ideas.txt")
	if err := os.WriteFile(path, []byte("Plan\n  Docs\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	text, err := readInput(path)
	if err != nil {
		t.Fatalf("readInput() error: %v", err)
	}
	if !strings.Contains(text, "Docs") {
		t.Errorf("readInput() = %q, want file contents", text)
	}
}

func TestReadInputMissing(t *testing.T) {
	if _, err := readInput(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("readInput() should fail for a missing file")
	}
}

func TestVersionOutput(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute --version: %v", err)
	}
	if !strings.Contains(buf.String(), "treeline") {
		t.Errorf("version output = %q, want binary name", buf.String())
	}
}

