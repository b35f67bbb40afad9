package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/treeline-io/treeline/pkg/document"
	"github.com/treeline-io/treeline/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Layout != document.LayoutTree {
		t.Errorf("Layout = %q, want %q", cfg.Layout, document.LayoutTree)
	}
	if !cfg.AutoGroup {
		t.Error("AutoGroup should default to true")
	}
	if cfg.Debounce() != 300*time.Millisecond {
		t.Errorf("Debounce() = %v, want 300ms", cfg.Debounce())
	}
	if len(cfg.Categories) == 0 {
		t.Error("default category table is empty")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "treeline.toml")
	content := `
layout = "radial"
auto_group = false
debounce_ms = 500

[[categories]]
name = "Food"
keywords = ["pizza", "coffee"]
color = "#FF7043"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Layout != document.LayoutRadial {
		t.Errorf("Layout = %q, want radial", cfg.Layout)
	}
	if cfg.AutoGroup {
		t.Error("AutoGroup should be false")
	}
	if cfg.Debounce() != 500*time.Millisecond {
		t.Errorf("Debounce() = %v, want 500ms", cfg.Debounce())
	}
	if len(cfg.Categories) != 1 || cfg.Categories[0].Name != "Food" {
		t.Errorf("Categories = %+v, want single Food entry", cfg.Categories)
	}
	if got := cfg.Classifier().Classify("grab a coffee"); got != "Food" {
		t.Errorf("Classify with custom table = %q, want Food", got)
	}
}

func TestLoadInvalidLayout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "treeline.toml")
	if err := os.WriteFile(path, []byte(`layout = "spiral"`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("Load() error = %v, want INVALID_LAYOUT", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Load() error = %v, want INVALID_INPUT", err)
	}
}

func TestLoadOrDefaultMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := LoadOrDefault()
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Layout != document.LayoutTree {
		t.Errorf("Layout = %q, want defaults", cfg.Layout)
	}
}
