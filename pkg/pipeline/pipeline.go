// Package pipeline provides the core mind map pipeline for Treeline.
//
// This package implements the complete parse → build → render pipeline
// that is shared by the CLI commands, watch mode, and the HTTP viewer.
// By centralizing this logic, we ensure consistent behavior across all
// entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Read the indentation outline into a labeled forest
//  2. Build: Map the forest onto a styled node/edge document
//  3. Render: Generate output in various formats (SVG, PNG, DOT, JSON, text, XML)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Text:    outlineText,
//	    Layout:  "tree",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/treeline-io/treeline/pkg/cache"
	"github.com/treeline-io/treeline/pkg/classify"
	"github.com/treeline-io/treeline/pkg/document"
	"github.com/treeline-io/treeline/pkg/errors"
)

// DefaultLayout is the default layout engine.
const DefaultLayout = document.LayoutTree

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
	FormatText = "text"
	FormatXML  = "xml"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
	FormatText: true,
	FormatXML:  true,
}

// ValidLayouts is the set of supported layout engines.
var ValidLayouts = map[string]bool{
	document.LayoutTree:   true,
	document.LayoutRadial: true,
	document.LayoutForce:  true,
}

// Options contains all configuration for the mind map pipeline.
// This struct supports JSON serialization for viewer requests.
type Options struct {
	// Parse options
	Text   string `json:"text,omitempty"`
	Source string `json:"source,omitempty"` // Outline text recorded in document metadata; defaults to Text

	// Build options
	Layout     string              `json:"layout,omitempty"`
	AutoGroup  *bool               `json:"auto_group,omitempty"` // nil means enabled
	Categories []classify.Category `json:"categories,omitempty"` // nil means the default table

	// Render options
	Formats []string `json:"formats,omitempty"`
	Refresh bool     `json:"refresh,omitempty"` // Bypass the artifact cache

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the built mind map.
	Document *document.Document

	// DocHash is the content hash of the structured JSON payload.
	DocHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	ParseTime  time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, dot, json, text, xml)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateLayout checks that a layout engine is valid.
func ValidateLayout(layout string) error {
	if !ValidLayouts[layout] {
		return errors.New(errors.ErrCodeInvalidLayout, "invalid layout: %q (must be one of: tree, radial, force)", layout)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild checks required fields for parsing and building.
func (o *Options) ValidateForBuild() error {
	if o.Text == "" {
		return errors.New(errors.ErrCodeInvalidInput, "outline text is required")
	}
	if o.Layout == "" {
		o.Layout = DefaultLayout
	}
	if err := ValidateLayout(o.Layout); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// GroupingEnabled reports whether keyword classification should run.
func (o *Options) GroupingEnabled() bool {
	return o.AutoGroup == nil || *o.AutoGroup
}

// Classifier returns the classifier for the configured category table.
func (o *Options) Classifier() *classify.Classifier {
	if o.Categories == nil {
		return classify.Default()
	}
	return classify.New(o.Categories)
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Layout: o.Layout,
	}
}
