// Package pkg provides the core libraries for Treeline mind map generation.
//
// # Overview
//
// Treeline transforms plain-text indentation outlines into styled mind map
// documents and renders them as diagrams. The pkg directory is organized
// into four main areas:
//
//  1. [outline], [mapper], [document], [classify] - Domain logic (parsing,
//     mapping, the node/edge model, keyword grouping)
//  2. [cache], [share], [refresh], [config] - Infrastructure (artifact
//     caching, saved-map stores, change debouncing, configuration)
//  3. [codec], [render] - Serialization and rendering (json/text/xml
//     codecs, Graphviz node-link output)
//  4. [pipeline] - Orchestration (parse → build → render)
//
// # Architecture
//
// The typical data flow through Treeline:
//
//	Indentation outline text
//	         ↓
//	    [outline] package (parse to a labeled forest)
//	         ↓
//	    [mapper] package (map to a styled document, categories + colors)
//	         ↓
//	    [render] / [codec] packages (diagrams and serializations)
//	         ↓
//	    SVG/PNG/DOT/JSON/text/XML output
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Text:    "Plan the launch\n  Write the docs\n  Fix bugs",
//	    Formats: []string{pipeline.FormatSVG},
//	})
//
// The editor package mutates documents in place for interactive use, and
// mapper.Reconstruct turns any document back into outline text.
package pkg
