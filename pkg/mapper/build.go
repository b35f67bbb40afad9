// Package mapper converts between outline trees and mind map documents.
//
// The forward direction ([Build]) walks an outline forest depth-first,
// mints node IDs, classifies text into categories, formats display labels,
// and emits parent→child edges under the document's fixed root. The
// inverse direction ([Reconstruct]) turns a possibly-edited document back
// into outline text, imposing a deterministic child order so that
// re-parsing reproduces the same tree shape.
package mapper

import (
	"fmt"

	"github.com/treeline-io/treeline/pkg/classify"
	"github.com/treeline-io/treeline/pkg/document"
	"github.com/treeline-io/treeline/pkg/outline"
)

// Options configures the forward mapping.
type Options struct {
	// AutoGroup classifies each node's text independently. When false,
	// nodes inherit their parent's category; top-level nodes fall back
	// to the Other category.
	AutoGroup bool

	// Classifier resolves text to categories. Defaults to the built-in
	// table when nil.
	Classifier *classify.Classifier

	// DefaultStyle skips category and color assignment entirely. The
	// lossy text import uses this: shape rules still apply but styling
	// stays at its zero values.
	DefaultStyle bool

	// Layout is stored in the document metadata for the rendering
	// collaborator.
	Layout string

	// Source is the raw outline text the forest was parsed from, kept in
	// metadata so the textual view can be restored without reformatting.
	Source string
}

// Build maps an outline forest onto a fresh Document.
//
// Nodes are visited depth-first in input order and assigned freshly
// minted sequential IDs, so reconstruction's mint-order ID tie-break
// reproduces the visit order. Each node stores its full original text;
// the display label is wrap-formatted for leaves and truncated for
// containers.
func Build(forest []*outline.Node, opts Options) (*document.Document, error) {
	cls := opts.Classifier
	if cls == nil {
		cls = classify.Default()
	}

	doc := document.New(document.Meta{
		Layout:    opts.Layout,
		AutoGroup: opts.AutoGroup,
		Source:    opts.Source,
	})

	var walk func(n *outline.Node, parentID, parentCat string, depth int) error
	walk = func(n *outline.Node, parentID, parentCat string, depth int) error {
		id := doc.MintID()

		var category, color string
		if !opts.DefaultStyle {
			if opts.AutoGroup {
				category = cls.Classify(n.Text)
			} else if parentCat != "" {
				category = parentCat
			} else {
				category = classify.Other
			}
			color = cls.Color(category)
		}

		node := document.Node{
			ID:           id,
			OriginalText: n.Text,
			Label:        FormatLabel(n.Text, len(n.Children) > 0),
			Depth:        depth,
			Category:     category,
			Color:        color,
		}
		if err := doc.AddNode(node); err != nil {
			return fmt.Errorf("add node %s: %w", id, err)
		}
		if err := doc.AddEdge(parentID, id); err != nil {
			return fmt.Errorf("add edge %s->%s: %w", parentID, id, err)
		}

		for _, child := range n.Children {
			if err := walk(child, id, category, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for _, top := range forest {
		if err := walk(top, document.RootID, "", 1); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// BuildText parses raw outline text and maps it in one step.
func BuildText(text string, opts Options) (*document.Document, error) {
	if opts.Source == "" {
		opts.Source = text
	}
	return Build(outline.Parse(text), opts)
}
