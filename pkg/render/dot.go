// Package render turns documents into Graphviz node-link diagrams.
//
// The document's layout selector picks the Graphviz engine: the
// hierarchical container tree uses dot, the radial tree twopi, and the
// force-settled layout neato (settled once, then frozen in the output).
// Rendering is delegated entirely to Graphviz; this package computes no
// positions itself.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/treeline-io/treeline/pkg/classify"
	"github.com/treeline-io/treeline/pkg/document"
	"github.com/treeline-io/treeline/pkg/mapper"
)

// ToDOT converts a document to Graphviz DOT.
//
// Containers are drawn as filled ellipses and leaves as rounded boxes
// with their wrapped display labels. Edge pen width follows the weight
// class so main branches read heavier than deep ones. Children are
// emitted in reconstruction order for deterministic output.
func ToDOT(d *document.Document) string {
	var buf bytes.Buffer
	buf.WriteString("digraph mindmap {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=12, margin=\"0.15,0.1\"];\n")
	buf.WriteString("  edge [color=\"#607D8B\"];\n")
	buf.WriteString("\n")

	var emit func(id string)
	emit = func(id string) {
		n, ok := d.Node(id)
		if !ok {
			return
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n), ", "))
		for _, child := range mapper.OrderedChildren(d, id) {
			emit(child)
		}
	}
	emit(document.RootID)

	buf.WriteString("\n")
	for _, e := range d.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q [penwidth=%s];\n", e.From, e.To, edgeWidth(e))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *document.Node) []string {
	color := n.Color
	if color == "" {
		color = classify.OtherColor
	}

	attrs := []string{fmt.Sprintf("label=%q", n.Label)}
	switch {
	case n.ID == document.RootID:
		attrs = append(attrs, "shape=ellipse", "style=\"bold,filled\"", "fillcolor=\"#ECEFF1\"")
	case n.Shape == document.ShapeContainer:
		attrs = append(attrs, "shape=ellipse", "style=filled", fmt.Sprintf("fillcolor=%q", color))
	default:
		attrs = append(attrs, "shape=box", "style=\"rounded,filled\"", fmt.Sprintf("fillcolor=%q", color))
	}
	return attrs
}

func edgeWidth(e document.Edge) string {
	if e.Weight == document.WeightPrimary {
		return "2.0"
	}
	return "1.0"
}

// layoutEngine maps a document layout selector to a Graphviz engine.
// Unknown or empty selectors fall back to the container tree.
func layoutEngine(layout string) graphviz.Layout {
	switch layout {
	case document.LayoutRadial:
		return graphviz.TWOPI
	case document.LayoutForce:
		return graphviz.NEATO
	default:
		return graphviz.DOT
	}
}

// RenderSVG renders a document to SVG using the engine selected by its
// layout metadata.
func RenderSVG(ctx context.Context, d *document.Document) ([]byte, error) {
	return renderFormat(ctx, d, graphviz.SVG)
}

// RenderPNG renders a document to PNG using the engine selected by its
// layout metadata.
func RenderPNG(ctx context.Context, d *document.Document) ([]byte, error) {
	return renderFormat(ctx, d, graphviz.PNG)
}

func renderFormat(ctx context.Context, d *document.Document, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(layoutEngine(d.Meta().Layout))

	g, err := graphviz.ParseBytes([]byte(ToDOT(d)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
