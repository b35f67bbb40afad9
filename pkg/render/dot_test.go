package render

import (
	"strings"
	"testing"

	"github.com/goccy/go-graphviz"
	"github.com/treeline-io/treeline/pkg/document"
	"github.com/treeline-io/treeline/pkg/mapper"
)

func buildDoc(t *testing.T, src, layout string) *document.Document {
	t.Helper()
	doc, err := mapper.BuildText(src, mapper.Options{AutoGroup: true, Layout: layout})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return doc
}

func TestToDOT(t *testing.T) {
	doc := buildDoc(t, "Design work\n  Wireframes\nLaunch", document.LayoutTree)
	dot := ToDOT(doc)

	if !strings.HasPrefix(dot, "digraph mindmap {") {
		t.Errorf("missing digraph header: %q", dot[:40])
	}
	for _, want := range []string{
		`"root"`,
		`"n0001"`,
		`"root" -> "n0001"`,
		`"n0001" -> "n0002"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q", want)
		}
	}

	// Containers are ellipses, leaves rounded boxes.
	for _, line := range strings.Split(dot, "\n") {
		switch {
		case strings.Contains(line, `"n0001" [`) && !strings.Contains(line, "shape=ellipse"):
			t.Errorf("container not an ellipse: %q", line)
		case strings.Contains(line, `"n0002" [`) && !strings.Contains(line, "shape=box"):
			t.Errorf("leaf not a box: %q", line)
		}
	}
}

func TestToDOTEdgeWeights(t *testing.T) {
	doc := buildDoc(t, "A\n  B", document.LayoutTree)
	dot := ToDOT(doc)

	if !strings.Contains(dot, `"root" -> "n0001" [penwidth=2.0]`) {
		t.Errorf("primary edge not heavier:\n%s", dot)
	}
	if !strings.Contains(dot, `"n0001" -> "n0002" [penwidth=1.0]`) {
		t.Errorf("secondary edge wrong width:\n%s", dot)
	}
}

func TestToDOTEscapesLabels(t *testing.T) {
	doc := buildDoc(t, `He said "hello"`, document.LayoutTree)
	dot := ToDOT(doc)
	if strings.Contains(dot, `label="He said "hello""`) {
		t.Errorf("quotes not escaped:\n%s", dot)
	}
}

func TestLayoutEngine(t *testing.T) {
	tests := []struct {
		layout string
		want   graphviz.Layout
	}{
		{document.LayoutTree, graphviz.DOT},
		{document.LayoutRadial, graphviz.TWOPI},
		{document.LayoutForce, graphviz.NEATO},
		{"", graphviz.DOT},
		{"bogus", graphviz.DOT},
	}

	for _, tt := range tests {
		if got := layoutEngine(tt.layout); got != tt.want {
			t.Errorf("layoutEngine(%q) = %v, want %v", tt.layout, got, tt.want)
		}
	}
}
