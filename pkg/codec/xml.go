package codec

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/treeline-io/treeline/pkg/document"
	"github.com/treeline-io/treeline/pkg/errors"
	"github.com/treeline-io/treeline/pkg/mapper"
	"github.com/treeline-io/treeline/pkg/outline"
)

// EncodeXML writes the lossy hierarchical XML format.
//
// Nodes are emitted depth-first in reconstruction order: containers
// become elements with nested children, leaves self-close. Text is
// escaped for the five XML metacharacters. The document root becomes the
// single top-level <node> element inside <mindmap>.
func EncodeXML(d *document.Document, w io.Writer) error {
	var b strings.Builder
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, "<mindmap layout=\"%s\" auto-group=\"%t\">\n", escapeXML(d.Meta().Layout), d.Meta().AutoGroup)
	writeXMLNode(&b, d, document.RootID, 1)
	b.WriteString("</mindmap>\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write xml")
	}
	return nil
}

func writeXMLNode(b *strings.Builder, d *document.Document, id string, indent int) {
	node, ok := d.Node(id)
	if !ok {
		return
	}
	pad := strings.Repeat("  ", indent)
	kids := mapper.OrderedChildren(d, id)

	if len(kids) == 0 {
		fmt.Fprintf(b, "%s<node text=\"%s\"/>\n", pad, escapeXML(node.OriginalText))
		return
	}
	fmt.Fprintf(b, "%s<node text=\"%s\">\n", pad, escapeXML(node.OriginalText))
	for _, child := range kids {
		writeXMLNode(b, d, child, indent+1)
	}
	fmt.Fprintf(b, "%s</node>\n", pad)
}

// escapeXML escapes the five XML metacharacters for attribute use.
func escapeXML(s string) string {
	var buf bytes.Buffer
	// EscapeText only fails on a failing writer; bytes.Buffer never does.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// xmlNode mirrors one <node> element. The nested Children field scopes
// matching to direct children only; deeper descendants are never
// mistaken for children of an outer element.
type xmlNode struct {
	Text     string    `xml:"text,attr"`
	Children []xmlNode `xml:"node"`
}

// xmlMap mirrors the <mindmap> envelope.
type xmlMap struct {
	XMLName   xml.Name  `xml:"mindmap"`
	Layout    string    `xml:"layout,attr"`
	AutoGroup bool      `xml:"auto-group,attr"`
	Roots     []xmlNode `xml:"node"`
}

// DecodeXML reads the hierarchical XML format into a fresh Document.
//
// Exactly one root <node> element is required; a document missing it (or
// carrying several) yields an IMPORT_FAILED error, as does unparseable
// markup. Node IDs are re-synthesized and styling is defaulted; the
// format does not carry category or color.
func DecodeXML(r io.Reader) (*document.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImportFailed, err, "read xml")
	}

	var m xmlMap
	if err := xml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeImportFailed, err, "parse xml")
	}
	if len(m.Roots) != 1 {
		return nil, errors.New(errors.ErrCodeImportFailed, "expected exactly one root <node>, got %d", len(m.Roots))
	}

	forest := make([]*outline.Node, 0, len(m.Roots[0].Children))
	for i := range m.Roots[0].Children {
		forest = append(forest, toOutline(&m.Roots[0].Children[i], 0))
	}

	doc, err := mapper.Build(forest, mapper.Options{
		DefaultStyle: true,
		Layout:       m.Layout,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImportFailed, err, "rebuild document")
	}
	doc.Meta().AutoGroup = m.AutoGroup
	return doc, nil
}

func toOutline(n *xmlNode, level int) *outline.Node {
	out := &outline.Node{Text: n.Text, Level: level}
	for i := range n.Children {
		out.Children = append(out.Children, toOutline(&n.Children[i], level+1))
	}
	return out
}
