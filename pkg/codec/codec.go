// Package codec serializes mind map documents to and from their external
// representations.
//
// Three formats are supported, all driven off the same normalized
// [Payload] shape at the boundary:
//
//   - Structured JSON ([FormatJSON]): lossless. Full node and edge
//     collections plus the metadata bag; round-trips exactly.
//   - Plain-text outline ([FormatText]): lossy. Only the label hierarchy
//     survives; category, color, and shape styling are dropped on export
//     and defaulted on import. Comment lines (leading #) are ignored.
//   - Hierarchical XML ([FormatXML]): lossy. Containers become nested
//     elements, leaves self-close; text is escaped for the five XML
//     metacharacters.
//
// Import failures (malformed payloads, missing required structure,
// unparseable markup) are reported as IMPORT_FAILED coded errors, never
// panics, so callers can present one uniform "could not import" outcome.
package codec

import (
	"io"

	"github.com/treeline-io/treeline/pkg/document"
	"github.com/treeline-io/treeline/pkg/errors"
)

// Format identifies a serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
	FormatXML  Format = "xml"
)

// ParseFormat resolves a user-supplied format name.
// "txt" is accepted as an alias for text.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "json":
		return FormatJSON, nil
	case "text", "txt":
		return FormatText, nil
	case "xml":
		return FormatXML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format: %q (must be one of: json, text, xml)", name)
}

// Payload is the normalized document shape that crosses the codec
// boundary. Conversion to and from the live Document happens exactly
// once, at this boundary.
type Payload struct {
	Meta  document.Meta   `json:"meta" bson:"meta"`
	Nodes []document.Node `json:"nodes" bson:"nodes"`
	Edges []document.Edge `json:"edges" bson:"edges"`
}

// FromDocument converts a Document to its payload shape.
// Nodes are sorted by ID and edges keep insertion order, so output is
// deterministic for a given document.
func FromDocument(d *document.Document) Payload {
	nodes := d.Nodes()
	p := Payload{
		Meta:  *d.Meta(),
		Nodes: make([]document.Node, len(nodes)),
		Edges: d.Edges(),
	}
	for i, n := range nodes {
		p.Nodes[i] = *n
	}
	return p
}

// ToDocument rebuilds a live Document from a payload.
//
// The payload must contain the root node; all other nodes are added and
// connected through the usual fail-closed mutators, so a payload whose
// edge set is not a valid single-parent tree is rejected. The rebuilt
// document is validated before being returned.
func ToDocument(p Payload) (*document.Document, error) {
	d := document.New(p.Meta)

	rootSeen := false
	for _, n := range p.Nodes {
		if n.ID == document.RootID {
			*d.Root() = n
			rootSeen = true
			continue
		}
		if err := d.AddNode(n); err != nil {
			return nil, errors.Wrap(errors.ErrCodeImportFailed, err, "node %s", n.ID)
		}
	}
	if !rootSeen {
		return nil, errors.New(errors.ErrCodeImportFailed, "payload has no root node")
	}

	for _, e := range p.Edges {
		if err := d.AddEdge(e.From, e.To); err != nil {
			return nil, errors.Wrap(errors.ErrCodeImportFailed, err, "edge %s->%s", e.From, e.To)
		}
	}

	if err := d.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeImportFailed, err, "payload is not a valid tree")
	}
	return d, nil
}

// Encode writes the document to w in the given format.
func Encode(d *document.Document, format Format, w io.Writer) error {
	switch format {
	case FormatJSON:
		return EncodeJSON(d, w)
	case FormatText:
		return EncodeText(d, w)
	case FormatXML:
		return EncodeXML(d, w)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown format: %q", format)
}

// Decode reads a document from r in the given format.
func Decode(format Format, r io.Reader) (*document.Document, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(r)
	case FormatText:
		return DecodeText(r)
	case FormatXML:
		return DecodeXML(r)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format: %q", format)
}
