package mapper

import (
	"slices"
	"strings"

	"github.com/treeline-io/treeline/pkg/document"
)

// Reconstruct emits outline text from a document.
//
// Interactive edits do not preserve original sibling order, so a
// deterministic order is imposed: each node's children are sorted by
// depth ascending, tie-broken by mint-order ID comparison. Node
// OriginalText is emitted (never the display label, which may embed line
// breaks), indented two spaces per level below the root; the root itself
// is skipped.
//
// Reconstruction is idempotent with respect to tree shape: re-parsing the
// output and rebuilding yields the same texts and parent/child structure,
// though node IDs are minted fresh on every forward pass.
func Reconstruct(d *document.Document) string {
	var b strings.Builder
	var emit func(id string, level int)
	emit = func(id string, level int) {
		for _, child := range OrderedChildren(d, id) {
			node, ok := d.Node(child)
			if !ok {
				continue
			}
			b.WriteString(strings.Repeat("  ", level))
			b.WriteString(node.OriginalText)
			b.WriteByte('\n')
			emit(child, level+1)
		}
	}
	emit(document.RootID, 0)
	return b.String()
}

// OrderedChildren returns a node's children in reconstruction order:
// depth ascending, tie-broken by mint-order ID comparison. Serializers
// use the same order so all textual emissions are deterministic.
func OrderedChildren(d *document.Document, id string) []string {
	kids := slices.Clone(d.Children(id))
	slices.SortFunc(kids, func(a, b string) int {
		na, okA := d.Node(a)
		nb, okB := d.Node(b)
		if okA && okB && na.Depth != nb.Depth {
			return na.Depth - nb.Depth
		}
		return document.CompareIDs(a, b)
	})
	return kids
}
