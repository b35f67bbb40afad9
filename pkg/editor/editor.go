// Package editor mutates an existing document through structural edit
// operations while preserving its tree invariants.
//
// Every operation validates its preconditions against the live document
// and becomes a silent no-op (not an error) when they fail: deleting the
// root, adding a sibling to an unparented node, or touching a missing
// node leaves the document untouched. Each operation reports whether it
// changed anything so callers can decide when to refresh views.
package editor

import (
	"slices"

	"github.com/treeline-io/treeline/pkg/document"
	"github.com/treeline-io/treeline/pkg/mapper"
)

// PlaceholderText is the initial text of nodes created by AddChild and
// AddSibling, meant to be renamed immediately by the user.
const PlaceholderText = "New idea"

// Direction selects a navigation target relative to the current node.
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// AddChild creates a new leaf under parentID and returns its ID.
// The child inherits the parent's category and color, sits one depth
// level below it, and starts with placeholder text. If the parent was a
// leaf it transitions to container, including its label re-format.
// Returns "" and false when parentID does not exist.
func AddChild(d *document.Document, parentID string) (string, bool) {
	parent, ok := d.Node(parentID)
	if !ok {
		return "", false
	}

	wasLeaf := !d.HasChildren(parentID)
	id := d.MintID()
	child := document.Node{
		ID:           id,
		OriginalText: PlaceholderText,
		Label:        mapper.FormatLabel(PlaceholderText, false),
		Depth:        parent.Depth + 1,
		Category:     parent.Category,
		Color:        parent.Color,
		Shape:        document.ShapeLeaf,
	}
	if err := d.AddNode(child); err != nil {
		return "", false
	}
	if err := d.AddEdge(parentID, id); err != nil {
		// Roll the node back so a rejected edge leaves no orphan behind.
		_ = d.RemoveNode(id)
		return "", false
	}
	if wasLeaf && parentID != document.RootID {
		parent.Label = mapper.FormatLabel(parent.OriginalText, true)
	}
	return id, true
}

// AddSibling creates a new leaf next to nodeID under the same parent and
// returns its ID. The new node sits at the same depth and inherits the
// sibling's category and color. A no-op for the root or any node without
// an incoming edge.
func AddSibling(d *document.Document, nodeID string) (string, bool) {
	if nodeID == document.RootID {
		return "", false
	}
	node, ok := d.Node(nodeID)
	if !ok {
		return "", false
	}
	parentID, ok := d.Parent(nodeID)
	if !ok {
		return "", false
	}

	id := d.MintID()
	sibling := document.Node{
		ID:           id,
		OriginalText: PlaceholderText,
		Label:        mapper.FormatLabel(PlaceholderText, false),
		Depth:        node.Depth,
		Category:     node.Category,
		Color:        node.Color,
		Shape:        document.ShapeLeaf,
	}
	if err := d.AddNode(sibling); err != nil {
		return "", false
	}
	if err := d.AddEdge(parentID, id); err != nil {
		_ = d.RemoveNode(id)
		return "", false
	}
	return id, true
}

// Delete removes nodeID and its entire descendant closure, plus all
// incident edges. If the deleted node's parent loses its last child it
// transitions back to leaf, including its label re-format. A no-op for
// the root or a missing node.
func Delete(d *document.Document, nodeID string) bool {
	if nodeID == document.RootID {
		return false
	}
	if _, ok := d.Node(nodeID); !ok {
		return false
	}
	parentID, hadParent := d.Parent(nodeID)

	// Remove leaves-first so every RemoveNode sees a childless node.
	closure := d.Descendants(nodeID)
	for i := len(closure) - 1; i >= 0; i-- {
		_ = d.RemoveNode(closure[i])
	}
	_ = d.RemoveNode(nodeID)

	if hadParent && parentID != document.RootID && !d.HasChildren(parentID) {
		if parent, ok := d.Node(parentID); ok {
			parent.Label = mapper.FormatLabel(parent.OriginalText, false)
		}
	}
	return true
}

// Rename replaces a node's text and re-formats its display label for its
// current shape. A no-op for a missing node; renaming the root is allowed
// and only changes its label.
func Rename(d *document.Document, nodeID, text string) bool {
	node, ok := d.Node(nodeID)
	if !ok {
		return false
	}
	node.OriginalText = text
	node.Label = mapper.FormatLabel(text, nodeID == document.RootID || d.HasChildren(nodeID))
	return true
}

// Navigate returns the neighbor of currentID in the given direction.
//
// Up and left move to the unique parent. Down and right move to the
// lowest-ID child or, for childless nodes, to the next sibling after the
// current node in parent order. Returns "" and false when no such
// neighbor exists.
func Navigate(d *document.Document, dir Direction, currentID string) (string, bool) {
	switch dir {
	case DirUp, DirLeft:
		return d.Parent(currentID)
	case DirDown, DirRight:
		if kids := d.Children(currentID); len(kids) > 0 {
			// Insertion order is not ID order for imported payloads.
			first := kids[0]
			for _, id := range kids[1:] {
				if document.CompareIDs(id, first) < 0 {
					first = id
				}
			}
			return first, true
		}
		parentID, ok := d.Parent(currentID)
		if !ok {
			return "", false
		}
		siblings := d.Children(parentID)
		idx := slices.Index(siblings, currentID)
		if idx >= 0 && idx+1 < len(siblings) {
			return siblings[idx+1], true
		}
	}
	return "", false
}
