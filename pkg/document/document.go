// Package document provides the in-memory mind map: a rooted, single-parent
// graph of labeled nodes with presentation metadata.
//
// A Document always contains one fixed root node. Every other node has
// exactly one parent, reachable from the root, with no cycles. Operations
// that would break this (multi-parenting, orphaning, self-edges, cycles)
// are rejected before they are applied. Parent→children and child→parent
// adjacency indexes are maintained incrementally so navigation and editing
// never scan the full edge list.
//
// The zero value is not usable; use New to create a valid Document.
// Document is not safe for concurrent use without external synchronization.
package document

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrInvalidNodeID is returned by [Document.AddNode] when the node ID
	// is empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Document.AddNode] when a node with
	// the same ID already exists. Node IDs are unique within a document.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Document.AddEdge] when the From
	// node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Document.AddEdge] when the To
	// node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrMultipleParents is returned by [Document.AddEdge] when the target
	// already has a parent. A document is a tree, never a general graph.
	ErrMultipleParents = errors.New("node already has a parent")

	// ErrSelfEdge is returned by [Document.AddEdge] when From equals To.
	ErrSelfEdge = errors.New("self-edges are not allowed")

	// ErrEdgeToRoot is returned by [Document.AddEdge] when the target is
	// the root node. The root never has an incoming edge.
	ErrEdgeToRoot = errors.New("root cannot be an edge target")

	// ErrWouldCycle is returned by [Document.AddEdge] when the edge would
	// close a cycle (the target is an ancestor of the source).
	ErrWouldCycle = errors.New("edge would create a cycle")

	// ErrRootImmutable is returned by [Document.RemoveNode] for the root.
	ErrRootImmutable = errors.New("root node cannot be removed")

	// ErrHasChildren is returned by [Document.RemoveNode] when the node
	// still has children. Remove descendants first (or use the editor's
	// subtree delete, which does).
	ErrHasChildren = errors.New("node still has children")

	// ErrInvalidEdgeEndpoint is returned by [Document.Validate] when an
	// edge references a node that doesn't exist. Indicates corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrDepthMismatch is returned by [Document.Validate] when a child's
	// depth is not exactly one below its parent's.
	ErrDepthMismatch = errors.New("child depth must be parent depth + 1")

	// ErrDisconnected is returned by [Document.Validate] when a node is
	// not reachable from the root.
	ErrDisconnected = errors.New("node not reachable from root")
)

// RootID is the fixed identifier of the synthetic root node.
const RootID = "root"

// RootLabel is the fixed display label of the root node.
const RootLabel = "Mind Map"

// Shape distinguishes how a node is rendered.
type Shape string

const (
	// ShapeContainer marks a node with children, rendered as a dot/circle
	// with the label beside it.
	ShapeContainer Shape = "container"
	// ShapeLeaf marks a node without children, rendered as a box with
	// wrapped label text inside.
	ShapeLeaf Shape = "leaf"
)

// Edge weight classes, derived from the target node's depth.
const (
	WeightPrimary   = "primary"   // Edges into depth-1 nodes (main branches)
	WeightSecondary = "secondary" // All deeper edges
)

// Layout names accepted by the rendering collaborator.
const (
	LayoutTree   = "tree"   // Hierarchical container tree
	LayoutRadial = "radial" // Radial tree around the root
	LayoutForce  = "force"  // Force-settled then frozen
)

// Meta is the document-level metadata bag carried through serialization
// and share tokens.
type Meta struct {
	Layout    string `json:"layout,omitempty" bson:"layout,omitempty"`
	AutoGroup bool   `json:"auto_group" bson:"auto_group"`
	Source    string `json:"source,omitempty" bson:"source,omitempty"` // Original outline text
}

// Node is a vertex of the mind map.
//
// OriginalText holds the full untruncated source text and is authoritative
// for reconstruction and label re-formatting. Label is the derived display
// form and may embed line breaks; it must never be used to rebuild outline
// text. Shape always matches the node's current out-degree.
type Node struct {
	ID           string `json:"id" bson:"id"`
	OriginalText string `json:"text" bson:"text"`
	Label        string `json:"label,omitempty" bson:"label,omitempty"`
	Depth        int    `json:"depth" bson:"depth"` // 0 = root
	Category     string `json:"category,omitempty" bson:"category,omitempty"`
	Color        string `json:"color,omitempty" bson:"color,omitempty"`
	Shape        Shape  `json:"shape,omitempty" bson:"shape,omitempty"`
}

// Edge is a directed parent→child connection.
type Edge struct {
	From   string `json:"from" bson:"from"`
	To     string `json:"to" bson:"to"`
	Weight string `json:"weight,omitempty" bson:"weight,omitempty"`
}

// Document is one in-memory mind map: the fixed root plus node and edge
// collections with incrementally maintained adjacency indexes.
type Document struct {
	nodes    map[string]*Node
	edges    []Edge
	children map[string][]string // parent ID -> ordered child IDs
	parent   map[string]string   // child ID -> parent ID
	meta     Meta
	seq      int
}

// New creates a Document containing only the root node.
func New(meta Meta) *Document {
	d := &Document{
		nodes:    make(map[string]*Node),
		children: make(map[string][]string),
		parent:   make(map[string]string),
		meta:     meta,
	}
	d.nodes[RootID] = &Node{
		ID:           RootID,
		OriginalText: RootLabel,
		Label:        RootLabel,
		Depth:        0,
		Shape:        ShapeContainer,
	}
	return d
}

// Meta returns a pointer to the document-level metadata bag.
func (d *Document) Meta() *Meta { return &d.meta }

// MintID returns a fresh sequential node ID. IDs are zero-padded so that
// under [CompareIDs] they order by creation, which the reconstruction
// tie-break relies on.
func (d *Document) MintID() string {
	d.seq++
	return fmt.Sprintf("n%04d", d.seq)
}

// CompareIDs orders node IDs by length, then bytewise. Minted IDs are
// zero-padded, so this keeps them in mint order even past the pad width
// ("n9999" sorts before "n10000" where plain string order would not).
func CompareIDs(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}

// AddNode adds a node to the document.
// Returns ErrInvalidNodeID for an empty ID or ErrDuplicateNodeID if the
// ID is already taken. Minted-looking IDs re-seed the sequence counter so
// imported documents keep minting unique IDs.
func (d *Document) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Shape == "" {
		n.Shape = ShapeLeaf
	}
	node := &n
	d.nodes[node.ID] = node
	d.reseedSeq(node.ID)
	return nil
}

// reseedSeq bumps the ID sequence past any imported minted ID.
func (d *Document) reseedSeq(id string) {
	rest, ok := strings.CutPrefix(id, "n")
	if !ok {
		return
	}
	if num, err := strconv.Atoi(rest); err == nil && num > d.seq {
		d.seq = num
	}
}

// AddEdge connects parent from to child to, derives the edge weight from
// the target's depth, and flips the parent's shape to container.
//
// The edge is rejected (fail-closed, document unchanged) when either
// endpoint is missing, the target is the root, the edge is a self-edge
// or would close a cycle, or the target already has a parent. The cycle
// check runs before the parent check so a back-edge to an ancestor gets
// the more specific diagnosis.
func (d *Document) AddEdge(from, to string) error {
	if _, ok := d.nodes[from]; !ok {
		return ErrUnknownSourceNode
	}
	target, ok := d.nodes[to]
	if !ok {
		return ErrUnknownTargetNode
	}
	if from == to {
		return ErrSelfEdge
	}
	if to == RootID {
		return ErrEdgeToRoot
	}
	if d.isAncestor(to, from) {
		return ErrWouldCycle
	}
	if _, has := d.parent[to]; has {
		return ErrMultipleParents
	}

	weight := WeightSecondary
	if target.Depth == 1 {
		weight = WeightPrimary
	}
	d.edges = append(d.edges, Edge{From: from, To: to, Weight: weight})
	d.children[from] = append(d.children[from], to)
	d.parent[to] = from
	d.nodes[from].Shape = ShapeContainer
	return nil
}

// isAncestor reports whether anc is an ancestor of id (or id itself).
func (d *Document) isAncestor(anc, id string) bool {
	for cur := id; ; {
		if cur == anc {
			return true
		}
		p, ok := d.parent[cur]
		if !ok {
			return false
		}
		cur = p
	}
}

// RemoveEdge removes the edge from→to if it exists and reverts the
// parent's shape to leaf when it loses its last child. Removing a
// missing edge is a no-op.
func (d *Document) RemoveEdge(from, to string) {
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool { return e.From == from && e.To == to })
	d.children[from] = slices.DeleteFunc(d.children[from], func(s string) bool { return s == to })
	if d.parent[to] == from {
		delete(d.parent, to)
	}
	if len(d.children[from]) == 0 {
		delete(d.children, from)
		if n, ok := d.nodes[from]; ok && from != RootID {
			n.Shape = ShapeLeaf
		}
	}
}

// RemoveNode removes a childless non-root node along with its incoming
// edge. Returns ErrRootImmutable for the root, ErrUnknownSourceNode for a
// missing node, or ErrHasChildren when descendants still exist.
func (d *Document) RemoveNode(id string) error {
	if id == RootID {
		return ErrRootImmutable
	}
	if _, ok := d.nodes[id]; !ok {
		return ErrUnknownSourceNode
	}
	if len(d.children[id]) > 0 {
		return ErrHasChildren
	}
	if p, ok := d.parent[id]; ok {
		d.RemoveEdge(p, id)
	}
	delete(d.nodes, id)
	return nil
}

// Node returns the node with the given ID, or nil and false if not found.
// The pointer refers to the live node: field edits (except ID) take effect
// directly.
func (d *Document) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Root returns the root node.
func (d *Document) Root() *Node { return d.nodes[RootID] }

// Nodes returns all nodes sorted by ID for deterministic iteration.
func (d *Document) Nodes() []*Node {
	nodes := make([]*Node, 0, len(d.nodes))
	for _, n := range d.nodes {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b *Node) int { return strings.Compare(a.ID, b.ID) })
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (d *Document) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes, including the root.
func (d *Document) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges.
func (d *Document) EdgeCount() int { return len(d.edges) }

// Children returns the ordered child IDs of a node.
// The returned slice is a read-only view.
func (d *Document) Children(id string) []string { return d.children[id] }

// Parent returns the parent ID of a node and whether it has one.
// The root (and any unknown ID) has no parent.
func (d *Document) Parent(id string) (string, bool) {
	p, ok := d.parent[id]
	return p, ok
}

// HasChildren reports whether the node currently has outgoing edges.
func (d *Document) HasChildren(id string) bool { return len(d.children[id]) > 0 }

// Descendants returns the transitive closure of a node's children in
// depth-first order, excluding the node itself.
func (d *Document) Descendants(id string) []string {
	var out []string
	var walk func(string)
	walk = func(cur string) {
		for _, c := range d.children[cur] {
			out = append(out, c)
			walk(c)
		}
	}
	walk(id)
	return out
}

// Validate checks document integrity and returns nil if valid.
//
// It verifies that all edges reference existing nodes, every child sits
// exactly one depth level below its parent, every node is reachable from
// the root, and each node's shape matches its out-degree. The structural
// mutators keep these invariants incrementally; Validate is the backstop
// for imported payloads.
func (d *Document) Validate() error {
	for _, e := range d.edges {
		src, okS := d.nodes[e.From]
		dst, okD := d.nodes[e.To]
		if !okS || !okD {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidEdgeEndpoint, e.From, e.To)
		}
		if dst.Depth != src.Depth+1 {
			return fmt.Errorf("%w: %s (depth %d) -> %s (depth %d)", ErrDepthMismatch, e.From, src.Depth, e.To, dst.Depth)
		}
	}

	seen := map[string]bool{RootID: true}
	queue := []string{RootID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range d.children[cur] {
			if !seen[c] {
				seen[c] = true
				queue = append(queue, c)
			}
		}
	}
	for id, n := range d.nodes {
		if !seen[id] {
			return fmt.Errorf("%w: %s", ErrDisconnected, id)
		}
		want := ShapeLeaf
		if id == RootID || len(d.children[id]) > 0 {
			want = ShapeContainer
		}
		if n.Shape != want {
			return fmt.Errorf("node %s: shape %q inconsistent with %d children", id, n.Shape, len(d.children[id]))
		}
	}
	return nil
}
