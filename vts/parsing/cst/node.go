package cst

import (
	"strings"

	"github.com/thiblahute/validatetest-go/vts/diagnostics"
)

// Node is one node of the concrete syntax tree. Nodes are immutable once
// built; a tree is a single rooted ownership structure with no sharing
// between trees and no parent pointers.
type Node struct {
	kind     Kind
	span     diagnostics.Span
	children []*Node
	fields   []FieldName // parallel to children; FieldNone for unnamed slots
	errored  bool
}

// NewLeaf creates a leaf node covering the given span.
func NewLeaf(kind Kind, span diagnostics.Span) *Node {
	return &Node{kind: kind, span: span}
}

// Kind returns the node kind.
func (n *Node) Kind() Kind {
	return n.kind
}

// KindName returns the node kind name as exposed to query consumers.
func (n *Node) KindName() string {
	return n.kind.String()
}

// Span returns the byte range this node covers in the original source.
func (n *Node) Span() diagnostics.Span {
	return n.span
}

// ChildCount returns the number of children, trivia included.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Child returns the i-th child, or nil if out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns the ordered child slice. Callers must not mutate it.
func (n *Node) Children() []*Node {
	return n.children
}

// FieldOf returns the named slot the i-th child occupies, or FieldNone.
func (n *Node) FieldOf(i int) FieldName {
	if i < 0 || i >= len(n.fields) {
		return FieldNone
	}
	return n.fields[i]
}

// Field returns the first child occupying the given named slot, or nil.
func (n *Node) Field(f FieldName) *Node {
	if !n.kind.HasField(f) {
		return nil
	}
	for i, tag := range n.fields {
		if tag == f {
			return n.children[i]
		}
	}
	return nil
}

// FieldByName resolves a textual field name ("name", "value", "type").
func (n *Node) FieldByName(name string) *Node {
	return n.Field(FieldByName(name))
}

// HasError reports whether this node carries an error marker.
func (n *Node) HasError() bool {
	return n.errored
}

// ContainsError reports whether this node or any descendant carries an
// error marker or is an ERROR node.
func (n *Node) ContainsError() bool {
	if n.errored || n.kind == KindError {
		return true
	}
	for _, c := range n.children {
		if c.ContainsError() {
			return true
		}
	}
	return false
}

// ChildrenOfKind returns every direct child of the given kind, in order.
func (n *Node) ChildrenOfKind(kind Kind) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// FirstChildOfKind returns the first direct child of the given kind, or nil.
func (n *Node) FirstChildOfKind(kind Kind) *Node {
	for _, c := range n.children {
		if c.kind == kind {
			return c
		}
	}
	return nil
}

// Builder assembles an internal node bottom-up as a production completes.
// The finished node's span is the union of its children's spans unless a
// wider span is set explicitly (for nodes owning literal tokens).
type Builder struct {
	kind    Kind
	node    Node
	hasSpan bool
}

// NewBuilder starts building a node of the given kind.
func NewBuilder(kind Kind) *Builder {
	return &Builder{kind: kind, node: Node{kind: kind}}
}

// Add appends an unnamed child.
func (b *Builder) Add(child *Node) *Builder {
	return b.AddField(FieldNone, child)
}

// AddField appends a child occupying a named slot.
func (b *Builder) AddField(f FieldName, child *Node) *Builder {
	if child == nil {
		return b
	}
	b.node.children = append(b.node.children, child)
	b.node.fields = append(b.node.fields, f)
	if !b.hasSpan {
		b.node.span = child.span
		b.hasSpan = true
	} else {
		b.node.span = b.node.span.Union(child.span)
	}
	return b
}

// SetSpan widens the node span beyond the children's union.
func (b *Builder) SetSpan(span diagnostics.Span) *Builder {
	if !b.hasSpan {
		b.node.span = span
		b.hasSpan = true
	} else {
		b.node.span = b.node.span.Union(span)
	}
	return b
}

// MarkError attaches an error marker to the node being built.
func (b *Builder) MarkError() *Builder {
	b.node.errored = true
	return b
}

// Empty reports whether no children have been added yet.
func (b *Builder) Empty() bool {
	return len(b.node.children) == 0
}

// Finish returns the completed immutable node.
func (b *Builder) Finish() *Node {
	done := b.node
	return &done
}

// Tree is the result of one parse invocation: an immutable root node plus
// the source buffer its spans index into. Safe for concurrent reads.
type Tree struct {
	root   *Node
	source string
}

// NewTree pairs a root node with its source buffer.
func NewTree(root *Node, source string) *Tree {
	return &Tree{root: root, source: source}
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Source returns the original input, byte for byte.
func (t *Tree) Source() string {
	return t.source
}

// Text returns the source text a node covers. Applied to the root this
// reproduces the exact original input, trivia included.
func (t *Tree) Text(n *Node) string {
	start, end := n.span.Start, n.span.End
	if start < 0 {
		start = 0
	}
	if end > len(t.source) {
		end = len(t.source)
	}
	if start > end {
		return ""
	}
	return t.source[start:end]
}

// SExpression renders the subtree rooted at n as an s-expression of
// kind names, leaf punctuation omitted.
func (t *Tree) SExpression(n *Node) string {
	var sb strings.Builder
	t.writeSExp(&sb, n, FieldNone)
	return sb.String()
}

func (t *Tree) writeSExp(sb *strings.Builder, n *Node, field FieldName) {
	if field != FieldNone {
		sb.WriteString(field.String())
		sb.WriteString(": ")
	}
	sb.WriteString("(")
	sb.WriteString(n.KindName())
	for i, c := range n.children {
		if c.kind >= KindComma {
			continue
		}
		sb.WriteString(" ")
		t.writeSExp(sb, c, n.FieldOf(i))
	}
	sb.WriteString(")")
}

// StructurallyEqual compares two subtrees by kind, named fields, and span
// extents shifted by offset. Used to check that re-parsing reconstructed
// text is a no-op on structure.
func StructurallyEqual(a, b *Node, offset int) bool {
	if a.kind != b.kind || a.errored != b.errored {
		return false
	}
	if a.span.Start+offset != b.span.Start || a.span.End+offset != b.span.End {
		return false
	}
	if len(a.children) != len(b.children) {
		return false
	}
	for i := range a.children {
		if a.fields[i] != b.fields[i] {
			return false
		}
		if !StructurallyEqual(a.children[i], b.children[i], offset) {
			return false
		}
	}
	return true
}
