// Package query implements pattern matching over validatetest syntax
// trees: kind and field predicates for highlighting, and the injection
// rules that identify string spans to re-parse as nested documents.
package query

import (
	"github.com/thiblahute/validatetest-go/vts/parsing/cst"
)

// Predicate decides whether a node matches.
type Predicate func(tree *cst.Tree, node *cst.Node) bool

// OfKind matches nodes of the given kind.
func OfKind(kind cst.Kind) Predicate {
	return func(_ *cst.Tree, node *cst.Node) bool {
		return node.Kind() == kind
	}
}

// KindNamed matches nodes whose kind name equals the given string. Kind
// names follow the grammar's node names ("structure", "field", ...).
func KindNamed(name string) Predicate {
	return func(_ *cst.Tree, node *cst.Node) bool {
		return node.KindName() == name
	}
}

// TextEquals matches nodes whose covered source text equals the given
// string.
func TextEquals(text string) Predicate {
	return func(tree *cst.Tree, node *cst.Node) bool {
		return tree.Text(node) == text
	}
}

// FieldTextEquals matches nodes whose named field covers exactly the
// given source text.
func FieldTextEquals(field cst.FieldName, text string) Predicate {
	return func(tree *cst.Tree, node *cst.Node) bool {
		child := node.Field(field)
		return child != nil && tree.Text(child) == text
	}
}

// And matches when every predicate matches.
func And(preds ...Predicate) Predicate {
	return func(tree *cst.Tree, node *cst.Node) bool {
		for _, p := range preds {
			if !p(tree, node) {
				return false
			}
		}
		return true
	}
}

// Or matches when any predicate matches.
func Or(preds ...Predicate) Predicate {
	return func(tree *cst.Tree, node *cst.Node) bool {
		for _, p := range preds {
			if p(tree, node) {
				return true
			}
		}
		return false
	}
}

// Match is one query result: the matched node plus its ancestor chain,
// root first.
type Match struct {
	Node      *cst.Node
	Ancestors []*cst.Node
}

// Select walks the tree in pre-order and returns every node matching the
// predicate, with ancestor chains.
func Select(tree *cst.Tree, pred Predicate) []Match {
	var out []Match
	Walk(tree, func(node *cst.Node, ancestors []*cst.Node) bool {
		if pred(tree, node) {
			chain := make([]*cst.Node, len(ancestors))
			copy(chain, ancestors)
			out = append(out, Match{Node: node, Ancestors: chain})
		}
		return true
	})
	return out
}

// Walk traverses the tree in pre-order, passing each node and its
// ancestor chain (root first) to fn. Returning false skips the node's
// subtree.
func Walk(tree *cst.Tree, fn func(node *cst.Node, ancestors []*cst.Node) bool) {
	var ancestors []*cst.Node
	var visit func(n *cst.Node)
	visit = func(n *cst.Node) {
		if !fn(n, ancestors) {
			return
		}
		ancestors = append(ancestors, n)
		for _, c := range n.Children() {
			visit(c)
		}
		ancestors = ancestors[:len(ancestors)-1]
	}
	visit(tree.Root())
}
