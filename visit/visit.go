// Package visit implements traversals of dom.Document trees.
//
// Walks are pre-order: a node is entered before its children, which are
// visited in order, and exited after them. A walk never mutates the tree and
// the tree must not be mutated while it is walked; Rewrite is the way to
// change a tree based on a traversal.
package visit

import (
	"iter"

	"github.com/dpotapov/go-htmlast/dom"
)

// Action tells a walk how to proceed after entering a node.
type Action uint8

const (
	// Continue descends into the children of the node.
	Continue Action = iota
	// SkipChildren does not visit the children of the node. The node is
	// still exited, and the walk goes on with its next sibling.
	SkipChildren
	// Stop ends the whole walk. No further Enter or Exit calls are made.
	Stop
)

func (a Action) String() string {
	switch a {
	case Continue:
		return "continue"
	case SkipChildren:
		return "skip-children"
	case Stop:
		return "stop"
	}
	return "invalid"
}

// Visitor has an enter and an exit hook for every node kind. Exit hooks may
// return Stop to end the walk; any other action is ignored.
type Visitor interface {
	EnterDocument(d *dom.Document, id dom.NodeID) Action
	ExitDocument(d *dom.Document, id dom.NodeID) Action
	EnterDoctype(d *dom.Document, id dom.NodeID) Action
	ExitDoctype(d *dom.Document, id dom.NodeID) Action
	EnterElement(d *dom.Document, id dom.NodeID) Action
	ExitElement(d *dom.Document, id dom.NodeID) Action
	EnterText(d *dom.Document, id dom.NodeID) Action
	ExitText(d *dom.Document, id dom.NodeID) Action
	EnterComment(d *dom.Document, id dom.NodeID) Action
	ExitComment(d *dom.Document, id dom.NodeID) Action
}

// BaseVisitor implements every Visitor hook by returning Continue. Embed it
// to implement only the hooks of interest.
type BaseVisitor struct{}

func (BaseVisitor) EnterDocument(*dom.Document, dom.NodeID) Action { return Continue }
func (BaseVisitor) ExitDocument(*dom.Document, dom.NodeID) Action  { return Continue }
func (BaseVisitor) EnterDoctype(*dom.Document, dom.NodeID) Action  { return Continue }
func (BaseVisitor) ExitDoctype(*dom.Document, dom.NodeID) Action   { return Continue }
func (BaseVisitor) EnterElement(*dom.Document, dom.NodeID) Action  { return Continue }
func (BaseVisitor) ExitElement(*dom.Document, dom.NodeID) Action   { return Continue }
func (BaseVisitor) EnterText(*dom.Document, dom.NodeID) Action     { return Continue }
func (BaseVisitor) ExitText(*dom.Document, dom.NodeID) Action      { return Continue }
func (BaseVisitor) EnterComment(*dom.Document, dom.NodeID) Action  { return Continue }
func (BaseVisitor) ExitComment(*dom.Document, dom.NodeID) Action   { return Continue }

// Walk traverses the subtree rooted at root. It returns Stop if a hook
// stopped the walk and Continue otherwise. A stale root visits nothing.
func Walk(d *dom.Document, root dom.NodeID, v Visitor) Action {
	if !d.Valid(root) {
		return Continue
	}
	if walk(d, root, v) {
		return Stop
	}
	return Continue
}

// walk reports whether the walk was stopped.
func walk(d *dom.Document, id dom.NodeID, v Visitor) bool {
	var act Action
	switch d.Kind(id) {
	case dom.DocumentNode:
		act = v.EnterDocument(d, id)
	case dom.DoctypeNode:
		act = v.EnterDoctype(d, id)
	case dom.ElementNode:
		act = v.EnterElement(d, id)
	case dom.TextNode:
		act = v.EnterText(d, id)
	case dom.CommentNode:
		act = v.EnterComment(d, id)
	default:
		return false
	}
	switch act {
	case Stop:
		return true
	case Continue:
		for c := d.FirstChild(id); c != dom.None; c = d.NextSibling(c) {
			if walk(d, c, v) {
				return true
			}
		}
	}
	switch d.Kind(id) {
	case dom.DocumentNode:
		act = v.ExitDocument(d, id)
	case dom.DoctypeNode:
		act = v.ExitDoctype(d, id)
	case dom.ElementNode:
		act = v.ExitElement(d, id)
	case dom.TextNode:
		act = v.ExitText(d, id)
	case dom.CommentNode:
		act = v.ExitComment(d, id)
	}
	return act == Stop
}

// Inspect traverses the subtree rooted at root in pre-order, calling f for
// every node. If f returns false, the children of the node are skipped.
func Inspect(d *dom.Document, root dom.NodeID, f func(id dom.NodeID) bool) {
	if !d.Valid(root) {
		return
	}
	inspect(d, root, f)
}

func inspect(d *dom.Document, id dom.NodeID, f func(dom.NodeID) bool) {
	if !f(id) {
		return
	}
	for c := d.FirstChild(id); c != dom.None; c = d.NextSibling(c) {
		inspect(d, c, f)
	}
}

// Preorder returns an iterator over the subtree rooted at root in document
// order, root included. Breaking out of the loop ends the traversal.
func Preorder(d *dom.Document, root dom.NodeID) iter.Seq[dom.NodeID] {
	return func(yield func(dom.NodeID) bool) {
		if !d.Valid(root) {
			return
		}
		for n := root; n != dom.None; {
			if !yield(n) {
				return
			}
			n = next(d, root, n)
		}
	}
}

// next returns the node following n in document order within root.
func next(d *dom.Document, root, n dom.NodeID) dom.NodeID {
	if c := d.FirstChild(n); c != dom.None {
		return c
	}
	for n != root {
		if s := d.NextSibling(n); s != dom.None {
			return s
		}
		n = d.Parent(n)
	}
	return dom.None
}
