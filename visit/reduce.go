package visit

import "github.com/dpotapov/go-htmlast/dom"

// A Reducer folds a tree into a single value, bottom-up. The children of a
// node are reduced first and combined with Fragment; the result is handed to
// Element (or returned as is for the document node).
type Reducer[T any] interface {
	Text(d *dom.Document, id dom.NodeID) T
	Comment(d *dom.Document, id dom.NodeID) T
	Doctype(d *dom.Document, id dom.NodeID) T
	Element(d *dom.Document, id dom.NodeID, children T) T
	Fragment(items []T) T
}

// Reduce applies r to the subtree rooted at root.
func Reduce[T any](d *dom.Document, root dom.NodeID, r Reducer[T]) T {
	switch d.Kind(root) {
	case dom.TextNode:
		return r.Text(d, root)
	case dom.CommentNode:
		return r.Comment(d, root)
	case dom.DoctypeNode:
		return r.Doctype(d, root)
	case dom.ElementNode:
		return r.Element(d, root, reduceChildren(d, root, r))
	case dom.DocumentNode:
		return reduceChildren(d, root, r)
	}
	var zero T
	return zero
}

func reduceChildren[T any](d *dom.Document, id dom.NodeID, r Reducer[T]) T {
	var items []T
	for c := d.FirstChild(id); c != dom.None; c = d.NextSibling(c) {
		items = append(items, Reduce(d, c, r))
	}
	return r.Fragment(items)
}
