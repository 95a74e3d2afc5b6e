package visit

import (
	"strings"

	"github.com/dpotapov/go-htmlast/dom"
)

// FindFirst returns the first element in document order, root included,
// whose tag name matches tag case-insensitively. It returns dom.None if
// there is none.
func FindFirst(d *dom.Document, root dom.NodeID, tag string) dom.NodeID {
	for n := range Preorder(d, root) {
		if d.Kind(n) == dom.ElementNode && strings.EqualFold(d.Data(n), tag) {
			return n
		}
	}
	return dom.None
}

// FindAll returns all elements of the subtree whose tag name matches tag
// case-insensitively, in document order.
func FindAll(d *dom.Document, root dom.NodeID, tag string) []dom.NodeID {
	var found []dom.NodeID
	for n := range Preorder(d, root) {
		if d.Kind(n) == dom.ElementNode && strings.EqualFold(d.Data(n), tag) {
			found = append(found, n)
		}
	}
	return found
}

// NodeAt returns the node created from the source position closest to pos
// without passing it. Nodes without a position, like implied elements, are
// ignored. It returns dom.None if no node qualifies.
func NodeAt(d *dom.Document, pos dom.Position) dom.NodeID {
	found, best := dom.None, -1
	for n := range Preorder(d, d.Root()) {
		p := d.Pos(n)
		if p.IsZero() || p.Offset > pos.Offset {
			continue
		}
		if p.Offset >= best {
			found, best = n, p.Offset
		}
	}
	return found
}
