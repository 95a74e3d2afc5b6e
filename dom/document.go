package dom

import (
	"iter"
	"slices"

	"golang.org/x/net/html/atom"
)

type entry struct {
	Node

	parent, firstChild, lastChild, prevSibling, nextSibling NodeID

	// removed marks nodes destroyed by Remove. Their handles are stale.
	removed bool
}

// Document is an arena that owns every node of a tree. Nodes are addressed by
// NodeID handles, which are never reused within a Document.
//
// A Document is not safe for concurrent mutation. Concurrent readers are fine
// as long as nobody mutates the tree.
type Document struct {
	nodes  []entry
	quirks QuirksMode
}

// NewDocument returns an empty document holding only the document node.
func NewDocument() *Document {
	d := &Document{nodes: make([]entry, 2, 64)}
	d.nodes[1].Kind = DocumentNode
	return d
}

// Root returns the handle of the document node.
func (d *Document) Root() NodeID {
	return 1
}

// QuirksMode returns the document compatibility mode.
func (d *Document) QuirksMode() QuirksMode {
	return d.quirks
}

// SetQuirksMode sets the document compatibility mode.
func (d *Document) SetQuirksMode(q QuirksMode) {
	d.quirks = q
}

// Len returns the number of live nodes, including the document node.
func (d *Document) Len() int {
	n := 0
	for i := 1; i < len(d.nodes); i++ {
		if !d.nodes[i].removed {
			n++
		}
	}
	return n
}

// Valid reports whether id refers to a live node of d.
func (d *Document) Valid(id NodeID) bool {
	return id > 0 && int(id) < len(d.nodes) && !d.nodes[id].removed
}

func (d *Document) get(id NodeID) *entry {
	if !d.Valid(id) {
		return nil
	}
	return &d.nodes[id]
}

// Node returns a copy of the node data. The attribute slice is cloned.
func (d *Document) Node(id NodeID) Node {
	e := d.get(id)
	if e == nil {
		return Node{}
	}
	n := e.Node
	n.Attr = slices.Clone(n.Attr)
	return n
}

// Kind returns the kind of the node, or InvalidNode for stale handles.
func (d *Document) Kind(id NodeID) Kind {
	if e := d.get(id); e != nil {
		return e.Kind
	}
	return InvalidNode
}

// Atom returns the interned tag name of an element.
func (d *Document) Atom(id NodeID) atom.Atom {
	if e := d.get(id); e != nil {
		return e.DataAtom
	}
	return 0
}

// Data returns the tag name, text content, comment content or doctype name.
func (d *Document) Data(id NodeID) string {
	if e := d.get(id); e != nil {
		return e.Data
	}
	return ""
}

// Namespace returns the element namespace.
func (d *Document) Namespace(id NodeID) Namespace {
	if e := d.get(id); e != nil {
		return e.Namespace
	}
	return HTML
}

// Attrs returns the attributes of an element in insertion order. The
// returned slice belongs to the document and must not be modified.
func (d *Document) Attrs(id NodeID) []Attribute {
	if e := d.get(id); e != nil {
		return e.Attr
	}
	return nil
}

// Attr returns the value of the attribute with no namespace and the given key.
func (d *Document) Attr(id NodeID, key string) (string, bool) {
	e := d.get(id)
	if e == nil {
		return "", false
	}
	for _, a := range e.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttrValue reports whether the element has the attribute key set to val.
func (d *Document) HasAttrValue(id NodeID, key, val string) bool {
	v, ok := d.Attr(id, key)
	return ok && v == val
}

// DoctypeIDs returns the public and system identifiers of a doctype node.
func (d *Document) DoctypeIDs(id NodeID) (publicID, systemID string) {
	if e := d.get(id); e != nil {
		return e.PublicID, e.SystemID
	}
	return "", ""
}

// Pos returns the source position the node was created from. Nodes created
// through the mutation API have a zero position.
func (d *Document) Pos(id NodeID) Position {
	if e := d.get(id); e != nil {
		return e.Pos
	}
	return Position{}
}

// Parent returns the parent of the node, or None.
func (d *Document) Parent(id NodeID) NodeID {
	if e := d.get(id); e != nil {
		return e.parent
	}
	return None
}

// FirstChild returns the first child of the node, or None.
func (d *Document) FirstChild(id NodeID) NodeID {
	if e := d.get(id); e != nil {
		return e.firstChild
	}
	return None
}

// LastChild returns the last child of the node, or None.
func (d *Document) LastChild(id NodeID) NodeID {
	if e := d.get(id); e != nil {
		return e.lastChild
	}
	return None
}

// NextSibling returns the next sibling of the node, or None.
func (d *Document) NextSibling(id NodeID) NodeID {
	if e := d.get(id); e != nil {
		return e.nextSibling
	}
	return None
}

// PrevSibling returns the previous sibling of the node, or None.
func (d *Document) PrevSibling(id NodeID) NodeID {
	if e := d.get(id); e != nil {
		return e.prevSibling
	}
	return None
}

// Children iterates over the children of the node in order. The iteration
// must not be combined with mutations of the same parent.
func (d *Document) Children(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for c := d.FirstChild(id); c != None; c = d.NextSibling(c) {
			if !yield(c) {
				return
			}
		}
	}
}

// ChildCount returns the number of children of the node.
func (d *Document) ChildCount(id NodeID) int {
	n := 0
	for c := d.FirstChild(id); c != None; c = d.NextSibling(c) {
		n++
	}
	return n
}

// Child returns the i-th child of the node, or None if out of range.
func (d *Document) Child(id NodeID, i int) NodeID {
	if i < 0 {
		return None
	}
	for c := d.FirstChild(id); c != None; c = d.NextSibling(c) {
		if i == 0 {
			return c
		}
		i--
	}
	return None
}

// DocumentElement returns the root element of the document, or None.
func (d *Document) DocumentElement() NodeID {
	for c := range d.Children(d.Root()) {
		if d.nodes[c].Kind == ElementNode {
			return c
		}
	}
	return None
}

// IsAncestor reports whether a is an ancestor of n or n itself.
func (d *Document) IsAncestor(a, n NodeID) bool {
	for ; n != None; n = d.Parent(n) {
		if n == a {
			return true
		}
	}
	return false
}

// IsElement reports whether id is an element with the given namespace and atom.
func (d *Document) IsElement(id NodeID, ns Namespace, a atom.Atom) bool {
	e := d.get(id)
	return e != nil && e.Kind == ElementNode && e.Namespace == ns && e.DataAtom == a
}

// Text returns the concatenated text content of the subtree rooted at id.
func (d *Document) Text(id NodeID) string {
	e := d.get(id)
	if e == nil {
		return ""
	}
	if e.Kind == TextNode {
		return e.Data
	}
	var buf []byte
	var walk func(NodeID)
	walk = func(n NodeID) {
		for c := d.FirstChild(n); c != None; c = d.NextSibling(c) {
			switch d.nodes[c].Kind {
			case TextNode:
				buf = append(buf, d.nodes[c].Data...)
			case ElementNode:
				walk(c)
			}
		}
	}
	walk(id)
	return string(buf)
}
