// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// Modifications:
// Copyright 2024 Daniel Potapov
//  - Tree links are NodeID handles into the Document arena.
//  - Mutations return a MutationError instead of panicking.

package dom

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html/atom"
)

// Create adds a detached node to the arena and returns its handle. The node
// takes ownership of n.Attr. No validation is applied: the parser uses Create
// for tokens whose attribute names are legal in HTML source but would be
// rejected by SetAttr.
func (d *Document) Create(n Node) NodeID {
	if n.Kind == ElementNode && n.DataAtom == 0 {
		n.DataAtom = atom.Lookup([]byte(n.Data))
	}
	d.nodes = append(d.nodes, entry{Node: n})
	return NodeID(len(d.nodes) - 1)
}

// CreateElement creates a detached element. Duplicate attribute names are
// resolved first-wins.
func (d *Document) CreateElement(ns Namespace, tag string, attrs ...Attribute) (NodeID, error) {
	if !validName(tag) {
		return None, mutationErr("create", None, fmt.Errorf("%w: %q", ErrInvalidTagName, tag))
	}
	var list []Attribute
	for _, a := range attrs {
		if !validName(a.Key) {
			return None, mutationErr("create", None, fmt.Errorf("%w: %q", ErrInvalidAttrName, a.Key))
		}
		if indexAttr(list, a.Namespace, a.Key) == -1 {
			list = append(list, a)
		}
	}
	if ns == HTML {
		tag = strings.ToLower(tag)
	}
	return d.Create(Node{Kind: ElementNode, Data: tag, Namespace: ns, Attr: list}), nil
}

// CreateText creates a detached text node.
func (d *Document) CreateText(s string) NodeID {
	return d.Create(Node{Kind: TextNode, Data: s})
}

// CreateComment creates a detached comment node.
func (d *Document) CreateComment(s string) NodeID {
	return d.Create(Node{Kind: CommentNode, Data: s})
}

// CreateDoctype creates a detached doctype node.
func (d *Document) CreateDoctype(name, publicID, systemID string) NodeID {
	return d.Create(Node{Kind: DoctypeNode, Data: name, PublicID: publicID, SystemID: systemID})
}

// Clone creates a detached shallow copy of the node: same kind, data,
// namespace and attributes, but no children.
func (d *Document) Clone(id NodeID) (NodeID, error) {
	e := d.get(id)
	if e == nil || e.Kind == DocumentNode {
		return None, mutationErr("clone", id, ErrStaleNode)
	}
	n := e.Node
	n.Attr = slices.Clone(n.Attr)
	return d.Create(n), nil
}

// AppendChild adds child as the last child of parent. An attached child is
// moved: it keeps its handle and its subtree.
func (d *Document) AppendChild(parent, child NodeID) error {
	return d.InsertBefore(parent, child, None)
}

// InsertBefore inserts child into parent immediately before ref. When ref is
// None, child is appended.
func (d *Document) InsertBefore(parent, child, ref NodeID) error {
	if err := d.checkInsert("insert", parent, child); err != nil {
		return err
	}
	if ref != None {
		if !d.Valid(ref) {
			return mutationErr("insert", ref, ErrStaleNode)
		}
		if d.nodes[ref].parent != parent {
			return mutationErr("insert", ref, ErrNotChild)
		}
		if ref == child {
			return nil
		}
	}
	d.unlink(child)
	d.link(parent, child, ref)
	return nil
}

// InsertChild inserts child so that it becomes the i-th child of parent.
// An index equal to the number of children appends.
func (d *Document) InsertChild(parent NodeID, i int, child NodeID) error {
	if err := d.checkInsert("insert", parent, child); err != nil {
		return err
	}
	// Index against the sibling list without child, as it will be moved.
	ref := d.nodes[parent].firstChild
	for ref != None && (ref == child || i > 0) {
		if ref != child {
			i--
		}
		ref = d.nodes[ref].nextSibling
	}
	if i < 0 || i > 0 {
		return mutationErr("insert", parent, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i))
	}
	d.unlink(child)
	d.link(parent, child, ref)
	return nil
}

// MoveChildren moves all children of src to the end of dst, in order.
func (d *Document) MoveChildren(dst, src NodeID) error {
	if !d.Valid(src) {
		return mutationErr("move", src, ErrStaleNode)
	}
	for c := d.nodes[src].firstChild; c != None; c = d.nodes[src].firstChild {
		if err := d.AppendChild(dst, c); err != nil {
			return err
		}
	}
	return nil
}

// Detach unlinks the node from its parent. The node and its subtree remain
// live and can be inserted elsewhere.
func (d *Document) Detach(id NodeID) error {
	if !d.Valid(id) || id == d.Root() {
		return mutationErr("detach", id, ErrStaleNode)
	}
	d.unlink(id)
	return nil
}

// Remove detaches the node and destroys it with all its descendants. Handles
// to destroyed nodes become stale.
func (d *Document) Remove(id NodeID) error {
	if !d.Valid(id) || id == d.Root() {
		return mutationErr("remove", id, ErrStaleNode)
	}
	d.unlink(id)
	d.destroy(id)
	return nil
}

func (d *Document) destroy(id NodeID) {
	for c := d.nodes[id].firstChild; c != None; {
		next := d.nodes[c].nextSibling
		d.destroy(c)
		c = next
	}
	e := &d.nodes[id]
	*e = entry{removed: true}
}

// SetAttr sets an attribute with no namespace, replacing an existing value.
func (d *Document) SetAttr(id NodeID, key, val string) error {
	return d.SetAttrNS(id, "", key, val)
}

// SetAttrNS sets a namespaced attribute, replacing an existing value.
func (d *Document) SetAttrNS(id NodeID, namespace, key, val string) error {
	e := d.get(id)
	if e == nil {
		return mutationErr("set attribute", id, ErrStaleNode)
	}
	if e.Kind != ElementNode {
		return mutationErr("set attribute", id, ErrWrongKind)
	}
	if !validName(key) {
		return mutationErr("set attribute", id, fmt.Errorf("%w: %q", ErrInvalidAttrName, key))
	}
	if i := indexAttr(e.Attr, namespace, key); i != -1 {
		e.Attr[i].Val = val
		return nil
	}
	e.Attr = append(e.Attr, Attribute{Namespace: namespace, Key: key, Val: val})
	return nil
}

// RemoveAttr removes an attribute with no namespace. It reports whether the
// attribute was present.
func (d *Document) RemoveAttr(id NodeID, key string) (bool, error) {
	e := d.get(id)
	if e == nil {
		return false, mutationErr("remove attribute", id, ErrStaleNode)
	}
	i := indexAttr(e.Attr, "", key)
	if i == -1 {
		return false, nil
	}
	e.Attr = slices.Delete(e.Attr, i, i+1)
	return true, nil
}

// MergeAttrs adds every attribute of attrs that the element does not have yet.
// Existing values are kept.
func (d *Document) MergeAttrs(id NodeID, attrs []Attribute) error {
	e := d.get(id)
	if e == nil {
		return mutationErr("merge attributes", id, ErrStaleNode)
	}
	if e.Kind != ElementNode {
		return mutationErr("merge attributes", id, ErrWrongKind)
	}
	for _, a := range attrs {
		if !validName(a.Key) {
			return mutationErr("merge attributes", id, fmt.Errorf("%w: %q", ErrInvalidAttrName, a.Key))
		}
	}
	for _, a := range attrs {
		if indexAttr(e.Attr, a.Namespace, a.Key) == -1 {
			e.Attr = append(e.Attr, a)
		}
	}
	return nil
}

// SetData replaces the content of a text, comment or doctype node.
func (d *Document) SetData(id NodeID, s string) error {
	e := d.get(id)
	if e == nil {
		return mutationErr("set data", id, ErrStaleNode)
	}
	switch e.Kind {
	case TextNode, CommentNode, DoctypeNode:
		e.Data = s
		return nil
	}
	return mutationErr("set data", id, ErrWrongKind)
}

// AppendData appends s to the content of a text or comment node.
func (d *Document) AppendData(id NodeID, s string) error {
	e := d.get(id)
	if e == nil {
		return mutationErr("append data", id, ErrStaleNode)
	}
	if e.Kind != TextNode && e.Kind != CommentNode {
		return mutationErr("append data", id, ErrWrongKind)
	}
	e.Data += s
	return nil
}

// Normalize merges adjacent text nodes and removes empty text nodes in the
// subtree rooted at id.
func (d *Document) Normalize(id NodeID) error {
	if !d.Valid(id) {
		return mutationErr("normalize", id, ErrStaleNode)
	}
	for c := d.nodes[id].firstChild; c != None; {
		next := d.nodes[c].nextSibling
		switch d.nodes[c].Kind {
		case TextNode:
			for next != None && d.nodes[next].Kind == TextNode {
				d.nodes[c].Data += d.nodes[next].Data
				after := d.nodes[next].nextSibling
				d.unlink(next)
				d.destroy(next)
				next = after
			}
			if d.nodes[c].Data == "" {
				d.unlink(c)
				d.destroy(c)
			}
		case ElementNode:
			if err := d.Normalize(c); err != nil {
				return err
			}
		}
		c = next
	}
	return nil
}

func (d *Document) checkInsert(op string, parent, child NodeID) error {
	if !d.Valid(parent) {
		return mutationErr(op, parent, ErrStaleNode)
	}
	if !d.Valid(child) {
		return mutationErr(op, child, ErrStaleNode)
	}
	p, c := &d.nodes[parent], &d.nodes[child]
	switch {
	case c.Kind == DocumentNode:
		return mutationErr(op, child, ErrHierarchy)
	case p.Kind != ElementNode && p.Kind != DocumentNode:
		return mutationErr(op, parent, ErrHierarchy)
	case p.Kind == DocumentNode && c.Kind == TextNode:
		return mutationErr(op, child, ErrHierarchy)
	case p.Kind == DocumentNode && c.Kind == ElementNode:
		if root := d.DocumentElement(); root != None && root != child {
			return mutationErr(op, child, ErrHierarchy)
		}
	}
	// A childless node cannot contain parent, so the ancestor walk is only
	// needed for subtrees.
	if child == parent || (c.firstChild != None && d.IsAncestor(child, parent)) {
		return mutationErr(op, child, ErrCycle)
	}
	return nil
}

// link inserts a detached child before ref (or at the end when ref is None).
func (d *Document) link(parent, child, ref NodeID) {
	p, c := &d.nodes[parent], &d.nodes[child]
	var prev NodeID
	if ref != None {
		prev = d.nodes[ref].prevSibling
	} else {
		prev = p.lastChild
	}
	if prev != None {
		d.nodes[prev].nextSibling = child
	} else {
		p.firstChild = child
	}
	if ref != None {
		d.nodes[ref].prevSibling = child
	} else {
		p.lastChild = child
	}
	c.parent = parent
	c.prevSibling = prev
	c.nextSibling = ref
}

func (d *Document) unlink(id NodeID) {
	c := &d.nodes[id]
	if c.parent == None {
		return
	}
	p := &d.nodes[c.parent]
	if p.firstChild == id {
		p.firstChild = c.nextSibling
	}
	if c.nextSibling != None {
		d.nodes[c.nextSibling].prevSibling = c.prevSibling
	}
	if p.lastChild == id {
		p.lastChild = c.prevSibling
	}
	if c.prevSibling != None {
		d.nodes[c.prevSibling].nextSibling = c.nextSibling
	}
	c.parent = None
	c.prevSibling = None
	c.nextSibling = None
}

func indexAttr(attrs []Attribute, namespace, key string) int {
	for i, a := range attrs {
		if a.Namespace == namespace && a.Key == key {
			return i
		}
	}
	return -1
}

// validName rejects names that could not survive serialization: empty names
// and names containing whitespace, quotes, '/', '=', '<', '>' or NUL.
func validName(s string) bool {
	if s == "" {
		return false
	}
	return !strings.ContainsAny(s, " \t\n\f\r\"'/=<>\x00")
}
