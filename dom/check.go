package dom

import (
	"errors"
	"fmt"
)

// Check verifies the structural invariants of the tree reachable from the
// document node: links are consistent, every node has one parent, there are
// no cycles, no two text siblings are adjacent and the document holds
// exactly one element child.
func (d *Document) Check() error {
	seen := make(map[NodeID]bool)
	if err := d.checkNode(d.Root(), seen, 0); err != nil {
		return err
	}
	elements := 0
	for c := range d.Children(d.Root()) {
		switch d.nodes[c].Kind {
		case ElementNode:
			elements++
		case TextNode:
			return fmt.Errorf("text node %d is a child of the document", c)
		}
	}
	if elements != 1 {
		return fmt.Errorf("document has %d element children, want 1", elements)
	}
	return nil
}

func (d *Document) checkNode(id NodeID, seen map[NodeID]bool, depth int) error {
	if depth > len(d.nodes) {
		return errors.New("tree is too deep, probably a cycle")
	}
	if seen[id] {
		return fmt.Errorf("node %d is reachable twice", id)
	}
	seen[id] = true
	e := &d.nodes[id]
	if e.removed {
		return fmt.Errorf("node %d is linked but removed", id)
	}
	if e.firstChild != None && d.nodes[e.firstChild].prevSibling != None {
		return fmt.Errorf("first child of node %d has a previous sibling", id)
	}
	if e.lastChild != None && d.nodes[e.lastChild].nextSibling != None {
		return fmt.Errorf("last child of node %d has a next sibling", id)
	}
	if (e.firstChild == None) != (e.lastChild == None) {
		return fmt.Errorf("node %d has inconsistent first and last child", id)
	}
	var prev NodeID
	for c := e.firstChild; c != None; c = d.nodes[c].nextSibling {
		ce := &d.nodes[c]
		if ce.parent != id {
			return fmt.Errorf("node %d has parent %d, want %d", c, ce.parent, id)
		}
		if ce.prevSibling != prev {
			return fmt.Errorf("node %d has previous sibling %d, want %d", c, ce.prevSibling, prev)
		}
		if prev != None && ce.Kind == TextNode && d.nodes[prev].Kind == TextNode {
			return fmt.Errorf("adjacent text nodes %d and %d", prev, c)
		}
		if err := d.checkNode(c, seen, depth+1); err != nil {
			return err
		}
		prev = c
	}
	if prev != e.lastChild {
		return fmt.Errorf("node %d has last child %d, want %d", id, e.lastChild, prev)
	}
	return nil
}
