package visit

import (
	"fmt"
	"slices"

	"github.com/dpotapov/go-htmlast/dom"
)

// A Rewriter decides what replaces an element. It returns the nodes to put
// in place of id, in order:
//
//   - []dom.NodeID{id} keeps the element,
//   - nil or an empty slice removes it together with its subtree,
//   - the element's own children unwrap it,
//   - new nodes created with the Document replace it.
//
// The rewriter may modify the element (attributes, children) before
// returning.
type Rewriter interface {
	RewriteElement(d *dom.Document, id dom.NodeID) ([]dom.NodeID, error)
}

// RewriterFunc adapts a function to the Rewriter interface.
type RewriterFunc func(d *dom.Document, id dom.NodeID) ([]dom.NodeID, error)

func (f RewriterFunc) RewriteElement(d *dom.Document, id dom.NodeID) ([]dom.NodeID, error) {
	return f(d, id)
}

// Rewrite applies r to every element of the subtree rooted at root, children
// before their parent. The elements are collected by a walk that completes
// before the first rewrite, so the tree is never changed while it is
// traversed. Elements that an earlier rewrite removed are skipped.
//
// The root itself can only be kept or modified in place unless it has a
// parent.
func Rewrite(d *dom.Document, root dom.NodeID, r Rewriter) error {
	var plan []dom.NodeID
	Walk(d, root, &planner{plan: &plan})

	for _, id := range plan {
		if !d.Valid(id) {
			continue
		}
		repl, err := r.RewriteElement(d, id)
		if err != nil {
			return fmt.Errorf("rewrite <%s>: %w", d.Data(id), err)
		}
		if len(repl) == 1 && repl[0] == id {
			continue
		}
		if err := replace(d, id, repl); err != nil {
			return fmt.Errorf("rewrite <%s>: %w", d.Data(id), err)
		}
	}
	return nil
}

type planner struct {
	BaseVisitor
	plan *[]dom.NodeID
}

func (p *planner) ExitElement(_ *dom.Document, id dom.NodeID) Action {
	*p.plan = append(*p.plan, id)
	return Continue
}

// replace puts repl in place of id. When id is itself part of repl it stays
// where it is and the other nodes are placed around it in order.
func replace(d *dom.Document, id dom.NodeID, repl []dom.NodeID) error {
	parent := d.Parent(id)
	if parent == dom.None {
		return &dom.MutationError{Op: "replace", Node: id, Err: dom.ErrHierarchy}
	}
	ref := id
	for _, n := range repl {
		if n == id {
			ref = d.NextSibling(id)
			continue
		}
		if n == ref {
			// Already in place.
			ref = d.NextSibling(n)
			continue
		}
		if err := d.InsertBefore(parent, n, ref); err != nil {
			return err
		}
	}
	if slices.Contains(repl, id) {
		return nil
	}
	return d.Remove(id)
}
