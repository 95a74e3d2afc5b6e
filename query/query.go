// Package query selects nodes with boolean expressions written in the
// expr language (github.com/expr-lang/expr).
//
// A selector is evaluated once per element, text and comment node against
// an Env describing that node:
//
//	tag == "a" && hasAttr(attrs, "href") && startsWith(attrs.href, "https://")
//	kind == "text" && depth > 3
//	"active" in classes
package query

import (
	"fmt"
	"strings"

	"github.com/dpotapov/go-htmlast/dom"
	"github.com/dpotapov/go-htmlast/visit"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Env is the environment a selector expression sees for a node.
type Env struct {
	// Kind is "element", "text" or "comment".
	Kind string `expr:"kind"`
	// Tag is the element name, empty for other nodes.
	Tag string `expr:"tag"`
	// NS is "svg" or "math" for foreign elements, empty otherwise.
	NS    string            `expr:"ns"`
	Attrs map[string]string `expr:"attrs"`
	// Classes holds the whitespace separated tokens of the class attribute.
	Classes []string `expr:"classes"`
	// Text is the text content of an element, or the data of a text or
	// comment node.
	Text  string `expr:"text"`
	Depth int    `expr:"depth"`
	// Index is the position among the parent's children.
	Index int `expr:"index"`
}

// Selector is a compiled selector expression. It is safe for concurrent use.
type Selector struct {
	src  string
	prog *vm.Program
}

// Compile compiles a selector. The expression must evaluate to a bool.
func Compile(src string) (*Selector, error) {
	prog, err := expr.Compile(src,
		expr.Env(Env{}),
		expr.AsBool(),
		expr.Function("hasAttr", hasAttr, new(func(map[string]string, string) bool)),
	)
	if err != nil {
		return nil, fmt.Errorf("compile selector %q: %w", src, err)
	}
	return &Selector{src: src, prog: prog}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string) *Selector {
	s, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return s
}

func hasAttr(params ...any) (any, error) {
	attrs, _ := params[0].(map[string]string)
	_, ok := attrs[params[1].(string)]
	return ok, nil
}

func (s *Selector) String() string {
	return s.src
}

// Match reports whether the node satisfies the selector. Document and
// doctype nodes never match.
func (s *Selector) Match(d *dom.Document, id dom.NodeID) (bool, error) {
	var m vm.VM
	return s.match(&m, d, id)
}

func (s *Selector) match(m *vm.VM, d *dom.Document, id dom.NodeID) (bool, error) {
	env, ok := NewEnv(d, id)
	if !ok {
		return false, nil
	}
	out, err := m.Run(s.prog, env)
	if err != nil {
		return false, fmt.Errorf("selector %q on <%s>: %w", s.src, d.Data(id), err)
	}
	return out.(bool), nil
}

// Select returns the matching nodes of the subtree at root, root included,
// in document order.
func (s *Selector) Select(d *dom.Document, root dom.NodeID) ([]dom.NodeID, error) {
	var (
		m     vm.VM
		found []dom.NodeID
	)
	for n := range visit.Preorder(d, root) {
		ok, err := s.match(&m, d, n)
		if err != nil {
			return found, err
		}
		if ok {
			found = append(found, n)
		}
	}
	return found, nil
}

// First returns the first matching node in document order, or dom.None.
func (s *Selector) First(d *dom.Document, root dom.NodeID) (dom.NodeID, error) {
	var m vm.VM
	for n := range visit.Preorder(d, root) {
		ok, err := s.match(&m, d, n)
		if err != nil {
			return dom.None, err
		}
		if ok {
			return n, nil
		}
	}
	return dom.None, nil
}

// NewEnv builds the environment for a node. It returns false for nodes a
// selector cannot match.
func NewEnv(d *dom.Document, id dom.NodeID) (Env, bool) {
	var env Env
	switch d.Kind(id) {
	case dom.ElementNode:
		env.Kind = "element"
		env.Tag = d.Data(id)
		env.NS = d.Namespace(id).String()
		attrs := d.Attrs(id)
		env.Attrs = make(map[string]string, len(attrs))
		for _, a := range attrs {
			env.Attrs[a.QualifiedName()] = a.Val
		}
		env.Classes = strings.Fields(env.Attrs["class"])
		env.Text = d.Text(id)
	case dom.TextNode:
		env.Kind = "text"
		env.Text = d.Data(id)
	case dom.CommentNode:
		env.Kind = "comment"
		env.Text = d.Data(id)
	default:
		return env, false
	}
	for p := d.Parent(id); p != dom.None && d.Kind(p) != dom.DocumentNode; p = d.Parent(p) {
		env.Depth++
	}
	for s := d.PrevSibling(id); s != dom.None; s = d.PrevSibling(s) {
		env.Index++
	}
	return env, true
}
