// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// Modifications:
// Copyright 2024 Daniel Potapov
//  - Stacks hold dom.NodeID handles instead of node pointers.

package html

import (
	"github.com/dpotapov/go-htmlast/dom"
	"golang.org/x/net/html/atom"
)

// Section 12.2.4.3 says "The markers are inserted when entering applet,
// object, marquee, template, td, th, and caption elements, and are used
// to prevent formatting from "leaking" into applet, object, marquee,
// template, td, th, and caption elements".
const scopeMarker dom.NodeID = -1

// nodeStack is a stack of nodes.
type nodeStack []dom.NodeID

// pop pops the stack. It will panic if s is empty.
func (s *nodeStack) pop() dom.NodeID {
	i := len(*s)
	n := (*s)[i-1]
	*s = (*s)[:i-1]
	return n
}

// top returns the most recently pushed node, or None if s is empty.
func (s *nodeStack) top() dom.NodeID {
	if i := len(*s); i > 0 {
		return (*s)[i-1]
	}
	return dom.None
}

// index returns the index of the top-most occurrence of n in the stack, or -1
// if n is not present.
func (s *nodeStack) index(n dom.NodeID) int {
	for i := len(*s) - 1; i >= 0; i-- {
		if (*s)[i] == n {
			return i
		}
	}
	return -1
}

// insert inserts a node at the given index.
func (s *nodeStack) insert(i int, n dom.NodeID) {
	(*s) = append(*s, dom.None)
	copy((*s)[i+1:], (*s)[i:])
	(*s)[i] = n
}

// remove removes a node from the stack. It is a no-op if n is not present.
func (s *nodeStack) remove(n dom.NodeID) {
	i := s.index(n)
	if i == -1 {
		return
	}
	copy((*s)[i:], (*s)[i+1:])
	*s = (*s)[:len(*s)-1]
}

// insertionModeStack is the stack of template insertion modes.
type insertionModeStack []InsertionMode

func (s *insertionModeStack) pop() (im InsertionMode) {
	i := len(*s)
	im = (*s)[i-1]
	*s = (*s)[:i-1]
	return im
}

func (s *insertionModeStack) top() (InsertionMode, bool) {
	if i := len(*s); i > 0 {
		return (*s)[i-1], true
	}
	return InitialMode, false
}

// contains returns whether an HTML element with the atom a is within s.
func (p *parser) stackContains(s nodeStack, a atom.Atom) bool {
	for _, n := range s {
		if n != scopeMarker && p.isHTML(n, a) {
			return true
		}
	}
	return false
}
