package dom

import (
	"errors"
	"fmt"
)

var (
	ErrStaleNode       = errors.New("stale or unknown node handle")
	ErrCycle           = errors.New("node would become its own ancestor")
	ErrHierarchy       = errors.New("node cannot be inserted here")
	ErrNotChild        = errors.New("reference node is not a child of the parent")
	ErrIndexOutOfRange = errors.New("child index out of range")
	ErrWrongKind       = errors.New("operation not supported by this node kind")
	ErrInvalidAttrName = errors.New("invalid attribute name")
	ErrInvalidTagName  = errors.New("invalid tag name")
)

// MutationError is returned by Document mutation methods.
type MutationError struct {
	Op   string
	Node NodeID
	Err  error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("dom: %s node %d: %v", e.Op, e.Node, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

func mutationErr(op string, id NodeID, err error) error {
	return &MutationError{Op: op, Node: id, Err: err}
}
