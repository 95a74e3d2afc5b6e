package dom

import (
	"fmt"

	"golang.org/x/net/html/atom"
)

// NodeID is a stable handle of a node within its Document. Handles stay valid
// when the node is moved around the tree and become stale once the node is
// removed. The zero value None never refers to a node.
type NodeID int32

// None is the handle that refers to no node.
const None NodeID = 0

// A Kind is the variant of a Node.
type Kind uint8

const (
	InvalidNode Kind = iota
	DocumentNode
	DoctypeNode
	ElementNode
	TextNode
	CommentNode
)

func (k Kind) String() string {
	switch k {
	case DocumentNode:
		return "document"
	case DoctypeNode:
		return "doctype"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	}
	return "invalid"
}

// Namespace is the namespace of an element. It is assigned when the element
// is created and never changes afterwards.
type Namespace uint8

const (
	HTML Namespace = iota
	MathML
	SVG
)

// Namespace URIs.
const (
	HTMLNamespaceURI   = "http://www.w3.org/1999/xhtml"
	MathMLNamespaceURI = "http://www.w3.org/1998/Math/MathML"
	SVGNamespaceURI    = "http://www.w3.org/2000/svg"
	XLinkNamespaceURI  = "http://www.w3.org/1999/xlink"
	XMLNamespaceURI    = "http://www.w3.org/XML/1998/namespace"
	XMLNSNamespaceURI  = "http://www.w3.org/2000/xmlns/"
)

// String returns the short name used in tree dumps: "" for HTML, "math" or "svg".
func (ns Namespace) String() string {
	switch ns {
	case MathML:
		return "math"
	case SVG:
		return "svg"
	}
	return ""
}

// URI returns the namespace URI.
func (ns Namespace) URI() string {
	switch ns {
	case MathML:
		return MathMLNamespaceURI
	case SVG:
		return SVGNamespaceURI
	}
	return HTMLNamespaceURI
}

// An Attribute is an attribute namespace-key-value triple. Namespace is
// non-empty for foreign attributes like xlink, Key is alphabetic (and hence
// does not contain escapable characters like '&', '<' or '>'), and Val is
// unescaped (it looks like "a<b" rather than "a&lt;b").
//
// Namespace is one of "", "xlink", "xml" or "xmlns".
type Attribute struct {
	Namespace, Key, Val string
}

// QualifiedName returns the attribute name with its namespace prefix.
func (a Attribute) QualifiedName() string {
	if a.Namespace == "" {
		return a.Key
	}
	return a.Namespace + ":" + a.Key
}

// Position is a location in the (newline normalized) source text.
type Position struct {
	Offset int // Byte offset, 0-based
	Line   int // 1-based line number
	Column int // 1-based column number (in runes, not bytes)
}

// IsZero returns true if the position is unset.
func (p Position) IsZero() bool {
	return p.Offset == 0 && p.Line == 0 && p.Column == 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node holds the data of a single node. It does not carry tree links; those
// are reachable only through the owning Document.
//
// Data is the tag name for elements, the content for text and comment nodes,
// and the name for doctypes. DataAtom is set for elements whose tag name is a
// known atom.
type Node struct {
	Kind      Kind
	DataAtom  atom.Atom
	Data      string
	Namespace Namespace
	Attr      []Attribute

	// PublicID and SystemID are only used by doctype nodes.
	PublicID, SystemID string

	Pos Position
}

// QuirksMode is the document compatibility mode.
type QuirksMode uint8

const (
	NoQuirks QuirksMode = iota
	LimitedQuirks
	Quirks
)

func (q QuirksMode) String() string {
	switch q {
	case LimitedQuirks:
		return "limited-quirks"
	case Quirks:
		return "quirks"
	}
	return "no-quirks"
}
