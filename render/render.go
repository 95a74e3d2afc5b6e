// Package render serializes dom.Document trees as HTML or XML.
package render

import (
	"errors"
	"io"
	"strings"

	"github.com/dpotapov/go-htmlast/dom"
)

// Flavor selects the serialization rules.
type Flavor uint8

const (
	// HTML follows the HTML fragment serialization algorithm.
	HTML Flavor = iota
	// XML produces well-formed XML.
	XML
)

func (f Flavor) String() string {
	if f == XML {
		return "xml"
	}
	return "html"
}

// Quoting selects how HTML attribute values are quoted.
type Quoting uint8

const (
	// DoubleQuotes always uses double quotes.
	DoubleQuotes Quoting = iota
	// CompatQuotes uses single quotes for values containing a double quote
	// but no single quote, which avoids escaping them.
	CompatQuotes
)

// VoidStyle selects how HTML void elements are written.
type VoidStyle uint8

const (
	// HTMLVoid writes <br>.
	HTMLVoid VoidStyle = iota
	// SelfCloseVoid writes <br/>.
	SelfCloseVoid
)

// Options configure Render. The zero value renders HTML with double quoted
// attributes.
type Options struct {
	Flavor    Flavor
	Quoting   Quoting
	VoidStyle VoidStyle
	// XMLDeclaration prepends <?xml version="1.0" encoding="UTF-8"?> to XML
	// output.
	XMLDeclaration bool
	// Indent, when not empty, puts block level HTML content on separate
	// lines indented by Indent per level. Whitespace-only text between
	// block elements is dropped. Reparsing and rendering the result again
	// gives the same output. It has no effect on XML.
	Indent string
	// DisableScripting escapes the content of noscript elements. Set it for
	// trees parsed with scripting disabled, where noscript holds markup.
	DisableScripting bool
}

// ErrNotWellFormed is returned when a tree cannot be written as
// well-formed XML, for example a comment containing "--".
var ErrNotWellFormed = errors.New("not well-formed XML")

// Render writes the subtree rooted at id to w. Rendering the document node
// writes all of its children. Rendering an unmutated tree twice produces the
// same output.
func Render(w io.Writer, d *dom.Document, id dom.NodeID, opts Options) error {
	if !d.Valid(id) {
		return &dom.MutationError{Op: "render", Node: id, Err: dom.ErrStaleNode}
	}
	if opts.Flavor == XML {
		return renderXML(w, d, id, &opts)
	}
	return renderHTML(w, d, id, &opts)
}

// String is like Render but returns the output as a string.
func String(d *dom.Document, id dom.NodeID, opts Options) (string, error) {
	var sb strings.Builder
	if err := Render(&sb, d, id, opts); err != nil {
		return "", err
	}
	return sb.String(), nil
}
