// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// Modifications:
// Copyright 2024 Daniel Potapov
//  - Walks dom.Document handles.
//  - Attribute quoting and void element style are configurable.
//  - Optional indentation of block level content.
//  - noscript content is escaped when scripting is disabled.

package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dpotapov/go-htmlast/dom"
	"golang.org/x/net/html/atom"
)

type writer interface {
	io.Writer
	io.ByteWriter
	WriteString(string) (int, error)
}

func renderHTML(w io.Writer, d *dom.Document, id dom.NodeID, o *Options) error {
	if x, ok := w.(writer); ok {
		return renderTop(x, d, id, o)
	}
	buf := bufio.NewWriter(w)
	if err := renderTop(buf, d, id, o); err != nil {
		return err
	}
	return buf.Flush()
}

func renderTop(w writer, d *dom.Document, id dom.NodeID, o *Options) error {
	if o.Indent == "" {
		return render1(w, d, id, o)
	}
	return renderIndented(w, d, id, o, 0)
}

func render1(w writer, d *dom.Document, id dom.NodeID, o *Options) error {
	// Render non-element nodes; these are the easy cases.
	switch d.Kind(id) {
	case dom.DocumentNode:
		for c := d.FirstChild(id); c != dom.None; c = d.NextSibling(c) {
			if err := render1(w, d, c, o); err != nil {
				return err
			}
		}
		return nil
	case dom.TextNode:
		if p := d.Parent(id); p != dom.None && isRawText(d, p, o) {
			_, err := w.WriteString(d.Data(id))
			return err
		}
		return escape(w, d.Data(id), textEscaper)
	case dom.CommentNode:
		if _, err := w.WriteString("<!--"); err != nil {
			return err
		}
		if _, err := w.WriteString(d.Data(id)); err != nil {
			return err
		}
		_, err := w.WriteString("-->")
		return err
	case dom.DoctypeNode:
		return writeDoctype(w, d, id)
	case dom.ElementNode:
		// No-op.
	default:
		return fmt.Errorf("render: unknown node kind %s", d.Kind(id))
	}

	// Render the <xxx> opening tag.
	name := d.Data(id)
	if err := writeOpenTag(w, d, id, o); err != nil {
		return err
	}

	first := d.FirstChild(id)
	html := d.Namespace(id) == dom.HTML
	if html && dom.IsVoidAtom(d.Atom(id)) {
		if first != dom.None {
			return fmt.Errorf("render: void element <%s> has child nodes", name)
		}
		if o.VoidStyle == SelfCloseVoid {
			_, err := w.WriteString("/>")
			return err
		}
		return w.WriteByte('>')
	}
	if !html && first == dom.None {
		_, err := w.WriteString("/>")
		return err
	}
	if err := w.WriteByte('>'); err != nil {
		return err
	}

	// Add initial newline where there is danger of a newline being ignored.
	if html && d.Kind(first) == dom.TextNode && strings.HasPrefix(d.Data(first), "\n") {
		switch d.Atom(id) {
		case atom.Pre, atom.Listing, atom.Textarea:
			if err := w.WriteByte('\n'); err != nil {
				return err
			}
		}
	}

	// Render any child nodes.
	for c := first; c != dom.None; c = d.NextSibling(c) {
		if err := render1(w, d, c, o); err != nil {
			return err
		}
	}

	// Render the </xxx> closing tag.
	return writeCloseTag(w, name)
}

// writeOpenTag writes the start tag of an element without the final '>'.
func writeOpenTag(w writer, d *dom.Document, id dom.NodeID, o *Options) error {
	if err := w.WriteByte('<'); err != nil {
		return err
	}
	if _, err := w.WriteString(d.Data(id)); err != nil {
		return err
	}
	for _, a := range d.Attrs(id) {
		if err := writeAttr(w, a, o.Quoting); err != nil {
			return err
		}
	}
	return nil
}

func writeCloseTag(w writer, name string) error {
	if _, err := w.WriteString("</"); err != nil {
		return err
	}
	if _, err := w.WriteString(name); err != nil {
		return err
	}
	return w.WriteByte('>')
}

// renderIndented is render1 with every child of a block container on its
// own line, indented by o.Indent per level. The children of html, head and
// body stay at the level of their parent.
func renderIndented(w writer, d *dom.Document, id dom.NodeID, o *Options, depth int) error {
	if d.Kind(id) == dom.DocumentNode {
		nl := false
		for c := d.FirstChild(id); c != dom.None; c = d.NextSibling(c) {
			if isBlank(d, c) {
				continue
			}
			if nl {
				if err := w.WriteByte('\n'); err != nil {
					return err
				}
			}
			if err := renderIndented(w, d, c, o, 0); err != nil {
				return err
			}
			// Whitespace after the root element is parsed into body.
			nl = d.Kind(c) != dom.ElementNode
		}
		return nil
	}
	if !isBlockContainer(d, id, o) {
		return render1(w, d, id, o)
	}

	if err := writeOpenTag(w, d, id, o); err != nil {
		return err
	}
	if err := w.WriteByte('>'); err != nil {
		return err
	}
	inner := depth + 1
	switch d.Atom(id) {
	case atom.Html, atom.Head, atom.Body:
		inner = depth
	}
	for c := d.FirstChild(id); c != dom.None; c = d.NextSibling(c) {
		if isBlank(d, c) {
			continue
		}
		if err := writeNewline(w, o.Indent, inner); err != nil {
			return err
		}
		if err := renderIndented(w, d, c, o, inner); err != nil {
			return err
		}
	}
	if d.Atom(id) != atom.Html {
		if err := writeNewline(w, o.Indent, depth); err != nil {
			return err
		}
	}
	return writeCloseTag(w, d.Data(id))
}

// isBlockContainer reports whether the children of an HTML element can be
// laid out on separate lines: they are all block level elements or comments,
// apart from whitespace, and at least one is an element.
func isBlockContainer(d *dom.Document, id dom.NodeID, o *Options) bool {
	if d.Kind(id) != dom.ElementNode || d.Namespace(id) != dom.HTML || isRawText(d, id, o) {
		return false
	}
	a := d.Atom(id)
	switch a {
	case atom.Pre, atom.Listing, atom.Textarea, atom.Template:
		return false
	}
	if dom.IsInlineAtom(a) {
		return false
	}
	elements := false
	for c := range d.Children(id) {
		switch d.Kind(c) {
		case dom.ElementNode:
			// Everything in head is metadata.
			if d.Namespace(c) != dom.HTML || (a != atom.Head && dom.IsInlineAtom(d.Atom(c))) {
				return false
			}
			elements = true
		case dom.CommentNode:
		case dom.TextNode:
			if !isBlank(d, c) {
				return false
			}
		default:
			return false
		}
	}
	return elements
}

func isBlank(d *dom.Document, id dom.NodeID) bool {
	return d.Kind(id) == dom.TextNode && strings.Trim(d.Data(id), " \t\n\f\r") == ""
}

func writeNewline(w writer, indent string, depth int) error {
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	for range depth {
		if _, err := w.WriteString(indent); err != nil {
			return err
		}
	}
	return nil
}

// isRawText reports whether the text children of the element are written
// without escaping.
func isRawText(d *dom.Document, id dom.NodeID, o *Options) bool {
	if d.Namespace(id) != dom.HTML {
		return false
	}
	switch d.Atom(id) {
	case atom.Iframe, atom.Noembed, atom.Noframes, atom.Plaintext, atom.Script, atom.Style, atom.Xmp:
		return true
	case atom.Noscript:
		return !o.DisableScripting
	}
	return false
}

func writeDoctype(w writer, d *dom.Document, id dom.NodeID) error {
	if _, err := w.WriteString("<!DOCTYPE "); err != nil {
		return err
	}
	if _, err := w.WriteString(d.Data(id)); err != nil {
		return err
	}
	p, s := d.DoctypeIDs(id)
	if p != "" {
		if _, err := w.WriteString(" PUBLIC "); err != nil {
			return err
		}
		if err := writeQuoted(w, p); err != nil {
			return err
		}
		if s != "" {
			if err := w.WriteByte(' '); err != nil {
				return err
			}
			if err := writeQuoted(w, s); err != nil {
				return err
			}
		}
	} else if s != "" {
		if _, err := w.WriteString(" SYSTEM "); err != nil {
			return err
		}
		if err := writeQuoted(w, s); err != nil {
			return err
		}
	}
	return w.WriteByte('>')
}

func writeAttr(w writer, a dom.Attribute, q Quoting) error {
	if err := w.WriteByte(' '); err != nil {
		return err
	}
	if _, err := w.WriteString(a.QualifiedName()); err != nil {
		return err
	}
	if _, err := w.WriteString("="); err != nil {
		return err
	}
	quote, esc := byte('"'), attrEscaper
	if q == CompatQuotes && strings.Contains(a.Val, `"`) && !strings.Contains(a.Val, "'") {
		quote, esc = '\'', compatAttrEscaper
	}
	if err := w.WriteByte(quote); err != nil {
		return err
	}
	if err := escape(w, a.Val, esc); err != nil {
		return err
	}
	return w.WriteByte(quote)
}

// writeQuoted writes s quoted with double quotes, or single quotes if s
// contains a double quote.
func writeQuoted(w writer, s string) error {
	var q byte = '"'
	if strings.Contains(s, `"`) {
		q = '\''
	}
	if err := w.WriteByte(q); err != nil {
		return err
	}
	if _, err := w.WriteString(s); err != nil {
		return err
	}
	return w.WriteByte(q)
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
	// compatAttrEscaper is used inside single quotes for values that
	// contain no single quote.
	compatAttrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

func escape(w writer, s string, r *strings.Replacer) error {
	_, err := r.WriteString(w, s)
	return err
}
