package render

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/beevik/etree"
	"github.com/dpotapov/go-htmlast/dom"
)

// xmlScope tracks the namespace declarations in effect for an element.
type xmlScope struct {
	defaultNS string
	xlink     bool
}

func renderXML(w io.Writer, d *dom.Document, id dom.NodeID, o *Options) error {
	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalText = true
	doc.WriteSettings.CanonicalAttrVal = true
	if o.XMLDeclaration {
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	}

	var err error
	if d.Kind(id) == dom.DocumentNode {
		for c := d.FirstChild(id); c != dom.None && err == nil; c = d.NextSibling(c) {
			err = buildXML(&doc.Element, d, c, xmlScope{})
		}
	} else {
		err = buildXML(&doc.Element, d, id, xmlScope{})
	}
	if err != nil {
		return err
	}
	_, err = doc.WriteTo(w)
	return err
}

func buildXML(parent *etree.Element, d *dom.Document, id dom.NodeID, scope xmlScope) error {
	switch d.Kind(id) {
	case dom.DoctypeNode:
		s := "DOCTYPE " + d.Data(id)
		if p, sys := d.DoctypeIDs(id); p != "" {
			s += fmt.Sprintf(` PUBLIC "%s" "%s"`, p, sys)
		} else if sys != "" {
			s += fmt.Sprintf(` SYSTEM "%s"`, sys)
		}
		parent.CreateDirective(s)
		return nil
	case dom.CommentNode:
		s := d.Data(id)
		if strings.Contains(s, "--") || strings.HasSuffix(s, "-") {
			return fmt.Errorf("%w: comment %q contains \"--\" or ends with \"-\"", ErrNotWellFormed, s)
		}
		if err := checkChars(s); err != nil {
			return err
		}
		parent.CreateComment(s)
		return nil
	case dom.TextNode:
		s := d.Data(id)
		if err := checkChars(s); err != nil {
			return err
		}
		parent.CreateText(s)
		return nil
	case dom.ElementNode:
	default:
		return fmt.Errorf("render: unknown node kind %s", d.Kind(id))
	}

	name := d.Data(id)
	if !isXMLName(name) {
		return fmt.Errorf("%w: element name %q", ErrNotWellFormed, name)
	}
	el := parent.CreateElement(name)
	if uri := d.Namespace(id).URI(); uri != scope.defaultNS {
		el.CreateAttr("xmlns", uri)
		scope.defaultNS = uri
	}
	attrs := d.Attrs(id)
	for _, a := range attrs {
		if a.Namespace == "xlink" && !scope.xlink {
			el.CreateAttr("xmlns:xlink", dom.XLinkNamespaceURI)
			scope.xlink = true
			break
		}
	}
	for _, a := range attrs {
		// Namespace declarations are generated above.
		if a.Namespace == "xmlns" || (a.Namespace == "" && a.Key == "xmlns") {
			continue
		}
		key := a.Key
		if a.Namespace == "" {
			// The xml prefix is bound without a declaration.
			key = strings.TrimPrefix(key, "xml:")
		}
		if !isXMLName(key) {
			return fmt.Errorf("%w: attribute name %q on <%s>", ErrNotWellFormed, a.Key, name)
		}
		if err := checkChars(a.Val); err != nil {
			return err
		}
		el.CreateAttr(a.QualifiedName(), a.Val)
	}
	for c := d.FirstChild(id); c != dom.None; c = d.NextSibling(c) {
		if err := buildXML(el, d, c, scope); err != nil {
			return err
		}
	}
	return nil
}

// isXMLName reports whether s is an XML name without a namespace prefix.
func isXMLName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case unicode.IsLetter(r) || r == '_':
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.' || unicode.Is(unicode.Mn, r)):
		default:
			return false
		}
	}
	return true
}

// checkChars rejects characters outside the XML Char production.
func checkChars(s string) error {
	for _, r := range s {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
		case r >= 0x20 && r <= 0xD7FF:
		case r >= 0xE000 && r <= 0xFFFD:
		case r >= 0x10000 && r <= unicode.MaxRune:
		default:
			return fmt.Errorf("%w: character %U", ErrNotWellFormed, r)
		}
	}
	return nil
}
