package dom

import (
	"strings"

	"golang.org/x/net/html/atom"
)

var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true, atom.Embed: true,
	atom.Hr: true, atom.Img: true, atom.Input: true, atom.Keygen: true, atom.Link: true,
	atom.Meta: true, atom.Param: true, atom.Source: true, atom.Track: true, atom.Wbr: true,
}

var inlineElements = map[atom.Atom]bool{
	atom.A: true, atom.Abbr: true, atom.Acronym: true, atom.Audio: true, atom.B: true,
	atom.Bdi: true, atom.Bdo: true, atom.Big: true, atom.Br: true, atom.Button: true,
	atom.Canvas: true, atom.Cite: true, atom.Code: true, atom.Data: true, atom.Dfn: true,
	atom.Em: true, atom.Embed: true, atom.I: true, atom.Iframe: true, atom.Img: true,
	atom.Input: true, atom.Kbd: true, atom.Label: true, atom.Map: true, atom.Mark: true,
	atom.Math: true, atom.Meter: true, atom.Noscript: true, atom.Object: true, atom.Output: true,
	atom.Picture: true, atom.Progress: true, atom.Q: true, atom.Rp: true, atom.Rt: true,
	atom.Ruby: true, atom.S: true, atom.Samp: true, atom.Script: true, atom.Select: true,
	atom.Slot: true, atom.Small: true, atom.Span: true, atom.Strong: true, atom.Sub: true,
	atom.Sup: true, atom.Svg: true, atom.Template: true, atom.Textarea: true, atom.Time: true,
	atom.Tt: true, atom.U: true, atom.Var: true, atom.Video: true, atom.Wbr: true,
}

func lookup(tag string) atom.Atom {
	return atom.Lookup([]byte(strings.ToLower(tag)))
}

// IsVoidElement reports whether the HTML element has no end tag and no content.
func IsVoidElement(tag string) bool {
	return voidElements[lookup(tag)]
}

// IsVoidAtom is IsVoidElement for an interned tag name.
func IsVoidAtom(a atom.Atom) bool {
	return voidElements[a]
}

// IsInlineElement reports whether the HTML element is phrasing content.
func IsInlineElement(tag string) bool {
	return inlineElements[lookup(tag)]
}

// IsInlineAtom is IsInlineElement for an interned tag name.
func IsInlineAtom(a atom.Atom) bool {
	return inlineElements[a]
}

// IsHeadingElement reports whether the tag is one of h1 to h6.
func IsHeadingElement(tag string) bool {
	switch lookup(tag) {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}
