// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// Modifications:
// Copyright 2024 Daniel Potapov
//  - Breakout and end tag handling follow the current tree construction
//    dispatcher, including the fragment case.
//  - Elements carry a dom.Namespace fixed at creation.

package html

import (
	"strings"

	"github.com/dpotapov/go-htmlast/dom"
	a "golang.org/x/net/html/atom"
)

func adjustAttributeNames(aa []dom.Attribute, nameMap map[string]string) {
	for i := range aa {
		if newName, ok := nameMap[aa[i].Key]; ok {
			aa[i].Key = newName
		}
	}
}

func adjustForeignAttributes(aa []dom.Attribute) {
	for i, x := range aa {
		if x.Key == "" || x.Key[0] != 'x' {
			continue
		}
		switch x.Key {
		case "xlink:actuate", "xlink:arcrole", "xlink:href", "xlink:role", "xlink:show",
			"xlink:title", "xlink:type", "xml:lang", "xml:space", "xmlns:xlink":
			j := strings.Index(x.Key, ":")
			aa[i].Namespace = x.Key[:j]
			aa[i].Key = x.Key[j+1:]
		}
	}
}

func (p *parser) htmlIntegrationPoint(n dom.NodeID) bool {
	if p.doc.Kind(n) != dom.ElementNode {
		return false
	}
	switch p.doc.Namespace(n) {
	case dom.MathML:
		if p.doc.Data(n) == "annotation-xml" {
			for _, attr := range p.doc.Attrs(n) {
				if attr.Key == "encoding" {
					val := strings.ToLower(attr.Val)
					if val == "text/html" || val == "application/xhtml+xml" {
						return true
					}
				}
			}
		}
	case dom.SVG:
		switch p.doc.Data(n) {
		case "desc", "foreignObject", "title":
			return true
		}
	}
	return false
}

func (p *parser) mathMLTextIntegrationPoint(n dom.NodeID) bool {
	if p.doc.Namespace(n) != dom.MathML {
		return false
	}
	switch p.doc.Data(n) {
	case "mi", "mo", "mn", "ms", "mtext":
		return true
	}
	return false
}

// adjustedCurrentNode is the context element when parsing a fragment with
// only the root on the stack, and the current node otherwise.
func (p *parser) adjustedCurrentNode() dom.NodeID {
	if len(p.oe) == 1 && p.context != dom.None {
		return p.context
	}
	return p.oe.top()
}

// inForeignContent reports whether the current token is processed with the
// rules for foreign content. Section 12.2.6, "tree construction dispatcher".
func (p *parser) inForeignContent() bool {
	if len(p.oe) == 0 {
		return false
	}
	n := p.adjustedCurrentNode()
	if p.doc.Namespace(n) == dom.HTML {
		return false
	}
	if p.mathMLTextIntegrationPoint(n) {
		if p.tok.Type == StartTagToken && p.tok.Data != "mglyph" && p.tok.Data != "malignmark" {
			return false
		}
		if p.tok.Type == CharacterToken {
			return false
		}
	}
	if p.doc.Namespace(n) == dom.MathML && p.doc.Data(n) == "annotation-xml" &&
		p.tok.Type == StartTagToken && p.tok.DataAtom == a.Svg {
		return false
	}
	if p.htmlIntegrationPoint(n) && (p.tok.Type == StartTagToken || p.tok.Type == CharacterToken) {
		return false
	}
	if p.tok.Type == EOFToken {
		return false
	}
	return true
}

// breakOut pops foreign elements off the stack until an HTML element or an
// integration point is the current node. Section 12.2.6.5.
func (p *parser) breakOut() {
	p.unexpected()
	for len(p.oe) > 1 {
		n := p.oe.top()
		if p.doc.Namespace(n) == dom.HTML || p.htmlIntegrationPoint(n) || p.mathMLTextIntegrationPoint(n) {
			break
		}
		p.oe.pop()
	}
}

// Section 12.2.6.5.
func parseForeignContent(p *parser) bool {
	switch p.tok.Type {
	case CharacterToken:
		if p.framesetOK {
			p.framesetOK = strings.TrimLeft(p.tok.Data, whitespace+"\x00") == ""
		}
		p.tok.Data = strings.ReplaceAll(p.tok.Data, "\x00", "\uFFFD")
		p.addText(p.tok.Data)
	case CommentToken:
		p.addComment()
	case DoctypeToken:
		p.unexpected()
	case StartTagToken:
		b := breakout[p.tok.Data]
		if p.tok.DataAtom == a.Font {
		loop:
			for _, attr := range p.tok.Attr {
				switch attr.Key {
				case "color", "face", "size":
					b = true
					break loop
				}
			}
		}
		if b {
			p.breakOut()
			return p.dispatch(p.im)
		}
		current := p.adjustedCurrentNode()
		ns := p.doc.Namespace(current)
		switch ns {
		case dom.MathML:
			adjustAttributeNames(p.tok.Attr, mathMLAttributeAdjustments)
		case dom.SVG:
			// Adjust SVG tag names. The tokenizer lower-cases tag names, but
			// SVG wants e.g. "foreignObject" with a capital second "O".
			if x := svgTagNameAdjustments[p.tok.Data]; x != "" {
				p.tok.DataAtom = a.Lookup([]byte(x))
				p.tok.Data = x
			}
			adjustAttributeNames(p.tok.Attr, svgAttributeAdjustments)
		default:
			p.fail("foreign content with %s namespace", ns)
		}
		adjustForeignAttributes(p.tok.Attr)
		p.addForeignElement(ns)
		if p.hasSelfClosingToken {
			p.oe.pop()
			p.acknowledgeSelfClosingTag()
		}
	case EndTagToken:
		if p.tok.DataAtom == a.Br || p.tok.DataAtom == a.P {
			p.breakOut()
			return p.dispatch(p.im)
		}
		if !strings.EqualFold(p.doc.Data(p.oe.top()), p.tok.Data) {
			p.unexpected()
		}
		for i := len(p.oe) - 1; i > 0; i-- {
			if strings.EqualFold(p.doc.Data(p.oe[i]), p.tok.Data) {
				p.oe = p.oe[:i]
				return true
			}
			if p.doc.Namespace(p.oe[i-1]) == dom.HTML {
				return p.dispatch(p.im)
			}
		}
		// The topmost element is never popped by a foreign end tag.
		return true
	}
	return true
}

// Section 12.2.6.5.
var breakout = map[string]bool{
	"b":          true,
	"big":        true,
	"blockquote": true,
	"body":       true,
	"br":         true,
	"center":     true,
	"code":       true,
	"dd":         true,
	"div":        true,
	"dl":         true,
	"dt":         true,
	"em":         true,
	"embed":      true,
	"h1":         true,
	"h2":         true,
	"h3":         true,
	"h4":         true,
	"h5":         true,
	"h6":         true,
	"head":       true,
	"hr":         true,
	"i":          true,
	"img":        true,
	"li":         true,
	"listing":    true,
	"menu":       true,
	"meta":       true,
	"nobr":       true,
	"ol":         true,
	"p":          true,
	"pre":        true,
	"ruby":       true,
	"s":          true,
	"small":      true,
	"span":       true,
	"strong":     true,
	"strike":     true,
	"sub":        true,
	"sup":        true,
	"table":      true,
	"tt":         true,
	"u":          true,
	"ul":         true,
	"var":        true,
}

// Section 12.2.6.5.
var svgTagNameAdjustments = map[string]string{
	"altglyph":            "altGlyph",
	"altglyphdef":         "altGlyphDef",
	"altglyphitem":        "altGlyphItem",
	"animatecolor":        "animateColor",
	"animatemotion":       "animateMotion",
	"animatetransform":    "animateTransform",
	"clippath":            "clipPath",
	"feblend":             "feBlend",
	"fecolormatrix":       "feColorMatrix",
	"fecomponenttransfer": "feComponentTransfer",
	"fecomposite":         "feComposite",
	"feconvolvematrix":    "feConvolveMatrix",
	"fediffuselighting":   "feDiffuseLighting",
	"fedisplacementmap":   "feDisplacementMap",
	"fedistantlight":      "feDistantLight",
	"fedropshadow":        "feDropShadow",
	"feflood":             "feFlood",
	"fefunca":             "feFuncA",
	"fefuncb":             "feFuncB",
	"fefuncg":             "feFuncG",
	"fefuncr":             "feFuncR",
	"fegaussianblur":      "feGaussianBlur",
	"feimage":             "feImage",
	"femerge":             "feMerge",
	"femergenode":         "feMergeNode",
	"femorphology":        "feMorphology",
	"feoffset":            "feOffset",
	"fepointlight":        "fePointLight",
	"fespecularlighting":  "feSpecularLighting",
	"fespotlight":         "feSpotLight",
	"fetile":              "feTile",
	"feturbulence":        "feTurbulence",
	"foreignobject":       "foreignObject",
	"glyphref":            "glyphRef",
	"lineargradient":      "linearGradient",
	"radialgradient":      "radialGradient",
	"textpath":            "textPath",
}

// Section 12.2.6.1
var mathMLAttributeAdjustments = map[string]string{
	"definitionurl": "definitionURL",
}

var svgAttributeAdjustments = map[string]string{
	"attributename":       "attributeName",
	"attributetype":       "attributeType",
	"basefrequency":       "baseFrequency",
	"baseprofile":         "baseProfile",
	"calcmode":            "calcMode",
	"clippathunits":       "clipPathUnits",
	"diffuseconstant":     "diffuseConstant",
	"edgemode":            "edgeMode",
	"filterunits":         "filterUnits",
	"glyphref":            "glyphRef",
	"gradienttransform":   "gradientTransform",
	"gradientunits":       "gradientUnits",
	"kernelmatrix":        "kernelMatrix",
	"kernelunitlength":    "kernelUnitLength",
	"keypoints":           "keyPoints",
	"keysplines":          "keySplines",
	"keytimes":            "keyTimes",
	"lengthadjust":        "lengthAdjust",
	"limitingconeangle":   "limitingConeAngle",
	"markerheight":        "markerHeight",
	"markerunits":         "markerUnits",
	"markerwidth":         "markerWidth",
	"maskcontentunits":    "maskContentUnits",
	"maskunits":           "maskUnits",
	"numoctaves":          "numOctaves",
	"pathlength":          "pathLength",
	"patterncontentunits": "patternContentUnits",
	"patterntransform":    "patternTransform",
	"patternunits":        "patternUnits",
	"pointsatx":           "pointsAtX",
	"pointsaty":           "pointsAtY",
	"pointsatz":           "pointsAtZ",
	"preservealpha":       "preserveAlpha",
	"preserveaspectratio": "preserveAspectRatio",
	"primitiveunits":      "primitiveUnits",
	"refx":                "refX",
	"refy":                "refY",
	"repeatcount":         "repeatCount",
	"repeatdur":           "repeatDur",
	"requiredextensions":  "requiredExtensions",
	"requiredfeatures":    "requiredFeatures",
	"specularconstant":    "specularConstant",
	"specularexponent":    "specularExponent",
	"spreadmethod":        "spreadMethod",
	"startoffset":         "startOffset",
	"stddeviation":        "stdDeviation",
	"stitchtiles":         "stitchTiles",
	"surfacescale":        "surfaceScale",
	"systemlanguage":      "systemLanguage",
	"tablevalues":         "tableValues",
	"targetx":             "targetX",
	"targety":             "targetY",
	"textlength":          "textLength",
	"viewbox":             "viewBox",
	"viewtarget":          "viewTarget",
	"xchannelselector":    "xChannelSelector",
	"ychannelselector":    "yChannelSelector",
	"zoomandpan":          "zoomAndPan",
}
