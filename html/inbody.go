// Copyright 2010 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// Modifications:
// Copyright 2024 Daniel Potapov
//  - Restored the end of file, frameset and scripting rules.
//  - Elements live in a dom.Document and are referenced by handle.
//  - Parse errors are recorded.

package html

import (
	"strings"

	"github.com/dpotapov/go-htmlast/dom"
	a "golang.org/x/net/html/atom"
)

// Section 12.2.4.2, "special" category.
var isSpecialElementMap = map[a.Atom]bool{
	a.Address: true, a.Applet: true, a.Area: true, a.Article: true,
	a.Aside: true, a.Base: true, a.Basefont: true, a.Bgsound: true,
	a.Blockquote: true, a.Body: true, a.Br: true, a.Button: true,
	a.Caption: true, a.Center: true, a.Col: true, a.Colgroup: true,
	a.Dd: true, a.Details: true, a.Dir: true, a.Div: true,
	a.Dl: true, a.Dt: true, a.Embed: true, a.Fieldset: true,
	a.Figcaption: true, a.Figure: true, a.Footer: true, a.Form: true,
	a.Frame: true, a.Frameset: true, a.H1: true, a.H2: true,
	a.H3: true, a.H4: true, a.H5: true, a.H6: true,
	a.Head: true, a.Header: true, a.Hgroup: true, a.Hr: true,
	a.Html: true, a.Iframe: true, a.Img: true, a.Input: true,
	a.Keygen: true, a.Li: true, a.Link: true, a.Listing: true,
	a.Main: true, a.Marquee: true, a.Menu: true, a.Meta: true,
	a.Nav: true, a.Noembed: true, a.Noframes: true, a.Noscript: true,
	a.Object: true, a.Ol: true, a.P: true, a.Param: true,
	a.Plaintext: true, a.Pre: true, a.Script: true, a.Section: true,
	a.Select: true, a.Source: true, a.Style: true, a.Summary: true,
	a.Table: true, a.Tbody: true, a.Td: true, a.Template: true,
	a.Textarea: true, a.Tfoot: true, a.Th: true, a.Thead: true,
	a.Title: true, a.Tr: true, a.Track: true, a.Ul: true,
	a.Wbr: true, a.Xmp: true,
}

func (p *parser) isSpecialElement(n dom.NodeID) bool {
	switch p.doc.Namespace(n) {
	case dom.HTML:
		return isSpecialElementMap[p.doc.Atom(n)]
	case dom.MathML:
		switch p.doc.Data(n) {
		case "mi", "mo", "mn", "ms", "mtext", "annotation-xml":
			return true
		}
	case dom.SVG:
		switch p.doc.Data(n) {
		case "foreignObject", "desc", "title":
			return true
		}
	}
	return false
}

// checkOpenElements records an error if an element other than the ones that
// may stay open at the end of the body is on the stack.
func (p *parser) checkOpenElements(code ErrorCode) {
	for _, e := range p.oe {
		switch p.atomHTML(e) {
		case a.Dd, a.Dt, a.Li, a.Optgroup, a.Option, a.P, a.Rb, a.Rp, a.Rt, a.Rtc, a.Tbody, a.Td, a.Tfoot, a.Th,
			a.Thead, a.Tr, a.Body, a.Html:
		default:
			p.parseError(code)
			return
		}
	}
}

// Section 12.2.6.4.7.
func inBodyIM(p *parser) bool {
	switch p.tok.Type {
	case CharacterToken:
		d := p.tok.Data
		if n := p.oe.top(); p.isHTML(n, a.Pre) || p.isHTML(n, a.Listing) {
			if p.doc.FirstChild(n) == dom.None {
				// Ignore a newline at the start of a <pre> block.
				if d != "" && d[0] == '\n' {
					d = d[1:]
				}
			}
		}
		d = strings.ReplaceAll(d, "\x00", "")
		if d == "" {
			return true
		}
		p.reconstructActiveFormattingElements()
		p.addText(d)
		if p.framesetOK && strings.TrimLeft(d, whitespace) != "" {
			// There were non-whitespace characters inserted.
			p.framesetOK = false
		}
	case StartTagToken:
		switch p.tok.DataAtom {
		case a.Html:
			p.unexpected()
			if p.stackContains(p.oe, a.Template) {
				return true
			}
			p.must(p.doc.MergeAttrs(p.oe[0], p.tok.Attr))
		case a.Base, a.Basefont, a.Bgsound, a.Link, a.Meta, a.Noframes, a.Script, a.Style, a.Template, a.Title:
			return inHeadIM(p)
		case a.Body:
			p.unexpected()
			if p.stackContains(p.oe, a.Template) {
				return true
			}
			if len(p.oe) >= 2 {
				body := p.oe[1]
				if p.isHTML(body, a.Body) {
					p.framesetOK = false
					p.must(p.doc.MergeAttrs(body, p.tok.Attr))
				}
			}
		case a.Frameset:
			p.unexpected()
			if !p.framesetOK || len(p.oe) < 2 || !p.isHTML(p.oe[1], a.Body) {
				// Ignore the token.
				return true
			}
			body := p.oe[1]
			if p.doc.Parent(body) != dom.None {
				p.must(p.doc.Remove(body))
			}
			p.oe = p.oe[:1]
			p.addElement()
			p.im = InFramesetMode
			return true
		case a.Address, a.Article, a.Aside, a.Blockquote, a.Center, a.Details, a.Dialog, a.Dir, a.Div, a.Dl, a.Fieldset, a.Figcaption, a.Figure, a.Footer, a.Header, a.Hgroup, a.Main, a.Menu, a.Nav, a.Ol, a.P, a.Section, a.Summary, a.Ul:
			p.popUntil(buttonScope, a.P)
			p.addElement()
		case a.H1, a.H2, a.H3, a.H4, a.H5, a.H6:
			p.popUntil(buttonScope, a.P)
			switch p.atomHTML(p.top()) {
			case a.H1, a.H2, a.H3, a.H4, a.H5, a.H6:
				p.unexpected()
				p.oe.pop()
			}
			p.addElement()
		case a.Pre, a.Listing:
			p.popUntil(buttonScope, a.P)
			p.addElement()
			// The newline, if any, will be dealt with by the CharacterToken case.
			p.framesetOK = false
		case a.Form:
			inTemplate := p.stackContains(p.oe, a.Template)
			if p.form != dom.None && !inTemplate {
				// Ignore the token
				p.unexpected()
				return true
			}
			p.popUntil(buttonScope, a.P)
			p.addElement()
			if !inTemplate {
				p.form = p.top()
			}
		case a.Li:
			p.framesetOK = false
			for i := len(p.oe) - 1; i >= 0; i-- {
				node := p.oe[i]
				switch p.atomHTML(node) {
				case a.Li:
					p.closeListItem(i)
				case a.Address, a.Div, a.P:
					continue
				default:
					if !p.isSpecialElement(node) {
						continue
					}
				}
				break
			}
			p.popUntil(buttonScope, a.P)
			p.addElement()
		case a.Dd, a.Dt:
			p.framesetOK = false
			for i := len(p.oe) - 1; i >= 0; i-- {
				node := p.oe[i]
				switch p.atomHTML(node) {
				case a.Dd, a.Dt:
					p.closeListItem(i)
				case a.Address, a.Div, a.P:
					continue
				default:
					if !p.isSpecialElement(node) {
						continue
					}
				}
				break
			}
			p.popUntil(buttonScope, a.P)
			p.addElement()
		case a.Plaintext:
			p.popUntil(buttonScope, a.P)
			p.addElement()
			p.tokenizer.SwitchTo(PLAINTEXTState)
		case a.Button:
			if p.elementInScope(defaultScope, a.Button) {
				p.unexpected()
				p.generateImpliedEndTags()
				p.popUntil(defaultScope, a.Button)
			}
			p.reconstructActiveFormattingElements()
			p.addElement()
			p.framesetOK = false
		case a.A:
			for i := len(p.afe) - 1; i >= 0 && p.afe[i] != scopeMarker; i-- {
				if n := p.afe[i]; p.isHTML(n, a.A) {
					p.unexpected()
					p.inBodyEndTagFormatting(a.A, "a")
					p.oe.remove(n)
					p.afe.remove(n)
					break
				}
			}
			p.reconstructActiveFormattingElements()
			p.addFormattingElement()
		case a.B, a.Big, a.Code, a.Em, a.Font, a.I, a.S, a.Small, a.Strike, a.Strong, a.Tt, a.U:
			p.reconstructActiveFormattingElements()
			p.addFormattingElement()
		case a.Nobr:
			p.reconstructActiveFormattingElements()
			if p.elementInScope(defaultScope, a.Nobr) {
				p.unexpected()
				p.inBodyEndTagFormatting(a.Nobr, "nobr")
				p.reconstructActiveFormattingElements()
			}
			p.addFormattingElement()
		case a.Applet, a.Marquee, a.Object:
			p.reconstructActiveFormattingElements()
			p.addElement()
			p.afe = append(p.afe, scopeMarker)
			p.framesetOK = false
		case a.Table:
			if p.doc.QuirksMode() != dom.Quirks {
				p.popUntil(buttonScope, a.P)
			}
			p.addElement()
			p.framesetOK = false
			p.im = InTableMode
			return true
		case a.Area, a.Br, a.Embed, a.Img, a.Input, a.Keygen, a.Wbr:
			p.reconstructActiveFormattingElements()
			p.addElement()
			p.oe.pop()
			p.acknowledgeSelfClosingTag()
			if p.tok.DataAtom == a.Input {
				for _, t := range p.tok.Attr {
					if t.Key == "type" {
						if strings.EqualFold(t.Val, "hidden") {
							// Skip setting framesetOK = false
							return true
						}
					}
				}
			}
			p.framesetOK = false
		case a.Param, a.Source, a.Track:
			p.addElement()
			p.oe.pop()
			p.acknowledgeSelfClosingTag()
		case a.Hr:
			p.popUntil(buttonScope, a.P)
			p.addElement()
			p.oe.pop()
			p.acknowledgeSelfClosingTag()
			p.framesetOK = false
		case a.Image:
			p.unexpected()
			p.tok.DataAtom = a.Img
			p.tok.Data = a.Img.String()
			return false
		case a.Textarea:
			p.parseGenericRCDATAElement()
			p.framesetOK = false
		case a.Xmp:
			p.popUntil(buttonScope, a.P)
			p.reconstructActiveFormattingElements()
			p.framesetOK = false
			p.parseGenericRawTextElement()
		case a.Iframe:
			p.framesetOK = false
			p.parseGenericRawTextElement()
		case a.Noembed:
			p.parseGenericRawTextElement()
		case a.Noscript:
			if p.scripting {
				p.parseGenericRawTextElement()
				return true
			}
			p.reconstructActiveFormattingElements()
			p.addElement()
		case a.Select:
			p.reconstructActiveFormattingElements()
			p.addElement()
			p.framesetOK = false
			switch p.im {
			case InTableMode, InCaptionMode, InTableBodyMode, InRowMode, InCellMode:
				p.im = InSelectInTableMode
			default:
				p.im = InSelectMode
			}
			return true
		case a.Optgroup, a.Option:
			if p.isHTML(p.top(), a.Option) {
				p.oe.pop()
			}
			p.reconstructActiveFormattingElements()
			p.addElement()
		case a.Rb, a.Rtc:
			if p.elementInScope(defaultScope, a.Ruby) {
				p.generateImpliedEndTags()
				if !p.isHTML(p.top(), a.Ruby) {
					p.unexpected()
				}
			}
			p.addElement()
		case a.Rp, a.Rt:
			if p.elementInScope(defaultScope, a.Ruby) {
				p.generateImpliedEndTags("rtc")
				if !p.isHTML(p.top(), a.Ruby) && !p.isHTML(p.top(), a.Rtc) {
					p.unexpected()
				}
			}
			p.addElement()
		case a.Math, a.Svg:
			p.reconstructActiveFormattingElements()
			ns := dom.MathML
			if p.tok.DataAtom == a.Math {
				adjustAttributeNames(p.tok.Attr, mathMLAttributeAdjustments)
			} else {
				ns = dom.SVG
				adjustAttributeNames(p.tok.Attr, svgAttributeAdjustments)
			}
			adjustForeignAttributes(p.tok.Attr)
			p.addForeignElement(ns)
			if p.hasSelfClosingToken {
				p.oe.pop()
				p.acknowledgeSelfClosingTag()
			}
			return true
		case a.Caption, a.Col, a.Colgroup, a.Frame, a.Head, a.Tbody, a.Td, a.Tfoot, a.Th, a.Thead, a.Tr:
			// Ignore the token.
			p.unexpected()
		default:
			p.reconstructActiveFormattingElements()
			p.addElement()
		}
	case EndTagToken:
		switch p.tok.DataAtom {
		case a.Body:
			if !p.elementInScope(defaultScope, a.Body) {
				// Ignore the token.
				p.unexpected()
				return true
			}
			p.checkOpenElements(ErrEndTagWithUnclosedElements)
			p.im = AfterBodyMode
		case a.Html:
			if !p.elementInScope(defaultScope, a.Body) {
				// Ignore the token.
				p.unexpected()
				return true
			}
			p.checkOpenElements(ErrEndTagWithUnclosedElements)
			p.im = AfterBodyMode
			return false
		case a.Address, a.Article, a.Aside, a.Blockquote, a.Button, a.Center, a.Details, a.Dialog, a.Dir, a.Div, a.Dl, a.Fieldset, a.Figcaption, a.Figure, a.Footer, a.Header, a.Hgroup, a.Listing, a.Main, a.Menu, a.Nav, a.Ol, a.Pre, a.Section, a.Summary, a.Ul:
			p.closeElement(defaultScope, p.tok.DataAtom)
		case a.Form:
			if p.stackContains(p.oe, a.Template) {
				p.closeElement(defaultScope, a.Form)
			} else {
				node := p.form
				p.form = dom.None
				i := p.indexOfElementInScope(defaultScope, a.Form)
				if node == dom.None || i == -1 || p.oe[i] != node {
					// Ignore the token.
					p.unexpected()
					return true
				}
				p.generateImpliedEndTags()
				if p.oe.top() != node {
					p.parseError(ErrEndTagWithUnclosedElements)
				}
				p.oe.remove(node)
			}
		case a.P:
			if !p.elementInScope(buttonScope, a.P) {
				p.unexpected()
				p.parseImpliedToken(StartTagToken, a.P, a.P.String())
			}
			p.closeElement(buttonScope, a.P)
		case a.Li:
			p.closeElement(listItemScope, a.Li)
		case a.Dd, a.Dt:
			p.closeElement(defaultScope, p.tok.DataAtom)
		case a.H1, a.H2, a.H3, a.H4, a.H5, a.H6:
			p.closeElement(defaultScope, a.H1, a.H2, a.H3, a.H4, a.H5, a.H6)
		case a.A, a.B, a.Big, a.Code, a.Em, a.Font, a.I, a.Nobr, a.S, a.Small, a.Strike, a.Strong, a.Tt, a.U:
			p.inBodyEndTagFormatting(p.tok.DataAtom, p.tok.Data)
		case a.Applet, a.Marquee, a.Object:
			if p.closeElement(defaultScope, p.tok.DataAtom) {
				p.clearActiveFormattingElements()
			}
		case a.Br:
			p.unexpected()
			p.tok.Type = StartTagToken
			p.tok.Attr = nil
			return false
		case a.Template:
			return inHeadIM(p)
		default:
			p.inBodyEndTagOther(p.tok.DataAtom, p.tok.Data)
		}
	case CommentToken:
		p.addComment()
	case DoctypeToken:
		// Ignore the token.
		p.unexpected()
	case EOFToken:
		if len(p.templateStack) > 0 {
			return inTemplateIM(p)
		}
		p.checkOpenElements(ErrEOFWithOpenElements)
	}

	return true
}

// closeListItem closes the li, dd or dt element at index i of the stack of
// open elements for a new list item start tag.
func (p *parser) closeListItem(i int) {
	p.generateImpliedEndTags(p.doc.Data(p.oe[i]))
	if p.oe.top() != p.oe[i] {
		p.parseError(ErrEndTagWithUnclosedElements)
	}
	p.oe = p.oe[:i]
}

func (p *parser) inBodyEndTagFormatting(tagAtom a.Atom, tagName string) {
	// This is the "adoption agency" algorithm, described at
	// https://html.spec.whatwg.org/multipage/syntax.html#adoptionAgency

	// Steps 1-2
	if current := p.top(); p.isHTML(current, tagAtom) && p.doc.Data(current) == tagName && p.afe.index(current) == -1 {
		p.oe.pop()
		return
	}

	// Steps 3-5. The outer loop.
	for i := 0; i < 8; i++ {
		// Step 6. Find the formatting element.
		formattingElement := dom.None
		for j := len(p.afe) - 1; j >= 0; j-- {
			if p.afe[j] == scopeMarker {
				break
			}
			if p.isHTML(p.afe[j], tagAtom) {
				formattingElement = p.afe[j]
				break
			}
		}
		if formattingElement == dom.None {
			p.inBodyEndTagOther(tagAtom, tagName)
			return
		}

		// Step 7. Ignore the tag if formatting element is not in the stack of open elements.
		feIndex := p.oe.index(formattingElement)
		if feIndex == -1 {
			p.parseError(ErrMisnestedFormattingElement)
			p.afe.remove(formattingElement)
			return
		}
		// Step 8. Ignore the tag if formatting element is not in the scope.
		if !p.elementInScope(defaultScope, tagAtom) {
			// Ignore the tag.
			p.parseError(ErrMisnestedFormattingElement)
			return
		}

		// Step 9. A parse error when the formatting element is not the current
		// node, but the algorithm continues.
		if i == 0 && formattingElement != p.oe.top() {
			p.parseError(ErrMisnestedFormattingElement)
		}

		// Steps 10-11. Find the furthest block.
		furthestBlock := dom.None
		for _, e := range p.oe[feIndex:] {
			if p.isSpecialElement(e) {
				furthestBlock = e
				break
			}
		}
		if furthestBlock == dom.None {
			e := p.oe.pop()
			for e != formattingElement {
				e = p.oe.pop()
			}
			p.afe.remove(e)
			return
		}

		// Steps 12-13. Find the common ancestor and bookmark node.
		commonAncestor := p.oe[feIndex-1]
		bookmark := p.afe.index(formattingElement)

		// Step 14. The inner loop. Find the lastNode to reparent.
		lastNode := furthestBlock
		node := furthestBlock
		x := p.oe.index(node)
		// Step 14.1.
		j := 0
		for {
			// Step 14.2.
			j++
			// Step. 14.3.
			x--
			node = p.oe[x]
			// Step 14.4. Go to the next step if node is formatting element.
			if node == formattingElement {
				break
			}
			// Step 14.5. Remove node from the list of active formatting elements if
			// inner loop counter is greater than three and node is in the list of
			// active formatting elements.
			if ni := p.afe.index(node); j > 3 && ni > -1 {
				p.afe.remove(node)
				// If any element of the list of active formatting elements is removed,
				// we need to take care whether bookmark should be decremented or not.
				// This is because the value of bookmark may exceed the size of the
				// list by removing elements from the list.
				if ni <= bookmark {
					bookmark--
				}
				continue
			}
			// Step 14.6. Continue the next inner loop if node is not in the list of
			// active formatting elements.
			if p.afe.index(node) == -1 {
				p.oe.remove(node)
				continue
			}
			// Step 14.7.
			clone, err := p.doc.Clone(node)
			p.must(err)
			p.afe[p.afe.index(node)] = clone
			p.oe[p.oe.index(node)] = clone
			node = clone
			// Step 14.8.
			if lastNode == furthestBlock {
				bookmark = p.afe.index(node) + 1
			}
			// Step 14.9.
			p.must(p.doc.AppendChild(node, lastNode))
			// Step 14.10.
			lastNode = node
		}

		// Step 15. Reparent lastNode to the common ancestor,
		// or for misnested table nodes, to the foster parent.
		switch p.atomHTML(commonAncestor) {
		case a.Table, a.Tbody, a.Tfoot, a.Thead, a.Tr:
			parent, ref := p.fosterLocation()
			p.must(p.doc.InsertBefore(parent, lastNode, ref))
		default:
			p.must(p.doc.AppendChild(commonAncestor, lastNode))
		}

		// Steps 16-18. Reparent nodes from the furthest block's children
		// to a clone of the formatting element.
		clone, err := p.doc.Clone(formattingElement)
		p.must(err)
		p.must(p.doc.MoveChildren(clone, furthestBlock))
		p.must(p.doc.AppendChild(furthestBlock, clone))

		// Step 19. Fix up the list of active formatting elements.
		if oldLoc := p.afe.index(formattingElement); oldLoc != -1 && oldLoc < bookmark {
			// Move the bookmark with the rest of the list.
			bookmark--
		}
		p.afe.remove(formattingElement)
		p.afe.insert(bookmark, clone)

		// Step 20. Fix up the stack of open elements.
		p.oe.remove(formattingElement)
		p.oe.insert(p.oe.index(furthestBlock)+1, clone)
	}
}

// inBodyEndTagOther performs the "any other end tag" algorithm for inBodyIM.
func (p *parser) inBodyEndTagOther(tagAtom a.Atom, tagName string) {
	for i := len(p.oe) - 1; i >= 0; i-- {
		n := p.oe[i]
		// Two element nodes have the same tag if they have the same Data. As
		// an optimization, common HTML tags compare by DataAtom; custom tags
		// have a zero DataAtom and compare by name.
		if p.doc.Namespace(n) == dom.HTML && p.doc.Atom(n) == tagAtom &&
			(tagAtom != 0 || p.doc.Data(n) == tagName) {
			p.generateImpliedEndTags(tagName)
			if p.oe.top() != n {
				p.parseError(ErrEndTagWithUnclosedElements)
			}
			p.oe = p.oe[:i]
			return
		}
		if p.isSpecialElement(n) {
			// Ignore the token.
			p.unexpected()
			return
		}
	}
}
