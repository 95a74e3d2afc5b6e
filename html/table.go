// Copyright 2010 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// Modifications:
// Copyright 2024 Daniel Potapov
//  - Added the in table text insertion mode.
//  - Parse errors are recorded.

package html

import (
	"strings"

	"github.com/dpotapov/go-htmlast/dom"
	a "golang.org/x/net/html/atom"
)

// Section 12.2.6.4.9.
func inTableIM(p *parser) bool {
	switch p.tok.Type {
	case CharacterToken:
		switch p.atomHTML(p.oe.top()) {
		case a.Table, a.Tbody, a.Template, a.Tfoot, a.Thead, a.Tr:
			p.pendingText = p.pendingText[:0]
			p.pendingTextPos = p.tok.Pos
			p.setOriginalIM()
			p.im = InTableTextMode
			return false
		}
	case StartTagToken:
		switch p.tok.DataAtom {
		case a.Caption:
			p.clearStackToContext(tableScope)
			p.afe = append(p.afe, scopeMarker)
			p.addElement()
			p.im = InCaptionMode
			return true
		case a.Colgroup:
			p.clearStackToContext(tableScope)
			p.addElement()
			p.im = InColumnGroupMode
			return true
		case a.Col:
			p.parseImpliedToken(StartTagToken, a.Colgroup, a.Colgroup.String())
			return false
		case a.Tbody, a.Tfoot, a.Thead:
			p.clearStackToContext(tableScope)
			p.addElement()
			p.im = InTableBodyMode
			return true
		case a.Td, a.Th, a.Tr:
			p.parseImpliedToken(StartTagToken, a.Tbody, a.Tbody.String())
			return false
		case a.Table:
			p.unexpected()
			if p.popUntil(tableScope, a.Table) {
				p.resetInsertionMode()
				return false
			}
			// Ignore the token.
			return true
		case a.Style, a.Script, a.Template:
			return inHeadIM(p)
		case a.Input:
			for _, t := range p.tok.Attr {
				if t.Key == "type" && strings.EqualFold(t.Val, "hidden") {
					p.unexpected()
					p.addElement()
					p.oe.pop()
					p.acknowledgeSelfClosingTag()
					return true
				}
			}
			// Otherwise drop down to the default action.
		case a.Form:
			p.unexpected()
			if p.stackContains(p.oe, a.Template) || p.form != dom.None {
				// Ignore the token.
				return true
			}
			p.addElement()
			p.form = p.oe.pop()
			return true
		}
	case EndTagToken:
		switch p.tok.DataAtom {
		case a.Table:
			if p.popUntil(tableScope, a.Table) {
				p.resetInsertionMode()
				return true
			}
			// Ignore the token.
			p.unexpected()
			return true
		case a.Body, a.Caption, a.Col, a.Colgroup, a.Html, a.Tbody, a.Td, a.Tfoot, a.Th, a.Thead, a.Tr:
			// Ignore the token.
			p.unexpected()
			return true
		case a.Template:
			return inHeadIM(p)
		}
	case CommentToken:
		p.addComment()
		return true
	case DoctypeToken:
		// Ignore the token.
		p.unexpected()
		return true
	case EOFToken:
		return inBodyIM(p)
	}

	p.parseError(ErrFosterParentedContent)
	p.fosterParenting = true
	defer func() { p.fosterParenting = false }()

	return inBodyIM(p)
}

// Section 12.2.6.4.10.
func inTableTextIM(p *parser) bool {
	if p.tok.Type == CharacterToken {
		p.pendingText = append(p.pendingText, strings.ReplaceAll(p.tok.Data, "\x00", "")...)
		return true
	}

	tok := p.tok
	p.tok = Token{Type: CharacterToken, Data: string(p.pendingText), Pos: p.pendingTextPos}
	p.pendingText = p.pendingText[:0]
	if strings.Trim(p.tok.Data, whitespace) != "" {
		// The text is processed with the in table "anything else" rules.
		p.parseError(ErrFosterParentedContent)
		p.fosterParenting = true
		inBodyIM(p)
		p.fosterParenting = false
	} else {
		p.addText(p.tok.Data)
	}
	p.tok = tok
	p.restoreOriginalIM()
	return false
}

// Section 12.2.6.4.11.
func inCaptionIM(p *parser) bool {
	switch p.tok.Type {
	case StartTagToken:
		switch p.tok.DataAtom {
		case a.Caption, a.Col, a.Colgroup, a.Tbody, a.Td, a.Tfoot, a.Th, a.Thead, a.Tr:
			if !p.closeCaption() {
				// Ignore the token.
				return true
			}
			return false
		}
	case EndTagToken:
		switch p.tok.DataAtom {
		case a.Caption:
			p.closeCaption()
			return true
		case a.Table:
			if !p.closeCaption() {
				// Ignore the token.
				return true
			}
			return false
		case a.Body, a.Col, a.Colgroup, a.Html, a.Tbody, a.Td, a.Tfoot, a.Th, a.Thead, a.Tr:
			// Ignore the token.
			p.unexpected()
			return true
		}
	}
	return inBodyIM(p)
}

// closeCaption pops the caption element and returns to the in table
// insertion mode. It reports whether a caption was in table scope.
func (p *parser) closeCaption() bool {
	i := p.indexOfElementInScope(tableScope, a.Caption)
	if i == -1 {
		p.unexpected()
		return false
	}
	p.generateImpliedEndTags()
	if p.oe.top() != p.oe[i] {
		p.parseError(ErrEndTagWithUnclosedElements)
	}
	p.oe = p.oe[:i]
	p.clearActiveFormattingElements()
	p.im = InTableMode
	return true
}

// Section 12.2.6.4.12.
func inColumnGroupIM(p *parser) bool {
	switch p.tok.Type {
	case CharacterToken:
		s := strings.TrimLeft(p.tok.Data, whitespace)
		if len(s) < len(p.tok.Data) {
			// Add the initial whitespace to the current node.
			p.addText(p.tok.Data[:len(p.tok.Data)-len(s)])
			if s == "" {
				return true
			}
			p.tok.Data = s
		}
	case CommentToken:
		p.addComment()
		return true
	case DoctypeToken:
		// Ignore the token.
		p.unexpected()
		return true
	case StartTagToken:
		switch p.tok.DataAtom {
		case a.Html:
			return inBodyIM(p)
		case a.Col:
			p.addElement()
			p.oe.pop()
			p.acknowledgeSelfClosingTag()
			return true
		case a.Template:
			return inHeadIM(p)
		}
	case EndTagToken:
		switch p.tok.DataAtom {
		case a.Colgroup:
			if p.isHTML(p.oe.top(), a.Colgroup) {
				p.oe.pop()
				p.im = InTableMode
			} else {
				p.unexpected()
			}
			return true
		case a.Col:
			// Ignore the token.
			p.unexpected()
			return true
		case a.Template:
			return inHeadIM(p)
		}
	case EOFToken:
		return inBodyIM(p)
	}
	if !p.isHTML(p.oe.top(), a.Colgroup) {
		p.unexpected()
		return true
	}
	p.oe.pop()
	p.im = InTableMode
	return false
}

// Section 12.2.6.4.13.
func inTableBodyIM(p *parser) bool {
	switch p.tok.Type {
	case StartTagToken:
		switch p.tok.DataAtom {
		case a.Tr:
			p.clearStackToContext(tableBodyScope)
			p.addElement()
			p.im = InRowMode
			return true
		case a.Td, a.Th:
			p.unexpected()
			p.parseImpliedToken(StartTagToken, a.Tr, a.Tr.String())
			return false
		case a.Caption, a.Col, a.Colgroup, a.Tbody, a.Tfoot, a.Thead:
			if p.popUntil(tableScope, a.Tbody, a.Thead, a.Tfoot) {
				p.im = InTableMode
				return false
			}
			// Ignore the token.
			p.unexpected()
			return true
		}
	case EndTagToken:
		switch p.tok.DataAtom {
		case a.Tbody, a.Tfoot, a.Thead:
			if p.elementInScope(tableScope, p.tok.DataAtom) {
				p.clearStackToContext(tableBodyScope)
				p.oe.pop()
				p.im = InTableMode
			} else {
				p.unexpected()
			}
			return true
		case a.Table:
			if p.popUntil(tableScope, a.Tbody, a.Thead, a.Tfoot) {
				p.im = InTableMode
				return false
			}
			// Ignore the token.
			p.unexpected()
			return true
		case a.Body, a.Caption, a.Col, a.Colgroup, a.Html, a.Td, a.Th, a.Tr:
			// Ignore the token.
			p.unexpected()
			return true
		}
	}
	return inTableIM(p)
}

// Section 12.2.6.4.14.
func inRowIM(p *parser) bool {
	switch p.tok.Type {
	case StartTagToken:
		switch p.tok.DataAtom {
		case a.Td, a.Th:
			p.clearStackToContext(tableRowScope)
			p.addElement()
			p.afe = append(p.afe, scopeMarker)
			p.im = InCellMode
			return true
		case a.Caption, a.Col, a.Colgroup, a.Tbody, a.Tfoot, a.Thead, a.Tr:
			if p.closeRow() {
				return false
			}
			// Ignore the token.
			p.unexpected()
			return true
		}
	case EndTagToken:
		switch p.tok.DataAtom {
		case a.Tr:
			if !p.closeRow() {
				// Ignore the token.
				p.unexpected()
			}
			return true
		case a.Table:
			if p.closeRow() {
				return false
			}
			// Ignore the token.
			p.unexpected()
			return true
		case a.Tbody, a.Tfoot, a.Thead:
			if p.elementInScope(tableScope, p.tok.DataAtom) && p.closeRow() {
				return false
			}
			// Ignore the token.
			p.unexpected()
			return true
		case a.Body, a.Caption, a.Col, a.Colgroup, a.Html, a.Td, a.Th:
			// Ignore the token.
			p.unexpected()
			return true
		}
	}
	return inTableIM(p)
}

// closeRow pops the tr element and returns to the in table body insertion
// mode. It reports whether a tr was in table scope.
func (p *parser) closeRow() bool {
	if !p.elementInScope(tableScope, a.Tr) {
		return false
	}
	p.clearStackToContext(tableRowScope)
	p.oe.pop()
	p.im = InTableBodyMode
	return true
}

// Section 12.2.6.4.15.
func inCellIM(p *parser) bool {
	switch p.tok.Type {
	case StartTagToken:
		switch p.tok.DataAtom {
		case a.Caption, a.Col, a.Colgroup, a.Tbody, a.Td, a.Tfoot, a.Th, a.Thead, a.Tr:
			if !p.elementInScope(tableScope, a.Td, a.Th) {
				// Ignore the token.
				p.unexpected()
				return true
			}
			p.closeCell()
			return false
		}
	case EndTagToken:
		switch p.tok.DataAtom {
		case a.Td, a.Th:
			if !p.closeElement(tableScope, p.tok.DataAtom) {
				// Ignore the token.
				return true
			}
			p.clearActiveFormattingElements()
			p.im = InRowMode
			return true
		case a.Body, a.Caption, a.Col, a.Colgroup, a.Html:
			// Ignore the token.
			p.unexpected()
			return true
		case a.Table, a.Tbody, a.Tfoot, a.Thead, a.Tr:
			if !p.elementInScope(tableScope, p.tok.DataAtom) {
				// Ignore the token.
				p.unexpected()
				return true
			}
			p.closeCell()
			return false
		}
	}
	return inBodyIM(p)
}

// closeCell closes the td or th element in table scope. Section
// 12.2.6.4.15, "close the cell".
func (p *parser) closeCell() {
	p.generateImpliedEndTags()
	switch p.atomHTML(p.oe.top()) {
	case a.Td, a.Th:
	default:
		p.parseError(ErrEndTagWithUnclosedElements)
	}
	p.popUntil(tableScope, a.Td, a.Th)
	p.clearActiveFormattingElements()
	p.im = InRowMode
}
