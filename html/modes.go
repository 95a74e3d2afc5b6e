// Copyright 2010 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// Modifications:
// Copyright 2024 Daniel Potapov
//  - Raw text elements switch the tokenizer state explicitly.
//  - Template end tags follow the standard algorithm.
//  - Parse errors are recorded.

package html

import (
	"strings"

	"github.com/dpotapov/go-htmlast/dom"
	a "golang.org/x/net/html/atom"
)

// Section 12.2.6.4.1.
func initialIM(p *parser) bool {
	switch p.tok.Type {
	case CharacterToken:
		p.tok.Data = strings.TrimLeft(p.tok.Data, whitespace)
		if len(p.tok.Data) == 0 {
			// It was all whitespace, so ignore it.
			return true
		}
	case CommentToken:
		p.must(p.doc.AppendChild(p.doc.Root(), p.newComment()))
		return true
	case DoctypeToken:
		if !conformingDoctype(&p.tok) {
			p.parseError(ErrNonConformingDoctype)
		}
		n, mode := p.doctypeNode()
		p.must(p.doc.AppendChild(p.doc.Root(), n))
		p.doc.SetQuirksMode(mode)
		p.im = BeforeHTMLMode
		return true
	}
	p.parseError(ErrMissingDoctype)
	p.doc.SetQuirksMode(dom.Quirks)
	p.im = BeforeHTMLMode
	return false
}

// Section 12.2.6.4.2.
func beforeHTMLIM(p *parser) bool {
	switch p.tok.Type {
	case DoctypeToken:
		// Ignore the token.
		p.unexpected()
		return true
	case CharacterToken:
		p.tok.Data = strings.TrimLeft(p.tok.Data, whitespace)
		if len(p.tok.Data) == 0 {
			// It was all whitespace, so ignore it.
			return true
		}
	case StartTagToken:
		if p.tok.DataAtom == a.Html {
			p.addElement()
			p.im = BeforeHeadMode
			return true
		}
	case EndTagToken:
		switch p.tok.DataAtom {
		case a.Head, a.Body, a.Html, a.Br:
			p.parseImpliedToken(StartTagToken, a.Html, a.Html.String())
			return false
		default:
			// Ignore the token.
			p.unexpected()
			return true
		}
	case CommentToken:
		p.must(p.doc.AppendChild(p.doc.Root(), p.newComment()))
		return true
	}
	p.parseImpliedToken(StartTagToken, a.Html, a.Html.String())
	return false
}

// Section 12.2.6.4.3.
func beforeHeadIM(p *parser) bool {
	switch p.tok.Type {
	case CharacterToken:
		p.tok.Data = strings.TrimLeft(p.tok.Data, whitespace)
		if len(p.tok.Data) == 0 {
			// It was all whitespace, so ignore it.
			return true
		}
	case StartTagToken:
		switch p.tok.DataAtom {
		case a.Head:
			p.addElement()
			p.head = p.top()
			p.im = InHeadMode
			return true
		case a.Html:
			return inBodyIM(p)
		}
	case EndTagToken:
		switch p.tok.DataAtom {
		case a.Head, a.Body, a.Html, a.Br:
			p.parseImpliedToken(StartTagToken, a.Head, a.Head.String())
			return false
		default:
			// Ignore the token.
			p.unexpected()
			return true
		}
	case CommentToken:
		p.addComment()
		return true
	case DoctypeToken:
		// Ignore the token.
		p.unexpected()
		return true
	}

	p.parseImpliedToken(StartTagToken, a.Head, a.Head.String())
	return false
}

// Section 12.2.6.4.4.
func inHeadIM(p *parser) bool {
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
	case StartTagToken:
		switch p.tok.DataAtom {
		case a.Html:
			return inBodyIM(p)
		case a.Base, a.Basefont, a.Bgsound, a.Link, a.Meta:
			p.addElement()
			p.oe.pop()
			p.acknowledgeSelfClosingTag()
			return true
		case a.Title:
			p.parseGenericRCDATAElement()
			return true
		case a.Noscript:
			if p.scripting {
				p.parseGenericRawTextElement()
				return true
			}
			p.addElement()
			p.im = InHeadNoscriptMode
			return true
		case a.Noframes, a.Style:
			p.parseGenericRawTextElement()
			return true
		case a.Script:
			p.parseTextElement(ScriptDataState)
			return true
		case a.Template:
			p.addElement()
			p.afe = append(p.afe, scopeMarker)
			p.framesetOK = false
			p.im = InTemplateMode
			p.templateStack = append(p.templateStack, InTemplateMode)
			return true
		case a.Head:
			// Ignore the token.
			p.unexpected()
			return true
		}
	case EndTagToken:
		switch p.tok.DataAtom {
		case a.Head:
			p.oe.pop()
			p.im = AfterHeadMode
			return true
		case a.Body, a.Html, a.Br:
			p.parseImpliedToken(EndTagToken, a.Head, a.Head.String())
			return false
		case a.Template:
			p.closeTemplate()
			return true
		default:
			// Ignore the token.
			p.unexpected()
			return true
		}
	case CommentToken:
		p.addComment()
		return true
	case DoctypeToken:
		// Ignore the token.
		p.unexpected()
		return true
	}

	p.oe.pop()
	p.im = AfterHeadMode
	return false
}

// closeTemplate handles a </template> end tag.
func (p *parser) closeTemplate() {
	if !p.stackContains(p.oe, a.Template) {
		// Ignore the token.
		p.unexpected()
		return
	}
	p.generateAllImpliedEndTagsThoroughly()
	if !p.isHTML(p.oe.top(), a.Template) {
		p.parseError(ErrEndTagWithUnclosedElements)
	}
	for i := len(p.oe) - 1; i >= 0; i-- {
		if p.isHTML(p.oe[i], a.Template) {
			p.oe = p.oe[:i]
			break
		}
	}
	p.clearActiveFormattingElements()
	p.templateStack.pop()
	p.resetInsertionMode()
}

// Section 12.2.6.4.5.
func inHeadNoscriptIM(p *parser) bool {
	switch p.tok.Type {
	case DoctypeToken:
		// Ignore the token.
		p.unexpected()
		return true
	case StartTagToken:
		switch p.tok.DataAtom {
		case a.Html:
			return inBodyIM(p)
		case a.Basefont, a.Bgsound, a.Link, a.Meta, a.Noframes, a.Style:
			return inHeadIM(p)
		case a.Head, a.Noscript:
			// Ignore the token.
			p.unexpected()
			return true
		}
	case EndTagToken:
		switch p.tok.DataAtom {
		case a.Noscript:
			p.oe.pop()
			p.im = InHeadMode
			return true
		case a.Br:
		default:
			// Ignore the token.
			p.unexpected()
			return true
		}
	case CharacterToken:
		s := strings.TrimLeft(p.tok.Data, whitespace)
		if len(s) == 0 {
			// It was all whitespace.
			return inHeadIM(p)
		}
	case CommentToken:
		return inHeadIM(p)
	}
	p.unexpected()
	p.oe.pop()
	if !p.isHTML(p.top(), a.Head) {
		p.fail("the new current node is not a head element")
	}
	p.im = InHeadMode
	return false
}

// Section 12.2.6.4.6.
func afterHeadIM(p *parser) bool {
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
	case StartTagToken:
		switch p.tok.DataAtom {
		case a.Html:
			return inBodyIM(p)
		case a.Body:
			p.addElement()
			p.framesetOK = false
			p.im = InBodyMode
			return true
		case a.Frameset:
			p.addElement()
			p.im = InFramesetMode
			return true
		case a.Base, a.Basefont, a.Bgsound, a.Link, a.Meta, a.Noframes, a.Script, a.Style, a.Template, a.Title:
			p.unexpected()
			p.oe = append(p.oe, p.head)
			defer p.oe.remove(p.head)
			return inHeadIM(p)
		case a.Head:
			// Ignore the token.
			p.unexpected()
			return true
		}
	case EndTagToken:
		switch p.tok.DataAtom {
		case a.Body, a.Html, a.Br:
			// Drop down to creating an implied <body> tag.
		case a.Template:
			return inHeadIM(p)
		default:
			// Ignore the token.
			p.unexpected()
			return true
		}
	case CommentToken:
		p.addComment()
		return true
	case DoctypeToken:
		// Ignore the token.
		p.unexpected()
		return true
	}

	p.parseImpliedToken(StartTagToken, a.Body, a.Body.String())
	p.framesetOK = true
	return false
}

// Section 12.2.6.4.8.
func textIM(p *parser) bool {
	switch p.tok.Type {
	case EOFToken:
		p.unexpected()
		p.oe.pop()
	case CharacterToken:
		d := p.tok.Data
		if n := p.oe.top(); p.isHTML(n, a.Textarea) && p.doc.FirstChild(n) == dom.None {
			// Ignore a newline at the start of a <textarea> block.
			if d != "" && d[0] == '\n' {
				d = d[1:]
			}
		}
		if d == "" {
			return true
		}
		p.addText(d)
		return true
	case EndTagToken:
		p.oe.pop()
	}
	p.restoreOriginalIM()
	return p.tok.Type == EndTagToken
}

// Section 12.2.6.4.16.
func inSelectIM(p *parser) bool {
	switch p.tok.Type {
	case CharacterToken:
		d := strings.ReplaceAll(p.tok.Data, "\x00", "")
		p.addText(d)
	case StartTagToken:
		switch p.tok.DataAtom {
		case a.Html:
			return inBodyIM(p)
		case a.Option:
			if p.isHTML(p.top(), a.Option) {
				p.oe.pop()
			}
			p.addElement()
		case a.Optgroup:
			if p.isHTML(p.top(), a.Option) {
				p.oe.pop()
			}
			if p.isHTML(p.top(), a.Optgroup) {
				p.oe.pop()
			}
			p.addElement()
		case a.Hr:
			if p.isHTML(p.top(), a.Option) {
				p.oe.pop()
			}
			if p.isHTML(p.top(), a.Optgroup) {
				p.oe.pop()
			}
			p.addElement()
			p.oe.pop()
			p.acknowledgeSelfClosingTag()
		case a.Select:
			p.unexpected()
			if !p.popUntil(selectScope, a.Select) {
				// Ignore the token.
				return true
			}
			p.resetInsertionMode()
		case a.Input, a.Keygen, a.Textarea:
			p.unexpected()
			if p.elementInScope(selectScope, a.Select) {
				p.parseImpliedToken(EndTagToken, a.Select, a.Select.String())
				return false
			}
			// Ignore the token.
			return true
		case a.Script, a.Template:
			return inHeadIM(p)
		default:
			// Ignore the token.
			p.unexpected()
		}
	case EndTagToken:
		switch p.tok.DataAtom {
		case a.Option:
			if p.isHTML(p.top(), a.Option) {
				p.oe.pop()
			} else {
				p.unexpected()
			}
		case a.Optgroup:
			i := len(p.oe) - 1
			if p.isHTML(p.oe[i], a.Option) && i > 0 {
				i--
			}
			if p.isHTML(p.oe[i], a.Optgroup) {
				p.oe = p.oe[:i]
			} else {
				p.unexpected()
			}
		case a.Select:
			if !p.popUntil(selectScope, a.Select) {
				// Ignore the token.
				p.unexpected()
				return true
			}
			p.resetInsertionMode()
		case a.Template:
			return inHeadIM(p)
		default:
			// Ignore the token.
			p.unexpected()
		}
	case CommentToken:
		p.addComment()
	case DoctypeToken:
		// Ignore the token.
		p.unexpected()
		return true
	case EOFToken:
		return inBodyIM(p)
	}

	return true
}

// Section 12.2.6.4.17.
func inSelectInTableIM(p *parser) bool {
	switch p.tok.Type {
	case StartTagToken, EndTagToken:
		switch p.tok.DataAtom {
		case a.Caption, a.Table, a.Tbody, a.Tfoot, a.Thead, a.Tr, a.Td, a.Th:
			p.unexpected()
			if p.tok.Type == EndTagToken && !p.elementInScope(tableScope, p.tok.DataAtom) {
				// Ignore the token.
				return true
			}
			for i := len(p.oe) - 1; i >= 0; i-- {
				if p.isHTML(p.oe[i], a.Select) {
					p.oe = p.oe[:i]
					break
				}
			}
			p.resetInsertionMode()
			return false
		}
	}
	return inSelectIM(p)
}

// Section 12.2.6.4.18.
func inTemplateIM(p *parser) bool {
	switch p.tok.Type {
	case CharacterToken, CommentToken, DoctypeToken:
		return inBodyIM(p)
	case StartTagToken:
		switch p.tok.DataAtom {
		case a.Base, a.Basefont, a.Bgsound, a.Link, a.Meta, a.Noframes, a.Script, a.Style, a.Template, a.Title:
			return inHeadIM(p)
		case a.Caption, a.Colgroup, a.Tbody, a.Tfoot, a.Thead:
			p.switchTemplateMode(InTableMode)
			return false
		case a.Col:
			p.switchTemplateMode(InColumnGroupMode)
			return false
		case a.Tr:
			p.switchTemplateMode(InTableBodyMode)
			return false
		case a.Td, a.Th:
			p.switchTemplateMode(InRowMode)
			return false
		default:
			p.switchTemplateMode(InBodyMode)
			return false
		}
	case EndTagToken:
		switch p.tok.DataAtom {
		case a.Template:
			return inHeadIM(p)
		default:
			// Ignore the token.
			p.unexpected()
			return true
		}
	case EOFToken:
		if !p.stackContains(p.oe, a.Template) {
			// Stop parsing.
			return true
		}
		p.unexpected()
		for i := len(p.oe) - 1; i >= 0; i-- {
			if p.isHTML(p.oe[i], a.Template) {
				p.oe = p.oe[:i]
				break
			}
		}
		p.clearActiveFormattingElements()
		p.templateStack.pop()
		p.resetInsertionMode()
		return false
	}
	return false
}

// switchTemplateMode replaces the current template insertion mode.
func (p *parser) switchTemplateMode(im InsertionMode) {
	p.templateStack.pop()
	p.templateStack = append(p.templateStack, im)
	p.im = im
}

// Section 12.2.6.4.19.
func afterBodyIM(p *parser) bool {
	switch p.tok.Type {
	case EOFToken:
		// Stop parsing.
		return true
	case CharacterToken:
		s := strings.TrimLeft(p.tok.Data, whitespace)
		if len(s) == 0 {
			// It was all whitespace.
			return inBodyIM(p)
		}
	case StartTagToken:
		if p.tok.DataAtom == a.Html {
			return inBodyIM(p)
		}
	case EndTagToken:
		if p.tok.DataAtom == a.Html {
			if p.context != dom.None {
				// Ignore the token.
				p.unexpected()
				return true
			}
			p.im = AfterAfterBodyMode
			return true
		}
	case CommentToken:
		// The comment is attached to the <html> element.
		if len(p.oe) < 1 || !p.isHTML(p.oe[0], a.Html) {
			p.fail("<html> element not found in the after body insertion mode")
		}
		p.must(p.doc.AppendChild(p.oe[0], p.newComment()))
		return true
	case DoctypeToken:
		// Ignore the token.
		p.unexpected()
		return true
	}
	if p.tok.Type == CharacterToken {
		p.parseError(ErrUnexpectedCharactersAfterBody)
	} else {
		p.unexpected()
	}
	p.im = InBodyMode
	return false
}

// onlyWhitespace drops every character but whitespace.
func onlyWhitespace(s string) string {
	return strings.Map(func(c rune) rune {
		switch c {
		case ' ', '\t', '\n', '\f', '\r':
			return c
		}
		return -1
	}, s)
}

// Section 12.2.6.4.20.
func inFramesetIM(p *parser) bool {
	switch p.tok.Type {
	case CommentToken:
		p.addComment()
	case CharacterToken:
		// Ignore all text but whitespace.
		s := onlyWhitespace(p.tok.Data)
		if len(s) < len(p.tok.Data) {
			p.unexpected()
		}
		p.addText(s)
	case StartTagToken:
		switch p.tok.DataAtom {
		case a.Html:
			return inBodyIM(p)
		case a.Frameset:
			p.addElement()
		case a.Frame:
			p.addElement()
			p.oe.pop()
			p.acknowledgeSelfClosingTag()
		case a.Noframes:
			return inHeadIM(p)
		default:
			p.unexpected()
		}
	case EndTagToken:
		switch p.tok.DataAtom {
		case a.Frameset:
			if p.isHTML(p.oe.top(), a.Html) {
				p.unexpected()
				return true
			}
			p.oe.pop()
			if !p.isHTML(p.oe.top(), a.Frameset) {
				p.im = AfterFramesetMode
			}
		default:
			p.unexpected()
		}
	case EOFToken:
		if len(p.oe) > 1 {
			p.unexpected()
		}
	default:
		// Ignore the token.
		p.unexpected()
	}
	return true
}

// Section 12.2.6.4.21.
func afterFramesetIM(p *parser) bool {
	switch p.tok.Type {
	case CommentToken:
		p.addComment()
	case CharacterToken:
		// Ignore all text but whitespace.
		s := onlyWhitespace(p.tok.Data)
		if len(s) < len(p.tok.Data) {
			p.unexpected()
		}
		p.addText(s)
	case StartTagToken:
		switch p.tok.DataAtom {
		case a.Html:
			return inBodyIM(p)
		case a.Noframes:
			return inHeadIM(p)
		default:
			p.unexpected()
		}
	case EndTagToken:
		switch p.tok.DataAtom {
		case a.Html:
			p.im = AfterAfterFramesetMode
		default:
			p.unexpected()
		}
	case EOFToken:
		// Stop parsing.
	default:
		// Ignore the token.
		p.unexpected()
	}
	return true
}

// Section 12.2.6.4.22.
func afterAfterBodyIM(p *parser) bool {
	switch p.tok.Type {
	case EOFToken:
		// Stop parsing.
		return true
	case CharacterToken:
		s := strings.TrimLeft(p.tok.Data, whitespace)
		if len(s) == 0 {
			// It was all whitespace.
			return inBodyIM(p)
		}
	case StartTagToken:
		if p.tok.DataAtom == a.Html {
			return inBodyIM(p)
		}
	case CommentToken:
		p.must(p.doc.AppendChild(p.doc.Root(), p.newComment()))
		return true
	case DoctypeToken:
		return inBodyIM(p)
	}
	if p.tok.Type == CharacterToken {
		p.parseError(ErrUnexpectedCharactersAfterBody)
	} else {
		p.unexpected()
	}
	p.im = InBodyMode
	return false
}

// Section 12.2.6.4.23.
func afterAfterFramesetIM(p *parser) bool {
	switch p.tok.Type {
	case CommentToken:
		p.must(p.doc.AppendChild(p.doc.Root(), p.newComment()))
	case CharacterToken:
		// Ignore all text but whitespace.
		s := onlyWhitespace(p.tok.Data)
		if len(s) < len(p.tok.Data) {
			p.unexpected()
		}
		if s != "" {
			p.tok.Data = s
			return inBodyIM(p)
		}
	case StartTagToken:
		switch p.tok.DataAtom {
		case a.Html:
			return inBodyIM(p)
		case a.Noframes:
			return inHeadIM(p)
		default:
			p.unexpected()
		}
	case DoctypeToken:
		return inBodyIM(p)
	case EOFToken:
		// Stop parsing.
	default:
		// Ignore the token.
		p.unexpected()
	}
	return true
}
