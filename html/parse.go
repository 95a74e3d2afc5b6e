// Copyright 2010 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// Modifications:
// Copyright 2024 Daniel Potapov
//  - The tree is built in a dom.Document arena.
//  - Insertion modes are an enumeration dispatched by parser.dispatch.
//  - Parse errors are recorded instead of dropped.

package html

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dpotapov/go-htmlast/dom"
	a "golang.org/x/net/html/atom"
)

// tokenSource is what the tree constructor consumes. The Tokenizer is the
// usual source; tests may feed prepared tokens instead.
type tokenSource interface {
	Next() Token
	SwitchTo(State)
	SetLastStartTag(string)
	AllowCDATA(bool)
}

// A parser implements the HTML5 parsing algorithm:
// https://html.spec.whatwg.org/multipage/syntax.html#tree-construction
type parser struct {
	// tokenizer provides the tokens for the parser.
	tokenizer tokenSource
	// tok is the most recently read token.
	tok Token
	// Self-closing tags like <hr/> are treated as start tags, except that
	// hasSelfClosingToken is set while they are being processed.
	hasSelfClosingToken bool
	// doc is the document being built.
	doc *dom.Document
	// The stack of open elements (section 12.2.4.2) and active formatting
	// elements (section 12.2.4.3).
	oe, afe nodeStack
	// Element pointers (section 12.2.4.4).
	head, form dom.NodeID
	// Other parsing state flags (section 12.2.4.5).
	scripting, framesetOK bool
	// The stack of template insertion modes.
	templateStack insertionModeStack
	// im is the current insertion mode.
	im InsertionMode
	// originalIM is the insertion mode to go back to after completing a text
	// or inTableText insertion mode.
	originalIM    InsertionMode
	hasOriginalIM bool
	// fosterParenting is whether new elements should be inserted according to
	// the foster parenting rules (section 12.2.6.1).
	fosterParenting bool
	// pendingText holds the character tokens collected in the in table text
	// insertion mode.
	pendingText    []byte
	pendingTextPos dom.Position
	// context is the context element when parsing an HTML fragment
	// (section 12.4).
	context dom.NodeID
	// errs collects tokenizer and tree construction errors in input order.
	errs ErrorList
}

// ParseOption configures a parser.
type ParseOption func(p *parser)

// ParseOptionEnableScripting configures the scripting flag.
// https://html.spec.whatwg.org/multipage/webappapis.html#enabling-and-disabling-scripting
//
// By default, scripting is enabled.
func ParseOptionEnableScripting(enable bool) ParseOption {
	return func(p *parser) {
		p.scripting = enable
	}
}

// Parse returns the parse tree for the HTML from the given Reader, together
// with the parse errors found on the way. The input is assumed to be UTF-8
// encoded. Parse errors never stop parsing; the returned error is non-nil
// only when reading fails or on a FatalError.
func Parse(r io.Reader, opts ...ParseOption) (*dom.Document, ErrorList, error) {
	t, err := NewTokenizer(r)
	if err != nil {
		return nil, nil, err
	}
	return parseWith(t, "", opts)
}

// ParseString is like Parse but reads from a string.
func ParseString(s string, opts ...ParseOption) (*dom.Document, ErrorList, error) {
	return parseWith(NewTokenizerString(s), "", opts)
}

// ParseFragment parses a fragment of HTML as if it was the content of an
// element named context. The names "svg" and "math" denote the foreign root
// elements; every other name is an HTML element. The fragment nodes are
// returned as the children of the document element, a synthetic <html>.
func ParseFragment(r io.Reader, context string, opts ...ParseOption) (*dom.Document, ErrorList, error) {
	t, err := NewTokenizer(r)
	if err != nil {
		return nil, nil, err
	}
	return parseWith(t, context, opts)
}

// ParseTokens builds a tree from a prepared token sequence. A trailing
// EOFToken is implied. Tokenizer state changes requested by the tree
// constructor are ignored.
func ParseTokens(tokens []Token, opts ...ParseOption) (*dom.Document, ErrorList, error) {
	return parseWith(&tokenSlice{toks: tokens}, "", opts)
}

func parseWith(src tokenSource, context string, opts []ParseOption) (*dom.Document, ErrorList, error) {
	p := &parser{
		tokenizer:  src,
		doc:        dom.NewDocument(),
		scripting:  true,
		framesetOK: true,
		im:         InitialMode,
	}
	for _, f := range opts {
		f(p)
	}
	if t, ok := src.(*Tokenizer); ok {
		t.SetErrorHandler(func(e *ParseError) {
			p.errs = append(p.errs, e)
		})
	}
	if context != "" {
		if err := p.initFragment(context); err != nil {
			return nil, nil, &FatalError{Err: fmt.Errorf("fragment context: %w", err)}
		}
	}
	if err := p.parse(); err != nil {
		return nil, p.errs, err
	}
	if p.context != dom.None {
		if err := p.doc.Remove(p.context); err != nil {
			return nil, p.errs, &FatalError{Err: err}
		}
	}
	// Tokenizer errors are reported ahead of the tokens buffered with them.
	slices.SortStableFunc(p.errs, func(x, y *ParseError) int {
		return cmp.Compare(x.Pos.Offset, y.Pos.Offset)
	})
	return p.doc, p.errs, nil
}

// initFragment prepares the parser for the fragment parsing algorithm. It
// fails if context is not a valid tag name. Section 12.4.
func (p *parser) initFragment(context string) error {
	ns := dom.HTML
	switch strings.ToLower(context) {
	case "svg":
		ns = dom.SVG
	case "math":
		ns = dom.MathML
	}
	n, err := p.doc.CreateElement(ns, context)
	if err != nil {
		return err
	}
	p.context = n

	switch p.doc.Atom(n) {
	case a.Title, a.Textarea:
		p.tokenizer.SwitchTo(RCDATAState)
	case a.Style, a.Xmp, a.Iframe, a.Noembed, a.Noframes:
		p.tokenizer.SwitchTo(RAWTEXTState)
	case a.Script:
		p.tokenizer.SwitchTo(ScriptDataState)
	case a.Noscript:
		if p.scripting {
			p.tokenizer.SwitchTo(RAWTEXTState)
		}
	case a.Plaintext:
		p.tokenizer.SwitchTo(PLAINTEXTState)
	}
	if ns == dom.HTML {
		p.tokenizer.SetLastStartTag(p.doc.Data(n))
	}

	root := p.doc.Create(dom.Node{Kind: dom.ElementNode, DataAtom: a.Html, Data: a.Html.String()})
	if err := p.doc.AppendChild(p.doc.Root(), root); err != nil {
		return err
	}
	p.oe = nodeStack{root}
	if p.isHTML(n, a.Template) {
		p.templateStack = append(p.templateStack, InTemplateMode)
	}
	p.resetInsertionMode()
	return nil
}

// must turns a failed tree mutation into an invariant violation. Mutations
// made by the parser are valid by construction, so a failure is a bug.
func (p *parser) must(err error) {
	if err != nil {
		panic(invariantError{err: err})
	}
}

// fail reports an internal inconsistency of the parser state.
func (p *parser) fail(format string, args ...any) {
	panic(invariantError{err: fmt.Errorf(format, args...)})
}

// parseError records a tree construction error at the current token.
func (p *parser) parseError(code ErrorCode) {
	e := &ParseError{Pos: p.tok.Pos, Code: code}
	if p.tok.Type == StartTagToken || p.tok.Type == EndTagToken {
		e.Tag = p.tok.Data
	}
	p.errs = append(p.errs, e)
}

// unexpected records the generic error for a token that is ignored or
// handled out of place.
func (p *parser) unexpected() {
	switch p.tok.Type {
	case StartTagToken:
		p.parseError(ErrUnexpectedStartTag)
	case EndTagToken:
		p.parseError(ErrUnexpectedEndTag)
	case CharacterToken:
		p.parseError(ErrUnexpectedCharacters)
	case DoctypeToken:
		p.parseError(ErrUnexpectedDoctype)
	case EOFToken:
		p.parseError(ErrEOFWithOpenElements)
	}
}

func (p *parser) top() dom.NodeID {
	if n := p.oe.top(); n != dom.None {
		return n
	}
	return p.doc.Root()
}

// isHTML reports whether n is the HTML element with the given atom.
func (p *parser) isHTML(n dom.NodeID, tag a.Atom) bool {
	return p.doc.IsElement(n, dom.HTML, tag)
}

// atomHTML returns the atom of an HTML element, and 0 for foreign elements.
func (p *parser) atomHTML(n dom.NodeID) a.Atom {
	if n == scopeMarker || p.doc.Namespace(n) != dom.HTML {
		return 0
	}
	return p.doc.Atom(n)
}

// Stop tags for use in popUntil. These come from section 12.2.4.2.
var defaultScopeStopTags = map[dom.Namespace][]a.Atom{
	dom.HTML:   {a.Applet, a.Caption, a.Html, a.Table, a.Td, a.Th, a.Marquee, a.Object, a.Template},
	dom.MathML: {a.AnnotationXml, a.Mi, a.Mn, a.Mo, a.Ms, a.Mtext},
	dom.SVG:    {a.Desc, a.ForeignObject, a.Title},
}

type scope int

const (
	defaultScope scope = iota
	listItemScope
	buttonScope
	tableScope
	tableRowScope
	tableBodyScope
	selectScope
)

// popUntil pops the stack of open elements at the highest element whose tag
// is in matchTags, provided there is no higher element in the scope's stop
// tags (as defined in section 12.2.4.2). It returns whether or not there was
// such an element. If there was not, popUntil leaves the stack unchanged.
//
// For example, the set of stop tags for table scope is: "html", "table". If
// the stack was:
// ["html", "body", "font", "table", "b", "i", "u"]
// then popUntil(tableScope, "font") would return false, but
// popUntil(tableScope, "i") would return true and the stack would become:
// ["html", "body", "font", "table", "b"]
func (p *parser) popUntil(s scope, matchTags ...a.Atom) bool {
	if i := p.indexOfElementInScope(s, matchTags...); i != -1 {
		p.oe = p.oe[:i]
		return true
	}
	return false
}

// indexOfElementInScope returns the index in p.oe of the highest element whose
// tag is in matchTags that is in scope. If no matching element is in scope, it
// returns -1.
func (p *parser) indexOfElementInScope(s scope, matchTags ...a.Atom) int {
	for i := len(p.oe) - 1; i >= 0; i-- {
		n := p.oe[i]
		ns, tagAtom := p.doc.Namespace(n), p.doc.Atom(n)
		if ns == dom.HTML {
			for _, t := range matchTags {
				if t == tagAtom {
					return i
				}
			}
			switch s {
			case defaultScope:
				// No-op.
			case listItemScope:
				if tagAtom == a.Ol || tagAtom == a.Ul {
					return -1
				}
			case buttonScope:
				if tagAtom == a.Button {
					return -1
				}
			case tableScope:
				if tagAtom == a.Html || tagAtom == a.Table || tagAtom == a.Template {
					return -1
				}
			case selectScope:
				if tagAtom != a.Optgroup && tagAtom != a.Option {
					return -1
				}
			default:
				p.fail("scope %d has no stop tags", s)
			}
		}
		switch s {
		case defaultScope, listItemScope, buttonScope:
			for _, t := range defaultScopeStopTags[ns] {
				if t == tagAtom {
					return -1
				}
			}
		}
	}
	return -1
}

// elementInScope is like popUntil, except that it doesn't modify the stack of
// open elements.
func (p *parser) elementInScope(s scope, matchTags ...a.Atom) bool {
	return p.indexOfElementInScope(s, matchTags...) != -1
}

// closeElement handles an end tag for an element that is closed with implied
// end tags generated first, such as </div> or </li>. It reports whether the
// element was in scope.
func (p *parser) closeElement(s scope, matchTags ...a.Atom) bool {
	i := p.indexOfElementInScope(s, matchTags...)
	if i == -1 {
		p.unexpected()
		return false
	}
	p.generateImpliedEndTags(p.tok.Data)
	if top := p.oe.top(); top != p.oe[i] || p.doc.Data(top) != p.tok.Data {
		p.parseError(ErrEndTagWithUnclosedElements)
	}
	p.oe = p.oe[:i]
	return true
}

// clearStackToContext pops elements off the stack of open elements until a
// scope-defined element is found.
func (p *parser) clearStackToContext(s scope) {
	for i := len(p.oe) - 1; i >= 0; i-- {
		tagAtom := p.atomHTML(p.oe[i])
		switch s {
		case tableScope:
			if tagAtom == a.Html || tagAtom == a.Table || tagAtom == a.Template {
				p.oe = p.oe[:i+1]
				return
			}
		case tableRowScope:
			if tagAtom == a.Html || tagAtom == a.Tr || tagAtom == a.Template {
				p.oe = p.oe[:i+1]
				return
			}
		case tableBodyScope:
			if tagAtom == a.Html || tagAtom == a.Tbody || tagAtom == a.Tfoot || tagAtom == a.Thead || tagAtom == a.Template {
				p.oe = p.oe[:i+1]
				return
			}
		default:
			p.fail("scope %d is not a table context", s)
		}
	}
}

// parseGenericRawTextElement implements the generic raw text element parsing
// algorithm defined in 12.2.6.2.
// https://html.spec.whatwg.org/multipage/parsing.html#parsing-elements-that-contain-only-text
func (p *parser) parseGenericRawTextElement() {
	p.parseTextElement(RAWTEXTState)
}

// parseGenericRCDATAElement is the RCDATA variant of
// parseGenericRawTextElement.
func (p *parser) parseGenericRCDATAElement() {
	p.parseTextElement(RCDATAState)
}

func (p *parser) parseTextElement(s State) {
	p.addElement()
	p.tokenizer.SwitchTo(s)
	p.setOriginalIM()
	p.im = TextMode
}

// generateImpliedEndTags pops nodes off the stack of open elements as long as
// the top node has a tag name of dd, dt, li, optgroup, option, p, rb, rp, rt or rtc.
// If exceptions are specified, nodes with that name will not be popped off.
func (p *parser) generateImpliedEndTags(exceptions ...string) {
	var i int
loop:
	for i = len(p.oe) - 1; i >= 0; i-- {
		n := p.oe[i]
		switch p.atomHTML(n) {
		case a.Dd, a.Dt, a.Li, a.Optgroup, a.Option, a.P, a.Rb, a.Rp, a.Rt, a.Rtc:
			for _, except := range exceptions {
				if p.doc.Data(n) == except {
					break loop
				}
			}
			continue
		}
		break
	}

	p.oe = p.oe[:i+1]
}

// generateAllImpliedEndTagsThoroughly also pops table sections and cells.
func (p *parser) generateAllImpliedEndTagsThoroughly() {
	for len(p.oe) > 0 {
		switch p.atomHTML(p.oe.top()) {
		case a.Caption, a.Colgroup, a.Dd, a.Dt, a.Li, a.Optgroup, a.Option, a.P, a.Rb, a.Rp, a.Rt, a.Rtc,
			a.Tbody, a.Td, a.Tfoot, a.Th, a.Thead, a.Tr:
			p.oe.pop()
			continue
		}
		return
	}
}

// insertionLocation returns the appropriate place for inserting a node: the
// parent and the sibling to insert before, None meaning at the end.
// Section 12.2.6.1.
func (p *parser) insertionLocation() (parent, ref dom.NodeID) {
	target := p.top()
	if p.fosterParenting {
		switch p.atomHTML(target) {
		case a.Table, a.Tbody, a.Tfoot, a.Thead, a.Tr:
			return p.fosterLocation()
		}
	}
	return target, dom.None
}

// fosterLocation returns the insertion location according to the foster
// parenting rules. Section 12.2.6.1, "foster parenting".
func (p *parser) fosterLocation() (parent, ref dom.NodeID) {
	var table, template dom.NodeID
	var i int
	for i = len(p.oe) - 1; i >= 0; i-- {
		if p.isHTML(p.oe[i], a.Table) {
			table = p.oe[i]
			break
		}
	}

	var j int
	for j = len(p.oe) - 1; j >= 0; j-- {
		if p.isHTML(p.oe[j], a.Template) {
			template = p.oe[j]
			break
		}
	}

	if template != dom.None && (table == dom.None || j > i) {
		return template, dom.None
	}
	if table == dom.None {
		// The foster parent is the html element.
		return p.oe[0], dom.None
	}
	if parent = p.doc.Parent(table); parent != dom.None {
		return parent, table
	}
	return p.oe[i-1], dom.None
}

// insertAt inserts n at the given location. A text node is merged into a
// preceding text sibling instead, in which case n is discarded and the
// sibling returned.
func (p *parser) insertAt(parent, ref, n dom.NodeID) dom.NodeID {
	if p.doc.Kind(n) == dom.TextNode {
		prev := p.doc.LastChild(parent)
		if ref != dom.None {
			prev = p.doc.PrevSibling(ref)
		}
		if p.doc.Kind(prev) == dom.TextNode {
			p.must(p.doc.AppendData(prev, p.doc.Data(n)))
			p.must(p.doc.Remove(n))
			return prev
		}
	}
	p.must(p.doc.InsertBefore(parent, n, ref))
	return n
}

// addChild adds a child node n at the appropriate place, and pushes n onto
// the stack of open elements if it is an element node.
func (p *parser) addChild(n dom.NodeID) {
	parent, ref := p.insertionLocation()
	p.insertAt(parent, ref, n)

	if p.doc.Kind(n) == dom.ElementNode {
		p.oe = append(p.oe, n)
	}
}

// addText adds text to the preceding node if it is a text node, or else it
// calls addChild with a new text node.
func (p *parser) addText(text string) {
	if text == "" {
		return
	}
	parent, ref := p.insertionLocation()
	prev := p.doc.LastChild(parent)
	if ref != dom.None {
		prev = p.doc.PrevSibling(ref)
	}
	if p.doc.Kind(prev) == dom.TextNode {
		p.must(p.doc.AppendData(prev, text))
		return
	}
	n := p.doc.Create(dom.Node{Kind: dom.TextNode, Data: text, Pos: p.tok.Pos})
	p.must(p.doc.InsertBefore(parent, n, ref))
}

// addComment adds a comment node for the current token at the appropriate
// place.
func (p *parser) addComment() {
	p.addChild(p.newComment())
}

func (p *parser) newComment() dom.NodeID {
	return p.doc.Create(dom.Node{Kind: dom.CommentNode, Data: p.tok.Data, Pos: p.tok.Pos})
}

// addElement adds a child element based on the current token.
func (p *parser) addElement() {
	p.addForeignElement(dom.HTML)
}

// addForeignElement adds a child element in the given namespace.
func (p *parser) addForeignElement(ns dom.Namespace) {
	tagAtom := p.tok.DataAtom
	if ns != dom.HTML {
		tagAtom = a.Lookup([]byte(p.tok.Data))
	}
	p.addChild(p.doc.Create(dom.Node{
		Kind:      dom.ElementNode,
		DataAtom:  tagAtom,
		Data:      p.tok.Data,
		Namespace: ns,
		Attr:      p.tok.Attr,
		Pos:       p.tok.Pos,
	}))
}

// Section 12.2.4.3.
func (p *parser) addFormattingElement() {
	tagAtom, attr := p.tok.DataAtom, p.tok.Attr
	p.addElement()

	// Implement the Noah's Ark clause, but with three per family instead of two.
	identicalElements := 0
findIdenticalElements:
	for i := len(p.afe) - 1; i >= 0; i-- {
		n := p.afe[i]
		if n == scopeMarker {
			break
		}
		if p.atomHTML(n) != tagAtom {
			continue
		}
		nattr := p.doc.Attrs(n)
		if len(nattr) != len(attr) {
			continue
		}
	compareAttributes:
		for _, t0 := range nattr {
			for _, t1 := range attr {
				if t0.Key == t1.Key && t0.Namespace == t1.Namespace && t0.Val == t1.Val {
					// Found a match for this attribute, continue with the next attribute.
					continue compareAttributes
				}
			}
			// If we get here, there is no attribute that matches a.
			// Therefore the element is not identical to the new one.
			continue findIdenticalElements
		}

		identicalElements++
		if identicalElements >= 3 {
			p.afe.remove(n)
		}
	}

	p.afe = append(p.afe, p.top())
}

// Section 12.2.4.3.
func (p *parser) clearActiveFormattingElements() {
	for len(p.afe) > 0 {
		if n := p.afe.pop(); n == scopeMarker {
			return
		}
	}
}

// Section 12.2.4.3.
func (p *parser) reconstructActiveFormattingElements() {
	n := p.afe.top()
	if n == dom.None {
		return
	}
	if n == scopeMarker || p.oe.index(n) != -1 {
		return
	}
	i := len(p.afe) - 1
	for n != scopeMarker && p.oe.index(n) == -1 {
		if i == 0 {
			i = -1
			break
		}
		i--
		n = p.afe[i]
	}
	for {
		i++
		clone, err := p.doc.Clone(p.afe[i])
		p.must(err)
		p.addChild(clone)
		p.afe[i] = clone
		if i == len(p.afe)-1 {
			break
		}
	}
}

// Section 12.2.5.
func (p *parser) acknowledgeSelfClosingTag() {
	p.hasSelfClosingToken = false
}

// setOriginalIM sets the insertion mode to return to after completing a text or
// inTableText insertion mode.
// Section 12.2.4.1, "using the rules for".
func (p *parser) setOriginalIM() {
	if p.hasOriginalIM {
		p.fail("originalIM was set twice")
	}
	p.originalIM = p.im
	p.hasOriginalIM = true
}

// restoreOriginalIM switches back to the insertion mode saved by
// setOriginalIM.
func (p *parser) restoreOriginalIM() {
	if !p.hasOriginalIM {
		p.fail("originalIM is not set in %s", p.im)
	}
	p.im = p.originalIM
	p.hasOriginalIM = false
}

// Section 12.2.4.1, "reset the insertion mode".
func (p *parser) resetInsertionMode() {
	for i := len(p.oe) - 1; i >= 0; i-- {
		n := p.oe[i]
		last := i == 0
		if last && p.context != dom.None {
			n = p.context
		}

		switch p.atomHTML(n) {
		case a.Select:
			if !last {
				for j := i - 1; j > 0; j-- {
					switch p.atomHTML(p.oe[j]) {
					case a.Template:
						p.im = InSelectMode
						return
					case a.Table:
						p.im = InSelectInTableMode
						return
					}
				}
			}
			p.im = InSelectMode
		case a.Td, a.Th:
			if last {
				p.im = InBodyMode
				return
			}
			p.im = InCellMode
		case a.Tr:
			p.im = InRowMode
		case a.Tbody, a.Thead, a.Tfoot:
			p.im = InTableBodyMode
		case a.Caption:
			p.im = InCaptionMode
		case a.Colgroup:
			p.im = InColumnGroupMode
		case a.Table:
			p.im = InTableMode
		case a.Template:
			im, ok := p.templateStack.top()
			if !ok {
				p.fail("template element without a template insertion mode")
			}
			p.im = im
		case a.Head:
			if last {
				p.im = InBodyMode
				return
			}
			p.im = InHeadMode
		case a.Body:
			p.im = InBodyMode
		case a.Frameset:
			p.im = InFramesetMode
		case a.Html:
			if p.head == dom.None {
				p.im = BeforeHeadMode
			} else {
				p.im = AfterHeadMode
			}
		default:
			if last {
				p.im = InBodyMode
				return
			}
			continue
		}
		return
	}
}

const whitespace = " \t\r\n\f"

// parseImpliedToken parses a token as though it had appeared in the parser's
// input.
func (p *parser) parseImpliedToken(t TokenType, dataAtom a.Atom, data string) {
	realToken, selfClosing := p.tok, p.hasSelfClosingToken
	p.tok = Token{
		Type:     t,
		DataAtom: dataAtom,
		Data:     data,
		Pos:      realToken.Pos,
	}
	p.hasSelfClosingToken = false
	p.parseCurrentToken()
	p.tok, p.hasSelfClosingToken = realToken, selfClosing
}

// parseCurrentToken runs the current token through the parsing routines
// until it is consumed.
func (p *parser) parseCurrentToken() {
	if p.tok.Type == StartTagToken && p.tok.SelfClosing {
		p.hasSelfClosingToken = true
	}

	// Every reprocessing step either consumes the token, pops the stack of
	// open elements or moves to a mode that does one of the two.
	budget := 64 + 4*len(p.oe)
	consumed := false
	for !consumed {
		if budget--; budget < 0 {
			p.fail("token %v is never consumed in %s", p.tok.Type, p.im)
		}
		if p.inForeignContent() {
			consumed = parseForeignContent(p)
		} else {
			consumed = p.dispatch(p.im)
		}
	}

	if p.hasSelfClosingToken {
		// This is a parse error, but ignore it.
		p.parseError(ErrNonVoidSelfClosingTag)
		p.hasSelfClosingToken = false
	}
}

func (p *parser) parse() (err error) {
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(invariantError)
			if !ok {
				panic(r)
			}
			err = &FatalError{Err: ie.err}
		}
	}()

	for {
		n := p.adjustedCurrentNode()
		p.tokenizer.AllowCDATA(n != dom.None && p.doc.Namespace(n) != dom.HTML)
		p.tok = p.tokenizer.Next()
		if p.tok.Type == EOFToken {
			p.parseCurrentToken()
			return nil
		}
		p.parseCurrentToken()
	}
}

// tokenSlice is a tokenSource over prepared tokens.
type tokenSlice struct {
	toks []Token
	pos  int
}

func (s *tokenSlice) Next() Token {
	if s.pos >= len(s.toks) {
		return Token{Type: EOFToken}
	}
	t := s.toks[s.pos]
	s.pos++
	if t.Type == StartTagToken || t.Type == EndTagToken {
		t.Data = strings.ToLower(t.Data)
		if t.DataAtom == 0 {
			t.DataAtom = a.Lookup([]byte(t.Data))
		}
	}
	return t
}

func (s *tokenSlice) SwitchTo(State)         {}
func (s *tokenSlice) SetLastStartTag(string) {}
func (s *tokenSlice) AllowCDATA(bool)        {}
