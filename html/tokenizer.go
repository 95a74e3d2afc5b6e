package html

import (
	"io"
	"iter"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dpotapov/go-htmlast/dom"
	"golang.org/x/net/html/atom"
)

const eof = -1

// A Tokenizer returns a stream of HTML Tokens. It implements the WHATWG
// tokenization state machine over newline-normalized input. Parse errors are
// reported to the error handler (see SetErrorHandler) or collected and
// available from Errors.
type Tokenizer struct {
	src   string
	lines []int // offsets of line starts
	pos   int
	size  int // width of the last rune read, for reconsuming it

	state        State
	allowCDATA   bool
	lastStartTag string

	report func(*ParseError)
	errs   ErrorList

	pending []Token
	head    int // index of the next pending token
	eof     bool

	// Text run being accumulated into a CharacterToken.
	text      []byte
	textStart int

	// tokStart is the offset of the '<' that started the current markup.
	tokStart int

	tag     tagBuilder
	tmp     []byte
	comment []byte
	doctype doctypeBuilder

	// Cache for position, which is asked for mostly in increasing order.
	pcLine, pcOff, pcCol int
}

type tagBuilder struct {
	end         bool
	name        []byte
	attrs       []dom.Attribute
	selfClosing bool

	inAttr   bool
	attrName []byte
	attrVal  []byte
	attrPos  int
}

type doctypeBuilder struct {
	name, publicID, systemID []byte
	hasName, hasPublic       bool
	hasSystem, forceQuirks   bool
}

// NewTokenizer returns a new HTML Tokenizer for the given Reader. The input
// is assumed to be UTF-8 encoded.
func NewTokenizer(r io.Reader) (*Tokenizer, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewTokenizerString(string(b)), nil
}

// NewTokenizerString returns a new HTML Tokenizer for the given string.
func NewTokenizerString(s string) *Tokenizer {
	src, lines := preprocess(s)
	return &Tokenizer{src: src, lines: lines, pcLine: -1}
}

// preprocess replaces invalid UTF-8 with U+FFFD, drops a leading byte order
// mark and normalizes CR LF and lone CR to LF. It returns the offsets of the
// line starts.
func preprocess(s string) (string, []int) {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "\uFFFD")
	}
	s = strings.TrimPrefix(s, "\uFEFF")
	if strings.IndexByte(s, '\r') >= 0 {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
	}
	lines := []int{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return s, lines
}

// SetErrorHandler registers a function receiving every parse error. Without
// a handler, errors are collected and returned by Errors.
func (t *Tokenizer) SetErrorHandler(f func(*ParseError)) {
	t.report = f
}

// Errors returns the collected parse errors.
func (t *Tokenizer) Errors() ErrorList {
	return t.errs
}

// State returns the current tokenizer state.
func (t *Tokenizer) State() State {
	return t.state
}

// SwitchTo changes the tokenizer state. The tree constructor uses it to
// switch to RCDATA, RAWTEXT, script data or PLAINTEXT after a start tag.
func (t *Tokenizer) SwitchTo(s State) {
	t.state = s
}

// SetLastStartTag sets the tag name used to recognize an appropriate end tag
// in RCDATA, RAWTEXT and script data.
func (t *Tokenizer) SetLastStartTag(name string) {
	t.lastStartTag = name
}

// AllowCDATA sets whether <![CDATA[ sections are recognized. They are only
// allowed when the adjusted current node is in a foreign namespace.
func (t *Tokenizer) AllowCDATA(allow bool) {
	t.allowCDATA = allow
}

// Position converts a byte offset of the normalized input into a position.
func (t *Tokenizer) Position(off int) dom.Position {
	if off > len(t.src) {
		off = len(t.src)
	}
	line := sort.SearchInts(t.lines, off+1) - 1
	var col int
	if line == t.pcLine && t.pcOff <= off {
		col = t.pcCol + utf8.RuneCountInString(t.src[t.pcOff:off])
	} else {
		col = 1 + utf8.RuneCountInString(t.src[t.lines[line]:off])
	}
	t.pcLine, t.pcOff, t.pcCol = line, off, col
	return dom.Position{Offset: off, Line: line + 1, Column: col}
}

// Next returns the next token. After the input is exhausted it keeps
// returning an EOFToken.
func (t *Tokenizer) Next() Token {
	for t.head >= len(t.pending) {
		if t.eof {
			return Token{Type: EOFToken, Pos: t.Position(len(t.src))}
		}
		t.pending = t.pending[:0]
		t.head = 0
		t.step()
	}
	tok := t.pending[t.head]
	t.pending[t.head] = Token{}
	t.head++
	return tok
}

// All returns an iterator over the remaining tokens, ending with the
// EOFToken.
func (t *Tokenizer) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			tok := t.Next()
			if !yield(tok) || tok.Type == EOFToken {
				return
			}
		}
	}
}

func (t *Tokenizer) next() rune {
	if t.pos >= len(t.src) {
		t.size = 0
		return eof
	}
	if c := t.src[t.pos]; c < utf8.RuneSelf {
		t.size = 1
		t.pos++
		return rune(c)
	}
	r, n := utf8.DecodeRuneInString(t.src[t.pos:])
	t.size = n
	t.pos += n
	return r
}

// reconsume pushes back the last rune read, to be processed again in s.
func (t *Tokenizer) reconsume(s State) {
	t.pos -= t.size
	t.size = 0
	t.state = s
}

// cur returns the offset of the last rune read.
func (t *Tokenizer) cur() int {
	return t.pos - t.size
}

func (t *Tokenizer) parseError(off int, code ErrorCode) {
	e := &ParseError{Pos: t.Position(off), Code: code}
	if t.report != nil {
		t.report(e)
		return
	}
	t.errs = append(t.errs, e)
}

func (t *Tokenizer) appendText(off int, s string) {
	if len(t.text) == 0 {
		t.textStart = off
	}
	t.text = append(t.text, s...)
}

func (t *Tokenizer) appendRune(off int, r rune) {
	if len(t.text) == 0 {
		t.textStart = off
	}
	t.text = utf8.AppendRune(t.text, r)
}

// textRun appends the run of characters not in stop to the pending text and
// reports whether it consumed anything.
func (t *Tokenizer) textRun(stop string) bool {
	i := strings.IndexAny(t.src[t.pos:], stop)
	if i == 0 {
		return false
	}
	if i == -1 {
		i = len(t.src) - t.pos
	}
	if i == 0 {
		return false
	}
	t.appendText(t.pos, t.src[t.pos:t.pos+i])
	t.pos += i
	t.size = 0
	return true
}

func (t *Tokenizer) flushText() {
	if len(t.text) == 0 {
		return
	}
	t.pending = append(t.pending, Token{
		Type: CharacterToken,
		Data: string(t.text),
		Pos:  t.Position(t.textStart),
	})
	t.text = t.text[:0]
}

func (t *Tokenizer) push(tok Token) {
	t.flushText()
	t.pending = append(t.pending, tok)
}

func (t *Tokenizer) emitEOF() {
	t.flushText()
	t.pending = append(t.pending, Token{Type: EOFToken, Pos: t.Position(len(t.src))})
	t.eof = true
}

func (t *Tokenizer) newTag(end bool) {
	t.tag.end = end
	t.tag.name = t.tag.name[:0]
	t.tag.attrs = nil
	t.tag.selfClosing = false
	t.tag.inAttr = false
}

func (t *Tokenizer) startAttr(off int) {
	t.commitAttr()
	t.tag.inAttr = true
	t.tag.attrName = t.tag.attrName[:0]
	t.tag.attrVal = t.tag.attrVal[:0]
	t.tag.attrPos = off
}

// commitAttr adds the current attribute to the tag. Duplicate attributes are
// dropped, the first one wins.
func (t *Tokenizer) commitAttr() {
	if !t.tag.inAttr {
		return
	}
	t.tag.inAttr = false
	for _, a := range t.tag.attrs {
		if a.Key == string(t.tag.attrName) {
			t.parseError(t.tag.attrPos, ErrDuplicateAttribute)
			return
		}
	}
	t.tag.attrs = append(t.tag.attrs, dom.Attribute{
		Key: string(t.tag.attrName),
		Val: string(t.tag.attrVal),
	})
}

func (t *Tokenizer) emitTag() {
	t.commitAttr()
	tok := Token{
		DataAtom: atom.Lookup(t.tag.name),
		Pos:      t.Position(t.tokStart),
	}
	if tok.DataAtom != 0 {
		tok.Data = tok.DataAtom.String()
	} else {
		tok.Data = string(t.tag.name)
	}
	if t.tag.end {
		tok.Type = EndTagToken
		if len(t.tag.attrs) > 0 {
			t.parseError(t.tokStart, ErrEndTagWithAttributes)
		}
		if t.tag.selfClosing {
			t.parseError(t.tokStart, ErrEndTagWithTrailingSolidus)
		}
	} else {
		tok.Type = StartTagToken
		tok.Attr = t.tag.attrs
		tok.SelfClosing = t.tag.selfClosing
		t.lastStartTag = tok.Data
	}
	t.tag.attrs = nil
	t.state = DataState
	t.push(tok)
}

// appropriateEndTag reports whether the end tag being built matches the last
// start tag.
func (t *Tokenizer) appropriateEndTag() bool {
	return t.lastStartTag != "" && string(t.tag.name) == t.lastStartTag
}

func (t *Tokenizer) emitComment() {
	t.push(Token{Type: CommentToken, Data: string(t.comment), Pos: t.Position(t.tokStart)})
}

func (t *Tokenizer) newDoctype() {
	t.doctype = doctypeBuilder{name: t.doctype.name[:0]}
}

func (t *Tokenizer) emitDoctype() {
	d := &t.doctype
	t.push(Token{
		Type:        DoctypeToken,
		Data:        string(d.name),
		PublicID:    string(d.publicID),
		SystemID:    string(d.systemID),
		HasPublicID: d.hasPublic,
		HasSystemID: d.hasSystem,
		ForceQuirks: d.forceQuirks,
		Pos:         t.Position(t.tokStart),
	})
}

// eofInDoctype handles end of input inside a doctype.
func (t *Tokenizer) eofInDoctype() {
	t.parseError(t.cur(), ErrEOFInDoctype)
	t.doctype.forceQuirks = true
	t.emitDoctype()
	t.emitEOF()
}

func isWhitespace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\f'
}

func isASCIIAlpha(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isASCIIUpper(c rune) bool {
	return 'A' <= c && c <= 'Z'
}

func toLower(c rune) rune {
	if isASCIIUpper(c) {
		return c + 'a' - 'A'
	}
	return c
}

// hasPrefixFold reports whether the unread input starts with prefix,
// ignoring ASCII case.
func (t *Tokenizer) hasPrefixFold(prefix string) bool {
	return len(t.src)-t.pos >= len(prefix) && strings.EqualFold(t.src[t.pos:t.pos+len(prefix)], prefix)
}

// step consumes input and runs state transitions until at least one rune
// has been processed.
func (t *Tokenizer) step() {
	switch t.state {
	case DataState, RCDATAState, RAWTEXTState, ScriptDataState, PLAINTEXTState:
		t.stepText()
	case TagOpenState, EndTagOpenState, TagNameState:
		t.stepTag()
	case RCDATALessThanSignState, RCDATAEndTagOpenState, RCDATAEndTagNameState,
		RAWTEXTLessThanSignState, RAWTEXTEndTagOpenState, RAWTEXTEndTagNameState,
		ScriptDataLessThanSignState, ScriptDataEndTagOpenState, ScriptDataEndTagNameState,
		ScriptDataEscapedEndTagOpenState, ScriptDataEscapedEndTagNameState:
		t.stepRawEndTag()
	case ScriptDataEscapeStartState, ScriptDataEscapeStartDashState,
		ScriptDataEscapedState, ScriptDataEscapedDashState, ScriptDataEscapedDashDashState,
		ScriptDataEscapedLessThanSignState, ScriptDataDoubleEscapeStartState,
		ScriptDataDoubleEscapedState, ScriptDataDoubleEscapedDashState,
		ScriptDataDoubleEscapedDashDashState, ScriptDataDoubleEscapedLessThanSignState,
		ScriptDataDoubleEscapeEndState:
		t.stepScriptEscaped()
	case BeforeAttributeNameState, AttributeNameState, AfterAttributeNameState,
		BeforeAttributeValueState, AttributeValueDoubleQuotedState,
		AttributeValueSingleQuotedState, AttributeValueUnquotedState,
		AfterAttributeValueQuotedState, SelfClosingStartTagState:
		t.stepAttr()
	case BogusCommentState, MarkupDeclarationOpenState, CommentStartState,
		CommentStartDashState, CommentState, CommentLessThanSignState,
		CommentLessThanSignBangState, CommentLessThanSignBangDashState,
		CommentLessThanSignBangDashDashState, CommentEndDashState, CommentEndState,
		CommentEndBangState:
		t.stepComment()
	case CDATASectionState, CDATASectionBracketState, CDATASectionEndState:
		t.stepCDATA()
	default:
		t.stepDoctype()
	}
}

func (t *Tokenizer) stepText() {
	switch t.state {
	case DataState:
		if t.textRun("<&\x00") {
			return
		}
		switch c := t.next(); c {
		case '&':
			t.charRef(false)
		case '<':
			t.tokStart = t.cur()
			t.state = TagOpenState
		case 0:
			// The tree constructor drops or replaces the NUL depending on
			// where it ends up.
			t.parseError(t.cur(), ErrUnexpectedNullCharacter)
			t.appendText(t.cur(), "\x00")
		case eof:
			t.emitEOF()
		}
	case RCDATAState:
		if t.textRun("<&\x00") {
			return
		}
		switch c := t.next(); c {
		case '&':
			t.charRef(false)
		case '<':
			t.tokStart = t.cur()
			t.state = RCDATALessThanSignState
		case 0:
			t.parseError(t.cur(), ErrUnexpectedNullCharacter)
			t.appendText(t.cur(), "\uFFFD")
		case eof:
			t.emitEOF()
		}
	case RAWTEXTState, ScriptDataState:
		if t.textRun("<\x00") {
			return
		}
		switch c := t.next(); c {
		case '<':
			t.tokStart = t.cur()
			if t.state == RAWTEXTState {
				t.state = RAWTEXTLessThanSignState
			} else {
				t.state = ScriptDataLessThanSignState
			}
		case 0:
			t.parseError(t.cur(), ErrUnexpectedNullCharacter)
			t.appendText(t.cur(), "\uFFFD")
		case eof:
			t.emitEOF()
		}
	case PLAINTEXTState:
		if t.textRun("\x00") {
			return
		}
		switch c := t.next(); c {
		case 0:
			t.parseError(t.cur(), ErrUnexpectedNullCharacter)
			t.appendText(t.cur(), "\uFFFD")
		case eof:
			t.emitEOF()
		}
	}
}

func (t *Tokenizer) stepTag() {
	c := t.next()
	switch t.state {
	case TagOpenState:
		switch {
		case c == '!':
			t.state = MarkupDeclarationOpenState
		case c == '/':
			t.state = EndTagOpenState
		case isASCIIAlpha(c):
			t.newTag(false)
			t.reconsume(TagNameState)
		case c == '?':
			t.parseError(t.cur(), ErrUnexpectedQuestionMarkInsteadOfTagName)
			t.comment = t.comment[:0]
			t.reconsume(BogusCommentState)
		case c == eof:
			t.parseError(t.cur(), ErrEOFBeforeTagName)
			t.appendText(t.tokStart, "<")
			t.emitEOF()
		default:
			t.parseError(t.cur(), ErrInvalidFirstCharacterOfTagName)
			t.appendText(t.tokStart, "<")
			t.reconsume(DataState)
		}
	case EndTagOpenState:
		switch {
		case isASCIIAlpha(c):
			t.newTag(true)
			t.reconsume(TagNameState)
		case c == '>':
			t.parseError(t.cur(), ErrMissingEndTagName)
			t.state = DataState
		case c == eof:
			t.parseError(t.cur(), ErrEOFBeforeTagName)
			t.appendText(t.tokStart, "</")
			t.emitEOF()
		default:
			t.parseError(t.cur(), ErrInvalidFirstCharacterOfTagName)
			t.comment = t.comment[:0]
			t.reconsume(BogusCommentState)
		}
	case TagNameState:
		switch {
		case isWhitespace(c):
			t.state = BeforeAttributeNameState
		case c == '/':
			t.state = SelfClosingStartTagState
		case c == '>':
			t.emitTag()
		case c == 0:
			t.parseError(t.cur(), ErrUnexpectedNullCharacter)
			t.tag.name = utf8.AppendRune(t.tag.name, '\uFFFD')
		case c == eof:
			t.parseError(t.cur(), ErrEOFInTag)
			t.emitEOF()
		default:
			t.tag.name = utf8.AppendRune(t.tag.name, toLower(c))
		}
	}
}

// rawStates maps the end tag states of RCDATA, RAWTEXT, script data and
// escaped script data to the text state they return to.
var rawStates = map[State][3]State{
	// text state, end tag open state, end tag name state
	RCDATALessThanSignState:          {RCDATAState, RCDATAEndTagOpenState, RCDATAEndTagNameState},
	RCDATAEndTagOpenState:            {RCDATAState, RCDATAEndTagOpenState, RCDATAEndTagNameState},
	RCDATAEndTagNameState:            {RCDATAState, RCDATAEndTagOpenState, RCDATAEndTagNameState},
	RAWTEXTLessThanSignState:         {RAWTEXTState, RAWTEXTEndTagOpenState, RAWTEXTEndTagNameState},
	RAWTEXTEndTagOpenState:           {RAWTEXTState, RAWTEXTEndTagOpenState, RAWTEXTEndTagNameState},
	RAWTEXTEndTagNameState:           {RAWTEXTState, RAWTEXTEndTagOpenState, RAWTEXTEndTagNameState},
	ScriptDataLessThanSignState:      {ScriptDataState, ScriptDataEndTagOpenState, ScriptDataEndTagNameState},
	ScriptDataEndTagOpenState:        {ScriptDataState, ScriptDataEndTagOpenState, ScriptDataEndTagNameState},
	ScriptDataEndTagNameState:        {ScriptDataState, ScriptDataEndTagOpenState, ScriptDataEndTagNameState},
	ScriptDataEscapedEndTagOpenState: {ScriptDataEscapedState, ScriptDataEscapedEndTagOpenState, ScriptDataEscapedEndTagNameState},
	ScriptDataEscapedEndTagNameState: {ScriptDataEscapedState, ScriptDataEscapedEndTagOpenState, ScriptDataEscapedEndTagNameState},
}

func (t *Tokenizer) stepRawEndTag() {
	states := rawStates[t.state]
	text, open, name := states[0], states[1], states[2]
	c := t.next()
	switch t.state {
	case RCDATALessThanSignState, RAWTEXTLessThanSignState:
		if c == '/' {
			t.tmp = t.tmp[:0]
			t.state = open
			return
		}
		t.appendText(t.tokStart, "<")
		t.reconsume(text)
	case ScriptDataLessThanSignState:
		switch c {
		case '/':
			t.tmp = t.tmp[:0]
			t.state = open
		case '!':
			t.appendText(t.tokStart, "<!")
			t.state = ScriptDataEscapeStartState
		default:
			t.appendText(t.tokStart, "<")
			t.reconsume(text)
		}
	case RCDATAEndTagOpenState, RAWTEXTEndTagOpenState, ScriptDataEndTagOpenState, ScriptDataEscapedEndTagOpenState:
		if isASCIIAlpha(c) {
			t.newTag(true)
			t.reconsume(name)
			return
		}
		t.appendText(t.tokStart, "</")
		t.reconsume(text)
	default:
		switch {
		case isWhitespace(c) && t.appropriateEndTag():
			t.state = BeforeAttributeNameState
			return
		case c == '/' && t.appropriateEndTag():
			t.state = SelfClosingStartTagState
			return
		case c == '>' && t.appropriateEndTag():
			t.emitTag()
			return
		case isASCIIAlpha(c):
			t.tag.name = append(t.tag.name, byte(toLower(c)))
			t.tmp = append(t.tmp, byte(c))
			return
		}
		t.appendText(t.tokStart, "</")
		t.appendText(t.tokStart, string(t.tmp))
		t.reconsume(text)
	}
}

func (t *Tokenizer) stepScriptEscaped() {
	c := t.next()
	off := t.cur()
	switch t.state {
	case ScriptDataEscapeStartState, ScriptDataEscapeStartDashState:
		if c != '-' {
			t.reconsume(ScriptDataState)
			return
		}
		t.appendText(off, "-")
		if t.state == ScriptDataEscapeStartState {
			t.state = ScriptDataEscapeStartDashState
		} else {
			t.state = ScriptDataEscapedDashDashState
		}
	case ScriptDataEscapedState, ScriptDataEscapedDashState, ScriptDataEscapedDashDashState:
		switch c {
		case '-':
			t.appendText(off, "-")
			switch t.state {
			case ScriptDataEscapedState:
				t.state = ScriptDataEscapedDashState
			case ScriptDataEscapedDashState:
				t.state = ScriptDataEscapedDashDashState
			}
		case '<':
			t.tokStart = off
			t.state = ScriptDataEscapedLessThanSignState
		case '>':
			t.appendText(off, ">")
			if t.state == ScriptDataEscapedDashDashState {
				t.state = ScriptDataState
			} else {
				t.state = ScriptDataEscapedState
			}
		case 0:
			t.parseError(off, ErrUnexpectedNullCharacter)
			t.appendText(off, "\uFFFD")
			t.state = ScriptDataEscapedState
		case eof:
			t.parseError(off, ErrEOFInScriptHTMLCommentLikeText)
			t.emitEOF()
		default:
			t.appendRune(off, c)
			t.state = ScriptDataEscapedState
		}
	case ScriptDataEscapedLessThanSignState:
		switch {
		case c == '/':
			t.tmp = t.tmp[:0]
			t.state = ScriptDataEscapedEndTagOpenState
		case isASCIIAlpha(c):
			t.tmp = t.tmp[:0]
			t.appendText(t.tokStart, "<")
			t.reconsume(ScriptDataDoubleEscapeStartState)
		default:
			t.appendText(t.tokStart, "<")
			t.reconsume(ScriptDataEscapedState)
		}
	case ScriptDataDoubleEscapeStartState, ScriptDataDoubleEscapeEndState:
		inside, outside := ScriptDataDoubleEscapedState, ScriptDataEscapedState
		if t.state == ScriptDataDoubleEscapeEndState {
			inside, outside = outside, inside
		}
		switch {
		case isWhitespace(c) || c == '/' || c == '>':
			if string(t.tmp) == "script" {
				t.state = inside
			} else {
				t.state = outside
			}
			t.appendRune(off, c)
		case isASCIIAlpha(c):
			t.tmp = append(t.tmp, byte(toLower(c)))
			t.appendRune(off, c)
		default:
			t.reconsume(outside)
		}
	case ScriptDataDoubleEscapedState, ScriptDataDoubleEscapedDashState, ScriptDataDoubleEscapedDashDashState:
		switch c {
		case '-':
			t.appendText(off, "-")
			switch t.state {
			case ScriptDataDoubleEscapedState:
				t.state = ScriptDataDoubleEscapedDashState
			case ScriptDataDoubleEscapedDashState:
				t.state = ScriptDataDoubleEscapedDashDashState
			}
		case '<':
			t.appendText(off, "<")
			t.state = ScriptDataDoubleEscapedLessThanSignState
		case '>':
			t.appendText(off, ">")
			if t.state == ScriptDataDoubleEscapedDashDashState {
				t.state = ScriptDataState
			} else {
				t.state = ScriptDataDoubleEscapedState
			}
		case 0:
			t.parseError(off, ErrUnexpectedNullCharacter)
			t.appendText(off, "\uFFFD")
			t.state = ScriptDataDoubleEscapedState
		case eof:
			t.parseError(off, ErrEOFInScriptHTMLCommentLikeText)
			t.emitEOF()
		default:
			t.appendRune(off, c)
			t.state = ScriptDataDoubleEscapedState
		}
	case ScriptDataDoubleEscapedLessThanSignState:
		if c == '/' {
			t.tmp = t.tmp[:0]
			t.appendText(off, "/")
			t.state = ScriptDataDoubleEscapeEndState
			return
		}
		t.reconsume(ScriptDataDoubleEscapedState)
	}
}

func (t *Tokenizer) stepAttr() {
	switch t.state {
	case AttributeValueDoubleQuotedState:
		t.stepQuotedValue('"')
		return
	case AttributeValueSingleQuotedState:
		t.stepQuotedValue('\'')
		return
	}

	c := t.next()
	switch t.state {
	case BeforeAttributeNameState:
		switch {
		case isWhitespace(c):
		case c == '/' || c == '>' || c == eof:
			t.reconsume(AfterAttributeNameState)
		case c == '=':
			t.parseError(t.cur(), ErrUnexpectedEqualsSignBeforeAttributeName)
			t.startAttr(t.cur())
			t.tag.attrName = append(t.tag.attrName, '=')
			t.state = AttributeNameState
		default:
			t.startAttr(t.cur())
			t.reconsume(AttributeNameState)
		}
	case AttributeNameState:
		switch {
		case isWhitespace(c) || c == '/' || c == '>' || c == eof:
			t.reconsume(AfterAttributeNameState)
		case c == '=':
			t.state = BeforeAttributeValueState
		case c == 0:
			t.parseError(t.cur(), ErrUnexpectedNullCharacter)
			t.tag.attrName = utf8.AppendRune(t.tag.attrName, '\uFFFD')
		case c == '"' || c == '\'' || c == '<':
			t.parseError(t.cur(), ErrUnexpectedCharacterInAttributeName)
			t.tag.attrName = append(t.tag.attrName, byte(c))
		default:
			t.tag.attrName = utf8.AppendRune(t.tag.attrName, toLower(c))
		}
	case AfterAttributeNameState:
		switch {
		case isWhitespace(c):
		case c == '/':
			t.state = SelfClosingStartTagState
		case c == '=':
			t.state = BeforeAttributeValueState
		case c == '>':
			t.emitTag()
		case c == eof:
			t.parseError(t.cur(), ErrEOFInTag)
			t.emitEOF()
		default:
			t.startAttr(t.cur())
			t.reconsume(AttributeNameState)
		}
	case BeforeAttributeValueState:
		switch {
		case isWhitespace(c):
		case c == '"':
			t.state = AttributeValueDoubleQuotedState
		case c == '\'':
			t.state = AttributeValueSingleQuotedState
		case c == '>':
			t.parseError(t.cur(), ErrMissingAttributeValue)
			t.emitTag()
		default:
			t.reconsume(AttributeValueUnquotedState)
		}
	case AttributeValueUnquotedState:
		switch {
		case isWhitespace(c):
			t.state = BeforeAttributeNameState
		case c == '&':
			t.charRef(true)
		case c == '>':
			t.emitTag()
		case c == 0:
			t.parseError(t.cur(), ErrUnexpectedNullCharacter)
			t.tag.attrVal = utf8.AppendRune(t.tag.attrVal, '\uFFFD')
		case c == '"' || c == '\'' || c == '<' || c == '=' || c == '`':
			t.parseError(t.cur(), ErrUnexpectedCharacterInUnquotedAttributeValue)
			t.tag.attrVal = append(t.tag.attrVal, byte(c))
		case c == eof:
			t.parseError(t.cur(), ErrEOFInTag)
			t.emitEOF()
		default:
			t.tag.attrVal = utf8.AppendRune(t.tag.attrVal, c)
		}
	case AfterAttributeValueQuotedState:
		switch {
		case isWhitespace(c):
			t.state = BeforeAttributeNameState
		case c == '/':
			t.state = SelfClosingStartTagState
		case c == '>':
			t.emitTag()
		case c == eof:
			t.parseError(t.cur(), ErrEOFInTag)
			t.emitEOF()
		default:
			t.parseError(t.cur(), ErrMissingWhitespaceBetweenAttributes)
			t.reconsume(BeforeAttributeNameState)
		}
	case SelfClosingStartTagState:
		switch c {
		case '>':
			t.tag.selfClosing = true
			t.emitTag()
		case eof:
			t.parseError(t.cur(), ErrEOFInTag)
			t.emitEOF()
		default:
			t.parseError(t.cur(), ErrUnexpectedSolidusInTag)
			t.reconsume(BeforeAttributeNameState)
		}
	}
}

func (t *Tokenizer) stepQuotedValue(quote byte) {
	stop := "\"&\x00"
	if quote == '\'' {
		stop = "'&\x00"
	}
	if i := strings.IndexAny(t.src[t.pos:], stop); i > 0 {
		t.tag.attrVal = append(t.tag.attrVal, t.src[t.pos:t.pos+i]...)
		t.pos += i
		t.size = 0
		return
	} else if i == -1 && t.pos < len(t.src) {
		t.tag.attrVal = append(t.tag.attrVal, t.src[t.pos:]...)
		t.pos = len(t.src)
		t.size = 0
		return
	}
	switch c := t.next(); c {
	case rune(quote):
		t.state = AfterAttributeValueQuotedState
	case '&':
		t.charRef(true)
	case 0:
		t.parseError(t.cur(), ErrUnexpectedNullCharacter)
		t.tag.attrVal = utf8.AppendRune(t.tag.attrVal, '\uFFFD')
	case eof:
		t.parseError(t.cur(), ErrEOFInTag)
		t.emitEOF()
	}
}

func (t *Tokenizer) stepComment() {
	if t.state == MarkupDeclarationOpenState {
		switch {
		case strings.HasPrefix(t.src[t.pos:], "--"):
			t.pos += 2
			t.comment = t.comment[:0]
			t.state = CommentStartState
		case t.hasPrefixFold("DOCTYPE"):
			t.pos += 7
			t.state = DoctypeState
		case strings.HasPrefix(t.src[t.pos:], "[CDATA["):
			t.pos += 7
			if t.allowCDATA {
				t.state = CDATASectionState
				return
			}
			t.parseError(t.tokStart, ErrCDATAInHTMLContent)
			t.comment = append(t.comment[:0], "[CDATA["...)
			t.state = BogusCommentState
		default:
			t.parseError(t.pos, ErrIncorrectlyOpenedComment)
			t.comment = t.comment[:0]
			t.state = BogusCommentState
		}
		t.size = 0
		return
	}

	if t.state == CommentState {
		if i := strings.IndexAny(t.src[t.pos:], "<-\x00"); i > 0 {
			t.comment = append(t.comment, t.src[t.pos:t.pos+i]...)
			t.pos += i
			t.size = 0
			return
		}
	}

	c := t.next()
	switch t.state {
	case BogusCommentState:
		switch c {
		case '>':
			t.state = DataState
			t.emitComment()
		case eof:
			t.emitComment()
			t.emitEOF()
		case 0:
			t.parseError(t.cur(), ErrUnexpectedNullCharacter)
			t.comment = utf8.AppendRune(t.comment, '\uFFFD')
		default:
			t.comment = utf8.AppendRune(t.comment, c)
		}
	case CommentStartState:
		switch c {
		case '-':
			t.state = CommentStartDashState
		case '>':
			t.parseError(t.cur(), ErrAbruptClosingOfEmptyComment)
			t.state = DataState
			t.emitComment()
		default:
			t.reconsume(CommentState)
		}
	case CommentStartDashState:
		switch c {
		case '-':
			t.state = CommentEndState
		case '>':
			t.parseError(t.cur(), ErrAbruptClosingOfEmptyComment)
			t.state = DataState
			t.emitComment()
		case eof:
			t.eofInComment()
		default:
			t.comment = append(t.comment, '-')
			t.reconsume(CommentState)
		}
	case CommentState:
		switch c {
		case '<':
			t.comment = append(t.comment, '<')
			t.state = CommentLessThanSignState
		case '-':
			t.state = CommentEndDashState
		case 0:
			t.parseError(t.cur(), ErrUnexpectedNullCharacter)
			t.comment = utf8.AppendRune(t.comment, '\uFFFD')
		case eof:
			t.eofInComment()
		default:
			t.comment = utf8.AppendRune(t.comment, c)
		}
	case CommentLessThanSignState:
		switch c {
		case '!':
			t.comment = append(t.comment, '!')
			t.state = CommentLessThanSignBangState
		case '<':
			t.comment = append(t.comment, '<')
		default:
			t.reconsume(CommentState)
		}
	case CommentLessThanSignBangState:
		if c == '-' {
			t.state = CommentLessThanSignBangDashState
			return
		}
		t.reconsume(CommentState)
	case CommentLessThanSignBangDashState:
		if c == '-' {
			t.state = CommentLessThanSignBangDashDashState
			return
		}
		t.reconsume(CommentEndDashState)
	case CommentLessThanSignBangDashDashState:
		if c != '>' && c != eof {
			t.parseError(t.cur(), ErrNestedComment)
		}
		t.reconsume(CommentEndState)
	case CommentEndDashState:
		switch c {
		case '-':
			t.state = CommentEndState
		case eof:
			t.eofInComment()
		default:
			t.comment = append(t.comment, '-')
			t.reconsume(CommentState)
		}
	case CommentEndState:
		switch c {
		case '>':
			t.state = DataState
			t.emitComment()
		case '!':
			t.state = CommentEndBangState
		case '-':
			t.comment = append(t.comment, '-')
		case eof:
			t.eofInComment()
		default:
			t.comment = append(t.comment, "--"...)
			t.reconsume(CommentState)
		}
	case CommentEndBangState:
		switch c {
		case '-':
			t.comment = append(t.comment, "--!"...)
			t.state = CommentEndDashState
		case '>':
			t.parseError(t.cur(), ErrIncorrectlyClosedComment)
			t.state = DataState
			t.emitComment()
		case eof:
			t.eofInComment()
		default:
			t.comment = append(t.comment, "--!"...)
			t.reconsume(CommentState)
		}
	}
}

func (t *Tokenizer) eofInComment() {
	t.parseError(t.cur(), ErrEOFInComment)
	t.emitComment()
	t.emitEOF()
}

func (t *Tokenizer) stepCDATA() {
	if t.state == CDATASectionState {
		if t.textRun("]") {
			return
		}
	}
	c := t.next()
	switch t.state {
	case CDATASectionState:
		switch c {
		case ']':
			t.state = CDATASectionBracketState
		case eof:
			t.parseError(t.cur(), ErrEOFInCDATA)
			t.emitEOF()
		}
	case CDATASectionBracketState:
		if c == ']' {
			t.state = CDATASectionEndState
			return
		}
		t.appendText(t.cur(), "]")
		t.reconsume(CDATASectionState)
	case CDATASectionEndState:
		switch c {
		case ']':
			t.appendText(t.cur(), "]")
		case '>':
			t.state = DataState
		default:
			t.appendText(t.cur(), "]]")
			t.reconsume(CDATASectionState)
		}
	}
}

func (t *Tokenizer) stepDoctype() {
	c := t.next()
	d := &t.doctype
	switch t.state {
	case DoctypeState:
		switch {
		case isWhitespace(c):
			t.state = BeforeDoctypeNameState
		case c == '>':
			t.reconsume(BeforeDoctypeNameState)
		case c == eof:
			t.newDoctype()
			t.eofInDoctype()
		default:
			t.parseError(t.cur(), ErrMissingWhitespaceBeforeDoctypeName)
			t.reconsume(BeforeDoctypeNameState)
		}
	case BeforeDoctypeNameState:
		switch {
		case isWhitespace(c):
		case c == 0:
			t.parseError(t.cur(), ErrUnexpectedNullCharacter)
			t.newDoctype()
			d.hasName = true
			d.name = utf8.AppendRune(d.name, '\uFFFD')
			t.state = DoctypeNameState
		case c == '>':
			t.parseError(t.cur(), ErrMissingDoctypeName)
			t.newDoctype()
			d.forceQuirks = true
			t.state = DataState
			t.emitDoctype()
		case c == eof:
			t.newDoctype()
			t.eofInDoctype()
		default:
			t.newDoctype()
			d.hasName = true
			d.name = utf8.AppendRune(d.name, toLower(c))
			t.state = DoctypeNameState
		}
	case DoctypeNameState:
		switch {
		case isWhitespace(c):
			t.state = AfterDoctypeNameState
		case c == '>':
			t.state = DataState
			t.emitDoctype()
		case c == 0:
			t.parseError(t.cur(), ErrUnexpectedNullCharacter)
			d.name = utf8.AppendRune(d.name, '\uFFFD')
		case c == eof:
			t.eofInDoctype()
		default:
			d.name = utf8.AppendRune(d.name, toLower(c))
		}
	case AfterDoctypeNameState:
		switch {
		case isWhitespace(c):
		case c == '>':
			t.state = DataState
			t.emitDoctype()
		case c == eof:
			t.eofInDoctype()
		default:
			t.reconsume(AfterDoctypeNameState)
			switch {
			case t.hasPrefixFold("PUBLIC"):
				t.pos += 6
				t.state = AfterDoctypePublicKeywordState
			case t.hasPrefixFold("SYSTEM"):
				t.pos += 6
				t.state = AfterDoctypeSystemKeywordState
			default:
				t.parseError(t.pos, ErrInvalidCharacterSequenceAfterDoctypeName)
				d.forceQuirks = true
				t.state = BogusDoctypeState
			}
		}
	case AfterDoctypePublicKeywordState, BeforeDoctypePublicIdentifierState:
		before := t.state == BeforeDoctypePublicIdentifierState
		switch {
		case isWhitespace(c):
			if !before {
				t.state = BeforeDoctypePublicIdentifierState
			}
		case c == '"' || c == '\'':
			if !before {
				t.parseError(t.cur(), ErrMissingWhitespaceAfterDoctypePublicKeyword)
			}
			d.hasPublic = true
			d.publicID = d.publicID[:0]
			if c == '"' {
				t.state = DoctypePublicIdentifierDoubleQuotedState
			} else {
				t.state = DoctypePublicIdentifierSingleQuotedState
			}
		case c == '>':
			t.parseError(t.cur(), ErrMissingDoctypePublicIdentifier)
			d.forceQuirks = true
			t.state = DataState
			t.emitDoctype()
		case c == eof:
			t.eofInDoctype()
		default:
			t.parseError(t.cur(), ErrMissingQuoteBeforeDoctypePublicIdentifier)
			d.forceQuirks = true
			t.reconsume(BogusDoctypeState)
		}
	case DoctypePublicIdentifierDoubleQuotedState, DoctypePublicIdentifierSingleQuotedState:
		quote := rune('"')
		if t.state == DoctypePublicIdentifierSingleQuotedState {
			quote = '\''
		}
		switch c {
		case quote:
			t.state = AfterDoctypePublicIdentifierState
		case 0:
			t.parseError(t.cur(), ErrUnexpectedNullCharacter)
			d.publicID = utf8.AppendRune(d.publicID, '\uFFFD')
		case '>':
			t.parseError(t.cur(), ErrAbruptDoctypePublicIdentifier)
			d.forceQuirks = true
			t.state = DataState
			t.emitDoctype()
		case eof:
			t.eofInDoctype()
		default:
			d.publicID = utf8.AppendRune(d.publicID, c)
		}
	case AfterDoctypePublicIdentifierState, BetweenDoctypePublicAndSystemIdentifiersState:
		between := t.state == BetweenDoctypePublicAndSystemIdentifiersState
		switch {
		case isWhitespace(c):
			t.state = BetweenDoctypePublicAndSystemIdentifiersState
		case c == '>':
			t.state = DataState
			t.emitDoctype()
		case c == '"' || c == '\'':
			if !between {
				t.parseError(t.cur(), ErrMissingWhitespaceBetweenDoctypePublicAndSystemIDs)
			}
			d.hasSystem = true
			d.systemID = d.systemID[:0]
			if c == '"' {
				t.state = DoctypeSystemIdentifierDoubleQuotedState
			} else {
				t.state = DoctypeSystemIdentifierSingleQuotedState
			}
		case c == eof:
			t.eofInDoctype()
		default:
			t.parseError(t.cur(), ErrMissingQuoteBeforeDoctypeSystemIdentifier)
			d.forceQuirks = true
			t.reconsume(BogusDoctypeState)
		}
	case AfterDoctypeSystemKeywordState, BeforeDoctypeSystemIdentifierState:
		before := t.state == BeforeDoctypeSystemIdentifierState
		switch {
		case isWhitespace(c):
			if !before {
				t.state = BeforeDoctypeSystemIdentifierState
			}
		case c == '"' || c == '\'':
			if !before {
				t.parseError(t.cur(), ErrMissingWhitespaceAfterDoctypeSystemKeyword)
			}
			d.hasSystem = true
			d.systemID = d.systemID[:0]
			if c == '"' {
				t.state = DoctypeSystemIdentifierDoubleQuotedState
			} else {
				t.state = DoctypeSystemIdentifierSingleQuotedState
			}
		case c == '>':
			t.parseError(t.cur(), ErrMissingDoctypeSystemIdentifier)
			d.forceQuirks = true
			t.state = DataState
			t.emitDoctype()
		case c == eof:
			t.eofInDoctype()
		default:
			t.parseError(t.cur(), ErrMissingQuoteBeforeDoctypeSystemIdentifier)
			d.forceQuirks = true
			t.reconsume(BogusDoctypeState)
		}
	case DoctypeSystemIdentifierDoubleQuotedState, DoctypeSystemIdentifierSingleQuotedState:
		quote := rune('"')
		if t.state == DoctypeSystemIdentifierSingleQuotedState {
			quote = '\''
		}
		switch c {
		case quote:
			t.state = AfterDoctypeSystemIdentifierState
		case 0:
			t.parseError(t.cur(), ErrUnexpectedNullCharacter)
			d.systemID = utf8.AppendRune(d.systemID, '\uFFFD')
		case '>':
			t.parseError(t.cur(), ErrAbruptDoctypeSystemIdentifier)
			d.forceQuirks = true
			t.state = DataState
			t.emitDoctype()
		case eof:
			t.eofInDoctype()
		default:
			d.systemID = utf8.AppendRune(d.systemID, c)
		}
	case AfterDoctypeSystemIdentifierState:
		switch {
		case isWhitespace(c):
		case c == '>':
			t.state = DataState
			t.emitDoctype()
		case c == eof:
			t.eofInDoctype()
		default:
			t.parseError(t.cur(), ErrUnexpectedCharacterAfterDoctypeSystemIdentifier)
			t.reconsume(BogusDoctypeState)
		}
	case BogusDoctypeState:
		switch c {
		case '>':
			t.state = DataState
			t.emitDoctype()
		case 0:
			t.parseError(t.cur(), ErrUnexpectedNullCharacter)
		case eof:
			t.emitDoctype()
			t.emitEOF()
		}
	}
}
