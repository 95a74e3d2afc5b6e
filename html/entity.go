package html

import (
	"unicode/utf8"

	"golang.org/x/net/html"
)

// longestEntityName is the length of the longest named character reference
// without its trailing semicolon ("CounterClockwiseContourIntegral").
const longestEntityName = 31

// longestLegacyEntityName is the length of the longest named reference that
// is recognized without a trailing semicolon.
const longestLegacyEntityName = 6

// lookupEntity returns the decoded value of the named character reference
// name (without the leading '&', with the trailing ';' if any). The table is
// the one of golang.org/x/net/html: UnescapeString decodes an exact table
// match, or falls back to the longest legacy prefix followed by the rest of
// the name. The second case is detected by comparing with the decoding of
// the name minus its last character.
func lookupEntity(name string) (string, bool) {
	s := html.UnescapeString("&" + name)
	if s == "&"+name {
		return "", false
	}
	last := len(name) - 1
	if s == html.UnescapeString("&"+name[:last])+name[last:] {
		return "", false
	}
	return s, true
}

// matchEntity finds the longest named character reference at the start of
// run, a sequence of ASCII alphanumerics. semi tells whether run is followed
// by a semicolon. It returns the matched name, including the semicolon if it
// is part of the match.
func matchEntity(run string, semi bool) (name, value string, ok bool) {
	if semi {
		if v, ok := lookupEntity(run + ";"); ok {
			return run + ";", v, true
		}
	}
	for j := min(len(run), longestLegacyEntityName); j >= 2; j-- {
		if v, ok := lookupEntity(run[:j]); ok {
			return run[:j], v, true
		}
	}
	return "", "", false
}

func isASCIIAlnum(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// charRef consumes a character reference after the '&' that was just read
// and appends the result to the attribute value or to the text.
func (t *Tokenizer) charRef(inAttr bool) {
	start := t.cur()
	t.size = 0
	out := func(s string) {
		if inAttr {
			t.tag.attrVal = append(t.tag.attrVal, s...)
		} else {
			t.appendText(start, s)
		}
	}

	if t.pos >= len(t.src) {
		out("&")
		return
	}
	switch c := t.src[t.pos]; {
	case isASCIIAlnum(c):
		t.namedCharRef(inAttr, out)
	case c == '#':
		t.numericCharRef(start, out)
	default:
		out("&")
	}
}

func (t *Tokenizer) namedCharRef(inAttr bool, out func(string)) {
	i := t.pos
	for i < len(t.src) && i-t.pos < longestEntityName && isASCIIAlnum(t.src[i]) {
		i++
	}
	run := t.src[t.pos:i]
	semi := i < len(t.src) && t.src[i] == ';'

	name, value, ok := matchEntity(run, semi)
	if !ok {
		// Ambiguous ampersand: the alphanumerics are emitted by the return
		// state as they are.
		if semi {
			t.parseError(i, ErrUnknownNamedCharacterReference)
		}
		out("&")
		return
	}
	t.pos += len(name)
	if name[len(name)-1] != ';' {
		if inAttr && t.pos < len(t.src) && (t.src[t.pos] == '=' || isASCIIAlnum(t.src[t.pos])) {
			// Historical reasons: "&copy=" in an attribute stays as it is.
			out("&" + name)
			return
		}
		t.parseError(t.pos, ErrMissingSemicolonAfterCharacterReference)
	}
	out(value)
}

func (t *Tokenizer) numericCharRef(start int, out func(string)) {
	t.pos++ // '#'
	base := 10
	if t.pos < len(t.src) && (t.src[t.pos] == 'x' || t.src[t.pos] == 'X') {
		base = 16
		t.pos++
	}
	digits := t.pos
	code := 0
	for ; t.pos < len(t.src); t.pos++ {
		c := t.src[t.pos]
		var d int
		switch {
		case '0' <= c && c <= '9':
			d = int(c - '0')
		case base == 16 && 'a' <= c && c <= 'f':
			d = int(c-'a') + 10
		case base == 16 && 'A' <= c && c <= 'F':
			d = int(c-'A') + 10
		default:
			d = -1
		}
		if d < 0 {
			break
		}
		code = code*base + d
		if code > utf8.MaxRune {
			code = utf8.MaxRune + 1
		}
	}
	if t.pos == digits {
		t.parseError(t.pos, ErrAbsenceOfDigitsInNumericCharacterReference)
		out(t.src[start:t.pos])
		return
	}
	if t.pos < len(t.src) && t.src[t.pos] == ';' {
		t.pos++
	} else {
		t.parseError(t.pos, ErrMissingSemicolonAfterCharacterReference)
	}
	out(string(t.numericRefValue(rune(code), start)))
}

// replacementTable maps C1 control code points to the characters that
// windows-1252 gives them.
var replacementTable = map[rune]rune{
	0x80: '€', 0x82: '‚', 0x83: 'ƒ', 0x84: '„',
	0x85: '…', 0x86: '†', 0x87: '‡', 0x88: 'ˆ',
	0x89: '‰', 0x8A: 'Š', 0x8B: '‹', 0x8C: 'Œ',
	0x8E: 'Ž', 0x91: '‘', 0x92: '’', 0x93: '“',
	0x94: '”', 0x95: '•', 0x96: '–', 0x97: '—',
	0x98: '˜', 0x99: '™', 0x9A: 'š', 0x9B: '›',
	0x9C: 'œ', 0x9E: 'ž', 0x9F: 'Ÿ',
}

func (t *Tokenizer) numericRefValue(c rune, off int) rune {
	switch {
	case c == 0:
		t.parseError(off, ErrNullCharacterReference)
		return '\uFFFD'
	case c > utf8.MaxRune:
		t.parseError(off, ErrCharacterReferenceOutsideUnicodeRange)
		return '\uFFFD'
	case 0xD800 <= c && c <= 0xDFFF:
		t.parseError(off, ErrSurrogateCharacterReference)
		return '\uFFFD'
	case 0xFDD0 <= c && c <= 0xFDEF || c&0xFFFE == 0xFFFE:
		t.parseError(off, ErrNoncharacterCharacterReference)
		return c
	case c == 0x0D || (c < 0x20 && c != '\t' && c != '\n' && c != '\f') || (0x7F <= c && c <= 0x9F):
		t.parseError(off, ErrControlCharacterReference)
		if r, ok := replacementTable[c]; ok {
			return r
		}
	}
	return c
}
