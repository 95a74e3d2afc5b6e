package html

import (
	"strconv"
	"strings"

	"github.com/dpotapov/go-htmlast/dom"
	"golang.org/x/net/html/atom"
)

// A TokenType is the type of a Token.
type TokenType uint8

const (
	// EOFToken marks the end of the input. It is always the last token.
	EOFToken TokenType = iota
	// CharacterToken holds a run of text.
	CharacterToken
	// StartTagToken looks like <a>. SelfClosing is set for <br/>.
	StartTagToken
	// EndTagToken looks like </a>.
	EndTagToken
	// CommentToken looks like <!--x-->.
	CommentToken
	// DoctypeToken looks like <!DOCTYPE x>
	DoctypeToken
)

// String returns a string representation of the TokenType.
func (t TokenType) String() string {
	switch t {
	case EOFToken:
		return "EOF"
	case CharacterToken:
		return "Character"
	case StartTagToken:
		return "StartTag"
	case EndTagToken:
		return "EndTag"
	case CommentToken:
		return "Comment"
	case DoctypeToken:
		return "Doctype"
	}
	return "Invalid(" + strconv.Itoa(int(t)) + ")"
}

// A Token consists of a TokenType and some Data (tag name for start and end
// tags, content for text and comments, name for doctypes). A tag Token may
// also contain a slice of Attributes. Data is unescaped for all Tokens (it
// looks like "a<b" rather than "a&lt;b").
type Token struct {
	Type        TokenType
	DataAtom    atom.Atom
	Data        string
	Attr        []dom.Attribute
	SelfClosing bool

	// Doctype fields. The Has flags distinguish a missing identifier from
	// an empty one.
	PublicID, SystemID       string
	HasPublicID, HasSystemID bool
	ForceQuirks              bool

	Pos dom.Position
}

// String returns a string representation of the Token, close to the markup
// it was read from.
func (t Token) String() string {
	switch t.Type {
	case CharacterToken:
		return escapeText(t.Data)
	case StartTagToken:
		var b strings.Builder
		b.WriteByte('<')
		b.WriteString(t.Data)
		for _, a := range t.Attr {
			b.WriteByte(' ')
			b.WriteString(a.QualifiedName())
			b.WriteString(`="`)
			b.WriteString(strings.ReplaceAll(escapeText(a.Val), `"`, "&quot;"))
			b.WriteByte('"')
		}
		if t.SelfClosing {
			b.WriteString("/>")
		} else {
			b.WriteByte('>')
		}
		return b.String()
	case EndTagToken:
		return "</" + t.Data + ">"
	case CommentToken:
		return "<!--" + t.Data + "-->"
	case DoctypeToken:
		return "<!DOCTYPE " + t.Data + ">"
	}
	return ""
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
