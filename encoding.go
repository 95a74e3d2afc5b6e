package htmlast

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dpotapov/go-htmlast/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding is wrapped in an *html.FatalError when the forced
// encoding label is not known.
var ErrUnknownEncoding = errors.New("unknown encoding")

// A Sniffer determines the encoding of an input from its first bytes and
// its Content-Type, if any. The name is the canonical WHATWG encoding name.
type Sniffer interface {
	Sniff(content []byte, contentType string) (e encoding.Encoding, name string)
}

// SnifferFunc adapts a function to the Sniffer interface.
type SnifferFunc func(content []byte, contentType string) (encoding.Encoding, string)

func (f SnifferFunc) Sniff(content []byte, contentType string) (encoding.Encoding, string) {
	return f(content, contentType)
}

// DefaultSniffer follows the HTML encoding sniffing algorithm: a byte order
// mark, then the charset of the Content-Type, then a <meta> declaration in
// the first 1024 bytes, and windows-1252 otherwise.
var DefaultSniffer Sniffer = SnifferFunc(func(content []byte, contentType string) (encoding.Encoding, string) {
	e, name, _ := charset.DetermineEncoding(content, contentType)
	return e, name
})

// decode converts b to UTF-8. A byte order mark overrides both the forced
// and the sniffed encoding.
func (p *Parser) decode(b []byte) ([]byte, string, error) {
	var (
		e    encoding.Encoding
		name string
	)
	if p.encoding != "" {
		e, name = charset.Lookup(p.encoding)
		if e == nil {
			return nil, "", &html.FatalError{Err: fmt.Errorf("%w: %q", ErrUnknownEncoding, p.encoding)}
		}
	} else {
		e, name = p.sniffer.Sniff(b, p.contentType)
		if e == nil {
			e, name = encoding.Nop, "utf-8"
		}
	}
	switch {
	case bytes.HasPrefix(b, utf8BOM):
		// The tokenizer drops the BOM and replaces invalid sequences.
		return b, "utf-8", nil
	case bytes.HasPrefix(b, utf16BEBOM):
		name = "utf-16be"
	case bytes.HasPrefix(b, utf16LEBOM):
		name = "utf-16le"
	case name == "utf-8":
		return b, name, nil
	}

	out, _, err := transform.Bytes(unicode.BOMOverride(e.NewDecoder()), b)
	if err != nil {
		return nil, "", &html.FatalError{Err: fmt.Errorf("decode %s: %w", name, err)}
	}
	return out, name, nil
}

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16BEBOM = []byte{0xFE, 0xFF}
	utf16LEBOM = []byte{0xFF, 0xFE}
)
