// Package htmlast parses HTML documents into an arena based syntax tree.
//
// The heavy lifting lives in the sub-packages: html tokenizes and builds
// trees, dom holds them, visit walks them and render serializes them. This
// package ties them together for byte input of any encoding, with logging
// and an optional formatting step on output.
//
//	res, err := htmlast.Parse(r, htmlast.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	out, err := htmlast.Pretty(ctx, res.Document, formatter)
package htmlast

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/dpotapov/go-htmlast/dom"
	"github.com/dpotapov/go-htmlast/html"
	"github.com/dpotapov/go-htmlast/render"
	"github.com/dpotapov/go-htmlast/visit"
)

// Result is the outcome of a parse. Errors lists the recoverable parse
// errors in input order; a tree is produced regardless.
type Result struct {
	Document *dom.Document
	Errors   html.ErrorList
	// Encoding is the canonical name of the input encoding.
	Encoding string
	// Scripting is the scripting flag the document was parsed with.
	Scripting bool
}

// RenderOptions returns render options matching how the document was
// parsed, so that noscript content survives a round trip.
func (r *Result) RenderOptions() render.Options {
	return render.Options{DisableScripting: !r.Scripting}
}

// Parser parses byte input. A Parser is immutable and safe for concurrent
// use; each parse builds its own tree.
type Parser struct {
	logger      *slog.Logger
	sniffer     Sniffer
	encoding    string
	contentType string
	scripting   bool
	context     string
}

// Option configures a Parser.
type Option func(p *Parser)

// WithLogger sets the logger for parse diagnostics. By default nothing is
// logged.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithEncoding forces the input encoding, given as a WHATWG label such as
// "utf-8" or "latin1". Sniffing is skipped.
func WithEncoding(label string) Option {
	return func(p *Parser) {
		p.encoding = label
	}
}

// WithSniffer replaces the encoding detection used when no encoding is
// forced.
func WithSniffer(s Sniffer) Option {
	return func(p *Parser) {
		if s != nil {
			p.sniffer = s
		}
	}
}

// WithContentType passes the Content-Type header of the input, if known,
// to the sniffer.
func WithContentType(ct string) Option {
	return func(p *Parser) {
		p.contentType = ct
	}
}

// WithScripting sets the scripting flag, which decides how <noscript> is
// parsed. Scripting is enabled by default.
func WithScripting(enable bool) Option {
	return func(p *Parser) {
		p.scripting = enable
	}
}

// WithFragmentContext parses the input as the content of an element with
// the given tag name instead of as a whole document.
func WithFragmentContext(tag string) Option {
	return func(p *Parser) {
		p.context = tag
	}
}

// New returns a Parser configured by opts.
func New(opts ...Option) *Parser {
	p := &Parser{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		sniffer:   DefaultSniffer,
		scripting: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads all of r and parses it. See Parser.ParseBytes.
func Parse(r io.Reader, opts ...Option) (*Result, error) {
	return New(opts...).Parse(r)
}

// Parse reads all of r and parses it.
func (p *Parser) Parse(r io.Reader) (*Result, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return p.ParseBytes(b)
}

// ParseBytes decodes b and parses it. The error is nil unless decoding is
// impossible or parsing fails with an *html.FatalError; parse errors are
// reported in Result.Errors and logged at Debug level.
func (p *Parser) ParseBytes(b []byte) (*Result, error) {
	text, name, err := p.decode(b)
	if err != nil {
		p.logger.Error("Decode input", "encoding", p.encoding, "error", err)
		return nil, err
	}

	opts := []html.ParseOption{html.ParseOptionEnableScripting(p.scripting)}
	var (
		doc  *dom.Document
		errs html.ErrorList
	)
	if p.context != "" {
		doc, errs, err = html.ParseFragment(bytes.NewReader(text), p.context, opts...)
	} else {
		doc, errs, err = html.Parse(bytes.NewReader(text), opts...)
	}
	if err != nil {
		var fatal *html.FatalError
		if errors.As(err, &fatal) {
			p.logger.Error("Parse aborted", "error", err)
		}
		return nil, err
	}

	if p.logger.Enabled(context.Background(), slog.LevelDebug) {
		for _, e := range errs {
			p.logger.Debug("Parse error",
				"line", e.Pos.Line,
				"col", e.Pos.Column,
				"code", e.Code,
				"near", render.Excerpt(doc, visit.NodeAt(doc, e.Pos)))
		}
	}
	return &Result{Document: doc, Errors: errs, Encoding: name, Scripting: p.scripting}, nil
}
