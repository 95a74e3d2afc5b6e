package format

import (
	"context"
	"fmt"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

const htmlMediaType = "text/html"

// Minifier removes insignificant whitespace and markup from HTML.
type Minifier struct {
	m *minify.M
}

// NewMinifier builds a minifier from the configuration.
func NewMinifier(cfg MinifyConfig) *Minifier {
	m := minify.New()
	m.Add(htmlMediaType, &html.Minifier{
		KeepComments:        cfg.KeepComments,
		KeepDefaultAttrVals: cfg.KeepDefaultAttrVals,
		KeepDocumentTags:    cfg.KeepDocumentTags,
		KeepEndTags:         cfg.KeepEndTags,
		KeepQuotes:          cfg.KeepQuotes,
		KeepWhitespace:      cfg.KeepWhitespace,
	})
	if cfg.CSS {
		m.AddFunc("text/css", css.Minify)
	}
	if cfg.JS {
		m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	}
	return &Minifier{m: m}
}

// Format minifies markup. The context is not consulted; minification runs
// in memory.
func (f *Minifier) Format(_ context.Context, markup string) (string, error) {
	out, err := f.m.String(htmlMediaType, markup)
	if err != nil {
		return "", fmt.Errorf("minify: %w", err)
	}
	return out, nil
}
