package format

import (
	"context"
	"fmt"
	"strings"

	"github.com/dpotapov/go-htmlast/html"
	"github.com/dpotapov/go-htmlast/render"
)

// Indenter reparses markup and renders it with block level content on
// separate lines. It needs no external program, and its output is stable:
// indenting it again gives the same text.
type Indenter struct {
	opts render.Options
}

// NewIndenter returns an Indenter indenting by cfg.Width spaces per level.
func NewIndenter(cfg IndentConfig) *Indenter {
	return &Indenter{opts: render.Options{
		Indent:           strings.Repeat(" ", cfg.Width),
		DisableScripting: cfg.DisableScripting,
	}}
}

func (f *Indenter) Format(_ context.Context, markup string) (string, error) {
	doc, _, err := html.ParseString(markup, html.ParseOptionEnableScripting(!f.opts.DisableScripting))
	if err != nil {
		return "", fmt.Errorf("indent: %w", err)
	}
	return render.String(doc, doc.Root(), f.opts)
}
