package htmlast

import (
	"context"
	"io"
	"strings"

	"github.com/dpotapov/go-htmlast/dom"
	"github.com/dpotapov/go-htmlast/format"
	"github.com/dpotapov/go-htmlast/render"
)

// RenderDocument writes the whole document. HTML output starts with
// <!DOCTYPE html> when the tree has no doctype of its own.
func RenderDocument(w io.Writer, d *dom.Document, opts render.Options) error {
	if opts.Flavor == render.HTML && !hasDoctype(d) {
		if _, err := io.WriteString(w, "<!DOCTYPE html>"); err != nil {
			return err
		}
	}
	return render.Render(w, d, d.Root(), opts)
}

func hasDoctype(d *dom.Document) bool {
	for c := range d.Children(d.Root()) {
		if d.Kind(c) == dom.DoctypeNode {
			return true
		}
	}
	return false
}

// Pretty renders the document as HTML and passes it through f. When f
// fails, the failure is logged at Warn level and the unformatted markup is
// returned. Only a render failure is returned as an error. A nil f skips
// formatting.
func Pretty(ctx context.Context, d *dom.Document, f format.Formatter, opts ...Option) (string, error) {
	var sb strings.Builder
	if err := RenderDocument(&sb, d, render.Options{}); err != nil {
		return "", err
	}
	markup := sb.String()
	if f == nil {
		return markup, nil
	}

	out, err := f.Format(ctx, markup)
	if err != nil {
		New(opts...).logger.Warn("Format document, using unformatted output", "error", err)
		return markup, nil
	}
	return out, nil
}
