package render

import (
	"strconv"
	"strings"

	"github.com/dpotapov/go-htmlast/dom"
	"github.com/dpotapov/go-htmlast/visit"
	"golang.org/x/net/html/atom"
)

// PlainText renders the subtree rooted at id as readable text. Whitespace is
// collapsed as a browser would, paragraphs are separated by blank lines, list
// items get "- " or "1. " markers, blockquotes are prefixed with "> " and the
// content of pre and code elements is kept as is. Table cells are separated
// by tabs. Scripts, styles, templates and the document head are skipped.
func PlainText(d *dom.Document, id dom.NodeID) string {
	t := &textWriter{}
	visit.Walk(d, id, t)
	return t.sb.String()
}

const (
	noBreak = iota
	softBreak
	hardBreak
)

// textFrame is a line prefix contributed by a blockquote or a list item.
type textFrame struct {
	first, rest string
	used        bool
}

type textWriter struct {
	visit.BaseVisitor
	sb        strings.Builder
	frames    []textFrame
	brk       int
	sep       string
	lineStart bool
}

func (t *textWriter) EnterElement(d *dom.Document, id dom.NodeID) visit.Action {
	if d.Namespace(id) != dom.HTML {
		return visit.Continue
	}
	switch d.Atom(id) {
	case atom.Head, atom.Script, atom.Style, atom.Template, atom.Noscript:
		return visit.SkipChildren
	case atom.Br:
		t.brk = min(t.brk+1, hardBreak)
		return visit.Continue
	case atom.Pre:
		t.breakAt(hardBreak)
		t.writeVerbatim(strings.TrimRight(d.Text(id), "\n"))
		return visit.SkipChildren
	case atom.Code:
		t.writeVerbatim(d.Text(id))
		return visit.SkipChildren
	case atom.Td, atom.Th:
		if prevElement(d, id) != dom.None {
			t.sep = "\t"
		}
		return visit.Continue
	case atom.Blockquote:
		t.breakAt(hardBreak)
		t.frames = append(t.frames, textFrame{first: "> ", rest: "> "})
		return visit.Continue
	case atom.Li:
		t.breakAt(softBreak)
		marker := listMarker(d, id)
		t.frames = append(t.frames, textFrame{first: marker, rest: strings.Repeat(" ", len(marker))})
		return visit.Continue
	}
	t.breakAt(blockBreak(d, id))
	return visit.Continue
}

func (t *textWriter) ExitElement(d *dom.Document, id dom.NodeID) visit.Action {
	if d.Namespace(id) != dom.HTML {
		return visit.Continue
	}
	switch d.Atom(id) {
	case atom.Head, atom.Script, atom.Style, atom.Template, atom.Noscript, atom.Br, atom.Code, atom.Td, atom.Th:
		return visit.Continue
	case atom.Pre:
		t.breakAt(hardBreak)
		return visit.Continue
	case atom.Blockquote:
		t.frames = t.frames[:len(t.frames)-1]
		t.breakAt(hardBreak)
		return visit.Continue
	case atom.Li:
		t.frames = t.frames[:len(t.frames)-1]
		t.breakAt(softBreak)
		return visit.Continue
	}
	t.breakAt(blockBreak(d, id))
	return visit.Continue
}

func (t *textWriter) EnterText(d *dom.Document, id dom.NodeID) visit.Action {
	s := d.Data(id)
	if s == "" {
		return visit.Continue
	}
	if isHTMLSpace(rune(s[0])) && t.sep == "" {
		t.sep = " "
	}
	for i, f := range strings.FieldsFunc(s, isHTMLSpace) {
		if i > 0 {
			t.sep = " "
		}
		t.write(f)
	}
	if isHTMLSpace(rune(s[len(s)-1])) && t.sep == "" {
		t.sep = " "
	}
	return visit.Continue
}

// blockBreak returns the break an element puts before and after itself.
func blockBreak(d *dom.Document, id dom.NodeID) int {
	a := d.Atom(id)
	switch a {
	case atom.P, atom.Table, atom.Hr:
		return hardBreak
	case atom.Ul, atom.Ol:
		for p := d.Parent(id); p != dom.None; p = d.Parent(p) {
			if d.Atom(p) == atom.Li {
				return softBreak
			}
		}
		return hardBreak
	}
	if dom.IsHeadingElement(d.Data(id)) {
		return hardBreak
	}
	if dom.IsInlineAtom(a) {
		return noBreak
	}
	return softBreak
}

func listMarker(d *dom.Document, id dom.NodeID) string {
	parent := d.Parent(id)
	if d.Atom(parent) != atom.Ol {
		return "- "
	}
	n := 1
	if v, ok := d.Attr(parent, "start"); ok {
		if start, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			n = start
		}
	}
	for s := d.PrevSibling(id); s != dom.None; s = d.PrevSibling(s) {
		if d.Kind(s) == dom.ElementNode && d.Atom(s) == atom.Li {
			n++
		}
	}
	return strconv.Itoa(n) + ". "
}

func prevElement(d *dom.Document, id dom.NodeID) dom.NodeID {
	for s := d.PrevSibling(id); s != dom.None; s = d.PrevSibling(s) {
		if d.Kind(s) == dom.ElementNode {
			return s
		}
	}
	return dom.None
}

func (t *textWriter) breakAt(b int) {
	t.brk = max(t.brk, b)
}

// startLine flushes the pending break and separator before new content.
// Breaks before the first content are dropped.
func (t *textWriter) startLine() {
	if t.sb.Len() == 0 {
		t.brk, t.sep, t.lineStart = noBreak, "", true
	}
	if t.brk != noBreak {
		t.sb.WriteByte('\n')
		if t.brk == hardBreak {
			var blank strings.Builder
			for _, f := range t.frames {
				if f.used {
					blank.WriteString(f.rest)
				}
			}
			t.sb.WriteString(strings.TrimRight(blank.String(), " "))
			t.sb.WriteByte('\n')
		}
		t.brk, t.sep, t.lineStart = noBreak, "", true
	}
	if t.lineStart {
		t.writePrefix()
		t.lineStart = false
	} else {
		t.sb.WriteString(t.sep)
	}
	t.sep = ""
}

func (t *textWriter) writePrefix() {
	for i := range t.frames {
		f := &t.frames[i]
		if f.used {
			t.sb.WriteString(f.rest)
		} else {
			t.sb.WriteString(f.first)
			f.used = true
		}
	}
}

func (t *textWriter) write(s string) {
	t.startLine()
	t.sb.WriteString(s)
}

// writeVerbatim writes s without collapsing whitespace, prefixing every line.
func (t *textWriter) writeVerbatim(s string) {
	if s == "" {
		return
	}
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			t.sb.WriteByte('\n')
			t.writePrefix()
		} else {
			t.startLine()
		}
		t.sb.WriteString(line)
	}
}

func isHTMLSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}
