// Copyright 2010 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package html

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/dpotapov/go-htmlast/dom"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html/atom"
)

func dumpIndent(w io.Writer, level int) {
	_, _ = io.WriteString(w, "| ")
	for i := 0; i < level; i++ {
		_, _ = io.WriteString(w, "  ")
	}
}

func sortedAttributes(attrs []dom.Attribute) []dom.Attribute {
	attrs = slices.Clone(attrs)
	slices.SortFunc(attrs, func(x, y dom.Attribute) int {
		if x.Namespace != y.Namespace {
			return strings.Compare(x.Namespace, y.Namespace)
		}
		return strings.Compare(x.Key, y.Key)
	})
	return attrs
}

func dumpLevel(w io.Writer, d *dom.Document, n dom.NodeID, level int) error {
	dumpIndent(w, level)
	level++
	switch d.Kind(n) {
	case dom.InvalidNode:
		return fmt.Errorf("stale node %d", n)
	case dom.DocumentNode:
		return errors.New("unexpected DocumentNode")
	case dom.ElementNode:
		if ns := d.Namespace(n); ns != dom.HTML {
			_, _ = fmt.Fprintf(w, "<%s %s>", ns, d.Data(n))
		} else {
			_, _ = fmt.Fprintf(w, "<%s>", d.Data(n))
		}
		for _, a := range sortedAttributes(d.Attrs(n)) {
			_, _ = io.WriteString(w, "\n")
			dumpIndent(w, level)
			if a.Namespace != "" {
				_, _ = fmt.Fprintf(w, `%s %s="%s"`, a.Namespace, a.Key, a.Val)
			} else {
				_, _ = fmt.Fprintf(w, `%s="%s"`, a.Key, a.Val)
			}
		}
		if d.IsElement(n, dom.HTML, atom.Template) {
			_, _ = io.WriteString(w, "\n")
			dumpIndent(w, level)
			level++
			_, _ = io.WriteString(w, "content")
		}
	case dom.TextNode:
		_, _ = fmt.Fprintf(w, `"%s"`, d.Data(n))
	case dom.CommentNode:
		_, _ = fmt.Fprintf(w, "<!-- %s -->", d.Data(n))
	case dom.DoctypeNode:
		_, _ = fmt.Fprintf(w, "<!DOCTYPE %s", d.Data(n))
		if p, s := d.DoctypeIDs(n); p != "" || s != "" {
			_, _ = fmt.Fprintf(w, ` "%s"`, p)
			_, _ = fmt.Fprintf(w, ` "%s"`, s)
		}
		_, _ = io.WriteString(w, ">")
	}
	_, _ = io.WriteString(w, "\n")
	for c := range d.Children(n) {
		if err := dumpLevel(w, d, c, level); err != nil {
			return err
		}
	}
	return nil
}

func dump(d *dom.Document) (string, error) {
	var b bytes.Buffer
	for c := range d.Children(d.Root()) {
		if err := dumpLevel(&b, d, c, 0); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// removeIndent strips the common indentation of a multi-line literal.
func removeIndent(s string) string {
	s = strings.TrimLeft(s, "\n")
	i := strings.IndexFunc(s, func(r rune) bool { return r != ' ' && r != '\t' })
	if i <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for j, line := range lines {
		if len(line) >= i {
			lines[j] = line[i:]
		} else {
			lines[j] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}

type parseTestCase struct {
	name string
	text string
	want string
	errs []ErrorCode
}

func testParseCase(t *testing.T, tc parseTestCase) {
	t.Helper()
	doc, errs, err := ParseString(tc.text)
	require.NoError(t, err)
	require.NoError(t, doc.Check())

	if tc.errs != nil {
		if diff := cmp.Diff(errs.Codes(), tc.errs); diff != "" {
			t.Errorf("errors mismatch (-got +want):\n%s", diff)
		}
	}

	got, err := dump(doc)
	require.NoError(t, err)
	if diff := cmp.Diff(got, removeIndent(tc.want)); diff != "" {
		t.Errorf("tree mismatch (-got +want):\n%s", diff)
	}
}

func TestParser(t *testing.T) {
	tests := []parseTestCase{
		{
			name: "implied p end tag keeps formatting open",
			text: "<p><b><i>x</p>y",
			want: `
				| <html>
				|   <head>
				|   <body>
				|     <p>
				|       <b>
				|         <i>
				|           "x"
				|     <b>
				|       <i>
				|         "y"
				`,
			errs: []ErrorCode{ErrMissingDoctype, ErrEndTagWithUnclosedElements, ErrEOFWithOpenElements},
		},
		{
			name: "foster parenting",
			text: "<table><b>x</table>",
			want: `
				| <html>
				|   <head>
				|   <body>
				|     <b>
				|       "x"
				|     <table>
				`,
			errs: []ErrorCode{ErrMissingDoctype, ErrFosterParentedContent, ErrFosterParentedContent},
		},
		{
			name: "unclosed span",
			text: "<!DOCTYPE html><div><span></div>",
			want: `
				| <!DOCTYPE html>
				| <html>
				|   <head>
				|   <body>
				|     <div>
				|       <span>
				`,
			errs: []ErrorCode{ErrEndTagWithUnclosedElements},
		},
		{
			name: "adoption agency",
			text: "<!DOCTYPE html><b>1<p>2</b>3</p>",
			want: `
				| <!DOCTYPE html>
				| <html>
				|   <head>
				|   <body>
				|     <b>
				|       "1"
				|     <p>
				|       <b>
				|         "2"
				|       "3"
				`,
			errs: []ErrorCode{ErrMisnestedFormattingElement},
		},
		{
			name: "nested anchors",
			text: "<a><p><a></a></p></a>",
			want: `
				| <html>
				|   <head>
				|   <body>
				|     <a>
				|     <p>
				|       <a>
				|       <a>
				`,
		},
		{
			name: "table text",
			text: "<!DOCTYPE html><table>x<tr><td>y</td></tr></table>",
			want: `
				| <!DOCTYPE html>
				| <html>
				|   <head>
				|   <body>
				|     "x"
				|     <table>
				|       <tbody>
				|         <tr>
				|           <td>
				|             "y"
				`,
			errs: []ErrorCode{ErrFosterParentedContent},
		},
		{
			name: "table whitespace",
			text: "<!DOCTYPE html><table> <tr> <td>a</td> </tr> </table>",
			want: `
				| <!DOCTYPE html>
				| <html>
				|   <head>
				|   <body>
				|     <table>
				|       " "
				|       <tbody>
				|         <tr>
				|           " "
				|           <td>
				|             "a"
				|           " "
				|         " "
				`,
			errs: []ErrorCode{},
		},
		{
			name: "head content",
			text: "<!DOCTYPE html><title>a &amp; b</title><p>x",
			want: `
				| <!DOCTYPE html>
				| <html>
				|   <head>
				|     <title>
				|       "a & b"
				|   <body>
				|     <p>
				|       "x"
				`,
			errs: []ErrorCode{},
		},
		{
			name: "script is raw text",
			text: "<!DOCTYPE html><script>if (a<b) {}</script>",
			want: `
				| <!DOCTYPE html>
				| <html>
				|   <head>
				|     <script>
				|       "if (a<b) {}"
				|   <body>
				`,
			errs: []ErrorCode{},
		},
		{
			name: "template contents",
			text: "<!DOCTYPE html><template><tr><td>x</td></tr></template>",
			want: `
				| <!DOCTYPE html>
				| <html>
				|   <head>
				|     <template>
				|       content
				|         <tr>
				|           <td>
				|             "x"
				|   <body>
				`,
			errs: []ErrorCode{},
		},
		{
			name: "svg integration point",
			text: `<!DOCTYPE html><svg viewbox="0 0 1 1"><foreignobject><p>x</p></foreignobject></svg>`,
			want: `
				| <!DOCTYPE html>
				| <html>
				|   <head>
				|   <body>
				|     <svg svg>
				|       viewBox="0 0 1 1"
				|       <svg foreignObject>
				|         <p>
				|           "x"
				`,
			errs: []ErrorCode{},
		},
		{
			name: "xlink attribute",
			text: `<!DOCTYPE html><svg><use xlink:href="#a"/></svg>`,
			want: `
				| <!DOCTYPE html>
				| <html>
				|   <head>
				|   <body>
				|     <svg svg>
				|       <svg use>
				|         xlink href="#a"
				`,
			errs: []ErrorCode{},
		},
		{
			name: "foreign breakout",
			text: "<!DOCTYPE html><svg><b>x</b></svg>",
			want: `
				| <!DOCTYPE html>
				| <html>
				|   <head>
				|   <body>
				|     <svg svg>
				|     <b>
				|       "x"
				`,
			errs: []ErrorCode{ErrUnexpectedStartTag, ErrUnexpectedEndTag},
		},
		{
			name: "mathml text integration point",
			text: "<!DOCTYPE html><math><mi><b>x</b></mi></math>",
			want: `
				| <!DOCTYPE html>
				| <html>
				|   <head>
				|   <body>
				|     <math math>
				|       <math mi>
				|         <b>
				|           "x"
				`,
			errs: []ErrorCode{},
		},
		{
			name: "quirks mode table in p",
			text: "<p><table>",
			want: `
				| <html>
				|   <head>
				|   <body>
				|     <p>
				|       <table>
				`,
		},
		{
			name: "no quirks table closes p",
			text: "<!DOCTYPE html><p><table>",
			want: `
				| <!DOCTYPE html>
				| <html>
				|   <head>
				|   <body>
				|     <p>
				|     <table>
				`,
		},
		{
			name: "select",
			text: "<!DOCTYPE html><select><option>a<option>b</select>",
			want: `
				| <!DOCTYPE html>
				| <html>
				|   <head>
				|   <body>
				|     <select>
				|       <option>
				|         "a"
				|       <option>
				|         "b"
				`,
			errs: []ErrorCode{},
		},
		{
			name: "list items",
			text: "<!DOCTYPE html><ul><li>a<li>b</ul>",
			want: `
				| <!DOCTYPE html>
				| <html>
				|   <head>
				|   <body>
				|     <ul>
				|       <li>
				|         "a"
				|       <li>
				|         "b"
				`,
			errs: []ErrorCode{},
		},
		{
			name: "pre drops leading newline",
			text: "<!DOCTYPE html><pre>\n\nx</pre><textarea>\ny</textarea>",
			want: `
				| <!DOCTYPE html>
				| <html>
				|   <head>
				|   <body>
				|     <pre>
				|       "
				x"
				|     <textarea>
				|       "y"
				`,
			errs: []ErrorCode{},
		},
		{
			name: "frameset",
			text: "<!DOCTYPE html><frameset><frame></frameset>",
			want: `
				| <!DOCTYPE html>
				| <html>
				|   <head>
				|   <frameset>
				|     <frame>
				`,
			errs: []ErrorCode{},
		},
		{
			name: "comment after html",
			text: "<!DOCTYPE html><html></html><!--c-->",
			want: `
				| <!DOCTYPE html>
				| <html>
				|   <head>
				|   <body>
				| <!-- c -->
				`,
			errs: []ErrorCode{},
		},
		{
			name: "duplicate attributes first wins",
			text: `<!DOCTYPE html><p id="a" id="b" class=c>`,
			want: `
				| <!DOCTYPE html>
				| <html>
				|   <head>
				|   <body>
				|     <p>
				|       class="c"
				|       id="a"
				`,
			errs: []ErrorCode{ErrDuplicateAttribute},
		},
		{
			name: "html attributes merge",
			text: `<!DOCTYPE html><html lang="en"><body><html lang="fr" dir="ltr">`,
			want: `
				| <!DOCTYPE html>
				| <html>
				|   dir="ltr"
				|   lang="en"
				|   <head>
				|   <body>
				`,
			errs: []ErrorCode{ErrUnexpectedStartTag},
		},
		{
			name: "stray end tag",
			text: "<!DOCTYPE html><p>a</span>b",
			want: `
				| <!DOCTYPE html>
				| <html>
				|   <head>
				|   <body>
				|     <p>
				|       "ab"
				`,
			errs: []ErrorCode{ErrUnexpectedEndTag},
		},
		{
			name: "doctype with identifiers",
			text: `<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01//EN" "http://www.w3.org/TR/html4/strict.dtd">`,
			want: `
				| <!DOCTYPE html "-//W3C//DTD HTML 4.01//EN" "http://www.w3.org/TR/html4/strict.dtd">
				| <html>
				|   <head>
				|   <body>
				`,
			errs: []ErrorCode{ErrNonConformingDoctype},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			testParseCase(t, tc)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, errs, err := ParseString("<!DOCTYPE html><div>\n<span></div>")
	require.NoError(t, err)
	require.Len(t, errs, 1)
	require.Equal(t, ErrEndTagWithUnclosedElements, errs[0].Code)
	require.Equal(t, "div", errs[0].Tag)
	require.Equal(t, 2, errs[0].Pos.Line)
	require.Equal(t, 7, errs[0].Pos.Column)
	require.ErrorContains(t, errs.Err(), "end-tag-with-unclosed-elements")
}

func TestParseErrorsInInputOrder(t *testing.T) {
	_, errs, err := ParseString("<!DOCTYPE html><p a=1 a=2>&unknownref;</b>")
	require.NoError(t, err)
	for i := 1; i < len(errs); i++ {
		require.LessOrEqual(t, errs[i-1].Pos.Offset, errs[i].Pos.Offset)
	}
	require.Contains(t, errs.Codes(), ErrDuplicateAttribute)
	require.Contains(t, errs.Codes(), ErrUnknownNamedCharacterReference)
	require.Contains(t, errs.Codes(), ErrUnexpectedEndTag)
}

func TestParseQuirksMode(t *testing.T) {
	tests := []struct {
		text string
		want dom.QuirksMode
	}{
		{"<!DOCTYPE html>", dom.NoQuirks},
		{"<p>", dom.Quirks},
		{`<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01 Transitional//EN">`, dom.Quirks},
		{`<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01 Transitional//EN" "http://www.w3.org/TR/html4/loose.dtd">`, dom.LimitedQuirks},
		{`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "">`, dom.LimitedQuirks},
		{`<!DOCTYPE svg>`, dom.Quirks},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			doc, _, err := ParseString(tc.text)
			require.NoError(t, err)
			require.Equal(t, tc.want, doc.QuirksMode())
		})
	}
}

func TestParseScripting(t *testing.T) {
	doc, _, err := ParseString("<!DOCTYPE html><noscript><p>x</p></noscript>", ParseOptionEnableScripting(false))
	require.NoError(t, err)
	got, err := dump(doc)
	require.NoError(t, err)
	want := removeIndent(`
		| <!DOCTYPE html>
		| <html>
		|   <head>
		|     <noscript>
		|   <body>
		|     <p>
		|       "x"
		`)
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("tree mismatch (-got +want):\n%s", diff)
	}

	doc, _, err = ParseString("<!DOCTYPE html><noscript><p>x</p></noscript>")
	require.NoError(t, err)
	got, err = dump(doc)
	require.NoError(t, err)
	want = removeIndent(`
		| <!DOCTYPE html>
		| <html>
		|   <head>
		|     <noscript>
		|       "<p>x</p>"
		|   <body>
		`)
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("tree mismatch (-got +want):\n%s", diff)
	}
}

func TestParseFragment(t *testing.T) {
	tests := []struct {
		context string
		text    string
		want    string
	}{
		{
			context: "div",
			text:    "<b>x</b>y",
			want: `
				| <html>
				|   <b>
				|     "x"
				|   "y"
				`,
		},
		{
			context: "tr",
			text:    "<td>x</td>",
			want: `
				| <html>
				|   <td>
				|     "x"
				`,
		},
		{
			context: "textarea",
			text:    "<b>x</b>",
			want: `
				| <html>
				|   "<b>x</b>"
				`,
		},
		{
			context: "svg",
			text:    "<circle r=1></circle><p>x",
			want: `
				| <html>
				|   <svg circle>
				|     r="1"
				|   <p>
				|     "x"
				`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.context, func(t *testing.T) {
			doc, _, err := ParseFragment(strings.NewReader(tc.text), tc.context)
			require.NoError(t, err)
			require.NoError(t, doc.Check())
			got, err := dump(doc)
			require.NoError(t, err)
			if diff := cmp.Diff(got, removeIndent(tc.want)); diff != "" {
				t.Errorf("tree mismatch (-got +want):\n%s", diff)
			}
		})
	}
}

func TestParseFragmentInvalidContext(t *testing.T) {
	for _, context := range []string{"my tag", "a<b", "x\"y"} {
		doc, errs, err := ParseFragment(strings.NewReader("<b>x"), context)
		require.Nil(t, doc, context)
		require.Nil(t, errs, context)
		var fatal *FatalError
		require.True(t, errors.As(err, &fatal), context)
		require.ErrorIs(t, err, dom.ErrInvalidTagName, context)
	}
}

func TestParseTokens(t *testing.T) {
	doc, errs, err := ParseTokens([]Token{
		{Type: StartTagToken, Data: "P"},
		{Type: CharacterToken, Data: "x"},
		{Type: StartTagToken, Data: "div"},
		{Type: EndTagToken, Data: "p"},
	})
	require.NoError(t, err)
	require.Equal(t, []ErrorCode{ErrMissingDoctype, ErrUnexpectedEndTag, ErrEOFWithOpenElements}, errs.Codes())
	got, err := dump(doc)
	require.NoError(t, err)
	want := removeIndent(`
		| <html>
		|   <head>
		|   <body>
		|     <p>
		|       "x"
		|     <div>
		|       <p>
		`)
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("tree mismatch (-got +want):\n%s", diff)
	}
}

// Misnested formatting elements must terminate and keep the tree consistent,
// however deep the nesting.
func TestParseAdoptionAgencyBound(t *testing.T) {
	inputs := []string{
		strings.Repeat("<b><a>", 100) + "x" + strings.Repeat("</b></a>", 100),
		strings.Repeat("<b><div>", 50) + strings.Repeat("</b>", 50),
		"<a><b><a><b><p>x</a>y</b>z",
		strings.Repeat("<table><b>", 30) + "x",
		"<math><template><mo><template>x",
		"<svg><template><desc><template><td>x",
	}
	for i, in := range inputs {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			doc, _, err := ParseString(in)
			require.NoError(t, err)
			require.NoError(t, doc.Check())
			require.NotEqual(t, dom.None, doc.DocumentElement())
		})
	}
}

func TestParseNoahsArk(t *testing.T) {
	doc, _, err := ParseString("<!DOCTYPE html><p><b><b><b><b>x</p>y")
	require.NoError(t, err)
	got, err := dump(doc)
	require.NoError(t, err)
	// Only three identical formatting elements are reconstructed.
	want := removeIndent(`
		| <!DOCTYPE html>
		| <html>
		|   <head>
		|   <body>
		|     <p>
		|       <b>
		|         <b>
		|           <b>
		|             <b>
		|               "x"
		|     <b>
		|       <b>
		|         <b>
		|           "y"
		`)
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("tree mismatch (-got +want):\n%s", diff)
	}
}

func TestParseSelfClosingNonVoid(t *testing.T) {
	_, errs, err := ParseString("<!DOCTYPE html><div/><br/><svg><path/></svg>")
	require.NoError(t, err)
	require.Equal(t, []ErrorCode{ErrNonVoidSelfClosingTag}, errs.Codes())
}

func BenchmarkParser(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html><html><head><title>bench</title></head><body>")
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&sb, `<div class="row" id="r%d"><p>Item <b>%d</b> &amp; <a href="/x?i=%d">link</a></p>`, i, i, i)
		sb.WriteString("<table><tr><td>a</td><td>b</td></tr></table></div>")
	}
	sb.WriteString("</body></html>")
	src := sb.String()
	b.SetBytes(int64(len(src)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := ParseString(src); err != nil {
			b.Fatal(err)
		}
	}
}
