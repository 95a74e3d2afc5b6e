package render

import (
	"strings"
	"testing"

	"github.com/dpotapov/go-htmlast/dom"
	"github.com/dpotapov/go-htmlast/html"
	"github.com/dpotapov/go-htmlast/visit"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func mustParse(t testing.TB, s string) *dom.Document {
	t.Helper()
	doc, _, err := html.ParseString(s)
	require.NoError(t, err)
	return doc
}

func TestRenderHTML(t *testing.T) {
	tests := []struct {
		name string
		text string
		opts Options
		want string
	}{
		{
			name: "escaping",
			text: `<!DOCTYPE html><title>a &amp; b</title><p class="x" title='a"b'>1 &lt; 2<br>3</p><script>if (a<b) {}</script>`,
			want: `<!DOCTYPE html><html><head><title>a &amp; b</title></head><body>` +
				`<p class="x" title="a&quot;b">1 &lt; 2<br>3</p><script>if (a<b) {}</script></body></html>`,
		},
		{
			name: "compat quotes",
			text: `<!DOCTYPE html><p title='a"b' alt="it's">x</p>`,
			opts: Options{Quoting: CompatQuotes},
			want: `<!DOCTYPE html><html><head></head><body><p title='a"b' alt="it&apos;s">x</p></body></html>`,
		},
		{
			name: "self closing void",
			text: `<!DOCTYPE html><p>a<br>b<img src=x.png></p>`,
			opts: Options{VoidStyle: SelfCloseVoid},
			want: `<!DOCTYPE html><html><head></head><body><p>a<br/>b<img src="x.png"/></p></body></html>`,
		},
		{
			name: "foreign content",
			text: `<!DOCTYPE html><svg viewbox="0 0 1 1"><circle r=1></circle><foreignobject><p>x</p></foreignobject><use xlink:href="#a"/></svg>`,
			want: `<!DOCTYPE html><html><head></head><body><svg viewBox="0 0 1 1"><circle r="1"/>` +
				`<foreignObject><p>x</p></foreignObject><use xlink:href="#a"/></svg></body></html>`,
		},
		{
			name: "leading newline",
			text: "<!DOCTYPE html><pre>\n\nx</pre><textarea>\n\ny</textarea>",
			want: "<!DOCTYPE html><html><head></head><body><pre>\n\nx</pre><textarea>\n\ny</textarea></body></html>",
		},
		{
			name: "doctype identifiers and comments",
			text: `<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01//EN" "http://www.w3.org/TR/html4/strict.dtd"><!--a--><p>x<!--b-->`,
			want: `<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01//EN" "http://www.w3.org/TR/html4/strict.dtd">` +
				`<!--a--><html><head></head><body><p>x<!--b--></p></body></html>`,
		},
		{
			name: "template",
			text: `<!DOCTYPE html><template><tr><td>x</td></tr></template>`,
			want: `<!DOCTYPE html><html><head><template><tr><td>x</td></tr></template></head><body></body></html>`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := mustParse(t, tc.text)
			got, err := String(doc, doc.Root(), tc.opts)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderSubtree(t *testing.T) {
	doc := mustParse(t, `<div id=a><p>x</p></div>`)
	div := visit.FindFirst(doc, doc.Root(), "div")

	got, err := String(doc, div, Options{})
	require.NoError(t, err)
	require.Equal(t, `<div id="a"><p>x</p></div>`, got)

	got, err = String(doc, doc.FirstChild(visit.FindFirst(doc, div, "p")), Options{})
	require.NoError(t, err)
	require.Equal(t, "x", got)
}

func TestRenderErrors(t *testing.T) {
	doc := mustParse(t, `<p>x<br></p>`)
	p := visit.FindFirst(doc, doc.Root(), "p")
	br := visit.FindFirst(doc, p, "br")

	require.NoError(t, doc.AppendChild(br, doc.CreateText("y")))
	_, err := String(doc, p, Options{})
	require.ErrorContains(t, err, "void element <br> has child nodes")

	require.NoError(t, doc.Remove(p))
	_, err = String(doc, p, Options{})
	require.ErrorIs(t, err, dom.ErrStaleNode)
}

func TestRenderXML(t *testing.T) {
	doc := mustParse(t, `<!DOCTYPE html><p class=a>a &amp; b<br>c</p><svg><use xlink:href="#a"/></svg>`)

	got, err := String(doc, doc.Root(), Options{Flavor: XML, XMLDeclaration: true})
	require.NoError(t, err)
	want := `<?xml version="1.0" encoding="UTF-8"?><!DOCTYPE html>` +
		`<html xmlns="http://www.w3.org/1999/xhtml"><head/><body>` +
		`<p class="a">a &amp; b<br/>c</p>` +
		`<svg xmlns="http://www.w3.org/2000/svg"><use xmlns:xlink="http://www.w3.org/1999/xlink" xlink:href="#a"/></svg>` +
		`</body></html>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	// A subtree declares its own namespace.
	svg := visit.FindFirst(doc, doc.Root(), "svg")
	got, err = String(doc, svg, Options{Flavor: XML})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got, `<svg xmlns="http://www.w3.org/2000/svg">`), got)

	doc = mustParse(t, `<p xml:lang="en" lang=en>x</p>`)
	got, err = String(doc, visit.FindFirst(doc, doc.Root(), "p"), Options{Flavor: XML})
	require.NoError(t, err)
	require.Equal(t, `<p xmlns="http://www.w3.org/1999/xhtml" xml:lang="en" lang="en">x</p>`, got)
}

func TestRenderXMLNotWellFormed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"double dash comment", "<p><!--a--b--></p>"},
		{"attribute name", "<p a<b=1></p>"},
		{"prefixed element", "<o:p>x</o:p>"},
		{"form feed", "<p>a\fb</p>"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := mustParse(t, tc.text)
			_, err := String(doc, doc.Root(), Options{Flavor: XML})
			require.ErrorIs(t, err, ErrNotWellFormed)

			_, err = String(doc, doc.Root(), Options{})
			require.NoError(t, err)
		})
	}
}

const roundTripDoc = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>T &amp; C</title><style>p > a { color: red }</style></head>
<body>
<table><caption>c</caption><tr><td>1<td>2</tr></table>
<ul><li>one<li>two &lt;three&gt;</ul>
<p>a <b>b <i>c</b> d</i> e</p>
<select><option selected>x<option>y</select>
<svg viewBox="0 0 10 10"><path d="M0 0"/><foreignObject><div>z</div></foreignObject></svg>
<math><mi>x</mi></math>
<textarea>
 t</textarea>
<script>if (a < b && c) { x = "</p>" }</script>
</body>
</html>`

func TestRoundTrip(t *testing.T) {
	doc := mustParse(t, roundTripDoc)
	first, err := String(doc, doc.Root(), Options{})
	require.NoError(t, err)

	// Idempotent on the same tree.
	again, err := String(doc, doc.Root(), Options{})
	require.NoError(t, err)
	require.Equal(t, first, again)

	doc2, errs, err := html.ParseString(first)
	require.NoError(t, err)
	require.Empty(t, errs)
	require.NoError(t, doc2.Check())

	second, err := String(doc2, doc2.Root(), Options{})
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("round trip mismatch (-first +second):\n%s", diff)
	}
	require.Equal(t, doc.Len(), doc2.Len())
}

func TestRenderIndent(t *testing.T) {
	doc := mustParse(t, "<!DOCTYPE html><title>t</title><!--c--><div><p>a</p><p>b <em>c</em></p>"+
		"<ul><li>x</li></ul></div><table><tr><td>1</td></tr></table><pre>\n y</pre>")
	want := `<!DOCTYPE html>
<html>
<head>
<title>t</title>
<!--c-->
</head>
<body>
<div>
  <p>a</p>
  <p>b <em>c</em></p>
  <ul>
    <li>x</li>
  </ul>
</div>
<table>
  <tbody>
    <tr>
      <td>1</td>
    </tr>
  </tbody>
</table>
<pre> y</pre>
</body></html>`

	opts := Options{Indent: "  "}
	got, err := String(doc, doc.Root(), opts)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	for _, text := range []string{got, roundTripDoc} {
		doc := mustParse(t, text)
		first, err := String(doc, doc.Root(), opts)
		require.NoError(t, err)
		reparsed := mustParse(t, first)
		second, err := String(reparsed, reparsed.Root(), opts)
		require.NoError(t, err)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("reparse mismatch (-first +second):\n%s", diff)
		}
	}

	// Subtrees with inline content are written as is.
	p := visit.FindAll(doc, doc.Root(), "p")[1]
	got, err = String(doc, p, opts)
	require.NoError(t, err)
	require.Equal(t, `<p>b <em>c</em></p>`, got)
}

func TestRenderNoscript(t *testing.T) {
	doc, _, err := html.ParseString(`<body><noscript>1 &lt;i&gt; 2</noscript>`, html.ParseOptionEnableScripting(false))
	require.NoError(t, err)

	got, err := String(doc, doc.Root(), Options{DisableScripting: true})
	require.NoError(t, err)
	require.Equal(t, `<html><head></head><body><noscript>1 &lt;i&gt; 2</noscript></body></html>`, got)

	doc2, _, err := html.ParseString(got, html.ParseOptionEnableScripting(false))
	require.NoError(t, err)
	again, err := String(doc2, doc2.Root(), Options{DisableScripting: true})
	require.NoError(t, err)
	require.Equal(t, got, again)

	got, err = String(doc, doc.Root(), Options{})
	require.NoError(t, err)
	require.Equal(t, `<html><head></head><body><noscript>1 <i> 2</noscript></body></html>`, got)
}

func TestExcerpt(t *testing.T) {
	doc := mustParse(t, `<ul><li>1</li><li>2</li><li>3</li><li><b>4</b></li><li>5</li><li>6</li><li>7</li></ul>`)
	lis := visit.FindAll(doc, doc.Root(), "li")
	require.Len(t, lis, 7)

	require.Equal(t,
		`<ul>...<li>2</li><li>3</li><li><b>4</b></li><li>5</li><li>6</li>...</ul>`,
		Excerpt(doc, lis[3]))
	require.Equal(t, `<ul><li>1</li><li>2</li><li>3</li>...</ul>`, Excerpt(doc, lis[0]))
	require.Equal(t, `<li><b>4</b></li>`, Excerpt(doc, doc.FirstChild(lis[3])))

	require.Equal(t, `<html><head></head><body>...</body></html>`, Excerpt(doc, doc.DocumentElement()))
	require.Equal(t, "", Excerpt(doc, doc.Root()))
}

func BenchmarkRender(b *testing.B) {
	doc := mustParse(b, strings.Repeat(roundTripDoc, 20))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := String(doc, doc.Root(), Options{}); err != nil {
			b.Fatal(err)
		}
	}
}
