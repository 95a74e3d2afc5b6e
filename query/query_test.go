package query

import (
	"testing"

	"github.com/dpotapov/go-htmlast/dom"
	"github.com/dpotapov/go-htmlast/html"
	"github.com/stretchr/testify/require"
)

const queryDoc = `<!DOCTYPE html><ul class="nav main"><li class=active><a href="https://x">x</a></li>` +
	`<li><a href="/y">y</a></li></ul><!--c--><svg><circle/></svg>`

func mustParse(t testing.TB, s string) *dom.Document {
	t.Helper()
	doc, _, err := html.ParseString(s)
	require.NoError(t, err)
	return doc
}

// describe returns a short label for each node: the tag for elements and
// the data otherwise.
func describe(d *dom.Document, ids []dom.NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = d.Data(id)
	}
	return out
}

func TestSelect(t *testing.T) {
	doc := mustParse(t, queryDoc)
	tests := []struct {
		src  string
		want []string
	}{
		{`tag == "a" && hasAttr(attrs, "href") && startsWith(attrs.href, "https://")`, []string{"a"}},
		{`"active" in classes`, []string{"li"}},
		{`"nav" in classes && "main" in classes`, []string{"ul"}},
		{`kind == "text"`, []string{"x", "y"}},
		{`kind == "comment"`, []string{"c"}},
		{`ns == "svg"`, []string{"svg", "circle"}},
		{`tag == "li" && index == 1 && text == "y"`, []string{"li"}},
		{`depth == 0`, []string{"html"}},
		{`tag == "table"`, nil},
	}
	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			s, err := Compile(tc.src)
			require.NoError(t, err)
			got, err := s.Select(doc, doc.Root())
			require.NoError(t, err)
			if tc.want == nil {
				require.Empty(t, got)
				return
			}
			require.Equal(t, tc.want, describe(doc, got))
		})
	}
}

func TestFirst(t *testing.T) {
	doc := mustParse(t, queryDoc)

	a, err := MustCompile(`tag == "a"`).First(doc, doc.Root())
	require.NoError(t, err)
	v, _ := doc.Attr(a, "href")
	require.Equal(t, "https://x", v)

	none, err := MustCompile(`tag == "table"`).First(doc, doc.Root())
	require.NoError(t, err)
	require.Equal(t, dom.None, none)
}

func TestMatch(t *testing.T) {
	doc := mustParse(t, queryDoc)
	s := MustCompile(`true`)

	ok, err := s.Match(doc, doc.Root())
	require.NoError(t, err)
	require.False(t, ok, "document node")

	ok, err = s.Match(doc, doc.FirstChild(doc.Root()))
	require.NoError(t, err)
	require.False(t, ok, "doctype node")

	ok, err = s.Match(doc, doc.DocumentElement())
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCompileErrors(t *testing.T) {
	for _, src := range []string{`tag ==`, `tag`, `unknown > 1`} {
		_, err := Compile(src)
		require.Error(t, err, src)
	}
	require.Panics(t, func() { MustCompile(`tag ==`) })
}

func TestRuntimeError(t *testing.T) {
	doc := mustParse(t, queryDoc)
	s := MustCompile(`int(text) > 0`)
	_, err := s.Select(doc, doc.Root())
	require.ErrorContains(t, err, `selector "int(text) > 0"`)

	n, err := s.First(doc, doc.Root())
	require.ErrorContains(t, err, `selector "int(text) > 0"`)
	require.Equal(t, dom.None, n)
}

func TestNewEnv(t *testing.T) {
	doc := mustParse(t, `<p id=a class=" x  y ">one <b>two</b></p>`)
	p, err := MustCompile(`tag == "p"`).First(doc, doc.Root())
	require.NoError(t, err)

	env, ok := NewEnv(doc, p)
	require.True(t, ok)
	require.Equal(t, Env{
		Kind:    "element",
		Tag:     "p",
		Attrs:   map[string]string{"id": "a", "class": " x  y "},
		Classes: []string{"x", "y"},
		Text:    "one two",
		Depth:   2,
	}, env)
}
