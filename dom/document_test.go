package dom

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html/atom"
)

// newTestDoc builds <html><body><p>one</p><p>two</p></body></html>.
func newTestDoc(t *testing.T) (d *Document, html, body, p1, p2 NodeID) {
	t.Helper()
	d = NewDocument()
	var err error
	html, err = d.CreateElement(HTML, "html")
	require.NoError(t, err)
	body, err = d.CreateElement(HTML, "body")
	require.NoError(t, err)
	p1, err = d.CreateElement(HTML, "p")
	require.NoError(t, err)
	p2, err = d.CreateElement(HTML, "p")
	require.NoError(t, err)

	require.NoError(t, d.AppendChild(d.Root(), html))
	require.NoError(t, d.AppendChild(html, body))
	require.NoError(t, d.AppendChild(body, p1))
	require.NoError(t, d.AppendChild(body, p2))
	require.NoError(t, d.AppendChild(p1, d.CreateText("one")))
	require.NoError(t, d.AppendChild(p2, d.CreateText("two")))
	return d, html, body, p1, p2
}

func TestDocumentAccessors(t *testing.T) {
	d, html, body, p1, p2 := newTestDoc(t)

	require.NoError(t, d.Check())
	require.Equal(t, html, d.DocumentElement())
	require.Equal(t, atom.Html, d.Atom(html))
	require.Equal(t, ElementNode, d.Kind(body))
	require.Equal(t, body, d.Parent(p1))
	require.Equal(t, p2, d.NextSibling(p1))
	require.Equal(t, p1, d.PrevSibling(p2))
	require.Equal(t, []NodeID{p1, p2}, slices.Collect(d.Children(body)))
	require.Equal(t, 2, d.ChildCount(body))
	require.Equal(t, p2, d.Child(body, 1))
	require.Equal(t, None, d.Child(body, 2))
	require.Equal(t, "onetwo", d.Text(html))
	require.True(t, d.IsAncestor(html, p2))
	require.False(t, d.IsAncestor(p1, p2))
	require.Equal(t, 7, d.Len())
}

func TestDocumentInsertChild(t *testing.T) {
	d, _, body, p1, p2 := newTestDoc(t)

	div, err := d.CreateElement(HTML, "DIV")
	require.NoError(t, err)
	require.Equal(t, "div", d.Data(div))

	require.NoError(t, d.InsertChild(body, 1, div))
	require.Equal(t, []NodeID{p1, div, p2}, slices.Collect(d.Children(body)))

	// moving a node keeps its handle
	require.NoError(t, d.InsertChild(body, 0, p2))
	require.Equal(t, []NodeID{p2, p1, div}, slices.Collect(d.Children(body)))
	require.NoError(t, d.InsertChild(body, 3-1, p2))
	require.Equal(t, []NodeID{p1, div, p2}, slices.Collect(d.Children(body)))

	err = d.InsertChild(body, 5, d.CreateText("x"))
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	require.NoError(t, d.Check())
}

func TestDocumentMutationErrors(t *testing.T) {
	d, html, body, p1, p2 := newTestDoc(t)

	t.Run("cycle", func(t *testing.T) {
		err := d.AppendChild(p1, body)
		require.ErrorIs(t, err, ErrCycle)
		var me *MutationError
		require.True(t, errors.As(err, &me))
		require.Equal(t, body, me.Node)

		require.ErrorIs(t, d.AppendChild(p1, p1), ErrCycle)
	})

	t.Run("stale", func(t *testing.T) {
		text := d.FirstChild(p2)
		require.NoError(t, d.Remove(p2))
		require.False(t, d.Valid(p2))
		require.False(t, d.Valid(text))
		require.ErrorIs(t, d.AppendChild(body, p2), ErrStaleNode)
		require.ErrorIs(t, d.SetAttr(p2, "id", "x"), ErrStaleNode)
		require.Equal(t, InvalidNode, d.Kind(p2))
		require.Equal(t, None, d.Parent(text))
	})

	t.Run("attribute name", func(t *testing.T) {
		require.ErrorIs(t, d.SetAttr(p1, "a b", "x"), ErrInvalidAttrName)
		require.ErrorIs(t, d.SetAttr(p1, "", "x"), ErrInvalidAttrName)
		_, err := d.CreateElement(HTML, "div", Attribute{Key: "x>y"})
		require.ErrorIs(t, err, ErrInvalidAttrName)

		require.NoError(t, d.SetAttr(p1, "class", "c"))
		before := slices.Clone(d.Attrs(p1))
		err = d.MergeAttrs(p1, []Attribute{{Key: "ok", Val: "1"}, {Key: "x=y", Val: "2"}})
		require.ErrorIs(t, err, ErrInvalidAttrName)
		require.Equal(t, before, d.Attrs(p1))
		require.ErrorIs(t, d.MergeAttrs(p1, []Attribute{{Key: ""}}), ErrInvalidAttrName)
	})

	t.Run("hierarchy", func(t *testing.T) {
		require.ErrorIs(t, d.AppendChild(d.Root(), d.CreateText("x")), ErrHierarchy)
		other, err := d.CreateElement(HTML, "html")
		require.NoError(t, err)
		require.ErrorIs(t, d.AppendChild(d.Root(), other), ErrHierarchy)
		require.ErrorIs(t, d.AppendChild(d.FirstChild(p1), other), ErrHierarchy)
		require.ErrorIs(t, d.InsertBefore(body, other, html), ErrNotChild)
	})

	require.NoError(t, d.Check())
}

func TestDocumentAttributes(t *testing.T) {
	d := NewDocument()
	el, err := d.CreateElement(HTML, "a",
		Attribute{Key: "href", Val: "/one"},
		Attribute{Key: "href", Val: "/two"},
	)
	require.NoError(t, err)
	require.Equal(t, []Attribute{{Key: "href", Val: "/one"}}, d.Attrs(el))

	require.NoError(t, d.SetAttr(el, "class", "x"))
	require.NoError(t, d.SetAttr(el, "href", "/three"))
	require.NoError(t, d.SetAttrNS(el, "xlink", "href", "/four"))
	require.True(t, d.HasAttrValue(el, "href", "/three"))

	require.NoError(t, d.MergeAttrs(el, []Attribute{{Key: "class", Val: "y"}, {Key: "id", Val: "z"}}))
	require.Equal(t, []Attribute{
		{Key: "href", Val: "/three"},
		{Key: "class", Val: "x"},
		{Namespace: "xlink", Key: "href", Val: "/four"},
		{Key: "id", Val: "z"},
	}, d.Attrs(el))

	ok, err := d.RemoveAttr(el, "class")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = d.RemoveAttr(el, "class")
	require.NoError(t, err)
	require.False(t, ok)

	// Node returns a copy that does not alias the document.
	n := d.Node(el)
	n.Attr[0].Val = "changed"
	v, _ := d.Attr(el, "href")
	require.Equal(t, "/three", v)
}

func TestDocumentNormalize(t *testing.T) {
	d, _, body, p1, _ := newTestDoc(t)

	require.NoError(t, d.AppendChild(p1, d.CreateText("")))
	require.NoError(t, d.AppendChild(p1, d.CreateText(" and")))
	require.NoError(t, d.AppendChild(body, d.CreateText("")))
	require.Error(t, d.Check())

	require.NoError(t, d.Normalize(d.Root()))
	require.NoError(t, d.Check())
	require.Equal(t, 1, d.ChildCount(p1))
	require.Equal(t, "one and", d.Data(d.FirstChild(p1)))
	require.Equal(t, 2, d.ChildCount(body))
}

func TestDocumentClone(t *testing.T) {
	d, _, body, p1, _ := newTestDoc(t)
	require.NoError(t, d.SetAttr(p1, "class", "a"))

	c, err := d.Clone(p1)
	require.NoError(t, err)
	require.Equal(t, None, d.Parent(c))
	require.Equal(t, None, d.FirstChild(c))
	require.Equal(t, d.Attrs(p1), d.Attrs(c))

	require.NoError(t, d.SetAttr(c, "class", "b"))
	require.True(t, d.HasAttrValue(p1, "class", "a"))

	require.NoError(t, d.MoveChildren(c, p1))
	require.NoError(t, d.AppendChild(body, c))
	require.Equal(t, None, d.FirstChild(p1))
	require.Equal(t, "one", d.Text(c))
	require.NoError(t, d.Check())
}

func TestTagClasses(t *testing.T) {
	require.True(t, IsVoidElement("BR"))
	require.False(t, IsVoidElement("div"))
	require.True(t, IsInlineElement("span"))
	require.False(t, IsInlineElement("p"))
	require.True(t, IsInlineElement("SCRIPT"))
	require.True(t, IsInlineAtom(atom.Rt))
	require.False(t, IsInlineAtom(atom.Li))
	require.True(t, IsHeadingElement("h3"))
	require.False(t, IsHeadingElement("header"))
}
