package visit

import (
	"strings"
	"testing"

	"github.com/dpotapov/go-htmlast/dom"
	"github.com/dpotapov/go-htmlast/html"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func mustParse(t testing.TB, s string) *dom.Document {
	t.Helper()
	doc, _, err := html.ParseString(s)
	require.NoError(t, err)
	return doc
}

// recorder logs every hook call and returns the action configured for the
// entered node's data, Continue by default.
type recorder struct {
	events  []string
	actions map[string]Action
	exitAct map[string]Action
}

func (r *recorder) enter(name string) Action {
	r.events = append(r.events, "+"+name)
	return r.actions[name]
}

func (r *recorder) exit(name string) Action {
	r.events = append(r.events, "-"+name)
	return r.exitAct[name]
}

func (r *recorder) EnterDocument(*dom.Document, dom.NodeID) Action { return r.enter("#document") }
func (r *recorder) ExitDocument(*dom.Document, dom.NodeID) Action  { return r.exit("#document") }
func (r *recorder) EnterDoctype(d *dom.Document, id dom.NodeID) Action {
	return r.enter("!" + d.Data(id))
}
func (r *recorder) ExitDoctype(d *dom.Document, id dom.NodeID) Action { return r.exit("!" + d.Data(id)) }
func (r *recorder) EnterElement(d *dom.Document, id dom.NodeID) Action {
	return r.enter(d.Data(id))
}
func (r *recorder) ExitElement(d *dom.Document, id dom.NodeID) Action { return r.exit(d.Data(id)) }
func (r *recorder) EnterText(d *dom.Document, id dom.NodeID) Action {
	return r.enter(`"` + d.Data(id) + `"`)
}
func (r *recorder) ExitText(d *dom.Document, id dom.NodeID) Action {
	return r.exit(`"` + d.Data(id) + `"`)
}
func (r *recorder) EnterComment(d *dom.Document, id dom.NodeID) Action {
	return r.enter("#" + d.Data(id))
}
func (r *recorder) ExitComment(d *dom.Document, id dom.NodeID) Action {
	return r.exit("#" + d.Data(id))
}

const walkDoc = `<!DOCTYPE html><title>t</title><p>a<!--c--></p><div>b</div>`

func TestWalk(t *testing.T) {
	tests := []struct {
		name    string
		actions map[string]Action
		exitAct map[string]Action
		want    string
		result  Action
	}{
		{
			name: "full",
			want: `+#document +!html -!html +html +head +title +"t" -"t" -title -head ` +
				`+body +p +"a" -"a" +#c -#c -p +div +"b" -"b" -div -body -html -#document`,
			result: Continue,
		},
		{
			name:    "skip children",
			actions: map[string]Action{"head": SkipChildren, "p": SkipChildren},
			want: `+#document +!html -!html +html +head -head ` +
				`+body +p -p +div +"b" -"b" -div -body -html -#document`,
			result: Continue,
		},
		{
			name:    "stop on enter",
			actions: map[string]Action{`"a"`: Stop},
			want:    `+#document +!html -!html +html +head +title +"t" -"t" -title -head +body +p +"a"`,
			result:  Stop,
		},
		{
			name:    "stop on exit",
			exitAct: map[string]Action{"head": Stop},
			want:    `+#document +!html -!html +html +head +title +"t" -"t" -title -head`,
			result:  Stop,
		},
	}

	doc := mustParse(t, walkDoc)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &recorder{actions: tc.actions, exitAct: tc.exitAct}
			got := Walk(doc, doc.Root(), r)
			require.Equal(t, tc.result, got)
			if diff := cmp.Diff(tc.want, strings.Join(r.events, " ")); diff != "" {
				t.Errorf("events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWalkStaleRoot(t *testing.T) {
	doc := mustParse(t, "<p>x")
	p := FindFirst(doc, doc.Root(), "p")
	require.NoError(t, doc.Remove(p))

	r := &recorder{}
	require.Equal(t, Continue, Walk(doc, p, r))
	require.Empty(t, r.events)
}

type textCounter struct {
	BaseVisitor
	n int
}

func (c *textCounter) EnterText(*dom.Document, dom.NodeID) Action {
	c.n++
	return Continue
}

func TestBaseVisitor(t *testing.T) {
	doc := mustParse(t, walkDoc)
	c := &textCounter{}
	Walk(doc, doc.Root(), c)
	require.Equal(t, 3, c.n)
}

func TestPreorder(t *testing.T) {
	doc := mustParse(t, walkDoc)

	seen := map[dom.NodeID]int{}
	var order []string
	for n := range Preorder(doc, doc.Root()) {
		seen[n]++
		if doc.Kind(n) == dom.ElementNode {
			order = append(order, doc.Data(n))
		}
	}
	require.Len(t, seen, doc.Len())
	for n, count := range seen {
		require.Equal(t, 1, count, "node %d", n)
	}
	require.Equal(t, []string{"html", "head", "title", "body", "p", "div"}, order)

	// The traversal is limited to the subtree.
	body := FindFirst(doc, doc.Root(), "body")
	var sub []string
	for n := range Preorder(doc, FindFirst(doc, body, "p")) {
		sub = append(sub, doc.Kind(n).String())
	}
	require.Equal(t, []string{"element", "text", "comment"}, sub)

	// Early break.
	count := 0
	for range Preorder(doc, doc.Root()) {
		count++
		if count == 2 {
			break
		}
	}
	require.Equal(t, 2, count)
}

func TestInspect(t *testing.T) {
	doc := mustParse(t, walkDoc)
	var names []string
	Inspect(doc, doc.Root(), func(n dom.NodeID) bool {
		if doc.Kind(n) == dom.ElementNode {
			names = append(names, doc.Data(n))
		}
		return doc.Data(n) != "head"
	})
	require.Equal(t, []string{"html", "head", "body", "p", "div"}, names)
}

func TestFind(t *testing.T) {
	doc := mustParse(t, `<div id=a><P>1</P><div id=b><p>2</p></div></div>`)

	first := FindFirst(doc, doc.Root(), "DIV")
	require.True(t, doc.HasAttrValue(first, "id", "a"))

	ps := FindAll(doc, doc.Root(), "p")
	require.Len(t, ps, 2)
	require.Equal(t, "1", doc.Text(ps[0]))
	require.Equal(t, "2", doc.Text(ps[1]))

	inner := FindAll(doc, doc.Root(), "div")[1]
	require.Equal(t, inner, FindFirst(doc, inner, "div"))
	require.Equal(t, dom.None, FindFirst(doc, doc.Root(), "table"))
}

func TestNodeAt(t *testing.T) {
	doc := mustParse(t, `<p>ab<b>cd</b></p>`)
	p := FindFirst(doc, doc.Root(), "p")
	b := FindFirst(doc, doc.Root(), "b")

	require.Equal(t, p, NodeAt(doc, dom.Position{Offset: 0}))
	require.Equal(t, doc.FirstChild(p), NodeAt(doc, dom.Position{Offset: 4}))
	require.Equal(t, b, NodeAt(doc, dom.Position{Offset: 6}))
	require.Equal(t, doc.FirstChild(b), NodeAt(doc, dom.Position{Offset: 100}))

	empty := dom.NewDocument()
	require.Equal(t, dom.None, NodeAt(empty, dom.Position{Offset: 3}))
}
