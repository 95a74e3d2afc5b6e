package render

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/dpotapov/go-htmlast/dom"
)

// Excerpt renders a small piece of markup around the node: up to two
// significant siblings on each side, wrapped in the node's parent element.
// Elements other than the node itself are abbreviated to their text or
// "...". It is meant for error messages.
func Excerpt(d *dom.Document, id dom.NodeID) string {
	if !d.Valid(id) || id == d.Root() {
		return ""
	}
	return renderExcerpt(buildExcerpt(d, id))
}

// excerptBuilder is a type to organize helper functions for building
// excerpt trees.
type excerptBuilder struct {
	d *dom.Document
}

func (b excerptBuilder) significant(n dom.NodeID) bool {
	return b.d.Kind(n) != dom.TextNode || strings.TrimSpace(b.d.Data(n)) != ""
}

func (b excerptBuilder) addPrevSiblings(ctx *etree.Element, id dom.NodeID) {
	var prev []dom.NodeID
	truncated := false
	for s := b.d.PrevSibling(id); s != dom.None; s = b.d.PrevSibling(s) {
		if !b.significant(s) {
			continue
		}
		if len(prev) == 2 {
			truncated = true
			break
		}
		prev = append(prev, s)
	}
	if truncated {
		ctx.AddChild(etree.NewText("..."))
	}
	for i := len(prev) - 1; i >= 0; i-- {
		b.addNode(ctx, prev[i], true)
	}
}

func (b excerptBuilder) addNextSiblings(ctx *etree.Element, id dom.NodeID) {
	c := 0
	for s := b.d.NextSibling(id); s != dom.None; s = b.d.NextSibling(s) {
		if !b.significant(s) {
			continue
		}
		if c == 2 {
			ctx.AddChild(etree.NewText("..."))
			break
		}
		b.addNode(ctx, s, true)
		c++
	}
}

func (b excerptBuilder) addNode(ctx *etree.Element, n dom.NodeID, abbreviate bool) {
	switch b.d.Kind(n) {
	case dom.ElementNode:
		clone := etree.NewElement(b.d.Data(n))
		for _, a := range b.d.Attrs(n) {
			clone.Attr = append(clone.Attr, etree.Attr{Key: a.QualifiedName(), Value: a.Val})
		}
		if abbreviate && b.hasChildElements(n) {
			clone.AddChild(etree.NewText("..."))
		} else if abbreviate {
			if text := b.d.Text(n); text != "" {
				clone.SetText(text)
			}
		} else {
			for c := range b.d.Children(n) {
				b.addNode(clone, c, true)
			}
		}
		ctx.AddChild(clone)
	case dom.TextNode:
		if b.significant(n) {
			ctx.AddChild(etree.NewText(b.d.Data(n)))
		}
	case dom.CommentNode:
		ctx.AddChild(etree.NewComment(b.d.Data(n)))
	}
}

func (b excerptBuilder) hasChildElements(n dom.NodeID) bool {
	for c := range b.d.Children(n) {
		if b.d.Kind(c) == dom.ElementNode {
			return true
		}
	}
	return false
}

func (b excerptBuilder) wrapParent(ctx *etree.Element, id dom.NodeID) *etree.Element {
	parent := b.d.Parent(id)
	if b.d.Kind(parent) != dom.ElementNode {
		return ctx // do not wrap top level nodes
	}

	ctx.Tag = b.d.Data(parent)
	for _, a := range b.d.Attrs(parent) {
		ctx.Attr = append(ctx.Attr, etree.Attr{Key: a.QualifiedName(), Value: a.Val})
	}

	wrapper := &etree.Element{}
	wrapper.AddChild(ctx)
	return wrapper
}

func buildExcerpt(d *dom.Document, id dom.NodeID) *etree.Element {
	ctx := &etree.Element{}
	b := excerptBuilder{d: d}
	b.addPrevSiblings(ctx, id)
	b.addNode(ctx, id, false)
	b.addNextSiblings(ctx, id)
	return b.wrapParent(ctx, id)
}

// renderExcerpt converts the excerpt tree into a scratch document and
// renders it as HTML.
func renderExcerpt(ctx *etree.Element) string {
	dst := dom.NewDocument()
	container := dst.Create(dom.Node{Kind: dom.ElementNode, Data: "body"})

	var build func(parent dom.NodeID, src *etree.Element)
	build = func(parent dom.NodeID, src *etree.Element) {
		for _, c := range src.Child {
			var n dom.NodeID
			switch t := c.(type) {
			case *etree.Element:
				node := dom.Node{Kind: dom.ElementNode, Data: t.FullTag()}
				for _, a := range t.Attr {
					node.Attr = append(node.Attr, dom.Attribute{Key: a.FullKey(), Val: a.Value})
				}
				n = dst.Create(node)
				build(n, t)
			case *etree.CharData:
				n = dst.CreateText(t.Data)
			case *etree.Comment:
				n = dst.CreateComment(t.Data)
			default:
				continue
			}
			_ = dst.AppendChild(parent, n)
		}
	}
	build(container, ctx)

	var sb strings.Builder
	for c := range dst.Children(container) {
		if err := renderHTML(&sb, dst, c, &Options{}); err != nil {
			return sb.String()
		}
	}
	return sb.String()
}
