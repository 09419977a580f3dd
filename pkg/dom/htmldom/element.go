package htmldom

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/pagefx/pkg/dom"
)

// Element wraps an element node.
type Element struct {
	doc       *Document
	node      *html.Node
	listeners map[string][]func(dom.Event)
}

var _ dom.Element = (*Element)(nil)

// Node returns the underlying html node.
func (e *Element) Node() *html.Node { return e.node }

func (e *Element) Tag() string { return e.node.Data }

func (e *Element) ID() string { return getAttr(e.node, "id") }

func (e *Element) SetID(id string) { setAttr(e.node, "id", id) }

func (e *Element) Attr(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e *Element) SetAttr(name, value string) { setAttr(e.node, strings.ToLower(name), value) }

func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

func (e *Element) ClassList() dom.ClassList { return classList{node: e.node} }

func (e *Element) SetClassName(className string) { setAttr(e.node, "class", className) }

func (e *Element) Text() string {
	var b strings.Builder
	walk(e.node, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		return true
	})
	return b.String()
}

func (e *Element) SetText(text string) {
	e.removeChildren()
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func (e *Element) InnerHTML() string {
	var buf bytes.Buffer
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

func (e *Element) SetInnerHTML(markup string) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.node)
	e.removeChildren()
	if err != nil {
		return
	}
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
}

func (e *Element) removeChildren() {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
}

func (e *Element) Style(property string) string {
	for _, d := range parseStyle(getAttr(e.node, "style")) {
		if d.prop == property {
			return d.value
		}
	}
	return ""
}

func (e *Element) SetStyle(property, value string) {
	decls := parseStyle(getAttr(e.node, "style"))
	replaced := false
	for i := range decls {
		if decls[i].prop == property {
			decls[i].value = value
			replaced = true
		}
	}
	if !replaced {
		decls = append(decls, declaration{prop: property, value: value})
	}
	setAttr(e.node, "style", formatStyle(decls))
}

func (e *Element) Value() string {
	switch e.node.DataAtom {
	case atom.Textarea:
		return e.Text()
	case atom.Select:
		var first, selected *html.Node
		walk(e.node, func(n *html.Node) bool {
			if n.Type == html.ElementNode && n.DataAtom == atom.Option {
				if first == nil {
					first = n
				}
				if hasAttr(n, "selected") && selected == nil {
					selected = n
				}
			}
			return true
		})
		if selected == nil {
			selected = first
		}
		if selected == nil {
			return ""
		}
		if hasAttr(selected, "value") {
			return getAttr(selected, "value")
		}
		return e.doc.element(selected).Text()
	default:
		return getAttr(e.node, "value")
	}
}

func (e *Element) SetValue(value string) {
	switch e.node.DataAtom {
	case atom.Textarea:
		e.SetText(value)
	case atom.Select:
		walk(e.node, func(n *html.Node) bool {
			if n.Type == html.ElementNode && n.DataAtom == atom.Option {
				removeAttr(n, "selected")
				if getAttr(n, "value") == value {
					setAttr(n, "selected", "")
				}
			}
			return true
		})
	default:
		setAttr(e.node, "value", value)
	}
}

func (e *Element) Type() string {
	switch e.node.DataAtom {
	case atom.Textarea:
		return "textarea"
	case atom.Select:
		if hasAttr(e.node, "multiple") {
			return "select-multiple"
		}
		return "select-one"
	case atom.Input:
		if t := strings.ToLower(getAttr(e.node, "type")); t != "" {
			return t
		}
		return "text"
	default:
		return strings.ToLower(getAttr(e.node, "type"))
	}
}

func (e *Element) AppendChild(child dom.Element) {
	c, ok := child.(*Element)
	if !ok || c == nil {
		return
	}
	if c.node.Parent != nil {
		c.node.Parent.RemoveChild(c.node)
	}
	e.node.AppendChild(c.node)
}

func (e *Element) Remove() {
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
}

func (e *Element) Parent() dom.Element { return e.doc.wrap(e.node.Parent) }

func (e *Element) QuerySelectorAll(selector string) []dom.Element {
	return e.doc.match(e.node, selector, true)
}

func (e *Element) AddEventListener(event string, fn func(dom.Event)) {
	if e.listeners == nil {
		e.listeners = make(map[string][]func(dom.Event))
	}
	e.listeners[event] = append(e.listeners[event], fn)
}

func (e *Element) ScrollIntoView(smooth bool) {
	e.doc.scrolled = append(e.doc.scrolled, e)
}

// Attached reports whether the element is connected to the document.
func (e *Element) Attached() bool {
	for n := e.node; n != nil; n = n.Parent {
		if n == e.doc.root {
			return true
		}
	}
	return false
}

// ListenerCount returns how many listeners are registered for event.
func (e *Element) ListenerCount(event string) int {
	return len(e.listeners[event])
}

type classList struct {
	node *html.Node
}

func (c classList) names() []string {
	return strings.Fields(getAttr(c.node, "class"))
}

func (c classList) set(names []string) {
	setAttr(c.node, "class", strings.Join(names, " "))
}

func (c classList) Add(names ...string) {
	current := c.names()
	for _, name := range names {
		if !contains(current, name) {
			current = append(current, name)
		}
	}
	c.set(current)
}

func (c classList) Remove(names ...string) {
	current := c.names()
	kept := current[:0]
	for _, existing := range current {
		if !contains(names, existing) {
			kept = append(kept, existing)
		}
	}
	c.set(kept)
}

func (c classList) Toggle(name string) bool {
	if c.Contains(name) {
		c.Remove(name)
		return false
	}
	c.Add(name)
	return true
}

func (c classList) Contains(name string) bool {
	return contains(c.names(), name)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type declaration struct {
	prop  string
	value string
}

func parseStyle(style string) []declaration {
	var decls []declaration
	for _, part := range strings.Split(style, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.TrimSpace(prop)
		if prop == "" {
			continue
		}
		decls = append(decls, declaration{prop: prop, value: strings.TrimSpace(value)})
	}
	return decls
}

func formatStyle(decls []declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.prop+": "+d.value)
	}
	return strings.Join(parts, "; ")
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}
