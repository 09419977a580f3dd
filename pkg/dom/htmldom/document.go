// Package htmldom is an in-memory dom.Document backed by golang.org/x/net/html.
//
// It parses a page, resolves CSS selectors with cascadia, and exposes
// drivers (Load, ScrollTo, Click, Blur, SetIntersection) that stand in for
// the browser's event loop. Element wrappers are identity-stable: looking
// up the same node twice yields the same dom.Element value, so elements
// can be used as map keys.
package htmldom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/pagefx/pkg/dom"
)

// Document is an in-memory page.
type Document struct {
	root     *html.Node
	body     *html.Node
	wrappers map[*html.Node]*Element

	scrollY float64
	loaded  bool

	scrollFns []func()
	readyFns  []func()
	loadFns   []func()

	observers []*observer
	ratios    map[*Element]float64
	scrolled  []dom.Element
}

var _ dom.Document = (*Document)(nil)

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmldom: parse: %w", err)
	}
	d := &Document{
		root:     root,
		wrappers: make(map[*html.Node]*Element),
		ratios:   make(map[*Element]float64),
	}
	d.body = findFirst(root, atom.Body)
	if d.body == nil {
		return nil, fmt.Errorf("htmldom: document has no body")
	}
	return d, nil
}

// ParseString reads an HTML document from a string.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// MustParse is ParseString for tests and fixtures; it panics on error.
func MustParse(markup string) *Document {
	d, err := ParseString(markup)
	if err != nil {
		panic(err)
	}
	return d
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

// wrap returns the stable wrapper for n. A nil or non-element node yields
// an untyped nil so callers can compare against nil.
func (d *Document) wrap(n *html.Node) dom.Element {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	return d.element(n)
}

func (d *Document) element(n *html.Node) *Element {
	if el, ok := d.wrappers[n]; ok {
		return el
	}
	el := &Element{doc: d, node: n}
	d.wrappers[n] = el
	return el
}

// Body implements dom.Document.
func (d *Document) Body() dom.Element {
	return d.wrap(d.body)
}

// GetElementByID implements dom.Document.
func (d *Document) GetElementByID(id string) dom.Element {
	if id == "" {
		return nil
	}
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && getAttr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	return d.wrap(found)
}

// QuerySelector implements dom.Document.
func (d *Document) QuerySelector(selector string) dom.Element {
	all := d.QuerySelectorAll(selector)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// QuerySelectorAll implements dom.Document.
func (d *Document) QuerySelectorAll(selector string) []dom.Element {
	return d.match(d.root, selector, false)
}

func (d *Document) match(n *html.Node, selector string, excludeSelf bool) []dom.Element {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil
	}
	var out []dom.Element
	for _, m := range sel.MatchAll(n) {
		if excludeSelf && m == n {
			continue
		}
		out = append(out, d.element(m))
	}
	return out
}

// CreateElement implements dom.Document.
func (d *Document) CreateElement(tag string) dom.Element {
	tag = strings.ToLower(tag)
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	return d.element(n)
}

// ScrollY implements dom.Document.
func (d *Document) ScrollY() float64 {
	return d.scrollY
}

// OnScroll implements dom.Document.
func (d *Document) OnScroll(fn func()) {
	d.scrollFns = append(d.scrollFns, fn)
}

// OnReady implements dom.Document. After Load has run, fn is called
// immediately.
func (d *Document) OnReady(fn func()) {
	if d.loaded {
		fn()
		return
	}
	d.readyFns = append(d.readyFns, fn)
}

// OnLoad implements dom.Document. After Load has run, fn is called
// immediately.
func (d *Document) OnLoad(fn func()) {
	if d.loaded {
		fn()
		return
	}
	d.loadFns = append(d.loadFns, fn)
}

// Load fires DOMContentLoaded listeners, then load listeners. It runs
// once; later calls are no-ops.
func (d *Document) Load() {
	if d.loaded {
		return
	}
	d.loaded = true
	for _, fn := range d.readyFns {
		fn()
	}
	for _, fn := range d.loadFns {
		fn()
	}
	d.readyFns, d.loadFns = nil, nil
}

// ScrollTo sets the scroll offset and fires scroll listeners.
func (d *Document) ScrollTo(y float64) {
	d.scrollY = y
	for _, fn := range d.scrollFns {
		fn()
	}
}

// Click dispatches a click on el and returns the event.
func (d *Document) Click(el dom.Element) dom.Event {
	return d.Dispatch(el, dom.EventClick)
}

// Blur dispatches a blur on el and returns the event.
func (d *Document) Blur(el dom.Element) dom.Event {
	return d.Dispatch(el, dom.EventBlur)
}

// Dispatch fires an event of the given type at el's own listeners.
// Events do not bubble.
func (d *Document) Dispatch(el dom.Element, eventType string) dom.Event {
	ev := &event{typ: eventType, target: el}
	e, ok := el.(*Element)
	if !ok || e == nil {
		return ev
	}
	for _, fn := range append([]func(dom.Event){}, e.listeners[eventType]...) {
		fn(ev)
	}
	return ev
}

// ScrolledIntoView returns the elements ScrollIntoView was called on, in
// call order.
func (d *Document) ScrolledIntoView() []dom.Element {
	return d.scrolled
}

// Render serializes the whole document.
func (d *Document) Render() string {
	var buf bytes.Buffer
	_ = html.Render(&buf, d.root)
	return buf.String()
}

// walk visits n and its descendants depth-first until visit returns false.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

type event struct {
	typ       string
	target    dom.Element
	prevented bool
}

func (e *event) Type() string           { return e.typ }
func (e *event) Target() dom.Element    { return e.target }
func (e *event) PreventDefault()        { e.prevented = true }
func (e *event) DefaultPrevented() bool { return e.prevented }
