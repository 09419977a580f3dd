//go:build js && wasm

package jsdom

import (
	"strings"
	"syscall/js"

	"github.com/vango-dev/pagefx/pkg/dom"
)

// Element wraps a JS element.
type Element struct {
	doc *Document
	v   js.Value
	id  int
}

// JSValue returns the underlying JS object.
func (e *Element) JSValue() js.Value { return e.v }

func (e *Element) Tag() string { return strings.ToLower(e.v.Get("tagName").String()) }

func (e *Element) ID() string { return e.v.Get("id").String() }

func (e *Element) SetID(id string) { e.v.Set("id", id) }

func (e *Element) Attr(name string) (string, bool) {
	v := e.v.Call("getAttribute", name)
	if v.IsNull() {
		return "", false
	}
	return v.String(), true
}

func (e *Element) SetAttr(name, value string) { e.v.Call("setAttribute", name, value) }

func (e *Element) HasAttr(name string) bool { return e.v.Call("hasAttribute", name).Bool() }

func (e *Element) ClassList() dom.ClassList { return classList{e.v.Get("classList")} }

func (e *Element) SetClassName(className string) { e.v.Set("className", className) }

func (e *Element) Text() string { return e.v.Get("textContent").String() }

func (e *Element) SetText(text string) { e.v.Set("textContent", text) }

func (e *Element) InnerHTML() string { return e.v.Get("innerHTML").String() }

func (e *Element) SetInnerHTML(markup string) { e.v.Set("innerHTML", markup) }

func (e *Element) Style(property string) string {
	return e.v.Get("style").Call("getPropertyValue", property).String()
}

func (e *Element) SetStyle(property, value string) {
	e.v.Get("style").Call("setProperty", property, value)
}

func (e *Element) Value() string {
	v := e.v.Get("value")
	if isNull(v) {
		return ""
	}
	return v.String()
}

func (e *Element) SetValue(value string) { e.v.Set("value", value) }

func (e *Element) Type() string {
	v := e.v.Get("type")
	if isNull(v) {
		return ""
	}
	return strings.ToLower(v.String())
}

func (e *Element) AppendChild(child dom.Element) {
	if c, ok := child.(*Element); ok {
		e.v.Call("appendChild", c.v)
	}
}

// Remove detaches the element and drops it from the wrapper cache.
func (e *Element) Remove() {
	e.v.Call("remove")
	e.doc.forget(e)
}

func (e *Element) Parent() dom.Element { return e.doc.wrap(e.v.Get("parentElement")) }

func (e *Element) QuerySelectorAll(selector string) []dom.Element {
	var list js.Value
	if err := try(func() { list = e.v.Call("querySelectorAll", selector) }); err != nil {
		return nil
	}
	return e.doc.wrapList(list)
}

func (e *Element) AddEventListener(name string, fn func(dom.Event)) {
	e.v.Call("addEventListener", name, e.doc.funcOf(func(_ js.Value, args []js.Value) any {
		fn(&event{doc: e.doc, v: args[0]})
		return nil
	}))
}

func (e *Element) ScrollIntoView(smooth bool) {
	behavior := "auto"
	if smooth {
		behavior = "smooth"
	}
	e.v.Call("scrollIntoView", map[string]any{"behavior": behavior, "block": "start"})
}

type classList struct {
	v js.Value
}

func args(names []string) []any {
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}

func (c classList) Add(names ...string)    { c.v.Call("add", args(names)...) }
func (c classList) Remove(names ...string) { c.v.Call("remove", args(names)...) }
func (c classList) Toggle(name string) bool {
	return c.v.Call("toggle", name).Bool()
}
func (c classList) Contains(name string) bool {
	return c.v.Call("contains", name).Bool()
}
