//go:build js && wasm

package jsdom

import (
	"fmt"
	"syscall/js"

	"github.com/vango-dev/pagefx/pkg/dom"
)

const idProperty = "__pagefxID"

// Document wraps window.document.
type Document struct {
	win   js.Value
	doc   js.Value
	elems map[int]*Element
	next  int

	// funcs keeps callbacks handed to JS alive for the page lifetime.
	funcs []js.Func
}

// New binds the global document.
func New() *Document {
	return &Document{
		win:   js.Global(),
		doc:   js.Global().Get("document"),
		elems: make(map[int]*Element),
	}
}

func isNull(v js.Value) bool {
	return v.IsNull() || v.IsUndefined()
}

// wrap returns the wrapper for v, or an untyped nil for null.
func (d *Document) wrap(v js.Value) dom.Element {
	if e := d.element(v); e != nil {
		return e
	}
	return nil
}

func (d *Document) element(v js.Value) *Element {
	if isNull(v) {
		return nil
	}
	if id := v.Get(idProperty); id.Type() == js.TypeNumber {
		if e, ok := d.elems[id.Int()]; ok {
			return e
		}
	}
	d.next++
	e := &Element{doc: d, v: v, id: d.next}
	v.Set(idProperty, d.next)
	d.elems[d.next] = e
	return e
}

func (d *Document) forget(e *Element) {
	delete(d.elems, e.id)
}

func (d *Document) wrapList(list js.Value) []dom.Element {
	if isNull(list) {
		return nil
	}
	n := list.Length()
	out := make([]dom.Element, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, d.element(list.Index(i)))
	}
	return out
}

// try runs fn, turning a thrown JS exception into an error.
func try(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = jsErr
				return
			}
			err = fmt.Errorf("jsdom: %v", r)
		}
	}()
	fn()
	return nil
}

func (d *Document) funcOf(fn func(this js.Value, args []js.Value) any) js.Func {
	f := js.FuncOf(fn)
	d.funcs = append(d.funcs, f)
	return f
}

func (d *Document) Body() dom.Element {
	return d.wrap(d.doc.Get("body"))
}

func (d *Document) GetElementByID(id string) dom.Element {
	return d.wrap(d.doc.Call("getElementById", id))
}

func (d *Document) QuerySelector(selector string) dom.Element {
	var v js.Value
	if err := try(func() { v = d.doc.Call("querySelector", selector) }); err != nil {
		return nil
	}
	return d.wrap(v)
}

func (d *Document) QuerySelectorAll(selector string) []dom.Element {
	var list js.Value
	if err := try(func() { list = d.doc.Call("querySelectorAll", selector) }); err != nil {
		return nil
	}
	return d.wrapList(list)
}

func (d *Document) CreateElement(tag string) dom.Element {
	return d.wrap(d.doc.Call("createElement", tag))
}

func (d *Document) ScrollY() float64 {
	return d.win.Get("scrollY").Float()
}

func (d *Document) OnScroll(fn func()) {
	d.win.Call("addEventListener", dom.EventScroll, d.funcOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	}), map[string]any{"passive": true})
}

// OnReady runs fn on DOMContentLoaded, or immediately when the document
// has already been parsed.
func (d *Document) OnReady(fn func()) {
	if d.doc.Get("readyState").String() != "loading" {
		fn()
		return
	}
	d.once(d.doc, dom.EventReady, fn)
}

// OnLoad runs fn on window load, or immediately when the page has
// finished loading.
func (d *Document) OnLoad(fn func()) {
	if d.doc.Get("readyState").String() == "complete" {
		fn()
		return
	}
	d.once(d.win, dom.EventLoad, fn)
}

func (d *Document) once(target js.Value, event string, fn func()) {
	var f js.Func
	f = js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		f.Release()
		return nil
	})
	target.Call("addEventListener", event, f, map[string]any{"once": true})
}

// Dispatch fires a CustomEvent carrying detail on the document.
func (d *Document) Dispatch(name string, detail map[string]any) {
	ev := js.Global().Get("CustomEvent").New(name, map[string]any{"detail": detail})
	d.doc.Call("dispatchEvent", ev)
}

type event struct {
	doc *Document
	v   js.Value
}

func (e *event) Type() string           { return e.v.Get("type").String() }
func (e *event) Target() dom.Element    { return e.doc.wrap(e.v.Get("target")) }
func (e *event) PreventDefault()        { e.v.Call("preventDefault") }
func (e *event) DefaultPrevented() bool { return e.v.Get("defaultPrevented").Bool() }
