//go:build js && wasm

package jsdom

import (
	"syscall/js"

	"github.com/vango-dev/pagefx/pkg/dom"
)

type observer struct {
	v  js.Value
	cb js.Func
}

// NewIntersectionObserver wraps a browser IntersectionObserver.
func (d *Document) NewIntersectionObserver(opts dom.ObserverOptions, callback func([]dom.Entry)) dom.Observer {
	o := &observer{}
	o.cb = js.FuncOf(func(_ js.Value, args []js.Value) any {
		list := args[0]
		entries := make([]dom.Entry, 0, list.Length())
		for i := 0; i < list.Length(); i++ {
			e := list.Index(i)
			entries = append(entries, dom.Entry{
				Target:         d.wrap(e.Get("target")),
				IsIntersecting: e.Get("isIntersecting").Bool(),
				Ratio:          e.Get("intersectionRatio").Float(),
			})
		}
		callback(entries)
		return nil
	})
	init := map[string]any{"threshold": opts.Threshold}
	if opts.RootMargin != "" {
		init["rootMargin"] = opts.RootMargin
	}
	o.v = js.Global().Get("IntersectionObserver").New(o.cb, init)
	return o
}

func (o *observer) Observe(el dom.Element) {
	if e, ok := el.(*Element); ok {
		o.v.Call("observe", e.v)
	}
}

func (o *observer) Unobserve(el dom.Element) {
	if e, ok := el.(*Element); ok {
		o.v.Call("unobserve", e.v)
	}
}

func (o *observer) Disconnect() {
	o.v.Call("disconnect")
	o.cb.Release()
}
