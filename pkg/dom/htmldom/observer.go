package htmldom

import "github.com/vango-dev/pagefx/pkg/dom"

// observer simulates IntersectionObserver. Root margins are recorded but
// not applied; SetIntersection states the visible ratio directly.
type observer struct {
	doc      *Document
	opts     dom.ObserverOptions
	callback func([]dom.Entry)
	watched  []*Element
}

// NewIntersectionObserver implements dom.Document.
func (d *Document) NewIntersectionObserver(opts dom.ObserverOptions, callback func([]dom.Entry)) dom.Observer {
	o := &observer{doc: d, opts: opts, callback: callback}
	d.observers = append(d.observers, o)
	return o
}

// Observe starts watching el. Like the browser, an element with a known
// intersection ratio gets an initial entry right away.
func (o *observer) Observe(el dom.Element) {
	e, ok := el.(*Element)
	if !ok || e == nil || o.watching(e) {
		return
	}
	o.watched = append(o.watched, e)
	if ratio, known := o.doc.ratios[e]; known {
		o.deliver(e, ratio)
	}
}

func (o *observer) Unobserve(el dom.Element) {
	e, ok := el.(*Element)
	if !ok {
		return
	}
	for i, w := range o.watched {
		if w == e {
			o.watched = append(o.watched[:i], o.watched[i+1:]...)
			return
		}
	}
}

func (o *observer) Disconnect() {
	o.watched = nil
}

func (o *observer) watching(e *Element) bool {
	for _, w := range o.watched {
		if w == e {
			return true
		}
	}
	return false
}

func (o *observer) deliver(e *Element, ratio float64) {
	intersecting := ratio > 0 && ratio >= o.opts.Threshold
	o.callback([]dom.Entry{{Target: e, IsIntersecting: intersecting, Ratio: ratio}})
}

// SetIntersection records that ratio (0..1) of el is visible and delivers
// an entry to every observer currently watching it.
func (d *Document) SetIntersection(el dom.Element, ratio float64) {
	e, ok := el.(*Element)
	if !ok || e == nil {
		return
	}
	d.ratios[e] = ratio
	for _, o := range append([]*observer{}, d.observers...) {
		if o.watching(e) {
			o.deliver(e, ratio)
		}
	}
}

// Observed reports whether any observer is watching el.
func (d *Document) Observed(el dom.Element) bool {
	e, ok := el.(*Element)
	if !ok {
		return false
	}
	for _, o := range d.observers {
		if o.watching(e) {
			return true
		}
	}
	return false
}
