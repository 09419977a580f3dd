package behavior

import (
	"strings"

	"github.com/vango-dev/pagefx/pkg/dom"
)

func (c *Controller) initAnchors() bool {
	for _, a := range c.handles.Anchors {
		a := a
		a.AddEventListener(dom.EventClick, func(e dom.Event) {
			e.PreventDefault()
			href, _ := a.Attr("href")
			ScrollToAnchor(c.doc, href)
		})
	}
	return len(c.handles.Anchors) > 0
}

// ScrollToAnchor smooth-scrolls to the element an in-page href ("#id")
// names. It returns the target, or nil when there is none. A bare "#"
// targets nothing.
func ScrollToAnchor(doc dom.Document, href string) dom.Element {
	id := strings.TrimPrefix(href, "#")
	if id == "" || id == href {
		return nil
	}
	target := doc.GetElementByID(id)
	if target == nil {
		return nil
	}
	target.ScrollIntoView(true)
	return target
}
