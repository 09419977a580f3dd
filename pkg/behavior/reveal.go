package behavior

import "github.com/vango-dev/pagefx/pkg/dom"

func (c *Controller) initReveal() bool {
	if len(c.handles.Reveal) == 0 {
		return false
	}
	c.doc.OnReady(func() {
		var obs dom.Observer
		obs = c.doc.NewIntersectionObserver(dom.ObserverOptions{
			Threshold:  c.opts.RevealThreshold,
			RootMargin: c.opts.RevealRootMargin,
		}, func(entries []dom.Entry) {
			for _, e := range entries {
				if !e.IsIntersecting || !c.reveal.Fire(e.Target) {
					continue
				}
				e.Target.ClassList().Add(FadeInClass)
				obs.Unobserve(e.Target)
			}
		})
		for _, el := range c.handles.Reveal {
			if c.reveal.Track(el) {
				obs.Observe(el)
			}
		}
	})
	return true
}
