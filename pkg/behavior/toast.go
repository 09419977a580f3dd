package behavior

import (
	"github.com/vango-dev/pagefx/pkg/dom"
	"github.com/vango-dev/pagefx/pkg/toast"
)

// ShowToast appends a notification to the toast container, creating the
// container on first use, and schedules its removal.
func (c *Controller) ShowToast(message string, kind toast.Kind) dom.Element {
	el := c.doc.CreateElement("div")
	el.SetClassName(toast.ClassName(kind))
	el.SetInnerHTML(toast.Markup(kind, message))

	c.toastContainer().AppendChild(el)
	c.scheduleDismiss(el)
	return el
}

// ShowNotice shows a server-pushed notice.
func (c *Controller) ShowNotice(n toast.Notice) dom.Element {
	msg := n.Message
	if n.Title != "" {
		msg = n.Title + ": " + msg
	}
	return c.ShowToast(msg, n.Level)
}

func (c *Controller) toastContainer() dom.Element {
	if container := c.doc.GetElementByID(toast.ContainerID); container != nil {
		return container
	}
	container := c.doc.CreateElement("div")
	container.SetID(toast.ContainerID)
	container.SetClassName(toast.ContainerClass)
	c.doc.Body().AppendChild(container)
	return container
}

// scheduleDismiss plays the exit animation after the display delay and
// detaches el once it finishes.
func (c *Controller) scheduleDismiss(el dom.Element) {
	c.clock.AfterFunc(c.opts.ToastDisplay(), func() {
		el.SetStyle("animation", toast.ExitAnimation)
		c.clock.AfterFunc(c.opts.ToastExit(), el.Remove)
	})
}

func (c *Controller) initToasts() bool {
	for _, el := range c.handles.Toasts {
		c.scheduleDismiss(el)
	}
	return len(c.handles.Toasts) > 0
}
