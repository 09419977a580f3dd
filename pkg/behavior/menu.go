package behavior

import "github.com/vango-dev/pagefx/pkg/dom"

func (c *Controller) initMenu() bool {
	btn, menu := c.handles.MenuButton, c.handles.Menu
	if btn == nil || menu == nil {
		return false
	}
	btn.AddEventListener(dom.EventClick, func(dom.Event) {
		menu.ClassList().Toggle(HiddenClass)
	})
	return true
}
