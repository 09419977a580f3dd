package behavior

import (
	"context"

	"github.com/vango-dev/pagefx/pkg/dom"
)

// ApplyDarkMode sets the body class and toggle icon for state on.
func ApplyDarkMode(body, toggle dom.Element, on bool) {
	if on {
		body.ClassList().Add(DarkModeClass)
		toggle.SetInnerHTML(SunIcon)
		return
	}
	body.ClassList().Remove(DarkModeClass)
	toggle.SetInnerHTML(MoonIcon)
}

func (c *Controller) initDarkMode(ctx context.Context) bool {
	body, toggle := c.handles.Body, c.handles.DarkToggle
	if body == nil || toggle == nil {
		return false
	}

	on, err := c.dark.Enabled(ctx)
	if err != nil {
		c.logger.Warn("read dark-mode preference", "error", err)
	}
	if on {
		ApplyDarkMode(body, toggle, true)
	}

	toggle.AddEventListener(dom.EventClick, func(dom.Event) {
		c.ToggleDarkMode(ctx)
	})
	return true
}

// ToggleDarkMode flips the body's dark-mode class, swaps the toggle icon
// and persists the new state. It returns the new state.
func (c *Controller) ToggleDarkMode(ctx context.Context) bool {
	body, toggle := c.handles.Body, c.handles.DarkToggle
	if body == nil || toggle == nil {
		return false
	}
	on := body.ClassList().Toggle(DarkModeClass)
	ApplyDarkMode(body, toggle, on)
	if err := c.dark.Set(ctx, on); err != nil {
		c.logger.Warn("persist dark-mode preference", "error", err)
	}
	return on
}
