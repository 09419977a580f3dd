package behavior

import "strconv"

// NavbarShadow returns the navbar box-shadow for scroll offset y.
func NavbarShadow(y, threshold float64) string {
	if y > threshold {
		return ShadowRaised
	}
	return ShadowResting
}

// ParallaxTransform returns the transform for a floating element at
// scroll offset y.
func ParallaxTransform(y, speed float64) string {
	return "translateY(" + strconv.FormatFloat(y*speed, 'f', -1, 64) + "px)"
}

func (c *Controller) initNavbar() bool {
	nav := c.handles.Navbar
	if nav == nil {
		return false
	}
	applied := ""
	c.doc.OnScroll(func() {
		shadow := NavbarShadow(c.doc.ScrollY(), c.opts.NavbarThreshold)
		if shadow == applied {
			return
		}
		nav.SetStyle("box-shadow", shadow)
		applied = shadow
	})
	return true
}

func (c *Controller) initParallax() bool {
	floating := c.handles.Floating
	if len(floating) == 0 {
		return false
	}
	c.doc.OnScroll(func() {
		transform := ParallaxTransform(c.doc.ScrollY(), c.opts.ParallaxSpeed)
		for _, el := range floating {
			el.SetStyle("transform", transform)
		}
	})
	return true
}

func (c *Controller) initLoadFade() bool {
	body := c.handles.Body
	if body == nil {
		return false
	}
	c.doc.OnLoad(func() {
		body.SetStyle("opacity", "0")
		c.clock.AfterFunc(c.opts.LoadFadeDelay(), func() {
			body.SetStyle("transition", "opacity 0.5s ease")
			body.SetStyle("opacity", "1")
		})
	})
	return true
}
