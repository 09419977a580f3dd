package behavior

import (
	"github.com/vango-dev/pagefx/pkg/dom"
	"github.com/vango-dev/pagefx/pkg/validate"
)

// ValidateField marks el invalid or clears the mark, and reports whether
// it is valid.
func ValidateField(el dom.Element) bool {
	valid := validate.Check(validate.Field{
		Type:     el.Type(),
		Value:    el.Value(),
		Required: el.HasAttr("required"),
	})
	if valid {
		el.ClassList().Remove(InvalidClass)
	} else {
		el.ClassList().Add(InvalidClass)
	}
	return valid
}

func (c *Controller) initForms() bool {
	for _, field := range c.handles.Fields {
		field := field
		// Floating-label CSS keys off :placeholder-shown, which needs a
		// non-empty placeholder.
		if p, _ := field.Attr("placeholder"); p == "" {
			field.SetAttr("placeholder", " ")
		}
		field.AddEventListener(dom.EventBlur, func(dom.Event) {
			ValidateField(field)
		})
	}
	return len(c.handles.Fields) > 0
}
