package behavior

import "github.com/vango-dev/pagefx/pkg/dom"

// Handles are the element references the behaviors act on, resolved once
// at start-up. Optional single elements are nil when absent; collections
// are empty.
type Handles struct {
	Body       dom.Element
	DarkToggle dom.Element
	MenuButton dom.Element
	Menu       dom.Element
	Navbar     dom.Element

	Anchors  []dom.Element
	Reveal   []dom.Element
	Fields   []dom.Element
	Counters []dom.Element
	Floating []dom.Element
	Toasts   []dom.Element
}

// Resolve looks up every handle in doc.
func Resolve(doc dom.Document) Handles {
	return Handles{
		Body:       doc.Body(),
		DarkToggle: doc.GetElementByID(DarkToggleID),
		MenuButton: doc.GetElementByID(MenuButtonID),
		Menu:       doc.GetElementByID(MenuID),
		Navbar:     doc.QuerySelector(NavbarSelector),
		Anchors:    doc.QuerySelectorAll(AnchorSelector),
		Reveal:     doc.QuerySelectorAll(RevealSelector),
		Fields:     doc.QuerySelectorAll(FieldSelector),
		Counters:   doc.QuerySelectorAll(CounterSelector),
		Floating:   doc.QuerySelectorAll(FloatingSelector),
		Toasts:     doc.QuerySelectorAll(ToastSelector),
	}
}

// Missing names the optional handles that were not found.
func (h Handles) Missing() []string {
	var missing []string
	check := func(name string, ok bool) {
		if !ok {
			missing = append(missing, name)
		}
	}
	check("#"+DarkToggleID, h.DarkToggle != nil)
	check("#"+MenuButtonID, h.MenuButton != nil)
	check("#"+MenuID, h.Menu != nil)
	check(NavbarSelector, h.Navbar != nil)
	check(AnchorSelector, len(h.Anchors) > 0)
	check(RevealSelector, len(h.Reveal) > 0)
	check(FieldSelector, len(h.Fields) > 0)
	check(CounterSelector, len(h.Counters) > 0)
	check(FloatingSelector, len(h.Floating) > 0)
	return missing
}
