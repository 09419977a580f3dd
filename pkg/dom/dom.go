package dom

// Event names used by the page behaviors.
const (
	EventClick  = "click"
	EventBlur   = "blur"
	EventScroll = "scroll"
	EventReady  = "DOMContentLoaded"
	EventLoad   = "load"
)

// Document is the page a controller is attached to.
type Document interface {
	// Body returns the document body. It is never nil for a loaded page.
	Body() Element

	// GetElementByID returns the element with the given id, or nil.
	GetElementByID(id string) Element

	// QuerySelector returns the first element matching a CSS selector,
	// or nil when nothing matches or the selector is invalid.
	QuerySelector(selector string) Element

	// QuerySelectorAll returns every element matching a CSS selector in
	// document order. An invalid selector matches nothing.
	QuerySelectorAll(selector string) []Element

	// CreateElement creates a detached element.
	CreateElement(tag string) Element

	// ScrollY returns the current vertical scroll offset in pixels.
	ScrollY() float64

	// OnScroll registers fn for window scroll events.
	OnScroll(fn func())

	// OnReady registers fn for DOMContentLoaded.
	OnReady(fn func())

	// OnLoad registers fn for the window load event.
	OnLoad(fn func())

	// NewIntersectionObserver creates a viewport intersection watcher.
	NewIntersectionObserver(opts ObserverOptions, callback func([]Entry)) Observer
}

// Element is a single DOM element.
type Element interface {
	Tag() string
	ID() string
	SetID(id string)

	Attr(name string) (string, bool)
	SetAttr(name, value string)
	HasAttr(name string) bool

	ClassList() ClassList
	SetClassName(className string)

	Text() string
	SetText(text string)
	InnerHTML() string
	SetInnerHTML(markup string)

	// Style reads an inline style property (CSS name, e.g. "box-shadow").
	Style(property string) string
	// SetStyle writes an inline style property.
	SetStyle(property, value string)

	// Value returns the current form control value.
	Value() string
	SetValue(value string)
	// Type returns the lowercase input type ("text" when unset on inputs).
	Type() string

	AppendChild(child Element)
	// Remove detaches the element from its parent. Removing a detached
	// element is a no-op.
	Remove()
	Parent() Element

	QuerySelectorAll(selector string) []Element

	AddEventListener(event string, fn func(Event))

	// ScrollIntoView scrolls the element's top edge into view.
	ScrollIntoView(smooth bool)
}

// ClassList mirrors Element.classList.
type ClassList interface {
	Add(names ...string)
	Remove(names ...string)
	// Toggle flips name and reports whether it is now present.
	Toggle(name string) bool
	Contains(name string) bool
}

// Event is a dispatched DOM event.
type Event interface {
	Type() string
	Target() Element
	PreventDefault()
	DefaultPrevented() bool
}

// ObserverOptions configures an intersection observer.
type ObserverOptions struct {
	// Threshold is the visible fraction (0..1) at which an element counts
	// as intersecting.
	Threshold float64

	// RootMargin grows or shrinks the viewport, in CSS margin syntax.
	RootMargin string
}

// Entry is one intersection change.
type Entry struct {
	Target         Element
	IsIntersecting bool
	Ratio          float64
}

// Observer watches elements for viewport intersection.
type Observer interface {
	Observe(el Element)
	Unobserve(el Element)
	Disconnect()
}
