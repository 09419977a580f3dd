package toast

import (
	"encoding/json"
	"html"
	"time"
)

// EventName is the browser CustomEvent name dispatched for pushed toasts.
const EventName = "pagefx:toast"

const (
	// DisplayDuration is how long a toast stays before its exit animation.
	DisplayDuration = 3000 * time.Millisecond

	// ExitDuration is the length of the slide-out animation.
	ExitDuration = 300 * time.Millisecond

	// ExitAnimation is the inline animation applied when a toast leaves.
	ExitAnimation = "slideOut 0.3s ease-out"

	// ContainerID is the id of the element toasts are appended to.
	ContainerID = "messageContainer"

	// ContainerClass positions a lazily created container.
	ContainerClass = "fixed top-20 right-4 z-50 space-y-2"
)

// Kind is the toast notification type.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindSuccess, KindError, KindWarning, KindInfo:
		return true
	}
	return false
}

// ParseKind returns the kind named by s. An empty s means success; any
// other name is kept as is so it still reaches the class attribute.
func ParseKind(s string) Kind {
	if s == "" {
		return KindSuccess
	}
	return Kind(s)
}

// Icon returns the Font Awesome icon name for a kind: a check for
// success, an exclamation for everything else.
func Icon(k Kind) string {
	if k == KindSuccess {
		return "check-circle"
	}
	return "exclamation-circle"
}

// ClassName returns the class attribute of a toast element.
func ClassName(k Kind) string {
	return "toast " + string(k)
}

// Markup returns the inner HTML of a toast: its icon followed by the
// escaped message.
func Markup(k Kind, message string) string {
	return `<i class="fas fa-` + Icon(k) + ` mr-2"></i>` + html.EscapeString(message)
}

// Notice is a toast pushed from the server.
type Notice struct {
	Level   Kind   `json:"level"`
	Message string `json:"message"`
	Title   string `json:"title,omitempty"`
}

// Encode returns the JSON wire form of n.
func (n Notice) Encode() ([]byte, error) {
	return json.Marshal(n)
}

// Decode parses a Notice from its wire form. Unknown levels fall back to
// info.
func Decode(data []byte) (Notice, error) {
	var n Notice
	if err := json.Unmarshal(data, &n); err != nil {
		return Notice{}, err
	}
	if !n.Level.Valid() {
		n.Level = KindInfo
	}
	return n, nil
}

// Emitter delivers notices to clients.
type Emitter interface {
	Emit(n Notice) int
}

// Show emits a toast.
func Show(e Emitter, level Kind, message string) int {
	return e.Emit(Notice{Level: level, Message: message})
}

// Success shows a success toast.
//
//	toast.Success(hub, "Changes saved!")
func Success(e Emitter, message string) int {
	return Show(e, KindSuccess, message)
}

// Error shows an error toast.
func Error(e Emitter, message string) int {
	return Show(e, KindError, message)
}

// Warning shows a warning toast.
func Warning(e Emitter, message string) int {
	return Show(e, KindWarning, message)
}

// Info shows an info toast.
func Info(e Emitter, message string) int {
	return Show(e, KindInfo, message)
}

// WithTitle shows a toast with a title and message.
func WithTitle(e Emitter, level Kind, title, message string) int {
	return e.Emit(Notice{Level: level, Title: title, Message: message})
}
