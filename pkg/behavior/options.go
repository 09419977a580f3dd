package behavior

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vango-dev/pagefx/pkg/dom"
	"github.com/vango-dev/pagefx/pkg/toast"
)

// Markup contract: ids, classes and selectors the behaviors look for.
const (
	DarkToggleID  = "darkModeToggle"
	DarkModeClass = "dark-mode"
	SunIcon       = `<i class="fas fa-sun text-yellow-400"></i>`
	MoonIcon      = `<i class="fas fa-moon text-gray-700"></i>`

	MenuButtonID = "mobileMenuBtn"
	MenuID       = "mobileMenu"
	HiddenClass  = "hidden"

	AnchorSelector = `a[href^="#"]`

	RevealSelector = ".feature-card, .stat-card, .glass-card"
	FadeInClass    = "fade-in"

	FieldSelector = "form input, form textarea, form select"
	InvalidClass  = "border-red-500"

	NavbarSelector = ".navbar"
	ShadowRaised   = "0 4px 20px rgba(0, 0, 0, 0.1)"
	ShadowResting  = "0 1px 3px rgba(0, 0, 0, 0.05)"

	CounterSelector  = ".stat-card .text-5xl"
	FloatingSelector = ".floating-element"
	ToastSelector    = ".toast"

	// ConfigElementID holds the JSON-encoded Options rendered by the server.
	ConfigElementID = "pagefx-config"
)

// Options tunes timings and thresholds. Zero fields take defaults.
type Options struct {
	ToastDisplayMS    int     `json:"toastDisplayMs,omitempty" yaml:"toastDisplayMs,omitempty"`
	ToastExitMS       int     `json:"toastExitMs,omitempty" yaml:"toastExitMs,omitempty"`
	CounterDurationMS int     `json:"counterDurationMs,omitempty" yaml:"counterDurationMs,omitempty"`
	CounterTickMS     int     `json:"counterTickMs,omitempty" yaml:"counterTickMs,omitempty"`
	LoadFadeDelayMS   int     `json:"loadFadeDelayMs,omitempty" yaml:"loadFadeDelayMs,omitempty"`
	NavbarThreshold   float64 `json:"navbarThreshold,omitempty" yaml:"navbarThreshold,omitempty"`
	ParallaxSpeed     float64 `json:"parallaxSpeed,omitempty" yaml:"parallaxSpeed,omitempty"`
	RevealThreshold   float64 `json:"revealThreshold,omitempty" yaml:"revealThreshold,omitempty"`
	RevealRootMargin  string  `json:"revealRootMargin,omitempty" yaml:"revealRootMargin,omitempty"`
	CounterThreshold  float64 `json:"counterThreshold,omitempty" yaml:"counterThreshold,omitempty"`

	// PrefURL is the preference API root the browser mirrors writes to.
	PrefURL string `json:"prefUrl,omitempty" yaml:"prefUrl,omitempty"`
	// ToastURL is the WebSocket endpoint pushing server toasts.
	ToastURL string `json:"toastUrl,omitempty" yaml:"toastUrl,omitempty"`
}

// DefaultOptions returns the stock timings.
func DefaultOptions() Options {
	return Options{
		ToastDisplayMS:    int(toast.DisplayDuration / time.Millisecond),
		ToastExitMS:       int(toast.ExitDuration / time.Millisecond),
		CounterDurationMS: 2000,
		CounterTickMS:     16,
		LoadFadeDelayMS:   100,
		NavbarThreshold:   100,
		ParallaxSpeed:     0.5,
		RevealThreshold:   0.1,
		RevealRootMargin:  "0px 0px -50px 0px",
		CounterThreshold:  0.5,
	}
}

// Normalize fills zero or negative fields with defaults.
func (o Options) Normalize() Options {
	d := DefaultOptions()
	if o.ToastDisplayMS <= 0 {
		o.ToastDisplayMS = d.ToastDisplayMS
	}
	if o.ToastExitMS <= 0 {
		o.ToastExitMS = d.ToastExitMS
	}
	if o.CounterDurationMS <= 0 {
		o.CounterDurationMS = d.CounterDurationMS
	}
	if o.CounterTickMS <= 0 {
		o.CounterTickMS = d.CounterTickMS
	}
	if o.LoadFadeDelayMS <= 0 {
		o.LoadFadeDelayMS = d.LoadFadeDelayMS
	}
	if o.NavbarThreshold <= 0 {
		o.NavbarThreshold = d.NavbarThreshold
	}
	if o.ParallaxSpeed == 0 {
		o.ParallaxSpeed = d.ParallaxSpeed
	}
	if o.RevealThreshold <= 0 {
		o.RevealThreshold = d.RevealThreshold
	}
	if o.RevealRootMargin == "" {
		o.RevealRootMargin = d.RevealRootMargin
	}
	if o.CounterThreshold <= 0 {
		o.CounterThreshold = d.CounterThreshold
	}
	return o
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func (o Options) ToastDisplay() time.Duration    { return ms(o.ToastDisplayMS) }
func (o Options) ToastExit() time.Duration       { return ms(o.ToastExitMS) }
func (o Options) CounterDuration() time.Duration { return ms(o.CounterDurationMS) }
func (o Options) CounterTick() time.Duration     { return ms(o.CounterTickMS) }
func (o Options) LoadFadeDelay() time.Duration   { return ms(o.LoadFadeDelayMS) }

// ParseOptions decodes JSON options over the defaults.
func ParseOptions(data []byte) (Options, error) {
	o := DefaultOptions()
	if err := json.Unmarshal(data, &o); err != nil {
		return DefaultOptions(), fmt.Errorf("behavior: parse options: %w", err)
	}
	return o.Normalize(), nil
}

// OptionsFromDocument reads options from the #pagefx-config element. A
// missing element yields the defaults.
func OptionsFromDocument(doc dom.Document) (Options, error) {
	el := doc.GetElementByID(ConfigElementID)
	if el == nil {
		return DefaultOptions(), nil
	}
	return ParseOptions([]byte(el.Text()))
}
