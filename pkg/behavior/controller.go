package behavior

import (
	"context"
	"log/slog"

	"github.com/vango-dev/pagefx/pkg/clock"
	"github.com/vango-dev/pagefx/pkg/dom"
	"github.com/vango-dev/pagefx/pkg/pref"
)

// Behavior names reported by Active.
const (
	BehaviorDarkMode = "dark-mode"
	BehaviorMenu     = "mobile-menu"
	BehaviorAnchors  = "smooth-scroll"
	BehaviorReveal   = "fade-in"
	BehaviorToasts   = "toast-autohide"
	BehaviorForms    = "form-fields"
	BehaviorNavbar   = "navbar-shadow"
	BehaviorCounters = "counters"
	BehaviorParallax = "parallax"
	BehaviorLoadFade = "load-fade"
)

// Controller wires page behaviors to a document.
type Controller struct {
	doc    dom.Document
	clock  clock.Clock
	dark   *pref.Flag
	opts   Options
	logger *slog.Logger

	handles  Handles
	reveal   *OneShot
	counters *OneShot
	active   []string
	started  bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithOptions sets timings and thresholds.
func WithOptions(opts Options) Option {
	return func(c *Controller) {
		c.opts = opts.Normalize()
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// New creates a controller over doc. Timers run on clk and the dark-mode
// preference lives in store.
func New(doc dom.Document, clk clock.Clock, store pref.Store, opts ...Option) *Controller {
	c := &Controller{
		doc:      doc,
		clock:    clk,
		dark:     pref.DarkMode(store),
		opts:     DefaultOptions(),
		logger:   slog.Default(),
		reveal:   NewOneShot(),
		counters: NewOneShot(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init resolves handles and registers every behavior whose elements are
// present. Calling Init again is a no-op.
func (c *Controller) Init(ctx context.Context) {
	if c.started {
		return
	}
	c.started = true
	c.handles = Resolve(c.doc)

	c.register(BehaviorDarkMode, c.initDarkMode(ctx))
	c.register(BehaviorMenu, c.initMenu())
	c.register(BehaviorAnchors, c.initAnchors())
	c.register(BehaviorReveal, c.initReveal())
	c.register(BehaviorToasts, c.initToasts())
	c.register(BehaviorForms, c.initForms())
	c.register(BehaviorNavbar, c.initNavbar())
	c.register(BehaviorCounters, c.initCounters())
	c.register(BehaviorParallax, c.initParallax())
	c.register(BehaviorLoadFade, c.initLoadFade())

	c.logger.Info("page behaviors ready", "active", c.active)
}

func (c *Controller) register(name string, ok bool) {
	if !ok {
		c.logger.Debug("behavior skipped", "behavior", name)
		return
	}
	c.active = append(c.active, name)
}

// Active lists the behaviors Init registered, in registration order.
func (c *Controller) Active() []string {
	return append([]string(nil), c.active...)
}

// Handles returns the handles resolved by Init.
func (c *Controller) Handles() Handles {
	return c.handles
}

// Options returns the effective options.
func (c *Controller) Options() Options {
	return c.opts
}

// RevealState returns el's fade-in trigger state.
func (c *Controller) RevealState(el dom.Element) State {
	return c.reveal.State(el)
}

// CounterState returns el's counter trigger state.
func (c *Controller) CounterState(el dom.Element) State {
	return c.counters.State(el)
}
