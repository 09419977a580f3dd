package audit

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/vango-dev/pagefx/internal/errors"
	"github.com/vango-dev/pagefx/pkg/behavior"
	"github.com/vango-dev/pagefx/pkg/clock"
	"github.com/vango-dev/pagefx/pkg/dom/htmldom"
	"github.com/vango-dev/pagefx/pkg/pref"
)

// Report is the outcome of an audit.
type Report struct {
	File    string           `json:"file"`
	Active  []string         `json:"active"`
	Missing []string         `json:"missing"`
	Counts  Counts           `json:"counts"`
	Options behavior.Options `json:"options"`

	Simulation *Simulation `json:"simulation,omitempty"`
}

// Counts are the sizes of the element collections.
type Counts struct {
	Anchors  int `json:"anchors"`
	Reveal   int `json:"reveal"`
	Fields   int `json:"fields"`
	Counters int `json:"counters"`
	Floating int `json:"floating"`
	Toasts   int `json:"toasts"`
}

// Simulation is the page state after a simulated session.
type Simulation struct {
	ScrollY      float64  `json:"scrollY"`
	BodyOpacity  string   `json:"bodyOpacity"`
	NavbarShadow string   `json:"navbarShadow,omitempty"`
	Parallax     string   `json:"parallax,omitempty"`
	Revealed     int      `json:"revealed"`
	Counters     []string `json:"counters,omitempty"`
	Skipped      int      `json:"skippedCounters"`
	PendingTimer int      `json:"pendingTimers"`
}

// Complete reports whether every optional hook was found.
func (r *Report) Complete() bool {
	return len(r.Missing) == 0
}

// Config controls an audit.
type Config struct {
	// Simulate runs a session after Init.
	Simulate bool
	// ScrollY is the simulated scroll offset. Zero scrolls one pixel past
	// the navbar threshold.
	ScrollY float64
	Logger  *slog.Logger
}

// Option configures an audit.
type Option func(*Config)

// WithSimulation enables the simulated session.
func WithSimulation() Option {
	return func(c *Config) {
		c.Simulate = true
	}
}

// WithScroll sets the simulated scroll offset.
func WithScroll(y float64) Option {
	return func(c *Config) {
		c.ScrollY = y
	}
}

// WithLogger sets the logger handed to the controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// File audits the HTML file at path.
func File(ctx context.Context, path string, opts ...Option) (*Report, error) {
	f, err := os.Open(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.New(errors.CodeFileNotFound).WithDetail("No file at " + path + ".")
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Run(ctx, f, path, opts...)
}

// Run audits the HTML read from r. name labels the report.
func Run(ctx context.Context, r io.Reader, name string, opts ...Option) (*Report, error) {
	cfg := Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	doc, err := htmldom.Parse(r)
	if err != nil {
		return nil, errors.New(errors.CodeAuditParse).Wrap(err)
	}
	options, err := behavior.OptionsFromDocument(doc)
	if err != nil {
		return nil, errors.New(errors.CodeAuditParse).
			WithDetail("The #" + behavior.ConfigElementID + " element does not hold valid options.").
			Wrap(err)
	}

	clk := clock.NewManual()
	ctrl := behavior.New(doc, clk, pref.NewMemoryStore(),
		behavior.WithOptions(options),
		behavior.WithLogger(cfg.Logger),
	)
	ctrl.Init(ctx)

	h := ctrl.Handles()
	report := &Report{
		File:    name,
		Active:  ctrl.Active(),
		Missing: h.Missing(),
		Options: ctrl.Options(),
		Counts: Counts{
			Anchors:  len(h.Anchors),
			Reveal:   len(h.Reveal),
			Fields:   len(h.Fields),
			Counters: len(h.Counters),
			Floating: len(h.Floating),
			Toasts:   len(h.Toasts),
		},
	}
	if cfg.Simulate {
		report.Simulation = simulate(doc, clk, ctrl, cfg.ScrollY)
	}
	return report, nil
}

func simulate(doc *htmldom.Document, clk *clock.Manual, ctrl *behavior.Controller, scrollY float64) *Simulation {
	opts := ctrl.Options()
	h := ctrl.Handles()
	if scrollY == 0 {
		scrollY = opts.NavbarThreshold + 1
	}

	doc.Load()
	clk.Advance(opts.LoadFadeDelay())
	doc.ScrollTo(scrollY)
	for _, el := range h.Reveal {
		doc.SetIntersection(el, 1)
	}
	for _, el := range h.Counters {
		doc.SetIntersection(el, 1)
	}
	clk.Advance(opts.CounterDuration() + opts.CounterTick())

	sim := &Simulation{ScrollY: scrollY}
	if h.Body != nil {
		sim.BodyOpacity = h.Body.Style("opacity")
	}
	if h.Navbar != nil {
		sim.NavbarShadow = h.Navbar.Style("box-shadow")
	}
	if len(h.Floating) > 0 {
		sim.Parallax = h.Floating[0].Style("transform")
	}
	for _, el := range h.Reveal {
		if el.ClassList().Contains(behavior.FadeInClass) {
			sim.Revealed++
		}
	}
	for _, el := range h.Counters {
		if _, ok := behavior.ParseCounter(el.Text()); ok && ctrl.CounterState(el) == behavior.Fired {
			sim.Counters = append(sim.Counters, el.Text())
			continue
		}
		sim.Skipped++
	}
	sim.PendingTimer = clk.Pending()
	return sim
}

// Check returns a PFX602 error naming the missing hooks, or nil when the
// report is complete.
func (r *Report) Check() error {
	if r.Complete() {
		return nil
	}
	return errors.New(errors.CodeAuditIncomplete).
		WithDetail(r.File + " lacks " + strings.Join(r.Missing, ", ") + ".")
}

// WriteText writes a human-readable report.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.File)
	fmt.Fprintf(&b, "  active   %s\n", list(r.Active))
	fmt.Fprintf(&b, "  missing  %s\n", list(r.Missing))
	c := r.Counts
	fmt.Fprintf(&b, "  elements anchors=%d reveal=%d fields=%d counters=%d floating=%d toasts=%d\n",
		c.Anchors, c.Reveal, c.Fields, c.Counters, c.Floating, c.Toasts)
	if s := r.Simulation; s != nil {
		fmt.Fprintf(&b, "  simulated scrollY=%g\n", s.ScrollY)
		fmt.Fprintf(&b, "    body opacity  %s\n", orDash(s.BodyOpacity))
		fmt.Fprintf(&b, "    navbar shadow %s\n", orDash(s.NavbarShadow))
		fmt.Fprintf(&b, "    parallax      %s\n", orDash(s.Parallax))
		fmt.Fprintf(&b, "    revealed      %d/%d\n", s.Revealed, c.Reveal)
		fmt.Fprintf(&b, "    counters      %s (skipped %d)\n", list(s.Counters), s.Skipped)
		fmt.Fprintf(&b, "    timers left   %d\n", s.PendingTimer)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func list(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
