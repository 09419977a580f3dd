package behavior

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/pagefx/pkg/clock"
	"github.com/vango-dev/pagefx/pkg/dom"
)

// CounterText formats a displayed counter value.
func CounterText(n int) string {
	return strconv.Itoa(n) + "+"
}

// AnimateCounter counts el's text up from 0 to target over duration,
// ticking every tick. Each tick adds target/(duration/tick); intermediate
// values are floored, and the last tick shows exactly target. The
// returned timer stops itself once the target is shown.
func AnimateCounter(clk clock.Clock, el dom.Element, target int, duration, tick time.Duration) clock.Timer {
	steps := float64(duration) / float64(tick)
	increment := float64(target) / steps
	if target <= 0 || steps <= 0 || math.IsNaN(increment) {
		increment = math.Inf(1)
	}

	current := 0.0
	var timer clock.Timer
	timer = clk.Every(tick, func() {
		current += increment
		if current >= float64(target) {
			el.SetText(CounterText(target))
			timer.Stop()
			return
		}
		el.SetText(CounterText(int(math.Floor(current))))
	})
	return timer
}

// AnimateCounter runs a counter on the controller's clock. A zero
// duration uses the configured default.
func (c *Controller) AnimateCounter(el dom.Element, target int, duration time.Duration) clock.Timer {
	if duration <= 0 {
		duration = c.opts.CounterDuration()
	}
	return AnimateCounter(c.clock, el, target, duration, c.opts.CounterTick())
}

// ParseCounter reads the leading integer of s the way parseInt does:
// leading whitespace, an optional sign, then digits. Trailing text such
// as "+" or "%" is ignored.
func ParseCounter(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\f\v")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *Controller) initCounters() bool {
	if len(c.handles.Counters) == 0 {
		return false
	}
	var obs dom.Observer
	obs = c.doc.NewIntersectionObserver(dom.ObserverOptions{
		Threshold: c.opts.CounterThreshold,
	}, func(entries []dom.Entry) {
		for _, e := range entries {
			if !e.IsIntersecting || !c.counters.Fire(e.Target) {
				continue
			}
			obs.Unobserve(e.Target)
			target, ok := ParseCounter(e.Target.Text())
			if !ok {
				c.logger.Debug("counter has no numeric text", "text", e.Target.Text())
				continue
			}
			c.AnimateCounter(e.Target, target, 0)
		}
	})
	for _, el := range c.handles.Counters {
		if c.counters.Track(el) {
			obs.Observe(el)
		}
	}
	return true
}
