package clock

import (
	"sort"
	"sync"
	"time"
)

// Manual is a deterministic Clock driven by Advance.
//
// Callbacks run on the goroutine calling Advance, in due-time order;
// timers due at the same instant fire in scheduling order. A callback may
// schedule or stop other timers.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	clock    *Manual
	due      time.Duration
	interval time.Duration
	seq      uint64
	fn       func()
	stopped  bool
}

// NewManual returns a Manual clock at virtual time zero.
func NewManual() *Manual {
	return &Manual{}
}

// AfterFunc implements Clock.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	return m.schedule(d, 0, f)
}

// Every implements Clock. Non-positive intervals are clamped to 1ns.
func (m *Manual) Every(d time.Duration, f func()) Timer {
	if d <= 0 {
		d = time.Nanosecond
	}
	return m.schedule(d, d, f)
}

func (m *Manual) schedule(d, interval time.Duration, f func()) *manualTimer {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{clock: m, due: m.now + d, interval: interval, seq: m.seq, fn: f}
	m.timers = append(m.timers, t)
	return t
}

// Stop implements Timer.
func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	t.clock.removeLocked(t)
	return true
}

func (m *Manual) removeLocked(t *manualTimer) {
	for i, other := range m.timers {
		if other == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return
		}
	}
}

// Advance moves virtual time forward by d, firing every timer that comes
// due on the way.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextLocked(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.due
		if next.interval > 0 {
			m.seq++
			next.due += next.interval
			next.seq = m.seq
		} else {
			next.stopped = true
			m.removeLocked(next)
		}
		fn := next.fn
		m.mu.Unlock()

		fn()
	}
}

func (m *Manual) nextLocked(limit time.Duration) *manualTimer {
	if len(m.timers) == 0 {
		return nil
	}
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].due != m.timers[j].due {
			return m.timers[i].due < m.timers[j].due
		}
		return m.timers[i].seq < m.timers[j].seq
	})
	if m.timers[0].due > limit {
		return nil
	}
	return m.timers[0]
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of scheduled timers.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}
