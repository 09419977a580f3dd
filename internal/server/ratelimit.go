package server

import (
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterIdle = 10 * time.Minute

type visitorLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiters hands out one token bucket per visitor.
type limiters struct {
	mu      sync.Mutex
	clients map[string]*visitorLimiter
	limit   rate.Limit
	burst   int
	now     func() time.Time
	sweep   time.Time
}

func newLimiters(perSecond float64, burst int) *limiters {
	return &limiters{
		clients: make(map[string]*visitorLimiter),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		now:     time.Now,
	}
}

// allow reports whether id may write now. When it may not, retryAfter is
// the whole number of seconds to wait.
func (l *limiters) allow(id string) (ok bool, retryAfter string) {
	l.mu.Lock()
	now := l.now()
	if now.Sub(l.sweep) > limiterIdle {
		for k, v := range l.clients {
			if now.Sub(v.lastSeen) > limiterIdle {
				delete(l.clients, k)
			}
		}
		l.sweep = now
	}
	cl, found := l.clients[id]
	if !found {
		cl = &visitorLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[id] = cl
	}
	cl.lastSeen = now
	l.mu.Unlock()

	res := cl.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, ""
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, strconv.Itoa(int(delay.Seconds()) + 1)
	}
	return true, ""
}

func (l *limiters) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
