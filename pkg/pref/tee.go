package pref

import (
	"context"
	"sync"
)

// Tee is a Store that reads from a primary store and mirrors writes to a
// second one in the background. Mirror failures go to onError and never
// fail the primary write.
//
// Mirror writes run one at a time in the order the primary accepted them,
// so the mirror ends in the primary's final state.
//
// The browser build uses it to keep localStorage authoritative while the
// server copy catches up; blocking on the network inside a click handler
// would stall the page.
type Tee struct {
	primary Store
	mirror  Store
	onError func(op, key string, err error)
	run     func(func())

	mu       sync.Mutex
	queue    []func()
	draining bool
	idle     sync.WaitGroup
}

// TeeOption configures a Tee.
type TeeOption func(*Tee)

// OnMirrorError sets the callback for failed mirror writes.
func OnMirrorError(fn func(op, key string, err error)) TeeOption {
	return func(t *Tee) {
		t.onError = fn
	}
}

// WithRunner overrides how the mirror queue is drained. The default starts
// a goroutine. Tests pass a synchronous runner.
func WithRunner(run func(func())) TeeOption {
	return func(t *Tee) {
		t.run = run
	}
}

// NewTee creates a Tee.
func NewTee(primary, mirror Store, opts ...TeeOption) *Tee {
	t := &Tee{
		primary: primary,
		mirror:  mirror,
		onError: func(string, string, error) {},
		run:     func(fn func()) { go fn() },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Get implements Store.
func (t *Tee) Get(ctx context.Context, key string) (string, error) {
	return t.primary.Get(ctx, key)
}

// Set implements Store.
func (t *Tee) Set(ctx context.Context, key, value string) error {
	if err := t.primary.Set(ctx, key, value); err != nil {
		return err
	}
	ctx = context.WithoutCancel(ctx)
	t.enqueue(func() {
		if err := t.mirror.Set(ctx, key, value); err != nil {
			t.onError("set", key, err)
		}
	})
	return nil
}

// Delete implements Store.
func (t *Tee) Delete(ctx context.Context, key string) error {
	if err := t.primary.Delete(ctx, key); err != nil {
		return err
	}
	ctx = context.WithoutCancel(ctx)
	t.enqueue(func() {
		if err := t.mirror.Delete(ctx, key); err != nil {
			t.onError("delete", key, err)
		}
	})
	return nil
}

// Wait blocks until every queued mirror write has finished.
func (t *Tee) Wait() {
	t.idle.Wait()
}

// enqueue appends op and starts a drainer unless one is running. There is
// at most one drainer, so ops reach the mirror in queue order.
func (t *Tee) enqueue(op func()) {
	t.idle.Add(1)
	t.mu.Lock()
	t.queue = append(t.queue, op)
	if t.draining {
		t.mu.Unlock()
		return
	}
	t.draining = true
	t.mu.Unlock()
	t.run(t.drain)
}

func (t *Tee) drain() {
	for {
		t.mu.Lock()
		if len(t.queue) == 0 {
			t.draining = false
			t.mu.Unlock()
			return
		}
		op := t.queue[0]
		t.queue[0] = nil
		t.queue = t.queue[1:]
		t.mu.Unlock()

		op()
		t.idle.Done()
	}
}
