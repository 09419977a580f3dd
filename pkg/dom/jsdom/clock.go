//go:build js && wasm

package jsdom

import (
	"syscall/js"
	"time"

	"github.com/vango-dev/pagefx/pkg/clock"
)

// Clock schedules callbacks with setTimeout and setInterval. Callbacks
// run on the browser event loop, one at a time.
type Clock struct{}

var _ clock.Clock = Clock{}

type jsTimer struct {
	handle js.Value
	clear  string
	fn     js.Func
	done   bool
}

func (t *jsTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	js.Global().Call(t.clear, t.handle)
	t.fn.Release()
	return true
}

func millis(d time.Duration) int {
	return int(d / time.Millisecond)
}

func (Clock) AfterFunc(d time.Duration, f func()) clock.Timer {
	t := &jsTimer{clear: "clearTimeout"}
	t.fn = js.FuncOf(func(js.Value, []js.Value) any {
		if t.done {
			return nil
		}
		t.done = true
		t.fn.Release()
		f()
		return nil
	})
	t.handle = js.Global().Call("setTimeout", t.fn, millis(d))
	return t
}

func (Clock) Every(d time.Duration, f func()) clock.Timer {
	t := &jsTimer{clear: "clearInterval"}
	t.fn = js.FuncOf(func(js.Value, []js.Value) any {
		if !t.done {
			f()
		}
		return nil
	})
	t.handle = js.Global().Call("setInterval", t.fn, millis(d))
	return t
}
