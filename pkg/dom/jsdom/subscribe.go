//go:build js && wasm

package jsdom

import (
	"log/slog"
	"syscall/js"
	"time"

	"github.com/vango-dev/pagefx/pkg/toast"
)

const (
	minReconnect = time.Second
	maxReconnect = 30 * time.Second
)

// Subscription receives toasts pushed over a WebSocket and reconnects
// with exponential backoff when the socket drops.
type Subscription struct {
	doc     *Document
	url     string
	handle  func(toast.Notice)
	logger  *slog.Logger
	clock   Clock
	ws      js.Value
	funcs   []js.Func
	backoff time.Duration
	closed  bool
}

// Subscribe connects to url and calls handle for every notice. Each
// notice is also dispatched on the document as a toast.EventName
// CustomEvent.
func (d *Document) Subscribe(url string, handle func(toast.Notice), logger *slog.Logger) *Subscription {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Subscription{
		doc:     d,
		url:     url,
		handle:  handle,
		logger:  logger,
		backoff: minReconnect,
	}
	s.connect()
	return s
}

func (s *Subscription) connect() {
	s.release()
	if err := try(func() { s.ws = js.Global().Get("WebSocket").New(s.url) }); err != nil {
		s.logger.Warn("toast socket failed", "url", s.url, "error", err)
		s.retry()
		return
	}

	onOpen := js.FuncOf(func(js.Value, []js.Value) any {
		s.backoff = minReconnect
		s.logger.Debug("toast socket open", "url", s.url)
		return nil
	})
	onMessage := js.FuncOf(func(_ js.Value, args []js.Value) any {
		data := args[0].Get("data")
		if data.Type() != js.TypeString {
			return nil
		}
		n, err := toast.Decode([]byte(data.String()))
		if err != nil {
			s.logger.Warn("bad toast frame", "error", err)
			return nil
		}
		s.handle(n)
		s.doc.Dispatch(toast.EventName, map[string]any{
			"level":   string(n.Level),
			"message": n.Message,
			"title":   n.Title,
		})
		return nil
	})
	onClose := js.FuncOf(func(js.Value, []js.Value) any {
		if !s.closed {
			s.retry()
		}
		return nil
	})
	s.funcs = []js.Func{onOpen, onMessage, onClose}
	s.ws.Set("onopen", onOpen)
	s.ws.Set("onmessage", onMessage)
	s.ws.Set("onclose", onClose)
}

func (s *Subscription) retry() {
	delay := s.backoff
	s.backoff *= 2
	if s.backoff > maxReconnect {
		s.backoff = maxReconnect
	}
	s.logger.Debug("toast socket reconnecting", "in", delay)
	s.clock.AfterFunc(delay, func() {
		if !s.closed {
			s.connect()
		}
	})
}

func (s *Subscription) release() {
	if !isNull(s.ws) && s.ws.Truthy() {
		s.ws.Set("onopen", js.Null())
		s.ws.Set("onmessage", js.Null())
		s.ws.Set("onclose", js.Null())
	}
	for _, f := range s.funcs {
		f.Release()
	}
	s.funcs = nil
}

// Close stops the subscription.
func (s *Subscription) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if !isNull(s.ws) && s.ws.Truthy() {
		s.ws.Call("close")
	}
	s.release()
}
