package behavior

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/vango-dev/pagefx/pkg/clock"
	"github.com/vango-dev/pagefx/pkg/dom/htmldom"
	"github.com/vango-dev/pagefx/pkg/pref"
)

const landingPage = `<!DOCTYPE html>
<html><head><title>Landing</title></head>
<body>
  <nav class="navbar">
    <button id="darkModeToggle"><i class="fas fa-moon text-gray-700"></i></button>
    <button id="mobileMenuBtn">Menu</button>
    <div id="mobileMenu" class="hidden"><a id="menu-features" href="#features">Features</a></div>
  </nav>
  <a id="to-contact" href="#contact">Contact</a>
  <a id="to-nowhere" href="#missing">Missing</a>
  <a id="bare" href="#">Top</a>
  <div class="floating-element" id="float-1"></div>
  <div class="floating-element" id="float-2"></div>
  <section id="features">
    <div class="feature-card" id="card-1">One</div>
    <div class="glass-card" id="card-2">Two</div>
  </section>
  <section id="stats">
    <div class="stat-card" id="stat-users"><div class="text-5xl" id="count-users">50+</div></div>
    <div class="stat-card" id="stat-bad"><div class="text-5xl" id="count-bad">lots</div></div>
  </section>
  <section id="contact">
    <form>
      <input id="name" name="name" required>
      <input id="email" name="email" type="email" placeholder="you@example.com">
      <textarea id="message" name="message" required></textarea>
      <select id="topic" name="topic"><option value="sales">Sales</option></select>
    </form>
  </section>
</body></html>`

type page struct {
	doc   *htmldom.Document
	clock *clock.Manual
	store *pref.MemoryStore
	ctrl  *Controller
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPage(t *testing.T, markup string, opts ...Option) *page {
	t.Helper()
	return newPageWithStore(t, markup, pref.NewMemoryStore(), opts...)
}

func newPageWithStore(t *testing.T, markup string, store *pref.MemoryStore, opts ...Option) *page {
	t.Helper()
	doc, err := htmldom.ParseString(markup)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	clk := clock.NewManual()
	opts = append([]Option{WithLogger(discardLogger())}, opts...)
	ctrl := New(doc, clk, store, opts...)
	ctrl.Init(context.Background())
	return &page{doc: doc, clock: clk, store: store, ctrl: ctrl}
}

func (p *page) byID(t *testing.T, id string) *htmldom.Element {
	t.Helper()
	el := p.doc.GetElementByID(id)
	if el == nil {
		t.Fatalf("element #%s not found", id)
	}
	return el.(*htmldom.Element)
}
