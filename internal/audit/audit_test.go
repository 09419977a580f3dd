package audit

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/pagefx/internal/errors"
	"github.com/vango-dev/pagefx/internal/site"
	"github.com/vango-dev/pagefx/pkg/behavior"
)

const partialPage = `<!DOCTYPE html>
<html><body>
  <nav class="navbar"><a href="#about">About</a></nav>
  <section id="about" class="feature-card">About us</section>
  <div class="stat-card"><div class="text-5xl">40+</div></div>
  <div class="stat-card"><div class="text-5xl">many</div></div>
</body></html>`

func landing(t *testing.T) string {
	t.Helper()
	var b bytes.Buffer
	if err := site.Render(&b, site.Page{Title: "Acme", Options: behavior.DefaultOptions()}); err != nil {
		t.Fatal(err)
	}
	return b.String()
}

func TestRunLandingIsComplete(t *testing.T) {
	r, err := Run(context.Background(), strings.NewReader(landing(t)), "index.html")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !r.Complete() {
		t.Errorf("missing = %v", r.Missing)
	}
	if err := r.Check(); err != nil {
		t.Errorf("Check = %v", err)
	}
	for _, want := range []string{
		behavior.BehaviorDarkMode, behavior.BehaviorMenu, behavior.BehaviorAnchors,
		behavior.BehaviorReveal, behavior.BehaviorForms, behavior.BehaviorNavbar,
		behavior.BehaviorCounters, behavior.BehaviorParallax, behavior.BehaviorLoadFade,
	} {
		if !contains(r.Active, want) {
			t.Errorf("%s not active: %v", want, r.Active)
		}
	}
	if r.Counts.Fields != 3 || r.Counts.Counters != len(site.DefaultStats) {
		t.Errorf("counts = %+v", r.Counts)
	}
	if r.Simulation != nil {
		t.Error("simulation ran without being asked")
	}
}

func TestRunPartialPage(t *testing.T) {
	r, err := Run(context.Background(), strings.NewReader(partialPage), "partial.html")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"#" + behavior.DarkToggleID, "#" + behavior.MenuID, behavior.FieldSelector} {
		if !contains(r.Missing, want) {
			t.Errorf("%s not reported missing: %v", want, r.Missing)
		}
	}
	if contains(r.Active, behavior.BehaviorDarkMode) || contains(r.Active, behavior.BehaviorForms) {
		t.Errorf("active = %v", r.Active)
	}
	if errors.Code(r.Check()) != errors.CodeAuditIncomplete {
		t.Errorf("Check code = %q", errors.Code(r.Check()))
	}
}

func TestSimulate(t *testing.T) {
	r, err := Run(context.Background(), strings.NewReader(partialPage), "partial.html", WithSimulation())
	if err != nil {
		t.Fatal(err)
	}
	s := r.Simulation
	if s == nil {
		t.Fatal("no simulation")
	}
	if s.ScrollY != r.Options.NavbarThreshold+1 {
		t.Errorf("scrollY = %v", s.ScrollY)
	}
	if s.BodyOpacity != "1" {
		t.Errorf("body opacity = %q", s.BodyOpacity)
	}
	if s.NavbarShadow != behavior.ShadowRaised {
		t.Errorf("navbar shadow = %q", s.NavbarShadow)
	}
	if s.Revealed != 3 {
		t.Errorf("revealed = %d", s.Revealed)
	}
	if len(s.Counters) != 1 || s.Counters[0] != "40+" || s.Skipped != 1 {
		t.Errorf("counters = %v skipped %d", s.Counters, s.Skipped)
	}
	if s.PendingTimer != 0 {
		t.Errorf("pending timers = %d", s.PendingTimer)
	}
}

func TestSimulateScrollOffset(t *testing.T) {
	r, err := Run(context.Background(), strings.NewReader(landing(t)), "index.html", WithSimulation(), WithScroll(40))
	if err != nil {
		t.Fatal(err)
	}
	s := r.Simulation
	if s.NavbarShadow != behavior.ShadowResting {
		t.Errorf("navbar shadow = %q", s.NavbarShadow)
	}
	if s.Parallax != behavior.ParallaxTransform(40, r.Options.ParallaxSpeed) {
		t.Errorf("parallax = %q", s.Parallax)
	}
	want := []string{"500+", "120+", "24+"}
	if strings.Join(s.Counters, ",") != strings.Join(want, ",") {
		t.Errorf("counters = %v", s.Counters)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	page := `<html><body><script id="` + behavior.ConfigElementID + `" type="application/json">{</script></body></html>`
	_, err := Run(context.Background(), strings.NewReader(page), "bad.html")
	if errors.Code(err) != errors.CodeAuditParse {
		t.Errorf("code = %q", errors.Code(err))
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, []byte(landing(t)), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := File(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if r.File != path {
		t.Errorf("file = %q", r.File)
	}

	if _, err := File(context.Background(), filepath.Join(dir, "nope.html")); errors.Code(err) != errors.CodeFileNotFound {
		t.Errorf("missing file code = %q", errors.Code(err))
	}
}

func TestWriteText(t *testing.T) {
	r, err := Run(context.Background(), strings.NewReader(partialPage), "partial.html", WithSimulation())
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err := r.WriteText(&b); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{"partial.html", "missing  #darkModeToggle", "revealed      3/3", "skipped 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
