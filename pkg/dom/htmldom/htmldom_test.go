package htmldom

import (
	"strings"
	"testing"

	"github.com/vango-dev/pagefx/pkg/dom"
)

const fixture = `<!DOCTYPE html>
<html><head><title>t</title></head>
<body class="page">
  <nav class="navbar" style="color: red"></nav>
  <a id="link" href="#features">Features</a>
  <a id="external" href="/about">About</a>
  <section id="features">
    <div class="feature-card">one</div>
    <div class="stat-card"><span class="text-5xl">120</span></div>
  </section>
  <form>
    <input id="email" type="email" required>
    <input id="plain">
    <textarea id="msg">hello</textarea>
    <select id="pick"><option value="a">A</option><option value="b" selected>B</option></select>
  </form>
</body></html>`

func TestLookupsReturnUntypedNil(t *testing.T) {
	d := MustParse(fixture)

	if el := d.GetElementByID("missing"); el != nil {
		t.Errorf("GetElementByID(missing) = %#v, want nil", el)
	}
	if el := d.QuerySelector(".nope"); el != nil {
		t.Errorf("QuerySelector(.nope) = %#v, want nil", el)
	}
	if els := d.QuerySelectorAll("[[invalid"); len(els) != 0 {
		t.Errorf("invalid selector matched %d elements", len(els))
	}
}

func TestIdentityStable(t *testing.T) {
	d := MustParse(fixture)

	a := d.GetElementByID("features")
	b := d.QuerySelector("section")
	if a != b {
		t.Error("same node should yield the same Element value")
	}
}

func TestQuerySelectorAll(t *testing.T) {
	d := MustParse(fixture)

	tests := []struct {
		selector string
		want     int
	}{
		{`a[href^="#"]`, 1},
		{".feature-card, .stat-card", 2},
		{".stat-card .text-5xl", 1},
		{"form input, form textarea, form select", 4},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.selector, func(t *testing.T) {
			if got := len(d.QuerySelectorAll(tt.selector)); got != tt.want {
				t.Errorf("matched %d, want %d", got, tt.want)
			}
		})
	}
}

func TestElementQueryExcludesSelf(t *testing.T) {
	d := MustParse(fixture)
	section := d.GetElementByID("features")

	if got := len(section.QuerySelectorAll("section, div")); got != 2 {
		t.Errorf("matched %d, want 2 (self excluded)", got)
	}
}

func TestClassList(t *testing.T) {
	d := MustParse(fixture)
	body := d.Body()

	body.ClassList().Add("dark-mode")
	if !body.ClassList().Contains("page") || !body.ClassList().Contains("dark-mode") {
		t.Fatalf("class = %q", mustAttr(body, "class"))
	}
	if body.ClassList().Toggle("dark-mode") {
		t.Error("Toggle should report removal")
	}
	if body.ClassList().Contains("dark-mode") {
		t.Error("dark-mode should be gone")
	}
	if !body.ClassList().Toggle("dark-mode") {
		t.Error("Toggle should report addition")
	}
	body.ClassList().Add("dark-mode")
	if got := mustAttr(body, "class"); got != "page dark-mode" {
		t.Errorf("class = %q, want no duplicates", got)
	}
}

func TestStyle(t *testing.T) {
	d := MustParse(fixture)
	nav := d.QuerySelector(".navbar")

	if nav.Style("color") != "red" {
		t.Errorf("color = %q", nav.Style("color"))
	}
	nav.SetStyle("box-shadow", "0 1px 3px rgba(0, 0, 0, 0.05)")
	nav.SetStyle("color", "blue")
	if got := mustAttr(nav, "style"); got != "color: blue; box-shadow: 0 1px 3px rgba(0, 0, 0, 0.05)" {
		t.Errorf("style = %q", got)
	}
}

func TestFormValues(t *testing.T) {
	d := MustParse(fixture)

	tests := []struct {
		id, typ, value string
	}{
		{"email", "email", ""},
		{"plain", "text", ""},
		{"msg", "textarea", "hello"},
		{"pick", "select-one", "b"},
	}
	for _, tt := range tests {
		el := d.GetElementByID(tt.id)
		if el.Type() != tt.typ {
			t.Errorf("%s Type() = %q, want %q", tt.id, el.Type(), tt.typ)
		}
		if el.Value() != tt.value {
			t.Errorf("%s Value() = %q, want %q", tt.id, el.Value(), tt.value)
		}
	}

	d.GetElementByID("pick").SetValue("a")
	if v := d.GetElementByID("pick").Value(); v != "a" {
		t.Errorf("select value after SetValue = %q", v)
	}
	d.GetElementByID("msg").SetValue("bye")
	if v := d.GetElementByID("msg").Value(); v != "bye" {
		t.Errorf("textarea value after SetValue = %q", v)
	}
}

func TestCreateAppendRemove(t *testing.T) {
	d := MustParse(fixture)

	div := d.CreateElement("div")
	div.SetID("messageContainer")
	div.SetInnerHTML(`<i class="fas fa-check-circle"></i> saved`)
	if d.GetElementByID("messageContainer") != nil {
		t.Fatal("detached element should not be found")
	}

	d.Body().AppendChild(div)
	if d.GetElementByID("messageContainer") != div {
		t.Fatal("appended element should be found")
	}
	if !strings.Contains(div.Text(), "saved") {
		t.Errorf("Text() = %q", div.Text())
	}
	if div.Parent() != d.Body() {
		t.Error("Parent() should be body")
	}

	div.Remove()
	if d.GetElementByID("messageContainer") != nil {
		t.Error("removed element should not be found")
	}
	if div.(*Element).Attached() {
		t.Error("Attached() should be false after Remove")
	}
	div.Remove()
}

func TestDispatchAndLoad(t *testing.T) {
	d := MustParse(fixture)
	link := d.GetElementByID("link")

	clicks := 0
	link.AddEventListener(dom.EventClick, func(e dom.Event) {
		clicks++
		e.PreventDefault()
	})
	ev := d.Click(link)
	if clicks != 1 || !ev.DefaultPrevented() {
		t.Errorf("clicks = %d, prevented = %v", clicks, ev.DefaultPrevented())
	}
	if ev.Target() != link {
		t.Error("Target() should be the clicked element")
	}

	var order []string
	d.OnLoad(func() { order = append(order, "load") })
	d.OnReady(func() { order = append(order, "ready") })
	d.Load()
	d.Load()
	d.OnReady(func() { order = append(order, "late") })
	if strings.Join(order, ",") != "ready,load,late" {
		t.Errorf("order = %v", order)
	}

	var seen []float64
	d.OnScroll(func() { seen = append(seen, d.ScrollY()) })
	d.ScrollTo(150)
	if len(seen) != 1 || seen[0] != 150 {
		t.Errorf("scroll listener saw %v", seen)
	}
}

func TestIntersectionObserver(t *testing.T) {
	d := MustParse(fixture)
	card := d.QuerySelector(".feature-card")

	var entries []dom.Entry
	obs := d.NewIntersectionObserver(dom.ObserverOptions{Threshold: 0.5}, func(es []dom.Entry) {
		entries = append(entries, es...)
	})

	d.SetIntersection(card, 0.3)
	if len(entries) != 0 {
		t.Fatal("unobserved element should not deliver")
	}

	obs.Observe(card)
	if len(entries) != 1 || entries[0].IsIntersecting {
		t.Fatalf("initial entry = %+v", entries)
	}
	if !d.Observed(card) {
		t.Error("card should be observed")
	}

	d.SetIntersection(card, 0.6)
	if len(entries) != 2 || !entries[1].IsIntersecting {
		t.Fatalf("entries = %+v", entries)
	}

	obs.Unobserve(card)
	d.SetIntersection(card, 1)
	if len(entries) != 2 {
		t.Error("unobserved element delivered an entry")
	}
}

func mustAttr(el dom.Element, name string) string {
	v, _ := el.Attr(name)
	return v
}
