// Package site renders the pagefx landing page.
//
// The markup carries every hook the browser behaviors look for: the
// navbar, the dark-mode toggle, the mobile menu, reveal cards, stat
// counters, floating elements, the contact form and the toast container.
// Behavior options are embedded as JSON in #pagefx-config.
package site

import (
	"encoding/json"
	"io"
	"net/url"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/vango-dev/pagefx/pkg/assets"
	"github.com/vango-dev/pagefx/pkg/behavior"
	"github.com/vango-dev/pagefx/pkg/toast"
)

// Script paths served from the static directory.
const (
	WasmExecPath = "/static/wasm_exec.js"
	WasmPath     = "/static/main.wasm"
)

// Flash is a toast rendered into the page on first paint.
type Flash struct {
	Kind    toast.Kind
	Message string
}

// Query parameters carrying a flash across a redirect.
const (
	FlashParam      = "toast"
	FlashLevelParam = "level"
)

// FlashURL returns path with a flash attached.
func FlashURL(path string, f Flash) string {
	q := url.Values{}
	q.Set(FlashParam, f.Message)
	q.Set(FlashLevelParam, string(f.Kind))
	return path + "?" + q.Encode()
}

// FlashFromQuery reads a flash from redirect parameters. Unknown levels
// render as info.
func FlashFromQuery(q url.Values) (Flash, bool) {
	msg := q.Get(FlashParam)
	if msg == "" {
		return Flash{}, false
	}
	kind := toast.Kind(q.Get(FlashLevelParam))
	if !kind.Valid() {
		kind = toast.KindInfo
	}
	return Flash{Kind: kind, Message: msg}, true
}

// ContactForm is the state of a re-rendered contact form.
type ContactForm struct {
	Name    string
	Email   string
	Message string

	// Invalid names the fields that failed validation.
	Invalid []string
}

func (f ContactForm) invalid(name string) bool {
	for _, n := range f.Invalid {
		if n == name {
			return true
		}
	}
	return false
}

// Stat is one animated counter on the page.
type Stat struct {
	Value int
	Label string
}

// Page is everything the landing page needs.
type Page struct {
	Title   string
	Brand   string
	Dark    bool
	Options behavior.Options
	Flashes []Flash
	Form    ContactForm
	Stats   []Stat

	// Assets maps script names to fingerprinted files. Nil links the
	// plain names.
	Assets *assets.Manifest
}

func (p Page) asset(path string) string {
	if p.Assets == nil {
		return path
	}
	return p.Assets.URL(path)
}

// DefaultStats are shown when a page sets none.
var DefaultStats = []Stat{
	{Value: 500, Label: "Happy customers"},
	{Value: 120, Label: "Projects shipped"},
	{Value: 24, Label: "Countries"},
}

// Render writes the landing page.
func Render(w io.Writer, p Page) error {
	return Landing(p).Render(w)
}

// Landing returns the landing page document.
func Landing(p Page) Node {
	if p.Brand == "" {
		p.Brand = p.Title
	}
	if len(p.Stats) == 0 {
		p.Stats = DefaultStats
	}
	bodyClass := "bg-gray-50 text-gray-900"
	if p.Dark {
		bodyClass += " " + behavior.DarkModeClass
	}

	return Doctype(
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				TitleEl(Text(p.Title)),
				Script(Src("https://cdn.tailwindcss.com")),
				Link(Rel("stylesheet"), Href("https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.5.1/css/all.min.css")),
				Link(Rel("stylesheet"), Href(StylesheetPath)),
			),
			Body(
				Class(bodyClass),
				navbar(p),
				hero(p),
				features(),
				stats(p.Stats),
				contact(p.Form),
				footer(p),
				messages(p.Flashes),
				config(p.Options),
				Script(Src(p.asset(WasmExecPath))),
				Script(Raw(`const go = new Go();
WebAssembly.instantiateStreaming(fetch("`+p.asset(WasmPath)+`"), go.importObject).then((r) => go.run(r.instance));`)),
			),
		),
	)
}

func toggleIcon(dark bool) Node {
	if dark {
		return Raw(behavior.SunIcon)
	}
	return Raw(behavior.MoonIcon)
}

var sections = []struct {
	Label string
	Href  string
}{
	{"Features", "#features"},
	{"Stats", "#stats"},
	{"Contact", "#contact"},
}

func navbar(p Page) Node {
	links := make([]Node, 0, len(sections))
	mobile := make([]Node, 0, len(sections))
	for _, s := range sections {
		links = append(links, A(Href(s.Href), Class("hover:text-indigo-600"), Text(s.Label)))
		mobile = append(mobile, A(Href(s.Href), Class("block py-2"), Text(s.Label)))
	}

	return Nav(
		Class("navbar fixed top-0 inset-x-0 z-40"),
		Div(
			Class("max-w-6xl mx-auto px-4 h-16 flex items-center justify-between"),
			A(Href("#top"), Class("text-xl font-bold"), Text(p.Brand)),
			Div(Class("hidden md:flex items-center space-x-8"), Group(links)),
			Div(
				Class("flex items-center space-x-2"),
				Button(ID(behavior.DarkToggleID), Type("button"), Aria("label", "Toggle dark mode"),
					Class("p-2 rounded-full"), toggleIcon(p.Dark)),
				Button(ID(behavior.MenuButtonID), Type("button"), Aria("label", "Open menu"),
					Class("md:hidden p-2"), I(Class("fas fa-bars"))),
			),
		),
		Div(ID(behavior.MenuID), Class(behavior.HiddenClass+" md:hidden px-4 pb-4"), Group(mobile)),
	)
}

func hero(p Page) Node {
	return Section(
		ID("top"),
		Class("relative overflow-hidden pt-32 pb-24 text-center"),
		Div(Class("floating-element w-64 h-64 bg-indigo-300 -top-10 -left-10")),
		Div(Class("floating-element w-72 h-72 bg-pink-300 top-20 right-0")),
		H1(Class("text-5xl font-extrabold"), Text(p.Title)),
		P(Class("mt-4 text-lg text-gray-500"), Text("Small touches that make a page feel alive.")),
		A(Href("#contact"), Class("inline-block mt-8 px-6 py-3 rounded-lg bg-indigo-600 text-white"),
			Text("Get in touch")),
	)
}

var featureList = []struct {
	Icon, Title, Body string
}{
	{"moon", "Dark mode", "Remembers your choice across visits and devices."},
	{"bolt", "Fast", "Behaviors run from a single WebAssembly module."},
	{"bell", "Live notices", "Announcements arrive as toasts without a reload."},
}

func features() Node {
	cards := make([]Node, 0, len(featureList)+1)
	for _, f := range featureList {
		cards = append(cards, Div(
			Class("feature-card p-6 rounded-xl bg-white shadow"),
			I(Class("fas fa-"+f.Icon+" text-2xl text-indigo-600")),
			H3(Class("mt-4 text-xl font-semibold"), Text(f.Title)),
			P(Class("mt-2 text-gray-500"), Text(f.Body)),
		))
	}
	cards = append(cards, Div(
		Class("glass-card p-6 rounded-xl md:col-span-3"),
		P(Text("Everything degrades gracefully: remove an element and its behavior simply stays off.")),
	))
	return Section(
		ID("features"),
		Class("max-w-6xl mx-auto px-4 py-20 grid md:grid-cols-3 gap-8"),
		Group(cards),
	)
}

func stats(list []Stat) Node {
	cards := make([]Node, 0, len(list))
	for _, s := range list {
		cards = append(cards, Div(
			Class("stat-card p-6 rounded-xl bg-white shadow text-center"),
			Div(Class("text-5xl font-bold text-indigo-600"), Text(behavior.CounterText(s.Value))),
			P(Class("mt-2 text-gray-500"), Text(s.Label)),
		))
	}
	return Section(
		ID("stats"),
		Class("max-w-6xl mx-auto px-4 py-20 grid md:grid-cols-3 gap-8"),
		Group(cards),
	)
}

func fieldClass(form ContactForm, name string) string {
	c := "w-full px-3 pt-5 pb-2 border rounded-lg"
	if form.invalid(name) {
		c += " " + behavior.InvalidClass
	}
	return c
}

func contact(form ContactForm) Node {
	return Section(
		ID("contact"),
		Class("max-w-xl mx-auto px-4 py-20"),
		H2(Class("text-3xl font-bold mb-8 text-center"), Text("Contact us")),
		Form(
			Method("post"), Action("/contact"), Class("space-y-6"), Attr("novalidate"),
			Div(Class("field"),
				Input(ID("name"), Name("name"), Type("text"), Required(), Placeholder(" "),
					Value(form.Name), Class(fieldClass(form, "name"))),
				Label(For("name"), Text("Name")),
			),
			Div(Class("field"),
				Input(ID("email"), Name("email"), Type("email"), Required(), Placeholder(" "),
					Value(form.Email), Class(fieldClass(form, "email"))),
				Label(For("email"), Text("Email")),
			),
			Div(Class("field"),
				Textarea(ID("message"), Name("message"), Rows("4"), Required(), Placeholder(" "),
					Class(fieldClass(form, "message")), Text(form.Message)),
				Label(For("message"), Text("Message")),
			),
			Button(Type("submit"), Class("w-full py-3 rounded-lg bg-indigo-600 text-white"), Text("Send")),
		),
	)
}

func footer(p Page) Node {
	return Footer(
		Class("py-10 text-center text-sm text-gray-500"),
		Text(p.Brand),
	)
}

func messages(flashes []Flash) Node {
	items := make([]Node, 0, len(flashes))
	for _, f := range flashes {
		items = append(items, Div(
			Class(toast.ClassName(f.Kind)),
			I(Class("fas fa-"+toast.Icon(f.Kind)+" mr-2")),
			Text(f.Message),
		))
	}
	return Div(ID(toast.ContainerID), Class(toast.ContainerClass), Group(items))
}

// config embeds the options for the browser. encoding/json escapes '<'
// and '>', so the payload cannot close the script element.
func config(opts behavior.Options) Node {
	data, err := json.Marshal(opts)
	if err != nil {
		data = []byte("{}")
	}
	return Script(ID(behavior.ConfigElementID), Type("application/json"), Raw(string(data)))
}
