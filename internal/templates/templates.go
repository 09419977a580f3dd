package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/vango-dev/pagefx/internal/errors"
)

// Config contains template configuration.
type Config struct {
	ProjectName string
	StaticDir   string
	WasmPackage string
}

// Template is a named set of files.
type Template struct {
	Name        string
	Description string

	// Files maps slash-separated paths to template sources. Paths are
	// templates too.
	Files map[string]string
}

var templates = map[string]*Template{
	"minimal": minimalTemplate(),
	"wasm":    wasmTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New(errors.CodeTemplateUnknown).
			WithDetail("Template '" + name + "' not found. Available: " + strings.Join(List(), ", ") + ".")
	}
	return tmpl, nil
}

// List returns the template names, sorted.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create writes the template's files under dir and returns their paths.
// Existing files are left alone unless overwrite is set.
func (t *Template) Create(dir string, cfg Config, overwrite bool) ([]string, error) {
	keys := make([]string, 0, len(t.Files))
	for k := range t.Files {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var written []string
	for _, key := range keys {
		relPath, err := execute("path "+key, key, cfg)
		if err != nil {
			return written, err
		}
		body, err := execute(key, t.Files[key], cfg)
		if err != nil {
			return written, err
		}

		full := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(string(relPath), "./")))
		if _, err := os.Stat(full); err == nil && !overwrite {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return written, errors.New(errors.CodeConfigWrite).Wrap(err)
		}
		if err := os.WriteFile(full, body, 0o644); err != nil {
			return written, errors.New(errors.CodeConfigWrite).Wrap(err)
		}
		written = append(written, full)
	}
	return written, nil
}

func execute(name, src string, cfg Config) ([]byte, error) {
	tmpl, err := template.New(name).Parse(src)
	if err != nil {
		return nil, errors.New(errors.CodeConfigWrite).WithDetail("invalid template " + name).Wrap(err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigWrite).WithDetail("template " + name).Wrap(err)
	}
	return buf.Bytes(), nil
}

const gitignore = `# pagefx build output
/{{.StaticDir}}/main*.wasm
/{{.StaticDir}}/wasm_exec*.js
/{{.StaticDir}}/manifest.json
`

func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "Ignore rules for build output",
		Files: map[string]string{
			".gitignore": gitignore,
		},
	}
}

func wasmTemplate() *Template {
	return &Template{
		Name:        "wasm",
		Description: "Custom browser entrypoint wired to the behavior controller",
		Files: map[string]string{
			".gitignore": gitignore,
			"{{.WasmPackage}}/main.go": `//go:build js && wasm

// Command {{.ProjectName}} runs the pagefx behaviors in the browser.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vango-dev/pagefx/pkg/behavior"
	"github.com/vango-dev/pagefx/pkg/dom/jsdom"
	"github.com/vango-dev/pagefx/pkg/pref"
)

func main() {
	logger := slog.New(log.NewWithOptions(os.Stderr, log.Options{Prefix: "{{.ProjectName}}"}))

	doc := jsdom.New()
	opts, err := behavior.OptionsFromDocument(doc)
	if err != nil {
		logger.Warn("invalid page config, using defaults", "error", err)
	}

	ctrl := behavior.New(doc, jsdom.Clock{}, pref.NewMemoryStore(),
		behavior.WithOptions(opts),
		behavior.WithLogger(logger),
	)
	ctrl.Init(context.Background())

	select {}
}
`,
		},
	}
}
