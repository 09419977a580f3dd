package build

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/pagefx/internal/config"
	"github.com/vango-dev/pagefx/internal/errors"
	"github.com/vango-dev/pagefx/pkg/assets"
)

type call struct {
	dir  string
	env  []string
	args []string
}

// fakeGo pretends to be the go command: `build -o X` writes X and
// `env GOROOT` points at a fake toolchain holding wasm_exec.js.
func fakeGo(t *testing.T, goroot string, calls *[]call) Runner {
	t.Helper()
	return func(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error) {
		*calls = append(*calls, call{dir: dir, env: env, args: args})
		switch args[0] {
		case "build":
			for i, a := range args {
				if a == "-o" {
					return nil, os.WriteFile(args[i+1], []byte("\x00asm fake module"), 0o644)
				}
			}
			return nil, stderrors.New("no -o")
		case "env":
			return []byte(goroot + "\n"), nil
		}
		return nil, stderrors.New("unexpected command")
	}
}

func fakeGoroot(t *testing.T, sub string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, filepath.FromSlash(sub))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, WasmExecName), []byte("// glue"), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func project(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.New()
	if err := cfg.SaveTo(filepath.Join(dir, config.JSONFileName)); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestBuildFingerprints(t *testing.T) {
	cfg := project(t)
	cfg.Build.Tags = []string{"prod"}
	var calls []call
	var steps []string
	b := New(cfg, Options{
		Fingerprint: true,
		Run:         fakeGo(t, fakeGoroot(t, "lib/wasm"), &calls),
		OnProgress:  func(s string) { steps = append(steps, s) },
	})

	res, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	build := calls[0]
	if build.dir != cfg.Dir() {
		t.Errorf("build dir = %q", build.dir)
	}
	if strings.Join(build.env, " ") != "GOOS=js GOARCH=wasm CGO_ENABLED=0" {
		t.Errorf("env = %v", build.env)
	}
	joined := strings.Join(build.args, " ")
	for _, want := range []string{"-trimpath", "-tags prod", config.DefaultWasmPackage} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q lack %q", joined, want)
		}
	}

	for _, name := range []string{WasmName, WasmExecName} {
		hashed := res.Manifest[name]
		if !assets.IsFingerprinted(hashed) {
			t.Errorf("%s -> %q is not fingerprinted", name, hashed)
		}
		if _, err := os.Stat(filepath.Join(res.StaticDir, hashed)); err != nil {
			t.Errorf("%s missing: %v", hashed, err)
		}
		if _, err := os.Stat(filepath.Join(res.StaticDir, name)); !os.IsNotExist(err) {
			t.Errorf("unhashed %s left behind", name)
		}
	}
	if res.WasmSize == 0 {
		t.Error("wasm size not recorded")
	}
	if len(steps) == 0 {
		t.Error("no progress reported")
	}

	m, err := assets.LoadManifest(os.DirFS(res.StaticDir))
	if err != nil {
		t.Fatal(err)
	}
	if m.URL("/static/main.wasm") != "/static/"+res.Manifest[WasmName] {
		t.Errorf("manifest URL = %q", m.URL("/static/main.wasm"))
	}
}

func TestBuildRemovesStaleBundles(t *testing.T) {
	cfg := project(t)
	static := cfg.StaticPath()
	if err := os.MkdirAll(static, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(static, "main.deadbeef.wasm")
	keep := filepath.Join(static, "logo.deadbeef.png")
	for _, p := range []string{stale, keep} {
		if err := os.WriteFile(p, []byte("old"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var calls []call
	b := New(cfg, Options{Fingerprint: true, Run: fakeGo(t, fakeGoroot(t, "lib/wasm"), &calls)})
	if _, err := b.Build(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale bundle kept")
	}
	if _, err := os.Stat(keep); err != nil {
		t.Error("unrelated asset removed")
	}
}

func TestBuildPlainNames(t *testing.T) {
	cfg := project(t)
	var calls []call
	b := New(cfg, Options{Run: fakeGo(t, fakeGoroot(t, "misc/wasm"), &calls)})
	res, err := b.Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(res.StaticDir, assets.ManifestName))
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m[WasmName] != WasmName || m[WasmExecName] != WasmExecName {
		t.Errorf("manifest = %v", m)
	}
}

func TestBuildMissingWasmExec(t *testing.T) {
	cfg := project(t)
	var calls []call
	b := New(cfg, Options{Run: fakeGo(t, t.TempDir(), &calls)})
	if _, err := b.Build(context.Background()); errors.Code(err) != errors.CodeBuild {
		t.Errorf("code = %q", errors.Code(err))
	}
}

func TestExecRunnerMissingBinary(t *testing.T) {
	_, err := execRunner(context.Background(), ".", nil, "pagefx-no-such-binary")
	if errors.Code(err) != errors.CodeBuildToolchain {
		t.Errorf("code = %q", errors.Code(err))
	}
}
