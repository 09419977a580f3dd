package build

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/pagefx/internal/config"
	"github.com/vango-dev/pagefx/internal/errors"
	"github.com/vango-dev/pagefx/pkg/assets"
)

// Bundle file names before fingerprinting.
const (
	WasmName     = "main.wasm"
	WasmExecName = "wasm_exec.js"
)

// Result describes a finished build.
type Result struct {
	Duration time.Duration

	// StaticDir is where the bundle was written.
	StaticDir string

	// Manifest maps plain names to fingerprinted ones.
	Manifest map[string]string

	WasmSize int64
}

// Runner executes a command in dir with extra environment variables and
// returns its standard output.
type Runner func(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error)

// Options configures the builder.
type Options struct {
	// Fingerprint renames outputs with a content hash. Default builds set
	// it; `serve --watch` rebuilds do too so browsers never see a stale
	// cached bundle.
	Fingerprint bool

	// GoCmd is the go binary. Default: "go".
	GoCmd string

	// Run executes commands. Default: os/exec.
	Run Runner

	// OnProgress is called with progress updates.
	OnProgress func(step string)
}

// Builder compiles the browser bundle for a project.
type Builder struct {
	config  *config.Config
	options Options
}

// New creates a builder.
func New(cfg *config.Config, options Options) *Builder {
	if options.GoCmd == "" {
		options.GoCmd = "go"
	}
	if options.Run == nil {
		options.Run = execRunner
	}
	return &Builder{config: cfg, options: options}
}

// Build compiles the bundle and writes the manifest.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	staticDir := b.config.StaticPath()
	result := &Result{StaticDir: staticDir, Manifest: make(map[string]string)}

	if err := os.MkdirAll(staticDir, 0o755); err != nil {
		return nil, errors.New(errors.CodeBuild).Wrap(err)
	}

	b.progress("Removing stale bundles...")
	if err := removeStale(staticDir); err != nil {
		return nil, errors.New(errors.CodeBuild).Wrap(err)
	}

	b.progress("Compiling " + b.config.Build.Package + " to WebAssembly...")
	wasmPath := filepath.Join(staticDir, WasmName)
	if err := b.buildWasm(ctx, wasmPath); err != nil {
		return nil, err
	}
	if info, err := os.Stat(wasmPath); err == nil {
		result.WasmSize = info.Size()
	}

	b.progress("Copying " + WasmExecName + "...")
	execPath := filepath.Join(staticDir, WasmExecName)
	if err := b.copyWasmExec(ctx, execPath); err != nil {
		return nil, err
	}

	for _, p := range []string{wasmPath, execPath} {
		name := filepath.Base(p)
		result.Manifest[name] = name
		if !b.options.Fingerprint {
			continue
		}
		hashed, err := fingerprint(p)
		if err != nil {
			return nil, errors.New(errors.CodeBuild).Wrap(err)
		}
		result.Manifest[name] = filepath.Base(hashed)
	}

	b.progress("Writing manifest...")
	if err := writeManifest(staticDir, result.Manifest); err != nil {
		return nil, errors.New(errors.CodeBuild).Wrap(err)
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (b *Builder) buildWasm(ctx context.Context, output string) error {
	out, err := filepath.Abs(output)
	if err != nil {
		return errors.New(errors.CodeBuild).Wrap(err)
	}
	args := []string{"build", "-o", out, "-trimpath"}

	ldflags := "-s -w"
	if b.config.Build.LDFlags != "" {
		ldflags = b.config.Build.LDFlags + " " + ldflags
	}
	args = append(args, "-ldflags", ldflags)
	if len(b.config.Build.Tags) > 0 {
		args = append(args, "-tags", strings.Join(b.config.Build.Tags, ","))
	}
	args = append(args, b.config.Build.Package)

	env := []string{"GOOS=js", "GOARCH=wasm", "CGO_ENABLED=0"}
	if _, err := b.options.Run(ctx, b.config.ProjectDir(), env, b.options.GoCmd, args...); err != nil {
		return err
	}
	return nil
}

// copyWasmExec copies the JS glue that matches the toolchain. Go 1.24
// moved it from misc/wasm to lib/wasm.
func (b *Builder) copyWasmExec(ctx context.Context, dst string) error {
	out, err := b.options.Run(ctx, b.config.ProjectDir(), nil, b.options.GoCmd, "env", "GOROOT")
	if err != nil {
		return err
	}
	goroot := strings.TrimSpace(string(out))
	for _, dir := range []string{"lib/wasm", "misc/wasm"} {
		src := filepath.Join(goroot, filepath.FromSlash(dir), WasmExecName)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := copyFile(src, dst); err != nil {
			return errors.New(errors.CodeBuild).Wrap(err)
		}
		return nil
	}
	return errors.New(errors.CodeBuild).
		WithDetail(WasmExecName + " was not found under " + goroot + ".")
}

func (b *Builder) progress(step string) {
	if b.options.OnProgress != nil {
		b.options.OnProgress(step)
	}
}

func execRunner(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, errors.New(errors.CodeBuildToolchain).Wrap(err)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.New(errors.CodeBuild).
			WithDetail(strings.TrimSpace(stderr.String())).
			Wrap(err)
	}
	return stdout.Bytes(), nil
}

// removeStale deletes earlier fingerprinted bundles so the static dir
// holds one build.
func removeStale(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !assets.IsFingerprinted(name) {
			continue
		}
		if strings.HasPrefix(name, "main.") || strings.HasPrefix(name, "wasm_exec.") {
			if err := os.Remove(filepath.Join(dir, name)); err != nil {
				return err
			}
		}
	}
	return nil
}

// fingerprint renames p to include the first 8 hex digits of its SHA-256
// and returns the new path.
func fingerprint(p string) (string, error) {
	hash, err := hashFile(p)
	if err != nil {
		return "", err
	}
	ext := filepath.Ext(p)
	hashed := fmt.Sprintf("%s.%s%s", strings.TrimSuffix(p, ext), hash[:8], ext)
	if err := os.Rename(p, hashed); err != nil {
		return "", err
	}
	return hashed, nil
}

func writeManifest(dir string, manifest map[string]string) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, assets.ManifestName), append(data, '\n'), 0o644)
}

func hashFile(p string) (string, error) {
	f, err := os.Open(p)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
