package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/pagefx/internal/audit"
	"github.com/vango-dev/pagefx/internal/config"
	"github.com/vango-dev/pagefx/internal/errors"
)

func run(t *testing.T, env map[string]string, args ...string) (string, error) {
	t.Helper()
	var stderr, stdout bytes.Buffer
	c := &cli{stderr: &stderr, getenv: func(k string) string { return env[k] }}
	cmd := c.rootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestVersionShort(t *testing.T) {
	out, err := run(t, nil, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q", out)
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, nil, "init", dir); err != nil {
		t.Fatalf("init: %v", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != config.DefaultPort {
		t.Errorf("port = %d", cfg.Server.Port)
	}

	if _, err := run(t, nil, "init", dir); errors.Code(err) != errors.CodeConfigExists {
		t.Errorf("second init code = %q", errors.Code(err))
	}
	if _, err := run(t, nil, "init", "--force", "--yaml", dir); err != nil {
		t.Errorf("forced init: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, config.YAMLFileName)); err != nil {
		t.Errorf("yaml config not written: %v", err)
	}
}

const auditPage = `<!DOCTYPE html><html><body>
<nav class="navbar"><button id="darkModeToggle"></button></nav>
<div class="stat-card"><div class="text-5xl">12+</div></div>
</body></html>`

func TestAuditJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(auditPage), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, nil, "audit", "--json", "--simulate", path)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	var report audit.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if report.Simulation == nil || len(report.Simulation.Counters) != 1 || report.Simulation.Counters[0] != "12+" {
		t.Errorf("simulation = %+v", report.Simulation)
	}

	if _, err := run(t, nil, "audit", "--strict", path); errors.Code(err) != errors.CodeAuditIncomplete {
		t.Errorf("strict code = %q", errors.Code(err))
	}
	if _, err := run(t, nil, "audit"); err == nil {
		t.Error("audit without a file should fail")
	}
}

func TestPublishDryRun(t *testing.T) {
	dir := t.TempDir()
	static := filepath.Join(dir, "static")
	if err := os.MkdirAll(static, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(static, "main.wasm"), []byte("\x00asm"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, nil, "init", dir); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, config.JSONFileName)

	if _, err := run(t, nil, "publish", "--dry-run", "--config", cfgPath); errors.Code(err) != errors.CodePublishNoBucket {
		t.Errorf("no bucket code = %q", errors.Code(err))
	}

	out, err := run(t, map[string]string{"PAGEFX_BUCKET": "acme-site"}, "publish", "--dry-run", "--config", cfgPath)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	for _, key := range []string{"index.html", "assets/site.css", "static/main.wasm"} {
		if !strings.Contains(out, "s3://acme-site/"+key) {
			t.Errorf("listing lacks %s:\n%s", key, out)
		}
	}

	if _, err := run(t, nil, "publish", "--bucket", "acme-site", "--config", cfgPath); errors.Code(err) != errors.CodePublishCredential {
		t.Errorf("missing credentials code = %q", errors.Code(err))
	}
}

func TestConfigErrorsSurface(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.JSONFileName)
	if err := os.WriteFile(path, []byte(`{"server":{"port":0}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, map[string]string{"PAGEFX_PORT": "abc"}, "publish", "--dry-run", "--config", path)
	if errors.Code(err) != errors.CodeConfigInvalid {
		t.Errorf("code = %q", errors.Code(err))
	}
}

func TestBuildReportsToolchainErrors(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, config.JSONFileName)
	data := `{"build":{"package":"./does-not-exist"}}`
	if err := os.WriteFile(cfgPath, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, nil, "build", "--config", cfgPath)
	if err == nil {
		t.Fatal("build of a missing package succeeded")
	}
	if code := errors.Code(err); code != errors.CodeBuild && code != errors.CodeBuildToolchain {
		t.Errorf("code = %q", code)
	}
}

func TestInitTemplate(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, nil, "init", "--template", "wasm", dir)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	main := filepath.Join(dir, "cmd", "pagefx-wasm", "main.go")
	if _, err := os.Stat(main); err != nil {
		t.Errorf("entrypoint not written: %v", err)
	}
	if !strings.Contains(out, main) {
		t.Errorf("output does not list %s:\n%s", main, out)
	}

	other := t.TempDir()
	if _, err := run(t, nil, "init", "--template", "full", other); errors.Code(err) != errors.CodeTemplateUnknown {
		t.Errorf("unknown template code = %q", errors.Code(err))
	}
	if config.Exists(other) {
		t.Error("config written despite an unknown template")
	}
}
