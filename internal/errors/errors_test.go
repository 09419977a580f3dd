package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{"config", CodeConfigNotFound, "Configuration file not found", CategoryConfig},
		{"server", CodeRedisUnavailable, "Redis is unreachable", CategoryServer},
		{"publish", CodePublishNoBucket, "No bucket configured", CategoryPublish},
		{"unknown", "PFX999", "Unknown error", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	err := New(CodePublishUpload).Wrap(fmt.Errorf("access denied"))
	if got, want := err.Error(), "PFX502: Upload failed: access denied"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := Newf(CategoryCLI, "unknown flag %q", "--x")
	if got := plain.Error(); got != `unknown flag "--x"` {
		t.Errorf("Error() = %q", got)
	}
}

func TestWrapAndMatch(t *testing.T) {
	cause := os.ErrNotExist
	err := fmt.Errorf("loading: %w", New(CodeConfigNotFound).Wrap(cause))

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}
	if !stderrors.Is(err, New(CodeConfigNotFound)) {
		t.Error("errors.Is should match by code")
	}
	if stderrors.Is(err, New(CodeConfigInvalid)) {
		t.Error("different codes must not match")
	}
	if Code(err) != CodeConfigNotFound {
		t.Errorf("Code() = %q", Code(err))
	}
	if Code(cause) != "" {
		t.Error("plain errors have no code")
	}
}

func TestFrom(t *testing.T) {
	if From(nil, CodeUsage) != nil {
		t.Error("From(nil) should be nil")
	}

	existing := New(CodeAuditParse)
	if From(fmt.Errorf("wrapped: %w", existing), CodeUsage) != existing {
		t.Error("From should return an existing *Error unchanged")
	}

	e := From(fmt.Errorf("boom"), CodeListen)
	if e.Code != CodeListen || e.Err == nil {
		t.Errorf("From = %+v", e)
	}
}

func TestWithLocationReadsContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pagefx.yaml")
	content := "server:\n  host: localhost\n  port: 99999\npref:\n  backend: memory\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	err := New(CodeConfigInvalid).WithLocation(path, 3, 9).WithHint("port must be 1-65535")
	if len(err.Context) != 5 {
		t.Fatalf("context = %q", err.Context)
	}
	if err.Context[2] != "  port: 99999" {
		t.Errorf("highlighted line = %q", err.Context[2])
	}

	Colors = false
	defer func() { Colors = true }()

	out := err.Format()
	for _, want := range []string{
		"ERROR PFX102: Invalid configuration",
		path + ":3:9",
		">    3 |   port: 99999",
		"Hint: port must be 1-65535",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestWithLocationMissingFile(t *testing.T) {
	err := New(CodeConfigParse).WithLocation("/does/not/exist.yaml", 1, 0)
	if err.Context != nil {
		t.Error("missing file should give no context")
	}
	if got := err.Compact(); got != "/does/not/exist.yaml:1: PFX103: Configuration file is malformed" {
		t.Errorf("Compact() = %q", got)
	}
}

func TestMarshalJSON(t *testing.T) {
	err := New(CodeRedisUnavailable).Wrap(fmt.Errorf("dial tcp: refused"))
	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatal(jerr)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got["code"] != CodeRedisUnavailable || got["category"] != "server" || got["cause"] != "dial tcp: refused" {
		t.Errorf("json = %s", data)
	}
	if _, ok := got["location"]; ok {
		t.Error("location should be omitted when unset")
	}
}

func TestFprint(t *testing.T) {
	Colors = false
	defer func() { Colors = true }()

	var b bytes.Buffer
	Fprint(&b, fmt.Errorf("plain failure"))
	if !strings.Contains(b.String(), "ERROR: plain failure") {
		t.Errorf("plain = %q", b.String())
	}

	b.Reset()
	Fprint(&b, New(CodeConfigExists))
	if !strings.Contains(b.String(), "Hint: Pass --force") {
		t.Errorf("coded = %q", b.String())
	}
}

func TestRegistryComplete(t *testing.T) {
	codes := Codes()
	if len(codes) == 0 {
		t.Fatal("no codes registered")
	}
	for i, code := range codes {
		if i > 0 && codes[i-1] >= code {
			t.Errorf("codes not sorted at %d", i)
		}
		tmpl, ok := Lookup(code)
		if !ok || tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("code %s has incomplete template %+v", code, tmpl)
		}
		if !strings.HasPrefix(code, "PFX") {
			t.Errorf("code %s lacks the PFX prefix", code)
		}
	}
}
