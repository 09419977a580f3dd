package assets

import "testing"

func TestRelPath(t *testing.T) {
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"/static/main.wasm", "main.wasm", true},
		{"/static/js/app.js", "js/app.js", true},
		{"/static", "", false},
		{"/static/", "", false},
		{"/other/main.wasm", "", false},
		{"/static/../go.mod", "", false},
		{"/static/js/../../secret", "", false},
		{"/static/./main.wasm", "", false},
		{"/static//etc/passwd", "", false},
		{"/static/a\\b", "", false},
		{"/static/a\x00b", "", false},
	}
	for _, tt := range tests {
		got, ok := RelPath("/static", tt.path)
		if got != tt.want || ok != tt.ok {
			t.Errorf("RelPath(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsFingerprinted(t *testing.T) {
	tests := map[string]bool{
		"main.3f9a1c2e.wasm":       true,
		"css/site.ABCDEF0123.css":  true,
		"main.wasm":                false,
		"main.abc.wasm":            false,
		"main.zzzzzzzz.wasm":       false,
		"wasm_exec.1234567.js":     false,
		"vendor.min.0011aabb.js":   true,
		"deep/dir/file.deadbeef.x": true,
	}
	for name, want := range tests {
		if got := IsFingerprinted(name); got != want {
			t.Errorf("IsFingerprinted(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestCacheControl(t *testing.T) {
	tests := map[string]string{
		"main.3f9a1c2e.wasm": CacheImmutable,
		"main.wasm":          CacheShort,
		"index.html":         CacheNone,
		"manifest.json":      CacheNone,
		"site.css":           CacheShort,
	}
	for name, want := range tests {
		if got := CacheControl(name); got != want {
			t.Errorf("CacheControl(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"main.wasm":    "application/wasm",
		"wasm_exec.js": "text/javascript; charset=utf-8",
		"SITE.CSS":     "text/css; charset=utf-8",
		"index.html":   "text/html; charset=utf-8",
		"blob":         "application/octet-stream",
	}
	for name, want := range tests {
		if got := ContentType(name); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", name, got, want)
		}
	}
}
