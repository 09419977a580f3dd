package assets

import (
	"mime"
	"path"
	"path/filepath"
	"strings"
)

// RelPath strips prefix from a request path and returns the file path
// relative to the static root. It rejects anything that could escape the
// root: NUL bytes, backslashes, absolute paths, and dot segments.
func RelPath(prefix, urlPath string) (string, bool) {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if !strings.HasPrefix(urlPath, prefix) {
		return "", false
	}
	rel := strings.TrimPrefix(urlPath, prefix)
	if rel == "" || strings.IndexByte(rel, 0) != -1 || strings.Contains(rel, `\`) {
		return "", false
	}
	// "/static//etc/passwd" leaves a leading slash.
	if strings.HasPrefix(rel, "/") {
		return "", false
	}
	// Check segments before cleaning; Clean would fold "a/../b" into "b".
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}
	clean := path.Clean(rel)
	osPath := filepath.FromSlash(clean)
	if clean == "." || filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return "", false
	}
	return clean, true
}

// IsFingerprinted reports whether the base name carries a content hash of
// at least 8 hex digits before its extension, as in "main.3f9a1c2e.wasm".
func IsFingerprinted(name string) bool {
	parts := strings.Split(path.Base(name), ".")
	if len(parts) < 3 {
		return false
	}
	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}

// Cache-Control values.
const (
	CacheImmutable = "public, max-age=31536000, immutable"
	CacheShort     = "public, max-age=300, must-revalidate"
	CacheNone      = "no-cache"
)

// CacheControl returns the Cache-Control header for a static file. HTML
// and the manifest always revalidate so a deploy is picked up at once.
func CacheControl(name string) string {
	switch {
	case IsFingerprinted(name):
		return CacheImmutable
	case path.Base(name) == ManifestName, strings.HasSuffix(name, ".html"):
		return CacheNone
	default:
		return CacheShort
	}
}

var contentTypes = map[string]string{
	".wasm": "application/wasm",
	".js":   "text/javascript; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".html": "text/html; charset=utf-8",
	".json": "application/json",
	".svg":  "image/svg+xml",
}

// ContentType returns the MIME type for a file name. Web assets use fixed
// types so results do not depend on the host's mime tables.
func ContentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if t, ok := contentTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
