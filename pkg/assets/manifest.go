// Package assets holds the static asset rules shared by the server and
// the publisher: request path sanitization, fingerprint detection,
// cache-control policy, content types, and the optional manifest.json
// that maps logical names to fingerprinted files.
//
//	{
//	  "main.wasm": "main.3f9a1c2e.wasm",
//	  "wasm_exec.js": "wasm_exec.77b0d1aa.js"
//	}
//
// The page links assets through a Manifest so a fingerprinted build can be
// cached forever while the HTML stays short-lived.
package assets

import (
	"encoding/json"
	"errors"
	"io/fs"
	"path"
	"sync"
)

// ManifestName is the manifest file looked up in a static directory.
const ManifestName = "manifest.json"

// Manifest maps logical asset names to fingerprinted names. It is safe for
// concurrent use.
type Manifest struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{entries: make(map[string]string)}
}

// LoadManifest reads manifest.json from fsys. A missing file yields an
// empty manifest.
func LoadManifest(fsys fs.FS) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, ManifestName)
	if errors.Is(err, fs.ErrNotExist) {
		return NewManifest(), nil
	}
	if err != nil {
		return nil, err
	}
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = make(map[string]string)
	}
	return &Manifest{entries: entries}, nil
}

// Resolve returns the fingerprinted name for name, or name itself.
func (m *Manifest) Resolve(name string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.entries[name]; ok {
		return v
	}
	return name
}

// URL resolves the last element of a URL path such as
// "/static/main.wasm", keeping its directory.
func (m *Manifest) URL(p string) string {
	dir, file := path.Split(p)
	return dir + m.Resolve(file)
}

// Set records a mapping.
func (m *Manifest) Set(name, fingerprinted string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[name] = fingerprinted
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
