package dev

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vango-dev/pagefx/internal/config"
)

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are files or directories to watch.
	Paths []string

	// Ignore lists base-name globs and path segments to skip.
	Ignore []string

	// Interval is the poll period. Default: 300ms.
	Interval time.Duration

	// Extensions limits watching to these file extensions. Empty watches
	// everything not ignored.
	Extensions []string
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	"*_test.go",
	".git",
	"node_modules",
	"static",
	"*.tmp",
	"*.swp",
	"*~",
}

// Watcher polls files for modification.
type Watcher struct {
	config   WatcherConfig
	onChange func([]string)

	mu         sync.Mutex
	running    bool
	stopCh     chan struct{}
	timestamps map[string]time.Time
	primed     bool
}

// NewWatcher creates a watcher.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Interval == 0 {
		config.Interval = 300 * time.Millisecond
	}
	if config.Ignore == nil {
		config.Ignore = DefaultIgnore
	}
	return &Watcher{
		config:     config,
		timestamps: make(map[string]time.Time),
	}
}

// WatchPaths returns the paths `serve --watch` polls: the wasm main
// package, the shared pkg tree, and any configured extras.
func WatchPaths(cfg *config.Config) []string {
	root := cfg.ProjectDir()
	paths := []string{
		filepath.Join(root, filepath.FromSlash(cfg.Build.Package)),
		filepath.Join(root, "pkg"),
	}
	for _, p := range cfg.Build.Watch {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		paths = append(paths, p)
	}

	seen := make(map[string]bool, len(paths))
	unique := paths[:0]
	for _, p := range paths {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			unique = append(unique, p)
		}
	}
	return unique
}

// OnChange sets the callback. It receives the sorted changed paths of one
// poll, deletions included.
func (w *Watcher) OnChange(fn func(paths []string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start records the current state and polls until ctx is done or Stop is
// called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stop := w.stopCh
	w.mu.Unlock()

	w.Poll()

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return ctx.Err()
		case <-stop:
			return nil
		case <-ticker.C:
			w.Poll()
		}
	}
}

// Stop stops a running watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

// Poll scans once and reports changes since the previous scan. The first
// scan only records state.
func (w *Watcher) Poll() []string {
	seen := make(map[string]time.Time)
	for _, root := range w.config.Paths {
		root := root
		_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if p != root && w.shouldIgnore(p) {
					return filepath.SkipDir
				}
				return nil
			}
			if w.shouldIgnore(p) || !w.wanted(p) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			seen[p] = info.ModTime()
			return nil
		})
	}

	w.mu.Lock()
	first := !w.primed
	w.primed = true
	var changed []string
	for p, mod := range seen {
		if last, ok := w.timestamps[p]; !ok || mod.After(last) {
			changed = append(changed, p)
		}
	}
	for p := range w.timestamps {
		if _, ok := seen[p]; !ok {
			changed = append(changed, p)
		}
	}
	w.timestamps = seen
	callback := w.onChange
	w.mu.Unlock()

	if first || len(changed) == 0 {
		return nil
	}
	sort.Strings(changed)
	if callback != nil {
		callback(changed)
	}
	return changed
}

func (w *Watcher) wanted(p string) bool {
	if len(w.config.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(p))
	for _, e := range w.config.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// shouldIgnore matches base-name globs and whole path segments.
func (w *Watcher) shouldIgnore(p string) bool {
	name := filepath.Base(p)
	segments := strings.Split(filepath.ToSlash(p), "/")
	for _, pattern := range w.config.Ignore {
		if strings.ContainsAny(pattern, "*?[") {
			if ok, _ := filepath.Match(pattern, name); ok {
				return true
			}
			continue
		}
		for _, seg := range segments {
			if seg == pattern {
				return true
			}
		}
	}
	return false
}

// IsRunning reports whether Start is polling.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

