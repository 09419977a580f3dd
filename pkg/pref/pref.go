// Package pref provides persisted user preferences.
//
// Preferences are string values under named keys in a Store. The browser
// keeps them in localStorage; the server keeps a per-visitor copy so the
// first render already reflects the visitor's choice.
//
// Example:
//
//	dark := pref.NewFlag(store, pref.DarkModeKey)
//	on, _ := dark.Enabled(ctx)
//	dark.Toggle(ctx)
//
// A Flag is either set to its marker value or absent. Turning a flag off
// deletes the key; no sentinel value is ever written.
package pref

import (
	"context"
	"errors"
)

const (
	// DarkModeKey is the storage key of the dark-mode flag.
	DarkModeKey = "darkMode"

	// EnabledValue is the marker stored for an enabled flag.
	EnabledValue = "enabled"
)

// ErrNotFound is returned by Store.Get for absent keys.
var ErrNotFound = errors.New("pref: key not found")

// Store is a string key-value preference backend.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set writes value under key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Flag is a boolean preference stored as a marker value or absence.
type Flag struct {
	store  Store
	key    string
	marker string
}

// FlagOption configures a Flag.
type FlagOption func(*Flag)

// WithMarker overrides the value stored for an enabled flag.
func WithMarker(marker string) FlagOption {
	return func(f *Flag) {
		f.marker = marker
	}
}

// NewFlag creates a flag over key in store.
func NewFlag(store Store, key string, opts ...FlagOption) *Flag {
	f := &Flag{store: store, key: key, marker: EnabledValue}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// DarkMode returns the dark-mode flag over store.
func DarkMode(store Store) *Flag {
	return NewFlag(store, DarkModeKey)
}

// Key returns the flag's storage key.
func (f *Flag) Key() string {
	return f.key
}

// Enabled reports whether the stored value equals the marker. Absent keys
// and any other stored value (including a legacy "null") read as false.
func (f *Flag) Enabled(ctx context.Context) (bool, error) {
	v, err := f.store.Get(ctx, f.key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == f.marker, nil
}

// Set stores the marker when enabled and deletes the key otherwise.
func (f *Flag) Set(ctx context.Context, enabled bool) error {
	if enabled {
		return f.store.Set(ctx, f.key, f.marker)
	}
	return f.store.Delete(ctx, f.key)
}

// Toggle inverts the flag and returns the new state.
func (f *Flag) Toggle(ctx context.Context) (bool, error) {
	on, err := f.Enabled(ctx)
	if err != nil {
		return false, err
	}
	if err := f.Set(ctx, !on); err != nil {
		return on, err
	}
	return !on, nil
}

// MergeStrategy decides which side wins when a local and a remote store
// disagree about a key.
type MergeStrategy int

const (
	// RemoteWins copies the remote value (or its absence) into local.
	RemoteWins MergeStrategy = iota

	// LocalWins copies the local value (or its absence) into remote.
	LocalWins
)

// String returns the strategy name.
func (s MergeStrategy) String() string {
	switch s {
	case RemoteWins:
		return "remote-wins"
	case LocalWins:
		return "local-wins"
	default:
		return "unknown"
	}
}

// Reconcile makes local and remote agree on key using strategy.
// It returns the reconciled value and whether it is present.
func Reconcile(ctx context.Context, local, remote Store, key string, strategy MergeStrategy) (string, bool, error) {
	src, dst := remote, local
	if strategy == LocalWins {
		src, dst = local, remote
	}

	v, err := src.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		return "", false, dst.Delete(ctx, key)
	case err != nil:
		return "", false, err
	}
	return v, true, dst.Set(ctx, key, v)
}

// Sync reconciles key at startup without losing a stored preference. A
// value on remote is copied into local. When remote has nothing, remote
// is treated as knowing nothing: a local value is pushed up and local is
// left alone. It returns the resulting value and whether it is present.
func Sync(ctx context.Context, local, remote Store, key string) (string, bool, error) {
	v, err := remote.Get(ctx, key)
	switch {
	case err == nil:
		return v, true, local.Set(ctx, key, v)
	case !errors.Is(err, ErrNotFound):
		return "", false, err
	}

	v, err = local.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		return "", false, nil
	case err != nil:
		return "", false, err
	}
	return v, true, remote.Set(ctx, key, v)
}
