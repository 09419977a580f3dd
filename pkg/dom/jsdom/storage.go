//go:build js && wasm

package jsdom

import (
	"context"
	"fmt"
	"syscall/js"

	"github.com/vango-dev/pagefx/pkg/pref"
)

// LocalStorage is a pref.Store over window.localStorage.
type LocalStorage struct {
	v js.Value
}

var _ pref.Store = (*LocalStorage)(nil)

// NewLocalStorage binds window.localStorage. It fails when storage is
// unavailable, as in some private browsing modes.
func NewLocalStorage() (*LocalStorage, error) {
	var v js.Value
	if err := try(func() { v = js.Global().Get("localStorage") }); err != nil {
		return nil, fmt.Errorf("jsdom: localStorage: %w", err)
	}
	if isNull(v) {
		return nil, fmt.Errorf("jsdom: localStorage unavailable")
	}
	return &LocalStorage{v: v}, nil
}

func (s *LocalStorage) Get(ctx context.Context, key string) (string, error) {
	var v js.Value
	if err := try(func() { v = s.v.Call("getItem", key) }); err != nil {
		return "", err
	}
	if v.IsNull() {
		return "", pref.ErrNotFound
	}
	return v.String(), nil
}

func (s *LocalStorage) Set(ctx context.Context, key, value string) error {
	return try(func() { s.v.Call("setItem", key, value) })
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	return try(func() { s.v.Call("removeItem", key) })
}
