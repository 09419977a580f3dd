package pref

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestFlagRoundTrip toggles twice and expects the store to be back where it
// started.
func TestFlagRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	flag := DarkMode(store)

	on, err := flag.Toggle(ctx)
	if err != nil || !on {
		t.Fatalf("first Toggle = %v, %v; want true, nil", on, err)
	}
	if v, _ := store.Get(ctx, DarkModeKey); v != EnabledValue {
		t.Errorf("stored %q, want %q", v, EnabledValue)
	}

	on, err = flag.Toggle(ctx)
	if err != nil || on {
		t.Fatalf("second Toggle = %v, %v; want false, nil", on, err)
	}
	if _, err := store.Get(ctx, DarkModeKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("disabled flag should delete the key, Get err = %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
}

func TestFlagEnabled(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		stored string
		set    bool
		want   bool
	}{
		{"absent", "", false, false},
		{"enabled", "enabled", true, true},
		{"legacy null sentinel", "null", true, false},
		{"other", "yes", true, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			if tt.set {
				_ = store.Set(ctx, DarkModeKey, tt.stored)
			}
			got, err := DarkMode(store).Enabled(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFlagWithMarker(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	flag := NewFlag(store, "reducedMotion", WithMarker("on"))

	if err := flag.Set(ctx, true); err != nil {
		t.Fatal(err)
	}
	if v, _ := store.Get(ctx, "reducedMotion"); v != "on" {
		t.Errorf("stored %q, want on", v)
	}
	if flag.Key() != "reducedMotion" {
		t.Errorf("Key() = %q", flag.Key())
	}
}

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) (string, error) { return "", f.err }
func (f failingStore) Set(context.Context, string, string) error   { return f.err }
func (f failingStore) Delete(context.Context, string) error        { return f.err }

func TestFlagPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	flag := DarkMode(failingStore{err: boom})

	if _, err := flag.Enabled(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Enabled err = %v", err)
	}
	if _, err := flag.Toggle(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Toggle err = %v", err)
	}
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("RemoteWins copies value", func(t *testing.T) {
		local, remote := NewMemoryStore(), NewMemoryStore()
		_ = remote.Set(ctx, DarkModeKey, EnabledValue)

		v, ok, err := Reconcile(ctx, local, remote, DarkModeKey, RemoteWins)
		if err != nil || !ok || v != EnabledValue {
			t.Fatalf("Reconcile = %q, %v, %v", v, ok, err)
		}
		if got, _ := local.Get(ctx, DarkModeKey); got != EnabledValue {
			t.Errorf("local = %q", got)
		}
	})

	t.Run("RemoteWins copies absence", func(t *testing.T) {
		local, remote := NewMemoryStore(), NewMemoryStore()
		_ = local.Set(ctx, DarkModeKey, EnabledValue)

		_, ok, err := Reconcile(ctx, local, remote, DarkModeKey, RemoteWins)
		if err != nil || ok {
			t.Fatalf("Reconcile ok = %v, err = %v", ok, err)
		}
		if local.Len() != 0 {
			t.Error("local key should be deleted")
		}
	})

	t.Run("LocalWins pushes value", func(t *testing.T) {
		local, remote := NewMemoryStore(), NewMemoryStore()
		_ = local.Set(ctx, DarkModeKey, EnabledValue)

		if _, _, err := Reconcile(ctx, local, remote, DarkModeKey, LocalWins); err != nil {
			t.Fatal(err)
		}
		if got, _ := remote.Get(ctx, DarkModeKey); got != EnabledValue {
			t.Errorf("remote = %q", got)
		}
	})

	t.Run("source error", func(t *testing.T) {
		boom := errors.New("down")
		_, _, err := Reconcile(ctx, NewMemoryStore(), failingStore{err: boom}, DarkModeKey, RemoteWins)
		if !errors.Is(err, boom) {
			t.Errorf("err = %v", err)
		}
	})
}

func TestMergeStrategyString(t *testing.T) {
	if RemoteWins.String() != "remote-wins" || LocalWins.String() != "local-wins" {
		t.Error("unexpected strategy names")
	}
	if MergeStrategy(9).String() != "unknown" {
		t.Error("unknown strategy should stringify as unknown")
	}
}

func TestScoped(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryStore()
	a := Scope(base, "visitor-a:")
	b := Scope(base, "visitor-b:")

	_ = DarkMode(a).Set(ctx, true)

	if on, _ := DarkMode(a).Enabled(ctx); !on {
		t.Error("visitor a should be enabled")
	}
	if on, _ := DarkMode(b).Enabled(ctx); on {
		t.Error("visitor b should be unaffected")
	}
	if v, _ := base.Get(ctx, "visitor-a:darkMode"); v != EnabledValue {
		t.Errorf("base key = %q", v)
	}
}

func TestTee(t *testing.T) {
	ctx := context.Background()
	primary, mirror := NewMemoryStore(), NewMemoryStore()
	sync := func(fn func()) { fn() }

	tee := NewTee(primary, mirror, WithRunner(sync))
	if err := DarkMode(tee).Set(ctx, true); err != nil {
		t.Fatal(err)
	}
	if v, _ := mirror.Get(ctx, DarkModeKey); v != EnabledValue {
		t.Errorf("mirror = %q", v)
	}
	if err := DarkMode(tee).Set(ctx, false); err != nil {
		t.Fatal(err)
	}
	if mirror.Len() != 0 || primary.Len() != 0 {
		t.Error("delete should reach both stores")
	}
}

func TestTeeMirrorFailure(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore()
	boom := errors.New("offline")

	var gotOp, gotKey string
	tee := NewTee(primary, failingStore{err: boom},
		WithRunner(func(fn func()) { fn() }),
		OnMirrorError(func(op, key string, err error) {
			gotOp, gotKey = op, key
		}),
	)

	if err := tee.Set(ctx, DarkModeKey, EnabledValue); err != nil {
		t.Fatalf("primary write should succeed: %v", err)
	}
	if gotOp != "set" || gotKey != DarkModeKey {
		t.Errorf("onError got (%q, %q)", gotOp, gotKey)
	}
	if v, _ := tee.Get(ctx, DarkModeKey); v != EnabledValue {
		t.Errorf("Get = %q", v)
	}
}

func TestSync(t *testing.T) {
	ctx := context.Background()

	t.Run("server value wins", func(t *testing.T) {
		local, remote := NewMemoryStore(), NewMemoryStore()
		_ = remote.Set(ctx, DarkModeKey, EnabledValue)
		v, ok, err := Sync(ctx, local, remote, DarkModeKey)
		if err != nil || !ok || v != EnabledValue {
			t.Fatalf("Sync = %q, %v, %v", v, ok, err)
		}
		if got, _ := local.Get(ctx, DarkModeKey); got != EnabledValue {
			t.Errorf("local = %q", got)
		}
	})

	t.Run("empty server keeps local flag", func(t *testing.T) {
		local, remote := NewMemoryStore(), NewMemoryStore()
		_ = local.Set(ctx, DarkModeKey, EnabledValue)
		v, ok, err := Sync(ctx, local, remote, DarkModeKey)
		if err != nil || !ok || v != EnabledValue {
			t.Fatalf("Sync = %q, %v, %v", v, ok, err)
		}
		if on, _ := DarkMode(local).Enabled(ctx); !on {
			t.Error("local flag erased")
		}
		if got, _ := remote.Get(ctx, DarkModeKey); got != EnabledValue {
			t.Errorf("remote = %q, want local value pushed up", got)
		}
	})

	t.Run("neither side set", func(t *testing.T) {
		local, remote := NewMemoryStore(), NewMemoryStore()
		_, ok, err := Sync(ctx, local, remote, DarkModeKey)
		if err != nil || ok || local.Len() != 0 || remote.Len() != 0 {
			t.Errorf("Sync ok=%v err=%v local=%d remote=%d", ok, err, local.Len(), remote.Len())
		}
	})

	t.Run("unreachable server leaves local alone", func(t *testing.T) {
		boom := errors.New("offline")
		local := NewMemoryStore()
		_ = local.Set(ctx, DarkModeKey, EnabledValue)
		if _, _, err := Sync(ctx, local, failingStore{err: boom}, DarkModeKey); !errors.Is(err, boom) {
			t.Errorf("err = %v", err)
		}
		if got, _ := local.Get(ctx, DarkModeKey); got != EnabledValue {
			t.Errorf("local = %q", got)
		}
	})
}

// slowStore delays writes to reorder them if they were concurrent.
type slowStore struct {
	*MemoryStore
	delay time.Duration
}

func (s slowStore) Set(ctx context.Context, key, value string) error {
	time.Sleep(s.delay)
	return s.MemoryStore.Set(ctx, key, value)
}

func TestTeeMirrorsInOrder(t *testing.T) {
	ctx := context.Background()
	local, remote := NewMemoryStore(), NewMemoryStore()
	tee := NewTee(local, slowStore{MemoryStore: remote, delay: 50 * time.Millisecond})
	flag := DarkMode(tee)

	if err := flag.Set(ctx, true); err != nil {
		t.Fatal(err)
	}
	if err := flag.Set(ctx, false); err != nil {
		t.Fatal(err)
	}
	tee.Wait()

	if local.Len() != 0 || remote.Len() != 0 {
		l, _ := local.Get(ctx, DarkModeKey)
		r, _ := remote.Get(ctx, DarkModeKey)
		t.Errorf("local=%q remote=%q, want both empty", l, r)
	}

	// The queue restarts after draining.
	if err := flag.Set(ctx, true); err != nil {
		t.Fatal(err)
	}
	tee.Wait()
	if on, _ := DarkMode(remote).Enabled(ctx); !on {
		t.Error("write after drain not mirrored")
	}
}
