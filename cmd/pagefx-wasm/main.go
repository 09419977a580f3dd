//go:build js && wasm

// Command pagefx-wasm runs the page behaviors in the browser. Build it with
// GOOS=js GOARCH=wasm and serve the result as main.wasm next to
// wasm_exec.js.
package main

import (
	"context"
	"log/slog"
	"os"
	"syscall/js"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vango-dev/pagefx/pkg/behavior"
	"github.com/vango-dev/pagefx/pkg/dom/jsdom"
	"github.com/vango-dev/pagefx/pkg/pref"
	"github.com/vango-dev/pagefx/pkg/toast"
)

func main() {
	logger := slog.New(log.NewWithOptions(os.Stderr, log.Options{Prefix: "pagefx"}))
	ctx := context.Background()

	doc := jsdom.New()
	opts, err := behavior.OptionsFromDocument(doc)
	if err != nil {
		logger.Warn("invalid page config, using defaults", "error", err)
	}

	store := newStore(ctx, logger, opts)
	ctrl := behavior.New(doc, jsdom.Clock{}, store,
		behavior.WithOptions(opts),
		behavior.WithLogger(logger),
	)
	ctrl.Init(ctx)

	showToast := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		kind := ""
		if len(args) > 1 && args[1].Type() == js.TypeString {
			kind = args[1].String()
		}
		ctrl.ShowToast(args[0].String(), toast.ParseKind(kind))
		return nil
	})
	js.Global().Set("showToast", showToast)

	if opts.ToastURL != "" {
		doc.Subscribe(socketURL(opts.ToastURL), func(n toast.Notice) {
			ctrl.ShowNotice(n)
		}, logger)
	}

	select {}
}

// newStore returns localStorage mirrored to the server preference API.
// At startup a server value wins so a preference set on another device
// applies here too; a server with no value gets the local one.
func newStore(ctx context.Context, logger *slog.Logger, opts behavior.Options) pref.Store {
	local, err := jsdom.NewLocalStorage()
	if err != nil {
		logger.Warn("localStorage unavailable, preferences will not persist", "error", err)
		return pref.NewMemoryStore()
	}
	if opts.PrefURL == "" {
		return local
	}

	remote := pref.NewHTTPStore(origin()+opts.PrefURL, nil)
	syncCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if _, _, err := pref.Sync(syncCtx, local, remote, pref.DarkModeKey); err != nil {
		logger.Debug("preference sync skipped", "error", err)
	}

	return pref.NewTee(local, remote, pref.OnMirrorError(func(op, key string, err error) {
		logger.Warn("preference mirror failed", "op", op, "key", key, "error", err)
	}))
}

func origin() string {
	return js.Global().Get("location").Get("origin").String()
}

// socketURL turns a path such as /ws/toast into an absolute ws(s) URL.
func socketURL(path string) string {
	loc := js.Global().Get("location")
	scheme := "ws:"
	if loc.Get("protocol").String() == "https:" {
		scheme = "wss:"
	}
	return scheme + "//" + loc.Get("host").String() + path
}
