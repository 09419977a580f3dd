package dev

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vango-dev/pagefx/internal/build"
	"github.com/vango-dev/pagefx/internal/errors"
	"github.com/vango-dev/pagefx/pkg/toast"
)

// Toast messages pushed to open pages after a rebuild.
const (
	RebuiltMessage = "Bundle rebuilt. Reload the page to pick it up."
	FailedMessage  = "Rebuild failed. Check the server log."
)

// Builder produces a new bundle.
type Builder interface {
	Build(ctx context.Context) (*build.Result, error)
}

// Reloader rebuilds the bundle when watched files change.
type Reloader struct {
	builder  Builder
	reload   func() error
	notify   toast.Emitter
	logger   *slog.Logger
	ctx      context.Context
	building sync.Mutex
}

// NewReloader creates a Reloader. reload is called after each successful
// build; notify may be nil.
func NewReloader(ctx context.Context, builder Builder, reload func() error, notify toast.Emitter, logger *slog.Logger) *Reloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reloader{
		builder: builder,
		reload:  reload,
		notify:  notify,
		logger:  logger,
		ctx:     ctx,
	}
}

// Changed is a Watcher callback. Overlapping calls run one at a time.
func (r *Reloader) Changed(paths []string) {
	r.building.Lock()
	defer r.building.Unlock()

	r.logger.Info("change detected, rebuilding", "files", len(paths), "first", paths[0])
	if err := r.Rebuild(r.ctx); err != nil {
		r.logger.Error("rebuild failed", "code", errors.Code(err), "error", err)
		if r.notify != nil {
			toast.Error(r.notify, FailedMessage)
		}
		return
	}
	if r.notify != nil {
		toast.Info(r.notify, RebuiltMessage)
	}
}

// Rebuild builds once and reloads the manifest.
func (r *Reloader) Rebuild(ctx context.Context) error {
	res, err := r.builder.Build(ctx)
	if err != nil {
		return err
	}
	if r.reload != nil {
		if err := r.reload(); err != nil {
			return err
		}
	}
	r.logger.Info("rebuilt", "duration", res.Duration.Round(time.Millisecond), "wasm_bytes", res.WasmSize)
	return nil
}
