// Package dev rebuilds the browser bundle while the server runs.
//
// A Watcher polls the project's Go sources. When a poll finds changes, a
// Reloader rebuilds the wasm bundle, points the server at the new
// manifest and pushes a toast to every open page:
//
//	w := dev.NewWatcher(dev.WatcherConfig{Paths: dev.WatchPaths(cfg)})
//	r := dev.NewReloader(ctx, builder, srv.ReloadManifest, srv.Hub(), logger)
//	w.OnChange(r.Changed)
//	go w.Start(ctx)
//
// The watcher polls modification times; it does not use OS file events.
package dev
