package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagefx/internal/build"
	"github.com/vango-dev/pagefx/internal/dev"
	"github.com/vango-dev/pagefx/internal/server"
)

func (c *cli) serveCmd() *cobra.Command {
	var (
		port  int
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the landing page",
		Long: `Serve the landing page, the preference API, toast announcements and
the static wasm bundle. Stops gracefully on SIGINT or SIGTERM.

With --watch the bundle is rebuilt whenever a watched Go file changes and
open pages get a toast asking them to reload.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := c.logger()
			cfg, err := c.loadConfig(logger)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, closer, err := server.NewStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			// The static dir must exist before the server opens it.
			var builder *build.Builder
			if watch {
				builder = build.New(cfg, build.Options{
					Fingerprint: true,
					OnProgress:  func(step string) { logger.Debug(step) },
				})
				if _, err := builder.Build(ctx); err != nil {
					return err
				}
			}

			srv, err := server.New(cfg, server.WithStore(store), server.WithLogger(logger))
			if err != nil {
				return err
			}
			if watch {
				reloader := dev.NewReloader(ctx, builder, srv.ReloadManifest, srv.Hub(), logger)
				paths := dev.WatchPaths(cfg)
				w := dev.NewWatcher(dev.WatcherConfig{
					Paths:      paths,
					Extensions: []string{".go"},
				})
				w.OnChange(reloader.Changed)
				go func() { _ = w.Start(ctx) }()
				defer w.Stop()
				logger.Info("watching for changes", "paths", paths)
			}

			logger.Info("serving", "address", "http://"+cfg.Address(), "backend", cfg.Pref.Backend)
			return srv.Run(ctx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "override server.port")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild the wasm bundle on change")
	return cmd
}
