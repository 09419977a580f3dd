package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagefx/internal/build"
)

func (c *cli) buildCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile the WebAssembly bundle",
		Long: `Compile build.package for GOOS=js GOARCH=wasm into the static dir, copy
wasm_exec.js from the Go toolchain and write the asset manifest.

Bundle names carry a content hash unless --plain is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := c.logger()
			cfg, err := c.loadConfig(logger)
			if err != nil {
				return err
			}

			b := build.New(cfg, build.Options{
				Fingerprint: !plain,
				OnProgress:  func(step string) { logger.Debug(step) },
			})
			res, err := b.Build(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Built %s (%d bytes) into %s (%s)\n",
				res.Manifest[build.WasmName], res.WasmSize, res.StaticDir, res.Duration.Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "keep plain file names")
	return cmd
}
