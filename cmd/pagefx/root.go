package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vango-dev/pagefx/internal/config"
	"github.com/vango-dev/pagefx/internal/errors"
)

// cli holds the persistent flags.
type cli struct {
	configPath string
	verbose    bool
	stderr     io.Writer
	getenv     func(string) string
}

func newRootCmd() *cobra.Command {
	return (&cli{stderr: os.Stderr, getenv: os.Getenv}).rootCmd()
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pagefx",
		Short: "Landing page behaviors, server and tooling",
		Long: `pagefx renders a landing page whose behaviors (dark mode, mobile menu,
smooth scrolling, fade-ins, toasts, form validation, navbar shadow,
counters, parallax and load fade) run in the browser as Go compiled to
WebAssembly.

The CLI builds the bundle, serves the page, audits HTML for behavior
hooks and publishes a static build to S3.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: pagefx.json or pagefx.yaml in the project root)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.serveCmd(),
		c.buildCmd(),
		c.auditCmd(),
		c.publishCmd(),
		c.initCmd(),
		versionCmd(),
	)
	return root
}

// logger returns a slog logger writing through charmbracelet/log.
func (c *cli) logger() *slog.Logger {
	level := log.InfoLevel
	if c.verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(c.stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "pagefx",
	})
	return slog.New(handler)
}

// loadConfig reads --config, or the project config, or falls back to the
// defaults when no project config exists. Environment overrides apply in
// every case.
func (c *cli) loadConfig(logger *slog.Logger) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFile(c.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
		if errors.Code(err) == errors.CodeConfigNotFound {
			logger.Debug("no config file, using defaults")
			cfg, err = config.New(), nil
		}
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(c.getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// elapsed formats a duration for completion messages.
func elapsed(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
