package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagefx/internal/audit"
)

func (c *cli) auditCmd() *cobra.Command {
	var (
		simulate bool
		scrollY  float64
		asJSON   bool
		strict   bool
	)

	cmd := &cobra.Command{
		Use:   "audit <file.html>",
		Short: "Report which page behaviors an HTML file supports",
		Long: `Load an HTML file, resolve the behavior hooks and report which behaviors
would start and which optional hooks are missing.

With --simulate the behaviors run against a virtual clock: the page loads,
scrolls past the navbar threshold, and every fade-in and counter element
becomes fully visible.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []audit.Option{audit.WithLogger(c.logger())}
			if simulate {
				opts = append(opts, audit.WithSimulation(), audit.WithScroll(scrollY))
			}
			report, err := audit.File(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else if err := report.WriteText(out); err != nil {
				return err
			}
			if strict {
				return report.Check()
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&simulate, "simulate", false, "run the behaviors against a virtual clock")
	cmd.Flags().Float64Var(&scrollY, "scroll", 0, "simulated scroll offset (default: just past the navbar threshold)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any optional hook is missing")
	return cmd
}
