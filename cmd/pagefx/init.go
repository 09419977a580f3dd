package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagefx/internal/config"
	"github.com/vango-dev/pagefx/internal/errors"
	"github.com/vango-dev/pagefx/internal/templates"
)

func (c *cli) initCmd() *cobra.Command {
	var (
		force    bool
		asYAML   bool
		scaffold string
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default config file",
		Long: `Write a default config file into dir. With --template, also scaffold
project files: ` + strings.Join(templates.List(), ", ") + `.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			var tmpl *templates.Template
			if scaffold != "" {
				var err error
				if tmpl, err = templates.Get(scaffold); err != nil {
					return err
				}
			}
			if config.Exists(dir) && !force {
				return errors.New(errors.CodeConfigExists).
					WithDetail(dir + " already has a config file.")
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.New(errors.CodeConfigWrite).Wrap(err)
			}

			name := config.JSONFileName
			if asYAML {
				name = config.YAMLFileName
			}
			path := filepath.Join(dir, name)
			if err := config.New().SaveTo(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\033[32m✓\033[0m Wrote %s\n", path)

			if tmpl == nil {
				return nil
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return errors.New(errors.CodeConfigWrite).Wrap(err)
			}
			cfg := config.New()
			written, err := tmpl.Create(dir, templates.Config{
				ProjectName: filepath.Base(abs),
				StaticDir:   cfg.Server.StaticDir,
				WasmPackage: cfg.Build.Package,
			}, force)
			for _, p := range written {
				fmt.Fprintf(cmd.OutOrStdout(), "\033[32m✓\033[0m Wrote %s\n", p)
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "write pagefx.yaml instead of pagefx.json")
	cmd.Flags().StringVarP(&scaffold, "template", "t", "", "also scaffold project files from a template")
	return cmd
}
