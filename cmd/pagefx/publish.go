package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagefx/internal/publish"
)

func (c *cli) publishCmd() *cobra.Command {
	var (
		dryRun bool
		bucket string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload a static build to S3",
		Long: `Render the landing page and upload it with the stylesheet and the
static dir to S3. Fingerprinted files are cached for a year; HTML and the
asset manifest always revalidate.

Credentials come from ` + publish.EnvAccessKey + ` and ` + publish.EnvSecretKey + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := c.logger()
			cfg, err := c.loadConfig(logger)
			if err != nil {
				return err
			}
			if bucket != "" {
				cfg.Publish.Bucket = bucket
			}

			objects, err := publish.Collect(cfg)
			if err != nil {
				return err
			}

			var p *publish.Publisher
			if dryRun {
				p, err = publish.New(nil, cfg.Publish.Bucket, publish.WithDryRun(cmd.OutOrStdout()))
			} else {
				client, cerr := publish.NewClient(cfg.Publish, c.getenv)
				if cerr != nil {
					return cerr
				}
				p, err = publish.New(client, cfg.Publish.Bucket, publish.WithLogger(logger))
			}
			if err != nil {
				return err
			}

			start := time.Now()
			res, err := p.Publish(cmd.Context(), objects)
			if err != nil {
				return err
			}
			verb := "Published"
			if dryRun {
				verb = "Would publish"
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %d objects (%d bytes) to s3://%s (%s)\n",
				verb, res.Objects, res.Bytes, cfg.Publish.Bucket, elapsed(start))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list objects without uploading")
	cmd.Flags().StringVar(&bucket, "bucket", "", "override publish.bucket")
	return cmd
}
