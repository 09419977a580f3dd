package publish

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/pagefx/internal/config"
	"github.com/vango-dev/pagefx/internal/errors"
)

// Environment variables holding S3 credentials.
const (
	EnvAccessKey = "PAGEFX_S3_ACCESS_KEY"
	EnvSecretKey = "PAGEFX_S3_SECRET_KEY"
)

const defaultConcurrency = 4

// Uploader is the part of *s3.Client the publisher needs.
type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var _ Uploader = (*s3.Client)(nil)

// NewClient creates an S3 client from cfg with static credentials read
// through getenv.
func NewClient(cfg config.PublishConfig, getenv func(string) string) (*s3.Client, error) {
	access, secret := getenv(EnvAccessKey), getenv(EnvSecretKey)
	if access == "" || secret == "" {
		return nil, errors.New(errors.CodePublishCredential)
	}
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(access, secret, ""),
		UsePathStyle: cfg.PathStyle,
	}
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		if !strings.Contains(endpoint, "://") {
			endpoint = "https://" + endpoint
		}
		opts.BaseEndpoint = aws.String(endpoint)
	}
	return s3.New(opts), nil
}

// Publisher uploads objects to one bucket.
type Publisher struct {
	client      Uploader
	bucket      string
	logger      *slog.Logger
	out         io.Writer
	dryRun      bool
	concurrency int
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithLogger sets the publisher logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithDryRun lists objects to w instead of uploading them.
func WithDryRun(w io.Writer) Option {
	return func(p *Publisher) {
		p.dryRun = true
		p.out = w
	}
}

// WithConcurrency bounds parallel uploads. Default: 4.
func WithConcurrency(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// New creates a publisher. client may be nil for a dry run.
func New(client Uploader, bucket string, opts ...Option) (*Publisher, error) {
	if bucket == "" {
		return nil, errors.New(errors.CodePublishNoBucket)
	}
	p := &Publisher{
		client:      client,
		bucket:      bucket,
		logger:      slog.Default(),
		out:         io.Discard,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Result summarizes a publish run.
type Result struct {
	Objects int
	Bytes   int64
}

// Publish uploads every object. The first failure cancels the remaining
// uploads and is returned as a PFX502 error.
func (p *Publisher) Publish(ctx context.Context, objects []Object) (Result, error) {
	var res Result
	for _, obj := range objects {
		res.Objects++
		res.Bytes += int64(len(obj.Body))
	}

	if p.dryRun {
		for _, obj := range objects {
			fmt.Fprintf(p.out, "%-40s %8d  %-32s %s\n", "s3://"+p.bucket+"/"+obj.Key, len(obj.Body), obj.ContentType, obj.CacheControl)
		}
		return res, nil
	}

	var uploaded atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i := range objects {
		obj := objects[i]
		g.Go(func() error {
			_, err := p.client.PutObject(gctx, &s3.PutObjectInput{
				Bucket:        aws.String(p.bucket),
				Key:           aws.String(obj.Key),
				Body:          bytes.NewReader(obj.Body),
				ContentLength: aws.Int64(int64(len(obj.Body))),
				ContentType:   aws.String(obj.ContentType),
				CacheControl:  aws.String(obj.CacheControl),
			})
			if err != nil {
				return errors.New(errors.CodePublishUpload).
					WithDetail("Uploading " + obj.Key + " failed.").
					Wrap(err)
			}
			uploaded.Add(1)
			p.logger.Debug("uploaded", "key", obj.Key, "bytes", len(obj.Body))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{Objects: int(uploaded.Load())}, err
	}
	p.logger.Info("published", "bucket", p.bucket, "objects", res.Objects, "bytes", res.Bytes)
	return res, nil
}
