package publish

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/pagefx/internal/config"
	"github.com/vango-dev/pagefx/internal/errors"
	"github.com/vango-dev/pagefx/pkg/assets"
	"github.com/vango-dev/pagefx/pkg/behavior"
	"github.com/vango-dev/pagefx/pkg/dom/htmldom"
)

type fakeUploader struct {
	mu      sync.Mutex
	objects map[string]*s3.PutObjectInput
	bodies  map[string][]byte
	failOn  string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{
		objects: make(map[string]*s3.PutObjectInput),
		bodies:  make(map[string][]byte),
	}
}

func (f *fakeUploader) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if *in.Key == f.failOn {
		return nil, stderrors.New("access denied")
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*in.Key] = in
	f.bodies[*in.Key] = body
	return &s3.PutObjectOutput{}, nil
}

func testStatic() fstest.MapFS {
	return fstest.MapFS{
		"main.0123abcd.wasm": {Data: []byte("\x00asm")},
		"wasm_exec.js":       {Data: []byte("// go runtime")},
		assets.ManifestName:  {Data: []byte(`{"main.wasm":"main.0123abcd.wasm"}`)},
		".DS_Store":          {Data: []byte("junk")},
	}
}

func keys(objects []Object) []string {
	out := make([]string, len(objects))
	for i, o := range objects {
		out[i] = o.Key
	}
	return out
}

func TestCollectFS(t *testing.T) {
	cfg := config.New()
	cfg.Site.Title = "Acme"
	objects, err := CollectFS(cfg, testStatic())
	if err != nil {
		t.Fatalf("CollectFS: %v", err)
	}

	want := []string{
		"assets/site.css",
		"index.html",
		"static/main.0123abcd.wasm",
		"static/manifest.json",
		"static/wasm_exec.js",
	}
	if got := keys(objects); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("keys = %v, want %v", got, want)
	}

	byKey := make(map[string]Object)
	for _, o := range objects {
		byKey[o.Key] = o
	}
	checks := []struct {
		key, contentType, cache string
	}{
		{"index.html", "text/html; charset=utf-8", assets.CacheNone},
		{"assets/site.css", "text/css; charset=utf-8", assets.CacheShort},
		{"static/main.0123abcd.wasm", "application/wasm", assets.CacheImmutable},
		{"static/manifest.json", "application/json", assets.CacheNone},
	}
	for _, c := range checks {
		o := byKey[c.key]
		if o.ContentType != c.contentType || o.CacheControl != c.cache {
			t.Errorf("%s: type %q cache %q", c.key, o.ContentType, o.CacheControl)
		}
	}
}

func TestCollectedPageIsStandalone(t *testing.T) {
	objects, err := CollectFS(config.New(), testStatic())
	if err != nil {
		t.Fatal(err)
	}
	var page []byte
	for _, o := range objects {
		if o.Key == "index.html" {
			page = o.Body
		}
	}
	doc, err := htmldom.ParseString(string(page))
	if err != nil {
		t.Fatal(err)
	}
	opts, err := behavior.OptionsFromDocument(doc)
	if err != nil {
		t.Fatalf("OptionsFromDocument: %v", err)
	}
	if opts.PrefURL != "" || opts.ToastURL != "" {
		t.Errorf("published page points at server endpoints: %q %q", opts.PrefURL, opts.ToastURL)
	}
	if !bytes.Contains(page, []byte("/static/main.0123abcd.wasm")) {
		t.Error("page does not load the fingerprinted wasm")
	}
}

func TestCollectPrefix(t *testing.T) {
	cfg := config.New()
	cfg.Publish.Prefix = "/site/"
	objects, err := CollectFS(cfg, testStatic())
	if err != nil {
		t.Fatal(err)
	}
	for _, o := range objects {
		if !strings.HasPrefix(o.Key, "site/") {
			t.Errorf("key %q lacks prefix", o.Key)
		}
	}
}

func TestCollectMissingStaticDir(t *testing.T) {
	cfg := config.New()
	cfg.Server.StaticDir = t.TempDir() + "/nope"
	if _, err := Collect(cfg); errors.Code(err) != errors.CodeStaticDirMissing {
		t.Errorf("code = %q", errors.Code(err))
	}
}

func TestPublish(t *testing.T) {
	objects, err := CollectFS(config.New(), testStatic())
	if err != nil {
		t.Fatal(err)
	}
	up := newFakeUploader()
	p, err := New(up, "acme-site", WithConcurrency(2))
	if err != nil {
		t.Fatal(err)
	}
	res, err := p.Publish(context.Background(), objects)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if res.Objects != len(objects) || len(up.objects) != len(objects) {
		t.Errorf("uploaded %d of %d", len(up.objects), len(objects))
	}
	in := up.objects["static/main.0123abcd.wasm"]
	if *in.Bucket != "acme-site" || *in.ContentType != "application/wasm" || *in.CacheControl != assets.CacheImmutable {
		t.Errorf("wasm input = %s %s %s", *in.Bucket, *in.ContentType, *in.CacheControl)
	}
	if string(up.bodies["static/wasm_exec.js"]) != "// go runtime" {
		t.Errorf("body = %q", up.bodies["static/wasm_exec.js"])
	}
}

func TestPublishFailure(t *testing.T) {
	objects, err := CollectFS(config.New(), testStatic())
	if err != nil {
		t.Fatal(err)
	}
	up := newFakeUploader()
	up.failOn = "index.html"
	p, _ := New(up, "acme-site")
	if _, err := p.Publish(context.Background(), objects); errors.Code(err) != errors.CodePublishUpload {
		t.Errorf("code = %q (%v)", errors.Code(err), err)
	}
}

func TestDryRun(t *testing.T) {
	objects, err := CollectFS(config.New(), testStatic())
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	p, err := New(nil, "acme-site", WithDryRun(&out))
	if err != nil {
		t.Fatal(err)
	}
	res, err := p.Publish(context.Background(), objects)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != res.Objects {
		t.Fatalf("listed %d lines for %d objects", len(lines), res.Objects)
	}
	if !strings.Contains(out.String(), "s3://acme-site/static/main.0123abcd.wasm") {
		t.Errorf("listing = %s", out.String())
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(nil, ""); errors.Code(err) != errors.CodePublishNoBucket {
		t.Errorf("code = %q", errors.Code(err))
	}
}

func TestNewClientCredentials(t *testing.T) {
	cfg := config.New().Publish
	if _, err := NewClient(cfg, func(string) string { return "" }); errors.Code(err) != errors.CodePublishCredential {
		t.Errorf("code = %q", errors.Code(err))
	}

	env := map[string]string{EnvAccessKey: "AKID", EnvSecretKey: "secret"}
	cfg.Endpoint = "s3.example.com"
	cfg.PathStyle = true
	client, err := NewClient(cfg, func(k string) string { return env[k] })
	if err != nil {
		t.Fatal(err)
	}
	o := client.Options()
	if o.BaseEndpoint == nil || *o.BaseEndpoint != "https://s3.example.com" || !o.UsePathStyle {
		t.Errorf("options = %v %v", o.BaseEndpoint, o.UsePathStyle)
	}
}
