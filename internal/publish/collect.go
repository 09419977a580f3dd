package publish

import (
	"bytes"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/vango-dev/pagefx/internal/config"
	"github.com/vango-dev/pagefx/internal/errors"
	"github.com/vango-dev/pagefx/internal/site"
	"github.com/vango-dev/pagefx/pkg/assets"
)

// Object is one file to upload.
type Object struct {
	Key          string
	ContentType  string
	CacheControl string
	Body         []byte
}

func newObject(prefix, name string, body []byte) Object {
	return Object{
		Key:          key(prefix, name),
		ContentType:  assets.ContentType(name),
		CacheControl: assets.CacheControl(name),
		Body:         body,
	}
}

func key(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// Collect builds the object set for cfg from its static dir.
func Collect(cfg *config.Config) ([]Object, error) {
	dir := cfg.StaticPath()
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errors.New(errors.CodeStaticDirMissing).
			WithDetail("Looked for " + dir + ".")
	}
	return CollectFS(cfg, os.DirFS(dir))
}

// CollectFS builds the object set with static files taken from static.
// Objects are sorted by key.
func CollectFS(cfg *config.Config, static fs.FS) ([]Object, error) {
	manifest, err := assets.LoadManifest(static)
	if err != nil {
		return nil, errors.New(errors.CodeConfigParse).
			WithDetail("Could not read " + assets.ManifestName + " in the static dir.").
			Wrap(err)
	}

	opts := cfg.Behavior
	opts.PrefURL = ""
	opts.ToastURL = ""
	var page bytes.Buffer
	if err := site.Render(&page, site.Page{
		Title:   cfg.Site.Title,
		Brand:   cfg.Site.Brand,
		Options: opts,
		Assets:  manifest,
	}); err != nil {
		return nil, err
	}

	prefix := cfg.Publish.Prefix
	objects := []Object{newObject(prefix, "index.html", page.Bytes())}

	css, err := fs.ReadFile(site.Static(), "site.css")
	if err != nil {
		return nil, err
	}
	objects = append(objects, newObject(prefix, strings.TrimPrefix(site.StylesheetPath, "/"), css))

	err = fs.WalkDir(static, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name != "." && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		body, err := fs.ReadFile(static, name)
		if err != nil {
			return err
		}
		objects = append(objects, newObject(prefix, path.Join("static", name), body))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}
