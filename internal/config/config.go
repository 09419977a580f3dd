package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/pagefx/internal/errors"
	"github.com/vango-dev/pagefx/pkg/behavior"
)

const (
	// JSONFileName and YAMLFileName are the recognized config files, in
	// lookup order.
	JSONFileName = "pagefx.json"
	YAMLFileName = "pagefx.yaml"

	DefaultHost       = "localhost"
	DefaultPort       = 8080
	DefaultStaticDir  = "static"
	DefaultBackend    = BackendMemory
	DefaultPrefix     = "pagefx:pref:"
	DefaultCookieName = "pagefx_visitor"
	DefaultPrefTTL    = "8760h"
	DefaultShutdown   = "10s"
	DefaultRegion     = "us-east-1"

	DefaultWasmPackage = "./cmd/pagefx-wasm"
)

// Preference backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config is the complete pagefx configuration.
type Config struct {
	Site     SiteConfig       `json:"site" yaml:"site"`
	Server   ServerConfig     `json:"server" yaml:"server"`
	Pref     PrefConfig       `json:"pref" yaml:"pref"`
	Behavior behavior.Options `json:"behavior" yaml:"behavior"`
	Publish  PublishConfig    `json:"publish" yaml:"publish"`
	Build    BuildConfig      `json:"build" yaml:"build"`

	path string
}

// SiteConfig holds the landing page copy.
type SiteConfig struct {
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	Brand string `json:"brand,omitempty" yaml:"brand,omitempty"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host      string `json:"host,omitempty" yaml:"host,omitempty"`
	Port      int    `json:"port,omitempty" yaml:"port,omitempty"`
	StaticDir string `json:"staticDir,omitempty" yaml:"staticDir,omitempty"`

	// AllowedOrigins lists CORS origins for /api. Empty allows none.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty"`

	// AnnounceToken guards POST /api/announce. Empty disables the route.
	AnnounceToken string `json:"announceToken,omitempty" yaml:"announceToken,omitempty"`

	// WriteRate and WriteBurst limit preference writes per visitor.
	WriteRate  float64 `json:"writeRate,omitempty" yaml:"writeRate,omitempty"`
	WriteBurst int     `json:"writeBurst,omitempty" yaml:"writeBurst,omitempty"`

	ShutdownTimeout string `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`
}

// PrefConfig selects the server-side preference store.
type PrefConfig struct {
	Backend    string `json:"backend,omitempty" yaml:"backend,omitempty"`
	RedisAddr  string `json:"redisAddr,omitempty" yaml:"redisAddr,omitempty"`
	RedisDB    int    `json:"redisDb,omitempty" yaml:"redisDb,omitempty"`
	Prefix     string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	CookieName string `json:"cookieName,omitempty" yaml:"cookieName,omitempty"`
	TTL        string `json:"ttl,omitempty" yaml:"ttl,omitempty"`
}

// PublishConfig describes the S3 target for `pagefx publish`.
type PublishConfig struct {
	Bucket    string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix    string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region    string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	PathStyle bool   `json:"pathStyle,omitempty" yaml:"pathStyle,omitempty"`
}

// BuildConfig describes how `pagefx build` compiles the browser bundle.
type BuildConfig struct {
	// Package is the main package compiled to main.wasm.
	Package string   `json:"package,omitempty" yaml:"package,omitempty"`
	Tags    []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	LDFlags string   `json:"ldflags,omitempty" yaml:"ldflags,omitempty"`

	// Watch lists extra paths `serve --watch` polls, relative to the
	// config file.
	Watch []string `json:"watch,omitempty" yaml:"watch,omitempty"`
}

// New returns a Config with every default filled in.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the config file in dir, preferring pagefx.json.
func Load(dir string) (*Config, error) {
	for _, name := range []string{JSONFileName, YAMLFileName, "pagefx.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New(errors.CodeConfigNotFound).
		WithDetail("No " + JSONFileName + " or " + YAMLFileName + " found in " + dir + ".")
}

// LoadFile reads a JSON or YAML config file, chosen by extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail("No config file at " + path + ".")
		}
		return nil, errors.New(errors.CodeConfigParse).Wrap(err)
	}

	cfg := &Config{}
	if err := decode(path, data, cfg); err != nil {
		return nil, err
	}
	cfg.path = path
	cfg.applyDefaults()
	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

func decode(path string, data []byte, cfg *Config) error {
	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			e := errors.New(errors.CodeConfigParse).Wrap(err)
			if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
				line, _ := strconv.Atoi(m[1])
				e.WithLocation(path, line, 0)
			}
			return e
		}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		e := errors.New(errors.CodeConfigParse).Wrap(err)
		var syn *json.SyntaxError
		if stderrors.As(err, &syn) {
			line, col := position(data, syn.Offset)
			e.WithLocation(path, line, col)
		}
		return e
	}
	return nil
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line := bytes.Count(before, []byte("\n")) + 1
	col := int(offset) - bytes.LastIndexByte(before, '\n') - 1
	return line, col
}

// Save writes the config back to the file it was loaded from.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.path)
}

// SaveTo writes the config to path as JSON or YAML, by extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New(errors.CodeConfigWrite).Wrap(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New(errors.CodeConfigWrite).Wrap(err)
	}
	c.path = path
	return nil
}

// Path returns the file the config was loaded from or saved to.
func (c *Config) Path() string {
	return c.path
}

// Dir returns the directory holding the config file.
func (c *Config) Dir() string {
	if c.path == "" {
		return ""
	}
	return filepath.Dir(c.path)
}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "pagefx"
	}
	if c.Site.Brand == "" {
		c.Site.Brand = c.Site.Title
	}

	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = DefaultStaticDir
	}
	if c.Server.WriteRate == 0 {
		c.Server.WriteRate = 5
	}
	if c.Server.WriteBurst == 0 {
		c.Server.WriteBurst = 10
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdown
	}

	if c.Pref.Backend == "" {
		c.Pref.Backend = DefaultBackend
	}
	if c.Pref.Prefix == "" {
		c.Pref.Prefix = DefaultPrefix
	}
	if c.Pref.CookieName == "" {
		c.Pref.CookieName = DefaultCookieName
	}
	if c.Pref.TTL == "" {
		c.Pref.TTL = DefaultPrefTTL
	}

	c.Behavior = c.Behavior.Normalize()
	if c.Behavior.PrefURL == "" {
		c.Behavior.PrefURL = "/api/pref"
	}
	if c.Behavior.ToastURL == "" {
		c.Behavior.ToastURL = "/ws/toast"
	}

	if c.Publish.Region == "" {
		c.Publish.Region = DefaultRegion
	}

	if c.Build.Package == "" {
		c.Build.Package = DefaultWasmPackage
	}
}

// ApplyEnv overrides deployment values from the environment. getenv is
// usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("PAGEFX_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := getenv("PAGEFX_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New(errors.CodeConfigInvalid).
				WithDetail("PAGEFX_PORT must be a number, got " + strconv.Quote(v) + ".")
		}
		c.Server.Port = port
	}
	if v := getenv("PAGEFX_ANNOUNCE_TOKEN"); v != "" {
		c.Server.AnnounceToken = v
	}
	if v := getenv("PAGEFX_REDIS_ADDR"); v != "" {
		c.Pref.Backend = BackendRedis
		c.Pref.RedisAddr = v
	}
	if v := getenv("PAGEFX_BUCKET"); v != "" {
		c.Publish.Bucket = v
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.CodeConfigInvalid).WithDetail(fmt.Sprintf(format, args...))
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return invalid("server.port must be between 1 and 65535, got %d.", c.Server.Port)
	}
	if c.Server.WriteRate < 0 || c.Server.WriteBurst < 0 {
		return invalid("server.writeRate and server.writeBurst must not be negative.")
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return invalid("server.shutdownTimeout: %v.", err)
	}

	switch c.Pref.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Pref.RedisAddr == "" {
			return invalid("pref.redisAddr is required when pref.backend is redis.")
		}
	default:
		return errors.New(errors.CodePrefBackend).
			WithDetail(fmt.Sprintf("pref.backend is %q.", c.Pref.Backend))
	}
	if _, err := time.ParseDuration(c.Pref.TTL); err != nil {
		return invalid("pref.ttl: %v.", err)
	}

	for name, v := range map[string]float64{
		"behavior.revealThreshold":  c.Behavior.RevealThreshold,
		"behavior.counterThreshold": c.Behavior.CounterThreshold,
	} {
		if v > 1 {
			return invalid("%s must be between 0 and 1, got %v.", name, v)
		}
	}
	return nil
}

// Address returns host:port for the listener.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// ShutdownTimeout returns the graceful shutdown limit.
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// PrefTTL returns how long stored preferences live.
func (c *Config) PrefTTL() time.Duration {
	d, err := time.ParseDuration(c.Pref.TTL)
	if err != nil {
		return 0
	}
	return d
}

// StaticPath returns the static directory, resolved against the config
// file's directory when relative.
func (c *Config) StaticPath() string {
	if filepath.IsAbs(c.Server.StaticDir) || c.Dir() == "" {
		return c.Server.StaticDir
	}
	return filepath.Join(c.Dir(), c.Server.StaticDir)
}

// ProjectDir returns the directory builds run in: the config file's
// directory, or the working directory for an unsaved config.
func (c *Config) ProjectDir() string {
	if d := c.Dir(); d != "" {
		return d
	}
	return "."
}

// Exists reports whether dir holds a config file.
func Exists(dir string) bool {
	for _, name := range []string{JSONFileName, YAMLFileName, "pagefx.yml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up from startDir to the first directory holding a
// config file.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.CodeConfigNotFound).
				WithDetail("No config file in " + startDir + " or any parent directory.")
		}
		dir = parent
	}
}

// LoadFromWorkingDir finds and loads the project config, then applies
// environment overrides.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}
	cfg, err := Load(root)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}
