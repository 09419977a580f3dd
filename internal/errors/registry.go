package errors

import "sort"

// Template is a registered error code.
type Template struct {
	Category Category
	Message  string
	Detail   string
	Hint     string
}

// Error codes.
const (
	CodeConfigNotFound    = "PFX101"
	CodeConfigInvalid     = "PFX102"
	CodeConfigParse       = "PFX103"
	CodeConfigWrite       = "PFX104"
	CodeConfigExists      = "PFX105"
	CodeUsage             = "PFX201"
	CodeFileNotFound      = "PFX202"
	CodeTemplateUnknown   = "PFX203"
	CodeListen            = "PFX301"
	CodeRedisUnavailable  = "PFX302"
	CodeStaticDirMissing  = "PFX303"
	CodePrefBackend       = "PFX401"
	CodePublishNoBucket   = "PFX501"
	CodePublishUpload     = "PFX502"
	CodePublishCredential = "PFX503"
	CodeAuditParse        = "PFX601"
	CodeAuditIncomplete   = "PFX602"
	CodeBuild             = "PFX701"
	CodeBuildToolchain    = "PFX702"
)

var registry = map[string]Template{
	CodeConfigNotFound: {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No pagefx.json or pagefx.yaml was found in the working directory or its parents.",
		Hint:     "Run `pagefx init` to create one.",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The configuration file parsed but a value is out of range.",
	},
	CodeConfigParse: {
		Category: CategoryConfig,
		Message:  "Configuration file is malformed",
		Detail:   "The file is not valid JSON or YAML.",
	},
	CodeConfigWrite: {
		Category: CategoryConfig,
		Message:  "Could not write configuration file",
	},
	CodeConfigExists: {
		Category: CategoryConfig,
		Message:  "Configuration file already exists",
		Hint:     "Pass --force to overwrite it.",
	},
	CodeUsage: {
		Category: CategoryCLI,
		Message:  "Invalid command usage",
	},
	CodeFileNotFound: {
		Category: CategoryCLI,
		Message:  "File not found",
	},
	CodeTemplateUnknown: {
		Category: CategoryCLI,
		Message:  "Unknown project template",
		Hint:     "Run `pagefx init --help` to list templates.",
	},
	CodeListen: {
		Category: CategoryServer,
		Message:  "Could not start the HTTP listener",
		Detail:   "The address may be in use or require elevated privileges.",
		Hint:     "Pick another port with server.port or PAGEFX_PORT.",
	},
	CodeRedisUnavailable: {
		Category: CategoryServer,
		Message:  "Redis is unreachable",
		Detail:   "The preference backend is set to redis but the server did not answer PING.",
		Hint:     "Check pref.redisAddr, or set pref.backend to memory for local work.",
	},
	CodeStaticDirMissing: {
		Category: CategoryServer,
		Message:  "Static directory not found",
		Hint:     "Build the wasm bundle into server.staticDir or fix the path.",
	},
	CodePrefBackend: {
		Category: CategoryPref,
		Message:  "Unknown preference backend",
		Hint:     "Use memory or redis.",
	},
	CodePublishNoBucket: {
		Category: CategoryPublish,
		Message:  "No bucket configured",
		Hint:     "Set publish.bucket or pass --bucket.",
	},
	CodePublishUpload: {
		Category: CategoryPublish,
		Message:  "Upload failed",
	},
	CodePublishCredential: {
		Category: CategoryPublish,
		Message:  "Missing S3 credentials",
		Detail:   "Static credentials are read from PAGEFX_S3_ACCESS_KEY and PAGEFX_S3_SECRET_KEY.",
	},
	CodeAuditParse: {
		Category: CategoryAudit,
		Message:  "Could not parse page",
	},
	CodeAuditIncomplete: {
		Category: CategoryAudit,
		Message:  "Page is missing behavior hooks",
		Detail:   "Some behaviors will not run because their elements are absent.",
	},
	CodeBuild: {
		Category: CategoryBuild,
		Message:  "WebAssembly build failed",
	},
	CodeBuildToolchain: {
		Category: CategoryBuild,
		Message:  "Go toolchain not found",
		Detail:   "Building the browser bundle runs `go build` with GOOS=js GOARCH=wasm.",
		Hint:     "Install Go from https://go.dev/dl or put it on PATH.",
	},
}

// Codes returns all registered codes in order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup returns the template for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
