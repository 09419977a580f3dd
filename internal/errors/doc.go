// Package errors provides coded, actionable errors for the pagefx
// command-line tools.
//
// Each error carries a code (e.g. "PFX101") registered with a category, a
// short message, a longer explanation and, where useful, a hint. Errors
// that stem from a config file can point at the offending line, and the
// terminal formatter prints the surrounding lines.
//
// # Categories
//
//   - config: pagefx.json / pagefx.yaml loading and validation
//   - cli: command usage
//   - server: listener and backend startup
//   - pref: preference store access
//   - publish: S3 uploads
//   - audit: page markup checks
//
// # Usage
//
//	err := errors.New(errors.CodeConfigInvalid).
//	    WithLocation("pagefx.yaml", 12, 3).
//	    WithHint("server.port must be between 1 and 65535")
//
//	errors.Print(err)
//	// ERROR PFX102: Invalid configuration
//	//
//	//   pagefx.yaml:12:3
//	//   ...
package errors
