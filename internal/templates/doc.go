// Package templates scaffolds the files `pagefx init` writes next to the
// config.
//
//   - minimal: a .gitignore for build output
//   - wasm: minimal plus a custom browser entrypoint at build.package
//
// File bodies are text/template sources executed with a Config:
//
//	{{.ProjectName}}  - directory name of the project
//	{{.StaticDir}}    - server.staticDir
//	{{.WasmPackage}}  - build.package
package templates
