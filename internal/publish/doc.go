// Package publish uploads a static build of the landing page to S3.
//
// The build is the rendered index.html, the embedded stylesheet and every
// file in the static dir (main.wasm, wasm_exec.js, manifest.json). Each
// object carries a content type by extension and a cache policy:
// fingerprinted names are immutable, HTML and the manifest revalidate, and
// everything else is cached briefly.
//
// The published page has no server behind it, so the preference mirror
// and toast subscription are switched off in its embedded options.
package publish
