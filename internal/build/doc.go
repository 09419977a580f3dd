// Package build compiles the browser bundle into the static dir.
//
// A build runs `go build` for GOOS=js GOARCH=wasm, copies the toolchain's
// wasm_exec.js next to the result, and renames both with a content hash
// so they can be cached forever:
//
//	static/
//	├── main.3f9a1c2e.wasm
//	├── wasm_exec.b07d44e1.js
//	└── manifest.json
//
// The manifest maps the plain names to the hashed ones and is what the
// server and the publisher read to link the page's scripts:
//
//	{
//	  "main.wasm": "main.3f9a1c2e.wasm",
//	  "wasm_exec.js": "wasm_exec.b07d44e1.js"
//	}
package build
