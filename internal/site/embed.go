package site

import (
	"embed"
	"io/fs"
)

//go:embed static/*.css
var staticFS embed.FS

// Static returns the embedded stylesheet directory, rooted so that
// "site.css" is at the top.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// StylesheetPath is where the server mounts the embedded stylesheet.
const StylesheetPath = "/assets/site.css"
