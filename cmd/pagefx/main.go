// Command pagefx serves, audits and publishes the pagefx landing page.
package main

import (
	"os"

	"github.com/vango-dev/pagefx/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Print(err)
		os.Exit(1)
	}
}
