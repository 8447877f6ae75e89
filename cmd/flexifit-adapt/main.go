// Command flexifit-adapt runs the adaptive engine offline against a JSON
// snapshot of a profile, a plan and feedback, without a database.
package main

import (
	"os"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
