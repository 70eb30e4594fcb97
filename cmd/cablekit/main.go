package main

import (
	"fmt"
	"os"

	// Import model packages so their init() registrations run
	_ "github.com/cdpr-lab/cablekit/pkg/models/planarxy"
	_ "github.com/cdpr-lab/cablekit/pkg/models/template"
)

// Set via ldflags at release time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
