package main

import (
	"fmt"
	"os"

	"github.com/ekaya-inc/ekaya-groundwater/cmd/commands"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if err := commands.NewRootCommand(Version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
