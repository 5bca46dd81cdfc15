package main

import (
	"fmt"
	"os"

	"github.com/skout-dev/skout/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "skout: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
