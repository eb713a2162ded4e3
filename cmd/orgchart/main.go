package main

import (
	"fmt"
	"os"

	"github.com/gbarzani/orgchart/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "orgchart: %v\n", err)
		os.Exit(1)
	}
}
