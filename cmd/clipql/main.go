// Package main is the entry point for the clipql CLI.
package main

import (
	"os"

	"github.com/subculture-collective/clipper-sub005/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
