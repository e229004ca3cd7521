// Package main is the entry point for the roi CLI.
package main

import (
	"os"

	"github.com/warp/attrition-engine/cmd/roi/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
