// Package main provides the entry point for the compatdex CLI tool.
package main

import (
	"github.com/tweaklab/compatdex/cmd/compatdex/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
