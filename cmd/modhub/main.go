// Package main provides the entry point for the modhub CLI tool.
package main

import (
	"github.com/modhub/modhub/cmd/modhub/cmd"
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
