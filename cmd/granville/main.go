// Package main is the single-binary entrypoint for the Granville kernel.
package main

import "github.com/granville-run/granville/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
