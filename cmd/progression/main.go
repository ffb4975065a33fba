// Package main is the single-binary entrypoint for the progression engine.
package main

import "github.com/swanstudios/progression/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
