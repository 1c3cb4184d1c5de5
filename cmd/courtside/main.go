// Package main provides the courtside CLI.
package main

import "github.com/mesh-intelligence/courtside/internal/cli"

func main() {
	cli.Execute()
}
