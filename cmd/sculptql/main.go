// Package main is the entry point for the sculptql CLI binary.
package main

import (
	"os"

	cli "github.com/alvinwquach/sculptql-sub000/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
