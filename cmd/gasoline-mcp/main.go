// Package main is the entry point for the gasoline-mcp CLI.
package main

import (
	"os"

	"github.com/gasoline-dev/gasoline-mcp/cmd/gasoline-mcp/commands"
)

func main() {
	os.Exit(commands.Execute())
}
