// Command gopurge is the CLI entry point.
package main

import (
	"os"

	"github.com/3leaps/gopurge/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
