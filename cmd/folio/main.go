// Command folio renders a portfolio site in the terminal.
package main

import (
	"os"

	"github.com/Iron-Ham/folio/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
