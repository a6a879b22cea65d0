// Command spaq is the CLI for the SIMPLE program analyzer: it parses
// SIMPLE source into a Program Knowledge Base and answers PQL queries
// against it in-process. Its serve, stop and status commands manage spaqd.
package main

import (
	"fmt"
	"os"

	"github.com/arzin/spaq/cmd/spaq/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
