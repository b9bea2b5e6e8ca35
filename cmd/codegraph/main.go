// Command codegraph is the CLI entry point for the incremental code
// knowledge graph extractor.
package main

import (
	"github.com/codeatlas/parsecore/internal/cmd"
)

func main() {
	cmd.Execute()
}
