// Command blocklang is the CLI front-end for the block-language evaluator:
// lex, parse, and run subcommands over a source file or an inline
// expression (spec.md §6).
package main

import (
	"os"

	"github.com/blocklang/blocklang/cmd/blocklang/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
