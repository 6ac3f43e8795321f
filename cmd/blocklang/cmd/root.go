package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "blocklang",
	Short: "blocklang interpreter",
	Long: `blocklang is an interpreter for a small pure-expression language where
every value is a named-attribute block.

A block's attributes can be read, replaced, or extended by cloning it with
an override, and the language has no statements: a program is a single
expression, reduced to a value by evaluating its "result" (or "_inner", for
a bare primitive).`,
	Version: Version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
