package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/blocklang/blocklang/internal/errors"
	"github.com/blocklang/blocklang/internal/node"
	"github.com/blocklang/blocklang/internal/parser"
	"github.com/spf13/cobra"
)

var parseEval string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse blocklang source and display the raw (pre-preprocess) graph",
	Long: `Parse blocklang source and print the graph the parser built, before
preprocessing resolves self/parent/ancestor references and desugars
operators.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "parse inline code instead of reading from file")
}

func runParse(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(parseEval, args)
	if err != nil {
		return err
	}

	module, err := parser.Parse(input)
	if err != nil {
		if parseErr, ok := err.(*parser.Error); ok {
			ce := errors.NewCompilerError(parseErr.Pos, "syntax error", parseErr.Message, input, filename)
			fmt.Fprint(os.Stderr, ce.Format(true))
			fmt.Fprintln(os.Stderr)
		}
		return fmt.Errorf("parsing failed")
	}

	dumpNode(module, 0)
	return nil
}

func dumpNode(n node.Node, indent int) {
	pad := strings.Repeat("  ", indent)
	switch v := n.(type) {
	case *node.Block:
		fmt.Printf("%sBlock\n", pad)
		for _, k := range v.Keys {
			fmt.Printf("%s  %s =\n", pad, k)
			dumpNode(v.Defs[k], indent+2)
		}
	case *node.Override:
		fmt.Printf("%sOverride\n", pad)
		fmt.Printf("%s  base =\n", pad)
		dumpNode(v.Base, indent+2)
		for _, k := range v.Attrs.Keys {
			fmt.Printf("%s  %s =\n", pad, k)
			dumpNode(v.Attrs.Defs[k], indent+2)
		}
	case *node.Call:
		fmt.Printf("%sCall\n", pad)
		fmt.Printf("%s  base =\n", pad)
		dumpNode(v.Base, indent+2)
		for _, k := range v.Attrs.Keys {
			fmt.Printf("%s  %s =\n", pad, k)
			dumpNode(v.Attrs.Defs[k], indent+2)
		}
	case *node.Access:
		fmt.Printf("%sAccess .%s\n", pad, v.Attr)
		dumpNode(v.Base, indent+1)
	case *node.BinaryOp:
		fmt.Printf("%sBinaryOp %s\n", pad, v.Op)
		dumpNode(v.X, indent+1)
		dumpNode(v.Y, indent+1)
	case *node.Conditional:
		fmt.Printf("%sConditional\n", pad)
		dumpNode(v.Cond, indent+1)
		dumpNode(v.Then, indent+1)
		dumpNode(v.Else, indent+1)
	case *node.Eager:
		fmt.Printf("%sEager\n", pad)
		dumpNode(v.Inner, indent+1)
	case *node.CloneAttr:
		fmt.Printf("%sCloneAttr <- %s\n", pad, v.Attr)
	case *node.IntLit:
		fmt.Printf("%sIntLit %d\n", pad, v.Value)
	case *node.StringLit:
		fmt.Printf("%sStringLit %q\n", pad, v.Value)
	case *node.Identifier:
		fmt.Printf("%sIdentifier %s\n", pad, v.Name)
	case *node.SelfRef:
		fmt.Printf("%sSelfRef\n", pad)
	case *node.Parent:
		fmt.Printf("%sParent depth=%d\n", pad, v.Depth)
	case *node.AncestorLookup:
		fmt.Printf("%sAncestorLookup %s\n", pad, v.Name)
	default:
		fmt.Printf("%s%T\n", pad, n)
	}
}
