package cmd

import (
	"fmt"
	"os"

	"github.com/blocklang/blocklang/internal/errors"
	"github.com/blocklang/blocklang/internal/eval"
	"github.com/blocklang/blocklang/internal/node"
	"github.com/blocklang/blocklang/internal/parser"
	"github.com/blocklang/blocklang/internal/preprocess"
	"github.com/spf13/cobra"
)

var (
	evalExpr string
	dumpAST  bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a blocklang file or expression",
	Long: `Lex, parse, preprocess, and evaluate a blocklang program, then print its
value: the decimal integer or string the top-level expression reduces to,
projected through "_inner" if present, or the bare block's attribute names
otherwise.

Examples:
  # Run a program file
  blocklang run factors.bl

  # Evaluate an inline expression
  blocklang run -e "x = 1, y = 2, result = x + y"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProgram,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the preprocessed graph before evaluating")
}

func runProgram(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	module, err := parser.Parse(input)
	if err != nil {
		if parseErr, ok := err.(*parser.Error); ok {
			ce := errors.NewCompilerError(parseErr.Pos, "syntax error", parseErr.Message, input, filename)
			fmt.Fprint(os.Stderr, ce.Format(true))
			fmt.Fprintln(os.Stderr)
			return fmt.Errorf("parsing failed")
		}
		return err
	}

	preprocessed, err := preprocess.Run(module)
	if err != nil {
		ce := errors.NewPositionlessError("preprocessing error", err.Error())
		fmt.Fprint(os.Stderr, ce.Format(true))
		fmt.Fprintln(os.Stderr)
		return fmt.Errorf("preprocessing failed")
	}

	if dumpAST {
		dumpNode(preprocessed, 0)
		fmt.Println()
	}

	result, err := eval.Eval(&node.Access{Base: preprocessed, Attr: "result"})
	if err != nil {
		kind, message := "evaluation error", err.Error()
		if evalErr, ok := err.(*eval.Error); ok {
			kind, message = evalErr.Kind.String(), evalErr.Message
		}
		ce := errors.NewPositionlessError(kind, message)
		fmt.Fprint(os.Stderr, ce.Format(true))
		fmt.Fprintln(os.Stderr)
		return fmt.Errorf("evaluation failed")
	}

	fmt.Println(render(result))
	return nil
}

// render projects a final value down to something printable: a primitive's
// "_inner", or the attribute names of a bare block in definition order. v is already
// fully propagated by Eval before it reaches here.
func render(v node.Node) string {
	blk, ok := v.(*node.Block)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	if inner, ok := blk.Get("_inner"); ok {
		switch lit := inner.(type) {
		case *node.IntLit:
			return fmt.Sprintf("%d", lit.Value)
		case *node.StringLit:
			return lit.Value
		}
	}
	return fmt.Sprintf("<block %v>", blk.Keys)
}
