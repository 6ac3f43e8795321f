package cmd

import (
	"fmt"
	"os"

	"github.com/blocklang/blocklang/internal/errors"
	"github.com/blocklang/blocklang/internal/lexer"
	"github.com/blocklang/blocklang/internal/token"
	"github.com/spf13/cobra"
)

var (
	lexEval  string
	showPos  bool
	showType bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a blocklang file or expression",
	Long: `Tokenize (lex) a blocklang program and print the resulting tokens.

Examples:
  # Tokenize a script file
  blocklang lex program.bl

  # Tokenize an inline expression
  blocklang lex -e "{x = 1, y = 2}"

  # Show token types and positions
  blocklang lex --show-type --show-pos program.bl`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEval, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&showType, "show-type", false, "show token type names")
}

func runLex(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(lexEval, args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	for {
		tok, err := l.NextToken()
		if err != nil {
			if lexErr, ok := err.(*lexer.Error); ok {
				ce := errors.NewCompilerError(lexErr.Pos, "syntax error", lexErr.Message, input, filename)
				fmt.Fprint(os.Stderr, ce.Format(true))
				fmt.Fprintln(os.Stderr)
			}
			return fmt.Errorf("lexing failed")
		}
		printToken(tok)
		if tok.Type == token.EOF {
			return nil
		}
	}
}

func printToken(tok token.Token) {
	var output string
	if showType {
		output = fmt.Sprintf("[%-8s]", tok.Type)
	}
	if tok.Literal == "" {
		output += fmt.Sprintf(" %s", tok.Type)
	} else {
		output += fmt.Sprintf(" %q", tok.Literal)
	}
	if showPos {
		output += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Println(output)
}

// readSource resolves the input either from -e or from the first
// positional argument, erroring if neither is given.
func readSource(eval string, args []string) (input string, filename string, err error) {
	if eval != "" {
		return eval, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline code")
}
