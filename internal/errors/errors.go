// Package errors formats the lexer/parser/preprocessor/evaluator failures of
// the block language into source-annotated diagnostics: a kind-labeled
// file:line:column header, the offending source line, and a caret pointing
// at the column. One CompilerError shape covers every stage of the
// pipeline: lex/parse errors carry a real position, while preprocess/eval
// errors (which, per spec.md §7, identify a failing attribute or node kind
// rather than a source location) carry a zero Pos and print without the
// source excerpt.
package errors

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/blocklang/blocklang/internal/token"
)

// CompilerError represents a single pipeline failure, labeled by Kind (e.g.
// "syntax error", "reference error", "type error", "invariant violation" --
// the same taxonomy internal/eval/errors.go uses for evaluator failures).
type CompilerError struct {
	Kind    string
	Message string
	Source  string
	File    string
	Pos     token.Position
}

// NewCompilerError creates a compiler error with a known source position
// (lex/parse failures).
func NewCompilerError(pos token.Position, kind, message, source, file string) *CompilerError {
	return &CompilerError{
		Kind:    kind,
		Pos:     pos,
		Message: message,
		Source:  source,
		File:    file,
	}
}

// NewPositionlessError creates a compiler error with no source position
// (preprocess/eval failures, which identify a node or attribute rather than
// a location).
func NewPositionlessError(kind, message string) *CompilerError {
	return &CompilerError{Kind: kind, Message: message}
}

// Error implements the error interface.
func (e *CompilerError) Error() string {
	return e.Format(false)
}

// label returns Kind capitalized for the header line, defaulting to "Error".
func (e *CompilerError) label() string {
	if e.Kind == "" {
		return "Error"
	}
	r := []rune(e.Kind)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Format formats the error message with source context.
// If color is true, ANSI color codes are used for terminal output.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.Pos.Line == 0 {
		sb.WriteString(e.label())
		sb.WriteString("\n")
	} else if e.File != "" {
		sb.WriteString(fmt.Sprintf("%s in %s:%d:%d\n", e.label(), e.File, e.Pos.Line, e.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("%s at line %d:%d\n", e.label(), e.Pos.Line, e.Pos.Column))
	}

	sourceLine := e.getSourceLine(e.Pos.Line)
	if sourceLine != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(sourceLine)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m") // Red bold
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m") // Reset
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m") // Bold
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m") // Reset
	}

	return sb.String()
}

// getSourceLine extracts a specific line from the source code.
// Lines are 1-indexed.
func (e *CompilerError) getSourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}

	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}

	return lines[lineNum-1]
}
