// Package errors provides the transpiler's diagnostic taxonomy and
// source-context formatting. It formats compiler errors with the offending
// source line and a caret pointing at the column, the way the front end's
// parser and analyzer report problems to a terminal.
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zylang-project/zylang/internal/token"
)

// Kind identifies which of spec §7's error categories a CompilerError
// belongs to.
type Kind int

const (
	KindParse Kind = iota
	KindUnsupportedConstruct
	KindRuntimeNotFound
	KindCompilationFailed
	KindBinaryMissing
	KindIOFailure
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "ParseError"
	case KindUnsupportedConstruct:
		return "UnsupportedConstruct"
	case KindRuntimeNotFound:
		return "RuntimeNotFound"
	case KindCompilationFailed:
		return "CompilationFailed"
	case KindBinaryMissing:
		return "BinaryMissing"
	case KindIOFailure:
		return "IOFailure"
	default:
		return "Error"
	}
}

// Sentinel base errors so callers can branch with errors.Is without
// inspecting Kind directly.
var (
	ErrParse                = errors.New("parse error")
	ErrUnsupportedConstruct = errors.New("unsupported construct")
	ErrRuntimeNotFound      = errors.New("runtime not found")
	ErrCompilationFailed    = errors.New("compilation failed")
	ErrBinaryMissing        = errors.New("binary missing")
	ErrIOFailure            = errors.New("i/o failure")
)

var sentinels = map[Kind]error{
	KindParse:                ErrParse,
	KindUnsupportedConstruct: ErrUnsupportedConstruct,
	KindRuntimeNotFound:      ErrRuntimeNotFound,
	KindCompilationFailed:    ErrCompilationFailed,
	KindBinaryMissing:        ErrBinaryMissing,
	KindIOFailure:            ErrIOFailure,
}

// CompilerError is a single diagnostic with optional source position and
// context, matching spec §7's taxonomy.
type CompilerError struct {
	Kind    Kind
	Message string
	Source  string // original source text, empty if Pos is not meaningful
	File    string
	Pos     token.Position
	Detail  string // extra payload: searched paths, captured stderr, node kind name
}

// New creates a CompilerError of the given kind.
func New(kind Kind, pos token.Position, message, source, file string) *CompilerError {
	return &CompilerError{Kind: kind, Pos: pos, Message: message, Source: source, File: file}
}

// Error implements the error interface.
func (e *CompilerError) Error() string { return e.Format(false) }

// Unwrap lets errors.Is(err, ErrParse) etc. work against a *CompilerError.
func (e *CompilerError) Unwrap() error { return sentinels[e.Kind] }

// Format renders the error with a source line and caret, the way a
// terminal-facing diagnostic should look. color enables ANSI highlighting.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	sb.WriteString(e.Kind.String())
	if e.File != "" {
		fmt.Fprintf(&sb, " in %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column)
	} else if e.Pos.Line > 0 {
		fmt.Fprintf(&sb, " at line %d:%d\n", e.Pos.Line, e.Pos.Column)
	} else {
		sb.WriteString("\n")
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	if e.Detail != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Detail)
	}

	return sb.String()
}

func (e *CompilerError) sourceLine(lineNum int) string {
	if e.Source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// Unsupported builds a KindUnsupportedConstruct error naming the offending
// AST node kind, per spec §7.
func Unsupported(pos token.Position, nodeKind, source, file string) *CompilerError {
	e := New(KindUnsupportedConstruct, pos, fmt.Sprintf("unsupported construct: %s", nodeKind), source, file)
	e.Detail = nodeKind
	return e
}

// RuntimeNotFound builds a KindRuntimeNotFound error carrying the ordered
// list of paths that were searched, per spec §7.
func RuntimeNotFound(searched []string) *CompilerError {
	e := New(KindRuntimeNotFound, token.Position{}, "could not locate the zylang runtime source", "", "")
	e.Detail = "searched:\n  " + strings.Join(searched, "\n  ")
	return e
}

// CompilationFailed builds a KindCompilationFailed error carrying the
// native compiler's captured diagnostic text, per spec §7.
func CompilationFailed(stderr string) *CompilerError {
	e := New(KindCompilationFailed, token.Position{}, "zig build-exe failed", "", "")
	e.Detail = stderr
	return e
}

// BinaryMissing builds a KindBinaryMissing error, per spec §7.
func BinaryMissing(path string) *CompilerError {
	return New(KindBinaryMissing, token.Position{}, fmt.Sprintf("compilation reported success but %s does not exist", path), "", "")
}

// IOFailure wraps any other file-system failure, per spec §7.
func IOFailure(cause error) *CompilerError {
	return New(KindIOFailure, token.Position{}, cause.Error(), "", "")
}
