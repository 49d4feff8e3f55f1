// Package codegen implements the CodeEmitter: the final AST walk that
// produces Zig source text from a parsed program and the analysis result
// computed ahead of it.
//
// The emitter owns an append-only line buffer, an integer indentation
// level, and a declared-names set — all reset fresh at the start of every
// Emit call, independent of the declared-names set analysis.Run used.
// Nothing here is safe for concurrent reuse: callers must build a new
// Emitter per compilation (spec §5).
package codegen

import (
	"fmt"
	"strings"

	"github.com/zylang-project/zylang/internal/analysis"
	"github.com/zylang-project/zylang/internal/ast"
	"github.com/zylang-project/zylang/internal/errors"
)

// Emitter walks an *ast.Program and produces Zig source text.
type Emitter struct {
	output      []string
	indentLevel int
	declared    map[string]bool
	result      analysis.Result
}

// Emit generates Zig source text for prog using the given analysis
// result. analysis.Run must already have been called to completion —
// spec §3's ordering invariant is enforced by the caller's pipeline, not
// by anything in this function.
func Emit(prog *ast.Program, result analysis.Result) (string, error) {
	e := &Emitter{declared: map[string]bool{}, result: result}

	e.emit(`const std = @import("std");`)
	if result.NeedsRuntime {
		e.emit(`const runtime = @import("runtime");`)
	}
	e.emit("")

	var funcs []*ast.FunctionDef
	var topLevel []ast.Statement
	for _, s := range prog.Statements {
		if fd, ok := s.(*ast.FunctionDef); ok {
			funcs = append(funcs, fd)
		} else {
			topLevel = append(topLevel, s)
		}
	}

	for _, f := range funcs {
		if err := e.visitFunctionDef(f); err != nil {
			return "", err
		}
	}

	if len(topLevel) > 0 {
		if result.NeedsAllocator {
			e.emit("pub fn main() !void {")
			e.indentLevel++
			e.emit("var gpa = std.heap.GeneralPurposeAllocator(.{}){};")
			e.emit("defer _ = gpa.deinit();")
			e.emit("const allocator = gpa.allocator();")
			e.emit("")
		} else {
			e.emit("pub fn main() void {")
			e.indentLevel++
		}

		if err := e.visitStatements(topLevel); err != nil {
			return "", err
		}

		e.indentLevel--
		e.emit("}")
	}

	return strings.Join(e.output, "\n") + "\n", nil
}

func (e *Emitter) emit(line string) {
	if line == "" {
		e.output = append(e.output, "")
		return
	}
	e.output = append(e.output, strings.Repeat("    ", e.indentLevel)+line)
}

var zigTypeTable = map[string]string{
	"int":   "i64",
	"float": "f64",
	"bool":  "bool",
	"str":   "[]const u8",
}

// zigType maps a source type-annotation name to its Zig target type per
// spec §3's fixed table; any other annotation shape is the wildcard
// "anytype" placeholder.
func zigType(name string) string {
	if t, ok := zigTypeTable[name]; ok {
		return t
	}
	return "anytype"
}

func (e *Emitter) visitFunctionDef(f *ast.FunctionDef) error {
	returnType := "void"
	if f.ReturnType != nil {
		returnType = zigType(f.ReturnType.Name)
	}

	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		t := "i64"
		if p.Annotation != nil {
			t = zigType(p.Annotation.Name)
		}
		params[i] = fmt.Sprintf("%s: %s", p.Name.Value, t)
	}

	e.emit(fmt.Sprintf("fn %s(%s) %s {", f.Name, strings.Join(params, ", "), returnType))
	e.indentLevel++
	if err := e.visitStatements(f.Body); err != nil {
		return err
	}
	e.indentLevel--
	e.emit("}")
	e.emit("")
	return nil
}

func (e *Emitter) visitStatements(stmts []ast.Statement) error {
	for _, s := range stmts {
		if err := e.visitStatement(s); err != nil {
			return err
		}
	}
	return nil
}

// visitStatement dispatches on the block-level statement kinds spec §3
// allows. FunctionDef is deliberately absent here — function definitions
// are only ever reachable from Emit's top-level partition, never nested in
// an if/while body or another function, matching spec §6's "sequence of
// function definitions and top-level statements" grammar. A FunctionDef
// (or anything else) reaching this switch is UnsupportedConstruct.
func (e *Emitter) visitStatement(s ast.Statement) error {
	switch n := s.(type) {
	case *ast.If:
		return e.visitIf(n)
	case *ast.While:
		return e.visitWhile(n)
	case *ast.Return:
		return e.visitReturn(n)
	case *ast.Assign:
		return e.visitAssign(n)
	case *ast.ExpressionStatement:
		return e.visitExprStatement(n)
	default:
		return errors.Unsupported(s.Pos(), fmt.Sprintf("%T", s), "", "")
	}
}

func (e *Emitter) visitIf(n *ast.If) error {
	testCode, _, err := e.lowerExpr(n.Test)
	if err != nil {
		return err
	}

	e.emit(fmt.Sprintf("if (%s) {", testCode))
	e.indentLevel++
	if err := e.visitStatements(n.Body); err != nil {
		return err
	}
	e.indentLevel--

	if len(n.ElseBody) > 0 {
		e.emit("} else {")
		e.indentLevel++
		if err := e.visitStatements(n.ElseBody); err != nil {
			return err
		}
		e.indentLevel--
	}

	e.emit("}")
	return nil
}

func (e *Emitter) visitWhile(n *ast.While) error {
	testCode, _, err := e.lowerExpr(n.Test)
	if err != nil {
		return err
	}

	e.emit(fmt.Sprintf("while (%s) {", testCode))
	e.indentLevel++
	if err := e.visitStatements(n.Body); err != nil {
		return err
	}
	e.indentLevel--
	e.emit("}")
	return nil
}

func (e *Emitter) visitReturn(n *ast.Return) error {
	if n.Value == nil {
		e.emit("return;")
		return nil
	}

	code, fallible, err := e.lowerExpr(n.Value)
	if err != nil {
		return err
	}
	if fallible {
		e.emit(fmt.Sprintf("return try %s;", code))
	} else {
		e.emit(fmt.Sprintf("return %s;", code))
	}
	return nil
}

// visitExprStatement emits a discard-assignment for an expression
// evaluated purely for effect, except a bare string-literal expression
// statement (a docstring), which is silently dropped wherever it appears.
func (e *Emitter) visitExprStatement(n *ast.ExpressionStatement) error {
	if _, ok := n.Expression.(*ast.StringLiteral); ok {
		return nil
	}

	code, fallible, err := e.lowerExpr(n.Expression)
	if err != nil {
		return err
	}
	if fallible {
		e.emit(fmt.Sprintf("_ = try %s;", code))
	} else {
		e.emit(fmt.Sprintf("_ = %s;", code))
	}
	return nil
}
