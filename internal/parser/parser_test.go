package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zylang-project/zylang/internal/ast"
	"github.com/zylang-project/zylang/internal/lexer"
	"github.com/zylang-project/zylang/internal/parser"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l, src, "<test>")
	prog := p.ParseProgram()
	require.Empty(t, p.Errors(), "unexpected parse errors: %v", p.Errors())
	return prog
}

func TestParseAssignAndExprStatement(t *testing.T) {
	prog := mustParse(t, "x = 1\nprint(x)\n")
	require.Len(t, prog.Statements, 2)

	assign, ok := prog.Statements[0].(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, "x", assign.Target.Value)

	_, ok = prog.Statements[1].(*ast.ExpressionStatement)
	require.True(t, ok)
}

func TestParseIfElse(t *testing.T) {
	src := "if x < 1:\n    y = 1\nelse:\n    y = 2\n"
	prog := mustParse(t, src)
	require.Len(t, prog.Statements, 1)

	ifStmt, ok := prog.Statements[0].(*ast.If)
	require.True(t, ok)
	assert.Len(t, ifStmt.Body, 1)
	assert.Len(t, ifStmt.ElseBody, 1)

	cmp, ok := ifStmt.Test.(*ast.CompareExpr)
	require.True(t, ok)
	assert.Equal(t, ast.Lt, cmp.Op)
}

func TestParseElifDesugarsToNestedElse(t *testing.T) {
	src := "if x < 1:\n    y = 1\nelif x < 2:\n    y = 2\nelse:\n    y = 3\n"
	prog := mustParse(t, src)

	outer := prog.Statements[0].(*ast.If)
	require.Len(t, outer.ElseBody, 1)

	inner, ok := outer.ElseBody[0].(*ast.If)
	require.True(t, ok, "elif must desugar into a nested If, not a new node kind")
	assert.Len(t, inner.ElseBody, 1)
}

func TestParseWhile(t *testing.T) {
	prog := mustParse(t, "while x < 10:\n    x = x + 1\n")
	_, ok := prog.Statements[0].(*ast.While)
	require.True(t, ok)
}

func TestParseFunctionDefWithTypes(t *testing.T) {
	prog := mustParse(t, "def f(a: int, b: str) -> int:\n    return a\n")
	fn, ok := prog.Statements[0].(*ast.FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "f", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "int", fn.Params[0].Annotation.Name)
	assert.Equal(t, "str", fn.Params[1].Annotation.Name)
	require.NotNil(t, fn.ReturnType)
	assert.Equal(t, "int", fn.ReturnType.Name)
}

func TestParseDocstringIsKeptAsExpressionStatement(t *testing.T) {
	// Dropping the docstring is the emitter's job (spec §4.3), not the
	// parser's — the parser only needs to accept it as an ordinary
	// expression statement.
	prog := mustParse(t, "def f():\n    \"does a thing\"\n    return 1\n")
	fn := prog.Statements[0].(*ast.FunctionDef)
	require.Len(t, fn.Body, 2)
	exprStmt, ok := fn.Body[0].(*ast.ExpressionStatement)
	require.True(t, ok)
	_, ok = exprStmt.Expression.(*ast.StringLiteral)
	require.True(t, ok)
}

func TestParseChainedAddFlattensAtCodegenNotParser(t *testing.T) {
	// The parser just builds ordinary left-associative BinaryExprs; the
	// chain-flattening fast path lives in internal/codegen.
	prog := mustParse(t, "s = \"a\" + \"b\" + \"c\"\n")
	assign := prog.Statements[0].(*ast.Assign)
	top, ok := assign.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.Add, top.Op)
	_, ok = top.Left.(*ast.BinaryExpr)
	require.True(t, ok, "left-leaning chain: top.Left should itself be a BinaryExpr")
}

// TestForLoopIsUnsupportedConstruct is the boundary scenario from spec §8.1:
// `for` is not in the accepted subset, so it must be rejected rather than
// silently desugared.
func TestForLoopIsUnsupportedConstruct(t *testing.T) {
	l := lexer.New("total = 0\nfor i in range(100):\n    total = total + i\n")
	p := parser.New(l, "", "<test>")
	p.ParseProgram()
	require.NotEmpty(t, p.Errors())
}
