package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zylang-project/zylang/internal/analysis"
	"github.com/zylang-project/zylang/internal/lexer"
	"github.com/zylang-project/zylang/internal/parser"
)

func parseProgram(t *testing.T, src string) *analysis.Result {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l, src, "<test>")
	prog := p.ParseProgram()
	require.Empty(t, p.Errors(), "unexpected parse errors")
	r := analysis.Run(prog)
	return &r
}

func TestNeedsRuntimeFalseForPureArithmetic(t *testing.T) {
	r := parseProgram(t, "total = 0\ntotal = total + 1\n")
	assert.False(t, r.NeedsRuntime)
	assert.False(t, r.NeedsAllocator)
}

func TestNeedsRuntimeTrueForStringLiteral(t *testing.T) {
	r := parseProgram(t, "s = \"hi\"\n")
	assert.True(t, r.NeedsRuntime)
	assert.True(t, r.NeedsAllocator)
}

// TestRuntimeFlagMonotonicity is the testable property from spec §8:
// adding a string literal anywhere in a program can only flip the flag
// false->true, never the reverse.
func TestRuntimeFlagMonotonicity(t *testing.T) {
	before := parseProgram(t, "x = 1\nprint(x)\n")
	after := parseProgram(t, "x = 1\nprint(x)\ns = \"hi\"\n")

	assert.False(t, before.NeedsRuntime)
	assert.True(t, after.NeedsRuntime)
}

func TestReassignmentDetection(t *testing.T) {
	r := parseProgram(t, "x = 1\nx = 2\ny = 7\n")
	assert.True(t, r.Reassigned["x"])
	assert.False(t, r.Reassigned["y"])
}

// TestReassignmentSharesNamespaceAcrossFunctions documents O-4: two
// unrelated functions that each assign a local of the same name both land
// in the single, shared Reassigned set.
func TestReassignmentSharesNamespaceAcrossFunctions(t *testing.T) {
	r := parseProgram(t, "def f():\n    i = 1\ndef g():\n    i = 2\n")
	assert.True(t, r.Reassigned["i"])
}

func TestDeterministicAcrossRuns(t *testing.T) {
	src := "s = \"a\" + \"b\"\nx = 1\nx = 2\n"
	first := parseProgram(t, src)
	second := parseProgram(t, src)
	assert.Equal(t, *first, *second)
}
