// Package analysis implements the transpiler's AnalysisPass: two
// independent recursive traversals over the AST that determine whether the
// emitted program needs the reference-counted object runtime and which
// local names are reassigned (and therefore need a mutable binding).
//
// Both traversals are deterministic and side-effect-free against their
// input — running Run twice on the same *ast.Program produces an
// identical Result.
//
// O-4 (documented, not fixed): reassignment detection uses one shared
// declared-name set across every function body and top-level statement,
// matching the original implementation exactly. Two unrelated functions
// that each assign a local named `i` will both see `i` promoted into
// Reassigned even though neither function reassigns its own `i`. This is
// intentional — see DESIGN.md.
package analysis

import "github.com/zylang-project/zylang/internal/ast"

// Result holds the two analysis outputs spec §3 defines.
type Result struct {
	// NeedsRuntime is set if any reachable expression contains a string
	// literal, or a BinOp whose operands transitively include one.
	NeedsRuntime bool
	// NeedsAllocator is set whenever NeedsRuntime is set. Threaded as a
	// separate flag per spec §3 to allow the two to diverge later without
	// touching every call site that currently treats them as one.
	NeedsAllocator bool
	// Reassigned is the set of identifiers assigned more than once in the
	// union of all scanned statement bodies.
	Reassigned map[string]bool
}

// Run performs both sub-passes over the top-level statement sequence and
// returns their combined Result. Analysis must complete before any
// emission begins (spec §3's ordering invariant) — Run has no dependency
// on codegen state, so that invariant is enforced simply by call order in
// the pipeline, not by anything in this package.
func Run(prog *ast.Program) Result {
	r := Result{Reassigned: map[string]bool{}}
	declared := map[string]bool{}

	for _, stmt := range prog.Statements {
		detectRuntimeNeeds(stmt, &r)
		detectReassignments(stmt, declared, r.Reassigned)
	}

	return r
}

// detectRuntimeNeeds recurses per spec §4.2's "Runtime detection" rules.
func detectRuntimeNeeds(node ast.Node, r *Result) {
	switch n := node.(type) {
	case *ast.StringLiteral:
		r.NeedsRuntime = true
		r.NeedsAllocator = true

	case *ast.IntegerLiteral, *ast.Identifier:
		// no effect

	case *ast.BinaryExpr:
		detectRuntimeNeeds(n.Left, r)
		detectRuntimeNeeds(n.Right, r)

	case *ast.CompareExpr:
		detectRuntimeNeeds(n.Left, r)
		detectRuntimeNeeds(n.Comparator, r)

	case *ast.CallExpr:
		detectRuntimeNeeds(n.Callee, r)
		for _, a := range n.Args {
			detectRuntimeNeeds(a, r)
		}

	case *ast.Assign:
		detectRuntimeNeeds(n.Target, r)
		detectRuntimeNeeds(n.Value, r)

	case *ast.ExpressionStatement:
		if n.Expression != nil {
			detectRuntimeNeeds(n.Expression, r)
		}

	case *ast.FunctionDef:
		for _, s := range n.Body {
			detectRuntimeNeeds(s, r)
		}

	case *ast.If:
		for _, s := range n.Body {
			detectRuntimeNeeds(s, r)
		}
		for _, s := range n.ElseBody {
			detectRuntimeNeeds(s, r)
		}

	case *ast.While:
		for _, s := range n.Body {
			detectRuntimeNeeds(s, r)
		}

	case *ast.Return:
		if n.Value != nil {
			detectRuntimeNeeds(n.Value, r)
		}
	}
}

// detectReassignments recurses per spec §4.2's "Reassignment detection"
// rules, sharing declared/reassigned across the whole program (O-4).
func detectReassignments(node ast.Node, declared, reassigned map[string]bool) {
	switch n := node.(type) {
	case *ast.Assign:
		name := n.Target.Value
		if declared[name] {
			reassigned[name] = true
		} else {
			declared[name] = true
		}

	case *ast.FunctionDef:
		for _, s := range n.Body {
			detectReassignments(s, declared, reassigned)
		}

	case *ast.If:
		for _, s := range n.Body {
			detectReassignments(s, declared, reassigned)
		}
		for _, s := range n.ElseBody {
			detectReassignments(s, declared, reassigned)
		}

	case *ast.While:
		for _, s := range n.Body {
			detectReassignments(s, declared, reassigned)
		}
	}
}
