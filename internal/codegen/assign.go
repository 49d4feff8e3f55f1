package codegen

import (
	"fmt"

	"github.com/zylang-project/zylang/internal/ast"
)

// visitAssign is the central design decision of spec §4.3: deciding
// between the object path (reference-counted runtime values, with
// explicit releases threaded through) and the primitive path (unboxed
// machine values), and between `const` and `var` declarations.
func (e *Emitter) visitAssign(a *ast.Assign) error {
	name := a.Target.Value

	isFirst := !e.declared[name]
	if isFirst {
		e.declared[name] = true
	}

	keyword := "const"
	if e.result.Reassigned[name] {
		keyword = "var"
	}

	if bin, ok := a.Value.(*ast.BinaryExpr); ok && bin.Op == ast.Add {
		parts := flattenAddChain(bin)

		codes := make([]string, len(parts))
		fallible := make([]bool, len(parts))
		anyFallible := false
		for i, part := range parts {
			code, f, err := e.lowerExpr(part)
			if err != nil {
				return err
			}
			codes[i] = code
			fallible[i] = f
			if f {
				anyFallible = true
			}
		}

		if e.result.NeedsRuntime || anyFallible {
			return e.emitObjectAssign(name, keyword, isFirst, codes, fallible)
		}
		// Primitive numeric chain: fall through and lower the whole
		// expression normally, producing the nested left-assoc form
		// "((a + b) + c)" rather than re-deriving it from parts.
	}

	code, fallible, err := e.lowerExpr(a.Value)
	if err != nil {
		return err
	}
	return e.emitPrimitiveAssign(name, keyword, isFirst, code, fallible)
}

// flattenAddChain flattens a left-leaning chain of Add BinaryExprs
// ((a+b)+c)+d into the ordered list [a, b, c, d], per spec §4.3 step 3.
func flattenAddChain(b *ast.BinaryExpr) []ast.Expression {
	var parts []ast.Expression
	if left, ok := b.Left.(*ast.BinaryExpr); ok && left.Op == ast.Add {
		parts = append(parts, flattenAddChain(left)...)
	} else {
		parts = append(parts, b.Left)
	}
	parts = append(parts, b.Right)
	return parts
}

// emitObjectAssign implements spec §4.3's object path: fresh temps for
// fallible parts (each with a scoped release), a left fold over
// runtime.String.concat naming each intermediate, and a single release on
// the final binding transferred to name.
func (e *Emitter) emitObjectAssign(name, keyword string, isFirst bool, codes []string, fallible []bool) error {
	temps := make([]string, len(codes))
	for i, code := range codes {
		if fallible[i] {
			temp := fmt.Sprintf("_temp_%s_%d", name, i)
			e.emit(fmt.Sprintf("const %s = try %s;", temp, code))
			e.emit(fmt.Sprintf("defer runtime.decref(%s, allocator);", temp))
			temps[i] = temp
		} else {
			temps[i] = code
		}
	}

	result := temps[0]
	for i := 1; i < len(temps); i++ {
		next := fmt.Sprintf("_concat_%s_%d", name, i)
		e.emit(fmt.Sprintf("const %s = try runtime.String.concat(allocator, %s, %s);", next, result, temps[i]))
		if i < len(temps)-1 {
			e.emit(fmt.Sprintf("defer runtime.decref(%s, allocator);", next))
		}
		result = next
	}

	if isFirst {
		e.emit(fmt.Sprintf("%s %s = %s;", keyword, name, result))
	} else {
		e.emit(fmt.Sprintf("%s = %s;", name, result))
	}

	if isFirst {
		e.emit(fmt.Sprintf("defer runtime.decref(%s, allocator);", name))
	}
	return nil
}

// emitPrimitiveAssign implements spec §4.3's primitive path.
func (e *Emitter) emitPrimitiveAssign(name, keyword string, isFirst bool, code string, fallible bool) error {
	if isFirst {
		if fallible {
			e.emit(fmt.Sprintf("%s %s = try %s;", keyword, name, code))
			e.emit(fmt.Sprintf("defer runtime.decref(%s, allocator);", name))
			return nil
		}
		if keyword == "var" {
			// A mutable binding needs an explicit type at the declaration
			// site — there is no inference to fall back on.
			e.emit(fmt.Sprintf("var %s: i64 = %s;", name, code))
		} else {
			e.emit(fmt.Sprintf("const %s = %s;", name, code))
		}
		return nil
	}

	if fallible {
		e.emit(fmt.Sprintf("%s = try %s;", name, code))
	} else {
		e.emit(fmt.Sprintf("%s = %s;", name, code))
	}
	return nil
}
