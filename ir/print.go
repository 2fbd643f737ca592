package ir

import (
	"fmt"
	"io"
	"strings"
)

// Print renders a program in the textual IR format accepted by Parse.
func Print(prog *Program) string {
	var sb strings.Builder
	Fprint(&sb, prog)
	return sb.String()
}

func Fprint(w io.Writer, prog *Program) {
	for _, t := range prog.Types {
		switch {
		case t.Extern:
			fmt.Fprintf(w, "extern %s %s\n", t.Kind, t.Name)
		default:
			fmt.Fprintf(w, "%s %s\n", t.Kind, t.Name)
		}
	}
	for _, fn := range prog.Funcs {
		fmt.Fprintln(w)
		FprintFn(w, fn)
	}
}

func FprintFn(w io.Writer, fn *Fn) {
	fmt.Fprintf(w, "func %s", fn.Name)
	if len(fn.Params) > 0 {
		parts := make([]string, len(fn.Params))
		for i, p := range fn.Params {
			parts[i] = fmt.Sprintf("%s %s", p.Name, p.Type)
		}
		fmt.Fprintf(w, " (%s)", strings.Join(parts, ", "))
	}
	if fn.RetType != nil {
		fmt.Fprintf(w, " -> %s", fn.RetType)
	}
	if fn.IsDestructor() {
		fmt.Fprint(w, " destructor")
	}
	if fn.IsPrototype() {
		fmt.Fprintln(w, " prototype")
		return
	}
	fmt.Fprintln(w, " {")
	for _, stmt := range fn.Body {
		if def, ok := stmt.(*DefExpr); ok && def.Sym.Kind == SymParam {
			// Parameter definition sites are implied by the header.
			continue
		}
		if _, ok := stmt.(*LabelExpr); ok {
			fmt.Fprintf(w, "%s\n", StmtString(stmt))
			continue
		}
		fmt.Fprintf(w, "  %s\n", StmtString(stmt))
	}
	fmt.Fprintln(w, "}")
}

// StmtString renders a single statement in the textual format.
func StmtString(e Expr) string {
	switch e := e.(type) {
	case *DefExpr:
		return fmt.Sprintf("local %s %s", e.Sym.Name, e.Sym.Type)
	case *SymExpr:
		return e.Sym.Name
	case *LabelExpr:
		return e.Name + ":"
	case *GotoExpr:
		return "goto " + e.Target
	case *BranchExpr:
		return fmt.Sprintf("branch %s %s %s", operandString(e.Cond), e.Then, e.Else)
	case *CallExpr:
		return callString(e)
	}
	return fmt.Sprintf("<%T>", e)
}

func callString(c *CallExpr) string {
	switch {
	case c.IsPrim(PrimMove), c.IsPrim(PrimAssign):
		return fmt.Sprintf("%s %s %s",
			c.Prim, operandString(c.Args[0]), operandString(c.Args[1]))
	case c.IsPrim(PrimReturn):
		if len(c.Args) == 0 {
			return "return"
		}
		return "return " + operandString(c.Args[0])
	case c.IsPrim(PrimNew):
		return fmt.Sprintf("new %s", c.Typ)
	case c.Resolved():
		parts := []string{"call", c.Fn.Name}
		for _, arg := range c.Args {
			parts = append(parts, operandString(arg))
		}
		return strings.Join(parts, " ")
	}
	return fmt.Sprintf("<prim %s>", c.Prim)
}

// operandString renders an expression in operand position, where calls
// are parenthesized.
func operandString(e Expr) string {
	switch e := e.(type) {
	case *SymExpr:
		return e.Sym.Name
	case *CallExpr:
		return "(" + callString(e) + ")"
	}
	return fmt.Sprintf("<%T>", e)
}
