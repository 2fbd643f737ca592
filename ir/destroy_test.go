package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildDestroyMap(t *testing.T) {
	prog := parse(t, `
record R
record S

func ~R (this R) destructor prototype
func ~S (this S) destructor prototype
func helper prototype
`)

	m := BuildDestroyMap(prog)
	require.Equal(t, 2, m.Len())
	require.Equal(t, prog.FnByName("~R"), m.Lookup(prog.TypeByName("R")))
	require.Equal(t, prog.FnByName("~S"), m.Lookup(prog.TypeByName("S")))
}

func TestDestroyMapMissing(t *testing.T) {
	prog := parse(t, `
record R
record Plain

func ~R (this R) destructor prototype
`)

	m := BuildDestroyMap(prog)
	require.Nil(t, m.Lookup(prog.TypeByName("Plain")))

	var zero DestroyMap
	require.Nil(t, zero.Lookup(prog.TypeByName("R")))
	require.Equal(t, 0, zero.Len())
}

func TestWalkSymExprs(t *testing.T) {
	prog := parse(t, strings.TrimSpace(`
record R

func R.init -> R prototype

func f {
  local x R
  local y R
  move x (call R.init)
  move y x
  return y
}
`))
	fn := prog.FnByName("f")

	type ref struct {
		sym    string
		parent string
	}
	var refs []ref
	for _, stmt := range fn.Body {
		WalkSymExprs(stmt, func(se *SymExpr, parent Expr) {
			p := "<nil>"
			if call, ok := parent.(*CallExpr); ok {
				if call.Resolved() {
					p = call.Fn.Name
				} else {
					p = call.Prim.String()
				}
			}
			refs = append(refs, ref{se.Sym.Name, p})
		})
	}

	require.Equal(t, []ref{
		{"x", "move"},
		{"y", "move"},
		{"x", "move"},
		{"y", "return"},
	}, refs)
}
