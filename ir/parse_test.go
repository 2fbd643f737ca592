package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Parse("test", strings.NewReader(src))
	require.NoError(t, err)
	return prog
}

const roundTripSrc = `
record R
extern record E
class C
primitive bool

func R.init -> R prototype
func ~R (this R) destructor prototype

func main -> R {
  local c bool
  local x R
  local r R
  move x (call R.init)
  assign x (new R)
  branch c b1 b2
b1:
  move r x
  goto b3
b2:
  call ~R x
  goto b3
b3:
  return r
}
`

func TestParseRoundTrip(t *testing.T) {
	prog := parse(t, roundTripSrc)
	printed := Print(prog)

	again := parse(t, printed)
	require.Equal(t, printed, Print(again))
}

func TestParseFuncShapes(t *testing.T) {
	prog := parse(t, roundTripSrc)

	init := prog.FnByName("R.init")
	require.NotNil(t, init)
	require.True(t, init.IsPrototype())
	require.Empty(t, init.Body)
	require.Equal(t, prog.TypeByName("R"), init.RetType)

	dtor := prog.FnByName("~R")
	require.NotNil(t, dtor)
	require.True(t, dtor.IsDestructor())
	require.Len(t, dtor.Params, 1)
	require.Equal(t, "this", dtor.Params[0].Name)
	require.Equal(t, SymParam, dtor.Params[0].Kind)

	main := prog.FnByName("main")
	require.NotNil(t, main)
	require.False(t, main.IsPrototype())
}

func TestParseTypeKinds(t *testing.T) {
	prog := parse(t, roundTripSrc)

	r := prog.TypeByName("R")
	require.True(t, r.IsRecord())
	require.True(t, r.IsAggregate())
	require.False(t, r.IsExtern())

	e := prog.TypeByName("E")
	require.True(t, e.IsRecord())
	require.True(t, e.IsExtern())

	c := prog.TypeByName("C")
	require.True(t, c.IsClass())
	require.True(t, c.IsAggregate())
	require.False(t, c.IsRecord())

	b := prog.TypeByName("bool")
	require.False(t, b.IsAggregate())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown type", "func f {\n  local x Missing\n  return\n}\n", "unknown type"},
		{"undefined symbol", "record R\nfunc f {\n  local x R\n  move x y\n  return\n}\n", "undefined symbol"},
		{"undefined function", "record R\nfunc f {\n  local x R\n  move x (call mk)\n  return\n}\n", "undefined function"},
		{"duplicate label", "func f {\nl:\nl:\n  return\n}\n", "duplicate label"},
		{"redefinition", "record R\nfunc f {\n  local x R\n  local x R\n  return\n}\n", "redefinition"},
		{"unterminated body", "func f {\n  return\n", "unexpected end of file"},
		{"branch arity", "primitive bool\nfunc f {\n  local c bool\n  branch c b1\n}\n", "branch"},
		{"prototype with body", "record R\nfunc f prototype {\n", "cannot have a body"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse("test", strings.NewReader(tc.src))
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParseErrorsCarryLine(t *testing.T) {
	_, err := Parse("test", strings.NewReader("record R\nfunc f {\n  local x Missing\n  return\n}\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "test:3:")
}

func TestParseComments(t *testing.T) {
	prog := parse(t, `
# leading comment
record R   # trailing comment

func f {   # here too
  return
}
`)
	require.NotNil(t, prog.TypeByName("R"))
	require.NotNil(t, prog.FnByName("f"))
}
