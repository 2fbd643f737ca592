package ownership

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrel-lang/kestrel/ir"
)

func testSymbols(prog *ir.Program, names ...string) []*ir.Symbol {
	typ := prog.DeclareType("R", ir.KRecord, false)
	syms := make([]*ir.Symbol, len(names))
	for i, name := range names {
		syms[i] = &ir.Symbol{Name: name, Type: typ, Kind: ir.SymLocal}
	}
	return syms
}

func TestRegistrySingletons(t *testing.T) {
	syms := testSymbols(ir.NewProgram(), "a", "b")
	r := NewRegistry()
	for _, s := range syms {
		r.AddSingleton(s)
	}

	require.Equal(t, []*ir.Symbol{syms[0]}, r.ClassOf(syms[0]))
	require.Equal(t, []*ir.Symbol{syms[1]}, r.ClassOf(syms[1]))
	require.False(t, r.SameClass(syms[0], syms[1]))
}

func TestRegistryMerge(t *testing.T) {
	syms := testSymbols(ir.NewProgram(), "a", "b", "c")
	r := NewRegistry()
	for _, s := range syms {
		r.AddSingleton(s)
	}

	r.Merge(syms[0], syms[1])
	require.True(t, r.SameClass(syms[0], syms[1]))
	require.ElementsMatch(t, []*ir.Symbol{syms[0], syms[1]}, r.ClassOf(syms[0]))
	require.ElementsMatch(t, []*ir.Symbol{syms[0], syms[1]}, r.ClassOf(syms[1]))

	// Merging is idempotent.
	r.Merge(syms[1], syms[0])
	require.Len(t, r.ClassOf(syms[0]), 2)

	// Classes only grow.
	r.Merge(syms[2], syms[0])
	require.ElementsMatch(t, []*ir.Symbol{syms[0], syms[1], syms[2]}, r.ClassOf(syms[1]))
	require.True(t, r.SameClass(syms[2], syms[1]))
}
