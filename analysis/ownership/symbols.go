package ownership

import (
	"log"

	"github.com/kestrel-lang/kestrel/ir"
)

// symtab is the ordered vector of tracked symbols of one function,
// together with the inverse index map. Bits in the flow vectors
// correspond to entries in the vector.
type symtab struct {
	symbols []*ir.Symbol
	index   map[*ir.Symbol]int
}

// tracked reports whether the pass follows a symbol: locals and
// parameters of by-value record type, excluding extern records (they
// have no constructors or destructors we could call). Class-typed and
// primitive-typed symbols are invisible to the analysis.
func tracked(sym *ir.Symbol) bool {
	return sym.Type.IsRecord() && !sym.Type.IsExtern()
}

// extractSymbols walks the definition sites of the function in source
// order, collects the tracked symbols and pre-populates the alias
// registry with one singleton class per symbol. Filtering is silent.
func extractSymbols(fn *ir.Fn) (*symtab, *Registry) {
	st := &symtab{index: make(map[*ir.Symbol]int)}
	aliases := NewRegistry()

	for _, stmt := range fn.Body {
		def, ok := stmt.(*ir.DefExpr)
		if !ok || !tracked(def.Sym) {
			continue
		}
		st.index[def.Sym] = len(st.symbols)
		st.symbols = append(st.symbols, def.Sym)
		aliases.AddSingleton(def.Sym)
	}
	return st, aliases
}

// indexOf returns the dense index of a tracked symbol. Lookup of an
// untracked symbol is a compiler bug.
func (st *symtab) indexOf(sym *ir.Symbol) int {
	i, ok := st.index[sym]
	if !ok {
		log.Fatalf("internal error: index lookup on untracked symbol %s", sym)
	}
	return i
}

// isTracked reports whether the symbol was collected for this function.
func (st *symtab) isTracked(sym *ir.Symbol) bool {
	_, ok := st.index[sym]
	return ok
}

func (st *symtab) size() int { return len(st.symbols) }
