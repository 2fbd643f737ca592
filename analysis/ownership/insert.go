package ownership

import (
	"github.com/kestrel-lang/kestrel/analysis/cfg"
	"github.com/kestrel-lang/kestrel/analysis/dataflow"
	"github.com/kestrel-lang/kestrel/ir"
	"github.com/kestrel-lang/kestrel/utils"
)

// insertDestructors splices a destructor call into each block for every
// symbol that survives the block's local transitions but that no
// successor can rely on being owned. Destroying one member of an alias
// class releases the resource for the whole class, so within a block at
// most one destructor is inserted per class, on the lowest-indexed
// residual member. Returns the number of inserted calls.
func insertDestructors(
	g *cfg.Graph,
	st *symtab,
	aliases *Registry,
	gen, kill, in, out []*dataflow.BitVec,
	conf Config,
) (inserted int) {
	for _, b := range g.Blocks {
		// Degenerate blocks carry no statements to anchor a call on.
		if len(b.Exprs) == 0 {
			continue
		}

		// The residual live set: owned at block exit given the local
		// transitions, yet unwanted downstream.
		resid := in[b.Index].Copy()
		resid.DiffWith(kill[b.Index])
		resid.UnionWith(gen[b.Index])
		resid.DiffWith(out[b.Index])
		if resid.Empty() {
			continue
		}

		var calls []ir.Expr
		handled := dataflow.NewBitVec(st.size())
		resid.ForEach(func(k int) {
			if handled.Get(k) {
				return
			}
			sym := st.symbols[k]
			for _, m := range aliases.ClassOf(sym) {
				handled.Set(st.indexOf(m))
			}

			dtor := conf.Destructors.Lookup(sym.Type)
			if dtor == nil {
				// A record without a destructor owns nothing that
				// needs releasing.
				utils.VerbosePrint("no destructor registered for %s; dropping %s silently\n",
					sym.Type, sym)
				return
			}
			calls = append(calls, &ir.CallExpr{
				Fn:   dtor,
				Args: []ir.Expr{&ir.SymExpr{Sym: sym}},
			})
		})
		if len(calls) == 0 {
			continue
		}
		inserted += len(calls)

		last := b.Exprs[len(b.Exprs)-1]
		if ir.IsJump(last) {
			// Nothing may run after a jump; destroy just before it.
			b.Exprs = append(b.Exprs[:len(b.Exprs)-1], append(calls, last)...)
		} else {
			b.Exprs = append(b.Exprs, calls...)
		}
	}
	return inserted
}
