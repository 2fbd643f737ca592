package ownership

import (
	"log"

	"github.com/kestrel-lang/kestrel/analysis/cfg"
	"github.com/kestrel-lang/kestrel/analysis/dataflow"
	"github.com/kestrel-lang/kestrel/ir"
)

// transitions computes the per-block GEN and KILL vectors and feeds the
// alias registry. GEN bit k: symbol k becomes owned in the block
// (construction or ownership-receiving bit-wise copy). KILL bit k:
// symbol k becomes unowned (explicit destructor call or consumption by
// a return).
//
// Construction and destruction within one block obey a last-transition-
// wins discipline: a constructor clears the symbol's KILL bit and a
// destructor clears the GEN bits of the whole alias class, so GEN and
// KILL are disjoint per block and destroy-then-reconstruct (slot reuse)
// leaves the symbol owned on exit.
type transitions struct {
	st      *symtab
	aliases *Registry
	conf    Config

	gen  []*dataflow.BitVec
	kill []*dataflow.BitVec
	// fresh records constructions not preceded by a destruction in the
	// same block; those are the ones that must not see the symbol
	// already owned on block entry.
	fresh []*dataflow.BitVec
}

func computeTransitions(g *cfg.Graph, st *symtab, aliases *Registry, conf Config) (gen, kill, fresh []*dataflow.BitVec) {
	tr := &transitions{
		st:      st,
		aliases: aliases,
		conf:    conf,
		gen:     dataflow.NewFlowSet(len(g.Blocks), st.size()),
		kill:    dataflow.NewFlowSet(len(g.Blocks), st.size()),
		fresh:   dataflow.NewFlowSet(len(g.Blocks), st.size()),
	}

	for _, b := range g.Blocks {
		for _, stmt := range b.Exprs {
			ir.WalkSymExprs(stmt, func(se *ir.SymExpr, parent ir.Expr) {
				// Only local symbols the pass follows are of interest.
				if !st.isTracked(se.Sym) {
					return
				}
				// And only references appearing as call operands.
				call, ok := parent.(*ir.CallExpr)
				if !ok {
					return
				}
				tr.processConstructor(b.Index, call, se)
				tr.processCopy(b.Index, call, se)
				tr.processDestructor(b.Index, call, se)
			})
		}
	}
	return tr.gen, tr.kill, tr.fresh
}

// isConstructor reports whether a call produces a fully-constructed
// by-value record: a resolved function returning non-class type, or a
// primitive whose result type is a non-class aggregate.
//
// Treating every resolved function with a non-class return type as a
// constructor is approximate; a dedicated constructor flag would narrow
// it.
func isConstructor(call *ir.CallExpr) bool {
	if call.Resolved() {
		ret := call.Fn.RetType
		return ret == nil || !ret.IsClass()
	}
	typ := call.Type()
	return typ != nil && typ.IsAggregate() && !typ.IsClass()
}

// processConstructor recognizes ('move' lhs (call ...)) shapes that
// construct the left-hand symbol.
func (tr *transitions) processConstructor(i int, call *ir.CallExpr, se *ir.SymExpr) {
	if !call.IsPrim(ir.PrimMove) && !call.IsPrim(ir.PrimAssign) {
		return
	}
	if len(call.Args) != 2 || call.Args[0] != ir.Expr(se) {
		return
	}
	rhs, ok := call.Args[1].(*ir.CallExpr)
	if !ok || !isConstructor(rhs) {
		return
	}

	k := tr.st.indexOf(se.Sym)
	// Each symbol is constructed at most once while owned; a second
	// construction without an intervening destruction is an upstream
	// bug.
	if tr.gen[i].Get(k) {
		log.Fatalf("internal error: %s: symbol %s constructed twice in block %d",
			se.Pos, se.Sym, i)
	}
	tr.gen[i].Set(k)
	if !tr.kill[i].Get(k) {
		tr.fresh[i].Set(k)
	}
	tr.kill[i].Clear(k)
}

// processCopy recognizes ('move' lhs rhs) between two tracked symbols:
// a bit-wise copy. The copy shares ownership, so the two symbols merge
// into one alias class regardless of current liveness. The left-hand
// side becomes owned only if the source is owned in this block.
func (tr *transitions) processCopy(i int, call *ir.CallExpr, se *ir.SymExpr) {
	if !call.IsPrim(ir.PrimMove) && !call.IsPrim(ir.PrimAssign) {
		return
	}
	if len(call.Args) != 2 || call.Args[0] != ir.Expr(se) {
		return
	}
	rhs, ok := call.Args[1].(*ir.SymExpr)
	if !ok || !tr.st.isTracked(rhs.Sym) {
		return
	}

	l, r := tr.st.indexOf(se.Sym), tr.st.indexOf(rhs.Sym)
	if tr.gen[i].Get(l) {
		log.Fatalf("internal error: %s: symbol %s copied into while constructed in block %d",
			se.Pos, se.Sym, i)
	}
	if !tr.gen[i].Get(r) {
		if tr.conf.WarnOwnership {
			tr.conf.warn(rhs.Sym, "uninitialized symbol is copied here")
		}
	} else {
		tr.gen[i].Set(l)
		tr.kill[i].Clear(l)
	}
	// Aliasing is a structural fact, independent of liveness.
	tr.aliases.Merge(rhs.Sym, se.Sym)
}

// processDestructor recognizes calls to destructor-flagged functions
// and return primitives consuming the symbol. Destruction of any class
// member unowns the whole class.
func (tr *transitions) processDestructor(i int, call *ir.CallExpr, se *ir.SymExpr) {
	switch {
	case call.Resolved():
		if !call.Fn.IsDestructor() {
			return
		}
		// This reference is the thing being destroyed, right?
		if len(call.Args) == 0 || call.Args[0] != ir.Expr(se) {
			log.Fatalf("internal error: %s: %s is not the operand of destructor %s",
				se.Pos, se.Sym, call.Fn)
		}
	case call.IsPrim(ir.PrimReturn):
		// Returns act like destructors on the value they consume.
	default:
		return
	}

	for _, m := range tr.aliases.ClassOf(se.Sym) {
		k := tr.st.indexOf(m)
		if tr.kill[i].Get(k) {
			log.Fatalf("internal error: %s: symbol %s destroyed twice in block %d",
				se.Pos, m, i)
		}
		tr.kill[i].Set(k)
		tr.gen[i].Clear(k)
	}
}
