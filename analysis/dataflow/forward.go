package dataflow

import (
	"log"

	"github.com/kestrel-lang/kestrel/analysis/cfg"
	"github.com/kestrel-lang/kestrel/utils/worklist"
)

// Forward solves the forward must-flow equations
//
//	IN[entry] = ∅
//	IN[i]     = ⋂ OUT[p] over predecessors p of i   (no preds ⇒ ∅)
//	OUT[i]    = (IN[i] − KILL[i]) ∪ GEN[i]
//
// to the greatest fixed point, by worklist iteration seeded in reverse
// postorder. The returned out sets are not the transfer results but the
// demanded exit sets
//
//	OUT'[i] = ⋂ IN[s] over successors s of i        (no succs ⇒ ∅)
//
// i.e. the bits downstream blocks can rely on being set on entry. A bit
// that survives block i locally but is absent from OUT'[i] cannot be
// relied upon (or is unwanted) downstream; consumers must clear it at
// the end of block i.
func Forward(g *cfg.Graph, gen, kill []*BitVec) (in, out []*BitVec) {
	m := len(g.Blocks)
	if len(gen) != m || len(kill) != m {
		log.Fatalf("internal error: flow set size mismatch: %d blocks, %d gen, %d kill",
			m, len(gen), len(kill))
	}
	if m == 0 {
		return nil, nil
	}
	n := gen[0].Len()

	in = NewFlowSet(m, n)
	fix := NewFlowSet(m, n)
	// Non-entry transfer results start at top (all-ones) so that loops
	// converge downward; a zero start would destroy loop-carried
	// ownership.
	for i := 1; i < m; i++ {
		fix[i].SetAll()
	}

	// Reverse postorder from the entry block, then any unreachable
	// blocks in index order.
	post := g.BlockGraph().Postorder(0)
	seed := make([]int, 0, m)
	seeded := make([]bool, m)
	for i := len(post) - 1; i >= 0; i-- {
		seed = append(seed, post[i])
		seeded[post[i]] = true
	}
	for i := 0; i < m; i++ {
		if !seeded[i] {
			seed = append(seed, i)
		}
	}

	worklist.StartV(seed, func(i int, add func(int)) {
		b := g.Blocks[i]

		newIn := NewBitVec(n)
		if i != 0 && len(b.Preds) > 0 {
			newIn.SetAll()
			for _, p := range b.Preds {
				newIn.IntersectWith(fix[p])
			}
		}

		newOut := newIn.Copy()
		newOut.DiffWith(kill[i])
		newOut.UnionWith(gen[i])

		in[i] = newIn
		if !newOut.Equal(fix[i]) {
			fix[i] = newOut
			for _, s := range b.Succs {
				add(s)
			}
		}
	})

	out = NewFlowSet(m, n)
	for i, b := range g.Blocks {
		if len(b.Succs) == 0 {
			continue
		}
		out[i].SetAll()
		for _, s := range b.Succs {
			out[i].IntersectWith(in[s])
		}
	}
	return in, out
}
