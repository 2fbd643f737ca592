package ownership

// The automatic memory management pass of the Kestrel middle-end.
//
// A record object may own heap data through its class-typed fields.
// Construction turns a record symbol's ownership on; calling the
// record's destructor turns it off again and releases the heap data. A
// bit-wise copy of a record copies class fields verbatim, so both
// copies point at the same heap data and share ownership; exactly one
// of them must be destroyed before both go out of scope.
//
// Earlier passes have already inserted every copy-constructor call the
// program semantics require, so any bit-wise copy still visible here is
// known to produce an alias rather than an independent value. What
// remains is inserting the minimum number of destructor calls that
// drive the ownership of every local record to false on every path out
// of the function. Forward dataflow over a per-symbol ownership bit
// finds where ownership survives; the demanded exit sets pin down the
// blocks where a destructor must be forced.

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"

	"github.com/kestrel-lang/kestrel/analysis/cfg"
	"github.com/kestrel-lang/kestrel/analysis/dataflow"
	"github.com/kestrel-lang/kestrel/ir"
	"github.com/kestrel-lang/kestrel/utils"
	"github.com/kestrel-lang/kestrel/utils/dot"

	"log"
)

// WarnFunc emits a user-visible diagnostic anchored at a symbol.
type WarnFunc func(sym *ir.Symbol, format string, args ...interface{})

// Config carries the pass configuration. The ownership warning flag and
// the destructor registry are passed explicitly rather than read from
// process-wide state.
type Config struct {
	// WarnOwnership enables the diagnostic for bit-wise copies whose
	// source is not owned.
	WarnOwnership bool
	// Destructors maps each record type to its destructor.
	Destructors ir.DestroyMap
	// Warn is the diagnostic sink; nil selects a colorized stderr
	// sink.
	Warn WarnFunc
}

func (c Config) warn(sym *ir.Symbol, format string, args ...interface{}) {
	if c.Warn != nil {
		c.Warn(sym, format, args...)
		return
	}
	tag := utils.CanColorize(color.New(color.FgYellow).Sprint)("warning")
	fmt.Fprintf(os.Stderr, "%s: %s: %s: %s\n", tag, sym.Pos, sym, fmt.Sprintf(format, args...))
}

// InsertAutoCopyAutoDestroy walks the global function table and inserts
// the destructor calls required for automatic memory management,
// transforming each function in place. All necessary copy-constructor
// calls are assumed to have been added already; a separate pass
// computing the minimum set of copies is a planned enhancement.
func InsertAutoCopyAutoDestroy(prog *ir.Program, conf Config) error {
	for _, fn := range prog.Funcs {
		// Function prototypes have no body, so we skip them.
		if fn.IsPrototype() {
			continue
		}
		if err := insertAutoDestroy(fn, conf); err != nil {
			return err
		}
	}
	return nil
}

// insertAutoDestroy runs the analysis for a single function. Every
// structure built here is scoped to this invocation; only the function
// body is mutated.
func insertAutoDestroy(fn *ir.Fn, conf Config) error {
	g, err := cfg.Build(fn)
	if err != nil {
		return err
	}

	st, aliases := extractSymbols(fn)
	gen, kill, fresh := computeTransitions(g, st, aliases, conf)
	in, out := dataflow.Forward(g, gen, kill)

	verifyFlow(fn, g, st, fresh, in)

	utils.Opts().OnVerbose(func() {
		fmt.Printf("ownership analysis of %s (%d blocks, %d tracked symbols)\n",
			fn.Name, len(g.Blocks), st.size())
		spew.Fdump(os.Stderr, st.symbols)
		for _, b := range g.Blocks {
			fmt.Printf("  b%d gen=%s kill=%s in=%s out=%s\n",
				b.Index, gen[b.Index], kill[b.Index], in[b.Index], out[b.Index])
		}
	})

	if insertDestructors(g, st, aliases, gen, kill, in, out, conf) > 0 {
		g.Flush()
	}
	return nil
}

// verifyFlow checks the cross-block construction invariant: a symbol
// owned on entry to a block must not be constructed inside it without
// an intervening destruction (slot reuse after a local destroy is
// fine).
func verifyFlow(fn *ir.Fn, g *cfg.Graph, st *symtab, fresh, in []*dataflow.BitVec) {
	for _, b := range g.Blocks {
		both := in[b.Index].Copy()
		both.IntersectWith(fresh[b.Index])
		if !both.Empty() {
			both.ForEach(func(k int) {
				log.Fatalf("internal error: %s: symbol %s constructed in block %d while already owned",
					fn.Name, st.symbols[k], b.Index)
			})
		}
	}
}

// VisualizeOwnership renders the CFG of the function annotated with its
// ownership flow sets, returning the output path.
func VisualizeOwnership(fn *ir.Fn, conf Config, outfname, format string) (string, error) {
	g, err := cfg.Build(fn)
	if err != nil {
		return "", err
	}
	st, aliases := extractSymbols(fn)
	gen, kill, _ := computeTransitions(g, st, aliases, conf)
	in, out := dataflow.Forward(g, gen, kill)

	G := &dot.DotGraph{
		Title: fn.Name,
		Options: map[string]string{
			"minlen":  fmt.Sprint(utils.Opts().Minlen()),
			"nodesep": fmt.Sprint(utils.Opts().Nodesep()),
		},
	}
	nodes := make([]*dot.DotNode, len(g.Blocks))
	for _, b := range g.Blocks {
		nodes[b.Index] = &dot.DotNode{
			ID: fmt.Sprintf("b%d", b.Index),
			Attrs: dot.DotAttrs{
				"label": fmt.Sprintf("b%d\\lgen=%s kill=%s\\lin=%s out=%s\\l",
					b.Index, gen[b.Index], kill[b.Index], in[b.Index], out[b.Index]),
			},
		}
		G.Nodes = append(G.Nodes, nodes[b.Index])
	}
	for _, b := range g.Blocks {
		for _, s := range b.Succs {
			G.Edges = append(G.Edges, &dot.DotEdge{From: nodes[b.Index], To: nodes[s]})
		}
	}
	return G.Render(outfname, format)
}
