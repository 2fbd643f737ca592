package cfg

import (
	"fmt"

	"github.com/kestrel-lang/kestrel/ir"
	"github.com/kestrel-lang/kestrel/utils/graph"
)

// Block is a maximal straight-line sequence of statements. Blocks refer
// to each other by dense index; no pointer cycles are needed.
type Block struct {
	Index int
	// Label naming the block in the source IR, "" for blocks that do not
	// begin at a label.
	Label string
	Exprs []ir.Expr
	Succs []int
	Preds []int
}

// Graph is the control-flow graph of one function: an ordered list of
// basic blocks. Block 0 is the entry block.
type Graph struct {
	Fn     *ir.Fn
	Blocks []*Block
}

// Build partitions the function body into basic blocks and links them.
// Labels start blocks; goto, branch and return statements end them.
// Statements following a jump start a fresh (unlabeled, unreachable)
// block. An undefined branch target is an error in the input IR.
func Build(fn *ir.Fn) (*Graph, error) {
	g := &Graph{Fn: fn}

	byLabel := make(map[string]*Block)
	cur := g.newBlock("")

	for _, stmt := range fn.Body {
		switch stmt := stmt.(type) {
		case *ir.LabelExpr:
			if len(cur.Exprs) == 0 && cur.Label == "" {
				cur.Label = stmt.Name
			} else {
				cur = g.newBlock(stmt.Name)
			}
			byLabel[stmt.Name] = cur
		default:
			if len(cur.Exprs) > 0 && ir.IsJump(cur.Exprs[len(cur.Exprs)-1]) {
				cur = g.newBlock("")
			}
			cur.Exprs = append(cur.Exprs, stmt)
		}
	}

	resolve := func(b *Block, label string) error {
		target, ok := byLabel[label]
		if !ok {
			return fmt.Errorf("%s: undefined label %q in %s", b.lastPos(), label, fn.Name)
		}
		b.Succs = append(b.Succs, target.Index)
		return nil
	}

	for _, b := range g.Blocks {
		var last ir.Expr
		if len(b.Exprs) > 0 {
			last = b.Exprs[len(b.Exprs)-1]
		}
		switch last := last.(type) {
		case *ir.GotoExpr:
			if err := resolve(b, last.Target); err != nil {
				return nil, err
			}
		case *ir.BranchExpr:
			if err := resolve(b, last.Then); err != nil {
				return nil, err
			}
			if err := resolve(b, last.Else); err != nil {
				return nil, err
			}
		default:
			if call, ok := last.(*ir.CallExpr); ok && call.IsPrim(ir.PrimReturn) {
				break
			}
			if b.Index+1 < len(g.Blocks) {
				b.Succs = append(b.Succs, b.Index+1)
			}
		}
	}

	for _, b := range g.Blocks {
		for _, s := range b.Succs {
			g.Blocks[s].Preds = append(g.Blocks[s].Preds, b.Index)
		}
	}
	return g, nil
}

func (g *Graph) newBlock(label string) *Block {
	b := &Block{Index: len(g.Blocks), Label: label}
	g.Blocks = append(g.Blocks, b)
	return b
}

func (b *Block) lastPos() ir.Pos {
	if len(b.Exprs) == 0 {
		return ir.Pos{}
	}
	return b.Exprs[len(b.Exprs)-1].ExprPos()
}

// BlockGraph exposes the successor relation as a generic graph over
// block indices, for traversal orders.
func (g *Graph) BlockGraph() graph.Graph[int] {
	return graph.OfHashable(func(node int) []int {
		return g.Blocks[node].Succs
	})
}

// Flush reassembles the function body from the (possibly mutated) block
// expression lists. Must be called after passes splice statements into
// blocks, so that the IR printed for the function reflects them.
func (g *Graph) Flush() {
	body := make([]ir.Expr, 0, len(g.Fn.Body))
	for _, b := range g.Blocks {
		if b.Label != "" {
			body = append(body, &ir.LabelExpr{Name: b.Label})
		}
		body = append(body, b.Exprs...)
	}
	g.Fn.Body = body
}

func (g *Graph) String() string {
	s := ""
	for _, b := range g.Blocks {
		s += fmt.Sprintf("b%d", b.Index)
		if b.Label != "" {
			s += fmt.Sprintf(" (%s)", b.Label)
		}
		s += fmt.Sprintf(" -> %v\n", b.Succs)
		for _, e := range b.Exprs {
			s += "  " + ir.StmtString(e) + "\n"
		}
	}
	return s
}
