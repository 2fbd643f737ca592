package dataflow_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrel-lang/kestrel/analysis/dataflow"
	"github.com/kestrel-lang/kestrel/testutil"
)

// A diamond: b0 branches to b1/b2, which join in b3. Bit 0 is generated
// in b0 and killed on the b1 arm, so the join cannot rely on it.
func TestForwardDiamond(t *testing.T) {
	prog := testutil.ParseProg(t, `
primitive bool

func f {
  local c bool
  branch c b1 b2
b1:
  goto b3
b2:
  goto b3
b3:
  return
}
`)
	g := testutil.BuildCFG(t, testutil.MustFn(t, prog, "f"))
	require.Len(t, g.Blocks, 4)

	gen := dataflow.NewFlowSet(4, 1)
	kill := dataflow.NewFlowSet(4, 1)
	gen[0].Set(0)
	kill[1].Set(0)

	in, out := dataflow.Forward(g, gen, kill)

	require.True(t, in[1].Get(0))
	require.True(t, in[2].Get(0))
	require.False(t, in[3].Get(0), "the join must not rely on a bit killed on one arm")

	// Demanded exit sets: the branch arms cannot pass the bit on.
	require.True(t, out[0].Get(0))
	require.False(t, out[1].Get(0))
	require.False(t, out[2].Get(0))
	require.False(t, out[3].Get(0), "exit blocks demand nothing")
}

// A loop must not lose ownership that is merely carried around it: the
// solver has to start non-entry blocks at top and converge downward.
func TestForwardLoopCarried(t *testing.T) {
	prog := testutil.ParseProg(t, `
primitive bool

func f {
  local c bool
b1:
  branch c b1 b2
b2:
  return
}
`)
	g := testutil.BuildCFG(t, testutil.MustFn(t, prog, "f"))
	require.Len(t, g.Blocks, 3)

	gen := dataflow.NewFlowSet(3, 1)
	kill := dataflow.NewFlowSet(3, 1)
	gen[0].Set(0)

	in, out := dataflow.Forward(g, gen, kill)

	require.True(t, in[1].Get(0), "ownership must survive the loop header")
	require.True(t, in[2].Get(0))
	require.True(t, out[0].Get(0))
	require.True(t, out[1].Get(0))
	require.False(t, out[2].Get(0))
}

// Kill on the loop back edge: after one traversal the bit is gone, so
// the header cannot rely on it.
func TestForwardLoopKilled(t *testing.T) {
	prog := testutil.ParseProg(t, `
primitive bool

func f {
  local c bool
b1:
  branch c b1 b2
b2:
  return
}
`)
	g := testutil.BuildCFG(t, testutil.MustFn(t, prog, "f"))

	gen := dataflow.NewFlowSet(3, 1)
	kill := dataflow.NewFlowSet(3, 1)
	gen[0].Set(0)
	kill[1].Set(0)

	in, _ := dataflow.Forward(g, gen, kill)

	require.False(t, in[1].Get(0))
	require.False(t, in[2].Get(0))
}
