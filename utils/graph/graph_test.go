package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPostorderChain(t *testing.T) {
	edges := map[int][]int{0: {1}, 1: {2}, 2: nil}
	G := OfHashable(func(n int) []int { return edges[n] })

	require.Equal(t, []int{2, 1, 0}, G.Postorder(0))
}

func TestPostorderDiamond(t *testing.T) {
	edges := map[int][]int{0: {1, 2}, 1: {3}, 2: {3}, 3: nil}
	G := OfHashable(func(n int) []int { return edges[n] })

	post := G.Postorder(0)
	require.Len(t, post, 4)
	require.Equal(t, 0, post[3], "the root comes last")
	require.Equal(t, 3, post[0], "the join comes first")
}

func TestPostorderCycle(t *testing.T) {
	edges := map[int][]int{0: {1}, 1: {0, 2}, 2: nil}
	G := OfHashable(func(n int) []int { return edges[n] })

	post := G.Postorder(0)
	require.Len(t, post, 3)
	require.Equal(t, 0, post[2])
}

func TestEdgesCached(t *testing.T) {
	calls := 0
	G := OfHashable(func(n int) []int {
		calls++
		return nil
	})
	G.Edges(7)
	G.Edges(7)
	require.Equal(t, 1, calls)
}
