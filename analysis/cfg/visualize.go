package cfg

import (
	"fmt"
	"strings"

	"github.com/kestrel-lang/kestrel/ir"
	"github.com/kestrel-lang/kestrel/utils"
	"github.com/kestrel-lang/kestrel/utils/dot"
)

var opts = utils.Opts()

// Visualize renders the CFGs of the given functions to an image file,
// one cluster per function, and returns the output path.
func Visualize(graphs []*Graph) (string, error) {
	G := &dot.DotGraph{
		Options: map[string]string{
			"minlen":  fmt.Sprint(opts.Minlen()),
			"nodesep": fmt.Sprint(opts.Nodesep()),
			"rankdir": "TB",
		},
	}

	for _, g := range graphs {
		G.Clusters = append(G.Clusters, g.cluster(G))
	}

	return G.Render(opts.OutputName(), opts.OutputFormat())
}

func (g *Graph) cluster(G *dot.DotGraph) *dot.DotCluster {
	cluster := dot.NewDotCluster(g.Fn.Name)
	cluster.Attrs = dot.DotAttrs{
		"label":   g.Fn.Name,
		"bgcolor": "#e6ecfa",
	}

	nodes := make([]*dot.DotNode, len(g.Blocks))
	for _, b := range g.Blocks {
		nodes[b.Index] = &dot.DotNode{
			ID: fmt.Sprintf("%s.b%d", g.Fn.Name, b.Index),
			Attrs: dot.DotAttrs{
				"label": b.dotLabel(),
			},
		}
		cluster.Nodes = append(cluster.Nodes, nodes[b.Index])
	}

	for _, b := range g.Blocks {
		for _, s := range b.Succs {
			G.Edges = append(G.Edges, &dot.DotEdge{
				From: nodes[b.Index],
				To:   nodes[s],
			})
		}
	}
	return cluster
}

func (b *Block) dotLabel() string {
	lines := []string{fmt.Sprintf("b%d:", b.Index)}
	for _, e := range b.Exprs {
		lines = append(lines, ir.StmtString(e))
	}
	return strings.Join(lines, "\\l") + "\\l"
}
