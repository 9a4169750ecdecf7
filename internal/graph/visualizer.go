package graph

import (
	"fmt"
	"io"
	"strings"
)

// Visualizer provides methods to visualize the dependency graph
type Visualizer struct {
	graph *DependencyGraph
}

// NewVisualizer creates a new graph visualizer
func NewVisualizer(graph *DependencyGraph) *Visualizer {
	return &Visualizer{graph: graph}
}

// WriteDOT writes the graph in Graphviz DOT format. Inject edges are dashed.
func (v *Visualizer) WriteDOT(w io.Writer) error {
	var b strings.Builder

	b.WriteString("digraph dependencies {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box];\n")

	for _, name := range v.graph.Names() {
		n := v.graph.nodes[name]
		fmt.Fprintf(&b, "  %q [fillcolor=%q, style=%q];\n", name, v.getNodeColor(n), v.getNodeStyle(n))
	}

	for _, name := range v.graph.Names() {
		for _, e := range sortedEdges(v.graph.nodes[name]) {
			if e.Kind == Inject {
				fmt.Fprintf(&b, "  %q -> %q [style=dashed];\n", name, e.To)
			} else {
				fmt.Fprintf(&b, "  %q -> %q;\n", name, e.To)
			}
		}
	}

	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// getNodeColor returns a color based on how the component is cached
func (v *Visualizer) getNodeColor(n *Node) string {
	switch {
	case n.Abstract:
		return "lightgray"
	case n.Singleton:
		return "lightblue"
	default:
		return "lightyellow"
	}
}

func (v *Visualizer) getNodeStyle(n *Node) string {
	if n.Abstract {
		return "filled,dotted"
	}
	return "filled"
}
