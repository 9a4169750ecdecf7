package graph

import (
	"fmt"
	"maps"
	"slices"
)

// EdgeKind says how one component refers to another.
type EdgeKind uint8

const (
	// Construct edges are followed before the referring component exists.
	Construct EdgeKind = iota
	// Inject edges are followed after construction, during property injection.
	Inject
)

func (k EdgeKind) String() string {
	if k == Inject {
		return "inject"
	}
	return "construct"
}

// Edge is a reference from one component to another.
type Edge struct {
	To   string
	Kind EdgeKind
}

// Node is a component in the dependency graph.
type Node struct {
	Name      string
	Singleton bool
	Abstract  bool
	Edges     []Edge
}

// DependencyGraph records name-based references between components.
// It is not safe for concurrent use.
type DependencyGraph struct {
	nodes map[string]*Node
}

// NewDependencyGraph creates an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{nodes: make(map[string]*Node)}
}

// AddNode adds or updates a node. Existing edges are kept.
func (g *DependencyGraph) AddNode(name string, singleton, abstract bool) *Node {
	n := g.node(name)
	n.Singleton = singleton
	n.Abstract = abstract
	return n
}

// AddEdge records that from refers to to. Unknown endpoints are created.
func (g *DependencyGraph) AddEdge(from, to string, kind EdgeKind) {
	n := g.node(from)
	g.node(to)

	for _, e := range n.Edges {
		if e.To == to && e.Kind == kind {
			return
		}
	}
	n.Edges = append(n.Edges, Edge{To: to, Kind: kind})
}

// Node returns the named node.
func (g *DependencyGraph) Node(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Names returns all node names in sorted order.
func (g *DependencyGraph) Names() []string {
	return slices.Sorted(maps.Keys(g.nodes))
}

func (g *DependencyGraph) node(name string) *Node {
	n, ok := g.nodes[name]
	if !ok {
		n = &Node{Name: name}
		g.nodes[name] = n
	}
	return n
}

// hazardous reports whether following e out of n can recurse without end.
// A singleton is cached before its properties are injected, so its inject
// edges always terminate.
func hazardous(n *Node, e Edge) bool {
	return !(n.Singleton && e.Kind == Inject)
}

// DetectCycles returns a CircularDependencyError for the first cycle that has
// no terminating edge, visiting nodes in sorted order.
func (g *DependencyGraph) DetectCycles() error {
	const (
		unvisited = iota
		visiting
		done
	)

	state := make(map[string]int, len(g.nodes))
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		state[name] = visiting
		stack = append(stack, name)

		n := g.nodes[name]
		for _, e := range sortedEdges(n) {
			if !hazardous(n, e) {
				continue
			}

			switch state[e.To] {
			case visiting:
				start := slices.Index(stack, e.To)
				return CircularDependencyError{
					Node: e.To,
					Path: slices.Clone(stack[start:]),
				}
			case unvisited:
				if err := visit(e.To); err != nil {
					return err
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[name] = done
		return nil
	}

	for _, name := range g.Names() {
		if state[name] == unvisited {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// TopologicalSort returns node names with dependencies before dependents,
// considering construct edges and the inject edges of non-singletons.
// Ties are broken by name.
func (g *DependencyGraph) TopologicalSort() ([]string, error) {
	// Kahn's algorithm over reversed edges: a node is ready once all of its
	// dependencies have been emitted.
	remaining := make(map[string]int, len(g.nodes))
	dependents := make(map[string][]string, len(g.nodes))
	for name, n := range g.nodes {
		for _, e := range n.Edges {
			if !hazardous(n, e) {
				continue
			}
			remaining[name]++
			dependents[e.To] = append(dependents[e.To], name)
		}
	}

	var queue []string
	for _, name := range g.Names() {
		if remaining[name] == 0 {
			queue = append(queue, name)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		next := dependents[current]
		slices.Sort(next)
		for _, d := range next {
			remaining[d]--
			if remaining[d] == 0 {
				queue = append(queue, d)
			}
		}
	}

	if len(result) != len(g.nodes) {
		if err := g.DetectCycles(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("circular dependency detected: graph contains %d nodes but only %d could be sorted",
			len(g.nodes), len(result))
	}

	return result, nil
}

func sortedEdges(n *Node) []Edge {
	edges := slices.Clone(n.Edges)
	slices.SortFunc(edges, func(a, b Edge) int {
		if a.To != b.To {
			if a.To < b.To {
				return -1
			}
			return 1
		}
		return int(a.Kind) - int(b.Kind)
	})
	return edges
}
