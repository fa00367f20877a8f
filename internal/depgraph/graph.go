// Package depgraph orders messages so every message is declared after the
// messages it contains.
package depgraph

// Graph is a directed graph of message names. An edge from A to B means A
// contains B, so B must be declared first. Nodes and successors keep their
// insertion order, which makes the emission order deterministic.
type Graph struct {
	nodes      []string
	successors map[string][]string
	inDegree   map[string]int
	edges      map[edge]struct{}
}

type edge struct {
	from, to string
}

func New() *Graph {
	return &Graph{
		successors: map[string][]string{},
		inDegree:   map[string]int{},
		edges:      map[edge]struct{}{},
	}
}

func (g *Graph) AddNode(name string) {
	if _, ok := g.inDegree[name]; ok {
		return
	}
	g.inDegree[name] = 0
	g.nodes = append(g.nodes, name)
}

// AddEdge adds from -> to, adding either node if missing. Repeated edges are
// stored once.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	e := edge{from: from, to: to}
	if _, ok := g.edges[e]; ok {
		return
	}
	g.edges[e] = struct{}{}
	g.successors[from] = append(g.successors[from], to)
	g.inDegree[to]++
}

func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Successors returns the nodes name depends on.
func (g *Graph) Successors(name string) []string {
	out := make([]string, len(g.successors[name]))
	copy(out, g.successors[name])
	return out
}

func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edges[edge{from: from, to: to}]
	return ok
}

// InDegree is the number of nodes which depend on name.
func (g *Graph) InDegree(name string) int {
	return g.inDegree[name]
}

func (g *Graph) Len() int {
	return len(g.nodes)
}
