package depgraph

import (
	"github.com/pentops/protomodel/internal/schema"
)

type mark int

const (
	unvisited mark = iota
	inProgress
	done
)

// Order returns every node exactly once, each after all of its successors.
// Walks start from the nodes nothing depends on; remaining nodes are walked
// afterwards so that a cycle with no entry point is still found. A cycle is
// returned as *schema.CycleError.
func (g *Graph) Order() ([]string, error) {
	ww := &orderWalker{
		graph: g,
		marks: make(map[string]mark, len(g.nodes)),
		order: make([]string, 0, len(g.nodes)),
	}

	for _, node := range g.nodes {
		if g.inDegree[node] != 0 {
			continue
		}
		if err := ww.visit(node); err != nil {
			return nil, err
		}
	}

	for _, node := range g.nodes {
		if ww.marks[node] != unvisited {
			continue
		}
		if err := ww.visit(node); err != nil {
			return nil, err
		}
	}

	return ww.order, nil
}

type orderWalker struct {
	graph *Graph
	marks map[string]mark
	stack []string
	order []string
}

func (ww *orderWalker) visit(node string) error {
	ww.marks[node] = inProgress
	ww.stack = append(ww.stack, node)

	for _, next := range ww.graph.successors[node] {
		switch ww.marks[next] {
		case done:
			continue
		case inProgress:
			return ww.cycle(next)
		}
		if err := ww.visit(next); err != nil {
			return err
		}
	}

	ww.stack = ww.stack[:len(ww.stack)-1]
	ww.marks[node] = done
	ww.order = append(ww.order, node)
	return nil
}

// cycle builds the error for a walk which reached start while start was
// still on the stack.
func (ww *orderWalker) cycle(start string) error {
	idx := len(ww.stack) - 1
	for idx > 0 && ww.stack[idx] != start {
		idx--
	}
	members := make([]string, 0, len(ww.stack)-idx+1)
	members = append(members, ww.stack[idx:]...)
	members = append(members, start)
	return &schema.CycleError{Messages: members}
}
