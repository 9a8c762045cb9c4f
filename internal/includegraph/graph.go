package includegraph

import (
	"fmt"
	"sync"
)

// Graph is a collection of fragments and their include edges. All
// operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all fragments in the graph, keyed by canonical path.
	nodes map[string]*node
	// order records insertion order so traversals are deterministic.
	order []string
}

// node represents a single fragment in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using path
// strings), not by direct struct manipulation.
type node struct {
	// path is the fragment's canonical path.
	path string
	// includes holds the fragments this node includes, in directive order.
	includes []*node
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode registers a fragment path in the graph. If the path is already
// registered, the function does nothing.
func (g *Graph) AddNode(path string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[path]; ok {
		return
	}

	g.nodes[path] = &node{path: path}
	g.order = append(g.order, path)
}

// AddEdge records that the fragment at fromPath includes the fragment at
// toPath. An error is returned if either fragment is not registered or if
// the edge would be a self-include.
func (g *Graph) AddEdge(fromPath, toPath string) error {
	if fromPath == toPath {
		return fmt.Errorf("fragment %q includes itself", fromPath)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromPath]
	if !ok {
		return fmt.Errorf("including fragment not registered: %s", fromPath)
	}

	toNode, ok := g.nodes[toPath]
	if !ok {
		return fmt.Errorf("included fragment not registered: %s", toPath)
	}

	fromNode.includes = append(fromNode.includes, toNode)
	return nil
}

// Len returns the number of registered fragments.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

// DetectCycle checks the graph for circular includes. It returns the
// fragments on the first cycle found, in include order with the entry
// fragment repeated at the end, or nil when the graph is acyclic.
func (g *Graph) DetectCycle() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Classic depth-first search with three sets of nodes:
	// permanent: fully visited, known not to be on a cycle.
	// temporary: currently on the recursion stack.
	// unvisited: everything else.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)
	var stack []string

	var visit func(n *node) []string
	visit = func(n *node) []string {
		if permanent[n.path] {
			return nil
		}
		if temporary[n.path] {
			// The node is already on the recursion stack: unwind the stack
			// back to its first occurrence to report the cycle itself, not
			// the path that led to it.
			for i, p := range stack {
				if p == n.path {
					return append(append([]string(nil), stack[i:]...), n.path)
				}
			}
			return []string{n.path, n.path}
		}

		temporary[n.path] = true
		stack = append(stack, n.path)

		for _, inc := range n.includes {
			if cycle := visit(inc); cycle != nil {
				return cycle
			}
		}

		stack = stack[:len(stack)-1]
		delete(temporary, n.path)
		permanent[n.path] = true
		return nil
	}

	for _, path := range g.order {
		if !permanent[path] {
			if cycle := visit(g.nodes[path]); cycle != nil {
				return cycle
			}
		}
	}

	return nil
}
