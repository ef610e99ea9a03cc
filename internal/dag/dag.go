// Package dag provides directed graph operations for model object dependencies.
// It supports cycle detection, topological ordering and depth-limited traversal
// upstream (dependencies) and downstream (dependents).
package dag

import (
	"fmt"
	"sort"
)

// Node represents a node in the graph.
type Node struct {
	// ID is the unique identifier, e.g. "Sales[Total Sales]"
	ID string
	// Object describes the model object behind the node
	Object Object
}

// Graph is a directed graph where an edge parent -> child means child depends on parent.
// It is not safe for concurrent mutation; build it once and share it read-only.
type Graph struct {
	nodes    map[string]*Node
	children map[string][]string // parent -> dependents
	parents  map[string][]string // child -> dependencies
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		children: make(map[string][]string),
		parents:  make(map[string][]string),
	}
}

// AddNode adds a node, or replaces the object of an existing one.
func (g *Graph) AddNode(id string, obj Object) {
	if n, ok := g.nodes[id]; ok {
		n.Object = obj
		return
	}
	g.nodes[id] = &Node{ID: id, Object: obj}
}

// AddEdge records that child depends on parent. Both nodes must exist and differ.
func (g *Graph) AddEdge(parentID, childID string) error {
	if _, ok := g.nodes[parentID]; !ok {
		return fmt.Errorf("parent node %q does not exist", parentID)
	}
	if _, ok := g.nodes[childID]; !ok {
		return fmt.Errorf("child node %q does not exist", childID)
	}
	if parentID == childID {
		return fmt.Errorf("self-loop detected: %s", parentID)
	}
	g.children[parentID] = appendUnique(g.children[parentID], childID)
	g.parents[childID] = appendUnique(g.parents[childID], parentID)
	return nil
}

// GetNode returns a node by ID.
func (g *Graph) GetNode(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// GetParents returns the direct dependencies of a node.
func (g *Graph) GetParents(id string) []string {
	return g.parents[id]
}

// GetChildren returns the direct dependents of a node.
func (g *Graph) GetChildren(id string) []string {
	return g.children[id]
}

// Nodes returns all nodes sorted by ID.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, id := range g.sortedIDs() {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns every edge as a [parent, child] pair, sorted.
func (g *Graph) Edges() [][2]string {
	var out [][2]string
	for _, parent := range g.sortedIDs() {
		kids := append([]string(nil), g.children[parent]...)
		sort.Strings(kids)
		for _, child := range kids {
			out = append(out, [2]string{parent, child})
		}
	}
	return out
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, kids := range g.children {
		n += len(kids)
	}
	return n
}

// FindCycle returns one cycle as a closed path (first element repeated at the end),
// or nil when the graph is acyclic.
func (g *Graph) FindCycle() []string {
	const (
		unvisited = iota
		onStack
		done
	)
	state := make(map[string]int, len(g.nodes))
	var stack []string
	var cycle []string

	var visit func(id string) bool
	visit = func(id string) bool {
		state[id] = onStack
		stack = append(stack, id)
		for _, child := range g.children[id] {
			switch state[child] {
			case onStack:
				for i, s := range stack {
					if s == child {
						cycle = append(append([]string{}, stack[i:]...), child)
						break
					}
				}
				return true
			case unvisited:
				if visit(child) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
		return false
	}

	for _, id := range g.sortedIDs() {
		if state[id] == unvisited && visit(id) {
			return cycle
		}
	}
	return nil
}

// TopologicalSort returns nodes with dependencies before dependents. Nodes that are
// ready at the same time come out in ID order. Returns an error on a cycle.
func (g *Graph) TopologicalSort() ([]*Node, error) {
	levels, err := g.Levels()
	if err != nil {
		return nil, err
	}
	out := make([]*Node, 0, len(g.nodes))
	for _, level := range levels {
		for _, id := range level {
			out = append(out, g.nodes[id])
		}
	}
	return out, nil
}

// Levels groups nodes by dependency depth: level 0 holds nodes without dependencies,
// level N nodes whose deepest dependency sits on level N-1.
func (g *Graph) Levels() ([][]string, error) {
	if cycle := g.FindCycle(); cycle != nil {
		return nil, fmt.Errorf("cycle detected: %v", cycle)
	}

	pending := make(map[string]int, len(g.nodes))
	var ready []string
	for id := range g.nodes {
		pending[id] = len(g.parents[id])
		if pending[id] == 0 {
			ready = append(ready, id)
		}
	}

	var levels [][]string
	for len(ready) > 0 {
		sort.Strings(ready)
		levels = append(levels, ready)
		var next []string
		for _, id := range ready {
			for _, child := range g.children[id] {
				pending[child]--
				if pending[child] == 0 {
					next = append(next, child)
				}
			}
		}
		ready = next
	}
	return levels, nil
}

// Upstream returns the dependencies of id, transitively, up to maxDepth hops
// (0 means unlimited). The result is sorted and excludes id.
func (g *Graph) Upstream(id string, maxDepth int) []string {
	return g.walk(id, maxDepth, g.parents)
}

// Downstream returns the dependents of id, transitively, up to maxDepth hops
// (0 means unlimited). The result is sorted and excludes id.
func (g *Graph) Downstream(id string, maxDepth int) []string {
	return g.walk(id, maxDepth, g.children)
}

// walk is a breadth-first traversal along next.
func (g *Graph) walk(id string, maxDepth int, next map[string][]string) []string {
	seen := map[string]bool{id: true}
	frontier := []string{id}
	var out []string
	for depth := 1; len(frontier) > 0 && (maxDepth == 0 || depth <= maxDepth); depth++ {
		var following []string
		for _, cur := range frontier {
			for _, n := range next[cur] {
				if seen[n] {
					continue
				}
				seen[n] = true
				out = append(out, n)
				following = append(following, n)
			}
		}
		frontier = following
	}
	sort.Strings(out)
	return out
}

// GetRoots returns nodes with no dependencies.
func (g *Graph) GetRoots() []string {
	var out []string
	for _, id := range g.sortedIDs() {
		if len(g.parents[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// GetLeaves returns nodes nothing depends on.
func (g *Graph) GetLeaves() []string {
	var out []string
	for _, id := range g.sortedIDs() {
		if len(g.children[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Subgraph returns a new graph holding only the given nodes and the edges between them.
func (g *Graph) Subgraph(ids []string) *Graph {
	sub := NewGraph()
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		if n, ok := g.nodes[id]; ok {
			keep[id] = true
			sub.AddNode(id, n.Object)
		}
	}
	for id := range keep {
		for _, child := range g.children[id] {
			if keep[child] {
				_ = sub.AddEdge(id, child)
			}
		}
	}
	return sub
}

// Neighborhood returns the subgraph around id: the node itself plus its upstream and
// downstream objects within maxDepth hops.
func (g *Graph) Neighborhood(id string, maxDepth int, upstream, downstream bool) *Graph {
	ids := []string{id}
	if upstream {
		ids = append(ids, g.Upstream(id, maxDepth)...)
	}
	if downstream {
		ids = append(ids, g.Downstream(id, maxDepth)...)
	}
	return g.Subgraph(ids)
}

func (g *Graph) sortedIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
