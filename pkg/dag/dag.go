// Package dag implements the dependency graph behind publish planning.
//
// The graph is restricted to the crates named in a publish run: edges point
// from a crate to the in-set crates it depends on, so a valid publish order
// is one where every edge target precedes its source. Cycle detection and
// stable topological sorting are the two operations the planner needs.
package dag

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a cycle is detected.
	// This indicates the graph is not a valid DAG. Cycles are detected using
	// depth-first search with white/gray/black coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to nodes.
// It is commonly used to store crate metadata (version, path). Metadata
// maps are never nil - they are automatically initialized when needed.
type Metadata map[string]any

// Node represents a vertex in the dependency graph.
//
// The zero value is not usable - ID must be set before adding to a DAG.
type Node struct {
	ID   string   // Unique identifier (the crate name)
	Meta Metadata // Arbitrary key-value metadata (never nil after AddNode)
}

// Edge represents a directed dependency: From depends on To.
type Edge struct {
	From string // Dependent crate
	To   string // Dependency crate
}

// DAG is a directed acyclic graph of package dependencies.
//
// Insertion order of nodes is preserved and used by [DAG.StableTopoSort]
// to break ties deterministically. The zero value is not usable - use New
// to create a valid DAG instance. DAG is not safe for concurrent use
// without external synchronization.
type DAG struct {
	nodes    map[string]*Node
	order    []string // node IDs in insertion order
	edges    []Edge
	outgoing map[string][]string // nodeID -> dependency IDs
	incoming map[string][]string // nodeID -> dependent IDs
}

// New creates an empty DAG.
func New() *DAG {
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node to the graph.
// Returns ErrInvalidNodeID if the node ID is empty, or ErrDuplicateNodeID
// if a node with the same ID already exists. The node's Meta field is
// automatically initialized to an empty map if nil.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	d.nodes[node.ID] = node
	d.order = append(d.order, node.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode if the From node doesn't exist, or
// ErrUnknownTargetNode if the To node doesn't exist. Duplicate edges
// between the same nodes are ignored.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if slices.Contains(d.outgoing[e.From], e.To) {
		return nil
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// Node returns the node with the given ID and true, or nil and false if not found.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, 0, len(d.order))
	for _, id := range d.order {
		nodes = append(nodes, d.nodes[id])
	}
	return nodes
}

// Edges returns a copy of all edges in the graph in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Dependencies returns the IDs of nodes this node has edges to.
// The returned slice should not be modified - use it as a read-only view.
func (d *DAG) Dependencies(id string) []string { return d.outgoing[id] }

// Dependents returns the IDs of nodes that have edges to this node.
// The returned slice should not be modified - use it as a read-only view.
func (d *DAG) Dependents(id string) []string { return d.incoming[id] }

// Validate checks that the graph is acyclic and returns nil if valid.
// Returns ErrGraphHasCycle if a cycle is detected.
//
// Cycle detection runs in O(N+E) time using depth-first search.
func (d *DAG) Validate() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.nodes))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, dep := range d.outgoing[id] {
			switch color[dep] {
			case white:
				dfs(dep)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for _, id := range d.order {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

// StableTopoSort returns the node IDs in dependency order: every node
// appears after all of its dependencies. Ties are broken by insertion
// order, so the result is deterministic for a given build sequence.
//
// Returns ErrGraphHasCycle if no topological order exists.
func (d *DAG) StableTopoSort() ([]string, error) {
	// Kahn's algorithm over remaining out-degree: a node is ready when all
	// its dependencies have been emitted.
	remaining := make(map[string]int, len(d.nodes))
	for _, id := range d.order {
		remaining[id] = len(d.outgoing[id])
	}

	pos := make(map[string]int, len(d.order))
	for i, id := range d.order {
		pos[id] = i
	}

	var ready []string
	for _, id := range d.order {
		if remaining[id] == 0 {
			ready = append(ready, id)
		}
	}

	result := make([]string, 0, len(d.nodes))
	for len(ready) > 0 {
		// Pick the ready node that was inserted earliest.
		next := 0
		for i := 1; i < len(ready); i++ {
			if pos[ready[i]] < pos[ready[next]] {
				next = i
			}
		}
		id := ready[next]
		ready = slices.Delete(ready, next, next+1)
		result = append(result, id)

		for _, dependent := range d.incoming[id] {
			remaining[dependent]--
			if remaining[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(result) != len(d.nodes) {
		return nil, ErrGraphHasCycle
	}
	return result, nil
}

// IsTopoOrder reports whether the given sequence of node IDs is a valid
// topological order of the graph: every node's dependencies appear
// strictly before it. The sequence must contain exactly the graph's nodes.
func (d *DAG) IsTopoOrder(ids []string) bool {
	if len(ids) != len(d.nodes) {
		return false
	}
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, ok := d.nodes[id]; !ok {
			return false
		}
		if _, dup := pos[id]; dup {
			return false
		}
		pos[id] = i
	}
	for _, e := range d.edges {
		if pos[e.To] >= pos[e.From] {
			return false
		}
	}
	return true
}
