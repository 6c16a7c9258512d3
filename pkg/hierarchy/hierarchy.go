// Package hierarchy converts the flat node and adjacency maps of a business
// network into a single rooted tree suitable for layered layout.
//
// The builder is defensive by design: dangling edge references are dropped,
// cycles are broken at the second encounter of a node, a forest is collapsed
// under a synthetic virtual root, and a rootless (fully cyclic) network falls
// back to a deterministically chosen entry node. None of these conditions is
// an error; the only failure mode is an empty input.
package hierarchy

import (
	"context"
	"errors"
	"slices"

	"github.com/BurakErdilli/biznet-analyzer/pkg/network"
	"github.com/BurakErdilli/biznet-analyzer/pkg/observability"
)

// ErrEmptyNetwork is returned by [Build] when the node map is empty.
// An empty network has no tree representation; callers render a placeholder
// instead.
var ErrEmptyNetwork = errors.New("network has no nodes")

// VirtualRootID is the ID of the synthetic root inserted when multiple true
// roots exist. It carries no analytics and must be excluded from user-facing
// selection and statistics.
const VirtualRootID = "__network__"

// Position is a 2D layout coordinate. Positions are assigned by a layout
// pass after the tree is built and are ephemeral per render.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one vertex of the built tree.
//
// Payload points at the underlying network node and is nil only for the
// virtual root. Children are ordered: edge insertion order for real nodes,
// root discovery order for the virtual root.
type Node struct {
	ID       string
	Payload  *network.Node
	Children []*Node
	Pos      Position
	Virtual  bool
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Walk calls fn for the node and every descendant in depth-first preorder.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Size returns the number of nodes in the subtree, including the node itself.
func (n *Node) Size() int {
	total := 1
	for _, c := range n.Children {
		total += c.Size()
	}
	return total
}

// Tree is the result of a hierarchy build: a single root plus an ID index
// over every placed node. The index includes the virtual root when present.
type Tree struct {
	Root  *Node
	Index map[string]*Node

	// Degraded is true when the build found no root candidates and fell
	// back to a deterministically chosen node.
	Degraded bool
}

// Node returns the tree node with the given ID and true, or nil and false.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.Index[id]
	return n, ok
}

// Subtree returns a new tree rooted at the given node. The returned tree
// shares node structs with the receiver; it narrows the index to the
// subtree. Returns false when the ID is not in the tree.
func (t *Tree) Subtree(id string) (*Tree, bool) {
	root, ok := t.Index[id]
	if !ok {
		return nil, false
	}
	sub := &Tree{Root: root, Index: make(map[string]*Node), Degraded: t.Degraded}
	root.Walk(func(n *Node) { sub.Index[n.ID] = n })
	return sub, true
}

// Descendants returns the IDs of every node below id in the tree, in
// depth-first preorder. The node itself is not included. Unknown IDs yield
// an empty slice.
func (t *Tree) Descendants(id string) []string {
	n, ok := t.Index[id]
	if !ok {
		return nil
	}
	var out []string
	for _, c := range n.Children {
		c.Walk(func(d *Node) { out = append(out, d.ID) })
	}
	return out
}

// Build constructs a rooted tree from a flat node map and an adjacency map
// of parent to weighted child edges.
//
// Root candidates are the nodes whose Parents list is empty, discovered in
// ascending ID order. Exactly one candidate becomes the root directly; more
// than one is collapsed under a virtual root whose children are the
// candidate subtrees in discovery order. Zero candidates with a non-empty
// node map is the degraded case: the lexicographically smallest ID is
// chosen, so repeated calls with identical input yield identical trees.
//
// Each node is placed at most once. An edge whose target is missing from
// the node map, or already placed (a cycle or a diamond in the underlying
// DAG), is dropped and reported through the observability hooks. Build has
// no side effects on its inputs and runs in O(N + E) after the candidate
// sort.
func Build(nodes map[string]*network.Node, edges map[string][]network.Edge) (*Tree, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyNetwork
	}

	var candidates []string
	for id, n := range nodes {
		if n == nil || len(n.Parents) == 0 {
			candidates = append(candidates, id)
		}
	}
	slices.Sort(candidates)

	t := &Tree{Index: make(map[string]*Node, len(nodes))}

	if len(candidates) == 0 {
		fallback := ""
		for id := range nodes {
			if fallback == "" || id < fallback {
				fallback = id
			}
		}
		candidates = []string{fallback}
		t.Degraded = true
		observability.Network().OnDegradedRoot(context.Background(), fallback, len(nodes))
	}

	visited := make(map[string]bool, len(nodes))

	var build func(id string) *Node
	build = func(id string) *Node {
		visited[id] = true
		tn := &Node{ID: id, Payload: nodes[id]}
		t.Index[id] = tn
		for _, e := range edges[id] {
			if _, ok := nodes[e.To]; !ok {
				observability.Network().OnDroppedEdge(context.Background(), id, e.To, "missing target")
				continue
			}
			if visited[e.To] {
				observability.Network().OnDroppedEdge(context.Background(), id, e.To, "already placed")
				continue
			}
			tn.Children = append(tn.Children, build(e.To))
		}
		return tn
	}

	if len(candidates) == 1 {
		t.Root = build(candidates[0])
		return t, nil
	}

	root := &Node{ID: VirtualRootID, Virtual: true}
	for _, id := range candidates {
		if visited[id] {
			continue
		}
		root.Children = append(root.Children, build(id))
	}
	t.Root = root
	t.Index[VirtualRootID] = root
	return t, nil
}

// FromNetwork builds the tree for a live network.
func FromNetwork(n *network.Network) (*Tree, error) {
	nodes := make(map[string]*network.Node, n.NodeCount())
	edges := make(map[string][]network.Edge, n.NodeCount())
	for _, node := range n.Nodes() {
		nodes[node.ID] = node
		edges[node.ID] = n.Children(node.ID)
	}
	return Build(nodes, edges)
}
