package network

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/BurakErdilli/biznet-analyzer/pkg/errors"
)

// DefaultNodeValue is the value assigned to nodes created without an
// explicit value.
const DefaultNodeValue = 1000.0

// Settings holds the tunable analysis parameters.
type Settings struct {
	// MinChildrenThreshold is the number of direct children a node needs
	// before it stops being flagged as a chokepoint. Minimum 1.
	MinChildrenThreshold int `json:"min_children_threshold"`

	// BalanceFactor weights how strongly uneven subtree sizes reduce a
	// node's balance score. 0 disables the penalty, 1 applies it fully.
	BalanceFactor float64 `json:"balance_factor"`
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{MinChildrenThreshold: 2, BalanceFactor: 0.5}
}

// Node represents a participant in the business network together with its
// analytics. All fields except ID, Parents, and Value are derived and
// overwritten on every metric recomputation.
type Node struct {
	ID      string   `json:"id"`
	Parents []string `json:"parents"`
	Value   float64  `json:"value"`

	Depth               int     `json:"depth"`
	ChildrenCount       int     `json:"children_count"`
	TotalChildren       int     `json:"total_children"`
	Profit              float64 `json:"profit"`
	Criticality         float64 `json:"criticality"`
	BalanceScore        float64 `json:"balance_score"`
	IsChokepoint        bool    `json:"is_chokepoint"`
	NeededChildren      int     `json:"needed_children"`
	SuggestedChildCount int     `json:"suggested_child_count"`
}

// Edge is a weighted child reference. Edges are stored keyed by parent ID,
// so only the target and capacity appear here. On the wire an edge is the
// two-element tuple [to, capacity].
type Edge struct {
	To       string
	Capacity float64
}

// Network is the in-memory business network: a node map plus a weighted
// adjacency map keyed by parent ID. A node may have multiple parents, so
// the structure is a DAG rather than a strict tree.
//
// The zero value is not usable - use New to create a valid instance.
// Network is not safe for concurrent use without external synchronization.
type Network struct {
	nodes    map[string]*Node
	adj      map[string][]Edge
	settings Settings
	maxDepth int
}

// New creates an empty network with the given settings.
// A threshold below 1 is raised to 1; a balance factor outside [0, 1]
// is clamped.
func New(settings Settings) *Network {
	if settings.MinChildrenThreshold < 1 {
		settings.MinChildrenThreshold = 1
	}
	settings.BalanceFactor = min(max(settings.BalanceFactor, 0), 1)
	return &Network{
		nodes:    make(map[string]*Node),
		adj:      make(map[string][]Edge),
		settings: settings,
	}
}

// Settings returns the current analysis settings.
func (n *Network) Settings() Settings { return n.settings }

// SetSettings replaces the analysis settings and recomputes all metrics.
func (n *Network) SetSettings(s Settings) error {
	if err := errors.ValidateSettings(s.MinChildrenThreshold, s.BalanceFactor); err != nil {
		return err
	}
	n.settings = s
	n.recompute()
	return nil
}

// NodeCount returns the number of nodes in the network.
func (n *Network) NodeCount() int { return len(n.nodes) }

// EdgeCount returns the total number of parent→child edges.
func (n *Network) EdgeCount() int {
	total := 0
	for _, edges := range n.adj {
		total += len(edges)
	}
	return total
}

// MaxDepth returns the depth of the deepest node, 0 for an empty network.
func (n *Network) MaxDepth() int { return n.maxDepth }

// Node returns the node with the given ID and true, or nil and false if not
// found. The returned pointer refers to the actual node, so callers must
// not mutate it.
func (n *Network) Node(id string) (*Node, bool) {
	node, ok := n.nodes[id]
	return node, ok
}

// Nodes returns all nodes sorted by ID for deterministic iteration.
func (n *Network) Nodes() []*Node {
	nodes := make([]*Node, 0, len(n.nodes))
	for _, node := range n.nodes {
		nodes = append(nodes, node)
	}
	slices.SortFunc(nodes, func(a, b *Node) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return nodes
}

// Children returns the outgoing edges of the node in insertion order.
// The returned slice should not be modified.
func (n *Network) Children(id string) []Edge { return n.adj[id] }

// ChildIDs returns the IDs of the node's direct children in edge order.
func (n *Network) ChildIDs(id string) []string {
	edges := n.adj[id]
	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[i] = e.To
	}
	return ids
}

// Descendants returns every node reachable from id via child edges, in
// breadth-first discovery order. The node itself is not included.
// Unknown IDs yield an empty slice.
func (n *Network) Descendants(id string) []string {
	if _, ok := n.nodes[id]; !ok {
		return nil
	}
	var order []string
	seen := map[string]bool{id: true}
	queue := n.ChildIDs(id)
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		if seen[curr] {
			continue
		}
		if _, ok := n.nodes[curr]; !ok {
			continue
		}
		seen[curr] = true
		order = append(order, curr)
		queue = append(queue, n.ChildIDs(curr)...)
	}
	return order
}

// AddNode adds a new node under parentID and returns its final ID.
//
// The first node in an empty network is the root and needs no parent; after
// that a parent is required and adding a second root is rejected. When
// nodeID is empty an ID is generated from the parent and its child count
// (e.g. "root.3"); explicitly provided IDs that collide are suffixed with
// "_1", "_2", ... until unique. A nil value defaults to DefaultNodeValue.
//
// All metrics are recomputed before returning.
func (n *Network) AddNode(parentID, nodeID string, value *float64) (string, error) {
	isFirst := len(n.nodes) == 0

	switch {
	case parentID == "" && !isFirst:
		return "", errors.New(errors.ErrCodeRootExists,
			"cannot add multiple root nodes; specify a parent_id")
	case parentID != "":
		if _, ok := n.nodes[parentID]; !ok {
			return "", errors.New(errors.ErrCodeInvalidInput,
				"parent node %q does not exist", parentID)
		}
	}

	var finalID string
	if nodeID == "" {
		if isFirst {
			finalID = "root"
		} else {
			finalID = n.uniqueID(fmt.Sprintf("%s.%d", parentID, len(n.adj[parentID])+1))
		}
	} else {
		if err := errors.ValidateNodeID(nodeID); err != nil {
			return "", err
		}
		finalID = n.uniqueID(nodeID)
	}

	v := DefaultNodeValue
	if value != nil {
		if err := errors.ValidateValue(*value); err != nil {
			return "", err
		}
		v = *value
	}

	node := &Node{ID: finalID, Parents: []string{}, Value: v}
	n.nodes[finalID] = node
	if _, ok := n.adj[finalID]; !ok {
		n.adj[finalID] = nil
	}

	if parentID != "" {
		n.adj[parentID] = append(n.adj[parentID], Edge{To: finalID, Capacity: 1.0})
		node.Parents = append(node.Parents, parentID)
	}

	n.recompute()
	return finalID, nil
}

// RemoveNode removes a leaf node and its incoming edges.
// Returns ErrCodeNodeNotFound for unknown IDs and ErrCodeHasChildren when
// the node still has children.
func (n *Network) RemoveNode(id string) error {
	node, ok := n.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
	}
	if len(n.adj[id]) > 0 {
		return errors.New(errors.ErrCodeHasChildren,
			"cannot remove node with children; remove children first")
	}

	for _, parentID := range node.Parents {
		n.adj[parentID] = slices.DeleteFunc(n.adj[parentID], func(e Edge) bool {
			return e.To == id
		})
	}
	delete(n.nodes, id)
	delete(n.adj, id)

	n.recompute()
	return nil
}

// RemoveNodes removes a batch of leaf nodes.
//
// The batch is validated up front: if any ID is unknown or still has
// children, nothing is removed and the per-node reasons are returned
// alongside the error. On success the number of removed nodes equals
// len(ids).
func (n *Network) RemoveNodes(ids []string) (int, map[string]string, error) {
	if len(ids) == 0 {
		return 0, nil, errors.New(errors.ErrCodeInvalidInput, "no node IDs provided for deletion")
	}

	failed := make(map[string]string)
	for _, id := range ids {
		if _, ok := n.nodes[id]; !ok {
			failed[id] = "node not found"
			continue
		}
		if len(n.adj[id]) > 0 {
			failed[id] = "node has children"
		}
	}
	if len(failed) > 0 {
		return 0, failed, errors.New(errors.ErrCodeInvalidInput,
			"cannot perform bulk delete: %d of %d nodes rejected", len(failed), len(ids))
	}

	for _, id := range ids {
		node := n.nodes[id]
		for _, parentID := range node.Parents {
			n.adj[parentID] = slices.DeleteFunc(n.adj[parentID], func(e Edge) bool {
				return e.To == id
			})
		}
		delete(n.nodes, id)
		delete(n.adj, id)
	}

	n.recompute()
	return len(ids), nil, nil
}

// Graft attaches the nodes of a decoded payload as a subtree under
// parentID and returns the IDs assigned to the grafted nodes.
//
// Imported IDs are remapped with a unique prefix so they cannot collide
// with existing nodes. The payload's root nodes (those without parents
// inside the payload) are connected to parentID; internal edges are
// carried over with their capacities. Payload nodes unreachable from any
// payload root are skipped.
func (n *Network) Graft(parentID string, p *Payload) ([]string, error) {
	if _, ok := n.nodes[parentID]; !ok {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "parent node %q not found", parentID)
	}
	if len(p.Nodes) == 0 {
		return nil, nil
	}

	roots := p.roots()
	if len(roots) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSnapshot,
			"subtree has a cycle or no clear root")
	}

	prefix := fmt.Sprintf("%s_sub%s_", parentID, uuid.NewString()[:8])

	idMap := make(map[string]string, len(p.Nodes))
	var added []string

	queue := slices.Clone(roots)
	for len(queue) > 0 {
		origID := queue[0]
		queue = queue[1:]
		if _, done := idMap[origID]; done {
			continue
		}
		pn, ok := p.Nodes[origID]
		if !ok {
			continue
		}

		newID := n.uniqueID(prefix + origID)
		idMap[origID] = newID

		v := DefaultNodeValue
		if pn.Value != nil && *pn.Value >= 0 {
			v = *pn.Value
		}
		n.nodes[newID] = &Node{ID: newID, Parents: []string{}, Value: v}
		added = append(added, newID)

		if slices.Contains(roots, origID) {
			n.adj[parentID] = append(n.adj[parentID], Edge{To: newID, Capacity: 1.0})
			n.nodes[newID].Parents = append(n.nodes[newID].Parents, parentID)
		}

		for _, e := range p.Graph[origID] {
			if _, inPayload := p.Nodes[e.To]; inPayload {
				queue = append(queue, e.To)
			}
		}
	}

	// Internal edges are wired after all nodes are mapped, so shared
	// children inside the payload keep every parent link.
	for origSrc, newSrc := range idMap {
		for _, e := range p.Graph[origSrc] {
			newDst, ok := idMap[e.To]
			if !ok {
				continue
			}
			capacity := e.Capacity
			if capacity <= 0 {
				capacity = 1.0
			}
			n.adj[newSrc] = append(n.adj[newSrc], Edge{To: newDst, Capacity: capacity})
			dst := n.nodes[newDst]
			if !slices.Contains(dst.Parents, newSrc) {
				dst.Parents = append(dst.Parents, newSrc)
			}
		}
	}

	n.recompute()
	return added, nil
}

// uniqueID returns baseID, or baseID with the first free "_k" suffix when
// the ID is already taken.
func (n *Network) uniqueID(baseID string) string {
	finalID := baseID
	for counter := 1; ; counter++ {
		if _, exists := n.nodes[finalID]; !exists {
			return finalID
		}
		finalID = fmt.Sprintf("%s_%d", baseID, counter)
	}
}
