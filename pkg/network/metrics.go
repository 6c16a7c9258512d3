package network

import (
	"context"
	"math"
	"slices"
	"time"

	"github.com/BurakErdilli/biznet-analyzer/pkg/observability"
)

// recompute refreshes every derived metric on every node. It runs after
// each structural mutation and after settings changes, so node analytics
// are never stale.
//
// Depth is assigned with a topological traversal (Kahn's algorithm): roots
// sit at depth 0 and each node at one plus the maximum depth of its
// parents. Nodes trapped in a cycle never reach zero in-degree; they are
// pushed below all acyclic nodes at depth len(nodes) so the anomaly stays
// visible without breaking the pass.
func (n *Network) recompute() {
	start := time.Now()
	defer func() {
		observability.Network().OnRecompute(context.Background(), len(n.nodes), n.EdgeCount(), time.Since(start))
	}()

	n.maxDepth = 0
	if len(n.nodes) == 0 {
		return
	}

	// Parent lists may reference nodes that no longer exist (partial
	// imports); sanitize them before they drive the in-degree counts.
	for _, node := range n.nodes {
		node.Parents = slices.DeleteFunc(node.Parents, func(p string) bool {
			_, ok := n.nodes[p]
			return !ok
		})
	}

	n.assignDepths()

	for id, node := range n.nodes {
		node.ChildrenCount = len(n.adj[id])
		node.TotalChildren = len(n.Descendants(id))
	}

	for id, node := range n.nodes {
		node.Profit = n.profit(id)
	}

	threshold := n.settings.MinChildrenThreshold
	for _, node := range n.nodes {
		node.SuggestedChildCount = threshold
		node.NeededChildren = max(0, threshold-node.ChildrenCount)
		node.IsChokepoint = node.NeededChildren > 0
	}

	for _, node := range n.nodes {
		node.Criticality = n.criticality(node)
		node.BalanceScore = n.balanceScore(node)
	}
}

func (n *Network) assignDepths() {
	inDegree := make(map[string]int, len(n.nodes))
	depths := make(map[string]int, len(n.nodes))
	var queue []string

	for id, node := range n.nodes {
		inDegree[id] = len(node.Parents)
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	processed := 0
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		processed++

		d := depths[curr]
		n.nodes[curr].Depth = d
		n.maxDepth = max(n.maxDepth, d)

		for _, e := range n.adj[curr] {
			if _, ok := inDegree[e.To]; !ok {
				continue
			}
			depths[e.To] = max(depths[e.To], d+1)
			inDegree[e.To]--
			if inDegree[e.To] == 0 {
				queue = append(queue, e.To)
			}
		}
	}

	if processed == len(n.nodes) {
		return
	}

	// Leftovers are cycle members (or downstream of one).
	cycleDepth := len(n.nodes)
	for id, node := range n.nodes {
		if inDegree[id] > 0 {
			node.Depth = cycleDepth
			n.maxDepth = max(n.maxDepth, cycleDepth)
		}
	}
}

// profit is the sum of the direct children's base values.
func (n *Network) profit(id string) float64 {
	total := 0.0
	for _, e := range n.adj[id] {
		if child, ok := n.nodes[e.To]; ok {
			total += child.Value
		}
	}
	return round2(max(total, 0))
}

// criticality scores how urgently a node needs children, in [0, 1].
// The need ratio is damped slightly with depth so that shallow gaps rank
// above equally-sized deep ones.
func (n *Network) criticality(node *Node) float64 {
	if node.NeededChildren <= 0 {
		return 0
	}
	needRatio := min(1, float64(node.NeededChildren)/float64(max(n.settings.MinChildrenThreshold, 1)))
	depthFactor := 1 / (1 + 0.04*float64(node.Depth))
	return round3(min(max(needRatio*depthFactor, 0), 1))
}

// balanceScore measures how evenly a node's direct subtrees are sized,
// in [0, 1]. Nodes with at most one child are trivially balanced. The
// spread between the largest and smallest subtree is scaled by the
// configured balance factor.
func (n *Network) balanceScore(node *Node) float64 {
	edges := n.adj[node.ID]
	if len(edges) <= 1 {
		return 1
	}

	largest, smallest := 0.0, math.Inf(1)
	for _, e := range edges {
		child, ok := n.nodes[e.To]
		if !ok {
			continue
		}
		size := float64(child.TotalChildren + 1)
		largest = max(largest, size)
		smallest = min(smallest, size)
	}
	if largest == 0 || math.IsInf(smallest, 1) {
		return 1
	}

	spread := (largest - smallest) / largest
	return round3(min(max(1-n.settings.BalanceFactor*spread, 0), 1))
}

// Stats summarizes the network for dashboards and the /api/network response.
type Stats struct {
	TotalNodes  int     `json:"total_nodes"`
	TotalEdges  int     `json:"total_edges"`
	MaxDepth    int     `json:"max_depth"`
	TotalValue  float64 `json:"total_value"`
	TotalProfit float64 `json:"total_profit"`
}

// Stats computes global statistics over all nodes.
func (n *Network) Stats() Stats {
	s := Stats{
		TotalNodes: len(n.nodes),
		TotalEdges: n.EdgeCount(),
		MaxDepth:   n.maxDepth,
	}
	for _, node := range n.nodes {
		s.TotalValue += node.Value
		s.TotalProfit += node.Profit
	}
	s.TotalValue = round2(s.TotalValue)
	s.TotalProfit = round2(s.TotalProfit)
	return s
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
