package network

import "slices"

// Suggestion describes a node that should receive more children, ranked by
// how critical the gap is.
type Suggestion struct {
	ID                string  `json:"id"`
	Criticality       float64 `json:"criticality"`
	CurrentChildren   int     `json:"current_children"`
	SuggestedChildren int     `json:"suggested_children"`
	NeededChildren    int     `json:"needed_children"`
	Depth             int     `json:"depth"`
	BalanceScore      float64 `json:"balance_score"`
	Priority          float64 `json:"priority"`
	Profit            float64 `json:"profit"`
	Value             float64 `json:"value"`
}

// Suggestions returns up to limit nodes that need children, ordered by
// priority: higher criticality first, with shallower nodes winning ties.
// Nodes that already meet the threshold are excluded. A limit below 1 is
// treated as 1.
func (n *Network) Suggestions(limit int) []Suggestion {
	limit = max(limit, 1)

	var out []Suggestion
	for _, node := range n.Nodes() {
		if node.NeededChildren <= 0 || node.Criticality <= 0 {
			continue
		}
		out = append(out, Suggestion{
			ID:                node.ID,
			Criticality:       node.Criticality,
			CurrentChildren:   node.ChildrenCount,
			SuggestedChildren: node.SuggestedChildCount,
			NeededChildren:    node.NeededChildren,
			Depth:             node.Depth,
			BalanceScore:      node.BalanceScore,
			Priority:          round3(node.Criticality*100 - float64(node.Depth)),
			Profit:            node.Profit,
			Value:             node.Value,
		})
	}

	// Nodes() is ID-sorted, and SortStableFunc keeps that order for equal
	// priorities, so the ranking is reproducible across calls.
	slices.SortStableFunc(out, func(a, b Suggestion) int {
		switch {
		case a.Priority > b.Priority:
			return -1
		case a.Priority < b.Priority:
			return 1
		default:
			return 0
		}
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
