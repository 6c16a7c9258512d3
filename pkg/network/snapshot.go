package network

import (
	"context"
	"slices"

	json "github.com/goccy/go-json"

	"github.com/BurakErdilli/biznet-analyzer/pkg/errors"
	"github.com/BurakErdilli/biznet-analyzer/pkg/observability"
)

// =============================================================================
// Wire Format
// =============================================================================

// Snapshot is the canonical serialization format for the network.
// Used for API responses, persistence, import and export.
//
// The adjacency map serializes each edge as the two-element tuple
// [childID, capacity], matching the historical on-disk format, so existing
// network.json files remain importable.
type Snapshot struct {
	Nodes    map[string]*Node  `json:"nodes"`
	Graph    map[string][]Edge `json:"graph"`
	Settings WireSettings      `json:"settings"`
}

// WireSettings is the settings block inside a snapshot. MaxDepth is derived
// and ignored on input.
type WireSettings struct {
	MinChildrenThreshold int     `json:"min_children_threshold"`
	BalanceFactor        float64 `json:"balance_factor"`
	MaxDepth             int     `json:"max_depth"`
}

// MarshalJSON encodes the edge as the tuple [to, capacity].
func (e Edge) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.To, e.Capacity})
}

// UnmarshalJSON accepts [to], [to, capacity], or a {to, capacity} object.
// A malformed or non-positive capacity falls back to 1.0; a malformed
// target is an error.
func (e *Edge) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err == nil {
		if len(tuple) == 0 {
			return errors.New(errors.ErrCodeInvalidSnapshot, "empty edge tuple")
		}
		if err := json.Unmarshal(tuple[0], &e.To); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "edge target")
		}
		e.Capacity = 1.0
		if len(tuple) > 1 {
			var c float64
			if err := json.Unmarshal(tuple[1], &c); err == nil && c > 0 {
				e.Capacity = c
			}
		}
		return nil
	}

	var obj struct {
		To       string  `json:"to"`
		Capacity float64 `json:"capacity"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "edge")
	}
	e.To = obj.To
	e.Capacity = obj.Capacity
	if e.Capacity <= 0 {
		e.Capacity = 1.0
	}
	return nil
}

// Snapshot captures the full network state for serialization.
func (n *Network) Snapshot() *Snapshot {
	s := &Snapshot{
		Nodes: make(map[string]*Node, len(n.nodes)),
		Graph: make(map[string][]Edge, len(n.adj)),
		Settings: WireSettings{
			MinChildrenThreshold: n.settings.MinChildrenThreshold,
			BalanceFactor:        n.settings.BalanceFactor,
			MaxDepth:             n.maxDepth,
		},
	}
	for id, node := range n.nodes {
		copied := *node
		s.Nodes[id] = &copied
		s.Graph[id] = append([]Edge(nil), n.adj[id]...)
	}
	return s
}

// Encode serializes the snapshot as indented JSON.
func (s *Snapshot) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode snapshot")
	}
	return data, nil
}

// =============================================================================
// Defensive Decode
// =============================================================================

// PayloadNode is the lenient input shape for one node. Only identity,
// parent links, and value survive decoding; every analytic field is
// recomputed, so stale metrics in old files cannot leak through.
type PayloadNode struct {
	Parents []string `json:"parents"`
	Value   *float64 `json:"value"`
}

// PayloadSettings is the lenient settings block of imported data. Fields
// absent from the file keep the caller's defaults.
type PayloadSettings struct {
	MinChildrenThreshold *int     `json:"min_children_threshold"`
	BalanceFactor        *float64 `json:"balance_factor"`
}

// Payload is the lenient decoded form of imported network or subtree data.
type Payload struct {
	Nodes    map[string]*PayloadNode `json:"nodes"`
	Graph    map[string][]Edge       `json:"graph"`
	Settings *PayloadSettings        `json:"settings"`
}

// DecodePayload parses raw JSON into a Payload.
// Returns ErrCodeInvalidSnapshot when the JSON is malformed or the
// required "nodes"/"graph" keys are missing.
func DecodePayload(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "invalid JSON")
	}
	if p.Nodes == nil || p.Graph == nil {
		return nil, errors.New(errors.ErrCodeInvalidSnapshot,
			"invalid structure: missing 'nodes' or 'graph'")
	}
	return &p, nil
}

// roots returns the payload node IDs that no payload edge points at,
// i.e. the entry points of the imported structure.
func (p *Payload) roots() []string {
	hasParent := make(map[string]bool)
	for _, edges := range p.Graph {
		for _, e := range edges {
			if _, ok := p.Nodes[e.To]; ok {
				hasParent[e.To] = true
			}
		}
	}
	var roots []string
	for id := range p.Nodes {
		if !hasParent[id] {
			roots = append(roots, id)
		}
	}
	slices.Sort(roots)
	return roots
}

// FromPayload builds a Network from a decoded payload.
//
// The decode is defensive, never fatal on bad references: edges whose
// source or target is missing from the node map are dropped, parent lists
// are rebuilt from the surviving edges, and missing or negative values
// fall back to DefaultNodeValue. Settings fields present in the payload
// override defaults field by field; absent fields keep the default. All
// metrics are recomputed.
func FromPayload(p *Payload, defaults Settings) *Network {
	settings := defaults
	if p.Settings != nil {
		if p.Settings.MinChildrenThreshold != nil {
			settings.MinChildrenThreshold = *p.Settings.MinChildrenThreshold
		}
		if p.Settings.BalanceFactor != nil {
			settings.BalanceFactor = *p.Settings.BalanceFactor
		}
	}
	n := New(settings)

	for id, pn := range p.Nodes {
		v := DefaultNodeValue
		if pn != nil && pn.Value != nil && *pn.Value >= 0 {
			v = *pn.Value
		}
		n.nodes[id] = &Node{ID: id, Parents: []string{}, Value: v}
	}

	for src, edges := range p.Graph {
		if _, ok := n.nodes[src]; !ok {
			continue
		}
		for _, e := range edges {
			dst, ok := n.nodes[e.To]
			if !ok {
				observability.Network().OnDroppedEdge(context.Background(), src, e.To, "missing target")
				continue
			}
			capacity := e.Capacity
			if capacity <= 0 {
				capacity = 1.0
			}
			n.adj[src] = append(n.adj[src], Edge{To: e.To, Capacity: capacity})
			dst.Parents = append(dst.Parents, src)
		}
	}

	n.recompute()
	return n
}

// Decode parses snapshot JSON and builds a Network in one step.
func Decode(data []byte, defaults Settings) (*Network, error) {
	p, err := DecodePayload(data)
	if err != nil {
		return nil, err
	}
	return FromPayload(p, defaults), nil
}
