package view

import (
	"fmt"
	"math"

	"github.com/BurakErdilli/biznet-analyzer/pkg/hierarchy"
	"github.com/BurakErdilli/biznet-analyzer/pkg/network"
)

// Encoding is the per-node visual treatment derived from analytics:
// criticality drives color, value drives size, the chokepoint flag adds an
// emphasized border. The virtual root gets a muted fixed treatment.
type Encoding struct {
	Fill   string  // hex fill color
	Radius float64 // node radius in layout units
	Border bool    // emphasized border for chokepoints
}

const (
	minRadius = 12.0
	maxRadius = 36.0

	virtualFill = "#9ca3af"
)

// Encode derives the visual treatment for one tree node.
func Encode(n *hierarchy.Node) Encoding {
	if n.Virtual || n.Payload == nil {
		return Encoding{Fill: virtualFill, Radius: minRadius}
	}
	return Encoding{
		Fill:   criticalityColor(n.Payload.Criticality),
		Radius: valueRadius(n.Payload.Value),
		Border: n.Payload.IsChokepoint,
	}
}

// criticalityColor maps criticality in [0, 1] onto a green to red ramp.
func criticalityColor(c float64) string {
	c = min(max(c, 0), 1)
	r := int(math.Round(34 + c*(220-34)))
	g := int(math.Round(197 - c*(197-38)))
	b := int(math.Round(94 - c*(94-38)))
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// valueRadius maps a node value onto a radius with square-root scaling, so
// a node worth 4x another draws only 2x as large.
func valueRadius(v float64) float64 {
	if v <= 0 {
		return minRadius
	}
	r := minRadius * math.Sqrt(v/network.DefaultNodeValue)
	return min(max(r, minRadius), maxRadius)
}
