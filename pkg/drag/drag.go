// Package drag implements subtree dragging over an already laid-out tree.
//
// A controller is either idle or holding a single grab. Grabbing a node
// snapshots the node's position, the pointer position, and the reachable
// descendant set with their positions at that instant. Every subsequent
// drag computes absolute targets from the snapshot, so repeated moves to
// the same pointer position are idempotent and intermediate moves never
// accumulate error.
package drag

import (
	"github.com/BurakErdilli/biznet-analyzer/pkg/hierarchy"
)

// Surface is the rendered view a controller moves nodes on. Implementations
// are the live view model; the controller never retains node structs, only
// IDs and snapshot positions.
type Surface interface {
	// Position returns the node's current position and whether the node
	// exists on the surface.
	Position(id string) (hierarchy.Position, bool)

	// SetPosition moves a node. Unknown IDs are ignored.
	SetPosition(id string, p hierarchy.Position)

	// Children returns the IDs of the node's direct children on the surface.
	Children(id string) []string
}

// Controller tracks at most one active grab.
// The zero value is ready to use. Controller is not safe for concurrent
// use; it belongs to the single-threaded view loop.
type Controller struct {
	surface Surface

	grabbed string
	pointer hierarchy.Position
	origins map[string]hierarchy.Position
}

// New creates a controller bound to a surface.
func New(s Surface) *Controller {
	return &Controller{surface: s}
}

// Grabbed returns the ID of the node being dragged, or "" when idle.
func (c *Controller) Grabbed() string { return c.grabbed }

// GrabStart begins a drag of the given node from the given pointer position.
//
// Starting a grab while one is active, or grabbing a node absent from the
// surface, is a silent no-op: interaction glitches never surface as errors.
// Returns whether the grab took hold.
func (c *Controller) GrabStart(id string, pointer hierarchy.Position) bool {
	if c.grabbed != "" {
		return false
	}
	origin, ok := c.surface.Position(id)
	if !ok {
		return false
	}

	c.grabbed = id
	c.pointer = pointer
	c.origins = map[string]hierarchy.Position{id: origin}

	// Snapshot the descendant set now; structural changes mid-drag do not
	// grow or shrink what moves.
	queue := c.surface.Children(id)
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		if _, seen := c.origins[curr]; seen {
			continue
		}
		p, ok := c.surface.Position(curr)
		if !ok {
			continue
		}
		c.origins[curr] = p
		queue = append(queue, c.surface.Children(curr)...)
	}
	return true
}

// DragTo moves the grabbed node and its snapshot descendants so that each
// sits at its grab-time origin plus the pointer delta.
//
// Idle controllers ignore the call. If the grabbed node has vanished from
// the surface the drag is silently aborted and nothing is repositioned.
func (c *Controller) DragTo(pointer hierarchy.Position) {
	if c.grabbed == "" {
		return
	}
	if _, ok := c.surface.Position(c.grabbed); !ok {
		c.reset()
		return
	}

	dx := pointer.X - c.pointer.X
	dy := pointer.Y - c.pointer.Y
	for id, origin := range c.origins {
		if _, ok := c.surface.Position(id); !ok {
			continue
		}
		c.surface.SetPosition(id, hierarchy.Position{X: origin.X + dx, Y: origin.Y + dy})
	}
}

// GrabEnd releases the active grab. Positions stay exactly where the last
// DragTo left them; no re-layout happens here. Idle controllers ignore
// the call.
func (c *Controller) GrabEnd() {
	c.reset()
}

func (c *Controller) reset() {
	c.grabbed = ""
	c.origins = nil
}
