// Package view holds the renderable application state: the current network
// snapshot, its built and laid-out tree, an optional subtree focus, and the
// active drag. State is replaced wholesale on every successful fetch or
// mutation; stale completions are rejected by sequence number.
package view

import (
	"github.com/BurakErdilli/biznet-analyzer/pkg/drag"
	"github.com/BurakErdilli/biznet-analyzer/pkg/hierarchy"
	"github.com/BurakErdilli/biznet-analyzer/pkg/layout"
	"github.com/BurakErdilli/biznet-analyzer/pkg/network"
)

// Model is the single source of truth for one rendering surface.
//
// Model is not safe for concurrent use. It belongs to the event loop that
// owns the surface; asynchronous work applies its result through Apply,
// which enforces last-request-wins ordering.
type Model struct {
	net   *network.Network
	full  *hierarchy.Tree // whole-network tree, nil when the network is empty
	tree  *hierarchy.Tree // rendered tree: full, or the focused subtree
	ctrl  *drag.Controller
	opts  layout.Options
	focus string

	applied uint64 // highest sequence number applied so far
	issued  uint64 // last sequence number handed out
}

// New creates an empty model with the given layout options.
func New(opts layout.Options) *Model {
	m := &Model{opts: opts}
	m.ctrl = drag.New(m)
	return m
}

// NextSeq issues a sequence number for an in-flight request. Completions
// pass it back to Apply; any completion older than the newest applied one
// is discarded.
func (m *Model) NextSeq() uint64 {
	m.issued++
	return m.issued
}

// Apply replaces the model's network with a fresh snapshot.
//
// Returns false and changes nothing when seq is not newer than the last
// applied sequence, so slow responses can never clobber newer state. A
// successful apply aborts any active drag, rebuilds the tree, re-resolves
// the focus (dropping it if the focused node vanished), and lays out fresh
// positions.
func (m *Model) Apply(seq uint64, net *network.Network) bool {
	if seq <= m.applied {
		return false
	}
	m.applied = seq

	m.ctrl.GrabEnd()
	m.net = net
	m.rebuild()
	return true
}

// Network returns the current snapshot, nil before the first apply.
func (m *Model) Network() *network.Network { return m.net }

// Tree returns the rendered tree, nil when the network is empty.
func (m *Model) Tree() *hierarchy.Tree { return m.tree }

// Empty reports whether there is nothing to render.
func (m *Model) Empty() bool { return m.tree == nil }

// Focus isolates the subtree rooted at id. Unknown IDs and the virtual
// root are rejected. Focusing aborts any active drag and recomputes
// positions for the isolated subtree alone.
func (m *Model) Focus(id string) bool {
	if m.full == nil || id == hierarchy.VirtualRootID {
		return false
	}
	if _, ok := m.full.Node(id); !ok {
		return false
	}
	m.ctrl.GrabEnd()
	m.focus = id
	m.rebuild()
	return true
}

// ClearFocus restores the whole-network view.
func (m *Model) ClearFocus() {
	if m.focus == "" {
		return
	}
	m.ctrl.GrabEnd()
	m.focus = ""
	m.rebuild()
}

// Focused returns the isolated subtree root, or "" for the full view.
func (m *Model) Focused() string { return m.focus }

// SetLayout changes orientation and spacing and recomputes positions.
// Active drags are aborted; their moved positions are discarded.
func (m *Model) SetLayout(opts layout.Options) {
	m.ctrl.GrabEnd()
	m.opts = opts
	m.rebuild()
}

func (m *Model) rebuild() {
	m.full, m.tree = nil, nil
	if m.net == nil {
		return
	}
	full, err := hierarchy.FromNetwork(m.net)
	if err != nil {
		// Empty network: render a placeholder, keep focus cleared.
		m.focus = ""
		return
	}
	m.full = full

	m.tree = full
	if m.focus != "" {
		sub, ok := full.Subtree(m.focus)
		if !ok {
			m.focus = ""
		} else {
			m.tree = sub
		}
	}
	layout.Apply(m.tree, m.opts)
}

// =============================================================================
// Drag Surface
// =============================================================================

// Position implements [drag.Surface] over the rendered tree.
func (m *Model) Position(id string) (hierarchy.Position, bool) {
	if m.tree == nil {
		return hierarchy.Position{}, false
	}
	n, ok := m.tree.Node(id)
	if !ok {
		return hierarchy.Position{}, false
	}
	return n.Pos, true
}

// SetPosition implements [drag.Surface].
func (m *Model) SetPosition(id string, p hierarchy.Position) {
	if m.tree == nil {
		return
	}
	if n, ok := m.tree.Node(id); ok {
		n.Pos = p
	}
}

// Children implements [drag.Surface].
func (m *Model) Children(id string) []string {
	if m.tree == nil {
		return nil
	}
	n, ok := m.tree.Node(id)
	if !ok {
		return nil
	}
	ids := make([]string, len(n.Children))
	for i, c := range n.Children {
		ids[i] = c.ID
	}
	return ids
}

// GrabStart begins dragging a node. See [drag.Controller.GrabStart].
func (m *Model) GrabStart(id string, pointer hierarchy.Position) bool {
	return m.ctrl.GrabStart(id, pointer)
}

// DragTo moves the active drag. See [drag.Controller.DragTo].
func (m *Model) DragTo(pointer hierarchy.Position) { m.ctrl.DragTo(pointer) }

// GrabEnd releases the active drag. See [drag.Controller.GrabEnd].
func (m *Model) GrabEnd() { m.ctrl.GrabEnd() }

// Grabbed returns the ID being dragged, or "" when idle.
func (m *Model) Grabbed() string { return m.ctrl.Grabbed() }
