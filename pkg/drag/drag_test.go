package drag

import (
	"testing"

	"github.com/BurakErdilli/biznet-analyzer/pkg/hierarchy"
)

// fakeSurface is a minimal in-memory Surface for controller tests.
type fakeSurface struct {
	positions map[string]hierarchy.Position
	children  map[string][]string
}

func newFakeSurface() *fakeSurface {
	// root at origin with two children offset by fixed vectors, plus a
	// grandchild under b.
	return &fakeSurface{
		positions: map[string]hierarchy.Position{
			"a":  {X: 100, Y: 100},
			"b":  {X: 50, Y: 200},
			"c":  {X: 150, Y: 200},
			"d":  {X: 50, Y: 300},
			"el": {X: 500, Y: 500},
		},
		children: map[string][]string{
			"a": {"b", "c"},
			"b": {"d"},
		},
	}
}

func (s *fakeSurface) Position(id string) (hierarchy.Position, bool) {
	p, ok := s.positions[id]
	return p, ok
}

func (s *fakeSurface) SetPosition(id string, p hierarchy.Position) {
	if _, ok := s.positions[id]; ok {
		s.positions[id] = p
	}
}

func (s *fakeSurface) Children(id string) []string { return s.children[id] }

func TestDragMovesSubtreeByDelta(t *testing.T) {
	s := newFakeSurface()
	c := New(s)

	if !c.GrabStart("a", hierarchy.Position{X: 100, Y: 100}) {
		t.Fatal("grab rejected")
	}
	c.DragTo(hierarchy.Position{X: 110, Y: 120})
	c.GrabEnd()

	want := map[string]hierarchy.Position{
		"a":  {X: 110, Y: 120},
		"b":  {X: 60, Y: 220},
		"c":  {X: 160, Y: 220},
		"d":  {X: 60, Y: 320},
		"el": {X: 500, Y: 500}, // outside the subtree, untouched
	}
	for id, w := range want {
		if got := s.positions[id]; got != w {
			t.Errorf("position[%s] = %+v, want %+v", id, got, w)
		}
	}
}

func TestDragIdempotentUnderIntermediateMoves(t *testing.T) {
	direct := newFakeSurface()
	c := New(direct)
	c.GrabStart("a", hierarchy.Position{X: 0, Y: 0})
	c.DragTo(hierarchy.Position{X: 42, Y: -7})
	c.GrabEnd()

	meandering := newFakeSurface()
	c2 := New(meandering)
	c2.GrabStart("a", hierarchy.Position{X: 0, Y: 0})
	for _, p := range []hierarchy.Position{
		{X: 5, Y: 5}, {X: -100, Y: 300}, {X: 42, Y: -7}, {X: 0, Y: 0}, {X: 42, Y: -7},
	} {
		c2.DragTo(p)
	}
	c2.GrabEnd()

	for id := range direct.positions {
		if direct.positions[id] != meandering.positions[id] {
			t.Errorf("position[%s] = %+v after meandering, want %+v",
				id, meandering.positions[id], direct.positions[id])
		}
	}
}

func TestDragLeafMovesOnlyLeaf(t *testing.T) {
	s := newFakeSurface()
	c := New(s)

	c.GrabStart("d", hierarchy.Position{X: 0, Y: 0})
	c.DragTo(hierarchy.Position{X: 10, Y: 20})
	c.GrabEnd()

	if got := s.positions["d"]; got != (hierarchy.Position{X: 60, Y: 320}) {
		t.Errorf("d = %+v, want {60 320}", got)
	}
	for _, id := range []string{"a", "b", "c"} {
		orig := newFakeSurface().positions[id]
		if s.positions[id] != orig {
			t.Errorf("position[%s] = %+v changed by leaf drag", id, s.positions[id])
		}
	}
}

func TestDoubleGrabRejected(t *testing.T) {
	s := newFakeSurface()
	c := New(s)

	if !c.GrabStart("a", hierarchy.Position{}) {
		t.Fatal("first grab rejected")
	}
	if c.GrabStart("b", hierarchy.Position{}) {
		t.Error("second grab accepted while one is active")
	}
	if c.Grabbed() != "a" {
		t.Errorf("Grabbed = %q, want a", c.Grabbed())
	}
}

func TestGrabMissingNodeNoop(t *testing.T) {
	s := newFakeSurface()
	c := New(s)

	if c.GrabStart("ghost", hierarchy.Position{}) {
		t.Error("grab of missing node accepted")
	}
	if c.Grabbed() != "" {
		t.Errorf("Grabbed = %q, want idle", c.Grabbed())
	}
	// Idle drag is a no-op, not a panic.
	c.DragTo(hierarchy.Position{X: 10, Y: 10})
	c.GrabEnd()
}

func TestDragAbortsWhenGrabbedVanishes(t *testing.T) {
	s := newFakeSurface()
	c := New(s)

	c.GrabStart("a", hierarchy.Position{X: 0, Y: 0})
	before := make(map[string]hierarchy.Position, len(s.positions))
	for id, p := range s.positions {
		before[id] = p
	}

	delete(s.positions, "a")
	c.DragTo(hierarchy.Position{X: 500, Y: 500})

	if c.Grabbed() != "" {
		t.Errorf("Grabbed = %q after vanish, want idle", c.Grabbed())
	}
	for id, p := range before {
		if id == "a" {
			continue
		}
		if s.positions[id] != p {
			t.Errorf("position[%s] = %+v repositioned by aborted drag", id, s.positions[id])
		}
	}

	// Controller is reusable after the abort.
	if !c.GrabStart("b", hierarchy.Position{}) {
		t.Error("grab rejected after aborted drag")
	}
}

func TestNewGrabDoesNotReuseStaleSnapshot(t *testing.T) {
	s := newFakeSurface()
	c := New(s)

	c.GrabStart("a", hierarchy.Position{X: 0, Y: 0})
	c.DragTo(hierarchy.Position{X: 10, Y: 10})
	c.GrabEnd()

	// Second grab on a different node: only its own subtree moves, from
	// its post-first-drag position.
	c.GrabStart("el", hierarchy.Position{X: 0, Y: 0})
	c.DragTo(hierarchy.Position{X: 1, Y: 1})
	c.GrabEnd()

	if got := s.positions["el"]; got != (hierarchy.Position{X: 501, Y: 501}) {
		t.Errorf("el = %+v, want {501 501}", got)
	}
	if got := s.positions["a"]; got != (hierarchy.Position{X: 110, Y: 110}) {
		t.Errorf("a = %+v moved by second grab, want {110 110}", got)
	}
}

func TestDescendantSnapshotFrozenAtGrab(t *testing.T) {
	s := newFakeSurface()
	c := New(s)

	c.GrabStart("b", hierarchy.Position{X: 0, Y: 0})
	// A child attached mid-drag is not part of the grab snapshot.
	s.positions["late"] = hierarchy.Position{X: 1, Y: 1}
	s.children["b"] = append(s.children["b"], "late")

	c.DragTo(hierarchy.Position{X: 100, Y: 100})
	if got := s.positions["late"]; got != (hierarchy.Position{X: 1, Y: 1}) {
		t.Errorf("late = %+v, want untouched {1 1}", got)
	}
	if got := s.positions["d"]; got != (hierarchy.Position{X: 150, Y: 400}) {
		t.Errorf("d = %+v, want {150 400}", got)
	}
	c.GrabEnd()
}
