package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/BurakErdilli/biznet-analyzer/pkg/layout"
	"github.com/BurakErdilli/biznet-analyzer/pkg/network"
	"github.com/BurakErdilli/biznet-analyzer/pkg/view"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func testSuggestions() []network.Suggestion {
	return []network.Suggestion{
		{ID: "hub", Criticality: 0.9, Priority: 89.0, CurrentChildren: 1, SuggestedChildren: 3},
		{ID: "branch", Criticality: 0.5, Priority: 49.0, CurrentChildren: 0, SuggestedChildren: 2},
	}
}

func TestSuggestionPickerSelect(t *testing.T) {
	m := newSuggestionPicker(testSuggestions())

	next, _ := m.Update(key("down"))
	next, _ = next.Update(key("enter"))

	final := next.(suggestionPickerModel)
	if final.selected != "branch" {
		t.Errorf("selected = %q, want %q", final.selected, "branch")
	}
}

func TestSuggestionPickerQuitWithoutSelection(t *testing.T) {
	m := newSuggestionPicker(testSuggestions())

	next, cmd := m.Update(key("q"))

	final := next.(suggestionPickerModel)
	if final.selected != "" {
		t.Errorf("selected = %q, want empty", final.selected)
	}
	if cmd == nil {
		t.Error("q should quit the program")
	}
}

func TestSuggestionPickerCursorBounds(t *testing.T) {
	m := newSuggestionPicker(testSuggestions())

	next, _ := m.Update(key("up"))
	if got := next.(suggestionPickerModel).cursor; got != 0 {
		t.Errorf("cursor after up at top = %d, want 0", got)
	}

	next, _ = m.Update(key("down"))
	next, _ = next.Update(key("down"))
	if got := next.(suggestionPickerModel).cursor; got != 1 {
		t.Errorf("cursor after down at bottom = %d, want 1", got)
	}
}

func TestSuggestionPickerView(t *testing.T) {
	m := newSuggestionPicker(testSuggestions())

	out := m.View()
	for _, want := range []string{"hub", "branch", "priority"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func testViewModel(t *testing.T) *view.Model {
	t.Helper()

	net := network.New(network.DefaultSettings())
	for _, n := range []struct{ parent, id string }{
		{"", "root"},
		{"root", "east"},
		{"root", "west"},
		{"east", "store"},
	} {
		if _, err := net.AddNode(n.parent, n.id, nil); err != nil {
			t.Fatalf("AddNode(%q, %q): %v", n.parent, n.id, err)
		}
	}

	m := view.New(layout.DefaultOptions())
	m.Apply(m.NextSeq(), net)
	return m
}

func TestTreeModelRows(t *testing.T) {
	m := newTreeModel(testViewModel(t))

	if len(m.rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(m.rows))
	}
	if m.rows[0].id != "root" || m.rows[0].depth != 0 {
		t.Errorf("first row = %q depth %d, want root depth 0", m.rows[0].id, m.rows[0].depth)
	}

	out := m.View()
	for _, want := range []string{"root", "east", "store", "west"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestTreeModelGrabAndDrag(t *testing.T) {
	vm := testViewModel(t)
	m := newTreeModel(vm)

	// Cursor to "east", grab it, drag right twice, drop.
	next, _ := m.Update(key("down"))
	next, _ = next.Update(key("g"))

	tm := next.(treeModel)
	if vm.Grabbed() != "east" {
		t.Fatalf("Grabbed() = %q, want east", vm.Grabbed())
	}

	before, _ := vm.Position("east")
	childBefore, _ := vm.Position("store")

	next, _ = tm.Update(key("right"))
	next, _ = next.(treeModel).Update(key("right"))
	next, _ = next.(treeModel).Update(key("g"))

	if vm.Grabbed() != "" {
		t.Error("g should drop the grabbed subtree")
	}

	after, _ := vm.Position("east")
	if after.X != before.X+2*dragStep {
		t.Errorf("east X = %v, want %v", after.X, before.X+2*dragStep)
	}
	childAfter, _ := vm.Position("store")
	if childAfter.X != childBefore.X+2*dragStep {
		t.Errorf("store should follow its parent, X = %v, want %v", childAfter.X, childBefore.X+2*dragStep)
	}

	_ = next
}

func TestTreeModelFocus(t *testing.T) {
	m := newTreeModel(testViewModel(t))

	next, _ := m.Update(key("down"))
	next, _ = next.Update(key("f"))

	tm := next.(treeModel)
	if len(tm.rows) != 2 {
		t.Fatalf("focused rows = %d, want 2", len(tm.rows))
	}
	if tm.rows[0].id != "east" {
		t.Errorf("focused root = %q, want east", tm.rows[0].id)
	}

	next, _ = tm.Update(key("F"))
	if got := len(next.(treeModel).rows); got != 4 {
		t.Errorf("rows after unfocus = %d, want 4", got)
	}
}

func TestTreeModelEmptyNetwork(t *testing.T) {
	m := view.New(layout.DefaultOptions())
	m.Apply(m.NextSeq(), network.New(network.DefaultSettings()))

	tm := newTreeModel(m)
	if len(tm.rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(tm.rows))
	}
	if !strings.Contains(tm.View(), "empty network") {
		t.Error("View() should mention the empty network")
	}

	// Keys on an empty tree must not panic.
	next, _ := tm.Update(key("g"))
	next, _ = next.Update(key("f"))
	_ = next
}
