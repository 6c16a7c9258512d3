package render

import (
	"strings"
	"testing"

	"github.com/BurakErdilli/biznet-analyzer/pkg/hierarchy"
	"github.com/BurakErdilli/biznet-analyzer/pkg/layout"
	"github.com/BurakErdilli/biznet-analyzer/pkg/network"
)

func buildTree(t *testing.T) *hierarchy.Tree {
	t.Helper()
	n := network.New(network.DefaultSettings())
	for _, add := range [][2]string{{"", "root"}, {"root", "a"}, {"root", "b"}} {
		if _, err := n.AddNode(add[0], add[1], nil); err != nil {
			t.Fatal(err)
		}
	}
	tree, err := hierarchy.FromNetwork(n)
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(buildTree(t), Options{Direction: layout.DirectionTB})

	for _, want := range []string{
		"digraph network {",
		"rankdir=TB;",
		`"root" -> "a";`,
		`"root" -> "b";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("DOT not terminated")
	}
}

func TestToDOTDirection(t *testing.T) {
	dot := ToDOT(buildTree(t), Options{Direction: layout.DirectionLR})
	if !strings.Contains(dot, "rankdir=LR;") {
		t.Errorf("LR direction not applied:\n%s", dot)
	}
}

func TestToDOTDetailedLabels(t *testing.T) {
	plain := ToDOT(buildTree(t), Options{})
	detailed := ToDOT(buildTree(t), Options{Detailed: true})

	if strings.Contains(plain, "value:") {
		t.Error("plain labels carry analytics")
	}
	for _, want := range []string{"value:", "profit:", "crit:"} {
		if !strings.Contains(detailed, want) {
			t.Errorf("detailed labels missing %q", want)
		}
	}
}

func TestToDOTVirtualRoot(t *testing.T) {
	nodes := map[string]*network.Node{
		"x": {ID: "x", Parents: []string{}},
		"y": {ID: "y", Parents: []string{}},
	}
	tree, err := hierarchy.Build(nodes, nil)
	if err != nil {
		t.Fatal(err)
	}

	dot := ToDOT(tree, Options{})
	if !strings.Contains(dot, "shape=point") {
		t.Errorf("virtual root not drawn as point:\n%s", dot)
	}
	if !strings.Contains(dot, `"`+hierarchy.VirtualRootID+`" -> "x";`) {
		t.Errorf("virtual root edges missing:\n%s", dot)
	}
}

func TestToDOTChokepointBorder(t *testing.T) {
	n := network.New(network.DefaultSettings())
	if _, err := n.AddNode("", "root", nil); err != nil {
		t.Fatal(err)
	}
	tree, err := hierarchy.FromNetwork(n)
	if err != nil {
		t.Fatal(err)
	}

	// A lone root below the children threshold is a chokepoint.
	dot := ToDOT(tree, Options{})
	if !strings.Contains(dot, "penwidth=3") {
		t.Errorf("chokepoint border missing:\n%s", dot)
	}
}

func TestToDOTEmpty(t *testing.T) {
	for _, tree := range []*hierarchy.Tree{nil, {}} {
		dot := ToDOT(tree, Options{})
		if !strings.Contains(dot, "digraph network {") || !strings.HasSuffix(dot, "}\n") {
			t.Errorf("empty tree produced malformed DOT:\n%s", dot)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>` + "\n" +
		`<svg width="216pt" height="116pt" viewBox="0.00 0.00 216.00 116.00" xmlns="http://www.w3.org/2000/svg">` +
		`<g></g></svg>`)

	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 216.00 116.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if strings.Contains(out, "pt\"") {
		t.Errorf("point units survived normalization: %s", out)
	}

	// SVGs without a viewBox pass through untouched.
	plain := []byte(`<svg xmlns="x"><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("viewBox-less SVG modified: %s", got)
	}
}
