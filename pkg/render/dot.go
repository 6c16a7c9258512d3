// Package render turns a built hierarchy into Graphviz DOT and rasterized
// images. The tree's visual encodings (criticality color, value size,
// chokepoint border) are baked into the DOT attributes, so any Graphviz
// consumer reproduces the same picture.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/BurakErdilli/biznet-analyzer/pkg/hierarchy"
	"github.com/BurakErdilli/biznet-analyzer/pkg/layout"
	"github.com/BurakErdilli/biznet-analyzer/pkg/view"
)

// Options configures diagram rendering.
type Options struct {
	// Direction selects the rank direction, top-bottom or left-right.
	Direction layout.Direction

	// Detailed includes value, profit, and criticality in node labels.
	// When false, only the node ID is shown.
	Detailed bool
}

// ToDOT converts a built tree to Graphviz DOT format.
// The virtual root, when present, is drawn as a small point so multi-root
// networks stay connected without pretending the root is a real node.
func ToDOT(t *hierarchy.Tree, opts Options) string {
	rankdir := "TB"
	if opts.Direction == layout.DirectionLR {
		rankdir = "LR"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph network {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=12];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	if t != nil && t.Root != nil {
		t.Root.Walk(func(n *hierarchy.Node) {
			attrs := fmtAttrs(n, opts.Detailed)
			fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
		})
		buf.WriteString("\n")
		t.Root.Walk(func(n *hierarchy.Node) {
			for _, c := range n.Children {
				fmt.Fprintf(&buf, "  %q -> %q;\n", n.ID, c.ID)
			}
		})
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n *hierarchy.Node, detailed bool) []string {
	enc := view.Encode(n)

	if n.Virtual {
		return []string{
			"label=\"\"",
			"shape=point",
			fmt.Sprintf("color=%q", enc.Fill),
		}
	}

	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, detailed)),
		fmt.Sprintf("fillcolor=%q", enc.Fill),
		fmt.Sprintf("width=%.2f", enc.Radius/24),
	}
	if enc.Border {
		attrs = append(attrs, "penwidth=3", "color=\"#b91c1c\"")
	} else {
		attrs = append(attrs, "color=\"#1f2937\"")
	}
	return attrs
}

func fmtLabel(n *hierarchy.Node, detailed bool) string {
	if !detailed || n.Payload == nil {
		return n.ID
	}
	p := n.Payload
	parts := []string{
		fmt.Sprintf("value: %.2f", p.Value),
		fmt.Sprintf("profit: %.2f", p.Profit),
		fmt.Sprintf("crit: %.3f", p.Criticality),
	}
	return n.ID + "\n" + strings.Join(parts, "\n")
}

// SVG renders a DOT graph to SVG using Graphviz.
func SVG(ctx context.Context, dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(ctx, dot, graphviz.SVG, &buf); err != nil {
		return nil, err
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// PNG renders a DOT graph to PNG using Graphviz.
func PNG(ctx context.Context, dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(ctx, dot, graphviz.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func render(ctx context.Context, dot string, format graphviz.Format, buf *bytes.Buffer) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	if err := gv.Render(ctx, g, format, buf); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the outer svg tag so the image scales to its
// container instead of carrying Graphviz's absolute point sizes.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
