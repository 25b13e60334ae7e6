// Package ownership renders the section ownership graph — balconies and
// the child tables/sofas they own — as a node-link diagram for inspection
// and debugging of large venues.
package ownership

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/hallplan/hallplan/pkg/venue"
)

// ToDOT converts a snapshot's section list to Graphviz DOT format. Every
// section is a node labeled with its type and label; ownership edges run
// from a balcony to each child it owns, and category membership is shown
// in the node label.
func ToDOT(snap venue.Snapshot) string {
	var buf bytes.Buffer
	buf.WriteString("digraph venue {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for i := range snap.Sections {
		sec := &snap.Sections[i]
		attrs := fmt.Sprintf("label=%q", nodeLabel(sec))
		if sec.Type == venue.TypeBalcony && sec.BalconyPos == venue.BalconyPending {
			attrs += `, style="rounded,filled,dashed", fillcolor=lightgrey`
		} else if sec.Color != "" {
			attrs += fmt.Sprintf(", fillcolor=%q", sec.Color)
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", sec.ID, attrs)
	}

	buf.WriteString("\n")
	for i := range snap.Sections {
		sec := &snap.Sections[i]
		if sec.BalconyID != "" {
			fmt.Fprintf(&buf, "  %q -> %q;\n", sec.BalconyID, sec.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(sec *venue.Section) string {
	label := sec.Label
	if sec.Category != "" {
		label += "\n" + sec.Category
	}
	return label
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer func() { _ = g.Close() }()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
