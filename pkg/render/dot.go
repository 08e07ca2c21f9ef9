package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/erdraft/erdraft/pkg/scene"
)

// Options configures Graphviz export.
type Options struct {
	// TitlesOnly drops the attribute rows from node labels, leaving only
	// the entity names. Useful for large schemas where full labels make
	// the graph unreadable.
	TitlesOnly bool
}

// ToDOT converts a scene to Graphviz DOT format. Node positions are not
// carried over: Graphviz lays the diagram out on its own. The resulting DOT
// string can be rendered with [RenderSVG].
//
// Derived connections are drawn as solid arrows, manual connections as
// dashed lines without direction.
func ToDOT(scn *scene.Scene, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph erd {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"filled\", fillcolor=white, fontsize=12, margin=\"0.15,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range scn.Nodes() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID, fmtLabel(n, opts.TitlesOnly))
	}

	buf.WriteString("\n")
	for _, e := range scn.Edges() {
		var attrs []string
		if e.Kind == scene.EdgeManual {
			attrs = append(attrs, "style=dashed", "dir=none")
		}
		if e.Label != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
		}
		suffix := ""
		if len(attrs) > 0 {
			suffix = " [" + strings.Join(attrs, ", ") + "]"
		}
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", e.Source, e.Target, suffix)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *scene.Node, titlesOnly bool) string {
	if titlesOnly || len(n.Lines) == 0 {
		return n.ID
	}
	return strings.Join(n.Lines, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the opening svg tag so the viewBox starts at the
// origin and the element carries explicit pixel dimensions. Some viewers
// clip Graphviz output without this.
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
