package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/erdraft/erdraft/pkg/fonts"
	"github.com/erdraft/erdraft/pkg/scene"
)

const (
	rasterPadding  = 20.0
	rasterFontSize = 12.0
	rasterLinePad  = 4.0
)

// RenderPNG draws the scene as the user arranged it and encodes the result
// as PNG. Node positions, routed connection lines, and arrowheads match the
// canvas exactly. A scale of 2.0 produces a 2x resolution image for
// high-DPI displays.
//
// An empty scene yields an error rather than a zero-sized image.
func RenderPNG(scn *scene.Scene, scale float64) ([]byte, error) {
	nodes := scn.Nodes()
	if len(nodes) == 0 {
		return nil, fmt.Errorf("render: empty scene")
	}
	if scale <= 0 {
		scale = 1.0
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minX = math.Min(minX, n.Rect.X)
		minY = math.Min(minY, n.Rect.Y)
		maxX = math.Max(maxX, n.Rect.X+n.Rect.Width)
		maxY = math.Max(maxY, n.Rect.Y+n.Rect.Height)
	}
	minX -= rasterPadding
	minY -= rasterPadding
	maxX += rasterPadding
	maxY += rasterPadding

	width := int(math.Ceil((maxX - minX) * scale))
	height := int(math.Ceil((maxY - minY) * scale))

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()
	dc.Scale(scale, scale)
	dc.Translate(-minX, -minY)

	face, err := fonts.MonoFace(rasterFontSize)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)

	// Connections first so the boxes sit on top of them.
	for _, e := range scn.Edges() {
		drawEdge(dc, e)
	}
	for _, n := range nodes {
		drawNode(dc, n)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawEdge(dc *gg.Context, e *scene.Edge) {
	dc.SetColor(color.Black)
	dc.SetLineWidth(1.0)
	if e.Kind == scene.EdgeManual {
		dc.SetDash(4, 3)
	}
	dc.DrawLine(e.Geometry.Source.X, e.Geometry.Source.Y,
		e.Geometry.Target.X, e.Geometry.Target.Y)
	dc.Stroke()
	dc.SetDash()

	if e.Kind == scene.EdgeDerived && e.Geometry.HasArrow {
		a := e.Geometry.Arrow
		dc.MoveTo(a[0].X, a[0].Y)
		dc.LineTo(a[1].X, a[1].Y)
		dc.LineTo(a[2].X, a[2].Y)
		dc.ClosePath()
		dc.Fill()
	}

	if e.Label != "" {
		mx := (e.Geometry.Source.X + e.Geometry.Target.X) / 2
		my := (e.Geometry.Source.Y + e.Geometry.Target.Y) / 2
		dc.DrawStringAnchored(e.Label, mx, my-rasterLinePad, 0.5, 0)
	}
}

func drawNode(dc *gg.Context, n *scene.Node) {
	r := n.Rect
	dc.SetColor(color.White)
	dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	dc.Fill()
	dc.SetColor(color.Black)
	dc.SetLineWidth(1.0)
	dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	dc.Stroke()

	if len(n.Lines) == 0 {
		return
	}

	rowHeight := (r.Height - scene.TitleHeight) / math.Max(1, float64(len(n.Lines)-1))

	// Title, centered, with a separator line underneath.
	dc.DrawStringAnchored(n.Lines[0], r.X+r.Width/2, r.Y+scene.TitleHeight/2, 0.5, 0.35)
	if len(n.Lines) > 1 {
		dc.DrawLine(r.X, r.Y+scene.TitleHeight, r.X+r.Width, r.Y+scene.TitleHeight)
		dc.Stroke()
	}

	for i, line := range n.Lines[1:] {
		y := r.Y + scene.TitleHeight + float64(i)*rowHeight + rowHeight/2
		dc.DrawStringAnchored(line, r.X+rasterLinePad, y, 0, 0.35)
	}
}
