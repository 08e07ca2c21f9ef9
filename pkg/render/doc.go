// Package render turns a diagram scene into shareable artifacts.
//
// # Overview
//
// Two export paths exist:
//
//   - Graphviz export ([ToDOT], [RenderSVG]): the diagram is handed to
//     Graphviz for automatic layout. Useful for quick sharing and for
//     diagrams that were never arranged by hand.
//   - Raster export ([RenderPNG]): the scene is drawn exactly as laid out
//     on the canvas, with the routed connection lines and arrowheads the
//     user sees while editing.
//
// # Graphviz Export
//
//	dot := render.ToDOT(scn, render.Options{})
//	svg, err := render.RenderSVG(dot)
//
// # Raster Export
//
//	png, err := render.RenderPNG(scn, 2.0) // 2x scale
package render
