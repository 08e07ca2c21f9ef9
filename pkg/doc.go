// Package pkg provides the core libraries for erdraft diagram editing.
//
// # Overview
//
// erdraft edits entity-relationship diagrams on a freeform 2D canvas. The
// pkg directory is organized around the data flow from a stored project to
// pixels on screen:
//
//	Project file (schema) ─┐
//	                       ├─ [canvas] controller ─ [scene] ─ [render]
//	Diagram state ─────────┘
//
// # Main Packages
//
// [geom] - Points, rectangles, and connection routing. Picks the facing
// side midpoints of two rectangles and computes arrowhead geometry.
//
// [schema] - The project model: tables, columns, sequences, foreign keys,
// and the JSON project file format.
//
// [diagram] - Persisted diagram state: item placements, manual
// connections, and per-diagram view state (zoom and scroll).
//
// [scene] - The live scene graph. Nodes sized from their text content,
// edges routed through [geom], derived relationship edges rebuilt from
// foreign keys.
//
// [canvas] - The interaction controller. Pointer and keyboard gestures,
// selection, drag with optional grid snapping, the connection state
// machine, alignment and distribution, and schema reconciliation.
//
// [render] - Diagram export. Graphviz-based DOT and SVG output plus a
// canvas-exact PNG rasterizer.
//
// [legacy] - Read-only importer for the old SQLite project container.
//
// [fonts] - Parsed font faces for the rasterizer.
//
// [buildinfo] - Version metadata injected at build time.
//
// [geom]: https://pkg.go.dev/github.com/erdraft/erdraft/pkg/geom
// [schema]: https://pkg.go.dev/github.com/erdraft/erdraft/pkg/schema
// [diagram]: https://pkg.go.dev/github.com/erdraft/erdraft/pkg/diagram
// [scene]: https://pkg.go.dev/github.com/erdraft/erdraft/pkg/scene
// [canvas]: https://pkg.go.dev/github.com/erdraft/erdraft/pkg/canvas
// [render]: https://pkg.go.dev/github.com/erdraft/erdraft/pkg/render
// [legacy]: https://pkg.go.dev/github.com/erdraft/erdraft/pkg/legacy
// [fonts]: https://pkg.go.dev/github.com/erdraft/erdraft/pkg/fonts
// [buildinfo]: https://pkg.go.dev/github.com/erdraft/erdraft/pkg/buildinfo
package pkg
