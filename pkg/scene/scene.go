// Package scene holds the visual state of one open diagram: nodes keyed by
// their stable entity full name, and the edges connecting them with cached
// routed geometry.
//
// The scene is a pure model. It knows nothing about persistence or input
// handling; the canvas controller mutates it and mirrors the changes into the
// diagram record. All mutation happens on the UI goroutine, so the scene does
// no locking.
package scene

import (
	"slices"

	"github.com/erdraft/erdraft/pkg/geom"
	"github.com/erdraft/erdraft/pkg/schema"
)

// Node kinds, matching the diagram record.
const (
	KindTable    = "table"
	KindSequence = "sequence"
)

// Edge kinds. Derived edges come from foreign keys and are rebuilt from the
// schema; manual edges are user-drawn annotations.
const (
	EdgeDerived = "derived"
	EdgeManual  = "manual"
)

// Label metrics, in canvas units. Node sizes are derived from label content
// with fixed per-character metrics so measurement needs no font backend.
// TitleHeight and RowHeight are exported for renderers that lay text out
// inside the measured rectangle.
const (
	TitleHeight = 24.0
	RowHeight   = 16.0

	charWidth    = 7.0
	hPadding     = 10.0
	vPadding     = 8.0
	minNodeWidth = 150.0
)

// Node is the visual representation of one schema entity on the canvas.
// Lines holds the display text: title first, then one line per attribute.
type Node struct {
	ID    string
	Kind  string
	Rect  geom.Rect
	Lines []string
}

// EdgeGeometry is the routed shape of an edge: one boundary point per node
// and an optional arrowhead at the target point.
type EdgeGeometry struct {
	Source   geom.Point
	Target   geom.Point
	Arrow    [3]geom.Point
	HasArrow bool
}

// Edge is a connection between two nodes. Geometry is recomputed whenever
// either endpoint node moves or resizes.
type Edge struct {
	Source   string
	Target   string
	Kind     string
	Label    string
	Geometry EdgeGeometry
}

// Scene is the set of nodes and edges for one open diagram.
type Scene struct {
	nodes map[string]*Node
	order []string // node insertion order, for stable rendering
	edges []*Edge
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{nodes: make(map[string]*Node)}
}

// MeasureLines returns the node size for the given label lines: the widest
// line plus padding (at least the minimum node width), and the title height
// plus one row per remaining line.
func MeasureLines(lines []string) (width, height float64) {
	width = minNodeWidth
	for _, line := range lines {
		if w := float64(len([]rune(line)))*charWidth + 2*hPadding; w > width {
			width = w
		}
	}
	height = TitleHeight + vPadding
	if len(lines) > 1 {
		height += float64(len(lines)-1) * RowHeight
	}
	return width, height
}

// AddNode places a node on the scene at the given position, sized from its
// label lines. Adding an existing id replaces the node's content but keeps
// its identity. The node is returned for further adjustment.
func (s *Scene) AddNode(id, kind string, lines []string, x, y float64) *Node {
	w, h := MeasureLines(lines)
	n, ok := s.nodes[id]
	if !ok {
		n = &Node{ID: id, Kind: kind}
		s.nodes[id] = n
		s.order = append(s.order, id)
	}
	n.Kind = kind
	n.Lines = slices.Clone(lines)
	n.Rect = geom.Rect{X: x, Y: y, Width: w, Height: h}
	s.recomputeIncident(id)
	return n
}

// Node returns the node with the given id and true, or nil and false.
func (s *Scene) Node(id string) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// HasNode reports whether a node with the given id exists.
func (s *Scene) HasNode(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// Nodes returns all nodes in insertion order.
func (s *Scene) Nodes() []*Node {
	nodes := make([]*Node, 0, len(s.order))
	for _, id := range s.order {
		nodes = append(nodes, s.nodes[id])
	}
	return nodes
}

// NodeCount returns the number of nodes.
func (s *Scene) NodeCount() int { return len(s.nodes) }

// NodeAt returns the topmost node containing the point, or nil. Later nodes
// are considered on top of earlier ones.
func (s *Scene) NodeAt(p geom.Point) *Node {
	for i := len(s.order) - 1; i >= 0; i-- {
		if n := s.nodes[s.order[i]]; n.Rect.Contains(p) {
			return n
		}
	}
	return nil
}

// RemoveNode deletes a node and every edge incident to it, reporting whether
// the node existed.
func (s *Scene) RemoveNode(id string) bool {
	if _, ok := s.nodes[id]; !ok {
		return false
	}
	delete(s.nodes, id)
	s.order = slices.DeleteFunc(s.order, func(o string) bool { return o == id })
	s.edges = slices.DeleteFunc(s.edges, func(e *Edge) bool {
		return e.Source == id || e.Target == id
	})
	return true
}

// MoveNode sets a node's position and recomputes the geometry of exactly the
// edges incident to it. It reports whether the node existed.
func (s *Scene) MoveNode(id string, x, y float64) bool {
	n, ok := s.nodes[id]
	if !ok {
		return false
	}
	n.Rect.X, n.Rect.Y = x, y
	s.recomputeIncident(id)
	return true
}

// SetNodeLines replaces a node's label lines, remeasures it in place and
// recomputes incident edge geometry. It reports whether the node existed.
func (s *Scene) SetNodeLines(id string, lines []string) bool {
	n, ok := s.nodes[id]
	if !ok {
		return false
	}
	n.Lines = slices.Clone(lines)
	n.Rect.Width, n.Rect.Height = MeasureLines(lines)
	s.recomputeIncident(id)
	return true
}

// RekeyNode changes a node's id, updating every edge endpoint referencing
// it. It reports whether the old id existed; rekeying onto an existing id is
// refused.
func (s *Scene) RekeyNode(oldID, newID string) bool {
	n, ok := s.nodes[oldID]
	if !ok {
		return false
	}
	if _, taken := s.nodes[newID]; taken {
		return false
	}
	n.ID = newID
	delete(s.nodes, oldID)
	s.nodes[newID] = n
	for i, id := range s.order {
		if id == oldID {
			s.order[i] = newID
		}
	}
	for _, e := range s.edges {
		if e.Source == oldID {
			e.Source = newID
		}
		if e.Target == oldID {
			e.Target = newID
		}
	}
	return true
}

// Edges returns all edges. The returned slice is the scene's own; callers
// must not modify it.
func (s *Scene) Edges() []*Edge { return s.edges }

// EdgesIncident returns the edges touching the given node id.
func (s *Scene) EdgesIncident(id string) []*Edge {
	var out []*Edge
	for _, e := range s.edges {
		if e.Source == id || e.Target == id {
			out = append(out, e)
		}
	}
	return out
}

// AddManualEdge creates a user-drawn edge between two existing nodes. At
// most one manual edge exists per unordered pair: a previous manual edge
// between the same nodes, in either direction, is replaced. Returns nil when
// either endpoint is missing.
func (s *Scene) AddManualEdge(source, target, label string) *Edge {
	if !s.HasNode(source) || !s.HasNode(target) {
		return nil
	}
	s.edges = slices.DeleteFunc(s.edges, func(e *Edge) bool {
		if e.Kind != EdgeManual {
			return false
		}
		return (e.Source == source && e.Target == target) ||
			(e.Source == target && e.Target == source)
	})
	e := &Edge{Source: source, Target: target, Kind: EdgeManual, Label: label}
	s.recomputeEdge(e)
	s.edges = append(s.edges, e)
	return e
}

// RemoveManualEdge deletes the manual edge between two nodes regardless of
// direction, reporting whether one existed.
func (s *Scene) RemoveManualEdge(a, b string) bool {
	n := len(s.edges)
	s.edges = slices.DeleteFunc(s.edges, func(e *Edge) bool {
		if e.Kind != EdgeManual {
			return false
		}
		return (e.Source == a && e.Target == b) || (e.Source == b && e.Target == a)
	})
	return len(s.edges) != n
}

// SetDerivedEdges replaces all derived edges with one per foreign-key
// relation whose endpoints are both on the scene. Manual edges are kept.
func (s *Scene) SetDerivedEdges(rels []schema.Relation) {
	s.edges = slices.DeleteFunc(s.edges, func(e *Edge) bool {
		return e.Kind == EdgeDerived
	})
	for _, r := range rels {
		if !s.HasNode(r.SourceTable) || !s.HasNode(r.TargetTable) {
			continue
		}
		e := &Edge{
			Source: r.SourceTable,
			Target: r.TargetTable,
			Kind:   EdgeDerived,
			Label:  r.SourceColumn,
		}
		s.recomputeEdge(e)
		s.edges = append(s.edges, e)
	}
}

func (s *Scene) recomputeIncident(id string) {
	for _, e := range s.edges {
		if e.Source == id || e.Target == id {
			s.recomputeEdge(e)
		}
	}
}

func (s *Scene) recomputeEdge(e *Edge) {
	src, okS := s.nodes[e.Source]
	dst, okD := s.nodes[e.Target]
	if !okS || !okD {
		return
	}
	sp, tp := geom.Route(src.Rect, dst.Rect)
	e.Geometry.Source, e.Geometry.Target = sp, tp
	// A zero-length connection has no direction; keep the previous arrowhead
	// suppressed rather than producing a degenerate polygon.
	e.Geometry.Arrow, e.Geometry.HasArrow = geom.Arrowhead(sp, tp)
}
