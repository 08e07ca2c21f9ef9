package canvas

import (
	"sort"

	"github.com/erdraft/erdraft/pkg/scene"
)

// AlignEdge names the rectangle edge an alignment operation matches up.
type AlignEdge int

const (
	AlignLeft AlignEdge = iota
	AlignRight
	AlignTop
	AlignBottom
)

// Axis names the direction of a distribution operation.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// Align translates every selected node except the first so that its named
// edge coordinate matches the first-selected node's; the orthogonal
// coordinate is unchanged. With fewer than two selected nodes it is a no-op.
// The new positions are committed to the diagram record in one batch.
func (c *Controller) Align(edge AlignEdge) {
	ids := c.selection.IDs()
	if len(ids) < 2 {
		return
	}
	ref, ok := c.scn.Node(ids[0])
	if !ok {
		return
	}

	for _, id := range ids[1:] {
		n, ok := c.scn.Node(id)
		if !ok {
			continue
		}
		x, y := n.Rect.X, n.Rect.Y
		switch edge {
		case AlignLeft:
			x = ref.Rect.X
		case AlignRight:
			x = ref.Rect.X + ref.Rect.Width - n.Rect.Width
		case AlignTop:
			y = ref.Rect.Y
		case AlignBottom:
			y = ref.Rect.Y + ref.Rect.Height - n.Rect.Height
		}
		c.scn.MoveNode(id, x, y)
	}
	c.commitPositions(ids)
}

// Distribute spaces the selected nodes evenly along the axis. The nodes are
// sorted by position; the leading edge of the first and the trailing edge of
// the last stay where they are, and the remaining nodes are repositioned so
// every consecutive gap is identical. Fewer than three selected nodes is a
// no-op. The new positions are committed in one batch.
func (c *Controller) Distribute(axis Axis) {
	ids := c.selection.IDs()
	if len(ids) < 3 {
		return
	}

	nodes := make([]*scene.Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := c.scn.Node(id); ok {
			nodes = append(nodes, n)
		}
	}
	if len(nodes) < 3 {
		return
	}

	pos := func(n *scene.Node) float64 { return n.Rect.X }
	extent := func(n *scene.Node) float64 { return n.Rect.Width }
	if axis == Vertical {
		pos = func(n *scene.Node) float64 { return n.Rect.Y }
		extent = func(n *scene.Node) float64 { return n.Rect.Height }
	}

	sort.SliceStable(nodes, func(i, j int) bool { return pos(nodes[i]) < pos(nodes[j]) })

	first, last := nodes[0], nodes[len(nodes)-1]
	span := pos(last) + extent(last) - pos(first)
	total := 0.0
	for _, n := range nodes {
		total += extent(n)
	}
	gap := (span - total) / float64(len(nodes)-1)

	cur := pos(first)
	for _, n := range nodes {
		if axis == Horizontal {
			c.scn.MoveNode(n.ID, cur, n.Rect.Y)
		} else {
			c.scn.MoveNode(n.ID, n.Rect.X, cur)
		}
		cur += extent(n) + gap
	}
	c.commitPositions(ids)
}

// RemoveSelected removes every selected node and its incident edges from the
// diagram only; the schema entities survive. Removing more than one node
// asks the confirmation callback first. Positions of unaffected nodes are
// untouched; the diagram record is updated in the same pass.
func (c *Controller) RemoveSelected() {
	ids := c.selection.IDs()
	if len(ids) == 0 {
		return
	}
	if len(ids) > 1 && !c.confirm(len(ids)) {
		return
	}
	for _, id := range ids {
		c.scn.RemoveNode(id)
		c.diag.RemoveItem(id)
	}
	c.selection.Clear()
	c.log.Debug("removed nodes from diagram", "count", len(ids))
}
