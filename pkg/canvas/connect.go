package canvas

import "github.com/erdraft/erdraft/pkg/geom"

// Cursor is the pointer shape the canvas asks its host to display.
type Cursor int

const (
	// CursorDefault is the normal arrow pointer.
	CursorDefault Cursor = iota
	// CursorCrosshair is shown while a connection is being drawn.
	CursorCrosshair
)

// connectPhase is the connection-drawing state. The armed phase carries its
// source node id in connector.source, so the pair forms a tagged union:
// Idle | Armed{source}.
type connectPhase int

const (
	phaseIdle connectPhase = iota
	phaseArmed
)

// connector is the pointer-driven state machine for drawing a manual
// connection. While armed it owns a rubber-band line from a fixed anchor on
// the source node to the current pointer position.
type connector struct {
	phase  connectPhase
	source string
	anchor geom.Point
	free   geom.Point
}

func (c *connector) armed() bool { return c.phase == phaseArmed }

func (c *connector) arm(source string, anchor geom.Point) {
	c.phase = phaseArmed
	c.source = source
	c.anchor = anchor
	c.free = anchor
}

func (c *connector) track(p geom.Point) {
	if c.phase == phaseArmed {
		c.free = p
	}
}

func (c *connector) reset() {
	*c = connector{}
}

// StartConnection arms the connection state machine on the given node. The
// rubber band is anchored at the node's right-middle edge and the cursor
// switches to a crosshair. Arming while already armed cancels the previous
// session first. Unknown node ids are ignored.
func (c *Controller) StartConnection(nodeID string) {
	n, ok := c.scn.Node(nodeID)
	if !ok {
		return
	}
	if c.connect.armed() {
		c.cancelConnection()
	}
	c.connect.arm(nodeID, n.Rect.Midpoint(geom.SideRight))
	c.cursor = CursorCrosshair
	c.log.Debug("connection armed", "source", nodeID)
}

// RubberBand returns the temporary connection line while armed. ok is false
// when no connection is being drawn.
func (c *Controller) RubberBand() (from, to geom.Point, ok bool) {
	if !c.connect.armed() {
		return geom.Point{}, geom.Point{}, false
	}
	return c.connect.anchor, c.connect.free, true
}

// Armed reports whether a connection-drawing session is active.
func (c *Controller) Armed() bool { return c.connect.armed() }

// Cursor returns the pointer shape the host should display.
func (c *Controller) Cursor() Cursor { return c.cursor }

// armedPress dispatches a primary click while armed. A click on a node other
// than the source commits the manual connection; a click on the source
// itself or on empty canvas cancels. Either way the machine returns to idle
// and the rubber band disappears.
func (c *Controller) armedPress(p geom.Point) {
	target := c.scn.NodeAt(p)
	source := c.connect.source
	if target == nil || target.ID == source {
		c.cancelConnection()
		return
	}

	c.scn.AddManualEdge(source, target.ID, "")
	c.diag.AddConnection(source, target.ID, "")
	c.cancelConnection()
	c.log.Debug("manual connection committed", "source", source, "target", target.ID)
}

// cancelConnection returns the machine to idle without touching the diagram
// record.
func (c *Controller) cancelConnection() {
	c.connect.reset()
	c.cursor = CursorDefault
}
