// Package canvas implements the interactive diagram controller: pointer and
// keyboard dispatch, the connection-drawing state machine, multi-selection
// with bulk geometric transforms, and the synchronization between the visual
// scene and the persisted diagram record.
//
// The controller is single-threaded. Every method must be called
// from the host's event loop goroutine; handlers run to completion before the
// next event, so edge geometry always sees fully-updated node positions. The
// only deferred work is the scroll restore after opening a diagram, which the
// host releases with [Controller.FlushDeferred] on its next tick.
package canvas

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/erdraft/erdraft/pkg/diagram"
	"github.com/erdraft/erdraft/pkg/geom"
	"github.com/erdraft/erdraft/pkg/scene"
	"github.com/erdraft/erdraft/pkg/schema"
)

// Zoom limits applied by SetZoom. Zoom steps follow the classic 1.2/0.8
// button behavior.
const (
	MinZoom    = 0.1
	MaxZoom    = 8.0
	zoomInStep = 1.2
)

// Options configures a Controller. All fields are optional.
type Options struct {
	// Logger receives structured diagnostics. Defaults to log.Default().
	Logger *log.Logger

	// ConfirmBulkRemove is asked before removing more than one node at
	// once. A nil callback confirms everything, for headless use.
	ConfirmBulkRemove func(count int) bool

	// GridSnap rounds node positions to multiples of this many canvas
	// units when a drag ends. Zero or negative disables snapping.
	GridSnap float64

	// OnEditRequested is invoked when the user asks to edit an entity.
	// The external editor runs, then the host calls RefreshNode.
	OnEditRequested func(fullName string)
}

// Controller wires one open diagram together: the scene it draws, the
// diagram record it persists into, and the schema source it resolves
// entities against.
type Controller struct {
	scn    *scene.Scene
	diag   *diagram.Diagram
	source schema.Source
	log    *log.Logger

	selection Selection
	connect   connector
	cursor    Cursor

	drag struct {
		active bool
		moved  bool
		last   geom.Point
	}

	zoom            float64
	scrollX         float64
	scrollY         float64
	pending         []func()
	snap            float64
	confirm         func(int) bool
	onEditRequested func(string)
}

// New creates a controller over a diagram record and a schema source.
// Call Open to populate the scene from the record.
func New(d *diagram.Diagram, src schema.Source, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	confirm := opts.ConfirmBulkRemove
	if confirm == nil {
		confirm = func(int) bool { return true }
	}
	return &Controller{
		scn:             scene.New(),
		diag:            d,
		source:          src,
		log:             logger,
		zoom:            1.0,
		snap:            opts.GridSnap,
		confirm:         confirm,
		onEditRequested: opts.OnEditRequested,
	}
}

// Scene returns the visual scene. Hosts read it for rendering; they must not
// mutate it directly.
func (c *Controller) Scene() *scene.Scene { return c.scn }

// Diagram returns the underlying diagram record.
func (c *Controller) Diagram() *diagram.Diagram { return c.diag }

// Selection returns the current selection.
func (c *Controller) Selection() *Selection { return &c.selection }

// =============================================================================
// Open / Leave - view lifecycle
// =============================================================================

// Open populates the scene from the diagram record: one node per persisted
// item that still resolves against the schema, the stored manual
// connections, and the derived foreign-key edges. Items whose entity no
// longer exists are dropped from the record; connections with unknown
// endpoints are skipped with a diagnostic.
//
// The saved scroll offset is not applied synchronously: applying it before
// the host has laid out the scene is a no-op, so Open schedules it as
// deferred work released by FlushDeferred on the host's next tick.
func (c *Controller) Open() {
	for _, it := range append([]diagram.Item(nil), c.diag.Items...) {
		lines, ok := c.source.DisplayLines(it.FullName)
		if !ok {
			c.log.Debug("dropping unresolvable item", "item", it.FullName)
			c.diag.RemoveItem(it.FullName)
			continue
		}
		n := c.scn.AddNode(it.FullName, it.Kind, lines, it.X, it.Y)
		c.diag.SetItemSize(it.FullName, n.Rect.Width, n.Rect.Height)
	}

	for _, conn := range c.diag.Connections {
		if !c.scn.HasNode(conn.SourceFullName) || !c.scn.HasNode(conn.TargetFullName) {
			c.log.Debug("skipping connection with unknown endpoint",
				"source", conn.SourceFullName, "target", conn.TargetFullName)
			continue
		}
		e := c.scn.AddManualEdge(conn.SourceFullName, conn.TargetFullName, conn.Label)
		if e == nil {
			c.log.Debug("skipping malformed connection",
				"source", conn.SourceFullName, "target", conn.TargetFullName)
		}
	}

	c.scn.SetDerivedEdges(c.source.Relations())

	c.zoom = c.diag.ZoomLevel
	if c.zoom <= 0 {
		c.zoom = 1.0
	}
	sx, sy := c.diag.ScrollX, c.diag.ScrollY
	c.pending = append(c.pending, func() {
		c.scrollX, c.scrollY = sx, sy
	})
}

// Leave saves the view state (zoom and scroll) into the diagram record.
// Hosts call it on every explicit "leaving this diagram" action.
func (c *Controller) Leave() {
	c.diag.ZoomLevel = c.zoom
	c.diag.ScrollX = c.scrollX
	c.diag.ScrollY = c.scrollY
}

// FlushDeferred runs work scheduled for the next tick, currently the scroll
// restore after Open. Hosts call it once layout has happened.
func (c *Controller) FlushDeferred() {
	pending := c.pending
	c.pending = nil
	for _, fn := range pending {
		fn()
	}
}

// Zoom returns the current zoom factor.
func (c *Controller) Zoom() float64 { return c.zoom }

// SetZoom sets the zoom factor, clamped to [MinZoom, MaxZoom].
func (c *Controller) SetZoom(z float64) {
	if z < MinZoom {
		z = MinZoom
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	c.zoom = z
}

// ZoomIn increases the zoom by one step.
func (c *Controller) ZoomIn() { c.SetZoom(c.zoom * zoomInStep) }

// ZoomOut decreases the zoom by one step.
func (c *Controller) ZoomOut() { c.SetZoom(c.zoom / zoomInStep) }

// Scroll returns the current scroll offset.
func (c *Controller) Scroll() (x, y float64) { return c.scrollX, c.scrollY }

// SetScroll sets the scroll offset.
func (c *Controller) SetScroll(x, y float64) {
	c.scrollX, c.scrollY = x, y
}

// =============================================================================
// Pointer and keyboard dispatch
// =============================================================================

// PrimaryPress handles a primary-button press at a canvas position. While a
// connection is armed the press is routed to the state machine. Otherwise it
// drives selection: additive presses toggle the node under the pointer,
// plain presses make it the sole selection, and a press on empty canvas
// clears the selection. A press on a node also begins a drag of the whole
// selection.
func (c *Controller) PrimaryPress(p geom.Point, additive bool) {
	if c.connect.armed() {
		c.armedPress(p)
		return
	}

	n := c.scn.NodeAt(p)
	if n == nil {
		c.selection.Clear()
		return
	}

	switch {
	case additive:
		c.selection.Toggle(n.ID)
	case !c.selection.Contains(n.ID):
		c.selection.Clear()
		c.selection.Add(n.ID)
	}

	if c.selection.Contains(n.ID) {
		c.drag.active = true
		c.drag.moved = false
		c.drag.last = p
	}
}

// PointerMove handles pointer motion. While armed it tracks the rubber
// band's free end; during a drag it moves every selected node by the motion
// delta, recomputing only the edges incident to the moved nodes.
func (c *Controller) PointerMove(p geom.Point) {
	if c.connect.armed() {
		c.connect.track(p)
		return
	}
	if !c.drag.active {
		return
	}

	d := p.Sub(c.drag.last)
	if d.X == 0 && d.Y == 0 {
		return
	}
	c.drag.last = p
	c.drag.moved = true
	for _, id := range c.selection.IDs() {
		if n, ok := c.scn.Node(id); ok {
			c.scn.MoveNode(id, n.Rect.X+d.X, n.Rect.Y+d.Y)
		}
	}
}

// PrimaryRelease ends a drag. If any node actually moved, positions are
// snapped to the grid when snapping is configured, then the new positions of
// all selected nodes are committed to the diagram record in one batch.
func (c *Controller) PrimaryRelease(p geom.Point) {
	if !c.drag.active {
		return
	}
	moved := c.drag.moved
	c.drag.active = false
	c.drag.moved = false
	if moved {
		c.snapPositions(c.selection.IDs())
		c.commitPositions(c.selection.IDs())
	}
}

// snapPositions rounds the named nodes' positions to the configured grid.
func (c *Controller) snapPositions(ids []string) {
	if c.snap <= 0 {
		return
	}
	for _, id := range ids {
		if n, ok := c.scn.Node(id); ok {
			x := math.Round(n.Rect.X/c.snap) * c.snap
			y := math.Round(n.Rect.Y/c.snap) * c.snap
			c.scn.MoveNode(id, x, y)
		}
	}
}

// SecondaryPress handles a secondary-button press. While armed it cancels
// the connection session; otherwise the host owns the event (context menu).
func (c *Controller) SecondaryPress(p geom.Point) {
	if c.connect.armed() {
		c.cancelConnection()
	}
}

// Escape cancels an armed connection session, or clears the selection when
// idle.
func (c *Controller) Escape() {
	if c.connect.armed() {
		c.cancelConnection()
		return
	}
	c.selection.Clear()
}

// SelectAll selects every node on the scene.
func (c *Controller) SelectAll() {
	c.selection.Clear()
	for _, n := range c.scn.Nodes() {
		c.selection.Add(n.ID)
	}
}

// =============================================================================
// Commands - context-menu surface
// =============================================================================

// Drop instantiates a node for the dropped entity at the given position,
// unless one is already on the diagram. Returns an error for entities the
// schema cannot resolve.
func (c *Controller) Drop(fullName string, p geom.Point) error {
	if c.scn.HasNode(fullName) {
		return nil
	}
	lines, ok := c.source.DisplayLines(fullName)
	if !ok {
		return fmt.Errorf("unknown entity %q", fullName)
	}
	kind := diagram.KindTable
	if len(lines) == 1 && len(lines[0]) > 4 && lines[0][:4] == "SEQ:" {
		kind = diagram.KindSequence
	}
	n := c.scn.AddNode(fullName, kind, lines, p.X, p.Y)
	c.diag.AddItem(kind, fullName, p.X, p.Y)
	c.diag.SetItemSize(fullName, n.Rect.Width, n.Rect.Height)
	c.scn.SetDerivedEdges(c.source.Relations())
	c.log.Debug("entity dropped", "entity", fullName, "x", p.X, "y", p.Y)
	return nil
}

// EditEntity forwards an edit request for the node to the external editor
// callback, then refreshes the node's label content.
func (c *Controller) EditEntity(fullName string) {
	if c.onEditRequested != nil {
		c.onEditRequested(fullName)
	}
	c.RefreshNode(fullName)
}

// RefreshNode re-reads an entity's display lines from the schema and
// remeasures its node. Unresolvable nodes are left for Reconcile.
func (c *Controller) RefreshNode(fullName string) {
	lines, ok := c.source.DisplayLines(fullName)
	if !ok {
		return
	}
	if c.scn.SetNodeLines(fullName, lines) {
		if n, ok := c.scn.Node(fullName); ok {
			c.diag.SetItemSize(fullName, n.Rect.Width, n.Rect.Height)
		}
	}
}

// RemoveFromDiagram removes a single node and its incident edges from the
// scene and the diagram record. The schema entity itself is untouched.
func (c *Controller) RemoveFromDiagram(fullName string) {
	c.selection.Remove(fullName)
	c.scn.RemoveNode(fullName)
	c.diag.RemoveItem(fullName)
}

// commitPositions writes the current scene positions of the given nodes into
// the diagram record as one batch.
func (c *Controller) commitPositions(ids []string) {
	for _, id := range ids {
		if n, ok := c.scn.Node(id); ok {
			c.diag.SetItemPosition(id, n.Rect.X, n.Rect.Y)
		}
	}
}
