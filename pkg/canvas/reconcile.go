package canvas

import (
	"github.com/erdraft/erdraft/pkg/diagram"
	"github.com/erdraft/erdraft/pkg/schema"
)

// Reconcile re-syncs the canvas against the current schema after a batch of
// entity edits. Each canvas node is resolved by its current id first, then
// by its previous id when the changeset reports a rename. Resolved nodes get
// fresh label content; renamed nodes are rekeyed in the scene and in the
// diagram record, including connection endpoints. Nodes that resolve
// neither way are dropped together with their edges, without error.
//
// Persisted items that are absent from the canvas but still resolve (for
// example entities re-added after an undo) are instantiated at their saved
// positions. Derived edges are rebuilt at the end from the schema's current
// foreign keys.
func (c *Controller) Reconcile(cs schema.Changeset) {
	for _, n := range c.scn.Nodes() {
		id := n.ID

		if lines, ok := c.source.DisplayLines(id); ok {
			c.scn.SetNodeLines(id, lines)
			c.diag.SetItemSize(id, n.Rect.Width, n.Rect.Height)
			continue
		}

		if newID, renamed := cs.Renamed[id]; renamed {
			if lines, ok := c.source.DisplayLines(newID); ok {
				c.scn.RekeyNode(id, newID)
				c.diag.RenameItem(id, newID)
				c.scn.SetNodeLines(newID, lines)
				if rn, ok := c.scn.Node(newID); ok {
					c.diag.SetItemSize(newID, rn.Rect.Width, rn.Rect.Height)
				}
				c.log.Debug("node rekeyed", "from", id, "to", newID)
				continue
			}
		}

		c.selection.Remove(id)
		c.scn.RemoveNode(id)
		c.diag.RemoveItem(id)
		c.log.Debug("dropping node for vanished entity", "entity", id)
	}

	// Items persisted but never instantiated on this canvas: rekey renames
	// directly in the record, then materialize whatever still resolves.
	for oldID, newID := range cs.Renamed {
		if c.diag.Item(oldID) != nil && !c.scn.HasNode(oldID) {
			c.diag.RenameItem(oldID, newID)
		}
	}
	for _, it := range append([]diagram.Item(nil), c.diag.Items...) {
		if c.scn.HasNode(it.FullName) {
			continue
		}
		lines, ok := c.source.DisplayLines(it.FullName)
		if !ok {
			c.diag.RemoveItem(it.FullName)
			continue
		}
		c.scn.AddNode(it.FullName, it.Kind, lines, it.X, it.Y)
	}

	c.scn.SetDerivedEdges(c.source.Relations())
}
