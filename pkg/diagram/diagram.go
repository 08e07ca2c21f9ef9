// Package diagram defines the persisted record of one diagram layout: where
// each entity sits on the canvas, which manual connections the user drew, and
// the view state (zoom and scroll) to restore when the diagram is reopened.
//
// The types here mirror the JSON wire shape exchanged with the persistence
// layer exactly. Derived (foreign-key) connections are never stored; they are
// rebuilt from the schema on load.
package diagram

import "slices"

// Item kinds. A diagram item is the saved placement of one schema entity.
const (
	KindTable    = "table"
	KindSequence = "sequence"
)

// Connection kinds.
const (
	// ConnectionManual marks a user-drawn connection, persisted with the
	// diagram.
	ConnectionManual = "manual"
	// ConnectionDerived marks a connection generated from a foreign key.
	// Derived connections appear on the canvas but are not stored.
	ConnectionDerived = "derived"
)

// Item is the saved placement of one entity on a diagram.
// Width and Height are optional (zero when never measured).
type Item struct {
	Kind     string  `json:"kind"`
	FullName string  `json:"fullName"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
}

// Connection is a saved manual connection between two items.
type Connection struct {
	SourceFullName string `json:"sourceFullName"`
	TargetFullName string `json:"targetFullName"`
	Kind           string `json:"kind"`
	Label          string `json:"label,omitempty"`
}

// Diagram is one persisted diagram layout.
type Diagram struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	IsActive    bool         `json:"isActive"`
	ZoomLevel   float64      `json:"zoomLevel"`
	ScrollX     float64      `json:"scrollX"`
	ScrollY     float64      `json:"scrollY"`
	Items       []Item       `json:"items"`
	Connections []Connection `json:"connections"`
}

// New creates an empty diagram with the default zoom level.
func New(name, description string) *Diagram {
	return &Diagram{
		Name:        name,
		Description: description,
		ZoomLevel:   1.0,
	}
}

// Item returns a pointer to the item with the given full name, or nil.
func (d *Diagram) Item(fullName string) *Item {
	for i := range d.Items {
		if d.Items[i].FullName == fullName {
			return &d.Items[i]
		}
	}
	return nil
}

// AddItem places an entity on the diagram. Any existing item with the same
// full name is replaced, so an item appears at most once.
func (d *Diagram) AddItem(kind, fullName string, x, y float64) {
	d.removeItemOnly(fullName)
	d.Items = append(d.Items, Item{Kind: kind, FullName: fullName, X: x, Y: y})
}

// RemoveItem removes an item and every connection referencing it.
// It reports whether an item was removed.
func (d *Diagram) RemoveItem(fullName string) bool {
	if !d.removeItemOnly(fullName) {
		return false
	}
	d.Connections = slices.DeleteFunc(d.Connections, func(c Connection) bool {
		return c.SourceFullName == fullName || c.TargetFullName == fullName
	})
	return true
}

func (d *Diagram) removeItemOnly(fullName string) bool {
	n := len(d.Items)
	d.Items = slices.DeleteFunc(d.Items, func(it Item) bool {
		return it.FullName == fullName
	})
	return len(d.Items) != n
}

// RenameItem rekeys an item and every connection endpoint referencing it.
// It reports whether an item with the old name existed.
func (d *Diagram) RenameItem(oldName, newName string) bool {
	it := d.Item(oldName)
	if it == nil {
		return false
	}
	it.FullName = newName
	for i := range d.Connections {
		if d.Connections[i].SourceFullName == oldName {
			d.Connections[i].SourceFullName = newName
		}
		if d.Connections[i].TargetFullName == oldName {
			d.Connections[i].TargetFullName = newName
		}
	}
	return true
}

// SetItemPosition updates the saved position of an item, reporting whether
// the item exists.
func (d *Diagram) SetItemPosition(fullName string, x, y float64) bool {
	it := d.Item(fullName)
	if it == nil {
		return false
	}
	it.X, it.Y = x, y
	return true
}

// SetItemSize updates the saved size of an item, reporting whether the item
// exists.
func (d *Diagram) SetItemSize(fullName string, width, height float64) bool {
	it := d.Item(fullName)
	if it == nil {
		return false
	}
	it.Width, it.Height = width, height
	return true
}

// AddConnection stores a manual connection between two items. At most one
// manual connection exists per unordered pair: any previous connection
// between the same two items, in either direction, is removed first.
func (d *Diagram) AddConnection(sourceFullName, targetFullName, label string) {
	d.RemoveConnection(sourceFullName, targetFullName)
	d.Connections = append(d.Connections, Connection{
		SourceFullName: sourceFullName,
		TargetFullName: targetFullName,
		Kind:           ConnectionManual,
		Label:          label,
	})
}

// RemoveConnection deletes the connection between two items regardless of
// direction, reporting whether one existed.
func (d *Diagram) RemoveConnection(a, b string) bool {
	n := len(d.Connections)
	d.Connections = slices.DeleteFunc(d.Connections, func(c Connection) bool {
		return (c.SourceFullName == a && c.TargetFullName == b) ||
			(c.SourceFullName == b && c.TargetFullName == a)
	})
	return len(d.Connections) != n
}

// Connection returns the stored connection between two items regardless of
// direction, or nil.
func (d *Diagram) Connection(a, b string) *Connection {
	for i := range d.Connections {
		c := &d.Connections[i]
		if (c.SourceFullName == a && c.TargetFullName == b) ||
			(c.SourceFullName == b && c.TargetFullName == a) {
			return c
		}
	}
	return nil
}

// Clear removes all items and connections.
func (d *Diagram) Clear() {
	d.Items = nil
	d.Connections = nil
}

// Clone returns an independent copy of the diagram. Items and connections
// are value types, so cloning the two slices copies everything.
func (d *Diagram) Clone() *Diagram {
	c := *d
	c.Items = slices.Clone(d.Items)
	c.Connections = slices.Clone(d.Connections)
	return &c
}
