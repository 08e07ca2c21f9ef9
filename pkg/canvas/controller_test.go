package canvas

import (
	"testing"

	"github.com/erdraft/erdraft/pkg/diagram"
	"github.com/erdraft/erdraft/pkg/geom"
	"github.com/erdraft/erdraft/pkg/scene"
	"github.com/erdraft/erdraft/pkg/schema"
)

// testProject builds a two-table schema with one foreign key between them.
func testProject(t *testing.T) *schema.Project {
	t.Helper()
	p := schema.NewProject("test")
	if err := p.AddTable(&schema.Table{
		GUID:  schema.NewGUID(),
		Owner: "hr",
		Name:  "employees",
		Columns: []schema.Column{
			{Name: "id", DataType: "NUMBER"},
			{Name: "dept_id", DataType: "NUMBER", Nullable: true},
		},
	}); err != nil {
		t.Fatal(err)
	}
	if err := p.AddTable(&schema.Table{
		GUID:  schema.NewGUID(),
		Owner: "hr",
		Name:  "departments",
		Columns: []schema.Column{
			{Name: "id", DataType: "NUMBER"},
		},
	}); err != nil {
		t.Fatal(err)
	}
	p.AddForeignKey("hr.employees", "dept_id", "hr.departments", "id")
	return p
}

// newTestController opens a controller over the test project with both tables
// placed far enough apart that hit tests on one never touch the other.
func newTestController(t *testing.T) *Controller {
	t.Helper()
	d := diagram.New("main", "")
	d.AddItem(diagram.KindTable, "hr.employees", 10, 10)
	d.AddItem(diagram.KindTable, "hr.departments", 600, 400)
	c := New(d, testProject(t), Options{})
	c.Open()
	c.FlushDeferred()
	return c
}

func TestOpenPopulatesScene(t *testing.T) {
	c := newTestController(t)

	if got := c.Scene().NodeCount(); got != 2 {
		t.Fatalf("%d nodes after open, want 2", got)
	}
	n, ok := c.Scene().Node("hr.employees")
	if !ok {
		t.Fatal("hr.employees not in scene")
	}
	if n.Rect.X != 10 || n.Rect.Y != 10 {
		t.Errorf("node at (%v, %v), want saved position (10, 10)", n.Rect.X, n.Rect.Y)
	}
	if n.Rect.Width <= 0 || n.Rect.Height <= 0 {
		t.Error("node not measured on open")
	}

	// The measured size flows back into the persisted item.
	it := c.Diagram().Item("hr.employees")
	if it.Width != n.Rect.Width || it.Height != n.Rect.Height {
		t.Error("measured size not written back to diagram item")
	}

	derived := 0
	for _, e := range c.Scene().Edges() {
		if e.Kind == scene.EdgeDerived {
			derived++
		}
	}
	if derived != 1 {
		t.Errorf("%d derived edges, want 1", derived)
	}
}

func TestOpenDropsUnresolvableItems(t *testing.T) {
	d := diagram.New("main", "")
	d.AddItem(diagram.KindTable, "hr.employees", 10, 10)
	d.AddItem(diagram.KindTable, "hr.ghosts", 50, 50)
	c := New(d, testProject(t), Options{})
	c.Open()

	if c.Scene().HasNode("hr.ghosts") {
		t.Error("unresolvable item made it into the scene")
	}
	if d.Item("hr.ghosts") != nil {
		t.Error("unresolvable item survived in the diagram record")
	}
}

func TestOpenSkipsConnectionWithUnknownEndpoint(t *testing.T) {
	d := diagram.New("main", "")
	d.AddItem(diagram.KindTable, "hr.employees", 10, 10)
	d.Connections = append(d.Connections, diagram.Connection{
		SourceFullName: "hr.employees",
		TargetFullName: "hr.gone",
		Kind:           diagram.ConnectionManual,
	})
	c := New(d, testProject(t), Options{})
	c.Open()

	for _, e := range c.Scene().Edges() {
		if e.Kind == scene.EdgeManual {
			t.Fatal("manual edge built despite missing endpoint")
		}
	}
}

func TestDeferredScrollRestore(t *testing.T) {
	d := diagram.New("main", "")
	d.AddItem(diagram.KindTable, "hr.employees", 10, 10)
	d.ZoomLevel = 2.0
	d.ScrollX, d.ScrollY = 120, 80

	c := New(d, testProject(t), Options{})
	c.Open()

	if c.Zoom() != 2.0 {
		t.Errorf("zoom = %v immediately after open, want 2", c.Zoom())
	}
	if x, y := c.Scroll(); x != 0 || y != 0 {
		t.Errorf("scroll applied eagerly: (%v, %v)", x, y)
	}

	c.FlushDeferred()
	if x, y := c.Scroll(); x != 120 || y != 80 {
		t.Errorf("scroll = (%v, %v) after flush, want (120, 80)", x, y)
	}
}

func TestLeaveSavesViewState(t *testing.T) {
	c := newTestController(t)
	c.SetZoom(3.5)
	c.SetScroll(42, 7)
	c.Leave()

	d := c.Diagram()
	if d.ZoomLevel != 3.5 {
		t.Errorf("saved zoom = %v, want 3.5", d.ZoomLevel)
	}
	if d.ScrollX != 42 || d.ScrollY != 7 {
		t.Errorf("saved scroll = (%v, %v), want (42, 7)", d.ScrollX, d.ScrollY)
	}
}

func TestZoomClamped(t *testing.T) {
	c := newTestController(t)
	c.SetZoom(100)
	if c.Zoom() != MaxZoom {
		t.Errorf("zoom = %v, want clamped to %v", c.Zoom(), MaxZoom)
	}
	c.SetZoom(0.0001)
	if c.Zoom() != MinZoom {
		t.Errorf("zoom = %v, want clamped to %v", c.Zoom(), MinZoom)
	}
}

func TestClickSelection(t *testing.T) {
	c := newTestController(t)
	emp, _ := c.Scene().Node("hr.employees")
	dep, _ := c.Scene().Node("hr.departments")

	c.PrimaryPress(emp.Rect.Center(), false)
	c.PrimaryRelease(emp.Rect.Center())
	if got := c.Selection().IDs(); len(got) != 1 || got[0] != "hr.employees" {
		t.Fatalf("selection = %v, want [hr.employees]", got)
	}

	// A plain click replaces the selection; an additive click extends it.
	c.PrimaryPress(dep.Rect.Center(), false)
	c.PrimaryRelease(dep.Rect.Center())
	if got := c.Selection().IDs(); len(got) != 1 || got[0] != "hr.departments" {
		t.Fatalf("selection = %v, want [hr.departments]", got)
	}

	c.PrimaryPress(emp.Rect.Center(), true)
	c.PrimaryRelease(emp.Rect.Center())
	if got := c.Selection().IDs(); len(got) != 2 {
		t.Fatalf("selection = %v, want both nodes", got)
	}

	// Clicking empty canvas clears everything.
	c.PrimaryPress(geom.Point{X: -500, Y: -500}, false)
	c.PrimaryRelease(geom.Point{X: -500, Y: -500})
	if c.Selection().Len() != 0 {
		t.Error("selection not cleared by empty-canvas click")
	}
}

func TestSelectAll(t *testing.T) {
	c := newTestController(t)
	c.SelectAll()
	if c.Selection().Len() != 2 {
		t.Errorf("selected %d nodes, want 2", c.Selection().Len())
	}
}

func TestDragCommitsPositionsOnRelease(t *testing.T) {
	c := newTestController(t)
	emp, _ := c.Scene().Node("hr.employees")
	start := emp.Rect.Center()

	c.PrimaryPress(start, false)
	c.PointerMove(geom.Point{X: start.X + 30, Y: start.Y + 15})

	// Scene moves live, but the record only updates on release.
	if emp.Rect.X != 40 || emp.Rect.Y != 25 {
		t.Fatalf("node at (%v, %v) mid-drag, want (40, 25)", emp.Rect.X, emp.Rect.Y)
	}
	it := c.Diagram().Item("hr.employees")
	if it.X != 10 || it.Y != 10 {
		t.Errorf("item position committed mid-drag: (%v, %v)", it.X, it.Y)
	}

	c.PrimaryRelease(geom.Point{X: start.X + 30, Y: start.Y + 15})
	if it.X != 40 || it.Y != 25 {
		t.Errorf("item at (%v, %v) after release, want (40, 25)", it.X, it.Y)
	}
}

func TestDragSnapsToGrid(t *testing.T) {
	d := diagram.New("main", "")
	d.AddItem(diagram.KindTable, "hr.employees", 10, 10)
	c := New(d, testProject(t), Options{GridSnap: 20})
	c.Open()

	emp, _ := c.Scene().Node("hr.employees")
	start := emp.Rect.Center()
	c.PrimaryPress(start, false)
	c.PointerMove(geom.Point{X: start.X + 23, Y: start.Y + 9})
	c.PrimaryRelease(geom.Point{X: start.X + 23, Y: start.Y + 9})

	// (33, 19) rounds to the nearest grid intersections.
	if emp.Rect.X != 40 || emp.Rect.Y != 20 {
		t.Errorf("node at (%v, %v) after snap, want (40, 20)", emp.Rect.X, emp.Rect.Y)
	}
	if it := d.Item("hr.employees"); it.X != 40 || it.Y != 20 {
		t.Errorf("snapped position not committed: (%v, %v)", it.X, it.Y)
	}
}

func TestDragMovesWholeSelection(t *testing.T) {
	c := newTestController(t)
	c.SelectAll()

	emp, _ := c.Scene().Node("hr.employees")
	dep, _ := c.Scene().Node("hr.departments")
	start := emp.Rect.Center()

	c.PrimaryPress(start, false)
	c.PointerMove(geom.Point{X: start.X + 10, Y: start.Y})
	c.PrimaryRelease(geom.Point{X: start.X + 10, Y: start.Y})

	if emp.Rect.X != 20 {
		t.Errorf("employees.x = %v, want 20", emp.Rect.X)
	}
	if dep.Rect.X != 610 {
		t.Errorf("departments.x = %v, want dragged along to 610", dep.Rect.X)
	}
	if it := c.Diagram().Item("hr.departments"); it.X != 610 {
		t.Errorf("departments item not committed: x = %v", it.X)
	}
}

func TestDropTable(t *testing.T) {
	d := diagram.New("main", "")
	c := New(d, testProject(t), Options{})
	c.Open()

	if err := c.Drop("hr.employees", geom.Point{X: 100, Y: 50}); err != nil {
		t.Fatal(err)
	}
	it := d.Item("hr.employees")
	if it == nil {
		t.Fatal("dropped entity not recorded")
	}
	if it.Kind != diagram.KindTable {
		t.Errorf("kind = %q, want table", it.Kind)
	}
	if it.X != 100 || it.Y != 50 {
		t.Errorf("item at (%v, %v), want drop point (100, 50)", it.X, it.Y)
	}
}

func TestDropUnknownEntity(t *testing.T) {
	c := newTestController(t)
	if err := c.Drop("hr.nope", geom.Point{X: 0, Y: 0}); err == nil {
		t.Error("expected error dropping unknown entity")
	}
}

func TestDropSequence(t *testing.T) {
	p := testProject(t)
	if err := p.AddSequence(&schema.Sequence{
		GUID:  schema.NewGUID(),
		Owner: "hr",
		Name:  "emp_seq",
	}); err != nil {
		t.Fatal(err)
	}
	d := diagram.New("main", "")
	c := New(d, p, Options{})
	c.Open()

	if err := c.Drop("hr.emp_seq", geom.Point{X: 20, Y: 20}); err != nil {
		t.Fatal(err)
	}
	if it := d.Item("hr.emp_seq"); it.Kind != diagram.KindSequence {
		t.Errorf("kind = %q, want sequence", it.Kind)
	}
}

func TestRemoveFromDiagramKeepsSchema(t *testing.T) {
	c := newTestController(t)
	c.Selection().Add("hr.employees")
	c.RemoveFromDiagram("hr.employees")

	if c.Scene().HasNode("hr.employees") {
		t.Error("node survived removal")
	}
	if c.Diagram().Item("hr.employees") != nil {
		t.Error("item survived removal")
	}
	if c.Selection().Contains("hr.employees") {
		t.Error("removed node still selected")
	}
}

func TestEditEntityRefreshesNode(t *testing.T) {
	p := testProject(t)
	d := diagram.New("main", "")
	d.AddItem(diagram.KindTable, "hr.employees", 10, 10)

	edited := ""
	c := New(d, p, Options{
		OnEditRequested: func(fullName string) {
			edited = fullName
			tbl := p.Table(fullName)
			tbl.Columns = append(tbl.Columns, schema.Column{Name: "a_very_long_new_column_name", DataType: "VARCHAR2(200)", Nullable: true})
		},
	})
	c.Open()

	n, _ := c.Scene().Node("hr.employees")
	before := n.Rect.Height

	c.EditEntity("hr.employees")
	if edited != "hr.employees" {
		t.Fatal("edit callback not invoked")
	}
	if n.Rect.Height <= before {
		t.Error("node not remeasured after edit")
	}
	if it := d.Item("hr.employees"); it.Height != n.Rect.Height {
		t.Error("new size not written back to diagram item")
	}
}
