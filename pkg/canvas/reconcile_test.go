package canvas

import (
	"testing"

	"github.com/erdraft/erdraft/pkg/diagram"
	"github.com/erdraft/erdraft/pkg/scene"
	"github.com/erdraft/erdraft/pkg/schema"
)

func TestReconcileRefreshesSurvivors(t *testing.T) {
	p := testProject(t)
	d := diagram.New("main", "")
	d.AddItem(diagram.KindTable, "hr.employees", 10, 10)
	c := New(d, p, Options{})
	c.Open()

	n, _ := c.Scene().Node("hr.employees")
	before := n.Rect.Height

	tbl := p.Table("hr.employees")
	tbl.Columns = append(tbl.Columns, schema.Column{Name: "hired_on", DataType: "DATE", Nullable: true})
	c.Reconcile(schema.Changeset{})

	if n.Rect.Height <= before {
		t.Error("surviving node not remeasured")
	}
	if len(n.Lines) != 4 {
		t.Errorf("%d label lines, want 4", len(n.Lines))
	}
}

func TestReconcileRename(t *testing.T) {
	p := testProject(t)
	d := diagram.New("main", "")
	d.AddItem(diagram.KindTable, "hr.employees", 10, 10)
	d.AddItem(diagram.KindTable, "hr.departments", 600, 400)
	d.AddConnection("hr.employees", "hr.departments", "works in")
	c := New(d, p, Options{})
	c.Open()
	c.Selection().Add("hr.employees")

	p.Table("hr.employees").Name = "staff"
	delete(p.ForeignKeys, "hr.employees.dept_id")
	p.AddForeignKey("hr.staff", "dept_id", "hr.departments", "id")
	c.Reconcile(schema.Changeset{Renamed: map[string]string{"hr.employees": "hr.staff"}})

	if c.Scene().HasNode("hr.employees") {
		t.Error("old id still present in scene")
	}
	n, ok := c.Scene().Node("hr.staff")
	if !ok {
		t.Fatal("renamed node missing from scene")
	}
	if n.Rect.X != 10 || n.Rect.Y != 10 {
		t.Error("rename moved the node")
	}
	if n.Lines[0] != "staff" {
		t.Errorf("title line %q, want refreshed %q", n.Lines[0], "staff")
	}

	if d.Item("hr.staff") == nil || d.Item("hr.employees") != nil {
		t.Error("diagram item not rekeyed")
	}
	conn := d.Connection("hr.staff", "hr.departments")
	if conn == nil {
		t.Fatal("connection endpoint not rekeyed")
	}
	if conn.Label != "works in" {
		t.Error("rekeying lost the connection label")
	}

	for _, e := range c.Scene().Edges() {
		if e.Source == "hr.employees" || e.Target == "hr.employees" {
			t.Errorf("edge still references old id: %s → %s", e.Source, e.Target)
		}
	}
}

func TestReconcileDroppedEntity(t *testing.T) {
	p := testProject(t)
	c := newTestController(t)
	c.Selection().Add("hr.departments")

	// Swap in the mutated schema: departments is gone.
	c.source = p
	p.RemoveTable("hr.departments")
	c.Reconcile(schema.Changeset{Deleted: []string{"hr.departments"}})

	if c.Scene().HasNode("hr.departments") {
		t.Error("node for deleted entity survived")
	}
	if c.Diagram().Item("hr.departments") != nil {
		t.Error("item for deleted entity survived")
	}
	if c.Selection().Contains("hr.departments") {
		t.Error("deleted entity still selected")
	}
	for _, e := range c.Scene().Edges() {
		if e.Source == "hr.departments" || e.Target == "hr.departments" {
			t.Error("edge to deleted entity survived")
		}
	}
}

func TestReconcileMaterializesPersistedItems(t *testing.T) {
	p := testProject(t)
	d := diagram.New("main", "")
	d.AddItem(diagram.KindTable, "hr.employees", 10, 10)
	d.AddItem(diagram.KindTable, "hr.departments", 300, 200)
	c := New(d, p, Options{})
	c.Open()

	// Simulate an undo cycle: the node left the scene but the item stayed.
	c.Scene().RemoveNode("hr.departments")
	c.Reconcile(schema.Changeset{})

	n, ok := c.Scene().Node("hr.departments")
	if !ok {
		t.Fatal("persisted item not materialized")
	}
	if n.Rect.X != 300 || n.Rect.Y != 200 {
		t.Errorf("materialized at (%v, %v), want saved (300, 200)", n.Rect.X, n.Rect.Y)
	}
}

func TestReconcileRekeysPersistedOnlyItems(t *testing.T) {
	p := testProject(t)
	d := diagram.New("main", "")
	d.AddItem(diagram.KindTable, "hr.employees", 10, 10)
	d.AddItem(diagram.KindTable, "hr.departments", 300, 200)
	c := New(d, p, Options{})
	c.Open()

	c.Scene().RemoveNode("hr.departments")
	p.Table("hr.departments").Name = "units"
	delete(p.ForeignKeys, "hr.employees.dept_id")
	c.Reconcile(schema.Changeset{Renamed: map[string]string{"hr.departments": "hr.units"}})

	if d.Item("hr.departments") != nil {
		t.Error("stale item name survived")
	}
	if !c.Scene().HasNode("hr.units") {
		t.Error("renamed persisted item not materialized")
	}
}

func TestReconcileRebuildsDerivedEdges(t *testing.T) {
	p := testProject(t)
	d := diagram.New("main", "")
	d.AddItem(diagram.KindTable, "hr.employees", 10, 10)
	d.AddItem(diagram.KindTable, "hr.departments", 600, 400)
	c := New(d, p, Options{})
	c.Open()

	delete(p.ForeignKeys, "hr.employees.dept_id")
	c.Reconcile(schema.Changeset{})

	for _, e := range c.Scene().Edges() {
		if e.Kind == scene.EdgeDerived {
			t.Error("derived edge survived foreign-key removal")
		}
	}
}
