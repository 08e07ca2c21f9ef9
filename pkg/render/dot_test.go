package render

import (
	"strings"
	"testing"

	"github.com/erdraft/erdraft/pkg/scene"
	"github.com/erdraft/erdraft/pkg/schema"
)

func sampleScene() *scene.Scene {
	s := scene.New()
	s.AddNode("hr.employees", scene.KindTable, []string{"employees", "id: NUMBER"}, 0, 0)
	s.AddNode("hr.departments", scene.KindTable, []string{"departments", "id: NUMBER"}, 400, 0)
	s.SetDerivedEdges([]schema.Relation{
		{SourceTable: "hr.employees", SourceColumn: "dept_id", TargetTable: "hr.departments", TargetColumn: "id"},
	})
	s.AddManualEdge("hr.departments", "hr.employees", "note")
	return s
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleScene(), Options{})

	for _, want := range []string{
		"digraph erd {",
		`"hr.employees" [label="employees\nid: NUMBER"];`,
		`"hr.employees" -> "hr.departments" [label="dept_id"];`,
		`"hr.departments" -> "hr.employees" [style=dashed, dir=none, label="note"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTTitlesOnly(t *testing.T) {
	dot := ToDOT(sampleScene(), Options{TitlesOnly: true})
	if strings.Contains(dot, "id: NUMBER") {
		t.Error("attribute rows present despite TitlesOnly")
	}
	if !strings.Contains(dot, `label="hr.employees"`) {
		t.Error("node label missing in titles-only output")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>` + "\n" +
		`<svg width="100pt" height="50pt" viewBox="0.00 0.00 144.00 72.00" xmlns="http://www.w3.org/2000/svg">` +
		`<g></g></svg>`)

	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 144.00 72.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="144" height="72"`) {
		t.Errorf("pixel dimensions not set: %s", out)
	}

	plain := []byte(`<svg><g></g></svg>`)
	if got := string(normalizeViewBox(plain)); got != string(plain) {
		t.Errorf("svg without viewBox rewritten: %s", got)
	}
}
