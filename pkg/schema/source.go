package schema

import "fmt"

// Source is the read-only view of the schema consumed by the diagram canvas.
// It deliberately exposes only what the canvas needs: display text for a node
// and the foreign-key relations from which derived edges are built.
type Source interface {
	// DisplayLines returns the label lines for an entity: the title line
	// followed by one line per attribute. ok is false when no entity with
	// that full name exists.
	DisplayLines(fullName string) (lines []string, ok bool)

	// Relations returns all foreign-key relationships, resolved to table
	// and column names.
	Relations() []Relation
}

// Changeset describes one batch of schema edits reported to the canvas for
// reconciliation. Renames map the previous full name to the current one.
type Changeset struct {
	Renamed map[string]string
	Deleted []string
	Added   []string
}

// Empty reports whether the changeset contains no edits.
func (c Changeset) Empty() bool {
	return len(c.Renamed) == 0 && len(c.Deleted) == 0 && len(c.Added) == 0
}

// DisplayLines implements [Source]. Tables yield their name followed by one
// line per column; sequences yield a single "SEQ: owner.name" line, matching
// how the canvas renders them.
func (p *Project) DisplayLines(fullName string) ([]string, bool) {
	if t := p.Table(fullName); t != nil {
		lines := make([]string, 0, len(t.Columns)+1)
		lines = append(lines, t.Name)
		for _, c := range t.Columns {
			lines = append(lines, c.Label())
		}
		return lines, true
	}
	if s := p.Sequence(fullName); s != nil {
		return []string{fmt.Sprintf("SEQ: %s", s.FullName())}, true
	}
	return nil, false
}

// Relations implements [Source] by splitting each foreign-key entry into its
// table and column parts.
func (p *Project) Relations() []Relation {
	rels := make([]Relation, 0, len(p.ForeignKeys))
	for key, fk := range p.ForeignKeys {
		srcTable := sourceTableOf(key)
		var srcColumn string
		if len(key) > len(srcTable) {
			srcColumn = key[len(srcTable)+1:]
		}
		rels = append(rels, Relation{
			SourceTable:  srcTable,
			SourceColumn: srcColumn,
			TargetTable:  fk.TargetTable,
			TargetColumn: fk.TargetColumn,
		})
	}
	return rels
}
