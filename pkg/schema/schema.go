// Package schema holds the database design model the diagram canvas reads
// from: owners, tables, columns, sequences and the foreign keys between them.
//
// The canvas never stores pointers into this model. It refers to entities by
// their stable full name ("owner.name") and resolves them on demand through
// the [Source] interface, which Project implements. Schema edits are reported
// to the canvas as a [Changeset] so it can re-resolve its nodes explicitly.
package schema

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/erdraft/erdraft/pkg/diagram"
)

var (
	// ErrDuplicateName is returned when adding an entity whose full name is
	// already taken within the project.
	ErrDuplicateName = errors.New("duplicate entity name")

	// ErrUnknownDiagram is returned by [Project.SetActiveDiagram] when no
	// diagram with the given name exists.
	ErrUnknownDiagram = errors.New("unknown diagram")
)

// Column is a single table column.
type Column struct {
	GUID     string `json:"guid"`
	Name     string `json:"name"`
	DataType string `json:"dataType"`
	Nullable bool   `json:"nullable"`
	Comment  string `json:"comment,omitempty"`
}

// Label returns the display text for the column as shown inside a diagram
// node: "name: TYPE", with a NOT NULL suffix for mandatory columns.
func (c Column) Label() string {
	s := fmt.Sprintf("%s: %s", c.Name, c.DataType)
	if !c.Nullable {
		s += " NOT NULL"
	}
	return s
}

// Table is a database table owned by a schema owner.
type Table struct {
	GUID    string   `json:"guid"`
	Name    string   `json:"name"`
	Owner   string   `json:"owner"`
	Comment string   `json:"comment,omitempty"`
	Color   string   `json:"color,omitempty"`
	Columns []Column `json:"columns"`
}

// FullName returns the stable "owner.name" identifier.
func (t *Table) FullName() string { return t.Owner + "." + t.Name }

// Sequence is a database sequence owned by a schema owner.
type Sequence struct {
	GUID      string `json:"guid"`
	Name      string `json:"name"`
	Owner     string `json:"owner"`
	Start     int64  `json:"start"`
	Increment int64  `json:"increment"`
	Comment   string `json:"comment,omitempty"`
}

// FullName returns the stable "owner.name" identifier.
func (s *Sequence) FullName() string { return s.Owner + "." + s.Name }

// ForeignKey is the target half of a foreign-key relationship. The source
// half is the map key "sourceTable.sourceColumn" in [Project.ForeignKeys].
type ForeignKey struct {
	TargetTable  string `json:"targetTable"`
	TargetColumn string `json:"targetColumn"`
}

// Relation is one resolved foreign-key relationship between two tables,
// as consumed by the canvas when deriving edges.
type Relation struct {
	SourceTable  string
	SourceColumn string
	TargetTable  string
	TargetColumn string
}

// Settings carries per-project preferences that travel with the file.
type Settings struct {
	Author          string `json:"author,omitempty"`
	OutputDirectory string `json:"outputDirectory,omitempty"`
}

// Project is a complete database design: all entities plus the diagrams laid
// out over them. It is the single owner of schema state; the canvas consumes
// it read-only through [Source].
type Project struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Owners      []string           `json:"owners"`
	Tables      []*Table           `json:"tables"`
	Sequences   []*Sequence        `json:"sequences"`
	Diagrams    []*diagram.Diagram `json:"diagrams"`

	// ForeignKeys maps "sourceTable.sourceColumn" (a three-part key, since
	// table names are themselves "owner.name") to the referenced target.
	ForeignKeys map[string]ForeignKey `json:"foreignKeys"`

	LastActiveDiagram string   `json:"lastActiveDiagram,omitempty"`
	Settings          Settings `json:"settings"`
}

// NewProject creates an empty project with the given name.
func NewProject(name string) *Project {
	return &Project{
		Name:        name,
		ForeignKeys: map[string]ForeignKey{},
	}
}

// NewGUID returns a fresh identifier for a schema entity.
func NewGUID() string { return uuid.NewString() }

// AddTable adds a table to the project. A missing GUID is filled in.
// Returns ErrDuplicateName if an entity with the same full name exists.
func (p *Project) AddTable(t *Table) error {
	if p.Table(t.FullName()) != nil || p.Sequence(t.FullName()) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateName, t.FullName())
	}
	if t.GUID == "" {
		t.GUID = NewGUID()
	}
	p.Tables = append(p.Tables, t)
	return nil
}

// Table returns the table with the given full name, or nil.
func (p *Project) Table(fullName string) *Table {
	for _, t := range p.Tables {
		if t.FullName() == fullName {
			return t
		}
	}
	return nil
}

// RemoveTable removes a table and every foreign key referencing it.
// It reports whether a table was removed.
func (p *Project) RemoveTable(fullName string) bool {
	for i, t := range p.Tables {
		if t.FullName() == fullName {
			p.Tables = append(p.Tables[:i], p.Tables[i+1:]...)
			p.removeForeignKeysFor(fullName)
			return true
		}
	}
	return false
}

func (p *Project) removeForeignKeysFor(table string) {
	for key, fk := range p.ForeignKeys {
		if fk.TargetTable == table || sourceTableOf(key) == table {
			delete(p.ForeignKeys, key)
		}
	}
}

// AddSequence adds a sequence to the project. A missing GUID is filled in.
// Returns ErrDuplicateName if an entity with the same full name exists.
func (p *Project) AddSequence(s *Sequence) error {
	if p.Table(s.FullName()) != nil || p.Sequence(s.FullName()) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateName, s.FullName())
	}
	if s.GUID == "" {
		s.GUID = NewGUID()
	}
	p.Sequences = append(p.Sequences, s)
	return nil
}

// Sequence returns the sequence with the given full name, or nil.
func (p *Project) Sequence(fullName string) *Sequence {
	for _, s := range p.Sequences {
		if s.FullName() == fullName {
			return s
		}
	}
	return nil
}

// RemoveSequence removes a sequence, reporting whether one was removed.
func (p *Project) RemoveSequence(fullName string) bool {
	for i, s := range p.Sequences {
		if s.FullName() == fullName {
			p.Sequences = append(p.Sequences[:i], p.Sequences[i+1:]...)
			return true
		}
	}
	return false
}

// AddForeignKey records a foreign key from sourceTable.sourceColumn to
// targetTable.targetColumn, replacing any previous entry for that source.
func (p *Project) AddForeignKey(sourceTable, sourceColumn, targetTable, targetColumn string) {
	if p.ForeignKeys == nil {
		p.ForeignKeys = map[string]ForeignKey{}
	}
	p.ForeignKeys[sourceTable+"."+sourceColumn] = ForeignKey{
		TargetTable:  targetTable,
		TargetColumn: targetColumn,
	}
}

// RemoveForeignKey deletes the foreign key on sourceTable.sourceColumn,
// reporting whether one existed.
func (p *Project) RemoveForeignKey(sourceTable, sourceColumn string) bool {
	key := sourceTable + "." + sourceColumn
	if _, ok := p.ForeignKeys[key]; !ok {
		return false
	}
	delete(p.ForeignKeys, key)
	return true
}

// Diagram returns the diagram with the given name, or nil.
func (p *Project) Diagram(name string) *diagram.Diagram {
	for _, d := range p.Diagrams {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// AddDiagram appends a diagram to the project.
func (p *Project) AddDiagram(d *diagram.Diagram) {
	p.Diagrams = append(p.Diagrams, d)
}

// RemoveDiagram removes the named diagram, reporting whether one was removed.
func (p *Project) RemoveDiagram(name string) bool {
	for i, d := range p.Diagrams {
		if d.Name == name {
			p.Diagrams = append(p.Diagrams[:i], p.Diagrams[i+1:]...)
			if p.LastActiveDiagram == name {
				p.LastActiveDiagram = ""
			}
			return true
		}
	}
	return false
}

// SetActiveDiagram marks the named diagram active and clears the flag on all
// siblings, so at most one diagram is active at a time.
func (p *Project) SetActiveDiagram(name string) error {
	target := p.Diagram(name)
	if target == nil {
		return fmt.Errorf("%w: %s", ErrUnknownDiagram, name)
	}
	for _, d := range p.Diagrams {
		d.IsActive = false
	}
	target.IsActive = true
	p.LastActiveDiagram = name
	return nil
}

// ActiveDiagram returns the currently active diagram, or nil.
func (p *Project) ActiveDiagram() *diagram.Diagram {
	for _, d := range p.Diagrams {
		if d.IsActive {
			return d
		}
	}
	return nil
}

// sourceTableOf strips the trailing column segment from a foreign-key source
// key ("owner.table.column" → "owner.table").
func sourceTableOf(key string) string {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == '.' {
			return key[:i]
		}
	}
	return key
}
